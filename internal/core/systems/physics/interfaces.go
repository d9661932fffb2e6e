package physics

// Lightweight physics abstractions shared by the collision and rendering code.

// Vector2 represents anything with a 2D position.
type Vector2 interface {
	X() float64
	Y() float64
}

// Box is an axis-aligned bounding box in world units. The origin is the
// top-left corner and Y grows downwards.
type Box interface {
	Bounds() Rect
}
