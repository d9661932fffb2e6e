package physics

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Overlaps is the open-interval AABB test: boxes that only share an edge do
// not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X &&
		r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Contains reports whether the point lies strictly inside r.
func (r Rect) Contains(x, y float64) bool {
	return x > r.X && x < r.Right() && y > r.Y && y < r.Bottom()
}

// Center returns the midpoint of r.
func (r Rect) Center() Vec {
	return V(r.X+r.W/2, r.Y+r.H/2)
}

// Overlapping applies the overlap test in both directions.
func Overlapping(a, b Box) bool {
	ra, rb := a.Bounds(), b.Bounds()
	return ra.Overlaps(rb) && rb.Overlaps(ra)
}
