package models

import (
	"math"

	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

// Face names one edge of an axis-aligned box.
type Face uint8

const (
	FaceNone Face = iota
	FaceLeft
	FaceRight
	FaceTop
	FaceBottom
)

func (f Face) String() string {
	switch f {
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	default:
		return "none"
	}
}

// CollisionBuffer describes one examined pair for the duration of a single
// resolution step.
//
// Obj1Side and Obj2Side hold the struck edge of each object as a tangent
// vector whose length is that edge's length: left (0,-h), right (0,+h),
// top (+w,0), bottom (-w,0). Exactly one component is non-zero unless the
// object has no extent along that edge.
type CollisionBuffer struct {
	Obj1, Obj2         *Entity
	Obj1Heading        physics.Vec
	Obj2Heading        physics.Vec
	Obj1Side, Obj2Side physics.Vec
}

// NewCollisionBuffer picks the colliding faces by the smallest gap between
// opposing edges. It does not test for overlap.
func NewCollisionBuffer(obj1, obj2 *Entity) *CollisionBuffer {
	buf := &CollisionBuffer{
		Obj1:        obj1,
		Obj2:        obj2,
		Obj1Heading: obj1.Forward().Clone(),
		Obj2Heading: obj2.Forward().Clone(),
		Obj1Side:    physics.NewVec(2),
		Obj2Side:    physics.NewVec(2),
	}

	a, b := obj1.Bounds(), obj2.Bounds()

	lr := math.Abs(a.X - b.Right())
	rl := math.Abs(a.Right() - b.X)
	tb := math.Abs(a.Y - b.Bottom())
	bt := math.Abs(a.Bottom() - b.Y)

	horizontal, left := rl, false
	if lr < rl {
		horizontal, left = lr, true
	}
	vertical, top := bt, false
	if tb < bt {
		vertical, top = tb, true
	}

	switch {
	case horizontal < vertical && left:
		buf.Obj1Side[1] = -a.H
		buf.Obj2Side[1] = b.H
	case horizontal < vertical:
		buf.Obj1Side[1] = a.H
		buf.Obj2Side[1] = -b.H
	case top:
		buf.Obj1Side[0] = a.W
		buf.Obj2Side[0] = -b.W
	default:
		buf.Obj1Side[0] = -a.W
		buf.Obj2Side[0] = b.W
	}

	return buf
}

// Face1 is the edge of Obj1 that was struck.
func (b *CollisionBuffer) Face1() Face { return SideFace(b.Obj1Side) }

// Face2 is the edge of Obj2 that was struck.
func (b *CollisionBuffer) Face2() Face { return SideFace(b.Obj2Side) }

// Other returns the entity on the opposite side of the pair from e, or nil
// when e is not part of it.
func (b *CollisionBuffer) Other(e *Entity) *Entity {
	switch e {
	case b.Obj1:
		return b.Obj2
	case b.Obj2:
		return b.Obj1
	default:
		return nil
	}
}

// SideFace decodes a collided-side vector.
func SideFace(side physics.Vec) Face {
	switch {
	case side.Component(1) < 0:
		return FaceLeft
	case side.Component(1) > 0:
		return FaceRight
	case side.Component(0) > 0:
		return FaceTop
	case side.Component(0) < 0:
		return FaceBottom
	default:
		return FaceNone
	}
}
