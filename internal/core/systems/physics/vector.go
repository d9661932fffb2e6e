package physics

import (
	"math"
	"strconv"
	"strings"
)

var _ Vector2 = Vec(nil)

// Vec is a fixed-dimension vector of float64 components.
//
// Operations between vectors of different dimension never fail: mutating
// methods leave the receiver untouched and the free functions return a zero
// vector with the dimension of the left operand. Normalising a zero vector is
// not trapped and yields NaN components.
type Vec []float64

// NewVec returns a zero vector with n components.
func NewVec(n int) Vec {
	if n < 0 {
		n = 0
	}
	return make(Vec, n)
}

// V builds a vector from explicit components.
func V(components ...float64) Vec {
	v := make(Vec, len(components))
	copy(v, components)
	return v
}

// Clone returns an independent copy of v.
func (v Vec) Clone() Vec {
	return V(v...)
}

func (v Vec) Dim() int { return len(v) }

// SameDim reports whether v and o have the same number of components.
func (v Vec) SameDim(o Vec) bool { return len(v) == len(o) }

// Component returns the i-th component, or 0 when i is out of range.
func (v Vec) Component(i int) float64 {
	if i < 0 || i >= len(v) {
		return 0
	}
	return v[i]
}

func (v Vec) SetComponent(i int, val float64) {
	if i < 0 || i >= len(v) {
		return
	}
	v[i] = val
}

func (v Vec) IncrementComponent(i int, delta float64) {
	if i < 0 || i >= len(v) {
		return
	}
	v[i] += delta
}

func (v Vec) X() float64 { return v.Component(0) }
func (v Vec) Y() float64 { return v.Component(1) }

// Copy overwrites v with the components of o.
func (v Vec) Copy(o Vec) {
	if !v.SameDim(o) {
		return
	}
	copy(v, o)
}

func (v Vec) Mag() float64 {
	var sumSq float64
	for _, c := range v {
		sumSq += c * c
	}
	return math.Sqrt(sumSq)
}

func (v Vec) Normalize() {
	mag := v.Mag()
	for i := range v {
		v[i] /= mag
	}
}

// SetMag keeps the direction of v and rescales it to mag.
func (v Vec) SetMag(mag float64) {
	v.Normalize()
	v.Scale(mag)
}

// Limit caps the magnitude of v.
func (v Vec) Limit(limit float64) {
	if v.Mag() > limit {
		v.SetMag(limit)
	}
}

// Angle is the angle in radians from the positive X axis.
func (v Vec) Angle() float64 {
	if len(v) < 2 {
		return 0
	}
	return math.Atan2(v[1], v[0])
}

func (v Vec) Add(o Vec) {
	if !v.SameDim(o) {
		return
	}
	for i := range v {
		v[i] += o[i]
	}
}

func (v Vec) Subtract(o Vec) {
	if !v.SameDim(o) {
		return
	}
	for i := range v {
		v[i] -= o[i]
	}
}

func (v Vec) Scale(factor float64) {
	for i := range v {
		v[i] *= factor
	}
}

// Dot returns the scalar product, or 0 on a dimension mismatch.
func (v Vec) Dot(o Vec) float64 {
	if !v.SameDim(o) {
		return 0
	}
	var prod float64
	for i := range v {
		prod += v[i] * o[i]
	}
	return prod
}

// Rotate turns components 0 and 1 by rad; higher components are untouched.
func (v Vec) Rotate(rad float64) {
	if len(v) < 2 {
		return
	}
	sin, cos := math.Sincos(rad)
	x, y := v[0], v[1]
	v[0] = cos*x - sin*y
	v[1] = sin*x + cos*y
}

func (v Vec) RotateDeg(deg float64) {
	v.Rotate(deg * math.Pi / 180)
}

func (v Vec) String() string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Free-function variants. None of them mutate their arguments.

func Add(v1, v2 Vec) Vec {
	if !v1.SameDim(v2) {
		return NewVec(len(v1))
	}
	sum := v1.Clone()
	sum.Add(v2)
	return sum
}

func Subtract(v1, v2 Vec) Vec {
	if !v1.SameDim(v2) {
		return NewVec(len(v1))
	}
	diff := v1.Clone()
	diff.Subtract(v2)
	return diff
}

func Scale(v Vec, factor float64) Vec {
	out := v.Clone()
	out.Scale(factor)
	return out
}

func Dot(v1, v2 Vec) float64 {
	return v1.Dot(v2)
}

func Normalize(v Vec) Vec {
	out := v.Clone()
	out.Normalize()
	return out
}

func SetMag(v Vec, mag float64) Vec {
	out := v.Clone()
	out.SetMag(mag)
	return out
}

func Limit(v Vec, limit float64) Vec {
	out := v.Clone()
	out.Limit(limit)
	return out
}

func Rotate(v Vec, rad float64) Vec {
	out := v.Clone()
	out.Rotate(rad)
	return out
}

func RotateDeg(v Vec, deg float64) Vec {
	out := v.Clone()
	out.RotateDeg(deg)
	return out
}
