package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func assertVecNear(t *testing.T, want, got Vec) {
	t.Helper()
	if assert.Equal(t, want.Dim(), got.Dim()) {
		for i := range want {
			assert.InDelta(t, want[i], got[i], eps, "component %d", i)
		}
	}
}

func TestAddSubtractRoundTrip(t *testing.T) {
	pairs := [][2]Vec{
		{V(1, 2), V(3, 4)},
		{V(-1.5, 0.25, 9), V(100, -3, 0.5)},
		{V(0), V(7)},
	}
	for _, p := range pairs {
		assertVecNear(t, p[0], Subtract(Add(p[0], p[1]), p[1]))
	}
}

func TestDimensionMismatchIsSoft(t *testing.T) {
	a := V(1, 2)
	b := V(1, 2, 3)

	assertVecNear(t, V(0, 0), Add(a, b))
	assertVecNear(t, V(0, 0, 0), Subtract(b, a))
	assert.Zero(t, Dot(a, b))

	a.Add(b)
	a.Subtract(b)
	a.Copy(b)
	assertVecNear(t, V(1, 2), a)
}

func TestNormalizeAndMagnitude(t *testing.T) {
	for _, v := range []Vec{V(3, 4), V(-2, 0, 1), V(0.001, 5)} {
		n := Normalize(v)
		assert.InDelta(t, 1, n.Mag(), eps)
	}
	assert.InDelta(t, 5, V(3, 4).Mag(), eps)

	v := V(3, 4)
	v.SetMag(10)
	assertVecNear(t, V(6, 8), v)

	v.Limit(5)
	assertVecNear(t, V(3, 4), v)
	v.Limit(50)
	assertVecNear(t, V(3, 4), v)
}

func TestNormalizeZeroVectorIsNotTrapped(t *testing.T) {
	n := Normalize(V(0, 0))
	assert.True(t, math.IsNaN(n[0]))
}

func TestRotate(t *testing.T) {
	assertVecNear(t, V(0, 1), Rotate(V(1, 0), math.Pi/2))
	assertVecNear(t, V(-1, 0), RotateDeg(V(0, 1), 90))

	v := V(2, -7, 5)
	for _, theta := range []float64{0.3, -1.2, math.Pi, 4} {
		assertVecNear(t, v, Rotate(Rotate(v, theta), -theta))
	}

	// only the XY plane turns
	assert.Equal(t, 5.0, Rotate(v, 1)[2])
}

func TestAngleAndComponents(t *testing.T) {
	assert.InDelta(t, math.Pi/2, V(0, 3).Angle(), eps)
	assert.Zero(t, V(1).Angle())

	v := NewVec(3)
	v.SetComponent(2, 4)
	v.IncrementComponent(2, 1)
	v.SetComponent(9, 1)
	assert.Equal(t, 5.0, v.Component(2))
	assert.Zero(t, v.Component(-1))
	assert.Equal(t, "[0, 0, 5]", v.String())
}

func TestFreeFunctionsDoNotMutate(t *testing.T) {
	v := V(1, 1)
	_ = Scale(v, 3)
	_ = Normalize(v)
	_ = Rotate(v, 1)
	assertVecNear(t, V(1, 1), v)
}
