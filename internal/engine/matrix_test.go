package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_IsIdentity(t *testing.T) {
	assert.True(t, Identity().IsIdentity())
}

func TestMatrix_ApplyTranslation(t *testing.T) {
	m := Translation(10, 20)
	x, y := m.Apply(1, 1)
	assert.Equal(t, 11.0, x)
	assert.Equal(t, 21.0, y)
}

func TestMatrix_ApplyVectorIgnoresTranslation(t *testing.T) {
	m := Translation(10, 20)
	x, y := m.ApplyVector(1, 1)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 1.0, y)
}

func TestMatrix_ConcatWithIdentityIsNoOp(t *testing.T) {
	m := Translation(5, 7)
	assert.Equal(t, m, Identity().Concat(m))
	assert.Equal(t, m, m.Concat(Identity()))
}

func TestMatrix_ConcatComposesTransformationsInOrder(t *testing.T) {
	// Scale by 2 then translate by (10, 0): a point at (1,1) in the child's
	// coordinate frame scales to (2,2) then translates to (12, 2).
	ctm := Translation(10, 0)
	child := Scaling(2, 2)
	composed := ctm.Concat(child)

	x, y := composed.Apply(1, 1)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 2.0, y)
}

func TestMatrix_RotationQuarterTurn(t *testing.T) {
	m := Rotation(math.Pi / 2)
	x, y := m.Apply(1, 0)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 1.0, y, 1e-9)
}

func TestMatrix_CloneIsValueCopy(t *testing.T) {
	m := Translation(1, 2)
	c := m.Clone()
	assert.Equal(t, m, c)
}
