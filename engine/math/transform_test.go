package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransformLocalComposesTRS(t *testing.T) {
	tr := TransformFromPositionRotationScale(
		mgl32.Vec3{1, 2, 3},
		mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
		mgl32.Vec3{2, 2, 2},
	)
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, tr.GetLocal())
	// scale to (2,0,0), rotate about Y to (0,0,-2), translate
	assert.InDelta(t, 1.0, p.X(), 1e-5)
	assert.InDelta(t, 2.0, p.Y(), 1e-5)
	assert.InDelta(t, 1.0, p.Z(), 1e-5)
	assert.False(t, tr.IsDirty)

	tr.Translate(mgl32.Vec3{1, 0, 0})
	assert.True(t, tr.IsDirty)
	p = mgl32.TransformCoordinate(mgl32.Vec3{}, tr.GetLocal())
	assert.InDelta(t, 2.0, p.X(), 1e-5)
}

func TestTransformWorldUsesParent(t *testing.T) {
	parent := TransformFromPosition(mgl32.Vec3{0, 10, 0})
	child := TransformFromPosition(mgl32.Vec3{1, 0, 0})
	child.Parent = parent

	p := mgl32.TransformCoordinate(mgl32.Vec3{}, child.GetWorld())
	assert.Equal(t, mgl32.Vec3{1, 10, 0}, p)

	var nilTransform *Transform
	assert.Equal(t, mgl32.Ident4(), nilTransform.GetWorld())
}

func TestExtents(t *testing.T) {
	e := EmptyExtents()
	assert.True(t, e.IsEmpty())

	e.Expand(mgl32.Vec3{-1, 0, 2})
	e.Expand(mgl32.Vec3{1, 4, -2})
	assert.False(t, e.IsEmpty())
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, e.Center())
	assert.Equal(t, mgl32.Vec3{2, 4, 4}, e.Size())

	moved := e.Transform(mgl32.Translate3D(10, 0, 0))
	assert.Equal(t, mgl32.Vec3{9, 0, -2}, moved.Min)
	assert.Equal(t, mgl32.Vec3{11, 4, 2}, moved.Max)

	u := EmptyExtents()
	u.Union(EmptyExtents())
	assert.True(t, u.IsEmpty())
	u.Union(e)
	assert.Equal(t, e, u)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 0, 5))
	assert.Equal(t, float32(0.1), Clamp(float32(-3), 0.1, 1))
	assert.Equal(t, uint32(3), Clamp(uint32(3), 1, 4))
}
