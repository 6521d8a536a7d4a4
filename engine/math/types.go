package math

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min mgl32.Vec3
	/** @brief The maximum extents of the object. */
	Max mgl32.Vec3
}

// EmptyExtents returns inverted extents so the first Expand sets both corners.
func EmptyExtents() Extents3D {
	inf := float32(stdmath.Inf(1))
	return Extents3D{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func (e Extents3D) IsEmpty() bool {
	return e.Min.X() > e.Max.X() || e.Min.Y() > e.Max.Y() || e.Min.Z() > e.Max.Z()
}

func (e *Extents3D) Expand(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		e.Min[i] = min(e.Min[i], p[i])
		e.Max[i] = max(e.Max[i], p[i])
	}
}

func (e *Extents3D) Union(o Extents3D) {
	if o.IsEmpty() {
		return
	}
	e.Expand(o.Min)
	e.Expand(o.Max)
}

func (e Extents3D) Center() mgl32.Vec3 {
	return e.Min.Add(e.Max).Mul(0.5)
}

func (e Extents3D) Size() mgl32.Vec3 {
	return e.Max.Sub(e.Min)
}

// Transform returns the axis aligned extents of the eight transformed corners.
func (e Extents3D) Transform(m mgl32.Mat4) Extents3D {
	out := EmptyExtents()
	if e.IsEmpty() {
		return out
	}
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{e.Min.X(), e.Min.Y(), e.Min.Z()}
		if i&1 != 0 {
			c[0] = e.Max.X()
		}
		if i&2 != 0 {
			c[1] = e.Max.Y()
		}
		if i&4 != 0 {
			c[2] = e.Max.Z()
		}
		out.Expand(mgl32.TransformCoordinate(c, m))
	}
	return out
}
