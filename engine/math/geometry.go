package math

import "github.com/go-gl/mathgl/mgl32"

/**
 * @brief Smooth vertex normals for an indexed triangle list. Each triangle
 * adds its unnormalized face normal to its three corners, so larger faces
 * weigh more. Vertices touched only by degenerate triangles get a zero
 * vector; callers decide the fallback.
 */
func GenerateNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]

		edge1 := positions[i1].Sub(positions[i0])
		edge2 := positions[i2].Sub(positions[i0])
		face := edge1.Cross(edge2)

		normals[i0] = normals[i0].Add(face)
		normals[i1] = normals[i1].Add(face)
		normals[i2] = normals[i2].Add(face)
	}
	for i, n := range normals {
		if l := n.Len(); l > K_FLOAT_EPSILON {
			normals[i] = n.Mul(1 / l)
		} else {
			normals[i] = mgl32.Vec3{}
		}
	}
	return normals
}
