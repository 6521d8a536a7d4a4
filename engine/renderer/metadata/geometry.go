package metadata

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/math"
)

/**
 * @brief Interleaved vertex layout consumed by the mesh pipeline.
 * Attribute locations: 0 position, 1 normal, 2 texcoord, 3 color.
 */
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	Color    mgl32.Vec3
}

const VertexSize = uint32(unsafe.Sizeof(Vertex{}))

// Byte offsets of each attribute inside Vertex.
var (
	VertexPositionOffset = uint32(unsafe.Offsetof(Vertex{}.Position))
	VertexNormalOffset   = uint32(unsafe.Offsetof(Vertex{}.Normal))
	VertexTexCoordOffset = uint32(unsafe.Offsetof(Vertex{}.TexCoord))
	VertexColorOffset    = uint32(unsafe.Offsetof(Vertex{}.Color))
)

// MeshData is CPU side geometry produced by the model loader.
type MeshData struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Extents  math.Extents3D
}

func (m *MeshData) IsEmpty() bool {
	return m == nil || len(m.Vertices) == 0 || len(m.Indices) == 0
}

// VertexBytes views the vertex slice as raw bytes without copying.
func VertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*int(VertexSize))
}

// IndexBytes views the index slice as raw bytes without copying.
func IndexBytes(indices []uint32) []byte {
	if len(indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*4)
}
