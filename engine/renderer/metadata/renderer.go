package metadata

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief Per frame uniform block bound at set 0 binding 0.
 * Layout matches std140: two mat4 followed by two vec4.
 */
type GlobalUniformObject struct {
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	LightDirection mgl32.Vec4
	CameraPosition mgl32.Vec4
}

const GlobalUniformObjectSize = uint64(unsafe.Sizeof(GlobalUniformObject{}))

// Directional light, w is 0.
var DefaultLightDirection = mgl32.Vec4{0.5, -1.0, 0.3, 0.0}

/** @brief Push constant block for the mesh pipeline, vertex stage only. */
type MeshPushConstants struct {
	Model mgl32.Mat4
}

const MeshPushConstantsSize = uint32(unsafe.Sizeof(MeshPushConstants{}))

/** @brief Push constant block for the overlay pipeline: screen rect in NDC. */
type OverlayPushConstants struct {
	Rect mgl32.Vec4
}

const OverlayPushConstantsSize = uint32(unsafe.Sizeof(OverlayPushConstants{}))
