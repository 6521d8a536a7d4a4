package renderer

import (
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/renderer/vulkan"
)

type RendererBackend interface {
	Initialize() error
	Shutdown() error
	Resized(width, height uint32)
	WaitIdle() error
	DrawFrame(camera vulkan.CameraSource, scene vulkan.SceneIterator, ui vulkan.UIRecorder) error
	UploadMesh(vertices []metadata.Vertex, indices []uint32) (*vulkan.VulkanMesh, error)
	ReplaceMesh(previous *vulkan.VulkanMesh, vertices []metadata.Vertex, indices []uint32) (*vulkan.VulkanMesh, error)
	ReleaseMesh(mesh *vulkan.VulkanMesh) error
	Context() *vulkan.VulkanContext
}

var _ RendererBackend = (*vulkan.VulkanRenderer)(nil)
