package renderer

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/renderer/vulkan"
)

type RendererType uint8

const (
	Vulkan RendererType = iota
)

// Surface is the window the renderer presents to.
type Surface interface {
	vulkan.Window
	// GetInstanceProcAddress is the loader entry point exposed by the window system.
	GetInstanceProcAddress() unsafe.Pointer
}

/**
 * @brief The frontend the engine and systems talk to. It owns the backend
 * and hides the graphics API behind mesh handles.
 */
type Renderer struct {
	backend RendererBackend
}

func New(rendererType RendererType, surface Surface, config vulkan.VulkanRendererConfig) (*Renderer, error) {
	switch rendererType {
	case Vulkan:
		driver, err := vulkan.NewVulkanDriver(surface.GetInstanceProcAddress())
		if err != nil {
			return nil, err
		}
		return NewWithBackend(vulkan.New(surface, driver, config)), nil
	}
	return nil, errors.Newf("unsupported renderer type %d", rendererType)
}

func NewWithBackend(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize() error {
	if err := r.backend.Initialize(); err != nil {
		core.LogError("Renderer backend failed to initialize: %s", err)
		return err
	}
	core.LogInfo("Renderer initialized.")
	return nil
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

// WaitIdle must precede destroying anything a frame in flight may still use.
func (r *Renderer) WaitIdle() error {
	return r.backend.WaitIdle()
}

func (r *Renderer) OnResize(width, height uint32) {
	r.backend.Resized(width, height)
}

func (r *Renderer) DrawFrame(camera vulkan.CameraSource, scene vulkan.SceneIterator, ui vulkan.UIRecorder) error {
	if err := r.backend.DrawFrame(camera, scene, ui); err != nil {
		core.LogError("DrawFrame failed: %s", err)
		return err
	}
	return nil
}

func (r *Renderer) UploadMesh(data *metadata.MeshData) (*vulkan.VulkanMesh, error) {
	if data.IsEmpty() {
		return nil, core.ErrEmptyMesh
	}
	return r.backend.UploadMesh(data.Vertices, data.Indices)
}

// ReplaceMesh swaps previous for new geometry. An empty data set still destroys
// previous. On error the returned mesh is previous only if it was kept alive.
func (r *Renderer) ReplaceMesh(previous *vulkan.VulkanMesh, data *metadata.MeshData) (*vulkan.VulkanMesh, error) {
	if data == nil {
		data = &metadata.MeshData{}
	}
	return r.backend.ReplaceMesh(previous, data.Vertices, data.Indices)
}

func (r *Renderer) ReleaseMesh(mesh *vulkan.VulkanMesh) error {
	return r.backend.ReleaseMesh(mesh)
}

func (r *Renderer) Context() *vulkan.VulkanContext {
	return r.backend.Context()
}
