package vulkan

import (
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
)

// Window is the presentation surface owner the renderer draws into.
type Window interface {
	// FramebufferSize is the drawable size in pixels. Zero while minimized.
	FramebufferSize() (uint32, uint32)
	// WaitEvents blocks until the windowing system delivers an event.
	WaitEvents()
	ShouldClose() bool
	CreateSurface(instance vk.Instance) (vk.Surface, error)
	RequiredInstanceExtensions() []string
}

type VulkanContext struct {
	Driver Driver
	Window Window

	Instance vk.Instance
	Surface  vk.Surface

	debugMessenger vk.DebugReportCallback

	Device *VulkanDevice

	Swapchain      *VulkanSwapchain
	MainRenderpass *VulkanRenderpass

	// Requests mailbox presentation when the surface offers it.
	PreferMailbox bool

	// Slot and swapchain image of the frame being recorded.
	CurrentFrame uint32
	ImageIndex   uint32
}

func NewVulkanContext(driver Driver, window Window) *VulkanContext {
	return &VulkanContext{
		Driver: driver,
		Window: window,
	}
}

func (vc *VulkanContext) FindMemoryIndex(typeFilter uint32, propertyFlags vk.MemoryPropertyFlags) int32 {
	memoryProperties := vc.Driver.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice)
	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		// Check each memory type to see if its bit is set to 1.
		if (typeFilter&(1<<i)) != 0 && (memoryProperties.MemoryTypes[i].PropertyFlags&propertyFlags) == propertyFlags {
			return int32(i)
		}
	}
	core.LogWarn("Unable to find suitable memory type!")
	return -1
}

/**
 * @brief Records commands into a transient command buffer, submits it to the graphics
 * queue and blocks until the queue is idle. The command buffer is freed on every path.
 */
func (vc *VulkanContext) SubmitOneShot(record func(cb *VulkanCommandBuffer) error) error {
	pool := vc.Device.GraphicsCommandPool
	cb, err := AllocateAndBeginSingleUse(vc, pool)
	if err != nil {
		return err
	}
	if err := record(cb); err != nil {
		cb.Free(vc, pool)
		return errors.Wrap(err, "recording one-shot commands")
	}
	return cb.EndSingleUse(vc, pool, vc.Device.GraphicsQueue)
}
