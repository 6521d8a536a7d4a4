package vulkan

import (
	"math"

	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
	emath "github.com/spaghettifunk/meshview/engine/math"
)

type VulkanSwapchain struct {
	ImageFormat vk.SurfaceFormat
	PresentMode vk.PresentMode
	Extent      vk.Extent2D
	Handle      vk.Swapchain
	ImageCount  uint32
	Images      []vk.Image
	Views       []vk.ImageView

	DepthAttachment *VulkanImage

	// framebuffers used for on-screen rendering, one per image.
	Framebuffers []*VulkanFramebuffer
}

// SwapchainChooseSurfaceFormat prefers B8G8R8A8_SRGB in the sRGB non-linear
// color space and otherwise takes the first format offered.
func SwapchainChooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, format := range formats {
		if format.Format == vk.FormatB8g8r8a8Srgb && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return format
		}
	}
	return formats[0]
}

func SwapchainChoosePresentMode(modes []vk.PresentMode, preferMailbox bool) vk.PresentMode {
	if preferMailbox {
		for _, mode := range modes {
			if mode == vk.PresentModeMailbox {
				return mode
			}
		}
	}
	// FIFO is always available.
	return vk.PresentModeFifo
}

func SwapchainChooseExtent(capabilities *vk.SurfaceCapabilities, width, height uint32) vk.Extent2D {
	if capabilities.CurrentExtent.Width != math.MaxUint32 {
		return capabilities.CurrentExtent
	}
	// Clamp to the value allowed by the GPU.
	minExtent := capabilities.MinImageExtent
	maxExtent := capabilities.MaxImageExtent
	return vk.Extent2D{
		Width:  emath.Clamp(width, minExtent.Width, maxExtent.Width),
		Height: emath.Clamp(height, minExtent.Height, maxExtent.Height),
	}
}

func SwapchainChooseImageCount(capabilities *vk.SurfaceCapabilities) uint32 {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

/**
 * @brief Creates the swapchain, its views, the depth attachment and one
 * framebuffer per image against the main render pass. On failure every
 * partially created object is destroyed.
 */
func SwapchainCreate(context *VulkanContext) (*VulkanSwapchain, error) {
	support, err := DeviceQuerySwapchainSupport(context, context.Device.PhysicalDevice)
	if err != nil {
		return nil, err
	}
	if len(support.Formats) == 0 || len(support.PresentModes) == 0 {
		return nil, errors.New("surface reports no formats or present modes")
	}
	context.Device.SwapchainSupport = support
	capabilities := &support.Capabilities

	width, height := context.Window.FramebufferSize()
	swapchain := &VulkanSwapchain{
		ImageFormat: SwapchainChooseSurfaceFormat(support.Formats),
		PresentMode: SwapchainChoosePresentMode(support.PresentModes, context.PreferMailbox),
		Extent:      SwapchainChooseExtent(capabilities, width, height),
	}
	if context.MainRenderpass != nil && swapchain.ImageFormat.Format != context.MainRenderpass.ColorFormat {
		return nil, errors.Wrapf(core.ErrSurfaceFormatChanged, "surface format %d does not match render pass format %d",
			swapchain.ImageFormat.Format, context.MainRenderpass.ColorFormat)
	}
	imageCount := SwapchainChooseImageCount(capabilities)

	swapchainCreateInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          context.Surface,
		MinImageCount:    imageCount,
		ImageFormat:      swapchain.ImageFormat.Format,
		ImageColorSpace:  swapchain.ImageFormat.ColorSpace,
		ImageExtent:      swapchain.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      swapchain.PresentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}

	// Setup the queue family indices
	if context.Device.GraphicsQueueIndex != context.Device.PresentQueueIndex {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeConcurrent
		swapchainCreateInfo.QueueFamilyIndexCount = 2
		swapchainCreateInfo.PQueueFamilyIndices = []uint32{
			uint32(context.Device.GraphicsQueueIndex),
			uint32(context.Device.PresentQueueIndex),
		}
	} else {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	device := context.Device.LogicalDevice
	handle, res := context.Driver.CreateSwapchain(device, &swapchainCreateInfo)
	if err := VulkanResultError(res, "vkCreateSwapchainKHR"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	swapchain.Handle = handle

	// Images
	images, res := context.Driver.GetSwapchainImages(device, handle)
	if err := VulkanResultError(res, "vkGetSwapchainImagesKHR"); err != nil {
		core.LogError(err.Error())
		swapchain.destroy(context)
		return nil, err
	}
	swapchain.Images = images
	swapchain.ImageCount = uint32(len(images))

	// Views
	swapchain.Views = make([]vk.ImageView, 0, swapchain.ImageCount)
	for _, image := range images {
		view, err := createImageView(context, image, swapchain.ImageFormat.Format, vk.ImageAspectFlags(vk.ImageAspectColorBit))
		if err != nil {
			swapchain.destroy(context)
			return nil, err
		}
		swapchain.Views = append(swapchain.Views, view)
	}

	// Create depth image and its view.
	depthAttachment, err := ImageCreate(
		context,
		swapchain.Extent.Width,
		swapchain.Extent.Height,
		context.Device.DepthFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectDepthBit))
	if err != nil {
		swapchain.destroy(context)
		return nil, errors.Wrap(err, "creating depth attachment")
	}
	swapchain.DepthAttachment = depthAttachment

	if context.MainRenderpass != nil {
		if err := swapchain.createFramebuffers(context, context.MainRenderpass); err != nil {
			swapchain.destroy(context)
			return nil, err
		}
	}

	core.LogInfo("Swapchain created successfully (%dx%d, %d images).", swapchain.Extent.Width, swapchain.Extent.Height, swapchain.ImageCount)
	return swapchain, nil
}

func (vs *VulkanSwapchain) createFramebuffers(context *VulkanContext, renderpass *VulkanRenderpass) error {
	vs.Framebuffers = make([]*VulkanFramebuffer, 0, vs.ImageCount)
	for i := uint32(0); i < vs.ImageCount; i++ {
		attachments := []vk.ImageView{vs.Views[i], vs.DepthAttachment.View}
		framebuffer, err := FramebufferCreate(context, renderpass, vs.Extent.Width, vs.Extent.Height, attachments)
		if err != nil {
			return err
		}
		vs.Framebuffers = append(vs.Framebuffers, framebuffer)
	}
	return nil
}

/**
 * @brief Destroys vs (which may be nil) and builds a new swapchain. Blocks
 * while the window is minimized. The returned swapchain is nil on error.
 */
func (vs *VulkanSwapchain) Recreate(context *VulkanContext) (*VulkanSwapchain, error) {
	width, height := context.Window.FramebufferSize()
	for width == 0 || height == 0 {
		if context.Window.ShouldClose() {
			return vs, core.ErrWindowClosing
		}
		context.Window.WaitEvents()
		width, height = context.Window.FramebufferSize()
	}
	if context.Window.ShouldClose() {
		return vs, core.ErrWindowClosing
	}

	if err := VulkanResultError(context.Driver.DeviceWaitIdle(context.Device.LogicalDevice), "vkDeviceWaitIdle"); err != nil {
		return vs, err
	}
	if vs != nil {
		vs.destroy(context)
	}

	swapchain, err := SwapchainCreate(context)
	if err != nil {
		core.LogError("swapchain recreation failed: %s", err)
		return nil, err
	}
	return swapchain, nil
}

func (vs *VulkanSwapchain) SwapchainDestroy(context *VulkanContext) {
	vs.destroy(context)
}

/**
 * @brief Returns the index of the next image, or the raw result when the
 * acquire did not succeed. Suboptimal is reported as success.
 */
func (vs *VulkanSwapchain) AcquireNextImageIndex(context *VulkanContext, timeoutNS uint64, imageAvailableSemaphore vk.Semaphore, fence vk.Fence) (uint32, vk.Result) {
	return context.Driver.AcquireNextImage(context.Device.LogicalDevice, vs.Handle, timeoutNS, imageAvailableSemaphore, fence)
}

// Present returns the image to the swapchain for presentation.
func (vs *VulkanSwapchain) Present(context *VulkanContext, presentQueue vk.Queue, renderCompleteSemaphore vk.Semaphore, presentImageIndex uint32) vk.Result {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderCompleteSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{vs.Handle},
		PImageIndices:      []uint32{presentImageIndex},
	}
	return context.Driver.QueuePresent(presentQueue, &presentInfo)
}

// destroy tears down framebuffers, then depth, then views, then the swapchain.
func (vs *VulkanSwapchain) destroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	for _, framebuffer := range vs.Framebuffers {
		framebuffer.Destroy(context)
	}
	vs.Framebuffers = nil

	if vs.DepthAttachment != nil {
		ImageDestroy(context, vs.DepthAttachment)
		vs.DepthAttachment = nil
	}

	// Only destroy the views, not the images, since those are owned by the swapchain and are thus
	// destroyed when it is.
	for _, view := range vs.Views {
		context.Driver.DestroyImageView(device, view)
	}
	vs.Views = nil
	vs.Images = nil
	vs.ImageCount = 0

	if vs.Handle != vk.NullSwapchain {
		context.Driver.DestroySwapchain(device, vs.Handle)
		vs.Handle = vk.NullSwapchain
	}
}
