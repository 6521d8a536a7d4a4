package vulkan

import (
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
)

type VulkanImage struct {
	Handle vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
	Width  uint32
	Height uint32
	Format vk.Format
}

/**
 * @brief Creates a 2D optimal tiled image with its own memory allocation and,
 * optionally, a view covering the given aspect.
 */
func ImageCreate(context *VulkanContext, width, height uint32, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags,
	memoryFlags vk.MemoryPropertyFlags, createView bool, viewAspectFlags vk.ImageAspectFlags) (*VulkanImage, error) {
	outImage := &VulkanImage{
		Width:  width,
		Height: height,
		Format: format,
	}
	device := context.Device.LogicalDevice

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         usage,
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
	}
	handle, res := context.Driver.CreateImage(device, &imageCreateInfo)
	if err := VulkanResultError(res, "vkCreateImage"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	outImage.Handle = handle

	requirements := context.Driver.GetImageMemoryRequirements(device, handle)
	memoryType := context.FindMemoryIndex(requirements.MemoryTypeBits, memoryFlags)
	if memoryType == -1 {
		ImageDestroy(context, outImage)
		err := errors.New("required memory type not found, image not valid")
		core.LogError(err.Error())
		return nil, err
	}

	memoryAllocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(memoryType),
	}
	memory, res := context.Driver.AllocateMemory(device, &memoryAllocateInfo)
	if err := VulkanResultError(res, "vkAllocateMemory"); err != nil {
		ImageDestroy(context, outImage)
		core.LogError(err.Error())
		return nil, err
	}
	outImage.Memory = memory

	if err := VulkanResultError(context.Driver.BindImageMemory(device, handle, memory, 0), "vkBindImageMemory"); err != nil {
		ImageDestroy(context, outImage)
		core.LogError(err.Error())
		return nil, err
	}

	if createView {
		if err := ImageViewCreate(context, format, outImage, viewAspectFlags); err != nil {
			ImageDestroy(context, outImage)
			return nil, err
		}
	}
	return outImage, nil
}

func ImageViewCreate(context *VulkanContext, format vk.Format, image *VulkanImage, aspectFlags vk.ImageAspectFlags) error {
	view, err := createImageView(context, image.Handle, format, aspectFlags)
	if err != nil {
		return err
	}
	image.View = view
	return nil
}

func createImageView(context *VulkanContext, image vk.Image, format vk.Format, aspectFlags vk.ImageAspectFlags) (vk.ImageView, error) {
	viewCreateInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspectFlags,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	view, res := context.Driver.CreateImageView(context.Device.LogicalDevice, &viewCreateInfo)
	if err := VulkanResultError(res, "vkCreateImageView"); err != nil {
		core.LogError(err.Error())
		return vk.NullImageView, err
	}
	return view, nil
}

// ImageTransitionLayout records a barrier moving a color image between the
// upload layouts.
func ImageTransitionLayout(context *VulkanContext, cb *VulkanCommandBuffer, image *VulkanImage, oldLayout, newLayout vk.ImageLayout) error {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: uint32(context.Device.GraphicsQueueIndex),
		DstQueueFamilyIndex: uint32(context.Device.GraphicsQueueIndex),
		Image:               image.Handle,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	var sourceStage, destStage vk.PipelineStageFlags
	switch {
	case oldLayout == vk.ImageLayoutUndefined && newLayout == vk.ImageLayoutTransferDstOptimal:
		barrier.SrcAccessMask = 0
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
		sourceStage = vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
		destStage = vk.PipelineStageFlags(vk.PipelineStageTransferBit)
	case oldLayout == vk.ImageLayoutTransferDstOptimal && newLayout == vk.ImageLayoutShaderReadOnlyOptimal:
		barrier.SrcAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessShaderReadBit)
		sourceStage = vk.PipelineStageFlags(vk.PipelineStageTransferBit)
		destStage = vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit)
	default:
		err := errors.Newf("unsupported layout transition %d -> %d", oldLayout, newLayout)
		core.LogError(err.Error())
		return err
	}

	context.Driver.CmdPipelineBarrier(cb.Handle, sourceStage, destStage, []vk.ImageMemoryBarrier{barrier})
	return nil
}

func ImageCopyFromBuffer(context *VulkanContext, image *VulkanImage, buffer vk.Buffer, cb *VulkanCommandBuffer) {
	region := vk.BufferImageCopy{
		BufferOffset:      0,
		BufferRowLength:   0,
		BufferImageHeight: 0,
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			MipLevel:       0,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
		ImageExtent: vk.Extent3D{
			Width:  image.Width,
			Height: image.Height,
			Depth:  1,
		},
	}
	context.Driver.CmdCopyBufferToImage(cb.Handle, buffer, image.Handle, vk.ImageLayoutTransferDstOptimal, []vk.BufferImageCopy{region})
}

// ImageDestroy releases the view, memory and image. Safe on partially created images.
func ImageDestroy(context *VulkanContext, image *VulkanImage) {
	if image == nil {
		return
	}
	device := context.Device.LogicalDevice
	if image.View != vk.NullImageView {
		context.Driver.DestroyImageView(device, image.View)
		image.View = vk.NullImageView
	}
	if image.Memory != vk.NullDeviceMemory {
		context.Driver.FreeMemory(device, image.Memory)
		image.Memory = vk.NullDeviceMemory
	}
	if image.Handle != vk.NullImage {
		context.Driver.DestroyImage(device, image.Handle)
		image.Handle = vk.NullImage
	}
}
