package vulkan

import (
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
)

/**
 * @brief A sampled RGBA texture refreshed from host memory every time its
 * content changes. The copy is recorded into the caller's command buffer, so
 * one instance must only be touched by the frame slot that owns it.
 */
type VulkanStreamedTexture struct {
	Image *VulkanImage
	// Persistently mapped, grown on demand.
	staging *VulkanBuffer
}

/**
 * @brief Writes pixels into the staging buffer and records the copy into the
 * image, ending in the shader read layout. Must be recorded outside a render
 * pass, after the fence of the previous submission using this texture was
 * waited on. The image is rebuilt when the size changes.
 */
func (t *VulkanStreamedTexture) Stage(context *VulkanContext, cb *VulkanCommandBuffer, width, height uint32, pixels []byte) error {
	if width == 0 || height == 0 {
		return errors.New("cannot stage an empty texture")
	}
	if uint64(len(pixels)) != uint64(width)*uint64(height)*4 {
		return errors.Newf("texture of %dx%d needs %d bytes, got %d", width, height, width*height*4, len(pixels))
	}

	if t.Image == nil || t.Image.Width != width || t.Image.Height != height {
		ImageDestroy(context, t.Image)
		t.Image = nil
		image, err := ImageCreate(context, width, height, vk.FormatR8g8b8a8Unorm, vk.ImageTilingOptimal,
			vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit), true, vk.ImageAspectFlags(vk.ImageAspectColorBit))
		if err != nil {
			return errors.Wrap(err, "creating streamed texture")
		}
		t.Image = image
	}

	size := uint64(len(pixels))
	if t.staging == nil || t.staging.TotalSize < size {
		if t.staging != nil {
			t.staging.Destroy(context)
			t.staging = nil
		}
		staging, err := BufferCreate(context, size,
			vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			return errors.Wrap(err, "creating streamed texture staging buffer")
		}
		if _, err := staging.MapMemory(context, 0, size); err != nil {
			staging.Destroy(context)
			return err
		}
		t.staging = staging
	}
	if err := t.staging.LoadData(context, 0, pixels); err != nil {
		return err
	}

	// The previous content is fully overwritten, so it can be discarded.
	if err := ImageTransitionLayout(context, cb, t.Image, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		return err
	}
	ImageCopyFromBuffer(context, t.Image, t.staging.Handle, cb)
	return ImageTransitionLayout(context, cb, t.Image, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
}

// Ready reports whether the texture holds content that can be sampled.
func (t *VulkanStreamedTexture) Ready() bool {
	return t.Image != nil
}

// Destroy releases the image and the staging buffer. The device must be idle.
func (t *VulkanStreamedTexture) Destroy(context *VulkanContext) {
	ImageDestroy(context, t.Image)
	t.Image = nil
	if t.staging != nil {
		t.staging.Destroy(context)
		t.staging = nil
	}
}
