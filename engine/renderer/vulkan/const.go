package vulkan

import vk "github.com/goki/vulkan"

/**
 * @brief Number of frames the CPU may record ahead of the GPU.
 */
const MAX_FRAMES_IN_FLIGHT uint32 = 2

/**
 * @brief Capacity of the deferred release ring. A full ring forces a device idle flush.
 */
const VULKAN_MAX_DEFERRED_RELEASES uint32 = 256

const VULKAN_VALIDATION_LAYER = "VK_LAYER_KHRONOS_validation"

const VULKAN_PORTABILITY_SUBSET_EXTENSION = "VK_KHR_portability_subset"

// Depth formats in order of preference.
var depthFormatCandidates = []vk.Format{
	vk.FormatD32Sfloat,
	vk.FormatD32SfloatS8Uint,
	vk.FormatD24UnormS8Uint,
}

// Features every selected adapter must support and the device enables.
var requiredFeatures = vk.PhysicalDeviceFeatures{
	SamplerAnisotropy: vk.True,
	FillModeNonSolid:  vk.True,
	WideLines:         vk.True,
}
