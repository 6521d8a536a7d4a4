package vulkan

import (
	"slices"

	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
)

type VulkanDevice struct {
	PhysicalDevice     vk.PhysicalDevice
	LogicalDevice      vk.Device
	SwapchainSupport   VulkanSwapchainSupportInfo
	GraphicsQueueIndex int32
	PresentQueueIndex  int32
	ComputeQueueIndex  int32

	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue
	ComputeQueue  vk.Queue

	GraphicsCommandPool vk.CommandPool

	Properties vk.PhysicalDeviceProperties
	Features   vk.PhysicalDeviceFeatures
	Memory     vk.PhysicalDeviceMemoryProperties

	DepthFormat vk.Format

	// Set when the adapter advertises VK_KHR_portability_subset.
	PortabilityRequired bool
}

type VulkanSwapchainSupportInfo struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

type VulkanPhysicalDeviceRequirements struct {
	Graphics             bool
	Present              bool
	Compute              bool
	DeviceExtensionNames []string
	Features             vk.PhysicalDeviceFeatures
}

type VulkanPhysicalDeviceQueueFamilyInfo struct {
	GraphicsFamilyIndex int32
	PresentFamilyIndex  int32
	ComputeFamilyIndex  int32
}

/**
 * @brief Ranks an adapter by type. Higher is better, only qualifying adapters are ranked.
 */
func scorePhysicalDevice(properties *vk.PhysicalDeviceProperties) int {
	switch properties.DeviceType {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return 1000
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return 500
	default:
		return 0
	}
}

func DeviceCreate(context *VulkanContext) error {
	context.Device = &VulkanDevice{
		GraphicsQueueIndex: -1,
		PresentQueueIndex:  -1,
		ComputeQueueIndex:  -1,
	}
	if err := SelectPhysicalDevice(context); err != nil {
		return err
	}

	core.LogInfo("Creating logical device...")
	device := context.Device
	driver := context.Driver

	// NOTE: Do not create additional queues for shared indices.
	indices := []uint32{uint32(device.GraphicsQueueIndex)}
	if !slices.Contains(indices, uint32(device.PresentQueueIndex)) {
		indices = append(indices, uint32(device.PresentQueueIndex))
	}
	if !slices.Contains(indices, uint32(device.ComputeQueueIndex)) {
		indices = append(indices, uint32(device.ComputeQueueIndex))
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(indices))
	for i := range indices {
		queueCreateInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: indices[i],
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	extensionNames := []string{vk.KhrSwapchainExtensionName}
	if device.PortabilityRequired {
		core.LogInfo("Adding required extension '%s'.", VULKAN_PORTABILITY_SUBSET_EXTENSION)
		extensionNames = append(extensionNames, VULKAN_PORTABILITY_SUBSET_EXTENSION)
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{requiredFeatures},
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensionNames),
	}

	logical, res := driver.CreateDevice(device.PhysicalDevice, &deviceCreateInfo)
	if err := VulkanResultError(res, "vkCreateDevice"); err != nil {
		core.LogError(err.Error())
		return err
	}
	device.LogicalDevice = logical
	core.LogInfo("Logical device created.")

	device.GraphicsQueue = driver.GetDeviceQueue(logical, uint32(device.GraphicsQueueIndex), 0)
	device.PresentQueue = driver.GetDeviceQueue(logical, uint32(device.PresentQueueIndex), 0)
	device.ComputeQueue = driver.GetDeviceQueue(logical, uint32(device.ComputeQueueIndex), 0)
	core.LogInfo("Queues obtained.")

	// Create command pool for graphics queue.
	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(device.GraphicsQueueIndex),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	pool, res := driver.CreateCommandPool(logical, &poolCreateInfo)
	if err := VulkanResultError(res, "vkCreateCommandPool"); err != nil {
		core.LogError(err.Error())
		return err
	}
	device.GraphicsCommandPool = pool
	core.LogInfo("Graphics command pool created.")

	if !DeviceDetectDepthFormat(context) {
		return errors.New("failed to find a supported depth format")
	}
	return nil
}

func DeviceDestroy(context *VulkanContext) {
	device := context.Device
	if device == nil {
		return
	}
	// Unset queues
	device.GraphicsQueue = nil
	device.PresentQueue = nil
	device.ComputeQueue = nil

	if device.GraphicsCommandPool != vk.NullCommandPool {
		core.LogInfo("Destroying command pools...")
		context.Driver.DestroyCommandPool(device.LogicalDevice, device.GraphicsCommandPool)
		device.GraphicsCommandPool = vk.NullCommandPool
	}

	// Destroy logical device
	if device.LogicalDevice != nil {
		core.LogInfo("Destroying logical device...")
		context.Driver.DestroyDevice(device.LogicalDevice)
		device.LogicalDevice = nil
	}

	// Physical devices are not destroyed.
	core.LogInfo("Releasing physical device resources...")
	device.PhysicalDevice = nil
	device.SwapchainSupport = VulkanSwapchainSupportInfo{}

	device.GraphicsQueueIndex = -1
	device.PresentQueueIndex = -1
	device.ComputeQueueIndex = -1
}

func DeviceQuerySwapchainSupport(context *VulkanContext, physicalDevice vk.PhysicalDevice) (VulkanSwapchainSupportInfo, error) {
	var supportInfo VulkanSwapchainSupportInfo
	driver := context.Driver

	// Surface capabilities
	capabilities, res := driver.GetPhysicalDeviceSurfaceCapabilities(physicalDevice, context.Surface)
	if err := VulkanResultError(res, "vkGetPhysicalDeviceSurfaceCapabilitiesKHR"); err != nil {
		return supportInfo, err
	}
	supportInfo.Capabilities = capabilities

	// Surface formats
	formats, res := driver.GetPhysicalDeviceSurfaceFormats(physicalDevice, context.Surface)
	if err := VulkanResultError(res, "vkGetPhysicalDeviceSurfaceFormatsKHR"); err != nil {
		return supportInfo, err
	}
	supportInfo.Formats = formats

	// Present modes
	presentModes, res := driver.GetPhysicalDeviceSurfacePresentModes(physicalDevice, context.Surface)
	if err := VulkanResultError(res, "vkGetPhysicalDeviceSurfacePresentModesKHR"); err != nil {
		core.LogError("failed to get physical device surface present modes")
		return supportInfo, err
	}
	supportInfo.PresentModes = presentModes
	return supportInfo, nil
}

func DeviceDetectDepthFormat(context *VulkanContext) bool {
	device := context.Device
	flags := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	for _, candidate := range depthFormatCandidates {
		properties := context.Driver.GetPhysicalDeviceFormatProperties(device.PhysicalDevice, candidate)
		if properties.LinearTilingFeatures&flags == flags || properties.OptimalTilingFeatures&flags == flags {
			device.DepthFormat = candidate
			return true
		}
	}
	return false
}

func SelectPhysicalDevice(context *VulkanContext) error {
	physicalDevices, res := context.Driver.EnumeratePhysicalDevices(context.Instance)
	if err := VulkanResultError(res, "vkEnumeratePhysicalDevices"); err != nil {
		return err
	}
	if len(physicalDevices) == 0 {
		core.LogError("No devices which support Vulkan were found.")
		return core.ErrNoSuitableDevice
	}

	requirements := VulkanPhysicalDeviceRequirements{
		Graphics:             true,
		Present:              true,
		DeviceExtensionNames: []string{vk.KhrSwapchainExtensionName},
		Features:             requiredFeatures,
	}

	bestScore := -1
	for _, physicalDevice := range physicalDevices {
		properties := context.Driver.GetPhysicalDeviceProperties(physicalDevice)
		features := context.Driver.GetPhysicalDeviceFeatures(physicalDevice)

		queueInfo, swapchainSupport, portability, ok := PhysicalDeviceMeetsRequirements(context, physicalDevice, &properties, &features, &requirements)
		if !ok {
			continue
		}
		// Ties keep the adapter enumerated first.
		score := scorePhysicalDevice(&properties)
		if score <= bestScore {
			continue
		}
		bestScore = score

		context.Device.PhysicalDevice = physicalDevice
		context.Device.GraphicsQueueIndex = queueInfo.GraphicsFamilyIndex
		context.Device.PresentQueueIndex = queueInfo.PresentFamilyIndex
		context.Device.ComputeQueueIndex = queueInfo.ComputeFamilyIndex
		context.Device.SwapchainSupport = swapchainSupport
		context.Device.PortabilityRequired = portability

		// Keep a copy of properties, features and memory info for later use.
		context.Device.Properties = properties
		context.Device.Features = features
		context.Device.Memory = context.Driver.GetPhysicalDeviceMemoryProperties(physicalDevice)
	}

	// Ensure a device was selected
	if context.Device.PhysicalDevice == nil {
		core.LogError("No physical devices were found which meet the requirements.")
		return core.ErrNoSuitableDevice
	}

	logSelectedDevice(context.Device)
	core.LogInfo("Physical device selected.")
	return nil
}

func logSelectedDevice(device *VulkanDevice) {
	properties := &device.Properties
	core.LogInfo("Selected device: '%s'.", vk.ToString(properties.DeviceName[:]))
	// GPU type, etc.
	switch properties.DeviceType {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		core.LogInfo("GPU type is Integrated.")
	case vk.PhysicalDeviceTypeDiscreteGpu:
		core.LogInfo("GPU type is Discrete.")
	case vk.PhysicalDeviceTypeVirtualGpu:
		core.LogInfo("GPU type is Virtual.")
	case vk.PhysicalDeviceTypeCpu:
		core.LogInfo("GPU type is CPU.")
	default:
		core.LogInfo("GPU type is Unknown.")
	}

	core.LogInfo(
		"GPU Driver version: %d.%d.%d",
		vk.Version(properties.DriverVersion).Major(),
		vk.Version(properties.DriverVersion).Minor(),
		vk.Version(properties.DriverVersion).Patch(),
	)

	// Vulkan API version.
	core.LogInfo(
		"Vulkan API version: %d.%d.%d",
		vk.Version(properties.ApiVersion).Major(),
		vk.Version(properties.ApiVersion).Minor(),
		vk.Version(properties.ApiVersion).Patch(),
	)

	// Memory information
	for j := uint32(0); j < device.Memory.MemoryHeapCount; j++ {
		heap := device.Memory.MemoryHeaps[j]
		memorySizeGib := float64(heap.Size) / 1024.0 / 1024.0 / 1024.0
		if heap.Flags&vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit) != 0 {
			core.LogInfo("Local GPU memory: %.2f GiB", memorySizeGib)
		} else {
			core.LogInfo("Shared System memory: %.2f GiB", memorySizeGib)
		}
	}
}

/**
 * @brief Checks queue families, surface support, extensions and features.
 * Returns the queue family layout, the surface support and whether the
 * portability subset must be enabled.
 */
func PhysicalDeviceMeetsRequirements(context *VulkanContext, device vk.PhysicalDevice, properties *vk.PhysicalDeviceProperties,
	features *vk.PhysicalDeviceFeatures, requirements *VulkanPhysicalDeviceRequirements) (VulkanPhysicalDeviceQueueFamilyInfo, VulkanSwapchainSupportInfo, bool, bool) {
	queueInfo := VulkanPhysicalDeviceQueueFamilyInfo{
		GraphicsFamilyIndex: -1,
		PresentFamilyIndex:  -1,
		ComputeFamilyIndex:  -1,
	}
	var swapchainSupport VulkanSwapchainSupportInfo
	deviceName := vk.ToString(properties.DeviceName[:])

	queueFamilies := context.Driver.GetPhysicalDeviceQueueFamilyProperties(device)

	// Look at each queue and see what queues it supports
	core.LogInfo("Graphics | Present | Compute | Name")
	for i, family := range queueFamilies {
		index := int32(i)
		if family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 && queueInfo.GraphicsFamilyIndex == -1 {
			queueInfo.GraphicsFamilyIndex = index
		}
		if family.QueueFlags&vk.QueueFlags(vk.QueueComputeBit) != 0 && queueInfo.ComputeFamilyIndex == -1 {
			queueInfo.ComputeFamilyIndex = index
		}
		supportsPresent, res := context.Driver.GetPhysicalDeviceSurfaceSupport(device, uint32(i), context.Surface)
		if !VulkanResultIsSuccess(res) {
			return queueInfo, swapchainSupport, false, false
		}
		// Prefer a present family shared with graphics.
		if supportsPresent && (queueInfo.PresentFamilyIndex == -1 || index == queueInfo.GraphicsFamilyIndex) {
			queueInfo.PresentFamilyIndex = index
		}
	}
	if queueInfo.ComputeFamilyIndex == -1 {
		queueInfo.ComputeFamilyIndex = queueInfo.GraphicsFamilyIndex
	}

	// Print out some info about the device
	core.LogInfo("       %t |       %t |       %t | %s",
		queueInfo.GraphicsFamilyIndex != -1,
		queueInfo.PresentFamilyIndex != -1,
		queueInfo.ComputeFamilyIndex != -1,
		deviceName)

	if (requirements.Graphics && queueInfo.GraphicsFamilyIndex == -1) ||
		(requirements.Present && queueInfo.PresentFamilyIndex == -1) ||
		(requirements.Compute && queueInfo.ComputeFamilyIndex == -1) {
		core.LogInfo("Device '%s' does not meet queue requirements, skipping.", deviceName)
		return queueInfo, swapchainSupport, false, false
	}
	core.LogDebug("Graphics Family Index: %d", queueInfo.GraphicsFamilyIndex)
	core.LogDebug("Present Family Index:  %d", queueInfo.PresentFamilyIndex)
	core.LogDebug("Compute Family Index:  %d", queueInfo.ComputeFamilyIndex)

	// Device extensions.
	available, res := context.Driver.EnumerateDeviceExtensionProperties(device)
	if !VulkanResultIsSuccess(res) {
		return queueInfo, swapchainSupport, false, false
	}
	for _, required := range requirements.DeviceExtensionNames {
		if !slices.Contains(available, required) {
			core.LogInfo("Required extension not found: '%s', skipping device.", required)
			return queueInfo, swapchainSupport, false, false
		}
	}
	portability := slices.Contains(available, VULKAN_PORTABILITY_SUBSET_EXTENSION)

	// Query swapchain support.
	swapchainSupport, err := DeviceQuerySwapchainSupport(context, device)
	if err != nil || len(swapchainSupport.Formats) < 1 || len(swapchainSupport.PresentModes) < 1 {
		core.LogInfo("Required swapchain support not present, skipping device.")
		return queueInfo, swapchainSupport, false, false
	}

	if requirements.Features.SamplerAnisotropy == vk.True && features.SamplerAnisotropy == vk.False {
		core.LogInfo("Device does not support samplerAnisotropy, skipping.")
		return queueInfo, swapchainSupport, false, false
	}
	if requirements.Features.FillModeNonSolid == vk.True && features.FillModeNonSolid == vk.False {
		core.LogInfo("Device does not support fillModeNonSolid, skipping.")
		return queueInfo, swapchainSupport, false, false
	}
	if requirements.Features.WideLines == vk.True && features.WideLines == vk.False {
		core.LogInfo("Device does not support wideLines, skipping.")
		return queueInfo, swapchainSupport, false, false
	}

	core.LogInfo("Device '%s' meets all requirements.", deviceName)
	return queueInfo, swapchainSupport, portability, true
}
