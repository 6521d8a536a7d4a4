package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSelectionContext builds a context whose driver enumerates only adapters.
func newSelectionContext(t *testing.T, adapters ...*fakeAdapter) (*VulkanContext, *fakeDriver, []vk.PhysicalDevice) {
	t.Helper()
	driver := newFakeDriver()
	driver.adapters = make(map[vk.PhysicalDevice]*fakeAdapter)
	driver.adapterIDs = nil
	ids := make([]vk.PhysicalDevice, 0, len(adapters))
	for _, adapter := range adapters {
		ids = append(ids, driver.addAdapter(adapter))
	}
	window := &fakeWindow{width: 800, height: 600, surfaceDriver: driver}
	context := NewVulkanContext(driver, window)
	context.Instance = mint[vk.Instance](driver)
	context.Surface = mint[vk.Surface](driver)
	context.Device = &VulkanDevice{GraphicsQueueIndex: -1, PresentQueueIndex: -1, ComputeQueueIndex: -1}
	return context, driver, ids
}

func TestScorePhysicalDevice(t *testing.T) {
	tests := []struct {
		deviceType vk.PhysicalDeviceType
		want       int
	}{
		{vk.PhysicalDeviceTypeDiscreteGpu, 1000},
		{vk.PhysicalDeviceTypeIntegratedGpu, 500},
		{vk.PhysicalDeviceTypeVirtualGpu, 0},
		{vk.PhysicalDeviceTypeCpu, 0},
	}
	for _, tt := range tests {
		props := vk.PhysicalDeviceProperties{DeviceType: tt.deviceType}
		assert.Equal(t, tt.want, scorePhysicalDevice(&props))
	}
}

func TestSelectPhysicalDevicePrefersDiscrete(t *testing.T) {
	context, _, ids := newSelectionContext(t,
		defaultAdapter("integrated", vk.PhysicalDeviceTypeIntegratedGpu),
		defaultAdapter("discrete", vk.PhysicalDeviceTypeDiscreteGpu),
	)
	require.NoError(t, SelectPhysicalDevice(context))
	assert.True(t, ids[1] == context.Device.PhysicalDevice)
	assert.Equal(t, "discrete", vk.ToString(context.Device.Properties.DeviceName[:]))
}

func TestSelectPhysicalDeviceTieKeepsFirst(t *testing.T) {
	context, _, ids := newSelectionContext(t,
		defaultAdapter("first", vk.PhysicalDeviceTypeDiscreteGpu),
		defaultAdapter("second", vk.PhysicalDeviceTypeDiscreteGpu),
	)
	require.NoError(t, SelectPhysicalDevice(context))
	assert.True(t, ids[0] == context.Device.PhysicalDevice)
}

func TestSelectPhysicalDeviceSkipsUnsuitable(t *testing.T) {
	noSwapchain := defaultAdapter("no swapchain", vk.PhysicalDeviceTypeDiscreteGpu)
	noSwapchain.extensions = nil

	noFeatures := defaultAdapter("no wide lines", vk.PhysicalDeviceTypeDiscreteGpu)
	noFeatures.features = vk.PhysicalDeviceFeatures{SamplerAnisotropy: vk.True, FillModeNonSolid: vk.True}

	noPresent := defaultAdapter("no present", vk.PhysicalDeviceTypeDiscreteGpu)
	noPresent.presentFamily = -1

	noFormats := defaultAdapter("no formats", vk.PhysicalDeviceTypeDiscreteGpu)
	noFormats.noFormats = true

	fallback := defaultAdapter("cpu", vk.PhysicalDeviceTypeCpu)

	context, _, ids := newSelectionContext(t, noSwapchain, noFeatures, noPresent, noFormats, fallback)
	require.NoError(t, SelectPhysicalDevice(context))
	assert.True(t, ids[4] == context.Device.PhysicalDevice)
}

func TestSelectPhysicalDeviceNoneSuitable(t *testing.T) {
	context, _, _ := newSelectionContext(t)
	assert.ErrorIs(t, SelectPhysicalDevice(context), core.ErrNoSuitableDevice)

	noSwapchain := defaultAdapter("no swapchain", vk.PhysicalDeviceTypeDiscreteGpu)
	noSwapchain.extensions = nil
	context, _, _ = newSelectionContext(t, noSwapchain)
	assert.ErrorIs(t, SelectPhysicalDevice(context), core.ErrNoSuitableDevice)
}

func TestPhysicalDeviceQueueFamilies(t *testing.T) {
	split := defaultAdapter("split queues", vk.PhysicalDeviceTypeDiscreteGpu)
	split.queueFamilies = []vk.QueueFamilyProperties{
		{QueueFlags: vk.QueueFlags(vk.QueueGraphicsBit), QueueCount: 1},
		{QueueFlags: vk.QueueFlags(vk.QueueTransferBit), QueueCount: 1},
	}
	split.presentFamily = 1

	context, _, ids := newSelectionContext(t, split)
	props := context.Driver.GetPhysicalDeviceProperties(ids[0])
	features := context.Driver.GetPhysicalDeviceFeatures(ids[0])
	reqs := VulkanPhysicalDeviceRequirements{
		Graphics:             true,
		Present:              true,
		DeviceExtensionNames: []string{vk.KhrSwapchainExtensionName},
		Features:             requiredFeatures,
	}

	queues, support, portability, ok := PhysicalDeviceMeetsRequirements(context, ids[0], &props, &features, &reqs)
	require.True(t, ok)
	assert.Equal(t, int32(0), queues.GraphicsFamilyIndex)
	assert.Equal(t, int32(1), queues.PresentFamilyIndex)
	// No dedicated compute family, so compute shares graphics.
	assert.Equal(t, int32(0), queues.ComputeFamilyIndex)
	assert.NotEmpty(t, support.Formats)
	assert.False(t, portability)
}

func TestDeviceCreateEnablesPortabilitySubset(t *testing.T) {
	adapter := defaultAdapter("portable", vk.PhysicalDeviceTypeIntegratedGpu)
	adapter.extensions = append(adapter.extensions, VULKAN_PORTABILITY_SUBSET_EXTENSION)

	context, driver, _ := newSelectionContext(t, adapter)
	require.NoError(t, DeviceCreate(context))
	assert.True(t, context.Device.PortabilityRequired)
	assert.Equal(t, vk.FormatD32Sfloat, context.Device.DepthFormat)
	assert.Equal(t, 1, driver.live["device"])
	assert.Equal(t, 1, driver.live["command-pool"])

	DeviceDestroy(context)
	assert.Equal(t, 0, driver.live["device"])
	assert.Equal(t, 0, driver.live["command-pool"])
	assert.Equal(t, int32(-1), context.Device.GraphicsQueueIndex)
}
