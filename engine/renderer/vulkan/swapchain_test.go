package vulkan

import (
	"math"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapchainChooseSurfaceFormat(t *testing.T) {
	srgb := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	unorm := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	rgba := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	assert.Equal(t, srgb, SwapchainChooseSurfaceFormat([]vk.SurfaceFormat{unorm, srgb}))
	assert.Equal(t, rgba, SwapchainChooseSurfaceFormat([]vk.SurfaceFormat{rgba, unorm}))
}

func TestSwapchainChoosePresentMode(t *testing.T) {
	modes := []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo, vk.PresentModeMailbox}

	assert.Equal(t, vk.PresentModeMailbox, SwapchainChoosePresentMode(modes, true))
	assert.Equal(t, vk.PresentModeFifo, SwapchainChoosePresentMode(modes, false))
	assert.Equal(t, vk.PresentModeFifo, SwapchainChoosePresentMode([]vk.PresentMode{vk.PresentModeFifo}, true))
}

func TestSwapchainChooseExtent(t *testing.T) {
	caps := &vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 64, Height: 64},
		MaxImageExtent: vk.Extent2D{Width: 2048, Height: 2048},
	}
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, SwapchainChooseExtent(caps, 800, 600))
	assert.Equal(t, vk.Extent2D{Width: 2048, Height: 64}, SwapchainChooseExtent(caps, 4000, 10))

	// A surface with a fixed extent wins over the window size.
	caps.CurrentExtent = vk.Extent2D{Width: 1280, Height: 720}
	assert.Equal(t, vk.Extent2D{Width: 1280, Height: 720}, SwapchainChooseExtent(caps, 800, 600))
}

func TestSwapchainChooseImageCount(t *testing.T) {
	tests := []struct {
		name     string
		min, max uint32
		want     uint32
	}{
		{"one above minimum", 2, 8, 3},
		{"capped by maximum", 3, 3, 3},
		{"unbounded maximum", 2, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := &vk.SurfaceCapabilities{MinImageCount: tt.min, MaxImageCount: tt.max}
			assert.Equal(t, tt.want, SwapchainChooseImageCount(caps))
		})
	}
}

func TestSwapchainCreateOn800x600Surface(t *testing.T) {
	r, driver, _ := newTestRenderer(t)
	sc := r.Context().Swapchain

	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, sc.Extent)
	assert.GreaterOrEqual(t, sc.ImageCount, driver.capabilities.MinImageCount)
	assert.LessOrEqual(t, sc.ImageCount, driver.capabilities.MaxImageCount)
	assert.Len(t, sc.Views, int(sc.ImageCount))
	assert.Len(t, sc.Framebuffers, int(sc.ImageCount))
	assert.NotNil(t, sc.DepthAttachment)
	assert.Equal(t, vk.PresentModeFifo, sc.PresentMode)
	assert.Equal(t, vk.SharingModeExclusive, driver.lastSwapchainInfo.ImageSharingMode)
}

func TestSwapchainRecreateTwiceLeavesOneSwapchain(t *testing.T) {
	r, driver, _ := newTestRenderer(t)

	require.NoError(t, r.recreateSwapchain())
	require.NoError(t, r.recreateSwapchain())

	sc := r.Context().Swapchain
	require.NotNil(t, sc)
	assert.Equal(t, 3, driver.counts["swapchain-created"])
	assert.Equal(t, 1, driver.live["swapchain"])
	// One view per swapchain image plus the depth view.
	assert.Equal(t, int(sc.ImageCount)+1, driver.live["view"])
	assert.Equal(t, int(sc.ImageCount), driver.live["framebuffer"])
	assert.Equal(t, 1, driver.live["image"])
}

func TestSwapchainRecreateRejectsFormatChange(t *testing.T) {
	r, driver, _ := newTestRenderer(t)
	driver.formats = []vk.SurfaceFormat{{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}}

	err := r.recreateSwapchain()
	assert.ErrorIs(t, err, core.ErrSurfaceFormatChanged)
	assert.Nil(t, r.Context().Swapchain)
	assert.Equal(t, 0, driver.live["swapchain"])
	assert.Equal(t, 0, driver.live["framebuffer"])
}

func TestSwapchainPreferMailbox(t *testing.T) {
	driver := newFakeDriver()
	window := &fakeWindow{width: 640, height: 480, surfaceDriver: driver}
	r := New(window, driver, VulkanRendererConfig{
		PreferMailbox:  true,
		VertexShader:   testShader,
		FragmentShader: testShader,
	})
	require.NoError(t, r.Initialize())
	defer r.Shutdown()

	assert.Equal(t, vk.PresentModeMailbox, r.Context().Swapchain.PresentMode)
	assert.Equal(t, vk.Extent2D{Width: 640, Height: 480}, r.Context().Swapchain.Extent)
}

func TestSwapchainFailedRecreateRetriesNextFrame(t *testing.T) {
	r, driver, _ := newTestRenderer(t)

	// The swapchain and its views exist when the first framebuffer fails.
	driver.framebufferFailures = 1
	require.NoError(t, r.recreateSwapchain())
	assert.Nil(t, r.Context().Swapchain)
	assert.Equal(t, 0, driver.live["swapchain"])
	assert.Equal(t, 0, driver.live["framebuffer"])
	assert.Equal(t, 0, driver.live["view"])
	assert.Equal(t, 0, driver.live["image"])

	// The next frame only rebuilds.
	require.NoError(t, r.DrawFrame(staticCamera{}, nil, nil))
	require.NotNil(t, r.Context().Swapchain)
	assert.Equal(t, 1, driver.live["swapchain"])
	assert.Equal(t, 0, driver.countEvents("acquire"))
	assert.Equal(t, 0, driver.countEvents("submit:"))

	require.NoError(t, r.DrawFrame(staticCamera{}, nil, nil))
	assert.Equal(t, 1, driver.countEvents("submit:"))
	assert.Equal(t, 1, driver.countEvents("present"))
}
