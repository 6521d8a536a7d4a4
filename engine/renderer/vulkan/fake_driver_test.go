package vulkan

import (
	"fmt"
	"math"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// mint returns a unique non-nil handle of any Vulkan handle type backed by Go memory.
func mint[T any](f *fakeDriver) T {
	var handle T
	cell := new(uint64)
	f.cells = append(f.cells, cell)
	*(*unsafe.Pointer)(unsafe.Pointer(&handle)) = unsafe.Pointer(cell)
	return handle
}

const (
	fakeMemoryTypeDeviceLocal = 0
	fakeMemoryTypeHostVisible = 1
)

type fakeAdapter struct {
	name          string
	deviceType    vk.PhysicalDeviceType
	features      vk.PhysicalDeviceFeatures
	extensions    []string
	queueFamilies []vk.QueueFamilyProperties
	presentFamily int
	noFormats     bool
}

func defaultAdapter(name string, deviceType vk.PhysicalDeviceType) *fakeAdapter {
	return &fakeAdapter{
		name:       name,
		deviceType: deviceType,
		features:   requiredFeatures,
		extensions: []string{vk.KhrSwapchainExtensionName},
		queueFamilies: []vk.QueueFamilyProperties{{
			QueueFlags: vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit),
			QueueCount: 1,
		}},
		presentFamily: 0,
	}
}

type fakeMemory struct {
	data        []byte
	deviceLocal bool
}

type fakeDriver struct {
	cells []*uint64

	adapters   map[vk.PhysicalDevice]*fakeAdapter
	adapterIDs []vk.PhysicalDevice

	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode

	// Results returned by the next calls, Success once drained.
	acquireResults []vk.Result
	presentResults []vk.Result
	nextImage      uint32

	// Failure injection. failAllocateAt fails the AllocateMemory call with
	// that 1-based number; the counters fail that many upcoming calls.
	allocations            int
	failAllocateAt         int
	framebufferFailures    int
	deviceWaitIdleFailures int

	live     map[string]int
	memories map[vk.DeviceMemory]*fakeMemory
	buffers  map[vk.Buffer]uint64
	images   map[vk.Swapchain][]vk.Image

	submissionCounter int
	pending           map[vk.Fence]int
	completed         []int
	events            []string
	counts            map[string]int
	lastSwapchainInfo vk.SwapchainCreateInfo
}

func newFakeDriver() *fakeDriver {
	f := &fakeDriver{
		adapters: make(map[vk.PhysicalDevice]*fakeAdapter),
		capabilities: vk.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  3,
			CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
			MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
		},
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		presentModes: []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
		live:         make(map[string]int),
		memories:     make(map[vk.DeviceMemory]*fakeMemory),
		buffers:      make(map[vk.Buffer]uint64),
		images:       make(map[vk.Swapchain][]vk.Image),
		pending:      make(map[vk.Fence]int),
		counts:       make(map[string]int),
	}
	f.addAdapter(defaultAdapter("fake discrete", vk.PhysicalDeviceTypeDiscreteGpu))
	return f
}

func (f *fakeDriver) addAdapter(adapter *fakeAdapter) vk.PhysicalDevice {
	gpu := mint[vk.PhysicalDevice](f)
	f.adapters[gpu] = adapter
	f.adapterIDs = append(f.adapterIDs, gpu)
	return gpu
}

func (f *fakeDriver) event(format string, args ...any) {
	f.events = append(f.events, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) create(kind string) {
	f.live[kind]++
}

func (f *fakeDriver) destroy(kind string) {
	f.live[kind]--
}

func (f *fakeDriver) deviceLocalAllocations() int {
	n := 0
	for _, m := range f.memories {
		if m.deviceLocal {
			n++
		}
	}
	return n
}

func (f *fakeDriver) completeAll() {
	for fence, id := range f.pending {
		f.completed = append(f.completed, id)
		f.event("complete:%d", id)
		delete(f.pending, fence)
	}
}

func (f *fakeDriver) countEvents(prefix string) int {
	n := 0
	for _, e := range f.events {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// Instance

func (f *fakeDriver) EnumerateInstanceLayerProperties() ([]string, vk.Result) {
	return []string{VULKAN_VALIDATION_LAYER}, vk.Success
}

func (f *fakeDriver) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, vk.Result) {
	f.create("instance")
	return mint[vk.Instance](f), vk.Success
}

func (f *fakeDriver) DestroyInstance(instance vk.Instance) { f.destroy("instance") }

func (f *fakeDriver) CreateDebugReportCallback(instance vk.Instance, info *vk.DebugReportCallbackCreateInfo) (vk.DebugReportCallback, vk.Result) {
	f.create("debug")
	return mint[vk.DebugReportCallback](f), vk.Success
}

func (f *fakeDriver) DestroyDebugReportCallback(instance vk.Instance, callback vk.DebugReportCallback) {
	f.destroy("debug")
}

func (f *fakeDriver) DestroySurface(instance vk.Instance, surface vk.Surface) { f.destroy("surface") }

// Physical device

func (f *fakeDriver) EnumeratePhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, vk.Result) {
	return append([]vk.PhysicalDevice(nil), f.adapterIDs...), vk.Success
}

func (f *fakeDriver) GetPhysicalDeviceProperties(gpu vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	adapter := f.adapters[gpu]
	props := vk.PhysicalDeviceProperties{DeviceType: adapter.deviceType}
	copy(props.DeviceName[:], adapter.name)
	return props
}

func (f *fakeDriver) GetPhysicalDeviceFeatures(gpu vk.PhysicalDevice) vk.PhysicalDeviceFeatures {
	return f.adapters[gpu].features
}

func (f *fakeDriver) GetPhysicalDeviceMemoryProperties(gpu vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	props.MemoryTypeCount = 2
	props.MemoryTypes[fakeMemoryTypeDeviceLocal] = vk.MemoryType{
		PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	}
	props.MemoryTypes[fakeMemoryTypeHostVisible] = vk.MemoryType{
		PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit),
		HeapIndex:     1,
	}
	props.MemoryHeapCount = 2
	props.MemoryHeaps[0] = vk.MemoryHeap{Size: 1 << 30, Flags: vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit)}
	props.MemoryHeaps[1] = vk.MemoryHeap{Size: 1 << 30}
	return props
}

func (f *fakeDriver) GetPhysicalDeviceQueueFamilyProperties(gpu vk.PhysicalDevice) []vk.QueueFamilyProperties {
	return f.adapters[gpu].queueFamilies
}

func (f *fakeDriver) GetPhysicalDeviceSurfaceSupport(gpu vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, vk.Result) {
	return int(family) == f.adapters[gpu].presentFamily, vk.Success
}

func (f *fakeDriver) EnumerateDeviceExtensionProperties(gpu vk.PhysicalDevice) ([]string, vk.Result) {
	return f.adapters[gpu].extensions, vk.Success
}

func (f *fakeDriver) GetPhysicalDeviceFormatProperties(gpu vk.PhysicalDevice, format vk.Format) vk.FormatProperties {
	if format == vk.FormatD32Sfloat {
		return vk.FormatProperties{OptimalTilingFeatures: vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)}
	}
	return vk.FormatProperties{}
}

func (f *fakeDriver) GetPhysicalDeviceSurfaceCapabilities(gpu vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, vk.Result) {
	return f.capabilities, vk.Success
}

func (f *fakeDriver) GetPhysicalDeviceSurfaceFormats(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, vk.Result) {
	if adapter, ok := f.adapters[gpu]; ok && adapter.noFormats {
		return nil, vk.Success
	}
	return f.formats, vk.Success
}

func (f *fakeDriver) GetPhysicalDeviceSurfacePresentModes(gpu vk.PhysicalDevice, surface vk.Surface) ([]vk.PresentMode, vk.Result) {
	return f.presentModes, vk.Success
}

// Logical device and queues

func (f *fakeDriver) CreateDevice(gpu vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, vk.Result) {
	f.create("device")
	return mint[vk.Device](f), vk.Success
}

func (f *fakeDriver) DestroyDevice(device vk.Device) { f.destroy("device") }

func (f *fakeDriver) GetDeviceQueue(device vk.Device, family, index uint32) vk.Queue {
	return mint[vk.Queue](f)
}

func (f *fakeDriver) DeviceWaitIdle(device vk.Device) vk.Result {
	f.event("device-wait-idle")
	if f.deviceWaitIdleFailures > 0 {
		f.deviceWaitIdleFailures--
		return vk.ErrorDeviceLost
	}
	f.completeAll()
	return vk.Success
}

func (f *fakeDriver) QueueWaitIdle(queue vk.Queue) vk.Result {
	f.counts["queue-wait-idle"]++
	f.completeAll()
	return vk.Success
}

func (f *fakeDriver) QueueSubmit(queue vk.Queue, submits []vk.SubmitInfo, fence vk.Fence) vk.Result {
	f.submissionCounter++
	if fence == vk.NullFence {
		f.counts["one-shot-submit"]++
		f.event("one-shot:%d", f.submissionCounter)
		return vk.Success
	}
	f.pending[fence] = f.submissionCounter
	f.event("submit:%d", f.submissionCounter)
	return vk.Success
}

func (f *fakeDriver) QueuePresent(queue vk.Queue, info *vk.PresentInfo) vk.Result {
	f.event("present")
	if len(f.presentResults) > 0 {
		res := f.presentResults[0]
		f.presentResults = f.presentResults[1:]
		return res
	}
	return vk.Success
}

// Command pools and buffers

func (f *fakeDriver) CreateCommandPool(device vk.Device, info *vk.CommandPoolCreateInfo) (vk.CommandPool, vk.Result) {
	f.create("command-pool")
	return mint[vk.CommandPool](f), vk.Success
}

func (f *fakeDriver) DestroyCommandPool(device vk.Device, pool vk.CommandPool) {
	f.destroy("command-pool")
}

func (f *fakeDriver) AllocateCommandBuffers(device vk.Device, info *vk.CommandBufferAllocateInfo) ([]vk.CommandBuffer, vk.Result) {
	buffers := make([]vk.CommandBuffer, info.CommandBufferCount)
	for i := range buffers {
		buffers[i] = mint[vk.CommandBuffer](f)
		f.create("command-buffer")
	}
	return buffers, vk.Success
}

func (f *fakeDriver) FreeCommandBuffers(device vk.Device, pool vk.CommandPool, buffers []vk.CommandBuffer) {
	for range buffers {
		f.destroy("command-buffer")
	}
}

func (f *fakeDriver) BeginCommandBuffer(cb vk.CommandBuffer, info *vk.CommandBufferBeginInfo) vk.Result {
	return vk.Success
}

func (f *fakeDriver) EndCommandBuffer(cb vk.CommandBuffer) vk.Result { return vk.Success }

func (f *fakeDriver) ResetCommandBuffer(cb vk.CommandBuffer, flags vk.CommandBufferResetFlags) vk.Result {
	return vk.Success
}

// Synchronization

func (f *fakeDriver) CreateFence(device vk.Device, info *vk.FenceCreateInfo) (vk.Fence, vk.Result) {
	f.create("fence")
	return mint[vk.Fence](f), vk.Success
}

func (f *fakeDriver) DestroyFence(device vk.Device, fence vk.Fence) { f.destroy("fence") }

// WaitForFences completes the submission pending on each fence before returning.
func (f *fakeDriver) WaitForFences(device vk.Device, fences []vk.Fence, waitAll bool, timeout uint64) vk.Result {
	f.event("wait:begin")
	for _, fence := range fences {
		if id, ok := f.pending[fence]; ok {
			f.completed = append(f.completed, id)
			f.event("complete:%d", id)
			delete(f.pending, fence)
		}
	}
	f.event("wait:end")
	return vk.Success
}

func (f *fakeDriver) ResetFences(device vk.Device, fences []vk.Fence) vk.Result {
	f.event("reset-fence")
	return vk.Success
}

func (f *fakeDriver) CreateSemaphore(device vk.Device, info *vk.SemaphoreCreateInfo) (vk.Semaphore, vk.Result) {
	f.create("semaphore")
	return mint[vk.Semaphore](f), vk.Success
}

func (f *fakeDriver) DestroySemaphore(device vk.Device, semaphore vk.Semaphore) {
	f.destroy("semaphore")
}

// Memory, buffers and images

func (f *fakeDriver) CreateBuffer(device vk.Device, info *vk.BufferCreateInfo) (vk.Buffer, vk.Result) {
	f.create("buffer")
	buffer := mint[vk.Buffer](f)
	f.buffers[buffer] = uint64(info.Size)
	return buffer, vk.Success
}

func (f *fakeDriver) DestroyBuffer(device vk.Device, buffer vk.Buffer) {
	f.destroy("buffer")
	delete(f.buffers, buffer)
}

func (f *fakeDriver) GetBufferMemoryRequirements(device vk.Device, buffer vk.Buffer) vk.MemoryRequirements {
	return vk.MemoryRequirements{Size: vk.DeviceSize(f.buffers[buffer]), Alignment: 4, MemoryTypeBits: 0b11}
}

func (f *fakeDriver) BindBufferMemory(device vk.Device, buffer vk.Buffer, memory vk.DeviceMemory, offset vk.DeviceSize) vk.Result {
	return vk.Success
}

func (f *fakeDriver) AllocateMemory(device vk.Device, info *vk.MemoryAllocateInfo) (vk.DeviceMemory, vk.Result) {
	f.allocations++
	if f.allocations == f.failAllocateAt {
		return vk.NullDeviceMemory, vk.ErrorOutOfDeviceMemory
	}
	f.create("memory")
	memory := mint[vk.DeviceMemory](f)
	f.memories[memory] = &fakeMemory{
		data:        make([]byte, info.AllocationSize),
		deviceLocal: info.MemoryTypeIndex == fakeMemoryTypeDeviceLocal,
	}
	return memory, vk.Success
}

func (f *fakeDriver) FreeMemory(device vk.Device, memory vk.DeviceMemory) {
	f.destroy("memory")
	delete(f.memories, memory)
}

func (f *fakeDriver) MapMemory(device vk.Device, memory vk.DeviceMemory, offset, size vk.DeviceSize) (unsafe.Pointer, vk.Result) {
	m, ok := f.memories[memory]
	if !ok || len(m.data) == 0 || m.deviceLocal {
		return nil, vk.ErrorMemoryMapFailed
	}
	f.create("mapping")
	return unsafe.Pointer(&m.data[offset]), vk.Success
}

func (f *fakeDriver) UnmapMemory(device vk.Device, memory vk.DeviceMemory) { f.destroy("mapping") }

func (f *fakeDriver) CreateImage(device vk.Device, info *vk.ImageCreateInfo) (vk.Image, vk.Result) {
	f.create("image")
	image := mint[vk.Image](f)
	return image, vk.Success
}

func (f *fakeDriver) DestroyImage(device vk.Device, image vk.Image) { f.destroy("image") }

func (f *fakeDriver) GetImageMemoryRequirements(device vk.Device, image vk.Image) vk.MemoryRequirements {
	return vk.MemoryRequirements{Size: 1024, Alignment: 4, MemoryTypeBits: 0b11}
}

func (f *fakeDriver) BindImageMemory(device vk.Device, image vk.Image, memory vk.DeviceMemory, offset vk.DeviceSize) vk.Result {
	return vk.Success
}

func (f *fakeDriver) CreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, vk.Result) {
	f.create("view")
	return mint[vk.ImageView](f), vk.Success
}

func (f *fakeDriver) DestroyImageView(device vk.Device, view vk.ImageView) { f.destroy("view") }

func (f *fakeDriver) CreateSampler(device vk.Device, info *vk.SamplerCreateInfo) (vk.Sampler, vk.Result) {
	f.create("sampler")
	return mint[vk.Sampler](f), vk.Success
}

func (f *fakeDriver) DestroySampler(device vk.Device, sampler vk.Sampler) { f.destroy("sampler") }

// Swapchain

func (f *fakeDriver) CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, vk.Result) {
	f.create("swapchain")
	f.counts["swapchain-created"]++
	f.lastSwapchainInfo = *info
	swapchain := mint[vk.Swapchain](f)
	images := make([]vk.Image, info.MinImageCount)
	for i := range images {
		images[i] = mint[vk.Image](f)
	}
	f.images[swapchain] = images
	return swapchain, vk.Success
}

func (f *fakeDriver) DestroySwapchain(device vk.Device, swapchain vk.Swapchain) {
	f.destroy("swapchain")
	delete(f.images, swapchain)
}

func (f *fakeDriver) GetSwapchainImages(device vk.Device, swapchain vk.Swapchain) ([]vk.Image, vk.Result) {
	return f.images[swapchain], vk.Success
}

func (f *fakeDriver) AcquireNextImage(device vk.Device, swapchain vk.Swapchain, timeout uint64, semaphore vk.Semaphore, fence vk.Fence) (uint32, vk.Result) {
	f.event("acquire")
	if len(f.acquireResults) > 0 {
		res := f.acquireResults[0]
		f.acquireResults = f.acquireResults[1:]
		if res != vk.Success && res != vk.Suboptimal {
			return 0, res
		}
	}
	count := uint32(len(f.images[swapchain]))
	index := f.nextImage % count
	f.nextImage++
	return index, vk.Success
}

// Render passes, framebuffers and pipelines

func (f *fakeDriver) CreateRenderPass(device vk.Device, info *vk.RenderPassCreateInfo) (vk.RenderPass, vk.Result) {
	f.create("renderpass")
	return mint[vk.RenderPass](f), vk.Success
}

func (f *fakeDriver) DestroyRenderPass(device vk.Device, renderpass vk.RenderPass) {
	f.destroy("renderpass")
}

func (f *fakeDriver) CreateFramebuffer(device vk.Device, info *vk.FramebufferCreateInfo) (vk.Framebuffer, vk.Result) {
	if f.framebufferFailures > 0 {
		f.framebufferFailures--
		return vk.NullFramebuffer, vk.ErrorOutOfHostMemory
	}
	f.create("framebuffer")
	return mint[vk.Framebuffer](f), vk.Success
}

func (f *fakeDriver) DestroyFramebuffer(device vk.Device, framebuffer vk.Framebuffer) {
	f.destroy("framebuffer")
}

func (f *fakeDriver) CreateShaderModule(device vk.Device, info *vk.ShaderModuleCreateInfo) (vk.ShaderModule, vk.Result) {
	f.create("shader")
	return mint[vk.ShaderModule](f), vk.Success
}

func (f *fakeDriver) DestroyShaderModule(device vk.Device, module vk.ShaderModule) {
	f.destroy("shader")
}

func (f *fakeDriver) CreatePipelineLayout(device vk.Device, info *vk.PipelineLayoutCreateInfo) (vk.PipelineLayout, vk.Result) {
	f.create("pipeline-layout")
	return mint[vk.PipelineLayout](f), vk.Success
}

func (f *fakeDriver) DestroyPipelineLayout(device vk.Device, layout vk.PipelineLayout) {
	f.destroy("pipeline-layout")
}

func (f *fakeDriver) CreateGraphicsPipelines(device vk.Device, infos []vk.GraphicsPipelineCreateInfo) ([]vk.Pipeline, vk.Result) {
	pipelines := make([]vk.Pipeline, len(infos))
	for i := range pipelines {
		f.create("pipeline")
		pipelines[i] = mint[vk.Pipeline](f)
	}
	return pipelines, vk.Success
}

func (f *fakeDriver) DestroyPipeline(device vk.Device, pipeline vk.Pipeline) { f.destroy("pipeline") }

// Descriptors

func (f *fakeDriver) CreateDescriptorSetLayout(device vk.Device, info *vk.DescriptorSetLayoutCreateInfo) (vk.DescriptorSetLayout, vk.Result) {
	f.create("descriptor-layout")
	return mint[vk.DescriptorSetLayout](f), vk.Success
}

func (f *fakeDriver) DestroyDescriptorSetLayout(device vk.Device, layout vk.DescriptorSetLayout) {
	f.destroy("descriptor-layout")
}

func (f *fakeDriver) CreateDescriptorPool(device vk.Device, info *vk.DescriptorPoolCreateInfo) (vk.DescriptorPool, vk.Result) {
	f.create("descriptor-pool")
	return mint[vk.DescriptorPool](f), vk.Success
}

func (f *fakeDriver) DestroyDescriptorPool(device vk.Device, pool vk.DescriptorPool) {
	f.destroy("descriptor-pool")
}

func (f *fakeDriver) AllocateDescriptorSets(device vk.Device, info *vk.DescriptorSetAllocateInfo) ([]vk.DescriptorSet, vk.Result) {
	sets := make([]vk.DescriptorSet, info.DescriptorSetCount)
	for i := range sets {
		sets[i] = mint[vk.DescriptorSet](f)
	}
	return sets, vk.Success
}

func (f *fakeDriver) UpdateDescriptorSets(device vk.Device, writes []vk.WriteDescriptorSet) {
	f.counts["descriptor-write"] += len(writes)
}

// Command recording

func (f *fakeDriver) CmdBeginRenderPass(cb vk.CommandBuffer, info *vk.RenderPassBeginInfo, contents vk.SubpassContents) {
	f.counts["begin-renderpass"]++
}

func (f *fakeDriver) CmdEndRenderPass(cb vk.CommandBuffer) { f.counts["end-renderpass"]++ }

func (f *fakeDriver) CmdBindPipeline(cb vk.CommandBuffer, bindPoint vk.PipelineBindPoint, pipeline vk.Pipeline) {
	f.counts["bind-pipeline"]++
}

func (f *fakeDriver) CmdBindDescriptorSets(cb vk.CommandBuffer, bindPoint vk.PipelineBindPoint, layout vk.PipelineLayout, firstSet uint32, sets []vk.DescriptorSet) {
	f.counts["bind-descriptors"]++
}

func (f *fakeDriver) CmdSetViewport(cb vk.CommandBuffer, viewports []vk.Viewport) {
	f.counts["set-viewport"]++
}

func (f *fakeDriver) CmdSetScissor(cb vk.CommandBuffer, scissors []vk.Rect2D) {
	f.counts["set-scissor"]++
}

func (f *fakeDriver) CmdBindVertexBuffers(cb vk.CommandBuffer, firstBinding uint32, buffers []vk.Buffer, offsets []vk.DeviceSize) {
	f.counts["bind-vertex"]++
}

func (f *fakeDriver) CmdBindIndexBuffer(cb vk.CommandBuffer, buffer vk.Buffer, offset vk.DeviceSize, indexType vk.IndexType) {
	f.counts["bind-index"]++
}

func (f *fakeDriver) CmdPushConstants(cb vk.CommandBuffer, layout vk.PipelineLayout, stages vk.ShaderStageFlags, offset, size uint32, values unsafe.Pointer) {
	f.counts["push-constants"]++
}

func (f *fakeDriver) CmdDrawIndexed(cb vk.CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	f.counts["draw-indexed"]++
}

func (f *fakeDriver) CmdDraw(cb vk.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	f.counts["draw"]++
}

func (f *fakeDriver) CmdCopyBuffer(cb vk.CommandBuffer, src, dst vk.Buffer, regions []vk.BufferCopy) {
	f.counts["copy-buffer"]++
}

func (f *fakeDriver) CmdCopyBufferToImage(cb vk.CommandBuffer, src vk.Buffer, dst vk.Image, layout vk.ImageLayout, regions []vk.BufferImageCopy) {
	f.counts["copy-buffer-to-image"]++
}

func (f *fakeDriver) CmdPipelineBarrier(cb vk.CommandBuffer, srcStage, dstStage vk.PipelineStageFlags, barriers []vk.ImageMemoryBarrier) {
	f.counts["barrier"]++
}

// fakeWindow reports a fixed framebuffer size. While minimized is positive,
// it reports 0x0 and each WaitEvents call counts one down.
type fakeWindow struct {
	width, height uint32
	minimized     int
	closing       bool
	waits         int
	surfaceDriver *fakeDriver
}

func (w *fakeWindow) FramebufferSize() (uint32, uint32) {
	if w.minimized > 0 {
		return 0, 0
	}
	return w.width, w.height
}

func (w *fakeWindow) WaitEvents() {
	w.waits++
	if w.minimized > 0 {
		w.minimized--
	}
}

func (w *fakeWindow) ShouldClose() bool { return w.closing }

func (w *fakeWindow) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	w.surfaceDriver.create("surface")
	return mint[vk.Surface](w.surfaceDriver), nil
}

func (w *fakeWindow) RequiredInstanceExtensions() []string {
	return []string{"VK_KHR_surface"}
}

var _ Driver = (*fakeDriver)(nil)
var _ Window = (*fakeWindow)(nil)
