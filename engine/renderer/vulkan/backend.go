package vulkan

import (
	"iter"
	"math"
	"runtime"
	"slices"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// SceneIterator yields the model matrix and mesh of every drawable entity.
type SceneIterator interface {
	Renderables() iter.Seq2[mgl32.Mat4, *VulkanMesh]
}

type CameraSource interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
	Position() mgl32.Vec3
}

/**
 * @brief Draws on top of the scene. PrepareFrame is recorded before the main
 * render pass begins, where transfers are allowed; RecordDrawCommands inside
 * it. Both run after the recording slot's fence has been waited on.
 */
type UIRecorder interface {
	PrepareFrame(context *VulkanContext, cb *VulkanCommandBuffer) error
	RecordDrawCommands(context *VulkanContext, cb *VulkanCommandBuffer) error
}

type VulkanRendererConfig struct {
	ApplicationName string
	Validation      bool
	PreferMailbox   bool
	Wireframe       bool
	CullMode        FaceCullMode
	ClearColor      [4]float32
	// SPIR-V words of the mesh pipeline stages.
	VertexShader   []uint32
	FragmentShader []uint32
}

type VulkanRenderer struct {
	FrameNumber uint64

	context *VulkanContext
	config  VulkanRendererConfig

	frameSync *FrameSynchronizer
	releases  *DeferredReleaseQueue

	globalUniformBuffers []*VulkanBuffer
	globalDescriptors    *VulkanDescriptorSetState
	meshPipeline         *VulkanPipeline

	// Meshes created through this renderer and not yet released.
	meshes map[*VulkanMesh]struct{}

	resized  bool
	shutdown bool
}

func New(window Window, driver Driver, config VulkanRendererConfig) *VulkanRenderer {
	context := NewVulkanContext(driver, window)
	context.PreferMailbox = config.PreferMailbox
	return &VulkanRenderer{
		FrameNumber: 0,
		context:     context,
		config:      config,
		releases:    NewDeferredReleaseQueue(VULKAN_MAX_DEFERRED_RELEASES),
		meshes:      make(map[*VulkanMesh]struct{}),
	}
}

// Context is the device handle accessor used by collaborators that create GPU resources.
func (vr *VulkanRenderer) Context() *VulkanContext {
	return vr.context
}

func (vr *VulkanRenderer) Initialize() error {
	if err := vr.createInstance(); err != nil {
		return err
	}

	// Surface
	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.context.Window.CreateSurface(vr.context.Instance)
	if err != nil {
		core.LogError("Failed to create platform surface!")
		return errors.Wrap(err, "creating window surface")
	}
	vr.context.Surface = surface
	core.LogDebug("Vulkan surface created.")

	// Device creation
	if err := DeviceCreate(vr.context); err != nil {
		core.LogError("Failed to create device!")
		return errors.Wrap(err, "creating device")
	}

	colorFormat := SwapchainChooseSurfaceFormat(vr.context.Device.SwapchainSupport.Formats)
	rp, err := RenderpassCreate(vr.context, colorFormat.Format, vr.context.Device.DepthFormat, vr.config.ClearColor, 1.0, 0)
	if err != nil {
		return errors.Wrap(err, "creating main render pass")
	}
	vr.context.MainRenderpass = rp

	// Swapchain and its framebuffers.
	sc, err := SwapchainCreate(vr.context)
	if err != nil {
		return errors.Wrap(err, "creating swapchain")
	}
	vr.context.Swapchain = sc

	fs, err := NewFrameSynchronizer(vr.context)
	if err != nil {
		return errors.Wrap(err, "creating frame synchronizer")
	}
	vr.frameSync = fs

	if err := vr.createGlobalUniforms(); err != nil {
		return err
	}
	if err := vr.createMeshPipeline(); err != nil {
		return err
	}

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createInstance() error {
	driver := vr.context.Driver

	// Setup Vulkan instance.
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(vr.config.ApplicationName),
		PEngineName:        VulkanSafeString("meshview"),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	// Obtain a list of required extensions
	requiredExtensions := vr.context.Window.RequiredInstanceExtensions()
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	// Validation layers are only used when requested and installed.
	requiredValidationLayerNames := []string{}
	if vr.config.Validation {
		core.LogInfo("Validation layers enabled. Enumerating...")
		availableLayers, res := driver.EnumerateInstanceLayerProperties()
		if err := VulkanResultError(res, "vkEnumerateInstanceLayerProperties"); err != nil {
			return err
		}
		core.LogInfo("Searching for layer: %s...", VULKAN_VALIDATION_LAYER)
		if slices.Contains(availableLayers, VULKAN_VALIDATION_LAYER) {
			core.LogInfo("Found.")
			requiredValidationLayerNames = append(requiredValidationLayerNames, VULKAN_VALIDATION_LAYER)
			requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		} else {
			core.LogWarn("Validation layer %s is missing, continuing without validation.", VULKAN_VALIDATION_LAYER)
		}
	}

	core.LogInfo("Required extensions:")
	for _, name := range requiredExtensions {
		core.LogInfo(name)
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)
	createInfo.EnabledLayerCount = uint32(len(requiredValidationLayerNames))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(requiredValidationLayerNames)

	instance, res := driver.CreateInstance(&createInfo)
	if err := VulkanResultError(res, "vkCreateInstance"); err != nil {
		core.LogError(err.Error())
		return err
	}
	vr.context.Instance = instance
	core.LogInfo("Vulkan Instance created.")

	// Debugger
	if len(requiredValidationLayerNames) > 0 {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		dbg, res := driver.CreateDebugReportCallback(instance, &debugCreateInfo)
		if err := VulkanResultError(res, "vkCreateDebugReportCallbackEXT"); err != nil {
			core.LogError(err.Error())
			return err
		}
		vr.context.debugMessenger = dbg
		core.LogDebug("Vulkan debugger created.")
	}
	return nil
}

func (vr *VulkanRenderer) createGlobalUniforms() error {
	vr.globalUniformBuffers = make([]*VulkanBuffer, 0, MAX_FRAMES_IN_FLIGHT)
	for i := uint32(0); i < MAX_FRAMES_IN_FLIGHT; i++ {
		buffer, err := BufferCreate(vr.context, metadata.GlobalUniformObjectSize,
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			return errors.Wrap(err, "creating global uniform buffer")
		}
		vr.globalUniformBuffers = append(vr.globalUniformBuffers, buffer)
		// Stays mapped for the lifetime of the buffer.
		if _, err := buffer.MapMemory(vr.context, 0, metadata.GlobalUniformObjectSize); err != nil {
			return err
		}
	}

	descriptors, err := DescriptorSetStateCreate(vr.context, GlobalUniformBindings(), MAX_FRAMES_IN_FLIGHT)
	if err != nil {
		return errors.Wrap(err, "creating global descriptors")
	}
	vr.globalDescriptors = descriptors
	for i, buffer := range vr.globalUniformBuffers {
		descriptors.WriteUniformBuffer(vr.context, i, 0, buffer)
	}
	return nil
}

// MeshVertexAttributes describes metadata.Vertex at binding 0.
func MeshVertexAttributes() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: metadata.VertexPositionOffset},
		{Location: 1, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: metadata.VertexNormalOffset},
		{Location: 2, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: metadata.VertexTexCoordOffset},
		{Location: 3, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: metadata.VertexColorOffset},
	}
}

func (vr *VulkanRenderer) createMeshPipeline() error {
	vertexStage, err := NewShaderStage(vr.context, vr.config.VertexShader, vk.ShaderStageVertexBit)
	if err != nil {
		return errors.Wrap(err, "loading mesh vertex shader")
	}
	defer vertexStage.Destroy(vr.context)

	fragmentStage, err := NewShaderStage(vr.context, vr.config.FragmentShader, vk.ShaderStageFragmentBit)
	if err != nil {
		return errors.Wrap(err, "loading mesh fragment shader")
	}
	defer fragmentStage.Destroy(vr.context)

	pipelineConfig := &VulkanPipelineConfig{
		Renderpass:           vr.context.MainRenderpass,
		Stride:               metadata.VertexSize,
		Attributes:           MeshVertexAttributes(),
		DescriptorSetLayouts: []vk.DescriptorSetLayout{vr.globalDescriptors.Layout},
		Stages: []vk.PipelineShaderStageCreateInfo{
			vertexStage.ShaderStageCreateInfo,
			fragmentStage.ShaderStageCreateInfo,
		},
		CullMode:    vr.config.CullMode,
		IsWireframe: vr.config.Wireframe,
		DepthTest:   true,
		DepthWrite:  true,
		PushConstantRanges: []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit),
			Offset:     0,
			Size:       metadata.MeshPushConstantsSize,
		}},
	}
	pipeline, err := NewGraphicsPipeline(vr.context, pipelineConfig)
	if err != nil {
		return errors.Wrap(err, "creating mesh pipeline")
	}
	vr.meshPipeline = pipeline
	return nil
}

/**
 * @brief Destroys everything in reverse creation order. Safe on a partially
 * initialized renderer; a second call does nothing.
 */
func (vr *VulkanRenderer) Shutdown() error {
	if vr.shutdown {
		return nil
	}
	vr.shutdown = true
	context := vr.context
	driver := context.Driver

	if context.Device != nil && context.Device.LogicalDevice != nil {
		if err := VulkanResultError(driver.DeviceWaitIdle(context.Device.LogicalDevice), "vkDeviceWaitIdle"); err != nil {
			core.LogWarn(err.Error())
		}

		vr.releases.Flush(context)

		for mesh := range vr.meshes {
			mesh.Destroy(context)
		}
		clear(vr.meshes)

		if vr.meshPipeline != nil {
			vr.meshPipeline.Destroy(context)
			vr.meshPipeline = nil
		}
		if vr.globalDescriptors != nil {
			vr.globalDescriptors.Destroy(context)
			vr.globalDescriptors = nil
		}
		for _, buffer := range vr.globalUniformBuffers {
			buffer.Destroy(context)
		}
		vr.globalUniformBuffers = nil

		if vr.frameSync != nil {
			vr.frameSync.Destroy(context)
			vr.frameSync = nil
		}
		if context.Swapchain != nil {
			context.Swapchain.SwapchainDestroy(context)
			context.Swapchain = nil
		}
		if context.MainRenderpass != nil {
			context.MainRenderpass.RenderpassDestroy(context)
			context.MainRenderpass = nil
		}
	}

	core.LogDebug("Destroying Vulkan device...")
	DeviceDestroy(context)

	if context.Surface != vk.NullSurface {
		core.LogDebug("Destroying Vulkan surface...")
		driver.DestroySurface(context.Instance, context.Surface)
		context.Surface = vk.NullSurface
	}

	if context.debugMessenger != vk.NullDebugReportCallback {
		core.LogDebug("Destroying Vulkan debugger...")
		driver.DestroyDebugReportCallback(context.Instance, context.debugMessenger)
		context.debugMessenger = vk.NullDebugReportCallback
	}

	if context.Instance != nil {
		core.LogDebug("Destroying Vulkan instance...")
		driver.DestroyInstance(context.Instance)
		context.Instance = nil
	}
	return nil
}

// WaitIdle blocks until the device has finished all submitted work.
func (vr *VulkanRenderer) WaitIdle() error {
	context := vr.context
	if context.Device == nil || context.Device.LogicalDevice == nil {
		return nil
	}
	return VulkanResultError(context.Driver.DeviceWaitIdle(context.Device.LogicalDevice), "vkDeviceWaitIdle")
}

// Resized flags the swapchain for recreation after the next present.
func (vr *VulkanRenderer) Resized(width, height uint32) {
	vr.resized = true
	core.LogInfo("Vulkan renderer backend->resized: w/h: %d/%d", width, height)
}

/**
 * @brief Draws one frame. Recoverable surface changes recreate the swapchain
 * and abandon the frame; every returned error is fatal.
 */
func (vr *VulkanRenderer) DrawFrame(camera CameraSource, scene SceneIterator, ui UIRecorder) error {
	context := vr.context
	driver := context.Driver

	if context.Swapchain == nil {
		core.LogDebug("No swapchain, recreating and booting.")
		return vr.recreateSwapchain()
	}

	slot := vr.frameSync.AcquireSlot(vr.FrameNumber)
	if err := vr.frameSync.WaitForSlotIdle(context, slot); err != nil {
		return err
	}
	vr.releases.Collect(context, vr.FrameNumber)

	// Acquire the next image from the swap chain. Pass along the semaphore that should signaled when this completes.
	// This same semaphore will later be waited on by the queue submission to ensure this image is available.
	slot.transition(FRAME_SLOT_STATE_ACQUIRING_IMAGE)
	imageIndex, res := context.Swapchain.AcquireNextImageIndex(context, math.MaxUint64, slot.ImageAvailableSemaphore, vk.NullFence)
	switch res {
	case vk.Success, vk.Suboptimal:
	case vk.ErrorOutOfDate:
		// Trigger swapchain recreation, then boot out of the render loop.
		slot.transition(FRAME_SLOT_STATE_IDLE)
		return vr.recreateSwapchain()
	default:
		slot.transition(FRAME_SLOT_STATE_IDLE)
		err := VulkanResultError(res, "vkAcquireNextImageKHR")
		if err == nil {
			// A non-error status other than success or suboptimal, such as a timeout.
			err = errors.Wrapf(core.ErrUnknown, "vkAcquireNextImageKHR returned %s", VulkanResultString(res, false))
		}
		core.LogError("Failed to acquire swapchain image: %s", err)
		return err
	}
	context.CurrentFrame = slot.Index
	context.ImageIndex = imageIndex

	if err := vr.frameSync.ResetSlot(context, slot); err != nil {
		return err
	}
	commandBuffer := slot.CommandBuffer
	if err := commandBuffer.Reset(context); err != nil {
		return err
	}

	if err := vr.writeGlobalUniforms(slot, camera); err != nil {
		slot.transition(FRAME_SLOT_STATE_IDLE)
		return err
	}

	slot.transition(FRAME_SLOT_STATE_RECORDING)
	if err := vr.recordCommands(slot, imageIndex, scene, ui); err != nil {
		return errors.Wrap(err, "recording frame commands")
	}

	// Each semaphore waits on the corresponding pipeline stage to complete. 1:1 ratio.
	// VK_PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT prevents subsequent colour attachment
	// writes from executing until the semaphore signals (i.e. one frame is presented at a time)
	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{slot.ImageAvailableSemaphore},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{commandBuffer.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{slot.RenderFinishedSemaphore},
	}
	if err := VulkanResultError(driver.QueueSubmit(context.Device.GraphicsQueue, []vk.SubmitInfo{submitInfo}, slot.InFlightFence.Handle), "vkQueueSubmit"); err != nil {
		core.LogError(err.Error())
		return err
	}
	slot.InFlightFence.MarkSubmitted()
	commandBuffer.UpdateSubmitted()
	slot.transition(FRAME_SLOT_STATE_SUBMITTED)

	// Give the image back to the swapchain.
	res = context.Swapchain.Present(context, context.Device.PresentQueue, slot.RenderFinishedSemaphore, imageIndex)
	vr.FrameNumber++

	if res == vk.ErrorOutOfDate || res == vk.Suboptimal || vr.resized {
		// Swapchain is out of date, suboptimal or a framebuffer resize has occurred. Trigger swapchain recreation.
		vr.resized = false
		return vr.recreateSwapchain()
	}
	if err := VulkanResultError(res, "vkQueuePresentKHR"); err != nil {
		core.LogError("Failed to present swap chain image: %s", err)
		return err
	}
	return nil
}

func (vr *VulkanRenderer) writeGlobalUniforms(slot *FrameSlot, camera CameraSource) error {
	position := camera.Position()
	ubo := metadata.GlobalUniformObject{
		View:           camera.View(),
		Projection:     camera.Projection(),
		LightDirection: metadata.DefaultLightDirection,
		CameraPosition: position.Vec4(1.0),
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(&ubo)), metadata.GlobalUniformObjectSize)
	if err := vr.globalUniformBuffers[slot.Index].LoadData(vr.context, 0, data); err != nil {
		core.LogError("failed to write global uniforms: %s", err)
		return errors.Wrap(err, "writing global uniforms")
	}
	return nil
}

func (vr *VulkanRenderer) recordCommands(slot *FrameSlot, imageIndex uint32, scene SceneIterator, ui UIRecorder) error {
	context := vr.context
	driver := context.Driver
	cb := slot.CommandBuffer
	extent := context.Swapchain.Extent

	if err := cb.Begin(context, false, false, false); err != nil {
		return err
	}
	if ui != nil {
		if err := ui.PrepareFrame(context, cb); err != nil {
			return errors.Wrap(err, "preparing overlay")
		}
	}
	context.MainRenderpass.RenderpassBegin(context, cb, context.Swapchain.Framebuffers[imageIndex].Handle, extent)

	vr.meshPipeline.Bind(context, cb, vk.PipelineBindPointGraphics)
	vr.globalDescriptors.Bind(context, cb, vr.meshPipeline.PipelineLayout, int(slot.Index))

	// Dynamic state
	viewport := vk.Viewport{
		X:        0.0,
		Y:        0.0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}
	driver.CmdSetViewport(cb.Handle, []vk.Viewport{viewport})
	driver.CmdSetScissor(cb.Handle, []vk.Rect2D{scissor})

	if scene != nil {
		for model, mesh := range scene.Renderables() {
			if !mesh.Drawable() {
				continue
			}
			driver.CmdBindVertexBuffers(cb.Handle, 0, []vk.Buffer{mesh.VertexBuffer.Handle}, []vk.DeviceSize{0})
			driver.CmdBindIndexBuffer(cb.Handle, mesh.IndexBuffer.Handle, 0, vk.IndexTypeUint32)
			constants := metadata.MeshPushConstants{Model: model}
			driver.CmdPushConstants(cb.Handle, vr.meshPipeline.PipelineLayout, vk.ShaderStageFlags(vk.ShaderStageVertexBit),
				0, metadata.MeshPushConstantsSize, unsafe.Pointer(&constants))
			driver.CmdDrawIndexed(cb.Handle, mesh.IndexCount, 1, 0, 0, 0)
		}
	}

	if ui != nil {
		if err := ui.RecordDrawCommands(context, cb); err != nil {
			return errors.Wrap(err, "recording overlay")
		}
	}

	context.MainRenderpass.RenderpassEnd(context, cb)
	return cb.End(context)
}

/**
 * @brief Rebuilds the swapchain. Creation failures leave the swapchain nil
 * so the next frame retries; a closing window or a changed surface format
 * are returned to the caller.
 */
func (vr *VulkanRenderer) recreateSwapchain() error {
	sc, err := vr.context.Swapchain.Recreate(vr.context)
	vr.context.Swapchain = sc
	if err == nil {
		core.LogInfo("Swapchain recreated, booting.")
		return nil
	}
	if errors.Is(err, core.ErrWindowClosing) || errors.Is(err, core.ErrSurfaceFormatChanged) || sc != nil {
		return err
	}
	core.LogWarn("swapchain recreation failed, retrying next frame: %s", err)
	return nil
}

// UploadMesh uploads geometry and tracks the mesh until it is released.
func (vr *VulkanRenderer) UploadMesh(vertices []metadata.Vertex, indices []uint32) (*VulkanMesh, error) {
	mesh, err := UploadMesh(vr.context, vertices, indices)
	if err != nil {
		return nil, err
	}
	vr.meshes[mesh] = struct{}{}
	return mesh, nil
}

/**
 * @brief Replaces previous with new geometry. Waits for the device to idle
 * and destroys previous first, so at most one set of buffers is live. Empty
 * data still destroys previous and returns core.ErrEmptyMesh.
 *
 * On error the returned mesh is the one the caller still owns: previous when
 * the wait failed before anything was released, nil otherwise.
 */
func (vr *VulkanRenderer) ReplaceMesh(previous *VulkanMesh, vertices []metadata.Vertex, indices []uint32) (*VulkanMesh, error) {
	if previous != nil {
		if err := VulkanResultError(vr.context.Driver.DeviceWaitIdle(vr.context.Device.LogicalDevice), "vkDeviceWaitIdle"); err != nil {
			return previous, err
		}
		delete(vr.meshes, previous)
		previous.Destroy(vr.context)
	}
	return vr.UploadMesh(vertices, indices)
}

// ReleaseMesh destroys mesh once no frame in flight can reference it.
func (vr *VulkanRenderer) ReleaseMesh(mesh *VulkanMesh) error {
	if mesh == nil {
		return nil
	}
	delete(vr.meshes, mesh)
	return vr.releases.Enqueue(vr.context, vr.FrameNumber, mesh.Destroy)
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		core.LogDebug("DEBUG: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
