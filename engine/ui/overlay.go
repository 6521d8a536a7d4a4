package ui

import (
	"fmt"
	"image"
	"slices"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/renderer/vulkan"
)

type OverlayConfig struct {
	// Margin from the top left corner of the framebuffer, in pixels.
	Margin         int
	VertexShader   []uint32
	FragmentShader []uint32
}

type overlaySlot struct {
	texture    vulkan.VulkanStreamedTexture
	generation uint64
}

/**
 * @brief Immediate mode text overlay drawn on top of the scene.
 *
 * Text is collected between BeginFrame and EndFrame and rasterized on the
 * CPU when it changes. Each frame slot owns a texture which is refreshed
 * inside that slot's own command buffer, after its fence has been waited on.
 */
type Overlay struct {
	config     OverlayConfig
	rasterizer TextRasterizer

	lines      []string
	previous   []string
	image      *image.RGBA
	generation uint64

	context     *vulkan.VulkanContext
	sampler     vk.Sampler
	descriptors *vulkan.VulkanDescriptorSetState
	pipeline    *vulkan.VulkanPipeline
	slots       [vulkan.MAX_FRAMES_IN_FLIGHT]overlaySlot
}

func NewOverlay(config OverlayConfig, rasterizer TextRasterizer) *Overlay {
	if rasterizer == nil {
		rasterizer = NewBasicRasterizer()
	}
	return &Overlay{config: config, rasterizer: rasterizer}
}

// Initialize creates the GPU objects. The renderer must be initialized.
func (o *Overlay) Initialize(context *vulkan.VulkanContext) error {
	o.context = context
	device := context.Device.LogicalDevice

	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterNearest,
		MinFilter:               vk.FilterNearest,
		MipmapMode:              vk.SamplerMipmapModeNearest,
		AddressModeU:            vk.SamplerAddressModeClampToEdge,
		AddressModeV:            vk.SamplerAddressModeClampToEdge,
		AddressModeW:            vk.SamplerAddressModeClampToEdge,
		MaxAnisotropy:           1.0,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareOp:               vk.CompareOpAlways,
	}
	sampler, res := context.Driver.CreateSampler(device, &samplerInfo)
	if err := vulkan.VulkanResultError(res, "vkCreateSampler"); err != nil {
		return err
	}
	o.sampler = sampler

	descriptors, err := vulkan.DescriptorSetStateCreate(context, []vk.DescriptorSetLayoutBinding{{
		Binding:         0,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	}}, vulkan.MAX_FRAMES_IN_FLIGHT)
	if err != nil {
		o.Destroy()
		return errors.Wrap(err, "creating overlay descriptors")
	}
	o.descriptors = descriptors

	if err := o.createPipeline(); err != nil {
		o.Destroy()
		return err
	}
	core.LogDebug("Overlay initialized.")
	return nil
}

func (o *Overlay) createPipeline() error {
	vertexStage, err := vulkan.NewShaderStage(o.context, o.config.VertexShader, vk.ShaderStageVertexBit)
	if err != nil {
		return errors.Wrap(err, "loading overlay vertex shader")
	}
	defer vertexStage.Destroy(o.context)
	fragmentStage, err := vulkan.NewShaderStage(o.context, o.config.FragmentShader, vk.ShaderStageFragmentBit)
	if err != nil {
		return errors.Wrap(err, "loading overlay fragment shader")
	}
	defer fragmentStage.Destroy(o.context)

	pipeline, err := vulkan.NewGraphicsPipeline(o.context, &vulkan.VulkanPipelineConfig{
		Renderpass:           o.context.MainRenderpass,
		DescriptorSetLayouts: []vk.DescriptorSetLayout{o.descriptors.Layout},
		Stages: []vk.PipelineShaderStageCreateInfo{
			vertexStage.ShaderStageCreateInfo,
			fragmentStage.ShaderStageCreateInfo,
		},
		CullMode: vulkan.FaceCullModeNone,
		Blend:    true,
		PushConstantRanges: []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit),
			Offset:     0,
			Size:       metadata.OverlayPushConstantsSize,
		}},
	})
	if err != nil {
		return errors.Wrap(err, "creating overlay pipeline")
	}
	o.pipeline = pipeline
	return nil
}

// Destroy releases the GPU objects. The device must be idle.
func (o *Overlay) Destroy() {
	if o.context == nil {
		return
	}
	for i := range o.slots {
		o.slots[i].texture.Destroy(o.context)
		o.slots[i] = overlaySlot{}
	}
	if o.pipeline != nil {
		o.pipeline.Destroy(o.context)
		o.pipeline = nil
	}
	if o.descriptors != nil {
		o.descriptors.Destroy(o.context)
		o.descriptors = nil
	}
	if o.sampler != nil {
		o.context.Driver.DestroySampler(o.context.Device.LogicalDevice, o.sampler)
		o.sampler = nil
	}
	o.context = nil
}

func (o *Overlay) BeginFrame() {
	o.lines = o.lines[:0]
}

func (o *Overlay) Text(format string, args ...interface{}) {
	o.lines = append(o.lines, fmt.Sprintf(format, args...))
}

// EndFrame rasterizes the collected lines when they differ from the last frame.
func (o *Overlay) EndFrame() {
	if slices.Equal(o.lines, o.previous) {
		return
	}
	o.previous = append(o.previous[:0], o.lines...)
	o.generation++
	if len(o.lines) == 0 {
		o.image = nil
		return
	}
	o.image = o.rasterizer.Rasterize(o.lines)
}

// Generation increases every time the rasterized text changes.
func (o *Overlay) Generation() uint64 {
	return o.generation
}

// Image is the current rasterized text, nil when there is nothing to draw.
func (o *Overlay) Image() *image.RGBA {
	return o.image
}

// ScreenRect places the text image at the margin, as x0 y0 x1 y1 in clip space.
func (o *Overlay) ScreenRect(screenWidth, screenHeight uint32) mgl32.Vec4 {
	if o.image == nil || screenWidth == 0 || screenHeight == 0 {
		return mgl32.Vec4{}
	}
	sw, sh := float32(screenWidth), float32(screenHeight)
	b := o.image.Bounds()
	x0 := -1 + 2*float32(o.config.Margin)/sw
	y0 := -1 + 2*float32(o.config.Margin)/sh
	return mgl32.Vec4{x0, y0, x0 + 2*float32(b.Dx())/sw, y0 + 2*float32(b.Dy())/sh}
}

// PrepareFrame records the refresh of the recording slot's texture when the
// text changed since that slot last drew.
func (o *Overlay) PrepareFrame(context *vulkan.VulkanContext, cb *vulkan.VulkanCommandBuffer) error {
	if o.image == nil || o.pipeline == nil {
		return nil
	}
	index := context.CurrentFrame
	slot := &o.slots[index]
	if slot.generation == o.generation && slot.texture.Ready() {
		return nil
	}
	b := o.image.Bounds()
	if err := slot.texture.Stage(context, cb, uint32(b.Dx()), uint32(b.Dy()), o.image.Pix); err != nil {
		return errors.Wrap(err, "staging overlay texture")
	}
	o.descriptors.WriteCombinedImageSampler(context, int(index), 0, slot.texture.Image.View, o.sampler)
	slot.generation = o.generation
	return nil
}

// RecordDrawCommands draws the text quad inside the main renderpass.
func (o *Overlay) RecordDrawCommands(context *vulkan.VulkanContext, cb *vulkan.VulkanCommandBuffer) error {
	if o.image == nil || o.pipeline == nil {
		return nil
	}
	index := context.CurrentFrame
	if !o.slots[index].texture.Ready() {
		return nil
	}

	o.pipeline.Bind(context, cb, vk.PipelineBindPointGraphics)
	o.descriptors.Bind(context, cb, o.pipeline.PipelineLayout, int(index))
	extent := context.Swapchain.Extent
	constants := metadata.OverlayPushConstants{Rect: o.ScreenRect(extent.Width, extent.Height)}
	context.Driver.CmdPushConstants(cb.Handle, o.pipeline.PipelineLayout, vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		0, metadata.OverlayPushConstantsSize, unsafe.Pointer(&constants))
	// Two triangles generated in the vertex shader.
	context.Driver.CmdDraw(cb.Handle, 6, 1, 0, 0)
	return nil
}

var _ vulkan.UIRecorder = (*Overlay)(nil)
