package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
)

/**
 * @brief A descriptor set layout, the pool its sets come from and one set per frame slot.
 */
type VulkanDescriptorSetState struct {
	Layout vk.DescriptorSetLayout
	Pool   vk.DescriptorPool
	/** @brief The descriptor sets for this layout, one per frame. */
	Sets []vk.DescriptorSet
}

/**
 * @brief Creates a layout from bindings and allocates setCount sets sized for them.
 */
func DescriptorSetStateCreate(context *VulkanContext, bindings []vk.DescriptorSetLayoutBinding, setCount uint32) (*VulkanDescriptorSetState, error) {
	state := &VulkanDescriptorSetState{}
	device := context.Device.LogicalDevice

	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	layout, res := context.Driver.CreateDescriptorSetLayout(device, &layoutInfo)
	if err := VulkanResultError(res, "vkCreateDescriptorSetLayout"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	state.Layout = layout

	poolSizes := make([]vk.DescriptorPoolSize, 0, len(bindings))
	for _, binding := range bindings {
		poolSizes = append(poolSizes, vk.DescriptorPoolSize{
			Type:            binding.DescriptorType,
			DescriptorCount: binding.DescriptorCount * setCount,
		})
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       setCount,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
	}
	pool, res := context.Driver.CreateDescriptorPool(device, &poolInfo)
	if err := VulkanResultError(res, "vkCreateDescriptorPool"); err != nil {
		core.LogError(err.Error())
		state.Destroy(context)
		return nil, err
	}
	state.Pool = pool

	layouts := make([]vk.DescriptorSetLayout, setCount)
	for i := range layouts {
		layouts[i] = layout
	}
	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool,
		DescriptorSetCount: setCount,
		PSetLayouts:        layouts,
	}
	sets, res := context.Driver.AllocateDescriptorSets(device, &allocInfo)
	if err := VulkanResultError(res, "vkAllocateDescriptorSets"); err != nil {
		core.LogError(err.Error())
		state.Destroy(context)
		return nil, err
	}
	state.Sets = sets
	return state, nil
}

// WriteUniformBuffer points binding of set index at the whole of buffer.
func (s *VulkanDescriptorSetState) WriteUniformBuffer(context *VulkanContext, index int, binding uint32, buffer *VulkanBuffer) {
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          s.Sets[index],
		DstBinding:      binding,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: buffer.Handle,
			Offset: 0,
			Range:  vk.DeviceSize(buffer.TotalSize),
		}},
	}
	context.Driver.UpdateDescriptorSets(context.Device.LogicalDevice, []vk.WriteDescriptorSet{write})
}

// WriteCombinedImageSampler binds a sampled image view to binding of set index.
func (s *VulkanDescriptorSetState) WriteCombinedImageSampler(context *VulkanContext, index int, binding uint32, view vk.ImageView, sampler vk.Sampler) {
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          s.Sets[index],
		DstBinding:      binding,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		PImageInfo: []vk.DescriptorImageInfo{{
			Sampler:     sampler,
			ImageView:   view,
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		}},
	}
	context.Driver.UpdateDescriptorSets(context.Device.LogicalDevice, []vk.WriteDescriptorSet{write})
}

func (s *VulkanDescriptorSetState) Bind(context *VulkanContext, cb *VulkanCommandBuffer, layout vk.PipelineLayout, index int) {
	context.Driver.CmdBindDescriptorSets(cb.Handle, vk.PipelineBindPointGraphics, layout, 0, []vk.DescriptorSet{s.Sets[index]})
}

// Destroy releases the pool, which frees its sets, then the layout.
func (s *VulkanDescriptorSetState) Destroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	if s.Pool != nil {
		context.Driver.DestroyDescriptorPool(device, s.Pool)
		s.Pool = nil
	}
	s.Sets = nil
	if s.Layout != nil {
		context.Driver.DestroyDescriptorSetLayout(device, s.Layout)
		s.Layout = nil
	}
}

// GlobalUniformBindings describes the per-frame uniform block read by both stages.
func GlobalUniformBindings() []vk.DescriptorSetLayoutBinding {
	return []vk.DescriptorSetLayoutBinding{{
		Binding:         0,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit),
	}}
}
