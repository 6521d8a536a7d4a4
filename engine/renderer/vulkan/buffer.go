package vulkan

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
)

/**
 * @brief A buffer handle together with the device memory bound to it.
 */
type VulkanBuffer struct {
	Handle              vk.Buffer
	Memory              vk.DeviceMemory
	TotalSize           uint64
	Usage               vk.BufferUsageFlags
	MemoryPropertyFlags vk.MemoryPropertyFlags
	MemoryIndex         int32
	// Host pointer while the memory is mapped, nil otherwise.
	Mapped unsafe.Pointer
}

func BufferCreate(context *VulkanContext, size uint64, usage vk.BufferUsageFlags, memoryPropertyFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	if size == 0 {
		return nil, errors.New("cannot create a zero sized buffer")
	}
	outBuffer := &VulkanBuffer{
		TotalSize:           size,
		Usage:               usage,
		MemoryPropertyFlags: memoryPropertyFlags,
	}
	device := context.Device.LogicalDevice

	bufferInfo := vk.BufferCreateInfo{
		SType: vk.StructureTypeBufferCreateInfo,
		Size:  vk.DeviceSize(size),
		Usage: usage,
		// NOTE: Only used in one queue.
		SharingMode: vk.SharingModeExclusive,
	}
	handle, res := context.Driver.CreateBuffer(device, &bufferInfo)
	if err := VulkanResultError(res, "vkCreateBuffer"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	outBuffer.Handle = handle

	requirements := context.Driver.GetBufferMemoryRequirements(device, handle)
	outBuffer.MemoryIndex = context.FindMemoryIndex(requirements.MemoryTypeBits, memoryPropertyFlags)
	if outBuffer.MemoryIndex == -1 {
		outBuffer.Destroy(context)
		err := errors.New("unable to create vulkan buffer because the required memory type index was not found")
		core.LogError(err.Error())
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(outBuffer.MemoryIndex),
	}
	memory, res := context.Driver.AllocateMemory(device, &allocateInfo)
	if err := VulkanResultError(res, "vkAllocateMemory"); err != nil {
		outBuffer.Destroy(context)
		core.LogError(err.Error())
		return nil, err
	}
	outBuffer.Memory = memory

	if err := VulkanResultError(context.Driver.BindBufferMemory(device, handle, memory, 0), "vkBindBufferMemory"); err != nil {
		outBuffer.Destroy(context)
		core.LogError(err.Error())
		return nil, err
	}
	return outBuffer, nil
}

// Destroy releases the buffer and then its memory. Safe to call more than once.
func (vb *VulkanBuffer) Destroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	if vb.Mapped != nil {
		vb.UnmapMemory(context)
	}
	if vb.Handle != vk.NullBuffer {
		context.Driver.DestroyBuffer(device, vb.Handle)
		vb.Handle = vk.NullBuffer
	}
	if vb.Memory != vk.NullDeviceMemory {
		context.Driver.FreeMemory(device, vb.Memory)
		vb.Memory = vk.NullDeviceMemory
	}
	vb.TotalSize = 0
}

func (vb *VulkanBuffer) MapMemory(context *VulkanContext, offset, size uint64) (unsafe.Pointer, error) {
	if vb.Mapped != nil {
		return unsafe.Add(vb.Mapped, offset), nil
	}
	ptr, res := context.Driver.MapMemory(context.Device.LogicalDevice, vb.Memory, vk.DeviceSize(offset), vk.DeviceSize(size))
	if err := VulkanResultError(res, "vkMapMemory"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	vb.Mapped = ptr
	return ptr, nil
}

func (vb *VulkanBuffer) UnmapMemory(context *VulkanContext) {
	if vb.Mapped == nil {
		return
	}
	context.Driver.UnmapMemory(context.Device.LogicalDevice, vb.Memory)
	vb.Mapped = nil
}

/**
 * @brief Copies data into host visible memory at the given offset. A buffer
 * that is already mapped stays mapped, otherwise the mapping is temporary.
 */
func (vb *VulkanBuffer) LoadData(context *VulkanContext, offset uint64, data []byte) error {
	if uint64(len(data))+offset > vb.TotalSize {
		return errors.Newf("load of %d bytes at offset %d overflows buffer of %d bytes", len(data), offset, vb.TotalSize)
	}
	if len(data) == 0 {
		return nil
	}
	if vb.Mapped != nil {
		vk.Memcopy(unsafe.Add(vb.Mapped, offset), data)
		return nil
	}
	ptr, err := vb.MapMemory(context, offset, uint64(len(data)))
	if err != nil {
		return err
	}
	vk.Memcopy(ptr, data)
	vb.UnmapMemory(context)
	return nil
}

// RecordCopy records a copy of size bytes from vb into dest.
func (vb *VulkanBuffer) RecordCopy(context *VulkanContext, cb *VulkanCommandBuffer, srcOffset uint64, dest *VulkanBuffer, destOffset uint64, size uint64) {
	region := vk.BufferCopy{
		SrcOffset: vk.DeviceSize(srcOffset),
		DstOffset: vk.DeviceSize(destOffset),
		Size:      vk.DeviceSize(size),
	}
	context.Driver.CmdCopyBuffer(cb.Handle, vb.Handle, dest.Handle, []vk.BufferCopy{region})
}
