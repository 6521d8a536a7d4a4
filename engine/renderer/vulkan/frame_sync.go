package vulkan

import (
	"math"

	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/containers"
	"github.com/spaghettifunk/meshview/engine/core"
)

type FrameSlotState int

const (
	FRAME_SLOT_STATE_IDLE FrameSlotState = iota
	FRAME_SLOT_STATE_ACQUIRING_IMAGE
	FRAME_SLOT_STATE_RECORDING
	FRAME_SLOT_STATE_SUBMITTED
)

func (s FrameSlotState) String() string {
	switch s {
	case FRAME_SLOT_STATE_IDLE:
		return "idle"
	case FRAME_SLOT_STATE_ACQUIRING_IMAGE:
		return "acquiring-image"
	case FRAME_SLOT_STATE_RECORDING:
		return "recording"
	case FRAME_SLOT_STATE_SUBMITTED:
		return "submitted"
	}
	return "unknown"
}

/**
 * @brief The per-frame synchronization objects. The fence must be signaled
 * before the command buffer is recorded again.
 */
type FrameSlot struct {
	Index                   uint32
	ImageAvailableSemaphore vk.Semaphore
	RenderFinishedSemaphore vk.Semaphore
	InFlightFence           *VulkanFence
	CommandBuffer           *VulkanCommandBuffer
	State                   FrameSlotState
}

func (s *FrameSlot) transition(to FrameSlotState) {
	core.LogDebug("frame slot %d: %s -> %s", s.Index, s.State, to)
	s.State = to
}

type FrameSynchronizer struct {
	Slots []*FrameSlot
}

func NewFrameSynchronizer(context *VulkanContext) (*FrameSynchronizer, error) {
	fs := &FrameSynchronizer{
		Slots: make([]*FrameSlot, 0, MAX_FRAMES_IN_FLIGHT),
	}
	device := context.Device.LogicalDevice
	semaphoreInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	for i := uint32(0); i < MAX_FRAMES_IN_FLIGHT; i++ {
		slot := &FrameSlot{Index: i, State: FRAME_SLOT_STATE_IDLE}
		fs.Slots = append(fs.Slots, slot)

		imageAvailable, res := context.Driver.CreateSemaphore(device, &semaphoreInfo)
		if err := VulkanResultError(res, "vkCreateSemaphore"); err != nil {
			fs.Destroy(context)
			return nil, err
		}
		slot.ImageAvailableSemaphore = imageAvailable

		renderFinished, res := context.Driver.CreateSemaphore(device, &semaphoreInfo)
		if err := VulkanResultError(res, "vkCreateSemaphore"); err != nil {
			fs.Destroy(context)
			return nil, err
		}
		slot.RenderFinishedSemaphore = renderFinished

		// Create the fence in a signaled state, indicating that the first frame has already been "rendered".
		// This will prevent the application from waiting indefinitely for the first frame to render since it
		// cannot be rendered until a frame is "rendered" before it.
		fence, err := NewFence(context, true)
		if err != nil {
			fs.Destroy(context)
			return nil, err
		}
		slot.InFlightFence = fence

		cb, err := NewVulkanCommandBuffer(context, context.Device.GraphicsCommandPool, true)
		if err != nil {
			fs.Destroy(context)
			return nil, err
		}
		slot.CommandBuffer = cb
	}
	core.LogInfo("Frame synchronizer created with %d slots.", MAX_FRAMES_IN_FLIGHT)
	return fs, nil
}

// AcquireSlot returns the slot owning frameIndex.
func (fs *FrameSynchronizer) AcquireSlot(frameIndex uint64) *FrameSlot {
	return fs.Slots[frameIndex%uint64(len(fs.Slots))]
}

// WaitForSlotIdle blocks until the last submission recorded on slot has completed.
func (fs *FrameSynchronizer) WaitForSlotIdle(context *VulkanContext, slot *FrameSlot) error {
	if err := slot.InFlightFence.FenceWait(context, math.MaxUint64); err != nil {
		return errors.Wrapf(err, "waiting for frame slot %d", slot.Index)
	}
	if slot.State != FRAME_SLOT_STATE_IDLE {
		slot.transition(FRAME_SLOT_STATE_IDLE)
	}
	return nil
}

// ResetSlot unsignals the fence. Only valid once WaitForSlotIdle has returned.
func (fs *FrameSynchronizer) ResetSlot(context *VulkanContext, slot *FrameSlot) error {
	if !slot.InFlightFence.IsSignaled {
		return errors.Newf("frame slot %d reset before its fence was observed signaled", slot.Index)
	}
	return slot.InFlightFence.FenceReset(context)
}

func (fs *FrameSynchronizer) Destroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	for _, slot := range fs.Slots {
		if slot.ImageAvailableSemaphore != vk.NullSemaphore {
			context.Driver.DestroySemaphore(device, slot.ImageAvailableSemaphore)
			slot.ImageAvailableSemaphore = vk.NullSemaphore
		}
		if slot.RenderFinishedSemaphore != vk.NullSemaphore {
			context.Driver.DestroySemaphore(device, slot.RenderFinishedSemaphore)
			slot.RenderFinishedSemaphore = vk.NullSemaphore
		}
		if slot.InFlightFence != nil {
			slot.InFlightFence.FenceDestroy(context)
			slot.InFlightFence = nil
		}
		if slot.CommandBuffer != nil {
			slot.CommandBuffer.Free(context, context.Device.GraphicsCommandPool)
			slot.CommandBuffer = nil
		}
	}
	fs.Slots = nil
}

type deferredRelease struct {
	// FrameNumber at the time the release was requested.
	frame   uint64
	release func(context *VulkanContext)
}

/**
 * @brief Holds resource destructions until every frame that could reference
 * the resource has retired.
 */
type DeferredReleaseQueue struct {
	queue *containers.RingQueue[deferredRelease]
}

func NewDeferredReleaseQueue(capacity uint32) *DeferredReleaseQueue {
	return &DeferredReleaseQueue{
		queue: containers.NewRingQueue[deferredRelease](int(capacity)),
	}
}

/**
 * @brief Schedules release for once frames up to currentFrame-1 have retired.
 * A full queue forces a device idle and a flush before the entry is accepted.
 */
func (dq *DeferredReleaseQueue) Enqueue(context *VulkanContext, currentFrame uint64, release func(context *VulkanContext)) error {
	if dq.queue.IsFull() {
		core.LogWarn("deferred release queue full, waiting for device idle")
		if err := VulkanResultError(context.Driver.DeviceWaitIdle(context.Device.LogicalDevice), "vkDeviceWaitIdle"); err != nil {
			return err
		}
		dq.Flush(context)
	}
	return dq.queue.Enqueue(deferredRelease{frame: currentFrame, release: release})
}

/**
 * @brief Runs releases that are now safe. Call after the slot for
 * waitedFrame has been waited on, so frames up to waitedFrame-N are retired.
 */
func (dq *DeferredReleaseQueue) Collect(context *VulkanContext, waitedFrame uint64) int {
	released := 0
	for !dq.queue.IsEmpty() {
		entry, _ := dq.queue.Peek()
		// The last frame that might reference the resource is entry.frame-1.
		if entry.frame+uint64(MAX_FRAMES_IN_FLIGHT)-1 > waitedFrame {
			break
		}
		dq.queue.Dequeue()
		entry.release(context)
		released++
	}
	return released
}

// Flush runs every pending release. The device must be idle.
func (dq *DeferredReleaseQueue) Flush(context *VulkanContext) {
	for !dq.queue.IsEmpty() {
		entry, _ := dq.queue.Dequeue()
		entry.release(context)
	}
}

func (dq *DeferredReleaseQueue) Len() int {
	return dq.queue.Len()
}
