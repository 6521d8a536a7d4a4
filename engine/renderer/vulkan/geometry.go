package vulkan

import (
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

/**
 * @brief GPU resident geometry for one drawable. Owned by the scene entity,
 * borrowed by the renderer while drawing.
 */
type VulkanMesh struct {
	VertexBuffer *VulkanBuffer
	IndexBuffer  *VulkanBuffer
	/** @brief The vertex count. */
	VertexCount uint32
	/** @brief The index count. */
	IndexCount uint32
}

/**
 * @brief Uploads vertices and indices into device local buffers through a
 * single host visible staging buffer. The staging buffer never outlives the
 * call; the destination buffers are released on any failure.
 */
func UploadMesh(context *VulkanContext, vertices []metadata.Vertex, indices []uint32) (*VulkanMesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, core.ErrEmptyMesh
	}

	vertexBytes := metadata.VertexBytes(vertices)
	indexBytes := metadata.IndexBytes(indices)
	vertexSize := uint64(len(vertexBytes))
	indexSize := uint64(len(indexBytes))

	staging, err := BufferCreate(context, vertexSize+indexSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, errors.Wrap(err, "creating staging buffer")
	}
	defer staging.Destroy(context)

	if _, err := staging.MapMemory(context, 0, vertexSize+indexSize); err != nil {
		return nil, err
	}
	if err := staging.LoadData(context, 0, vertexBytes); err != nil {
		return nil, err
	}
	if err := staging.LoadData(context, vertexSize, indexBytes); err != nil {
		return nil, err
	}
	staging.UnmapMemory(context)

	mesh := &VulkanMesh{
		VertexCount: uint32(len(vertices)),
		IndexCount:  uint32(len(indices)),
	}

	mesh.VertexBuffer, err = BufferCreate(context, vertexSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit|vk.BufferUsageVertexBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, errors.Wrap(err, "creating vertex buffer")
	}
	mesh.IndexBuffer, err = BufferCreate(context, indexSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit|vk.BufferUsageIndexBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		mesh.Destroy(context)
		return nil, errors.Wrap(err, "creating index buffer")
	}

	err = context.SubmitOneShot(func(cb *VulkanCommandBuffer) error {
		staging.RecordCopy(context, cb, 0, mesh.VertexBuffer, 0, vertexSize)
		staging.RecordCopy(context, cb, vertexSize, mesh.IndexBuffer, 0, indexSize)
		return nil
	})
	if err != nil {
		mesh.Destroy(context)
		return nil, errors.Wrap(err, "copying mesh data to the device")
	}

	core.LogDebug("uploaded mesh with %d vertices and %d indices", mesh.VertexCount, mesh.IndexCount)
	return mesh, nil
}

// Destroy releases both buffers immediately. The caller guarantees no frame in flight uses them.
func (m *VulkanMesh) Destroy(context *VulkanContext) {
	if m == nil {
		return
	}
	if m.VertexBuffer != nil {
		m.VertexBuffer.Destroy(context)
		m.VertexBuffer = nil
	}
	if m.IndexBuffer != nil {
		m.IndexBuffer.Destroy(context)
		m.IndexBuffer = nil
	}
	m.VertexCount = 0
	m.IndexCount = 0
}

// Drawable reports whether the mesh has buffers and indices to draw.
func (m *VulkanMesh) Drawable() bool {
	return m != nil && m.VertexBuffer != nil && m.IndexBuffer != nil && m.IndexCount > 0
}
