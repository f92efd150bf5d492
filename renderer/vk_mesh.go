package renderer

import (
	"errors"
	"fmt"
	"log"

	com "graphics_engine/common"
	"graphics_engine/model"

	vk "github.com/goki/vulkan"
)

// These functions are part of the rendering core but are split into their own file for logical separation. Their
// focus is the lifetime of meshes: uploading geometry, attaching the per frame transform buffers and releasing both.

// TransformBuffer holds one host coherent uniform buffer and descriptor set per frame in flight, so the block of
// the next frame can be written while the previous one is still read by the device.
type TransformBuffer struct {
	buffers []*com.Buffer
	sets    []vk.DescriptorSet
}

func (tb *TransformBuffer) ByteSize() uint64 {
	if len(tb.buffers) == 0 {
		return 0
	}
	return tb.buffers[0].ByteSize()
}

// CreateMesh validates data and uploads vertices and indices into device local memory
func (c *Core) CreateMesh(name string, data model.MeshData) (*model.Mesh, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh '%s': %w", name, err)
	}
	vBuf, err := c.uploadDeviceLocal(data.VertexBytes(), vk.BufferUsageVertexBufferBit)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	iBuf, err := c.uploadDeviceLocal(data.IndexBytes(), vk.BufferUsageIndexBufferBit)
	if err != nil {
		com.DestroyBuffer(c.device, vBuf)
		return nil, fmt.Errorf("failed to create index buffer: %w", err)
	}
	mesh := &model.Mesh{
		Name:         name,
		VertexBuffer: vBuf,
		IndexBuffer:  iBuf,
		VertexCount:  uint32(len(data.Vertices)),
		IndexCount:   uint32(len(data.Indices)),
	}
	c.meshes = append(c.meshes, mesh)
	return mesh, nil
}

// CreateTransformBuffer attaches the uniform buffers read by the vertex shader to mesh
func (c *Core) CreateTransformBuffer(mesh *model.Mesh) error {
	if mesh.HasTransformBuffer() {
		return fmt.Errorf("mesh '%s' already has a transform buffer", mesh.Name)
	}
	sets, err := c.descriptors.Alloc(MAX_FRAMES_IN_FLIGHT)
	if err != nil {
		return err
	}
	tb := &TransformBuffer{sets: sets}
	for i := 0; i < MAX_FRAMES_IN_FLIGHT; i++ {
		buf, err := com.CreateBuffer(
			c.device,
			vk.DeviceSize(model.TRANSFORM_BLOCK_SIZE),
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit),
		)
		if err == nil {
			err = com.MapBuffer(c.device, buf)
			if err != nil {
				com.DestroyBuffer(c.device, buf)
			}
		}
		if err != nil {
			c.destroyTransformBuffer(tb)
			return fmt.Errorf("failed to create uniform buffer [%d]: %w", i, err)
		}
		tb.buffers = append(tb.buffers, buf)
		c.descriptors.WriteUniformBuffer(sets[i], buf)
	}
	mesh.TransformBuffer = tb
	return nil
}

// UpdateTransform writes block into the uniform buffer of the current frame as is, the caller is responsible
// for the matrix layout.
func (c *Core) UpdateTransform(mesh *model.Mesh, block *model.TransformBlock) error {
	tb, ok := mesh.TransformBuffer.(*TransformBuffer)
	if !ok || tb == nil {
		return fmt.Errorf("mesh '%s' has no transform buffer", mesh.Name)
	}
	buf := tb.buffers[c.currentFrameIdx]
	if buf.Mapped == nil {
		return errors.New("uniform buffer is not mapped")
	}
	vk.Memcopy(buf.Mapped, block.Bytes())
	return nil
}

// DestroyMesh waits for the device to finish all work before releasing the buffers of mesh
func (c *Core) DestroyMesh(mesh *model.Mesh) {
	idx := -1
	for i := range c.meshes {
		if c.meshes[i] == mesh {
			idx = i
		}
	}
	if idx < 0 {
		log.Printf("Mesh '%s' is not owned by this render core", mesh.Name)
		return
	}
	c.device.WaitIdle()
	if tb, ok := mesh.TransformBuffer.(*TransformBuffer); ok {
		c.destroyTransformBuffer(tb)
	}
	if b, ok := mesh.VertexBuffer.(*com.Buffer); ok {
		com.DestroyBuffer(c.device, b)
	}
	if b, ok := mesh.IndexBuffer.(*com.Buffer); ok {
		com.DestroyBuffer(c.device, b)
	}
	mesh.VertexBuffer, mesh.IndexBuffer, mesh.TransformBuffer = nil, nil, nil
	c.meshes = append(c.meshes[:idx], c.meshes[idx+1:]...)
}

func (c *Core) destroyTransformBuffer(tb *TransformBuffer) {
	for _, b := range tb.buffers {
		com.DestroyBuffer(c.device, b)
	}
	tb.buffers = nil
	if err := c.descriptors.Release(tb.sets); err != nil {
		log.Printf("Leaking transform descriptor sets: %v", err)
	}
	tb.sets = nil
}
