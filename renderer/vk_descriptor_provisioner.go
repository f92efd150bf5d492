package renderer

import (
	"fmt"
	"log"

	com "graphics_engine/common"

	vk "github.com/goki/vulkan"
)

// DescriptorProvisioner owns the layout and pool of the per mesh transform descriptor sets (set 0, binding 0:
// uniform buffer read by the vertex shader). Sets are handed out until the pool is exhausted and freed
// individually on release.
type DescriptorProvisioner struct {
	device vk.Device

	Layout vk.DescriptorSetLayout
	pool   vk.DescriptorPool
	budget setBudget
}

// setBudget counts the sets taken from a pool of fixed capacity
type setBudget struct {
	capacity uint32
	inUse    uint32
}

func (b *setBudget) reserve(cnt uint32) error {
	if b.inUse+cnt > b.capacity {
		return fmt.Errorf("descriptor pool exhausted: %d of %d sets in use, %d requested", b.inUse, b.capacity, cnt)
	}
	b.inUse += cnt
	return nil
}

func (b *setBudget) release(cnt uint32) {
	if cnt > b.inUse {
		log.Panicf("Releasing %d descriptor sets, only %d in use", cnt, b.inUse)
	}
	b.inUse -= cnt
}

func NewDescriptorProvisioner(device vk.Device, capacity uint32) (*DescriptorProvisioner, error) {
	dp := &DescriptorProvisioner{
		device: device,
		budget: setBudget{capacity: capacity},
	}
	var err error
	dp.Layout, err = com.VKDescriptorSetLayoutUniformBuffer(device, vk.ShaderStageFlags(vk.ShaderStageVertexBit))
	if err != nil {
		return nil, fmt.Errorf("failed to create descriptor set layout: %w", err)
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PNext:         nil,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       capacity,
		PoolSizeCount: 1,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: capacity,
		}},
	}
	dp.pool, err = com.VkCreateDescriptorPool(device, &poolInfo, nil)
	if err != nil {
		vk.DestroyDescriptorSetLayout(device, dp.Layout, nil)
		return nil, fmt.Errorf("failed to create descriptor pool: %w", err)
	}
	return dp, nil
}

// Alloc allocates cnt descriptor sets of the uniform buffer layout
func (dp *DescriptorProvisioner) Alloc(cnt uint32) ([]vk.DescriptorSet, error) {
	if err := dp.budget.reserve(cnt); err != nil {
		return nil, err
	}
	layouts := make([]vk.DescriptorSetLayout, cnt)
	for i := range layouts {
		layouts[i] = dp.Layout
	}
	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		PNext:              nil,
		DescriptorPool:     dp.pool,
		DescriptorSetCount: cnt,
		PSetLayouts:        layouts,
	}
	sets, err := com.VkAllocateDescriptorSets(dp.device, &allocInfo)
	if err != nil {
		dp.budget.release(cnt)
		return nil, fmt.Errorf("failed to allocate %d descriptor sets: %w", cnt, err)
	}
	return sets, nil
}

// Release frees sets allocated by Alloc. The sets must not be used afterwards.
func (dp *DescriptorProvisioner) Release(sets []vk.DescriptorSet) error {
	if len(sets) == 0 {
		return nil
	}
	if err := com.VkFreeDescriptorSets(dp.device, dp.pool, sets); err != nil {
		return fmt.Errorf("failed to free %d descriptor sets: %w", len(sets), err)
	}
	dp.budget.release(uint32(len(sets)))
	return nil
}

// WriteUniformBuffer points binding 0 of set to the first size bytes of buf
func (dp *DescriptorProvisioner) WriteUniformBuffer(set vk.DescriptorSet, buf *com.Buffer) {
	bufferInfo := vk.DescriptorBufferInfo{
		Buffer: buf.Handle,
		Offset: 0,
		Range:  buf.Size,
	}
	uboDescriptorWrite := vk.WriteDescriptorSet{
		SType:            vk.StructureTypeWriteDescriptorSet,
		PNext:            nil,
		DstSet:           set,
		DstBinding:       0,
		DstArrayElement:  0,
		DescriptorCount:  1,
		DescriptorType:   vk.DescriptorTypeUniformBuffer,
		PImageInfo:       nil,
		PBufferInfo:      []vk.DescriptorBufferInfo{bufferInfo},
		PTexelBufferView: nil,
	}
	writes := []vk.WriteDescriptorSet{uboDescriptorWrite}
	vk.UpdateDescriptorSets(dp.device, uint32(len(writes)), writes, 0, nil)
}

func (dp *DescriptorProvisioner) Destroy() {
	vk.DestroyDescriptorPool(dp.device, dp.pool, nil)
	vk.DestroyDescriptorSetLayout(dp.device, dp.Layout, nil)
}
