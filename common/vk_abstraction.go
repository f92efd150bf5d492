package common

import (
	vk "github.com/goki/vulkan"
)

// Utility functions that reduce visual clutter by abstracting some of the common default values into very obvious
// functions that should cover their respective use case most of the time. This is done to cut down on labor writing
// things out that are unlikely to change or are not relevant now. The main way typing is reduced by moving or
// defaulting parameters from 'createInfo' structs.

func VKAllocateCommandBuffersPrimary(device vk.Device, cmdPool vk.CommandPool, count uint32) ([]vk.CommandBuffer, error) {
	cbAllocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		PNext:              nil,
		CommandPool:        cmdPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}
	return VKSAllocateCommandBuffers(device, &cbAllocateInfo)
}

// VKDescriptorSetLayoutUniformBuffer creates a layout with a single uniform buffer at binding 0 visible to stages
func VKDescriptorSetLayoutUniformBuffer(device vk.Device, stages vk.ShaderStageFlags) (vk.DescriptorSetLayout, error) {
	bindings := []vk.DescriptorSetLayoutBinding{{
		Binding:            0,
		DescriptorType:     vk.DescriptorTypeUniformBuffer,
		DescriptorCount:    1,
		StageFlags:         stages,
		PImmutableSamplers: nil,
	}}
	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		PNext:        nil,
		Flags:        0,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	return VkCreateDescriptorSetLayout(device, &layoutInfo, nil)
}
