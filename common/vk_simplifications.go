package common

import (
	vk "github.com/goki/vulkan"
)

// Utility functions providing slightly altered versions of the raw go bindings and wrapped functions. These altered
// versions of common functions should only hide very obvious default values that will not need to change most of the
// time. Thus representing a tiny step-up in abstraction to allow for a simpler usage of common vulkan calls. Each
// simplification function should specify the simplification it does. Names are prefixed with VKS which stands for
// (V)ul(K)an (S)implified.

// VKSAllocateCommandBuffers simplifies vk.AllocateCommandBuffers(...) by assuming the number of desired CommandBuffers
// to create is provided in the vk.CommandBufferAllocateInfo parameter.
func VKSAllocateCommandBuffers(device vk.Device, pAllocateInfo *vk.CommandBufferAllocateInfo) ([]vk.CommandBuffer, error) {
	var buffers = make([]vk.CommandBuffer, pAllocateInfo.CommandBufferCount)
	err := CheckResult("vkAllocateCommandBuffers", vk.AllocateCommandBuffers(device, pAllocateInfo, buffers))
	if err != nil {
		return nil, err
	}
	return buffers, nil
}

// VKSCreateCommandPool implicitly instantiates the CreateInfo for the command pool based in the provided arguments. This
// is easily possible as the CreateInfo does only contain 2 interesting value sin this case.
func VKSCreateCommandPool(device vk.Device, flags vk.CommandPoolCreateFlags, QueueFamilyIndex uint32) (vk.CommandPool, error) {
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		PNext:            nil,
		Flags:            flags,
		QueueFamilyIndex: QueueFamilyIndex,
	}
	return VkCreateCommandPool(device, &poolInfo, nil)
}

// VKSBeginSingleTimeCommands allocates a primary command buffer from cmdPool and begins recording with the
// vk.CommandBufferUsageOneTimeSubmitBit flag. It is meant to be finished by VKSEndSingleTimeCommands.
func VKSBeginSingleTimeCommands(device vk.Device, cmdPool vk.CommandPool) (vk.CommandBuffer, error) {
	buffers, err := VKAllocateCommandBuffersPrimary(device, cmdPool, 1)
	if err != nil {
		return nil, err
	}
	beginInfo := vk.CommandBufferBeginInfo{
		SType:            vk.StructureTypeCommandBufferBeginInfo,
		PNext:            nil,
		Flags:            vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
		PInheritanceInfo: nil,
	}
	if err = CheckResult("vkBeginCommandBuffer", vk.BeginCommandBuffer(buffers[0], &beginInfo)); err != nil {
		vk.FreeCommandBuffers(device, cmdPool, 1, buffers)
		return nil, err
	}
	return buffers[0], nil
}

// VKSEndSingleTimeCommands ends the recording, submits to queue without any semaphores and blocks until the queue is
// idle again. The command buffer is freed in any case.
func VKSEndSingleTimeCommands(device vk.Device, cmdPool vk.CommandPool, queue vk.Queue, cmdBuffer vk.CommandBuffer) error {
	defer vk.FreeCommandBuffers(device, cmdPool, 1, []vk.CommandBuffer{cmdBuffer})
	if err := CheckResult("vkEndCommandBuffer", vk.EndCommandBuffer(cmdBuffer)); err != nil {
		return err
	}
	submitInfo := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmdBuffer},
	}}
	if err := CheckResult("vkQueueSubmit", vk.QueueSubmit(queue, 1, submitInfo, vk.NullFence)); err != nil {
		return err
	}
	return CheckResult("vkQueueWaitIdle", vk.QueueWaitIdle(queue))
}

// VKSCreate2DImageView creates a view over the first mip level and array layer of a 2D image with identity swizzle.
func VKSCreate2DImageView(device vk.Device, image vk.Image, format vk.Format, aspectFlags vk.ImageAspectFlags) (vk.ImageView, error) {
	createInfo := &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		PNext:    nil,
		Flags:    0,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspectFlags,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	return VkCreateImageView(device, createInfo, nil)
}

// VKSCreateSemaphore creates a semaphore without any flags
func VKSCreateSemaphore(device vk.Device) (vk.Semaphore, error) {
	return VkCreateSemaphore(device, &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}, nil)
}

// VKSCreateFence creates a fence, optionally already signaled so the first wait on it does not block
func VKSCreateFence(device vk.Device, signaled bool) (vk.Fence, error) {
	fenceInfo := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if signaled {
		fenceInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	return VkCreateFence(device, &fenceInfo, nil)
}
