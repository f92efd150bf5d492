package common

import (
	"errors"
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
)

// Utility functions wrapping the raw go bindings to provide a more go-lang style interface. Handles are returned
// instead of written through pointers and every non-success vk.Result becomes a *VkError naming the call.

// VkError is a failed Vulkan call
type VkError struct {
	Call   string
	Result vk.Result
}

func (e *VkError) Error() string {
	return fmt.Sprintf("%s: %v (result code %d)", e.Call, vk.Error(e.Result), e.Result)
}

func (e *VkError) Unwrap() error {
	return vk.Error(e.Result)
}

// CheckResult converts the result of call into an error, nil for every result vk.Error accepts
func CheckResult(call string, res vk.Result) error {
	if vk.Error(res) == nil {
		return nil
	}
	return &VkError{Call: call, Result: res}
}

func VkCreateInstance(pCreateInfo *vk.InstanceCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Instance, error) {
	var in vk.Instance
	if err := CheckResult("vkCreateInstance", vk.CreateInstance(pCreateInfo, pAllocator, &in)); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(in); err != nil {
		return nil, fmt.Errorf("failed to load instance functions: %w", err)
	}
	return in, nil
}

func SdlCreateVkSurface(win *sdl.Window, instance vk.Instance) (vk.Surface, error) {
	surfPtr, err := win.VulkanCreateSurface(instance)
	if err != nil {
		return nil, err
	}
	return vk.SurfaceFromPointer(uintptr(surfPtr)), nil
}

func VkCreateDevice(physicalDevice vk.PhysicalDevice, pCreateInfo *vk.DeviceCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Device, error) {
	var d vk.Device
	return d, CheckResult("vkCreateDevice", vk.CreateDevice(physicalDevice, pCreateInfo, pAllocator, &d))
}

func VkGetDeviceQueue(device vk.Device, queueFamilyIndex *uint32, queueIndex uint32) (vk.Queue, error) {
	var q vk.Queue
	if queueFamilyIndex == nil {
		return nil, errors.New("QueueFamily index was nil")
	}
	vk.GetDeviceQueue(device, *queueFamilyIndex, queueIndex, &q)
	return q, nil
}

func VkCreateSwapChain(device vk.Device, pCreateInfo *vk.SwapchainCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Swapchain, error) {
	var sc vk.Swapchain
	return sc, CheckResult("vkCreateSwapchainKHR", vk.CreateSwapchain(device, pCreateInfo, pAllocator, &sc))
}

func VkCreateImageView(device vk.Device, pCreateInfo *vk.ImageViewCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.ImageView, error) {
	var iv vk.ImageView
	return iv, CheckResult("vkCreateImageView", vk.CreateImageView(device, pCreateInfo, pAllocator, &iv))
}

func VkCreateRenderPass(device vk.Device, pCreateInfo *vk.RenderPassCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.RenderPass, error) {
	var rp vk.RenderPass
	return rp, CheckResult("vkCreateRenderPass", vk.CreateRenderPass(device, pCreateInfo, pAllocator, &rp))
}

func VkCreateFrameBuffer(device vk.Device, pCreateInfo *vk.FramebufferCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Framebuffer, error) {
	var fb vk.Framebuffer
	return fb, CheckResult("vkCreateFramebuffer", vk.CreateFramebuffer(device, pCreateInfo, pAllocator, &fb))
}

func VkCreatePipelineLayout(device vk.Device, pCreateInfo *vk.PipelineLayoutCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.PipelineLayout, error) {
	var pl vk.PipelineLayout
	return pl, CheckResult("vkCreatePipelineLayout", vk.CreatePipelineLayout(device, pCreateInfo, pAllocator, &pl))
}

func VkCreateGraphicsPipelines(device vk.Device, pipelineCache vk.PipelineCache, createInfoCount uint32, pCreateInfos []vk.GraphicsPipelineCreateInfo, pAllocator *vk.AllocationCallbacks) ([]vk.Pipeline, error) {
	gp := make([]vk.Pipeline, createInfoCount)
	res := vk.CreateGraphicsPipelines(device, pipelineCache, createInfoCount, pCreateInfos, pAllocator, gp)
	if err := CheckResult("vkCreateGraphicsPipelines", res); err != nil {
		return nil, err
	}
	return gp, nil
}

func VkCreateCommandPool(device vk.Device, pCreateInfo *vk.CommandPoolCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.CommandPool, error) {
	var cp vk.CommandPool
	return cp, CheckResult("vkCreateCommandPool", vk.CreateCommandPool(device, pCreateInfo, pAllocator, &cp))
}

func VkCreateBuffer(device vk.Device, pCreateInfo *vk.BufferCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Buffer, error) {
	var buf vk.Buffer
	return buf, CheckResult("vkCreateBuffer", vk.CreateBuffer(device, pCreateInfo, pAllocator, &buf))
}

func VkAllocateMemory(device vk.Device, pAllocateInfo *vk.MemoryAllocateInfo, pAllocator *vk.AllocationCallbacks) (vk.DeviceMemory, error) {
	var dm vk.DeviceMemory
	return dm, CheckResult("vkAllocateMemory", vk.AllocateMemory(device, pAllocateInfo, pAllocator, &dm))
}

func VkBindBufferMemory(device vk.Device, buffer vk.Buffer, memory vk.DeviceMemory, memoryOffset vk.DeviceSize) error {
	return CheckResult("vkBindBufferMemory", vk.BindBufferMemory(device, buffer, memory, memoryOffset))
}

func VkBindImageMemory(device vk.Device, image vk.Image, memory vk.DeviceMemory, memoryOffset vk.DeviceSize) error {
	return CheckResult("vkBindImageMemory", vk.BindImageMemory(device, image, memory, memoryOffset))
}

func VkMapMemory(device vk.Device, memory vk.DeviceMemory, offset vk.DeviceSize, size vk.DeviceSize, flags vk.MemoryMapFlags) (unsafe.Pointer, error) {
	var pData unsafe.Pointer
	if err := CheckResult("vkMapMemory", vk.MapMemory(device, memory, offset, size, flags, &pData)); err != nil {
		return nil, err
	}
	return pData, nil
}

func VkCreateImage(device vk.Device, pCreateInfo *vk.ImageCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Image, error) {
	var img vk.Image
	return img, CheckResult("vkCreateImage", vk.CreateImage(device, pCreateInfo, pAllocator, &img))
}

func VkCreateShaderModule(device vk.Device, pCreateInfo *vk.ShaderModuleCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.ShaderModule, error) {
	var sm vk.ShaderModule
	return sm, CheckResult("vkCreateShaderModule", vk.CreateShaderModule(device, pCreateInfo, pAllocator, &sm))
}

func VkCreateDescriptorSetLayout(device vk.Device, pCreateInfo *vk.DescriptorSetLayoutCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.DescriptorSetLayout, error) {
	var dsl vk.DescriptorSetLayout
	return dsl, CheckResult("vkCreateDescriptorSetLayout", vk.CreateDescriptorSetLayout(device, pCreateInfo, pAllocator, &dsl))
}

func VkCreateDescriptorPool(device vk.Device, pCreateInfo *vk.DescriptorPoolCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.DescriptorPool, error) {
	var dp vk.DescriptorPool
	return dp, CheckResult("vkCreateDescriptorPool", vk.CreateDescriptorPool(device, pCreateInfo, pAllocator, &dp))
}

func VkAllocateDescriptorSets(device vk.Device, pAllocateInfo *vk.DescriptorSetAllocateInfo) ([]vk.DescriptorSet, error) {
	if pAllocateInfo.DescriptorSetCount == 0 {
		return nil, errors.New("no descriptor sets requested")
	}
	sets := make([]vk.DescriptorSet, pAllocateInfo.DescriptorSetCount)
	if err := CheckResult("vkAllocateDescriptorSets", vk.AllocateDescriptorSets(device, pAllocateInfo, &sets[0])); err != nil {
		return nil, err
	}
	return sets, nil
}

func VkFreeDescriptorSets(device vk.Device, pool vk.DescriptorPool, sets []vk.DescriptorSet) error {
	return CheckResult("vkFreeDescriptorSets", vk.FreeDescriptorSets(device, pool, uint32(len(sets)), sets))
}

func VkCreateSemaphore(device vk.Device, pCreateInfo *vk.SemaphoreCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Semaphore, error) {
	var s vk.Semaphore
	return s, CheckResult("vkCreateSemaphore", vk.CreateSemaphore(device, pCreateInfo, pAllocator, &s))
}

func VkCreateFence(device vk.Device, pCreateInfo *vk.FenceCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Fence, error) {
	var f vk.Fence
	return f, CheckResult("vkCreateFence", vk.CreateFence(device, pCreateInfo, pAllocator, &f))
}
