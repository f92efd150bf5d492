package common

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
)

// Read operations that require duplicated function calls, allocations and dereferencing. It is pulled out to
// provide a more go-lang feel and tidy the core code.

// ReadInstanceExtensionPropertyNames is a convenience method obfuscating the Vulkan defined []vk.ExtensionProperties
// type in favor of their respective names in order to simplify support checks to a point of string comparisons.
func ReadInstanceExtensionPropertyNames() ([]string, error) {
	supportedExts, err := readInstanceExtensionProperties()
	if err != nil {
		return nil, err
	}
	supportedExtNames := make([]string, len(supportedExts))
	for i, ext := range supportedExts {
		supportedExtNames[i] = vk.ToString(ext.ExtensionName[:])
	}
	return supportedExtNames, nil
}

// readInstanceExtensionProperties wraps the raw vulkan call to retrieve all supported instance extensions as their
// Vulkan defined type and dereferences all necessary pointer values.
func readInstanceExtensionProperties() ([]vk.ExtensionProperties, error) {
	extensionCount := uint32(0)
	err := CheckResult("vkEnumerateInstanceExtensionProperties", vk.EnumerateInstanceExtensionProperties("", &extensionCount, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to read number of InstanceExtensionProperties: %w", err)
	}
	extensionProperties := make([]vk.ExtensionProperties, extensionCount)
	err = CheckResult("vkEnumerateInstanceExtensionProperties", vk.EnumerateInstanceExtensionProperties("", &extensionCount, extensionProperties))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d InstanceExtensionProperties: %w", extensionCount, err)
	}
	for i := range extensionProperties {
		extensionProperties[i].Deref()
	}
	return extensionProperties, nil
}

// ReadInstanceLayerPropertyNames is a convenience method obfuscating the Vulkan defined []vk.LayerProperties
// type in favor of their respective names in order to simplify support checks to a point of string comparisons.
func ReadInstanceLayerPropertyNames() ([]string, error) {
	layerCount := uint32(0)
	err := CheckResult("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&layerCount, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to read number of InstanceLayerProperties: %w", err)
	}
	layers := make([]vk.LayerProperties, layerCount)
	err = CheckResult("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&layerCount, layers))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d InstanceLayerProperties: %w", layerCount, err)
	}
	names := make([]string, len(layers))
	for i := range layers {
		layers[i].Deref()
		names[i] = vk.ToString(layers[i].LayerName[:])
	}
	return names, nil
}

func ReadPhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var gpuCount uint32
	err := CheckResult("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(instance, &gpuCount, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to read number of PhysicalDevices: %w", err)
	}
	if gpuCount == 0 {
		return nil, errors.New("there are 0 physical devices available")
	}
	physDevices := make([]vk.PhysicalDevice, gpuCount)
	err = CheckResult("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(instance, &gpuCount, physDevices))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d PhysicalDevices: %w", gpuCount, err)
	}
	return physDevices, nil
}

func ReadPhysicalDeviceProperties(pd vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	var pdProps vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &pdProps)
	pdProps.Deref()
	pdProps.Limits.Deref()
	return pdProps
}

func ReadPhysicalDeviceFeatures(pd vk.PhysicalDevice) vk.PhysicalDeviceFeatures {
	var pdFeatures vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(pd, &pdFeatures)
	pdFeatures.Deref()
	return pdFeatures
}

func ReadQueueFamilies(pd vk.PhysicalDevice) []vk.QueueFamilyProperties {
	qFamilyCount := uint32(0)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &qFamilyCount, nil)
	qFamilyProps := make([]vk.QueueFamilyProperties, qFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &qFamilyCount, qFamilyProps)
	for i := range qFamilyProps {
		qFamilyProps[i].Deref()
		qFamilyProps[i].MinImageTransferGranularity.Deref()
	}
	return qFamilyProps
}

// ReadDeviceExtensionPropertyNames returns the names of all extensions the physical device supports
func ReadDeviceExtensionPropertyNames(pd vk.PhysicalDevice) ([]string, error) {
	extensionCount := uint32(0)
	err := CheckResult("vkEnumerateDeviceExtensionProperties", vk.EnumerateDeviceExtensionProperties(pd, "", &extensionCount, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to read number of DeviceExtensionProperties: %w", err)
	}
	extensionProperties := make([]vk.ExtensionProperties, extensionCount)
	err = CheckResult("vkEnumerateDeviceExtensionProperties", vk.EnumerateDeviceExtensionProperties(pd, "", &extensionCount, extensionProperties))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d DeviceExtensionProperties: %w", extensionCount, err)
	}
	names := make([]string, len(extensionProperties))
	for i := range extensionProperties {
		extensionProperties[i].Deref()
		names[i] = vk.ToString(extensionProperties[i].ExtensionName[:])
	}
	return names, nil
}

func ReadSwapChainSupportDetails(pd vk.PhysicalDevice, surface vk.Surface) SwapChainDetails {
	scDetails := SwapChainDetails{}
	vk.GetPhysicalDeviceSurfaceCapabilities(pd, surface, &scDetails.capabilities)
	scDetails.capabilities.Deref()
	scDetails.capabilities.CurrentExtent.Deref()
	scDetails.capabilities.MinImageExtent.Deref()
	scDetails.capabilities.MaxImageExtent.Deref()

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &formatCount, nil)
	scDetails.formats = make([]vk.SurfaceFormat, formatCount)
	vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &formatCount, scDetails.formats)
	for i := range scDetails.formats {
		scDetails.formats[i].Deref()
	}

	var presentModeCount uint32
	vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &presentModeCount, nil)
	scDetails.presentModes = make([]vk.PresentMode, presentModeCount)
	vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &presentModeCount, scDetails.presentModes)

	return scDetails
}

func ReadSwapChainImages(device vk.Device, swapChain vk.Swapchain) ([]vk.Image, error) {
	var imgCount uint32
	err := CheckResult("vkGetSwapchainImagesKHR", vk.GetSwapchainImages(device, swapChain, &imgCount, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to read number of swap chain images: %w", err)
	}
	imgs := make([]vk.Image, imgCount)
	err = CheckResult("vkGetSwapchainImagesKHR", vk.GetSwapchainImages(device, swapChain, &imgCount, imgs))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d swap chain images: %w", imgCount, err)
	}
	return imgs, nil
}

func ReadDeviceMemoryProperties(pd vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	var pdMemProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &pdMemProps)
	pdMemProps.Deref()
	for i := range pdMemProps.MemoryTypes {
		pdMemProps.MemoryTypes[i].Deref()
	}
	for i := range pdMemProps.MemoryHeaps {
		pdMemProps.MemoryHeaps[i].Deref()
	}
	return pdMemProps
}

func ReadBufferMemoryRequirements(device vk.Device, b vk.Buffer) vk.MemoryRequirements {
	var memRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, b, &memRequirements)
	memRequirements.Deref()
	return memRequirements
}

func ReadImageMemoryRequirements(device vk.Device, img vk.Image) vk.MemoryRequirements {
	var memRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(device, img, &memRequirements)
	memRequirements.Deref()
	return memRequirements
}

func ReadFormatProperties(pd vk.PhysicalDevice, format vk.Format) vk.FormatProperties {
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(pd, format, &props)
	props.Deref()
	return props
}
