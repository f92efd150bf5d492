package common

import (
	"errors"
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
)

var DEVICE_EXTENSIONS = []string{
	"VK_KHR_swapchain",
}

// Device represents the interfacing objects between the SDL window, the Hardware running Vulkan
// and the rest of the rendering engine. Its main purpose is to encapsulate the corresponding objects
// to make the initialization and teardown of a given application neater.
type Device struct {
	PhysicalDevice vk.PhysicalDevice
	PdProps        vk.PhysicalDeviceProperties
	PdMemoryProps  vk.PhysicalDeviceMemoryProperties
	QFamilies      QueueFamilyIndices

	Device    vk.Device
	GraphicsQ vk.Queue
	PresentQ  vk.Queue
}

// NewDevice selects the best suited GPU for the window's surface and creates a logical device on it. The
// instance's validation layers are enabled on device level as well for older implementations.
func NewDevice(w *Window) (*Device, error) {
	dc := &Device{}
	if err := dc.selectPhysicalDevice(*w.Inst, *w.Surf); err != nil {
		return nil, err
	}
	if err := dc.createLogicalDevice(w.Layers); err != nil {
		return nil, err
	}
	return dc, nil
}

// Destroy all objects created by itself. It does not destroy the sdl.window object provided for instantiation.
func (dc *Device) Destroy() {
	vk.DestroyDevice(dc.Device, nil)
}

func (dc *Device) WaitIdle() {
	vk.DeviceWaitIdle(dc.Device)
}

func (dc *Device) selectPhysicalDevice(in vk.Instance, su vk.Surface) error {
	availableDevices, err := ReadPhysicalDevices(in)
	if err != nil {
		return err
	}
	var pd vk.PhysicalDevice
	bestScore := 0
	for i := range availableDevices {
		score := rateDevice(availableDevices[i], su)
		if score > bestScore {
			bestScore = score
			pd = availableDevices[i]
		}
	}
	if pd == nil {
		return errors.New("no suitable physical device (GPU) found")
	}
	dc.PhysicalDevice = pd

	// Also set related member variables for dc.PhysicalDevice as they are needed later
	qf, err := findQueueFamilies(dc.PhysicalDevice, su)
	if err != nil {
		return fmt.Errorf("failed to read queue families from selected device: %w", err)
	}
	dc.QFamilies = *qf
	dc.PdProps = ReadPhysicalDeviceProperties(dc.PhysicalDevice)
	dc.PdMemoryProps = ReadDeviceMemoryProperties(dc.PhysicalDevice)
	log.Printf("Selected %s", ToStringPhysicalDeviceProps(dc.PdProps))
	return nil
}

// rateDevice returns 0 for devices that can not present to su, otherwise a score preferring discrete GPUs
func rateDevice(pd vk.PhysicalDevice, su vk.Surface) int {
	pdProps := ReadPhysicalDeviceProperties(pd)
	pdFeatures := ReadPhysicalDeviceFeatures(pd)
	pdQueueFams := ReadQueueFamilies(pd)

	log.Printf("Physical device\n%s", ToStringPhysicalDeviceTable(pdProps, pdFeatures, pdQueueFams))

	indices, err := findQueueFamilies(pd, su)
	if err != nil {
		log.Printf("Failed to get required queue families: %s", err)
		return 0
	}
	if !indices.isAllQueuesFound() {
		return 0
	}
	if !checkDeviceExtensionSupport(pd, DEVICE_EXTENSIONS) {
		return 0
	}
	if !checkSwapChainAdequacy(pd, su) {
		return 0
	}
	return deviceTypeScore(pdProps.DeviceType)
}

func deviceTypeScore(dt vk.PhysicalDeviceType) int {
	switch dt {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return 4
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return 3
	case vk.PhysicalDeviceTypeVirtualGpu:
		return 2
	default:
		return 1
	}
}

func (dc *Device) createLogicalDevice(validationLayers []string) error {
	queueInfos, err := dc.QFamilies.toQueueCreateInfos()
	if err != nil {
		return err
	}
	deviceCreatInfo := &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledLayerCount:       0,
		PpEnabledLayerNames:     nil,
		EnabledExtensionCount:   uint32(len(DEVICE_EXTENSIONS)),
		PpEnabledExtensionNames: TerminatedStrs(DEVICE_EXTENSIONS),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}
	if len(validationLayers) > 0 {
		deviceCreatInfo.EnabledLayerCount = uint32(len(validationLayers))
		deviceCreatInfo.PpEnabledLayerNames = TerminatedStrs(validationLayers)
	}

	dc.Device, err = VkCreateDevice(dc.PhysicalDevice, deviceCreatInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create logical device: %w", err)
	}
	dc.GraphicsQ, err = VkGetDeviceQueue(dc.Device, dc.QFamilies.GraphicsFamily, 0)
	if err != nil {
		return fmt.Errorf("failed to get 'graphics' device queue: %w", err)
	}
	dc.PresentQ, err = VkGetDeviceQueue(dc.Device, dc.QFamilies.PresentFamily, 0)
	if err != nil {
		return fmt.Errorf("failed to get 'present' device queue: %w", err)
	}
	return nil
}

func checkDeviceExtensionSupport(pd vk.PhysicalDevice, requiredDeviceExt []string) bool {
	supportedExtNames, err := ReadDeviceExtensionPropertyNames(pd)
	if err != nil {
		log.Printf("Failed to read device extensions: %s", err)
		return false
	}
	log.Printf("Required device extensions: %v, available: %d", requiredDeviceExt, len(supportedExtNames))
	return AllOfAinB(requiredDeviceExt, supportedExtNames)
}
