package common

import (
	"reflect"
	"testing"

	vk "github.com/goki/vulkan"
)

func TestAsVendorName(t *testing.T) {
	if asVendorName(0x10DE) != "NVIDIA" || asVendorName(0x1002) != "AMD" || asVendorName(0x8086) != "INTEL" {
		t.Errorf("Known vendor ids are not resolved")
	}
	if asVendorName(0x1234) != "unknown" {
		t.Errorf("Unknown vendor ids should be reported as unknown")
	}
}

func TestDriverVersion(t *testing.T) {
	// 535.104.5.0 as packed by the nvidia driver
	raw := uint32(535)<<22 | uint32(104)<<14 | uint32(5)<<6
	if got := asDriverVersion(0x10DE, raw); got != "535.104.5.0" {
		t.Errorf("Unexpected nvidia driver version %s", got)
	}
	if got := asDriverVersion(0x1002, uint32(vk.MakeVersion(2, 0, 279))); got != vk.Version(vk.MakeVersion(2, 0, 279)).String() {
		t.Errorf("Non nvidia driver versions should use the vulkan version encoding, got %s", got)
	}
}

func TestQueueFlags(t *testing.T) {
	flags := vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueTransferBit)
	want := []string{"VK_QUEUE_GRAPHICS_BIT", "VK_QUEUE_TRANSFER_BIT"}
	if got := toStringQueueFlags(flags); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if toStringDeviceType(vk.PhysicalDeviceTypeDiscreteGpu) != "discrete Gpu" {
		t.Errorf("Unexpected device type name")
	}
}
