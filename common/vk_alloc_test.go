package common

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func TestSelectMemoryType(t *testing.T) {
	hostFlags := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	deviceFlags := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	memProps := vk.PhysicalDeviceMemoryProperties{MemoryTypeCount: 3}
	memProps.MemoryTypes[0].PropertyFlags = deviceFlags
	memProps.MemoryTypes[1].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	memProps.MemoryTypes[2].PropertyFlags = hostFlags

	if idx, ok := selectMemoryType(memProps, 0b111, hostFlags); !ok || idx != 2 {
		t.Errorf("Expected host coherent type 2, got %d (%v)", idx, ok)
	}
	if idx, ok := selectMemoryType(memProps, 0b111, deviceFlags); !ok || idx != 0 {
		t.Errorf("Expected device local type 0, got %d (%v)", idx, ok)
	}
	if _, ok := selectMemoryType(memProps, 0b011, hostFlags); ok {
		t.Errorf("Type 2 is excluded by the filter, no type should be found")
	}
}

func TestBufferByteSize(t *testing.T) {
	b := &Buffer{Size: 192}
	if b.ByteSize() != 192 {
		t.Errorf("Expected 192, got %d", b.ByteSize())
	}
	if b.isHostVisible() {
		t.Errorf("Buffer without memory properties can't be host visible")
	}
	b.props = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	if !b.isHostVisible() {
		t.Errorf("Buffer should be host visible")
	}
}
