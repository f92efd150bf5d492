package common

import (
	"errors"
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// This Code section contains allocation helper functions. It aims to simplify the allocation of buffers and
// images on the selected device.

type Buffer struct {
	Handle    vk.Buffer
	DeviceMem vk.DeviceMemory
	Size      vk.DeviceSize
	Usage     vk.BufferUsageFlags
	props     vk.MemoryPropertyFlags

	// Mapped is set while the buffer's memory is persistently mapped, see MapBuffer
	Mapped unsafe.Pointer
}

// ByteSize is the size requested on creation, the allocation backing it may be larger
func (b *Buffer) ByteSize() uint64 {
	return uint64(b.Size)
}

func (b *Buffer) isHostVisible() bool {
	want := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	return b.props&want == want
}

func CreateBuffer(dc *Device, size vk.DeviceSize, usage vk.BufferUsageFlags, props vk.MemoryPropertyFlags) (*Buffer, error) {
	if size == 0 {
		return nil, errors.New("can not create a buffer of size 0")
	}
	// Buffer Handle of fitting Size
	bufferInfo := vk.BufferCreateInfo{
		SType:                 vk.StructureTypeBufferCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		Size:                  size,
		Usage:                 usage,
		SharingMode:           vk.SharingModeExclusive,
		QueueFamilyIndexCount: 0,
		PQueueFamilyIndices:   nil,
	}

	buf, err := VkCreateBuffer(dc.Device, &bufferInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer: %w", err)
	}

	bufRequirements := ReadBufferMemoryRequirements(dc.Device, buf)
	memType, err := findMemoryType(dc, bufRequirements.MemoryTypeBits, props)
	if err != nil {
		vk.DestroyBuffer(dc.Device, buf, nil)
		return nil, err
	}

	// Allocate device memory
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		PNext:           nil,
		AllocationSize:  bufRequirements.Size,
		MemoryTypeIndex: memType,
	}
	deviceMem, err := VkAllocateMemory(dc.Device, &allocInfo, nil)
	if err != nil {
		vk.DestroyBuffer(dc.Device, buf, nil)
		return nil, fmt.Errorf("failed to allocate %d bytes of buffer memory: %w", bufRequirements.Size, err)
	}

	// Associate allocated memory with buffer Handle
	err = VkBindBufferMemory(dc.Device, buf, deviceMem, 0)
	if err != nil {
		vk.DestroyBuffer(dc.Device, buf, nil)
		vk.FreeMemory(dc.Device, deviceMem, nil)
		return nil, fmt.Errorf("failed to bind device memory to buffer handle: %w", err)
	}

	return &Buffer{
		Handle:    buf,
		DeviceMem: deviceMem,
		Size:      size,
		Usage:     usage,
		props:     props,
	}, nil
}

// CopyToDeviceBuffer is a convenience method to simplify the process of mapping device memory to CPU memory,
// copy bytes over to the GPU and unmapping the memory again. This requires the buffer to:
// - have the stated Usage: vk.BufferUsageTransferSrcBit
// - be: vk.MemoryPropertyHostVisibleBit and vk.MemoryPropertyHostCoherentBit
func CopyToDeviceBuffer(dc *Device, deviceBuf *Buffer, payload []byte) error {
	// Check the memory is accessible by the CPU
	hasTransferUsage := deviceBuf.Usage&vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit) != 0
	if !(hasTransferUsage && deviceBuf.isHostVisible()) {
		return errors.New("can't copy to device buffer as buffer is not suitable")
	}
	// check for Size mismatches - this function only allows to copy a "full buffer" worth of payload starting at offset = 0
	if deviceBuf.Size != vk.DeviceSize(uint64(len(payload))) {
		return fmt.Errorf("can't copy %d bytes into device buffer of size %d", len(payload), deviceBuf.Size)
	}
	// Map -> copy -> Unmap
	pData, err := VkMapMemory(dc.Device, deviceBuf.DeviceMem, 0, deviceBuf.Size, 0)
	if err != nil {
		return fmt.Errorf("failed to map device memory: %w", err)
	}
	vk.Memcopy(pData, payload)
	vk.UnmapMemory(dc.Device, deviceBuf.DeviceMem)
	return nil
}

// MapBuffer maps the whole buffer until DestroyBuffer, writes through Mapped are visible to the device without
// flushing as the memory has to be host coherent.
func MapBuffer(dc *Device, b *Buffer) error {
	if !b.isHostVisible() {
		return errors.New("can't map buffer that is not host visible and coherent")
	}
	if b.Mapped != nil {
		return nil
	}
	pData, err := VkMapMemory(dc.Device, b.DeviceMem, 0, b.Size, 0)
	if err != nil {
		return fmt.Errorf("failed to map device memory: %w", err)
	}
	b.Mapped = pData
	return nil
}

func DestroyBuffer(dc *Device, buffer *Buffer) {
	if buffer.Mapped != nil {
		vk.UnmapMemory(dc.Device, buffer.DeviceMem)
		buffer.Mapped = nil
	}
	vk.DestroyBuffer(dc.Device, buffer.Handle, nil)
	vk.FreeMemory(dc.Device, buffer.DeviceMem, nil)
}

func CreateImage(dc *Device, w uint32, h uint32, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags, props vk.MemoryPropertyFlags) (vk.Image, vk.DeviceMemory, error) {
	imageInfo := &vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		PNext:     nil,
		Flags:     0,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  w,
			Height: h,
			Depth:  1,
		},
		MipLevels:             1,
		ArrayLayers:           1,
		Samples:               vk.SampleCount1Bit,
		Tiling:                tiling,
		Usage:                 usage,
		SharingMode:           vk.SharingModeExclusive,
		QueueFamilyIndexCount: 0,
		PQueueFamilyIndices:   nil,
		InitialLayout:         vk.ImageLayoutUndefined,
	}
	img, err := VkCreateImage(dc.Device, imageInfo, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create image: %w", err)
	}

	memRequirements := ReadImageMemoryRequirements(dc.Device, img)
	memType, err := findMemoryType(dc, memRequirements.MemoryTypeBits, props)
	if err != nil {
		vk.DestroyImage(dc.Device, img, nil)
		return nil, nil, err
	}
	allocInfo := &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		PNext:           nil,
		AllocationSize:  memRequirements.Size,
		MemoryTypeIndex: memType,
	}
	imgMemory, err := VkAllocateMemory(dc.Device, allocInfo, nil)
	if err != nil {
		vk.DestroyImage(dc.Device, img, nil)
		return nil, nil, fmt.Errorf("failed to allocate image device memory: %w", err)
	}
	if err = VkBindImageMemory(dc.Device, img, imgMemory, 0); err != nil {
		vk.DestroyImage(dc.Device, img, nil)
		vk.FreeMemory(dc.Device, imgMemory, nil)
		return nil, nil, fmt.Errorf("failed to bind image memory: %w", err)
	}
	return img, imgMemory, nil
}

func findMemoryType(dc *Device, typeFilter uint32, propFlags vk.MemoryPropertyFlags) (uint32, error) {
	idx, ok := selectMemoryType(dc.PdMemoryProps, typeFilter, propFlags)
	if !ok {
		return 0, fmt.Errorf("failed to find suitable memory type for filter %032b and flags %d", typeFilter, propFlags)
	}
	return idx, nil
}

// selectMemoryType returns the first memory type allowed by typeFilter that has all propFlags set
func selectMemoryType(memProps vk.PhysicalDeviceMemoryProperties, typeFilter uint32, propFlags vk.MemoryPropertyFlags) (uint32, bool) {
	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		ofType := (typeFilter & (1 << i)) > 0
		hasProperties := memProps.MemoryTypes[i].PropertyFlags&propFlags == propFlags
		if ofType && hasProperties {
			return i, true
		}
	}
	return 0, false
}
