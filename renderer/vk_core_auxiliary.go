package renderer

import (
	"fmt"

	com "graphics_engine/common"

	vk "github.com/goki/vulkan"
)

// These functions auxiliary functions that abstract from the raw Vulkan API by assuming some reasonable
// defaults where possible. These differ from the VKS function in vk_simplifications.go by being tied to a given
// Core Struct and are closer to helper function in the class than being a general abstraction of the API.

// copyBuffer is a subroutine that prepares a command buffer that is then executed on the device.
// The command buffer is allocated, records the copy command and is submitted to the device. After idle
// the command buffer is freed.
func (c *Core) copyBuffer(src *com.Buffer, dst *com.Buffer, s vk.DeviceSize) error {
	cmdBuf, err := com.VKSBeginSingleTimeCommands(c.device.Device, c.commandPool)
	if err != nil {
		return fmt.Errorf("failed to create command buffer for single time use: %w", err)
	}
	copyRegions := []vk.BufferCopy{
		{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      s,
		},
	}
	vk.CmdCopyBuffer(cmdBuf, src.Handle, dst.Handle, 1, copyRegions)
	if err = com.VKSEndSingleTimeCommands(c.device.Device, c.commandPool, c.device.GraphicsQ, cmdBuf); err != nil {
		return fmt.Errorf("failed to execute buffer copy: %w", err)
	}
	return nil
}

// uploadDeviceLocal creates a device local buffer with the given usage and fills it with payload through a
// host visible staging buffer.
func (c *Core) uploadDeviceLocal(payload []byte, usage vk.BufferUsageFlagBits) (*com.Buffer, error) {
	bufSize := vk.DeviceSize(len(payload))
	stgBuf, err := com.CreateBuffer(
		c.device,
		bufSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging buffer: %w", err)
	}
	defer com.DestroyBuffer(c.device, stgBuf)

	if err = com.CopyToDeviceBuffer(c.device, stgBuf, payload); err != nil {
		return nil, err
	}
	buf, err := com.CreateBuffer(
		c.device,
		bufSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit|usage),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	if err != nil {
		return nil, err
	}
	if err = c.copyBuffer(stgBuf, buf, bufSize); err != nil {
		com.DestroyBuffer(c.device, buf)
		return nil, err
	}
	return buf, nil
}

func (c *Core) findDepthFormat() (vk.Format, error) {
	// Prefer formats with stencil as the stencil is cleared each frame as well
	return c.findSupportedFormat(
		[]vk.Format{vk.FormatD24UnormS8Uint, vk.FormatD32SfloatS8Uint, vk.FormatD32Sfloat},
		vk.ImageTilingOptimal,
		vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit),
	)
}

func hasStencilComponent(format vk.Format) bool {
	return format == vk.FormatD32SfloatS8Uint || format == vk.FormatD24UnormS8Uint
}

func depthAspect(format vk.Format) vk.ImageAspectFlags {
	if hasStencilComponent(format) {
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit)
	}
	return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
}

func (c *Core) findSupportedFormat(candidates []vk.Format, tiling vk.ImageTiling, features vk.FormatFeatureFlags) (vk.Format, error) {
	for _, format := range candidates {
		fProps := com.ReadFormatProperties(c.device.PhysicalDevice, format)
		if tiling == vk.ImageTilingLinear && (fProps.LinearTilingFeatures&features) == features {
			return format, nil
		} else if tiling == vk.ImageTilingOptimal && (fProps.OptimalTilingFeatures&features) == features {
			return format, nil
		}
	}
	return vk.FormatUndefined, fmt.Errorf("none of the formats %v supports features %d", candidates, features)
}
