package common

import (
	"encoding/hex"
	"fmt"
	"strings"

	vk "github.com/goki/vulkan"
)

// Physical device
func ToStringPhysicalDeviceTable(
	pdProps vk.PhysicalDeviceProperties,
	pdFeatures vk.PhysicalDeviceFeatures,
	qFamilies []vk.QueueFamilyProperties,
) string {
	strBuilder := strings.Builder{}
	for i := range qFamilies {
		if i == len(qFamilies)-1 {
			strBuilder.WriteString(fmt.Sprintf("|_Qfamily[%d] %s\n", i, toStringQueueFamilyPropsTable(qFamilies[i])))
		} else {
			strBuilder.WriteString(fmt.Sprintf("| Qfamily[%d] %s\n", i, toStringQueueFamilyPropsTable(qFamilies[i])))
		}
	}
	return fmt.Sprintf(
		"%s:\n|_%s\n|_PFeatures(depthClamp: %d, fillModeNonSolid: %d)\n%s",
		vk.ToString(pdProps.DeviceName[:]),
		toStringPhysicalDevicePropsTable(pdProps),
		pdFeatures.DepthClamp,
		pdFeatures.FillModeNonSolid,
		strBuilder.String(),
	)
}

// ToStringPhysicalDeviceProps is the one line version for log statements
func ToStringPhysicalDeviceProps(pdProps vk.PhysicalDeviceProperties) string {
	return fmt.Sprintf("PDevice(\"%s\", api: %s, driver: %s, vendor: %s, deviceType: %s)",
		vk.ToString(pdProps.DeviceName[:]),
		vk.Version(pdProps.ApiVersion).String(),
		asDriverVersion(vk.VendorId(pdProps.VendorID), pdProps.DriverVersion),
		asVendorName(vk.VendorId(pdProps.VendorID)),
		toStringDeviceType(pdProps.DeviceType),
	)
}

func asVendorName(v vk.VendorId) string {
	// There seem to only be a handful of vendors and Ids as stated in:
	// https://www.reddit.com/r/vulkan/comments/4ta9nj/is_there_a_comprehensive_list_of_the_names_and/
	switch v {
	case 0x1002:
		return "AMD"
	case 0x1010:
		return "ImgTec"
	case 0x10DE:
		return "NVIDIA"
	case 0x13B5:
		return "ARM"
	case 0x5143:
		return "Qualcomm"
	case 0x8086:
		return "INTEL"
	case 0x10005:
		return "Mesa"
	default:
		return "unknown"
	}
}

func asDriverVersion(vendor vk.VendorId, raw uint32) string {
	// Only nvidia is special
	if vendor == 0x10DE {
		return nvidiaVer(raw)
	}
	return vk.Version(raw).String()
}

func nvidiaVer(i uint32) string {
	return fmt.Sprintf(
		"%d.%d.%d.%d",
		(i>>22)&0x3ff,
		(i>>14)&0x0ff,
		(i>>6)&0x0ff,
		i&0x003f,
	)
}

func toStringPhysicalDevicePropsTable(pdProps vk.PhysicalDeviceProperties) string {
	return fmt.Sprintf("api: %s, driver: %s, vendorId: %d (%s), deviceId: %d, deviceType: %d (%s), UUID: %v",
		vk.Version(pdProps.ApiVersion).String(),
		asDriverVersion(vk.VendorId(pdProps.VendorID), pdProps.DriverVersion),
		vk.VendorId(pdProps.VendorID),
		asVendorName(vk.VendorId(pdProps.VendorID)),
		pdProps.DeviceID,
		pdProps.DeviceType,
		toStringDeviceType(pdProps.DeviceType),
		hex.EncodeToString(pdProps.PipelineCacheUUID[:]),
	)
}

func toStringDeviceType(dt vk.PhysicalDeviceType) string {
	switch dt {
	case vk.PhysicalDeviceTypeOther:
		return "other"
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated Gpu"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete Gpu"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual Gpu"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "unknown"
	}
}

func toStringQueueFamilyPropsTable(q vk.QueueFamilyProperties) string {
	return fmt.Sprintf(
		"Count: %2d, Valid ts bits: %d, ImageGranularity: (%d,%d,%d), Flags: %v",
		q.QueueCount,
		q.TimestampValidBits,
		q.MinImageTransferGranularity.Width,
		q.MinImageTransferGranularity.Height,
		q.MinImageTransferGranularity.Depth,
		toStringQueueFlags(q.QueueFlags),
	)
}

// QueueFlags
func toStringQueueFlags(bits vk.QueueFlags) []string {
	var properties []string
	flags := vk.QueueFlagBits(bits)
	if flags&vk.QueueGraphicsBit > 0 {
		properties = append(properties, "VK_QUEUE_GRAPHICS_BIT")
	}
	if flags&vk.QueueComputeBit > 0 {
		properties = append(properties, "VK_QUEUE_COMPUTE_BIT")
	}
	if flags&vk.QueueTransferBit > 0 {
		properties = append(properties, "VK_QUEUE_TRANSFER_BIT")
	}
	if flags&vk.QueueSparseBindingBit > 0 {
		properties = append(properties, "VK_QUEUE_SPARSE_BINDING_BIT")
	}
	if flags&vk.QueueProtectedBit > 0 {
		properties = append(properties, "VK_QUEUE_PROTECTED_BIT")
	}
	return properties
}
