package renderer

import (
	"fmt"

	"graphics_engine/model"

	vk "github.com/goki/vulkan"
)

// Translation of the backend neutral pipeline and draw descriptions into their Vulkan counterparts. Kept free of
// device calls so the mapping can be checked without a GPU.

func toVkFormat(f model.Format) (vk.Format, error) {
	switch f {
	case model.FormatR32G32B32Float:
		return vk.FormatR32g32b32Sfloat, nil
	default:
		return vk.FormatUndefined, fmt.Errorf("unsupported vertex format %d", f)
	}
}

func toVkCompareOp(c model.ComparisonFunc) vk.CompareOp {
	switch c {
	case model.CompareNever:
		return vk.CompareOpNever
	case model.CompareLess:
		return vk.CompareOpLess
	case model.CompareEqual:
		return vk.CompareOpEqual
	case model.CompareLessEqual:
		return vk.CompareOpLessOrEqual
	case model.CompareGreater:
		return vk.CompareOpGreater
	case model.CompareNotEqual:
		return vk.CompareOpNotEqual
	case model.CompareGreaterEqual:
		return vk.CompareOpGreaterOrEqual
	default:
		return vk.CompareOpAlways
	}
}

func toVkTopology(t model.Topology) (vk.PrimitiveTopology, error) {
	if t == model.TopologyTriangleList {
		return vk.PrimitiveTopologyTriangleList, nil
	}
	return 0, fmt.Errorf("unsupported topology %d", t)
}

// vertexInputDescriptions describes a single interleaved vertex buffer at binding 0. Attribute locations follow
// the order of the input layout, which is the order the vertex shader declares its inputs in.
func vertexInputDescriptions(desc model.PipelineDesc) (vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription, error) {
	binding := vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    desc.VertexStride,
		InputRate: vk.VertexInputRatePerVertex,
	}
	if len(desc.InputLayout) == 0 {
		return binding, nil, fmt.Errorf("empty input layout")
	}
	attributes := make([]vk.VertexInputAttributeDescription, len(desc.InputLayout))
	for i, el := range desc.InputLayout {
		format, err := toVkFormat(el.Format)
		if err != nil {
			return binding, nil, fmt.Errorf("input element %s: %w", el.Semantic, err)
		}
		if el.Offset >= desc.VertexStride {
			return binding, nil, fmt.Errorf("input element %s: offset %d outside of stride %d", el.Semantic, el.Offset, desc.VertexStride)
		}
		attributes[i] = vk.VertexInputAttributeDescription{
			Location: uint32(i),
			Binding:  0,
			Format:   format,
			Offset:   el.Offset,
		}
	}
	return binding, attributes, nil
}

func depthStencilInfo(ds model.DepthStencilState) vk.PipelineDepthStencilStateCreateInfo {
	info := vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		DepthTestEnable:       vk.False,
		DepthWriteEnable:      vk.False,
		DepthCompareOp:        toVkCompareOp(ds.DepthFunc),
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     vk.False,
		Front:                 vk.StencilOpState{},
		Back:                  vk.StencilOpState{},
		MinDepthBounds:        0,
		MaxDepthBounds:        1,
	}
	if ds.DepthEnable {
		info.DepthTestEnable = vk.True
		if ds.DepthWriteAll {
			info.DepthWriteEnable = vk.True
		}
	}
	return info
}

func toVkViewport(v model.Viewport) vk.Viewport {
	return vk.Viewport{
		X:        v.X,
		Y:        v.Y,
		Width:    v.Width,
		Height:   v.Height,
		MinDepth: v.MinDepth,
		MaxDepth: v.MaxDepth,
	}
}

// scissorFor limits rendering to the part of the viewport inside of the target
func scissorFor(v model.Viewport, extent vk.Extent2D) vk.Rect2D {
	x0 := clampToExtent(v.X, extent.Width)
	y0 := clampToExtent(v.Y, extent.Height)
	x1 := clampToExtent(v.X+v.Width, extent.Width)
	y1 := clampToExtent(v.Y+v.Height, extent.Height)
	return vk.Rect2D{
		Offset: vk.Offset2D{X: int32(x0), Y: int32(y0)},
		Extent: vk.Extent2D{Width: x1 - x0, Height: y1 - y0},
	}
}

func clampToExtent(v float32, max uint32) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= float32(max) {
		return max
	}
	return uint32(v)
}

// clearValues in attachment order: color, depth/stencil
func clearValues(dc model.DrawCall) []vk.ClearValue {
	return []vk.ClearValue{
		vk.NewClearValue(dc.ClearColor[:]),
		vk.NewClearDepthStencil(dc.ClearDepth, dc.ClearStencil),
	}
}
