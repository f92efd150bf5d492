package model

import (
	vm "local/vector_math"
	"unsafe"
)

// Vertex is the only vertex format the renderer understands. In memory: 12 Byte position followed by
// 12 Byte color, no padding.
type Vertex struct {
	Pos   vm.Vec3 // 12 Byte (float32 * 3, no padding)
	Color vm.Vec3 // 12 Byte (float32 * 3, no padding)
}

// VertexStride is the distance in bytes between two consecutive vertices in a vertex buffer
const VertexStride = uint32(unsafe.Sizeof(Vertex{}))

// VertexInputLayout describes Vertex for the shader input stage. Element i is bound to input location i.
func VertexInputLayout() []InputElement {
	return []InputElement{
		{
			Semantic: "POSITION",
			Format:   FormatR32G32B32Float,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Pos)),
		},
		{
			Semantic: "COLOR",
			Format:   FormatR32G32B32Float,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Color)),
		},
	}
}
