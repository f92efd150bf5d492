package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"
)

// MeshData is the CPU side geometry of a triangle list. It is not modified after generation.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint16
}

// Validate checks the triangle list invariants: at least one triangle, the index count being a multiple of 3
// and all indices addressing an existing vertex.
func (md *MeshData) Validate() error {
	if len(md.Indices) == 0 {
		return fmt.Errorf("mesh has no indices")
	}
	if len(md.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(md.Indices))
	}
	if len(md.Vertices) > 1<<16 {
		return fmt.Errorf("%d vertices can not be addressed with 16 bit indices", len(md.Vertices))
	}
	for i, idx := range md.Indices {
		if int(idx) >= len(md.Vertices) {
			return fmt.Errorf("index[%d] = %d out of bounds for %d vertices", i, idx, len(md.Vertices))
		}
	}
	return nil
}

// VertexBufferSize returns the exact size in bytes required to keep all vertices in device memory
func (md *MeshData) VertexBufferSize() uint64 {
	return uint64(VertexStride) * uint64(len(md.Vertices))
}

// IndexBufferSize returns the exact size in bytes required to keep all indices in device memory
func (md *MeshData) IndexBufferSize() uint64 {
	return uint64(unsafe.Sizeof(uint16(0))) * uint64(len(md.Indices))
}

// VertexBytes returns the raw bytes representing all vertices.
// Mainly used to execute vk.Memcopy(..., src []byte) to move memory from CPU to GPU
func (md *MeshData) VertexBytes() []byte {
	return rawBytes(md.Vertices)
}

// IndexBytes returns the raw bytes of the index list
func (md *MeshData) IndexBytes() []byte {
	return rawBytes(md.Indices)
}

// rawBytes writes a given object as its little endian byte representation voiding all type information
func rawBytes(p interface{}) []byte {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, p); err != nil {
		panic(fmt.Sprintf("binary.Write failed: %v", err))
	}
	return buf.Bytes()
}
