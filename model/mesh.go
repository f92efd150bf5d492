package model

// Buffer is a GPU resident buffer owned by a graphics backend
type Buffer interface {
	ByteSize() uint64
}

// Mesh keeps the device side handles of uploaded MeshData. Meshes are created and released by the backend that
// owns the buffers, the application only holds on to them between initialization and shutdown.
type Mesh struct {
	Name            string
	VertexBuffer    Buffer
	IndexBuffer     Buffer
	TransformBuffer Buffer // nil until the backend attached one
	VertexCount     uint32
	IndexCount      uint32
}

func (m *Mesh) HasTransformBuffer() bool {
	return m.TransformBuffer != nil
}
