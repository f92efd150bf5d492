package model

// Backend neutral description of the fixed function state and the draw call issued each frame. A backend maps
// these onto its own API objects.

type Format int

const (
	FormatR32G32B32Float Format = iota
)

// InputElement binds one attribute of Vertex to the vertex shader input with the same semantic
type InputElement struct {
	Semantic string
	Format   Format
	Offset   uint32
}

type ComparisonFunc int

const (
	CompareNever ComparisonFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

type DepthStencilState struct {
	DepthEnable   bool
	DepthWriteAll bool
	DepthFunc     ComparisonFunc
}

type Topology int

const (
	TopologyTriangleList Topology = iota
)

type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StagePixel
)

func (s ShaderStage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "pixel"
}

// ShaderSource points to a shader on disk. Sources ending in '.spv' are used as is, everything else is compiled.
type ShaderSource struct {
	Path       string
	EntryPoint string
	Profile    string
}

// PipelineDesc bundles everything bound once at initialization: both shaders, the vertex input layout and the
// depth test.
type PipelineDesc struct {
	VertexShader ShaderSource
	PixelShader  ShaderSource
	InputLayout  []InputElement
	VertexStride uint32
	DepthStencil DepthStencilState
	Topology     Topology
}

type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// DrawCall is one indexed draw of a mesh including the clears of the render targets preceding it
type DrawCall struct {
	Viewport     Viewport
	ClearColor   [4]float32
	ClearDepth   float32
	ClearStencil uint32

	Mesh       *Mesh
	IndexCount uint32
	StartIndex uint32
	BaseVertex int32
}
