package app

import (
	"graphics_engine/gui"
	"graphics_engine/model"
)

// Graphics is the capability set of a render application driven by a host loop
type Graphics interface {
	Initialize(b Backend) error
	Update(dt float32)
	Render()
	UpdateGUI(ui gui.UI)
}

// Backend is the graphics device the application renders with. Creation functions are called once during
// initialization, the frame functions once per frame in the order BeginFrame -> UpdateTransform -> Draw -> Present.
type Backend interface {
	CreateMesh(name string, data model.MeshData) (*model.Mesh, error)
	CreateTransformBuffer(mesh *model.Mesh) error
	CreatePipeline(desc model.PipelineDesc) error
	DestroyPipeline()
	DestroyMesh(mesh *model.Mesh)

	ScreenSize() (uint32, uint32)

	// BeginFrame waits until the resources of the next frame are free. False means the frame has to be skipped,
	// e.g. because the swap chain was recreated.
	BeginFrame() (bool, error)
	UpdateTransform(mesh *model.Mesh, block *model.TransformBlock) error
	Draw(dc model.DrawCall)
	Present() error
}
