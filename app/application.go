package app

import (
	"errors"
	"fmt"
	"log"

	"graphics_engine/gui"
	"graphics_engine/model"
	vm "local/vector_math"
)

const GUI_WINDOW_TITLE = "Scene Control"

type State int

const (
	STATE_UNINITIALIZED State = iota
	STATE_READY
)

func (s State) String() string {
	if s == STATE_READY {
		return "ready"
	}
	return "uninitialized"
}

var ErrAlreadyInitialized = errors.New("application is already initialized")
var ErrNotInitialized = errors.New("application is not initialized")

// Options select the variant of the application
type Options struct {
	Shape model.Shape
	// TransformControls exposes the transform parameters in the GUI, otherwise only frame statistics are shown
	TransformControls bool

	VertexShader model.ShaderSource
	PixelShader  model.ShaderSource

	// Transform is the initial state of the transform parameters, nil selects the defaults. An aspect <= 0 is
	// replaced by the aspect ratio of the screen.
	Transform *model.TransformParams
}

// Application renders a single mesh with a GUI controlled transform. It implements Graphics.
type Application struct {
	opts    Options
	state   State
	backend Backend

	mesh   *model.Mesh
	params model.TransformParams
	block  model.TransformBlock

	frameErr error
}

func NewApplication(opts Options) *Application {
	return &Application{
		opts:  opts,
		state: STATE_UNINITIALIZED,
	}
}

func (a *Application) State() State {
	return a.state
}

func (a *Application) Mesh() *model.Mesh {
	return a.mesh
}

// Params gives access to the live transform parameters, changes are picked up by the next Update
func (a *Application) Params() *model.TransformParams {
	return &a.params
}

// Block returns the matrices computed by the last Update, not transposed
func (a *Application) Block() model.TransformBlock {
	return a.block
}

// Initialize acquires all GPU resources: the mesh, the pipeline and the transform buffer. On failure everything
// created so far is released again and the application stays uninitialized.
func (a *Application) Initialize(b Backend) error {
	if a.state != STATE_UNINITIALIZED {
		return ErrAlreadyInitialized
	}
	if b == nil {
		return errors.New("no graphics backend provided")
	}

	md := model.Generate(a.opts.Shape)
	if err := md.Validate(); err != nil {
		return fmt.Errorf("generated %v is invalid: %w", a.opts.Shape, err)
	}
	mesh, err := b.CreateMesh(a.opts.Shape.String(), md)
	if err != nil {
		return fmt.Errorf("failed to create mesh: %w", err)
	}
	log.Printf("Created mesh \"%s\" (%d vertices, %d indices)", mesh.Name, mesh.VertexCount, mesh.IndexCount)

	desc := model.PipelineDesc{
		VertexShader: a.opts.VertexShader,
		PixelShader:  a.opts.PixelShader,
		InputLayout:  model.VertexInputLayout(),
		VertexStride: model.VertexStride,
		DepthStencil: model.DepthStencilState{
			DepthEnable:   true,
			DepthWriteAll: true,
			DepthFunc:     model.CompareLessEqual,
		},
		Topology: model.TopologyTriangleList,
	}
	if err = b.CreatePipeline(desc); err != nil {
		b.DestroyMesh(mesh)
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	if err = b.CreateTransformBuffer(mesh); err != nil {
		b.DestroyPipeline()
		b.DestroyMesh(mesh)
		return fmt.Errorf("failed to create transform buffer: %w", err)
	}

	w, h := b.ScreenSize()
	if a.opts.Transform != nil {
		a.params = *a.opts.Transform
	} else {
		a.params = model.DefaultTransformParams(0)
	}
	if a.params.Aspect <= 0 {
		a.params.Aspect = aspectRatio(w, h)
	}

	a.backend = b
	a.mesh = mesh
	a.state = STATE_READY
	log.Printf("Application ready: %v, transform controls: %v", a.opts.Shape, a.opts.TransformControls)
	return nil
}

// Update recomputes the transform block and uploads it transposed into the mesh's transform buffer
func (a *Application) Update(dt float32) {
	if a.state != STATE_READY {
		return
	}
	a.params.Sanitize()
	a.block = model.NewTransformBlock(a.params)
	upload := a.block.Transposed()
	if err := a.backend.UpdateTransform(a.mesh, &upload); err != nil {
		a.frameErr = fmt.Errorf("failed to update transform: %w", err)
	}
}

// Render issues the draw of the mesh covering the whole screen
func (a *Application) Render() {
	if a.state != STATE_READY {
		return
	}
	w, h := a.backend.ScreenSize()
	a.backend.Draw(model.DrawCall{
		Viewport: model.Viewport{
			X:        0,
			Y:        0,
			Width:    float32(w),
			Height:   float32(h),
			MinDepth: 0,
			MaxDepth: 1,
		},
		ClearColor:   [4]float32{0, 0, 0, 1},
		ClearDepth:   1,
		ClearStencil: 0,
		Mesh:         a.mesh,
		IndexCount:   a.mesh.IndexCount,
		StartIndex:   0,
		BaseVertex:   0,
	})
}

// UpdateGUI declares the transform controls. Values outside of a control's range are clamped by the UI.
func (a *Application) UpdateGUI(ui gui.UI) {
	if !a.opts.TransformControls {
		return
	}
	p := &a.params
	ui.Checkbox("usePerspective", &p.UsePerspective)
	slider3(ui, "translation", &p.Translation, -2, 2)
	slider3(ui, "rotation", &p.Rotation, -3.14, 3.14)
	slider3(ui, "scale", &p.Scale, 0.1, 2)
	slider3(ui, "eyePos", &p.EyePos, -4, 4)
	slider3(ui, "eyeDir", &p.EyeDir, -4, 4)
	slider3(ui, "upVector", &p.Up, -2, 2)
	ui.SliderFloat("fovYDeg", &p.FovYDeg, 10, 180)
	ui.SliderFloat("nearZ", &p.NearZ, 0.01, 10)
	ui.SliderFloat("farZ", &p.FarZ, 0.01, 10)
	ui.SliderFloat("aspect", &p.Aspect, 1, 3)
}

func slider3(ui gui.UI, label string, v *vm.Vec3, min float32, max float32) {
	arr := v.Arr()
	if ui.SliderFloat3(label, &arr, min, max) {
		*v = vm.Vec3FromArr(arr)
	}
}

// RunFrame drives one frame: GUI -> update -> render -> GUI submission -> present
func (a *Application) RunFrame(ui gui.Frontend, dt float32) error {
	if a.state != STATE_READY {
		return ErrNotInitialized
	}
	ui.NewFrame(dt)
	ui.Begin(GUI_WINDOW_TITLE)
	fps := ui.Framerate()
	msPerFrame := float32(0)
	if fps > 0 {
		msPerFrame = 1000 / fps
	}
	ui.Text("Average %.3f ms/frame (%.1f FPS)", msPerFrame, fps)
	a.UpdateGUI(ui)
	ui.End()
	ui.Render()

	ready, err := a.backend.BeginFrame()
	if err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	if !ready {
		return nil
	}
	a.Update(dt)
	if a.frameErr != nil {
		err, a.frameErr = a.frameErr, nil
		return err
	}
	a.Render()
	ui.Submit()
	return a.backend.Present()
}

// Destroy releases the mesh and the pipeline, the backend itself is owned by the caller
func (a *Application) Destroy() {
	if a.state == STATE_READY {
		a.backend.DestroyPipeline()
	}
	if a.mesh != nil {
		a.backend.DestroyMesh(a.mesh)
		a.mesh = nil
	}
	a.state = STATE_UNINITIALIZED
}

func aspectRatio(w uint32, h uint32) float32 {
	if w == 0 || h == 0 {
		return 1
	}
	return float32(w) / float32(h)
}
