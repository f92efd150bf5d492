package model

import (
	vm "local/vector_math"
	"math"
)

const MIN_NEAR_Z float32 = 0.01
const MIN_DEPTH_RANGE float32 = 0.01

// TRANSFORM_BLOCK_SIZE is the size of the constant block as seen by the vertex shader: 3 4x4 float matrices
const TRANSFORM_BLOCK_SIZE = 3 * vm.MAT4_BYTE_SIZE

// TransformParams holds every user adjustable input of the model, view and projection matrices. Angles are in
// radians except for the field of view, which is in degree.
type TransformParams struct {
	Translation vm.Vec3
	Rotation    vm.Vec3
	Scale       vm.Vec3

	EyePos vm.Vec3
	EyeDir vm.Vec3
	Up     vm.Vec3

	FovYDeg float32
	NearZ   float32
	FarZ    float32
	Aspect  float32

	UsePerspective bool
}

// DefaultTransformParams places the camera two units in front of the origin looking at it
func DefaultTransformParams(aspect float32) TransformParams {
	return TransformParams{
		Translation:    vm.Vec3{},
		Rotation:       vm.Vec3{},
		Scale:          vm.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		EyePos:         vm.Vec3{Z: -2},
		EyeDir:         vm.Vec3{Z: 1},
		Up:             vm.Vec3{Y: 1},
		FovYDeg:        70,
		NearZ:          0.01,
		FarZ:           10,
		Aspect:         aspect,
		UsePerspective: true,
	}
}

// Sanitize pushes the parameters back into the range where the matrices are well-defined:
// 0 < near < far, aspect > 0, a non-zero eye direction and an up vector that is not parallel to it.
func (p *TransformParams) Sanitize() {
	if !(p.NearZ >= MIN_NEAR_Z) {
		p.NearZ = MIN_NEAR_Z
	}
	if !(p.FarZ >= p.NearZ+MIN_DEPTH_RANGE) {
		p.FarZ = p.NearZ + MIN_DEPTH_RANGE
	}
	if !(p.Aspect > 0) || math.IsInf(float64(p.Aspect), 0) {
		p.Aspect = 1
	}
	if !(p.FovYDeg > 0) {
		p.FovYDeg = 1
	}
	if p.FovYDeg > 180 {
		p.FovYDeg = 180
	}
	if p.EyeDir.Len() == 0 {
		p.EyeDir = vm.Vec3{Z: 1}
	}
	if p.Up.Cross(p.EyeDir).Len() < 1e-6 {
		p.Up = vm.Vec3{Y: 1}
		if p.Up.Cross(p.EyeDir).Len() < 1e-6 {
			p.Up = vm.Vec3{Z: 1}
		}
	}
}

// ModelMatrix applies scale, then the rotations around Y, X and Z and finally the translation
func (p *TransformParams) ModelMatrix() vm.Mat4 {
	return vm.NewModel(p.Scale, p.Rotation, p.Translation)
}

func (p *TransformParams) ViewMatrix() vm.Mat4 {
	return vm.NewDirectionView(p.EyePos, p.EyeDir, p.Up)
}

// ProjectionMatrix is either a perspective projection or an orthographic one covering [-aspect, aspect] x [-1, 1]
func (p *TransformParams) ProjectionMatrix() vm.Mat4 {
	if p.UsePerspective {
		return vm.NewPerspective(vm.ToRad(float64(p.FovYDeg)), p.Aspect, p.NearZ, p.FarZ)
	}
	return vm.NewOrthographic(-p.Aspect, p.Aspect, -1, 1, p.NearZ, p.FarZ)
}

// TransformBlock is the constant block consumed by the vertex shader. The matrices transform column vectors.
type TransformBlock struct {
	Model      vm.Mat4
	View       vm.Mat4
	Projection vm.Mat4
}

// NewTransformBlock computes all three matrices from a sanitized copy of p
func NewTransformBlock(p TransformParams) TransformBlock {
	p.Sanitize()
	return TransformBlock{
		Model:      p.ModelMatrix(),
		View:       p.ViewMatrix(),
		Projection: p.ProjectionMatrix(),
	}
}

// Transposed returns the block in the layout the shader expects: the shader multiplies row vectors from the left
// (mul(pos, model)) and reads its matrices column major.
func (b TransformBlock) Transposed() TransformBlock {
	return TransformBlock{
		Model:      b.Model.Transpose(),
		View:       b.View.Transpose(),
		Projection: b.Projection.Transpose(),
	}
}

// Bytes returns the block as handed to the GPU, without transposing it
func (b *TransformBlock) Bytes() []byte {
	out := make([]byte, 0, TRANSFORM_BLOCK_SIZE)
	out = append(out, vm.MatBytes(&b.Model)...)
	out = append(out, vm.MatBytes(&b.View)...)
	return append(out, vm.MatBytes(&b.Projection)...)
}

// ClipPosition runs a model space point through the whole chain and returns its clip space position
func (b *TransformBlock) ClipPosition(p vm.Vec3) [4]float32 {
	return vm.Transform(p, 1, b.Projection.Mul4(b.View).Mul4(b.Model))
}
