package model

import (
	vm "local/vector_math"
	"math"
	"testing"
)

const eps = 1e-5

func TestModelComposition(t *testing.T) {
	p := DefaultTransformParams(1)
	p.Scale = vm.Vec3{X: 0.5, Y: 0.5, Z: 0.5}
	p.Rotation = vm.Vec3{Y: math.Pi / 2}
	p.Translation = vm.Vec3{X: 1}

	b := NewTransformBlock(p)
	got := vm.Apply(vm.Vec3{X: 1}, 1, b.Model)
	want := vm.Vec3{X: 1, Y: 0, Z: -0.5}
	if got.Sub(want).Len() > eps {
		t.Errorf("Model matrix maps (1,0,0) to %v, expected %v", got, want)
	}
}

func TestProjectionToggle(t *testing.T) {
	p := DefaultTransformParams(16.0 / 9.0)
	p.Rotation = vm.Vec3{X: 0.4, Y: -0.2, Z: 1}
	p.Translation = vm.Vec3{X: 0.3, Y: 0.1}

	p.UsePerspective = true
	persp := NewTransformBlock(p)
	p.UsePerspective = false
	ortho := NewTransformBlock(p)

	if persp.Model != ortho.Model {
		t.Errorf("Toggling the projection changed the model matrix")
	}
	if persp.View != ortho.View {
		t.Errorf("Toggling the projection changed the view matrix")
	}
	if vm.MatEquals(persp.Projection, ortho.Projection, eps) {
		t.Errorf("Toggling the projection did not change the projection matrix")
	}
}

func TestSquareVisibleOrthographic(t *testing.T) {
	p := DefaultTransformParams(16.0 / 9.0)
	p.UsePerspective = false
	b := NewTransformBlock(p)

	for i, v := range MakeSquare().Vertices {
		clip := b.ClipPosition(v.Pos)
		x, y, z := clip[0]/clip[3], clip[1]/clip[3], clip[2]/clip[3]
		if x < -1 || x > 1 || y < -1 || y > 1 || z < 0 || z > 1 {
			t.Errorf("Square corner [%d] %v lands outside of clip space: (%f, %f, %f)", i, v.Pos, x, y, z)
		}
	}
}

func TestSquareVisiblePerspective(t *testing.T) {
	b := NewTransformBlock(DefaultTransformParams(16.0 / 9.0))
	for i, v := range MakeSquare().Vertices {
		clip := b.ClipPosition(v.Pos)
		if clip[3] <= 0 {
			t.Errorf("Square corner [%d] is behind the camera", i)
			continue
		}
		x, y, z := clip[0]/clip[3], clip[1]/clip[3], clip[2]/clip[3]
		if x < -1 || x > 1 || y < -1 || y > 1 || z < 0 || z > 1 {
			t.Errorf("Square corner [%d] lands outside of clip space: (%f, %f, %f)", i, x, y, z)
		}
	}
}

func TestFovBoundaries(t *testing.T) {
	for _, fov := range []float32{10, 180} {
		p := DefaultTransformParams(1)
		p.FovYDeg = fov
		b := NewTransformBlock(p)
		if !vm.IsFinite(b.Projection) {
			t.Errorf("Projection for fov %.0f has non finite elements:\n%s", fov, vm.MatToString(b.Projection))
		}
		if b.Projection.At(0, 0) == 0 || b.Projection.At(1, 1) == 0 {
			t.Errorf("Projection for fov %.0f is degenerate:\n%s", fov, vm.MatToString(b.Projection))
		}
	}
}

func TestSanitize(t *testing.T) {
	p := DefaultTransformParams(0)
	p.NearZ = 5
	p.FarZ = 1
	p.EyeDir = vm.Vec3{}
	p.Up = vm.Vec3{Z: 2}
	p.Sanitize()

	if p.NearZ != 5 || p.FarZ <= p.NearZ {
		t.Errorf("Expected near < far after sanitizing, got near %f far %f", p.NearZ, p.FarZ)
	}
	if p.Aspect <= 0 {
		t.Errorf("Expected positive aspect, got %f", p.Aspect)
	}
	if p.EyeDir.Len() == 0 || p.Up.Cross(p.EyeDir).Len() == 0 {
		t.Errorf("Eye direction %v and up %v still degenerate", p.EyeDir, p.Up)
	}

	q := DefaultTransformParams(1)
	q.NearZ = 0
	q.Sanitize()
	if q.NearZ < MIN_NEAR_Z {
		t.Errorf("Near plane should be raised to %f, got %f", MIN_NEAR_Z, q.NearZ)
	}

	b := NewTransformBlock(p)
	if !vm.IsFinite(b.View) || !vm.IsFinite(b.Projection) {
		t.Errorf("Sanitized parameters should produce finite matrices")
	}
}

func TestTransposedUpload(t *testing.T) {
	p := DefaultTransformParams(1.5)
	p.Translation = vm.Vec3{X: 1, Y: 2, Z: 3}
	b := NewTransformBlock(p)
	up := b.Transposed()
	data := up.Bytes()
	if len(data) != TRANSFORM_BLOCK_SIZE {
		t.Fatalf("Expected %d bytes but got %d", TRANSFORM_BLOCK_SIZE, len(data))
	}
	// In the uploaded model matrix the translation is stored in the last elements of the first three columns
	m := up.Model
	if m[3] != 1 || m[7] != 2 || m[11] != 3 {
		t.Errorf("Translation not found in the transposed layout:\n%s", vm.MatToString(m))
	}
	if up.Transposed() != b {
		t.Errorf("Transposing twice should restore the block")
	}
}
