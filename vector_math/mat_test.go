package vector_math

import (
	"math"
	"testing"
)

const eps = 1e-5

func TestRotationX(t *testing.T) {
	t.Logf("RotationX:")
	mrx := New4x4RotXMat(ToRad(90))
	mrxComplex := NewRotation(ToRad(90), Vec3{X: 1})

	if !MatEquals(mrx, mrxComplex, eps) {
		t.Errorf(
			"RotX not equal to generic roation around X. RotX: \n%s\n Rotation around x-axis: \n%s",
			MatToString(mrx),
			MatToString(mrxComplex),
		)
	}
}

func TestRotationY(t *testing.T) {
	t.Logf("RotationY:")
	mry := New4x4RotYMat(ToRad(90))
	mryComplex := NewRotation(ToRad(90), Vec3{Y: 1})

	if !MatEquals(mry, mryComplex, eps) {
		t.Errorf(
			"RotY not equal to generic roation around Y. RotY: \n%s\n Rotation around y-axis: \n%s",
			MatToString(mry),
			MatToString(mryComplex),
		)
	}
}

func TestRotationZ(t *testing.T) {
	t.Logf("RotationZ:")
	mrz := New4x4RotZMat(ToRad(90))
	mrzComplex := NewRotation(ToRad(90), Vec3{Z: 1})

	if !MatEquals(mrz, mrzComplex, eps) {
		t.Errorf(
			"RotZ not equal to generic roation around Z. RotZ: \n%s\n Rotation around z-axis: \n%s",
			MatToString(mrz),
			MatToString(mrzComplex),
		)
	}
}

func TestArbitraryRotation(t *testing.T) {
	t.Logf("Rotation arbitrary:")
	mr := NewRotation(ToRad(-74), Vec3{X: -0.5, Y: 1, Z: 1})
	mrExample := NewUnitMat4()
	mrExample.Set(0, 0, 0.3561221)
	mrExample.Set(0, 1, 0.47987163)
	mrExample.Set(0, 2, -0.8018106)

	mrExample.Set(1, 0, -0.8018106)
	mrExample.Set(1, 1, 0.5975763)
	mrExample.Set(1, 2, 0.0015183985)

	mrExample.Set(2, 0, 0.47987163)
	mrExample.Set(2, 1, 0.6423595)
	mrExample.Set(2, 2, 0.5975763)

	if !MatEquals(mr, mrExample, eps) {
		t.Errorf(
			"Arbitrary rotation didnt match expectations. expectation: \n%s\n actual: \n%s",
			MatToString(mrExample),
			MatToString(mr),
		)
	}
}

func TestModelOrder(t *testing.T) {
	// scale first, then rotate a quarter turn around Y, then move along X
	m := NewModel(Vec3{X: 0.5, Y: 0.5, Z: 0.5}, Vec3{Y: math.Pi / 2}, Vec3{X: 1})
	p := Apply(Vec3{X: 1}, 1, m)
	want := Vec3{X: 1, Y: 0, Z: -0.5}
	if p.Sub(want).Len() > eps {
		t.Errorf("Model transform of (1,0,0) should be %v but was %v", want, p)
	}

	// translating before scaling would move the point to (0, 0, -1)
	wrongOrder := NewScale(Vec3{X: 0.5, Y: 0.5, Z: 0.5}).Mul4(NewYXZRotation(Vec3{Y: math.Pi / 2})).Mul4(NewTranslation(Vec3{X: 1}))
	if q := Apply(Vec3{X: 1}, 1, wrongOrder); q.Sub(want).Len() < eps {
		t.Errorf("Reversed composition should not produce the same point: %v", q)
	}
}

func TestYXZRotationOrder(t *testing.T) {
	r := Vec3{X: 0.3, Y: 0.7, Z: -1.1}
	v := Vec3{X: 0.2, Y: -0.4, Z: 0.9}

	// apply the single axis rotations one by one, Y first
	want := Apply(v, 0, New4x4RotYMat(float64(r.Y)))
	want = Apply(want, 0, New4x4RotXMat(float64(r.X)))
	want = Apply(want, 0, New4x4RotZMat(float64(r.Z)))

	got := Apply(v, 0, NewYXZRotation(r))
	if got.Sub(want).Len() > eps {
		t.Errorf("Combined rotation %v differs from sequential rotation %v", got, want)
	}
}

func TestRowVectorEquivalence(t *testing.T) {
	// v * (S * Ry * Rx * Rz * T) with row vectors equals the column vector product with the transposed factors
	s, r, tr := Vec3{X: 2, Y: 1, Z: 0.5}, Vec3{X: 0.1, Y: 0.2, Z: 0.3}, Vec3{X: -1, Y: 3, Z: 2}
	rowS := NewScale(s).Transpose()
	rowRy := New4x4RotYMat(float64(r.Y)).Transpose()
	rowRx := New4x4RotXMat(float64(r.X)).Transpose()
	rowRz := New4x4RotZMat(float64(r.Z)).Transpose()
	rowT := NewTranslation(tr).Transpose()
	rowModel := rowS.Mul4(rowRy).Mul4(rowRx).Mul4(rowRz).Mul4(rowT)

	if !MatEquals(rowModel.Transpose(), NewModel(s, r, tr), eps) {
		t.Errorf("Row vector model:\n%s\ndoes not match column vector model:\n%s",
			MatToString(rowModel.Transpose()), MatToString(NewModel(s, r, tr)))
	}
}

func TestDirectionView(t *testing.T) {
	v := NewDirectionView(Vec3{Z: -2}, Vec3{Z: 1}, Vec3{Y: 1})

	origin := Apply(Vec3{}, 1, v)
	if origin.Sub(Vec3{Z: 2}).Len() > eps {
		t.Errorf("Origin should be 2 units in front of the camera, got %v", origin)
	}
	right := Apply(Vec3{X: 1}, 0, v)
	if right.Sub(Vec3{X: 1}).Len() > eps {
		t.Errorf("+X should stay +X in a left-handed view, got %v", right)
	}
}

func TestTargetView(t *testing.T) {
	pos, target, up := Vec3{X: 1, Y: 2, Z: -3}, Vec3{X: 0.5}, Vec3{Y: 1}
	byTarget := NewTargetView(pos, target, up)
	byDirection := NewDirectionView(pos, target.Sub(pos).ScalarMul(7), up)
	if !MatEquals(byTarget, byDirection, eps) {
		t.Errorf("Target view should only depend on the direction to the target")
	}
	p := Apply(target, 1, byTarget)
	if math.Abs(float64(p.X)) > eps || math.Abs(float64(p.Y)) > eps || p.Z <= 0 {
		t.Errorf("Target should be centered in front of the camera, got %v", p)
	}
}

func TestNewPerspective(t *testing.T) {
	near, far := float32(0.01), float32(10)
	p := NewPerspective(ToRad(70), 16.0/9.0, near, far)

	onNear := Transform(Vec3{Z: near}, 1, p)
	if d := onNear[2] / onNear[3]; math.Abs(float64(d)) > eps {
		t.Errorf("Near plane should map to depth 0, was %f", d)
	}
	onFar := Transform(Vec3{Z: far}, 1, p)
	if d := onFar[2] / onFar[3]; math.Abs(float64(d-1)) > eps {
		t.Errorf("Far plane should map to depth 1, was %f", d)
	}

	for _, fov := range []float64{10, 180} {
		m := NewPerspective(ToRad(fov), 1, near, far)
		if !IsFinite(m) {
			t.Errorf("Perspective with fov %.0f contains non finite values:\n%s", fov, MatToString(m))
		}
		if m.At(0, 0) == 0 || m.At(1, 1) == 0 || m.At(2, 2) == 0 {
			t.Errorf("Perspective with fov %.0f is degenerate:\n%s", fov, MatToString(m))
		}
	}
}

func TestNewOrthographic(t *testing.T) {
	aspect := float32(2)
	o := NewOrthographic(-aspect, aspect, -1, 1, 1, 3)
	corners := []struct {
		in   Vec3
		want Vec3
	}{
		{Vec3{X: -aspect, Y: -1, Z: 1}, Vec3{X: -1, Y: -1, Z: 0}},
		{Vec3{X: aspect, Y: 1, Z: 3}, Vec3{X: 1, Y: 1, Z: 1}},
		{Vec3{Z: 2}, Vec3{Z: 0.5}},
	}
	for _, c := range corners {
		got := Apply(c.in, 1, o)
		if got.Sub(c.want).Len() > eps {
			t.Errorf("Orthographic projection of %v should be %v but was %v", c.in, c.want, got)
		}
	}
}

func TestMatBytes(t *testing.T) {
	m := NewTranslation(Vec3{X: 1, Y: 2, Z: 3})
	b := MatBytes(&m)
	if len(b) != MAT4_BYTE_SIZE {
		t.Errorf("Expected %d bytes but got %d", MAT4_BYTE_SIZE, len(b))
	}
	// column major: the translation occupies elements 12..14, 1.0f == 0x3f800000
	if b[48] != 0x00 || b[51] != 0x3f || b[50] != 0x80 {
		t.Errorf("Unexpected byte layout for element 12: %v", b[48:52])
	}
}

func TestNorm(t *testing.T) {
	if n := (Vec3{}).Norm(); n != (Vec3{}) {
		t.Errorf("Zero vector should stay zero, got %v", n)
	}
	if l := (Vec3{X: 3, Y: 4}).Norm().Len(); math.Abs(float64(l-1)) > eps {
		t.Errorf("Normalized vector should have length 1, got %f", l)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, want float32
	}{
		{-5, -2},
		{0.5, 0.5},
		{3.14, 2},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, -2, 2); got != tt.want {
			t.Errorf("Clamp(%v, -2, 2) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
