package vector_math

import (
	"fmt"
	"math"
	"strings"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Mat4 is a 4x4 float32 matrix stored column major. All constructors in this package build matrices that
// transform column vectors (M * v). A matrix written for row vectors (v * M) is the transpose of its column
// vector counterpart, which also means both share the exact same memory layout when one is column major and the
// other row major.
type Mat4 = mgl32.Mat4

const MAT4_BYTE_SIZE = 16 * 4

func NewUnitMat4() Mat4 {
	return mgl32.Ident4()
}

func NewScale(s Vec3) Mat4 {
	return mgl32.Scale3D(s.X, s.Y, s.Z)
}

func NewTranslation(t Vec3) Mat4 {
	return mgl32.Translate3D(t.X, t.Y, t.Z)
}

func New4x4RotXMat(rad float64) Mat4 {
	return mgl32.HomogRotate3DX(float32(rad))
}

func New4x4RotYMat(rad float64) Mat4 {
	return mgl32.HomogRotate3DY(float32(rad))
}

func New4x4RotZMat(rad float64) Mat4 {
	return mgl32.HomogRotate3DZ(float32(rad))
}

// NewRotation rotates around an arbitrary axis, the axis does not need to be normalized
func NewRotation(rad float64, axis Vec3) Mat4 {
	return mgl32.HomogRotate3D(float32(rad), axis.Norm().mgl())
}

// NewYXZRotation applies the rotation around Y first, then X and finally Z. The components of r are radians.
func NewYXZRotation(r Vec3) Mat4 {
	return New4x4RotZMat(float64(r.Z)).Mul4(New4x4RotXMat(float64(r.X))).Mul4(New4x4RotYMat(float64(r.Y)))
}

// NewModel composes scale, rotation and translation into a model matrix. Scale is applied first, followed by the
// Y, X, Z rotations and the translation last.
func NewModel(scale Vec3, rot Vec3, trans Vec3) Mat4 {
	return NewTranslation(trans).Mul4(NewYXZRotation(rot)).Mul4(NewScale(scale))
}

// MatEquals compares element wise with the given tolerance
func MatEquals(a Mat4, b Mat4, eps float32) bool {
	return a.ApproxEqualThreshold(b, eps)
}

// IsFinite reports whether no element is NaN or +-Inf
func IsFinite(m Mat4) bool {
	for _, e := range m {
		if math.IsNaN(float64(e)) || math.IsInf(float64(e), 0) {
			return false
		}
	}
	return true
}

// MatBytes drops type information to hand the matrix to vk.Memcopy. The bytes are in memory order (column major).
func MatBytes(m *Mat4) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&m[0])), MAT4_BYTE_SIZE)
}

func MatToString(m Mat4) string {
	sb := strings.Builder{}
	for r := 0; r < 4; r++ {
		sb.WriteString(fmt.Sprintf("[% 9.4f % 9.4f % 9.4f % 9.4f]\n", m.At(r, 0), m.At(r, 1), m.At(r, 2), m.At(r, 3)))
	}
	return sb.String()
}
