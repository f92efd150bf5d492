package vector_math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ToRad is a helper function to turn degree to radians
func ToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// ToDeg is a helper function to turn radians to degree
func ToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Apply multiplies m with v extended by the homogeneous coordinate w and drops the resulting w
func Apply(v Vec3, w float32, m Mat4) Vec3 {
	r := Transform(v, w, m)
	return Vec3{X: r[0], Y: r[1], Z: r[2]}
}

// Transform multiplies m with v extended by the homogeneous coordinate w
func Transform(v Vec3, w float32, m Mat4) mgl32.Vec4 {
	return m.Mul4x1(mgl32.Vec4{v.X, v.Y, v.Z, w})
}

func Clamp(v float32, min float32, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
