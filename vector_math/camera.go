package vector_math

import (
	"math"
)

// View and projection builders for a left-handed coordinate system: +X right, +Y up, +Z into the screen. Depth is
// mapped to [0, 1] like Direct3D and Vulkan expect it.

// NewDirectionView builds a view matrix for a camera at pos looking along dir. dir and up must not be parallel.
func NewDirectionView(pos Vec3, dir Vec3, up Vec3) Mat4 {
	zAxis := dir.Norm()
	xAxis := up.Cross(zAxis).Norm()
	yAxis := zAxis.Cross(xAxis)

	return Mat4{
		xAxis.X, yAxis.X, zAxis.X, 0,
		xAxis.Y, yAxis.Y, zAxis.Y, 0,
		xAxis.Z, yAxis.Z, zAxis.Z, 0,
		-xAxis.Dot(pos), -yAxis.Dot(pos), -zAxis.Dot(pos), 1,
	}
}

// NewTargetView builds a view matrix for a camera at pos looking at target
func NewTargetView(pos Vec3, target Vec3, up Vec3) Mat4 {
	return NewDirectionView(pos, target.Sub(pos), up)
}

// NewPerspective maps the view frustum given by the vertical field of view (radians) onto clip space. Near and
// far need to be positive with near < far.
func NewPerspective(fovy float64, aspect float32, near float32, far float32) Mat4 {
	h := float32(1 / math.Tan(fovy/2))
	fRange := far / (far - near)
	return Mat4{
		h / aspect, 0, 0, 0,
		0, h, 0, 0,
		0, 0, fRange, 1,
		0, 0, -near * fRange, 0,
	}
}

// NewOrthographic maps the box [l, r] x [b, t] x [near, far] onto clip space
func NewOrthographic(l float32, r float32, b float32, t float32, near float32, far float32) Mat4 {
	fRange := 1 / (far - near)
	return Mat4{
		2 / (r - l), 0, 0, 0,
		0, 2 / (t - b), 0, 0,
		0, 0, fRange, 0,
		(l + r) / (l - r), (t + b) / (b - t), -near * fRange, 1,
	}
}
