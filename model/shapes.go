package model

import (
	"fmt"
	vm "local/vector_math"
	"strings"
)

// Shape selects one of the built-in meshes
type Shape int

const (
	SHAPE_TRIANGLE Shape = iota
	SHAPE_SQUARE
	SHAPE_CUBE
)

var shapeNames = map[Shape]string{
	SHAPE_TRIANGLE: "triangle",
	SHAPE_SQUARE:   "square",
	SHAPE_CUBE:     "cube",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape maps a case-insensitive shape name to its Shape
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q, expected one of triangle, square, cube", name)
}

// Generate returns a fresh copy of the shape's geometry. All shapes are centered at the origin and their
// triangles are wound clockwise when looked at from the outside.
func Generate(s Shape) MeshData {
	switch s {
	case SHAPE_TRIANGLE:
		return MakeTriangle()
	case SHAPE_SQUARE:
		return MakeSquare()
	case SHAPE_CUBE:
		return MakeCube()
	}
	panic(fmt.Sprintf("no generator for %v", s))
}

func MakeTriangle() MeshData {
	red := vm.Vec3{X: 1}
	return MeshData{
		Vertices: []Vertex{
			{Pos: vm.Vec3{X: 0, Y: 0.5}, Color: red},     // [0] top
			{Pos: vm.Vec3{X: 0.5, Y: -0.5}, Color: red},  // [1] bottom right
			{Pos: vm.Vec3{X: -0.5, Y: -0.5}, Color: red}, // [2] bottom left
		},
		Indices: []uint16{0, 1, 2},
	}
}

func MakeSquare() MeshData {
	const scale = 0.5
	blue := vm.Vec3{Z: 1}
	corners := []vm.Vec3{
		{X: -1, Y: 1},  // [0] top left
		{X: 1, Y: 1},   // [1] top right
		{X: 1, Y: -1},  // [2] bottom right
		{X: -1, Y: -1}, // [3] bottom left
	}
	v := make([]Vertex, len(corners))
	for i := range corners {
		v[i] = Vertex{Pos: corners[i].ScalarMul(scale), Color: blue}
	}
	return MeshData{
		Vertices: v,
		Indices:  []uint16{0, 1, 2, 0, 2, 3},
	}
}

// cubeFace describes one side of the unit cube. u x v points into the cube which results in clockwise
// triangles when the face is seen from outside.
type cubeFace struct {
	normal, u, v vm.Vec3
	color        vm.Vec3
}

var cubeFaces = []cubeFace{
	{normal: vm.Vec3{Z: -1}, u: vm.Vec3{X: 1}, v: vm.Vec3{Y: 1}, color: vm.Vec3{X: 1}},             // front
	{normal: vm.Vec3{Z: 1}, u: vm.Vec3{X: -1}, v: vm.Vec3{Y: 1}, color: vm.Vec3{Y: 1}},             // back
	{normal: vm.Vec3{X: -1}, u: vm.Vec3{Z: -1}, v: vm.Vec3{Y: 1}, color: vm.Vec3{Z: 1}},            // left
	{normal: vm.Vec3{X: 1}, u: vm.Vec3{Z: 1}, v: vm.Vec3{Y: 1}, color: vm.Vec3{X: 1, Y: 1}},        // right
	{normal: vm.Vec3{Y: 1}, u: vm.Vec3{X: 1}, v: vm.Vec3{Z: 1}, color: vm.Vec3{Y: 1, Z: 1}},        // top
	{normal: vm.Vec3{Y: -1}, u: vm.Vec3{X: 1}, v: vm.Vec3{Z: -1}, color: vm.Vec3{X: 1, Z: 1}},      // bottom
}

// MakeCube builds a cube with corners at +-1 and 4 vertices per face so every face keeps its own color
func MakeCube() MeshData {
	v := make([]Vertex, 0, 4*len(cubeFaces))
	idx := make([]uint16, 0, 6*len(cubeFaces))
	for _, f := range cubeFaces {
		base := uint16(len(v))
		corners := []vm.Vec3{
			f.normal.Sub(f.u).Add(f.v), // top left
			f.normal.Add(f.u).Add(f.v), // top right
			f.normal.Add(f.u).Sub(f.v), // bottom right
			f.normal.Sub(f.u).Sub(f.v), // bottom left
		}
		for _, c := range corners {
			v = append(v, Vertex{Pos: c, Color: f.color})
		}
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}
	return MeshData{
		Vertices: v,
		Indices:  idx,
	}
}
