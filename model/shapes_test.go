package model

import (
	vm "local/vector_math"
	"reflect"
	"testing"
)

func TestShapeCounts(t *testing.T) {
	cases := []struct {
		shape    Shape
		vertices int
		indices  int
	}{
		{SHAPE_TRIANGLE, 3, 3},
		{SHAPE_SQUARE, 4, 6},
		{SHAPE_CUBE, 24, 36},
	}
	for _, c := range cases {
		md := Generate(c.shape)
		if len(md.Vertices) != c.vertices {
			t.Errorf("%v: expected %d vertices but got %d", c.shape, c.vertices, len(md.Vertices))
		}
		if len(md.Indices) != c.indices {
			t.Errorf("%v: expected %d indices but got %d", c.shape, c.indices, len(md.Indices))
		}
		if err := md.Validate(); err != nil {
			t.Errorf("%v: generated mesh is invalid: %v", c.shape, err)
		}
	}
}

func TestShapeReferenceGeometry(t *testing.T) {
	tri := MakeTriangle()
	if tri.Vertices[0].Pos != (vm.Vec3{Y: 0.5}) || tri.Vertices[0].Color != (vm.Vec3{X: 1}) {
		t.Errorf("Unexpected triangle top vertex: %+v", tri.Vertices[0])
	}
	sq := MakeSquare()
	for i, v := range sq.Vertices {
		if abs(v.Pos.X) != 0.5 || abs(v.Pos.Y) != 0.5 || v.Pos.Z != 0 {
			t.Errorf("Square vertex [%d] should be a corner at +-0.5, got %v", i, v.Pos)
		}
		if v.Color != (vm.Vec3{Z: 1}) {
			t.Errorf("Square vertex [%d] should be blue, got %v", i, v.Color)
		}
	}
	for i, v := range MakeCube().Vertices {
		if abs(v.Pos.X) != 1 || abs(v.Pos.Y) != 1 || abs(v.Pos.Z) != 1 {
			t.Errorf("Cube vertex [%d] should be a corner at +-1, got %v", i, v.Pos)
		}
	}
}

func TestShapeDeterminism(t *testing.T) {
	for s := range shapeNames {
		a := Generate(s)
		a.Vertices[0].Pos.X = 42
		a.Indices[0] = 7
		b := Generate(s)
		c := Generate(s)
		if !reflect.DeepEqual(b, c) {
			t.Errorf("%v: two generations differ", s)
		}
		if b.Vertices[0].Pos.X == 42 || b.Indices[0] == 7 {
			t.Errorf("%v: generated data shares memory with an earlier result", s)
		}
	}
}

func TestShapeWinding(t *testing.T) {
	for s := range shapeNames {
		md := Generate(s)
		for i := 0; i < len(md.Indices); i += 3 {
			a := md.Vertices[md.Indices[i]].Pos
			b := md.Vertices[md.Indices[i+1]].Pos
			c := md.Vertices[md.Indices[i+2]].Pos
			n := b.Sub(a).Cross(c.Sub(a))
			if n.Len() == 0 {
				t.Errorf("%v: triangle %d is degenerate", s, i/3)
				continue
			}
			// clockwise seen from outside means the normal points away from the center, for flat shapes towards
			// the default camera sitting at -Z
			var outward bool
			if s == SHAPE_CUBE {
				centroid := a.Add(b).Add(c).ScalarMul(1.0 / 3.0)
				outward = n.Dot(centroid) > 0
			} else {
				outward = n.Z < 0
			}
			if !outward {
				t.Errorf("%v: triangle %d (%v, %v, %v) is not wound clockwise", s, i/3, a, b, c)
			}
		}
	}
}

func TestCubeIsClosed(t *testing.T) {
	md := MakeCube()
	type edge struct{ from, to vm.Vec3 }
	edges := map[edge]int{}
	for i := 0; i < len(md.Indices); i += 3 {
		tri := []vm.Vec3{
			md.Vertices[md.Indices[i]].Pos,
			md.Vertices[md.Indices[i+1]].Pos,
			md.Vertices[md.Indices[i+2]].Pos,
		}
		for k := 0; k < 3; k++ {
			edges[edge{tri[k], tri[(k+1)%3]}]++
		}
	}
	for e, cnt := range edges {
		if cnt != 1 {
			t.Errorf("Directed edge %v -> %v used %d times", e.from, e.to, cnt)
		}
		if edges[edge{e.to, e.from}] != 1 {
			t.Errorf("Edge %v -> %v has no matching opposite edge", e.from, e.to)
		}
	}
}

func TestParseShape(t *testing.T) {
	for s, name := range shapeNames {
		got, err := ParseShape(name)
		if err != nil || got != s {
			t.Errorf("ParseShape(%q) = %v, %v", name, got, err)
		}
	}
	if got, err := ParseShape(" Cube "); err != nil || got != SHAPE_CUBE {
		t.Errorf("ParseShape should ignore case and surrounding space, got %v, %v", got, err)
	}
	if _, err := ParseShape("teapot"); err == nil {
		t.Errorf("ParseShape should reject unknown shapes")
	}
}

func TestVertexLayout(t *testing.T) {
	if VertexStride != 24 {
		t.Errorf("Vertex stride should be 24 Byte but is %d", VertexStride)
	}
	layout := VertexInputLayout()
	if len(layout) != 2 {
		t.Fatalf("Expected 2 input elements but got %d", len(layout))
	}
	if layout[0].Semantic != "POSITION" || layout[0].Offset != 0 {
		t.Errorf("Unexpected position element: %+v", layout[0])
	}
	if layout[1].Semantic != "COLOR" || layout[1].Offset != 12 {
		t.Errorf("Unexpected color element: %+v", layout[1])
	}
}

func TestMeshDataBuffers(t *testing.T) {
	md := MakeSquare()
	if md.VertexBufferSize() != 4*24 || uint64(len(md.VertexBytes())) != md.VertexBufferSize() {
		t.Errorf("Vertex buffer size mismatch: %d vs %d bytes", md.VertexBufferSize(), len(md.VertexBytes()))
	}
	if md.IndexBufferSize() != 12 || uint64(len(md.IndexBytes())) != md.IndexBufferSize() {
		t.Errorf("Index buffer size mismatch: %d vs %d bytes", md.IndexBufferSize(), len(md.IndexBytes()))
	}
	// little endian uint16: third index (2) is at byte 4
	if b := md.IndexBytes(); b[4] != 2 || b[5] != 0 {
		t.Errorf("Unexpected index byte layout: %v", b)
	}
}

func TestMeshDataValidate(t *testing.T) {
	v := MakeTriangle().Vertices
	cases := []struct {
		name string
		md   MeshData
	}{
		{"empty", MeshData{Vertices: v}},
		{"partial triangle", MeshData{Vertices: v, Indices: []uint16{0, 1}}},
		{"out of bounds", MeshData{Vertices: v, Indices: []uint16{0, 1, 3}}},
	}
	for _, c := range cases {
		if err := c.md.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
