package models

import (
	"testing"

	"github.com/taigrr/deskscene/pkg/math3d"
)

func TestRemoveDegenerateFaces(t *testing.T) {
	mesh := NewMesh("test")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(0, 0, 0)}, // duplicate of vertex 0
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}}, // valid face
		{V: [3]int{0, 0, 1}}, // repeated index
		{V: [3]int{0, 1, 0}}, // repeated index
		{V: [3]int{0, 3, 1}}, // zero area
	}
	removed := mesh.RemoveDegenerateFaces()
	if removed != 3 {
		t.Errorf("RemoveDegenerateFaces() removed %d faces, want 3", removed)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("After removal: TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}

func TestRemoveUnreferencedVertices(t *testing.T) {
	mesh := NewMesh("test")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(2, 0, 0)}, // not used
		{Position: math3d.V3(0, 1, 0)},
	}
	mesh.Faces = []Face{{V: [3]int{0, 1, 3}}}
	mesh.RemoveUnreferencedVertices()
	if mesh.VertexCount() != 3 {
		t.Errorf("After removal: VertexCount = %d, want 3", mesh.VertexCount())
	}
	if mesh.Faces[0].V != [3]int{0, 1, 2} {
		t.Errorf("Face after remap = %v, want [0,1,2]", mesh.Faces[0].V)
	}
	if mesh.Vertices[2].Position != math3d.V3(0, 1, 0) {
		t.Errorf("Vertex 2 = %v, want (0,1,0)", mesh.Vertices[2].Position)
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	mesh := NewMesh("quad")
	a := mesh.AddVertex(math3d.V3(0, 0, 0), math3d.Vec3{}, math3d.Vec2{})
	b := mesh.AddVertex(math3d.V3(1, 0, 0), math3d.Vec3{}, math3d.Vec2{})
	c := mesh.AddVertex(math3d.V3(1, 1, 0), math3d.Vec3{}, math3d.Vec2{})
	d := mesh.AddVertex(math3d.V3(0, 1, 0), math3d.Vec3{}, math3d.Vec2{})
	mesh.AddQuad(a, b, c, d)
	if mesh.HasNormals() {
		t.Fatal("new vertices should have no normals")
	}
	mesh.CalculateSmoothNormals()
	for i, v := range mesh.Vertices {
		if !v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
			t.Errorf("vertex %d normal = %v, want (0,0,1)", i, v.Normal)
		}
	}
}

func TestNormalize(t *testing.T) {
	mesh := NewMesh("offset")
	mesh.AddVertex(math3d.V3(10, 5, 10), math3d.Vec3{}, math3d.Vec2{})
	mesh.AddVertex(math3d.V3(14, 7, 12), math3d.Vec3{}, math3d.Vec2{})
	mesh.AddVertex(math3d.V3(10, 7, 12), math3d.Vec3{}, math3d.Vec2{})
	mesh.AddTriangle(0, 1, 2)

	mesh.Normalize(1)

	if got := mesh.Size(); !got.ApproxEqual(math3d.V3(1, 0.5, 0.5), 1e-9) {
		t.Errorf("Size() = %v, want (1,0.5,0.5)", got)
	}
	if mesh.BoundsMin.Y != 0 {
		t.Errorf("BoundsMin.Y = %v, want 0", mesh.BoundsMin.Y)
	}
	c := mesh.Center()
	if !math3d.V3(c.X, 0, c.Z).ApproxEqual(math3d.Zero3(), 1e-9) {
		t.Errorf("Center() = %v, want x=z=0", c)
	}
}
