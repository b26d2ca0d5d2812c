package models

import (
	"strings"
	"testing"

	"github.com/taigrr/deskscene/pkg/math3d"
)

func TestLoadCubeOBJ(t *testing.T) {
	objData := `
# Cube
v -0.5 -0.5 -0.5
v  0.5 -0.5 -0.5
v  0.5  0.5 -0.5
v -0.5  0.5 -0.5
v -0.5 -0.5  0.5
v  0.5 -0.5  0.5
v  0.5  0.5  0.5
v -0.5  0.5  0.5

f 1 2 3 4
f 5 6 7 8
f 1 4 8 5
f 2 6 7 3
f 4 3 7 8
f 1 5 6 2
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "cube")
	if err != nil {
		t.Fatalf("failed to load cube: %v", err)
	}

	// 6 faces * 2 triangles per quad = 12 triangles
	if mesh.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles (6 quads), got %d", mesh.TriangleCount())
	}
	if mesh.BoundsMin != math3d.V3(-0.5, -0.5, -0.5) {
		t.Errorf("expected min bounds (-0.5,-0.5,-0.5), got %v", mesh.BoundsMin)
	}
	if mesh.BoundsMax != math3d.V3(0.5, 0.5, 0.5) {
		t.Errorf("expected max bounds (0.5,0.5,0.5), got %v", mesh.BoundsMax)
	}
	if !mesh.HasNormals() {
		t.Error("expected calculated normals")
	}
}

func TestLoadOBJKeepsWinding(t *testing.T) {
	objData := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "tri")
	if err != nil {
		t.Fatalf("failed to load OBJ: %v", err)
	}
	if got := mesh.GetFace(0); got != [3]int{0, 1, 2} {
		t.Errorf("face = %v, want [0 1 2]", got)
	}
	// Counter-clockwise in XY faces +Z.
	_, n, _ := mesh.GetVertex(0)
	if !n.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
		t.Errorf("normal = %v, want (0,0,1)", n)
	}
}

func TestLoadOBJWithUVsAndNormals(t *testing.T) {
	objData := `
v 0 0 0
v 1 0 0
v 0.5 1 0
vt 0 0
vt 1 0
vt 0.5 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`
	loader := NewOBJLoader()
	loader.CalculateNormals = false
	mesh, err := loader.Load(strings.NewReader(objData), "tri_with_attrs")
	if err != nil {
		t.Fatalf("failed to load OBJ: %v", err)
	}

	_, norm, uv := mesh.GetVertex(2)
	if uv != math3d.V2(0.5, 1) {
		t.Errorf("expected UV (0.5,1), got %v", uv)
	}
	if norm != math3d.V3(0, 0, 1) {
		t.Errorf("expected normal (0,0,1), got %v", norm)
	}
}

func TestNegativeIndices(t *testing.T) {
	objData := `
v 0 0 0
v 1 0 0
v 0.5 1 0
f -3 -2 -1
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "neg_indices")
	if err != nil {
		t.Fatalf("failed to load OBJ: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", mesh.TriangleCount())
	}
}

func TestLoadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"short vertex", "v 1 2\n"},
		{"bad float", "v 1 x 3\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewOBJLoader().Load(strings.NewReader(tt.data), tt.name); err == nil {
				t.Errorf("expected error for %q", tt.data)
			}
		})
	}
}
