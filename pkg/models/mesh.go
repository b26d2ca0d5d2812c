// Package models provides the meshes drawn by the scene: generated
// primitives and geometry loaded from OBJ, STL or glTF files.
package models

import (
	"github.com/taigrr/deskscene/pkg/math3d"
)

// Mesh is an indexed triangle mesh in object-local coordinates.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a counter-clockwise triangle of indices into Mesh.Vertices.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos, normal math3d.Vec3, uv math3d.Vec2) int {
	m.Vertices = append(m.Vertices, MeshVertex{Position: pos, Normal: normal, UV: uv})
	return len(m.Vertices) - 1
}

// AddTriangle appends a face.
func (m *Mesh) AddTriangle(a, b, c int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}})
}

// AddQuad appends two faces covering a, b, c, d in counter-clockwise order.
func (m *Mesh) AddQuad(a, b, c, d int) {
	m.AddTriangle(a, b, c)
	m.AddTriangle(a, c, d)
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateSmoothNormals computes area-weighted averaged vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		normal := v1.Sub(v0).Cross(v2.Sub(v0)) // unnormalized: weights by area

		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// HasNormals reports whether any vertex carries a non-zero normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

// GetVertex returns the position, normal, and UV for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// RemoveDegenerateFaces removes faces with repeated indices or near-zero
// area and returns how many were dropped.
func (m *Mesh) RemoveDegenerateFaces() int {
	const minArea = 1e-10
	kept := m.Faces[:0]
	for _, f := range m.Faces {
		if f.V[0] == f.V[1] || f.V[1] == f.V[2] || f.V[0] == f.V[2] {
			continue
		}
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		if v1.Sub(v0).Cross(v2.Sub(v0)).Len()*0.5 > minArea {
			kept = append(kept, f)
		}
	}
	removed := len(m.Faces) - len(kept)
	m.Faces = kept
	return removed
}

// RemoveUnreferencedVertices compacts the vertex array and remaps faces.
func (m *Mesh) RemoveUnreferencedVertices() {
	if len(m.Faces) == 0 || len(m.Vertices) == 0 {
		return
	}

	referenced := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		for _, idx := range f.V {
			referenced[idx] = true
		}
	}

	newIndex := make([]int, len(m.Vertices))
	newVertices := make([]MeshVertex, 0, len(m.Vertices))
	for i, v := range m.Vertices {
		if referenced[i] {
			newIndex[i] = len(newVertices)
			newVertices = append(newVertices, v)
		}
	}

	for i := range m.Faces {
		for j := range 3 {
			m.Faces[i].V[j] = newIndex[m.Faces[i].V[j]]
		}
	}

	m.Vertices = newVertices
}

// Normalize centers the mesh on the origin of its bounding-box base and
// scales it so the largest extent becomes size. Loaded meshes that stand in
// for primitives are normalized so the scene's transforms still apply.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	extent := m.Size()
	maxDim := max(extent.X, extent.Y, extent.Z)
	if maxDim == 0 {
		return
	}
	base := math3d.V3(m.Center().X, m.BoundsMin.Y, m.Center().Z)
	s := size / maxDim
	mat := math3d.Scale(math3d.V3(s, s, s)).Mul(math3d.Translate(base.Negate()))
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
	}
	m.CalculateBounds()
}
