package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Kind names one of the scene's shape slots.
type Kind string

const (
	Box             Kind = "box"
	Plane           Kind = "plane"
	Cylinder        Kind = "cylinder"
	TaperedCylinder Kind = "tapered_cylinder"
	Sphere          Kind = "sphere"
	HalfSphere      Kind = "half_sphere"
	TriangularPrism Kind = "triangular_prism"
)

// Kinds lists every shape slot in a stable order.
var Kinds = []Kind{Box, Plane, Cylinder, TaperedCylinder, Sphere, HalfSphere, TriangularPrism}

// ErrUnsupportedFormat is returned for mesh files that are not OBJ, STL or glTF.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// ErrNoTriangles is returned for mesh files with no non-degenerate triangle.
var ErrNoTriangles = errors.New("mesh has no usable triangles")

// Library holds one mesh per shape kind.
type Library struct {
	meshes map[Kind]*Mesh
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{meshes: make(map[Kind]*Mesh)}
}

// LoadPrimitives generates every built-in shape.
func (l *Library) LoadPrimitives(segments int) {
	if segments <= 0 {
		segments = DefaultSegments
	}
	l.meshes[Box] = NewBox()
	l.meshes[Plane] = NewPlane()
	l.meshes[Cylinder] = NewCylinder(segments)
	l.meshes[TaperedCylinder] = NewTaperedCylinder(segments)
	l.meshes[Sphere] = NewSphere(segments)
	l.meshes[HalfSphere] = NewHalfSphere(segments)
	l.meshes[TriangularPrism] = NewTriangularPrism()
}

// Set stores mesh under kind, replacing what was there.
func (l *Library) Set(kind Kind, mesh *Mesh) {
	l.meshes[kind] = mesh
}

// Get returns the mesh for kind, or nil.
func (l *Library) Get(kind Kind) *Mesh {
	return l.meshes[kind]
}

// Len returns the number of populated slots.
func (l *Library) Len() int {
	return len(l.meshes)
}

// LoadFile replaces the mesh for kind with one read from an OBJ, STL, glTF or
// GLB file. Degenerate faces and the vertices only they used are dropped,
// then the mesh is normalized to a unit extent standing on y = 0 so the
// scene transforms keep working.
func (l *Library) LoadFile(kind Kind, path string) error {
	if !slices.Contains(Kinds, kind) {
		return fmt.Errorf("unknown mesh kind %q", kind)
	}
	mesh, err := LoadMeshFile(path)
	if err != nil {
		return err
	}
	mesh.RemoveDegenerateFaces()
	if mesh.TriangleCount() == 0 {
		return fmt.Errorf("%s: %w", path, ErrNoTriangles)
	}
	mesh.RemoveUnreferencedVertices()
	mesh.Normalize(1)
	l.meshes[kind] = mesh
	return nil
}

// LoadMeshFile loads a mesh, picking the loader by file extension.
func LoadMeshFile(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".stl":
		return LoadSTL(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}
