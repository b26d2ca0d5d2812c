package models

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/deskscene/pkg/math3d"
)

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// LoadGLTF loads the triangle geometry of a .gltf or .glb file into a
// single mesh. Node transforms are baked into the vertices; materials and
// images are ignored since the scene assigns its own.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := MeshFromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// ErrMalformedGLTF is returned for documents whose indices point outside
// their arrays or whose node hierarchy contains a cycle.
var ErrMalformedGLTF = errors.New("malformed gltf document")

// MeshFromDocument flattens every mesh reachable from the document's scene.
func MeshFromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	roots, err := rootNodes(doc)
	if err != nil {
		return nil, err
	}
	onPath := make([]bool, len(doc.Nodes))
	for _, idx := range roots {
		if err := processNode(doc, idx, math3d.Identity(), mesh, onPath); err != nil {
			return nil, err
		}
	}

	if !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// rootNodes returns the nodes of the default scene, or every node that is
// nobody's child when the document has no scenes.
func rootNodes(doc *gltf.Document) ([]int, error) {
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = *doc.Scene
		}
		if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) || doc.Scenes[sceneIdx] == nil {
			return nil, fmt.Errorf("%w: scene %d out of range", ErrMalformedGLTF, sceneIdx)
		}
		return doc.Scenes[sceneIdx].Nodes, nil
	}
	isChild := make([]bool, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n == nil {
			return nil, fmt.Errorf("%w: node %d is null", ErrMalformedGLTF, i)
		}
		for _, c := range n.Children {
			if c < 0 || c >= len(doc.Nodes) {
				return nil, fmt.Errorf("%w: node %d: child %d out of range", ErrMalformedGLTF, i, c)
			}
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

func nodeTransform(node *gltf.Node) math3d.Mat4 {
	if node.Matrix != identityMatrix && node.Matrix != [16]float64{} {
		return math3d.Mat4FromSlice(node.Matrix[:])
	}
	local := math3d.Identity()
	if node.Translation != [3]float64{} {
		t := node.Translation
		local = local.Mul(math3d.Translate(math3d.V3(t[0], t[1], t[2])))
	}
	if r := node.Rotation; r != [4]float64{0, 0, 0, 1} && r != [4]float64{} {
		local = local.Mul(math3d.QuatToMat4(r[0], r[1], r[2], r[3]))
	}
	if s := node.Scale; s != [3]float64{1, 1, 1} && s != [3]float64{} {
		local = local.Mul(math3d.Scale(math3d.V3(s[0], s[1], s[2])))
	}
	return local
}

func processNode(doc *gltf.Document, nodeIdx int, parent math3d.Mat4, mesh *Mesh, onPath []bool) error {
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) || doc.Nodes[nodeIdx] == nil {
		return fmt.Errorf("%w: node %d out of range", ErrMalformedGLTF, nodeIdx)
	}
	if onPath[nodeIdx] {
		return fmt.Errorf("%w: node %d is its own ancestor", ErrMalformedGLTF, nodeIdx)
	}
	onPath[nodeIdx] = true
	defer func() { onPath[nodeIdx] = false }()

	node := doc.Nodes[nodeIdx]
	world := parent.Mul(nodeTransform(node))

	if node.Mesh != nil {
		mi := *node.Mesh
		if mi < 0 || mi >= len(doc.Meshes) || doc.Meshes[mi] == nil {
			return fmt.Errorf("%w: node %d: mesh %d out of range", ErrMalformedGLTF, nodeIdx, mi)
		}
		if err := appendPrimitives(doc, doc.Meshes[mi], world, mesh); err != nil {
			return fmt.Errorf("mesh %d: %w", mi, err)
		}
	}
	for _, child := range node.Children {
		if err := processNode(doc, child, world, mesh, onPath); err != nil {
			return err
		}
	}
	return nil
}

// accessor returns the accessor at i.
func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) || doc.Accessors[i] == nil {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrMalformedGLTF, i)
	}
	acr := doc.Accessors[i]
	if acr.BufferView != nil {
		bv := *acr.BufferView
		if bv < 0 || bv >= len(doc.BufferViews) || doc.BufferViews[bv] == nil {
			return nil, fmt.Errorf("%w: accessor %d: buffer view %d out of range", ErrMalformedGLTF, i, bv)
		}
		if b := doc.BufferViews[bv].Buffer; b < 0 || b >= len(doc.Buffers) || doc.Buffers[b] == nil {
			return nil, fmt.Errorf("%w: buffer view %d: buffer %d out of range", ErrMalformedGLTF, bv, b)
		}
	}
	return acr, nil
}

func appendPrimitives(doc *gltf.Document, m *gltf.Mesh, transform math3d.Mat4, mesh *Mesh) error {
	normalMat := transform.NormalMatrix()
	for _, prim := range m.Primitives {
		if prim == nil {
			continue
		}
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		posAcr, err := accessor(doc, posIdx)
		if err != nil {
			return err
		}
		positions, err := modeler.ReadPosition(doc, posAcr, nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			acr, err := accessor(doc, idx)
			if err != nil {
				return err
			}
			if normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}
		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			acr, err := accessor(doc, idx)
			if err != nil {
				return err
			}
			if uvs, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{
				Position: transform.MulVec3(math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))),
			}
			if i < len(normals) {
				n := normals[i]
				v.Normal = normalMat.MulVec3Dir(math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))).Normalize()
			}
			if i < len(uvs) {
				// glTF puts v=0 at the top of the image.
				v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		if prim.Indices == nil {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.AddTriangle(base+i, base+i+1, base+i+2)
			}
			continue
		}
		idxAcr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return err
		}
		indices, err := modeler.ReadIndices(doc, idxAcr, nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if a >= len(positions) || b >= len(positions) || c >= len(positions) {
				return fmt.Errorf("%w: vertex index out of range in primitive", ErrMalformedGLTF)
			}
			mesh.AddTriangle(base+a, base+b, base+c)
		}
	}
	return nil
}
