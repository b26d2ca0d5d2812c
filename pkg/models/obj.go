package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/deskscene/pkg/math3d"
)

// OBJLoader loads Wavefront OBJ files.
type OBJLoader struct {
	// CalculateNormals fills in smooth normals when the file has none.
	CalculateNormals bool
}

// NewOBJLoader creates a new OBJ loader with default settings.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{CalculateNormals: true}
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load parses an OBJ from a reader. Polygons are fan-triangulated and keep
// the file's counter-clockwise winding.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	var positions, normals []math3d.Vec3
	var uvs []math3d.Vec2

	// OBJ indexes position, uv and normal separately; each distinct
	// combination becomes one mesh vertex.
	type vertexKey struct {
		pos, uv, normal int
	}
	vertexMap := make(map[vertexKey]int)

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNum, err)
			}
			positions = append(positions, math3d.V3(v[0], v[1], v[2]))

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coord: %w", lineNum, err)
			}
			uvs = append(uvs, math3d.V2(v[0], v[1]))

		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNum, err)
			}
			normals = append(normals, math3d.V3(v[0], v[1], v[2]).Normalize())

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}

			faceVerts := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				posIdx, uvIdx, normalIdx, err := parseFaceVertex(field)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}

				posIdx = resolveIndex(posIdx, len(positions))
				uvIdx = resolveIndex(uvIdx, len(uvs))
				normalIdx = resolveIndex(normalIdx, len(normals))

				if posIdx < 0 || posIdx >= len(positions) {
					return nil, fmt.Errorf("line %d: position index %d out of range", lineNum, posIdx+1)
				}

				key := vertexKey{posIdx, uvIdx, normalIdx}
				vertIdx, exists := vertexMap[key]
				if !exists {
					vert := MeshVertex{Position: positions[posIdx]}
					if uvIdx >= 0 && uvIdx < len(uvs) {
						vert.UV = uvs[uvIdx]
					}
					if normalIdx >= 0 && normalIdx < len(normals) {
						vert.Normal = normals[normalIdx]
					}
					vertIdx = len(mesh.Vertices)
					mesh.Vertices = append(mesh.Vertices, vert)
					vertexMap[key] = vertIdx
				}
				faceVerts = append(faceVerts, vertIdx)
			}

			for i := 1; i < len(faceVerts)-1; i++ {
				mesh.AddTriangle(faceVerts[0], faceVerts[i], faceVerts[i+1])
			}

		case "o", "g":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if l.CalculateNormals && len(normals) == 0 {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("need %d components, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// parseFaceVertex parses a face vertex in format: v, v/vt, v/vt/vn, or v//vn
// Returns 1-indexed values (0 means not specified)
func parseFaceVertex(s string) (pos, uv, normal int, err error) {
	parts := strings.Split(s, "/")

	pos, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid vertex index: %s", parts[0])
	}

	if len(parts) > 1 && parts[1] != "" {
		uv, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid texture index: %s", parts[1])
		}
	}

	if len(parts) > 2 && parts[2] != "" {
		normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid normal index: %s", parts[2])
		}
	}

	return pos, uv, normal, nil
}

// resolveIndex converts OBJ 1-indexed (or negative) index to 0-indexed.
// Returns -1 if index was 0 (not specified).
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return -1
	}
	if idx < 0 {
		return count + idx
	}
	return idx - 1
}

// LoadOBJ is a convenience function to load an OBJ file with default settings.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}
