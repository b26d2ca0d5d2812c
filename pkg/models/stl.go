package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/taigrr/deskscene/pkg/math3d"
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 50
)

// LoadSTL loads an ASCII or binary STL file. STL carries no texture
// coordinates, so UVs are box projected from the facet normal.
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	return ParseSTL(data, path)
}

// ParseSTL parses STL data. Every facet gets its own three vertices so
// edges stay sharp under the scene's per-vertex lighting.
func ParseSTL(data []byte, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	var err error
	if isBinarySTL(data) {
		err = parseBinarySTL(data, mesh)
	} else {
		err = parseASCIISTL(data, mesh)
	}
	if err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// isBinarySTL reports whether data is binary STL. A "solid" prefix means
// ASCII unless the facet count in the binary header matches the size.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return true
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == stlHeaderSize+4+uint64(n)*stlFacetSize
}

func parseBinarySTL(data []byte, mesh *Mesh) error {
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	if want := stlHeaderSize + 4 + uint64(n)*stlFacetSize; uint64(len(data)) < want {
		return fmt.Errorf("binary stl truncated: want %d bytes, got %d", want, len(data))
	}
	vec := func(b []byte) math3d.Vec3 {
		f := func(i int) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
		}
		return math3d.V3(f(0), f(1), f(2))
	}
	off := stlHeaderSize + 4
	for range n {
		normal := vec(data[off:])
		addFacet(mesh, normal, [3]math3d.Vec3{vec(data[off+12:]), vec(data[off+24:]), vec(data[off+36:])})
		off += stlFacetSize
	}
	return nil
}

func parseASCIISTL(data []byte, mesh *Mesh) error {
	var (
		normal math3d.Vec3
		corner []math3d.Vec3
		inLoop bool
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}
		case "facet":
			if len(fields) < 5 || !strings.EqualFold(fields[1], "normal") {
				return fmt.Errorf("line %d: facet needs a normal", line)
			}
			v, err := parseFloats(fields[2:], 3)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			normal = math3d.V3(v[0], v[1], v[2])
			corner = corner[:0]
		case "outer":
			inLoop = true
		case "vertex":
			if !inLoop {
				return fmt.Errorf("line %d: vertex outside a loop", line)
			}
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			corner = append(corner, math3d.V3(v[0], v[1], v[2]))
		case "endloop":
			inLoop = false
		case "endfacet":
			// Loops with more than three corners are fanned.
			for i := 2; i < len(corner); i++ {
				addFacet(mesh, normal, [3]math3d.Vec3{corner[0], corner[i-1], corner[i]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read ascii stl: %w", err)
	}
	return nil
}

// addFacet appends one triangle. A zero or missing normal is taken from
// the counter-clockwise winding.
func addFacet(mesh *Mesh, normal math3d.Vec3, p [3]math3d.Vec3) {
	geo := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if geo.LenSq() == 0 {
		return
	}
	if normal.LenSq() == 0 {
		normal = geo
	}
	normal = normal.Normalize()
	var idx [3]int
	for i, pos := range p {
		idx[i] = mesh.AddVertex(pos, normal, boxUV(pos, normal))
	}
	mesh.AddTriangle(idx[0], idx[1], idx[2])
}

// boxUV projects pos onto the plane most facing normal.
func boxUV(pos, normal math3d.Vec3) math3d.Vec2 {
	ax, ay, az := math.Abs(normal.X), math.Abs(normal.Y), math.Abs(normal.Z)
	switch {
	case ax >= ay && ax >= az:
		return math3d.V2(pos.Z, pos.Y)
	case ay >= az:
		return math3d.V2(pos.X, pos.Z)
	default:
		return math3d.V2(pos.X, pos.Y)
	}
}
