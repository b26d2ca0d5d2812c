package scene

import (
	"bytes"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/deskscene/pkg/math3d"
	"github.com/taigrr/deskscene/pkg/models"
	"github.com/taigrr/deskscene/pkg/render"
)

// drawState is the uniform state a draw call sees.
type drawState struct {
	model    math3d.Mat4
	textured bool
	slot     int
	color    math3d.Vec4
	uvScale  math3d.Vec2
	shine    float64
}

// recorder captures the program state at every draw call.
type recorder struct {
	prog  *render.Program
	draws []drawState
}

func (r *recorder) Draw(render.MeshRenderer) {
	n := r.prog.Names
	uvScale := math3d.V2(1, 1)
	if v, ok := r.prog.Value(n.UVScale); ok {
		uvScale = v.(math3d.Vec2)
	}
	color := math3d.V4(1, 1, 1, 1)
	if v, ok := r.prog.Value(n.Color); ok {
		color = v.(math3d.Vec4)
	}
	r.draws = append(r.draws, drawState{
		model:    r.prog.Mat4(n.Model),
		textured: r.prog.Bool(n.UseTexture),
		slot:     r.prog.Sampler(n.Texture),
		color:    color,
		uvScale:  uvScale,
		shine:    r.prog.Float(render.MaterialShininess),
	})
}

// Export runs the prepared scene's script and converts every draw call to
// a glTF node carrying its model matrix. Materials become PBR factors and
// bound textures are embedded as PNG images.
func Export(m *Manager) (*gltf.Document, error) {
	rec := &recorder{prog: render.NewProgram(nil, m.names)}
	replay := *m
	replay.program = rec.prog
	replay.drawer = rec
	replay.RenderScene()
	if len(rec.draws) != len(m.script) {
		return nil, fmt.Errorf("export: %d of %d steps drew a mesh; prepare the scene first", len(rec.draws), len(m.script))
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "deskscene"
	ex := exporter{doc: doc, m: m, meshes: map[meshKey]int{}, materials: map[materialID]int{}, images: map[int]int{}}

	for i, s := range m.script {
		st := rec.draws[i]
		matIdx, err := ex.material(s, st)
		if err != nil {
			return nil, err
		}
		meshIdx, err := ex.mesh(s.Mesh, st, matIdx)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:     s.Object + " " + s.Part,
			Mesh:     gltf.Index(meshIdx),
			Matrix:   [16]float64(st.model),
			Rotation: [4]float64{0, 0, 0, 1},
			Scale:    [3]float64{1, 1, 1},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc, nil
}

// SaveGLTF exports the scene to path. A .glb extension writes a single
// binary file; otherwise the buffer goes to a .bin file next to it.
func SaveGLTF(m *Manager, path string) error {
	doc, err := Export(m)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		doc.Buffers[0].URI = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".bin"
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	log.Infof("Exported %d nodes to %s", len(doc.Nodes), path)
	return nil
}

// meshKey identifies an exported mesh. glTF primitives name their
// material and have no UV scale, so both are baked in.
type meshKey struct {
	kind     models.Kind
	uvScale  math3d.Vec2
	material int
}

type exporter struct {
	doc       *gltf.Document
	m         *Manager
	meshes    map[meshKey]int
	materials map[materialID]int
	images    map[int]int // texture slot -> glTF texture index
}

// materialID identifies an exported material: the state the shading
// stage reads plus the material tag.
type materialID struct {
	state drawState
	tag   string
}

func materialKey(tag string, st drawState) materialID {
	st.model = math3d.Mat4{}
	if !st.textured {
		st.slot = NotFound
		st.uvScale = math3d.Vec2{}
	} else {
		st.color = math3d.Vec4{}
	}
	return materialID{state: st, tag: tag}
}

func (ex *exporter) material(s Step, st drawState) (int, error) {
	key := materialKey(s.Material, st)
	if idx, ok := ex.materials[key]; ok {
		return idx, nil
	}
	base := [4]float64{st.color.X, st.color.Y, st.color.Z, st.color.W}
	pbr := &gltf.PBRMetallicRoughness{
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(max(0.05, 1-st.shine/256)),
	}
	if st.textured {
		tex, ok, err := ex.texture(st.slot)
		if err != nil {
			return 0, err
		}
		if ok {
			pbr.BaseColorTexture = &gltf.TextureInfo{Index: tex}
			base = [4]float64{1, 1, 1, 1}
		}
	}
	pbr.BaseColorFactor = &base
	if s.Material == "metal" {
		pbr.MetallicFactor = gltf.Float(1)
	}
	ex.doc.Materials = append(ex.doc.Materials, &gltf.Material{
		Name:                 s.Material,
		PBRMetallicRoughness: pbr,
		DoubleSided:          true,
	})
	idx := len(ex.doc.Materials) - 1
	ex.materials[key] = idx
	return idx, nil
}

func (ex *exporter) texture(slot int) (int, bool, error) {
	if idx, ok := ex.images[slot]; ok {
		return idx, true, nil
	}
	tex := ex.m.device.BoundTexture(slot)
	if tex == nil {
		return 0, false, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, tex.ToImage()); err != nil {
		return 0, false, fmt.Errorf("encode texture %d: %w", slot, err)
	}
	name := fmt.Sprintf("texture%d", slot)
	if entries := ex.m.textures.Entries(); slot >= 0 && slot < len(entries) {
		name = entries[slot].Tag
	}
	img, err := modeler.WriteImage(ex.doc, name, "image/png", &buf)
	if err != nil {
		return 0, false, fmt.Errorf("embed texture %s: %w", name, err)
	}
	if len(ex.doc.Samplers) == 0 {
		ex.doc.Samplers = append(ex.doc.Samplers, &gltf.Sampler{
			WrapS:     gltf.WrapRepeat,
			WrapT:     gltf.WrapRepeat,
			MagFilter: gltf.MagLinear,
			MinFilter: gltf.MinLinearMipMapLinear,
		})
	}
	ex.doc.Textures = append(ex.doc.Textures, &gltf.Texture{
		Name:    name,
		Sampler: gltf.Index(0),
		Source:  gltf.Index(img),
	})
	idx := len(ex.doc.Textures) - 1
	ex.images[slot] = idx
	return idx, true, nil
}

func (ex *exporter) mesh(kind models.Kind, st drawState, material int) (int, error) {
	key := meshKey{kind: kind, uvScale: st.uvScale, material: material}
	if !st.textured {
		key.uvScale = math3d.V2(1, 1)
	}
	if idx, ok := ex.meshes[key]; ok {
		return idx, nil
	}
	mesh := ex.m.library.Get(kind)
	if mesh == nil {
		return 0, fmt.Errorf("export: no mesh for %s", kind)
	}

	positions := make([][3]float32, len(mesh.Vertices))
	normals := make([][3]float32, len(mesh.Vertices))
	uvs := make([][2]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
		normals[i] = [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
		uv := v.UV.Mul(key.uvScale)
		// glTF puts v=0 at the top of the image.
		uvs[i] = [2]float32{float32(uv.X), float32(1 - uv.Y)}
	}
	indices := make([]uint32, 0, len(mesh.Faces)*3)
	for _, f := range mesh.Faces {
		indices = append(indices, uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
	}

	ex.doc.Meshes = append(ex.doc.Meshes, &gltf.Mesh{
		Name: string(kind),
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(modeler.WriteIndices(ex.doc, indices)),
			Attributes: map[string]int{
				gltf.POSITION:   modeler.WritePosition(ex.doc, positions),
				gltf.NORMAL:     modeler.WriteNormal(ex.doc, normals),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(ex.doc, uvs),
			},
			Material: gltf.Index(material),
			Mode:     gltf.PrimitiveTriangles,
		}},
	})
	idx := len(ex.doc.Meshes) - 1
	ex.meshes[key] = idx
	return idx, nil
}
