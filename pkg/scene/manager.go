package scene

import (
	"errors"
	"fmt"
	"path/filepath"

	"fortio.org/log"
	"github.com/taigrr/deskscene/pkg/math3d"
	"github.com/taigrr/deskscene/pkg/models"
	"github.com/taigrr/deskscene/pkg/render"
)

// Drawer issues the draw call for a mesh using the current uniforms.
type Drawer interface {
	Draw(mesh render.MeshRenderer)
}

// TextureFile names an image loaded at scene preparation.
type TextureFile struct {
	Tag  string
	File string
}

// DefaultTextures lists the scene's textures in slot order.
func DefaultTextures() []TextureFile {
	return []TextureFile{
		{Tag: "wall", File: "wall.jpg"},
		{Tag: "lampshade", File: "tilesf2.jpg"},
		{Tag: "stone", File: "stone.jpg"},
		{Tag: "floor", File: "wood.jpg"},
	}
}

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	Device  *render.Device
	Program render.Uniforms
	// Drawer may be nil, in which case RenderScene only sets uniforms.
	Drawer  Drawer
	Library *models.Library
	Reader  render.ImageReader
	Names   render.UniformNames

	TextureDir string
	Textures   []TextureFile
	Materials  []Material
	Lighting   *Lighting
	Segments   int
	Script     []Step
}

// Manager prepares and renders the desk scene.
type Manager struct {
	device   *render.Device
	program  render.Uniforms
	drawer   Drawer
	library  *models.Library
	names    render.UniformNames
	textures *TextureRegistry
	mats     *MaterialRegistry

	textureDir   string
	textureFiles []TextureFile
	materials    []Material
	lighting     Lighting
	segments     int
	script       []Step
}

// NewManager returns a manager for opts. The program is required.
func NewManager(opts Options) (*Manager, error) {
	if opts.Program == nil {
		return nil, errors.New("scene: a shader program is required")
	}
	if opts.Device == nil {
		opts.Device = render.NewDevice()
	}
	if opts.Library == nil {
		opts.Library = models.NewLibrary()
	}
	if opts.Textures == nil {
		opts.Textures = DefaultTextures()
	}
	if opts.Materials == nil {
		opts.Materials = DefaultMaterials()
	}
	lighting := DefaultLighting()
	if opts.Lighting != nil {
		lighting = *opts.Lighting
	}
	if opts.Script == nil {
		opts.Script = Script()
	}
	return &Manager{
		device:       opts.Device,
		program:      opts.Program,
		drawer:       opts.Drawer,
		library:      opts.Library,
		names:        opts.Names.WithDefaults(),
		textures:     NewTextureRegistry(opts.Device, opts.Reader),
		mats:         NewMaterialRegistry(),
		textureDir:   opts.TextureDir,
		textureFiles: opts.Textures,
		materials:    opts.Materials,
		lighting:     lighting,
		segments:     opts.Segments,
		script:       opts.Script,
	}, nil
}

// Textures returns the texture registry.
func (m *Manager) Textures() *TextureRegistry { return m.textures }

// Materials returns the material registry.
func (m *Manager) Materials() *MaterialRegistry { return m.mats }

// Library returns the mesh library.
func (m *Manager) Library() *models.Library { return m.library }

// Lighting returns the light rig applied at preparation.
func (m *Manager) Lighting() Lighting { return m.lighting }

// Device returns the texture device.
func (m *Manager) Device() *render.Device { return m.device }

// Steps returns a copy of the render script.
func (m *Manager) Steps() []Step {
	return append([]Step(nil), m.script...)
}

// SetTransformations composes the model matrix and writes it.
func (m *Manager) SetTransformations(scale math3d.Vec3, xDeg, yDeg, zDeg float64, position math3d.Vec3) {
	m.program.SetMat4Value(m.names.Model, math3d.Compose(scale, xDeg, yDeg, zDeg, position))
}

// SetShaderColor switches texturing off and sets the solid object color.
func (m *Manager) SetShaderColor(r, g, b, a float64) {
	m.program.SetBoolValue(m.names.UseTexture, false)
	m.program.SetVec4Value(m.names.Color, math3d.V4(r, g, b, a))
}

// SetShaderTexture switches texturing on and points the sampler at the
// slot registered for tag. Unknown tags write NotFound, which samples
// nothing; the shading stage then falls back to the object color.
func (m *Manager) SetShaderTexture(tag string) {
	m.program.SetBoolValue(m.names.UseTexture, true)
	m.program.SetSampler2DValue(m.names.Texture, m.textures.FindSlot(tag))
}

// SetTextureUVScale sets the texture coordinate scale.
func (m *Manager) SetTextureUVScale(u, v float64) {
	m.program.SetVec2Value(m.names.UVScale, math3d.V2(u, v))
}

// SetShaderMaterial writes the material registered under tag; unknown tags
// leave the material uniforms unchanged.
func (m *Manager) SetShaderMaterial(tag string) {
	mat, ok := m.mats.Find(tag)
	if !ok {
		log.Debugf("material %q not found", tag)
		return
	}
	m.program.SetVec3Value(render.MaterialAmbientColor, mat.AmbientColor)
	m.program.SetFloatValue(render.MaterialAmbientStrength, mat.AmbientStrength)
	m.program.SetVec3Value(render.MaterialDiffuseColor, mat.DiffuseColor)
	m.program.SetVec3Value(render.MaterialSpecularColor, mat.SpecularColor)
	m.program.SetFloatValue(render.MaterialShininess, mat.Shininess)
}

// PrepareScene loads and binds textures, registers materials, applies the
// light rig and fills in any missing meshes. Textures that fail to load
// are logged and skipped; the returned error only reports binding.
func (m *Manager) PrepareScene() error {
	for _, tf := range m.textureFiles {
		path := tf.File
		if m.textureDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(m.textureDir, path)
		}
		if err := m.textures.Load(path, tf.Tag); err != nil {
			log.Warnf("Texture %q unavailable, continuing: %v", tf.Tag, err)
		}
	}
	bindErr := m.textures.BindAll()

	for _, mat := range m.materials {
		m.mats.Register(mat)
	}

	m.lighting.Apply(m.program, m.names)

	segments := m.segments
	if segments <= 0 {
		segments = models.DefaultSegments
	}
	fresh := models.NewLibrary()
	fresh.LoadPrimitives(segments)
	for _, k := range models.Kinds {
		if m.library.Get(k) == nil {
			m.library.Set(k, fresh.Get(k))
		}
	}

	log.Infof("Scene prepared: %d textures, %d materials, %d steps",
		m.textures.Len(), m.mats.Len(), len(m.script))
	if bindErr != nil {
		return fmt.Errorf("prepare scene: %w", bindErr)
	}
	return nil
}

// RenderScene runs the script. Each step writes its transform, then its
// color, texture, UV scale and material, and draws its mesh. Settings a
// step leaves out keep whatever the previous step wrote.
func (m *Manager) RenderScene() {
	for _, s := range m.script {
		m.applyStep(s)
		if m.drawer == nil {
			continue
		}
		mesh := m.library.Get(s.Mesh)
		if mesh == nil {
			log.Warnf("No mesh for %s %s (%s)", s.Object, s.Part, s.Mesh)
			continue
		}
		m.drawer.Draw(mesh)
	}
}

func (m *Manager) applyStep(s Step) {
	t := s.Transform
	m.SetTransformations(t.Scale, t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Position)
	if s.Color != nil {
		m.SetShaderColor(s.Color.X, s.Color.Y, s.Color.Z, s.Color.W)
	}
	if s.Texture != "" {
		m.SetShaderTexture(s.Texture)
	}
	if s.UVScale != nil {
		m.SetTextureUVScale(s.UVScale.X, s.UVScale.Y)
	}
	if s.Material != "" {
		m.SetShaderMaterial(s.Material)
	}
}

// Close releases every texture.
func (m *Manager) Close() {
	m.textures.Destroy()
}
