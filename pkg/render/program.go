package render

import (
	"fmt"
	"maps"
	"slices"

	"github.com/taigrr/deskscene/pkg/math3d"
)

// Uniforms is the uniform upload surface of a shader program.
type Uniforms interface {
	SetMat4Value(name string, m math3d.Mat4)
	SetVec2Value(name string, v math3d.Vec2)
	SetVec3Value(name string, v math3d.Vec3)
	SetVec4Value(name string, v math3d.Vec4)
	SetFloatValue(name string, f float64)
	SetIntValue(name string, i int)
	SetBoolValue(name string, b bool)
	SetSampler2DValue(name string, unit int)
}

// UniformNames holds the names of the program's top level uniforms.
type UniformNames struct {
	Model        string `toml:"model" yaml:"model"`
	View         string `toml:"view" yaml:"view"`
	Projection   string `toml:"projection" yaml:"projection"`
	ViewPosition string `toml:"view_position" yaml:"view_position"`
	Color        string `toml:"color" yaml:"color"`
	Texture      string `toml:"texture" yaml:"texture"`
	UseTexture   string `toml:"use_texture" yaml:"use_texture"`
	UseLighting  string `toml:"use_lighting" yaml:"use_lighting"`
	UVScale      string `toml:"uv_scale" yaml:"uv_scale"`
}

// DefaultUniformNames returns the names used by the scene's shaders.
func DefaultUniformNames() UniformNames {
	return UniformNames{
		Model:        "model",
		View:         "view",
		Projection:   "projection",
		ViewPosition: "viewPosition",
		Color:        "objectColor",
		Texture:      "objectTexture",
		UseTexture:   "bUseTexture",
		UseLighting:  "bUseLighting",
		UVScale:      "UVscale",
	}
}

// WithDefaults fills empty names from DefaultUniformNames.
func (n UniformNames) WithDefaults() UniformNames {
	d := DefaultUniformNames()
	fill := func(s *string, def string) {
		if *s == "" {
			*s = def
		}
	}
	fill(&n.Model, d.Model)
	fill(&n.View, d.View)
	fill(&n.Projection, d.Projection)
	fill(&n.ViewPosition, d.ViewPosition)
	fill(&n.Color, d.Color)
	fill(&n.Texture, d.Texture)
	fill(&n.UseTexture, d.UseTexture)
	fill(&n.UseLighting, d.UseLighting)
	fill(&n.UVScale, d.UVScale)
	return n
}

// Struct uniform names read by the shading stage.
const (
	MaterialAmbientColor    = "material.ambientColor"
	MaterialAmbientStrength = "material.ambientStrength"
	MaterialDiffuseColor    = "material.diffuseColor"
	MaterialSpecularColor   = "material.specularColor"
	MaterialShininess       = "material.shininess"

	AmbientLightColor = "ambientLight.color"

	DirectionalLightDirection = "directionalLight.direction"
	DirectionalLightAmbient   = "directionalLight.ambient"
	DirectionalLightDiffuse   = "directionalLight.diffuse"
	DirectionalLightSpecular  = "directionalLight.specular"
	DirectionalLightActive    = "directionalLight.bActive"
)

// MaxPointLights is the size of the pointLights uniform array.
const MaxPointLights = 4

// PointLightUniform returns the name of field for point light i.
func PointLightUniform(i int, field string) string {
	return fmt.Sprintf("pointLights[%d].%s", i, field)
}

// Program is a shader program whose uniforms are kept by name. Like a GL
// program, values persist until overwritten.
type Program struct {
	Names  UniformNames
	device *Device
	values map[string]any
}

// NewProgram creates a program that samples textures from device.
func NewProgram(device *Device, names UniformNames) *Program {
	return &Program{
		Names:  names.WithDefaults(),
		device: device,
		values: make(map[string]any),
	}
}

// Device returns the device the program samples from.
func (p *Program) Device() *Device { return p.device }

// The Set*Value methods store a typed uniform under name, replacing any
// earlier value.
func (p *Program) SetMat4Value(name string, m math3d.Mat4) { p.values[name] = m }
func (p *Program) SetVec2Value(name string, v math3d.Vec2) { p.values[name] = v }
func (p *Program) SetVec3Value(name string, v math3d.Vec3) { p.values[name] = v }
func (p *Program) SetVec4Value(name string, v math3d.Vec4) { p.values[name] = v }
func (p *Program) SetFloatValue(name string, f float64)    { p.values[name] = f }
func (p *Program) SetIntValue(name string, i int)          { p.values[name] = i }
func (p *Program) SetBoolValue(name string, b bool)        { p.values[name] = b }

// SetSampler2DValue assigns a texture unit to a sampler uniform.
func (p *Program) SetSampler2DValue(name string, unit int) { p.values[name] = sampler(unit) }

type sampler int

// Value returns the raw value of a uniform.
func (p *Program) Value(name string) (any, bool) {
	v, ok := p.values[name]
	if s, isSampler := v.(sampler); isSampler {
		return int(s), ok
	}
	return v, ok
}

// Names of every uniform set so far, sorted.
func (p *Program) Uniforms() []string {
	return slices.Sorted(maps.Keys(p.values))
}

// Reset forgets every uniform value.
func (p *Program) Reset() {
	clear(p.values)
}

func lookup[T any](p *Program, name string, def T) T {
	if v, ok := p.values[name].(T); ok {
		return v
	}
	return def
}

// The typed getters return the named uniform, or the zero value (identity
// for Mat4) when it is unset or holds another type.
func (p *Program) Mat4(name string) math3d.Mat4 { return lookup(p, name, math3d.Identity()) }
func (p *Program) Vec2(name string) math3d.Vec2 { return lookup(p, name, math3d.Vec2{}) }
func (p *Program) Vec3(name string) math3d.Vec3 { return lookup(p, name, math3d.Vec3{}) }
func (p *Program) Vec4(name string) math3d.Vec4 { return lookup(p, name, math3d.Vec4{}) }
func (p *Program) Float(name string) float64    { return lookup(p, name, 0.0) }
func (p *Program) Int(name string) int          { return lookup(p, name, 0) }
func (p *Program) Bool(name string) bool        { return lookup(p, name, false) }

// Sampler returns the unit assigned to a sampler uniform, or -1.
func (p *Program) Sampler(name string) int {
	if s, ok := p.values[name].(sampler); ok {
		return int(s)
	}
	return -1
}
