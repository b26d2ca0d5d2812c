// Package config loads deskscene settings from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/taigrr/deskscene/pkg/math3d"
	"github.com/taigrr/deskscene/pkg/models"
	"github.com/taigrr/deskscene/pkg/render"
	"github.com/taigrr/deskscene/pkg/scene"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for configuration files that are neither
// TOML nor YAML.
var ErrUnknownFormat = errors.New("unknown configuration format")

// Config holds every setting the command line tools read.
type Config struct {
	Width      int      `toml:"width" yaml:"width"`
	Height     int      `toml:"height" yaml:"height"`
	TextureDir string   `toml:"texture_dir" yaml:"texture_dir"`
	Output     string   `toml:"output" yaml:"output"`
	LogLevel   string   `toml:"log_level" yaml:"log_level"`
	Segments   int      `toml:"segments" yaml:"segments"`
	Background [3]uint8 `toml:"background" yaml:"background"`
	FPS        float64  `toml:"fps" yaml:"fps"`

	Camera   Camera              `toml:"camera" yaml:"camera"`
	Uniforms render.UniformNames `toml:"uniforms" yaml:"uniforms"`
	// Meshes maps a primitive kind to an OBJ, STL or glTF file replacing it.
	Meshes map[string]string `toml:"meshes" yaml:"meshes"`

	Textures  []Texture  `toml:"textures" yaml:"textures"`
	Materials []Material `toml:"materials" yaml:"materials"`
	Lighting  *Lighting  `toml:"lighting" yaml:"lighting"`
}

// Camera positions the view.
type Camera struct {
	Position [3]float64 `toml:"position" yaml:"position"`
	Target   [3]float64 `toml:"target" yaml:"target"`
	FOV      float64    `toml:"fov" yaml:"fov"`
	Near     float64    `toml:"near" yaml:"near"`
	Far      float64    `toml:"far" yaml:"far"`
}

// Texture names an image file and the tag it registers under.
type Texture struct {
	Tag  string `toml:"tag" yaml:"tag"`
	File string `toml:"file" yaml:"file"`
}

// Material is the file form of scene.Material.
type Material struct {
	Tag             string     `toml:"tag" yaml:"tag"`
	AmbientColor    [3]float64 `toml:"ambient_color" yaml:"ambient_color"`
	AmbientStrength float64    `toml:"ambient_strength" yaml:"ambient_strength"`
	DiffuseColor    [3]float64 `toml:"diffuse_color" yaml:"diffuse_color"`
	SpecularColor   [3]float64 `toml:"specular_color" yaml:"specular_color"`
	Shininess       float64    `toml:"shininess" yaml:"shininess"`
}

// Lighting is the file form of scene.Lighting.
type Lighting struct {
	Enabled     bool             `toml:"enabled" yaml:"enabled"`
	Ambient     [3]float64       `toml:"ambient" yaml:"ambient"`
	Directional DirectionalLight `toml:"directional" yaml:"directional"`
	Points      []PointLight     `toml:"points" yaml:"points"`
}

// DirectionalLight is the file form of the scene's directional light.
type DirectionalLight struct {
	Direction [3]float64 `toml:"direction" yaml:"direction"`
	Ambient   [3]float64 `toml:"ambient" yaml:"ambient"`
	Diffuse   [3]float64 `toml:"diffuse" yaml:"diffuse"`
	Specular  [3]float64 `toml:"specular" yaml:"specular"`
	Active    bool       `toml:"active" yaml:"active"`
}

// PointLight is the file form of one entry of scene.Lighting.Points.
type PointLight struct {
	Position  [3]float64 `toml:"position" yaml:"position"`
	Ambient   [3]float64 `toml:"ambient" yaml:"ambient"`
	Diffuse   [3]float64 `toml:"diffuse" yaml:"diffuse"`
	Specular  [3]float64 `toml:"specular" yaml:"specular"`
	Constant  float64    `toml:"constant" yaml:"constant"`
	Linear    float64    `toml:"linear" yaml:"linear"`
	Quadratic float64    `toml:"quadratic" yaml:"quadratic"`
	Active    bool       `toml:"active" yaml:"active"`
}

// Default returns the built in configuration.
func Default() Config {
	return Config{
		Width:      800,
		Height:     600,
		TextureDir: "textures",
		Output:     "deskscene.png",
		LogLevel:   "info",
		Segments:   models.DefaultSegments,
		Background: [3]uint8{25, 25, 30},
		FPS:        30,
		Camera: Camera{
			Position: [3]float64{0, 12, 22},
			Target:   [3]float64{0, 7, 0},
			FOV:      45,
			Near:     0.1,
			Far:      100,
		},
		Uniforms: render.DefaultUniformNames(),
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, or .yaml and .yml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext over the defaults.
// Unknown keys are errors.
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode toml: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	cfg.Uniforms = cfg.Uniforms.WithDefaults()
	return cfg, cfg.Validate()
}

// Validate reports settings no renderer can use.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", c.Width, c.Height))
	}
	if c.Segments != 0 && c.Segments < 3 {
		errs = append(errs, fmt.Errorf("segments must be at least 3, got %d", c.Segments))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("invalid clip planes %g..%g", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("invalid field of view %g", c.Camera.FOV))
	}
	for kind := range c.Meshes {
		if !slices.Contains(models.Kinds, models.Kind(kind)) {
			errs = append(errs, fmt.Errorf("unknown mesh kind %q", kind))
		}
	}
	for i, t := range c.Textures {
		if t.Tag == "" || t.File == "" {
			errs = append(errs, fmt.Errorf("texture %d needs a tag and a file", i))
		}
	}
	if c.Lighting != nil && len(c.Lighting.Points) > render.MaxPointLights {
		errs = append(errs, fmt.Errorf("at most %d point lights, got %d", render.MaxPointLights, len(c.Lighting.Points)))
	}
	return errors.Join(errs...)
}

func vec3(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

// NewCamera returns a camera with the configured view.
func (c Config) NewCamera() *render.Camera {
	cam := render.NewCamera()
	cam.SetPosition(vec3(c.Camera.Position))
	cam.LookAt(vec3(c.Camera.Target))
	cam.SetFOV(c.Camera.FOV)
	cam.SetClipPlanes(c.Camera.Near, c.Camera.Far)
	cam.SetAspectRatio(float64(c.Width) / float64(c.Height))
	return cam
}

// MeshOverrides returns the configured mesh files keyed by kind.
func (c Config) MeshOverrides() map[models.Kind]string {
	if len(c.Meshes) == 0 {
		return nil
	}
	out := make(map[models.Kind]string, len(c.Meshes))
	for kind, path := range c.Meshes {
		out[models.Kind(kind)] = path
	}
	return out
}

// SceneOptions converts the scene settings. Lists left empty keep the
// scene defaults.
func (c Config) SceneOptions() scene.Options {
	opts := scene.Options{
		Names:      c.Uniforms,
		TextureDir: c.TextureDir,
		Segments:   c.Segments,
	}
	for _, t := range c.Textures {
		opts.Textures = append(opts.Textures, scene.TextureFile{Tag: t.Tag, File: t.File})
	}
	for _, m := range c.Materials {
		opts.Materials = append(opts.Materials, scene.Material{
			Tag:             m.Tag,
			AmbientColor:    vec3(m.AmbientColor),
			AmbientStrength: m.AmbientStrength,
			DiffuseColor:    vec3(m.DiffuseColor),
			SpecularColor:   vec3(m.SpecularColor),
			Shininess:       m.Shininess,
		})
	}
	if c.Lighting != nil {
		l := c.Lighting.toScene()
		opts.Lighting = &l
	}
	return opts
}

func (l Lighting) toScene() scene.Lighting {
	d := l.Directional
	out := scene.Lighting{
		Enabled:      l.Enabled,
		AmbientColor: vec3(l.Ambient),
		Directional: scene.DirectionalLight{
			Direction: vec3(d.Direction),
			Ambient:   vec3(d.Ambient),
			Diffuse:   vec3(d.Diffuse),
			Specular:  vec3(d.Specular),
			Active:    d.Active,
		},
	}
	for _, p := range l.Points {
		out.Points = append(out.Points, scene.PointLight{
			Position:  vec3(p.Position),
			Ambient:   vec3(p.Ambient),
			Diffuse:   vec3(p.Diffuse),
			Specular:  vec3(p.Specular),
			Constant:  p.Constant,
			Linear:    p.Linear,
			Quadratic: p.Quadratic,
			Active:    p.Active,
		})
	}
	return out
}

// RendererOptions converts the settings for scene.NewRenderer.
func (c Config) RendererOptions() scene.RendererOptions {
	return scene.RendererOptions{
		Width:      c.Width,
		Height:     c.Height,
		Background: render.RGB(c.Background[0], c.Background[1], c.Background[2]),
		Camera:     c.NewCamera(),
		Meshes:     c.MeshOverrides(),
		Scene:      c.SceneOptions(),
	}
}
