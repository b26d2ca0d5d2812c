package scene

import (
	"fortio.org/log"
	"github.com/taigrr/deskscene/pkg/math3d"
	"github.com/taigrr/deskscene/pkg/render"
)

// DirectionalLight is a light infinitely far away, shining along Direction.
type DirectionalLight struct {
	Direction math3d.Vec3
	Ambient   math3d.Vec3
	Diffuse   math3d.Vec3
	Specular  math3d.Vec3
	Active    bool
}

// PointLight is a positional light with distance attenuation
// 1 / (Constant + Linear*d + Quadratic*d*d).
type PointLight struct {
	Position  math3d.Vec3
	Ambient   math3d.Vec3
	Diffuse   math3d.Vec3
	Specular  math3d.Vec3
	Constant  float64
	Linear    float64
	Quadratic float64
	Active    bool
}

// Lighting is the scene's light rig.
type Lighting struct {
	Enabled      bool
	AmbientColor math3d.Vec3
	Directional  DirectionalLight
	Points       []PointLight
}

// DefaultLighting returns a soft sun, a light inside the lamp shade and a
// dim fill light under the table top.
func DefaultLighting() Lighting {
	return Lighting{
		Enabled:      true,
		AmbientColor: gray(0.3),
		Directional: DirectionalLight{
			Direction: math3d.V3(-0.2, -1, -0.3),
			Ambient:   gray(0.3),
			Diffuse:   gray(0.6),
			Specular:  gray(0.5),
			Active:    true,
		},
		Points: []PointLight{
			{
				Position:  math3d.V3(4, 12.65, -2),
				Ambient:   gray(0.2),
				Diffuse:   gray(0.5),
				Specular:  gray(0.8),
				Constant:  1,
				Linear:    0.09,
				Quadratic: 0.032,
				Active:    true,
			},
			{
				Position:  math3d.V3(0.5, 1, 0),
				Ambient:   gray(0.1),
				Diffuse:   gray(0.4),
				Specular:  gray(0.5),
				Constant:  1,
				Linear:    0.09,
				Quadratic: 0.032,
				Active:    true,
			},
		},
	}
}

// Apply writes the light rig to the program. Point light slots beyond
// len(Points) are switched off.
func (l Lighting) Apply(p render.Uniforms, names render.UniformNames) {
	names = names.WithDefaults()
	p.SetBoolValue(names.UseLighting, l.Enabled)
	p.SetVec3Value(render.AmbientLightColor, l.AmbientColor)

	d := l.Directional
	p.SetVec3Value(render.DirectionalLightDirection, d.Direction)
	p.SetVec3Value(render.DirectionalLightAmbient, d.Ambient)
	p.SetVec3Value(render.DirectionalLightDiffuse, d.Diffuse)
	p.SetVec3Value(render.DirectionalLightSpecular, d.Specular)
	p.SetBoolValue(render.DirectionalLightActive, d.Active)

	if len(l.Points) > render.MaxPointLights {
		log.Warnf("Only %d of %d point lights are used", render.MaxPointLights, len(l.Points))
	}
	for i := range render.MaxPointLights {
		if i >= len(l.Points) {
			p.SetBoolValue(render.PointLightUniform(i, "bActive"), false)
			continue
		}
		pl := l.Points[i]
		p.SetVec3Value(render.PointLightUniform(i, "position"), pl.Position)
		p.SetVec3Value(render.PointLightUniform(i, "ambient"), pl.Ambient)
		p.SetVec3Value(render.PointLightUniform(i, "diffuse"), pl.Diffuse)
		p.SetVec3Value(render.PointLightUniform(i, "specular"), pl.Specular)
		p.SetFloatValue(render.PointLightUniform(i, "constant"), pl.Constant)
		p.SetFloatValue(render.PointLightUniform(i, "linear"), pl.Linear)
		p.SetFloatValue(render.PointLightUniform(i, "quadratic"), pl.Quadratic)
		p.SetBoolValue(render.PointLightUniform(i, "bActive"), pl.Active)
	}
}
