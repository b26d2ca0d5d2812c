package render

import (
	"math"

	"github.com/taigrr/deskscene/pkg/math3d"
)

// Fragment carries the interpolated inputs of the fragment stage.
type Fragment struct {
	Position math3d.Vec3 // world space
	Normal   math3d.Vec3 // world space, normalized
	UV       math3d.Vec2
	// Footprint is the area of texture space (in 0..1 units, before UV
	// scaling) covered by one pixel. Zero selects the base mip level.
	Footprint float64
}

// BaseColor returns the unlit surface color: the texture bound to the unit
// named by the texture sampler when texturing is on, objectColor otherwise.
// A sampler that names no bound texture falls back to objectColor.
func (p *Program) BaseColor(f Fragment) math3d.Vec4 {
	color := math3d.V4(1, 1, 1, 1)
	if v, ok := p.values[p.Names.Color].(math3d.Vec4); ok {
		color = v
	}
	if !p.Bool(p.Names.UseTexture) || p.device == nil {
		return color
	}
	tex := p.device.BoundTexture(p.Sampler(p.Names.Texture))
	if tex == nil {
		return color
	}
	scale := math3d.V2(1, 1)
	if v, ok := p.values[p.Names.UVScale].(math3d.Vec2); ok {
		scale = v
	}
	uv := f.UV.Mul(scale)
	lod := 0.0
	if f.Footprint > 0 {
		texels := f.Footprint * math.Abs(scale.X*scale.Y) * float64(tex.Width*tex.Height)
		if texels > 1 {
			lod = 0.5 * math.Log2(texels)
		}
	}
	return tex.SampleLOD(uv.X, uv.Y, lod).Vec4()
}

// Shade runs the fragment stage: base color lit by the ambient light, the
// directional light and every active point light using the Phong model.
func (p *Program) Shade(f Fragment) Color {
	base := p.BaseColor(f)
	if !p.Bool(p.Names.UseLighting) {
		return ColorFromVec4(base)
	}

	matAmbient := p.Vec3(MaterialAmbientColor)
	matDiffuse := p.Vec3(MaterialDiffuseColor)
	matSpecular := p.Vec3(MaterialSpecularColor)
	shininess := p.Float(MaterialShininess)

	n := f.Normal
	viewDir := p.Vec3(p.Names.ViewPosition).Sub(f.Position).Normalize()

	light := p.Vec3(AmbientLightColor).Mul(matAmbient).Scale(p.Float(MaterialAmbientStrength))
	var specular math3d.Vec3

	phong := func(lightDir, ambient, diffuse, spec math3d.Vec3, atten float64) {
		diff := max(n.Dot(lightDir), 0)
		reflectDir := lightDir.Negate().Reflect(n)
		s := 0.0
		if diff > 0 {
			s = math.Pow(max(viewDir.Dot(reflectDir), 0), max(shininess, 1))
		}
		light = light.Add(ambient.Mul(matAmbient).Add(diffuse.Mul(matDiffuse).Scale(diff)).Scale(atten))
		specular = specular.Add(spec.Mul(matSpecular).Scale(s * atten))
	}

	if p.Bool(DirectionalLightActive) {
		phong(p.Vec3(DirectionalLightDirection).Negate().Normalize(),
			p.Vec3(DirectionalLightAmbient),
			p.Vec3(DirectionalLightDiffuse),
			p.Vec3(DirectionalLightSpecular), 1)
	}

	for i := range MaxPointLights {
		if !p.Bool(PointLightUniform(i, "bActive")) {
			continue
		}
		toLight := p.Vec3(PointLightUniform(i, "position")).Sub(f.Position)
		d := toLight.Len()
		atten := 1 / max(p.Float(PointLightUniform(i, "constant"))+
			p.Float(PointLightUniform(i, "linear"))*d+
			p.Float(PointLightUniform(i, "quadratic"))*d*d, 1e-6)
		phong(toLight.Normalize(),
			p.Vec3(PointLightUniform(i, "ambient")),
			p.Vec3(PointLightUniform(i, "diffuse")),
			p.Vec3(PointLightUniform(i, "specular")), atten)
	}

	rgb := light.Mul(base.Vec3()).Add(specular)
	return ColorFromVec4(math3d.V4FromV3(rgb, base.W))
}
