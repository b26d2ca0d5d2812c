package render

import (
	"testing"

	"github.com/taigrr/deskscene/pkg/math3d"
)

func TestProgramUniformStore(t *testing.T) {
	p := NewProgram(nil, UniformNames{Model: "uModel"})
	if p.Names.Model != "uModel" || p.Names.Color != "objectColor" {
		t.Fatalf("names not defaulted: %+v", p.Names)
	}

	m := math3d.Translate(math3d.V3(1, 2, 3))
	p.SetMat4Value("uModel", m)
	p.SetVec2Value("UVscale", math3d.V2(4, 4))
	p.SetFloatValue("material.shininess", 32)
	p.SetBoolValue("bUseTexture", true)
	p.SetSampler2DValue("objectTexture", -1)
	p.SetIntValue("count", 7)

	if p.Mat4("uModel") != m {
		t.Error("Mat4 round trip failed")
	}
	if p.Mat4("missing") != math3d.Identity() {
		t.Error("unset Mat4 should read as identity")
	}
	if p.Vec2("UVscale") != math3d.V2(4, 4) {
		t.Error("Vec2 round trip failed")
	}
	if p.Float("material.shininess") != 32 || !p.Bool("bUseTexture") || p.Int("count") != 7 {
		t.Error("scalar round trip failed")
	}
	if p.Sampler("objectTexture") != -1 {
		t.Errorf("Sampler = %d, want -1", p.Sampler("objectTexture"))
	}
	if v, ok := p.Value("objectTexture"); !ok || v != -1 {
		t.Errorf("Value(objectTexture) = %v, %v", v, ok)
	}
	if got := len(p.Uniforms()); got != 6 {
		t.Errorf("Uniforms() has %d names, want 6", got)
	}
	p.SetIntValue("uModel", 3)
	if p.Mat4("uModel") != math3d.Identity() || p.Int("uModel") != 3 {
		t.Error("a getter of another type should read the default")
	}
	p.Reset()
	if len(p.Uniforms()) != 0 {
		t.Error("Reset should clear uniforms")
	}
}

func TestPointLightUniform(t *testing.T) {
	if got := PointLightUniform(1, "position"); got != "pointLights[1].position" {
		t.Errorf("PointLightUniform = %q", got)
	}
}

func texturedProgram(t *testing.T) (*Program, *Device) {
	t.Helper()
	d := NewDevice()
	h := d.GenTexture()
	if err := d.Upload(h, solidImage(2, 2, 3)); err != nil {
		t.Fatal(err)
	}
	if err := d.ActiveTexture(0); err != nil {
		t.Fatal(err)
	}
	if err := d.BindTexture(h); err != nil {
		t.Fatal(err)
	}
	return NewProgram(d, DefaultUniformNames()), d
}

func TestBaseColorTextureFallback(t *testing.T) {
	p, _ := texturedProgram(t)
	red := math3d.V4(1, 0, 0, 1)
	p.SetVec4Value("objectColor", red)

	if got := p.BaseColor(Fragment{}); got != red {
		t.Errorf("untextured base = %v, want objectColor", got)
	}

	p.SetBoolValue("bUseTexture", true)
	p.SetSampler2DValue("objectTexture", 0)
	if got := ColorFromVec4(p.BaseColor(Fragment{UV: math3d.V2(0.5, 0.5)})); got != RGB(200, 200, 200) {
		t.Errorf("textured base = %v, want texture color", got)
	}

	for _, unit := range []int{-1, 3, MaxTextureUnits} {
		p.SetSampler2DValue("objectTexture", unit)
		if got := p.BaseColor(Fragment{}); got != red {
			t.Errorf("unit %d: base = %v, want objectColor fallback", unit, got)
		}
	}
}

func TestShadeLighting(t *testing.T) {
	up := math3d.V3(0, 1, 0)
	white := math3d.V3(1, 1, 1)
	tests := []struct {
		name  string
		setup func(p *Program)
		want  uint8
	}{
		{"unlit", func(p *Program) {}, 255},
		{"ambient only", func(p *Program) {
			p.SetBoolValue("bUseLighting", true)
			p.SetVec3Value(AmbientLightColor, white)
			p.SetVec3Value(MaterialAmbientColor, math3d.V3(0.5, 0.5, 0.5))
			p.SetFloatValue(MaterialAmbientStrength, 1)
		}, 128},
		{"directional overhead", func(p *Program) {
			p.SetBoolValue("bUseLighting", true)
			p.SetVec3Value(MaterialDiffuseColor, white)
			p.SetVec3Value(DirectionalLightDirection, math3d.V3(0, -1, 0))
			p.SetVec3Value(DirectionalLightDiffuse, white)
			p.SetBoolValue(DirectionalLightActive, true)
		}, 255},
		{"directional inactive", func(p *Program) {
			p.SetBoolValue("bUseLighting", true)
			p.SetVec3Value(MaterialDiffuseColor, white)
			p.SetVec3Value(DirectionalLightDirection, math3d.V3(0, -1, 0))
			p.SetVec3Value(DirectionalLightDiffuse, white)
		}, 0},
		{"point attenuated", func(p *Program) {
			p.SetBoolValue("bUseLighting", true)
			p.SetVec3Value(MaterialDiffuseColor, white)
			p.SetVec3Value(PointLightUniform(0, "position"), math3d.V3(0, 2, 0))
			p.SetVec3Value(PointLightUniform(0, "diffuse"), white)
			p.SetFloatValue(PointLightUniform(0, "constant"), 1)
			p.SetFloatValue(PointLightUniform(0, "quadratic"), 0.25)
			p.SetBoolValue(PointLightUniform(0, "bActive"), true)
		}, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgram(nil, DefaultUniformNames())
			p.SetVec4Value("objectColor", math3d.V4(1, 1, 1, 1))
			p.SetVec3Value("viewPosition", math3d.V3(0, 5, 5))
			tt.setup(p)
			got := p.Shade(Fragment{Normal: up})
			if got.R != tt.want || got.G != tt.want || got.B != tt.want {
				t.Errorf("Shade() = %v, want gray %d", got, tt.want)
			}
		})
	}
}
