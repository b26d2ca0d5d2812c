package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/deskscene/pkg/math3d"
	"github.com/taigrr/deskscene/pkg/models"
	"github.com/taigrr/deskscene/pkg/render"
)

func newTestManager(t *testing.T, files map[string]int) (*Manager, *render.Program, *countingDrawer) {
	t.Helper()
	dev := render.NewDevice()
	prog := render.NewProgram(dev, render.UniformNames{})
	drawer := &countingDrawer{prog: prog}
	m, err := NewManager(Options{
		Device:   dev,
		Program:  prog,
		Drawer:   drawer,
		Reader:   fakeReader(files),
		Segments: 8,
	})
	require.NoError(t, err)
	return m, prog, drawer
}

func TestNewManagerRequiresProgram(t *testing.T) {
	_, err := NewManager(Options{})
	assert.Error(t, err)
}

func TestSetTransformations(t *testing.T) {
	m, prog, _ := newTestManager(t, nil)
	scale, pos := math3d.V3(1, 2, 3), math3d.V3(-1, 0, 4)
	m.SetTransformations(scale, 10, 20, 30, pos)
	assert.Equal(t, math3d.Compose(scale, 10, 20, 30, pos), prog.Mat4("model"))
}

func TestSetShaderColorAndTexture(t *testing.T) {
	m, prog, _ := newTestManager(t, allTextures())
	require.NoError(t, m.PrepareScene())

	m.SetShaderColor(0.1, 0.2, 0.3, 1)
	assert.False(t, prog.Bool("bUseTexture"))
	assert.Equal(t, math3d.V4(0.1, 0.2, 0.3, 1), prog.Vec4("objectColor"))

	m.SetShaderTexture("floor")
	assert.True(t, prog.Bool("bUseTexture"))
	assert.Equal(t, 3, prog.Sampler("objectTexture"))

	m.SetShaderTexture("marble")
	assert.True(t, prog.Bool("bUseTexture"))
	v, ok := prog.Value("objectTexture")
	require.True(t, ok, "unknown tags still write the sampler")
	assert.Equal(t, NotFound, v)

	m.SetTextureUVScale(2, 3)
	assert.Equal(t, math3d.V2(2, 3), prog.Vec2("UVscale"))
}

func TestSetShaderMaterialMiss(t *testing.T) {
	m, prog, _ := newTestManager(t, nil)
	for _, mat := range DefaultMaterials() {
		m.Materials().Register(mat)
	}
	m.SetShaderMaterial("metal")
	metal, _ := m.Materials().Find("metal")
	assert.Equal(t, metal.DiffuseColor, prog.Vec3(render.MaterialDiffuseColor))
	assert.Equal(t, metal.AmbientStrength, prog.Float(render.MaterialAmbientStrength))

	m.SetShaderMaterial("chrome")
	assert.Equal(t, metal.DiffuseColor, prog.Vec3(render.MaterialDiffuseColor))
	assert.Equal(t, 128.0, prog.Float(render.MaterialShininess))
}

func TestLightingApply(t *testing.T) {
	prog := render.NewProgram(nil, render.UniformNames{})
	DefaultLighting().Apply(prog, render.UniformNames{})

	assert.True(t, prog.Bool("bUseLighting"))
	assert.Equal(t, math3d.V3(0.3, 0.3, 0.3), prog.Vec3(render.AmbientLightColor))
	assert.True(t, prog.Bool(render.DirectionalLightActive))
	assert.Equal(t, math3d.V3(-0.2, -1, -0.3), prog.Vec3(render.DirectionalLightDirection))
	assert.Equal(t, math3d.V3(4, 12.65, -2), prog.Vec3(render.PointLightUniform(0, "position")))
	assert.Equal(t, 0.032, prog.Float(render.PointLightUniform(1, "quadratic")))
	assert.True(t, prog.Bool(render.PointLightUniform(1, "bActive")))

	for i := 2; i < render.MaxPointLights; i++ {
		v, ok := prog.Value(render.PointLightUniform(i, "bActive"))
		require.True(t, ok)
		assert.Equal(t, false, v)
	}
}

func TestLightingApplyCapsPointLights(t *testing.T) {
	l := DefaultLighting()
	l.Points = nil
	for i := range render.MaxPointLights + 2 {
		l.Points = append(l.Points, PointLight{Position: math3d.V3(float64(i), 0, 0), Active: true})
	}
	prog := render.NewProgram(nil, render.UniformNames{})
	l.Apply(prog, render.UniformNames{})

	last := render.MaxPointLights - 1
	assert.Equal(t, math3d.V3(float64(last), 0, 0), prog.Vec3(render.PointLightUniform(last, "position")))
	_, ok := prog.Value(render.PointLightUniform(render.MaxPointLights, "position"))
	assert.False(t, ok)
}

func TestPrepareSceneMissingTextures(t *testing.T) {
	m, prog, _ := newTestManager(t, map[string]int{"wall.jpg": 3})
	require.NoError(t, m.PrepareScene())

	assert.Equal(t, 1, m.Textures().Len())
	assert.Equal(t, 8, m.Materials().Len())
	for _, k := range models.Kinds {
		assert.NotNil(t, m.Library().Get(k), "kind %s", k)
	}
	m.SetShaderTexture("floor")
	assert.Equal(t, NotFound, prog.Sampler("objectTexture"))
}

func TestPrepareSceneKeepsLoadedMeshes(t *testing.T) {
	lib := models.NewLibrary()
	custom := models.NewMesh("custom")
	lib.Set(models.Box, custom)
	m, err := NewManager(Options{Program: render.NewProgram(nil, render.UniformNames{}), Library: lib, Reader: fakeReader(nil)})
	require.NoError(t, err)
	require.NoError(t, m.PrepareScene())
	assert.Same(t, custom, m.Library().Get(models.Box))
	assert.Equal(t, len(models.Kinds), m.Library().Len())
}

func TestRenderSceneUniformCarryOver(t *testing.T) {
	m, _, drawer := newTestManager(t, allTextures())
	require.NoError(t, m.PrepareScene())
	m.RenderScene()
	require.Len(t, drawer.draws, 17)

	air, backdrop, book, floor := drawer.draws[0], drawer.draws[1], drawer.draws[2], drawer.draws[3]
	assert.False(t, air.textured)
	assert.True(t, backdrop.textured)
	assert.Equal(t, m.Textures().FindSlot("wall"), backdrop.slot)

	// The book sets only its material; texture and UV scale come from the
	// backdrop.
	assert.True(t, book.textured)
	assert.Equal(t, m.Textures().FindSlot("wall"), book.slot)
	assert.Equal(t, math3d.V2(4, 4), book.uvScale)
	bookCover, _ := m.Materials().Find("bookCover")
	assert.Equal(t, bookCover.DiffuseColor, book.diffuse)

	assert.Equal(t, m.Textures().FindSlot("floor"), floor.slot)
	assert.Equal(t, math3d.V2(1, 1), floor.uvScale)

	lampBase := drawer.draws[5]
	assert.Equal(t, m.Textures().FindSlot("stone"), lampBase.slot)
	assert.Equal(t, math3d.V2(1, 1), lampBase.uvScale)
	assert.Equal(t, m.Textures().FindSlot("lampshade"), drawer.draws[11].slot)

	for _, d := range drawer.draws[12:] {
		assert.False(t, d.textured)
	}
}

func TestRenderSceneWithoutDrawer(t *testing.T) {
	prog := render.NewProgram(nil, render.UniformNames{})
	m, err := NewManager(Options{Program: prog, Reader: fakeReader(nil)})
	require.NoError(t, err)
	m.RenderScene()

	last := Script()[16].Transform.Matrix()
	assert.Equal(t, last, prog.Mat4("model"))
}

func TestManagerAcceptsAnyUniforms(t *testing.T) {
	u := uniformLog{}
	m, err := NewManager(Options{Program: u, Reader: fakeReader(allTextures())})
	require.NoError(t, err)
	require.NoError(t, m.PrepareScene())
	m.RenderScene()

	assert.Equal(t, true, u["bUseLighting"])
	assert.Equal(t, math3d.V3(-0.2, -1, -0.3), u[render.DirectionalLightDirection])
	assert.Equal(t, Script()[16].Transform.Matrix(), u["model"])
	assert.Equal(t, 32.0, u[render.MaterialShininess], "last step uses the table material")
}

func TestManagerClose(t *testing.T) {
	m, _, _ := newTestManager(t, allTextures())
	require.NoError(t, m.PrepareScene())
	require.Equal(t, 4, m.Device().LiveTextures())
	m.Close()
	assert.Equal(t, 0, m.Device().LiveTextures())
}
