package scene

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/deskscene/pkg/models"
	"github.com/taigrr/deskscene/pkg/render"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(RendererOptions{
		Width:      64,
		Height:     48,
		Background: render.ColorBlack,
		Scene:      Options{Reader: fakeReader(allTextures()), Segments: 8},
	})
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func litPixels(fb *render.Framebuffer, bg render.Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p != bg {
			n++
		}
	}
	return n
}

func TestNewRendererInvalidSize(t *testing.T) {
	_, err := NewRenderer(RendererOptions{Width: 0, Height: 10})
	assert.Error(t, err)
}

func TestNewRendererBadMesh(t *testing.T) {
	_, err := NewRenderer(RendererOptions{
		Width: 8, Height: 8,
		Meshes: map[models.Kind]string{models.Box: filepath.Join(t.TempDir(), "book.ply")},
	})
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
}

func TestRendererFrame(t *testing.T) {
	r := newTestRenderer(t)
	fb := r.Frame()
	require.Equal(t, 64, fb.Width)
	assert.Greater(t, litPixels(fb, render.ColorBlack), len(fb.Pixels)/4)
	assert.Greater(t, r.Raster.Triangles, 0)

	r.Resize(32, 16)
	fb = r.Frame()
	assert.Equal(t, 32*16, len(fb.Pixels))
	assert.InDelta(t, 2.0, r.Camera.Aspect, 1e-9)
	assert.Positive(t, litPixels(fb, render.ColorBlack))
}

func TestRendererWireframe(t *testing.T) {
	r := newTestRenderer(t)
	r.Wireframe = true
	r.ShowBounds = true
	fb := r.Frame()
	assert.Positive(t, litPixels(fb, render.ColorBlack))
}

func TestExport(t *testing.T) {
	r := newTestRenderer(t)
	doc, err := Export(r.Manager)
	require.NoError(t, err)

	require.Len(t, doc.Nodes, 17)
	assert.Len(t, doc.Scenes[0].Nodes, 17)
	assert.Equal(t, "AirFreshener body", doc.Nodes[0].Name)
	assert.Equal(t, "Table leg", doc.Nodes[16].Name)
	assert.Equal(t, [16]float64(Script()[1].Transform.Matrix()), doc.Nodes[1].Matrix)

	// wall, floor, stone and lampshade; the book reuses the wall image.
	assert.Len(t, doc.Textures, 4)
	assert.Len(t, doc.Images, 4)
	for _, n := range doc.Nodes {
		require.NotNil(t, n.Mesh)
		mesh := doc.Meshes[*n.Mesh]
		require.NotNil(t, mesh.Primitives[0].Material)
	}
}

func TestExportRequiresPreparedScene(t *testing.T) {
	m, err := NewManager(Options{Program: render.NewProgram(nil, render.UniformNames{})})
	require.NoError(t, err)
	_, err = Export(m)
	assert.Error(t, err)
}

func TestSaveGLTFBinaryRoundTrip(t *testing.T) {
	r := newTestRenderer(t)
	path := filepath.Join(t.TempDir(), "desk.glb")
	require.NoError(t, SaveGLTF(r.Manager, path))

	doc, err := gltf.Open(path)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 17)
	assert.Len(t, doc.Textures, 4)

	mesh, err := models.MeshFromDocument(doc, "desk")
	require.NoError(t, err)
	assert.Positive(t, mesh.TriangleCount())
}
