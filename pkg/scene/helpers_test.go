package scene

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/taigrr/deskscene/pkg/math3d"
	"github.com/taigrr/deskscene/pkg/render"
)

// fakeReader serves solid images by file name. Names missing from the map
// fail to decode.
func fakeReader(channels map[string]int) render.ImageReader {
	return render.ImageReaderFunc(func(path string) (*render.Image, error) {
		ch, ok := channels[filepath.Base(path)]
		if !ok {
			return nil, fmt.Errorf("open %s: no such file", path)
		}
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for y := range 4 {
			for x := range 4 {
				img.SetNRGBA(x, y, color.NRGBA{R: uint8(60 * x), G: uint8(60 * y), B: 90, A: 255})
			}
		}
		return &render.Image{Width: 4, Height: 4, Channels: ch, Pixels: img}, nil
	})
}

func allTextures() map[string]int {
	return map[string]int{"wall.jpg": 3, "tilesf2.jpg": 3, "stone.jpg": 3, "wood.jpg": 4}
}

// countingDrawer records the program state at each draw.
type countingDrawer struct {
	prog  *render.Program
	draws []drawSnapshot
}

type drawSnapshot struct {
	textured bool
	slot     int
	uvScale  any
	diffuse  any
}

func (d *countingDrawer) Draw(render.MeshRenderer) {
	n := d.prog.Names
	uv, _ := d.prog.Value(n.UVScale)
	diffuse, _ := d.prog.Value(render.MaterialDiffuseColor)
	d.draws = append(d.draws, drawSnapshot{
		textured: d.prog.Bool(n.UseTexture),
		slot:     d.prog.Sampler(n.Texture),
		uvScale:  uv,
		diffuse:  diffuse,
	})
}

// uniformLog is a bare render.Uniforms that records the last value per name.
type uniformLog map[string]any

func (u uniformLog) SetMat4Value(name string, m math3d.Mat4) { u[name] = m }
func (u uniformLog) SetVec2Value(name string, v math3d.Vec2) { u[name] = v }
func (u uniformLog) SetVec3Value(name string, v math3d.Vec3) { u[name] = v }
func (u uniformLog) SetVec4Value(name string, v math3d.Vec4) { u[name] = v }
func (u uniformLog) SetFloatValue(name string, f float64)    { u[name] = f }
func (u uniformLog) SetIntValue(name string, i int)          { u[name] = i }
func (u uniformLog) SetBoolValue(name string, b bool)        { u[name] = b }
func (u uniformLog) SetSampler2DValue(name string, unit int) { u[name] = unit }
