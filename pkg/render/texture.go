package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// WrapMode controls texture coordinate wrapping.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// FilterMode controls texture filtering.
type FilterMode int

const (
	FilterLinear FilterMode = iota
	FilterNearest
)

// Format is the internal storage format picked at upload time.
type Format int

const (
	FormatRGBA8 Format = iota
	FormatRGB8
)

func (f Format) String() string {
	if f == FormatRGB8 {
		return "RGB8"
	}
	return "RGBA8"
}

// Texture is a 2D image with sampling state. Row 0 is the top of the
// image; texture coordinate v = 0 addresses the bottom row.
type Texture struct {
	Width  int
	Height int
	Pixels []Color
	Format Format

	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode

	// Mips holds successively halved levels, excluding level 0.
	Mips []*Texture
}

// NewTexture creates a blank texture with repeat wrapping and linear
// filtering.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// TextureFromImage copies img into a new texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	tex := NewTexture(b.Dx(), b.Dy())
	for y := range tex.Height {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := range tex.Width {
			p := row[x*4 : x*4+4]
			tex.Pixels[y*tex.Width+x] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
	return tex
}

// ToImage converts the texture's base level to an image.
func (t *Texture) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for i, c := range t.Pixels {
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}
	return img
}

// GetPixel returns the pixel at (x, y), or transparent black outside.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// SetPixel sets the pixel at (x, y).
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GenerateMipmaps rebuilds the mip chain down to 1x1.
func (t *Texture) GenerateMipmaps() {
	t.Mips = t.Mips[:0]
	src := t.ToImage()
	w, h := t.Width, t.Height
	for w > 1 || h > 1 {
		w, h = max(w/2, 1), max(h/2, 1)
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		level := TextureFromImage(dst)
		level.Format = t.Format
		level.WrapU, level.WrapV, level.FilterMode = t.WrapU, t.WrapV, t.FilterMode
		t.Mips = append(t.Mips, level)
		src = dst
	}
}

// Levels returns the number of mip levels including the base.
func (t *Texture) Levels() int {
	return 1 + len(t.Mips)
}

// Level returns mip level i, clamped to the available range.
func (t *Texture) Level(i int) *Texture {
	if i <= 0 || len(t.Mips) == 0 {
		return t
	}
	return t.Mips[min(i, len(t.Mips))-1]
}

// Sample samples the base level at (u, v).
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	// Flip V so v=0 is the bottom of the image.
	v = 1 - v
	if t.FilterMode == FilterNearest {
		x := wrapIndex(int(math.Floor(u*float64(t.Width))), t.Width, t.WrapU)
		y := wrapIndex(int(math.Floor(v*float64(t.Height))), t.Height, t.WrapV)
		return t.Pixels[y*t.Width+x]
	}
	return t.sampleBilinear(u, v)
}

// SampleLOD samples the mip level selected by lod (log2 of the texel to
// pixel footprint ratio).
func (t *Texture) SampleLOD(u, v, lod float64) Color {
	if lod <= 0 || len(t.Mips) == 0 {
		return t.Sample(u, v)
	}
	return t.Level(int(lod + 0.5)).Sample(u, v)
}

func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0f, y0f := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0f, fy-y0f

	x0 := wrapIndex(int(x0f), t.Width, t.WrapU)
	x1 := wrapIndex(int(x0f)+1, t.Width, t.WrapU)
	y0 := wrapIndex(int(y0f), t.Height, t.WrapV)
	y1 := wrapIndex(int(y0f)+1, t.Height, t.WrapV)

	top := lerpColor(t.Pixels[y0*t.Width+x0], t.Pixels[y0*t.Width+x1], tx)
	bottom := lerpColor(t.Pixels[y1*t.Width+x0], t.Pixels[y1*t.Width+x1], tx)
	return lerpColor(top, bottom, ty)
}

func wrapIndex(i, n int, mode WrapMode) int {
	if mode == WrapClamp {
		return min(max(i, 0), n-1)
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
