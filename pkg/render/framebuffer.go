package render

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
)

// Framebuffer is a color buffer with a matching depth buffer.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color
	Depth  []float64
}

// NewFramebuffer allocates a cleared framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates the buffers; contents are cleared.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width = max(width, 0)
	fb.Height = max(height, 0)
	fb.Pixels = make([]Color, fb.Width*fb.Height)
	fb.Depth = make([]float64, fb.Width*fb.Height)
	fb.ClearDepth()
}

// Clear fills the color buffer and resets depth.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
	fb.ClearDepth()
}

// ClearDepth resets every depth value to the far plane.
func (fb *Framebuffer) ClearDepth() {
	for i := range fb.Depth {
		fb.Depth[i] = math.Inf(1)
	}
}

// SetPixel writes a color without depth testing.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthTest stores z and reports true if it is nearer than the stored depth.
func (fb *Framebuffer) DepthTest(x, y int, z float64) bool {
	i := y*fb.Width + x
	if z >= fb.Depth[i] {
		return false
	}
	fb.Depth[i] = z
	return true
}

// ToImage converts the color buffer to an image.
func (fb *Framebuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.Pixels {
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = 255
	}
	return img
}

// SavePNG writes the color buffer to path.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
