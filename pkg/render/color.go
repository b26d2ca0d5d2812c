// Package render is a small software implementation of the pieces of an
// OpenGL pipeline the scene relies on: texture objects bound to units, a
// program holding named uniforms, Phong shading and a depth-buffered
// triangle rasterizer.
package render

import (
	"github.com/taigrr/deskscene/pkg/math3d"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA returns a color with alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Common colors.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
	ColorGray  = RGB(128, 128, 128)
)

// ColorFromVec4 converts a 0..1 float color, clamping each component.
func ColorFromVec4(v math3d.Vec4) Color {
	return Color{R: unit8(v.X), G: unit8(v.Y), B: unit8(v.Z), A: unit8(v.W)}
}

// Vec4 returns the color as 0..1 floats.
func (c Color) Vec4() math3d.Vec4 {
	return math3d.V4(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func unit8(f float64) uint8 {
	return clampByte(f*255 + 0.5)
}

func clampByte(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	default:
		return uint8(f)
	}
}

// blendOver composites src over dst using src's alpha.
func blendOver(src, dst Color) Color {
	if src.A == 255 {
		return src
	}
	a := float64(src.A) / 255
	c := lerpColor(dst, src, a)
	c.A = 255
	return c
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}
