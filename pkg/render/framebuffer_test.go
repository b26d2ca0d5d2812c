package render

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferSavePNG(t *testing.T) {
	// Create a small framebuffer with a gradient
	fb := NewFramebuffer(100, 100)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			fb.SetPixel(x, y, RGB(uint8(x*2), uint8(y*2), 128))
		}
	}

	// Save to temp file
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.png")

	err := fb.SavePNG(path)
	if err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	// Verify file exists and has content
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("File not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("File is empty")
	}
}

func TestFramebufferToImage(t *testing.T) {
	fb := NewFramebuffer(50, 50)
	fb.SetPixel(10, 20, ColorRed)
	fb.SetPixel(30, 40, ColorGreen)

	img := fb.ToImage()

	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 50 {
		t.Errorf("Image dimensions wrong: got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Check specific pixels
	r, g, b, a := img.At(10, 20).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("Red pixel wrong: got %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}

	r, g, b, a = img.At(30, 40).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("Green pixel wrong: got %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestFramebufferDepthAndResize(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	if !fb.DepthTest(1, 1, 0.5) {
		t.Error("first depth write should pass")
	}
	if fb.DepthTest(1, 1, 0.7) {
		t.Error("farther fragment should fail")
	}
	if !fb.DepthTest(1, 1, 0.2) {
		t.Error("nearer fragment should pass")
	}
	fb.Clear(ColorBlue)
	if !fb.DepthTest(1, 1, 0.9) {
		t.Error("Clear should reset depth")
	}
	if fb.GetPixel(3, 3) != ColorBlue {
		t.Error("Clear should fill color")
	}

	fb.Resize(8, 2)
	if fb.Width != 8 || fb.Height != 2 || len(fb.Pixels) != 16 || len(fb.Depth) != 16 {
		t.Errorf("Resize gave %dx%d with %d pixels", fb.Width, fb.Height, len(fb.Pixels))
	}
	fb.SetPixel(-1, 0, ColorRed) // ignored
	fb.SetPixel(8, 0, ColorRed)  // ignored
}
