package render

import (
	"errors"
	"image"
	"testing"
)

func solidImage(w, h, channels int) *Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	return &Image{Width: w, Height: h, Channels: channels, Pixels: img}
}

func TestDeviceUploadFormats(t *testing.T) {
	tests := []struct {
		channels int
		want     Format
		wantErr  bool
	}{
		{3, FormatRGB8, false},
		{4, FormatRGBA8, false},
		{1, 0, true},
		{2, 0, true},
	}
	for _, tt := range tests {
		d := NewDevice()
		h := d.GenTexture()
		err := d.Upload(h, solidImage(2, 2, tt.channels))
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedChannels) {
				t.Errorf("channels=%d: err = %v, want ErrUnsupportedChannels", tt.channels, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("channels=%d: %v", tt.channels, err)
		}
		tex := d.Texture(h)
		if tex.Format != tt.want {
			t.Errorf("channels=%d: format %v, want %v", tt.channels, tex.Format, tt.want)
		}
		if tex.Width != 2 || tex.Height != 2 {
			t.Errorf("channels=%d: size %dx%d", tt.channels, tex.Width, tex.Height)
		}
	}
}

func TestDeviceRGBIsOpaque(t *testing.T) {
	d := NewDevice()
	h := d.GenTexture()
	if err := d.Upload(h, solidImage(1, 1, 3)); err != nil {
		t.Fatal(err)
	}
	if a := d.Texture(h).GetPixel(0, 0).A; a != 255 {
		t.Errorf("RGB8 alpha = %d, want 255", a)
	}
}

func TestDeviceUnitsAndBinding(t *testing.T) {
	d := NewDevice()
	a, b := d.GenTexture(), d.GenTexture()
	if a == NoTexture || b == NoTexture || a == b {
		t.Fatalf("bad handles %d, %d", a, b)
	}

	if err := d.ActiveTexture(0); err != nil {
		t.Fatal(err)
	}
	if err := d.BindTexture(a); err != nil {
		t.Fatal(err)
	}
	if err := d.ActiveTexture(1); err != nil {
		t.Fatal(err)
	}
	if err := d.BindTexture(b); err != nil {
		t.Fatal(err)
	}
	if d.BoundHandle(0) != a || d.BoundHandle(1) != b {
		t.Errorf("units = %d, %d; want %d, %d", d.BoundHandle(0), d.BoundHandle(1), a, b)
	}
	if d.BoundTexture(2) != nil {
		t.Error("unit 2 should be empty")
	}
	if d.BoundTexture(-1) != nil || d.BoundTexture(MaxTextureUnits) != nil {
		t.Error("out of range units should report nil")
	}

	if err := d.ActiveTexture(MaxTextureUnits); !errors.Is(err, ErrTextureUnit) {
		t.Errorf("ActiveTexture(%d) = %v, want ErrTextureUnit", MaxTextureUnits, err)
	}
	if err := d.BindTexture(TextureHandle(99)); !errors.Is(err, ErrNoTexture) {
		t.Errorf("BindTexture(99) = %v, want ErrNoTexture", err)
	}

	d.DeleteTexture(a)
	if d.BoundHandle(0) != NoTexture {
		t.Error("deleting a texture should unbind it")
	}
	if d.LiveTextures() != 1 {
		t.Errorf("LiveTextures() = %d, want 1", d.LiveTextures())
	}
	d.DeleteTexture(b)
	d.DeleteTexture(b)
	if d.LiveTextures() != 0 {
		t.Errorf("LiveTextures() = %d, want 0", d.LiveTextures())
	}
}

func TestDeviceParametersAndMipmaps(t *testing.T) {
	d := NewDevice()
	h := d.GenTexture()
	if err := d.Upload(h, solidImage(4, 4, 4)); err != nil {
		t.Fatal(err)
	}
	if err := d.SetParameters(h, WrapClamp, WrapClamp, FilterNearest); err != nil {
		t.Fatal(err)
	}
	if err := d.GenerateMipmap(h); err != nil {
		t.Fatal(err)
	}
	tex := d.Texture(h)
	if tex.Levels() != 3 {
		t.Errorf("Levels() = %d, want 3", tex.Levels())
	}
	if tex.Level(1).WrapU != WrapClamp || tex.Level(1).FilterMode != FilterNearest {
		t.Error("mip levels should inherit sampling parameters")
	}
	if err := d.GenerateMipmap(TextureHandle(42)); !errors.Is(err, ErrNoTexture) {
		t.Errorf("GenerateMipmap(42) = %v, want ErrNoTexture", err)
	}
}
