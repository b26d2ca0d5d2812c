package render

import (
	"errors"
	"fmt"

	"fortio.org/log"
)

// TextureHandle names a texture object on a Device. The zero handle is
// never allocated.
type TextureHandle uint32

// NoTexture is the handle returned for missing textures; binding it clears
// a unit.
const NoTexture TextureHandle = 0

// MaxTextureUnits is the number of texture units a Device exposes.
const MaxTextureUnits = 16

var (
	// ErrTextureUnit is returned when a texture unit index is out of range.
	ErrTextureUnit = errors.New("texture unit out of range")
	// ErrUnsupportedChannels is returned for images that are neither RGB nor RGBA.
	ErrUnsupportedChannels = errors.New("unsupported number of image channels")
	// ErrNoTexture is returned for handles that do not name a live texture.
	ErrNoTexture = errors.New("no such texture")
)

// Device owns texture objects and the texture units they are bound to,
// mirroring the GL texture API.
type Device struct {
	textures map[TextureHandle]*Texture
	next     TextureHandle
	units    [MaxTextureUnits]TextureHandle
	active   int
}

// NewDevice returns a device with no textures.
func NewDevice() *Device {
	return &Device{textures: make(map[TextureHandle]*Texture)}
}

// GenTexture allocates an empty texture object.
func (d *Device) GenTexture() TextureHandle {
	d.next++
	d.textures[d.next] = NewTexture(0, 0)
	return d.next
}

// Upload stores img in the texture named by h. Three channel images are
// stored as RGB8 and four channel images as RGBA8; anything else fails
// with ErrUnsupportedChannels and leaves the texture untouched.
func (d *Device) Upload(h TextureHandle, img *Image) error {
	tex, ok := d.textures[h]
	if !ok {
		return fmt.Errorf("upload %d: %w", h, ErrNoTexture)
	}
	var format Format
	switch img.Channels {
	case 3:
		format = FormatRGB8
	case 4:
		format = FormatRGBA8
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedChannels, img.Channels)
	}
	loaded := TextureFromImage(img.Pixels)
	loaded.Format = format
	loaded.WrapU, loaded.WrapV, loaded.FilterMode = tex.WrapU, tex.WrapV, tex.FilterMode
	*tex = *loaded
	if format == FormatRGB8 {
		for i := range tex.Pixels {
			tex.Pixels[i].A = 255
		}
	}
	return nil
}

// SetParameters sets wrapping and filtering for h.
func (d *Device) SetParameters(h TextureHandle, wrapU, wrapV WrapMode, filter FilterMode) error {
	tex, ok := d.textures[h]
	if !ok {
		return fmt.Errorf("parameters %d: %w", h, ErrNoTexture)
	}
	tex.WrapU, tex.WrapV, tex.FilterMode = wrapU, wrapV, filter
	for _, m := range tex.Mips {
		m.WrapU, m.WrapV, m.FilterMode = wrapU, wrapV, filter
	}
	return nil
}

// GenerateMipmap builds the mip chain for h.
func (d *Device) GenerateMipmap(h TextureHandle) error {
	tex, ok := d.textures[h]
	if !ok {
		return fmt.Errorf("mipmap %d: %w", h, ErrNoTexture)
	}
	tex.GenerateMipmaps()
	return nil
}

// ActiveTexture selects the unit that BindTexture affects.
func (d *Device) ActiveTexture(unit int) error {
	if unit < 0 || unit >= MaxTextureUnits {
		return fmt.Errorf("unit %d: %w", unit, ErrTextureUnit)
	}
	d.active = unit
	return nil
}

// BindTexture binds h to the active unit. NoTexture unbinds it.
func (d *Device) BindTexture(h TextureHandle) error {
	if h != NoTexture {
		if _, ok := d.textures[h]; !ok {
			return fmt.Errorf("bind %d: %w", h, ErrNoTexture)
		}
	}
	d.units[d.active] = h
	return nil
}

// BoundHandle returns the handle bound to unit, or NoTexture.
func (d *Device) BoundHandle(unit int) TextureHandle {
	if unit < 0 || unit >= MaxTextureUnits {
		return NoTexture
	}
	return d.units[unit]
}

// BoundTexture returns the texture bound to unit, or nil when the unit is
// out of range or empty.
func (d *Device) BoundTexture(unit int) *Texture {
	return d.textures[d.BoundHandle(unit)]
}

// Texture returns the texture object for h, or nil.
func (d *Device) Texture(h TextureHandle) *Texture {
	return d.textures[h]
}

// DeleteTexture frees h and unbinds it from every unit.
func (d *Device) DeleteTexture(h TextureHandle) {
	if _, ok := d.textures[h]; !ok {
		return
	}
	delete(d.textures, h)
	for i, b := range d.units {
		if b == h {
			d.units[i] = NoTexture
		}
	}
	log.Debugf("deleted texture %d", h)
}

// LiveTextures returns the number of allocated texture objects.
func (d *Device) LiveTextures() int {
	return len(d.textures)
}
