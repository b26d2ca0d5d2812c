// Package scene assembles the desk still life: it owns the texture and
// material registries, configures the light rig and runs the fixed render
// script against a shader program.
package scene

import (
	"fmt"

	"fortio.org/log"
	"github.com/taigrr/deskscene/pkg/render"
)

// NotFound is the slot reported for unknown texture tags. Passed to a
// sampler it names no texture unit.
const NotFound = -1

// TextureEntry describes one registered texture.
type TextureEntry struct {
	Tag      string
	Handle   render.TextureHandle
	Path     string
	Width    int
	Height   int
	Channels int
	Format   render.Format
}

// TextureRegistry maps tags to uploaded textures. The registration index
// of a texture is also the texture unit BindAll binds it to.
type TextureRegistry struct {
	device  *render.Device
	reader  render.ImageReader
	entries []TextureEntry
	first   map[string]int
}

// NewTextureRegistry returns an empty registry uploading to device. A nil
// reader decodes files from disk.
func NewTextureRegistry(device *render.Device, reader render.ImageReader) *TextureRegistry {
	if reader == nil {
		reader = render.FileImageReader
	}
	return &TextureRegistry{
		device: device,
		reader: reader,
		first:  make(map[string]int),
	}
}

// Load decodes the image at path, uploads it as a repeating, linearly
// filtered, mipmapped texture and registers it under tag. On failure
// nothing is registered and no texture object is left behind.
func (r *TextureRegistry) Load(path, tag string) error {
	img, err := r.reader.ReadImage(path)
	if err != nil {
		log.Errf("Could not load image %s: %v", path, err)
		return fmt.Errorf("load texture %q: %w", tag, err)
	}
	if img.Channels != 3 && img.Channels != 4 {
		log.Errf("Not implemented to handle image %s with %d channels", path, img.Channels)
		return fmt.Errorf("load texture %q: %w: %d", tag, render.ErrUnsupportedChannels, img.Channels)
	}

	h := r.device.GenTexture()
	if err := r.upload(h, img); err != nil {
		r.device.DeleteTexture(h)
		log.Errf("Could not upload image %s: %v", path, err)
		return fmt.Errorf("load texture %q: %w", tag, err)
	}

	entry := TextureEntry{
		Tag:      tag,
		Handle:   h,
		Path:     path,
		Width:    img.Width,
		Height:   img.Height,
		Channels: img.Channels,
		Format:   r.device.Texture(h).Format,
	}
	if _, dup := r.first[tag]; !dup {
		r.first[tag] = len(r.entries)
	}
	r.entries = append(r.entries, entry)
	log.Infof("Successfully loaded image:%s, width:%d, height:%d, channels:%d", path, img.Width, img.Height, img.Channels)
	return nil
}

func (r *TextureRegistry) upload(h render.TextureHandle, img *render.Image) error {
	if err := r.device.SetParameters(h, render.WrapRepeat, render.WrapRepeat, render.FilterLinear); err != nil {
		return err
	}
	if err := r.device.Upload(h, img); err != nil {
		return err
	}
	return r.device.GenerateMipmap(h)
}

// BindAll binds every registered texture to the unit matching its
// registration index. Textures past the last unit stay unbound and an
// error wrapping render.ErrTextureUnit is returned.
func (r *TextureRegistry) BindAll() error {
	for i, e := range r.entries {
		if i >= render.MaxTextureUnits {
			return fmt.Errorf("%d of %d textures not bound: %w",
				len(r.entries)-i, len(r.entries), render.ErrTextureUnit)
		}
		if err := r.device.ActiveTexture(i); err != nil {
			return err
		}
		if err := r.device.BindTexture(e.Handle); err != nil {
			return fmt.Errorf("bind texture %q: %w", e.Tag, err)
		}
	}
	return nil
}

// FindHandle returns the handle registered first under tag, or
// render.NoTexture.
func (r *TextureRegistry) FindHandle(tag string) render.TextureHandle {
	if i, ok := r.first[tag]; ok {
		return r.entries[i].Handle
	}
	return render.NoTexture
}

// FindSlot returns the slot of the first texture registered under tag, or
// NotFound.
func (r *TextureRegistry) FindSlot(tag string) int {
	if i, ok := r.first[tag]; ok {
		return i
	}
	return NotFound
}

// Destroy deletes every texture object and empties the registry.
func (r *TextureRegistry) Destroy() {
	for _, e := range r.entries {
		r.device.DeleteTexture(e.Handle)
	}
	r.entries = nil
	clear(r.first)
}

// Entries returns a copy of the registered textures in slot order.
func (r *TextureRegistry) Entries() []TextureEntry {
	return append([]TextureEntry(nil), r.entries...)
}

// Len returns the number of registered textures.
func (r *TextureRegistry) Len() int {
	return len(r.entries)
}
