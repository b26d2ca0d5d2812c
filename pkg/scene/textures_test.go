package scene

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/deskscene/pkg/render"
)

func TestTextureRegistryBindOrder(t *testing.T) {
	dev := render.NewDevice()
	reg := NewTextureRegistry(dev, fakeReader(map[string]int{"wall.jpg": 3, "wood.jpg": 3}))
	require.NoError(t, reg.Load("textures/wall.jpg", "wall"))
	require.NoError(t, reg.Load("textures/wood.jpg", "floor"))
	require.NoError(t, reg.BindAll())

	assert.Equal(t, 0, reg.FindSlot("wall"))
	assert.Equal(t, 1, reg.FindSlot("floor"))
	assert.Equal(t, reg.FindHandle("wall"), dev.BoundHandle(0))
	assert.Equal(t, reg.FindHandle("floor"), dev.BoundHandle(1))
	assert.Equal(t, render.NoTexture, dev.BoundHandle(2))
}

func TestTextureRegistryUnknownTag(t *testing.T) {
	reg := NewTextureRegistry(render.NewDevice(), fakeReader(map[string]int{"wall.jpg": 3}))
	assert.Equal(t, NotFound, reg.FindSlot("wall"))
	assert.Equal(t, render.NoTexture, reg.FindHandle("wall"))

	require.NoError(t, reg.Load("wall.jpg", "wall"))
	assert.Equal(t, NotFound, reg.FindSlot("floor"))
	assert.Equal(t, render.NoTexture, reg.FindHandle("floor"))
}

func TestTextureRegistryChannels(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		wantErr  bool
		format   render.Format
	}{
		{"rgb", 3, false, render.FormatRGB8},
		{"rgba", 4, false, render.FormatRGBA8},
		{"gray alpha", 2, true, 0},
		{"gray", 1, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := render.NewDevice()
			reg := NewTextureRegistry(dev, fakeReader(map[string]int{"img.png": tt.channels}))
			err := reg.Load("img.png", "img")
			if tt.wantErr {
				require.ErrorIs(t, err, render.ErrUnsupportedChannels)
				assert.Equal(t, 0, reg.Len())
				assert.Equal(t, 0, dev.LiveTextures())
				assert.Equal(t, NotFound, reg.FindSlot("img"))
				return
			}
			require.NoError(t, err)
			require.Equal(t, 1, reg.Len())
			e := reg.Entries()[0]
			assert.Equal(t, tt.format, e.Format)
			assert.Equal(t, tt.channels, e.Channels)
			tex := dev.Texture(e.Handle)
			require.NotNil(t, tex)
			assert.Equal(t, render.WrapRepeat, tex.WrapU)
			assert.Equal(t, render.WrapRepeat, tex.WrapV)
			assert.Equal(t, render.FilterLinear, tex.FilterMode)
			assert.Greater(t, tex.Levels(), 1)
		})
	}
}

func TestTextureRegistryReadFailure(t *testing.T) {
	dev := render.NewDevice()
	reg := NewTextureRegistry(dev, fakeReader(nil))
	require.Error(t, reg.Load("missing.jpg", "wall"))
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, dev.LiveTextures())
}

func TestTextureRegistryDuplicateTag(t *testing.T) {
	reg := NewTextureRegistry(render.NewDevice(), fakeReader(map[string]int{"a.jpg": 3, "b.jpg": 4}))
	require.NoError(t, reg.Load("a.jpg", "wall"))
	require.NoError(t, reg.Load("b.jpg", "wall"))
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, 0, reg.FindSlot("wall"))
	assert.Equal(t, reg.Entries()[0].Handle, reg.FindHandle("wall"))
}

func TestTextureRegistryDestroy(t *testing.T) {
	dev := render.NewDevice()
	reg := NewTextureRegistry(dev, fakeReader(allTextures()))
	for _, tf := range DefaultTextures() {
		require.NoError(t, reg.Load(tf.File, tf.Tag))
	}
	require.NoError(t, reg.BindAll())
	require.Equal(t, 4, dev.LiveTextures())

	reg.Destroy()
	assert.Equal(t, 0, dev.LiveTextures())
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, NotFound, reg.FindSlot("wall"))
	assert.Equal(t, render.NoTexture, dev.BoundHandle(0))
}

func TestTextureRegistryTooManyUnits(t *testing.T) {
	files := map[string]int{}
	for i := range render.MaxTextureUnits + 1 {
		files[fmt.Sprintf("t%d.png", i)] = 4
	}
	dev := render.NewDevice()
	reg := NewTextureRegistry(dev, fakeReader(files))
	for i := range render.MaxTextureUnits + 1 {
		require.NoError(t, reg.Load(fmt.Sprintf("t%d.png", i), fmt.Sprintf("t%d", i)))
	}

	err := reg.BindAll()
	require.ErrorIs(t, err, render.ErrTextureUnit)
	last := render.MaxTextureUnits - 1
	assert.Equal(t, reg.FindHandle(fmt.Sprintf("t%d", last)), dev.BoundHandle(last))
	assert.Equal(t, render.MaxTextureUnits, reg.FindSlot(fmt.Sprintf("t%d", render.MaxTextureUnits)))
}
