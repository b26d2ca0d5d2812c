package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"fortio.org/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/deskscene/pkg/scene"
)

func newTexturesCmd() *cobra.Command {
	var (
		dir  string
		size int
	)
	cmd := &cobra.Command{
		Use:   "textures",
		Short: "Write placeholder textures for the scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("dir") {
				dir = cfg.TextureDir
			}
			if size < 8 {
				return fmt.Errorf("size must be at least 8, got %d", size)
			}
			return writeTextures(dir, size)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "textures", "Output directory (default: the texture directory)")
	cmd.Flags().IntVar(&size, "size", 256, "Texture width and height")
	return cmd
}

// textureGenerators maps texture tags to procedural patterns.
var textureGenerators = map[string]func(x, y, size int, rng *rand.Rand) color.RGBA{
	"wall":      wallPixel,
	"lampshade": tilePixel,
	"stone":     stonePixel,
	"floor":     woodPixel,
}

func writeTextures(dir string, size int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, tf := range scene.DefaultTextures() {
		gen, ok := textureGenerators[tf.Tag]
		if !ok {
			continue
		}
		path := filepath.Join(dir, tf.File)
		if err := writeJPEG(path, proceduralImage(size, gen)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Infof("Wrote %s (%dx%d)", path, size, size)
	}
	return nil
}

func proceduralImage(size int, gen func(x, y, size int, rng *rand.Rand) color.RGBA) *image.RGBA {
	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // placeholder art
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			img.SetRGBA(x, y, gen(x, y, size, rng))
		}
	}
	return img
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func shade(base [3]float64, k float64) color.RGBA {
	c := func(v float64) uint8 { return uint8(math.Max(0, math.Min(255, v*k))) }
	return color.RGBA{c(base[0]), c(base[1]), c(base[2]), 255}
}

// wallPixel is a pale plaster with faint vertical streaks.
func wallPixel(x, _, size int, rng *rand.Rand) color.RGBA {
	streak := 0.04 * math.Sin(float64(x)/float64(size)*2*math.Pi*6)
	return shade([3]float64{200, 215, 205}, 0.95+streak+0.05*rng.Float64())
}

// tilePixel is a grid of cream tiles with darker grout.
func tilePixel(x, y, size int, rng *rand.Rand) color.RGBA {
	cell := max(size/8, 2)
	if x%cell < 2 || y%cell < 2 {
		return shade([3]float64{120, 110, 95}, 1)
	}
	return shade([3]float64{235, 225, 200}, 0.92+0.08*rng.Float64())
}

// stonePixel is speckled gray.
func stonePixel(_, _, _ int, rng *rand.Rand) color.RGBA {
	k := 0.7 + 0.3*rng.Float64()
	if rng.IntN(20) == 0 {
		k *= 0.6
	}
	return shade([3]float64{160, 160, 165}, k)
}

// woodPixel is a brown board with wavy grain.
func woodPixel(x, y, size int, rng *rand.Rand) color.RGBA {
	fx, fy := float64(x)/float64(size), float64(y)/float64(size)
	grain := math.Sin((fy*24 + 0.6*math.Sin(fx*2*math.Pi*3)) * math.Pi)
	return shade([3]float64{150, 100, 55}, 0.85+0.12*grain+0.05*rng.Float64())
}
