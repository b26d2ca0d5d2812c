package main

import (
	"time"

	"fortio.org/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/deskscene/pkg/scene"
)

func newRenderCmd() *cobra.Command {
	var (
		out           string
		width, height int
		wireframe     bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame to PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.Output = out
			}
			if flags.Changed("width") {
				cfg.Width = width
			}
			if flags.Changed("height") {
				cfg.Height = height
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			r, err := scene.NewRenderer(cfg.RendererOptions())
			if err != nil {
				return err
			}
			defer r.Close()
			r.Wireframe = wireframe

			start := time.Now()
			fb := r.Frame()
			log.Infof("Rendered %dx%d, %d triangles in %v", fb.Width, fb.Height, r.Raster.Triangles, time.Since(start))
			if err := fb.SavePNG(cfg.Output); err != nil {
				return err
			}
			log.Infof("Wrote %s", cfg.Output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "deskscene.png", "Output PNG file")
	cmd.Flags().IntVar(&width, "width", 800, "Image width")
	cmd.Flags().IntVar(&height, "height", 600, "Image height")
	cmd.Flags().BoolVar(&wireframe, "wireframe", false, "Draw triangle edges only")
	return cmd
}
