// deskscene - software renderer for a textured, lit desk still life.
//
// The scene (table, lamp, book, glasses case, air freshener, backdrop and
// floor) is built from primitive meshes and drawn by a CPU rasterizer.
//
// Commands:
//
//	render    - Render one frame to PNG
//	view      - Orbit the scene in the terminal
//	export    - Write the scene to glTF or GLB
//	info      - Show the scene setup, or statistics for a mesh file
//	textures  - Write placeholder textures
package main

import (
	"context"
	"os"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/deskscene/pkg/config"
)

var (
	configPath string
	textureDir string
	logLevel   string

	// cfg is loaded before any subcommand runs.
	cfg config.Config
)

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "deskscene",
		Short: "Desk still life renderer",
		Long: `deskscene - desk still life renderer

Renders a fixed scene of primitive meshes with textures, Phong materials
and a directional light plus point lights, using a software rasterizer.

Textures are read from the texture directory (wall.jpg, tilesf2.jpg,
stone.jpg, wood.jpg). Missing textures fall back to solid colors; run
"deskscene textures" to generate placeholders.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Configuration file (.toml, .yaml or .yml)")
	pf.StringVar(&textureDir, "textures", "", "Texture directory (default from config: textures)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, verbose, info, warning, error")

	root.AddCommand(
		newRenderCmd(),
		newViewCmd(),
		newExportCmd(),
		newInfoCmd(),
		newTexturesCmd(),
	)
	return root
}

// setup loads the configuration and applies the global flags over it.
func setup(cmd *cobra.Command) error {
	cfg = config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("textures") {
		cfg.TextureDir = textureDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cfg.LogLevel != "" {
		lvl, err := log.ValidateLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log.SetLogLevel(lvl)
	}
	return nil
}
