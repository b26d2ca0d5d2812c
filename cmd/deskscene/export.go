package main

import (
	"fmt"

	"fortio.org/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/deskscene/pkg/models"
	"github.com/taigrr/deskscene/pkg/render"
	"github.com/taigrr/deskscene/pkg/scene"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the scene to glTF (.gltf + .bin) or GLB",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := prepareScene()
			if err != nil {
				return err
			}
			defer m.Close()
			return scene.SaveGLTF(m, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "deskscene.glb", "Output file (.glb or .gltf)")
	return cmd
}

// prepareScene builds a scene manager without a frame buffer: textures,
// materials, lights and meshes are set up but nothing is drawn.
func prepareScene() (*scene.Manager, error) {
	lib := models.NewLibrary()
	for kind, path := range cfg.MeshOverrides() {
		if err := lib.LoadFile(kind, path); err != nil {
			return nil, fmt.Errorf("mesh %s: %w", kind, err)
		}
	}
	opts := cfg.SceneOptions()
	opts.Device = render.NewDevice()
	opts.Program = render.NewProgram(opts.Device, opts.Names)
	opts.Library = lib
	m, err := scene.NewManager(opts)
	if err != nil {
		return nil, err
	}
	if err := m.PrepareScene(); err != nil {
		log.Warnf("%v", err)
	}
	return m, nil
}
