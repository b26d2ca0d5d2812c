package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/deskscene/pkg/models"
	"github.com/taigrr/deskscene/pkg/scene"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [mesh.obj|mesh.stl|mesh.gltf|mesh.glb]",
		Short: "Display scene or mesh information",
		Long: `Without an argument, list the scene's textures, materials and render steps.
With a mesh file, show its vertex and triangle counts and bounding box.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runMeshInfo(cmd.OutOrStdout(), args[0])
			}
			m, err := prepareScene()
			if err != nil {
				return err
			}
			defer m.Close()
			printScene(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

func runMeshInfo(w io.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	mesh, err := models.LoadMeshFile(path)
	if err != nil {
		return fmt.Errorf("load mesh: %w", err)
	}
	mesh.CalculateBounds()
	size := mesh.Size()
	center := mesh.Center()
	ext := filepath.Ext(path)

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(path))
	fmt.Fprintf(w, "Format:     %s\n", strings.ToUpper(strings.TrimPrefix(ext, ".")))
	fmt.Fprintf(w, "Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Triangles:  %d\n", mesh.TriangleCount())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X, mesh.BoundsMin.Y, mesh.BoundsMin.Z)
	fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X, mesh.BoundsMax.Y, mesh.BoundsMax.Z)
	fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	return nil
}

func printScene(w io.Writer, m *scene.Manager) {
	entries := m.Textures().Entries()
	fmt.Fprintf(w, "Textures (%d):\n", len(entries))
	for slot, e := range entries {
		fmt.Fprintf(w, "  %2d  %-10s %4dx%-4d %-5s %s\n", slot, e.Tag, e.Width, e.Height, e.Format, e.Path)
	}

	mats := m.Materials().All()
	fmt.Fprintf(w, "\nMaterials (%d):\n", len(mats))
	for _, mat := range mats {
		fmt.Fprintf(w, "  %-17s diffuse (%.2f, %.2f, %.2f)  shininess %g\n",
			mat.Tag, mat.DiffuseColor.X, mat.DiffuseColor.Y, mat.DiffuseColor.Z, mat.Shininess)
	}

	l := m.Lighting()
	active := 0
	for _, p := range l.Points {
		if p.Active {
			active++
		}
	}
	fmt.Fprintf(w, "\nLighting: enabled=%t, directional=%t, point lights %d/%d\n",
		l.Enabled, l.Directional.Active, active, len(l.Points))

	steps := m.Steps()
	fmt.Fprintf(w, "\nSteps (%d):\n", len(steps))
	for i, s := range steps {
		tex := s.Texture
		if tex == "" {
			tex = "-"
		}
		p := s.Transform.Position
		fmt.Fprintf(w, "  %2d  %-12s %-10s %-16s tex %-9s mat %-16s at (%.2f, %.2f, %.2f)\n",
			i, s.Object, s.Part, s.Mesh, tex, s.Material, p.X, p.Y, p.Z)
	}
}
