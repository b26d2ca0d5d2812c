package scene

import (
	"fmt"

	"fortio.org/log"
	"github.com/taigrr/deskscene/pkg/models"
	"github.com/taigrr/deskscene/pkg/render"
)

// RendererOptions configures a Renderer.
type RendererOptions struct {
	Width, Height int
	Background    render.Color
	Camera        *render.Camera
	// Meshes replaces primitives with meshes loaded from files.
	Meshes map[models.Kind]string
	Scene  Options
}

// Renderer draws the scene into a framebuffer with the software backend.
type Renderer struct {
	Device     *render.Device
	Program    *render.Program
	Camera     *render.Camera
	Raster     *render.Rasterizer
	Manager    *Manager
	Background render.Color

	// Wireframe draws triangle edges instead of shaded surfaces.
	Wireframe bool
	// ShowBounds overlays each mesh's bounding box.
	ShowBounds bool
}

// NewRenderer builds the backend, loads mesh overrides and prepares the
// scene. Missing textures do not fail the renderer.
func NewRenderer(opts RendererOptions) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", opts.Width, opts.Height)
	}
	device := opts.Scene.Device
	if device == nil {
		device = render.NewDevice()
	}
	prog := render.NewProgram(device, opts.Scene.Names)
	cam := opts.Camera
	if cam == nil {
		cam = render.NewCamera()
	}
	r := &Renderer{
		Device:     device,
		Program:    prog,
		Camera:     cam,
		Raster:     render.NewRasterizer(render.NewFramebuffer(opts.Width, opts.Height), prog),
		Background: opts.Background,
	}

	lib := opts.Scene.Library
	if lib == nil {
		lib = models.NewLibrary()
	}
	for kind, path := range opts.Meshes {
		if err := lib.LoadFile(kind, path); err != nil {
			return nil, fmt.Errorf("mesh %s: %w", kind, err)
		}
		log.Infof("Using %s for %s", path, kind)
	}

	sceneOpts := opts.Scene
	sceneOpts.Device = device
	sceneOpts.Program = prog
	sceneOpts.Drawer = r
	sceneOpts.Library = lib
	mgr, err := NewManager(sceneOpts)
	if err != nil {
		return nil, err
	}
	if err := mgr.PrepareScene(); err != nil {
		log.Warnf("%v", err)
	}
	r.Manager = mgr
	return r, nil
}

// Draw implements Drawer.
func (r *Renderer) Draw(mesh render.MeshRenderer) {
	if r.Wireframe {
		r.Raster.DrawWireframe(mesh, render.ColorFromVec4(r.Program.BaseColor(render.Fragment{})))
	} else {
		r.Raster.Draw(mesh)
	}
	if m, ok := mesh.(*models.Mesh); ok && r.ShowBounds {
		r.Raster.DrawBounds(m.BoundsMin, m.BoundsMax, render.ColorWhite)
	}
}

// Resize changes the framebuffer size.
func (r *Renderer) Resize(width, height int) {
	r.Raster.Framebuffer().Resize(width, height)
}

// Frame renders one frame and returns the framebuffer.
func (r *Renderer) Frame() *render.Framebuffer {
	fb := r.Raster.Framebuffer()
	r.Raster.Clear(r.Background)
	if fb.Height > 0 {
		r.Camera.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
	}
	r.Camera.Apply(r.Program, r.Program.Names)
	r.Manager.RenderScene()
	return fb
}

// Close releases the scene's textures.
func (r *Renderer) Close() {
	r.Manager.Close()
}
