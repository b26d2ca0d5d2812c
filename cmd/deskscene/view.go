package main

import (
	"fmt"
	"math"
	"time"

	"fortio.org/log"
	"fortio.org/terminal/ansipixels"
	"fortio.org/terminal/ansipixels/tcolor"
	"github.com/charmbracelet/harmonica"
	"github.com/spf13/cobra"
	"github.com/taigrr/deskscene/pkg/render"
	"github.com/taigrr/deskscene/pkg/scene"
)

func newViewCmd() *cobra.Command {
	var fps float64
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Orbit the scene in the terminal",
		Long: `Render the scene live in the terminal with half block pixels.

Controls:
  A/D         - Orbit left/right
  W/S         - Orbit up/down
  Mouse drag  - Orbit
  Scroll, +/- - Zoom in/out
  X           - Toggle wireframe
  B           - Toggle bounding boxes
  R           - Reset view
  ?           - Toggle HUD overlay
  Q, Esc      - Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("fps") && cfg.FPS > 0 {
				fps = cfg.FPS
			}
			return exitStatus(runView(fps))
		},
	}
	cmd.Flags().Float64Var(&fps, "fps", 30, "Target FPS")
	return cmd
}

// OrbitAxis is one orbit coordinate. Input adds velocity; a critically
// damped spring brings the velocity back to zero.
type OrbitAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewOrbitAxis returns an axis at position p.
func NewOrbitAxis(fps int, p float64) OrbitAxis {
	return OrbitAxis{
		Position:  p,
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances the axis by one frame.
func (a *OrbitAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Orbit holds the camera's yaw and pitch around the target and a zoom
// distance eased toward its goal.
type Orbit struct {
	Yaw, Pitch OrbitAxis

	Distance   float64
	distVel    float64
	distGoal   float64
	distSpring harmonica.Spring

	fps        int
	home       [3]float64 // yaw, pitch, distance
	minD, maxD float64
	pitchLimit float64

	lastMouseX, lastMouseY int
	dragStarted            bool
}

// NewOrbit starts an orbit at the camera's current placement.
func NewOrbit(fps int, cam *render.Camera) *Orbit {
	d := cam.Position.Sub(cam.Target)
	dist := d.Len()
	yaw := math.Atan2(d.X, d.Z)
	pitch := 0.0
	if dist > 0 {
		pitch = math.Asin(d.Y / dist)
	}
	o := &Orbit{
		fps:        fps,
		home:       [3]float64{yaw, pitch, dist},
		minD:       math.Max(dist*0.25, cam.Near*2),
		maxD:       dist * 3,
		pitchLimit: math.Pi/2 - 0.05,
		distSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
	o.Reset()
	return o
}

// Reset returns to the starting view.
func (o *Orbit) Reset() {
	o.Yaw = NewOrbitAxis(o.fps, o.home[0])
	o.Pitch = NewOrbitAxis(o.fps, o.home[1])
	o.Distance, o.distGoal, o.distVel = o.home[2], o.home[2], 0
}

// Zoom scales the goal distance.
func (o *Orbit) Zoom(factor float64) {
	o.distGoal = math.Max(o.minD, math.Min(o.maxD, o.distGoal*factor))
}

// Update advances the springs and places the camera.
func (o *Orbit) Update(cam *render.Camera) {
	o.Yaw.Update()
	o.Pitch.Update()
	o.Pitch.Position = math.Max(-o.pitchLimit, math.Min(o.pitchLimit, o.Pitch.Position))
	o.Distance, o.distVel = o.distSpring.Update(o.Distance, o.distVel, o.distGoal)
	cam.Orbit(o.Yaw.Position, o.Pitch.Position, o.Distance)
}

// HUD renders an overlay with frame rate and mode status.
type HUD struct {
	steps     int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	show      bool
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Draw writes the HUD over the image.
func (h *HUD) Draw(ap *ansipixels.AnsiPixels, r *scene.Renderer) {
	if !h.show {
		return
	}
	ap.WriteAt(0, 0, tcolor.Green.Foreground()+"%.0f FPS "+tcolor.Reset, h.fps)
	ap.WriteCentered(0, "deskscene")
	ap.WriteRight(0, tcolor.Cyan.Foreground()+"%d tris, %d draws"+tcolor.Reset, r.Raster.Triangles, h.steps)

	check := func(b bool) string {
		if b {
			return "[✓]"
		}
		return "[ ]"
	}
	ap.WriteAt(0, ap.H-1, "%s X-Ray (wireframe)  %s Bounds", check(r.Wireframe), check(r.ShowBounds))
	ap.WriteRight(ap.H-1, "%sQ: quit%s", tcolor.Yellow.Foreground(), tcolor.Reset)
}

// exitStatus turns the viewer's exit code into the command error.
func exitStatus(code int) error {
	if code == 0 {
		return nil
	}
	return fmt.Errorf("view: exit status %d", code)
}

// runView runs the interactive viewer and returns the process exit code.
//
//nolint:funlen // one event loop.
func runView(fps float64) int {
	ap := ansipixels.NewAnsiPixels(fps)
	if err := ap.Open(); err != nil {
		return log.FErrf("open ansipixels: %v", err)
	}
	defer func() {
		ap.ShowCursor()
		ap.MouseTrackingOff()
		ap.Out.Flush()
		ap.Restore()
	}()
	ap.SyncBackgroundColor()
	ap.MouseTrackingOn()
	ap.HideCursor()

	opts := cfg.RendererOptions()
	// Two pixels per cell with half blocks.
	opts.Width, opts.Height = max(ap.W, 1), max(ap.H*2, 1)
	opts.Background = render.RGB(ap.Background.R, ap.Background.G, ap.Background.B)
	r, err := scene.NewRenderer(opts)
	if err != nil {
		return log.FErrf("prepare scene: %v", err)
	}
	defer r.Close()

	orbit := NewOrbit(int(math.Round(fps)), r.Camera)
	hud := &HUD{steps: len(r.Manager.Steps()), fpsTime: time.Now(), show: true}
	const impulse = 0.02

	ap.OnMouse = func() {
		switch {
		case ap.MouseWheelUp():
			orbit.Zoom(0.9)
		case ap.MouseWheelDown():
			orbit.Zoom(1.1)
		case ap.LeftDrag():
			if orbit.dragStarted {
				orbit.Yaw.Velocity -= float64(ap.Mx-orbit.lastMouseX) * impulse
				orbit.Pitch.Velocity += float64(ap.My-orbit.lastMouseY) * impulse
			}
			orbit.dragStarted = true
		default:
			orbit.dragStarted = false
		}
		orbit.lastMouseX, orbit.lastMouseY = ap.Mx, ap.My
	}
	ap.OnResize = func() error {
		r.Resize(max(ap.W, 1), max(ap.H*2, 1))
		return nil
	}

	err = ap.FPSTicks(func() bool {
		for _, b := range ap.Data {
			switch b {
			case 'a', 'A':
				orbit.Yaw.Velocity -= impulse
			case 'd', 'D':
				orbit.Yaw.Velocity += impulse
			case 'w', 'W':
				orbit.Pitch.Velocity += impulse
			case 's', 'S':
				orbit.Pitch.Velocity -= impulse
			case '+', '=':
				orbit.Zoom(0.9)
			case '-', '_':
				orbit.Zoom(1.1)
			case 'x', 'X':
				r.Wireframe = !r.Wireframe
			case 'b', 'B':
				r.ShowBounds = !r.ShowBounds
			case 'r', 'R':
				orbit.Reset()
			case '?':
				hud.show = !hud.show
			case 'q', 'Q', 27, 3, 4: // Esc, Ctrl-C, Ctrl-D
				return false
			}
		}

		orbit.Update(r.Camera)
		fb := r.Frame()

		ap.StartSyncMode()
		ap.ClearScreen()
		if err := ap.ShowScaledImage(fb.ToImage()); err != nil {
			log.Errf("show image: %v", err)
			return false
		}
		hud.UpdateFPS()
		hud.Draw(ap, r)
		ap.EndSyncMode()
		return true
	})
	if err != nil {
		return log.FErrf("main loop: %v", err)
	}
	return 0
}
