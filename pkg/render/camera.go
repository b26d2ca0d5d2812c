package render

import (
	"math"

	"github.com/taigrr/deskscene/pkg/math3d"
)

// Camera is a perspective camera looking at a target point.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	FOV    float64 // vertical field of view in degrees
	Aspect float64
	Near   float64
	Far    float64
}

// NewCamera returns a camera framing the desk from the front.
func NewCamera() *Camera {
	return &Camera{
		Position: math3d.V3(0, 12, 22),
		Target:   math3d.V3(0, 7, 0),
		Up:       math3d.V3(0, 1, 0),
		FOV:      45,
		Aspect:   4.0 / 3.0,
		Near:     0.1,
		Far:      100,
	}
}

// SetPosition moves the eye.
func (c *Camera) SetPosition(p math3d.Vec3) {
	c.Position = p
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
}

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(deg float64) {
	c.FOV = deg
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// SetClipPlanes sets the near and far distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near, c.Far = near, far
}

// Orbit places the camera on a sphere around its target; yaw and pitch
// are in radians, yaw 0 looking down -Z.
func (c *Camera) Orbit(yaw, pitch, distance float64) {
	cp := math.Cos(pitch)
	c.Position = c.Target.Add(math3d.V3(
		distance*cp*math.Sin(yaw),
		distance*math.Sin(pitch),
		distance*cp*math.Cos(yaw),
	))
}

// ViewMatrix returns the world to view transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the view to clip transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(math3d.Radians(c.FOV), c.Aspect, c.Near, c.Far)
}

// Apply writes the view, projection and view position uniforms.
func (c *Camera) Apply(u Uniforms, names UniformNames) {
	names = names.WithDefaults()
	u.SetMat4Value(names.View, c.ViewMatrix())
	u.SetMat4Value(names.Projection, c.ProjectionMatrix())
	u.SetVec3Value(names.ViewPosition, c.Position)
}
