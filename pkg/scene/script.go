package scene

import (
	"github.com/taigrr/deskscene/pkg/math3d"
	"github.com/taigrr/deskscene/pkg/models"
)

// Transform places a mesh: scale first, then rotation about X, Y and Z in
// degrees, then translation.
type Transform struct {
	Scale    math3d.Vec3
	Rotation math3d.Vec3 // degrees about X, Y, Z
	Position math3d.Vec3
}

// Matrix returns the composed model matrix.
func (t Transform) Matrix() math3d.Mat4 {
	return math3d.Compose(t.Scale, t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Position)
}

// Step is one draw call of the render script. Optional settings that are
// nil or empty leave the previous step's uniform values in place.
type Step struct {
	Object    string
	Part      string
	Mesh      models.Kind
	Transform Transform
	Color     *math3d.Vec4
	Texture   string
	UVScale   *math3d.Vec2
	Material  string
}

func rgba(r, g, b, a float64) *math3d.Vec4 {
	v := math3d.V4(r, g, b, a)
	return &v
}

func uv(u, v float64) *math3d.Vec2 {
	s := math3d.V2(u, v)
	return &s
}

func place(scale, rot, pos math3d.Vec3) Transform {
	return Transform{Scale: scale, Rotation: rot, Position: pos}
}

// Script returns the render steps of the desk scene in draw order.
func Script() []Step {
	v3 := math3d.V3
	zero := math3d.Zero3()

	steps := []Step{
		{
			Object:    "AirFreshener",
			Part:      "body",
			Mesh:      models.TaperedCylinder,
			Transform: place(v3(1.2, 2, 1.2), zero, v3(2.75, 7.1, 5)),
			Color:     rgba(0.5, 0.7, 0.5, 1),
			Material:  "airFreshener",
		},
		{
			Object:    "Backdrop",
			Part:      "wall",
			Mesh:      models.Plane,
			Transform: place(v3(50, 1, 30), v3(90, 0, 0), v3(0, 10, -10)),
			Color:     rgba(0.5, 0.79, 0.61, 1),
			Texture:   "wall",
			UVScale:   uv(4, 4),
			Material:  "wall",
		},
		{
			Object:    "Book",
			Part:      "cover",
			Mesh:      models.Box,
			Transform: place(v3(4, 0.4, 5.5), v3(0, -195, 0), v3(-1.5, 7.2, 4)),
			Material:  "bookCover",
		},
		{
			Object:    "Floor",
			Part:      "floor",
			Mesh:      models.Plane,
			Transform: place(v3(50, 1, 30), zero, zero),
			Texture:   "floor",
			UVScale:   uv(1, 1),
			Material:  "floor",
		},
		{
			Object:    "GlassesCase",
			Part:      "case",
			Mesh:      models.TriangularPrism,
			Transform: place(v3(1.5, 4.5, 1.5), v3(90, 60, 180), v3(-1, 7.1, -2)),
			Color:     rgba(0.4, 0.4, 0.4, 1),
			Material:  "grayBlackLeather",
		},
	}

	lamp := []struct {
		part  string
		mesh  models.Kind
		scale math3d.Vec3
		y     float64
	}{
		{"base", models.Cylinder, v3(2, 0.5, 2), 7},
		{"base taper", models.TaperedCylinder, v3(1.75, 1.25, 1.75), 7.5},
		{"collar", models.Cylinder, v3(1, 0.5, 1), 8.25},
		{"neck", models.Cylinder, v3(0.75, 0.8, 0.75), 8.75},
		{"cap", models.Cylinder, v3(1, 0.1, 1), 9.55},
		{"stem", models.Cylinder, v3(0.15, 5, 0.15), 9.65},
	}
	for _, p := range lamp {
		steps = append(steps, Step{
			Object:    "Lamp",
			Part:      p.part,
			Mesh:      p.mesh,
			Transform: place(p.scale, zero, v3(4, p.y, -2)),
			Texture:   "stone",
			Material:  "metal",
		})
	}
	steps = append(steps, Step{
		Object:    "Lamp",
		Part:      "shade",
		Mesh:      models.HalfSphere,
		Transform: place(v3(2.75, 3.5, 2.75), zero, v3(4, 12.65, -2)),
		Texture:   "lampshade",
		Material:  "glass",
	})

	tableColor := rgba(0.15, 0.15, 0.15, 1)
	steps = append(steps, Step{
		Object:    "Table",
		Part:      "top",
		Mesh:      models.Cylinder,
		Transform: place(v3(8, 0.2, 8), zero, v3(0, 6.9, 0)),
		Color:     tableColor,
		Material:  "table",
	})
	for _, leg := range []math3d.Vec3{v3(5, 0, 5), v3(-5, 0, 5), v3(5, 0, -5), v3(-5, 0, -5)} {
		steps = append(steps, Step{
			Object:    "Table",
			Part:      "leg",
			Mesh:      models.Cylinder,
			Transform: place(v3(0.1, 6.9, 0.1), zero, leg),
			Color:     tableColor,
			Material:  "table",
		})
	}
	return steps
}
