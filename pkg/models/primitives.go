package models

import (
	"math"

	"github.com/taigrr/deskscene/pkg/math3d"
)

// DefaultSegments is the radial resolution used for round primitives.
const DefaultSegments = 32

// All primitives share the same conventions: faces wind counter-clockwise
// when seen from outside, round shapes sweep their angle from +X towards -Z,
// and upright shapes stand on y = 0 so a translation places their base.

// NewBox returns a unit cube centered on the origin.
func NewBox() *Mesh {
	m := NewMesh("box")
	x, y, z := math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)
	addQuadFace(m, z, x, y, 0.5)                   // front
	addQuadFace(m, z.Negate(), x.Negate(), y, 0.5) // back
	addQuadFace(m, x, z.Negate(), y, 0.5)          // right
	addQuadFace(m, x.Negate(), z, y, 0.5)          // left
	addQuadFace(m, y, x, z.Negate(), 0.5)          // top
	addQuadFace(m, y.Negate(), x, z, 0.5)          // bottom
	m.CalculateBounds()
	return m
}

// NewPlane returns a 2x2 plane in XZ facing +Y.
func NewPlane() *Mesh {
	m := NewMesh("plane")
	addQuadFace(m, math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), 1)
	m.CalculateBounds()
	return m
}

// addQuadFace appends a square face spanned by the unit axes u and v, whose
// normal is u × v. The face sits at center scaled by half, and half is also
// its half-extent along each axis.
func addQuadFace(m *Mesh, center, u, v math3d.Vec3, half float64) {
	n := u.Cross(v).Normalize()
	c := center.Scale(half)
	hu, hv := u.Scale(half), v.Scale(half)
	a := m.AddVertex(c.Sub(hu).Sub(hv), n, math3d.V2(0, 0))
	b := m.AddVertex(c.Add(hu).Sub(hv), n, math3d.V2(1, 0))
	cc := m.AddVertex(c.Add(hu).Add(hv), n, math3d.V2(1, 1))
	d := m.AddVertex(c.Sub(hu).Add(hv), n, math3d.V2(0, 1))
	m.AddQuad(a, b, cc, d)
}

// NewCylinder returns a closed cylinder of radius 1 spanning y = 0..1.
func NewCylinder(segments int) *Mesh {
	m := newFrustum("cylinder", 1, 1, segments)
	m.CalculateBounds()
	return m
}

// NewTaperedCylinder returns a closed cylinder whose radius narrows from 1
// at the base to 0.5 at the top, spanning y = 0..1.
func NewTaperedCylinder(segments int) *Mesh {
	m := newFrustum("tapered_cylinder", 1, 0.5, segments)
	m.CalculateBounds()
	return m
}

func newFrustum(name string, bottom, top float64, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	m := NewMesh(name)
	slope := bottom - top // outward tilt of the side normal for height 1

	// Side wall, with a duplicated seam column so u runs 0..1.
	base := len(m.Vertices)
	for i := 0; i <= segments; i++ {
		u := float64(i) / float64(segments)
		c, s := ringDir(u)
		n := math3d.V3(c, slope, -s).Normalize()
		m.AddVertex(math3d.V3(bottom*c, 0, -bottom*s), n, math3d.V2(u, 0))
		m.AddVertex(math3d.V3(top*c, 1, -top*s), n, math3d.V2(u, 1))
	}
	for i := range segments {
		b0, t0 := base+2*i, base+2*i+1
		b1, t1 := base+2*i+2, base+2*i+3
		m.AddQuad(b0, b1, t1, t0)
	}

	addDisc(m, 1, top, segments, true)
	addDisc(m, 0, bottom, segments, false)
	return m
}

// addDisc appends a cap at height y, facing +Y when up is set.
func addDisc(m *Mesh, y, radius float64, segments int, up bool) {
	n := math3d.V3(0, -1, 0)
	if up {
		n = math3d.V3(0, 1, 0)
	}
	center := m.AddVertex(math3d.V3(0, y, 0), n, math3d.V2(0.5, 0.5))
	first := len(m.Vertices)
	for i := range segments {
		c, s := ringDir(float64(i) / float64(segments))
		m.AddVertex(math3d.V3(radius*c, y, -radius*s), n, math3d.V2(0.5+0.5*c, 0.5+0.5*s))
	}
	for i := range segments {
		a := first + i
		b := first + (i+1)%segments
		if up {
			m.AddTriangle(center, a, b)
		} else {
			m.AddTriangle(center, b, a)
		}
	}
}

// ringDir returns the cosine and sine of the angle for fraction u of a turn.
func ringDir(u float64) (float64, float64) {
	theta := 2 * math.Pi * u
	return math.Cos(theta), math.Sin(theta)
}

// NewSphere returns a UV sphere of radius 1 centered on the origin.
func NewSphere(segments int) *Mesh {
	m := newSphereSection("sphere", segments, segments/2, math.Pi)
	m.CalculateBounds()
	return m
}

// NewHalfSphere returns the upper hemisphere of radius 1, spanning
// y = 0..1, closed by a disc at its base.
func NewHalfSphere(segments int) *Mesh {
	m := newSphereSection("half_sphere", segments, segments/4, math.Pi/2)
	addDisc(m, 0, 1, max(segments, 3), false)
	m.CalculateBounds()
	return m
}

// newSphereSection sweeps latitude from the north pole down to maxPhi.
func newSphereSection(name string, segments, rings int, maxPhi float64) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 1 {
		rings = 1
	}
	m := NewMesh(name)
	stride := segments + 1
	for j := 0; j <= rings; j++ {
		phi := maxPhi * float64(j) / float64(rings)
		sp, cp := math.Sin(phi), math.Cos(phi)
		for i := 0; i <= segments; i++ {
			u := float64(i) / float64(segments)
			c, s := ringDir(u)
			p := math3d.V3(sp*c, cp, -sp*s)
			m.AddVertex(p, p, math3d.V2(u, 1-float64(j)/float64(rings)))
		}
	}
	southPole := maxPhi >= math.Pi
	for j := range rings {
		for i := range segments {
			d := j*stride + i // upper ring
			c := d + 1
			a := (j+1)*stride + i // lower ring
			b := a + 1
			switch {
			case j == 0:
				m.AddTriangle(a, b, c)
			case southPole && j == rings-1:
				m.AddTriangle(a, c, d)
			default:
				m.AddQuad(a, b, c, d)
			}
		}
	}
	return m
}

// NewTriangularPrism returns a prism whose triangular cross-section lies
// in XZ within the unit square and whose length runs along Y from -0.5 to
// 0.5.
func NewTriangularPrism() *Mesh {
	m := NewMesh("triangular_prism")
	// Cross-section corners, counter-clockwise seen from +Y.
	corners := [3]math3d.Vec3{
		math3d.V3(-0.5, 0, 0.5),
		math3d.V3(0.5, 0, 0.5),
		math3d.V3(0, 0, -0.5),
	}
	up := math3d.V3(0, 1, 0)
	for k := range 3 {
		p0, p1 := corners[k], corners[(k+1)%3]
		n := p1.Sub(p0).Cross(up).Normalize()
		a := m.AddVertex(p0.Add(math3d.V3(0, -0.5, 0)), n, math3d.V2(0, 0))
		b := m.AddVertex(p1.Add(math3d.V3(0, -0.5, 0)), n, math3d.V2(1, 0))
		c := m.AddVertex(p1.Add(math3d.V3(0, 0.5, 0)), n, math3d.V2(1, 1))
		d := m.AddVertex(p0.Add(math3d.V3(0, 0.5, 0)), n, math3d.V2(0, 1))
		m.AddQuad(a, b, c, d)
	}
	for _, y := range []float64{0.5, -0.5} {
		n := math3d.V3(0, math.Copysign(1, y), 0)
		var idx [3]int
		for k, p := range corners {
			idx[k] = m.AddVertex(math3d.V3(p.X, y, p.Z), n, math3d.V2(p.X+0.5, 0.5-p.Z))
		}
		if y > 0 {
			m.AddTriangle(idx[0], idx[1], idx[2])
		} else {
			m.AddTriangle(idx[0], idx[2], idx[1])
		}
	}
	m.CalculateBounds()
	return m
}
