// Package math3d provides the vector and matrix types used by the scene
// and the rasterizer.
package math3d

import "math"

// Vec3 represents a 3D vector or point.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// One3 returns the vector (1, 1, 1), the neutral scale.
func One3() Vec3 {
	return Vec3{1, 1, 1}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Mul returns the component-wise product a * b.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length of the vector.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// LenSq returns the squared length.
func (a Vec3) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Normalize returns the unit vector, or zero for a zero-length input.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Lerp returns linear interpolation between a and b.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Reflect reflects the incident vector a about normal n (GLSL reflect).
func (a Vec3) Reflect(n Vec3) Vec3 {
	return a.Sub(n.Scale(2 * a.Dot(n)))
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Len()
}

// ApproxEqual reports whether all components differ by at most eps.
func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
