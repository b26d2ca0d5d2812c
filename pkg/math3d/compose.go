package math3d

import "math"

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Compose builds a model matrix from a scale, per-axis rotations in
// degrees and a translation. The result is
//
//	translate * rotateZ * rotateY * rotateX * scale
//
// so a vertex is scaled first, then rotated about X, Y and Z in that
// order, then moved to position.
func Compose(scale Vec3, xDeg, yDeg, zDeg float64, position Vec3) Mat4 {
	s := Scale(scale)
	rx := RotateX(Radians(xDeg))
	ry := RotateY(Radians(yDeg))
	rz := RotateZ(Radians(zDeg))
	t := Translate(position)
	return t.Mul(rz).Mul(ry).Mul(rx).Mul(s)
}
