package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order, the layout used by
// OpenGL uniforms and glTF node matrices. Element (row r, column c) lives
// at index c*4+r.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4FromSlice builds a matrix from 16 column-major values.
// Missing values are taken from the identity matrix.
func Mat4FromSlice(s []float64) Mat4 {
	m := Identity()
	copy(m[:], s)
	return m
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float64 {
	return m[c*4+r]
}

// Translate returns a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
	return m
}

// Scale returns a scaling matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0] = v.X
	m[5] = v.Y
	m[10] = v.Z
	return m
}

// RotateX returns a rotation of angle radians about the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[5] = c
	m[6] = s
	m[9] = -s
	m[10] = c
	return m
}

// RotateY returns a rotation of angle radians about the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[0] = c
	m[2] = -s
	m[8] = s
	m[10] = c
	return m
}

// RotateZ returns a rotation of angle radians about the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// QuatToMat4 converts a unit quaternion (x, y, z, w) to a rotation matrix.
func QuatToMat4(x, y, z, w float64) Mat4 {
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// Mul returns the matrix product m * b. Applied to a vector, b acts first.
func (m Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for c := range 4 {
		for r := range 4 {
			var sum float64
			for k := range 4 {
				sum += m[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms a point (w = 1), dividing by w when it is not 1.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	r := m.MulVec4(V4FromV3(v, 1))
	if r.W != 1 && r.W != 0 {
		return Vec3{r.X / r.W, r.Y / r.W, r.Z / r.W}
	}
	return r.Vec3()
}

// MulVec3Dir transforms a direction (w = 0), ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for c := range 4 {
		for r := range 4 {
			out[r*4+c] = m[c*4+r]
		}
	}
	return out
}

// Inverse returns the inverse matrix, or the identity if m is singular.
func (m Mat4) Inverse() Mat4 {
	var inv Mat4
	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if det == 0 {
		return Identity()
	}
	det = 1 / det
	for i := range inv {
		inv[i] *= det
	}
	return inv
}

// NormalMatrix returns the inverse transpose of m, which keeps normals
// perpendicular to surfaces under non-uniform scaling.
func (m Mat4) NormalMatrix() Mat4 {
	return m.Inverse().Transpose()
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Perspective returns a right-handed OpenGL projection matrix.
// fovY is the vertical field of view in radians.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovY/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m
}

// LookAt returns a view matrix for an eye looking at target.
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}
