package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.MulVec3(v)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 2, 2)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Inverse()
	}
}

func BenchmarkCompose(b *testing.B) {
	scale := V3(2.75, 3.5, 2.75)
	pos := V3(4, 12.65, -2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Compose(scale, 90, 60, 180, pos)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	view := LookAt(V3(0, 12, 22), V3(0, 7, 0), V3(0, 1, 0))
	proj := Perspective(0.78, 1.333, 0.1, 100.0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = proj.Mul(view)
	}
}
