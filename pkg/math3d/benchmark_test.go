package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkRotateAxis(b *testing.B) {
	axis := V3(0.3, 1, 0.2)

	for b.Loop() {
		_ = Rotate(axis, 1.25)
	}
}

func BenchmarkLookAt(b *testing.B) {
	eye := V3(0, 0, 10)
	target := V3(0, 0, 0)
	up := V3(0, 1, 0)

	for b.Loop() {
		_ = LookAt(eye, target, up)
	}
}

func BenchmarkModelViewProjection(b *testing.B) {
	// One entity's clip transform as the software device builds it per draw.
	view := LookAt(V3(0, 5, 12), V3(0, 0, 0), V3(0, 1, 0))
	proj := Perspective(0.785, 1.777, 0.1, 100.0)
	model := Translate(V3(3, 0, 1)).Mul(ScaleUniform(0.5)).Mul(RotateY(0.7))

	for b.Loop() {
		_ = proj.Mul(view).Mul(model)
	}
}
