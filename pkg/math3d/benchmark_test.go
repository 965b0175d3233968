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

func BenchmarkCompose(b *testing.B) {
	q := QuatFromAxisAngle(Up(), 0.5)

	for b.Loop() {
		_ = Compose(V3(1, 2, 3), q, V3(2, 2, 2))
	}
}

func BenchmarkQuatSlerp(b *testing.B) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(V3(1, 1, 0), 2)

	for b.Loop() {
		_ = q1.Slerp(q2, 0.3)
	}
}
