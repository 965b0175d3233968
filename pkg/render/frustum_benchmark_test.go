package render

import (
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/vitrine/pkg/math3d"
)

// BenchmarkFrustumExtract benchmarks frustum plane extraction from view-projection matrix.
func BenchmarkFrustumExtract(b *testing.B) {
	proj := math3d.Perspective(math.Pi/4, 16.0/9.0, 0.1, 1000)
	viewProj := proj.Mul(math3d.Identity())

	for b.Loop() {
		_ = NewFrustumFromMatrix(viewProj)
	}
}

// BenchmarkAABBIntersection benchmarks AABB vs frustum intersection test.
func BenchmarkAABBIntersection(b *testing.B) {
	proj := math3d.Perspective(math.Pi/4, 16.0/9.0, 0.1, 1000)
	frustum := NewFrustumFromMatrix(proj)

	visible := math3d.NewAABB(math3d.V3(-1, -1, -15), math3d.V3(1, 1, -5))
	b.Run("visible", func(b *testing.B) {
		for b.Loop() {
			_ = frustum.IntersectAABB(visible)
		}
	})

	behind := math3d.NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 15))
	b.Run("culled", func(b *testing.B) {
		for b.Loop() {
			_ = frustum.IntersectAABB(behind)
		}
	})
}

// BenchmarkTransformAABB benchmarks moving a mesh box into world space.
func BenchmarkTransformAABB(b *testing.B) {
	local := math3d.NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	transform := math3d.Translate(math3d.V3(10, 5, -20)).
		Mul(math3d.RotateY(0.5)).
		Mul(math3d.Scale(math3d.V3(2, 2, 2)))

	for b.Loop() {
		_ = local.Transform(transform)
	}
}

// BenchmarkCullingScenario culls 100 node boxes scattered around a framed
// camera, the way a multi-node asset is drawn each frame.
func BenchmarkCullingScenario(b *testing.B) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 10, 20))
	cam.LookAt(math3d.Zero3())
	frustum := cam.Frustum()

	rng := rand.New(rand.NewSource(42))
	local := math3d.NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	transforms := make([]math3d.Mat4, 100)
	for i := range transforms {
		x := rng.Float64()*100 - 50
		y := rng.Float64() * 10
		z := rng.Float64()*100 - 50
		transforms[i] = math3d.Translate(math3d.V3(x, y, z))
	}

	for b.Loop() {
		visible := 0
		for _, m := range transforms {
			if frustum.IntersectAABB(local.Transform(m)) {
				visible++
			}
		}
		_ = visible
	}
}
