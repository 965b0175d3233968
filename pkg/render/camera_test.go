package render

import (
	"math"
	"testing"

	"github.com/taigrr/vitrine/pkg/math3d"
)

func TestCameraLookAt(t *testing.T) {
	tests := []struct {
		name string
		pos  math3d.Vec3
		want math3d.Vec3
	}{
		{"front", math3d.V3(0, 0, 5), math3d.V3(0, 0, -1)},
		{"right", math3d.V3(5, 0, 0), math3d.V3(-1, 0, 0)},
		{"above", math3d.V3(0, 3, 4), math3d.V3(0, -0.6, -0.8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera()
			cam.SetPosition(tt.pos)
			cam.LookAt(math3d.Zero3())
			if got := cam.Forward(); !got.ApproxEqual(tt.want, 1e-9) {
				t.Errorf("Forward() = %v, want %v", got, tt.want)
			}

			// the target lands in the middle of the view
			clip := cam.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(math3d.Zero3(), 1))
			if math.Abs(clip.X/clip.W) > 1e-9 || math.Abs(clip.Y/clip.W) > 1e-9 {
				t.Errorf("target projects to (%f, %f), want center", clip.X/clip.W, clip.Y/clip.W)
			}
		})
	}
}

func TestCameraAspectUpdatesProjection(t *testing.T) {
	cam := NewCamera()
	cam.SetFOVDegrees(90)
	cam.SetAspectRatio(1)
	square := cam.ProjectionMatrix()

	cam.SetAspectRatio(2)
	wide := cam.ProjectionMatrix()

	if math.Abs(wide[0]-square[0]/2) > 1e-12 {
		t.Errorf("x scale = %f, want %f", wide[0], square[0]/2)
	}
	if math.Abs(cam.FOVDegrees()-90) > 1e-9 {
		t.Errorf("FOVDegrees() = %f, want 90", cam.FOVDegrees())
	}
}
