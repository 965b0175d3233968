package viewer

import (
	"math"

	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/models"
	"github.com/taigrr/vitrine/pkg/render"
)

// FramingMargin scales the fit distance so the model does not touch the
// edges of the view.
const FramingMargin = 1.5

// Orbiter is the part of the orbit controls the framer needs.
type Orbiter interface {
	SetTarget(target math3d.Vec3)
	Update(dt float64)
}

// Framing records the pose chosen by Frame.
type Framing struct {
	Center   math3d.Vec3
	Size     math3d.Vec3
	MaxDim   float64
	Distance float64
	Position math3d.Vec3
}

// Frame recenters model on the origin and places camera so the whole model
// is visible, looking at the origin from slightly above. A model with no
// extent collapses the camera onto the origin.
func Frame(camera *render.Camera, model *models.Node, controls Orbiter) Framing {
	box := model.WorldBounds()
	f := Framing{
		Center: box.Center(),
		Size:   box.Size(),
	}

	model.Translation = model.Translation.Sub(f.Center)

	f.MaxDim = f.Size.MaxComponent()
	fov := camera.FOVDegrees() * math.Pi / 180
	f.Distance = math.Abs(f.MaxDim/(2*math.Tan(fov/2))) * FramingMargin
	f.Position = math3d.V3(0, f.MaxDim*0.5, f.Distance)

	camera.SetPosition(f.Position)
	camera.LookAt(math3d.Zero3())

	if controls != nil {
		controls.SetTarget(math3d.Zero3())
		controls.Update(0)
	}
	return f
}
