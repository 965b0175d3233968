package controls

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taigrr/vitrine/pkg/math3d"
)

type fakeCamera struct {
	pos    math3d.Vec3
	target math3d.Vec3
	looks  int
}

func (c *fakeCamera) GetPosition() math3d.Vec3    { return c.pos }
func (c *fakeCamera) SetPosition(pos math3d.Vec3) { c.pos = pos }
func (c *fakeCamera) LookAt(target math3d.Vec3) {
	c.target = target
	c.looks++
}

// settle runs Update at fps for the given number of seconds.
func settle(o *Orbit, fps int, seconds float64) {
	dt := 1 / float64(fps)
	for range int(seconds * float64(fps)) {
		o.Update(dt)
	}
}

func TestUpdateWithoutInputKeepsCamera(t *testing.T) {
	cam := &fakeCamera{pos: math3d.V3(0, 2, 3)}
	o := NewOrbit(cam, 60)
	o.SetTarget(math3d.Zero3())

	for range 10 {
		o.Update(1.0 / 60)
	}

	assert.Equal(t, math3d.V3(0, 2, 3), cam.pos)
	assert.Equal(t, math3d.Zero3(), cam.target)
	assert.Equal(t, 10, cam.looks)
}

func TestUpdateZeroDeltaHoldsMotion(t *testing.T) {
	cam := &fakeCamera{pos: math3d.V3(0, 0, 5)}
	o := NewOrbit(cam, 60)

	o.Rotate(0.5, 0)
	o.Update(0)
	assert.Equal(t, math3d.V3(0, 0, 5), cam.pos)
	assert.True(t, o.Moving(), "a zero step leaves the impulse pending")
	assert.Equal(t, 1, cam.looks)
}

func TestRotateKeepsDistance(t *testing.T) {
	cam := &fakeCamera{pos: math3d.V3(0, 0, 5)}
	o := NewOrbit(cam, 60)

	o.Rotate(0.2, 0.1)
	for range 5 {
		o.Update(1.0 / 60)
	}

	assert.InDelta(t, 5.0, cam.pos.Len(), 1e-9)
	assert.Greater(t, cam.pos.X, 0.0, "positive azimuth orbits toward +X")
}

func TestRotationDecays(t *testing.T) {
	cam := &fakeCamera{pos: math3d.V3(0, 0, 5)}
	o := NewOrbit(cam, 60)

	o.Rotate(0.5, 0)
	settle(o, 60, 10)
	assert.False(t, o.Moving())

	settled := cam.pos
	o.Update(1.0 / 60)
	assert.Equal(t, settled, cam.pos)
}

func TestRotationIndependentOfFrameRate(t *testing.T) {
	for _, fps := range []int{16, 32, 60, 144} {
		cam := &fakeCamera{pos: math3d.V3(0, 0, 5)}
		// the spring is prepared for 60 fps; other rates rebuild it
		o := NewOrbit(cam, 60)

		o.Rotate(0.5, 0)
		settle(o, fps, 0.25)
		_, early, _ := spherical(cam.pos)

		settle(o, fps, 5)
		_, theta, _ := spherical(cam.pos)

		assert.InDelta(t, 0.5, theta, 1e-3, "%d fps total turn", fps)
		// critically damped, omega 4: 1-(1+omega*t/2)e^-omega*t of the turn at t
		want := 0.5 * (1 - 1.5*math.Exp(-1))
		assert.InDelta(t, want, early, 5e-3, "%d fps after 0.25s", fps)
	}
}

func TestPolarClamp(t *testing.T) {
	cam := &fakeCamera{pos: math3d.V3(0, 0, 5)}
	o := NewOrbit(cam, 60)

	o.Rotate(0, -10)
	settle(o, 60, 5)

	_, _, phi := spherical(cam.pos)
	assert.InDelta(t, o.MinPolar, phi, 1e-9)
}

func TestZoom(t *testing.T) {
	cam := &fakeCamera{pos: math3d.V3(0, 0, 10)}
	o := NewOrbit(cam, 60)
	o.MinDistance = 2
	o.MaxDistance = 12

	o.Zoom(math.Ln2)
	settle(o, 60, 5)
	assert.InDelta(t, 5.0, cam.pos.Len(), 1e-3)

	o.Zoom(-10)
	settle(o, 30, 5)
	assert.InDelta(t, 12.0, cam.pos.Len(), 1e-9)

	o.Zoom(10)
	o.Stop()
	settle(o, 30, 1)
	assert.InDelta(t, 12.0, cam.pos.Len(), 1e-9, "Stop drops the pending zoom")
}

func TestOrbitAroundOffsetTarget(t *testing.T) {
	target := math3d.V3(1, 1, 1)
	cam := &fakeCamera{pos: math3d.V3(1, 1, 4)}
	o := NewOrbit(cam, 60)
	o.SetTarget(target)

	o.Rotate(math.Pi/2, 0)
	settle(o, 60, 5)

	assert.True(t, cam.pos.ApproxEqual(math3d.V3(4, 1, 1), 1e-3), "got %v", cam.pos)
	assert.Equal(t, target, cam.target)
}

func TestSphericalAtTarget(t *testing.T) {
	r, theta, phi := spherical(math3d.Zero3())
	assert.Zero(t, r)
	assert.Zero(t, theta)
	assert.InDelta(t, math.Pi/2, phi, 1e-12)
}
