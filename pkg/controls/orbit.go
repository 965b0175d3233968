// Package controls moves a camera around a target point in response to
// user input.
package controls

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/vitrine/pkg/math3d"
)

// Camera is what the orbit controls drive.
type Camera interface {
	GetPosition() math3d.Vec3
	SetPosition(pos math3d.Vec3)
	LookAt(target math3d.Vec3)
}

// Spring constants for the velocity decay. With a critically damped spring
// a velocity v0 covers 2*v0/angularFrequency before it settles.
const (
	angularFrequency = 4.0
	dampingRatio     = 1.0
)

// Axis is one damped orbit parameter. Velocity, in units per second, is
// integrated every Update and decays toward zero on a critically damped
// spring, independent of the frame rate.
type Axis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
	springDT  float64
}

// NewAxis creates an axis whose spring is prepared for the given frame
// rate. Other frame durations are handled as they arrive.
func NewAxis(fps int) Axis {
	dt := harmonica.FPS(fps)
	return Axis{
		velSpring: harmonica.NewSpring(dt, angularFrequency, dampingRatio),
		springDT:  dt,
	}
}

// push adds an impulse that moves the axis by amount in total once the
// motion has settled.
func (a *Axis) push(amount float64) {
	a.Velocity += amount * angularFrequency / 2
}

// step advances the axis by dt seconds and returns how far it moved.
func (a *Axis) step(dt float64) float64 {
	if dt <= 0 || a.Velocity == 0 {
		return 0
	}
	if dt != a.springDT {
		a.velSpring = harmonica.NewSpring(dt, angularFrequency, dampingRatio)
		a.springDT = dt
	}
	v0 := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	moved := (v0 + a.Velocity) / 2 * dt
	if math.Abs(a.Velocity) < 1e-6 {
		a.Velocity, a.velAccel = 0, 0
	}
	return moved
}

func (a *Axis) stop() {
	a.Velocity, a.velAccel = 0, 0
}

// Orbit keeps a camera on a sphere around Target. Rotation and zoom input
// is damped: the camera glides to the requested pose over about a second,
// whatever the frame rate.
type Orbit struct {
	camera Camera
	Target math3d.Vec3

	// MinPolar and MaxPolar bound the angle from the up axis.
	MinPolar, MaxPolar float64
	// MinDistance and MaxDistance bound the radius. MaxDistance 0 means
	// unbounded.
	MinDistance, MaxDistance float64

	azimuth Axis
	polar   Axis
	zoom    Axis
}

// NewOrbit creates controls for camera. fps is the expected update rate.
func NewOrbit(camera Camera, fps int) *Orbit {
	if fps <= 0 {
		fps = 60
	}
	return &Orbit{
		camera:   camera,
		MinPolar: 0.01,
		MaxPolar: math.Pi - 0.01,
		azimuth:  NewAxis(fps),
		polar:    NewAxis(fps),
		zoom:     NewAxis(fps),
	}
}

// SetTarget moves the orbit center. The camera is repositioned on the next
// Update.
func (o *Orbit) SetTarget(target math3d.Vec3) {
	o.Target = target
}

// Rotate turns the camera by azimuth and polar radians, spread over the
// damped motion. Positive azimuth orbits to the right, positive polar tilts
// the camera down toward the horizon.
func (o *Orbit) Rotate(azimuth, polar float64) {
	o.azimuth.push(azimuth)
	o.polar.push(polar)
}

// Zoom scales the distance to the target by e^-amount, spread over the
// damped motion. Positive values move the camera closer.
func (o *Orbit) Zoom(amount float64) {
	o.zoom.push(amount)
}

// Stop drops any pending motion.
func (o *Orbit) Stop() {
	o.azimuth.stop()
	o.polar.stop()
	o.zoom.stop()
}

// Moving reports whether damped motion is still in progress.
func (o *Orbit) Moving() bool {
	return o.azimuth.Velocity != 0 || o.polar.Velocity != 0 || o.zoom.Velocity != 0
}

// Update applies dt seconds of damped motion and points the camera at the
// target. Without pending input, or with dt <= 0, the camera position is
// preserved.
func (o *Orbit) Update(dt float64) {
	offset := o.camera.GetPosition().Sub(o.Target)
	radius, theta, phi := spherical(offset)

	dTheta := o.azimuth.step(dt)
	dPhi := o.polar.step(dt)
	dZoom := o.zoom.step(dt)

	if dTheta != 0 || dPhi != 0 || dZoom != 0 {
		theta += dTheta
		phi = clamp(phi+dPhi, o.MinPolar, o.MaxPolar)
		radius *= math.Exp(-dZoom)
		radius = math.Max(radius, o.MinDistance)
		if o.MaxDistance > 0 {
			radius = math.Min(radius, o.MaxDistance)
		}
		o.camera.SetPosition(o.Target.Add(cartesian(radius, theta, phi)))
	}
	o.camera.LookAt(o.Target)
}

// spherical converts an offset from the target to radius, azimuth around
// +Y measured from +Z, and polar angle from +Y.
func spherical(v math3d.Vec3) (radius, theta, phi float64) {
	radius = v.Len()
	if radius == 0 {
		return 0, 0, math.Pi / 2
	}
	theta = math.Atan2(v.X, v.Z)
	phi = math.Acos(clamp(v.Y/radius, -1, 1))
	return radius, theta, phi
}

func cartesian(radius, theta, phi float64) math3d.Vec3 {
	s := math.Sin(phi) * radius
	return math3d.V3(s*math.Sin(theta), math.Cos(phi)*radius, s*math.Cos(theta))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
