package models

import (
	"sort"

	"github.com/taigrr/vitrine/pkg/math3d"
)

// TrackPath names the node property a track animates.
type TrackPath int

const (
	PathTranslation TrackPath = iota
	PathRotation
	PathScale
)

func (p TrackPath) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Components returns how many floats one keyframe value holds.
func (p TrackPath) Components() int {
	if p == PathRotation {
		return 4
	}
	return 3
}

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// Track is the keyframe data for one property of one node.
//
// Values holds Components() floats per key; for cubic spline tracks every key
// stores in-tangent, value and out-tangent in that order.
type Track struct {
	Node          *Node
	Path          TrackPath
	Interpolation Interpolation
	Times         []float64
	Values        []float64
}

// Duration returns the time of the last keyframe.
func (tr *Track) Duration() float64 {
	if len(tr.Times) == 0 {
		return 0
	}
	return tr.Times[len(tr.Times)-1]
}

// value returns component c of the value at key k.
func (tr *Track) value(k, c int) float64 {
	n := tr.Path.Components()
	if tr.Interpolation == InterpolationCubicSpline {
		return tr.Values[k*3*n+n+c]
	}
	return tr.Values[k*n+c]
}

// tangent returns component c of the in (out=false) or out tangent at key k.
func (tr *Track) tangent(k, c int, out bool) float64 {
	n := tr.Path.Components()
	off := 0
	if out {
		off = 2 * n
	}
	return tr.Values[k*3*n+off+c]
}

// Sample evaluates the track at time t. Times before the first key or after
// the last clamp to the end values. The result has Components() entries.
func (tr *Track) Sample(t float64) []float64 {
	n := tr.Path.Components()
	out := make([]float64, n)
	keys := len(tr.Times)
	if keys == 0 {
		return out
	}

	if t <= tr.Times[0] || keys == 1 {
		for c := range n {
			out[c] = tr.value(0, c)
		}
		return out
	}
	if t >= tr.Times[keys-1] {
		for c := range n {
			out[c] = tr.value(keys-1, c)
		}
		return out
	}

	i := sort.Search(keys, func(k int) bool { return tr.Times[k] > t }) - 1
	dt := tr.Times[i+1] - tr.Times[i]
	u := (t - tr.Times[i]) / dt

	switch tr.Interpolation {
	case InterpolationStep:
		for c := range n {
			out[c] = tr.value(i, c)
		}
	case InterpolationCubicSpline:
		u2, u3 := u*u, u*u*u
		h00 := 2*u3 - 3*u2 + 1
		h10 := u3 - 2*u2 + u
		h01 := -2*u3 + 3*u2
		h11 := u3 - u2
		for c := range n {
			out[c] = h00*tr.value(i, c) +
				h10*dt*tr.tangent(i, c, true) +
				h01*tr.value(i+1, c) +
				h11*dt*tr.tangent(i+1, c, false)
		}
		if tr.Path == PathRotation {
			q := math3d.Quat{X: out[0], Y: out[1], Z: out[2], W: out[3]}.Normalize()
			out[0], out[1], out[2], out[3] = q.X, q.Y, q.Z, q.W
		}
	default:
		if tr.Path == PathRotation {
			a := math3d.Quat{X: tr.value(i, 0), Y: tr.value(i, 1), Z: tr.value(i, 2), W: tr.value(i, 3)}
			b := math3d.Quat{X: tr.value(i+1, 0), Y: tr.value(i+1, 1), Z: tr.value(i+1, 2), W: tr.value(i+1, 3)}
			q := a.Slerp(b, u)
			out[0], out[1], out[2], out[3] = q.X, q.Y, q.Z, q.W
			return out
		}
		for c := range n {
			a, b := tr.value(i, c), tr.value(i+1, c)
			out[c] = a + (b-a)*u
		}
	}
	return out
}

// Apply samples the track at t and writes the result to the target node.
func (tr *Track) Apply(t float64) {
	if tr.Node == nil {
		return
	}
	v := tr.Sample(t)
	switch tr.Path {
	case PathTranslation:
		tr.Node.Translation = math3d.V3(v[0], v[1], v[2])
	case PathRotation:
		tr.Node.Rotation = math3d.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}.Normalize()
	case PathScale:
		tr.Node.Scale = math3d.V3(v[0], v[1], v[2])
	}
	// Animated nodes are driven through TRS only.
	tr.Node.Matrix = nil
}

// Clip is a named set of tracks played together.
type Clip struct {
	Name     string
	Duration float64
	Tracks   []*Track
}

// NewClip creates a clip whose duration is the latest keyframe of any track.
func NewClip(name string, tracks []*Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	for _, tr := range tracks {
		c.Duration = max(c.Duration, tr.Duration())
	}
	return c
}
