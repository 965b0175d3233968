// Package animation plays models.Clip data back onto a scene graph.
//
// A Mixer owns one Action per clip and advances their clocks only inside
// Update. The Controller drives every action of a mixer as a single group.
package animation

import "github.com/taigrr/vitrine/pkg/models"

// LoopMode selects what an action does when its clock passes the clip end.
type LoopMode int

const (
	// LoopOnce plays the clip a single time.
	LoopOnce LoopMode = iota
	// LoopRepeat wraps the clock back to the start.
	LoopRepeat
)

// Action is the playback state of one clip inside a Mixer.
type Action struct {
	clip   *models.Clip
	tracks []*models.Track
	mixer  *Mixer

	// Loop is the loop mode; new actions play once.
	Loop LoopMode
	// ClampWhenFinished keeps the last frame applied when a LoopOnce action
	// ends. Without it the action disables itself.
	ClampWhenFinished bool

	time     float64
	enabled  bool
	paused   bool
	running  bool
	finished bool
}

// Clip returns the clip this action plays.
func (a *Action) Clip() *models.Clip {
	return a.clip
}

// Play schedules the action on its mixer. A finished action must be Reset
// before it advances again.
func (a *Action) Play() *Action {
	a.running = true
	return a
}

// Stop deschedules the action and resets it.
func (a *Action) Stop() *Action {
	a.running = false
	return a.Reset()
}

// Reset rewinds the clock to 0 and clears the paused and finished flags.
func (a *Action) Reset() *Action {
	a.time = 0
	a.paused = false
	a.enabled = true
	a.finished = false
	return a
}

// SetEnabled toggles whether the action affects the model.
func (a *Action) SetEnabled(enabled bool) *Action {
	a.enabled = enabled
	return a
}

// SetPaused freezes or releases the action clock.
func (a *Action) SetPaused(paused bool) *Action {
	a.paused = paused
	return a
}

// SetTime moves the action clock.
func (a *Action) SetTime(t float64) *Action {
	a.time = t
	return a
}

// Enabled reports whether the action still affects its nodes. A LoopOnce
// action that ends without ClampWhenFinished disables itself.
func (a *Action) Enabled() bool { return a.enabled }

// Paused reports whether the clock is frozen, either by the caller or by a
// clamped action reaching its end.
func (a *Action) Paused() bool { return a.paused }

// IsRunning reports whether Play was called since the last Stop.
func (a *Action) IsRunning() bool { return a.running }

// Time returns the action clock in seconds.
func (a *Action) Time() float64 { return a.time }

// Finished reports whether a LoopOnce action has reached the end of its clip.
func (a *Action) Finished() bool { return a.finished }

// IsPlaying reports whether the clock is advancing.
func (a *Action) IsPlaying() bool {
	return a.running && a.enabled && !a.paused && !a.finished
}

// advance moves the clock by dt and handles the clip end.
func (a *Action) advance(dt float64) {
	if !a.IsPlaying() {
		return
	}
	a.time += dt

	d := a.clip.Duration
	switch {
	case d <= 0:
		a.time = 0
		if a.Loop == LoopOnce {
			a.finish()
		}
	case a.Loop == LoopRepeat:
		for a.time >= d {
			a.time -= d
		}
		for a.time < 0 {
			a.time += d
		}
	case a.time >= d:
		a.time = d
		a.finish()
	case a.time < 0:
		a.time = 0
		a.finish()
	}
}

func (a *Action) finish() {
	a.finished = true
	if a.ClampWhenFinished {
		a.paused = true
	} else {
		a.enabled = false
	}
}

// apply writes the pose at the current clock to the bound nodes.
func (a *Action) apply() {
	for _, tr := range a.tracks {
		tr.Apply(a.time)
	}
}
