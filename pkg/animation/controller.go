package animation

import "github.com/taigrr/vitrine/pkg/models"

// State is the playback state of the whole action group.
type State int

const (
	// StateIdle means no actions exist yet, or the asset had no clips.
	StateIdle State = iota
	// StateReady means actions exist and none has been started.
	StateReady
	// StatePlaying means every action was restarted from time 0.
	StatePlaying
	// StateReset means every action shows frame 0 and is stopped.
	StateReset
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StateReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Controller exposes play and reset over every action of one mixer.
// There is no per-action control.
type Controller struct {
	mixer   *Mixer
	actions []*Action
	state   State
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{}
}

// Setup binds the controller to mixer and wraps every clip in a play-once
// action that clamps on its last frame. It returns whether play and reset
// controls should be shown, which is only the case for a non-empty clip list.
func (c *Controller) Setup(clips []*models.Clip, mixer *Mixer) bool {
	c.mixer = mixer
	if mixer == nil || len(clips) == 0 {
		return false
	}

	c.actions = make([]*Action, 0, len(clips))
	for _, clip := range clips {
		a := mixer.ClipAction(clip)
		a.Loop = LoopOnce
		a.ClampWhenFinished = true
		c.actions = append(c.actions, a)
	}
	c.state = StateReady
	return true
}

// PlayAll restarts every action from time 0. Calling it again restarts
// them again.
func (c *Controller) PlayAll() {
	if c.mixer == nil || len(c.actions) == 0 {
		return
	}

	c.mixer.StopAllActions()
	for _, a := range c.actions {
		a.Reset()
		a.Play()
	}
	c.state = StatePlaying
}

// ResetAll poses the model at frame 0 of every clip and leaves every action
// stopped at time 0.
func (c *Controller) ResetAll() {
	if c.mixer == nil || len(c.actions) == 0 {
		return
	}

	c.mixer.StopAllActions()
	c.mixer.SetTime(0)
	for _, a := range c.actions {
		a.SetEnabled(true)
		a.SetPaused(true)
		a.Reset()
		c.mixer.Evaluate(a)
	}
	c.mixer.SetTime(0)
	for _, a := range c.actions {
		a.Stop()
	}
	c.state = StateReset
}

// State returns the current group state.
func (c *Controller) State() State {
	return c.state
}

// Actions returns the wrapped actions in clip order.
func (c *Controller) Actions() []*Action {
	return c.actions
}

// Mixer returns the mixer passed to Setup.
func (c *Controller) Mixer() *Mixer {
	return c.mixer
}

// HasActions reports whether play and reset have anything to drive.
func (c *Controller) HasActions() bool {
	return len(c.actions) > 0
}
