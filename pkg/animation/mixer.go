package animation

import "github.com/taigrr/vitrine/pkg/models"

// Mixer advances a set of actions bound to one scene subtree.
//
// Actions applied later override earlier ones on the same node property;
// there is no weighted blending.
type Mixer struct {
	root    *models.Node
	actions []*Action
	byClip  map[*models.Clip]*Action
	time    float64
}

// NewMixer creates a mixer whose actions may only animate nodes under root.
func NewMixer(root *models.Node) *Mixer {
	return &Mixer{
		root:   root,
		byClip: make(map[*models.Clip]*Action),
	}
}

// Root returns the subtree the mixer animates.
func (m *Mixer) Root() *models.Node {
	return m.root
}

// ClipAction returns the action for clip, creating it on first use. Tracks
// targeting nodes outside the mixer root are dropped.
func (m *Mixer) ClipAction(clip *models.Clip) *Action {
	if a, ok := m.byClip[clip]; ok {
		return a
	}

	inRoot := make(map[*models.Node]bool)
	if m.root != nil {
		m.root.Walk(func(n *models.Node) bool {
			inRoot[n] = true
			return true
		})
	}
	var tracks []*models.Track
	for _, tr := range clip.Tracks {
		if inRoot[tr.Node] {
			tracks = append(tracks, tr)
		}
	}

	a := &Action{
		clip:    clip,
		tracks:  tracks,
		mixer:   m,
		Loop:    LoopOnce,
		enabled: true,
	}
	m.actions = append(m.actions, a)
	m.byClip[clip] = a
	return a
}

// Actions returns every action created so far in creation order.
func (m *Mixer) Actions() []*Action {
	return m.actions
}

// Time returns the mixer clock, the sum of every Update delta since the
// last SetTime.
func (m *Mixer) Time() float64 {
	return m.time
}

// StopAllActions stops every action of the mixer.
func (m *Mixer) StopAllActions() {
	for _, a := range m.actions {
		a.Stop()
	}
}

// Update advances running actions by dt seconds and applies their poses.
// Paused and clamped actions keep applying the pose at their clock.
func (m *Mixer) Update(dt float64) {
	m.time += dt
	for _, a := range m.actions {
		if !a.running {
			continue
		}
		a.advance(dt)
		if a.enabled {
			a.apply()
		}
	}
}

// SetTime rewinds the mixer and every action to 0, then advances by t.
func (m *Mixer) SetTime(t float64) {
	m.time = 0
	for _, a := range m.actions {
		a.time = 0
	}
	m.Update(t)
}

// Evaluate applies the pose of a at its current clock whether or not the
// action is running.
func (m *Mixer) Evaluate(a *Action) {
	if a == nil || a.mixer != m {
		return
	}
	a.apply()
}
