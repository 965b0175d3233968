package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/models"
)

// slide builds a root with one node and a clip moving it along +X from
// from to to over duration seconds.
func slide(from, to, duration float64) (*models.Node, *models.Node, *models.Clip) {
	root := models.NewNode("root")
	n := models.NewNode("mover")
	root.Add(n)
	clip := models.NewClip("slide", []*models.Track{{
		Node:   n,
		Path:   models.PathTranslation,
		Times:  []float64{0, duration},
		Values: []float64{from, 0, 0, to, 0, 0},
	}})
	return root, n, clip
}

func TestSetupEmptyClips(t *testing.T) {
	root, _, _ := slide(0, 1, 1)
	c := NewController()

	assert.False(t, c.Setup(nil, NewMixer(root)))
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.HasActions())

	// No actions: both operations do nothing.
	c.PlayAll()
	c.ResetAll()
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerWithoutMixer(t *testing.T) {
	c := NewController()
	c.PlayAll()
	c.ResetAll()
	assert.Equal(t, StateIdle, c.State())
}

func TestSetupConfiguresActions(t *testing.T) {
	root, _, clip := slide(0, 1, 1)
	c := NewController()

	require.True(t, c.Setup([]*models.Clip{clip}, NewMixer(root)))
	assert.Equal(t, StateReady, c.State())
	require.Len(t, c.Actions(), 1)

	a := c.Actions()[0]
	assert.Equal(t, LoopOnce, a.Loop)
	assert.True(t, a.ClampWhenFinished)
	assert.False(t, a.IsRunning())
}

func TestPlayAllIsIdempotentRestart(t *testing.T) {
	root, n, clip := slide(0, 2, 2)
	mixer := NewMixer(root)
	c := NewController()
	c.Setup([]*models.Clip{clip}, mixer)

	c.PlayAll()
	mixer.Update(1)
	assert.InDelta(t, 1.0, n.Translation.X, 1e-9)

	for range 2 {
		c.PlayAll()
		assert.Equal(t, StatePlaying, c.State())
		for _, a := range c.Actions() {
			assert.True(t, a.IsPlaying())
			assert.Zero(t, a.Time())
		}
	}
}

func TestLoopOnceClampsAtEnd(t *testing.T) {
	root, n, clip := slide(0, 2, 1)
	mixer := NewMixer(root)
	c := NewController()
	c.Setup([]*models.Clip{clip}, mixer)
	c.PlayAll()

	mixer.Update(0.4)
	mixer.Update(5)

	a := c.Actions()[0]
	assert.True(t, a.Finished())
	assert.True(t, a.Paused())
	assert.InDelta(t, 1.0, a.Time(), 1e-9)
	assert.InDelta(t, 2.0, n.Translation.X, 1e-9)

	// A clamped action holds its last frame.
	mixer.Update(1)
	assert.InDelta(t, 1.0, a.Time(), 1e-9)
}

func TestResetAllPosesFirstFrame(t *testing.T) {
	root, n, clip := slide(3, 7, 1)
	mixer := NewMixer(root)
	c := NewController()
	c.Setup([]*models.Clip{clip}, mixer)

	c.PlayAll()
	mixer.Update(0.5)
	assert.InDelta(t, 5.0, n.Translation.X, 1e-9)

	c.ResetAll()
	assert.Equal(t, StateReset, c.State())
	assert.Zero(t, mixer.Time())
	assert.InDelta(t, 3.0, n.Translation.X, 1e-9)
	for _, a := range c.Actions() {
		assert.False(t, a.IsRunning())
		assert.Zero(t, a.Time())
	}

	// Stopped actions do not move the model.
	mixer.Update(0.5)
	assert.InDelta(t, 3.0, n.Translation.X, 1e-9)

	// Play works again from the reset state.
	c.PlayAll()
	mixer.Update(0.25)
	assert.InDelta(t, 4.0, n.Translation.X, 1e-9)
}

func TestResetAllBeforePlay(t *testing.T) {
	root, n, clip := slide(-1, 1, 1)
	n.Translation = math3d.V3(9, 9, 9)
	c := NewController()
	c.Setup([]*models.Clip{clip}, NewMixer(root))

	c.ResetAll()
	assert.Equal(t, math3d.V3(-1, 0, 0), n.Translation)
}

func TestMixerIgnoresForeignTracks(t *testing.T) {
	root, _, _ := slide(0, 1, 1)
	stray := models.NewNode("stray")
	clip := models.NewClip("stray", []*models.Track{{
		Node:   stray,
		Path:   models.PathTranslation,
		Times:  []float64{0},
		Values: []float64{4, 4, 4},
	}})

	mixer := NewMixer(root)
	a := mixer.ClipAction(clip)
	a.Play()
	mixer.Update(0.1)

	assert.Equal(t, math3d.Zero3(), stray.Translation)
	assert.Same(t, a, mixer.ClipAction(clip))
}

func TestLoopRepeatWraps(t *testing.T) {
	root, n, clip := slide(0, 1, 1)
	mixer := NewMixer(root)
	a := mixer.ClipAction(clip)
	a.Loop = LoopRepeat
	a.Play()

	mixer.Update(1.25)
	assert.False(t, a.Finished())
	assert.InDelta(t, 0.25, a.Time(), 1e-9)
	assert.InDelta(t, 0.25, n.Translation.X, 1e-9)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestActionFlags(t *testing.T) {
	root, _, clip := slide(0, 1, 1)
	mixer := NewMixer(root)
	a := mixer.ClipAction(clip)

	type flags struct{ enabled, paused, running, finished bool }
	read := func() flags { return flags{a.Enabled(), a.Paused(), a.IsRunning(), a.Finished()} }

	assert.Equal(t, flags{enabled: true}, read(), "new action")

	a.Play()
	mixer.Update(0.5)
	assert.Equal(t, flags{enabled: true, running: true}, read(), "playing")
	assert.InDelta(t, 0.5, a.Time(), 1e-9)

	mixer.Update(1)
	assert.Equal(t, flags{running: true, finished: true}, read(), "unclamped end disables")

	a.Stop()
	assert.Equal(t, flags{enabled: true}, read(), "stopped")
	assert.Zero(t, a.Time())

	a.ClampWhenFinished = true
	a.Play()
	mixer.Update(2)
	assert.Equal(t, flags{enabled: true, paused: true, running: true, finished: true}, read(), "clamped end pauses")
}
