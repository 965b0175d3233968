package viewer

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/vitrine/pkg/animation"
)

func TestUIProgressText(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "Loading model... 0%"},
		{42.9, "Loading model... 42%"},
		{99.99, "Loading model... 99%"},
		{100, "Loading model... 100%"},
		{250, "Loading model... 100%"},
		{-3, "Loading model... 0%"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			u := NewUI()
			u.SetProgress(tt.percent)
			assert.Equal(t, tt.want, u.StatusText)
			assert.True(t, u.LoaderVisible)
		})
	}
}

func TestUILoadFailed(t *testing.T) {
	u := NewUI()
	u.SetProgress(30)
	u.LoadFailed()

	assert.Equal(t, "Error loading model.", u.StatusText)
	assert.True(t, u.StatusVisible)
	assert.True(t, u.LoaderVisible, "loader indicator stays after a failure")
	assert.False(t, u.Play.Visible)
	assert.False(t, u.Reset.Visible)
}

func TestUILoadSucceeded(t *testing.T) {
	for _, show := range []bool{false, true} {
		u := NewUI()
		u.LoadSucceeded(show)
		assert.False(t, u.LoaderVisible)
		assert.False(t, u.StatusVisible)
		assert.Equal(t, show, u.Play.Visible)
		assert.Equal(t, show, u.Reset.Visible)
	}
}

func TestUIHitTest(t *testing.T) {
	u := NewUI()
	u.Layout(80, 24)

	// hidden buttons are not clickable
	assert.Equal(t, ButtonNone, u.HitTest(u.Play.Area.Min.X, u.Play.Area.Min.Y))

	u.LoadSucceeded(true)
	assert.Equal(t, ButtonPlay, u.HitTest(u.Play.Area.Min.X, u.Play.Area.Min.Y))
	assert.Equal(t, ButtonReset, u.HitTest(u.Reset.Area.Max.X-1, u.Reset.Area.Min.Y))
	assert.Equal(t, ButtonNone, u.HitTest(0, 0))
	assert.False(t, u.Play.Area.Overlaps(u.Reset.Area))
	assert.Equal(t, 21, u.Play.Area.Min.Y)
}

func TestHandleEventToggles(t *testing.T) {
	s, err := NewSession(testConfig("unused.glb"), discard)
	require.NoError(t, err)

	before := s.View()
	assert.False(t, s.HandleEvent(uv.KeyPressEvent{Code: 'x', Text: "x"}))
	assert.False(t, s.HandleEvent(uv.KeyPressEvent{Code: 't', Text: "t"}))
	assert.False(t, s.HandleEvent(uv.KeyPressEvent{Code: 'b', Text: "b"}))

	after := s.View()
	assert.Equal(t, !before.Wireframe, after.Wireframe)
	assert.Equal(t, !before.Texture, after.Texture)
	assert.Equal(t, !before.Bounds, after.Bounds)

	assert.True(t, s.HandleEvent(uv.KeyPressEvent{Code: uv.KeyEscape}))
}

func TestHandleEventResize(t *testing.T) {
	s, err := NewSession(testConfig("unused.glb"), discard)
	require.NoError(t, err)

	for _, size := range [][2]int{{100, 30}, {40, 10}, {120, 40}} {
		s.HandleEvent(uv.WindowSizeEvent{Width: size[0], Height: size[1]})
		fb := s.Framebuffer()
		assert.Equal(t, size[0], fb.Width)
		assert.Equal(t, size[1]*2, fb.Height)
		assert.InDelta(t, float64(size[0])/float64(size[1]*2), s.Camera().AspectRatio, 1e-12)
	}
}

func TestHandleEventButtons(t *testing.T) {
	s := newLoadedSession(t, testConfig(writeBox(t, true)))
	s.HandleEvent(uv.WindowSizeEvent{Width: 80, Height: 24})
	require.True(t, s.UI().Play.Visible)

	play := s.UI().Play.Area.Min
	s.HandleEvent(uv.MouseClickEvent{X: play.X, Y: play.Y, Button: uv.MouseLeft})
	assert.Equal(t, animation.StatePlaying, s.Animation().State())

	reset := s.UI().Reset.Area.Min
	s.HandleEvent(uv.MouseClickEvent{X: reset.X, Y: reset.Y, Button: uv.MouseLeft})
	assert.Equal(t, animation.StateReset, s.Animation().State())

	assert.False(t, s.HandleEvent(uv.KeyPressEvent{Code: 'p', Text: "p"}))
	assert.Equal(t, animation.StatePlaying, s.Animation().State())
}
