package viewer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mattn/go-runewidth"
)

// Status texts shown under the progress bar.
const (
	loadingFormat  = "Loading model... %d%%"
	loadFailedText = "Error loading model."
)

// Input tuning. Each input is a total motion the orbit glides through.
const (
	dragSpeed = 0.02 // radians per cell of mouse drag
	keyTurn   = 0.25 // radians per key press
	zoomStep  = 0.1  // log of the distance ratio per wheel step or key press
)

var (
	uiFg      = color.RGBA{255, 255, 255, 255}
	uiBg      = color.RGBA{40, 40, 48, 255}
	uiBarFill = color.RGBA{230, 230, 230, 255}
	uiBarRest = color.RGBA{90, 90, 90, 255}
)

// ButtonID names a clickable control.
type ButtonID int

const (
	ButtonNone ButtonID = iota
	ButtonPlay
	ButtonReset
)

// Button is a labelled cell rectangle.
type Button struct {
	Label   string
	Area    image.Rectangle
	Visible bool
}

// Contains reports whether the cell (x, y) is on a visible button.
func (b Button) Contains(x, y int) bool {
	return b.Visible && image.Pt(x, y).In(b.Area)
}

// UI is the state of the on-screen controls: the loading indicator, the
// status line and the two animation buttons.
type UI struct {
	LoaderVisible bool
	Progress      float64
	StatusText    string
	StatusVisible bool

	Play  Button
	Reset Button

	cols, rows int
}

// NewUI returns the controls as they look before any byte has arrived.
func NewUI() *UI {
	u := &UI{
		LoaderVisible: true,
		StatusVisible: true,
		Play:          Button{Label: "[ ▶ Play ]"},
		Reset:         Button{Label: "[ ⟲ Reset ]"},
	}
	u.SetProgress(0)
	return u
}

// SetProgress updates the bar and the status text. The shown percentage is
// floored and clamped to 100.
func (u *UI) SetProgress(percent float64) {
	percent = math.Min(math.Max(percent, 0), 100)
	u.Progress = percent
	u.StatusText = fmt.Sprintf(loadingFormat, int(math.Floor(percent)))
}

// LoadSucceeded hides the loading indicator and the status text. The
// buttons are shown only when there is something to play.
func (u *UI) LoadSucceeded(showButtons bool) {
	u.LoaderVisible = false
	u.StatusVisible = false
	u.Play.Visible = showButtons
	u.Reset.Visible = showButtons
}

// LoadFailed replaces the status text. The loading indicator stays.
func (u *UI) LoadFailed() {
	u.StatusText = loadFailedText
	u.StatusVisible = true
}

// Layout places the buttons for a terminal of cols x rows cells, on the row
// above the HUD status line.
func (u *UI) Layout(cols, rows int) {
	u.cols, u.rows = cols, rows
	y := max(rows-3, 0)
	x := 2
	for _, b := range []*Button{&u.Play, &u.Reset} {
		w := runewidth.StringWidth(b.Label)
		b.Area = image.Rect(x, y, x+w, y+1)
		x += w + 2
	}
}

// HitTest returns the visible button under the cell (x, y).
func (u *UI) HitTest(x, y int) ButtonID {
	switch {
	case u.Play.Contains(x, y):
		return ButtonPlay
	case u.Reset.Contains(x, y):
		return ButtonReset
	}
	return ButtonNone
}

// Draw paints the controls over scr.
func (u *UI) Draw(scr uv.Screen) {
	cols, rows := u.cols, u.rows
	if cols <= 0 || rows <= 0 {
		return
	}
	mid := rows / 2

	if u.LoaderVisible {
		barW := min(cols-4, 40)
		if barW > 0 {
			filled := int(float64(barW) * u.Progress / 100)
			x := (cols - barW) / 2
			for i := range barW {
				c := &uv.Cell{Content: "█", Width: 1, Style: uv.Style{Fg: uiBarRest}}
				if i < filled {
					c.Style.Fg = uiBarFill
				}
				scr.SetCell(x+i, mid, c)
			}
		}
	}

	if u.StatusVisible {
		w := runewidth.StringWidth(u.StatusText)
		drawText(scr, max((cols-w)/2, 0), mid+1, u.StatusText, uv.Style{Fg: uiFg})
	}

	for _, b := range []Button{u.Play, u.Reset} {
		if b.Visible {
			drawText(scr, b.Area.Min.X, b.Area.Min.Y, b.Label, uv.Style{Fg: uiFg, Bg: uiBg})
		}
	}
}

// drawText writes s from cell (x, y) and returns the column after it.
func drawText(scr uv.Screen, x, y int, s string, style uv.Style) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		scr.SetCell(x, y, &uv.Cell{Content: string(r), Width: w, Style: style})
		x += w
	}
	return x
}

// dragState tracks a mouse drag across events.
type dragState struct {
	active bool
	x, y   int
}

// HandleEvent applies one terminal event to the session and reports
// whether the user asked to quit.
func (s *Session) HandleEvent(ev uv.Event) (quit bool) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		s.ResizePixels(ev.Width, ev.Height*2)
		s.ui.Layout(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("esc", "escape", "ctrl+c"):
			return true
		case ev.MatchString("p"):
			s.PlayAll()
		case ev.MatchString("r"):
			s.ResetAll()
		case ev.MatchString("v"):
			s.ResetView()
		case ev.MatchString("t"):
			s.view.Texture = !s.view.Texture
		case ev.MatchString("x"):
			s.view.Wireframe = !s.view.Wireframe
		case ev.MatchString("b"):
			s.view.Bounds = !s.view.Bounds
		case ev.MatchString("?", "shift+/"):
			s.view.HUD = !s.view.HUD
		case ev.MatchString("+", "="):
			s.orbit.Zoom(zoomStep)
		case ev.MatchString("-", "_"):
			s.orbit.Zoom(-zoomStep)
		case ev.MatchString("w", "up"):
			s.orbit.Rotate(0, -keyTurn)
		case ev.MatchString("s", "down"):
			s.orbit.Rotate(0, keyTurn)
		case ev.MatchString("a", "left"):
			s.orbit.Rotate(keyTurn, 0)
		case ev.MatchString("d", "right"):
			s.orbit.Rotate(-keyTurn, 0)
		}

	case uv.MouseClickEvent:
		switch s.ui.HitTest(ev.X, ev.Y) {
		case ButtonPlay:
			s.PlayAll()
		case ButtonReset:
			s.ResetAll()
		default:
			s.drag = dragState{active: true, x: ev.X, y: ev.Y}
		}

	case uv.MouseReleaseEvent:
		s.drag.active = false

	case uv.MouseMotionEvent:
		if s.drag.active {
			dx, dy := ev.X-s.drag.x, ev.Y-s.drag.y
			s.orbit.Rotate(-float64(dx)*dragSpeed, -float64(dy)*dragSpeed)
			s.drag.x, s.drag.y = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			s.orbit.Zoom(zoomStep)
		case uv.MouseWheelDown:
			s.orbit.Zoom(-zoomStep)
		}
	}
	return false
}
