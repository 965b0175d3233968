package viewer

import (
	"fmt"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mattn/go-runewidth"
)

var (
	hudBg     = color.RGBA{0, 0, 0, 255}
	hudWhite  = color.RGBA{255, 255, 255, 255}
	hudGreen  = color.RGBA{80, 250, 123, 255}
	hudCyan   = color.RGBA{139, 233, 253, 255}
	hudYellow = color.RGBA{241, 250, 140, 255}
)

// HUD is the overlay with model info and view modes.
type HUD struct {
	filename  string
	triangles int

	fps        float64
	fpsFrames  int
	fpsElapsed float64
}

// NewHUD creates a HUD for the given file name.
func NewHUD(filename string) *HUD {
	return &HUD{filename: filename}
}

// SetTriangles records the triangle count of the loaded model.
func (h *HUD) SetTriangles(n int) {
	h.triangles = n
}

// Tick counts one frame of dt seconds. The FPS readout is refreshed once
// per second.
func (h *HUD) Tick(dt float64) {
	h.fpsFrames++
	h.fpsElapsed += dt
	if h.fpsElapsed >= 1 {
		h.fps = float64(h.fpsFrames) / h.fpsElapsed
		h.fpsFrames = 0
		h.fpsElapsed = 0
	}
}

// FPS returns the last measured frame rate.
func (h *HUD) FPS() float64 {
	return h.fps
}

// HUDState is what the HUD shows besides its own counters.
type HUDState struct {
	View      ViewState
	Animation string
	Time      float64
	Clips     int
}

// Draw paints the top and bottom HUD rows on a cols x rows screen.
func (h *HUD) Draw(scr uv.Screen, cols, rows int, st HUDState) {
	if cols <= 0 || rows <= 0 {
		return
	}
	fill := func(y int) {
		for x := range cols {
			scr.SetCell(x, y, &uv.Cell{Content: " ", Width: 1, Style: uv.Style{Bg: hudBg}})
		}
	}
	fill(0)
	fill(rows - 1)

	// Top: FPS, file name, triangle count
	drawText(scr, 0, 0, fmt.Sprintf(" %.0f FPS ", h.fps), uv.Style{Fg: hudGreen, Bg: hudBg})

	title := " " + h.filename + " "
	drawText(scr, max((cols-runewidth.StringWidth(title))/2, 0), 0, title, uv.Style{Fg: hudWhite, Bg: hudBg})

	tris := fmt.Sprintf(" %d tris ", h.triangles)
	drawText(scr, max(cols-runewidth.StringWidth(tris), 0), 0, tris, uv.Style{Fg: hudCyan, Bg: hudBg})

	// Bottom: mode checkboxes and animation state
	modes := fmt.Sprintf(" %s Texture  %s X-Ray  %s Bounds ",
		checkbox(st.View.Texture && !st.View.Wireframe),
		checkbox(st.View.Wireframe),
		checkbox(st.View.Bounds))
	drawText(scr, 0, rows-1, modes, uv.Style{Fg: hudWhite, Bg: hudBg})

	anim := " no animations "
	if st.Clips > 0 {
		anim = fmt.Sprintf(" %s %.2fs (%d clips) ", st.Animation, st.Time, st.Clips)
	}
	drawText(scr, max(cols-runewidth.StringWidth(anim), 0), rows-1, anim, uv.Style{Fg: hudYellow, Bg: hudBg})
}

func checkbox(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}
