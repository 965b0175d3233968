package viewer

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"

	uv "github.com/charmbracelet/ultraviolet"
)

// Surface is where frames go and input comes from.
type Surface interface {
	// Size returns the framebuffer size in pixels.
	Size() (width, height int)
	// Cells returns the size of the cell grid, or zeros when there is none.
	Cells() (cols, rows int)
	// Events returns the input events. A nil channel means no input.
	Events() <-chan uv.Event
	// Resize is called with the new cell size before the session resizes.
	Resize(cols, rows int) error
	// Present shows the current frame. Returning ErrStop ends Run cleanly.
	Present(s *Session) error
	Close() error
}

// TerminalSurface shows frames in the terminal with half-block cells.
type TerminalSurface struct {
	term       *uv.Terminal
	cols, rows int
}

// NewTerminalSurface takes over the terminal: alternate screen, hidden
// cursor and mouse tracking. Close gives it back.
func NewTerminalSurface() (*TerminalSurface, error) {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	return &TerminalSurface{term: term, cols: cols, rows: rows}, nil
}

func (t *TerminalSurface) Size() (int, int)  { return t.cols, t.rows * 2 }
func (t *TerminalSurface) Cells() (int, int) { return t.cols, t.rows }

func (t *TerminalSurface) Events() <-chan uv.Event {
	return t.term.Events()
}

func (t *TerminalSurface) Resize(cols, rows int) error {
	t.cols, t.rows = cols, rows
	t.term.Erase()
	t.term.Resize(cols, rows)
	return nil
}

func (t *TerminalSurface) Present(s *Session) error {
	area := uv.Rectangle(image.Rect(0, 0, t.cols, t.rows))
	s.Framebuffer().Draw(t.term, area)
	s.DrawOverlay(t.term)
	if err := t.term.Display(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func (t *TerminalSurface) Close() error {
	fmt.Fprint(os.Stdout, "\x1b[?1003l")
	fmt.Fprint(os.Stdout, "\x1b[?1006l")
	t.term.ExitAltScreen()
	t.term.ShowCursor()
	if err := t.term.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown terminal: %w", err)
	}
	return nil
}

// HeadlessSurface renders off screen. It waits for the model, renders a
// fixed number of frames and optionally saves the last one as a PNG.
type HeadlessSurface struct {
	width, height int
	frames        int
	snapshot      string
	logger        *slog.Logger

	rendered int
}

// NewHeadlessSurface creates a surface from cfg.
func NewHeadlessSurface(cfg HeadlessConfig, logger *slog.Logger) *HeadlessSurface {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeadlessSurface{
		width:    cfg.Width,
		height:   cfg.Height,
		frames:   max(cfg.Frames, 1),
		snapshot: cfg.Snapshot,
		logger:   logger,
	}
}

func (h *HeadlessSurface) Size() (int, int)        { return h.width, h.height }
func (h *HeadlessSurface) Cells() (int, int)       { return 0, 0 }
func (h *HeadlessSurface) Events() <-chan uv.Event { return nil }
func (h *HeadlessSurface) Resize(int, int) error   { return nil }
func (h *HeadlessSurface) Close() error            { return nil }

// Rendered returns how many frames were presented after the model loaded.
func (h *HeadlessSurface) Rendered() int {
	return h.rendered
}

// Present counts frames once the model is ready. A failed load ends the
// run with the load error.
func (h *HeadlessSurface) Present(s *Session) error {
	if err := s.Err(); err != nil {
		return err
	}
	if !s.Loaded() {
		return nil
	}
	h.rendered++
	if h.rendered < h.frames {
		return nil
	}
	if h.snapshot != "" {
		if err := s.Framebuffer().SavePNG(h.snapshot); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		h.logger.Info("snapshot saved", "path", h.snapshot, "frames", h.rendered)
	}
	return ErrStop
}
