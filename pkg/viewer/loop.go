package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

// ErrStop is returned by Surface.Present to end Run without an error.
var ErrStop = errors.New("viewer: stop")

// Clock measures the time between ticks.
type Clock struct {
	now     func() time.Time
	last    time.Time
	started bool
}

// NewClock creates a clock reading now. A nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Delta returns the seconds since the previous call. The first call
// returns 0. Long gaps are returned as they are.
func (c *Clock) Delta() float64 {
	t := c.now()
	if !c.started {
		c.started = true
		c.last = t
		return 0
	}
	dt := t.Sub(c.last).Seconds()
	c.last = t
	return dt
}

// Run loads the configured model and drives the session until ctx is
// done, the user quits, or surf stops it. Loader events, input and frame
// ticks are all handled on the calling goroutine.
func (s *Session) Run(ctx context.Context, surf Surface) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, h := surf.Size()
	s.ResizePixels(w, h)
	if cols, rows := surf.Cells(); cols > 0 {
		s.ui.Layout(cols, rows)
	}

	loads := s.loader.Start(ctx, s.cfg.Model)
	events := surf.Events()

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()
	clock := NewClock(time.Now)

	s.logger.Info("loading model", "model", s.cfg.Model)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down")
			return nil

		case ev, ok := <-loads:
			if !ok {
				loads = nil
				continue
			}
			s.HandleLoad(ev)

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if sz, ok := ev.(uv.WindowSizeEvent); ok {
				if err := surf.Resize(sz.Width, sz.Height); err != nil {
					return fmt.Errorf("resize: %w", err)
				}
			}
			if s.HandleEvent(ev) {
				s.logger.Info("quit requested")
				return nil
			}

		case <-ticker.C:
			s.Tick(clock.Delta())
			if err := surf.Present(s); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}
	}
}
