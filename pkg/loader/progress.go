package loader

import (
	"io"
	"math"
)

// Observer receives load progress.
type Observer interface {
	Progress(p Progress)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Progress)

func (f ObserverFunc) Progress(p Progress) { f(p) }

// Progress is one progress report. Percent is only meaningful when Total
// is known (greater than zero).
type Progress struct {
	Loaded  int64
	Total   int64
	Percent float64
}

// tracker turns byte counts into percentages that never go down and never
// leave [0, 100].
type tracker struct {
	total int64
	last  float64
}

func (t *tracker) update(loaded int64) (Progress, bool) {
	if t.total <= 0 {
		return Progress{}, false
	}
	pct := float64(loaded) / float64(t.total) * 100
	pct = math.Max(0, math.Min(100, pct))
	if pct < t.last {
		pct = t.last
	}
	t.last = pct
	return Progress{Loaded: loaded, Total: t.total, Percent: pct}, true
}

// countingReader reports progress after every chunk it reads.
type countingReader struct {
	r       io.Reader
	loaded  int64
	tracker tracker
	obs     Observer
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.loaded += int64(n)
		if prog, ok := c.tracker.update(c.loaded); ok && c.obs != nil {
			c.obs.Progress(prog)
		}
	}
	return n, err
}
