package loader

import "context"

// Event is sent on the channel returned by Start.
type Event interface {
	event()
}

// ProgressEvent carries one progress report.
type ProgressEvent struct {
	Progress
}

// DoneEvent carries the final result. It is always the last event.
type DoneEvent struct {
	Result
}

func (ProgressEvent) event() {}
func (DoneEvent) event()     {}

// Start runs Load in its own goroutine. Progress events are sent as they
// happen and the channel is closed after the DoneEvent. Cancelling ctx
// aborts the load; the DoneEvent is dropped if nobody is receiving by then.
func (l *Loader) Start(ctx context.Context, rawURL string) <-chan Event {
	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		send := func(ev Event) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		res := l.Load(ctx, rawURL, ObserverFunc(func(p Progress) {
			send(ProgressEvent{Progress: p})
		}))
		send(DoneEvent{Result: res})
	}()
	return ch
}
