package browsetest

import (
	"sync"
	"time"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
)

// Recorder is a browse.Sink that keeps every delivered event.
type Recorder struct {
	mu     sync.Mutex
	events []browse.ChangeEvent
	notify chan struct{}
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan struct{}, 1)}
}

// Deliver implements browse.Sink.
func (r *Recorder) Deliver(event browse.ChangeEvent) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Events returns a copy of the delivered events.
func (r *Recorder) Events() []browse.ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]browse.ChangeEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of delivered events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// WaitFor blocks until at least n events were delivered or timeout expires.
// It reports whether n events arrived.
func (r *Recorder) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		if r.Len() >= n {
			return true
		}
		select {
		case <-r.notify:
		case <-deadline.C:
			return r.Len() >= n
		}
	}
}

var _ browse.Sink = (*Recorder)(nil)
