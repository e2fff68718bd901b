package shutdown

import (
	"context"
	"sync"
)

// StopReason identifies which source requested the stop.
type StopReason uint8

const (
	// Interrupt - an interactive interrupt (SIGINT, Ctrl-C).
	Interrupt StopReason = iota

	// Terminate - a termination request (SIGTERM).
	Terminate
)

// String returns the reason name.
func (r StopReason) String() string {
	switch r {
	case Interrupt:
		return "interrupt"
	case Terminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// Coordinator races two single-fire sources. A source fires when its
// channel is closed or receives a value. A nil source never fires.
type Coordinator struct {
	interrupt <-chan struct{}
	terminate <-chan struct{}

	once    sync.Once
	fired   chan struct{}
	reason  StopReason
	release func()

	releaseOnce sync.Once
	released    chan struct{}

	// watchDone is closed when the watch goroutine exits.
	watchDone chan struct{}
}

// New creates a coordinator over the two sources and starts watching them.
func New(interrupt, terminate <-chan struct{}) *Coordinator {
	c := &Coordinator{
		interrupt: interrupt,
		terminate: terminate,
		fired:     make(chan struct{}),
		release:   func() {},
		released:  make(chan struct{}),
		watchDone: make(chan struct{}),
	}
	go c.watch()
	return c
}

func (c *Coordinator) watch() {
	defer close(c.watchDone)

	// Both already fired: interrupt wins.
	select {
	case <-c.interrupt:
		c.resolve(Interrupt)
		return
	default:
	}

	var reason StopReason
	select {
	case <-c.interrupt:
		reason = Interrupt
	case <-c.terminate:
		reason = Terminate
	case <-c.fired:
		return
	case <-c.released:
		return
	}
	c.resolve(reason)
}

func (c *Coordinator) resolve(reason StopReason) {
	c.once.Do(func() {
		c.reason = reason
		close(c.fired)
	})
}

// Wait blocks until a source fires and returns its reason. Later calls
// return the same reason without blocking.
func (c *Coordinator) Wait() StopReason {
	<-c.fired
	return c.reason
}

// WaitContext is Wait bounded by ctx. ok is false if ctx ended first.
func (c *Coordinator) WaitContext(ctx context.Context) (reason StopReason, ok bool) {
	select {
	case <-c.fired:
		return c.reason, true
	case <-ctx.Done():
		return 0, false
	}
}

// Fired returns a channel that is closed once a reason is known.
func (c *Coordinator) Fired() <-chan struct{} {
	return c.fired
}

// Trigger resolves the coordinator as if reason's source had fired. It has
// no effect once a reason is known.
func (c *Coordinator) Trigger(reason StopReason) {
	c.resolve(reason)
}

// Release stops watching the sources and detaches the coordinator from OS
// signal delivery. A reason already known is kept; otherwise Wait blocks
// until Trigger is called.
func (c *Coordinator) Release() {
	c.releaseOnce.Do(func() { close(c.released) })
	c.release()
}
