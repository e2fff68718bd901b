package browse

import (
	"sync"
)

// DefaultQueueDepth is the number of notifications a Queue buffers before
// Dispatch blocks.
const DefaultQueueDepth = 64

// Queue runs dispatched functions one at a time, in dispatch order, on a
// single background goroutine.
type Queue struct {
	mu     sync.RWMutex
	closed bool

	work chan func()
	wg   sync.WaitGroup
}

// NewQueue creates and starts a queue. depth <= 0 selects DefaultQueueDepth.
func NewQueue(depth int) *Queue {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}

	q := &Queue{
		work: make(chan func(), depth),
	}

	q.wg.Add(1)
	go q.run()

	return q
}

// Dispatch schedules fn. It returns false if the queue is closed, in which
// case fn is never run. Dispatch blocks while the buffer is full.
func (q *Queue) Dispatch(fn func()) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	q.work <- fn
	return true
}

// Close stops accepting work and waits until everything already dispatched
// has run. Close must not be called from a dispatched function. It is safe
// to call Close multiple times.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.wg.Wait()
		return
	}
	q.closed = true
	close(q.work)
	q.mu.Unlock()

	q.wg.Wait()
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *Queue) run() {
	defer q.wg.Done()

	for fn := range q.work {
		fn()
	}
}
