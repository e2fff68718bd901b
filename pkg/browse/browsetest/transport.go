// Package browsetest provides an in-memory browse.Transport for tests.
package browsetest

import (
	"errors"
	"sync"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
)

// ErrStartFailed is returned by Start when the transport is configured to fail.
var ErrStartFailed = errors.New("browsetest: start failed")

// Result is a browse.Result with optional attributes.
type Result struct {
	name   *string
	domain *string
}

// NewResult returns a result with both attributes set.
func NewResult(name, domain string) *Result {
	return &Result{name: &name, domain: &domain}
}

// WithoutName returns a copy of r whose name is unresolvable.
func (r *Result) WithoutName() *Result {
	c := *r
	c.name = nil
	return &c
}

// WithoutDomain returns a copy of r whose domain is unresolvable.
func (r *Result) WithoutDomain() *Result {
	c := *r
	c.domain = nil
	return &c
}

// Name implements browse.Result.
func (r *Result) Name() (string, bool) {
	if r.name == nil {
		return "", false
	}
	return *r.name, true
}

// Domain implements browse.Result.
func (r *Result) Domain() (string, bool) {
	if r.domain == nil {
		return "", false
	}
	return *r.domain, true
}

// Transport records subscriptions and lets tests inject notifications.
type Transport struct {
	// FailStart makes every subscription's Start return ErrStartFailed.
	FailStart bool

	// SubscribeErr is returned by Subscribe when set.
	SubscribeErr error

	mu   sync.Mutex
	subs []*Subscription
}

// NewTransport creates an empty transport.
func NewTransport() *Transport {
	return &Transport{}
}

// Subscribe implements browse.Transport.
func (t *Transport) Subscribe(sel browse.Selector) (browse.Subscription, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.SubscribeErr != nil {
		return nil, t.SubscribeErr
	}

	sub := &Subscription{selector: sel, failStart: t.FailStart}
	t.subs = append(t.subs, sub)
	return sub, nil
}

// Last returns the most recent subscription, or nil.
func (t *Transport) Last() *Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.subs) == 0 {
		return nil
	}
	return t.subs[len(t.subs)-1]
}

// Subscriptions returns the number of subscriptions created.
func (t *Transport) Subscriptions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Subscription is an in-memory browse.Subscription.
type Subscription struct {
	selector  browse.Selector
	failStart bool

	mu        sync.Mutex
	handler   browse.Handler
	queue     *browse.Queue
	started   bool
	cancelled bool
}

// Selector returns the selector the subscription was created with.
func (s *Subscription) Selector() browse.Selector {
	return s.selector
}

// SetHandler implements browse.Subscription.
func (s *Subscription) SetHandler(h browse.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// SetQueue implements browse.Subscription.
func (s *Subscription) SetQueue(q *browse.Queue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = q
}

// Start implements browse.Subscription.
func (s *Subscription) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failStart {
		return ErrStartFailed
	}
	s.started = true
	return nil
}

// Cancel implements browse.Subscription.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
}

// Started reports whether Start succeeded.
func (s *Subscription) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Cancelled reports whether Cancel was called.
func (s *Subscription) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Emit dispatches a notification on the bound queue, as a real transport
// would. It returns false if the subscription is not delivering.
// previous and current may be nil; pass untyped nil, not a nil *Result.
func (s *Subscription) Emit(previous, current browse.Result, morePending bool) bool {
	s.mu.Lock()
	h, q := s.handler, s.queue
	ok := s.started && !s.cancelled && h != nil && q != nil
	s.mu.Unlock()

	if !ok {
		return false
	}
	return q.Dispatch(func() { h(previous, current, morePending) })
}

// Invoke calls the handler directly on the calling goroutine, bypassing
// the queue and the cancelled check. It simulates a late callback racing
// teardown.
func (s *Subscription) Invoke(previous, current browse.Result, morePending bool) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()

	if h != nil {
		h(previous, current, morePending)
	}
}

var (
	_ browse.Transport    = (*Transport)(nil)
	_ browse.Subscription = (*Subscription)(nil)
	_ browse.Result       = (*Result)(nil)
)
