package browse

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/svcwatch/svcwatch-go/pkg/log"
)

// State is the lifecycle state of a Session.
type State uint8

const (
	// StateUnconfigured - session created, no subscription yet.
	StateUnconfigured State = iota

	// StateConfigured - subscription created, delivery not started.
	StateConfigured

	// StateActive - notifications are being delivered.
	StateActive

	// StateStopping - teardown in progress, draining notifications.
	StateStopping

	// StateTerminated - subscription and sink released. Absorbing.
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "UNCONFIGURED"
	case StateConfigured:
		return "CONFIGURED"
	case StateActive:
		return "ACTIVE"
	case StateStopping:
		return "STOPPING"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// SessionConfig configures a Session.
type SessionConfig struct {
	// Classifier selects the change kind of each notification.
	// If nil, ClassifierFor(transport) is used.
	Classifier Classifier

	// QueueDepth is the delivery queue buffer size.
	// Default: DefaultQueueDepth.
	QueueDepth int

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// EventLogger receives a trace of every published change and state
	// transition. If nil, no trace is recorded.
	EventLogger log.Logger
}

// Session owns one browse subscription and publishes its changes to a sink.
// Configure, Start and Stop may be called from any goroutine.
type Session struct {
	id         string
	transport  Transport
	classifier Classifier
	queueDepth int
	logger     *slog.Logger
	events     log.Logger

	mu       sync.Mutex
	state    State
	selector Selector
	sub      Subscription
	queue    *Queue
	sink     Sink
	seq      uint64

	// inflight counts handler invocations that were admitted and have not
	// finished delivering.
	inflight sync.WaitGroup

	// done is closed when the session reaches StateTerminated.
	done chan struct{}
}

// NewSession creates an unconfigured session on transport.
func NewSession(transport Transport, config SessionConfig) *Session {
	classifier := config.Classifier
	if classifier == nil {
		classifier = ClassifierFor(transport, config.Logger)
	}

	return &Session{
		id:         uuid.New().String(),
		transport:  transport,
		classifier: classifier,
		queueDepth: config.QueueDepth,
		logger:     config.Logger,
		events:     config.EventLogger,
		done:       make(chan struct{}),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Selector returns the configured selector.
func (s *Session) Selector() Selector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector
}

// Done returns a channel that is closed once the session has terminated.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Configure validates sel, creates the subscription and records the sink.
func (s *Session) Configure(sel Selector, sink Sink) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	if sink == nil {
		return ErrNilSink
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUnconfigured:
	case StateTerminated, StateStopping:
		return ErrTerminated
	default:
		return ErrAlreadyConfigured
	}

	sub, err := s.transport.Subscribe(sel)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", sel, err)
	}

	s.selector = sel
	s.sub = sub
	s.sink = sink
	s.setStateLocked(StateConfigured, "")
	return nil
}

// Start registers the notification handler and begins delivery.
func (s *Session) Start() error {
	s.mu.Lock()
	switch s.state {
	case StateConfigured:
	case StateUnconfigured:
		s.mu.Unlock()
		return ErrNotConfigured
	case StateActive:
		s.mu.Unlock()
		return ErrAlreadyActive
	default:
		s.mu.Unlock()
		return ErrTerminated
	}

	q := NewQueue(s.queueDepth)
	sink := s.sink
	sub := s.sub
	sub.SetHandler(func(previous, current Result, morePending bool) {
		s.handle(sink, previous, current, morePending)
	})
	sub.SetQueue(q)

	// Admit notifications before the transport can produce any.
	s.queue = q
	s.setStateLocked(StateActive, "")
	s.mu.Unlock()

	if err := sub.Start(); err != nil {
		s.StopWithReason(err.Error())
		return fmt.Errorf("start subscription: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("browse session started", "session", s.id, "selector", s.selector.String())
	}
	return nil
}

// Stop cancels the subscription, waits for queued and running
// notifications to finish delivering and then releases the sink. Stop is
// idempotent. It must not be called from within the sink.
func (s *Session) Stop() {
	s.StopWithReason("")
}

// StopWithReason is Stop with a reason recorded in the state trace.
func (s *Session) StopWithReason(reason string) {
	s.mu.Lock()
	switch s.state {
	case StateTerminated:
		s.mu.Unlock()
		return
	case StateStopping:
		s.mu.Unlock()
		<-s.done
		return
	case StateUnconfigured, StateConfigured:
		if s.sub != nil {
			s.sub.Cancel()
		}
		s.releaseLocked()
		s.setStateLocked(StateTerminated, reason)
		s.mu.Unlock()
		close(s.done)
		return
	}

	s.setStateLocked(StateStopping, reason)
	sub, q := s.sub, s.queue
	s.mu.Unlock()

	// No new notifications from the transport, then drain the queue.
	sub.Cancel()
	q.Close()

	s.mu.Lock()
	s.setStateLocked(StateTerminated, reason)
	s.mu.Unlock()

	// Handlers invoked outside the queue may still be delivering.
	s.inflight.Wait()

	s.mu.Lock()
	s.releaseLocked()
	s.mu.Unlock()

	close(s.done)

	if s.logger != nil {
		s.logger.Debug("browse session stopped", "session", s.id, "reason", reason)
	}
}

func (s *Session) releaseLocked() {
	s.sub = nil
	s.queue = nil
	s.sink = nil
}

// enter admits a notification unless the session has terminated.
func (s *Session) enter() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive && s.state != StateStopping {
		return 0, false
	}
	s.inflight.Add(1)
	s.seq++
	return s.seq, true
}

// handle runs on the delivery queue for every notification.
func (s *Session) handle(sink Sink, previous, current Result, morePending bool) {
	if previous == nil && current == nil {
		if s.logger != nil {
			s.logger.Warn("browse notification without results ignored", "session", s.id)
		}
		return
	}

	seq, ok := s.enter()
	if !ok {
		return
	}
	defer s.inflight.Done()

	event := s.process(previous, current, morePending)
	sink.Deliver(event)
	s.logChange(seq, event)
}

// process classifies the notification and copies everything it needs out
// of the results. The results are not referenced after it returns.
func (s *Session) process(previous, current Result, morePending bool) ChangeEvent {
	kind := s.classifier.Classify(previous, current)

	var prev, cur *Endpoint
	if previous != nil {
		ep, err := describe(previous, morePending)
		s.logRecovered(err, "describe previous")
		prev = &ep
	}
	if current != nil {
		ep, err := describe(current, morePending)
		s.logRecovered(err, "describe current")
		cur = &ep
	}

	return Normalize(kind, prev, cur)
}

func (s *Session) setStateLocked(state State, reason string) {
	old := s.state
	s.state = state

	if s.events == nil {
		return
	}
	s.events.Log(log.Event{
		Timestamp:    time.Now(),
		SessionID:    s.id,
		Category:     log.CategoryState,
		ServiceType:  s.selector.ServiceType,
		BrowseDomain: s.selector.Domain,
		StateChange: &log.StateChangeEvent{
			OldState: old.String(),
			NewState: state.String(),
			Reason:   reason,
		},
	})
}

func (s *Session) logRecovered(err error, context string) {
	if err == nil {
		return
	}
	if s.logger != nil {
		s.logger.Debug("recovered browse error", "session", s.id, "context", context, "error", err)
	}
	if s.events != nil {
		s.events.Log(log.Event{
			Timestamp: time.Now(),
			SessionID: s.id,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Message: err.Error(),
				Context: context,
			},
		})
	}
}

func (s *Session) logChange(seq uint64, event ChangeEvent) {
	if s.events == nil {
		return
	}
	s.events.Log(log.Event{
		Timestamp:    time.Now(),
		SessionID:    s.id,
		Category:     log.CategoryChange,
		ServiceType:  s.selector.ServiceType,
		BrowseDomain: s.selector.Domain,
		Change:       changeRecord(seq, event),
	})
}

// changeRecord converts an event to its trace form.
func changeRecord(seq uint64, event ChangeEvent) *log.ChangeRecord {
	return &log.ChangeRecord{
		Kind:     logKind(event.Kind),
		Previous: endpointRecord(event.Previous),
		Current:  endpointRecord(event.Current),
		Sequence: seq,
	}
}

func logKind(k ChangeKind) log.Kind {
	switch k {
	case ChangeAdded:
		return log.KindAdded
	case ChangeRemoved:
		return log.KindRemoved
	default:
		return log.KindUnknown
	}
}

func endpointRecord(ep *Endpoint) *log.EndpointRecord {
	if ep == nil {
		return nil
	}
	return &log.EndpointRecord{
		Name:        ep.Name,
		Domain:      ep.Domain,
		MorePending: ep.MorePending,
	}
}
