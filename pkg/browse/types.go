package browse

import (
	"errors"
	"fmt"
	"strings"
)

// NullValue replaces a name or domain the transport could not resolve.
// Consumers match on this literal, so it must not change.
const NullValue = "[NULL]"

// Browse errors.
var (
	ErrInvalidSelector    = errors.New("invalid selector")
	ErrAlreadyActive      = errors.New("session already active")
	ErrAlreadyConfigured  = errors.New("session already configured")
	ErrNotConfigured      = errors.New("session not configured")
	ErrTerminated         = errors.New("session terminated")
	ErrMissingAttribute   = errors.New("missing attribute")
	ErrUnclassifiedChange = errors.New("unclassified change")
	ErrNilSink            = errors.New("nil sink")
)

// ChangeKind classifies the relationship between two snapshots of a service.
type ChangeKind uint8

const (
	// ChangeUnknown covers every difference that is not exactly an
	// addition or a removal, including metadata updates.
	ChangeUnknown ChangeKind = iota

	// ChangeAdded - the service appeared.
	ChangeAdded

	// ChangeRemoved - the service disappeared.
	ChangeRemoved
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "Added"
	case ChangeRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// Endpoint identifies one advertised service as seen in a single
// notification. Values are copies and stay valid after the notification
// returns.
type Endpoint struct {
	// Name is the service instance name, or NullValue.
	Name string

	// Domain is the service domain, or NullValue.
	Domain string

	// MorePending reports that the transport has further results queued
	// for the current batch.
	MorePending bool
}

// EndpointKey identifies a service by name and domain.
type EndpointKey struct {
	Name   string
	Domain string
}

// Key returns the catalog key for the endpoint.
func (e Endpoint) Key() EndpointKey {
	return EndpointKey{Name: e.Name, Domain: e.Domain}
}

// String returns a compact representation like {"printer","local.",false}.
func (e Endpoint) String() string {
	return fmt.Sprintf("{%q,%q,%t}", e.Name, e.Domain, e.MorePending)
}

// ChangeEvent is the normalized form of one browse notification.
// Previous is set iff the notification carried a previous handle, Current
// iff it carried a current handle.
type ChangeEvent struct {
	Kind     ChangeKind
	Previous *Endpoint
	Current  *Endpoint
}

// MorePending reports whether the transport signalled further results in
// the batch this event belongs to.
func (e ChangeEvent) MorePending() bool {
	if e.Current != nil {
		return e.Current.MorePending
	}
	if e.Previous != nil {
		return e.Previous.MorePending
	}
	return false
}

// String formats the event as {kind, previous?, current?}.
func (e ChangeEvent) String() string {
	var b strings.Builder
	b.WriteString("{")
	b.WriteString(e.Kind.String())
	if e.Previous != nil {
		b.WriteString(", previous: ")
		b.WriteString(e.Previous.String())
	}
	if e.Current != nil {
		b.WriteString(", current: ")
		b.WriteString(e.Current.String())
	}
	b.WriteString("}")
	return b.String()
}

// Sink receives normalized change events.
// Deliver is called from the session's delivery goroutine, never
// concurrently with itself for the same session.
type Sink interface {
	Deliver(event ChangeEvent)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event ChangeEvent)

// Deliver calls f(event).
func (f SinkFunc) Deliver(event ChangeEvent) {
	f(event)
}

// MultiSink fans events out to several sinks in order.
type MultiSink []Sink

// Deliver sends the event to every sink.
func (m MultiSink) Deliver(event ChangeEvent) {
	for _, s := range m {
		s.Deliver(event)
	}
}
