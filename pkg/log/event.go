package log

import (
	"strings"
	"time"
)

// Event is one entry of the browse trace.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the browse session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"3,keyasint"`

	// ServiceType is the browsed DNS-SD service type.
	ServiceType string `cbor:"4,keyasint,omitempty"`

	// BrowseDomain is the browsed domain; empty when browsing all domains.
	BrowseDomain string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Change      *ChangeRecord     `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryChange is a published service change.
	CategoryChange Category = 0
	// CategoryState is a session state transition.
	CategoryState Category = 1
	// CategoryError is a recovered processing error.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryChange:
		return "CHANGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToUpper(s) {
	case "CHANGE":
		return CategoryChange, true
	case "STATE":
		return CategoryState, true
	case "ERROR":
		return CategoryError, true
	}
	return 0, false
}

// Kind mirrors the change kind of a published event.
type Kind uint8

const (
	// KindUnknown is any change that is not exactly an addition or removal.
	KindUnknown Kind = 0
	// KindAdded is a service that appeared.
	KindAdded Kind = 1
	// KindRemoved is a service that disappeared.
	KindRemoved Kind = 2
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAdded:
		return "ADDED"
	case KindRemoved:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToUpper(s) {
	case "ADDED", "ADD":
		return KindAdded, true
	case "REMOVED", "REMOVE", "RMV":
		return KindRemoved, true
	case "UNKNOWN":
		return KindUnknown, true
	}
	return 0, false
}

// ChangeRecord captures one published change event.
type ChangeRecord struct {
	// Kind of the change.
	Kind Kind `cbor:"1,keyasint"`

	// Previous is the prior snapshot, if the notification carried one.
	Previous *EndpointRecord `cbor:"2,keyasint,omitempty"`

	// Current is the new snapshot, if the notification carried one.
	Current *EndpointRecord `cbor:"3,keyasint,omitempty"`

	// Sequence numbers changes within a session, starting at 1.
	Sequence uint64 `cbor:"4,keyasint,omitempty"`
}

// Names returns the instance names the change refers to.
func (c *ChangeRecord) Names() []string {
	var names []string
	if c.Previous != nil {
		names = append(names, c.Previous.Name)
	}
	if c.Current != nil && (c.Previous == nil || c.Current.Name != c.Previous.Name) {
		names = append(names, c.Current.Name)
	}
	return names
}

// EndpointRecord is the logged form of an endpoint descriptor.
type EndpointRecord struct {
	Name        string `cbor:"1,keyasint"`
	Domain      string `cbor:"2,keyasint"`
	MorePending bool   `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures a session lifecycle transition.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures an error that was recovered during processing.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being processed.
	Context string `cbor:"2,keyasint,omitempty"`
}
