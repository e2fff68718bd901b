package browse

// Result is one snapshot of one advertised service, owned by the transport.
// A Result is only valid while the Handler it was passed to is running.
type Result interface {
	// Name returns the service instance name. ok is false when the
	// transport has no name for the result.
	Name() (name string, ok bool)

	// Domain returns the service domain. ok is false when unknown.
	Domain() (domain string, ok bool)
}

// Handler is invoked by a subscription for every change. At least one of
// previous and current is non-nil. morePending reports that further
// results of the same batch follow immediately.
type Handler func(previous, current Result, morePending bool)

// Subscription is a single browse operation created by a Transport.
type Subscription interface {
	// SetHandler registers the change handler. Must be called before Start.
	SetHandler(h Handler)

	// SetQueue binds the queue on which the handler is invoked.
	// Must be called before Start.
	SetQueue(q *Queue)

	// Start begins delivery.
	Start() error

	// Cancel stops delivery and releases the subscription. After Cancel
	// returns the transport dispatches no further notifications. Cancel
	// is safe to call on a subscription that was never started and may be
	// called more than once.
	Cancel()
}

// Transport creates browse subscriptions.
type Transport interface {
	Subscribe(sel Selector) (Subscription, error)
}

// ChangeMask is a bitmask describing the differences between two results.
type ChangeMask uint64

// Change mask bits.
const (
	ChangeInvalid          ChangeMask = 0
	ChangeIdentical        ChangeMask = 1 << 0
	ChangeResultAdded      ChangeMask = 1 << 1
	ChangeResultRemoved    ChangeMask = 1 << 2
	ChangeInterfaceAdded   ChangeMask = 1 << 3
	ChangeInterfaceRemoved ChangeMask = 1 << 4
	ChangeTXTRecordChanged ChangeMask = 1 << 5
)

// Has reports whether all bits of flag are set.
func (m ChangeMask) Has(flag ChangeMask) bool {
	return flag != 0 && m&flag == flag
}

// Differ is implemented by transports that can compute the change mask
// between two results natively.
type Differ interface {
	Diff(previous, current Result) (ChangeMask, error)
}
