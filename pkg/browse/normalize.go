package browse

import (
	"errors"
	"fmt"
)

// Describe copies the identifying attributes out of r. Missing attributes
// become NullValue. Call it once per result per notification, before the
// handler returns.
func Describe(r Result, morePending bool) Endpoint {
	ep, _ := describe(r, morePending)
	return ep
}

// describe is Describe that also reports which attributes were missing.
// The error is informational only.
func describe(r Result, morePending bool) (Endpoint, error) {
	var errs []error

	name, ok := r.Name()
	if !ok {
		name = NullValue
		errs = append(errs, fmt.Errorf("%w: name", ErrMissingAttribute))
	}

	domain, ok := r.Domain()
	if !ok {
		domain = NullValue
		errs = append(errs, fmt.Errorf("%w: domain", ErrMissingAttribute))
	}

	return Endpoint{
		Name:        name,
		Domain:      domain,
		MorePending: morePending,
	}, errors.Join(errs...)
}

// Normalize builds the event for one notification. The endpoints are
// copied, so callers may reuse their values.
func Normalize(kind ChangeKind, previous, current *Endpoint) ChangeEvent {
	ev := ChangeEvent{Kind: kind}
	if previous != nil {
		p := *previous
		ev.Previous = &p
	}
	if current != nil {
		c := *current
		ev.Current = &c
	}
	return ev
}
