// Package browse turns DNS-SD browse notifications into typed change events.
//
// A discovery transport reports every change to the set of advertised
// services as a pair of result handles: the previous snapshot of a service
// and its current snapshot. Either side may be absent. This package
// classifies each pair, copies the identifying attributes out of the
// handles while they are still valid and publishes one ChangeEvent per
// notification to an application Sink.
//
// # Classification
//
// Two strategies are available:
//   - Diff: the transport implements Differ and reports a ChangeMask for
//     the pair. A mask of exactly ChangeResultAdded or ChangeResultRemoved
//     maps to ChangeAdded or ChangeRemoved; anything else is ChangeUnknown.
//   - Positional: only a current handle is ChangeAdded, only a previous
//     handle is ChangeRemoved, both present is ChangeUnknown.
//
// # Sessions
//
// A Session owns one subscription for its whole lifetime:
//
//	s := browse.NewSession(transport, browse.SessionConfig{Logger: logger})
//	sel, _ := browse.NewSelector("_http._tcp", "")
//	if err := s.Configure(sel, sink); err != nil { ... }
//	if err := s.Start(); err != nil { ... }
//	...
//	s.Stop()
//
// Notifications are delivered on a per-session serial Queue. Stop drains
// notifications that are already queued or running, so every accepted
// notification reaches the sink exactly once, and nothing reaches the sink
// after Stop returns.
package browse
