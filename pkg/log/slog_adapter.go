package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes browse log events to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a SlogAdapter that logs at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("category", event.Category.String()),
	}
	if event.ServiceType != "" {
		attrs = append(attrs, slog.String("service_type", event.ServiceType))
	}
	if event.BrowseDomain != "" {
		attrs = append(attrs, slog.String("browse_domain", event.BrowseDomain))
	}

	switch {
	case event.Change != nil:
		attrs = append(attrs, slog.String("kind", event.Change.Kind.String()))
		if event.Change.Sequence != 0 {
			attrs = append(attrs, slog.Uint64("seq", event.Change.Sequence))
		}
		if p := event.Change.Previous; p != nil {
			attrs = append(attrs, slog.Group("previous",
				slog.String("name", p.Name),
				slog.String("domain", p.Domain),
				slog.Bool("more", p.MorePending),
			))
		}
		if c := event.Change.Current; c != nil {
			attrs = append(attrs, slog.Group("current",
				slog.String("name", c.Name),
				slog.String("domain", c.Domain),
				slog.Bool("more", c.MorePending),
			))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error_msg", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), a.level, "browse", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
