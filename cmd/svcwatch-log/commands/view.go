package commands

import (
	"fmt"
	"io"

	"github.com/svcwatch/svcwatch-go/pkg/log"
)

const timestampFormat = "2006-01-02T15:04:05.000000Z"

// RunView prints the events of path matching filter in human-readable form.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] CATEGORY service
	ts := event.Timestamp.UTC().Format(timestampFormat)
	fmt.Fprintf(w, "%s [session:%s] %-6s %s\n",
		ts, shortenSessionID(event.SessionID), event.Category, browseTarget(event))

	switch {
	case event.Change != nil:
		formatChangeDetails(w, event.Change)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func browseTarget(event log.Event) string {
	if event.ServiceType == "" {
		return ""
	}
	if event.BrowseDomain == "" {
		return event.ServiceType
	}
	return event.ServiceType + " in " + event.BrowseDomain
}

func formatChangeDetails(w io.Writer, c *log.ChangeRecord) {
	fmt.Fprintf(w, "  Kind: %s (seq %d)\n", c.Kind, c.Sequence)
	if c.Previous != nil {
		fmt.Fprintf(w, "  Previous: %s\n", formatEndpoint(c.Previous))
	}
	if c.Current != nil {
		fmt.Fprintf(w, "  Current: %s\n", formatEndpoint(c.Current))
	}
}

func formatEndpoint(e *log.EndpointRecord) string {
	s := fmt.Sprintf("%q in %q", e.Name, e.Domain)
	if e.MorePending {
		s += " (more pending)"
	}
	return s
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Error: %s\n", e.Message)
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}
