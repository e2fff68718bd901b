package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/svcwatch/svcwatch-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	ChangesByKind    map[log.Kind]int
	Sessions         map[string]*SessionStats
	Services         map[string]int
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single browse session.
type SessionStats struct {
	FirstSeen   time.Time
	LastSeen    time.Time
	Events      int
	ServiceType string
	LastState   string
	StopReason  string
}

// CollectStats reads the events of path matching filter.
func CollectStats(path string, filter log.Filter) (*Stats, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		ChangesByKind:    make(map[log.Kind]int),
		Sessions:         make(map[string]*SessionStats),
		Services:         make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++

	// Track time range
	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{FirstSeen: event.Timestamp}
		s.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}
	if event.ServiceType != "" {
		sess.ServiceType = event.ServiceType
	}

	switch {
	case event.Change != nil:
		s.ChangesByKind[event.Change.Kind]++
		for _, name := range event.Change.Names() {
			s.Services[name]++
		}
	case event.StateChange != nil:
		sess.LastState = event.StateChange.NewState
		if event.StateChange.Reason != "" {
			sess.StopReason = event.StateChange.Reason
		}
	case event.Error != nil:
		s.Errors++
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, filter log.Filter, w io.Writer) error {
	stats, err := CollectStats(path, filter)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, s *Stats) {
	fmt.Fprintf(w, "Total events: %d\n", s.TotalEvents)
	if s.TotalEvents == 0 {
		return
	}

	fmt.Fprintf(w, "Time range:   %s - %s (%s)\n",
		s.TimeRange.Start.UTC().Format(time.RFC3339),
		s.TimeRange.End.UTC().Format(time.RFC3339),
		s.TimeRange.End.Sub(s.TimeRange.Start).Round(time.Millisecond))

	fmt.Fprintln(w, "\nBy category:")
	for _, c := range []log.Category{log.CategoryChange, log.CategoryState, log.CategoryError} {
		fmt.Fprintf(w, "  %-8s %d\n", c, s.EventsByCategory[c])
	}

	fmt.Fprintln(w, "\nChanges by kind:")
	for _, k := range []log.Kind{log.KindAdded, log.KindRemoved, log.KindUnknown} {
		fmt.Fprintf(w, "  %-8s %d\n", k, s.ChangesByKind[k])
	}

	fmt.Fprintf(w, "\nSessions (%d):\n", len(s.Sessions))
	ids := make([]string, 0, len(s.Sessions))
	for id := range s.Sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.Sessions[ids[i]].FirstSeen.Before(s.Sessions[ids[j]].FirstSeen)
	})
	for _, id := range ids {
		sess := s.Sessions[id]
		fmt.Fprintf(w, "  %s  %-16s %4d events  %s", shortenSessionID(id), sess.ServiceType, sess.Events, sess.LastState)
		if sess.StopReason != "" {
			fmt.Fprintf(w, " (%s)", sess.StopReason)
		}
		fmt.Fprintln(w)
	}

	if len(s.Services) > 0 {
		fmt.Fprintf(w, "\nServices (%d):\n", len(s.Services))
		names := make([]string, 0, len(s.Services))
		for name := range s.Services {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if s.Services[names[i]] != s.Services[names[j]] {
				return s.Services[names[i]] > s.Services[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			fmt.Fprintf(w, "  %-32s %d\n", name, s.Services[name])
		}
	}

	if s.Errors > 0 {
		fmt.Fprintf(w, "\nRecovered errors: %d\n", s.Errors)
	}
}
