// Package commands implements the svcwatch-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/svcwatch/svcwatch-go/pkg/log"
)

// FilterOptions holds the filter flags shared by all commands. Empty
// fields match everything.
type FilterOptions struct {
	SessionID string
	Category  string
	Kind      string
	Name      string
	Domain    string
	TimeStart string
	TimeEnd   string
}

// BuildFilter converts flag values into a log.Filter.
func BuildFilter(opts FilterOptions) (log.Filter, error) {
	filter := log.Filter{
		SessionID: opts.SessionID,
		Name:      opts.Name,
		Domain:    opts.Domain,
	}

	if opts.Category != "" {
		c, ok := log.ParseCategory(opts.Category)
		if !ok {
			return filter, fmt.Errorf("unknown category: %s (use: change, state, error)", opts.Category)
		}
		filter.Category = &c
	}

	if opts.Kind != "" {
		k, ok := log.ParseKind(opts.Kind)
		if !ok {
			return filter, fmt.Errorf("unknown kind: %s (use: added, removed, unknown)", opts.Kind)
		}
		filter.Kind = &k
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// RunFilter writes the events of path matching filter to output, which is
// created as a new event log.
func RunFilter(path, output string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Close()
			return fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}

	if err := logger.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if _, failed := logger.Counts(); failed > 0 {
		return fmt.Errorf("failed to write %d events to %s", failed, output)
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, output)
	return nil
}
