package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/svcwatch/svcwatch-go/pkg/log"
)

// RunExport exports the events of path matching filter in format (jsonl or
// csv) to output, or to stdout when output is empty.
func RunExport(path, format, output string, filter log.Filter) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

// jsonEvent is the JSON form of an event.
type jsonEvent struct {
	Timestamp    string                `json:"timestamp"`
	SessionID    string                `json:"session_id"`
	Category     string                `json:"category"`
	ServiceType  string                `json:"service_type,omitempty"`
	BrowseDomain string                `json:"browse_domain,omitempty"`
	Change       *jsonChange           `json:"change,omitempty"`
	StateChange  *log.StateChangeEvent `json:"state_change,omitempty"`
	Error        *log.ErrorEventData   `json:"error,omitempty"`
}

type jsonChange struct {
	Kind     string              `json:"kind"`
	Sequence uint64              `json:"seq"`
	Previous *log.EndpointRecord `json:"previous,omitempty"`
	Current  *log.EndpointRecord `json:"current,omitempty"`
}

func toJSON(event log.Event) jsonEvent {
	je := jsonEvent{
		Timestamp:    event.Timestamp.UTC().Format(timestampFormat),
		SessionID:    event.SessionID,
		Category:     event.Category.String(),
		ServiceType:  event.ServiceType,
		BrowseDomain: event.BrowseDomain,
		StateChange:  event.StateChange,
		Error:        event.Error,
	}
	if c := event.Change; c != nil {
		je.Change = &jsonChange{
			Kind:     c.Kind.String(),
			Sequence: c.Sequence,
			Previous: c.Previous,
			Current:  c.Current,
		}
	}
	return je
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toJSON(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"timestamp", "session_id", "category", "service_type", "browse_domain", "kind", "seq", "name", "domain", "more_pending", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		var kind, seq, name, domain, more, detail string
		switch {
		case event.Change != nil:
			c := event.Change
			kind = c.Kind.String()
			seq = strconv.FormatUint(c.Sequence, 10)
			// Current wins; Removed events only carry the previous side.
			ep := c.Current
			if ep == nil {
				ep = c.Previous
			}
			if ep != nil {
				name, domain = ep.Name, ep.Domain
				more = strconv.FormatBool(ep.MorePending)
			}
		case event.StateChange != nil:
			detail = event.StateChange.OldState + "->" + event.StateChange.NewState
		case event.Error != nil:
			detail = event.Error.Message
		}

		row := []string{
			event.Timestamp.UTC().Format(timestampFormat),
			event.SessionID,
			event.Category.String(),
			event.ServiceType,
			event.BrowseDomain,
			kind, seq, name, domain, more, detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
