package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/svcwatch/svcwatch-go/pkg/log"
)

func TestFormatChangeEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, changeEvent(0, sessionA, 7, log.KindAdded, nil, printer(true)))
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.123456Z",
		"[session:0b7c5f0e]",
		"CHANGE",
		"_ipp._tcp",
		"Kind: ADDED (seq 7)",
		`Current: "Office Printer" in "local." (more pending)`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Previous:") {
		t.Errorf("added event should not print a previous endpoint:\n%s", output)
	}
}

func TestFormatStateEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, stateEvent(0, sessionA, "ACTIVE", "STOPPING", "terminate"))
	output := buf.String()

	if !strings.Contains(output, "ACTIVE -> STOPPING") {
		t.Errorf("expected state transition, got:\n%s", output)
	}
	if !strings.Contains(output, "Reason: terminate") {
		t.Errorf("expected reason, got:\n%s", output)
	}
}

func TestFormatErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, log.Event{
		Timestamp: baseTime,
		SessionID: "short",
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Message: "boom", Context: "describe previous"},
	})
	output := buf.String()

	if !strings.Contains(output, "[session:short]") {
		t.Errorf("short session IDs should be kept as-is, got:\n%s", output)
	}
	if !strings.Contains(output, "Error: boom") || !strings.Contains(output, "Context: describe previous") {
		t.Errorf("expected error details, got:\n%s", output)
	}
}

func TestRunViewWithFilter(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	kind := log.KindRemoved
	var buf bytes.Buffer
	if err := RunView(path, log.Filter{Kind: &kind}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if got := strings.Count(output, "[session:"); got != 1 {
		t.Errorf("expected 1 event, got %d:\n%s", got, output)
	}
	if !strings.Contains(output, "Kind: REMOVED") {
		t.Errorf("expected removed event, got:\n%s", output)
	}
}

func TestRunViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView("/nonexistent/events.cbor", log.Filter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}
