package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/svcwatch/svcwatch-go/pkg/log"
)

var baseTime = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

const sessionA = "0b7c5f0e-1111-4a4a-9c9c-000000000001"
const sessionB = "7d3e2a10-2222-4b4b-8d8d-000000000002"

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.cbor")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	return path
}

func changeEvent(offset time.Duration, session string, seq uint64, kind log.Kind, prev, cur *log.EndpointRecord) log.Event {
	return log.Event{
		Timestamp:   baseTime.Add(offset),
		SessionID:   session,
		Category:    log.CategoryChange,
		ServiceType: "_ipp._tcp",
		Change: &log.ChangeRecord{
			Kind:     kind,
			Previous: prev,
			Current:  cur,
			Sequence: seq,
		},
	}
}

func stateEvent(offset time.Duration, session, from, to, reason string) log.Event {
	return log.Event{
		Timestamp:   baseTime.Add(offset),
		SessionID:   session,
		Category:    log.CategoryState,
		ServiceType: "_ipp._tcp",
		StateChange: &log.StateChangeEvent{OldState: from, NewState: to, Reason: reason},
	}
}

func printer(more bool) *log.EndpointRecord {
	return &log.EndpointRecord{Name: "Office Printer", Domain: "local.", MorePending: more}
}

// sampleEvents is a complete session: start, add, update, remove, stop,
// plus one recovered error and a change from a second session.
func sampleEvents() []log.Event {
	return []log.Event{
		stateEvent(0, sessionA, "UNCONFIGURED", "CONFIGURED", ""),
		stateEvent(time.Millisecond, sessionA, "CONFIGURED", "ACTIVE", ""),
		changeEvent(time.Second, sessionA, 1, log.KindAdded, nil, printer(true)),
		changeEvent(2*time.Second, sessionA, 2, log.KindUnknown, printer(false), printer(false)),
		{
			Timestamp: baseTime.Add(3 * time.Second),
			SessionID: sessionA,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Message: "browse: missing attribute: domain", Context: "describe current"},
		},
		changeEvent(4*time.Second, sessionA, 3, log.KindRemoved, printer(false), nil),
		stateEvent(5*time.Second, sessionA, "ACTIVE", "STOPPING", "interrupt"),
		stateEvent(5*time.Second+time.Millisecond, sessionA, "STOPPING", "TERMINATED", "interrupt"),
		changeEvent(6*time.Second, sessionB, 1, log.KindAdded, nil, &log.EndpointRecord{Name: "nas", Domain: "local."}),
	}
}
