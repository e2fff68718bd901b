package browse_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
	"github.com/svcwatch/svcwatch-go/pkg/browse/browsetest"
	"github.com/svcwatch/svcwatch-go/pkg/browse/mocks"
	"github.com/svcwatch/svcwatch-go/pkg/log"
)

const waitTimeout = 2 * time.Second

// startSession configures and starts a session for _http._tcp in all domains.
func startSession(t *testing.T, transport browse.Transport, sink browse.Sink, cfg browse.SessionConfig) *browse.Session {
	t.Helper()

	s := browse.NewSession(transport, cfg)
	sel, err := browse.NewSelector("_http._tcp", "")
	require.NoError(t, err)
	require.NoError(t, s.Configure(sel, sink))
	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)
	return s
}

func TestSessionAddedScenario(t *testing.T) {
	transport := browsetest.NewTransport()
	rec := browsetest.NewRecorder()
	s := startSession(t, transport, rec, browse.SessionConfig{})

	h1 := browsetest.NewResult("printer", "local.")
	require.True(t, transport.Last().Emit(nil, h1, false))
	require.True(t, rec.WaitFor(1, waitTimeout))

	want := browse.ChangeEvent{
		Kind:    browse.ChangeAdded,
		Current: &browse.Endpoint{Name: "printer", Domain: "local.", MorePending: false},
	}
	assert.Equal(t, []browse.ChangeEvent{want}, rec.Events())
	assert.Equal(t, browse.StateActive, s.State())
}

func TestSessionRemovedScenario(t *testing.T) {
	transport := browsetest.NewTransport()
	rec := browsetest.NewRecorder()
	startSession(t, transport, rec, browse.SessionConfig{})

	h1 := browsetest.NewResult("printer", "local.")
	require.True(t, transport.Last().Emit(h1, nil, false))
	require.True(t, rec.WaitFor(1, waitTimeout))

	want := browse.ChangeEvent{
		Kind:     browse.ChangeRemoved,
		Previous: &browse.Endpoint{Name: "printer", Domain: "local."},
	}
	assert.Equal(t, []browse.ChangeEvent{want}, rec.Events())
}

func TestSessionUnknownScenario(t *testing.T) {
	transport := browsetest.NewTransport()
	rec := browsetest.NewRecorder()
	startSession(t, transport, rec, browse.SessionConfig{})

	h1 := browsetest.NewResult("printer", "local.")
	h2 := browsetest.NewResult("printer", "local.")
	require.True(t, transport.Last().Emit(h1, h2, true))
	require.True(t, rec.WaitFor(1, waitTimeout))

	ev := rec.Events()[0]
	assert.Equal(t, browse.ChangeUnknown, ev.Kind)
	require.NotNil(t, ev.Previous)
	require.NotNil(t, ev.Current)
	assert.True(t, ev.Current.MorePending)
}

func TestSessionMissingDomainScenario(t *testing.T) {
	transport := browsetest.NewTransport()
	rec := browsetest.NewRecorder()
	events := &recordingEventLogger{}
	startSession(t, transport, rec, browse.SessionConfig{EventLogger: events})

	h1 := mocks.NewMockResult(t)
	h1.EXPECT().Name().Return("printer", true).Once()
	h1.EXPECT().Domain().Return("", false).Once()

	require.True(t, transport.Last().Emit(nil, h1, false))
	require.True(t, rec.WaitFor(1, waitTimeout))

	ev := rec.Events()[0]
	require.NotNil(t, ev.Current)
	assert.Equal(t, "printer", ev.Current.Name)
	assert.Equal(t, "[NULL]", ev.Current.Domain)
	assert.Equal(t, 1, events.count(log.CategoryError), "missing attribute should be traced")
}

func TestSessionDiffStrategyDegradesToUnknown(t *testing.T) {
	transport := browsetest.NewTransport()
	differ := mocks.NewMockDiffer(t)
	differ.EXPECT().Diff(mock.Anything, mock.Anything).Return(browse.ChangeResultAdded|browse.ChangeTXTRecordChanged, nil)

	rec := browsetest.NewRecorder()
	startSession(t, transport, rec, browse.SessionConfig{
		Classifier: browse.NewDiffClassifier(differ, nil),
	})

	require.True(t, transport.Last().Emit(nil, browsetest.NewResult("printer", "local."), false))
	require.True(t, rec.WaitFor(1, waitTimeout))
	assert.Equal(t, browse.ChangeUnknown, rec.Events()[0].Kind)
}

func TestSessionPreservesOrder(t *testing.T) {
	transport := browsetest.NewTransport()
	rec := browsetest.NewRecorder()
	startSession(t, transport, rec, browse.SessionConfig{QueueDepth: 2})

	names := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, n := range names {
		require.True(t, transport.Last().Emit(nil, browsetest.NewResult(n, "local."), i < len(names)-1))
	}
	require.True(t, rec.WaitFor(len(names), waitTimeout))

	for i, ev := range rec.Events() {
		assert.Equal(t, names[i], ev.Current.Name)
	}
}

func TestSessionIgnoresEmptyNotification(t *testing.T) {
	transport := browsetest.NewTransport()
	rec := browsetest.NewRecorder()
	s := startSession(t, transport, rec, browse.SessionConfig{})

	require.True(t, transport.Last().Emit(nil, nil, false))
	s.Stop()

	assert.Equal(t, 0, rec.Len())
}

func TestSessionStartTwice(t *testing.T) {
	transport := browsetest.NewTransport()
	s := startSession(t, transport, browsetest.NewRecorder(), browse.SessionConfig{})

	assert.ErrorIs(t, s.Start(), browse.ErrAlreadyActive)
	assert.Equal(t, browse.StateActive, s.State())
	assert.Equal(t, 1, transport.Subscriptions())
}

func TestSessionLifecycleErrors(t *testing.T) {
	transport := browsetest.NewTransport()
	s := browse.NewSession(transport, browse.SessionConfig{})
	assert.Equal(t, browse.StateUnconfigured, s.State())

	assert.ErrorIs(t, s.Start(), browse.ErrNotConfigured)

	err := s.Configure(browse.Selector{ServiceType: "_http\x00._tcp"}, browsetest.NewRecorder())
	assert.ErrorIs(t, err, browse.ErrInvalidSelector)
	assert.Equal(t, browse.StateUnconfigured, s.State())
	assert.Equal(t, 0, transport.Subscriptions(), "invalid selector must not reach the transport")

	sel, _ := browse.NewSelector("_http._tcp", "local.")
	assert.ErrorIs(t, s.Configure(sel, nil), browse.ErrNilSink)
	assert.Equal(t, browse.StateUnconfigured, s.State())

	require.NoError(t, s.Configure(sel, browsetest.NewRecorder()))
	assert.Equal(t, browse.StateConfigured, s.State())
	assert.Equal(t, sel, s.Selector())
	assert.ErrorIs(t, s.Configure(sel, browsetest.NewRecorder()), browse.ErrAlreadyConfigured)

	s.Stop()
	assert.Equal(t, browse.StateTerminated, s.State())
	assert.True(t, transport.Last().Cancelled())
	assert.ErrorIs(t, s.Start(), browse.ErrTerminated)
	assert.ErrorIs(t, s.Configure(sel, browsetest.NewRecorder()), browse.ErrTerminated)
}

func TestSessionStopBeforeConfigure(t *testing.T) {
	s := browse.NewSession(browsetest.NewTransport(), browse.SessionConfig{})
	s.Stop()
	s.Stop()

	assert.Equal(t, browse.StateTerminated, s.State())
	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
}

func TestSessionStartFailure(t *testing.T) {
	transport := browsetest.NewTransport()
	transport.FailStart = true

	s := browse.NewSession(transport, browse.SessionConfig{})
	sel, _ := browse.NewSelector("_http._tcp", "")
	require.NoError(t, s.Configure(sel, browsetest.NewRecorder()))

	err := s.Start()
	assert.ErrorIs(t, err, browsetest.ErrStartFailed)
	assert.Equal(t, browse.StateTerminated, s.State())
	assert.True(t, transport.Last().Cancelled())
}

func TestSessionStopIsIdempotent(t *testing.T) {
	transport := browsetest.NewTransport()
	s := startSession(t, transport, browsetest.NewRecorder(), browse.SessionConfig{})

	s.Stop()
	s.Stop()
	s.StopWithReason("again")

	assert.Equal(t, browse.StateTerminated, s.State())
	assert.True(t, transport.Last().Cancelled())
}

func TestSessionStopDrainsInFlight(t *testing.T) {
	transport := browsetest.NewTransport()

	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var delivered []string
	sink := browse.SinkFunc(func(ev browse.ChangeEvent) {
		if ev.Current.Name == "first" {
			close(entered)
			<-release
		}
		mu.Lock()
		delivered = append(delivered, ev.Current.Name)
		mu.Unlock()
	})

	s := startSession(t, transport, sink, browse.SessionConfig{})
	sub := transport.Last()

	require.True(t, sub.Emit(nil, browsetest.NewResult("first", "local."), true))
	<-entered
	require.True(t, sub.Emit(nil, browsetest.NewResult("second", "local."), false))

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a notification was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(waitTimeout):
		t.Fatal("Stop did not return after the in-flight notification finished")
	}

	mu.Lock()
	assert.Equal(t, []string{"first", "second"}, delivered, "each accepted notification is delivered exactly once")
	mu.Unlock()

	// Nothing reaches the sink once the session has terminated.
	assert.False(t, sub.Emit(nil, browsetest.NewResult("late", "local."), false))
	sub.Invoke(nil, browsetest.NewResult("late-direct", "local."), false)

	mu.Lock()
	assert.Len(t, delivered, 2)
	mu.Unlock()
}

func TestSessionConcurrentStop(t *testing.T) {
	transport := browsetest.NewTransport()
	rec := browsetest.NewRecorder()
	s := startSession(t, transport, rec, browse.SessionConfig{})
	sub := transport.Last()

	var producers sync.WaitGroup
	for i := 0; i < 4; i++ {
		producers.Add(1)
		go func() {
			defer producers.Done()
			for j := 0; j < 50; j++ {
				sub.Emit(nil, browsetest.NewResult("svc", "local."), false)
			}
		}()
	}

	var stoppers sync.WaitGroup
	for i := 0; i < 3; i++ {
		stoppers.Add(1)
		go func() {
			defer stoppers.Done()
			s.Stop()
		}()
	}
	stoppers.Wait()

	after := rec.Len()
	producers.Wait()

	assert.Equal(t, browse.StateTerminated, s.State())
	assert.Equal(t, after, rec.Len(), "no delivery after Stop returned")
}

func TestSessionTracesStateAndChanges(t *testing.T) {
	transport := browsetest.NewTransport()
	events := &recordingEventLogger{}
	rec := browsetest.NewRecorder()
	s := startSession(t, transport, rec, browse.SessionConfig{EventLogger: events})

	require.True(t, transport.Last().Emit(nil, browsetest.NewResult("printer", "local."), false))
	require.True(t, rec.WaitFor(1, waitTimeout))
	s.StopWithReason("interrupt")

	var states []string
	var change *log.ChangeRecord
	for _, e := range events.all() {
		assert.Equal(t, s.ID(), e.SessionID)
		switch {
		case e.StateChange != nil:
			states = append(states, e.StateChange.NewState)
		case e.Change != nil:
			change = e.Change
		}
	}

	assert.Equal(t, []string{"CONFIGURED", "ACTIVE", "STOPPING", "TERMINATED"}, states)
	require.NotNil(t, change)
	assert.Equal(t, log.KindAdded, change.Kind)
	assert.Equal(t, uint64(1), change.Sequence)
	assert.Equal(t, "printer", change.Current.Name)
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := browse.NewSession(browsetest.NewTransport(), browse.SessionConfig{})
	b := browse.NewSession(browsetest.NewTransport(), browse.SessionConfig{})
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "UNCONFIGURED", browse.StateUnconfigured.String())
	assert.Equal(t, "ACTIVE", browse.StateActive.String())
	assert.Equal(t, "TERMINATED", browse.StateTerminated.String())
	assert.Equal(t, "UNKNOWN", browse.State(99).String())
}

type recordingEventLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingEventLogger) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEventLogger) all() []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]log.Event(nil), r.events...)
}

func (r *recordingEventLogger) count(c log.Category) int {
	n := 0
	for _, e := range r.all() {
		if e.Category == c {
			n++
		}
	}
	return n
}
