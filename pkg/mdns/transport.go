package mdns

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
)

// DefaultDomain is browsed when the selector names no domain.
const DefaultDomain = "local."

// DefaultBufferSize is the capacity of the entry channels fed by zeroconf.
const DefaultBufferSize = 32

// Errors returned by subscriptions.
var (
	ErrNoHandler = errors.New("mdns: handler and queue must be set before Start")
	ErrStarted   = errors.New("mdns: subscription already started")
	ErrCancelled = errors.New("mdns: subscription cancelled")
)

// Config configures a Transport.
type Config struct {
	// Interface restricts browsing to the named network interface.
	// Empty means all interfaces.
	Interface string

	// BufferSize is the capacity of the zeroconf entry channels.
	// Default: DefaultBufferSize.
	BufferSize int

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// browseFunc matches zeroconf.Browse.
type browseFunc func(ctx context.Context, service, domain string, entries, removed chan *zeroconf.ServiceEntry, opts []zeroconf.ClientOption) error

func zeroconfBrowse(ctx context.Context, service, domain string, entries, removed chan *zeroconf.ServiceEntry, opts []zeroconf.ClientOption) error {
	return zeroconf.Browse(ctx, service, domain, entries, removed, opts...)
}

// Transport browses DNS-SD services over multicast DNS.
type Transport struct {
	config Config
	browse browseFunc
}

// New creates a transport.
func New(config Config) *Transport {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	return &Transport{config: config, browse: zeroconfBrowse}
}

// Subscribe implements browse.Transport.
func (t *Transport) Subscribe(sel browse.Selector) (browse.Subscription, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	domain := sel.Domain
	if sel.AllDomains() {
		domain = DefaultDomain
	}

	return &subscription{
		transport: t,
		service:   sel.ServiceType,
		domain:    domain,
	}, nil
}

// Diff implements browse.Differ.
func (t *Transport) Diff(previous, current browse.Result) (browse.ChangeMask, error) {
	prev, err := asService(previous)
	if err != nil {
		return browse.ChangeInvalid, err
	}
	cur, err := asService(current)
	if err != nil {
		return browse.ChangeInvalid, err
	}
	if prev == nil && cur == nil {
		return browse.ChangeInvalid, errors.New("mdns: no results to compare")
	}
	return diff(prev, cur), nil
}

// clientOptions returns zeroconf client options based on config.
func (t *Transport) clientOptions() ([]zeroconf.ClientOption, error) {
	var opts []zeroconf.ClientOption

	if t.config.Interface != "" {
		iface, err := net.InterfaceByName(t.config.Interface)
		if err != nil {
			return nil, fmt.Errorf("interface %q: %w", t.config.Interface, err)
		}
		opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
	}

	return opts, nil
}

type subscription struct {
	transport *Transport
	service   string
	domain    string

	mu        sync.Mutex
	handler   browse.Handler
	queue     *browse.Queue
	started   bool
	cancelled bool
	cancel    context.CancelFunc

	// wg tracks the aggregation loop, the only dispatching goroutine, and
	// the zeroconf browse call feeding it.
	wg sync.WaitGroup
}

func (s *subscription) SetHandler(h browse.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *subscription) SetQueue(q *browse.Queue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = q
}

func (s *subscription) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.cancelled:
		return ErrCancelled
	case s.started:
		return ErrStarted
	case s.handler == nil || s.queue == nil:
		return ErrNoHandler
	}

	opts, err := s.transport.clientOptions()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.started = true

	size := s.transport.config.BufferSize
	entries := make(chan *zeroconf.ServiceEntry, size)
	removed := make(chan *zeroconf.ServiceEntry, size)

	browseDone := make(chan struct{})
	s.wg.Add(2)
	go s.run(ctx, entries, removed, browseDone)

	go func() {
		defer s.wg.Done()
		defer close(browseDone)
		if err := s.transport.browse(ctx, s.service, s.domain, entries, removed, opts); err != nil && ctx.Err() == nil {
			s.debug("browse failed", "error", err)
		}
	}()

	s.debug("browse started")
	return nil
}

func (s *subscription) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// run aggregates zeroconf entries by instance name and dispatches one
// notification per change of an aggregated service. browseDone is closed
// when the browse call feeding entries and removed has returned.
func (s *subscription) run(ctx context.Context, entries, removed chan *zeroconf.ServiceEntry, browseDone <-chan struct{}) {
	defer s.wg.Done()

	s.mu.Lock()
	handler, queue := s.handler, s.queue
	s.mu.Unlock()

	services := make(map[string]*Service)
	pending := func() bool { return len(entries) > 0 || len(removed) > 0 }

	dispatch := func(previous, current *Service) {
		// Keep absent sides as untyped nil.
		var prev, cur browse.Result
		if previous != nil {
			prev = previous
		}
		if current != nil {
			cur = current
		}
		more := pending()
		if !queue.Dispatch(func() { handler(prev, cur, more) }) {
			s.debug("queue closed, notification dropped")
		}
	}

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				entries = nil
				continue
			}
			svc := serviceFromEntry(entry)
			if svc.InstanceName == "" {
				continue
			}

			existing, found := services[svc.InstanceName]
			if !found {
				services[svc.InstanceName] = svc
				dispatch(nil, svc)
				continue
			}
			if merged, changed := merge(existing, svc); changed {
				services[svc.InstanceName] = merged
				dispatch(existing, merged)
			}

		case entry, ok := <-removed:
			if !ok {
				removed = nil
				continue
			}
			existing, found := services[entry.Instance]
			if !found {
				continue
			}
			remaining := withoutAddresses(existing, serviceFromEntry(entry))
			if len(remaining.Addresses) == 0 || len(entry.AddrIPv4)+len(entry.AddrIPv6) == 0 {
				delete(services, entry.Instance)
				dispatch(existing, nil)
				continue
			}
			services[entry.Instance] = remaining
			dispatch(existing, remaining)

		case <-ctx.Done():
			drain(entries, removed, browseDone)
			return
		}
	}
}

// drain discards entries until the browse call has returned. zeroconf
// sends on both channels without watching its context and only closes
// them on the way out.
func drain(entries, removed <-chan *zeroconf.ServiceEntry, browseDone <-chan struct{}) {
	for {
		select {
		case _, ok := <-entries:
			if !ok {
				entries = nil
			}
		case _, ok := <-removed:
			if !ok {
				removed = nil
			}
		case <-browseDone:
			return
		}
	}
}

func (s *subscription) debug(msg string, args ...any) {
	if s.transport.config.Logger == nil {
		return
	}
	args = append([]any{"service", s.service, "domain", s.domain}, args...)
	s.transport.config.Logger.Debug("mdns: "+msg, args...)
}

// Compile-time interface satisfaction checks.
var (
	_ browse.Transport    = (*Transport)(nil)
	_ browse.Differ       = (*Transport)(nil)
	_ browse.Subscription = (*subscription)(nil)
)
