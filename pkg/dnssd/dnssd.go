// Package dnssd implements a browse.Transport on top of the callback
// based DNS-SD resolver in github.com/brutella/dnssd.
//
// The resolver reports each instance once per interface. Entries are
// aggregated by instance name; a service is Added when first seen on any
// interface and Removed when it disappears from the last one. Changes to
// the interface set are reported with both a previous and a current
// result. The transport does not compute change masks, so sessions
// classify its notifications by position.
package dnssd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/brutella/dnssd"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
)

// DefaultDomain is browsed when the selector names no domain.
const DefaultDomain = "local"

// Errors returned by subscriptions.
var (
	ErrNoHandler = errors.New("dnssd: handler and queue must be set before Start")
	ErrStarted   = errors.New("dnssd: subscription already started")
	ErrCancelled = errors.New("dnssd: subscription cancelled")
)

// Config configures a Transport.
type Config struct {
	// Interface restricts results to those seen on the named interface.
	// Empty means all interfaces.
	Interface string

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

type lookupFunc func(ctx context.Context, service string, add dnssd.AddFunc, rmv dnssd.RmvFunc) error

// Transport browses DNS-SD services with brutella/dnssd.
type Transport struct {
	config Config
	lookup lookupFunc
}

// New creates a transport.
func New(config Config) *Transport {
	return &Transport{config: config, lookup: dnssd.LookupType}
}

// Subscribe implements browse.Transport.
func (t *Transport) Subscribe(sel browse.Selector) (browse.Subscription, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return &subscription{
		transport: t,
		service:   serviceName(sel),
		instances: make(map[string]*Instance),
	}, nil
}

// serviceName builds the fully qualified browse name, e.g. "_http._tcp.local.".
func serviceName(sel browse.Selector) string {
	domain := sel.Domain
	if sel.AllDomains() {
		domain = DefaultDomain
	}
	return fmt.Sprintf("%s.%s.", strings.Trim(sel.ServiceType, "."), strings.Trim(domain, "."))
}

// Instance is an aggregated snapshot of one service instance. It is never
// modified after it has been handed to a handler.
type Instance struct {
	InstanceName string
	DomainName   string
	Host         string
	Port         int
	Text         map[string]string
	Interfaces   []string
	IPs          []net.IP
}

// Name implements browse.Result.
func (i *Instance) Name() (string, bool) {
	return i.InstanceName, i.InstanceName != ""
}

// Domain implements browse.Result.
func (i *Instance) Domain() (string, bool) {
	return i.DomainName, i.DomainName != ""
}

func (i *Instance) clone() *Instance {
	c := *i
	c.Text = maps.Clone(i.Text)
	c.Interfaces = slices.Clone(i.Interfaces)
	c.IPs = slices.Clone(i.IPs)
	return &c
}

func instanceFromEntry(e dnssd.BrowseEntry) *Instance {
	inst := &Instance{
		InstanceName: e.Name,
		DomainName:   e.Domain,
		Host:         e.Host,
		Port:         e.Port,
		Text:         maps.Clone(e.Text),
		IPs:          slices.Clone(e.IPs),
	}
	if e.IfaceName != "" {
		inst.Interfaces = []string{e.IfaceName}
	}
	return inst
}

// withInterface returns i seen additionally on e's interface.
func (i *Instance) withInterface(e dnssd.BrowseEntry) (*Instance, bool) {
	if e.IfaceName == "" || slices.Contains(i.Interfaces, e.IfaceName) {
		return i, false
	}
	c := i.clone()
	c.Interfaces = append(c.Interfaces, e.IfaceName)
	sort.Strings(c.Interfaces)
	for _, ip := range e.IPs {
		if !slices.ContainsFunc(c.IPs, ip.Equal) {
			c.IPs = append(c.IPs, ip)
		}
	}
	return c, true
}

// withoutInterface returns i no longer seen on e's interface.
func (i *Instance) withoutInterface(e dnssd.BrowseEntry) *Instance {
	c := i.clone()
	c.Interfaces = slices.DeleteFunc(c.Interfaces, func(name string) bool { return name == e.IfaceName })
	c.IPs = slices.DeleteFunc(c.IPs, func(ip net.IP) bool { return slices.ContainsFunc(e.IPs, ip.Equal) })
	return c
}

type subscription struct {
	transport *Transport
	service   string

	mu        sync.Mutex
	handler   browse.Handler
	queue     *browse.Queue
	started   bool
	cancelled bool
	cancel    context.CancelFunc
	instances map[string]*Instance
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

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.started = true

	go func() {
		if err := s.transport.lookup(ctx, s.service, s.add, s.remove); err != nil && ctx.Err() == nil {
			s.debug("lookup failed", "error", err)
		}
	}()

	s.debug("lookup started")
	return nil
}

// Cancel stops the lookup. Callbacks that arrive afterwards are dropped.
func (s *subscription) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled {
		return
	}
	s.cancelled = true
	if s.cancel != nil {
		s.cancel()
	}
	s.instances = nil
}

func (s *subscription) accepts(e dnssd.BrowseEntry) bool {
	iface := s.transport.config.Interface
	return iface == "" || e.IfaceName == iface
}

func (s *subscription) add(e dnssd.BrowseEntry) {
	if !s.accepts(e) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}

	existing, found := s.instances[e.Name]
	if !found {
		inst := instanceFromEntry(e)
		s.instances[e.Name] = inst
		s.dispatchLocked(nil, inst)
		return
	}
	if updated, changed := existing.withInterface(e); changed {
		s.instances[e.Name] = updated
		s.dispatchLocked(existing, updated)
	}
}

func (s *subscription) remove(e dnssd.BrowseEntry) {
	if !s.accepts(e) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}

	existing, found := s.instances[e.Name]
	if !found {
		return
	}
	remaining := existing.withoutInterface(e)
	if len(remaining.Interfaces) == 0 {
		delete(s.instances, e.Name)
		s.dispatchLocked(existing, nil)
		return
	}
	s.instances[e.Name] = remaining
	s.dispatchLocked(existing, remaining)
}

// dispatchLocked queues one notification. Holding mu keeps Cancel from
// returning while a dispatch is in progress.
func (s *subscription) dispatchLocked(previous, current *Instance) {
	var prev, cur browse.Result
	if previous != nil {
		prev = previous
	}
	if current != nil {
		cur = current
	}
	h := s.handler
	if !s.queue.Dispatch(func() { h(prev, cur, false) }) {
		s.debug("queue closed, notification dropped")
	}
}

func (s *subscription) debug(msg string, args ...any) {
	if s.transport.config.Logger == nil {
		return
	}
	args = append([]any{"service", s.service}, args...)
	s.transport.config.Logger.Debug("dnssd: "+msg, args...)
}

// Compile-time interface satisfaction checks.
var (
	_ browse.Transport    = (*Transport)(nil)
	_ browse.Subscription = (*subscription)(nil)
	_ browse.Result       = (*Instance)(nil)
)
