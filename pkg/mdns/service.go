package mdns

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/enbility/zeroconf/v3"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
)

// ErrForeignResult is returned by Diff for results not produced by this
// package.
var ErrForeignResult = errors.New("mdns: foreign result")

// Service is an aggregated snapshot of one advertised service instance.
// A Service is never modified after it has been handed to a handler.
type Service struct {
	InstanceName string
	DomainName   string
	Host         string
	Port         int
	Text         []string
	Addresses    []string
}

// Name implements browse.Result.
func (s *Service) Name() (string, bool) {
	return s.InstanceName, s.InstanceName != ""
}

// Domain implements browse.Result.
func (s *Service) Domain() (string, bool) {
	return s.DomainName, s.DomainName != ""
}

// clone returns a deep copy.
func (s *Service) clone() *Service {
	c := *s
	c.Text = slices.Clone(s.Text)
	c.Addresses = slices.Clone(s.Addresses)
	return &c
}

// serviceFromEntry converts a zeroconf entry to a snapshot.
func serviceFromEntry(entry *zeroconf.ServiceEntry) *Service {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	sort.Strings(addrs)

	return &Service{
		InstanceName: entry.Instance,
		DomainName:   entry.Domain,
		Host:         entry.HostName,
		Port:         entry.Port,
		Text:         slices.Clone(entry.Text),
		Addresses:    slices.Compact(addrs),
	}
}

// merge returns existing updated with the addresses and records of update.
// changed is false if the result would be identical to existing.
func merge(existing, update *Service) (merged *Service, changed bool) {
	merged = existing.clone()
	merged.Addresses = mergeAddresses(merged.Addresses, update.Addresses)
	if update.Host != "" {
		merged.Host = update.Host
	}
	if update.Port != 0 {
		merged.Port = update.Port
	}
	if len(update.Text) > 0 {
		merged.Text = slices.Clone(update.Text)
	}
	return merged, !equal(existing, merged)
}

// withoutAddresses returns existing minus the addresses of removed.
func withoutAddresses(existing, removed *Service) *Service {
	c := existing.clone()
	c.Addresses = removeAddresses(c.Addresses, removed.Addresses)
	return c
}

// mergeAddresses adds new addresses to existing, avoiding duplicates. The
// result is sorted.
func mergeAddresses(existing, add []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range add {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	sort.Strings(existing)
	return existing
}

// removeAddresses filters the addresses in remove out of addresses.
func removeAddresses(addresses, remove []string) []string {
	toRemove := make(map[string]bool, len(remove))
	for _, addr := range remove {
		toRemove[addr] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}

func equal(a, b *Service) bool {
	return a.InstanceName == b.InstanceName &&
		a.DomainName == b.DomainName &&
		a.Host == b.Host &&
		a.Port == b.Port &&
		slices.Equal(a.Text, b.Text) &&
		slices.Equal(a.Addresses, b.Addresses)
}

// diff computes the change mask between two snapshots. Either may be nil.
func diff(previous, current *Service) browse.ChangeMask {
	switch {
	case previous == nil && current == nil:
		return browse.ChangeInvalid
	case previous == nil:
		return browse.ChangeResultAdded
	case current == nil:
		return browse.ChangeResultRemoved
	case equal(previous, current):
		return browse.ChangeIdentical
	}

	var mask browse.ChangeMask
	if len(removeAddresses(current.Addresses, previous.Addresses)) > 0 {
		mask |= browse.ChangeInterfaceAdded
	}
	if len(removeAddresses(previous.Addresses, current.Addresses)) > 0 {
		mask |= browse.ChangeInterfaceRemoved
	}
	if !slices.Equal(previous.Text, current.Text) {
		mask |= browse.ChangeTXTRecordChanged
	}
	return mask
}

// asService unwraps a browse.Result produced by this package.
func asService(r browse.Result) (*Service, error) {
	if r == nil {
		return nil, nil
	}
	s, ok := r.(*Service)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignResult, r)
	}
	return s, nil
}

var _ browse.Result = (*Service)(nil)
