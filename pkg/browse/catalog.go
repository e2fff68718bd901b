package browse

import (
	"sort"
	"sync"
	"time"
)

// CatalogEntry is a service currently known to a Catalog.
type CatalogEntry struct {
	Endpoint
	FirstSeen time.Time
	LastSeen  time.Time
}

// Catalog is a Sink that tracks the set of services currently advertised.
// Unknown changes are applied as removal of the previous snapshot followed
// by insertion of the current one.
type Catalog struct {
	mu      sync.RWMutex
	entries map[EndpointKey]*CatalogEntry
	counts  map[ChangeKind]int
	now     func() time.Time
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[EndpointKey]*CatalogEntry),
		counts:  make(map[ChangeKind]int),
		now:     time.Now,
	}
}

// Deliver implements Sink.
func (c *Catalog) Deliver(event ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[event.Kind]++
	now := c.now()

	if event.Previous != nil && (event.Kind == ChangeRemoved || event.Current == nil || event.Previous.Key() != event.Current.Key()) {
		delete(c.entries, event.Previous.Key())
	}
	if event.Current != nil && event.Kind != ChangeRemoved {
		key := event.Current.Key()
		if existing, ok := c.entries[key]; ok {
			existing.Endpoint = *event.Current
			existing.LastSeen = now
		} else {
			c.entries[key] = &CatalogEntry{
				Endpoint:  *event.Current,
				FirstSeen: now,
				LastSeen:  now,
			}
		}
	}
}

// Lookup returns the entry for name in domain.
func (c *Catalog) Lookup(name, domain string) (CatalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[EndpointKey{Name: name, Domain: domain}]
	if !ok {
		return CatalogEntry{}, false
	}
	return *e, true
}

// Entries returns the known services sorted by domain, then name.
func (c *Catalog) Entries() []CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]CatalogEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Domain != out[j].Domain {
			return out[i].Domain < out[j].Domain
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of known services.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Count returns how many events of kind were delivered.
func (c *Catalog) Count(kind ChangeKind) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[kind]
}

var _ Sink = (*Catalog)(nil)
