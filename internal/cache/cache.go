// Package cache holds the process-wide feed cache. Entries are replaced
// wholesale on refresh and never mutated in place, so concurrent readers
// can never observe a partial write. Stampedes on an expired key are
// tolerated: the last fetch to finish wins.
package cache

import (
	"sync"
	"time"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/ical"
)

type entry struct {
	fetchedAt time.Time
	events    []ical.EventRange
}

// Cache is a TTL cache of parsed feed events keyed by feed URL. The clock
// is injectable so TTL behavior is testable without real time passing.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// New builds a cache with the given TTL. A nil now func falls back to
// time.Now.
func New(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// Get returns the cached events for url, or ok=false on a miss or an
// expired entry.
func (c *Cache) Get(url string) ([]ical.EventRange, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.events, true
}

// Set stores a fresh entry for url, replacing any previous one.
func (c *Cache) Set(url string, events []ical.EventRange) {
	c.mu.Lock()
	c.entries[url] = entry{fetchedAt: c.now(), events: events}
	c.mu.Unlock()
}

// Sweep drops expired entries and reports how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for url, e := range c.entries {
		if now.Sub(e.fetchedAt) >= c.ttl {
			delete(c.entries, url)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
