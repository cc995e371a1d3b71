package application

import (
	"sync"
	"time"

	"github.com/example/studio-booking/internal/calendar"
)

// weekViewCache stores recently computed week listings so that repeated grid
// renders for the same week do not re-run occurrence resolution while the
// booking collection remains unchanged. Every mutation invalidates the cache
// wholesale; entries also age out on their own.
type weekViewCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]weekViewEntry
}

type weekViewEntry struct {
	bookings  []Booking
	expiresAt time.Time
}

func newWeekViewCache(ttl time.Duration, maxEntries int, now func() time.Time) *weekViewCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 64
	}
	if now == nil {
		now = time.Now
	}
	return &weekViewCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]weekViewEntry),
	}
}

// Get returns a cloned cached listing for the week key, if present and fresh.
func (c *weekViewCache) Get(key string) ([]Booking, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneBookings(entry.bookings), true
}

// Store records a listing for the week key.
func (c *weekViewCache) Store(key string, bookings []Booking) {
	if c == nil {
		return
	}
	cloned := cloneBookings(bookings)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = weekViewEntry{bookings: cloned, expiresAt: expiry}
}

// Invalidate drops every cached listing.
func (c *weekViewCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]weekViewEntry)
	c.mu.Unlock()
}

func (c *weekViewCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *weekViewCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneBookings(bookings []Booking) []Booking {
	if len(bookings) == 0 {
		return nil
	}
	out := make([]Booking, len(bookings))
	copy(out, bookings)
	for i := range out {
		out[i].Occurrences = append([]calendar.Date(nil), bookings[i].Occurrences...)
	}
	return out
}
