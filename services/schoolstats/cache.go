package schoolstats

import (
	"sync/atomic"
	"time"

	"edustats-backend/lib/scrapers/edugis"
	"edustats-backend/lib/timezone"
)

// CacheEntry is an immutable view of one successful pipeline run.
type CacheEntry struct {
	Records   []edugis.Record
	FetchedAt time.Time
}

// Cache is a single-slot store for the whole dataset. Writes swap the
// entry pointer wholesale, so readers always observe a complete entry,
// old or new, never a torn one.
type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	entry atomic.Pointer[CacheEntry]
}

func NewCache(ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Cache{
		ttl: ttl,
		now: timezone.Now,
	}
}

// Get returns the entry while it is younger than the ttl.
func (c *Cache) Get() (CacheEntry, bool) {
	entry := c.entry.Load()
	if entry == nil {
		return CacheEntry{}, false
	}
	if c.now().Sub(entry.FetchedAt) >= c.ttl {
		return CacheEntry{}, false
	}
	return *entry, true
}

// GetForce returns the entry regardless of age. Used as the fallback
// display when a refresh fails.
func (c *Cache) GetForce() (CacheEntry, bool) {
	entry := c.entry.Load()
	if entry == nil {
		return CacheEntry{}, false
	}
	return *entry, true
}

// Put replaces the entry with a copy of records stamped now.
func (c *Cache) Put(records []edugis.Record) {
	owned := make([]edugis.Record, len(records))
	copy(owned, records)

	c.entry.Store(&CacheEntry{
		Records:   owned,
		FetchedAt: c.now(),
	})
}
