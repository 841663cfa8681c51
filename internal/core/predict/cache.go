package predict

import (
	"sort"
	"sync"
	"time"
)

const cacheEvictPct = 0.10

// Cache is a bounded TTL cache of assembled slates, keyed by the full
// request tuple. Entries are immutable once written: readers share the
// stored pointer and must not modify the slate. When the cap is exceeded
// the oldest 10% of entries are evicted.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]cacheEntry
	now     func() time.Time // test seam
}

type cacheEntry struct {
	slate   *Slate
	addedAt time.Time
}

func NewCache(ttl time.Duration, maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns a cached slate, or nil when absent or expired.
func (c *Cache) Get(key string) (*Slate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.addedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.slate, true
}

// Put stores a slate. The caller hands over ownership; the slate must not
// be mutated afterwards.
func (c *Cache) Put(key string, s *Slate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{slate: s, addedAt: c.now()}
	if len(c.entries) > c.maxSize {
		c.evict()
	}
}

// evict removes the oldest 10% of entries (at least one).
// Must be called with c.mu held.
func (c *Cache) evict() {
	type aged struct {
		key     string
		addedAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k, e.addedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].addedAt.Before(all[j].addedAt) })

	toDelete := int(float64(len(all)) * cacheEvictPct)
	if toDelete < 1 {
		toDelete = 1
	}
	for _, a := range all[:toDelete] {
		delete(c.entries, a.key)
	}
}

// Len reports the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
