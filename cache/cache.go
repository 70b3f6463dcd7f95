package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/jonwraymond/llmguard/llm"
)

// Config configures the response cache.
type Config struct {
	// MaxSize is the maximum number of entries before LRU eviction.
	// Default: 500
	MaxSize int

	// TTL is the time-to-live of an entry from insertion.
	// Default: 5 minutes
	TTL time.Duration

	// Keyer derives cache keys. Default: SHA256Keyer.
	Keyer Keyer
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

// HitRate returns hits over total lookups, 0 when no lookups occurred.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is an LRU+TTL response cache.
//
// Contract:
// - Concurrency: safe for unbounded concurrent callers; no caller can
//   observe a partially updated entry.
// - Ownership: stored responses are never handed out for mutation; Put
//   stores a FromCache-tagged copy.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	config  Config

	hits      uint64
	misses    uint64
	evictions uint64

	now func() time.Time
}

type entry struct {
	key       string
	response  *llm.Response
	createdAt time.Time
}

// New creates a response cache.
func New(config Config) *Cache {
	// Apply defaults
	if config.MaxSize <= 0 {
		config.MaxSize = 500
	}
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}
	if config.Keyer == nil {
		config.Keyer = SHA256Keyer{}
	}

	return &Cache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		config:  config,
		now:     time.Now,
	}
}

// Get retrieves a cached response for the triple.
// An expired entry counts as both a miss and an eviction and is removed.
func (c *Cache) Get(prompt, model, provider string) (*llm.Response, bool) {
	key := c.config.Keyer.Key(prompt, model, provider)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	e := elem.Value.(*entry)
	if c.expiredLocked(e) {
		c.removeLocked(elem)
		c.misses++
		c.evictions++
		return nil, false
	}

	c.hits++
	c.order.MoveToFront(elem)
	return e.response, true
}

// Put stores a response for the triple.
//
// The stored copy is tagged FromCache so future retrievals report their
// origin, regardless of how the response was originally obtained.
// Expired entries are pruned on every Put to bound growth under
// write-heavy workloads.
func (c *Cache) Put(prompt, model, provider string, response *llm.Response) {
	key := c.config.Keyer.Key(prompt, model, provider)
	tagged := response.WithFromCache(true)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneExpiredLocked()

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		e.response = tagged
		e.createdAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&entry{key: key, response: tagged, createdAt: c.now()})
	c.entries[key] = elem

	for len(c.entries) > c.config.MaxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
		c.evictions++
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.entries),
	}
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries. Counters are preserved.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

func (c *Cache) expiredLocked(e *entry) bool {
	return c.now().Sub(e.createdAt) >= c.config.TTL
}

func (c *Cache) pruneExpiredLocked() {
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if c.expiredLocked(elem.Value.(*entry)) {
			c.removeLocked(elem)
			c.evictions++
		}
		elem = prev
	}
}

func (c *Cache) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	delete(c.entries, e.key)
	c.order.Remove(elem)
}
