// Package cache memoises idempotent read responses for a fixed TTL.
package cache

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// DefaultTTL is how long a captured response stays fresh.
const DefaultTTL = 5 * time.Minute

// Options describes the parts of a request that take part in the cache key.
// Field order is fixed by the struct, but Body is serialised as given, so two
// bodies with differently ordered fields produce different keys.
type Options struct {
	Method string          `json:"method,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// Cacheable reports whether a request with these options may populate the cache.
// Only GET and method-less requests qualify.
func (o Options) Cacheable() bool {
	return o.Method == "" || o.Method == http.MethodGet
}

// Key returns the cache key for a request: the exact URL followed by the
// canonical serialisation of its options.
func Key(url string, opts Options) string {
	b, err := json.Marshal(opts)
	if err != nil {
		// RawMessage that is not valid JSON; fall back to the raw bytes.
		return url + opts.Method + string(opts.Body)
	}
	return url + string(b)
}

// Entry is a captured response payload.
type Entry struct {
	Payload    []byte
	CapturedAt time.Time
}

// Cache stores response payloads keyed by Key. Entries older than the TTL are
// treated as absent and evicted on the next lookup; there is no background
// sweep. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	gen     uint64
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the payload stored under key if it is younger than the TTL.
// An expired entry is removed.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.CapturedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.Payload, true
}

// Set stores payload under key with the current time, replacing any existing entry.
func (c *Cache) Set(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Payload: payload, CapturedAt: c.now()}
}

// Generation identifies the current cache contents. Every Invalidate
// starts a new generation.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfGeneration stores payload only if no Invalidate ran since gen was
// read. A response fetched before a write must not outlive the write's
// invalidation. It reports whether the entry was stored.
func (c *Cache) SetIfGeneration(gen uint64, key string, payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.entries[key] = Entry{Payload: payload, CapturedAt: c.now()}
	return true
}

// Invalidate clears all cached entries and starts a new generation.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
	c.gen++
}

// Len returns the number of stored entries, including expired ones that
// have not been looked up yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TTL returns the configured freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}
