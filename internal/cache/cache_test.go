package cache

import (
	"encoding/json"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCache_GetEmpty(t *testing.T) {
	c := New()
	got, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss on empty cache")
	}
	if got != nil {
		t.Fatal("expected nil on cache miss")
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c := New()
	c.Set("k", []byte(`[1,2]`))

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if string(got) != `[1,2]` {
		t.Errorf("got %q, want %q", got, `[1,2]`)
	}
}

func TestCache_OverwriteExisting(t *testing.T) {
	c := New()
	c.Set("k", []byte("v1"))
	c.Set("k", []byte("v2"))

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got) != "v2" {
		t.Errorf("got %q, want %q", got, "v2")
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := New()
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Invalidate()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected cache miss after Invalidate")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	// Given: an entry captured at t0 with the default TTL
	clk := newFakeClock()
	c := New(WithClock(clk.Now))
	c.Set("k", []byte("v"))

	// When: just under the TTL has elapsed
	clk.Advance(DefaultTTL - time.Millisecond)

	// Then: the entry is still served
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry should be fresh just before TTL")
	}

	// When: the TTL has fully elapsed
	clk.Advance(time.Millisecond)

	// Then: the entry is absent and evicted
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should be expired at TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted on lookup, Len() = %d", c.Len())
	}
}

func TestCache_ExpiryIsLazy(t *testing.T) {
	clk := newFakeClock()
	c := New(WithClock(clk.Now), WithTTL(time.Second))
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	clk.Advance(2 * time.Second)
	c.Get("a")

	// Only the looked-up entry is evicted.
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		a, b Options
		same bool
	}{
		{"method-less equals itself", Options{}, Options{}, true},
		{"GET differs from method-less", Options{Method: "GET"}, Options{}, false},
		{"different methods", Options{Method: "GET"}, Options{Method: "POST"}, false},
		{
			name: "reordered body fields miss each other",
			a:    Options{Method: "POST", Body: json.RawMessage(`{"a":1,"b":2}`)},
			b:    Options{Method: "POST", Body: json.RawMessage(`{"b":2,"a":1}`)},
			same: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := Key("http://x/api/jobs", tt.a)
			kb := Key("http://x/api/jobs", tt.b)
			if (ka == kb) != tt.same {
				t.Errorf("Key(%+v) == Key(%+v) is %v, want %v", tt.a, tt.b, ka == kb, tt.same)
			}
		})
	}
}

func TestKey_URLIsExact(t *testing.T) {
	if Key("http://x/api/search?q=go", Options{}) == Key("http://x/api/search?q=Go", Options{}) {
		t.Error("URLs differing in case must not share a key")
	}
}

func TestOptions_Cacheable(t *testing.T) {
	for _, m := range []string{"", "GET"} {
		if !(Options{Method: m}).Cacheable() {
			t.Errorf("method %q should be cacheable", m)
		}
	}
	for _, m := range []string{"POST", "PUT", "DELETE"} {
		if (Options{Method: m}).Cacheable() {
			t.Errorf("method %q should not be cacheable", m)
		}
	}
}

func TestCache_SetIfGeneration(t *testing.T) {
	c := New()
	gen := c.Generation()

	// Given: an invalidation between reading the generation and storing
	c.Invalidate()

	// Then: the older response is refused, a current one is stored
	if c.SetIfGeneration(gen, "k", []byte("old")) {
		t.Error("store from a previous generation should be refused")
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("refused entry must not be readable")
	}
	if !c.SetIfGeneration(c.Generation(), "k", []byte("new")) {
		t.Error("store from the current generation should succeed")
	}
	if got, _ := c.Get("k"); string(got) != "new" {
		t.Errorf("Get = %q, want new", got)
	}
}
