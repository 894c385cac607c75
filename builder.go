package dsca

import (
	"github.com/streamcache/dsca-go/internal"
	"github.com/streamcache/dsca-go/internal/stats"
)

type RemoveReason uint8

const (
	// REMOVED keys were deleted with Remove.
	REMOVED RemoveReason = iota
	// EVICTED keys were pushed out by a Put or by a window boundary.
	EVICTED
)

func (r RemoveReason) String() string {
	if r == REMOVED {
		return "removed"
	}
	return "evicted"
}

type Summary = stats.Summary

type Builder[K comparable] struct {
	kind            Kind
	capacity        int
	params          Params
	recordStats     bool
	removalListener func(key K, reason RemoveReason)
}

// NewBuilder starts a DSCA cache of the given capacity.
func NewBuilder[K comparable](capacity int) *Builder[K] {
	return &Builder[K]{kind: DSCA, capacity: capacity}
}

// Policy sets the policy kind, DSCA if never called.
func (b *Builder[K]) Policy(kind Kind) *Builder[K] {
	b.kind = kind
	return b
}

// Params sets the policy parameters, zero fields fall back to defaults.
func (b *Builder[K]) Params(p Params) *Builder[K] {
	b.params = p
	return b
}

// RecordStats enables the counters and percentiles returned by Stats.
func (b *Builder[K]) RecordStats() *Builder[K] {
	b.recordStats = true
	return b
}

// RemovalListener adds remove callback function to builder.
// It is called for every key leaving the cache, including the keys a
// windowed policy drops when it recomputes its top-k set.
func (b *Builder[K]) RemovalListener(listener func(key K, reason RemoveReason)) *Builder[K] {
	b.removalListener = listener
	return b
}

// Build builds a cache instance from builder.
func (b *Builder[K]) Build() (*Instance[K], error) {
	policy, err := newPolicy[K](b.kind, b.capacity, b.params)
	if err != nil {
		return nil, err
	}
	in := &Instance[K]{
		kind:     b.kind,
		policy:   policy,
		listener: b.removalListener,
	}
	if b.recordStats {
		in.recorder = stats.New()
	}
	if w, ok := policy.(internal.Windowed[K]); ok {
		w.OnDrop(func(key K) { in.evicted(key) })
		w.OnBoundary(in.boundary)
	}
	return in, nil
}

// Instance is a Cache with a removal listener and optional statistics.
// Like every cache it is not safe for concurrent use.
type Instance[K comparable] struct {
	kind     Kind
	policy   internal.Policy[K]
	recorder *stats.Recorder
	listener func(key K, reason RemoveReason)
}

func (c *Instance[K]) Kind() Kind { return c.kind }

func (c *Instance[K]) Has(key K) bool { return c.policy.Has(key) }

func (c *Instance[K]) Get(key K) bool {
	c.recorder.Add(stats.Gets, 1)
	if c.policy.Get(key) {
		c.recorder.Add(stats.Hits, 1)
		return true
	}
	c.recorder.Add(stats.Misses, 1)
	return false
}

func (c *Instance[K]) Put(key K) (K, bool) {
	c.recorder.Add(stats.Puts, 1)
	evicted, ok := c.policy.Put(key)
	if ok {
		c.evicted(evicted)
	}
	return evicted, ok
}

// Request replays one request and reports whether it was a hit.
func (c *Instance[K]) Request(key K) bool {
	if c.Get(key) {
		return true
	}
	c.Put(key)
	return false
}

func (c *Instance[K]) Remove(key K) bool {
	if !c.policy.Remove(key) {
		return false
	}
	c.recorder.Add(stats.Removals, 1)
	if c.listener != nil {
		c.listener(key, REMOVED)
	}
	return true
}

func (c *Instance[K]) evicted(key K) {
	c.recorder.Add(stats.Evictions, 1)
	if c.listener != nil {
		c.listener(key, EVICTED)
	}
}

func (c *Instance[K]) boundary(b internal.Boundary) {
	c.recorder.Add(stats.Boundaries, 1)
	c.recorder.Add(stats.WindowLength, uint64(b.Requests))
	c.recorder.Add(stats.TopKSize, uint64(b.TopK))
}

// Clear empties the cache without calling the removal listener.
func (c *Instance[K]) Clear() { c.policy.Clear() }

func (c *Instance[K]) Len() int { return c.policy.Len() }

func (c *Instance[K]) Capacity() int { return c.policy.Capacity() }

func (c *Instance[K]) Dump() []K { return c.policy.Dump() }

func (c *Instance[K]) Position(key K) (int, error) {
	return cache[K]{c.policy}.Position(key)
}

// Stats returns a snapshot of the recorded statistics, all zero unless
// the builder enabled them.
func (c *Instance[K]) Stats() Stats {
	return Stats{
		Gets:         c.recorder.Count(stats.Gets),
		Hits:         c.recorder.Count(stats.Hits),
		Misses:       c.recorder.Count(stats.Misses),
		Puts:         c.recorder.Count(stats.Puts),
		Evictions:    c.recorder.Count(stats.Evictions),
		Removals:     c.recorder.Count(stats.Removals),
		Boundaries:   c.recorder.Count(stats.Boundaries),
		WindowLength: c.recorder.Summary(stats.WindowLength),
		TopKSize:     c.recorder.Summary(stats.TopKSize),
	}
}

// ResetStats zeroes every counter and percentile.
func (c *Instance[K]) ResetStats() { c.recorder.Reset() }

type Stats struct {
	Gets       uint64
	Hits       uint64
	Misses     uint64
	Puts       uint64
	Evictions  uint64
	Removals   uint64
	Boundaries uint64
	// requests per window and top-k set sizes, windowed policies only
	WindowLength Summary
	TopKSize     Summary
}

func (s Stats) HitRatio() float64 {
	if s.Gets == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Gets)
}
