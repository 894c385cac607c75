package internal

// Policy is the occupancy contract every eviction policy implements.
// Get is the hit test of a request, Put inserts after a miss and returns
// the key it evicted, if any.
type Policy[K comparable] interface {
	Has(key K) bool
	Get(key K) bool
	Put(key K) (K, bool)
	Remove(key K) bool
	Clear()
	Len() int
	Capacity() int
	Dump() []K
	Position(key K) (int, bool)
}

// Boundary describes one recomputation of a windowed policy's top-k set.
type Boundary struct {
	Requests int // accounted requests in the window that just ended
	TopK     int // size of the new top-k set
}

// Windowed policies report keys they drop outside of Put and every window
// boundary they cross.
type Windowed[K comparable] interface {
	OnDrop(fn func(key K))
	OnBoundary(fn func(b Boundary))
	Boundaries() uint64
}

// remainder is the recency managed part of a DSCA cache.
type remainder[K comparable] interface {
	Has(key K) bool
	Get(key K) bool
	Put(key K) (K, bool)
	Remove(key K) bool
	Clear()
	Len() int
	Capacity() int
	Dump() []K
	// Resize changes the capacity, keeping the most recently used keys.
	// Dropped cached keys are returned least recently used first.
	Resize(capacity int) []K
	// Backfill appends key at the least recently used end if there is room.
	Backfill(key K) bool
}

func positionOf[K comparable](keys []K, key K) (int, bool) {
	for i, k := range keys {
		if k == key {
			return i, true
		}
	}
	return 0, false
}
