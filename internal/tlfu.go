package internal

import (
	"github.com/streamcache/dsca-go/internal/bf"
	"github.com/streamcache/dsca-go/internal/hasher"
	"github.com/tidwall/hashmap"
)

// TinyLFU is the W-TinyLFU baseline: a small LRU window in front of a
// segmented LRU main space, admission to main decided by a count-min sketch.
type TinyLFU[K comparable] struct {
	capacity  int
	window    *List[K]
	slru      *slru[K]
	index     *hashmap.Map[K, *Entry[K]]
	sketch    *CountMinSketch
	door      *bf.Bloomfilter
	hasher    *hasher.Hasher[K]
	lruFactor uint8
	total     int
	hit       int
	hr        float32
	step      int8
}

func NewTinyLFU[K comparable](capacity int) *TinyLFU[K] {
	wsize := max(1, capacity/100)
	msize := max(0, capacity-wsize)
	return newTinyLFUSized[K](wsize, msize, max(1, int(float32(msize)*0.8)))
}

func newTinyLFUSized[K comparable](wsize, msize, psize int) *TinyLFU[K] {
	return &TinyLFU[K]{
		capacity: wsize + msize,
		window:   NewList[K](wsize),
		slru:     newSlru[K](msize, psize),
		index:    hashmap.New[K, *Entry[K]](wsize + msize),
		sketch:   NewCountMinSketch(uint(wsize + msize)),
		hasher:   hasher.NewHasher[K](nil),
		step:     1,
	}
}

// Doorkeeper puts a bloom filter in front of the sketch, keys seen only
// once never reach the sketch.
func (t *TinyLFU[K]) Doorkeeper(enabled bool) {
	if enabled {
		t.door = bf.NewWithSize(t.capacity)
	} else {
		t.door = nil
	}
}

func (t *TinyLFU[K]) record(h uint64) {
	if t.door != nil && t.door.Insert(h) {
		return
	}
	if t.sketch.Add(h) && t.door != nil {
		t.door.Reset()
	}
}

func (t *TinyLFU[K]) estimate(h uint64) uint {
	n := t.sketch.Estimate(h)
	if t.door != nil && t.door.Exist(h) {
		n++
	}
	return n
}

func (t *TinyLFU[K]) Has(key K) bool {
	_, ok := t.index.Get(key)
	return ok
}

func (t *TinyLFU[K]) Get(key K) bool {
	t.total++
	e, ok := t.index.Get(key)
	if !ok {
		return false
	}
	t.hit++
	t.record(t.hasher.Hash(key))
	if e.list == t.window {
		t.window.MoveToFront(e)
	} else {
		t.slru.access(e)
	}
	return true
}

// Put inserts key into the window. The entry pushed out of the window
// competes with the main space victim, the less frequent one is evicted.
func (t *TinyLFU[K]) Put(key K) (K, bool) {
	var zero K
	if t.Has(key) {
		t.Get(key)
		return zero, false
	}
	t.climb()
	t.record(t.hasher.Hash(key))

	e := NewEntry(key)
	t.index.Set(key, e)
	candidate := t.window.PushFront(e)
	if candidate == nil {
		return zero, false
	}
	if !t.slru.full() {
		t.slru.insert(candidate)
		return zero, false
	}

	evicted := candidate
	if victim := t.slru.victim(); victim != nil {
		candidateCount := t.estimate(t.hasher.Hash(candidate.key)) + uint(t.lruFactor)
		victimCount := t.estimate(t.hasher.Hash(victim.key))
		if candidateCount > victimCount {
			t.slru.remove(victim)
			t.slru.insert(candidate)
			evicted = victim
		}
	}
	t.index.Delete(evicted.key)
	return evicted.key, true
}

// climb adjusts the admission bias towards recency while that keeps
// improving the hit ratio, and back towards frequency when it does not.
func (t *TinyLFU[K]) climb() {
	if t.total < 10*t.capacity || t.total-t.hit <= t.capacity/2 {
		return
	}
	current := float32(t.hit) / float32(t.total)
	delta := current - t.hr
	if delta > 0 {
		if t.step < 0 {
			t.step--
		} else {
			t.step++
		}
		t.step = min(max(t.step, -13), 13)
	} else if delta < 0 {
		if t.step > 0 {
			t.step = -1
		} else {
			t.step = 1
		}
	}
	if delta != 0 {
		t.lruFactor = uint8(min(max(int8(t.lruFactor)+t.step, 0), 13))
	}
	t.hr = current
	t.hit = 0
	t.total = 0
}

func (t *TinyLFU[K]) Remove(key K) bool {
	e, ok := t.index.Delete(key)
	if !ok {
		return false
	}
	if e.list == t.window {
		t.window.remove(e)
	} else {
		t.slru.remove(e)
	}
	return true
}

func (t *TinyLFU[K]) Clear() {
	t.window.Reset()
	t.slru.reset()
	t.index = hashmap.New[K, *Entry[K]](t.capacity)
	t.sketch = NewCountMinSketch(uint(t.capacity))
	if t.door != nil {
		t.door.Reset()
	}
	t.lruFactor, t.total, t.hit, t.hr, t.step = 0, 0, 0, 0, 1
}

func (t *TinyLFU[K]) Len() int { return t.index.Len() }

func (t *TinyLFU[K]) Capacity() int { return t.capacity }

// Dump lists the window, then the protected and probation segments, each
// most recently used first.
func (t *TinyLFU[K]) Dump() []K {
	keys := make([]K, 0, t.index.Len())
	for _, l := range []*List[K]{t.window, t.slru.protected, t.slru.probation} {
		for e := l.Front(); e != nil; e = e.Next() {
			keys = append(keys, e.key)
		}
	}
	return keys
}

func (t *TinyLFU[K]) Position(key K) (int, bool) {
	if !t.Has(key) {
		return 0, false
	}
	return positionOf(t.Dump(), key)
}

func (t *TinyLFU[K]) display() string {
	return t.window.display() + ":" + t.slru.probation.display() + ":" + t.slru.protected.display()
}
