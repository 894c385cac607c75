package internal

import (
	"github.com/tidwall/hashmap"
)

// KLRU splits the cache into equally sized LRU segments. New keys enter the
// last segment, every hit promotes a key one segment up and the segment above
// demotes its tail in exchange. Only the first cached segments hold cached
// keys, the others only observe candidates.
type KLRU[K comparable] struct {
	segments []*List[K]
	index    *hashmap.Map[K, *Entry[K]]
	cached   int
	segLen   int
}

func NewKLRU[K comparable](maxlen, segments, cached int) *KLRU[K] {
	k := &KLRU[K]{
		segments: make([]*List[K], segments),
		cached:   cached,
		segLen:   maxlen / cached,
		index:    hashmap.New[K, *Entry[K]](maxlen),
	}
	for i := range k.segments {
		k.segments[i] = NewList[K](k.segLen)
	}
	return k
}

func (k *KLRU[K]) Has(key K) bool {
	e, ok := k.index.Get(key)
	return ok && int(e.segment) < k.cached
}

func (k *KLRU[K]) Get(key K) bool {
	e, ok := k.index.Get(key)
	if !ok || int(e.segment) >= k.cached {
		return false
	}
	k.promote(e)
	return true
}

// promote moves e to the front of the segment above, the tail of that
// segment takes the freed slot.
func (k *KLRU[K]) promote(e *Entry[K]) {
	i := int(e.segment)
	if i == 0 {
		k.segments[0].MoveToFront(e)
		return
	}
	k.segments[i].remove(e)
	e.segment = int8(i - 1)
	if demoted := k.segments[i-1].PushFront(e); demoted != nil {
		demoted.segment = int8(i)
		k.segments[i].PushFront(demoted)
	}
}

func (k *KLRU[K]) Put(key K) (K, bool) {
	var zero K
	var lastCached *Entry[K]
	if tail := k.segments[k.cached-1]; tail.Len() >= k.segLen {
		lastCached = tail.Back()
	}

	if e, ok := k.index.Get(key); ok {
		k.promote(e)
	} else {
		e := NewEntry(key)
		last := len(k.segments) - 1
		e.segment = int8(last)
		if dropped := k.segments[last].PushFront(e); dropped != nil {
			k.index.Delete(dropped.key)
		}
		k.index.Set(key, e)
	}

	if lastCached != nil && lastCached.key != key && !k.Has(lastCached.key) {
		return lastCached.key, true
	}
	return zero, false
}

// Remove forgets key in every segment, reporting whether it was cached.
func (k *KLRU[K]) Remove(key K) bool {
	e, ok := k.index.Delete(key)
	if !ok {
		return false
	}
	cached := int(e.segment) < k.cached
	k.segments[e.segment].remove(e)
	return cached
}

func (k *KLRU[K]) Clear() {
	for _, s := range k.segments {
		s.Reset()
	}
	k.index = hashmap.New[K, *Entry[K]](k.segLen * k.cached)
}

func (k *KLRU[K]) Len() int {
	n := 0
	for _, s := range k.segments[:k.cached] {
		n += s.Len()
	}
	return n
}

func (k *KLRU[K]) Capacity() int { return k.segLen * k.cached }

func (k *KLRU[K]) Dump() []K {
	keys := make([]K, 0, k.Len())
	for _, s := range k.segments[:k.cached] {
		for e := s.Front(); e != nil; e = e.Next() {
			keys = append(keys, e.key)
		}
	}
	return keys
}

func (k *KLRU[K]) Position(key K) (int, bool) {
	if !k.Has(key) {
		return 0, false
	}
	return positionOf(k.Dump(), key)
}

// Resize sets every segment to capacity/cached entries. Tails cut from
// observation segments are forgotten silently.
func (k *KLRU[K]) Resize(capacity int) []K {
	k.segLen = capacity / k.cached
	var dropped []K
	for i, s := range k.segments {
		s.SetCapacity(k.segLen)
		for s.Len() > k.segLen {
			e := s.PopTail()
			k.index.Delete(e.key)
			if i < k.cached {
				dropped = append(dropped, e.key)
			}
		}
	}
	return dropped
}

func (k *KLRU[K]) Backfill(key K) bool {
	if _, ok := k.index.Get(key); ok {
		return false
	}
	for i := k.cached - 1; i >= 0; i-- {
		if s := k.segments[i]; s.Len() < k.segLen {
			e := NewEntry(key)
			e.segment = int8(i)
			s.PushBack(e)
			k.index.Set(key, e)
			return true
		}
	}
	return false
}

func (k *KLRU[K]) display() string {
	s := ""
	for i, seg := range k.segments {
		if i > 0 {
			s += ":"
		}
		s += seg.display()
	}
	return s
}
