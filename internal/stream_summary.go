package internal

import (
	"fmt"
	"strings"

	"github.com/tidwall/hashmap"
)

// Counter is a monitored key with its estimated count and maximum overcount.
// The true number of occurrences lies in [Count-Error, Count].
type Counter[K comparable] struct {
	Key   K
	Count uint64
	Error uint64
}

// Guaranteed returns the lower bound of the true count.
func (c Counter[K]) Guaranteed() uint64 {
	return c.Count - c.Error
}

// bucket groups all entries sharing the same estimated count. Entries are
// ordered by descending error so the entry most likely to be a genuine low
// frequency key sits first.
type bucket[K comparable] struct {
	count   uint64
	entries *List[K]
	prev    *bucket[K]
	next    *bucket[K]
}

// StreamSummary is the Space-Saving frequency estimator of Metwally et al.
// It monitors at most capacity keys, buckets are kept in a list ordered by
// ascending count.
type StreamSummary[K comparable] struct {
	capacity int
	index    *hashmap.Map[K, *Entry[K]]
	min      *bucket[K]
	max      *bucket[K]
}

func NewStreamSummary[K comparable](capacity int) *StreamSummary[K] {
	return &StreamSummary[K]{
		capacity: capacity,
		index:    hashmap.New[K, *Entry[K]](capacity),
	}
}

func (s *StreamSummary[K]) Len() int { return s.index.Len() }

func (s *StreamSummary[K]) Capacity() int { return s.capacity }

func (s *StreamSummary[K]) Full() bool { return s.index.Len() >= s.capacity }

// Min returns the smallest monitored count, 0 when empty.
func (s *StreamSummary[K]) Min() uint64 {
	if s.min == nil {
		return 0
	}
	return s.min.count
}

func (s *StreamSummary[K]) Contains(key K) bool {
	_, ok := s.index.Get(key)
	return ok
}

func (s *StreamSummary[K]) Count(key K) (uint64, bool) {
	e, ok := s.index.Get(key)
	if !ok {
		return 0, false
	}
	return e.bucket.count, true
}

func (s *StreamSummary[K]) Error(key K) (uint64, bool) {
	e, ok := s.index.Get(key)
	if !ok {
		return 0, false
	}
	return e.err, true
}

// Add records one occurrence of key. When a new key has to displace a
// monitored one, the displaced key is returned.
func (s *StreamSummary[K]) Add(key K) (K, bool) {
	var zero K
	if e, ok := s.index.Get(key); ok {
		old := e.bucket
		old.entries.remove(e)
		s.place(e, s.bucketAfter(old, old.count+1))
		s.release(old)
		return zero, false
	}
	if s.capacity <= 0 {
		return zero, false
	}
	e := NewEntry(key)
	if s.index.Len() < s.capacity {
		s.place(e, s.bucketAfter(nil, 1))
		s.index.Set(key, e)
		return zero, false
	}

	low := s.min
	victim := low.entries.Front()
	low.entries.remove(victim)
	s.index.Delete(victim.key)
	victim.bucket = nil

	e.err = low.count
	s.place(e, s.bucketAfter(low, low.count+1))
	s.index.Set(key, e)
	s.release(low)
	if debugging {
		assert(s.index.Len() <= s.capacity, "stream summary over capacity")
	}
	return victim.key, true
}

// Load inserts key with a known count and error, replacing any previous
// state of key. It is used to rebuild a summary from a derived table and
// never evicts, callers stay within capacity.
func (s *StreamSummary[K]) Load(key K, count, err uint64) {
	if count == 0 {
		s.Remove(key)
		return
	}
	if err > count {
		err = count
	}
	if e, ok := s.index.Get(key); ok {
		old := e.bucket
		old.entries.remove(e)
		s.release(old)
		e.err = err
		s.place(e, s.bucketFor(count))
		return
	}
	e := NewEntry(key)
	e.err = err
	s.place(e, s.bucketFor(count))
	s.index.Set(key, e)
}

func (s *StreamSummary[K]) Remove(key K) bool {
	e, ok := s.index.Delete(key)
	if !ok {
		return false
	}
	b := e.bucket
	b.entries.remove(e)
	e.bucket = nil
	s.release(b)
	return true
}

func (s *StreamSummary[K]) Clear() {
	s.index = hashmap.New[K, *Entry[K]](s.capacity)
	s.min = nil
	s.max = nil
}

// place links e into b: before the first entry with a strictly lower
// error, after every entry with a greater or equal one.
func (s *StreamSummary[K]) place(e *Entry[K], b *bucket[K]) {
	e.bucket = b
	for cur := b.entries.Front(); cur != nil; cur = cur.Next() {
		if cur.err < e.err {
			b.entries.InsertBefore(e, cur)
			return
		}
	}
	b.entries.PushBack(e)
}

// bucketAfter returns the bucket holding count, searching upwards from
// after (nil means from the bottom). A missing bucket is created.
func (s *StreamSummary[K]) bucketAfter(after *bucket[K], count uint64) *bucket[K] {
	next := s.min
	if after != nil {
		next = after.next
	}
	for next != nil && next.count < count {
		after = next
		next = next.next
	}
	if next != nil && next.count == count {
		return next
	}
	return s.link(after, count)
}

// bucketFor returns the bucket holding count, searching downwards from the
// top. A missing bucket is created.
func (s *StreamSummary[K]) bucketFor(count uint64) *bucket[K] {
	b := s.max
	for b != nil && b.count > count {
		b = b.prev
	}
	if b != nil && b.count == count {
		return b
	}
	return s.link(b, count)
}

// link creates a bucket right after prev, nil prev makes it the new minimum.
func (s *StreamSummary[K]) link(prev *bucket[K], count uint64) *bucket[K] {
	b := &bucket[K]{count: count, entries: NewList[K](0), prev: prev}
	if prev == nil {
		b.next = s.min
		s.min = b
	} else {
		b.next = prev.next
		prev.next = b
	}
	if b.next == nil {
		s.max = b
	} else {
		b.next.prev = b
	}
	return b
}

// release unlinks b once its last entry is gone.
func (s *StreamSummary[K]) release(b *bucket[K]) {
	if b.entries.Len() > 0 {
		return
	}
	if b.prev == nil {
		s.min = b.next
	} else {
		b.prev.next = b.next
	}
	if b.next == nil {
		s.max = b.prev
	} else {
		b.next.prev = b.prev
	}
	b.prev, b.next = nil, nil
}

// Range walks the monitored keys from the highest count to the lowest,
// equal counts by ascending error, until fn returns false.
func (s *StreamSummary[K]) Range(fn func(c Counter[K]) bool) {
	for b := s.max; b != nil; b = b.prev {
		for e := b.entries.Back(); e != nil; e = e.Prev() {
			if !fn(Counter[K]{Key: e.key, Count: b.count, Error: e.err}) {
				return
			}
		}
	}
}

// Dump returns every monitored key in Range order.
func (s *StreamSummary[K]) Dump() []Counter[K] {
	dump := make([]Counter[K], 0, s.index.Len())
	s.Range(func(c Counter[K]) bool {
		dump = append(dump, c)
		return true
	})
	return dump
}

// Top returns the first n keys in Range order.
func (s *StreamSummary[K]) Top(n int) []K {
	if n > s.index.Len() {
		n = s.index.Len()
	}
	keys := make([]K, 0, n)
	if n <= 0 {
		return keys
	}
	s.Range(func(c Counter[K]) bool {
		keys = append(keys, c.Key)
		return len(keys) < n
	})
	return keys
}

// Rank returns the Range position of key.
func (s *StreamSummary[K]) Rank(key K) (int, bool) {
	target, ok := s.index.Get(key)
	if !ok {
		return 0, false
	}
	rank := 0
	for b := s.max; b != target.bucket; b = b.prev {
		rank += b.entries.Len()
	}
	for e := target.next; e != nil && !e.root; e = e.next {
		rank++
	}
	return rank, true
}

// At returns the counter at Range position rank.
func (s *StreamSummary[K]) At(rank int) (Counter[K], bool) {
	if rank < 0 || rank >= s.index.Len() {
		return Counter[K]{}, false
	}
	for b := s.max; b != nil; b = b.prev {
		if rank >= b.entries.Len() {
			rank -= b.entries.Len()
			continue
		}
		e := b.entries.Back()
		for ; rank > 0; rank-- {
			e = e.Prev()
		}
		return Counter[K]{Key: e.key, Count: b.count, Error: e.err}, true
	}
	return Counter[K]{}, false
}

// GuaranteedTopK returns the Range positions, all below k, of the entries
// whose guaranteed count reaches the estimated count of the entry at
// position k. Those keys are provably among the k most frequent ones.
// k is clamped to Len()-1.
func (s *StreamSummary[K]) GuaranteedTopK(k int) []int {
	size := s.index.Len()
	if k > size-1 {
		k = size - 1
	}
	if k <= 0 {
		return []int{}
	}
	bound, _ := s.At(k)
	guaranteed := make([]int, 0, k)
	i := 0
	s.Range(func(c Counter[K]) bool {
		if i >= k {
			return false
		}
		if c.Guaranteed() >= bound.Count {
			guaranteed = append(guaranteed, i)
		}
		i++
		return true
	})
	return guaranteed
}

func (s *StreamSummary[K]) display() string {
	var parts []string
	for b := s.max; b != nil; b = b.prev {
		var keys []string
		for e := b.entries.Front(); e != nil; e = e.Next() {
			keys = append(keys, fmt.Sprintf("%v(%d)", e.key, e.err))
		}
		parts = append(parts, fmt.Sprintf("%d:%s", b.count, strings.Join(keys, "/")))
	}
	return strings.Join(parts, " ")
}
