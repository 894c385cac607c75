package internal

import "math"

// AdaptiveDSCA lets an ARC style target p decide how much of the cache the
// remainder gets. Keys evicted from the remainder are remembered as recency
// ghosts, keys leaving the top-k set as frequency ghosts. A miss on a ghost
// moves p towards the list that would have caught it.
//
// With adaptiveTopK the top-k set is kept in LRU order and shrinks as soon
// as p grows, otherwise it stays frozen until the next boundary.
type AdaptiveDSCA[K comparable] struct {
	maxlen         int
	p              float64
	adaptive       bool
	topk           *LinkedSet[K]
	rest           *LRU[K]
	window         *jumpingWindow[K]
	ghostRecency   *LinkedSet[K]
	ghostFrequency *LinkedSet[K]
	onDrop         func(key K)
	onBoundary     func(b Boundary)
	boundaries     uint64
}

func NewAdaptiveDSCA[K comparable](maxlen, monitored, windowSize int, adaptiveTopK bool) *AdaptiveDSCA[K] {
	return &AdaptiveDSCA[K]{
		maxlen:         maxlen,
		adaptive:       adaptiveTopK,
		topk:           NewLinkedSet[K](maxlen),
		rest:           NewLRU[K](maxlen),
		window:         newJumpingWindow[K](monitored, windowSize),
		ghostRecency:   NewLinkedSet[K](maxlen),
		ghostFrequency: NewLinkedSet[K](maxlen),
	}
}

func (d *AdaptiveDSCA[K]) P() float64 { return d.p }

// topCap is the largest top-k set the current target allows.
func (d *AdaptiveDSCA[K]) topCap() int {
	return max(0, d.maxlen-max(1, int(math.Round(d.p))))
}

func (d *AdaptiveDSCA[K]) OnDrop(fn func(key K)) { d.onDrop = fn }

func (d *AdaptiveDSCA[K]) OnBoundary(fn func(b Boundary)) { d.onBoundary = fn }

func (d *AdaptiveDSCA[K]) Boundaries() uint64 { return d.boundaries }

func (d *AdaptiveDSCA[K]) Has(key K) bool {
	return d.topk.Contains(key) || d.rest.Has(key)
}

func (d *AdaptiveDSCA[K]) Get(key K) bool {
	switch {
	case d.topk.Contains(key):
		if d.adaptive {
			d.topk.MoveToFront(key)
		}
	case d.rest.Get(key):
	default:
		return false
	}
	d.account(key)
	return true
}

func (d *AdaptiveDSCA[K]) Put(key K) (K, bool) {
	var zero K
	if d.Get(key) {
		return zero, false
	}

	switch {
	case d.ghostRecency.Contains(key):
		delta := max(1, float64(d.ghostFrequency.Len())/float64(d.ghostRecency.Len()))
		d.ghostRecency.Remove(key)
		d.p = math.Min(d.p+delta, float64(d.maxlen))
		if d.adaptive {
			d.shrink()
		}
	case d.ghostFrequency.Contains(key):
		delta := max(1, float64(d.ghostRecency.Len())/float64(d.ghostFrequency.Len()))
		d.ghostFrequency.Remove(key)
		d.p = math.Max(d.p-delta, 0)
	}

	evicted, ok := d.rest.Put(key)
	if ok {
		remember(d.ghostRecency, evicted, d.maxlen)
	}
	d.account(key)
	return evicted, ok
}

// shrink gives top-k slots above the current cap back to the remainder.
func (d *AdaptiveDSCA[K]) shrink() {
	for d.topk.Len() > d.topCap() {
		k, _ := d.topk.PopBack()
		for _, dropped := range d.rest.Resize(d.maxlen - d.topk.Len()) {
			remember(d.ghostRecency, dropped, d.maxlen)
			d.drop(dropped)
		}
		if !d.rest.Backfill(k) {
			remember(d.ghostFrequency, k, d.maxlen)
			d.drop(k)
		}
	}
}

func remember[K comparable](ghosts *LinkedSet[K], key K, limit int) {
	ghosts.PushFront(key)
	for ghosts.Len() > limit {
		ghosts.PopBack()
	}
}

func (d *AdaptiveDSCA[K]) account(key K) {
	if d.window.record(key) {
		d.boundary()
	}
}

func (d *AdaptiveDSCA[K]) boundary() {
	requests := d.window.requests()
	limit := d.topCap()
	s := d.window.summary()
	dump := s.Dump()

	prev := d.topk
	d.topk = NewLinkedSet[K](d.maxlen)
	for _, i := range s.GuaranteedTopK(min(d.maxlen, len(dump)-1)) {
		if d.topk.Len() >= limit {
			break
		}
		k := dump[i].Key
		d.topk.PushBack(k)
		d.rest.Remove(k)
		d.ghostRecency.Remove(k)
		d.ghostFrequency.Remove(k)
	}
	for _, k := range d.rest.Resize(d.maxlen - d.topk.Len()) {
		remember(d.ghostRecency, k, d.maxlen)
		d.drop(k)
	}
	prev.Range(func(k K) bool {
		if d.topk.Contains(k) {
			return true
		}
		if d.adaptive && d.rest.Backfill(k) {
			return true
		}
		remember(d.ghostFrequency, k, d.maxlen)
		d.drop(k)
		return true
	})
	if debugging {
		assert(d.Len() <= d.maxlen, "adaptive dsca over capacity after boundary")
	}

	d.window.advance()
	d.boundaries++
	if d.onBoundary != nil {
		d.onBoundary(Boundary{Requests: requests, TopK: d.topk.Len()})
	}
}

func (d *AdaptiveDSCA[K]) drop(key K) {
	if d.onDrop != nil {
		d.onDrop(key)
	}
}

func (d *AdaptiveDSCA[K]) Remove(key K) bool {
	d.ghostRecency.Remove(key)
	d.ghostFrequency.Remove(key)
	return d.topk.Remove(key) || d.rest.Remove(key)
}

func (d *AdaptiveDSCA[K]) Clear() {
	d.topk.Clear()
	d.rest.Clear()
	d.rest.Resize(d.maxlen)
	d.ghostRecency.Clear()
	d.ghostFrequency.Clear()
	d.window.clear()
	d.p = 0
}

func (d *AdaptiveDSCA[K]) Len() int { return d.topk.Len() + d.rest.Len() }

func (d *AdaptiveDSCA[K]) Capacity() int { return d.maxlen }

func (d *AdaptiveDSCA[K]) Dump() []K {
	return append(d.topk.Keys(), d.rest.Dump()...)
}

func (d *AdaptiveDSCA[K]) Position(key K) (int, bool) {
	if !d.Has(key) {
		return 0, false
	}
	return positionOf(d.Dump(), key)
}

func (d *AdaptiveDSCA[K]) TopK() []K {
	return d.topk.Keys()
}
