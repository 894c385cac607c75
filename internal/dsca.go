package internal

import "math"

// DSCA is the data stream caching algorithm: a top-k set that is frozen for
// a whole window and a recency managed remainder filling the rest of the
// cache. The top-k set is recomputed from the window's stream summary at
// every window boundary.
type DSCA[K comparable] struct {
	maxlen     int
	topk       *LinkedSet[K]
	rest       remainder[K]
	window     window[K]
	selector   selector[K]
	onDrop     func(key K)
	onBoundary func(b Boundary)
	boundaries uint64
}

// selector picks the new top-k keys, best first, from a window summary.
type selector[K comparable] func(s *StreamSummary[K]) []K

func newDSCA[K comparable](maxlen int, rest remainder[K], w window[K], sel selector[K]) *DSCA[K] {
	return &DSCA[K]{
		maxlen:   maxlen,
		topk:     NewLinkedSet[K](maxlen),
		rest:     rest,
		window:   w,
		selector: sel,
	}
}

func newRemainder[K comparable](maxlen int, twoLRU bool) remainder[K] {
	if twoLRU {
		return NewKLRU[K](maxlen, 2, 1)
	}
	return NewLRU[K](maxlen)
}

// NewDSCA returns a jumping window DSCA. With twoLRU the remainder only
// admits keys on their second request.
func NewDSCA[K comparable](maxlen, monitored, windowSize int, twoLRU bool) *DSCA[K] {
	return newDSCA(
		maxlen, newRemainder[K](maxlen, twoLRU),
		newJumpingWindow[K](monitored, windowSize),
		guaranteedSelector[K](maxlen),
	)
}

// NewThresholdDSCA excludes keys seen less than windowSize*threshold times
// in a window from the top-k set.
func NewThresholdDSCA[K comparable](maxlen, monitored, windowSize int, threshold float64) *DSCA[K] {
	floor := uint64(math.Ceil(float64(windowSize) * threshold))
	return newDSCA(
		maxlen, NewLRU[K](maxlen),
		newJumpingWindow[K](monitored, windowSize),
		thresholdSelector[K](maxlen, floor),
	)
}

// NewFixedSplitDSCA dedicates round(lruPortion*maxlen) slots, at least one,
// to the remainder and fills the others with the most frequent keys.
func NewFixedSplitDSCA[K comparable](maxlen, monitored, windowSize int, lruPortion float64) *DSCA[K] {
	lruCap := max(1, int(math.Round(lruPortion*float64(maxlen))))
	lruCap = min(lruCap, maxlen)
	return newDSCA(
		maxlen, NewLRU[K](maxlen),
		newJumpingWindow[K](monitored, windowSize),
		fixedSelector[K](maxlen-lruCap),
	)
}

// NewSlidingDSCA approximates a window of subwindows*subwindowSize requests
// that slides by one subwindow at a time.
func NewSlidingDSCA[K comparable](maxlen, monitored, subwindows, subwindowSize int) *DSCA[K] {
	return newDSCA(
		maxlen, NewLRU[K](maxlen),
		newSlidingWindow[K](monitored, subwindows, subwindowSize),
		guaranteedSelector[K](maxlen),
	)
}

// NewAdaptiveWindowDSCA closes a window once the frequency estimate of the
// last cacheable key is significant, checked every period requests.
func NewAdaptiveWindowDSCA[K comparable](maxlen, monitored, period int, a, eps float64, twoLRU bool) *DSCA[K] {
	return newDSCA(
		maxlen, newRemainder[K](maxlen, twoLRU),
		newHypothesisWindow[K](maxlen, monitored, period, a, eps),
		guaranteedSelector[K](maxlen),
	)
}

func guaranteedSelector[K comparable](maxlen int) selector[K] {
	return func(s *StreamSummary[K]) []K {
		dump := s.Dump()
		var keys []K
		for _, i := range s.GuaranteedTopK(min(maxlen, len(dump)-1)) {
			if len(keys) == maxlen-1 {
				break
			}
			keys = append(keys, dump[i].Key)
		}
		return keys
	}
}

func thresholdSelector[K comparable](maxlen int, floor uint64) selector[K] {
	return func(s *StreamSummary[K]) []K {
		dump := s.Dump()
		var keys []K
		for _, i := range s.GuaranteedTopK(min(maxlen, len(dump)-1)) {
			if len(keys) == maxlen-1 {
				break
			}
			if dump[i].Count >= floor {
				keys = append(keys, dump[i].Key)
			}
		}
		return keys
	}
}

func fixedSelector[K comparable](k int) selector[K] {
	return func(s *StreamSummary[K]) []K {
		return s.Top(k)
	}
}

func (d *DSCA[K]) OnDrop(fn func(key K)) { d.onDrop = fn }

func (d *DSCA[K]) OnBoundary(fn func(b Boundary)) { d.onBoundary = fn }

func (d *DSCA[K]) Boundaries() uint64 { return d.boundaries }

func (d *DSCA[K]) Has(key K) bool {
	return d.topk.Contains(key) || d.rest.Has(key)
}

func (d *DSCA[K]) Get(key K) bool {
	if d.topk.Contains(key) || d.rest.Get(key) {
		d.account(key)
		return true
	}
	return false
}

func (d *DSCA[K]) Put(key K) (K, bool) {
	var evicted K
	var ok bool
	if !d.topk.Contains(key) {
		evicted, ok = d.rest.Put(key)
	}
	d.account(key)
	return evicted, ok
}

func (d *DSCA[K]) account(key K) {
	if d.window.record(key) {
		d.boundary()
	}
}

func (d *DSCA[K]) boundary() {
	requests := d.window.requests()
	keys := d.selector(d.window.summary())

	prev := d.topk
	d.topk = NewLinkedSet[K](d.maxlen)
	for _, k := range keys {
		d.topk.PushBack(k)
		d.rest.Remove(k)
	}
	for _, k := range d.rest.Resize(d.maxlen - d.topk.Len()) {
		d.drop(k)
	}
	prev.Range(func(k K) bool {
		if !d.topk.Contains(k) && !d.rest.Backfill(k) {
			d.drop(k)
		}
		return true
	})
	if debugging {
		assert(d.Len() <= d.maxlen, "dsca over capacity after boundary")
	}

	d.window.advance()
	d.boundaries++
	if d.onBoundary != nil {
		d.onBoundary(Boundary{Requests: requests, TopK: d.topk.Len()})
	}
}

func (d *DSCA[K]) drop(key K) {
	if d.onDrop != nil {
		d.onDrop(key)
	}
}

func (d *DSCA[K]) Remove(key K) bool {
	return d.topk.Remove(key) || d.rest.Remove(key)
}

func (d *DSCA[K]) Clear() {
	d.topk.Clear()
	d.rest.Clear()
	d.rest.Resize(d.maxlen)
	d.window.clear()
}

func (d *DSCA[K]) Len() int { return d.topk.Len() + d.rest.Len() }

func (d *DSCA[K]) Capacity() int { return d.maxlen }

// Dump lists the top-k set before the remainder.
func (d *DSCA[K]) Dump() []K {
	return append(d.topk.Keys(), d.rest.Dump()...)
}

func (d *DSCA[K]) Position(key K) (int, bool) {
	if !d.Has(key) {
		return 0, false
	}
	return positionOf(d.Dump(), key)
}

// TopK returns the keys frozen for the current window.
func (d *DSCA[K]) TopK() []K {
	return d.topk.Keys()
}
