package internal

import (
	"github.com/gammazero/deque"
	"github.com/tidwall/hashmap"
)

// window feeds a DSCA cache with the stream summary the next top-k set is
// computed from, and decides when a boundary is due.
type window[K comparable] interface {
	// record accounts one request, it returns true when the window is over.
	record(key K) bool
	// requests returns the number of requests accounted since the last advance.
	requests() int
	summary() *StreamSummary[K]
	advance()
	clear()
}

// jumpingWindow starts from an empty summary after every boundary.
type jumpingWindow[K comparable] struct {
	current *StreamSummary[K]
	size    int
	n       int
}

func newJumpingWindow[K comparable](monitored, size int) *jumpingWindow[K] {
	return &jumpingWindow[K]{
		current: NewStreamSummary[K](monitored),
		size:    size,
	}
}

func (w *jumpingWindow[K]) record(key K) bool {
	w.current.Add(key)
	w.n++
	return w.n >= w.size
}

func (w *jumpingWindow[K]) requests() int { return w.n }

func (w *jumpingWindow[K]) summary() *StreamSummary[K] { return w.current }

func (w *jumpingWindow[K]) advance() {
	w.current.Clear()
	w.n = 0
}

func (w *jumpingWindow[K]) clear() { w.advance() }

// frozen is the final state of a finished subwindow.
type frozen[K comparable] struct {
	counters *hashmap.Map[K, Counter[K]]
	min      uint64
	full     bool
}

func freeze[K comparable](s *StreamSummary[K]) *frozen[K] {
	f := &frozen[K]{
		counters: hashmap.New[K, Counter[K]](s.Len()),
		min:      s.Min(),
		full:     s.Full(),
	}
	s.Range(func(c Counter[K]) bool {
		f.counters.Set(c.Key, c)
		return true
	})
	return f
}

// slidingWindow keeps a summary over the last subwindows subwindows. When
// the oldest subwindow expires its counts are subtracted from the window
// summary, widening error bounds where its exact contribution is unknown.
type slidingWindow[K comparable] struct {
	total      *StreamSummary[K]
	current    *StreamSummary[K]
	history    *deque.Deque[*frozen[K]]
	subwindows int
	size       int
	n          int
}

func newSlidingWindow[K comparable](monitored, subwindows, size int) *slidingWindow[K] {
	return &slidingWindow[K]{
		total:      NewStreamSummary[K](monitored),
		current:    NewStreamSummary[K](monitored),
		history:    deque.New[*frozen[K]](subwindows),
		subwindows: subwindows,
		size:       size,
	}
}

func (w *slidingWindow[K]) record(key K) bool {
	w.total.Add(key)
	w.current.Add(key)
	w.n++
	return w.n >= w.size
}

func (w *slidingWindow[K]) requests() int { return w.n }

func (w *slidingWindow[K]) summary() *StreamSummary[K] { return w.total }

func (w *slidingWindow[K]) advance() {
	w.history.PushBack(freeze(w.current))
	w.current.Clear()
	w.n = 0
	if w.history.Len() >= w.subwindows {
		w.expire(w.history.PopFront())
	}
}

// expire removes the contribution of old from the window summary.
func (w *slidingWindow[K]) expire(old *frozen[K]) {
	var missing uint64
	if old.full {
		missing = old.min
	}
	for _, c := range w.total.Dump() {
		count, err := c.Count, c.Error+missing
		if oc, ok := old.counters.Get(c.Key); ok {
			if debugging {
				assert(c.Count+oc.Error >= oc.Count, "sliding window count below expired subwindow")
			}
			if c.Count+oc.Error <= oc.Count {
				count = 0
			} else {
				count = c.Count - oc.Count + oc.Error
			}
			err = c.Error + oc.Error
		}
		w.total.Load(c.Key, count, err)
	}
}

func (w *slidingWindow[K]) clear() {
	w.total.Clear()
	w.current.Clear()
	w.history = deque.New[*frozen[K]](w.subwindows)
	w.n = 0
}

// hypothesisWindow ends a window as soon as the estimated frequency of the
// last key that would make it into the cache is within eps of its true
// frequency with probability at least 1-a.
type hypothesisWindow[K comparable] struct {
	current *StreamSummary[K]
	maxlen  int
	period  int
	a       float64
	eps     float64
	n       int
}

func newHypothesisWindow[K comparable](maxlen, monitored, period int, a, eps float64) *hypothesisWindow[K] {
	return &hypothesisWindow[K]{
		current: NewStreamSummary[K](monitored),
		maxlen:  maxlen,
		period:  max(1, period),
		a:       a,
		eps:     eps,
	}
}

func (w *hypothesisWindow[K]) record(key K) bool {
	w.current.Add(key)
	w.n++
	if w.n%w.period != 0 {
		return false
	}
	return w.confident()
}

func (w *hypothesisWindow[K]) confident() bool {
	last, ok := w.current.At(min(w.maxlen, w.current.Len()) - 1)
	if !ok {
		return false
	}
	p := float64(last.Count) / float64(w.n)
	return bernsteinBound(uint64(w.n), p, w.eps) < w.a
}

func (w *hypothesisWindow[K]) requests() int { return w.n }

func (w *hypothesisWindow[K]) summary() *StreamSummary[K] { return w.current }

func (w *hypothesisWindow[K]) advance() {
	w.current.Clear()
	w.n = 0
}

func (w *hypothesisWindow[K]) clear() { w.advance() }
