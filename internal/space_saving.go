package internal

// SpaceSaving caches the maxlen most frequent keys of a stream summary that
// monitors more keys than it caches.
type SpaceSaving[K comparable] struct {
	maxlen  int
	summary *StreamSummary[K]
}

func NewSpaceSaving[K comparable](maxlen, monitored int) *SpaceSaving[K] {
	return &SpaceSaving[K]{
		maxlen:  maxlen,
		summary: NewStreamSummary[K](monitored),
	}
}

func (s *SpaceSaving[K]) Has(key K) bool {
	rank, ok := s.summary.Rank(key)
	return ok && rank < s.maxlen
}

func (s *SpaceSaving[K]) Get(key K) bool {
	if !s.Has(key) {
		return false
	}
	s.summary.Add(key)
	return true
}

// Put records an occurrence of key and returns the key pushed out of the
// cached prefix, if any.
func (s *SpaceSaving[K]) Put(key K) (K, bool) {
	var zero K
	last, full := s.summary.At(s.maxlen - 1)
	s.summary.Add(key)
	if full && last.Key != key && !s.Has(last.Key) {
		return last.Key, true
	}
	return zero, false
}

// Remove forgets key, reporting whether it was cached.
func (s *SpaceSaving[K]) Remove(key K) bool {
	cached := s.Has(key)
	s.summary.Remove(key)
	return cached
}

func (s *SpaceSaving[K]) Clear() {
	s.summary.Clear()
}

func (s *SpaceSaving[K]) Len() int {
	return min(s.summary.Len(), s.maxlen)
}

func (s *SpaceSaving[K]) Capacity() int { return s.maxlen }

func (s *SpaceSaving[K]) Dump() []K {
	return s.summary.Top(s.maxlen)
}

func (s *SpaceSaving[K]) Position(key K) (int, bool) {
	rank, ok := s.summary.Rank(key)
	if !ok || rank >= s.maxlen {
		return 0, false
	}
	return rank, true
}

// GuaranteedTopK reports how many cached keys are provably among the
// maxlen most frequent keys seen so far.
func (s *SpaceSaving[K]) GuaranteedTopK() int {
	return len(s.summary.GuaranteedTopK(s.maxlen))
}
