package internal

// slru is the main space of TinyLFU: a probation segment for keys admitted
// from the window and a protected segment for keys hit while on probation.
type slru[K comparable] struct {
	probation *List[K]
	protected *List[K]
	maxsize   int
}

func newSlru[K comparable](size, protected int) *slru[K] {
	return &slru[K]{
		maxsize: size,
		// probation size is whatever protected leaves
		probation: NewList[K](0),
		protected: NewList[K](protected),
	}
}

func (s *slru[K]) len() int {
	return s.probation.Len() + s.protected.Len()
}

func (s *slru[K]) full() bool {
	return s.len() >= s.maxsize
}

func (s *slru[K]) insert(entry *Entry[K]) {
	s.probation.PushFront(entry)
}

// victim is the entry a candidate has to beat to be admitted.
func (s *slru[K]) victim() *Entry[K] {
	if v := s.probation.Back(); v != nil {
		return v
	}
	return s.protected.Back()
}

func (s *slru[K]) access(entry *Entry[K]) {
	switch entry.list {
	case s.probation:
		s.probation.remove(entry)
		if demoted := s.protected.PushFront(entry); demoted != nil {
			s.probation.PushFront(demoted)
		}
	case s.protected:
		s.protected.MoveToFront(entry)
	}
}

func (s *slru[K]) remove(entry *Entry[K]) {
	switch entry.list {
	case s.probation:
		s.probation.remove(entry)
	case s.protected:
		s.protected.remove(entry)
	}
}

func (s *slru[K]) reset() {
	s.probation.Reset()
	s.protected.Reset()
}
