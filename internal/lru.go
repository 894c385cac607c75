package internal

type LRU[K comparable] struct {
	set      *LinkedSet[K]
	capacity int
}

func NewLRU[K comparable](capacity int) *LRU[K] {
	return &LRU[K]{
		set:      NewLinkedSet[K](capacity),
		capacity: capacity,
	}
}

func (l *LRU[K]) Has(key K) bool {
	return l.set.Contains(key)
}

func (l *LRU[K]) Get(key K) bool {
	if !l.set.Contains(key) {
		return false
	}
	l.set.MoveToFront(key)
	return true
}

func (l *LRU[K]) Put(key K) (K, bool) {
	var zero K
	if l.set.Contains(key) {
		l.set.MoveToFront(key)
		return zero, false
	}
	l.set.PushFront(key)
	if l.set.Len() > l.capacity {
		return l.set.PopBack()
	}
	return zero, false
}

func (l *LRU[K]) Remove(key K) bool {
	return l.set.Remove(key)
}

func (l *LRU[K]) Clear() {
	l.set.Clear()
}

func (l *LRU[K]) Len() int { return l.set.Len() }

func (l *LRU[K]) Capacity() int { return l.capacity }

func (l *LRU[K]) Dump() []K {
	return l.set.Keys()
}

func (l *LRU[K]) Position(key K) (int, bool) {
	return l.set.IndexOf(key)
}

func (l *LRU[K]) Resize(capacity int) []K {
	l.capacity = capacity
	var dropped []K
	for l.set.Len() > capacity {
		k, _ := l.set.PopBack()
		dropped = append(dropped, k)
	}
	return dropped
}

func (l *LRU[K]) Backfill(key K) bool {
	if l.set.Len() >= l.capacity {
		return false
	}
	return l.set.PushBack(key)
}
