package internal

// ARC is the Adaptive Replacement Cache of Megiddo and Modha. t1 and t2
// hold cached keys seen once and at least twice, b1 and b2 are their ghost
// lists. p is the target size of t1.
type ARC[K comparable] struct {
	capacity int
	p        int
	t1       *LinkedSet[K]
	t2       *LinkedSet[K]
	b1       *LinkedSet[K]
	b2       *LinkedSet[K]
}

func NewARC[K comparable](capacity int) *ARC[K] {
	return &ARC[K]{
		capacity: capacity,
		t1:       NewLinkedSet[K](capacity),
		t2:       NewLinkedSet[K](capacity),
		b1:       NewLinkedSet[K](capacity),
		b2:       NewLinkedSet[K](capacity),
	}
}

// P returns the current target size of the recency list.
func (a *ARC[K]) P() int { return a.p }

func (a *ARC[K]) Has(key K) bool {
	return a.t1.Contains(key) || a.t2.Contains(key)
}

func (a *ARC[K]) Get(key K) bool {
	if a.t1.Remove(key) {
		a.t2.PushFront(key)
		return true
	}
	if a.t2.Contains(key) {
		a.t2.MoveToFront(key)
		return true
	}
	return false
}

func (a *ARC[K]) Put(key K) (K, bool) {
	var zero K
	if a.Get(key) {
		return zero, false
	}

	c := a.capacity
	if a.b1.Contains(key) {
		delta := 1
		if a.b2.Len() > a.b1.Len() {
			delta = a.b2.Len() / a.b1.Len()
		}
		a.p = min(a.p+delta, c)
		a.b1.Remove(key)
		evicted, ok := a.replaceIfFull(false)
		a.t2.PushFront(key)
		return evicted, ok
	}
	if a.b2.Contains(key) {
		delta := 1
		if a.b1.Len() > a.b2.Len() {
			delta = a.b1.Len() / a.b2.Len()
		}
		a.p = max(a.p-delta, 0)
		a.b2.Remove(key)
		evicted, ok := a.replaceIfFull(true)
		a.t2.PushFront(key)
		return evicted, ok
	}

	evicted, ok := zero, false
	if a.t1.Len()+a.b1.Len() == c {
		if a.t1.Len() < c {
			a.b1.PopBack()
			evicted, ok = a.replaceIfFull(false)
		} else {
			evicted, ok = a.t1.PopBack()
		}
	} else if total := a.t1.Len() + a.b1.Len() + a.t2.Len() + a.b2.Len(); total >= c {
		if total >= 2*c {
			a.b2.PopBack()
		}
		evicted, ok = a.replaceIfFull(false)
	}
	a.t1.PushFront(key)
	if debugging {
		assert(a.t1.Len()+a.t2.Len() <= c, "arc cached lists over capacity")
		assert(a.t1.Len()+a.b1.Len()+a.t2.Len()+a.b2.Len() <= 2*c, "arc directory over capacity")
	}
	return evicted, ok
}

func (a *ARC[K]) replaceIfFull(fromB2 bool) (K, bool) {
	if a.t1.Len()+a.t2.Len() < a.capacity {
		var zero K
		return zero, false
	}
	return a.replace(fromB2)
}

// replace moves the LRU key of t1 or t2 into the matching ghost list.
func (a *ARC[K]) replace(fromB2 bool) (K, bool) {
	t1 := a.t1.Len()
	if t1 > 0 && (t1 > a.p || (fromB2 && t1 == a.p) || a.t2.Len() == 0) {
		k, _ := a.t1.PopBack()
		a.b1.PushFront(k)
		return k, true
	}
	k, ok := a.t2.PopBack()
	if ok {
		a.b2.PushFront(k)
	}
	return k, ok
}

// Remove drops key from the cache and from the ghost lists.
func (a *ARC[K]) Remove(key K) bool {
	a.b1.Remove(key)
	a.b2.Remove(key)
	return a.t1.Remove(key) || a.t2.Remove(key)
}

func (a *ARC[K]) Clear() {
	a.t1.Clear()
	a.t2.Clear()
	a.b1.Clear()
	a.b2.Clear()
	a.p = 0
}

func (a *ARC[K]) Len() int { return a.t1.Len() + a.t2.Len() }

func (a *ARC[K]) Capacity() int { return a.capacity }

// Dump lists t2 before t1.
func (a *ARC[K]) Dump() []K {
	return append(a.t2.Keys(), a.t1.Keys()...)
}

func (a *ARC[K]) Position(key K) (int, bool) {
	if !a.Has(key) {
		return 0, false
	}
	return positionOf(a.Dump(), key)
}

func (a *ARC[K]) display() string {
	return a.t1.display() + ":" + a.b1.display() + ":" + a.t2.display() + ":" + a.b2.display()
}
