package internal

// Entry is the node shared by every list based structure in this package.
// Only the fields of the structure that currently owns the entry are meaningful.
type Entry[K comparable] struct {
	key  K
	prev *Entry[K]
	next *Entry[K]
	list *List[K]
	root bool

	// stream summary
	bucket *bucket[K]
	err    uint64

	// segmented lists (klru, tinylfu)
	segment int8
}

func NewEntry[K comparable](key K) *Entry[K] {
	return &Entry[K]{key: key}
}

func (e *Entry[K]) Key() K {
	return e.key
}

// Next returns the next list element or nil.
func (e *Entry[K]) Next() *Entry[K] {
	if p := e.next; p != nil && !p.root {
		return p
	}
	return nil
}

// Prev returns the previous list element or nil.
func (e *Entry[K]) Prev() *Entry[K] {
	if p := e.prev; p != nil && !p.root {
		return p
	}
	return nil
}
