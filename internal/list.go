package internal

import (
	"fmt"
	"strings"
)

// List represents a doubly linked list of keys.
// The zero value is not usable, use NewList.
type List[K comparable] struct {
	root     Entry[K] // sentinel list element, only &root, root.prev, and root.next are used
	len      int      // current list length excluding (this) sentinel element
	capacity int      // 0 means unbounded
}

// NewList returns an initialized list. PushFront evicts the tail once
// capacity entries are linked, capacity <= 0 disables that.
func NewList[K comparable](capacity int) *List[K] {
	l := &List[K]{capacity: capacity}
	l.root.root = true
	l.Reset()
	return l
}

func (l *List[K]) Reset() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}

// Len returns the number of elements of list l.
// The complexity is O(1).
func (l *List[K]) Len() int { return l.len }

func (l *List[K]) Capacity() int { return l.capacity }

func (l *List[K]) SetCapacity(capacity int) { l.capacity = capacity }

func (l *List[K]) display() string {
	var s []string
	for e := l.Front(); e != nil; e = e.Next() {
		s = append(s, fmt.Sprintf("%v", e.key))
	}
	return strings.Join(s, "/")
}

func (l *List[K]) displayReverse() string {
	var s []string
	for e := l.Back(); e != nil; e = e.Prev() {
		s = append(s, fmt.Sprintf("%v", e.key))
	}
	return strings.Join(s, "/")
}

// Front returns the first element of list l or nil if the list is empty.
func (l *List[K]) Front() *Entry[K] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

// Back returns the last element of list l or nil if the list is empty.
func (l *List[K]) Back() *Entry[K] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

// Contains reports whether e is linked into l.
func (l *List[K]) Contains(e *Entry[K]) bool {
	return e.list == l
}

// link inserts e after at and increments l.len
func (l *List[K]) link(e, at *Entry[K]) {
	e.list = l
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
	l.len++
}

// PushFront pushes entry to the list head, the tail is popped and returned
// if the list was already at capacity.
func (l *List[K]) PushFront(e *Entry[K]) *Entry[K] {
	var evicted *Entry[K]
	if l.capacity > 0 && l.len >= l.capacity {
		evicted = l.PopTail()
	}
	l.link(e, &l.root)
	return evicted
}

// PushBack appends entry to the list tail, capacity is not checked.
func (l *List[K]) PushBack(e *Entry[K]) {
	l.link(e, l.root.prev)
}

// remove removes e from its list, decrements l.len
func (l *List[K]) remove(e *Entry[K]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	e.list = nil
	l.len--
}

// move moves e to next to at.
func (l *List[K]) move(e, at *Entry[K]) {
	if e == at {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev

	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
}

// Remove removes e from l if e is an element of list l.
func (l *List[K]) Remove(e *Entry[K]) {
	if e.list == l {
		l.remove(e)
	}
}

// MoveToFront moves element e to the front of list l.
// If e is not an element of l, the list is not modified.
func (l *List[K]) MoveToFront(e *Entry[K]) {
	if e.list != l || l.root.next == e {
		return
	}
	l.move(e, &l.root)
}

// MoveToBack moves element e to the back of list l.
// If e is not an element of l, the list is not modified.
func (l *List[K]) MoveToBack(e *Entry[K]) {
	if e.list != l || l.root.prev == e {
		return
	}
	l.move(e, l.root.prev)
}

// MoveBefore moves element e to its new position before mark.
// If e or mark is not an element of l, or e == mark, the list is not modified.
func (l *List[K]) MoveBefore(e, mark *Entry[K]) {
	if e.list != l || e == mark || mark.list != l {
		return
	}
	l.move(e, mark.prev)
}

// MoveAfter moves element e to its new position after mark.
// If e or mark is not an element of l, or e == mark, the list is not modified.
func (l *List[K]) MoveAfter(e, mark *Entry[K]) {
	if e.list != l || e == mark || mark.list != l {
		return
	}
	l.move(e, mark)
}

// InsertBefore links a detached entry right before mark.
func (l *List[K]) InsertBefore(e, mark *Entry[K]) {
	if mark.list != l {
		return
	}
	l.link(e, mark.prev)
}

func (l *List[K]) PopTail() *Entry[K] {
	entry := l.root.prev
	if entry != nil && entry != &l.root {
		l.remove(entry)
		return entry
	}
	return nil
}

func (l *List[K]) PopHead() *Entry[K] {
	entry := l.root.next
	if entry != nil && entry != &l.root {
		l.remove(entry)
		return entry
	}
	return nil
}
