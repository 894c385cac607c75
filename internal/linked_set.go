package internal

import (
	"github.com/tidwall/hashmap"
)

// LinkedSet is an ordered set of unique keys, front is the most recently
// promoted key. All single key operations are O(1), IndexOf is O(n).
type LinkedSet[K comparable] struct {
	list  *List[K]
	index *hashmap.Map[K, *Entry[K]]
}

func NewLinkedSet[K comparable](hint int) *LinkedSet[K] {
	return &LinkedSet[K]{
		list:  NewList[K](0),
		index: hashmap.New[K, *Entry[K]](hint),
	}
}

func (s *LinkedSet[K]) Contains(key K) bool {
	_, ok := s.index.Get(key)
	return ok
}

func (s *LinkedSet[K]) Len() int {
	return s.list.Len()
}

// PushFront inserts key at the front, returns false if key is already present.
func (s *LinkedSet[K]) PushFront(key K) bool {
	if s.Contains(key) {
		return false
	}
	e := NewEntry(key)
	s.list.PushFront(e)
	s.index.Set(key, e)
	return true
}

// PushBack inserts key at the back, returns false if key is already present.
func (s *LinkedSet[K]) PushBack(key K) bool {
	if s.Contains(key) {
		return false
	}
	e := NewEntry(key)
	s.list.PushBack(e)
	s.index.Set(key, e)
	return true
}

func (s *LinkedSet[K]) Remove(key K) bool {
	e, ok := s.index.Delete(key)
	if !ok {
		return false
	}
	s.list.remove(e)
	return true
}

// MoveToFront is a no-op for absent keys.
func (s *LinkedSet[K]) MoveToFront(key K) {
	if e, ok := s.index.Get(key); ok {
		s.list.MoveToFront(e)
	}
}

// MoveToBack is a no-op for absent keys.
func (s *LinkedSet[K]) MoveToBack(key K) {
	if e, ok := s.index.Get(key); ok {
		s.list.MoveToBack(e)
	}
}

func (s *LinkedSet[K]) PopFront() (K, bool) {
	e := s.list.PopHead()
	if e == nil {
		var zero K
		return zero, false
	}
	s.index.Delete(e.key)
	return e.key, true
}

func (s *LinkedSet[K]) PopBack() (K, bool) {
	e := s.list.PopTail()
	if e == nil {
		var zero K
		return zero, false
	}
	s.index.Delete(e.key)
	return e.key, true
}

func (s *LinkedSet[K]) Front() (K, bool) {
	if e := s.list.Front(); e != nil {
		return e.key, true
	}
	var zero K
	return zero, false
}

func (s *LinkedSet[K]) Back() (K, bool) {
	if e := s.list.Back(); e != nil {
		return e.key, true
	}
	var zero K
	return zero, false
}

// IndexOf returns the position of key counted from the front.
func (s *LinkedSet[K]) IndexOf(key K) (int, bool) {
	target, ok := s.index.Get(key)
	if !ok {
		return 0, false
	}
	i := 0
	for e := s.list.Front(); e != nil; e = e.Next() {
		if e == target {
			return i, true
		}
		i++
	}
	return 0, false
}

// Range calls fn front to back until fn returns false.
func (s *LinkedSet[K]) Range(fn func(key K) bool) {
	for e := s.list.Front(); e != nil; e = e.Next() {
		if !fn(e.key) {
			return
		}
	}
}

func (s *LinkedSet[K]) Keys() []K {
	keys := make([]K, 0, s.list.Len())
	for e := s.list.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.key)
	}
	return keys
}

func (s *LinkedSet[K]) Clear() {
	s.list.Reset()
	s.index = hashmap.New[K, *Entry[K]](0)
}

func (s *LinkedSet[K]) display() string {
	return s.list.display()
}
