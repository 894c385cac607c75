package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinkedSet(t *testing.T) {
	s := NewLinkedSet[int](8)
	for i := 0; i < 5; i++ {
		require.True(t, s.PushFront(i))
	}
	require.False(t, s.PushFront(3))
	require.False(t, s.PushBack(3))
	require.Equal(t, 5, s.Len())
	require.Equal(t, "4/3/2/1/0", s.display())

	s.MoveToFront(1)
	require.Equal(t, "1/4/3/2/0", s.display())
	s.MoveToBack(4)
	require.Equal(t, "1/3/2/0/4", s.display())
	// absent keys are ignored
	s.MoveToFront(42)
	s.MoveToBack(42)
	require.Equal(t, "1/3/2/0/4", s.display())

	idx, ok := s.IndexOf(2)
	require.True(t, ok)
	require.Equal(t, 2, idx)
	_, ok = s.IndexOf(42)
	require.False(t, ok)

	require.True(t, s.Remove(3))
	require.False(t, s.Remove(3))
	require.False(t, s.Contains(3))
	require.Equal(t, []int{1, 2, 0, 4}, s.Keys())

	k, ok := s.PopBack()
	require.True(t, ok)
	require.Equal(t, 4, k)
	k, ok = s.PopFront()
	require.True(t, ok)
	require.Equal(t, 1, k)
	require.True(t, s.PushBack(7))
	require.Equal(t, "2/0/7", s.display())

	front, _ := s.Front()
	back, _ := s.Back()
	require.Equal(t, 2, front)
	require.Equal(t, 7, back)

	var seen []int
	s.Range(func(key int) bool {
		seen = append(seen, key)
		return key != 0
	})
	require.Equal(t, []int{2, 0}, seen)

	s.Clear()
	require.Equal(t, 0, s.Len())
	require.False(t, s.Contains(2))
	_, ok = s.PopFront()
	require.False(t, ok)
	_, ok = s.PopBack()
	require.False(t, ok)
	_, ok = s.Front()
	require.False(t, ok)
	require.True(t, s.PushFront(2))
}

func TestLinkedSet_MoveToFrontIdempotent(t *testing.T) {
	s := NewLinkedSet[string](0)
	for _, k := range []string{"a", "b", "c"} {
		s.PushFront(k)
	}
	before := s.Keys()
	s.MoveToFront("c")
	require.Equal(t, before, s.Keys())
}
