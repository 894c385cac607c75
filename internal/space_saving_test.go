package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpaceSaving(t *testing.T) {
	s := NewSpaceSaving[string](2, 4)
	require.Equal(t, 2, s.Capacity())

	_, ok := s.Put("a")
	require.False(t, ok)
	require.True(t, s.Get("a"))
	_, ok = s.Put("b")
	require.False(t, ok)
	require.Equal(t, []string{"a", "b"}, s.Dump())

	// ties go to the most recent key
	evicted, ok := s.Put("c")
	require.True(t, ok)
	require.Equal(t, "b", evicted)
	require.Equal(t, []string{"a", "c"}, s.Dump())
	require.False(t, s.Has("b"))

	// misses do not count occurrences
	require.False(t, s.Get("b"))
	count, _ := s.summary.Count("b")
	require.Equal(t, uint64(1), count)

	evicted, ok = s.Put("b")
	require.True(t, ok)
	require.Equal(t, "c", evicted)
	require.Equal(t, []string{"b", "a"}, s.Dump())
	require.Equal(t, 2, s.Len())
	require.Equal(t, 2, s.GuaranteedTopK())

	pos, ok := s.Position("a")
	require.True(t, ok)
	require.Equal(t, 1, pos)
	_, ok = s.Position("c")
	require.False(t, ok)

	require.True(t, s.Remove("a"))
	require.False(t, s.Remove("a"))
	require.Equal(t, []string{"b", "c"}, s.Dump())

	s.Clear()
	require.Equal(t, 0, s.Len())
	require.Empty(t, s.Dump())
}

func TestSpaceSaving_MonitoredEviction(t *testing.T) {
	s := NewSpaceSaving[int](2, 3)
	for _, k := range []int{1, 1, 1, 2, 2, 3} {
		if !s.Get(k) {
			s.Put(k)
		}
	}
	require.Equal(t, []int{1, 2}, s.Dump())
	// 3 is monitored but not cached, 4 displaces it from the summary
	require.False(t, s.Has(3))
	_, ok := s.Put(4)
	require.False(t, ok)
	require.False(t, s.summary.Contains(3))
	c, _ := s.summary.Error(4)
	require.Equal(t, uint64(1), c)
	require.Equal(t, []int{1, 2}, s.Dump())
}
