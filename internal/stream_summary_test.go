package internal

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func addAll[K comparable](s *StreamSummary[K], keys ...K) {
	for _, k := range keys {
		s.Add(k)
	}
}

func TestStreamSummary_Buckets(t *testing.T) {
	s := NewStreamSummary[int](5)
	addAll(s, 1, 17, 23, 2, 7)
	require.Equal(t, "1:1(0)/17(0)/23(0)/2(0)/7(0)", s.display())
	require.True(t, s.Full())

	evicted, ok := s.Add(10)
	require.True(t, ok)
	require.Equal(t, 1, evicted)
	for i := 0; i < 7; i++ {
		_, ok := s.Add(10)
		require.False(t, ok)
	}
	require.Equal(t, "9:10(1) 1:17(0)/23(0)/2(0)/7(0)", s.display())

	cases := []struct {
		key      int
		evicted  int
		expected string
	}{
		{1, 17, "9:10(1) 2:1(1) 1:23(0)/2(0)/7(0)"},
		{2, 0, "9:10(1) 2:1(1)/2(0) 1:23(0)/7(0)"},
		{3, 23, "9:10(1) 2:1(1)/3(1)/2(0) 1:7(0)"},
		{4, 7, "9:10(1) 2:1(1)/3(1)/4(1)/2(0)"},
		{5, 1, "9:10(1) 3:5(2) 2:3(1)/4(1)/2(0)"},
		{10, 0, "10:10(1) 3:5(2) 2:3(1)/4(1)/2(0)"},
	}
	for _, c := range cases {
		evicted, ok := s.Add(c.key)
		if c.evicted == 0 {
			require.False(t, ok)
		} else {
			require.True(t, ok)
			require.Equal(t, c.evicted, evicted)
		}
		require.Equal(t, c.expected, s.display())
	}

	require.Equal(t, []Counter[int]{
		{10, 10, 1}, {5, 3, 2}, {2, 2, 0}, {4, 2, 1}, {3, 2, 1},
	}, s.Dump())
	require.Equal(t, []int{10, 5, 2}, s.Top(3))
	require.Equal(t, uint64(2), s.Min())

	require.Equal(t, []int{0}, s.GuaranteedTopK(1))
	require.Equal(t, []int{0, 2}, s.GuaranteedTopK(4))
	// clamped to size-1
	require.Equal(t, []int{0, 2}, s.GuaranteedTopK(100))

	addAll(s, 5, 5)
	require.Equal(t, "10:10(1) 5:5(2) 2:3(1)/4(1)/2(0)", s.display())
	require.Equal(t, []int{0, 1, 2}, s.GuaranteedTopK(4))

	for i, key := range []int{10, 5, 2, 4, 3} {
		rank, ok := s.Rank(key)
		require.True(t, ok)
		require.Equal(t, i, rank)
		c, ok := s.At(i)
		require.True(t, ok)
		require.Equal(t, key, c.Key)
	}
	_, ok = s.Rank(99)
	require.False(t, ok)
	_, ok = s.At(5)
	require.False(t, ok)
}

func TestStreamSummary_Remove(t *testing.T) {
	s := NewStreamSummary[string](3)
	addAll(s, "a", "b", "b", "c", "c", "c")
	require.Equal(t, "3:c(0) 2:b(0) 1:a(0)", s.display())
	require.True(t, s.Remove("b"))
	require.False(t, s.Remove("b"))
	require.Equal(t, "3:c(0) 1:a(0)", s.display())
	require.Equal(t, 2, s.Len())
	require.False(t, s.Full())

	// room again, no eviction
	_, ok := s.Add("d")
	require.False(t, ok)
	require.Equal(t, "3:c(0) 1:a(0)/d(0)", s.display())

	require.True(t, s.Remove("c"))
	require.True(t, s.Remove("a"))
	require.True(t, s.Remove("d"))
	require.Equal(t, "", s.display())
	require.Equal(t, uint64(0), s.Min())
	addAll(s, "x")
	require.Equal(t, "1:x(0)", s.display())
}

func TestStreamSummary_Empty(t *testing.T) {
	s := NewStreamSummary[int](4)
	require.Empty(t, s.GuaranteedTopK(3))
	require.Empty(t, s.Dump())
	require.Empty(t, s.Top(2))

	s.Add(1)
	require.Empty(t, s.GuaranteedTopK(3))

	zero := NewStreamSummary[int](0)
	_, ok := zero.Add(1)
	require.False(t, ok)
	require.Equal(t, 0, zero.Len())
	require.Empty(t, zero.GuaranteedTopK(1))
}

func TestStreamSummary_Load(t *testing.T) {
	s := NewStreamSummary[int](8)
	s.Load(1, 5, 1)
	s.Load(2, 3, 0)
	s.Load(3, 5, 2)
	s.Load(4, 3, 5) // error clamped to count
	s.Load(5, 0, 0) // zero count is dropped
	require.Equal(t, "5:3(2)/1(1) 3:4(3)/2(0)", s.display())

	s.Load(2, 7, 1)
	require.Equal(t, "7:2(1) 5:3(2)/1(1) 3:4(3)", s.display())
	s.Load(2, 0, 0)
	require.False(t, s.Contains(2))

	count, ok := s.Count(3)
	require.True(t, ok)
	require.Equal(t, uint64(5), count)
	errBound, ok := s.Error(3)
	require.True(t, ok)
	require.Equal(t, uint64(2), errBound)
	_, ok = s.Count(2)
	require.False(t, ok)
	_, ok = s.Error(2)
	require.False(t, ok)

	s.Clear()
	require.Equal(t, 0, s.Len())
	require.Equal(t, "", s.display())
}

func zipfStream(seed int64, universe uint64, n int) []uint64 {
	rng := rand.New(rand.NewSource(seed))
	z := rand.NewZipf(rng, 1.1, 2, universe)
	stream := make([]uint64, n)
	for i := range stream {
		stream[i] = z.Uint64()
	}
	return stream
}

func TestStreamSummary_ErrorBound(t *testing.T) {
	for _, capacity := range []int{4, 16, 64} {
		s := NewStreamSummary[uint64](capacity)
		truth := map[uint64]uint64{}
		stream := zipfStream(int64(capacity), 500, 20000)
		for i, k := range stream {
			s.Add(k)
			truth[k]++
			if i%997 != 0 {
				continue
			}
			var total uint64
			s.Range(func(c Counter[uint64]) bool {
				total += c.Count
				require.LessOrEqual(t, c.Error, c.Count)
				require.LessOrEqual(t, c.Guaranteed(), truth[c.Key])
				require.GreaterOrEqual(t, c.Count, truth[c.Key])
				return true
			})
			// every occurrence is accounted for exactly once
			require.Equal(t, uint64(i+1), total)
		}
	}
}

func TestStreamSummary_GuaranteedTopKSound(t *testing.T) {
	// adversarial: a rotating set of keys slightly larger than capacity
	// keeps inflating errors, a few heavy keys stay above the noise.
	var stream []int
	for round := 0; round < 200; round++ {
		for k := 0; k < 12; k++ {
			stream = append(stream, 100+(round*7+k)%13)
		}
		stream = append(stream, 1, 1, 2, 2, 2, 3)
	}
	s := NewStreamSummary[int](10)
	truth := map[int]int{}
	for _, k := range stream {
		s.Add(k)
		truth[k]++
	}
	dump := s.Dump()
	for k := 1; k < len(dump); k++ {
		inTop := map[int]bool{}
		for _, c := range dump[:k] {
			inTop[c.Key] = true
		}
		outside := 0
		for key, count := range truth {
			if !inTop[key] && count > outside {
				outside = count
			}
		}
		for _, i := range s.GuaranteedTopK(k) {
			require.Less(t, i, k)
			require.GreaterOrEqual(t, truth[dump[i].Key], outside, "k=%d index=%d", k, i)
		}
	}
	require.Equal(t, 2, dump[0].Key)
	require.Equal(t, []int{0}, s.GuaranteedTopK(1))
}
