package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	l := NewLRU[int](4)
	for i := 0; i < 4; i++ {
		_, ok := l.Put(i)
		require.False(t, ok)
	}
	require.Equal(t, []int{3, 2, 1, 0}, l.Dump())

	evicted, ok := l.Put(4)
	require.True(t, ok)
	require.Equal(t, 0, evicted)
	require.Equal(t, 4, l.Len())

	// re-put of a resident key is a hit
	_, ok = l.Put(2)
	require.False(t, ok)
	require.Equal(t, []int{2, 4, 3, 1}, l.Dump())

	require.True(t, l.Get(1))
	require.False(t, l.Get(0))
	require.Equal(t, "1/2/4/3", l.set.display())
	require.True(t, l.Get(1))
	require.Equal(t, "1/2/4/3", l.set.display())

	pos, ok := l.Position(4)
	require.True(t, ok)
	require.Equal(t, 2, pos)
	require.True(t, l.Has(3))
	require.True(t, l.Remove(3))
	require.False(t, l.Has(3))
	require.Equal(t, 3, l.Len())

	l.Clear()
	require.Equal(t, 0, l.Len())
	require.Equal(t, 4, l.Capacity())
}

func TestLRU_ResizeBackfill(t *testing.T) {
	l := NewLRU[string](4)
	for _, k := range []string{"a", "b", "c", "d"} {
		l.Put(k)
	}
	require.Equal(t, []string{"a", "b"}, l.Resize(2))
	require.Equal(t, "d/c", l.set.display())
	require.False(t, l.Backfill("x"))

	require.Empty(t, l.Resize(4))
	require.True(t, l.Backfill("x"))
	require.False(t, l.Backfill("d"))
	require.True(t, l.Backfill("y"))
	require.False(t, l.Backfill("z"))
	require.Equal(t, "d/c/x/y", l.set.display())

	evicted, ok := l.Put("z")
	require.True(t, ok)
	require.Equal(t, "y", evicted)
}
