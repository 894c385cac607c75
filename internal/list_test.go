package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestList_PushPop(t *testing.T) {
	l := NewList[string](5)
	require.Equal(t, 5, l.Capacity())
	for i := 0; i < 5; i++ {
		evicted := l.PushFront(NewEntry(fmt.Sprintf("%d", i)))
		require.Nil(t, evicted)
	}
	require.Equal(t, 5, l.Len())
	require.Equal(t, "4/3/2/1/0", l.display())
	require.Equal(t, "0/1/2/3/4", l.displayReverse())

	for i := 0; i < 5; i++ {
		entry := l.PopTail()
		require.Equal(t, fmt.Sprintf("%d", i), entry.key)
		require.Nil(t, entry.list)
	}
	entry := l.PopTail()
	require.Nil(t, entry)
	require.Nil(t, l.PopHead())

	entries := []*Entry[string]{}
	for i := 0; i < 5; i++ {
		new := NewEntry(fmt.Sprintf("%d", i))
		l.PushFront(new)
		entries = append(entries, new)
	}
	require.Equal(t, "4/3/2/1/0", l.display())
	l.MoveToBack(entries[2])
	require.Equal(t, "4/3/1/0/2", l.display())
	require.Equal(t, "2/0/1/3/4", l.displayReverse())
	l.MoveBefore(entries[1], entries[3])
	require.Equal(t, "4/1/3/0/2", l.display())
	require.Equal(t, "2/0/3/1/4", l.displayReverse())
	l.MoveAfter(entries[2], entries[4])
	require.Equal(t, "4/2/1/3/0", l.display())
	require.Equal(t, "0/3/1/2/4", l.displayReverse())
	l.Remove(entries[1])
	require.Equal(t, "4/2/3/0", l.display())
	require.Equal(t, "0/3/2/4", l.displayReverse())
	l.MoveToFront(entries[0])
	require.Equal(t, "0/4/2/3", l.display())
	require.Equal(t, "0", l.PopHead().key)
	require.Equal(t, "4/2/3", l.display())
}

func TestList_Capacity(t *testing.T) {
	l := NewList[int](3)
	for i := 0; i < 3; i++ {
		require.Nil(t, l.PushFront(NewEntry(i)))
	}
	evicted := l.PushFront(NewEntry(3))
	require.NotNil(t, evicted)
	require.Equal(t, 0, evicted.key)
	require.Equal(t, "3/2/1", l.display())

	// PushBack ignores capacity
	l.PushBack(NewEntry(9))
	require.Equal(t, 4, l.Len())
	require.Equal(t, "3/2/1/9", l.display())

	l.SetCapacity(0)
	for i := 10; i < 20; i++ {
		require.Nil(t, l.PushFront(NewEntry(i)))
	}
	require.Equal(t, 14, l.Len())
}

func TestList_InsertBefore(t *testing.T) {
	l := NewList[int](0)
	a, b := NewEntry(1), NewEntry(2)
	l.PushBack(a)
	l.PushBack(b)
	l.InsertBefore(NewEntry(3), b)
	require.Equal(t, "1/3/2", l.display())
	l.InsertBefore(NewEntry(4), a)
	require.Equal(t, "4/1/3/2", l.display())

	other := NewList[int](0)
	other.InsertBefore(NewEntry(5), a)
	require.Equal(t, 0, other.Len())
}

func TestList_Foreign(t *testing.T) {
	l1 := NewList[int](0)
	l2 := NewList[int](0)
	e := NewEntry(1)
	l1.PushFront(e)
	l2.PushFront(NewEntry(2))
	l2.Remove(e)
	l2.MoveToFront(e)
	require.True(t, l1.Contains(e))
	require.False(t, l2.Contains(e))
	require.Equal(t, 1, l1.Len())
	require.Equal(t, 1, l2.Len())
}
