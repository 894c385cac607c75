package bf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBloom(t *testing.T) {
	bf := NewWithSize(5)
	bf.EnsureCapacity(5)
	bf.EnsureCapacity(500)
	require.Equal(t, 500, bf.capacity)
	bf.EnsureCapacity(200)
	require.Equal(t, 500, bf.capacity)

	success := bf.Insert(123)
	require.True(t, success)
	require.False(t, bf.Insert(123))

	exist := bf.Exist(123)
	require.True(t, exist)

	exist = bf.Exist(456)
	require.False(t, exist)

	bf.Reset()
	require.False(t, bf.Exist(123))
}
