package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinMax(t *testing.T) {
	require.Equal(t, 3, Min(3, 5))
	require.Equal(t, 5, Max(3, 5))
	require.Equal(t, uint64(0), Min(uint64(0), ^uint64(0)))
	require.Equal(t, -7, MinSlice([]int{4, -7, 2}))
}

func TestBitLen(t *testing.T) {
	require.Equal(t, 0, BitLen(0))
	require.Equal(t, 1, BitLen(1))
	require.Equal(t, 3, BitLen(6))
	require.Equal(t, 64, BitLen(^uint64(0)))

	require.Equal(t, 0, CeilLog2(1))
	require.Equal(t, 1, CeilLog2(2))
	require.Equal(t, 2, CeilLog2(3))
	require.Equal(t, 2, CeilLog2(4))
	require.Equal(t, 3, CeilLog2(5))
	require.Equal(t, 10, CeilLog2(1024))
}
