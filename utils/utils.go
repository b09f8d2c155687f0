// Package utils implements small generic helpers shared by the arithmetic packages.
package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Min returns the minimum value of the two inputs.
func Min[V constraints.Ordered](a, b V) V {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum value of the two inputs.
func Max[V constraints.Ordered](a, b V) V {
	if a >= b {
		return a
	}
	return b
}

// MinSlice returns the minimum value of a non-empty slice.
func MinSlice[V constraints.Ordered](s []V) (min V) {
	min = s[0]
	for _, v := range s[1:] {
		min = Min(min, v)
	}
	return
}

// BitLen returns the number of bits needed to represent x, with BitLen(0) = 0.
func BitLen[V constraints.Unsigned | constraints.Signed](x V) int {
	return bits.Len64(uint64(x))
}

// CeilLog2 returns ceil(log2(x)) for x >= 1, with CeilLog2(1) = 0.
func CeilLog2[V constraints.Unsigned | constraints.Signed](x V) int {
	if x <= 1 {
		return 0
	}
	return bits.Len64(uint64(x) - 1)
}
