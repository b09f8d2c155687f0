// Package mpn implements arithmetic on multi-precision natural numbers stored
// as slices of 64-bit limbs, least significant limb first. The length of each
// operand is the length of its slice and outputs are written into caller-owned
// slices that must be large enough; in-place operation (out aliasing the first
// input) is supported unless stated otherwise.
package mpn

import (
	"math/bits"
)

// MulGradeschoolThreshold is the operand length, in limbs, below which Mul
// uses the quadratic algorithm instead of Karatsuba.
const MulGradeschoolThreshold = 32

// Cmp compares a and b of equal length and returns -1, 0 or +1.
func Cmp(a, b []uint64) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// CmpN compares a and b of possibly different lengths.
func CmpN(a, b []uint64) int {
	na, nb := NormalizedSize(a), NormalizedSize(b)
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	}
	return Cmp(a[:na], b[:nb])
}

// Copy copies in into out[:len(in)].
func Copy(out, in []uint64) {
	copy(out, in)
}

// Zero sets all limbs of x to zero.
func Zero(x []uint64) {
	for i := range x {
		x[i] = 0
	}
}

// IsZero returns true if all limbs of x are zero.
func IsZero(x []uint64) bool {
	return NormalizedSize(x) == 0
}

// Com writes the one's complement of in into out.
func Com(out, in []uint64) {
	for i := range in {
		out[i] = ^in[i]
	}
}

// NormalizedSize returns the length of x without its most significant zero limbs.
func NormalizedSize(x []uint64) int {
	n := len(x)
	for n > 0 && x[n-1] == 0 {
		n--
	}
	return n
}

// Lshift writes in << count into out[:len(in)] and returns the bits shifted
// out of the top limb. Requires count < 64.
func Lshift(out, in []uint64, count uint) (high uint64) {
	n := len(in)
	if n == 0 {
		return 0
	}
	high = in[n-1] >> (64 - count)
	for i := n - 1; i > 0; i-- {
		out[i] = in[i]<<count | in[i-1]>>(64-count)
	}
	out[0] = in[0] << count
	return
}

// Rshift writes in >> count into out[:len(in)] and returns the bits shifted
// out of the bottom limb, left aligned. Requires count < 64.
func Rshift(out, in []uint64, count uint) (low uint64) {
	n := len(in)
	if n == 0 {
		return 0
	}
	low = in[0] << (64 - count)
	for i := 0; i < n-1; i++ {
		out[i] = in[i]>>count | in[i+1]<<(64-count)
	}
	out[n-1] = in[n-1] >> count
	return
}

// Add1 writes a + b into out[:len(a)] and returns the carry.
func Add1(out, a []uint64, b uint64) (carry uint64) {
	carry = b
	for i := range a {
		out[i], carry = bits.Add64(a[i], carry, 0)
	}
	return
}

// AddN writes a + b into out[:len(a)] and returns the carry. Requires len(a) == len(b).
func AddN(out, a, b []uint64) (carry uint64) {
	for i := range a {
		out[i], carry = bits.Add64(a[i], b[i], carry)
	}
	return
}

// Add writes a + b into out[:len(a)] and returns the carry. Requires len(a) >= len(b).
func Add(out, a, b []uint64) (carry uint64) {
	if len(a) < len(b) {
		panic("cannot Add: len(a) < len(b)")
	}
	nb := len(b)
	carry = AddN(out[:nb], a[:nb], b)
	return Add1(out[nb:len(a)], a[nb:], carry)
}

// Sub1 writes a - b into out[:len(a)] and returns the borrow.
func Sub1(out, a []uint64, b uint64) (borrow uint64) {
	borrow = b
	for i := range a {
		out[i], borrow = bits.Sub64(a[i], borrow, 0)
	}
	return
}

// SubN writes a - b into out[:len(a)] and returns the borrow. Requires len(a) == len(b).
func SubN(out, a, b []uint64) (borrow uint64) {
	for i := range a {
		out[i], borrow = bits.Sub64(a[i], b[i], borrow)
	}
	return
}

// Sub writes a - b into out[:len(a)] and returns the borrow. Requires len(a) >= len(b).
func Sub(out, a, b []uint64) (borrow uint64) {
	if len(a) < len(b) {
		panic("cannot Sub: len(a) < len(b)")
	}
	nb := len(b)
	borrow = SubN(out[:nb], a[:nb], b)
	return Sub1(out[nb:len(a)], a[nb:], borrow)
}

// Mul1 writes a * s into out[:len(a)] and returns the carry limb.
func Mul1(out, a []uint64, s uint64) (carry uint64) {
	for i := range a {
		hi, lo := bits.Mul64(a[i], s)
		var c uint64
		out[i], c = bits.Add64(lo, carry, 0)
		carry = hi + c
	}
	return
}

// AddMul1 adds a * s to out[:len(a)] and returns the carry limb.
func AddMul1(out, a []uint64, s uint64) (carry uint64) {
	for i := range a {
		hi, lo := bits.Mul64(a[i], s)
		var c0, c1 uint64
		lo, c0 = bits.Add64(lo, carry, 0)
		out[i], c1 = bits.Add64(out[i], lo, 0)
		carry = hi + c0 + c1
	}
	return
}

// SubMul1 subtracts a * s from out[:len(a)] and returns the borrow limb.
func SubMul1(out, a []uint64, s uint64) (borrow uint64) {
	for i := range a {
		hi, lo := bits.Mul64(a[i], s)
		var c0, c1 uint64
		lo, c0 = bits.Add64(lo, borrow, 0)
		out[i], c1 = bits.Sub64(out[i], lo, 0)
		borrow = hi + c0 + c1
	}
	return
}
