// Package limb implements the single-word arithmetic on which the multi-precision
// and polynomial layers are built: double-word products, division by a
// precomputed reciprocal, modular reduction, and gcds on machine words.
package limb

import (
	"math/bits"
)

// Bits is the width of a limb.
const Bits = 64

// Mask is the all-ones limb.
const Mask = ^uint64(0)

// MulHiLo returns the double-word product u*v as (hi, lo).
func MulHiLo(u, v uint64) (hi, lo uint64) {
	return bits.Mul64(u, v)
}

// SqrHiLo returns the double-word square u*u as (hi, lo).
func SqrHiLo(u uint64) (hi, lo uint64) {
	return bits.Mul64(u, u)
}

// AddHiLo returns the double-word sum (ah:al) + (bh:bl) mod 2^128.
func AddHiLo(ah, al, bh, bl uint64) (sh, sl uint64) {
	var carry uint64
	sl, carry = bits.Add64(al, bl, 0)
	sh = ah + bh + carry
	return
}

// SubHiLo returns the double-word difference (ah:al) - (bh:bl) mod 2^128.
func SubHiLo(ah, al, bh, bl uint64) (sh, sl uint64) {
	var borrow uint64
	sl, borrow = bits.Sub64(al, bl, 0)
	sh = ah - bh - borrow
	return
}

// MulAddHiLo returns (hi:lo) + u*v mod 2^128.
func MulAddHiLo(hi, lo, u, v uint64) (uint64, uint64) {
	ph, pl := bits.Mul64(u, v)
	return AddHiLo(hi, lo, ph, pl)
}

// Clz returns the number of leading zero bits of n.
func Clz(n uint64) int {
	return bits.LeadingZeros64(n)
}

// Ctz returns the number of trailing zero bits of n.
func Ctz(n uint64) int {
	return bits.TrailingZeros64(n)
}

// UdivQrnnd divides (n1:n0) by d and returns the quotient and remainder.
// Requires n1 < d.
func UdivQrnnd(n1, n0, d uint64) (q, r uint64) {
	return bits.Div64(n1, n0, d)
}
