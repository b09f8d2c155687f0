// Package poly implements arithmetic on polynomials with coefficients modulo a
// word-sized prime.
//
// A polynomial is a []uint64 of coefficients, constant term first. The length
// of the slice is the length of the polynomial; it may carry zero leading
// coefficients, so functions that return a length return the length of the
// buffer they wrote, not necessarily Degree+1. Callers normalize with Degree or
// Normalize before relying on the leading coefficient.
//
// All coefficients are expected to be reduced modulo m, and m is expected to be
// prime: division, gcd and resultant need every non-zero element to be invertible.
// This is not checked.
package poly

import (
	"math/bits"

	"github.com/tuneinsight/safecrypto/limb"
	"github.com/tuneinsight/safecrypto/utils"
)

const (
	// GradeschoolThreshold is the length of the shorter operand up to which the
	// gradeschool multiplication is used.
	GradeschoolThreshold = 6
	// GradeschoolSmallBThreshold forces the gradeschool multiplication for very
	// short operands regardless of the other thresholds.
	GradeschoolSmallBThreshold = 2
	// KaratsubaThreshold is the length of the shorter operand up to which the
	// Karatsuba multiplication is used.
	KaratsubaThreshold = 16
	// KS4Threshold bounds bits(m)*len(b), in words, up to which the four-point
	// Kronecker substitution is used instead of the plain one.
	KS4Threshold = 320
	// DivremDivconquerThreshold is the divisor length from which divide-and-conquer
	// division is used.
	DivremDivconquerThreshold = 16
	// DivconquerBaseThreshold is the divisor length below which the recursive
	// division falls back to long division.
	DivconquerBaseThreshold = 256
	// SmallGCDThreshold is the length from which gcd, xgcd and resultant switch
	// to the Half-GCD algorithm for moduli of at most 8 bits.
	SmallGCDThreshold = 192
	// LargeGCDThreshold is the same switch for moduli of more than 8 bits.
	LargeGCDThreshold = 384
	// HalfGCDThreshold is the length below which the Half-GCD recursion switches
	// to its iterative Euclidean base case.
	HalfGCDThreshold = 128
	// StrassenThreshold is the minimum entry length from which 2x2 polynomial
	// matrices are multiplied with Strassen's algorithm.
	StrassenThreshold = 20
)

// gcdCutoff returns the length from which the Half-GCD variants are used.
func gcdCutoff(mod *limb.Mod) int {
	if mod.BNorm() <= 8 {
		return SmallGCDThreshold
	}
	return LargeGCDThreshold
}

// Degree returns the index of the highest non-zero coefficient of a, or -1 if
// a is the zero polynomial.
func Degree(a []uint64) int {
	i := len(a) - 1
	for i >= 0 && a[i] == 0 {
		i--
	}
	return i
}

// Normalize returns a truncated to Degree(a)+1 coefficients.
func Normalize(a []uint64) []uint64 {
	return a[:Degree(a)+1]
}

// IsZero returns true if every coefficient of a is zero.
func IsZero(a []uint64) bool {
	return Degree(a) < 0
}

// Equal returns true if a and b represent the same polynomial, ignoring
// zero leading coefficients.
func Equal(a, b []uint64) bool {
	a, b = Normalize(a), Normalize(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Copy copies a into out[:len(a)].
func Copy(out, a []uint64) {
	copy(out[:len(a)], a)
}

// Reset sets all the coefficients of a to zero.
func Reset(a []uint64) {
	utils.ZeroSlice(a)
}

// Negate writes -a mod m into out[:len(a)].
func Negate(out, a []uint64, mod *limb.Mod) {
	for i := range a {
		out[i] = mod.Neg(a[i])
	}
}

// Reduce writes a mod m into out[:len(a)], for arbitrary coefficients in a.
func Reduce(out, a []uint64, mod *limb.Mod) {
	for i := range a {
		out[i] = mod.ModL(a[i])
	}
}

// Add writes a + b mod m into out and returns max(len(a), len(b)).
func Add(out, a, b []uint64, mod *limb.Mod) int {
	n := utils.Min(len(a), len(b))
	for i := 0; i < n; i++ {
		out[i] = mod.Add(a[i], b[i])
	}
	if len(a) > n {
		copy(out[n:len(a)], a[n:])
		return len(a)
	}
	copy(out[n:len(b)], b[n:])
	return len(b)
}

// Sub writes a - b mod m into out and returns max(len(a), len(b)).
func Sub(out, a, b []uint64, mod *limb.Mod) int {
	n := utils.Min(len(a), len(b))
	for i := 0; i < n; i++ {
		out[i] = mod.Sub(a[i], b[i])
	}
	if len(a) > n {
		copy(out[n:len(a)], a[n:])
		return len(a)
	}
	Negate(out[n:len(b)], b[n:], mod)
	return len(b)
}

// MulScalar writes s * a mod m into out[:len(a)]. The scalar does not need to be reduced.
func MulScalar(out, a []uint64, s uint64, mod *limb.Mod) {
	if s == 0 {
		Reset(out[:len(a)])
		return
	}
	for i := range a {
		out[i] = mod.Reduce(bits.Mul64(a[i], s))
	}
}

// AddMulScalar adds s * a mod m to inout[:len(a)].
func AddMulScalar(inout, a []uint64, s uint64, mod *limb.Mod) {
	if s == 0 {
		return
	}
	for i := range a {
		hi, lo := limb.MulAddHiLo(0, inout[i], a[i], s)
		inout[i] = mod.Reduce(hi, lo)
	}
}

// SubMulScalar subtracts s * a mod m from inout[:len(a)].
func SubMulScalar(inout, a []uint64, s uint64, mod *limb.Mod) {
	if s == 0 {
		return
	}
	for i := range a {
		inout[i] = mod.Sub(inout[i], mod.Reduce(bits.Mul64(a[i], s)))
	}
}

// MaxBits returns the bit-length of the largest coefficient of a.
func MaxBits(a []uint64) int {
	var mask uint64
	for _, c := range a {
		mask |= c
	}
	return bits.Len64(mask)
}

// ShiftLeft writes a * x^n into out[:len(a)+n] and returns len(a)+n.
func ShiftLeft(out, a []uint64, n int) int {
	copy(out[n:n+len(a)], a)
	Reset(out[:n])
	return len(a) + n
}

// ShiftRight writes a / x^n, discarding the n lowest coefficients, into out and
// returns max(len(a)-n, 0).
func ShiftRight(out, a []uint64, n int) int {
	if n >= len(a) {
		return 0
	}
	copy(out, a[n:])
	return len(a) - n
}

// Eval returns a(x) mod m.
func Eval(a []uint64, x uint64, mod *limb.Mod) (r uint64) {
	for i := len(a) - 1; i >= 0; i-- {
		r = mod.Add(mod.Mul(r, x), a[i])
	}
	return
}

// MakeMonic writes a / lc(a) into out and returns Degree(a)+1.
// Panics if a is the zero polynomial.
func MakeMonic(out, a []uint64, mod *limb.Mod) int {
	a = Normalize(a)
	if len(a) == 0 {
		panic("cannot MakeMonic: zero polynomial")
	}
	if lc := a[len(a)-1]; lc != 1 {
		MulScalar(out, a, mod.Inv(lc), mod)
	} else {
		copy(out, a)
	}
	return len(a)
}
