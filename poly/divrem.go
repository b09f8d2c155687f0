package poly

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/safecrypto/limb"
	"github.com/tuneinsight/safecrypto/utils"
)

// DivRem computes the quotient q and the remainder r of the division of a by b
// modulo m, so that a = q*b + r and deg(r) < deg(b). It returns the lengths
// written into q and r: len(a)-len(b)+1 and len(b)-1 where len(b) is taken
// without its zero leading coefficients, or 0 and len(a) if a is shorter than
// b. The outputs may alias the inputs. Panics if b is zero.
func DivRem(q, r, a, b []uint64, mod *limb.Mod) (lenQ, lenR int) {

	b = Normalize(b)
	if len(b) == 0 {
		panic("cannot DivRem: division by the zero polynomial")
	}

	la, lb := len(a), len(b)

	if la < lb {
		copy(r, a)
		return 0, la
	}

	if utils.Alias1D(q, a) || utils.Alias1D(q, b) || utils.Alias1D(r, a) || utils.Alias1D(r, b) {
		a, b = utils.CloneSlice(a), utils.CloneSlice(b)
	}

	divrem(q[:la-lb+1], r[:lb-1], a, b, mod)

	return la - lb + 1, lb - 1
}

// Div writes the quotient of a by b modulo m into q and returns its length,
// len(a)-len(b)+1 or 0 if a is shorter than b. Panics if b is zero.
func Div(q, a, b []uint64, mod *limb.Mod) int {

	b = Normalize(b)
	if len(b) == 0 {
		panic("cannot Div: division by the zero polynomial")
	}

	la, lb := len(a), len(b)

	if la < lb {
		return 0
	}

	if utils.Alias1D(q, a) || utils.Alias1D(q, b) {
		a, b = utils.CloneSlice(a), utils.CloneSlice(b)
	}

	q = q[:la-lb+1]

	switch {
	case la-lb <= 1 || lb >= DivremDivconquerThreshold:
		divrem(q, make([]uint64, lb-1), a, b, mod)
	default:
		divremNormal(q, nil, a, b, mod)
	}

	return la - lb + 1
}

// Rem writes the remainder of a by b modulo m into r and returns its length,
// len(b)-1 or len(a) if a is shorter than b. Panics if b is zero.
func Rem(r, a, b []uint64, mod *limb.Mod) int {

	b = Normalize(b)
	if len(b) == 0 {
		panic("cannot Rem: division by the zero polynomial")
	}

	la, lb := len(a), len(b)

	if la < lb {
		copy(r, a)
		return la
	}

	if utils.Alias1D(r, a) || utils.Alias1D(r, b) {
		a, b = utils.CloneSlice(a), utils.CloneSlice(b)
	}

	r = r[:lb-1]

	switch {
	case la-lb <= 1 || lb >= DivremDivconquerThreshold:
		divrem(make([]uint64, la-lb+1), r, a, b, mod)
	default:
		divremNormal(nil, r, a, b, mod)
	}

	return lb - 1
}

// divremNormalized returns the normalized quotient and remainder of a by b,
// both normalized with b non-zero.
func divremNormalized(a, b []uint64, mod *limb.Mod) (q, r []uint64) {
	checkDivisor(b, "divremNormalized")
	if len(a) < len(b) {
		return nil, utils.CloneSlice(a)
	}
	q = make([]uint64, len(a)-len(b)+1)
	r = make([]uint64, len(b)-1)
	divrem(q, r, a, b, mod)
	return Normalize(q), Normalize(r)
}

// remNormalized returns the normalized remainder of a by b, both normalized
// with b non-zero.
func remNormalized(a, b []uint64, mod *limb.Mod) []uint64 {
	_, r := divremNormalized(a, b, mod)
	return r
}

// divrem requires len(a) >= len(b) >= 1, a non-zero leading coefficient in b,
// len(q) = len(a)-len(b)+1, len(r) = len(b)-1 and no aliasing.
func divrem(q, r, a, b []uint64, mod *limb.Mod) {

	la, lb := len(a), len(b)

	switch {
	case la == lb:
		divremDiff0(q, r, a, b, mod)
	case la == lb+1:
		divremDiff1(q, r, a, b, mod)
	case lb >= DivremDivconquerThreshold:
		divremDivconquer(q, r, a, b, mod)
	default:
		divremNormal(q, r, a, b, mod)
	}
}

func invLeading(b []uint64, mod *limb.Mod) uint64 {
	if lc := b[len(b)-1]; lc != 1 {
		return mod.Inv(lc)
	}
	return 1
}

// divremDiff0 divides polynomials of equal length: q = lc(a)/lc(b).
func divremDiff0(q, r, a, b []uint64, mod *limb.Mod) {

	n := len(b)
	q[0] = mod.Mul(a[n-1], invLeading(b, mod))

	if n > 1 {
		MulScalar(r, b[:n-1], q[0], mod)
		Sub(r, a[:n-1], r, mod)
	}
}

// divremDiff1 divides a by b one coefficient shorter with two leading
// coefficient corrections.
func divremDiff1(q, r, a, b []uint64, mod *limb.Mod) {

	la, lb := len(a), len(b)
	inv := invLeading(b, mod)

	if lb == 1 {
		MulScalar(q, a, inv, mod)
		return
	}

	q[1] = mod.Mul(a[la-1], inv)
	q[0] = mod.Mul(mod.Sub(a[la-2], mod.Mul(q[1], b[lb-2])), inv)

	// r = a - (q0*b + q1*b*x) over the lb-1 lowest coefficients
	MulScalar(r, b[:lb-1], q[0], mod)
	if lb > 2 {
		AddMulScalar(r[1:], b[:lb-2], q[1], mod)
	}
	Sub(r, a[:lb-1], r, mod)
}

//=============================
//=== LONG DIVISION         ===
//=============================

// divremNormal is the long division. The partial remainders are kept
// unreduced in double or triple word accumulators, reduced only when a
// quotient coefficient is read. q or r can be nil when not needed.
func divremNormal(q, r, a, b []uint64, mod *limb.Mod) {

	lq := len(a) - len(b) + 1

	if 2*int(mod.BNorm())+bits.Len(uint(lq)) <= 2*limb.Bits {
		divremNormal2(q, r, a, b, mod)
	} else {
		divremNormal3(q, r, a, b, mod)
	}
}

// firstUpdate returns the first coefficient of b that needs to be accumulated
// when the quotient coefficient of a[j] has been found. Only the positions
// still needed for the quotient are updated if the remainder is not wanted.
func firstUpdate(j, lb int, wantRem bool) int {
	if wantRem {
		return 0
	}
	return utils.Max(0, 2*lb-2-j)
}

func divremNormal2(q, r, a, b []uint64, mod *limb.Mod) {

	la, lb := len(a), len(b)
	inv := invLeading(b, mod)

	acc := make([]u128, la)
	for i, c := range a {
		acc[i].lo = c
	}

	for j := la - 1; j >= lb-1; j-- {

		var qj uint64

		if t := mod.ModLL(acc[j].hi, acc[j].lo); t != 0 {

			qj = mod.Mul(t, inv)
			c := mod.Neg(qj)
			off := j - lb + 1

			for k := firstUpdate(j, lb, r != nil); k < lb-1; k++ {
				hi, lo := bits.Mul64(b[k], c)
				acc[off+k] = acc[off+k].add(u128{hi, lo})
			}
		}

		if q != nil {
			q[j-lb+1] = qj
		}
	}

	for j := range r {
		r[j] = mod.ModLL(acc[j].hi, acc[j].lo)
	}
}

// u192 is a triple word accumulator.
type u192 struct {
	hi, mi, lo uint64
}

func (x *u192) addMul(u, v uint64) {
	hi, lo := bits.Mul64(u, v)
	var c uint64
	x.lo, c = bits.Add64(x.lo, lo, 0)
	x.mi, c = bits.Add64(x.mi, hi, c)
	x.hi += c
}

func divremNormal3(q, r, a, b []uint64, mod *limb.Mod) {

	la, lb := len(a), len(b)
	inv := invLeading(b, mod)

	acc := make([]u192, la)
	for i, c := range a {
		acc[i].lo = c
	}

	for j := la - 1; j >= lb-1; j-- {

		var qj uint64

		if t := mod.ModLLL(acc[j].hi, acc[j].mi, acc[j].lo); t != 0 {

			qj = mod.Mul(t, inv)
			c := mod.Neg(qj)
			off := j - lb + 1

			for k := firstUpdate(j, lb, r != nil); k < lb-1; k++ {
				acc[off+k].addMul(b[k], c)
			}
		}

		if q != nil {
			q[j-lb+1] = qj
		}
	}

	for j := range r {
		r[j] = mod.ModLLL(acc[j].hi, acc[j].mi, acc[j].lo)
	}
}

//=============================
//=== DIVIDE AND CONQUER    ===
//=============================

// divremDivconquer requires len(b) >= 1 and len(a) >= len(b).
func divremDivconquer(q, r, a, b []uint64, mod *limb.Mod) {

	la, lb := len(a), len(b)
	n := 2*lb - 1

	if la <= n {
		divremDivconquerBalanced(q, r, a, b, mod)
		return
	}

	s := utils.CloneSlice(a)

	// strip blocks of len(b) quotient coefficients from the top
	for len(s) >= n {
		shift := len(s) - n
		rem := divconquerRecursive(q[shift:shift+lb], s[shift:], b, mod)
		copy(s[shift:], rem)
		s = s[:len(s)-lb]
	}

	if len(s) >= lb {
		divremDivconquerBalanced(q[:len(s)-lb+1], r, s, b, mod)
		return
	}

	copy(r, s)
}

// divremDivconquerBalanced requires len(b) <= len(a) <= 2*len(b)-1.
func divremDivconquerBalanced(q, r, a, b []uint64, mod *limb.Mod) {

	la, lb := len(a), len(b)

	if la == 2*lb-1 {
		copy(r, divconquerRecursive(q, a, b, mod))
		return
	}

	// The quotient only depends on the 2*n1-1 top coefficients of a and the
	// n1 top coefficients of b.
	n1 := la - lb + 1
	n2 := lb - n1

	divconquerRecursive(q, a[n2:], b[n2:], mod)

	MulTrunc(r, q, b, lb-1, mod)
	Sub(r, a[:lb-1], r, mod)
}

// divconquerRecursive writes the len(b) coefficients of the quotient of
// a[:2*len(b)-1] by b into q and returns the remainder, of length len(b)-1.
func divconquerRecursive(q, a, b []uint64, mod *limb.Mod) (r []uint64) {

	lb := len(b)
	a = a[:2*lb-1]
	r = make([]uint64, lb-1)

	if lb <= DivconquerBaseThreshold {
		divremNormal(q, r, a, b, mod)
		return
	}

	n2 := lb >> 1
	n1 := lb - n2

	// (q1, r1) = a[2n2:] / b[n2:]
	q1 := q[n2:]
	r1 := divconquerRecursive(q1, a[2*n2:], b[n2:], mod)

	// t = a[:2n2] + r1*x^2n2 - q1*b[:n2]*x^n2
	t := make([]uint64, lb+n2-1)
	copy(t, a[:2*n2])
	copy(t[2*n2:], r1)

	p := make([]uint64, n1+n2-1)
	Mul(p, q1, b[:n2], mod)
	tp := t[n2 : n2+len(p)]
	Sub(tp, tp, p, mod)

	// (q2, r2) = t[n1:] / b[n1:]
	q2 := q[:n2]
	r2 := divconquerRecursive(q2, t[n1:], b[n1:], mod)

	// r = r2*x^n1 + t[:n1] - q2*b[:n1]
	Mul(p, b[:n1], q2, mod)
	copy(r, t[:n1])
	copy(r[n1:], r2)
	Sub(r, r, p, mod)

	return
}

// checkDivisor panics if b cannot be used as a divisor.
func checkDivisor(b []uint64, op string) {
	if len(b) == 0 || b[len(b)-1] == 0 {
		panic(fmt.Errorf("cannot %s: divisor is zero or not normalized", op))
	}
}
