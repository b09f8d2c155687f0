package poly

import (
	"github.com/tuneinsight/safecrypto/limb"
	"github.com/tuneinsight/safecrypto/utils"
)

// halfGCD is the outcome of a Half-GCD reduction of (a, b): the remainders
// (A, B) reached after the Euclidean steps it performed and the matrix M
// with (a, b) = M * (A, B). Each step multiplies M by [[q, 1], [1, 0]] and
// flips sign, so that A = sign*(m3*a - m1*b) and B = sign*(m0*b - m2*a).
type halfGCD struct {
	m    matrix
	a, b []uint64
	sign int
}

// resultantAcc carries the resultant through the Half-GCD recursion. res is
// the running value, lc the leading coefficient of the last divisor, l0 and
// l1 the lengths of the last pair of remainders and off the number of low
// coefficients dropped by the enclosing calls, which matters for the parity
// of the sign changes. An inactive accumulator ignores every update.
type resultantAcc struct {
	res, lc uint64
	l0, l1  int
	off     int
	active  bool
}

// fold accounts for the Euclidean step from remainders of lengths (l0, l1)
// to a remainder of length lr.
func (acc resultantAcc) fold(l0, l1, lr int, mod *limb.Mod) resultantAcc {

	if !acc.active {
		return acc
	}

	switch {
	case lr >= 1:
		acc.lc = mod.Pow(acc.lc, uint64(l0-lr))
		acc.res = mod.Mul(acc.res, acc.lc)
		if ((l0+acc.off)|(l1+acc.off))&1 == 0 {
			acc.res = mod.Neg(acc.res)
		}
	case l1 == 1:
		acc.lc = mod.Pow(acc.lc, uint64(l0-1))
		acc.res = mod.Mul(acc.res, acc.lc)
	default:
		acc.res = 0
	}

	return acc
}

// shift moves the accumulator to the coefficients of the operands from k on.
func (acc resultantAcc) shift(k int) resultantAcc {
	if acc.active {
		acc.l0 -= k
		acc.l1 -= k
		acc.off += k
	}
	return acc
}

// halfgcd reduces (a, b), with a and b normalized and len(a) > len(b), until
// the second remainder is no longer than len(a)/2. The matrix is computed only
// if wantM is set; the recursive calls always need it.
func halfgcd(a, b []uint64, acc resultantAcc, wantM bool, mod *limb.Mod) (halfGCD, resultantAcc) {
	if len(a) < HalfGCDThreshold {
		return halfgcdIter(a, b, acc, mod)
	}
	return halfgcdRecursive(a, b, acc, wantM, mod)
}

// halfgcdIter performs the Euclidean steps one at a time.
func halfgcdIter(a, b []uint64, acc resultantAcc, mod *limb.Mod) (halfGCD, resultantAcc) {

	hlen := len(a) >> 1

	m := identity()
	sign := 1

	for len(b) > hlen {

		if acc.active {
			acc.lc = b[len(b)-1]
		}

		q, r := divremNormalized(a, b, mod)

		if len(r) >= hlen+1 {
			acc = acc.fold(len(a), len(b), len(r), mod)
		} else if acc.active {
			acc.l0, acc.l1 = len(a), len(b)
		}

		a, b = b, r

		m = matrix{
			addPoly(mulPoly(q, m[0], mod), m[1], mod), m[0],
			addPoly(mulPoly(q, m[2], mod), m[3], mod), m[2],
		}

		sign = -sign
	}

	return halfGCD{m: m, a: a, b: b, sign: sign}, acc
}

// halfgcdApply lifts the reduction r of the high parts of a pair back to the
// full pair (x + xh*X^k, y + yh*X^k), where x and y are the k low coefficients.
func halfgcdApply(r halfGCD, x, y []uint64, k int, mod *limb.Mod) (a, b []uint64) {
	x, y = Normalize(x), Normalize(y)
	b = addPoly(shiftPoly(r.b, k), signedSub(r.sign, mulPoly(r.m[0], y, mod), mulPoly(r.m[2], x, mod), mod), mod)
	a = addPoly(shiftPoly(r.a, k), signedSub(r.sign, mulPoly(r.m[3], x, mod), mulPoly(r.m[1], y, mod), mod), mod)
	return
}

// halfgcdRecursive reduces the top halves of a and b recursively, lifts the
// result, does one explicit division and reduces the remaining top halves
// again.
func halfgcdRecursive(a, b []uint64, acc resultantAcc, wantM bool, mod *limb.Mod) (halfGCD, resultantAcc) {

	hlen := len(a) >> 1

	if len(b) < hlen+1 {
		return halfGCD{m: identity(), a: a, b: b, sign: 1}, acc
	}

	if acc.active {
		acc.lc = b[len(b)-1]
	}

	var r halfGCD
	r, acc = halfgcd(a[hlen:], b[hlen:], acc.shift(hlen), true, mod)
	acc = acc.shift(-hlen)

	a2, b2 := halfgcdApply(r, a[:hlen], b[:hlen], hlen, mod)

	if len(b2) < hlen+1 {
		return halfGCD{m: r.m, a: a2, b: b2, sign: r.sign}, acc
	}

	k := 2*hlen - len(b2) + 1

	if len(b2) < len(b) {
		acc = acc.fold(acc.l0, acc.l1, len(b2), mod)
	}

	if acc.active {
		acc.lc = b2[len(b2)-1]
		acc.l0, acc.l1 = len(a2), len(b2)
	}

	q, d := divremNormalized(a2, b2, mod)

	if len(d) >= hlen+1 {
		acc = acc.fold(len(a2), len(b2), len(d), mod)
		if acc.active {
			acc.l0, acc.l1 = len(b2), len(d)
		}
	}

	var s halfGCD
	s, acc = halfgcd(tail(b2, k), tail(d, k), acc.shift(k), true, mod)
	acc = acc.shift(-k)

	res := halfGCD{sign: -(r.sign * s.sign)}
	res.a, res.b = halfgcdApply(s, b2[:k], d[:utils.Min(len(d), k)], k, mod)

	if wantM {
		t := matrix{
			addPoly(mulPoly(s.m[0], q, mod), s.m[2], mod),
			addPoly(mulPoly(s.m[1], q, mod), s.m[3], mod),
			s.m[0],
			s.m[1],
		}
		res.m = r.m.mul(t, mod)
	}

	return res, acc
}

// tail returns a[k:], or the zero polynomial if a is shorter than k.
func tail(a []uint64, k int) []uint64 {
	if len(a) <= k {
		return nil
	}
	return a[k:]
}
