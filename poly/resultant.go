package poly

import (
	"github.com/tuneinsight/safecrypto/limb"
)

// resultantFunc returns the resultant of normalized a and b with
// len(a) >= len(b) >= 1.
type resultantFunc func(a, b []uint64, mod *limb.Mod) uint64

// Resultant returns the resultant of a and b modulo m, which is zero if and
// only if a and b have a non-constant common factor, or if one of them is zero.
// The Half-GCD algorithm is used from the same sizes as in GCD.
func Resultant(a, b []uint64, mod *limb.Mod) uint64 {
	return resultantWith(func(a, b []uint64, mod *limb.Mod) uint64 {
		if len(a) < gcdCutoff(mod) {
			return resultantEuclidean(a, b, mod)
		}
		return resultantHalfGCD(a, b, mod)
	}, a, b, mod)
}

// ResultantEuclidean is Resultant with the Euclidean algorithm at every size.
func ResultantEuclidean(a, b []uint64, mod *limb.Mod) uint64 {
	return resultantWith(resultantEuclidean, a, b, mod)
}

// ResultantHalfGCD is Resultant with the Half-GCD algorithm at every size.
func ResultantHalfGCD(a, b []uint64, mod *limb.Mod) uint64 {
	return resultantWith(resultantHalfGCD, a, b, mod)
}

func resultantWith(f resultantFunc, a, b []uint64, mod *limb.Mod) uint64 {

	a, b = Normalize(a), Normalize(b)

	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// res(b, a) = (-1)^(deg(a)*deg(b)) res(a, b)
	if len(a) < len(b) {
		res := f(b, a, mod)
		if (len(a)-1)*(len(b)-1)&1 == 1 {
			res = mod.Neg(res)
		}
		return res
	}

	return f(a, b, mod)
}

// resultantStep returns the factor contributed to the resultant by the
// division of x by y, with lr the length of the remainder. The second value
// is false if the sequence stops with this division.
func resultantStep(lx, ly, lr int, lc uint64, mod *limb.Mod) (uint64, bool) {

	if lr == 0 {
		if ly == 1 {
			return mod.Pow(lc, uint64(lx-1)), false
		}
		return 0, false
	}

	f := mod.Pow(lc, uint64(lx-lr))
	if (lx|ly)&1 == 0 {
		f = mod.Neg(f)
	}

	return f, true
}

func resultantEuclidean(a, b []uint64, mod *limb.Mod) uint64 {

	if len(b) == 1 {
		return mod.Pow(b[0], uint64(len(a)-1))
	}

	res := mod.ModL(1)

	for {
		r := remNormalized(a, b, mod)

		f, more := resultantStep(len(a), len(b), len(r), b[len(b)-1], mod)
		res = mod.Mul(res, f)

		if !more {
			return res
		}

		a, b = b, r
	}
}

func resultantHalfGCD(a, b []uint64, mod *limb.Mod) uint64 {

	if len(b) == 1 {
		return mod.Pow(b[0], uint64(len(a)-1))
	}

	cutoff := gcdCutoff(mod)

	r := remNormalized(a, b, mod)

	res, more := resultantStep(len(a), len(b), len(r), b[len(b)-1], mod)
	if !more {
		return res
	}

	x, y, res := resultantHalfGCDReduce(b, r, res, mod)

	for len(y) != 0 {

		r = remNormalized(x, y, mod)

		f, more := resultantStep(len(x), len(y), len(r), y[len(y)-1], mod)
		res = mod.Mul(res, f)

		if !more {
			break
		}

		if len(y) < cutoff {
			return mod.Mul(res, resultantEuclidean(y, r, mod))
		}

		x, y, res = resultantHalfGCDReduce(y, r, res, mod)
	}

	return res
}

// resultantHalfGCDReduce runs a Half-GCD reduction of (x, y) and folds the
// steps it performed into res.
func resultantHalfGCDReduce(x, y []uint64, res uint64, mod *limb.Mod) (a, b []uint64, r uint64) {

	acc := resultantAcc{
		res:    res,
		lc:     y[len(y)-1],
		l0:     len(x),
		l1:     len(y),
		active: true,
	}

	h, acc := halfgcd(x, y, acc, false, mod)

	if len(h.b) < len(y) {
		acc = acc.fold(acc.l0, acc.l1, len(h.b), mod)
	}

	return h.a, h.b, acc.res
}
