package poly

import (
	"github.com/tuneinsight/safecrypto/limb"
)

// gcdFunc returns a gcd, not necessarily monic, of normalized a and b with
// len(a) >= len(b) >= 2.
type gcdFunc func(a, b []uint64, mod *limb.Mod) []uint64

// xgcdFunc returns a gcd g of normalized a and b with len(a) >= len(b) >= 2
// together with the cofactor x of a, so that g - a*x is a multiple of b.
type xgcdFunc func(a, b []uint64, mod *limb.Mod) (g, x []uint64)

// GCD writes the monic greatest common divisor of a and b modulo m into g and
// returns its length, 0 if both a and b are zero. g must have room for
// max(len(a), len(b)) coefficients. The Half-GCD algorithm is used from
// SmallGCDThreshold (moduli of at most 8 bits) or LargeGCDThreshold
// coefficients, the Euclidean algorithm below.
func GCD(g, a, b []uint64, mod *limb.Mod) int {
	return gcdWith(func(a, b []uint64, mod *limb.Mod) []uint64 {
		if len(a) < gcdCutoff(mod) {
			return gcdEuclidean(a, b, mod)
		}
		return gcdHalfGCD(a, b, mod)
	}, g, a, b, mod)
}

// GCDEuclidean is GCD with the Euclidean algorithm at every size.
func GCDEuclidean(g, a, b []uint64, mod *limb.Mod) int {
	return gcdWith(gcdEuclidean, g, a, b, mod)
}

// GCDHalfGCD is GCD with the Half-GCD algorithm at every size.
func GCDHalfGCD(g, a, b []uint64, mod *limb.Mod) int {
	return gcdWith(gcdHalfGCD, g, a, b, mod)
}

func gcdWith(f gcdFunc, g, a, b []uint64, mod *limb.Mod) int {

	a, b = Normalize(a), Normalize(b)

	if len(a) < len(b) {
		a, b = b, a
	}

	switch len(b) {
	case 0:
		if len(a) == 0 {
			return 0
		}
		return MakeMonic(g, a, mod)
	case 1:
		g[0] = 1
		return 1
	}

	return MakeMonic(g, f(a, b, mod), mod)
}

func gcdEuclidean(a, b []uint64, mod *limb.Mod) []uint64 {
	for len(b) != 0 {
		a, b = b, remNormalized(a, b, mod)
	}
	return a
}

func gcdHalfGCD(a, b []uint64, mod *limb.Mod) []uint64 {

	r := remNormalized(a, b, mod)
	if len(r) == 0 {
		return b
	}

	h, _ := halfgcd(b, r, resultantAcc{}, false, mod)
	g, x := h.a, h.b

	cutoff := gcdCutoff(mod)

	for len(x) != 0 {

		r = remNormalized(g, x, mod)
		if len(r) == 0 {
			return x
		}

		if len(x) < cutoff {
			return gcdEuclidean(x, r, mod)
		}

		h, _ = halfgcd(x, r, resultantAcc{}, false, mod)
		g, x = h.a, h.b
	}

	return g
}

//=============================
//=== EXTENDED GCD          ===
//=============================

// XGCD writes the monic greatest common divisor g of a and b modulo m and
// cofactors x and y such that a*x + b*y = g, with deg(x) < deg(b) - deg(g) and
// deg(y) < deg(a) - deg(g). It returns the length of g; x and y are written
// zero padded over len(b) and len(a) coefficients. g, x and y must each have
// room for max(len(a), len(b)) coefficients and must not alias the inputs.
//
// g is always monic, including when one operand is a non-zero constant c:
// then g = 1 and the cofactor of c is c^-1, not g = c with cofactor 1.
func XGCD(g, x, y, a, b []uint64, mod *limb.Mod) int {
	return xgcdWith(func(a, b []uint64, mod *limb.Mod) ([]uint64, []uint64) {
		if len(a) < gcdCutoff(mod) {
			return xgcdEuclidean(a, b, mod)
		}
		return xgcdHalfGCD(a, b, mod)
	}, g, x, y, a, b, mod)
}

// XGCDEuclidean is XGCD with the Euclidean algorithm at every size.
func XGCDEuclidean(g, x, y, a, b []uint64, mod *limb.Mod) int {
	return xgcdWith(xgcdEuclidean, g, x, y, a, b, mod)
}

// XGCDHalfGCD is XGCD with the Half-GCD algorithm at every size.
func XGCDHalfGCD(g, x, y, a, b []uint64, mod *limb.Mod) int {
	return xgcdWith(xgcdHalfGCD, g, x, y, a, b, mod)
}

func xgcdWith(f xgcdFunc, g, x, y, a, b []uint64, mod *limb.Mod) int {

	Reset(x[:len(b)])
	Reset(y[:len(a)])

	a, b = Normalize(a), Normalize(b)

	if len(a) < len(b) {
		a, b = b, a
		x, y = y, x
	}

	switch {
	case len(a) == 0:
		return 0
	case len(b) == 0:
		x[0] = mod.Inv(a[len(a)-1])
		return MakeMonic(g, a, mod)
	case len(b) == 1:
		g[0] = 1
		y[0] = mod.Inv(b[0])
		return 1
	}

	gg, xx := f(a, b, mod)

	// gg can be one of the inputs
	inv := mod.Inv(gg[len(gg)-1])
	gm := make([]uint64, len(gg))
	MulScalar(gm, gg, inv, mod)
	gg = gm
	MulScalar(xx, xx, inv, mod)

	// y = (g - a*x) / b, exactly
	yy, _ := divremNormalized(subPoly(gg, mulPoly(a, xx, mod), mod), b, mod)

	copy(g, gg)
	copy(x, xx)
	copy(y, yy)

	return len(gg)
}

func xgcdEuclidean(a, b []uint64, mod *limb.Mod) (g, x []uint64) {

	r := remNormalized(a, b, mod)
	if len(r) == 0 {
		return b, nil
	}

	// invariant: d = u*a mod b and v3 = v1*a mod b
	d, u := b, []uint64(nil)
	v3, v1 := r, []uint64{1}

	for len(v3) != 0 {
		q, r := divremNormalized(d, v3, mod)
		u, v1 = v1, subPoly(u, mulPoly(q, v1, mod), mod)
		d, v3 = v3, r
	}

	return d, u
}

func xgcdHalfGCD(a, b []uint64, mod *limb.Mod) (g, x []uint64) {

	q, r := divremNormalized(a, b, mod)
	if len(r) == 0 {
		return b, nil
	}

	cutoff := gcdCutoff(mod)

	h, _ := halfgcd(b, r, resultantAcc{}, true, mod)

	// x and y are the cofactors of a in h.a and h.b
	var y []uint64
	if h.sign > 0 {
		x, y = negPoly(h.m[1], mod), h.m[0]
	} else {
		x, y = h.m[1], negPoly(h.m[0], mod)
	}

	g, j := h.a, h.b

	for len(j) != 0 {

		q, r = divremNormalized(g, j, mod)
		x, y = y, subPoly(x, mulPoly(q, y, mod), mod)

		if len(r) == 0 {
			return j, x
		}

		if len(j) < cutoff {
			// (j, r) finishes with the Euclidean algorithm: p0*j + p1*r = gcd
			gcd, p0 := xgcdEuclidean(j, r, mod)
			p1, _ := divremNormalized(subPoly(gcd, mulPoly(j, p0, mod), mod), r, mod)
			return gcd, addPoly(mulPoly(x, p0, mod), mulPoly(y, p1, mod), mod)
		}

		h, _ = halfgcd(j, r, resultantAcc{}, true, mod)

		if h.sign > 0 {
			x, y = subPoly(mulPoly(h.m[3], x, mod), mulPoly(h.m[1], y, mod), mod),
				subPoly(mulPoly(h.m[0], y, mod), mulPoly(h.m[2], x, mod), mod)
		} else {
			x, y = subPoly(mulPoly(h.m[1], y, mod), mulPoly(h.m[3], x, mod), mod),
				subPoly(mulPoly(h.m[2], x, mod), mulPoly(h.m[0], y, mod), mod)
		}

		g, j = h.a, h.b
	}

	return g, x
}
