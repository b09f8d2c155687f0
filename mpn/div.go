package mpn

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/safecrypto/limb"
)

// DivQR1 divides n by the single limb d, writes the len(n)-limb quotient into q
// (if q is not nil) and returns the remainder. Divisors that are powers of two
// are handled with a shift. Panics if d == 0.
func DivQR1(q, n []uint64, d uint64) (r uint64) {

	if d == 0 {
		panic("cannot DivQR1: division by zero")
	}

	if len(n) == 0 {
		return 0
	}

	if d&(d-1) == 0 {
		r = n[0] & (d - 1)
		if q != nil {
			Rshift(q[:len(n)], n, uint(bits.TrailingZeros64(d)))
		}
		return
	}

	return divQR1Preinv(q, n, limb.NewMod(d))
}

// ModQR1 returns n mod d.
func ModQR1(n []uint64, d uint64) uint64 {
	return DivQR1(nil, n, d)
}

// divQR1Preinv divides n by the single-limb modulus using its reciprocal.
func divQR1Preinv(q, n []uint64, mod *limb.Mod) uint64 {

	norm := mod.Norm()
	dn := mod.Modulus() << norm
	dInv := mod.Reciprocal()

	np := n
	var r uint64
	if norm > 0 {
		np = make([]uint64, len(n))
		r = Lshift(np, n, norm)
	}

	for i := len(np) - 1; i >= 0; i-- {
		var qi uint64
		qi, r = limb.UdivQrnndPreinv(r, np[i], dn, dInv)
		if q != nil {
			q[i] = qi
		}
	}

	return r >> norm
}

// DivRem1 divides n by d producing len(n) integer and qFrac fractional
// quotient limbs in q (the fractional limbs first) and returns the remainder.
func DivRem1(q []uint64, qFrac int, n []uint64, d uint64) uint64 {

	mod := limb.NewMod(d)

	var r uint64
	if q != nil {
		r = divQR1Preinv(q[qFrac:qFrac+len(n)], n, mod)
	} else {
		r = divQR1Preinv(nil, n, mod)
	}

	norm := mod.Norm()
	r <<= norm
	for i := qFrac - 1; i >= 0; i-- {
		var qi uint64
		qi, r = limb.UdivQrnndPreinv(r, 0, mod.Modulus()<<norm, mod.Reciprocal())
		if q != nil {
			q[i] = qi
		}
	}

	return r >> norm
}

// DivQR2 divides n by the two-limb divisor d using a 3-by-2 reciprocal.
// The len(n)-1 quotient limbs are written into q (if not nil) and the
// remainder is returned as (r1, r0). Requires len(n) >= 2 and d[1] != 0.
func DivQR2(q, n []uint64, d [2]uint64) (r1, r0 uint64) {

	if d[1] == 0 {
		panic("cannot DivQR2: high limb of the divisor is zero")
	}

	if len(n) < 2 {
		panic("cannot DivQR2: numerator shorter than the divisor")
	}

	return divQR2Preinv(q, n, limb.NewMod2(d[1], d[0]))
}

// divQR2Preinv divides n by the normalized double-limb modulus.
func divQR2Preinv(q, n []uint64, mod *limb.Mod) (r1, r0 uint64) {

	norm := mod.Norm()
	nn := len(n)

	np := n
	if norm > 0 {
		np = make([]uint64, nn)
		r1 = Lshift(np, n, norm)
	}

	r0 = np[nn-1]

	for i := nn - 2; i >= 0; i-- {
		var qi uint64
		qi, r1, r0 = mod.DivRem3(r1, r0, np[i])
		if q != nil {
			q[i] = qi
		}
	}

	if norm > 0 {
		r0 = r0>>norm | r1<<(64-norm)
		r1 >>= norm
	}

	return
}

// DivQR divides n by d. The len(n)-len(d)+1 quotient limbs are written into q
// (if not nil) and the remainder overwrites n[:len(d)], the remaining limbs of
// n being set to zero. Requires len(n) >= len(d) and a non-zero top limb in d.
func DivQR(q, n, d []uint64) {

	nn, dn := len(n), len(d)

	if dn == 0 || d[dn-1] == 0 {
		panic("cannot DivQR: divisor is not normalized or zero")
	}

	if nn < dn {
		panic(fmt.Errorf("cannot DivQR: len(n)=%d < len(d)=%d", nn, dn))
	}

	if q != nil && len(q) < nn-dn+1 {
		panic(fmt.Errorf("cannot DivQR: len(q)=%d < %d", len(q), nn-dn+1))
	}

	switch dn {
	case 1:
		r := DivQR1(q, n, d[0])
		Zero(n)
		n[0] = r
	case 2:
		r1, r0 := divQR2Preinv(q, n, limb.NewMod2(d[1], d[0]))
		Zero(n)
		n[0], n[1] = r0, r1
	default:
		divQRGeneral(q, n, d)
	}
}

// divQRGeneral is schoolbook division with 3-by-2 quotient limb estimation.
func divQRGeneral(q, n, d []uint64) {

	nn, dn := len(n), len(d)
	norm := uint(bits.LeadingZeros64(d[dn-1]))

	dp := make([]uint64, dn)
	Lshift(dp, d, norm)

	// the shifted numerator carries one extra limb
	np := make([]uint64, nn+1)
	np[nn] = Lshift(np[:nn], n, norm)

	d1, d0 := dp[dn-1], dp[dn-2]
	dInv := limb.Inverse3by2(d1, d0)

	n1 := np[nn]

	for i := nn - dn; i >= 0; i-- {

		var qi uint64
		n0 := np[i+dn-1]

		if n1 == d1 && n0 == d0 {
			qi = limb.Mask
			SubMul1(np[i:i+dn], dp, qi)
			n1 = np[i+dn-1]
		} else {
			qi, n1, n0 = limb.UdivQrnnndPreinv(n1, n0, np[i+dn-2], d1, d0, dInv)

			cy := SubMul1(np[i:i+dn-2], dp[:dn-2], qi)

			cy1 := b2u(n0 < cy)
			n0 -= cy
			cy = b2u(n1 < cy1)
			n1 -= cy1
			np[i+dn-2] = n0

			if cy != 0 {
				n1 += d1 + AddN(np[i:i+dn-1], np[i:i+dn-1], dp[:dn-1])
				qi--
			}
		}

		if q != nil {
			q[i] = qi
		}
	}

	np[dn-1] = n1

	Rshift(n[:dn], np[:dn], norm)
	Zero(n[dn:])
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
