package limb

import (
	"math/bits"
)

//============================
//=== MONTGOMERY REDUCTION ===
//============================

// MRedParams returns qInv = q^-1 mod 2^64 for an odd q.
func MRedParams(q uint64) (qInv uint64) {
	// Newton iteration, each step doubles the number of correct low bits.
	qInv = q
	for i := 0; i < 5; i++ {
		qInv *= 2 - q*qInv
	}
	return
}

// MForm returns a*2^64 mod q, where u = BRedParams(q).
func MForm(a, q uint64, u [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, u[1])
	r = -(a*u[0] + mhi) * q
	if r >= q {
		r -= q
	}
	return
}

// InvMForm returns a*2^-64 mod q.
func InvMForm(a, q, qInv uint64) (r uint64) {
	r, _ = bits.Mul64(a*qInv, q)
	r = q - r
	if r >= q {
		r -= q
	}
	return
}

// MRed returns x*y*2^-64 mod q. Requires x*y < q*2^64 and q < 2^63.
func MRed(x, y, q, qInv uint64) (r uint64) {
	ahi, alo := bits.Mul64(x, y)
	H, _ := bits.Mul64(alo*qInv, q)
	r = ahi - H + q
	if r >= q {
		r -= q
	}
	return
}

//==========================
//=== BARRETT REDUCTION  ===
//==========================

// BRedParams returns floor(2^128/q) as {hi, lo}. Requires q > 1.
func BRedParams(q uint64) (u [2]uint64) {
	var rem uint64
	u[0], rem = bits.Div64(1, 0, q)
	u[1], _ = bits.Div64(rem, 0, q)
	return
}

// BRed returns x*y mod q for x, y < q with q at most 62 bits.
func BRed(x, y, q uint64, u [2]uint64) (r uint64) {

	ahi, alo := bits.Mul64(x, y)

	// floor((ahi:alo) * (u0:u1) / 2^128), up to the carries of the lowest product
	lhi, _ := bits.Mul64(alo, u[1])
	mhi, mlo := bits.Mul64(alo, u[0])
	s0, carry := bits.Add64(mlo, lhi, 0)
	s1 := mhi + carry
	mhi, mlo = bits.Mul64(ahi, u[1])
	_, carry = bits.Add64(mlo, s0, 0)
	lhi = mhi + carry
	s0 = ahi*u[0] + s1 + lhi

	r = alo - s0*q
	if r >= q {
		r -= q
	}
	return
}

// CRed returns a mod q for a in [0, 2q-1].
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}
