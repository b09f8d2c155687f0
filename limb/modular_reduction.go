package limb

import (
	"fmt"
	"math/bits"
)

//==============================
//=== RECIPROCAL DIVISION    ===
//==============================

// Inverse returns the reciprocal floor((2^128-1)/d) - 2^64 of d = p << Clz(p),
// i.e. of p shifted so that its most significant bit is set.
func Inverse(p uint64) (inv uint64) {
	p <<= uint(bits.LeadingZeros64(p))
	inv, _ = bits.Div64(^p, Mask, p)
	return
}

// Inverse3by2 returns floor((2^192-1)/(d1*2^64+d0)) - 2^64 for a normalized
// double-word divisor (the most significant bit of d1 is set).
func Inverse3by2(d1, d0 uint64) (v uint64) {

	v = Inverse(d1)

	p := d1 * v
	p += d0
	if p < d0 {
		v--
		if p >= d1 {
			v--
			p -= d1
		}
		p -= d1
	}

	t1, t0 := bits.Mul64(v, d0)
	p += t1
	if p < t1 {
		v--
		if p > d1 || (p == d1 && t0 >= d0) {
			v--
		}
	}

	return
}

// UdivQrnndPreinv divides (n1:n0) by the normalized divisor d using its
// reciprocal dInv = Inverse(d). Requires n1 < d.
func UdivQrnndPreinv(n1, n0, d, dInv uint64) (q, r uint64) {
	q, l := bits.Mul64(n1, dInv)
	q, l = AddHiLo(q, l, n1+1, n0)
	r = n0 - q*d
	if r > l {
		q--
		r += d
	}
	if r >= d {
		r -= d
		q++
	}
	return
}

// UdivQrnnndPreinv divides (n2:n1:n0) by the normalized double-word divisor
// (d1:d0) using dInv = Inverse3by2(d1, d0). Requires (n2:n1) < (d1:d0).
// Returns the single-word quotient and the double-word remainder (r1:r0).
func UdivQrnnndPreinv(n2, n1, n0, d1, d0, dInv uint64) (q, r1, r0 uint64) {

	var q0 uint64
	q, q0 = bits.Mul64(n2, dInv)
	q, q0 = AddHiLo(q, q0, n2, n1)

	r1 = n1 - d1*q
	r1, r0 = SubHiLo(r1, n0, d1, d0)
	t1, t0 := bits.Mul64(d0, q)
	r1, r0 = SubHiLo(r1, r0, t1, t0)
	q++

	if r1 >= q0 {
		q--
		r1, r0 = AddHiLo(r1, r0, d1, d0)
	}

	if r1 > d1 || (r1 == d1 && r0 >= d0) {
		q++
		r1, r0 = SubHiLo(r1, r0, d1, d0)
	}

	return
}

// ModReduction returns (hi*2^64 + lo) mod m where mInv = Inverse(m).
// Requires hi < m. The modulus does not need to be normalized.
func ModReduction(hi, lo, m, mInv uint64) (r uint64) {
	norm := uint(bits.LeadingZeros64(m))
	u1 := hi<<norm | lo>>(Bits-norm)
	_, r = UdivQrnndPreinv(u1, lo<<norm, m<<norm, mInv)
	return r >> norm
}

// ModL returns lo mod m. The operand is shifted by norm = Clz(m) internally so
// that the reciprocal of the normalized modulus keeps its full precision and the
// remainder is shifted back before being returned.
func ModL(lo, m, mInv uint64, norm uint) (r uint64) {
	_, r = UdivQrnndPreinv(lo>>(Bits-norm), lo<<norm, m<<norm, mInv)
	return r >> norm
}

// ModLL returns (hi*2^64 + lo) mod m for any hi, see ModL.
func ModLL(hi, lo, m, mInv uint64, norm uint) (r uint64) {
	if hi >= m {
		hi = ModL(hi, m, mInv, norm)
	}
	u1 := hi<<norm | lo>>(Bits-norm)
	_, r = UdivQrnndPreinv(u1, lo<<norm, m<<norm, mInv)
	return r >> norm
}

// ModLLL returns (hi*2^128 + mi*2^64 + lo) mod m for any hi and mi, see ModL.
func ModLLL(hi, mi, lo, m, mInv uint64, norm uint) (r uint64) {
	return ModLL(ModLL(hi, mi, m, mInv, norm), lo, m, mInv, norm)
}

//==============================
//=== MODULUS CONTEXT        ===
//==============================

// Mod is a modulus together with its precomputed reciprocal and normalization
// shift. A Mod is immutable once created and can be shared between goroutines.
type Mod struct {
	m     uint64
	mLow  uint64
	mInv  uint64
	norm  uint
	bNorm uint
}

// NewMod creates the modulus context of m. The reciprocal and the
// normalization shift are always derived together from m.
// m is expected to be an odd prime; this is not checked.
func NewMod(m uint64) *Mod {
	if m == 0 {
		panic("cannot NewMod: modulus is zero")
	}
	norm := uint(bits.LeadingZeros64(m))
	return &Mod{
		m:     m,
		mInv:  Inverse(m),
		norm:  norm,
		bNorm: Bits - norm,
	}
}

// NewMod2 creates the context of the double-word modulus mh*2^64 + ml.
// The stored words are normalized and the reciprocal is the 3-by-2 one.
func NewMod2(mh, ml uint64) *Mod {
	if mh == 0 {
		panic("cannot NewMod2: high word of the modulus is zero")
	}
	norm := uint(bits.LeadingZeros64(mh))
	mod := &Mod{norm: norm, bNorm: Bits - norm}
	if norm != 0 {
		mh = mh<<norm | ml>>(Bits-norm)
		ml <<= norm
	}
	mod.m = mh
	mod.mLow = ml
	mod.mInv = Inverse3by2(mh, ml)
	return mod
}

// Modulus returns m (the normalized high word for a double-word modulus).
func (mod *Mod) Modulus() uint64 {
	return mod.m
}

// Low returns the normalized low word of a double-word modulus.
func (mod *Mod) Low() uint64 {
	return mod.mLow
}

// Reciprocal returns the precomputed reciprocal of the normalized modulus.
func (mod *Mod) Reciprocal() uint64 {
	return mod.mInv
}

// Norm returns the number of leading zero bits of m.
func (mod *Mod) Norm() uint {
	return mod.norm
}

// BNorm returns the bit-length of m.
func (mod *Mod) BNorm() uint {
	return mod.bNorm
}

// String implements fmt.Stringer.
func (mod *Mod) String() string {
	if mod.mLow != 0 {
		return fmt.Sprintf("Mod{m=0x%x:%016x, bits=%d}", mod.m, mod.mLow, mod.bNorm)
	}
	return fmt.Sprintf("Mod{m=%d, bits=%d}", mod.m, mod.bNorm)
}

// DivRem3 divides (n2:n1:n0) by a double-word modulus created with NewMod2.
// The operand must be normalized by the caller and satisfy (n2:n1) < (m:mLow).
func (mod *Mod) DivRem3(n2, n1, n0 uint64) (q, r1, r0 uint64) {
	return UdivQrnnndPreinv(n2, n1, n0, mod.m, mod.mLow, mod.mInv)
}

// Reduce returns (hi*2^64 + lo) mod m. Requires hi < m.
func (mod *Mod) Reduce(hi, lo uint64) uint64 {
	u1 := hi<<mod.norm | lo>>mod.bNorm
	_, r := UdivQrnndPreinv(u1, lo<<mod.norm, mod.m<<mod.norm, mod.mInv)
	return r >> mod.norm
}

// ModL returns x mod m.
func (mod *Mod) ModL(x uint64) uint64 {
	return ModL(x, mod.m, mod.mInv, mod.norm)
}

// ModLL returns (hi*2^64 + lo) mod m.
func (mod *Mod) ModLL(hi, lo uint64) uint64 {
	return ModLL(hi, lo, mod.m, mod.mInv, mod.norm)
}

// ModLLL returns (hi*2^128 + mi*2^64 + lo) mod m.
func (mod *Mod) ModLLL(hi, mi, lo uint64) uint64 {
	return ModLLL(hi, mi, lo, mod.m, mod.mInv, mod.norm)
}

// Add returns a + b mod m for a, b < m.
func (mod *Mod) Add(a, b uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 || s >= mod.m {
		s -= mod.m
	}
	return s
}

// Sub returns a - b mod m for a, b < m.
func (mod *Mod) Sub(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a - b + mod.m
}

// Neg returns -a mod m for a < m.
func (mod *Mod) Neg(a uint64) uint64 {
	if a == 0 {
		return 0
	}
	return mod.m - a
}

// Mul returns a * b mod m for a, b < m.
func (mod *Mod) Mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return mod.Reduce(hi, lo)
}

// Sqr returns a^2 mod m for a < m.
func (mod *Mod) Sqr(a uint64) uint64 {
	hi, lo := bits.Mul64(a, a)
	return mod.Reduce(hi, lo)
}

// Pow returns a^e mod m for a < m, with 0^0 = 1.
func (mod *Mod) Pow(a, e uint64) (r uint64) {
	r = mod.ModL(1)
	for ; e != 0; e >>= 1 {
		if e&1 == 1 {
			r = mod.Mul(r, a)
		}
		a = mod.Sqr(a)
	}
	return
}

// Inv returns a^-1 mod m. Panics if a is not invertible.
func (mod *Mod) Inv(a uint64) uint64 {
	inv, ok := InvMod(a, mod.m)
	if !ok {
		panic(fmt.Errorf("cannot Inv: %d is not invertible modulo %d", a, mod.m))
	}
	return inv
}
