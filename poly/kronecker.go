package poly

import (
	"math/bits"

	"github.com/tuneinsight/safecrypto/limb"
	"github.com/tuneinsight/safecrypto/mpn"
	"github.com/tuneinsight/safecrypto/utils"
)

//=============================
//=== BIT PACKING           ===
//=============================

// kroneckerBits returns the width of the packed fields, large enough to hold
// any coefficient of the integer product of a and b.
func kroneckerBits(a, b []uint64) int {
	return MaxBits(a) + MaxBits(b) + bits.Len(uint(utils.Min(len(a), len(b))))
}

// kroneckerPack packs the coefficients of a into an integer, coefficient i at
// bit offset i*width.
func kroneckerPack(a []uint64, width int) []uint64 {
	p := make([]uint64, (len(a)*width+limb.Bits-1)/limb.Bits)
	for i, c := range a {
		orBits(p, i*width, c)
	}
	return p
}

// orBits ORs c into p at bit offset off.
func orBits(p []uint64, off int, c uint64) {
	i, s := off/limb.Bits, uint(off%limb.Bits)
	p[i] |= c << s
	if s != 0 {
		if hi := c >> (limb.Bits - s); hi != 0 {
			p[i+1] |= hi
		}
	}
}

// extract64 returns the 64 bits of p starting at bit offset off, bits past
// the end of p being read as zero.
func extract64(p []uint64, off int) (r uint64) {
	i, s := off/limb.Bits, uint(off%limb.Bits)
	if i < len(p) {
		r = p[i] >> s
	}
	if s != 0 && i+1 < len(p) {
		r |= p[i+1] << (limb.Bits - s)
	}
	return
}

func lowMask(n int) uint64 {
	if n >= limb.Bits {
		return limb.Mask
	}
	return 1<<uint(n) - 1
}

// extractField returns the width-bit field of p at bit offset off as three
// words. Requires width <= 192.
func extractField(p []uint64, off, width int) (w2, w1, w0 uint64) {
	w0 = extract64(p, off)
	switch {
	case width <= limb.Bits:
		return 0, 0, w0 & lowMask(width)
	case width <= 2*limb.Bits:
		return 0, extract64(p, off+limb.Bits) & lowMask(width-limb.Bits), w0
	default:
		w1 = extract64(p, off+limb.Bits)
		w2 = extract64(p, off+2*limb.Bits) & lowMask(width-2*limb.Bits)
		return
	}
}

// kroneckerUnpack reads len(out) fields of the given width from p and reduces them.
func kroneckerUnpack(out, p []uint64, width int, mod *limb.Mod) {
	for i := range out {
		out[i] = mod.ModLLL(extractField(p, i*width, width))
	}
}

//=============================
//=== KRONECKER             ===
//=============================

// mulKronecker requires len(a) >= len(b) >= 1.
func mulKronecker(out, a, b []uint64, mod *limb.Mod) {

	if IsZero(a) || IsZero(b) {
		Reset(out)
		return
	}

	width := kroneckerBits(a, b)

	pa := kroneckerPack(a, width)
	pb := kroneckerPack(b, width)

	prod := make([]uint64, len(pa)+len(pb))
	mpn.Mul(prod, pa, pb)

	kroneckerUnpack(out, prod, width, mod)
}

// MulKroneckerTrunc writes the n lowest coefficients of a * b mod m into
// out[:n] using Kronecker substitution, and returns n. out may alias a or b.
func MulKroneckerTrunc(out, a, b []uint64, n int, mod *limb.Mod) int {

	if n <= 0 {
		return 0
	}

	a = Normalize(a[:utils.Min(len(a), n)])
	b = Normalize(b[:utils.Min(len(b), n)])

	if len(a) == 0 || len(b) == 0 {
		Reset(out[:n])
		return n
	}

	if len(a) < len(b) {
		a, b = b, a
	}

	width := kroneckerBits(a, b)

	pa := kroneckerPack(a, width)
	pb := kroneckerPack(b, width)

	prod := make([]uint64, len(pa)+len(pb))
	mpn.Mul(prod, pa, pb)

	m := utils.Min(n, len(a)+len(b)-1)
	kroneckerUnpack(out[:m], prod, width, mod)
	Reset(out[m:n])

	return n
}

//=============================
//=== KS4                   ===
//=============================

// u128 is an unsigned 128-bit base 2^(2w) digit.
type u128 struct {
	hi, lo uint64
}

func (x u128) less(y u128) bool {
	return x.hi < y.hi || (x.hi == y.hi && x.lo < y.lo)
}

func (x u128) add(y u128) u128 {
	hi, lo := limb.AddHiLo(x.hi, x.lo, y.hi, y.lo)
	return u128{hi, lo}
}

func (x u128) sub(y u128) u128 {
	hi, lo := limb.SubHiLo(x.hi, x.lo, y.hi, y.lo)
	return u128{hi, lo}
}

func (x u128) and(y u128) u128 {
	return u128{x.hi & y.hi, x.lo & y.lo}
}

// shiftOr returns x * 2^s + y as three words, for y < 2^s and 0 < s <= 128.
func (x u128) shiftOr(s uint, y u128) (w2, w1, w0 uint64) {
	switch {
	case s < limb.Bits:
		return x.hi >> (limb.Bits - s), x.hi<<s | x.lo>>(limb.Bits-s), x.lo<<s | y.lo
	case s == limb.Bits:
		return x.hi, x.lo | y.hi, y.lo
	default:
		s -= limb.Bits
		return x.hi<<s | x.lo>>(limb.Bits-s), x.lo<<s | y.hi, y.lo
	}
}

var one128 = u128{0, 1}

func mask128(n int) u128 {
	if n <= limb.Bits {
		return u128{0, lowMask(n)}
	}
	return u128{lowMask(n - limb.Bits), limb.Mask}
}

// ks4Width returns the packing width w such that every coefficient of the
// product of a and b is smaller than 2^(4w-1).
func ks4Width(mod *limb.Mod, lb int) int {
	nbits := 2*int(mod.BNorm()) + utils.CeilLog2(lb)
	return (nbits + 4) >> 2
}

// ks4Evaluate returns |a(2^w)| and |a(-2^w)| on k limbs, and whether a(-2^w) < 0.
func ks4Evaluate(a []uint64, w, k int) (plus, minus []uint64, neg bool) {

	even := make([]uint64, k)
	odd := make([]uint64, k)
	for i := 0; i < len(a); i += 2 {
		orBits(even, i*w, a[i])
	}
	for i := 1; i < len(a); i += 2 {
		orBits(odd, i*w, a[i])
	}

	plus = make([]uint64, k)
	mpn.AddN(plus, even, odd)

	if mpn.Cmp(even, odd) < 0 {
		mpn.SubN(even, odd, even)
		neg = true
	} else {
		mpn.SubN(even, even, odd)
	}

	return plus, even, neg
}

// ks4Products returns 2*he(2^2w) and 2^(w+1)*ho(2^2w), where h = a*b is
// split as h(x) = he(x^2) + x*ho(x^2). Requires len(a) >= len(b).
func ks4Products(a, b []uint64, w int) (even, odd []uint64) {

	ka := (len(a)+1)*w/limb.Bits + 1
	kb := (len(b)+1)*w/limb.Bits + 1
	k := ka + kb

	ap, am, aNeg := ks4Evaluate(a, w, ka)
	bp, bm, bNeg := ks4Evaluate(b, w, kb)

	pp := make([]uint64, k)
	pm := make([]uint64, k)
	mpn.Mul(pp, ap, bp)
	mpn.Mul(pm, am, bm)

	even = make([]uint64, k+1)
	odd = make([]uint64, k+1)

	// h(-2^w) = -pm if exactly one of the evaluations is negative
	if aNeg != bNeg {
		mpn.SubN(even[:k], pp, pm)
		odd[k] = mpn.AddN(odd[:k], pp, pm)
	} else {
		even[k] = mpn.AddN(even[:k], pp, pm)
		mpn.SubN(odd[:k], pp, pm)
	}

	return
}

// ks4Digits reads count base 2^width digits from p starting at bit offset off.
func ks4Digits(p []uint64, off, width, count int) []u128 {
	d := make([]u128, count)
	for i := range d {
		_, hi, lo := extractField(p, off+i*width, width)
		d[i] = u128{hi, lo}
	}
	return d
}

// ks4Recover rebuilds the len(alpha)-1 coefficients whose base D = 2^width
// two-digit representations overlap in the forward digits alpha and in the
// digits beta of the reversed evaluation, and writes them reduced into
// out[0], out[stride], ...
func ks4Recover(out []uint64, stride int, alpha, beta []u128, width int, mod *limb.Mod) {

	n := len(alpha) - 1
	mask := mask128(width)

	a0 := alpha[0]
	b1 := beta[n]
	var carry bool

	for i := 0; i < n; i++ {

		b0 := beta[n-1-i]
		a1 := alpha[i+1]

		if b0.less(a0) {
			b1 = b1.sub(one128)
		}

		out[i*stride] = mod.ModLLL(b1.shiftOr(uint(width), a0))

		if carry {
			b1 = b1.add(one128)
		}

		carry = a1.less(b1)
		a1 = a1.sub(b1)
		b1 = b0.sub(a0).and(mask)
		a0 = a1.and(mask)
	}
}

// mulKS4 requires len(a) >= len(b) >= 1.
func mulKS4(out, a, b []uint64, mod *limb.Mod) {

	if len(b) == 1 {
		MulScalar(out, a, b[0], mod)
		return
	}

	n := len(a) + len(b) - 1
	no := n >> 1
	ne := n - no

	w := ks4Width(mod, len(b))

	even, odd := ks4Products(a, b, w)
	evenRev, oddRev := ks4Products(utils.ReverseSlice(a), utils.ReverseSlice(b), w)

	// The reversed product swaps the even and odd coefficients when n is even.
	if n&1 == 0 {
		evenRev, oddRev = oddRev, evenRev
	}

	// even digits of the reversed product start at bit 1, odd ones at bit w+1
	offEvenRev, offOddRev := 1, w+1
	if n&1 == 0 {
		offEvenRev, offOddRev = w+1, 1
	}

	ks4Recover(out, 2,
		ks4Digits(even, 1, 2*w, ne+1),
		ks4Digits(evenRev, offEvenRev, 2*w, ne+1),
		2*w, mod)

	ks4Recover(out[1:], 2,
		ks4Digits(odd, w+1, 2*w, no+1),
		ks4Digits(oddRev, offOddRev, 2*w, no+1),
		2*w, mod)
}
