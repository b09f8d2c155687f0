package poly

import (
	"math/bits"

	"github.com/tuneinsight/safecrypto/limb"
	"github.com/tuneinsight/safecrypto/mpn"
	"github.com/tuneinsight/safecrypto/utils"
)

type mulFunc func(out, a, b []uint64, mod *limb.Mod)

// Mul writes a * b mod m into out and returns len(a)+len(b)-1 (0 if either
// operand is empty). The backend is chosen from the length of the shorter
// operand and the bit-size of m. out may alias a or b.
func Mul(out, a, b []uint64, mod *limb.Mod) int {
	return mulWith(mulDispatch, out, a, b, mod)
}

// MulGradeschool is Mul with the quadratic schoolbook algorithm.
func MulGradeschool(out, a, b []uint64, mod *limb.Mod) int {
	return mulWith(mulGradeschool, out, a, b, mod)
}

// MulKaratsuba is Mul with Karatsuba's algorithm.
func MulKaratsuba(out, a, b []uint64, mod *limb.Mod) int {
	return mulWith(mulKaratsuba, out, a, b, mod)
}

// MulKronecker is Mul by Kronecker substitution: both operands are packed into
// integers, multiplied with mpn.Mul and the product is unpacked.
func MulKronecker(out, a, b []uint64, mod *limb.Mod) int {
	return mulWith(mulKronecker, out, a, b, mod)
}

// MulKS4 is Mul by Kronecker substitution evaluated at the four points
// 2^w, -2^w, 2^-w and -2^-w, which halves the size of the integers to multiply.
func MulKS4(out, a, b []uint64, mod *limb.Mod) int {
	return mulWith(mulKS4, out, a, b, mod)
}

func mulWith(f mulFunc, out, a, b []uint64, mod *limb.Mod) int {

	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	if len(a) < len(b) {
		a, b = b, a
	}

	n := len(a) + len(b) - 1

	if utils.Alias1D(out, a) || utils.Alias1D(out, b) {
		tmp := make([]uint64, n)
		f(tmp, a, b, mod)
		copy(out, tmp)
		return n
	}

	f(out[:n], a, b, mod)
	return n
}

func mulDispatch(out, a, b []uint64, mod *limb.Mod) {
	lb := len(b)
	switch {
	case lb <= GradeschoolThreshold || lb <= GradeschoolSmallBThreshold:
		mulGradeschool(out, a, b, mod)
	case lb <= KaratsubaThreshold:
		mulKaratsuba(out, a, b, mod)
	case int(mod.BNorm())*lb <= KS4Threshold*limb.Bits:
		mulKS4(out, a, b, mod)
	default:
		mulKronecker(out, a, b, mod)
	}
}

//=============================
//=== GRADESCHOOL           ===
//=============================

// mulGradeschool requires len(a) >= len(b) >= 1 and len(out) = len(a)+len(b)-1.
func mulGradeschool(out, a, b []uint64, mod *limb.Mod) {

	la, lb := len(a), len(b)

	// Every coefficient of the integer product fits in a word.
	if 2*int(mod.BNorm())+bits.Len(uint(lb)) <= limb.Bits {
		mulSimple(out, a, b, mod)
		return
	}

	for j := range a {
		out[j] = mod.Reduce(bits.Mul64(a[j], b[0]))
	}

	for j := 1; j < lb; j++ {
		out[la-1+j] = mod.Reduce(bits.Mul64(a[la-1], b[j]))
	}

	for i := 0; i < la-1; i++ {
		for j := 1; j < lb; j++ {
			out[i+j] = mod.Reduce(limb.MulAddHiLo(0, out[i+j], a[i], b[j]))
		}
	}
}

// mulSimple multiplies without intermediate reductions and reduces once.
func mulSimple(out, a, b []uint64, mod *limb.Mod) {

	la, lb := len(a), len(b)

	mpn.Mul1(out[:la], a, b[0])

	if lb > 1 {
		mpn.Mul1(out[la:], b[1:], a[la-1])
		for i := la - 2; i >= 0; i-- {
			mpn.AddMul1(out[i+1:], b[1:], a[i])
		}
	}

	Reduce(out, out, mod)
}

// MulGradeschoolTrunc writes the n lowest coefficients of a * b mod m into out[:n].
func MulGradeschoolTrunc(out, a, b []uint64, n int, mod *limb.Mod) int {

	Reset(out[:n])

	for i := 0; i < utils.Min(len(a), n); i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < len(b) && i+j < n; j++ {
			out[i+j] = mod.Reduce(limb.MulAddHiLo(0, out[i+j], a[i], b[j]))
		}
	}

	return n
}

// MulTrunc writes the n lowest coefficients of a * b mod m into out[:n] and
// returns n. Coefficients above the product length are set to zero.
func MulTrunc(out, a, b []uint64, n int, mod *limb.Mod) int {

	if n <= 0 {
		return 0
	}

	a = a[:utils.Min(len(a), n)]
	b = b[:utils.Min(len(b), n)]

	if len(a)+len(b) <= GradeschoolThreshold || n <= GradeschoolThreshold || len(a) == 0 || len(b) == 0 {
		if utils.Alias1D(out, a) || utils.Alias1D(out, b) {
			a, b = utils.CloneSlice(a), utils.CloneSlice(b)
		}
		return MulGradeschoolTrunc(out, a, b, n, mod)
	}

	return MulKroneckerTrunc(out, a, b, n, mod)
}

//=============================
//=== KARATSUBA             ===
//=============================

// mulKaratsuba computes a*b = z2*x^2h + (z1 - z0 - z2)*x^h + z0 with
// z0 = a0*b0, z2 = a1*b1 and z1 = (a0+a1)(b0+b1), where h = len(b)/2.
// Requires len(a) >= len(b).
func mulKaratsuba(out, a, b []uint64, mod *limb.Mod) {

	la, lb := len(a), len(b)

	if lb <= GradeschoolThreshold {
		mulGradeschool(out, a, b, mod)
		return
	}

	h := lb >> 1
	a0, a1 := a[:h], a[h:]
	b0, b1 := b[:h], b[h:]

	z0 := make([]uint64, 2*h-1)
	mulKaratsuba(z0, a0, b0, mod)

	z2 := make([]uint64, la+lb-2*h-1)
	mulKaratsuba(z2, a1, b1, mod)

	sa := make([]uint64, la-h)
	sb := make([]uint64, lb-h)
	Add(sa, a1, a0, mod)
	Add(sb, b1, b0, mod)

	z1 := make([]uint64, la+lb-2*h-1)
	mulKaratsuba(z1, sa, sb, mod)
	Sub(z1, z1, z0, mod)
	Sub(z1, z1, z2, mod)

	copy(out, z0)
	out[2*h-1] = 0
	copy(out[2*h:], z2)

	mid := out[h : h+len(z1)]
	Add(mid, mid, z1, mod)
}
