package mpn

import (
	"fmt"
)

// Mul writes a * b into out[:len(a)+len(b)] and returns the most significant
// limb of the product. Requires len(a) >= len(b); out must not alias a or b.
// Operands shorter than MulGradeschoolThreshold use the quadratic algorithm,
// longer ones Karatsuba.
func Mul(out, a, b []uint64) uint64 {

	na, nb := len(a), len(b)

	if na < nb {
		panic("cannot Mul: len(a) < len(b)")
	}

	if len(out) < na+nb {
		panic(fmt.Errorf("cannot Mul: len(out)=%d < %d", len(out), na+nb))
	}

	if nb == 0 {
		Zero(out[:na])
		return 0
	}

	if nb < MulGradeschoolThreshold {
		return mulGradeschool(out, a, b)
	}

	if na == nb {
		karatsuba(out[:2*na], a, b)
		return out[2*na-1]
	}

	mulUnbalanced(out, a, b)
	return out[na+nb-1]
}

// MulN writes a * b into out[:2*len(a)]. Panics if len(a) != len(b).
func MulN(out, a, b []uint64) {
	if len(a) != len(b) {
		panic(fmt.Errorf("cannot MulN: len(a)=%d != len(b)=%d", len(a), len(b)))
	}
	Mul(out, a, b)
}

// Sqr writes a^2 into out[:2*len(a)] and returns its most significant limb.
func Sqr(out, a []uint64) uint64 {
	return Mul(out, a, a)
}

func mulGradeschool(out, a, b []uint64) uint64 {
	na, nb := len(a), len(b)
	out[na] = Mul1(out[:na], a, b[0])
	for j := 1; j < nb; j++ {
		out[na+j] = AddMul1(out[j:j+na], a, b[j])
	}
	return out[na+nb-1]
}

// mulUnbalanced multiplies a by the shorter b one len(b)-limb block of a at a time.
func mulUnbalanced(out, a, b []uint64) {

	na, nb := len(a), len(b)

	Zero(out[:na+nb])

	t := make([]uint64, 2*nb)

	for i := 0; i < na; i += nb {
		end := i + nb
		if end > na {
			end = na
		}
		blk := a[i:end]
		if len(blk) == nb {
			karatsuba(t, blk, b)
		} else {
			Mul(t[:len(blk)+nb], b, blk)
		}
		Add(out[i:na+nb], out[i:na+nb], t[:len(blk)+nb])
	}
}

// karatsuba writes a * b into out[:2n] for len(a) == len(b) == n.
func karatsuba(out, a, b []uint64) {

	n := len(a)

	if n < MulGradeschoolThreshold {
		mulGradeschool(out, a, b)
		return
	}

	// a = a0 + a1*B^h, b = b0 + b1*B^h with len(a1) = n - h >= h
	h := n >> 1
	hh := n - h
	a0, a1 := a[:h], a[h:]
	b0, b1 := b[:h], b[h:]

	karatsuba(out[:2*h], a0, b0)
	karatsuba(out[2*h:2*n], a1, b1)

	sa := make([]uint64, hh+1)
	sb := make([]uint64, hh+1)
	sa[hh] = Add(sa[:hh], a1, a0)
	sb[hh] = Add(sb[:hh], b1, b0)

	// (a0 + a1)(b0 + b1) - a0*b0 - a1*b1
	t := make([]uint64, 2*(hh+1))
	karatsuba(t, sa, sb)
	Sub(t, t, out[:2*h])
	Sub(t, t, out[2*h:2*n])

	Add(out[h:2*n], out[h:2*n], t[:NormalizedSize(t)])
}
