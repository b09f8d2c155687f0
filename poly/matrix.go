package poly

import (
	"github.com/tuneinsight/safecrypto/limb"
	"github.com/tuneinsight/safecrypto/utils"
)

// The helpers below work on normalized polynomials and return newly
// allocated normalized results; the zero polynomial is the empty slice.

func addPoly(a, b []uint64, mod *limb.Mod) []uint64 {
	out := make([]uint64, utils.Max(len(a), len(b)))
	Add(out, a, b, mod)
	return Normalize(out)
}

func subPoly(a, b []uint64, mod *limb.Mod) []uint64 {
	out := make([]uint64, utils.Max(len(a), len(b)))
	Sub(out, a, b, mod)
	return Normalize(out)
}

func negPoly(a []uint64, mod *limb.Mod) []uint64 {
	out := make([]uint64, len(a))
	Negate(out, a, mod)
	return out
}

func mulPoly(a, b []uint64, mod *limb.Mod) []uint64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]uint64, len(a)+len(b)-1)
	Mul(out, a, b, mod)
	return Normalize(out)
}

// shiftPoly returns a * x^k.
func shiftPoly(a []uint64, k int) []uint64 {
	if len(a) == 0 {
		return nil
	}
	out := make([]uint64, len(a)+k)
	ShiftLeft(out, a, k)
	return out
}

// signedSub returns x - y if sign > 0 and y - x otherwise.
func signedSub(sign int, x, y []uint64, mod *limb.Mod) []uint64 {
	if sign > 0 {
		return subPoly(x, y, mod)
	}
	return subPoly(y, x, mod)
}

//=============================
//=== 2x2 MATRICES          ===
//=============================

// matrix is the 2x2 polynomial matrix [[m[0], m[1]], [m[2], m[3]]].
type matrix [4][]uint64

func identity() matrix {
	return matrix{{1}, nil, nil, {1}}
}

func (a matrix) minLen() (n int) {
	n = len(a[0])
	for _, p := range a[1:] {
		n = utils.Min(n, len(p))
	}
	return
}

// mul returns a*b, with Strassen's algorithm if no entry is shorter than
// StrassenThreshold.
func (a matrix) mul(b matrix, mod *limb.Mod) matrix {
	if utils.Min(a.minLen(), b.minLen()) < StrassenThreshold {
		return a.mulClassical(b, mod)
	}
	return a.mulStrassen(b, mod)
}

func (a matrix) mulClassical(b matrix, mod *limb.Mod) (c matrix) {
	c[0] = addPoly(mulPoly(a[0], b[0], mod), mulPoly(a[1], b[2], mod), mod)
	c[1] = addPoly(mulPoly(a[0], b[1], mod), mulPoly(a[1], b[3], mod), mod)
	c[2] = addPoly(mulPoly(a[2], b[0], mod), mulPoly(a[3], b[2], mod), mod)
	c[3] = addPoly(mulPoly(a[2], b[1], mod), mulPoly(a[3], b[3], mod), mod)
	return
}

// mulStrassen is Winograd's variant, 7 products and 15 additions. The steps
// reuse t0 and t1 and must stay in this order.
func (a matrix) mulStrassen(b matrix, mod *limb.Mod) (c matrix) {

	t0 := subPoly(a[0], a[2], mod)
	t1 := subPoly(b[3], b[1], mod)
	c[2] = mulPoly(t0, t1, mod)

	t0 = addPoly(a[2], a[3], mod)
	t1 = subPoly(b[1], b[0], mod)
	c[3] = mulPoly(t0, t1, mod)

	t0 = subPoly(t0, a[0], mod)
	t1 = subPoly(b[3], t1, mod)
	c[1] = mulPoly(t0, t1, mod)

	t0 = subPoly(a[1], t0, mod)
	c[0] = mulPoly(t0, b[3], mod)

	t0 = mulPoly(a[0], b[0], mod)

	c[1] = addPoly(t0, c[1], mod)
	c[2] = addPoly(c[1], c[2], mod)
	c[1] = addPoly(c[1], c[3], mod)
	c[3] = addPoly(c[2], c[3], mod)
	c[1] = addPoly(c[1], c[0], mod)

	t1 = subPoly(t1, b[2], mod)
	c[0] = mulPoly(a[3], t1, mod)
	c[2] = subPoly(c[2], c[0], mod)

	c[0] = mulPoly(a[1], b[2], mod)
	c[0] = addPoly(c[0], t0, mod)

	return
}
