package poly

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/safecrypto/limb"
	"github.com/tuneinsight/safecrypto/utils/sampling"
)

type xgcdResult struct {
	g, x, y []uint64
}

var gcdBackends = []struct {
	name string
	gcd  func(g, a, b []uint64, mod *limb.Mod) int
	xgcd func(g, x, y, a, b []uint64, mod *limb.Mod) int
	res  func(a, b []uint64, mod *limb.Mod) uint64
}{
	{"Dispatch", GCD, XGCD, Resultant},
	{"Euclidean", GCDEuclidean, XGCDEuclidean, ResultantEuclidean},
	{"HalfGCD", GCDHalfGCD, XGCDHalfGCD, ResultantHalfGCD},
}

// commonFactor returns a = f*u and b = f*v with f monic of length lf.
func commonFactor(src *sampling.Source, la, lb, lf int, mod *limb.Mod) (a, b, f []uint64) {
	f = randPoly(src, lf, mod)
	f[lf-1] = 1
	a = refMul(f, randPoly(src, la-lf+1, mod), mod)
	b = refMul(f, randPoly(src, lb-lf+1, mod), mod)
	return
}

func runXGCD(xgcd func(g, x, y, a, b []uint64, mod *limb.Mod) int, a, b []uint64, mod *limb.Mod) (r xgcdResult) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	r.g, r.x, r.y = make([]uint64, n), make([]uint64, n), make([]uint64, n)
	lg := xgcd(r.g, r.x, r.y, a, b, mod)
	r.g = r.g[:lg]
	return
}

// requireBezout checks that g is the monic gcd of a and b and that
// a*x + b*y = g with the cofactor degree bounds.
func requireBezout(t *testing.T, a, b []uint64, r xgcdResult, mod *limb.Mod) {

	dg := Degree(r.g)
	require.GreaterOrEqual(t, dg, 0)
	require.Equal(t, uint64(1), r.g[dg])

	rem := make([]uint64, len(a)+len(b))
	require.True(t, IsZero(rem[:Rem(rem, a, r.g, mod)]))
	require.True(t, IsZero(rem[:Rem(rem, b, r.g, mod)]))

	ax := refMul(a, Normalize(r.x), mod)
	by := refMul(b, Normalize(r.y), mod)
	sum := make([]uint64, len(ax)+len(by)+1)
	n := Add(sum, ax, by, mod)
	require.True(t, Equal(r.g, sum[:n]))

	require.Less(t, Degree(r.x), Degree(b)-dg)
	require.Less(t, Degree(r.y), Degree(a)-dg)
}

func TestGCD(t *testing.T) {

	src := newTestSource(t, "gcd")

	for _, m := range testModuli {
		mod := limb.NewMod(m)
		for _, sz := range [][2]int{{2, 2}, {3, 2}, {10, 7}, {7, 10}, {50, 50}, {131, 129}} {
			testXGCD(t, src, mod, sz[0], sz[1])
		}
		testCommonFactor(t, src, mod)
		testGCDEdgeCases(t, src, mod)
	}

	// each side of the switch to the Half-GCD algorithm
	testGCDAgreement(t, src, limb.NewMod(251), 191)
	testGCDAgreement(t, src, limb.NewMod(251), 193)
	testGCDAgreement(t, src, limb.NewMod(0xffffffffffffffc5), 383)
	testGCDAgreement(t, src, limb.NewMod(0xffffffffffffffc5), 385)
}

// TestHalfGCDRounds runs the gcd engines on inputs long enough for the
// Half-GCD loop to go through several rounds, recombining the cofactors with
// the sign of each matrix. Over GF(3) and GF(5) leading coefficients often
// cancel, so remainders drop by several degrees at once.
func TestHalfGCDRounds(t *testing.T) {

	src := newTestSource(t, "halfgcd-rounds")

	for _, m := range []uint64{3, 5, 7681, 0xffffffffffffffc5} {
		mod := limb.NewMod(m)
		testGCDAgreement(t, src, mod, 900)
		testGCDAgreement(t, src, mod, 517)
	}
}

func testXGCD(t *testing.T, src *sampling.Source, mod *limb.Mod, la, lb int) {

	a, b := randPoly(src, la, mod), randPoly(src, lb, mod)

	for _, backend := range gcdBackends {
		t.Run(testString("XGCD/"+backend.name, mod, la, lb), func(t *testing.T) {

			r := runXGCD(backend.xgcd, a, b, mod)
			requireBezout(t, a, b, r, mod)

			g := make([]uint64, len(a)+len(b))
			lg := backend.gcd(g, a, b, mod)
			require.Equal(t, r.g, g[:lg])

			res := backend.res(a, b, mod)
			require.Equal(t, res == 0, Degree(r.g) > 0)
		})
	}
}

func testCommonFactor(t *testing.T, src *sampling.Source, mod *limb.Mod) {

	for _, sz := range [][3]int{{6, 4, 2}, {40, 33, 9}, {140, 135, 30}} {

		a, b, f := commonFactor(src, sz[0], sz[1], sz[2], mod)

		for _, backend := range gcdBackends {
			t.Run(testString("CommonFactor/"+backend.name, mod, sz[0], sz[1]), func(t *testing.T) {

				r := runXGCD(backend.xgcd, a, b, mod)
				requireBezout(t, a, b, r, mod)

				rem := make([]uint64, len(r.g))
				require.True(t, IsZero(rem[:Rem(rem, r.g, f, mod)]))

				require.Zero(t, backend.res(a, b, mod))
				require.Zero(t, backend.res(b, a, mod))
			})
		}
	}
}

func testGCDEdgeCases(t *testing.T, src *sampling.Source, mod *limb.Mod) {

	a := randPoly(src, 9, mod)

	t.Run(testString("GCD/Zero", mod, 9, 0), func(t *testing.T) {

		g := make([]uint64, 9)
		require.Equal(t, 0, GCD(g, nil, []uint64{0, 0}, mod))

		require.Equal(t, 9, GCD(g, []uint64{0}, a, mod))
		require.Equal(t, uint64(1), g[8])

		// a * (1/lc(a)) = monic(a)
		r := runXGCD(XGCD, a, nil, mod)
		require.Equal(t, g, r.g)
		require.Equal(t, mod.Inv(a[8]), r.x[0])
		require.Equal(t, 0, Degree(r.x))
		require.Equal(t, -1, Degree(r.y))

		require.Zero(t, Resultant(a, nil, mod))
		require.Zero(t, Resultant(nil, a, mod))
	})

	t.Run(testString("GCD/Constant", mod, 9, 1), func(t *testing.T) {

		c := []uint64{1 + src.Uint64n(mod.Modulus()-1)}

		g := make([]uint64, 9)
		require.Equal(t, 1, GCD(g, a, c, mod))
		require.Equal(t, uint64(1), g[0])

		r := runXGCD(XGCD, c, a, mod)
		requireBezout(t, c, a, r, mod)

		// monic gcd: c * c^-1 = 1
		require.Equal(t, []uint64{1}, r.g)
		require.Equal(t, mod.Inv(c[0]), r.x[0])
		require.Equal(t, 0, Degree(r.x))
		require.Equal(t, -1, Degree(r.y))

		// res(a, c) = c^deg(a)
		require.Equal(t, mod.Pow(c[0], 8), Resultant(a, c, mod))
		require.Equal(t, mod.Pow(c[0], 8), Resultant(c, a, mod))
	})

	t.Run(testString("Resultant/Linear", mod, 9, 2), func(t *testing.T) {

		// res(p, x - c) = (-1)^deg(p) p(c) and res(x - c, p) = p(c)
		c := src.Uint64n(mod.Modulus())
		lin := []uint64{mod.Neg(c), 1}

		for _, p := range [][]uint64{a, Normalize(a[:8])} {
			want := Eval(p, c, mod)
			if Degree(p)&1 == 1 {
				want = mod.Neg(want)
			}
			for _, backend := range gcdBackends {
				require.Equal(t, want, backend.res(p, lin, mod), backend.name)
				require.Equal(t, Eval(p, c, mod), backend.res(lin, p, mod), backend.name)
			}
		}
	})
}

func testGCDAgreement(t *testing.T, src *sampling.Source, mod *limb.Mod, n int) {

	cases := map[string][2][]uint64{}

	cases["Random"] = [2][]uint64{randPoly(src, n, mod), randPoly(src, n-1, mod)}

	a, b, _ := commonFactor(src, n, n-2, 50, mod)
	cases["CommonFactor"] = [2][]uint64{a, b}

	// the gcd survives the first Half-GCD rounds
	a, b, _ = commonFactor(src, n, n-30, n/2, mod)
	cases["LargeFactor"] = [2][]uint64{a, b}

	for name, c := range cases {

		a, b := c[0], c[1]

		t.Run(testString("Agreement/"+name, mod, len(a), len(b)), func(t *testing.T) {

			want := runXGCD(XGCDEuclidean, a, b, mod)
			requireBezout(t, a, b, want, mod)

			for _, backend := range gcdBackends {

				r := runXGCD(backend.xgcd, a, b, mod)
				require.Equal(t, want.g, r.g, backend.name)
				require.True(t, Equal(want.x, r.x), backend.name)
				require.True(t, Equal(want.y, r.y), backend.name)

				g := make([]uint64, n)
				lg := backend.gcd(g, a, b, mod)
				require.Equal(t, want.g, g[:lg], backend.name)
			}

			res := ResultantEuclidean(a, b, mod)
			require.Equal(t, res, ResultantHalfGCD(a, b, mod))
			require.Equal(t, res, Resultant(a, b, mod))
			require.Equal(t, res == 0, Degree(want.g) > 0)
			require.Equal(t, ResultantEuclidean(b, a, mod), ResultantHalfGCD(b, a, mod))
		})
	}
}

func TestResultant(t *testing.T) {

	t.Run("KnownValues", func(t *testing.T) {

		mod := limb.NewMod(0x800000000000001d)

		a := make([]uint64, 32)
		b := make([]uint64, 32)
		for i := range a {
			a[i] = uint64(i + 1)
			b[i] = uint64(i + 2)
		}

		for _, backend := range gcdBackends {
			require.Zero(t, backend.res(a[:16], a[:16], mod), backend.name)
			require.Equal(t, uint64(1), backend.res(a[:1], b[:1], mod), backend.name)
			require.Equal(t, uint64(2), backend.res(a[:2], b[:1], mod), backend.name)
			require.Equal(t, uint64(1<<7), backend.res(a[:8], b[:1], mod), backend.name)
		}

		// res(1 + 2x, 2 + 3x) = 2*2 - 1*3
		require.Equal(t, uint64(1), Resultant(a[:2], b[:2], mod))
	})

	t.Run("HalfGCDRecursion", func(t *testing.T) {

		src := newTestSource(t, "resultant")

		for _, m := range testModuli {
			mod := limb.NewMod(m)
			for _, sz := range [][2]int{{129, 128}, {200, 150}, {300, 299}} {
				a, b := randPoly(src, sz[0], mod), randPoly(src, sz[1], mod)
				require.Equal(t, ResultantEuclidean(a, b, mod), ResultantHalfGCD(a, b, mod), testString("Resultant", mod, sz[0], sz[1]))
				require.Equal(t, ResultantEuclidean(b, a, mod), ResultantHalfGCD(b, a, mod), testString("Resultant", mod, sz[1], sz[0]))
			}
		}
	})

	t.Run("Multiplicative", func(t *testing.T) {

		mod := limb.NewMod(7681)

		parameters := gopter.DefaultTestParameters()
		parameters.MinSuccessfulTests = 100
		properties := gopter.NewProperties(parameters)

		coeff := gen.UInt64Range(1, mod.Modulus()-1)

		properties.Property("res(a*b, c) = res(a, c) * res(b, c)", prop.ForAll(
			func(a, b, c []uint64) bool {
				ab := make([]uint64, len(a)+len(b)-1)
				Mul(ab, a, b, mod)
				want := mod.Mul(Resultant(a, c, mod), Resultant(b, c, mod))
				return Resultant(ab, c, mod) == want && ResultantHalfGCD(ab, c, mod) == want
			},
			gen.SliceOfN(7, coeff), gen.SliceOfN(5, coeff), gen.SliceOfN(6, coeff),
		))

		properties.TestingRun(t)
	})
}
