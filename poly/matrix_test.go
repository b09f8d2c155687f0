package poly

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/safecrypto/limb"
)

func randMatrix(t *testing.T, key string, n int, mod *limb.Mod) (a matrix) {
	src := newTestSource(t, key)
	for i := range a {
		a[i] = randPoly(src, n+i, mod)
	}
	return
}

func requireMatrixEqual(t *testing.T, want, have matrix) {
	for i := range want {
		require.True(t, Equal(want[i], have[i]), "entry %d", i)
	}
}

func TestMatrix(t *testing.T) {

	for _, m := range testModuli {

		mod := limb.NewMod(m)

		t.Run(testString("Identity", mod, 5, 5), func(t *testing.T) {
			a := randMatrix(t, "matrix-a", 5, mod)
			requireMatrixEqual(t, a, identity().mul(a, mod))
			requireMatrixEqual(t, a, a.mul(identity(), mod))
		})

		t.Run(testString("ClassicalByHand", mod, 1, 1), func(t *testing.T) {
			a := matrix{{1}, {2}, {3}, {4}}
			b := matrix{{5}, {6}, {7}, {8}}
			// [[1 2] [3 4]] * [[5 6] [7 8]] = [[19 22] [43 50]]
			requireMatrixEqual(t, matrix{{19}, {22}, {43}, {50}}, a.mulClassical(b, mod))
		})

		for _, n := range []int{1, StrassenThreshold - 1, StrassenThreshold, 3 * StrassenThreshold} {
			t.Run(testString("Strassen", mod, n, n), func(t *testing.T) {
				a := randMatrix(t, "matrix-a", n, mod)
				b := randMatrix(t, "matrix-b", n+3, mod)
				want := a.mulClassical(b, mod)
				requireMatrixEqual(t, want, a.mulStrassen(b, mod))
				requireMatrixEqual(t, want, a.mul(b, mod))
			})
		}
	}
}
