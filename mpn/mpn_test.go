package mpn

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/safecrypto/utils/sampling"
)

func testString(opname string, na, nb int) string {
	return fmt.Sprintf("%s/na=%d/nb=%d", opname, na, nb)
}

func toBig(x []uint64) *big.Int {
	r := new(big.Int)
	for i := len(x) - 1; i >= 0; i-- {
		r.Lsh(r, 64)
		r.Or(r, new(big.Int).SetUint64(x[i]))
	}
	return r
}

func randNat(src *sampling.Source, n int) []uint64 {
	x := make([]uint64, n)
	for i := range x {
		x[i] = src.Uint64()
	}
	if n > 0 && x[n-1] == 0 {
		x[n-1] = 1
	}
	return x
}

var testSizes = [][2]int{
	{1, 1}, {2, 1}, {3, 2}, {5, 3}, {8, 8},
	{31, 31}, {32, 32}, {33, 32}, {64, 64}, {65, 64},
	{100, 40}, {150, 33}, {257, 129},
}

func TestMpn(t *testing.T) {

	src, err := sampling.NewKeyedSource([]byte("mpn"))
	require.NoError(t, err)

	testShiftCmp(t, src)
	testAddSub(t, src)
	testMul1(t, src)

	for _, sz := range testSizes {
		testMul(t, src, sz[0], sz[1])
		testDivQR(t, src, sz[0], sz[1])
	}

	testDivQR1(t, src)
	testDivQR2(t, src)
	testRoundTripProperty(t)
}

func testShiftCmp(t *testing.T, src *sampling.Source) {

	t.Run("Shift", func(t *testing.T) {
		for _, c := range []uint{0, 1, 13, 63} {
			a := randNat(src, 7)
			out := make([]uint64, 7)
			high := Lshift(out, a, c)
			want := new(big.Int).Lsh(toBig(a), c)
			got := toBig(append(append([]uint64{}, out...), high))
			require.Zero(t, want.Cmp(got))

			back := make([]uint64, 7)
			Rshift(back, out, c)
			back[6] |= high << (64 - c)
			if c == 0 {
				back[6] = out[6]
			}
			require.Equal(t, a, back)

			// in place
			b := append([]uint64{}, a...)
			Lshift(b, b, c)
			require.Equal(t, out, b)
		}
		require.Zero(t, Lshift(nil, nil, 5))
		require.Zero(t, Rshift(nil, nil, 5))
	})

	t.Run("Cmp", func(t *testing.T) {
		a := []uint64{1, 2, 3}
		require.Equal(t, 0, Cmp(a, []uint64{1, 2, 3}))
		require.Equal(t, -1, Cmp(a, []uint64{0, 0, 4}))
		require.Equal(t, 1, Cmp(a, []uint64{2, 2, 2}))
		require.Equal(t, 0, CmpN(a, []uint64{1, 2, 3, 0, 0}))
		require.Equal(t, -1, CmpN(a, []uint64{0, 0, 0, 1}))
		require.Equal(t, 1, CmpN(a, []uint64{5}))
		require.Equal(t, 0, CmpN(nil, []uint64{0, 0}))
		require.Equal(t, 2, NormalizedSize([]uint64{1, 1, 0, 0}))
		require.True(t, IsZero([]uint64{0, 0}))
		require.True(t, IsZero(nil))

		c := make([]uint64, 3)
		Com(c, a)
		require.Equal(t, []uint64{^uint64(1), ^uint64(2), ^uint64(3)}, c)
		Copy(c, a)
		require.Equal(t, a, c)
		Zero(c)
		require.True(t, IsZero(c))
	})
}

func testAddSub(t *testing.T, src *sampling.Source) {

	t.Run("AddSub", func(t *testing.T) {

		for _, sz := range testSizes {
			a, b := randNat(src, sz[0]), randNat(src, sz[1])

			sum := make([]uint64, sz[0]+1)
			sum[sz[0]] = Add(sum, a, b)
			require.Zero(t, toBig(sum).Cmp(new(big.Int).Add(toBig(a), toBig(b))))

			// (a + b) - b = a
			diff := make([]uint64, sz[0]+1)
			require.Zero(t, Sub(diff, sum, b))
			require.Equal(t, a, diff[:sz[0]])
			require.Zero(t, diff[sz[0]])

			// in place
			c := append([]uint64{}, a...)
			carry := Add(c, c, b)
			require.Zero(t, Sub(c, c, b)-carry)
			require.Equal(t, a, c)
		}

		// equal operands give zero
		a := randNat(src, 9)
		z := make([]uint64, 9)
		require.Zero(t, SubN(z, a, a))
		require.True(t, IsZero(z))

		// zero-length operands
		require.Zero(t, AddN(nil, nil, nil))
		require.Zero(t, SubN(nil, nil, nil))
		out := make([]uint64, 3)
		require.Zero(t, Add(out, []uint64{1, 2, 3}, nil))
		require.Equal(t, []uint64{1, 2, 3}, out)

		// carry and borrow propagation
		m := []uint64{^uint64(0), ^uint64(0)}
		require.Equal(t, uint64(1), Add1(out[:2], m, 1))
		require.Equal(t, []uint64{0, 0}, out[:2])
		require.Equal(t, uint64(1), Sub1(out[:2], out[:2], 1))
		require.Equal(t, m, out[:2])

		require.Panics(t, func() { Add(out, []uint64{1}, []uint64{1, 2}) })
		require.Panics(t, func() { Sub(out, []uint64{1}, []uint64{1, 2}) })
	})
}

func testMul1(t *testing.T, src *sampling.Source) {

	t.Run("Mul1AddMul1SubMul1", func(t *testing.T) {
		for i := 0; i < 16; i++ {
			a := randNat(src, 11)
			s := src.Uint64()
			S := new(big.Int).SetUint64(s)

			out := make([]uint64, 12)
			out[11] = Mul1(out, a, s)
			require.Zero(t, toBig(out).Cmp(new(big.Int).Mul(toBig(a), S)))

			acc := randNat(src, 11)
			want := new(big.Int).Add(toBig(acc), new(big.Int).Mul(toBig(a), S))
			acc = append(acc, 0)
			acc[11] = AddMul1(acc[:11], a, s)
			require.Zero(t, toBig(acc).Cmp(want))

			// undo the accumulation
			require.Equal(t, acc[11], SubMul1(acc[:11], a, s))
		}
	})
}

func testMul(t *testing.T, src *sampling.Source, na, nb int) {

	t.Run(testString("Mul", na, nb), func(t *testing.T) {
		a, b := randNat(src, na), randNat(src, nb)
		out := make([]uint64, na+nb)
		top := Mul(out, a, b)
		require.Equal(t, out[na+nb-1], top)
		require.Zero(t, toBig(out).Cmp(new(big.Int).Mul(toBig(a), toBig(b))))

		sq := make([]uint64, 2*na)
		Sqr(sq, a)
		require.Zero(t, toBig(sq).Cmp(new(big.Int).Mul(toBig(a), toBig(a))))

		if na == nb {
			outN := make([]uint64, 2*na)
			MulN(outN, a, b)
			require.Equal(t, out, outN)
		} else {
			require.Panics(t, func() { MulN(make([]uint64, na+nb), a, b) })
		}
	})
}

func testDivQR(t *testing.T, src *sampling.Source, na, nb int) {

	t.Run(testString("DivQR", na, nb), func(t *testing.T) {

		// a*b / a = b and a*b / b = a
		a, b := randNat(src, na), randNat(src, nb)
		prod := make([]uint64, na+nb)
		Mul(prod, a, b)

		n := append([]uint64{}, prod...)
		q := make([]uint64, na+nb-na+1)
		DivQR(q, n, a)
		require.True(t, IsZero(n))
		require.Zero(t, CmpN(q, b))

		n = append([]uint64{}, prod...)
		q = make([]uint64, na+1)
		DivQR(q, n, b)
		require.True(t, IsZero(n))
		require.Zero(t, CmpN(q, a))

		// with a non-zero remainder
		r := randNat(src, nb)
		if CmpN(r, b) >= 0 {
			r[nb-1] = b[nb-1] - 1
			if nb == 1 && r[0] >= b[0] {
				r[0] = b[0] - 1
			}
		}
		n = append([]uint64{}, prod...)
		Add(n, n, r)
		want := new(big.Int).Add(toBig(prod), toBig(r))
		wq, wr := new(big.Int).QuoRem(want, toBig(b), new(big.Int))

		q = make([]uint64, na+1)
		DivQR(q, n, b)
		require.Zero(t, toBig(q).Cmp(wq))
		require.Zero(t, toBig(n).Cmp(wr))
	})
}

func testDivQR1(t *testing.T, src *sampling.Source) {

	t.Run("DivQR1", func(t *testing.T) {
		for _, d := range []uint64{1, 2, 1 << 20, 1 << 63, 3, 7681, 1<<63 + 29, ^uint64(0)} {
			n := randNat(src, 9)
			q := make([]uint64, 9)
			r := DivQR1(q, n, d)
			wq, wr := new(big.Int).QuoRem(toBig(n), new(big.Int).SetUint64(d), new(big.Int))
			require.Zero(t, toBig(q).Cmp(wq), d)
			require.Equal(t, wr.Uint64(), r, d)
			require.Equal(t, r, ModQR1(n, d))
		}
		require.Zero(t, DivQR1(nil, nil, 3))
		require.Panics(t, func() { DivQR1(nil, []uint64{1}, 0) })
	})

	t.Run("DivRem1", func(t *testing.T) {
		// 1/3 in fixed point: 0x5555... fractional limbs
		q := make([]uint64, 3)
		r := DivRem1(q, 2, []uint64{1}, 3)
		require.Equal(t, []uint64{0x5555555555555555, 0x5555555555555555, 0}, q)
		require.Equal(t, uint64(1), r)
	})
}

func testDivQR2(t *testing.T, src *sampling.Source) {

	t.Run("DivQR2", func(t *testing.T) {
		for i := 0; i < 32; i++ {
			d := [2]uint64{src.Uint64(), src.Uint64() >> uint(i)}
			if d[1] == 0 {
				d[1] = 1
			}
			n := randNat(src, 6)
			q := make([]uint64, 5)
			r1, r0 := DivQR2(q, n, d)
			wq, wr := new(big.Int).QuoRem(toBig(n), toBig(d[:]), new(big.Int))
			require.Zero(t, toBig(q).Cmp(wq))
			require.Zero(t, toBig([]uint64{r0, r1}).Cmp(wr))
		}
	})
}

func testRoundTripProperty(t *testing.T) {

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	nat := gen.SliceOfN(6, gen.UInt64())

	properties.Property("Mul then DivQR recovers the factor", prop.ForAll(
		func(a, b []uint64) bool {
			a = append([]uint64{}, a...)
			b = append([]uint64{}, b...)
			a[len(a)-1] |= 1
			b[len(b)-1] |= 1 << 40
			prod := make([]uint64, len(a)+len(b))
			Mul(prod, a, b)
			q := make([]uint64, len(a)+1)
			DivQR(q, prod, b)
			return IsZero(prod) && cmp.Equal(q[:len(a)], a) && q[len(a)] == 0
		},
		nat, nat,
	))

	properties.Property("Add then Sub is the identity", prop.ForAll(
		func(a, b []uint64) bool {
			out := make([]uint64, len(a))
			c := Add(out, a, b)
			return Sub(out, out, b) == c && cmp.Equal(out, a)
		},
		nat, nat,
	))

	properties.TestingRun(t)
}
