package sampling_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/safecrypto/utils/sampling"
)

var testKey = []byte{0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07, 0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
	0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98}

func Test_PRNG(t *testing.T) {

	t.Run("KeyedPRNG", func(t *testing.T) {

		Ha, err := sampling.NewKeyedPRNG(testKey)
		require.NoError(t, err)
		Hb, err := sampling.NewKeyedPRNG(testKey)
		require.NoError(t, err)

		sum0 := make([]byte, 512)
		sum1 := make([]byte, 512)

		for i := 0; i < 128; i++ {
			_, err = Hb.Read(sum1)
			require.NoError(t, err)
		}

		Hb.Reset()

		_, err = Ha.Read(sum0)
		require.NoError(t, err)
		_, err = Hb.Read(sum1)
		require.NoError(t, err)

		require.Equal(t, sum0, sum1)
		require.Equal(t, testKey, Ha.Key())
	})

	t.Run("Blake3PRNG", func(t *testing.T) {

		Ha, err := sampling.NewBlake3PRNG(testKey)
		require.NoError(t, err)
		Hb, err := sampling.NewBlake3PRNG(testKey)
		require.NoError(t, err)
		Hc, err := sampling.NewBlake3PRNG(testKey[1:])
		require.NoError(t, err)

		sum0 := make([]byte, 256)
		sum1 := make([]byte, 256)
		sum2 := make([]byte, 256)

		_, err = Hb.Read(sum1)
		require.NoError(t, err)
		Hb.Reset()

		_, err = Ha.Read(sum0)
		require.NoError(t, err)
		_, err = Hb.Read(sum1)
		require.NoError(t, err)
		_, err = Hc.Read(sum2)
		require.NoError(t, err)

		require.Equal(t, sum0, sum1)
		require.NotEqual(t, sum0, sum2)
	})

	t.Run("Source", func(t *testing.T) {

		sa, err := sampling.NewKeyedSource(testKey)
		require.NoError(t, err)
		sb, err := sampling.NewKeyedSource(testKey)
		require.NoError(t, err)

		for i := 0; i < 64; i++ {
			require.Equal(t, sa.Uint32(), sb.Uint32())
			require.Equal(t, sa.Uint64(), sb.Uint64())
		}

		for _, n := range []uint64{1, 2, 3, 7681, 1 << 40, 1<<63 + 29} {
			for i := 0; i < 32; i++ {
				require.Less(t, sa.Uint64n(n), n)
			}
		}

		v := make([]uint64, 17)
		sa.UniformNonZeroTop(v, 12289)
		require.NotZero(t, v[16])
		for _, c := range v {
			require.Less(t, c, uint64(12289))
		}

		require.Panics(t, func() { sa.Uint64n(0) })
	})
}
