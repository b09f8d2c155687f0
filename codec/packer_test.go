package codec

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/safecrypto/utils/buffer"
)

func testString(opname string, bits int) string {
	return fmt.Sprintf("%s/bits=%d", opname, bits)
}

func TestPacker(t *testing.T) {

	t.Run("Capacity", func(t *testing.T) {
		require.Equal(t, 4096, NewPacker(4096, nil).Bits())
		require.Equal(t, 32, NewPacker(31, nil).Bits())
		require.Equal(t, 32, NewPacker(1, nil).Bits())
		require.Equal(t, 0, NewPacker(0, nil).Bits())
		require.Equal(t, 64, NewPackerFromBuffer(8, make([]byte, 5), nil).Bits())
	})

	t.Run(testString("Write", 1), func(t *testing.T) {
		p := NewPacker(1024, nil)
		for i := 0; i < 256; i++ {
			require.NoError(t, p.Write(uint32(i&1), 1))
		}
		require.Equal(t, bytes.Repeat([]byte{0x55}, 32), p.Buffer())
	})

	t.Run(testString("Write", 2), func(t *testing.T) {

		p := NewPacker(1024, nil)
		for i := 0; i < 256; i++ {
			require.NoError(t, p.Write(uint32(i&3), 2))
		}
		require.Equal(t, bytes.Repeat([]byte{0x1B}, 64), p.Buffer())

		// the stream restarts after Buffer
		for i := 0; i < 256; i++ {
			require.NoError(t, p.Write(uint32(i&1), 1))
		}
		require.Equal(t, bytes.Repeat([]byte{0x55}, 32), p.Buffer())
		require.Equal(t, 1024, p.Bits())
	})

	t.Run(testString("Read", 8), func(t *testing.T) {
		in := make([]byte, 128)
		for i := range in {
			in[i] = byte(i)
		}
		p := NewPackerFromBuffer(128*8, in, nil)
		require.Equal(t, 1024, p.Bits())
		for i := 0; i < 128; i++ {
			v, err := p.Read(8)
			require.NoError(t, err)
			require.Equal(t, uint32(i), v)
		}
		_, err := p.Read(1)
		require.True(t, errors.Is(err, ErrBufferEmpty))
	})

	for _, bits := range []int{1, 3, 5, 7, 13, 17, 31, 32} {
		t.Run(testString("RoundTrip", bits), func(t *testing.T) {

			p := NewPacker(128*bits, nil)
			mask := lowMask(uint(bits))
			for i := 0; i < 128; i++ {
				require.NoError(t, p.Write(uint32(i*0x9E3779B9), bits))
			}
			require.Equal(t, 128*bits, p.BitsIn())
			require.ErrorIs(t, p.Write(1, 1), ErrBufferFull)

			q := NewPackerFromBuffer(128*bits, p.Buffer(), nil)
			for i := 0; i < 128; i++ {
				v, err := q.Read(bits)
				require.NoError(t, err)
				require.Equal(t, uint32(i*0x9E3779B9)&mask, v)
			}
			require.Equal(t, 128*bits, q.BitsOut())
		})
	}

	t.Run("MixedWidths", func(t *testing.T) {

		widths := []int{0, 1, 32, 7, 25, 32, 32, 3, 29, 16, 16}

		p := NewPacker(512, nil)
		for i, w := range widths {
			require.NoError(t, p.Write(uint32(0xDEADBEEF)>>i, w))
		}
		p.Flush()

		for i, w := range widths {
			v, err := p.Read(w)
			require.NoError(t, err)
			require.Equal(t, (uint32(0xDEADBEEF)>>i)&lowMask(uint(w)), v, "symbol %d", i)
		}

		// padding up to the byte boundary
		require.Equal(t, 7, p.Available())
	})

	t.Run("Peek", func(t *testing.T) {

		p := NewPackerFromBuffer(0, []byte{0xA5, 0x0F, 0xF0, 0x3C, 0x81}, nil)

		v, err := p.Peek(12)
		require.NoError(t, err)
		require.Equal(t, uint32(0xA50), v)
		require.Equal(t, 0, p.BitsOut())

		v, err = p.Read(4)
		require.NoError(t, err)
		require.Equal(t, uint32(0xA), v)

		// across a word boundary
		_, err = p.Read(24)
		require.NoError(t, err)
		v, err = p.Peek(8)
		require.NoError(t, err)
		require.Equal(t, uint32(0xC8), v)

		_, err = p.Peek(13)
		require.ErrorIs(t, err, ErrBufferEmpty)
		require.Equal(t, 12, p.Available())
	})

	t.Run("InvalidBits", func(t *testing.T) {
		p := NewPacker(64, nil)
		require.ErrorIs(t, p.Write(0, 33), ErrInvalidBits)
		require.ErrorIs(t, p.Write(0, -1), ErrInvalidBits)
		_, err := p.Read(33)
		require.ErrorIs(t, err, ErrInvalidBits)
	})

	t.Run("IOCount", func(t *testing.T) {
		p := NewPacker(64, nil)
		require.NoError(t, p.Write(3, 2))
		require.NoError(t, p.Write(3, 9))
		p.Flush()
		_, err := p.Read(5)
		require.NoError(t, err)
		require.Equal(t, 11, p.BitsIn())
		require.Equal(t, 5, p.BitsOut())
		p.ResetIOCount()
		require.Zero(t, p.BitsIn())
		require.Zero(t, p.BitsOut())
	})

	t.Run("WriteToReadFrom", func(t *testing.T) {

		p := NewPacker(1000, nil)
		for i := 0; i < 100; i++ {
			require.NoError(t, p.Write(uint32(i), 9))
		}

		var sink bytes.Buffer
		n, err := p.WriteTo(&sink)
		require.NoError(t, err)
		require.Equal(t, int64(8+113), n)
		require.Equal(t, p.Bytes(), sink.Bytes()[8:])

		// through a fixed-size buffer.Buffer and into a smaller packer
		b := buffer.NewBufferSize(int(n))
		_, err = p.WriteTo(b)
		require.NoError(t, err)

		q := NewPacker(8, nil)
		m, err := q.ReadFrom(buffer.NewBuffer(b.Bytes()))
		require.NoError(t, err)
		require.Equal(t, n, m)
		require.GreaterOrEqual(t, q.Bits(), 900)

		for i := 0; i < 100; i++ {
			v, err := q.Read(9)
			require.NoError(t, err)
			require.Equal(t, uint32(i), v)
		}

		_, err = q.ReadFrom(bytes.NewReader(sink.Bytes()[:20]))
		require.Error(t, err)
	})
}
