package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadUint32 reads a big-endian uint32 from r into c.
func ReadUint32(r Reader, c *uint32) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint32: c is nil")
	}

	var bb [4]byte

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = binary.BigEndian.Uint32(bb[:])

	return int64(nint), nil
}

// ReadUint64 reads a big-endian uint64 from r into c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}

	var bb [8]byte

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = binary.BigEndian.Uint64(bb[:])

	return int64(nint), nil
}

// ReadBytes fills c from r, consuming the internal buffer of r chunk by chunk.
func ReadBytes(r Reader, c []byte) (n int64, err error) {

	for len(c) > 0 {

		size := r.Size()
		if size > len(c) {
			size = len(c)
		}

		var slice []byte
		if slice, err = r.Peek(size); len(slice) == 0 {
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return
		}

		copied := copy(c, slice)

		var inc int
		if inc, err = r.Discard(copied); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)
		c = c[copied:]
	}

	return n, nil
}
