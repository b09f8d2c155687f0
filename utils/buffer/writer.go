package buffer

import (
	"encoding/binary"
	"fmt"
)

// WriteUint32 writes c into w in big-endian order.
func WriteUint32(w Writer, c uint32) (n int64, err error) {

	if w.Available() < 4 {
		if err = w.Flush(); err != nil {
			return
		}

		if w.Available() < 4 {
			return 0, fmt.Errorf("cannot WriteUint32: less than 4 bytes available even after flush")
		}
	}

	buf := w.AvailableBuffer()[:4]
	binary.BigEndian.PutUint32(buf, c)
	nint, err := w.Write(buf)
	return int64(nint), err
}

// WriteUint64 writes c into w in big-endian order.
func WriteUint64(w Writer, c uint64) (n int64, err error) {

	if w.Available() < 8 {
		if err = w.Flush(); err != nil {
			return
		}

		if w.Available() < 8 {
			return 0, fmt.Errorf("cannot WriteUint64: less than 8 bytes available even after flush")
		}
	}

	buf := w.AvailableBuffer()[:8]
	binary.BigEndian.PutUint64(buf, c)
	nint, err := w.Write(buf)
	return int64(nint), err
}

// WriteBytes writes c into w, flushing w whenever its buffer is full.
func WriteBytes(w Writer, c []byte) (n int64, err error) {

	for len(c) > 0 {

		available := w.Available()

		if available == 0 {
			if err = w.Flush(); err != nil {
				return
			}

			if available = w.Available(); available == 0 {
				return n, fmt.Errorf("cannot WriteBytes: available buffer is zero even after flush")
			}
		}

		if available > len(c) {
			available = len(c)
		}

		var inc int
		if inc, err = w.Write(c[:available]); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)
		c = c[available:]
	}

	return
}
