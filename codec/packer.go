package codec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tuneinsight/safecrypto/utils"
	"github.com/tuneinsight/safecrypto/utils/buffer"
)

// maxStreamBytes bounds the stream length accepted by ReadFrom.
const maxStreamBytes = 1 << 32

// Packer is a bit stream stored as big-endian 32-bit words. Bits are written
// most significant first through a one-word scratch register that is
// committed to the byte buffer when full, and read back the same way through
// an independent read register. The capacity is fixed at creation.
//
// A Packer is not safe for concurrent use.
type Packer struct {
	buf   []byte
	stats *Stats

	head     int
	wscratch uint32
	wfree    uint

	tail     int
	rscratch uint32
	ravail   uint

	bitsIn  int
	bitsOut int
}

// NewPacker returns an empty Packer able to hold maxBits bits, rounded up
// to a whole number of 32-bit words. stats may be nil.
func NewPacker(maxBits int, stats *Stats) *Packer {
	return &Packer{
		buf:   make([]byte, wordBytes((maxBits+7)>>3)),
		stats: stats,
		wfree: 32,
	}
}

// NewPackerFromBuffer returns a Packer holding a copy of in, ready to be
// read from. The capacity is the largest of maxBits and len(in) bytes.
func NewPackerFromBuffer(maxBits int, in []byte, stats *Stats) *Packer {
	n := (maxBits + 7) >> 3
	if len(in) > n {
		n = len(in)
	}
	p := &Packer{
		buf:   make([]byte, wordBytes(n)),
		stats: stats,
		head:  len(in),
		wfree: 32,
	}
	copy(p.buf, in)
	return p
}

// wordBytes rounds n up to a multiple of 4.
func wordBytes(n int) int {
	return (n + 3) &^ 3
}

// lowMask returns a word with its n lowest bits set, for n <= 32.
func lowMask(n uint) uint32 {
	return uint32(uint64(1)<<n - 1)
}

// Stats returns the statistics the codecs record on p, possibly nil.
func (p *Packer) Stats() *Stats {
	return p.stats
}

// Bits returns the capacity of p in bits.
func (p *Packer) Bits() int {
	return len(p.buf) << 3
}

// BitsIn returns the number of bits written since the last ResetIOCount.
func (p *Packer) BitsIn() int {
	return p.bitsIn
}

// BitsOut returns the number of bits read since the last ResetIOCount.
func (p *Packer) BitsOut() int {
	return p.bitsOut
}

// ResetIOCount resets the counters returned by BitsIn and BitsOut.
func (p *Packer) ResetIOCount() {
	p.bitsIn = 0
	p.bitsOut = 0
}

func (p *Packer) writePos() int {
	return p.head<<3 + 32 - int(p.wfree)
}

func (p *Packer) readPos() int {
	return p.tail<<3 - int(p.ravail)
}

// Available returns the number of committed bits that have not been read
// yet. Bits still held by the write register become available after Flush.
func (p *Packer) Available() int {
	return p.head<<3 - p.readPos()
}

// Write appends the bits lowest bits of value to the stream.
func (p *Packer) Write(value uint32, bits int) (err error) {

	if err = checkBits(bits, 32); err != nil {
		return fmt.Errorf("cannot Write: %w", err)
	}

	if bits == 0 {
		return
	}

	if p.writePos()+bits > p.Bits() {
		return fmt.Errorf("cannot Write %d bits: %w", bits, ErrBufferFull)
	}

	n := uint(bits)
	value &= lowMask(n)

	if n <= p.wfree {
		p.wfree -= n
		p.wscratch |= value << p.wfree
	} else {
		n -= p.wfree
		p.wscratch |= value >> n
		binary.BigEndian.PutUint32(p.buf[p.head:], p.wscratch)
		p.head += 4
		p.wfree = 32 - n
		p.wscratch = value << p.wfree
	}

	p.bitsIn += bits

	return
}

// Read consumes the next bits bits of the stream and returns them as the
// lowest bits of value.
func (p *Packer) Read(bits int) (value uint32, err error) {

	if err = checkBits(bits, 32); err != nil {
		return 0, fmt.Errorf("cannot Read: %w", err)
	}

	if bits == 0 {
		return
	}

	if p.readPos()+bits > p.head<<3 {
		return 0, fmt.Errorf("cannot Read %d bits: %w", bits, ErrBufferEmpty)
	}

	n := uint(bits)

	for {
		if p.ravail == 0 {
			p.rscratch = binary.BigEndian.Uint32(p.buf[p.tail:])
			p.tail += 4
			p.ravail = 32
		}

		if n <= p.ravail {
			p.ravail -= n
			value |= (p.rscratch >> p.ravail) & lowMask(n)
			break
		}

		n -= p.ravail
		value |= (p.rscratch & lowMask(p.ravail)) << n
		p.ravail = 0
	}

	p.bitsOut += bits

	return
}

// Peek returns the next bits bits of the stream without consuming them.
func (p *Packer) Peek(bits int) (value uint32, err error) {
	tail, scratch, avail, out := p.tail, p.rscratch, p.ravail, p.bitsOut
	value, err = p.Read(bits)
	p.tail, p.rscratch, p.ravail, p.bitsOut = tail, scratch, avail, out
	return
}

// Flush commits the bits held by the write register, padded with zeros to
// the next byte boundary.
func (p *Packer) Flush() {

	if p.wfree == 32 {
		return
	}

	var word [4]byte
	binary.BigEndian.PutUint32(word[:], p.wscratch)
	n := (32 - int(p.wfree) + 7) >> 3
	copy(p.buf[p.head:], word[:n])

	p.head += n
	p.wscratch = 0
	p.wfree = 32
}

// Bytes flushes p and returns the committed stream, which aliases the
// internal buffer of p.
func (p *Packer) Bytes() []byte {
	p.Flush()
	return p.buf[:p.head]
}

// Buffer flushes p and hands over the committed stream. p is then empty,
// with a new buffer of the same capacity.
func (p *Packer) Buffer() []byte {
	out := p.Bytes()
	p.buf = make([]byte, len(p.buf))
	p.head, p.tail = 0, 0
	p.rscratch, p.ravail = 0, 0
	return out
}

// WriteTo flushes p and writes the length of its stream in bytes, as a
// big-endian uint64, followed by the stream. It implements io.WriterTo.
//
// Unless w implements the buffer.Writer interface, it will be wrapped into
// a bufio.Writer.
func (p *Packer) WriteTo(w io.Writer) (n int64, err error) {

	switch w := w.(type) {
	case buffer.Writer:

		stream := p.Bytes()

		var inc int64
		if inc, err = buffer.WriteUint64(w, uint64(len(stream))); err != nil {
			return inc, fmt.Errorf("buffer.WriteUint64: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteBytes(w, stream); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteBytes: %w", err)
		}

		return n + inc, w.Flush()

	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom replaces the content of p with a stream written by WriteTo and
// rewinds p for reading. The capacity of p grows if needed. It implements
// io.ReaderFrom.
//
// Unless r implements the buffer.Reader interface, it will be wrapped into
// a bufio.Reader.
func (p *Packer) ReadFrom(r io.Reader) (n int64, err error) {

	switch r := r.(type) {
	case buffer.Reader:

		var size uint64

		var inc int64
		if inc, err = buffer.ReadUint64(r, &size); err != nil {
			return inc, fmt.Errorf("buffer.ReadUint64: %w", err)
		}

		n += inc

		if size > maxStreamBytes {
			return n, fmt.Errorf("cannot ReadFrom: stream of %d bytes exceeds %d", size, uint64(maxStreamBytes))
		}

		if need := wordBytes(int(size)); need > len(p.buf) {
			p.buf = make([]byte, need)
		} else {
			utils.ZeroSlice(p.buf)
		}

		if inc, err = buffer.ReadBytes(r, p.buf[:size]); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadBytes: %w", err)
		}

		p.head, p.tail = int(size), 0
		p.wscratch, p.wfree = 0, 32
		p.rscratch, p.ravail = 0, 0

		return n + inc, nil

	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}
