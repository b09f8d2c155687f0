// Package codec implements the bit-level serialization of coefficient
// vectors: a big-endian bit packer over 32-bit words, raw fixed-width
// encoders with sign extension on decode, the raw codecs of BLISS signatures
// and keys, and order-0 Exp-Golomb codes.
//
// Codec functions return errors wrapping the sentinels below; the first
// failing symbol aborts the remaining ones and leaves the statistics
// untouched.
package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferFull is returned when a write exceeds the capacity of a Packer.
	ErrBufferFull = errors.New("packer buffer is full")
	// ErrBufferEmpty is returned when a read goes past the data of a Packer.
	ErrBufferEmpty = errors.New("packer buffer is empty")
	// ErrInvalidBits is returned for symbol widths outside [0, 32] or wider
	// than the coefficient type.
	ErrInvalidBits = errors.New("invalid number of bits")
	// ErrInvalidCode is returned when a bit stream does not hold a valid code.
	ErrInvalidCode = errors.New("invalid code")
)

// Field identifies the part of a structure a coded symbol belongs to.
type Field int

const (
	// FieldRaw counts the symbols of the generic raw encoders.
	FieldRaw = Field(iota)
	// FieldZ1 and FieldZ2 count the two signature components.
	FieldZ1
	FieldZ2
	// FieldF and FieldG count the two private key polynomials.
	FieldF
	FieldG
	// FieldPublicKey counts the public key polynomial.
	FieldPublicKey
	// FieldExpGolomb counts the Exp-Golomb coded symbols.
	FieldExpGolomb

	numFields = iota
)

var fieldNames = [numFields]string{"raw", "z1", "z2", "f", "g", "pk", "exp-golomb"}

// String implements fmt.Stringer.
func (f Field) String() string {
	if f < 0 || int(f) >= numFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Stats accumulates the number of bits coded per Field. The zero value is
// ready to use. Stats are an observation hook only and never affect coding.
type Stats struct {
	bits [numFields]int
}

// Add records n coded bits for f.
func (s *Stats) Add(f Field, n int) {
	if s != nil {
		s.bits[f] += n
	}
}

// Bits returns the number of bits recorded for f.
func (s *Stats) Bits(f Field) int {
	return s.bits[f]
}

// Total returns the number of bits recorded over all fields.
func (s *Stats) Total() (n int) {
	for _, b := range s.bits {
		n += b
	}
	return
}

// Reset clears all the counters.
func (s *Stats) Reset() {
	s.bits = [numFields]int{}
}

// Map returns the non-zero counters keyed by field name.
func (s *Stats) Map() map[string]int {
	m := make(map[string]int)
	for f, b := range s.bits {
		if b != 0 {
			m[Field(f).String()] = b
		}
	}
	return m
}

func checkBits(bits, max int) error {
	if bits < 0 || bits > max {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidBits, bits, max)
	}
	return nil
}
