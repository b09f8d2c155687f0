// Package sampling implements secure and reproducible sampling of words and
// coefficient vectors.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/bits"
)

// RandUint64 return a random value between 0 and 0xFFFFFFFFFFFFFFFF.
func RandUint64() uint64 {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(b)
}

// Source draws words from a PRNG. It is the word-level capability consumed
// by code that needs randomness, in the form of Uint32 and Uint64 draws.
type Source struct {
	prng PRNG
	buf  [8]byte
}

// NewSource returns a Source reading from prng.
func NewSource(prng PRNG) *Source {
	return &Source{prng: prng}
}

// NewKeyedSource returns a Source backed by a KeyedPRNG seeded with key.
func NewKeyedSource(key []byte) (*Source, error) {
	prng, err := NewKeyedPRNG(key)
	if err != nil {
		return nil, err
	}
	return NewSource(prng), nil
}

func (s *Source) fill(n int) {
	if _, err := s.prng.Read(s.buf[:n]); err != nil {
		panic(fmt.Errorf("cannot read from PRNG: %w", err))
	}
}

// Uint32 returns a uniform 32-bit word.
func (s *Source) Uint32() uint32 {
	s.fill(4)
	return binary.LittleEndian.Uint32(s.buf[:4])
}

// Uint64 returns a uniform 64-bit word.
func (s *Source) Uint64() uint64 {
	s.fill(8)
	return binary.LittleEndian.Uint64(s.buf[:])
}

// Uint64n returns a uniform value in [0, n). Panics if n == 0.
func (s *Source) Uint64n(n uint64) uint64 {

	if n == 0 {
		panic("cannot Uint64n: n is zero")
	}

	if n&(n-1) == 0 {
		return s.Uint64() & (n - 1)
	}

	mask := ^uint64(0) >> uint(bits.LeadingZeros64(n))
	for {
		if x := s.Uint64() & mask; x < n {
			return x
		}
	}
}

// Uniform fills dst with uniform values in [0, m).
func (s *Source) Uniform(dst []uint64, m uint64) {
	for i := range dst {
		dst[i] = s.Uint64n(m)
	}
}

// UniformNonZeroTop fills dst with uniform values in [0, m) and forces the
// last element to be non-zero, so that len(dst) is the exact length of the
// polynomial represented by dst.
func (s *Source) UniformNonZeroTop(dst []uint64, m uint64) {
	s.Uniform(dst, m)
	if n := len(dst); n > 0 && m > 1 {
		dst[n-1] = 1 + s.Uint64n(m-1)
	}
}
