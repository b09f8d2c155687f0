package sampling

import (
	"fmt"
	"io"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// PRNG is an interface for secure generation of random bytes.
type PRNG interface {
	io.Reader
}

// KeyedPRNG deterministically expands a key into a stream of bytes with the
// BLAKE2b XOF. Two KeyedPRNG with the same key produce the same stream, which
// makes randomized tests and benchmarks reproducible.
// WARNING: KeyedPRNG should NOT be called by multiple goroutines, the
// resulting sequence would not be deterministic for a given key.
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a new KeyedPRNG. A nil key is treated as an empty key.
// WARNING: A PRNG INITIALISED WITH key=nil IS INSECURE!
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	var err error
	prng := new(KeyedPRNG)
	prng.key = append([]byte{}, key...)
	if prng.xof, err = blake2b.NewXOF(blake2b.OutputLengthUnknown, key); err != nil {
		return nil, fmt.Errorf("cannot NewKeyedPRNG: %w", err)
	}
	return prng, nil
}

// Key returns a copy of the key used to seed the PRNG.
func (prng *KeyedPRNG) Key() (key []byte) {
	key = make([]byte, len(prng.key))
	copy(key, prng.key)
	return
}

// Read reads len(sum) bytes of the stream into sum.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.xof.Read(sum)
}

// Reset rewinds the PRNG to the start of its stream.
func (prng *KeyedPRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	prng.xof.Reset()
}

// Blake3PRNG is the BLAKE3 counterpart of KeyedPRNG: the key is absorbed once
// and the extendable output is read as the stream.
type Blake3PRNG struct {
	mutex  sync.Mutex
	key    []byte
	digest *blake3.Digest
}

// NewBlake3PRNG creates a new Blake3PRNG seeded with key.
func NewBlake3PRNG(key []byte) (*Blake3PRNG, error) {
	prng := &Blake3PRNG{key: append([]byte{}, key...)}
	prng.Reset()
	return prng, nil
}

// Read reads len(sum) bytes of the stream into sum.
func (prng *Blake3PRNG) Read(sum []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.digest.Read(sum)
}

// Reset rewinds the PRNG to the start of its stream.
func (prng *Blake3PRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	h := blake3.New()
	// Hasher.Write never returns an error
	_, _ = h.Write(prng.key)
	prng.digest = h.Digest()
}
