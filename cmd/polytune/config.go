package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tuneinsight/safecrypto/limb"
	"github.com/tuneinsight/safecrypto/utils/sampling"
)

// Config describes a sweep: the moduli, either given explicitly or as
// bit-sizes, and the polynomial lengths to run at each of them.
type Config struct {
	Moduli  []uint64 `yaml:"moduli,omitempty"`
	Bits    []int    `yaml:"bits,omitempty"`
	Lengths []int    `yaml:"lengths"`
	Repeats int      `yaml:"repeats"`
	Seed    string   `yaml:"seed"`
	PRNG    string   `yaml:"prng"`
}

// Names of the keyed generators that can expand the seed.
const (
	PRNGBlake2b = "blake2b"
	PRNGBlake3  = "blake3"
)

// DefaultConfig covers a small, an 8-bit and a full-word modulus across the
// multiplication and gcd switch points.
func DefaultConfig() Config {
	return Config{
		Moduli:  []uint64{7681},
		Bits:    []int{8, 64},
		Lengths: []int{4, 8, 16, 32, 64, 128, 256, 512},
		Repeats: 5,
		Seed:    "polytune",
		PRNG:    PRNGBlake2b,
	}
}

// LoadConfig reads a YAML configuration. Fields missing from the file keep
// their DefaultConfig value.
func LoadConfig(path string) (cfg Config, err error) {

	cfg = DefaultConfig()

	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration without resolving the moduli.
func (cfg Config) Validate() error {

	if len(cfg.Moduli)+len(cfg.Bits) == 0 {
		return errors.New("invalid config: no modulus")
	}

	for _, m := range cfg.Moduli {
		if !limb.IsPrime(m) {
			return fmt.Errorf("invalid config: modulus %d is not prime", m)
		}
	}

	for _, b := range cfg.Bits {
		if b < 3 || b > limb.Bits {
			return fmt.Errorf("invalid config: bit-size %d not in [3, %d]", b, limb.Bits)
		}
	}

	if len(cfg.Lengths) == 0 {
		return errors.New("invalid config: no length")
	}

	for _, n := range cfg.Lengths {
		if n < 1 {
			return fmt.Errorf("invalid config: length %d", n)
		}
	}

	if cfg.Repeats < 1 {
		return fmt.Errorf("invalid config: repeats=%d", cfg.Repeats)
	}

	switch cfg.PRNG {
	case PRNGBlake2b, PRNGBlake3:
	default:
		return fmt.Errorf("invalid config: unknown prng %q", cfg.PRNG)
	}

	return nil
}

// Primes returns the explicit moduli followed by the smallest prime of each
// requested bit-size.
func (cfg Config) Primes() ([]uint64, error) {

	primes := append([]uint64{}, cfg.Moduli...)

	for _, b := range cfg.Bits {
		p, err := limb.NextPrime(uint64(1) << (b - 1))
		if err != nil {
			return nil, err
		}
		primes = append(primes, p)
	}

	return primes, nil
}

// seeded returns cfg with a fresh random seed if none is set, so that the
// report always carries the seed reproducing the run.
func (cfg Config) seeded() Config {
	if cfg.Seed == "" {
		cfg.Seed = fmt.Sprintf("%016x", sampling.RandUint64())
	}
	return cfg
}

// newSeededSource derives the random source of one modulus from the seed,
// expanded by the configured generator.
func (cfg Config) newSeededSource(m uint64) (*sampling.Source, error) {

	key := make([]byte, len(cfg.Seed)+8)
	copy(key, cfg.Seed)
	binary.BigEndian.PutUint64(key[len(cfg.Seed):], m)

	if cfg.PRNG == PRNGBlake3 {
		prng, err := sampling.NewBlake3PRNG(key)
		if err != nil {
			return nil, err
		}
		return sampling.NewSource(prng), nil
	}

	return sampling.NewKeyedSource(key)
}
