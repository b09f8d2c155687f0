package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfig(t *testing.T) {

	t.Run("Default", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("File", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, "moduli: [251, 7681]\nlengths: [3, 9]\nrepeats: 2\n"))
		require.NoError(t, err)
		require.Equal(t, []uint64{251, 7681}, cfg.Moduli)
		require.Equal(t, []int{3, 9}, cfg.Lengths)
		require.Equal(t, 2, cfg.Repeats)
		// unset fields keep their default
		require.Equal(t, DefaultConfig().Seed, cfg.Seed)
		require.Equal(t, DefaultConfig().Bits, cfg.Bits)
		require.Equal(t, PRNGBlake2b, cfg.PRNG)
	})

	t.Run("PRNG", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, "prng: blake3\n"))
		require.NoError(t, err)
		require.Equal(t, PRNGBlake3, cfg.PRNG)

		// same seed, different expansion
		a, err := cfg.newSeededSource(7681)
		require.NoError(t, err)
		cfg.PRNG = PRNGBlake2b
		b, err := cfg.newSeededSource(7681)
		require.NoError(t, err)
		require.NotEqual(t, a.Uint64(), b.Uint64())
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
		require.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "lengths: {a: b}\n"))
		require.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		for name, cfg := range map[string]Config{
			"NoModulus":   {Lengths: []int{1}, Repeats: 1},
			"Composite":   {Moduli: []uint64{7681 * 3}, Lengths: []int{1}, Repeats: 1},
			"SmallBits":   {Bits: []int{2}, Lengths: []int{1}, Repeats: 1},
			"LargeBits":   {Bits: []int{65}, Lengths: []int{1}, Repeats: 1},
			"NoLength":    {Moduli: []uint64{251}, Repeats: 1},
			"ZeroLength":  {Moduli: []uint64{251}, Lengths: []int{0}, Repeats: 1},
			"NoRepeat":    {Moduli: []uint64{251}, Lengths: []int{1}},
			"UnknownPRNG": {Moduli: []uint64{251}, Lengths: []int{1}, Repeats: 1, PRNG: "md5"},
		} {
			require.Error(t, cfg.Validate(), name)
		}
	})

	t.Run("Primes", func(t *testing.T) {
		cfg := Config{Moduli: []uint64{7681}, Bits: []int{3, 8, 64}}
		primes, err := cfg.Primes()
		require.NoError(t, err)
		require.Equal(t, []uint64{7681, 5, 131, 0x800000000000001d}, primes)
	})
}
