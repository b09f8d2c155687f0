package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/tuneinsight/safecrypto/codec"
	"github.com/tuneinsight/safecrypto/limb"
	"github.com/tuneinsight/safecrypto/poly"
	"github.com/tuneinsight/safecrypto/utils/sampling"
)

var checkMul = []struct {
	name string
	f    mulFunc
}{
	{"dispatch", poly.Mul},
	{"gradeschool", poly.MulGradeschool},
	{"karatsuba", poly.MulKaratsuba},
	{"kronecker", poly.MulKronecker},
	{"ks4", poly.MulKS4},
}

// ModulusCheck is the outcome of the checks run at one modulus. Digest is
// the BLAKE3 hash of every computed product, remainder, gcd and resultant,
// so that two runs with the same seed can be compared.
type ModulusCheck struct {
	Modulus  uint64   `yaml:"modulus"`
	Checks   int      `yaml:"checks"`
	Failures []string `yaml:"failures,omitempty"`
	Digest   string   `yaml:"digest"`
}

// CheckReport is the output of the check command.
type CheckReport struct {
	Seed   string         `yaml:"seed"`
	Passed bool           `yaml:"passed"`
	Moduli []ModulusCheck `yaml:"moduli"`
}

func newCheckCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Cross-check the arithmetic backends on random inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			log := newLogger(flags.LogLevel)

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			report, err := Check(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			if err = writeReport(cmd.OutOrStdout(), flags.Output, report); err != nil {
				return err
			}

			if !report.Passed {
				return errors.New("check failed")
			}

			return nil
		},
	}
}

// Check runs the cross-checks of every configured modulus concurrently, one
// goroutine per modulus. Failed checks are reported, not returned as errors.
func Check(ctx context.Context, cfg Config, log zerolog.Logger) (report CheckReport, err error) {

	cfg = cfg.seeded()

	primes, err := cfg.Primes()
	if err != nil {
		return
	}

	report.Seed = cfg.Seed
	report.Moduli = make([]ModulusCheck, len(primes))

	eg, ctx := errgroup.WithContext(ctx)

	for i := range primes {
		i := i
		eg.Go(func() (err error) {
			report.Moduli[i], err = checkModulus(ctx, cfg, primes[i], log.With().Uint64("modulus", primes[i]).Logger())
			return
		})
	}

	if err = eg.Wait(); err != nil {
		return
	}

	report.Passed = true
	for _, mc := range report.Moduli {
		if len(mc.Failures) != 0 {
			report.Passed = false
		}
	}

	return
}

// checker accumulates the results of the checks of one modulus.
type checker struct {
	mod    *limb.Mod
	source *sampling.Source
	hasher *blake3.Hasher
	log    zerolog.Logger

	checks   int
	failures []string
}

func (c *checker) require(ok bool, format string, args ...interface{}) {
	c.checks++
	if !ok {
		msg := fmt.Sprintf(format, args...)
		c.log.Error().Msg(msg)
		c.failures = append(c.failures, msg)
	}
}

// absorb packs the length and coefficients of a into a bit stream and feeds
// it to the digest.
func (c *checker) absorb(a []uint64) error {

	p := codec.NewPacker(64*(len(a)+1), nil)

	if err := writeUint64(p, uint64(len(a))); err != nil {
		return err
	}

	for _, v := range a {
		if err := writeUint64(p, v); err != nil {
			return err
		}
	}

	_, err := c.hasher.Write(p.Bytes())
	return err
}

func writeUint64(p *codec.Packer, v uint64) error {
	if err := p.Write(uint32(v>>32), 32); err != nil {
		return fmt.Errorf("codec.Packer.Write: %w", err)
	}
	if err := p.Write(uint32(v), 32); err != nil {
		return fmt.Errorf("codec.Packer.Write: %w", err)
	}
	return nil
}

func (c *checker) randPoly(n int) []uint64 {
	a := make([]uint64, n)
	c.source.UniformNonZeroTop(a, c.mod.Modulus())
	return a
}

func checkModulus(ctx context.Context, cfg Config, m uint64, log zerolog.Logger) (mc ModulusCheck, err error) {

	source, err := cfg.newSeededSource(m)
	if err != nil {
		return
	}

	c := &checker{
		mod:    limb.NewMod(m),
		source: source,
		hasher: blake3.New(),
		log:    log,
	}

	for _, n := range cfg.Lengths {
		for r := 0; r < cfg.Repeats; r++ {

			if err = ctx.Err(); err != nil {
				return
			}

			a := c.randPoly(n)
			b := c.randPoly(n/2 + 1)

			if err = c.checkMul(a, b); err != nil {
				return
			}

			if err = c.checkDivRem(a, b); err != nil {
				return
			}

			if err = c.checkXGCD(a, b); err != nil {
				return
			}

			if err = c.checkResultant(a, b); err != nil {
				return
			}
		}

		log.Debug().Int("length", n).Int("checks", c.checks).Msg("length done")
	}

	mc = ModulusCheck{
		Modulus:  m,
		Checks:   c.checks,
		Failures: c.failures,
		Digest:   hex.EncodeToString(c.hasher.Sum(nil)),
	}

	log.Info().Int("checks", mc.Checks).Int("failures", len(mc.Failures)).Str("digest", mc.Digest).Msg("modulus done")

	return
}

// checkMul checks that every multiplication backend computes the same product.
func (c *checker) checkMul(a, b []uint64) error {

	want := make([]uint64, len(a)+len(b)-1)
	poly.MulGradeschool(want, a, b, c.mod)

	out := make([]uint64, len(want))
	for _, backend := range checkMul {
		poly.Reset(out)
		backend.f(out, a, b, c.mod)
		c.require(poly.Equal(out, want), "mul: %s differs from gradeschool at lengths %d x %d", backend.name, len(a), len(b))
	}

	return c.absorb(want)
}

// checkDivRem checks a = q*b + r with deg(r) < deg(b).
func (c *checker) checkDivRem(a, b []uint64) error {

	q := make([]uint64, len(a))
	r := make([]uint64, len(a))

	lenQ, lenR := poly.DivRem(q, r, a, b, c.mod)

	c.require(poly.Degree(r[:lenR]) < poly.Degree(b), "divrem: deg(r)=%d >= deg(b)=%d", poly.Degree(r[:lenR]), poly.Degree(b))

	qb := make([]uint64, len(a)+len(b))
	if lenQ > 0 {
		poly.Mul(qb, q[:lenQ], b, c.mod)
	}
	poly.Add(qb, qb, r[:lenR], c.mod)

	c.require(poly.Equal(qb, a), "divrem: q*b + r != a at lengths %d / %d", len(a), len(b))

	if err := c.absorb(q[:lenQ]); err != nil {
		return err
	}

	return c.absorb(r[:lenR])
}

// checkXGCD checks that the Euclidean and Half-GCD extended gcd agree and
// satisfy the Bezout identity, on a and b and on a common multiple of both.
func (c *checker) checkXGCD(a, b []uint64) error {

	if err := c.checkXGCDPair(a, b); err != nil {
		return err
	}

	f := c.randPoly(3)
	af := make([]uint64, len(a)+len(f)-1)
	bf := make([]uint64, len(b)+len(f)-1)
	poly.Mul(af, a, f, c.mod)
	poly.Mul(bf, b, f, c.mod)

	return c.checkXGCDPair(af, bf)
}

func (c *checker) checkXGCDPair(a, b []uint64) error {

	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	var g [2][]uint64
	for i, xgcd := range []func(g, x, y, a, b []uint64, mod *limb.Mod) int{poly.XGCDEuclidean, poly.XGCDHalfGCD} {

		gi := make([]uint64, n)
		x := make([]uint64, n)
		y := make([]uint64, n)

		lenG := xgcd(gi, x, y, a, b, c.mod)
		g[i] = gi[:lenG]

		ax := make([]uint64, len(a)+n)
		by := make([]uint64, len(b)+n)
		poly.Mul(ax, a, x, c.mod)
		poly.Mul(by, b, y, c.mod)
		poly.Add(ax, ax, by, c.mod)

		c.require(poly.Equal(ax, g[i]), "xgcd: a*x + b*y != g at lengths %d, %d", len(a), len(b))
	}

	c.require(poly.Equal(g[0], g[1]), "xgcd: euclidean and half-gcd disagree at lengths %d, %d", len(a), len(b))

	return c.absorb(g[0])
}

// checkResultant checks that the Euclidean and Half-GCD resultants agree and
// that the resultant vanishes exactly when the gcd is not constant.
func (c *checker) checkResultant(a, b []uint64) error {

	r0 := poly.ResultantEuclidean(a, b, c.mod)
	r1 := poly.ResultantHalfGCD(a, b, c.mod)

	c.require(r0 == r1, "resultant: euclidean %d and half-gcd %d disagree at lengths %d, %d", r0, r1, len(a), len(b))

	g := make([]uint64, len(a))
	lenG := poly.GCD(g, a, b, c.mod)

	c.require((r0 == 0) == (lenG > 1), "resultant: res=%d with gcd of degree %d", r0, lenG-1)

	return c.absorb([]uint64{r0})
}
