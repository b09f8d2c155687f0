package main

import (
	"context"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/tuneinsight/safecrypto/limb"
	"github.com/tuneinsight/safecrypto/poly"
	"github.com/tuneinsight/safecrypto/utils/sampling"
)

type mulFunc func(out, a, b []uint64, mod *limb.Mod) int

type gcdFunc func(g, a, b []uint64, mod *limb.Mod) int

var tuneMul = []struct {
	name string
	f    mulFunc
}{
	{"gradeschool", poly.MulGradeschool},
	{"karatsuba", poly.MulKaratsuba},
	{"kronecker", poly.MulKronecker},
	{"ks4", poly.MulKS4},
}

var tuneGCD = []struct {
	name string
	f    gcdFunc
}{
	{"euclidean", poly.GCDEuclidean},
	{"halfgcd", poly.GCDHalfGCD},
}

// crossovers lists the (faster, slower) backend pairs whose switch point is
// reported: the smaller backend is replaced by the larger one from there on.
var crossovers = [][2]string{
	{"karatsuba", "gradeschool"},
	{"kronecker", "karatsuba"},
	{"ks4", "kronecker"},
	{"halfgcd", "euclidean"},
}

// Timing summarizes the repeated runs of one backend, in nanoseconds.
type Timing struct {
	Median float64 `yaml:"median_ns"`
	P90    float64 `yaml:"p90_ns"`
	StdDev float64 `yaml:"stddev_ns"`
}

// LengthTiming holds the timings of every backend at one length.
type LengthTiming struct {
	Length  int               `yaml:"length"`
	Backend map[string]Timing `yaml:"backends"`
}

// ModulusTiming is the sweep of one modulus.
type ModulusTiming struct {
	Modulus    uint64         `yaml:"modulus"`
	Bits       int            `yaml:"bits"`
	Lengths    []LengthTiming `yaml:"lengths"`
	Crossovers map[string]int `yaml:"crossovers,omitempty"`
}

// TuneReport is the output of the tune command.
type TuneReport struct {
	Seed    string          `yaml:"seed"`
	Repeats int             `yaml:"repeats"`
	Moduli  []ModulusTiming `yaml:"moduli"`
}

func newTuneCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tune",
		Short: "Time the multiplication and gcd backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			log := newLogger(flags.LogLevel)

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			report, err := Tune(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			return writeReport(cmd.OutOrStdout(), flags.Output, report)
		},
	}
}

// Tune times every backend over the configured moduli and lengths.
func Tune(ctx context.Context, cfg Config, log zerolog.Logger) (report TuneReport, err error) {

	cfg = cfg.seeded()

	primes, err := cfg.Primes()
	if err != nil {
		return
	}

	report.Seed = cfg.Seed
	report.Repeats = cfg.Repeats

	lengths := slices.Clone(cfg.Lengths)
	slices.Sort(lengths)

	for _, m := range primes {

		var source *sampling.Source
		if source, err = cfg.newSeededSource(m); err != nil {
			return
		}

		mod := limb.NewMod(m)

		mt := ModulusTiming{
			Modulus: m,
			Bits:    int(mod.BNorm()),
		}

		for _, n := range lengths {

			if err = ctx.Err(); err != nil {
				return
			}

			var lt LengthTiming
			if lt, err = tuneLength(source, n, cfg.Repeats, mod); err != nil {
				return
			}

			log.Debug().Uint64("modulus", m).Int("length", n).Msg("timed")

			mt.Lengths = append(mt.Lengths, lt)
		}

		mt.Crossovers = findCrossovers(mt.Lengths)

		log.Info().
			Uint64("modulus", m).
			Interface("crossovers", mt.Crossovers).
			Msg("modulus done")

		report.Moduli = append(report.Moduli, mt)
	}

	return
}

func tuneLength(source *sampling.Source, n, repeats int, mod *limb.Mod) (lt LengthTiming, err error) {

	m := mod.Modulus()

	a := make([]uint64, n)
	b := make([]uint64, n)
	source.UniformNonZeroTop(a, m)
	source.UniformNonZeroTop(b, m)

	lt.Length = n
	lt.Backend = map[string]Timing{}

	out := make([]uint64, 2*n-1)
	for _, backend := range tuneMul {
		if lt.Backend[backend.name], err = timeRuns(repeats, func() {
			backend.f(out, a, b, mod)
		}); err != nil {
			return
		}
	}

	g := make([]uint64, n)
	for _, backend := range tuneGCD {
		if lt.Backend[backend.name], err = timeRuns(repeats, func() {
			backend.f(g, a, b, mod)
		}); err != nil {
			return
		}
	}

	return
}

// timeRuns runs f once to warm up, then repeats times, and summarizes the
// measured durations.
func timeRuns(repeats int, f func()) (t Timing, err error) {

	f()

	samples := make(stats.Float64Data, repeats)
	for i := range samples {
		start := time.Now()
		f()
		samples[i] = float64(time.Since(start).Nanoseconds())
	}

	if t.Median, err = stats.Median(samples); err != nil {
		return t, fmt.Errorf("stats.Median: %w", err)
	}

	t.P90 = t.Median
	if len(samples) > 1 {
		if t.P90, err = stats.Percentile(samples, 90); err != nil {
			return t, fmt.Errorf("stats.Percentile: %w", err)
		}
	}

	if t.StdDev, err = stats.StandardDeviation(samples); err != nil {
		return t, fmt.Errorf("stats.StandardDeviation: %w", err)
	}

	return
}

// findCrossovers returns, for each backend pair, the smallest measured
// length from which the faster backend has the lower median at every larger
// measured length. Pairs that never cross are omitted.
func findCrossovers(lengths []LengthTiming) map[string]int {

	res := map[string]int{}

	for _, pair := range crossovers {

		at := 0
		for i := len(lengths) - 1; i >= 0; i-- {
			fast, ok0 := lengths[i].Backend[pair[0]]
			slow, ok1 := lengths[i].Backend[pair[1]]
			if !ok0 || !ok1 || fast.Median >= slow.Median {
				break
			}
			at = lengths[i].Length
		}

		if at != 0 {
			res[pair[0]] = at
		}
	}

	return res
}
