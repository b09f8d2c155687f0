// Polytune measures the polynomial multiplication and gcd backends to place
// the algorithm switch points, and cross-checks the backends against each
// other on random inputs.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type rootFlags struct {
	ConfigFile string
	LogLevel   string
	Output     string
	PRNG       string
}

// loadConfig loads the configuration file and applies the flag overrides.
func (flags *rootFlags) loadConfig() (cfg Config, err error) {

	if cfg, err = LoadConfig(flags.ConfigFile); err != nil {
		return
	}

	if flags.PRNG != "" {
		cfg.PRNG = flags.PRNG
		err = cfg.Validate()
	}

	return
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:        colorable.NewColorable(os.Stderr),
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(writer).With().Timestamp().Logger().Level(lvl)
}

func newRootCommand() *cobra.Command {

	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "polytune",
		Short: "Tune and cross-check modular polynomial arithmetic",
		Long: `Polytune times the polynomial multiplication and gcd backends over a sweep
of moduli and lengths, and checks that every backend computes the same results.`,
		Example: `  # Time the backends with the default sweep
  polytune tune

  # Cross-check the backends on the moduli of a config file
  polytune check -c sweep.yaml --log-level debug`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "info", "logging level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.PRNG, "prng", "", "keyed generator expanding the seed (blake2b, blake3), overrides the config")
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "", "write the YAML report to this file instead of stdout")

	cmd.AddCommand(newTuneCommand(&flags), newCheckCommand(&flags))

	return cmd
}

// writeReport encodes report as YAML into the output file, or stdout.
func writeReport(out io.Writer, path string, report interface{}) (err error) {

	if path != "" {
		var f *os.File
		if f, err = os.Create(path); err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err = enc.Encode(report); err != nil {
		return fmt.Errorf("cannot encode report: %w", err)
	}
	return enc.Close()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
