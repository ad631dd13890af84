package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

const (
	appName = "econcycle"
	version = "v1.2.0"
)

var configPath string

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Economic indicator crawler and cycle scorer",
		Version: version,
		Long: `econcycle collects scheduled economic releases, market series, and
statistical API data, derives latest/next/history release records, scores
the macro, credit, and sentiment cycles, and produces cached daily
briefings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().AddFlagSet(globalFlags())

	rootCmd.AddCommand(newCrawlCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newBriefingCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		// Failures leave a machine-readable envelope on stdout and the
		// human-readable log line on stderr.
		_ = json.NewEncoder(os.Stdout).Encode(schema.Envelope(err))
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// globalFlags holds the flags shared by every subcommand.
func globalFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Path to YAML config (empty uses built-in defaults)")
	return fs
}

// emitJSON renders a command result on stdout.
func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
