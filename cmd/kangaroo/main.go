package main

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func preamble(cmd *cobra.Command, args []string) {
	log.Debug().
		Str("version", Version).
		Str("arch", runtime.GOARCH).
		Str("os", runtime.GOOS).
		Int("cpus", runtime.NumCPU()).
		Msg("Build Info")
}

const timeFormatMs = "2006-01-02T15:04:05.000Z07:00"
const timeFormatLocal = "2006-01-02 15:04:05.000"

func main() {
	// configure the logger.
	// pretty logs go to stderr so results on stdout stay machine readable.
	zerolog.TimeFieldFormat = timeFormatMs
	log.Logger = log.Output(zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = os.Stderr
		cw.TimeFormat = timeFormatLocal
		cw.NoColor = true
	}))

	if os.Getenv("DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var rootCmd = &cobra.Command{
		Use:              "kangaroo",
		Short:            "Pollard kangaroo solver for bounded discrete logarithms",
		Version:          Version,
		PersistentPreRun: preamble,
		SilenceUsage:     true,
	}
	opts := registerParamFlags(rootCmd)

	// commands:
	//
	// - generate: build a jump table and precomputed table, save it to a file or the store
	// - solve: recover one secret from its public point
	// - bench: solve a list of secrets and report timings
	// - secrets: write a binary secrets file for bench
	// - serve: run the table server
	// - params: print W suggestions for a range of alphas and tame counts
	registerGenerate(rootCmd, opts)
	registerSolve(rootCmd, opts)
	registerBench(rootCmd, opts)
	registerSecrets(rootCmd)
	registerServe(rootCmd)
	registerParams(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("An Error Occured")
		os.Exit(1)
	}
}
