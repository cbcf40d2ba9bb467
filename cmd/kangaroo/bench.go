package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/kangaroo/internal/parser"
	"github.com/mahdiidarabi/kangaroo/internal/progress"
	"github.com/mahdiidarabi/kangaroo/internal/secrets"
)

// benchSummary is written to stdout as JSON.
type benchSummary struct {
	Curve      string  `json:"curve"`
	Params     string  `json:"params"`
	Solved     int     `json:"solved"`
	Verified   int     `json:"verified"`
	Mismatched int     `json:"mismatched"`
	Mean       float64 `json:"meanSeconds"`
	Highest    float64 `json:"highestSeconds"`
	Lowest     float64 `json:"lowestSeconds"`
	MainOps    uint64  `json:"mainOps"`
}

func registerBench(rootCmd *cobra.Command, opts *paramOptions) {
	var source tableSource
	var secretsPath string
	var targetsPath string
	var timeout time.Duration

	var cmd = &cobra.Command{
		Use:   "bench",
		Short: "Solve a list of secrets and report timings",
		Long:  "Load or generate one table, solve every target in turn and report mean, highest and lowest solving time",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.group()
			if err != nil {
				return err
			}
			targets, err := loadTargets(secretsPath, targetsPath)
			if err != nil {
				return err
			}

			ctx, cancel := interruptible(timeout)
			defer cancel()

			k, err := source.load(ctx, opts)
			if err != nil {
				return err
			}

			summary := benchSummary{Curve: g.Name(), Params: opts.params.String()}
			var total float64
			bar := progress.Maybe(len(targets), 10, "bench ")
			bar.Start()
			for i, t := range targets {
				point, err := t.Point(g)
				if err != nil {
					return fmt.Errorf("target %d: %w", i, err)
				}
				report, err := k.SolveDLP(ctx, point, opts.workers, true)
				if err != nil {
					return fmt.Errorf("target %d: %w", i, err)
				}
				bar.Increment()

				secs := report.Seconds()
				summary.Solved++
				total += secs
				if summary.Solved == 1 || secs > summary.Highest {
					summary.Highest = secs
				}
				if summary.Solved == 1 || secs < summary.Lowest {
					summary.Lowest = secs
				}
				summary.MainOps += report.Statistics.MainOps()
				if report.Verify(g, point) {
					summary.Verified++
				}
				if t.Secret != nil && t.Secret.Cmp(report.Result.Big()) != 0 {
					summary.Mismatched++
					log.Warn().Int("target", i).Str("expected", t.Secret.String()).Str("got", report.Result.String()).Msg("Result differs from the known secret")
				}
				log.Info().Int("target", i).Float64("seconds", secs).Str("result", report.Result.String()).Msg("Solved target")
			}
			bar.Finish()
			if summary.Solved > 0 {
				summary.Mean = total / float64(summary.Solved)
			}

			log.Info().
				Float64("mean", summary.Mean).
				Float64("highest", summary.Highest).
				Float64("lowest", summary.Lowest).
				Msg("Benchmark finished")
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}

	source.register(cmd)
	cmd.Flags().StringVar(&secretsPath, "secrets", "", "Binary secrets file (see the secrets command)")
	cmd.Flags().StringVar(&targetsPath, "targets", "", "JSON or CSV target list with secret and/or public_key")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 = no limit)")
	rootCmd.AddCommand(cmd)
}

func loadTargets(secretsPath, targetsPath string) ([]*parser.Target, error) {
	switch {
	case secretsPath != "":
		values, err := secrets.ReadFile(secretsPath)
		if err != nil {
			return nil, err
		}
		targets := make([]*parser.Target, 0, len(values))
		for i, v := range values {
			// 0·G is the identity, which is not a valid target.
			if v.Sign() == 0 {
				log.Warn().Int("index", i).Msg("Skipping zero secret")
				continue
			}
			targets = append(targets, &parser.Target{Secret: v})
		}
		return targets, nil
	case targetsPath != "":
		if strings.EqualFold(filepath.Ext(targetsPath), ".csv") {
			return parser.ParseTargetsFromCSV(targetsPath, "", "")
		}
		return parser.ParseTargetsFromJSON(targetsPath, "", "")
	}
	return nil, errors.New("one of --secrets or --targets is required")
}
