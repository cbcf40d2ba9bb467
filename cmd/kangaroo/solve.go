package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/kangaroo/internal/bruteforce"
	"github.com/mahdiidarabi/kangaroo/pkg/group"
	"github.com/mahdiidarabi/kangaroo/pkg/kangaroo"
)

// solveOutput is written to stdout as JSON.
type solveOutput struct {
	Method     string               `json:"method"`
	Curve      string               `json:"curve"`
	PublicKey  string               `json:"publicKey"`
	Secret     string               `json:"secret"`
	Seconds    float64              `json:"seconds"`
	Verified   bool                 `json:"verified"`
	Walks      uint64               `json:"walks,omitempty"`
	Statistics *kangaroo.Statistics `json:"statistics,omitempty"`
}

func registerSolve(rootCmd *cobra.Command, opts *paramOptions) {
	var source tableSource
	var publicKeyHex string
	var secretStr string
	var method string
	var stats bool
	var timeout time.Duration

	var cmd = &cobra.Command{
		Use:   "solve",
		Short: "Recover a secret from its public point",
		Long:  "Solve x·G = Q for a secret x below 2^secret-size, with the kangaroo method or a brute-force scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptible(timeout)
			defer cancel()

			out := solveOutput{Method: method}

			switch method {
			case "kangaroo":
				k, target, err := loadSolver(ctx, &source, opts, publicKeyHex, secretStr)
				if err != nil {
					return err
				}
				g := k.Group()
				out.Curve = g.Name()
				out.PublicKey = fmt.Sprintf("%x", target.Bytes())
				report, err := k.SolveDLP(ctx, target, opts.workers, stats)
				if err != nil {
					return err
				}
				out.Secret = report.Result.String()
				out.Seconds = report.Seconds()
				out.Verified = report.Verify(g, target)
				out.Walks = report.Walks
				out.Statistics = report.Statistics
			case "bruteforce":
				g, err := opts.group()
				if err != nil {
					return err
				}
				target, err := resolveTarget(g, publicKeyHex, secretStr)
				if err != nil {
					return err
				}
				out.Curve = g.Name()
				out.PublicKey = fmt.Sprintf("%x", target.Bytes())
				res, err := bruteforce.SearchParallel(ctx, g, target, opts.params.SecretSize, opts.workers, log.Logger)
				if err != nil {
					return err
				}
				check, err := g.ScalarBaseMult(res.Secret)
				out.Secret = res.Secret.String()
				out.Seconds = res.Elapsed.Seconds()
				out.Verified = err == nil && check.Equal(target)
			default:
				return fmt.Errorf("unknown method %q (kangaroo or bruteforce)", method)
			}

			log.Info().Str("secret", out.Secret).Float64("seconds", out.Seconds).Bool("verified", out.Verified).Msg("Solved")
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	source.register(cmd)
	cmd.Flags().StringVar(&publicKeyHex, "public-key", "", "Target point in hex (canonical encoding of the chosen curve)")
	cmd.Flags().StringVar(&secretStr, "secret", "", "Derive the target from this secret (decimal or 0x hex)")
	cmd.Flags().StringVar(&method, "method", "kangaroo", "Solving method: kangaroo or bruteforce")
	cmd.Flags().BoolVar(&stats, "stats", false, "Collect operation statistics")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 = no limit)")
	rootCmd.AddCommand(cmd)
}

// loadSolver loads the table first and decodes the target in the table's
// group, which may differ from --curve when --table is given.
func loadSolver(ctx context.Context, source *tableSource, opts *paramOptions, publicKeyHex, secretStr string) (*kangaroo.Kangaroo, group.Point, error) {
	k, err := source.load(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	if name := k.Group().Name(); name != opts.curve {
		log.Warn().Str("flag", opts.curve).Str("table", name).Msg("Table curve overrides --curve")
	}
	target, err := resolveTarget(k.Group(), publicKeyHex, secretStr)
	if err != nil {
		return nil, nil, fmt.Errorf("target is not a %s point: %w", k.Group().Name(), err)
	}
	return k, target, nil
}

func resolveTarget(g group.Group, publicKeyHex, secretStr string) (group.Point, error) {
	if publicKeyHex != "" {
		return group.DecodeHex(g, publicKeyHex)
	}
	if secretStr == "" {
		return nil, errors.New("one of --public-key or --secret is required")
	}
	secret, err := group.ParseScalar(secretStr)
	if err != nil {
		return nil, err
	}
	return g.ScalarBaseMult(secret)
}
