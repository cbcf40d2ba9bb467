package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/kangaroo/internal/progress"
	"github.com/mahdiidarabi/kangaroo/internal/tablestore"
	"github.com/mahdiidarabi/kangaroo/pkg/group"
	"github.com/mahdiidarabi/kangaroo/pkg/kangaroo"
	"github.com/mahdiidarabi/kangaroo/pkg/tablefile"
)

// paramOptions are the flags shared by every command that needs a table.
type paramOptions struct {
	curve   string
	params  kangaroo.Params
	workers int
}

func registerParamFlags(rootCmd *cobra.Command) *paramOptions {
	opts := &paramOptions{params: kangaroo.DefaultParams()}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.curve, "curve", "ed25519", fmt.Sprintf("Group to work in %v", group.Names()))
	flags.IntVar(&opts.params.N, "n", opts.params.N, "Number of distinguished points in the table")
	flags.Uint64Var(&opts.params.W, "w", opts.params.W, "Walk length; distinguished points satisfy enc & (w-1) == 0")
	flags.IntVar(&opts.params.R, "r", opts.params.R, "Number of jumps in the jump table")
	flags.IntVar(&opts.params.SecretSize, "secret-size", opts.params.SecretSize, "Secret size in bits")
	flags.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect based on CPU cores)")
	return opts
}

func (o *paramOptions) group() (group.Group, error) {
	return group.ByName(o.curve)
}

// tableSource says where a table comes from: a file, the store, or a fresh
// generation.
type tableSource struct {
	tablePath string
	storePath string
	verify    bool
}

func (s *tableSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.tablePath, "table", "", "Load the table from a .json or .cbor file")
	cmd.Flags().StringVar(&s.storePath, "store", "", "SQLite table store; missing tables are generated and saved")
	cmd.Flags().BoolVar(&s.verify, "verify-table", false, "Check every loaded table entry with a scalar multiplication")
}

// load returns a solver-ready kangaroo instance.
func (s *tableSource) load(ctx context.Context, opts *paramOptions) (*kangaroo.Kangaroo, error) {
	if s.tablePath != "" {
		rec, err := tablefile.Load(s.tablePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", s.tablePath).Str("params", rec.Params().String()).Msg("Loaded table file")
		return s.restore(rec)
	}

	if s.storePath != "" {
		store, err := tablestore.Open(s.storePath, log.Logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		rec, err := store.Get(ctx, opts.curve, opts.params)
		if err == nil {
			log.Info().Str("store", s.storePath).Str("params", rec.Params().String()).Msg("Loaded table from store")
			return s.restore(rec)
		}
		if !errors.Is(err, tablestore.ErrNotFound) {
			return nil, err
		}
		k, err := generate(ctx, opts)
		if err != nil {
			return nil, err
		}
		rec, err = tablefile.FromKangaroo(k)
		if err != nil {
			return nil, err
		}
		if err := store.Put(ctx, rec); err != nil {
			return nil, err
		}
		return k, nil
	}

	return generate(ctx, opts)
}

func (s *tableSource) restore(rec *tablefile.Record) (*kangaroo.Kangaroo, error) {
	if s.verify {
		if err := rec.VerifyEntries(); err != nil {
			return nil, err
		}
	}
	return rec.Kangaroo(kangaroo.WithLogger(log.Logger))
}

// generate builds a fresh instance and its table, drawing a progress bar for
// large tables.
func generate(ctx context.Context, opts *paramOptions) (*kangaroo.Kangaroo, error) {
	g, err := opts.group()
	if err != nil {
		return nil, err
	}
	bar := progress.Maybe(opts.params.N, 1000, "table ")
	k, err := kangaroo.New(g, opts.params,
		kangaroo.WithLogger(log.Logger),
		kangaroo.WithProgress(func(size, target int) { bar.SetCurrent(size) }),
	)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	bar.Start()
	_, err = k.GenerateTable(ctx, opts.workers)
	bar.Finish()
	if err != nil {
		return nil, err
	}
	log.Info().
		Dur("elapsed", time.Since(start)).
		EmbedObject(k.GenerationStatistics()).
		Msg("Table generated")
	return k, nil
}

// interruptible returns a context cancelled on SIGINT, with an optional
// timeout.
func interruptible(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if timeout <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	return tctx, func() {
		cancel()
		stop()
	}
}
