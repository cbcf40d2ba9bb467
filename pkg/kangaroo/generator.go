package kangaroo

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

// Generator fills a precomputed table with tame walks.
type Generator struct {
	walker   *walker
	params   Params
	logger   zerolog.Logger
	progress func(size, target int)
}

// Run keeps exactly workers tame walks in flight until the table holds N
// entries, then cancels the remaining walks and returns the frozen table.
//
// A walk that ends on a distinguished point inserts it unless the key is
// already present; walks that hit the step limit or a provider error are
// discarded. Either way a replacement walk is started immediately.
func (g *Generator) Run(ctx context.Context, workers int) (*Table, Statistics, error) {
	table := NewTable(g.params.N)
	start := time.Now()

	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, egCtx := errgroup.WithContext(genCtx)
	eg.SetLimit(workers)

	var (
		statsMu   sync.Mutex
		total     Statistics
		walks     int64
		discarded int64
	)

	g.logger.Info().
		Str("group", g.walker.group.Name()).
		Str("params", g.params.String()).
		Int("workers", workers).
		Msg("Generating precomputed table")

	for !table.Full() && egCtx.Err() == nil {
		eg.Go(func() error {
			var local Statistics
			defer func() {
				statsMu.Lock()
				total.Merge(local)
				statsMu.Unlock()
			}()

			atomic.AddInt64(&walks, 1)
			inserted, size, err := g.tameWalk(egCtx, table, &local)
			if err != nil {
				atomic.AddInt64(&discarded, 1)
				g.logger.Debug().Err(err).Msg("Tame walk abandoned")
				return nil
			}
			if !inserted {
				return nil
			}
			if g.progress != nil {
				g.progress(size, g.params.N)
			}
			if size >= g.params.N {
				cancel()
			}
			return nil
		})
	}
	cancel()
	_ = eg.Wait()

	if !table.Full() {
		if err := ctx.Err(); err != nil {
			return nil, total, fmt.Errorf("table generation interrupted at %d/%d entries: %w", table.Len(), g.params.N, err)
		}
	}
	table.Freeze()

	g.logger.Info().
		Int("entries", table.Len()).
		Int64("walks", atomic.LoadInt64(&walks)).
		Int64("discarded", atomic.LoadInt64(&discarded)).
		Dur("elapsed", time.Since(start)).
		EmbedObject(total).
		Msg("Precomputed table ready")

	return table, total, nil
}

// tameWalk runs one walk from a random known log and inserts its
// distinguished point.
func (g *Generator) tameWalk(ctx context.Context, table *Table, stats *Statistics) (bool, int, error) {
	wlog, err := group.RandomBits(g.params.SecretSize)
	if err != nil {
		return false, 0, err
	}
	start, err := g.walker.group.ScalarBaseMult(wlog)
	stats.mulScalar()
	if err != nil {
		return false, 0, err
	}

	st := walkState{log: wlog, point: start}
	outcome, err := g.walker.run(ctx, &st, stats)
	if err != nil {
		return false, 0, err
	}
	if outcome != walkDistinguished {
		return false, 0, nil
	}

	inserted, size := table.Insert(st.point.Bytes(), st.log)
	if inserted {
		g.logger.Debug().Int("size", size).Msg("Distinguished point stored")
	}
	return inserted, size, nil
}
