package kangaroo

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

// Solver runs wild walks against a frozen precomputed table.
type Solver struct {
	walker *walker
	params Params
	table  *Table
	logger zerolog.Logger
}

// Solve starts workers wild walks from target + offset·G. Each walk that ends
// on a stored distinguished point yields candidate = stored log - offset,
// which is published only once candidate·G == target has been checked. The
// first published result cancels every other worker.
//
// Solve has no timeout of its own: if ctx never ends and the target is out of
// range it keeps searching.
func (s *Solver) Solve(ctx context.Context, target group.Point, workers int, enableStatistics bool) (*Report, error) {
	start := time.Now()

	solveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultChan := make(chan group.Scalar, 1)

	var (
		statsMu sync.Mutex
		total   Statistics
		walks   int64
	)

	s.logger.Info().
		Str("group", s.walker.group.Name()).
		Str("target", hexString(target.Bytes())).
		Int("workers", workers).
		Int("tableSize", s.table.Len()).
		Msg("Solving discrete logarithm")

	eg, egCtx := errgroup.WithContext(solveCtx)
	for i := 0; i < workers; i++ {
		workerID := i
		eg.Go(func() error {
			var local *Statistics
			if enableStatistics {
				local = &Statistics{}
				defer func() {
					statsMu.Lock()
					total.Merge(*local)
					statsMu.Unlock()
				}()
			}
			s.worker(egCtx, workerID, target, resultChan, cancel, &walks, local)
			return nil
		})
	}

	var (
		result group.Scalar
		found  bool
	)
	select {
	case result = <-resultChan:
		found = true
	case <-egCtx.Done():
		// A worker may have published right before cancellation.
		select {
		case result = <-resultChan:
			found = true
		default:
		}
	}
	cancel()
	_ = eg.Wait()

	elapsed := time.Since(start)
	if !found {
		return nil, ctx.Err()
	}

	report := &Report{
		Result:  result,
		Elapsed: elapsed,
		Walks:   uint64(atomic.LoadInt64(&walks)),
	}
	if enableStatistics {
		stats := total
		report.Statistics = &stats
	}

	event := s.logger.Info().
		Str("result", result.String()).
		Dur("elapsed", elapsed).
		Uint64("walks", report.Walks)
	if report.Statistics != nil {
		event = event.EmbedObject(*report.Statistics)
	}
	event.Msg("Discrete logarithm found")

	return report, nil
}

func (s *Solver) worker(
	ctx context.Context,
	workerID int,
	target group.Point,
	resultChan chan<- group.Scalar,
	cancel context.CancelFunc,
	walks *int64,
	stats *Statistics,
) {
	g := s.walker.group
	for ctx.Err() == nil {
		atomic.AddInt64(walks, 1)
		candidate, ok, err := s.wildWalk(ctx, target, stats)
		if err != nil {
			s.logger.Debug().Err(err).Int("worker", workerID).Msg("Wild walk abandoned")
			continue
		}
		if !ok {
			continue
		}

		check, err := g.ScalarBaseMult(candidate)
		stats.mulScalar()
		if err != nil || !check.Equal(target) {
			s.logger.Debug().Int("worker", workerID).Msg("Candidate failed verification")
			continue
		}

		select {
		case resultChan <- candidate:
			s.logger.Debug().Int("worker", workerID).Msg("Published verified result")
		default:
		}
		cancel()
		return
	}
}

// wildWalk returns a candidate log when the walk hits a stored point.
func (s *Solver) wildWalk(ctx context.Context, target group.Point, stats *Statistics) (group.Scalar, bool, error) {
	g := s.walker.group

	wdist, err := group.RandomBits(s.params.SecretSize - 8)
	if err != nil {
		return group.Scalar{}, false, err
	}
	offset, err := g.ScalarBaseMult(wdist)
	stats.mulScalar()
	if err != nil {
		return group.Scalar{}, false, err
	}
	start, err := g.Add(target, offset)
	stats.addPoint()
	if err != nil {
		return group.Scalar{}, false, err
	}

	st := walkState{log: wdist, point: start}
	outcome, err := s.walker.run(ctx, &st, stats)
	if err != nil || outcome != walkDistinguished {
		return group.Scalar{}, false, err
	}

	stored, ok := s.table.Lookup(st.point.Bytes())
	if !ok {
		return group.Scalar{}, false, nil
	}
	stats.subScalar()
	return g.ScalarSub(stored, st.log), true, nil
}
