package bruteforce

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

// progressEvery is how many points are tested between progress logs.
const progressEvery = 1 << 20

// SearchParallel scans [0, 2^bits) using parallel workers. Worker i tests
// i+1, i+1+k, i+1+2k, ... by repeatedly adding k·G, where k is the number of
// workers.
//
// Args:
//   - ctx: Cancels the scan
//   - g: Group the target lives in
//   - target: Public point to solve for
//   - bits: Size of the range in bits
//   - numWorkers: Number of parallel workers (0 = auto-detect based on CPU cores)
//
// Returns:
//   - Result if found, ErrNotFound when the range is exhausted
func SearchParallel(
	ctx context.Context,
	g group.Group,
	target group.Point,
	bits int,
	numWorkers int,
	logger zerolog.Logger,
) (*Result, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}

	// Auto-detect number of workers if not specified
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	limit := rangeSize(bits).Uint64()
	if uint64(numWorkers) >= limit {
		numWorkers = 1
	}
	logger.Info().
		Str("group", g.Name()).
		Int("bits", bits).
		Int("workers", numWorkers).
		Msg("Starting brute-force scan")

	stride, err := g.ScalarBaseMult(group.ScalarFromUint64(uint64(numWorkers)))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultChan := make(chan group.Scalar, 1)
	var tested uint64

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker(searchCtx, g, target, stride, uint64(workerID+1), uint64(numWorkers), limit, resultChan, &tested, logger)
		}(i)
	}

	// Closes once every worker gave up, so an exhausted range is detected.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case secret := <-resultChan:
		cancel() // Cancel all workers
		<-done
		return &Result{Secret: secret, Tested: atomic.LoadUint64(&tested), Elapsed: time.Since(start)}, nil
	case <-done:
		select {
		case secret := <-resultChan:
			return &Result{Secret: secret, Tested: atomic.LoadUint64(&tested), Elapsed: time.Since(start)}, nil
		default:
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
}

// worker tests first, first+step, ... below limit.
func worker(
	ctx context.Context,
	g group.Group,
	target group.Point,
	stride group.Point,
	first, step, limit uint64,
	resultChan chan<- group.Scalar,
	tested *uint64,
	logger zerolog.Logger,
) {
	current, err := g.ScalarBaseMult(group.ScalarFromUint64(first))
	if err != nil {
		return
	}
	for x := first; x < limit; x += step {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if current.Equal(target) {
			select {
			case resultChan <- group.ScalarFromUint64(x):
			default:
			}
			return
		}

		// Progress reporting
		if n := atomic.AddUint64(tested, 1); n%progressEvery == 0 {
			logger.Debug().Uint64("tested", n).Msg("Brute-force progress")
		}

		current, err = g.Add(current, stride)
		if err != nil {
			return
		}
	}
}
