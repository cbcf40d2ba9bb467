// Package kangaroo implements Pollard's kangaroo (lambda) method for discrete
// logarithms in a bounded range.
//
// A Kangaroo instance owns a jump table and a table of distinguished points.
// GenerateTable fills the table with tame walks started from random known
// logs; SolveDLP then runs wild walks started from the target until one lands
// on a stored distinguished point, and returns the verified log.
//
//	k, err := kangaroo.New(group.Ed25519(), kangaroo.DefaultParams())
//	if err != nil { ... }
//	if _, err := k.GenerateTable(ctx, 0); err != nil { ... }
//	report, err := k.SolveDLP(ctx, target, 0, true)
package kangaroo

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

var (
	// ErrInvalidParams is returned for unusable parameters.
	ErrInvalidParams = errors.New("kangaroo: invalid parameters")
	// ErrDegenerateJump is returned when the parameters cannot yield a
	// non-zero jump.
	ErrDegenerateJump = errors.New("kangaroo: degenerate jump bound")
	// ErrInvalidJumpTable is returned when restoring an inconsistent jump table.
	ErrInvalidJumpTable = errors.New("kangaroo: invalid jump table")
	// ErrTableNotReady is returned by SolveDLP before a table was generated or
	// restored.
	ErrTableNotReady = errors.New("kangaroo: precomputed table not ready")
	// ErrInvalidTarget is returned for a target outside the group.
	ErrInvalidTarget = errors.New("kangaroo: invalid target point")
)

// Option configures a Kangaroo.
type Option func(*Kangaroo)

// WithLogger sets the logger used for progress and walk diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(k *Kangaroo) { k.logger = logger }
}

// WithProgress registers a callback invoked after every table insert with the
// current and target table sizes. It may be called from several goroutines.
func WithProgress(fn func(size, target int)) Option {
	return func(k *Kangaroo) { k.progress = fn }
}

// WithRules replaces the default masking rules.
func WithRules(rules Rules) Option {
	return func(k *Kangaroo) { k.rules = rules }
}

// Kangaroo is a configured solver for one group and parameter set.
type Kangaroo struct {
	group    group.Group
	params   Params
	jumps    *JumpTable
	rules    Rules
	logger   zerolog.Logger
	progress func(size, target int)

	mu       sync.Mutex
	table    *Table
	genStats Statistics
}

// New validates the parameters and draws a fresh jump table. The precomputed
// table starts empty; call GenerateTable before solving.
func New(g group.Group, p Params, opts ...Option) (*Kangaroo, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	jumps, err := NewJumpTable(g, p)
	if err != nil {
		return nil, fmt.Errorf("failed to build jump table: %w", err)
	}
	return newKangaroo(g, p, jumps, nil, opts), nil
}

// Restore builds an instance around a persisted jump table and precomputed
// table. The table is frozen.
func Restore(g group.Group, p Params, jumps *JumpTable, table *Table, opts ...Option) (*Kangaroo, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if jumps == nil || jumps.Len() != p.R {
		return nil, fmt.Errorf("%w: expected %d jumps", ErrInvalidJumpTable, p.R)
	}
	if table == nil || table.Len() == 0 {
		return nil, ErrTableNotReady
	}
	table.Freeze()
	return newKangaroo(g, p, jumps, table, opts), nil
}

func newKangaroo(g group.Group, p Params, jumps *JumpTable, table *Table, opts []Option) *Kangaroo {
	k := &Kangaroo{
		group:  g,
		params: p,
		jumps:  jumps,
		rules:  DefaultRules(p),
		logger: zerolog.Nop(),
		table:  table,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Group returns the group the instance works in.
func (k *Kangaroo) Group() group.Group { return k.group }

// Params returns the parameters.
func (k *Kangaroo) Params() Params { return k.params }

// JumpTable returns the jump table.
func (k *Kangaroo) JumpTable() *JumpTable { return k.jumps }

// Rules returns the walk rules.
func (k *Kangaroo) Rules() Rules { return k.rules }

// Table returns the precomputed table, or nil before generation.
func (k *Kangaroo) Table() *Table {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.table
}

// GenerationStatistics returns the operations spent by the last GenerateTable.
func (k *Kangaroo) GenerationStatistics() Statistics {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.genStats
}

// GenerateTable runs tame walks on the given number of workers until the
// table holds N distinguished points. workers <= 0 uses one worker per CPU.
func (k *Kangaroo) GenerateTable(ctx context.Context, workers int) (*Table, error) {
	gen := &Generator{
		walker:   k.walker(),
		params:   k.params,
		logger:   k.logger,
		progress: k.progress,
	}
	table, stats, err := gen.Run(ctx, resolveWorkers(workers))
	if err != nil {
		return nil, err
	}

	k.mu.Lock()
	k.table = table
	k.genStats = stats
	k.mu.Unlock()
	return table, nil
}

// SolveDLP recovers x with x·G == target using wild walks on the given number
// of workers. It only returns once a verified result is found or ctx is done.
func (k *Kangaroo) SolveDLP(ctx context.Context, target group.Point, workers int, enableStatistics bool) (*Report, error) {
	table := k.Table()
	if table == nil || !table.Frozen() || table.Len() == 0 {
		return nil, ErrTableNotReady
	}
	if target == nil || !k.group.IsValid(target) {
		return nil, ErrInvalidTarget
	}
	solver := &Solver{
		walker: k.walker(),
		params: k.params,
		table:  table,
		logger: k.logger,
	}
	return solver.Solve(ctx, target, resolveWorkers(workers), enableStatistics)
}

func (k *Kangaroo) walker() *walker {
	return &walker{
		group: k.group,
		jumps: k.jumps,
		rules: k.rules,
		limit: k.params.StepLimit(),
	}
}

func resolveWorkers(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}
