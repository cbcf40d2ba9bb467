package kangaroo

import (
	"context"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

type walkOutcome int

const (
	// walkDistinguished: the walk stopped on a distinguished point.
	walkDistinguished walkOutcome = iota
	// walkStepLimit: no distinguished point within the step limit.
	walkStepLimit
	// walkCancelled: the context was done before the walk finished.
	walkCancelled
)

// walkState is owned by a single worker for the duration of one walk.
type walkState struct {
	log   group.Scalar
	point group.Point
}

// walker runs the deterministic jump walk shared by tame and wild kangaroos.
type walker struct {
	group group.Group
	jumps *JumpTable
	rules Rules
	limit uint64
}

// run advances st until it reaches a distinguished point, the step limit or
// cancellation. The starting point itself is checked first. Provider errors
// are returned and the caller abandons the walk.
func (w *walker) run(ctx context.Context, st *walkState, stats *Statistics) (walkOutcome, error) {
	done := ctx.Done()
	for step := uint64(0); ; step++ {
		select {
		case <-done:
			return walkCancelled, nil
		default:
		}

		enc := st.point.Bytes()
		if w.rules.IsDistinguished(enc) {
			return walkDistinguished, nil
		}
		if step >= w.limit {
			return walkStepLimit, nil
		}

		jump := w.jumps.At(w.rules.Hash(enc))
		next, err := w.group.Add(st.point, jump.Point)
		stats.addPoint()
		if err != nil {
			return walkStepLimit, err
		}
		st.log = w.group.ScalarAdd(st.log, jump.Log)
		stats.addScalar()
		st.point = next
	}
}
