package kangaroo

import (
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

// maxJumpDraws bounds the retries for a single jump table entry.
const maxJumpDraws = 1024

// Jump is one jump table entry: Point = Log·G.
type Jump struct {
	Log   group.Scalar
	Point group.Point
}

// JumpTable holds the R precomputed jumps a walk chooses from. It is
// immutable once built and shared read-only by every walk.
type JumpTable struct {
	jumps []Jump
}

// NewJumpTable draws a fresh random jump table for the parameters.
//
// Each entry draws b with SecretSize-2 bits, sets bound = b / W and picks the
// jump log uniformly in [1, bound). Draws with bound < 2 are repeated, so a
// zero jump never occurs. An entry whose point fails validation or does not
// survive an encode/decode round trip is drawn again.
func NewJumpTable(g group.Group, p Params) (*JumpTable, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	w := new(big.Int).SetUint64(p.W)
	jumps := make([]Jump, p.R)
	for i := range jumps {
		jump, err := drawJump(g, p.SecretSize, w)
		if err != nil {
			return nil, fmt.Errorf("jump %d: %w", i, err)
		}
		jumps[i] = jump
	}
	return &JumpTable{jumps: jumps}, nil
}

func drawJump(g group.Group, secretSize int, w *big.Int) (Jump, error) {
	var lastErr error
	for attempt := 0; attempt < maxJumpDraws; attempt++ {
		b, err := group.RandomBits(secretSize - 2)
		if err != nil {
			return Jump{}, err
		}
		bound := new(big.Int).Div(b.Big(), w)
		if bound.Cmp(big.NewInt(2)) < 0 {
			continue
		}

		// slog = 1 + uniform[0, bound-1), i.e. uniform in [1, bound).
		r, err := group.RandomBelow(bound.Sub(bound, big.NewInt(1)))
		if err != nil {
			return Jump{}, err
		}
		slog, err := group.ScalarFromBig(new(big.Int).Add(r.Big(), big.NewInt(1)))
		if err != nil {
			return Jump{}, err
		}

		pt, err := g.ScalarBaseMult(slog)
		if err != nil {
			lastErr = err
			continue
		}
		if err := checkJumpPoint(g, pt); err != nil {
			lastErr = err
			continue
		}
		return Jump{Log: slog, Point: pt}, nil
	}
	if lastErr != nil {
		return Jump{}, fmt.Errorf("%w: %v", ErrDegenerateJump, lastErr)
	}
	return Jump{}, fmt.Errorf("%w: no usable bound after %d draws", ErrDegenerateJump, maxJumpDraws)
}

func checkJumpPoint(g group.Group, pt group.Point) error {
	if !g.IsValid(pt) {
		return group.ErrInvalidPoint
	}
	decoded, err := g.Decode(pt.Bytes())
	if err != nil {
		return err
	}
	if !decoded.Equal(pt) {
		return fmt.Errorf("%w: encoding does not round trip", group.ErrInvalidPoint)
	}
	return nil
}

// RestoreJumpTable rebuilds a jump table from persisted logs and points. It
// rejects zero jumps and entries where log·G differs from the stored point.
func RestoreJumpTable(g group.Group, logs []group.Scalar, points []group.Point) (*JumpTable, error) {
	if len(logs) != len(points) {
		return nil, fmt.Errorf("%w: %d logs for %d points", ErrInvalidJumpTable, len(logs), len(points))
	}
	if len(logs) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidJumpTable)
	}
	jumps := make([]Jump, len(logs))
	for i := range logs {
		if logs[i].IsZero() {
			return nil, fmt.Errorf("%w: jump %d is zero", ErrInvalidJumpTable, i)
		}
		expected, err := g.ScalarBaseMult(logs[i])
		if err != nil {
			return nil, fmt.Errorf("%w: jump %d: %v", ErrInvalidJumpTable, i, err)
		}
		if points[i] == nil || !expected.Equal(points[i]) {
			return nil, fmt.Errorf("%w: jump %d point does not match its log", ErrInvalidJumpTable, i)
		}
		jumps[i] = Jump{Log: logs[i], Point: expected}
	}
	return &JumpTable{jumps: jumps}, nil
}

// Len returns the number of jumps.
func (t *JumpTable) Len() int { return len(t.jumps) }

// At returns jump i.
func (t *JumpTable) At(i int) Jump { return t.jumps[i] }

// Jumps returns a copy of the entries.
func (t *JumpTable) Jumps() []Jump {
	out := make([]Jump, len(t.jumps))
	copy(out, t.jumps)
	return out
}
