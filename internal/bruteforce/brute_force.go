// Package bruteforce is the linear-scan baseline the kangaroo solver is
// measured against. It is only practical for small secret sizes.
package bruteforce

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

// ErrNotFound is returned when the whole range was scanned without a match.
var ErrNotFound = errors.New("bruteforce: secret not in range")

// MaxBits caps the range a scan accepts.
const MaxBits = 48

// Result contains the result of a brute-force search
type Result struct {
	Secret  group.Scalar
	Tested  uint64
	Elapsed time.Duration
}

// Search scans [0, 2^bits) sequentially for x with x·G == target.
//
// Args:
//   - ctx: Cancels the scan
//   - g: Group the target lives in
//   - target: Public point to solve for
//   - bits: Size of the range in bits
//
// Returns:
//   - Result if found, ErrNotFound when the range is exhausted
func Search(ctx context.Context, g group.Group, target group.Point, bits int, logger zerolog.Logger) (*Result, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	start := time.Now()
	limit := uint64(1) << uint(bits)

	// x = 0 gives the identity, which is never a valid target.
	one, err := g.ScalarBaseMult(group.ScalarFromUint64(1))
	if err != nil {
		return nil, err
	}
	current := one
	for x := uint64(1); x < limit; x++ {
		if x&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if current.Equal(target) {
			logger.Debug().Uint64("secret", x).Msg("Found secret")
			return &Result{Secret: group.ScalarFromUint64(x), Tested: x, Elapsed: time.Since(start)}, nil
		}
		current, err = g.Add(current, one)
		if err != nil {
			return nil, fmt.Errorf("scan stopped at %d: %w", x, err)
		}
	}
	return nil, ErrNotFound
}

func checkBits(bits int) error {
	if bits <= 0 || bits > MaxBits {
		return fmt.Errorf("bruteforce: range of %d bits not supported (max %d)", bits, MaxBits)
	}
	return nil
}

func rangeSize(bits int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(bits))
}
