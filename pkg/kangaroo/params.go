package kangaroo

import (
	"fmt"
	"math"
	"math/big"
)

// MaxSecretSize is the largest supported secret size in bits. It keeps every
// walk offset below the order of the smallest supported group.
const MaxSecretSize = 250

// Params holds the configuration shared by table generation and solving.
type Params struct {
	// N is the number of distinguished points stored in the table.
	N int
	// W is the expected walk length; a point is distinguished when the low
	// bits of its encoding masked by W-1 are all zero.
	W uint64
	// R is the number of jumps in the jump table.
	R int
	// SecretSize is the bit length of the secret range [0, 2^SecretSize).
	SecretSize int
}

// DefaultParams returns the configuration used by the original benchmarks
// for 32-bit secrets.
func DefaultParams() Params {
	return Params{
		N:          400,
		W:          63572,
		R:          128,
		SecretSize: 32,
	}
}

// Validate checks the parameters before any work starts.
func (p Params) Validate() error {
	if p.N <= 0 {
		return fmt.Errorf("%w: n must be positive, got %d", ErrInvalidParams, p.N)
	}
	if p.W < 2 {
		return fmt.Errorf("%w: w must be at least 2, got %d", ErrInvalidParams, p.W)
	}
	if p.R <= 0 {
		return fmt.Errorf("%w: r must be positive, got %d", ErrInvalidParams, p.R)
	}
	// The wild offset is drawn from SecretSize-8 bits.
	if p.SecretSize <= 8 || p.SecretSize > MaxSecretSize {
		return fmt.Errorf("%w: secret size must be in (8, %d], got %d", ErrInvalidParams, MaxSecretSize, p.SecretSize)
	}
	if p.maxJumpBound().Cmp(big.NewInt(2)) < 0 {
		return fmt.Errorf("%w: w=%d leaves no room for jumps with %d-bit secrets", ErrDegenerateJump, p.W, p.SecretSize)
	}
	return nil
}

// StepLimit is the number of steps after which a walk is abandoned.
func (p Params) StepLimit() uint64 {
	if p.W > math.MaxUint64/8 {
		return math.MaxUint64
	}
	return 8 * p.W
}

// maxJumpBound is the largest bound a jump draw can produce:
// (2^(SecretSize-2) - 1) / W.
func (p Params) maxJumpBound() *big.Int {
	b := new(big.Int).Lsh(big.NewInt(1), uint(p.SecretSize-2))
	b.Sub(b, big.NewInt(1))
	return b.Div(b, new(big.Int).SetUint64(p.W))
}

func (p Params) String() string {
	return fmt.Sprintf("n=%d w=%d r=%d secretSize=%d", p.N, p.W, p.R, p.SecretSize)
}

// SuggestW returns alpha·sqrt(2^secretSize / tames), the walk length
// heuristic used to pick W for a table of the given number of tame walks.
func SuggestW(alpha float64, secretSize int, tames int) uint64 {
	if tames <= 0 || alpha <= 0 {
		return 0
	}
	w := alpha * math.Sqrt(math.Exp2(float64(secretSize))/float64(tames))
	if w < 2 {
		return 2
	}
	if w >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(w)
}

// Linspace returns count evenly spaced values over [min, max].
func Linspace(min, max float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []float64{min}
	}
	values := make([]float64, count)
	for i := range values {
		values[i] = min + float64(i)*(max-min)/float64(count-1)
	}
	return values
}
