package kangaroo

import (
	"encoding/hex"
	"time"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

// Report is the outcome of a successful SolveDLP.
type Report struct {
	// Result is the recovered log, reduced modulo the group order.
	Result group.Scalar
	// Elapsed is the wall-clock solving time.
	Elapsed time.Duration
	// Walks is the number of wild walks started.
	Walks uint64
	// Statistics is nil unless statistics were enabled.
	Statistics *Statistics
}

// Seconds returns the elapsed time in seconds.
func (r *Report) Seconds() float64 {
	return r.Elapsed.Seconds()
}

// Verify reports whether Result·G equals target.
func (r *Report) Verify(g group.Group, target group.Point) bool {
	p, err := g.ScalarBaseMult(r.Result)
	if err != nil {
		return false
	}
	return p.Equal(target)
}

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}
