package kangaroo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	cases := []struct {
		name   string
		mutate func(*Params)
		err    error
	}{
		{"zero n", func(p *Params) { p.N = 0 }, ErrInvalidParams},
		{"w below two", func(p *Params) { p.W = 1 }, ErrInvalidParams},
		{"zero r", func(p *Params) { p.R = 0 }, ErrInvalidParams},
		{"tiny secret", func(p *Params) { p.SecretSize = 8 }, ErrInvalidParams},
		{"huge secret", func(p *Params) { p.SecretSize = 256 }, ErrInvalidParams},
		{"degenerate bound", func(p *Params) { p.SecretSize = 16; p.W = 1 << 14 }, ErrDegenerateJump},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			assert.ErrorIs(t, p.Validate(), tc.err)
		})
	}
}

func TestStepLimit(t *testing.T) {
	assert.Equal(t, uint64(8*63572), DefaultParams().StepLimit())
}

func TestSuggestW(t *testing.T) {
	// sqrt(2^32 / 65536) = 256
	assert.Equal(t, uint64(256), SuggestW(1, 32, 65536))
	assert.Equal(t, uint64(128), SuggestW(0.5, 32, 65536))
	assert.Equal(t, uint64(0), SuggestW(1, 32, 0))
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0.1, 0.8, 1.5}, roundAll(Linspace(0.1, 1.5, 3)))
	assert.Equal(t, []float64{4}, Linspace(4, 64, 1))
	assert.Nil(t, Linspace(0, 1, 0))
}

func roundAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(int(v*1000+0.5)) / 1000
	}
	return out
}
