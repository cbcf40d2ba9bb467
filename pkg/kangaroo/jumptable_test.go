package kangaroo

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

func TestNewJumpTable(t *testing.T) {
	p := testParams()
	for _, g := range []group.Group{group.Ed25519(), group.Secp256k1(), group.Ristretto255()} {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			jumps, err := NewJumpTable(g, p)
			require.NoError(t, err)
			require.Equal(t, p.R, jumps.Len())

			// Jump logs are below (2^(secretSize-2)-1)/W.
			limit := p.maxJumpBound()
			for i := 0; i < jumps.Len(); i++ {
				j := jumps.At(i)
				assert.False(t, j.Log.IsZero(), "jump %d is zero", i)
				assert.Equal(t, -1, j.Log.Big().Cmp(limit), "jump %d out of range", i)

				expected, err := g.ScalarBaseMult(j.Log)
				require.NoError(t, err)
				assert.True(t, expected.Equal(j.Point), "jump %d: slog·G != s", i)
			}
		})
	}
}

func TestNewJumpTableRejectsDegenerateParams(t *testing.T) {
	p := Params{N: 1, W: 1 << 20, R: 4, SecretSize: 20}
	_, err := NewJumpTable(group.Ed25519(), p)
	assert.ErrorIs(t, err, ErrDegenerateJump)
}

func TestRestoreJumpTable(t *testing.T) {
	g := group.Ed25519()
	jumps, err := NewJumpTable(g, testParams())
	require.NoError(t, err)

	logs := make([]group.Scalar, jumps.Len())
	points := make([]group.Point, jumps.Len())
	for i, j := range jumps.Jumps() {
		logs[i], points[i] = j.Log, j.Point
	}

	restored, err := RestoreJumpTable(g, logs, points)
	require.NoError(t, err)
	assert.Equal(t, jumps.Len(), restored.Len())

	t.Run("length mismatch", func(t *testing.T) {
		_, err := RestoreJumpTable(g, logs[1:], points)
		assert.ErrorIs(t, err, ErrInvalidJumpTable)
	})

	t.Run("zero jump", func(t *testing.T) {
		bad := append([]group.Scalar(nil), logs...)
		bad[0] = group.Scalar{}
		_, err := RestoreJumpTable(g, bad, points)
		assert.ErrorIs(t, err, ErrInvalidJumpTable)
	})

	t.Run("inconsistent jump", func(t *testing.T) {
		bad := append([]group.Scalar(nil), logs...)
		shifted, err := group.ScalarFromBig(new(big.Int).Add(bad[0].Big(), big.NewInt(1)))
		require.NoError(t, err)
		bad[0] = shifted
		_, err = RestoreJumpTable(g, bad, points)
		assert.ErrorIs(t, err, ErrInvalidJumpTable)
	})
}
