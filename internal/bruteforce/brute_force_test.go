package bruteforce

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

func target(t *testing.T, g group.Group, x uint64) group.Point {
	t.Helper()
	p, err := g.ScalarBaseMult(group.ScalarFromUint64(x))
	require.NoError(t, err)
	return p
}

func TestSearch(t *testing.T) {
	g := group.Ed25519()
	res, err := Search(context.Background(), g, target(t, g, 777), 12, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, group.ScalarFromUint64(777), res.Secret)
}

func TestSearchParallel(t *testing.T) {
	for _, g := range []group.Group{group.Ed25519(), group.Secp256k1(), group.Ristretto255()} {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			res, err := SearchParallel(context.Background(), g, target(t, g, 3001), 12, 4, zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, group.ScalarFromUint64(3001), res.Secret)
		})
	}
}

func TestSearchNotFound(t *testing.T) {
	g := group.Secp256k1()
	out := target(t, g, 5000)

	_, err := Search(context.Background(), g, out, 10, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = SearchParallel(context.Background(), g, out, 10, 3, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchRejectsHugeRange(t *testing.T) {
	g := group.Ed25519()
	_, err := SearchParallel(context.Background(), g, target(t, g, 1), 64, 1, zerolog.Nop())
	assert.Error(t, err)
}
