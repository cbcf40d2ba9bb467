package tablestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/kangaroo/pkg/kangaroo"
	"github.com/mahdiidarabi/kangaroo/pkg/tablefile"
)

func fakeRecord(curve string, n int) *tablefile.Record {
	rec := &tablefile.Record{
		Curve:      curve,
		W:          64,
		N:          n,
		SecretSize: 20,
		R:          2,
		S:          []string{"aa", "bb"},
		Slog:       []string{"01", "02"},
		Table:      []tablefile.Entry{{Point: "cc", Value: "03"}},
	}
	rec.Fingerprint = rec.ComputeFingerprint()
	return rec
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tables.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	rec := fakeRecord("ed25519", 10)
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, "ed25519", rec.Params())
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = s.Get(ctx, "secp256k1", rec.Params())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutReplaces(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	first := fakeRecord("ed25519", 10)
	require.NoError(t, s.Put(ctx, first))
	second := fakeRecord("ed25519", 10)
	second.Table = append(second.Table, tablefile.Entry{Point: "dd", Value: "04"})
	require.NoError(t, s.Put(ctx, second))

	got, err := s.Get(ctx, "ed25519", first.Params())
	require.NoError(t, err)
	assert.Len(t, got.Table, 2)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Put(ctx, fakeRecord("ed25519", 10)))
	require.NoError(t, s.Put(ctx, fakeRecord("secp256k1", 20)))

	metas, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)

	byCurve := map[string]Meta{}
	for _, m := range metas {
		byCurve[m.Curve] = m
	}
	assert.Equal(t, kangaroo.Params{N: 20, W: 64, R: 2, SecretSize: 20}, byCurve["secp256k1"].Params)
	assert.Equal(t, 1, byCurve["ed25519"].Entries)
	assert.NotEmpty(t, byCurve["ed25519"].Fingerprint)
}
