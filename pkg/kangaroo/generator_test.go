package kangaroo

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

func TestGenerateTableKeepsFirstWriterOnDuplicates(t *testing.T) {
	g := group.Ed25519()
	// Half of all points are distinguished and tame logs fit in 9 bits, so
	// walks keep landing on points the table already holds.
	p := Params{N: 128, W: 2, R: 8, SecretSize: 9}
	base := DefaultRules(p)

	var (
		mu    sync.Mutex
		hits  int
		seen  = map[string]bool{}
		rules = Rules{
			Hash: base.Hash,
			IsDistinguished: func(enc []byte) bool {
				if !base.IsDistinguished(enc) {
					return false
				}
				mu.Lock()
				hits++
				seen[string(enc)] = true
				mu.Unlock()
				return true
			},
		}
	)

	k, err := New(g, p, WithRules(rules))
	require.NoError(t, err)
	table, err := k.GenerateTable(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, p.N, table.Len())
	assert.True(t, table.Frozen())
	mu.Lock()
	duplicates := hits - len(seen)
	mu.Unlock()
	assert.Greater(t, duplicates, 0, "walks should have hit stored points again")

	for _, e := range table.Entries() {
		pt, err := g.ScalarBaseMult(e.Log)
		require.NoError(t, err)
		assert.Equal(t, e.Point, pt.Bytes())
	}
}

func TestGenerateTableKeepsPoolFull(t *testing.T) {
	const workers = 3
	g := group.Ed25519()
	p := Params{N: 24, W: 16, R: 16, SecretSize: 20}
	base := DefaultRules(p)

	// Every walk calls IsDistinguished once per step and never concurrently
	// with itself, so overlapping calls count walks in flight.
	var inFlight, peak int64
	rules := Rules{
		Hash: base.Hash,
		IsDistinguished: func(enc []byte) bool {
			n := atomic.AddInt64(&inFlight, 1)
			defer atomic.AddInt64(&inFlight, -1)
			for {
				old := atomic.LoadInt64(&peak)
				if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
					break
				}
			}
			time.Sleep(200 * time.Microsecond)
			return base.IsDistinguished(enc)
		},
	}

	k, err := New(g, p, WithRules(rules))
	require.NoError(t, err)
	table, err := k.GenerateTable(context.Background(), workers)
	require.NoError(t, err)

	assert.Equal(t, p.N, table.Len())
	assert.Equal(t, int64(workers), atomic.LoadInt64(&peak))
	assert.Zero(t, atomic.LoadInt64(&inFlight))
}
