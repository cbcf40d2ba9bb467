package kangaroo

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

func TestTableFirstWriterWins(t *testing.T) {
	table := NewTable(4)

	ok, size := table.Insert([]byte("a"), group.ScalarFromUint64(1))
	assert.True(t, ok)
	assert.Equal(t, 1, size)

	ok, size = table.Insert([]byte("a"), group.ScalarFromUint64(2))
	assert.False(t, ok)
	assert.Equal(t, 1, size)

	v, found := table.Lookup([]byte("a"))
	assert.True(t, found)
	assert.Equal(t, group.ScalarFromUint64(1), v)
}

func TestTableLimitAndFreeze(t *testing.T) {
	table := NewTable(2)
	table.Insert([]byte("a"), group.ScalarFromUint64(1))
	table.Insert([]byte("b"), group.ScalarFromUint64(2))
	ok, size := table.Insert([]byte("c"), group.ScalarFromUint64(3))
	assert.False(t, ok)
	assert.Equal(t, 2, size)
	assert.True(t, table.Full())

	other := NewTable(5)
	other.Freeze()
	ok, _ = other.Insert([]byte("a"), group.ScalarFromUint64(1))
	assert.False(t, ok)
	assert.True(t, other.Frozen())
}

func TestTableConcurrentInserts(t *testing.T) {
	const limit = 100
	table := NewTable(limit)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				// Half the keys collide across workers.
				key := fmt.Sprintf("k%d", i*(w%2+1))
				if ok, _ := table.Insert([]byte(key), group.ScalarFromUint64(uint64(w))); ok {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}
		}(w)
	}
	wg.Wait()

	assert.LessOrEqual(t, table.Len(), limit)
	assert.Equal(t, table.Len(), accepted)
}

func TestTableEntriesSorted(t *testing.T) {
	table := NewTable(3)
	table.Insert([]byte("c"), group.ScalarFromUint64(3))
	table.Insert([]byte("a"), group.ScalarFromUint64(1))
	table.Insert([]byte("b"), group.ScalarFromUint64(2))

	entries := table.Entries()
	assert.Len(t, entries, 3)
	assert.Equal(t, []byte("a"), entries[0].Point)
	assert.Equal(t, []byte("c"), entries[2].Point)
}
