package kangaroo

import (
	"sort"
	"sync"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

// Table maps distinguished point encodings to their discrete logs.
//
// Inserts are first-writer-wins: an existing key is never overwritten and the
// table never grows past its limit. After Freeze the table is read-only.
type Table struct {
	mu      sync.RWMutex
	entries map[string]group.Scalar
	limit   int
	frozen  bool
}

// TableEntry is one distinguished point and its log.
type TableEntry struct {
	Point []byte
	Log   group.Scalar
}

// NewTable returns an empty table holding at most limit entries.
func NewTable(limit int) *Table {
	return &Table{
		entries: make(map[string]group.Scalar, limit),
		limit:   limit,
	}
}

// Insert adds the entry if its key is absent and the table has room. It
// returns whether the entry was stored and the resulting size.
func (t *Table) Insert(enc []byte, log group.Scalar) (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen || len(t.entries) >= t.limit {
		return false, len(t.entries)
	}
	key := string(enc)
	if _, ok := t.entries[key]; ok {
		return false, len(t.entries)
	}
	t.entries[key] = log
	return true, len(t.entries)
}

// Lookup returns the log stored for an encoding.
func (t *Table) Lookup(enc []byte) (group.Scalar, bool) {
	t.mu.RLock()
	log, ok := t.entries[string(enc)]
	t.mu.RUnlock()
	return log, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Limit returns the maximum number of entries.
func (t *Table) Limit() int { return t.limit }

// Full reports whether the table reached its limit.
func (t *Table) Full() bool { return t.Len() >= t.limit }

// Freeze makes the table read-only.
func (t *Table) Freeze() {
	t.mu.Lock()
	t.frozen = true
	t.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (t *Table) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}

// Entries returns all entries sorted by encoding.
func (t *Table) Entries() []TableEntry {
	t.mu.RLock()
	out := make([]TableEntry, 0, len(t.entries))
	for k, v := range t.entries {
		out = append(out, TableEntry{Point: []byte(k), Log: v})
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return string(out[i].Point) < string(out[j].Point)
	})
	return out
}
