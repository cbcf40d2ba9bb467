// Package tablefile reads and writes precomputed kangaroo tables.
//
// A Record carries the parameters, the jump table (s and slog) and the
// distinguished points with their logs. Points and scalars are hex strings:
// points use the group's canonical encoding, scalars the 32-byte
// little-endian encoding. Records are stored as JSON, compatible with the
// table upload service, or as CBOR.
package tablefile

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
	"github.com/mahdiidarabi/kangaroo/pkg/kangaroo"
)

// ErrCorruptRecord wraps every validation failure while loading a record.
var ErrCorruptRecord = errors.New("tablefile: corrupt table record")

// Record is the persisted form of a generated kangaroo instance.
type Record struct {
	Curve       string   `json:"curve"`
	W           uint64   `json:"w"`
	N           int      `json:"n"`
	SecretSize  int      `json:"secretSize"`
	R           int      `json:"r"`
	S           []string `json:"s"`
	Slog        []string `json:"slog"`
	Table       []Entry  `json:"table"`
	Fingerprint string   `json:"fingerprint,omitempty"`
}

// Entry is one distinguished point and its log.
type Entry struct {
	Point string `json:"point"`
	Value string `json:"value"`
}

// DefaultCurve is assumed for records without a curve, which is what the
// table upload service writes.
const DefaultCurve = "ed25519"

// CurveName returns the record's curve, DefaultCurve when it is empty.
func (r *Record) CurveName() string {
	if r.Curve == "" {
		return DefaultCurve
	}
	return r.Curve
}

// Params returns the record's parameters.
func (r *Record) Params() kangaroo.Params {
	return kangaroo.Params{N: r.N, W: r.W, R: r.R, SecretSize: r.SecretSize}
}

// FromKangaroo captures a kangaroo instance whose table has been generated.
func FromKangaroo(k *kangaroo.Kangaroo) (*Record, error) {
	table := k.Table()
	if table == nil {
		return nil, kangaroo.ErrTableNotReady
	}
	p := k.Params()
	rec := &Record{
		Curve:      k.Group().Name(),
		W:          p.W,
		N:          p.N,
		SecretSize: p.SecretSize,
		R:          p.R,
		S:          make([]string, 0, p.R),
		Slog:       make([]string, 0, p.R),
	}
	for _, j := range k.JumpTable().Jumps() {
		rec.S = append(rec.S, hex.EncodeToString(j.Point.Bytes()))
		rec.Slog = append(rec.Slog, j.Log.Hex())
	}
	entries := table.Entries()
	rec.Table = make([]Entry, len(entries))
	for i, e := range entries {
		rec.Table[i] = Entry{Point: hex.EncodeToString(e.Point), Value: e.Log.Hex()}
	}
	rec.Fingerprint = rec.ComputeFingerprint()
	return rec, nil
}

// Kangaroo validates the record and restores a ready-to-solve instance.
func (r *Record) Kangaroo(opts ...kangaroo.Option) (*kangaroo.Kangaroo, error) {
	g, err := group.ByName(r.CurveName())
	if err != nil {
		return nil, corrupt(err)
	}
	p := r.Params()
	if err := p.Validate(); err != nil {
		return nil, corrupt(err)
	}
	if r.Fingerprint != "" && r.Fingerprint != r.ComputeFingerprint() {
		return nil, corrupt(errors.New("fingerprint mismatch"))
	}

	jumps, err := r.jumpTable(g)
	if err != nil {
		return nil, err
	}
	table, err := r.table(g, kangaroo.DefaultRules(p))
	if err != nil {
		return nil, err
	}
	k, err := kangaroo.Restore(g, p, jumps, table, opts...)
	if err != nil {
		return nil, corrupt(err)
	}
	return k, nil
}

func (r *Record) jumpTable(g group.Group) (*kangaroo.JumpTable, error) {
	if len(r.S) != r.R {
		return nil, corrupt(fmt.Errorf("s has %d entries, r is %d", len(r.S), r.R))
	}
	if len(r.Slog) != r.R {
		return nil, corrupt(fmt.Errorf("slog has %d entries, r is %d", len(r.Slog), r.R))
	}
	logs := make([]group.Scalar, r.R)
	points := make([]group.Point, r.R)
	for i := 0; i < r.R; i++ {
		pt, err := decodePoint(g, r.S[i])
		if err != nil {
			return nil, corrupt(fmt.Errorf("s[%d]: %w", i, err))
		}
		log, err := group.ScalarFromHex(r.Slog[i])
		if err != nil {
			return nil, corrupt(fmt.Errorf("slog[%d]: %w", i, err))
		}
		points[i], logs[i] = pt, log
	}
	jumps, err := kangaroo.RestoreJumpTable(g, logs, points)
	if err != nil {
		return nil, corrupt(err)
	}
	return jumps, nil
}

func (r *Record) table(g group.Group, rules kangaroo.Rules) (*kangaroo.Table, error) {
	if len(r.Table) == 0 {
		return nil, corrupt(errors.New("empty table"))
	}
	if len(r.Table) > r.N {
		return nil, corrupt(fmt.Errorf("table has %d entries, n is %d", len(r.Table), r.N))
	}
	table := kangaroo.NewTable(r.N)
	for i, e := range r.Table {
		pt, err := decodePoint(g, e.Point)
		if err != nil {
			return nil, corrupt(fmt.Errorf("table[%d].point: %w", i, err))
		}
		if !rules.IsDistinguished(pt.Bytes()) {
			return nil, corrupt(fmt.Errorf("table[%d].point is not distinguished", i))
		}
		log, err := group.ScalarFromHex(e.Value)
		if err != nil {
			return nil, corrupt(fmt.Errorf("table[%d].value: %w", i, err))
		}
		if ok, _ := table.Insert(pt.Bytes(), log); !ok {
			return nil, corrupt(fmt.Errorf("table[%d].point is a duplicate", i))
		}
	}
	return table, nil
}

// VerifyEntries checks value·G == point for every table entry. It costs one
// scalar multiplication per entry, so loading does not do it by default.
func (r *Record) VerifyEntries() error {
	g, err := group.ByName(r.CurveName())
	if err != nil {
		return corrupt(err)
	}
	for i, e := range r.Table {
		want, err := decodePoint(g, e.Point)
		if err != nil {
			return corrupt(fmt.Errorf("table[%d].point: %w", i, err))
		}
		log, err := group.ScalarFromHex(e.Value)
		if err != nil {
			return corrupt(fmt.Errorf("table[%d].value: %w", i, err))
		}
		pt, err := g.ScalarBaseMult(log)
		if err != nil {
			return corrupt(fmt.Errorf("table[%d]: %w", i, err))
		}
		if !pt.Equal(want) {
			return corrupt(fmt.Errorf("table[%d].value is not the log of its point", i))
		}
	}
	return nil
}

func decodePoint(g group.Group, s string) (group.Point, error) {
	if len(s) != 2*g.PointSize() {
		return nil, fmt.Errorf("expected %d hex characters, got %d", 2*g.PointSize(), len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return g.Decode(b)
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %w", ErrCorruptRecord, err)
}
