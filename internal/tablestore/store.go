// Package tablestore keeps generated table records in SQLite, keyed by curve
// and parameters.
package tablestore

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import go-sqlite3 library
	"github.com/rs/zerolog"

	"github.com/mahdiidarabi/kangaroo/pkg/kangaroo"
	"github.com/mahdiidarabi/kangaroo/pkg/tablefile"
)

// ErrNotFound is returned by Get when no record matches.
var ErrNotFound = errors.New("table not found")

// Meta describes a stored record without its payload.
type Meta struct {
	Curve       string          `json:"curve"`
	Params      kangaroo.Params `json:"params"`
	Entries     int             `json:"entries"`
	Fingerprint string          `json:"fingerprint"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Store is backed by SQLite. Records are stored CBOR-encoded.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens or creates the database at path.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tables (
			curve TEXT NOT NULL,
			w INTEGER NOT NULL,
			n INTEGER NOT NULL,
			secret_size INTEGER NOT NULL,
			r INTEGER NOT NULL,
			entries INTEGER NOT NULL,
			fingerprint TEXT NOT NULL,
			created_at INTEGER NOT NULL, -- unix timestamp in seconds
			payload BLOB NOT NULL,
			PRIMARY KEY (curve, w, n, secret_size, r)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a record, replacing any record with the same curve and
// parameters.
func (s *Store) Put(ctx context.Context, rec *tablefile.Record) error {
	var buf bytes.Buffer
	if err := tablefile.Encode(&buf, rec, tablefile.FormatCBOR); err != nil {
		return err
	}
	fingerprint := rec.Fingerprint
	if fingerprint == "" {
		fingerprint = rec.ComputeFingerprint()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO tables (curve, w, n, secret_size, r, entries, fingerprint, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.CurveName(), int64(rec.W), rec.N, rec.SecretSize, rec.R, len(rec.Table), fingerprint, time.Now().Unix(), buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to store table: %w", err)
	}
	s.logger.Debug().
		Str("curve", rec.CurveName()).
		Str("params", rec.Params().String()).
		Int("entries", len(rec.Table)).
		Msg("Stored table")
	return nil
}

// Get loads the record for a curve and parameters.
func (s *Store) Get(ctx context.Context, curve string, p kangaroo.Params) (*tablefile.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT payload FROM tables WHERE curve = ? AND w = ? AND n = ? AND secret_size = ? AND r = ?
	`, curve, int64(p.W), p.N, p.SecretSize, p.R)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tablefile.Decode(bytes.NewReader(payload), tablefile.FormatCBOR)
}

// List returns the metadata of every stored record, newest first.
func (s *Store) List(ctx context.Context) ([]Meta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT curve, w, n, secret_size, r, entries, fingerprint, created_at
		FROM tables ORDER BY created_at DESC, curve ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meta
	for rows.Next() {
		var (
			m       Meta
			w       int64
			created int64
		)
		if err := rows.Scan(&m.Curve, &w, &m.Params.N, &m.Params.SecretSize, &m.Params.R, &m.Entries, &m.Fingerprint, &created); err != nil {
			return nil, err
		}
		m.Params.W = uint64(w)
		m.CreatedAt = time.Unix(created, 0)
		out = append(out, m)
	}
	return out, rows.Err()
}
