package tablefile

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/mahdiidarabi/kangaroo/pkg/kangaroo"
)

// Format selects a record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		return FormatCBOR
	}
	return FormatJSON
}

// FileName returns the conventional file name for a table:
// <curve>_<w>_<n>_<secretSize>_<r>.<format>.
func FileName(curve string, p kangaroo.Params, format Format) string {
	return fmt.Sprintf("%s_%d_%d_%d_%d.%s", curve, p.W, p.N, p.SecretSize, p.R, format)
}

// ParseFileName is the inverse of FileName.
func ParseFileName(name string) (string, kangaroo.Params, Format, error) {
	var p kangaroo.Params
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	format := FormatFromPath(base)
	parts := strings.Split(strings.TrimSuffix(base, ext), "_")
	if len(parts) != 5 {
		return "", p, format, fmt.Errorf("malformed table file name %q", name)
	}
	_, err := fmt.Sscanf(strings.Join(parts[1:], " "), "%d %d %d %d", &p.W, &p.N, &p.SecretSize, &p.R)
	if err != nil {
		return "", p, format, fmt.Errorf("malformed table file name %q: %w", name, err)
	}
	return parts[0], p, format, nil
}

// Encode writes the record in the given format.
func Encode(w io.Writer, rec *Record, format Format) error {
	switch format {
	case FormatCBOR:
		data, err := cbor.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode CBOR record: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode JSON record: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Decode reads a record in the given format. Structural validation happens in
// Record.Kangaroo.
func Decode(r io.Reader, format Format) (*Record, error) {
	var rec Record
	switch format {
	case FormatCBOR:
		if err := cbor.NewDecoder(r).Decode(&rec); err != nil {
			return nil, corrupt(err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&rec); err != nil {
			return nil, corrupt(err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &rec, nil
}

// Save writes the record to path, choosing the format from the extension.
func Save(path string, rec *Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}
	if err := Encode(file, rec, FormatFromPath(path)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Load reads a record from path, choosing the format from the extension.
func Load(path string) (*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer file.Close()
	return Decode(file, FormatFromPath(path))
}

// ComputeFingerprint hashes the curve, the parameters and the jump table with
// BLAKE3. Two records with the same fingerprint walk identically.
func (r *Record) ComputeFingerprint() string {
	h := blake3.New()
	writeField := func(b []byte) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}
	writeUint := func(v uint64) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], v)
		writeField(n[:])
	}

	writeField([]byte(r.CurveName()))
	writeUint(r.W)
	writeUint(uint64(r.N))
	writeUint(uint64(r.SecretSize))
	writeUint(uint64(r.R))
	for _, s := range r.S {
		writeField([]byte(s))
	}
	for _, s := range r.Slog {
		writeField([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}
