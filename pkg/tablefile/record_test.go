package tablefile

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
	"github.com/mahdiidarabi/kangaroo/pkg/kangaroo"
)

func smallParams() kangaroo.Params {
	return kangaroo.Params{N: 32, W: 64, R: 16, SecretSize: 20}
}

func generatedRecord(t *testing.T, g group.Group) *Record {
	t.Helper()
	k, err := kangaroo.New(g, smallParams())
	require.NoError(t, err)
	_, err = k.GenerateTable(context.Background(), 4)
	require.NoError(t, err)
	rec, err := FromKangaroo(k)
	require.NoError(t, err)
	return rec
}

func TestSaveLoadSolve(t *testing.T) {
	for _, ext := range []string{".json", ".cbor"} {
		ext := ext
		t.Run(ext, func(t *testing.T) {
			g := group.Secp256k1()
			rec := generatedRecord(t, g)
			assert.Len(t, rec.S, rec.R)
			assert.Len(t, rec.Slog, rec.R)
			assert.Len(t, rec.Table, rec.N)
			require.NoError(t, rec.VerifyEntries())

			path := filepath.Join(t.TempDir(), "table"+ext)
			require.NoError(t, Save(path, rec))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, rec, loaded)

			k, err := loaded.Kangaroo()
			require.NoError(t, err)

			target, err := g.ScalarBaseMult(group.ScalarFromUint64(654321))
			require.NoError(t, err)
			report, err := k.SolveDLP(context.Background(), target, 2, false)
			require.NoError(t, err)
			assert.Equal(t, uint64(654321), report.Result.Big().Uint64())
		})
	}
}

func TestKangarooRejectsCorruptRecords(t *testing.T) {
	base := generatedRecord(t, group.Ed25519())

	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"short s", func(r *Record) { r.S = r.S[1:] }},
		{"short slog", func(r *Record) { r.Slog = r.Slog[:len(r.Slog)-1] }},
		{"truncated point hex", func(r *Record) { r.Table[0].Point = r.Table[0].Point[:63] }},
		{"non-hex scalar", func(r *Record) { r.Table[0].Value = strings.Repeat("zz", 32) }},
		{"narrow slog", func(r *Record) { r.Slog[0] = "01" }},
		{"unknown curve", func(r *Record) { r.Curve = "p256" }},
		{"fingerprint", func(r *Record) { r.Fingerprint = strings.Repeat("00", 32) }},
		{"duplicate entry", func(r *Record) { r.Table[1] = r.Table[0] }},
		{"too many entries", func(r *Record) { r.N = len(r.Table) - 1; r.Fingerprint = r.ComputeFingerprint() }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := cloneRecord(base)
			tc.mutate(rec)
			_, err := rec.Kangaroo()
			assert.ErrorIs(t, err, ErrCorruptRecord)
		})
	}
}

func TestVerifyEntriesDetectsWrongLog(t *testing.T) {
	rec := cloneRecord(generatedRecord(t, group.Ristretto255()))
	rec.Table[0].Value = rec.Table[1].Value
	assert.ErrorIs(t, rec.VerifyEntries(), ErrCorruptRecord)
}

func TestVerifyEntriesAcceptsUppercaseHex(t *testing.T) {
	rec := cloneRecord(generatedRecord(t, group.Ed25519()))
	for i := range rec.Table {
		rec.Table[i].Point = strings.ToUpper(rec.Table[i].Point)
	}
	_, err := rec.Kangaroo()
	require.NoError(t, err)
	assert.NoError(t, rec.VerifyEntries())
}

func TestRecordWithoutCurveIsEd25519(t *testing.T) {
	rec := generatedRecord(t, group.Ed25519())

	// Uploads from the table service carry neither curve nor fingerprint.
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rec, FormatJSON))
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	delete(fields, "curve")
	delete(fields, "fingerprint")
	upload, err := json.Marshal(fields)
	require.NoError(t, err)

	loaded, err := Decode(bytes.NewReader(upload), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, loaded.Curve)
	assert.Equal(t, DefaultCurve, loaded.CurveName())
	assert.Equal(t, rec.Fingerprint, loaded.ComputeFingerprint())

	k, err := loaded.Kangaroo()
	require.NoError(t, err)
	assert.Equal(t, "ed25519", k.Group().Name())
	assert.NoError(t, loaded.VerifyEntries())
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("{not json"), FormatJSON)
	assert.ErrorIs(t, err, ErrCorruptRecord)
	_, err = Decode(bytes.NewBufferString("\xff\xff"), FormatCBOR)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestFileName(t *testing.T) {
	p := kangaroo.DefaultParams()
	assert.Equal(t, "ed25519_63572_400_32_128.json", FileName("ed25519", p, FormatJSON))
	assert.Equal(t, FormatCBOR, FormatFromPath("x/ed25519_1_2_3_4.cbor"))
	assert.Equal(t, FormatJSON, FormatFromPath("table.json"))
}

func cloneRecord(r *Record) *Record {
	c := *r
	c.S = append([]string(nil), r.S...)
	c.Slog = append([]string(nil), r.Slog...)
	c.Table = append([]Entry(nil), r.Table...)
	return &c
}

func TestParseFileName(t *testing.T) {
	p := kangaroo.DefaultParams()
	curve, parsed, format, err := ParseFileName(FileName("secp256k1", p, FormatCBOR))
	require.NoError(t, err)
	assert.Equal(t, "secp256k1", curve)
	assert.Equal(t, p, parsed)
	assert.Equal(t, FormatCBOR, format)

	_, _, _, err = ParseFileName("output.json")
	assert.Error(t, err)
}
