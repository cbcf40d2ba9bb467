package secrets

import (
	"bytes"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBounds(t *testing.T) {
	out, err := Generate(16, 50)
	require.NoError(t, err)
	require.Len(t, out, 50)
	for _, s := range out {
		assert.LessOrEqual(t, s.BitLen(), 16)
	}

	_, err = Generate(0, 1)
	assert.Error(t, err)
	_, err = Generate(8, 0)
	assert.Error(t, err)
}

func TestFileRoundTrip(t *testing.T) {
	in := []*big.Int{big.NewInt(0), big.NewInt(313249263), new(big.Int).Lsh(big.NewInt(1), 47)}
	path := filepath.Join(t.TempDir(), "secrets.bin")
	require.NoError(t, WriteFile(path, in))

	out, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, 0, in[i].Cmp(out[i]))
	}

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "secrets.txt"), in))
}

func TestReadKnownLayout(t *testing.T) {
	raw := []byte{
		0, 0, 0, 0, 0, 0, 0, 1, // one secret
		0, 0, 0, 0, 0, 0, 0, 2, // two bytes
		0x01, 0x00,
	}
	out, err := Read(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(256), out[0].Int64())
}

func TestReadTruncated(t *testing.T) {
	raw := []byte{0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 1, 0x07}
	_, err := Read(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrMalformed)

	huge := []byte{0, 0, 0, 0, 0, 0, 0, 1, 0xff, 0, 0, 0, 0, 0, 0, 0}
	_, err = Read(bytes.NewReader(huge))
	assert.ErrorIs(t, err, ErrMalformed)
}
