package parser

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

const basePointHex = "5866666666666666666666666666666666666666666666666666666666666666"

func TestParseTargetsJSON(t *testing.T) {
	input := `[
		{"secret": 313249263},
		{"secret": "0x0a"},
		{"public_key": "` + basePointHex + `"},
		{"secret": "1", "public_key": "` + basePointHex + `"}
	]`
	targets, err := ParseTargetsJSON(strings.NewReader(input), "", "")
	require.NoError(t, err)
	require.Len(t, targets, 4)

	assert.Equal(t, "313249263", targets[0].Secret.String())
	assert.Equal(t, int64(10), targets[1].Secret.Int64())
	assert.Nil(t, targets[2].Secret)

	g := group.Ed25519()
	for _, i := range []int{2, 3} {
		p, err := targets[i].Point(g)
		require.NoError(t, err)
		assert.Equal(t, basePointHex, hex.EncodeToString(p.Bytes()))
	}
}

func TestParseTargetsJSONErrors(t *testing.T) {
	_, err := ParseTargetsJSON(strings.NewReader(`[{}]`), "", "")
	assert.ErrorIs(t, err, ErrEmptyTarget)

	_, err = ParseTargetsJSON(strings.NewReader(`[{"secret": "-5"}]`), "", "")
	assert.Error(t, err)

	_, err = ParseTargetsJSON(strings.NewReader(`[{"public_key": 12}]`), "", "")
	assert.Error(t, err)
}

func TestTargetMismatch(t *testing.T) {
	targets, err := ParseTargetsJSON(strings.NewReader(`[{"secret": "2", "public_key": "`+basePointHex+`"}]`), "", "")
	require.NoError(t, err)
	_, err = targets[0].Point(group.Ed25519())
	assert.Error(t, err)
}

func TestParseTargetsFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.csv")
	content := "id,secret,public_key\n1,42,\n2,,0x" + basePointHex + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	targets, err := ParseTargetsFromCSV(path, "", "")
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, int64(42), targets[0].Secret.Int64())
	assert.Nil(t, targets[0].PublicKey)
	assert.Len(t, targets[1].PublicKey, 32)

	_, err = ParseTargetsCSV(strings.NewReader("a,b\n1,2\n"), "", "")
	assert.Error(t, err)
}
