package kangaroo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func encodingEndingWith(size int, tail ...byte) []byte {
	enc := make([]byte, size)
	for i := range enc {
		enc[i] = 0xaa
	}
	copy(enc[size-len(tail):], tail)
	return enc
}

func TestDefaultRulesDistinguished(t *testing.T) {
	rules := DefaultRules(Params{W: 256, R: 16})

	assert.True(t, rules.IsDistinguished(encodingEndingWith(32, 0x00)))
	assert.False(t, rules.IsDistinguished(encodingEndingWith(32, 0x01)))
	// The mask only looks at the trailing bytes.
	assert.True(t, rules.IsDistinguished(encodingEndingWith(33, 0x12, 0x00)))
}

func TestDefaultRulesHashInRange(t *testing.T) {
	for _, r := range []int{1, 16, 100, 128} {
		rules := DefaultRules(Params{W: 2, R: r})
		for b := 0; b < 256; b++ {
			h := rules.Hash(encodingEndingWith(32, 0x5c, byte(b)))
			assert.GreaterOrEqual(t, h, 0)
			assert.Less(t, h, r)
		}
	}
}

func TestDefaultRulesHashUsesLowBits(t *testing.T) {
	rules := DefaultRules(Params{W: 2, R: 16})
	assert.Equal(t, 0x0b, rules.Hash(encodingEndingWith(32, 0x3b)))
	assert.Equal(t, 0x0b, rules.Hash(encodingEndingWith(32, 0xfb)))
}

func TestRuleIntShortEncoding(t *testing.T) {
	assert.Equal(t, uint64(0x0102), ruleInt([]byte{0x01, 0x02}))
	assert.Equal(t, uint64(0x0203040506070809), ruleInt([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}))
}
