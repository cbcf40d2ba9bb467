package kangaroo

import "encoding/binary"

// DistinguishedFunc reports whether an encoded point ends a walk.
type DistinguishedFunc func(enc []byte) bool

// HashFunc maps an encoded point to a jump table index.
type HashFunc func(enc []byte) int

// Rules are the two deterministic functions a walk depends on. Generation and
// solving must use the same rules for the same table.
type Rules struct {
	IsDistinguished DistinguishedFunc
	Hash            HashFunc
}

// ruleInt reads the trailing 8 bytes of an encoding as a big-endian integer,
// which is the low 64 bits of the encoding taken as one big-endian number.
func ruleInt(enc []byte) uint64 {
	if len(enc) >= 8 {
		return binary.BigEndian.Uint64(enc[len(enc)-8:])
	}
	var v uint64
	for _, b := range enc {
		v = v<<8 | uint64(b)
	}
	return v
}

// DefaultRules derives the masking rules from the parameters: a point is
// distinguished when ruleInt & (W-1) == 0 and its jump index is
// ruleInt & (R-1). When R is not a power of two only some indices are
// reachable, but every index is below R.
func DefaultRules(p Params) Rules {
	wMask := p.W - 1
	rMask := uint64(p.R - 1)
	return Rules{
		IsDistinguished: func(enc []byte) bool {
			return ruleInt(enc)&wMask == 0
		},
		Hash: func(enc []byte) int {
			return int(ruleInt(enc) & rMask)
		},
	}
}
