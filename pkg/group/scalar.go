package group

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ScalarSize is the length of a scalar encoding.
const ScalarSize = 32

// ErrInvalidScalar is returned when a scalar cannot be parsed or does not fit
// in ScalarSize bytes.
var ErrInvalidScalar = errors.New("group: invalid scalar")

// Scalar is a 256-bit unsigned integer in canonical little-endian order.
//
// It is the only scalar representation used by the walks; hex strings only
// appear when a table is persisted.
type Scalar [ScalarSize]byte

// ScalarFromUint64 returns v as a scalar.
func ScalarFromUint64(v uint64) Scalar {
	var s Scalar
	binary.LittleEndian.PutUint64(s[:8], v)
	return s
}

// ScalarFromBig converts a non-negative integer below 2^256.
func ScalarFromBig(x *big.Int) (Scalar, error) {
	var s Scalar
	if x == nil || x.Sign() < 0 || x.BitLen() > ScalarSize*8 {
		return s, fmt.Errorf("%w: out of range", ErrInvalidScalar)
	}
	be := x.FillBytes(make([]byte, ScalarSize))
	for i := range be {
		s[i] = be[ScalarSize-1-i]
	}
	return s, nil
}

// ScalarFromBytes copies a 32-byte little-endian encoding.
func ScalarFromBytes(b []byte) (Scalar, error) {
	var s Scalar
	if len(b) != ScalarSize {
		return s, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidScalar, ScalarSize, len(b))
	}
	copy(s[:], b)
	return s, nil
}

// ParseScalar parses a decimal number, or a hex number when prefixed with 0x.
func ParseScalar(s string) (Scalar, error) {
	s = strings.TrimSpace(s)
	x := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = x.SetString(s[2:], 16)
	} else {
		_, ok = x.SetString(s, 10)
	}
	if !ok {
		return Scalar{}, fmt.Errorf("%w: %q", ErrInvalidScalar, s)
	}
	return ScalarFromBig(x)
}

// Big returns the scalar as an integer.
func (s Scalar) Big() *big.Int {
	be := s.bigEndian()
	return new(big.Int).SetBytes(be[:])
}

// IsZero reports whether the scalar is zero.
func (s Scalar) IsZero() bool {
	return s == Scalar{}
}

// Hex returns the 64-character hex form of the little-endian encoding.
func (s Scalar) Hex() string {
	return hex.EncodeToString(s[:])
}

// String returns the decimal value.
func (s Scalar) String() string {
	return s.Big().String()
}

func (s Scalar) bigEndian() [ScalarSize]byte {
	var be [ScalarSize]byte
	for i := range s {
		be[i] = s[ScalarSize-1-i]
	}
	return be
}

// ScalarFromHex parses the output of Scalar.Hex. Exactly 64 hex characters
// are required.
func ScalarFromHex(s string) (Scalar, error) {
	if len(s) != 2*ScalarSize {
		return Scalar{}, fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidScalar, 2*ScalarSize, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Scalar{}, fmt.Errorf("%w: %v", ErrInvalidScalar, err)
	}
	return ScalarFromBytes(b)
}

// RandomBits returns a uniform scalar in [0, 2^bits).
func RandomBits(bits int) (Scalar, error) {
	if bits <= 0 {
		return Scalar{}, nil
	}
	if bits > ScalarSize*8 {
		return Scalar{}, fmt.Errorf("%w: %d bits", ErrInvalidScalar, bits)
	}
	return RandomBelow(new(big.Int).Lsh(big.NewInt(1), uint(bits)))
}

// RandomBelow returns a uniform scalar in [0, max).
func RandomBelow(max *big.Int) (Scalar, error) {
	if max.Sign() <= 0 {
		return Scalar{}, fmt.Errorf("%w: non-positive bound", ErrInvalidScalar)
	}
	x, err := rand.Int(rand.Reader, max)
	if err != nil {
		return Scalar{}, fmt.Errorf("failed to read randomness: %w", err)
	}
	return ScalarFromBig(x)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	return hex.DecodeString(s)
}
