// Package group provides the prime-order group arithmetic the kangaroo walks
// run on: scalar base multiplication, point addition, scalar addition and
// subtraction, validity checks and canonical encodings.
//
// Three groups are available: Ed25519 (unclamped scalars), secp256k1 and
// Ristretto255. Points are immutable and carry their canonical encoding, so
// callers can hash or compare them without re-encoding.
package group

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrIdentity is returned when an operation would produce the identity
	// element, which is never a valid walk state.
	ErrIdentity = errors.New("group: identity element")

	// ErrInvalidPoint is returned when an encoding does not decode to a valid
	// element of the prime-order group.
	ErrInvalidPoint = errors.New("group: invalid point encoding")

	// ErrForeignPoint is returned when a point of another group is passed in.
	ErrForeignPoint = errors.New("group: point belongs to another group")

	// ErrUnknownGroup is returned by ByName.
	ErrUnknownGroup = errors.New("group: unknown group")
)

// Point is an element of a prime-order group.
type Point interface {
	// Bytes returns the canonical encoding. The returned slice must not be
	// modified.
	Bytes() []byte
	// Equal reports whether both points encode to the same bytes.
	Equal(other Point) bool
}

// Group is the arithmetic contract used by table generation and solving.
// Implementations are stateless and safe for concurrent use.
type Group interface {
	// Name returns the identifier used in table records and on the command line.
	Name() string
	// PointSize is the length of a canonical point encoding.
	PointSize() int
	// Order returns the prime order of the group.
	Order() *big.Int

	// ScalarBaseMult returns s·G. The scalar is reduced modulo the order and
	// never clamped. A scalar congruent to zero yields ErrIdentity.
	ScalarBaseMult(s Scalar) (Point, error)
	// Add returns p + q, or ErrIdentity when the sum is the identity.
	Add(p, q Point) (Point, error)
	// ScalarAdd returns a + b mod order.
	ScalarAdd(a, b Scalar) Scalar
	// ScalarSub returns a - b mod order.
	ScalarSub(a, b Scalar) Scalar

	// IsValid reports whether p is a non-identity element of the prime-order
	// subgroup.
	IsValid(p Point) bool
	// Decode parses a canonical encoding.
	Decode(b []byte) (Point, error)
}

// Names lists the groups ByName understands.
func Names() []string {
	return []string{"ed25519", "secp256k1", "ristretto255"}
}

// ByName resolves a group from its name, case-insensitively.
func ByName(name string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ed25519", "edwards25519":
		return Ed25519(), nil
	case "secp256k1":
		return Secp256k1(), nil
	case "ristretto255", "ristretto":
		return Ristretto255(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
}

// DecodeHex decodes a hex point encoding, with or without a 0x prefix.
func DecodeHex(g Group, s string) (Point, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return g.Decode(b)
}
