package group

import (
	"bytes"
	"fmt"
	"math/big"

	"filippo.io/edwards25519"
)

var ed25519Order, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

// ed25519OrderMinusOne is l-1 little-endian, the largest canonical scalar.
var ed25519OrderMinusOne = func() *edwards25519.Scalar {
	x := new(big.Int).Sub(ed25519Order, big.NewInt(1))
	s, _ := ScalarFromBig(x)
	sc, err := edwards25519.NewScalar().SetCanonicalBytes(s[:])
	if err != nil {
		panic(err)
	}
	return sc
}()

type ed25519Group struct{}

type ed25519Point struct {
	p   *edwards25519.Point
	enc []byte
}

// Ed25519 returns the prime-order subgroup of edwards25519 with its standard
// base point. Scalars are used as-is, without the clamping EdDSA applies to
// private keys.
func Ed25519() Group { return ed25519Group{} }

func newEd25519Point(p *edwards25519.Point) *ed25519Point {
	return &ed25519Point{p: p, enc: p.Bytes()}
}

func (pt *ed25519Point) Bytes() []byte { return pt.enc }

func (pt *ed25519Point) Equal(other Point) bool {
	return other != nil && bytes.Equal(pt.enc, other.Bytes())
}

func (ed25519Group) Name() string { return "ed25519" }
func (ed25519Group) PointSize() int { return 32 }
func (ed25519Group) Order() *big.Int { return new(big.Int).Set(ed25519Order) }

// edScalar reduces a 256-bit scalar modulo l by widening it to 64 bytes.
func edScalar(s Scalar) *edwards25519.Scalar {
	var wide [64]byte
	copy(wide[:], s[:])
	sc, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		// SetUniformBytes only fails on a wrong input length.
		panic(err)
	}
	return sc
}

func fromEdScalar(sc *edwards25519.Scalar) Scalar {
	var s Scalar
	copy(s[:], sc.Bytes())
	return s
}

func (ed25519Group) ScalarBaseMult(s Scalar) (Point, error) {
	sc := edScalar(s)
	if sc.Equal(edwards25519.NewScalar()) == 1 {
		return nil, ErrIdentity
	}
	return newEd25519Point(edwards25519.NewIdentityPoint().ScalarBaseMult(sc)), nil
}

func (ed25519Group) Add(p, q Point) (Point, error) {
	a, ok := p.(*ed25519Point)
	if !ok {
		return nil, ErrForeignPoint
	}
	b, ok := q.(*ed25519Point)
	if !ok {
		return nil, ErrForeignPoint
	}
	sum := edwards25519.NewIdentityPoint().Add(a.p, b.p)
	if sum.Equal(edwards25519.NewIdentityPoint()) == 1 {
		return nil, ErrIdentity
	}
	return newEd25519Point(sum), nil
}

func (ed25519Group) ScalarAdd(a, b Scalar) Scalar {
	return fromEdScalar(edwards25519.NewScalar().Add(edScalar(a), edScalar(b)))
}

func (ed25519Group) ScalarSub(a, b Scalar) Scalar {
	return fromEdScalar(edwards25519.NewScalar().Subtract(edScalar(a), edScalar(b)))
}

func (ed25519Group) IsValid(p Point) bool {
	pt, ok := p.(*ed25519Point)
	if !ok || pt == nil || pt.p == nil {
		return false
	}
	identity := edwards25519.NewIdentityPoint()
	if pt.p.Equal(identity) == 1 {
		return false
	}
	// l·P is the identity exactly when P lies in the prime-order subgroup.
	lp := edwards25519.NewIdentityPoint().ScalarMult(ed25519OrderMinusOne, pt.p)
	lp.Add(lp, pt.p)
	return lp.Equal(identity) == 1
}

func (g ed25519Group) Decode(b []byte) (Point, error) {
	if len(b) != g.PointSize() {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPoint, g.PointSize(), len(b))
	}
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	pt := newEd25519Point(p)
	// SetBytes accepts non-canonical y coordinates; only canonical encodings
	// are usable as table keys.
	if !bytes.Equal(pt.enc, b) {
		return nil, fmt.Errorf("%w: non-canonical encoding", ErrInvalidPoint)
	}
	if !g.IsValid(pt) {
		return nil, fmt.Errorf("%w: not in the prime-order subgroup", ErrInvalidPoint)
	}
	return pt, nil
}
