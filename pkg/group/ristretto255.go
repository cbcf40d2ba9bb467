package group

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/gtank/ristretto255"
)

type ristretto255Group struct{}

type ristretto255Point struct {
	e   *ristretto255.Element
	enc []byte
}

// Ristretto255 returns the ristretto255 prime-order group. It shares its
// scalar field with Ed25519.
func Ristretto255() Group { return ristretto255Group{} }

func newRistrettoPoint(e *ristretto255.Element) *ristretto255Point {
	return &ristretto255Point{e: e, enc: e.Bytes()}
}

func (pt *ristretto255Point) Bytes() []byte { return pt.enc }

func (pt *ristretto255Point) Equal(other Point) bool {
	return other != nil && bytes.Equal(pt.enc, other.Bytes())
}

func (ristretto255Group) Name() string { return "ristretto255" }
func (ristretto255Group) PointSize() int { return 32 }
func (ristretto255Group) Order() *big.Int { return new(big.Int).Set(ed25519Order) }

func ristrettoScalar(s Scalar) *ristretto255.Scalar {
	// Reduce with the Ed25519 scalar field, which is the same field.
	reduced := edScalar(s).Bytes()
	sc, err := new(ristretto255.Scalar).SetCanonicalBytes(reduced)
	if err != nil {
		panic(err)
	}
	return sc
}

func (ristretto255Group) ScalarBaseMult(s Scalar) (Point, error) {
	sc := ristrettoScalar(s)
	if sc.Equal(new(ristretto255.Scalar)) == 1 {
		return nil, ErrIdentity
	}
	return newRistrettoPoint(ristretto255.NewIdentityElement().ScalarBaseMult(sc)), nil
}

func (ristretto255Group) Add(p, q Point) (Point, error) {
	a, ok := p.(*ristretto255Point)
	if !ok {
		return nil, ErrForeignPoint
	}
	b, ok := q.(*ristretto255Point)
	if !ok {
		return nil, ErrForeignPoint
	}
	sum := ristretto255.NewIdentityElement().Add(a.e, b.e)
	if sum.Equal(ristretto255.NewIdentityElement()) == 1 {
		return nil, ErrIdentity
	}
	return newRistrettoPoint(sum), nil
}

func (ristretto255Group) ScalarAdd(a, b Scalar) Scalar {
	return Ed25519().ScalarAdd(a, b)
}

func (ristretto255Group) ScalarSub(a, b Scalar) Scalar {
	return Ed25519().ScalarSub(a, b)
}

// IsValid only has to exclude the identity: every decodable ristretto255
// element is in the prime-order group.
func (ristretto255Group) IsValid(p Point) bool {
	pt, ok := p.(*ristretto255Point)
	if !ok || pt == nil || pt.e == nil {
		return false
	}
	return pt.e.Equal(ristretto255.NewIdentityElement()) != 1
}

func (g ristretto255Group) Decode(b []byte) (Point, error) {
	if len(b) != g.PointSize() {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPoint, g.PointSize(), len(b))
	}
	e, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	pt := newRistrettoPoint(e)
	if !g.IsValid(pt) {
		return nil, fmt.Errorf("%w: identity", ErrInvalidPoint)
	}
	return pt, nil
}
