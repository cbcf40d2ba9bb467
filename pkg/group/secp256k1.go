package group

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

type secp256k1Group struct{}

type secp256k1Point struct {
	p   secp256k1.JacobianPoint // affine, Z = 1
	enc []byte
}

// Secp256k1 returns the secp256k1 group. Points use the 33-byte compressed
// SEC1 encoding.
func Secp256k1() Group { return secp256k1Group{} }

func newSecp256k1Point(j *secp256k1.JacobianPoint) *secp256k1Point {
	j.ToAffine()
	pt := &secp256k1Point{p: *j}
	pt.enc = secp256k1.NewPublicKey(&pt.p.X, &pt.p.Y).SerializeCompressed()
	return pt
}

func (pt *secp256k1Point) Bytes() []byte { return pt.enc }

func (pt *secp256k1Point) Equal(other Point) bool {
	return other != nil && bytes.Equal(pt.enc, other.Bytes())
}

func (secp256k1Group) Name() string { return "secp256k1" }
func (secp256k1Group) PointSize() int { return 33 }
func (secp256k1Group) Order() *big.Int { return new(big.Int).Set(secp256k1.S256().Params().N) }

// modN reduces a little-endian scalar modulo the group order.
func modN(s Scalar) *secp256k1.ModNScalar {
	be := s.bigEndian()
	var k secp256k1.ModNScalar
	k.SetBytes(&be)
	return &k
}

func fromModN(k *secp256k1.ModNScalar) Scalar {
	be := k.Bytes()
	var s Scalar
	for i := range be {
		s[i] = be[ScalarSize-1-i]
	}
	return s
}

func isInfinity(j *secp256k1.JacobianPoint) bool {
	return (j.X.IsZero() && j.Y.IsZero()) || j.Z.IsZero()
}

func (secp256k1Group) ScalarBaseMult(s Scalar) (Point, error) {
	k := modN(s)
	if k.IsZero() {
		return nil, ErrIdentity
	}
	var j secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &j)
	if isInfinity(&j) {
		return nil, ErrIdentity
	}
	return newSecp256k1Point(&j), nil
}

func (secp256k1Group) Add(p, q Point) (Point, error) {
	a, ok := p.(*secp256k1Point)
	if !ok {
		return nil, ErrForeignPoint
	}
	b, ok := q.(*secp256k1Point)
	if !ok {
		return nil, ErrForeignPoint
	}
	var sum secp256k1.JacobianPoint
	secp256k1.AddNonConst(&a.p, &b.p, &sum)
	if isInfinity(&sum) {
		return nil, ErrIdentity
	}
	return newSecp256k1Point(&sum), nil
}

func (secp256k1Group) ScalarAdd(a, b Scalar) Scalar {
	return fromModN(new(secp256k1.ModNScalar).Add2(modN(a), modN(b)))
}

func (secp256k1Group) ScalarSub(a, b Scalar) Scalar {
	neg := new(secp256k1.ModNScalar).NegateVal(modN(b))
	return fromModN(neg.Add(modN(a)))
}

// IsValid checks the curve equation. secp256k1 has cofactor one, so every
// non-infinity point on the curve is in the prime-order group.
func (secp256k1Group) IsValid(p Point) bool {
	pt, ok := p.(*secp256k1Point)
	if !ok || pt == nil || isInfinity(&pt.p) {
		return false
	}
	return secp256k1.NewPublicKey(&pt.p.X, &pt.p.Y).IsOnCurve()
}

func (g secp256k1Group) Decode(b []byte) (Point, error) {
	if len(b) != g.PointSize() {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPoint, g.PointSize(), len(b))
	}
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	var j secp256k1.JacobianPoint
	pub.AsJacobian(&j)
	return newSecp256k1Point(&j), nil
}
