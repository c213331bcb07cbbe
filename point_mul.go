package secp256k1

import (
	"errors"
	"math/big"

	"github.com/strand-crypto/secp256k1/field"
	"github.com/strand-crypto/secp256k1/scalar"
)

// ErrInvalidPoint is returned when a point is malformed: an
// off-curve coordinate pair, a coordinate that is not canonically
// reduced, or (where the caller asked for a non-identity result) the
// point at infinity.
var ErrInvalidPoint = errors.New("secp256k1: invalid point")

// ScalarMult sets `v = s*p`, and returns `v`.  The first call against
// a given `p` lazily builds (and attaches to `p`) a window-4
// precomputation cache; subsequent calls against the same `p` reuse
// whatever cache is attached, including one built eagerly via
// Precompute with a different window.  `s == 0` yields the point at
// infinity.
func (v *Point) ScalarMult(s *Scalar, p *Point) *Point {
	k := new(big.Int).SetBytes(s.Bytes())
	c := p.ensureCache(DefaultWindow)
	return v.mulWithCache(k, c)
}

// ScalarBaseMult sets `v = s*G`, and returns `v`, where `G` is the
// generator.  The base point's precomputation cache is process-wide
// and built once, under a one-time-initialization guard, no matter
// how many goroutines call this concurrently.
func (v *Point) ScalarBaseMult(s *Scalar) *Point {
	k := new(big.Int).SetBytes(s.Bytes())
	return v.mulWithCache(k, baseTable())
}

// DoubleScalarMultBasepointVartime sets `v = u1*G + u2*p`, and returns
// `v`, where `G` is the generator.  This is the combination ECDSA
// verification needs; it is not constant-flow (`u1`, `u2`, and `p`
// are public values during verification, so there is nothing secret
// to protect), hence the "Vartime" in the name.
func (v *Point) DoubleScalarMultBasepointVartime(u1, u2 *Scalar, p *Point) *Point {
	u1G := NewIdentityPoint().ScalarBaseMult(u1)
	u2P := NewIdentityPoint().ScalarMult(u2, p)
	return v.Add(u1G, u2P)
}

// RecoverPoint reconstructs the point `R` used during signing from an
// ECDSA signature's `r` scalar and 2-bit recovery hint, as described by
// the recoverPublicKey procedure: bit 0 of `recoveryID` selects the
// parity of `R`'s y-coordinate, bit 1 indicates that `R`'s
// x-coordinate was at or above `n` and wrapped when reduced to form
// `r` (vanishingly rare, since `n` is very close to `p`).
// `recoveryID` MUST be in `[0, 3]`.
func RecoverPoint(r *Scalar, recoveryID byte) (*Point, error) {
	if recoveryID > 3 {
		return nil, errors.New("secp256k1: invalid recovery ID")
	}

	x := new(big.Int).SetBytes(r.Bytes())
	if recoveryID&0x02 != 0 {
		x.Add(x, scalar.Order)
	}
	if x.Cmp(field.Prime) >= 0 {
		return nil, ErrInvalidPoint
	}

	var xBytes [field.ElementSize]byte
	xBig := x.Bytes()
	copy(xBytes[field.ElementSize-len(xBig):], xBig)

	xElem, err := field.NewElementFromCanonicalBytes(&xBytes)
	if err != nil {
		return nil, ErrInvalidPoint
	}

	yy := field.NewElement().Square(xElem)
	yy.Multiply(yy, xElem)
	yy.Add(yy, curveB)

	y, isSquare := field.NewElement().Sqrt(yy)
	if isSquare != 1 {
		return nil, ErrInvalidPoint
	}

	wantOdd := uint64(recoveryID & 0x01)
	if y.IsOdd() != wantOdd {
		y.Negate(y)
	}

	p := &Point{}
	p.x.Set(xElem)
	p.y.Set(y)
	p.identity = 0

	return p, nil
}
