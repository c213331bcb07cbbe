// Package secp256k1 implements the secp256k1 Koblitz elliptic curve:
// the finite field and scalar arithmetic, group law, constant-flow
// scalar multiplication with precomputation, and SEC 1 point encoding
// that the secec subpackage builds ECDSA and ECDH on top of.
package secp256k1

import (
	"errors"

	"github.com/strand-crypto/secp256k1/scalar"
)

// ScalarSize is the size of an encoded Scalar, in bytes.
const ScalarSize = scalar.ElementSize

// ErrScalarOutOfRange is returned when a 32-byte string does not encode
// a canonical scalar in `[0, n)`.
var ErrScalarOutOfRange = errors.New("secp256k1: scalar out of range")

// Scalar is an integer modulo the group order `n`.  All arguments and
// receivers are allowed to alias.  The zero value is a valid zero
// Scalar.  Do not compare with `==`, use Equal.
type Scalar struct {
	inner scalar.Element
}

// Zero sets `s = 0` and returns `s`.
func (s *Scalar) Zero() *Scalar {
	s.inner.Zero()
	return s
}

// One sets `s = 1` and returns `s`.
func (s *Scalar) One() *Scalar {
	s.inner.One()
	return s
}

// Set sets `s = a` and returns `s`.
func (s *Scalar) Set(a *Scalar) *Scalar {
	s.inner.Set(&a.inner)
	return s
}

// Add sets `s = a + b` and returns `s`.
func (s *Scalar) Add(a, b *Scalar) *Scalar {
	s.inner.Add(&a.inner, &b.inner)
	return s
}

// Subtract sets `s = a - b` and returns `s`.
func (s *Scalar) Subtract(a, b *Scalar) *Scalar {
	s.inner.Subtract(&a.inner, &b.inner)
	return s
}

// Negate sets `s = -a` and returns `s`.
func (s *Scalar) Negate(a *Scalar) *Scalar {
	s.inner.Negate(&a.inner)
	return s
}

// Multiply sets `s = a * b` and returns `s`.
func (s *Scalar) Multiply(a, b *Scalar) *Scalar {
	s.inner.Multiply(&a.inner, &b.inner)
	return s
}

// Square sets `s = a * a` and returns `s`.
func (s *Scalar) Square(a *Scalar) *Scalar {
	s.inner.Square(&a.inner)
	return s
}

// Invert sets `s = a^-1 mod n` via Fermat's little theorem and returns
// `s`.  Invert(0) returns 0; callers that may pass a zero scalar must
// check IsZero first.
func (s *Scalar) Invert(a *Scalar) *Scalar {
	s.inner.Invert(&a.inner)
	return s
}

// ConditionalNegate sets `s = a` iff `ctrl == 0`, `s = -a` otherwise,
// and returns `s`.
func (s *Scalar) ConditionalNegate(a *Scalar, ctrl uint64) *Scalar {
	neg := NewScalar().Negate(a)
	return s.ConditionalSelect(a, neg, ctrl)
}

// ConditionalSelect sets `s = a` iff `ctrl == 0`, `s = b` otherwise,
// and returns `s`.
func (s *Scalar) ConditionalSelect(a, b *Scalar, ctrl uint64) *Scalar {
	s.inner.ConditionalSelect(&a.inner, &b.inner, ctrl)
	return s
}

// Equal returns 1 iff `s == a`, 0 otherwise.
func (s *Scalar) Equal(a *Scalar) uint64 {
	return s.inner.Equal(&a.inner)
}

// IsZero returns 1 iff `s == 0`, 0 otherwise.
func (s *Scalar) IsZero() uint64 {
	return s.inner.IsZero()
}

// IsGreaterThanHalfN returns 1 iff `s > n/2`, 0 otherwise.
func (s *Scalar) IsGreaterThanHalfN() uint64 {
	return s.inner.IsGreaterThanHalfN()
}

// Bytes returns the canonical big-endian encoding of `s`.
func (s *Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

// SetBytes sets `s = src`, where `src` is a 32-byte big-endian encoding
// of `s`, and returns `s, 0`.  If `src` is not a canonical encoding of
// `s`, `src` is reduced modulo `n`, and SetBytes returns `s, 1`.
func (s *Scalar) SetBytes(src *[ScalarSize]byte) (*Scalar, uint64) {
	_, didReduce := s.inner.SetBytes(src)
	return s, didReduce
}

// SetCanonicalBytes sets `s = src`, where `src` is a 32-byte big-endian
// encoding of `s`, and returns `s`.  If `src` is not a canonical
// encoding of `s`, SetCanonicalBytes returns nil and ErrScalarOutOfRange,
// and the receiver is unchanged.
func (s *Scalar) SetCanonicalBytes(src *[ScalarSize]byte) (*Scalar, error) {
	if _, err := s.inner.SetCanonicalBytes(src); err != nil {
		return nil, ErrScalarOutOfRange
	}
	return s, nil
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// NewScalarFrom creates a new Scalar from another.
func NewScalarFrom(other *Scalar) *Scalar {
	return NewScalar().Set(other)
}

// NewScalarFromCanonicalBytes creates a new Scalar from its canonical
// big-endian byte representation.
func NewScalarFromCanonicalBytes(src *[ScalarSize]byte) (*Scalar, error) {
	return NewScalar().SetCanonicalBytes(src)
}
