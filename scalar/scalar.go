// Package scalar implements arithmetic modulo the secp256k1 group
// order n = 2^256 - 432420386565659656852420866394968145599.
package scalar

import (
	"crypto/subtle"
	"errors"
	"math/big"

	"github.com/strand-crypto/secp256k1/internal/ctopt"
)

// ElementSize is the size of an encoded scalar in bytes.
const ElementSize = 32

var (
	// Order is the order of the secp256k1 base point, n.
	Order, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)

	// HalfOrder is n / 2, used for canonical (low-S) signature checks.
	HalfOrder = new(big.Int).Rsh(Order, 1)

	invExp = new(big.Int).Sub(Order, big.NewInt(2))

	zeroBytes [ElementSize]byte
)

// Element is an integer modulo n.  All arguments and receivers are
// allowed to alias.  The zero value is a valid zero element.  Values
// of this type are always canonical (fully reduced into [0, n));
// do not compare with `==`, use Equal.
type Element struct {
	v big.Int
}

// Zero sets `e = 0` and returns `e`.
func (e *Element) Zero() *Element {
	e.v.SetUint64(0)
	return e
}

// One sets `e = 1` and returns `e`.
func (e *Element) One() *Element {
	e.v.SetUint64(1)
	return e
}

// Set sets `e = a` and returns `e`.
func (e *Element) Set(a *Element) *Element {
	e.v.Set(&a.v)
	return e
}

// Add sets `e = a + b` and returns `e`.
func (e *Element) Add(a, b *Element) *Element {
	e.v.Add(&a.v, &b.v)
	e.v.Mod(&e.v, Order)
	return e
}

// Subtract sets `e = a - b` and returns `e`.
func (e *Element) Subtract(a, b *Element) *Element {
	e.v.Sub(&a.v, &b.v)
	e.v.Mod(&e.v, Order)
	return e
}

// Negate sets `e = -a` and returns `e`.
func (e *Element) Negate(a *Element) *Element {
	e.v.Neg(&a.v)
	e.v.Mod(&e.v, Order)
	return e
}

// Multiply sets `e = a * b` and returns `e`.
func (e *Element) Multiply(a, b *Element) *Element {
	e.v.Mul(&a.v, &b.v)
	e.v.Mod(&e.v, Order)
	return e
}

// Square sets `e = a * a` and returns `e`.
func (e *Element) Square(a *Element) *Element {
	e.v.Mul(&a.v, &a.v)
	e.v.Mod(&e.v, Order)
	return e
}

// Invert sets `e = a^-1 mod n` via Fermat's little theorem and returns
// `e`.  As with field.Element.Invert, Invert(0) returns 0; the ECDSA
// code paths that call this never do so with a zero scalar.
func (e *Element) Invert(a *Element) *Element {
	e.v.Exp(&a.v, invExp, Order)
	return e
}

// ConditionalNegate sets `e = a` iff `ctrl == 0`, `e = -a` otherwise,
// and returns `e`.
func (e *Element) ConditionalNegate(a *Element, ctrl uint64) *Element {
	neg := NewElement().Negate(a)
	return e.ConditionalSelect(a, neg, ctrl)
}

// ConditionalSelect sets `e = a` iff `ctrl == 0`, `e = b` otherwise,
// and returns `e`.
func (e *Element) ConditionalSelect(a, b *Element, ctrl uint64) *Element {
	sel := ctopt.SelectBytes(ctrl, a.Bytes(), b.Bytes())
	e.v.SetBytes(sel)
	return e
}

// Equal returns 1 iff `e == a`, 0 otherwise.
func (e *Element) Equal(a *Element) uint64 {
	return uint64(subtle.ConstantTimeCompare(e.Bytes(), a.Bytes()))
}

// IsZero returns 1 iff `e == 0`, 0 otherwise.
func (e *Element) IsZero() uint64 {
	return uint64(subtle.ConstantTimeCompare(e.Bytes(), zeroBytes[:]))
}

// IsGreaterThanHalfN returns 1 iff `e > n / 2`, 0 otherwise.
func (e *Element) IsGreaterThanHalfN() uint64 {
	if e.v.Cmp(HalfOrder) > 0 {
		return 1
	}
	return 0
}

// Bytes returns the canonical big-endian encoding of `e`.
func (e *Element) Bytes() []byte {
	var dst [ElementSize]byte
	b := e.v.Bytes()
	copy(dst[ElementSize-len(b):], b)
	return dst[:]
}

// SetBytes sets `e = src`, where `src` is a 32-byte big-endian encoding
// of `e`, and returns `e, 0`.  If `src` is not a canonical encoding of
// `e`, `src` is reduced modulo n, and SetBytes returns `e, 1`.
func (e *Element) SetBytes(src *[ElementSize]byte) (*Element, uint64) {
	var v big.Int
	v.SetBytes(src[:])

	var didReduce uint64
	if v.Cmp(Order) >= 0 {
		didReduce = 1
		v.Mod(&v, Order)
	}

	e.v.Set(&v)
	return e, didReduce
}

// SetCanonicalBytes sets `e = src`, where `src` is a 32-byte big-endian
// encoding of `e`, and returns `e`.  If `src` is not a canonical
// encoding of `e`, SetCanonicalBytes returns nil and an error, and the
// receiver is unchanged.
func (e *Element) SetCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	var v big.Int
	v.SetBytes(src[:])
	if v.Cmp(Order) >= 0 {
		return nil, errors.New("scalar: value out of range")
	}

	e.v.Set(&v)
	return e, nil
}

// NewElement returns a new zero Element.
func NewElement() *Element {
	return &Element{}
}

// NewElementFrom creates a new Element from another.
func NewElementFrom(other *Element) *Element {
	return NewElement().Set(other)
}

// NewElementFromCanonicalBytes creates a new Element from the
// canonical big-endian byte representation.
func NewElementFromCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	return NewElement().SetCanonicalBytes(src)
}

// NewElementFromUint64 creates a new Element from a small, known-in-range
// constant.  Intended for tests and fixed constants only.
func NewElementFromUint64(x uint64) *Element {
	e := NewElement()
	e.v.SetUint64(x)
	return e
}
