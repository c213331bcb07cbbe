// Package field implements arithmetic modulo the secp256k1 field prime
// p = 2^256 - 2^32 - 977.
package field

import (
	"crypto/subtle"
	"errors"
	"math/big"

	"github.com/strand-crypto/secp256k1/internal/ctopt"
)

// ElementSize is the size of an encoded field element in bytes.
const ElementSize = 32

var (
	// Prime is the field modulus p = 2^256 - 2^32 - 977.
	Prime, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)

	invExp = new(big.Int).Sub(Prime, big.NewInt(2))

	zeroBytes [ElementSize]byte
)

// Element is an integer modulo p.  All arguments and receivers are
// allowed to alias.  The zero value is a valid zero element.  Values
// of this type are always canonical (fully reduced into [0, p)); do
// not compare with `==`, use Equal.
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
	e.v.Mod(&e.v, Prime)
	return e
}

// Subtract sets `e = a - b` and returns `e`.
func (e *Element) Subtract(a, b *Element) *Element {
	e.v.Sub(&a.v, &b.v)
	e.v.Mod(&e.v, Prime)
	return e
}

// Negate sets `e = -a` and returns `e`.
func (e *Element) Negate(a *Element) *Element {
	e.v.Neg(&a.v)
	e.v.Mod(&e.v, Prime)
	return e
}

// Multiply sets `e = a * b` and returns `e`.
func (e *Element) Multiply(a, b *Element) *Element {
	e.v.Mul(&a.v, &b.v)
	e.v.Mod(&e.v, Prime)
	return e
}

// Square sets `e = a * a` and returns `e`.
func (e *Element) Square(a *Element) *Element {
	e.v.Mul(&a.v, &a.v)
	e.v.Mod(&e.v, Prime)
	return e
}

// Pow sets `e = a^n mod p` and returns `e`.  n MUST be non-negative.
func (e *Element) Pow(a *Element, n *big.Int) *Element {
	if n.Sign() < 0 {
		panic("field: negative exponent")
	}
	e.v.Exp(&a.v, n, Prime)
	return e
}

// Invert sets `e = a^-1 mod p` via Fermat's little theorem (`a^(p-2)`)
// and returns `e`.  This has a data-independent operation sequence
// since the exponent is a fixed public constant.  As a convention
// shared with most constant-flow field implementations, Invert(0)
// returns 0 rather than failing; callers working with values that are
// allowed to be zero must check IsZero first.
func (e *Element) Invert(a *Element) *Element {
	e.v.Exp(&a.v, invExp, Prime)
	return e
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

// IsOdd returns 1 iff `e` is odd, 0 otherwise.
func (e *Element) IsOdd() uint64 {
	return uint64(e.v.Bit(0))
}

// Bytes returns the canonical big-endian encoding of `e`.
func (e *Element) Bytes() []byte {
	var dst [ElementSize]byte
	b := e.v.Bytes()
	copy(dst[ElementSize-len(b):], b)
	return dst[:]
}

// SetCanonicalBytes sets `e = src`, where `src` is a big-endian encoding
// of `e`.  If `src` is not a canonical encoding (`src >= p`),
// SetCanonicalBytes returns nil and an error, and the receiver is
// unchanged.
func (e *Element) SetCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	var v big.Int
	v.SetBytes(src[:])
	if v.Cmp(Prime) >= 0 {
		return nil, errors.New("field: value out of range")
	}

	e.v.Set(&v)
	return e, nil
}

// String returns the lower-case hex encoding of `e`.
func (e *Element) String() string {
	return new(big.Int).Set(&e.v).Text(16)
}

// NewElement returns a new zero Element.
func NewElement() *Element {
	return &Element{}
}

// NewElementFrom creates a new Element from another.
func NewElementFrom(other *Element) *Element {
	return NewElement().Set(other)
}

// NewElementFromCanonicalBytes creates a new Element from its canonical
// big-endian byte representation.
func NewElementFromCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	return NewElement().SetCanonicalBytes(src)
}

// NewElementFromSaturated creates a new Element from 4 64-bit big-endian
// limbs (most-significant first).  Intended for use with fixed,
// known-in-range constants (eg: the generator's coordinates).
func NewElementFromSaturated(l3, l2, l1, l0 uint64) *Element {
	var buf [ElementSize]byte
	putUint64BE(buf[0:8], l3)
	putUint64BE(buf[8:16], l2)
	putUint64BE(buf[16:24], l1)
	putUint64BE(buf[24:32], l0)

	e, err := NewElementFromCanonicalBytes(&buf)
	if err != nil {
		panic("field: saturated constant out of range")
	}
	return e
}

func putUint64BE(dst []byte, x uint64) {
	dst[0] = byte(x >> 56)
	dst[1] = byte(x >> 48)
	dst[2] = byte(x >> 40)
	dst[3] = byte(x >> 32)
	dst[4] = byte(x >> 24)
	dst[5] = byte(x >> 16)
	dst[6] = byte(x >> 8)
	dst[7] = byte(x)
}
