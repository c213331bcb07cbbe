package secp256k1

import (
	"sync"

	"github.com/strand-crypto/secp256k1/field"
	"github.com/strand-crypto/secp256k1/internal/ctopt"
)

var (
	// gX is the x-coordinate of the generator.
	gX = field.NewElementFromSaturated(0x79be667ef9dcbbac, 0x55a06295ce870b07, 0x029bfcdb2dce28d9, 0x59f2815b16f81798)

	// gY is the y-coordinate of the generator.
	gY = field.NewElementFromSaturated(0x483ada7726a3c465, 0x5da4fbfc0e1108a8, 0xfd17b448a6855419, 0x9c47d08ffb10d4b8)

	// curveB is the constant term of the curve equation y^2 = x^3 + 7.
	curveB = field.NewElementFromSaturated(0, 0, 0, 7)
)

// Point represents a point on the secp256k1 curve, in affine
// coordinates.  All arguments and receivers are allowed to alias.  The
// zero value is not a valid point (it is the non-identity pair (0, 0),
// which is off the curve) and may only be used as a receiver; use
// NewIdentityPoint or Identity for the point at infinity.  Do not
// compare with `==`, use Equal.
type Point struct {
	x, y field.Element

	// identity is 1 iff this value is the point at infinity, 0
	// otherwise.  x and y are unspecified (and ignored) when set.
	identity uint64

	cacheMu sync.Mutex
	cache   *pointCache
}

// Identity sets `v = O` (the point at infinity), and returns `v`.
func (v *Point) Identity() *Point {
	v.x.Zero()
	v.y.Zero()
	v.identity = 1
	v.dropCache()
	return v
}

// Generator sets `v = G` (the base point), and returns `v`.
func (v *Point) Generator() *Point {
	v.x.Set(gX)
	v.y.Set(gY)
	v.identity = 0
	v.dropCache()
	return v
}

// Set sets `v = p`, and returns `v`.  The precomputation cache, if
// any, is NOT copied; `v` starts with no cache of its own.
func (v *Point) Set(p *Point) *Point {
	v.x.Set(&p.x)
	v.y.Set(&p.y)
	v.identity = p.identity
	v.dropCache()
	return v
}

func (v *Point) dropCache() {
	v.cacheMu.Lock()
	v.cache = nil
	v.cacheMu.Unlock()
}

// IsIdentity returns 1 iff `v` is the point at infinity, 0 otherwise.
func (v *Point) IsIdentity() uint64 {
	return v.identity
}

// Negate sets `v = -p`, and returns `v`.
func (v *Point) Negate(p *Point) *Point {
	v.x.Set(&p.x)
	v.y.Negate(&p.y)
	v.identity = p.identity
	v.dropCache()
	return v
}

// ConditionalSelect sets `v = a` iff `ctrl == 0`, `v = b` otherwise,
// and returns `v`.
func (v *Point) ConditionalSelect(a, b *Point, ctrl uint64) *Point {
	v.x.ConditionalSelect(&a.x, &b.x, ctrl)
	v.y.ConditionalSelect(&a.y, &b.y, ctrl)
	v.identity = ctSelectUint64(ctrl, a.identity, b.identity)
	v.dropCache()
	return v
}

// Equal returns 1 iff `v == p`, 0 otherwise.
func (v *Point) Equal(p *Point) uint64 {
	bothIdentity := v.identity & p.identity
	neitherIdentity := ctopt.Uint64IsZero(v.identity | p.identity)
	coordsEqual := v.x.Equal(&p.x) & v.y.Equal(&p.y)
	return bothIdentity | (neitherIdentity & coordsEqual)
}

// IsOnCurve returns 1 iff `v` is a point on the curve (`y^2 = x^3+7`),
// 0 otherwise.  The point at infinity is not considered to be "on
// the curve" by this check; it is handled as a distinguished state
// throughout this package.
func (v *Point) IsOnCurve() uint64 {
	if v.identity == 1 {
		return 0
	}

	y2 := field.NewElement().Square(&v.y)

	x3 := field.NewElement().Square(&v.x)
	x3.Multiply(x3, &v.x)
	x3.Add(x3, curveB)

	return y2.Equal(x3)
}

// Add sets `v = p + q` per the affine group law, and returns `v`.
func (v *Point) Add(p, q *Point) *Point {
	if p.identity == 1 {
		return v.Set(q)
	}
	if q.identity == 1 {
		return v.Set(p)
	}

	if p.x.Equal(&q.x) == 1 {
		negQy := field.NewElement().Negate(&q.y)
		if p.y.Equal(negQy) == 1 {
			return v.Identity()
		}
		// p.x == q.x and p.y == q.y (the only remaining case, since
		// a curve point's negation is unique): P == Q.
		return v.Double(p)
	}

	// lambda = (qY - pY) * (qX - pX)^-1
	lambda := field.NewElement().Subtract(&q.y, &p.y)
	denom := field.NewElement().Subtract(&q.x, &p.x)
	lambda.Multiply(lambda, field.NewElement().Invert(denom))

	// x3 = lambda^2 - pX - qX
	x3 := field.NewElement().Square(lambda)
	x3.Subtract(x3, &p.x)
	x3.Subtract(x3, &q.x)

	// y3 = lambda*(pX - x3) - pY
	y3 := field.NewElement().Subtract(&p.x, x3)
	y3.Multiply(y3, lambda)
	y3.Subtract(y3, &p.y)

	v.x.Set(x3)
	v.y.Set(y3)
	v.identity = 0
	v.dropCache()

	return v
}

// Double sets `v = p + p`, and returns `v`.
func (v *Point) Double(p *Point) *Point {
	if p.identity == 1 {
		return v.Identity()
	}

	two := field.NewElementFromSaturated(0, 0, 0, 2)
	three := field.NewElementFromSaturated(0, 0, 0, 3)

	// lambda = 3*pX^2 * (2*pY)^-1
	num := field.NewElement().Square(&p.x)
	num.Multiply(num, three)
	denom := field.NewElement().Multiply(&p.y, two)
	lambda := field.NewElement().Multiply(num, field.NewElement().Invert(denom))

	// x3 = lambda^2 - 2*pX
	x3 := field.NewElement().Square(lambda)
	x3.Subtract(x3, field.NewElement().Multiply(&p.x, two))

	// y3 = lambda*(pX - x3) - pY
	y3 := field.NewElement().Subtract(&p.x, x3)
	y3.Multiply(y3, lambda)
	y3.Subtract(y3, &p.y)

	v.x.Set(x3)
	v.y.Set(y3)
	v.identity = 0
	v.dropCache()

	return v
}

// Subtract sets `v = p - q`, and returns `v`.
func (v *Point) Subtract(p, q *Point) *Point {
	return v.Add(p, NewIdentityPoint().Negate(q))
}

// NewIdentityPoint returns a new Point set to the point at infinity.
func NewIdentityPoint() *Point {
	return new(Point).Identity()
}

// NewGeneratorPoint returns a new Point set to the canonical generator.
func NewGeneratorPoint() *Point {
	return new(Point).Generator()
}

// NewPointFrom creates a new Point from another.
func NewPointFrom(p *Point) *Point {
	return new(Point).Set(p)
}

func ctSelectUint64(ctrl, a, b uint64) uint64 {
	mask := uint64(0) - (ctrl & 1)
	return (a &^ mask) | (b & mask)
}
