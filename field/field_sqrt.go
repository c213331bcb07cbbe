package field

import "math/big"

// sqrtExp is (p+1)/4.  Since p ≡ 3 (mod 4), this lets us compute the
// square root of a mod p (if it exists) as the (p+1)/4'th power of a,
// per Euler's criterion.  We verify the result at the end by squaring,
// since the formula gives a well-defined answer regardless of whether
// a is actually a quadratic residue.
var sqrtExp = new(big.Int).Rsh(new(big.Int).Add(Prime, big.NewInt(1)), 2)

// Sqrt sets `e = sqrt(a)` and returns `(e, 1)` iff `a` is a quadratic
// residue mod p.  If `a` is not a quadratic residue, Sqrt sets `e` to
// an unspecified value and returns `(e, 0)`; callers MUST check the
// returned flag before using `e`.
func (e *Element) Sqrt(a *Element) (*Element, uint64) {
	e.v.Exp(&a.v, sqrtExp, Prime)

	var check Element
	check.Square(e)

	return e, check.Equal(a)
}
