package secp256k1

import (
	"math/big"
	"sync"

	"github.com/strand-crypto/secp256k1/internal/ctopt"
)

// DefaultWindow is the window size used by lazily-built precomputation
// caches, and by ScalarMult/ScalarBaseMult when no cache has been
// attached to a point yet.
const DefaultWindow = 4

// pointCache is a per-point table of precomputed affine multiples,
// indexed by window.  It accelerates repeated ScalarMult calls against
// the same base point.  Once built it is immutable; rebuilding with a
// different window replaces it wholesale (see Precompute).
type pointCache struct {
	w   uint
	tbl mulTable

	// offset is `2^(w*(numWindowDigits(w)-1)) * P`: the known excess
	// introduced by seeding the multiplication accumulator with `P`
	// instead of the identity, subtracted back out at the end of
	// mulWithCache.
	offset Point
}

func newPointCache(w uint, p *Point) *pointCache {
	c := &pointCache{w: w, tbl: newMulTable(w, p)}

	c.offset.Set(&c.tbl.entries[0])
	for i := 0; i < int(w)*(numWindowDigits(w)-1); i++ {
		c.offset.Double(&c.offset)
	}

	return c
}

// mulTable stores the multiples `[1*P, 2*P, ... 2^(w-1)*P]` of a
// point P, used as the addend set for one digit of a windowed scalar
// multiplication.  Zero (the "no contribution" digit) is represented
// implicitly: a lookup that matches nothing in the table leaves the
// accumulator unchanged.
type mulTable struct {
	entries []Point
}

func newMulTable(w uint, p *Point) mulTable {
	size := 1 << (w - 1)
	entries := make([]Point, size)
	entries[0].Set(p)
	for i := 1; i < size; i++ {
		entries[i].Add(&entries[i-1], p)
	}
	return mulTable{entries: entries}
}

// selectAndAdd sets `sum = sum + digit*P`, scanning every table entry
// and selecting the wanted one via a data-independent mask, so that
// the sequence of operations does not depend on `digit`.  When
// `digit == 0`, the scan still selects a real, non-identity table
// entry (`entries[0]`) as the addend and `Add` still runs its general
// affine formula against it (never `Add`'s point-at-infinity
// short-circuit, which skips the field inversion and would make the
// zero-digit case cheaper and separately timeable); the resulting sum
// is then discarded via a final masked select, so the number and kind
// of field/group operations performed do not depend on whether the
// digit was zero (the "fake-point" discipline of the
// scalar-multiplication hot path).
func (tbl *mulTable) selectAndAdd(sum *Point, digit int32) *Point {
	neg := uint64(uint32(digit) >> 31)
	signMask := -int32(neg)
	idx := (digit ^ signMask) - signMask
	isZero := ctopt.Uint64IsZero(uint64(idx))

	addend := NewPointFrom(&tbl.entries[0])
	for i := range tbl.entries {
		want := ctopt.Uint64Equal(uint64(idx), uint64(i+1))
		addend.ConditionalSelect(addend, &tbl.entries[i], want)
	}

	negAddend := NewIdentityPoint().Negate(addend)
	addend.ConditionalSelect(addend, negAddend, neg)

	unchanged := NewPointFrom(sum)
	added := NewIdentityPoint().Add(sum, addend)

	return sum.ConditionalSelect(added, unchanged, isZero)
}

// Precompute eagerly builds a window-`w` precomputation cache for
// `point`, replacing any cache already attached to it.  `w` must be at
// least 2; larger windows trade a bigger cache for fewer point
// additions per ScalarMult call.
func Precompute(w uint, point *Point) {
	if w < 2 {
		panic("secp256k1: window size must be at least 2")
	}

	c := newPointCache(w, point)

	point.cacheMu.Lock()
	point.cache = c
	point.cacheMu.Unlock()
}

// ensureCache returns the cache already attached to `p`, whatever its
// window, or lazily builds and attaches a window-`w` one.
func (p *Point) ensureCache(w uint) *pointCache {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()

	if p.cache != nil {
		return p.cache
	}

	c := newPointCache(w, p)
	p.cache = c
	return c
}

var (
	baseCacheOnce sync.Once
	baseCache     *pointCache
)

// baseTable returns the process-wide precomputation cache for the
// generator G, building it exactly once, regardless of how many
// goroutines race to use it first.
func baseTable() *pointCache {
	baseCacheOnce.Do(func() {
		baseCache = newPointCache(DefaultWindow, NewGeneratorPoint())
	})
	return baseCache
}

// numWindowDigits returns the number of signed digits needed to cover
// a 256-bit scalar with a window of `w` bits, plus one extra digit to
// absorb the recoding's final carry-out.
func numWindowDigits(w uint) int {
	return (256+int(w)-1)/int(w) + 1
}

// recodeWindowed decomposes the non-negative integer `k` into
// `numWindowDigits(w)` signed digits, each in `[-2^(w-1), 2^(w-1)]`,
// ordered from least to most significant window, such that
// `k == sum(digits[i] * 2^(i*w))`.  This is the textbook "balanced"
// windowed digit recoding: each w-bit window is read off and, if its
// value exceeds the window's half-way point, replaced by a negative
// digit with a carry propagated into the next window.  The
// above-half-way test and the carry it feeds are both resolved via a
// data-independent mask rather than a branch on the (secret) digit
// value, per the scalar-multiplication hot path's constant-flow
// discipline.
func recodeWindowed(k *big.Int, w uint) []int32 {
	n := numWindowDigits(w)
	digits := make([]int32, n)

	rem := new(big.Int).Set(k)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), w), big.NewInt(1))
	half := uint64(1) << (w - 1)
	full := uint64(1) << w

	for i := 0; i < n; i++ {
		d := new(big.Int).And(rem, mask).Uint64()
		rem.Rsh(rem, w)

		// over == 1 iff d > half: the window's top bit distinguishes
		// d >= half from d < half, and masking out the d == half case
		// (which stays positive, per the inclusive
		// [-2^(w-1), 2^(w-1)] digit range) gives exactly "d > half",
		// with no branch on d itself.
		topBit := (d >> (w - 1)) & 1
		isHalf := ctopt.Uint64Equal(d, half)
		over := topBit &^ isHalf

		dMinusFull := d - full // wraps in uint64 arithmetic; selected below only when over == 1
		dSelected := ctSelectUint64(over, d, dMinusFull)

		rem.Add(rem, new(big.Int).SetUint64(over))
		digits[i] = int32(int64(dSelected))
	}

	return digits
}

func (v *Point) mulWithCache(k *big.Int, c *pointCache) *Point {
	if k.Sign() == 0 {
		return v.Identity()
	}

	digits := recodeWindowed(k, c.w)

	// The accumulator is seeded with a real table entry rather than the
	// identity, so that it never passes through Add's point-at-infinity
	// short-circuit while the (secret) leading digits of `k` are being
	// consumed; the known excess this introduces, doubled along through
	// every window, is c.offset, subtracted back out at the end.
	acc := NewPointFrom(&c.tbl.entries[0])
	for i := len(digits) - 1; i >= 0; i-- {
		if i != len(digits)-1 {
			for b := uint(0); b < c.w; b++ {
				acc.Double(acc)
			}
		}
		c.tbl.selectAndAdd(acc, digits[i])
	}
	acc.Subtract(acc, &c.offset)

	return v.Set(acc)
}
