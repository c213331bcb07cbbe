// Package ctopt provides small constant-time primitives used by the
// field, scalar, and point-table code to select between values without
// branching or indexing on secret data.
package ctopt

import "crypto/subtle"

// Uint64IsZero returns 1 if x == 0, 0 otherwise, without branching on x.
func Uint64IsZero(x uint64) uint64 {
	x |= x >> 32
	x |= x >> 16
	x |= x >> 8
	x |= x >> 4
	x |= x >> 2
	x |= x >> 1
	return (x & 1) ^ 1
}

// Uint64IsNonzero returns 1 if x != 0, 0 otherwise, without branching on x.
func Uint64IsNonzero(x uint64) uint64 {
	return 1 ^ Uint64IsZero(x)
}

// Uint64Equal returns 1 if x == y, 0 otherwise, without branching on x or y.
func Uint64Equal(x, y uint64) uint64 {
	return Uint64IsZero(x ^ y)
}

// SelectBytes returns a copy of a if ctrl == 0, or a copy of b if
// ctrl == 1.  ctrl MUST be 0 or 1.  a and b MUST be the same length.
func SelectBytes(ctrl uint64, a, b []byte) []byte {
	if len(a) != len(b) {
		panic("ctopt: mismatched lengths in SelectBytes")
	}

	out := make([]byte, len(a))
	copy(out, a)
	subtle.ConstantTimeCopy(int(ctrl), out, b)
	return out
}
