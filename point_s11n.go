package secp256k1

import (
	"crypto/subtle"
	"errors"

	"github.com/strand-crypto/secp256k1/field"
)

const (
	// CoordSize is the size, in bytes, of a single affine coordinate.
	CoordSize = field.ElementSize

	// CompressedPointSize is the size of a compressed point, in the
	// SEC 1 encoding (`Y_parity | X`).
	CompressedPointSize = 1 + CoordSize

	// UncompressedPointSize is the size of an uncompressed point, in
	// the SEC 1 encoding (`0x04 | X | Y`).
	UncompressedPointSize = 1 + 2*CoordSize

	tagCompressedEven = 0x02
	tagCompressedOdd  = 0x03
	tagUncompressed   = 0x04
)

// UncompressedBytes returns the SEC 1 uncompressed encoding of `v`.
// The point at infinity has no SEC 1 encoding; it is a caller error to
// encode it, and UncompressedBytes panics rather than emit a sentinel
// the decoder is required to reject.
func (v *Point) UncompressedBytes() []byte {
	if v.identity == 1 {
		panic("secp256k1: cannot encode the point at infinity")
	}

	dst := make([]byte, 0, UncompressedPointSize)
	dst = append(dst, tagUncompressed)
	dst = append(dst, v.x.Bytes()...)
	dst = append(dst, v.y.Bytes()...)

	return dst
}

// CompressedBytes returns the SEC 1 compressed encoding of `v`.
func (v *Point) CompressedBytes() []byte {
	if v.identity == 1 {
		panic("secp256k1: cannot encode the point at infinity")
	}

	tag := byte(tagCompressedEven)
	if v.y.IsOdd() == 1 {
		tag = tagCompressedOdd
	}

	dst := make([]byte, 0, CompressedPointSize)
	dst = append(dst, tag)
	dst = append(dst, v.x.Bytes()...)

	return dst
}

// XBytes returns the canonical big-endian encoding of `v`'s
// x-coordinate alone, as used by the x-only ECDH convention.  It
// fails if `v` is the point at infinity, which has no x-coordinate.
func (v *Point) XBytes() ([]byte, error) {
	if v.identity == 1 {
		return nil, errors.New("secp256k1: point is the point at infinity")
	}
	return v.x.Bytes(), nil
}

// SetBytes sets `v = src`, where `src` is a valid SEC 1 encoding of a
// non-identity point (compressed or uncompressed).  The point at
// infinity has no SEC 1 encoding, so a single 0x00 byte is rejected
// like any other malformed input.  If `src` is not a valid encoding,
// SetBytes returns nil and an error, and the receiver is unchanged.
func (v *Point) SetBytes(src []byte) (*Point, error) {
	switch len(src) {
	case CompressedPointSize:
		if src[0] != tagCompressedEven && src[0] != tagCompressedOdd {
			break
		}

		xBytes := (*[field.ElementSize]byte)(src[1:CompressedPointSize])
		x, err := field.NewElementFromCanonicalBytes(xBytes)
		if err != nil {
			break
		}

		yy := field.NewElement().Square(x)
		yy.Multiply(yy, x)
		yy.Add(yy, curveB)

		y, isSquare := field.NewElement().Sqrt(yy)
		if isSquare != 1 {
			break
		}

		wantOdd := uint64(subtle.ConstantTimeByteEq(src[0], tagCompressedOdd))
		if y.IsOdd() != wantOdd {
			y.Negate(y)
		}

		v.x.Set(x)
		v.y.Set(y)
		v.identity = 0
		v.dropCache()
		return v, nil

	case UncompressedPointSize:
		if src[0] != tagUncompressed {
			break
		}

		xBytes := (*[field.ElementSize]byte)(src[1 : 1+CoordSize])
		x, err := field.NewElementFromCanonicalBytes(xBytes)
		if err != nil {
			break
		}
		yBytes := (*[field.ElementSize]byte)(src[1+CoordSize : UncompressedPointSize])
		y, err := field.NewElementFromCanonicalBytes(yBytes)
		if err != nil {
			break
		}

		yy := field.NewElement().Square(y)

		xxxPlus7 := field.NewElement().Square(x)
		xxxPlus7.Multiply(xxxPlus7, x)
		xxxPlus7.Add(xxxPlus7, curveB)

		if yy.Equal(xxxPlus7) == 0 {
			break
		}

		v.x.Set(x)
		v.y.Set(y)
		v.identity = 0
		v.dropCache()
		return v, nil
	}

	return nil, ErrInvalidPoint
}

// NewPointFromBytes creates a new Point from either of the SEC 1
// encodings (uncompressed or compressed).
func NewPointFromBytes(src []byte) (*Point, error) {
	return new(Point).SetBytes(src)
}
