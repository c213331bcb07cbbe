// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Package secec implements ECDSA and ECDH on top of secp256k1, with an
// API shaped like the standard library's `crypto/ecdsa` and
// `crypto/ecdh` packages.
package secec

import (
	"crypto"
	"errors"
	"fmt"
	"io"

	"github.com/strand-crypto/secp256k1"
)

var (
	errInvalidPrivateKey = errors.New("secp256k1/secec: invalid private key")
	errAIsInfinity       = errors.New("secp256k1/secec: point is the point at infinity")
	errAIsUninitialized  = "secp256k1/secec: use of uninitialized PublicKey"
)

// PrivateKey is a secp256k1 private key.
type PrivateKey struct {
	scalar    *secp256k1.Scalar // INVARIANT: Always in [1, n)
	publicKey *PublicKey
}

// Bytes returns a copy of the encoding of the private key.
func (k *PrivateKey) Bytes() []byte {
	return k.scalar.Bytes()
}

// Scalar returns a copy of the scalar underlying `k`.
func (k *PrivateKey) Scalar() *secp256k1.Scalar {
	return secp256k1.NewScalarFrom(k.scalar)
}

// ECDH performs an ECDH exchange using the x-coordinate-only
// convention (SEC 1, Version 2.0, Section 3.3.1): the shared secret is
// `(d*Q).x`, big-endian encoded.  It fails if `remote` is such that
// `d*Q` is the point at infinity, which cannot happen for honestly
// generated keys but can be forced by a malicious remote public key
// chosen to cooperate with a small-order point (impossible on this
// curve, whose cofactor is 1, but checked anyway as defense in depth).
func (k *PrivateKey) ECDH(remote *PublicKey) ([]byte, error) {
	pt := secp256k1.NewIdentityPoint().ScalarMult(k.scalar, remote.point)
	return pt.XBytes()
}

// GetSharedSecret performs an ECDH exchange and returns the full SEC 1
// point encoding of `d*Q`, rather than the x-coordinate-only
// convention used by ECDH.  These are two different, non-interchangeable
// conventions: callers must pick one and use it consistently with
// whatever is on the other end of the exchange, never switch silently.
func (k *PrivateKey) GetSharedSecret(remote *PublicKey, compressed bool) ([]byte, error) {
	pt := secp256k1.NewIdentityPoint().ScalarMult(k.scalar, remote.point)
	if pt.IsIdentity() != 0 {
		return nil, errAIsInfinity
	}
	if compressed {
		return pt.CompressedBytes(), nil
	}
	return pt.UncompressedBytes(), nil
}

// Equal returns whether `x` represents the same private key as `k`.
func (k *PrivateKey) Equal(x crypto.PrivateKey) bool {
	other, ok := x.(*PrivateKey)
	if !ok {
		return false
	}
	return other.scalar.Equal(k.scalar) == 1
}

// Public returns the PublicKey corresponding to `k`, as a
// `crypto.PublicKey`.
func (k *PrivateKey) Public() crypto.PublicKey {
	return k.publicKey
}

// PublicKey returns the ECDSA/ECDH public key corresponding to `k`.
func (k *PrivateKey) PublicKey() *PublicKey {
	return k.publicKey
}

// PublicKey is a secp256k1 public key.
type PublicKey struct {
	point      *secp256k1.Point // INVARIANT: Never the point at infinity
	pointBytes []byte           // Uncompressed SEC 1 encoding
}

// Bytes returns a copy of the uncompressed SEC 1 encoding of the
// public key.
func (k *PublicKey) Bytes() []byte {
	if k.pointBytes == nil {
		panic(errAIsUninitialized)
	}

	var tmp [secp256k1.UncompressedPointSize]byte
	copy(tmp[:], k.pointBytes)
	return tmp[:]
}

// CompressedBytes returns the compressed SEC 1 encoding of the public
// key.
func (k *PublicKey) CompressedBytes() []byte {
	return k.Point().CompressedBytes()
}

// ASN1Bytes returns the ASN.1 SubjectPublicKeyInfo encoding of the
// public key, as specified in SEC 1, Version 2.0, Appendix C.3.
func (k *PublicKey) ASN1Bytes() []byte {
	return buildASN1PublicKey(k)
}

// Point returns a copy of the point underlying `k`.
func (k *PublicKey) Point() *secp256k1.Point {
	return secp256k1.NewPointFrom(k.point)
}

// Equal returns whether `x` represents the same public key as `k`.
func (k *PublicKey) Equal(x crypto.PublicKey) bool {
	other, ok := x.(*PublicKey)
	if !ok {
		return false
	}
	return other.point.Equal(k.point) == 1
}

// IsYOdd returns true iff the y-coordinate of the public key is odd.
func (k *PublicKey) IsYOdd() bool {
	if k.pointBytes == nil {
		panic(errAIsUninitialized)
	}
	return k.pointBytes[secp256k1.UncompressedPointSize-1]&1 == 1
}

// GenerateKey generates a new PrivateKey using `rand` as the entropy
// source.  If `rand` is nil, `crypto/rand.Reader` is used.
func GenerateKey(rand io.Reader) (*PrivateKey, error) {
	s, err := sampleRandomScalar(rand)
	if err != nil {
		return nil, err
	}
	return newPrivateKeyFromScalar(s)
}

// NewPrivateKey checks that `key` is a valid private key encoding and
// returns the corresponding PrivateKey.
//
// This follows SEC 1, Version 2.0, Section 2.3.6: `key` is decoded as
// a fixed-length big-endian integer, which must be in `[1, n)`.
func NewPrivateKey(key []byte) (*PrivateKey, error) {
	if len(key) != secp256k1.ScalarSize {
		return nil, errInvalidPrivateKey
	}

	s, didReduce := secp256k1.NewScalar().SetBytes((*[secp256k1.ScalarSize]byte)(key))
	if didReduce != 0 || s.IsZero() != 0 {
		return nil, errInvalidPrivateKey
	}

	return newPrivateKeyFromScalar(s)
}

func newPrivateKeyFromScalar(s *secp256k1.Scalar) (*PrivateKey, error) {
	privateKey := &PrivateKey{
		scalar: s,
		publicKey: &PublicKey{
			point: secp256k1.NewIdentityPoint().ScalarBaseMult(s),
		},
	}
	privateKey.publicKey.pointBytes = privateKey.publicKey.point.UncompressedBytes()

	return privateKey, nil
}

// NewPublicKey checks that `key` is a valid SEC 1 point encoding and
// returns the corresponding PublicKey.  Both the compressed and
// uncompressed forms are accepted; the point at infinity is rejected.
func NewPublicKey(key []byte) (*PublicKey, error) {
	pt, err := secp256k1.NewIdentityPoint().SetBytes(key)
	if err != nil {
		return nil, fmt.Errorf("secp256k1/secec: invalid public key: %w", err)
	}
	if pt.IsIdentity() != 0 {
		return nil, errAIsInfinity
	}

	return &PublicKey{
		point:      pt,
		pointBytes: pt.UncompressedBytes(),
	}, nil
}

// NewPublicKeyFromPoint checks that `point` is valid (not the point at
// infinity) and returns the corresponding PublicKey.
func NewPublicKeyFromPoint(point *secp256k1.Point) (*PublicKey, error) {
	pt := secp256k1.NewPointFrom(point)
	if pt.IsIdentity() != 0 {
		return nil, errAIsInfinity
	}

	return &PublicKey{
		point:      pt,
		pointBytes: pt.UncompressedBytes(),
	}, nil
}

func splitUncompressedPoint(ptBytes []byte) ([]byte, uint64) {
	if len(ptBytes) != secp256k1.UncompressedPointSize {
		panic("secp256k1/secec: invalid uncompressed point for split")
	}
	xBytes := ptBytes[1 : 1+secp256k1.CoordSize]
	yIsOdd := uint64(ptBytes[len(ptBytes)-1] & 1)

	return xBytes, yIsOdd
}
