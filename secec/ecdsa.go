// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package secec

import (
	csrand "crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/strand-crypto/secp256k1"
)

const maxScalarResamples = 8

var (
	errInvalidScalar = errors.New("secp256k1/secec/ecdsa: invalid scalar")
	errInvalidDigest = errors.New("secp256k1/secec/ecdsa: invalid digest")
	errInvalidRorS   = errors.New("secp256k1/secec/ecdsa: r or s is zero")
	errRIsInfinity   = errors.New("secp256k1/secec/ecdsa: R is the point at infinity")
	errVNeqR         = errors.New("secp256k1/secec/ecdsa: v does not equal r")

	errEntropySource     = errors.New("secp256k1/secec: entropy source failure")
	errRejectionSampling = errors.New("secp256k1/secec: failed rejection sampling")
)

// Sign signs `hash` (the output of hashing a larger message) using the
// PrivateKey `k`, deriving the nonce deterministically per RFC 6979,
// and returns `(r, s, recoveryID)`.  `s` is always reduced to its
// canonical (low-S) form, and `recoveryID` is always in `[0, 3]`;
// adding `27`, `31`, or the EIP-155 offset is left to the caller.
func (k *PrivateKey) Sign(hash []byte) (*secp256k1.Scalar, *secp256k1.Scalar, byte, error) {
	return sign(hash, k, nil)
}

// SignWithAuxRand signs `hash` like Sign, but additionally mixes
// caller-supplied randomness from `rand` into the RFC 6979 seed before
// deriving the nonce.  Unlike Sign, repeated calls with the same
// `(hash, k)` are not guaranteed to produce byte-identical signatures
// (they won't, as long as `rand` is not exhausted/deterministic);  this
// exists for callers who want RFC 6979's bias-free nonce derivation but
// are unwilling to rely on it as the sole defense against a faulty
// private-key/digest pipeline (the same motivation the "Debian/Sony"
// nonce-bias incidents gave the broader ECDSA ecosystem).  If `rand`
// is nil, `crypto/rand.Reader` is used.
func (k *PrivateKey) SignWithAuxRand(rand io.Reader, hash []byte) (*secp256k1.Scalar, *secp256k1.Scalar, byte, error) {
	if rand == nil {
		rand = csrand.Reader
	}

	var aux [32]byte
	if _, err := io.ReadFull(rand, aux[:]); err != nil {
		return nil, nil, 0, errors.Join(errEntropySource, err)
	}

	xof := sha3.NewCShake256(nil, []byte("secp256k1/secec: RFC 6979 aux rand"))
	_, _ = xof.Write(k.scalar.Bytes())
	_, _ = xof.Write(aux[:])
	_, _ = xof.Write(hash)

	var extraEntropy [32]byte
	if _, err := io.ReadFull(xof, extraEntropy[:]); err != nil {
		return nil, nil, 0, errors.Join(errEntropySource, err)
	}

	return sign(hash, k, extraEntropy[:])
}

// SignASN1 signs `hash` using the PrivateKey `k`, as Sign does, and
// returns the DER (ASN.1) encoded signature.
func (k *PrivateKey) SignASN1(hash []byte) ([]byte, error) {
	r, s, _, err := k.Sign(hash)
	if err != nil {
		return nil, err
	}
	return BuildASN1Signature(r, s), nil
}

// Verify verifies the `(r, s)` signature of `hash`, using the
// PublicKey `k`, per SEC 1, Version 2.0, Section 4.1.4.
func (k *PublicKey) Verify(hash []byte, r, s *secp256k1.Scalar) bool {
	return nil == verify(k, hash, r, s)
}

// VerifyASN1 verifies the DER (ASN.1) encoded signature `sig` of
// `hash`, using the PublicKey `k`.
//
// Note: `sig` MUST be `SEQUENCE { r INTEGER, s INTEGER }`, WITHOUT the
// optional `a` and `y` fields.
func (k *PublicKey) VerifyASN1(hash, sig []byte) bool {
	r, s, err := ParseASN1Signature(sig)
	if err != nil {
		return false
	}
	return k.Verify(hash, r, s)
}

// RecoverPublicKey recovers the public key from the signature
// `(r, s, recoveryID)` over `hash`.  `recoveryID` MUST be in `[0, 3]`.
//
// Note: `s` in `[1, n)` is considered valid here; it is the caller's
// responsibility to reject non-canonical (high-S) signatures if
// required.
func RecoverPublicKey(hash []byte, r, s *secp256k1.Scalar, recoveryID byte) (*PublicKey, error) {
	if r.IsZero() != 0 || s.IsZero() != 0 {
		return nil, errInvalidRorS
	}

	// This follows SEC 1, Version 2.0, Section 4.1.6, except that
	// instead of trying all possible R candidates derived from r,
	// recoveryID explicitly encodes which one to use.

	R, err := secp256k1.RecoverPoint(r, recoveryID)
	if err != nil {
		return nil, err
	}

	e, err := hashToScalar(hash)
	if err != nil {
		return nil, err
	}
	negE := secp256k1.NewScalar().Negate(e)

	// 1.6.1: Q = r^-1 * (s*R - e*G) = (-e*r^-1)*G + (s*r^-1)*R.

	rInv := secp256k1.NewScalar().Invert(r)
	u1 := secp256k1.NewScalar().Multiply(negE, rInv)
	u2 := secp256k1.NewScalar().Multiply(s, rInv)

	Q := secp256k1.NewIdentityPoint().DoubleScalarMultBasepointVartime(u1, u2, R)

	return NewPublicKeyFromPoint(Q)
}

func sign(hBytes []byte, d *PrivateKey, extraEntropy []byte) (*secp256k1.Scalar, *secp256k1.Scalar, byte, error) {
	// RFC 6979 step b/c/d/e, plus the generator-priming in
	// newRFC6979Generator, happen once; candidates are then drawn
	// from the same generator (step h.3) until one produces r != 0
	// and s != 0.

	e, err := hashToScalar(hBytes)
	if err != nil {
		return nil, nil, 0, err
	}

	gen := newRFC6979Generator(hBytes, d.scalar, extraEntropy)

	var (
		r, s       *secp256k1.Scalar
		recoveryID byte
	)
	for {
		t := gen.next()
		k, didReduceK := secp256k1.NewScalar().SetBytes(&t)
		if didReduceK != 0 || k.IsZero() != 0 {
			continue
		}

		R := secp256k1.NewIdentityPoint().ScalarBaseMult(k)

		rXBytes, rYIsOdd := splitUncompressedPoint(R.UncompressedBytes())

		var didReduceR uint64
		r, didReduceR = secp256k1.NewScalar().SetBytes((*[secp256k1.ScalarSize]byte)(rXBytes))
		if r.IsZero() != 0 {
			continue
		}

		kInv := secp256k1.NewScalar().Invert(k)
		s = secp256k1.NewScalar()
		s.Multiply(r, d.scalar).Add(s, e).Multiply(s, kInv)
		if s.IsZero() != 0 {
			continue
		}

		recoveryID = (byte(didReduceR) << 1) | byte(rYIsOdd)
		break
	}

	// Canonicalize: if s > n/2, replace (r, s) with (r, n-s), an
	// equivalent signature, and flip the y-parity recovery bit to
	// match.

	negateS := s.IsGreaterThanHalfN()
	s.ConditionalNegate(s, negateS)
	recoveryID ^= byte(negateS)

	return r, s, recoveryID, nil
}

func verify(q *PublicKey, hBytes []byte, r, s *secp256k1.Scalar) error {
	// 1. r and s MUST both be in [1, n-1].

	if r.IsZero() != 0 || s.IsZero() != 0 {
		return errInvalidRorS
	}

	e, err := hashToScalar(hBytes)
	if err != nil {
		return err
	}

	// 4. u1 = e*s^-1 mod n, u2 = r*s^-1 mod n.

	sInv := secp256k1.NewScalar().Invert(s)
	u1 := secp256k1.NewScalar().Multiply(e, sInv)
	u2 := secp256k1.NewScalar().Multiply(r, sInv)

	// 5. R = u1*G + u2*Q.  R = O is invalid.

	R := secp256k1.NewIdentityPoint().DoubleScalarMultBasepointVartime(u1, u2, q.point)
	if R.IsIdentity() != 0 {
		return errRIsInfinity
	}

	// 6/7/8. v = Rx mod n; valid iff v == r.

	xRBytes, _ := R.XBytes() // Cannot fail, R != O.
	v, _ := secp256k1.NewScalar().SetBytes((*[secp256k1.ScalarSize]byte)(xRBytes))

	if v.Equal(r) != 1 {
		return errVNeqR
	}

	return nil
}

// hashToScalar truncates `hash` to its leftmost 256 bits and reduces
// the result mod n, per SEC 1, Version 2.0, Section 4.1.3 step 5 (and
// Section 4.1.4 step 3) / RFC 6979's `bits2int`.
func hashToScalar(hash []byte) (*secp256k1.Scalar, error) {
	if len(hash) < secp256k1.ScalarSize {
		return nil, errInvalidDigest
	}

	var tmp [secp256k1.ScalarSize]byte
	copy(tmp[:], hash)

	s, _ := secp256k1.NewScalar().SetBytes(&tmp) // Reduction flag unneeded.
	return s, nil
}

func sampleRandomScalar(rand io.Reader) (*secp256k1.Scalar, error) {
	if rand == nil {
		rand = csrand.Reader
	}

	// Rejection sampling to avoid bias: the odds of needing even one
	// retry are approximately 2^-127, so maxScalarResamples is only
	// ever exhausted by a broken entropy source.
	var (
		tmp [secp256k1.ScalarSize]byte
		s   = secp256k1.NewScalar()
	)
	for i := 0; i < maxScalarResamples; i++ {
		if _, err := io.ReadFull(rand, tmp[:]); err != nil {
			return nil, errors.Join(errEntropySource, err)
		}

		_, didReduce := s.SetBytes(&tmp)
		if didReduce == 0 && s.IsZero() == 0 {
			return s, nil
		}
	}

	return nil, fmt.Errorf("%w: %d resamples exhausted", errRejectionSampling, maxScalarResamples)
}
