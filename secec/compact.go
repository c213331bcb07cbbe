// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package secec

import (
	"errors"

	"github.com/strand-crypto/secp256k1"
)

const (
	// CompactSignatureSize is the size, in bytes, of a compact `[R|S]`
	// signature.
	CompactSignatureSize = 2 * secp256k1.ScalarSize

	// CompactRecoverableSignatureSize is the size, in bytes, of a
	// compact recoverable `[R|S|V]` signature.
	CompactRecoverableSignatureSize = CompactSignatureSize + 1
)

var errInvalidCompactSig = errors.New("secp256k1/secec: invalid compact signature")

// ParseCompactSignature parses a "compact" `[R | S]` signature, and
// returns the scalars `(r, s)`.  Both `r` and `s` MUST be in `[1, n)`.
func ParseCompactSignature(data []byte) (*secp256k1.Scalar, *secp256k1.Scalar, error) {
	if len(data) != CompactSignatureSize {
		return nil, nil, errInvalidCompactSig
	}

	r, err := secp256k1.NewScalarFromCanonicalBytes((*[secp256k1.ScalarSize]byte)(data[0:secp256k1.ScalarSize]))
	if err != nil || r.IsZero() != 0 {
		return nil, nil, errInvalidScalar
	}
	s, err := secp256k1.NewScalarFromCanonicalBytes((*[secp256k1.ScalarSize]byte)(data[secp256k1.ScalarSize:CompactSignatureSize]))
	if err != nil || s.IsZero() != 0 {
		return nil, nil, errInvalidScalar
	}

	return r, s, nil
}

// BuildCompactSignature serializes `(r, s)` into a "compact" `[R | S]`
// signature.
func BuildCompactSignature(r, s *secp256k1.Scalar) []byte {
	// Allocates assuming `[R | S | V]`, so a later append of the
	// recovery byte doesn't force a reallocation.
	dst := make([]byte, 0, CompactRecoverableSignatureSize)
	dst = append(dst, r.Bytes()...)
	dst = append(dst, s.Bytes()...)
	return dst
}

// ParseCompactRecoverableSignature parses a "compact" `[R | S | V]`
// signature, and returns the scalars `(r, s)` and the recovery ID `v`.
func ParseCompactRecoverableSignature(data []byte) (*secp256k1.Scalar, *secp256k1.Scalar, byte, error) {
	if len(data) != CompactRecoverableSignatureSize {
		return nil, nil, 0, errInvalidCompactSig
	}

	r, s, err := ParseCompactSignature(data[:CompactSignatureSize])
	if err != nil {
		return nil, nil, 0, err
	}

	return r, s, data[CompactSignatureSize], nil
}

// BuildCompactRecoverableSignature serializes `(r, s, recoveryID)`
// into a "compact" `[R | S | V]` signature.
func BuildCompactRecoverableSignature(r, s *secp256k1.Scalar, recoveryID byte) []byte {
	dst := BuildCompactSignature(r, s)
	return append(dst, recoveryID)
}
