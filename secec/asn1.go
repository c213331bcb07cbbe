// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package secec

import (
	stdasn1 "encoding/asn1"
	"errors"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/strand-crypto/secp256k1"
)

var (
	oidEcPublicKey = stdasn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidSecp256k1   = stdasn1.ObjectIdentifier{1, 3, 132, 0, 10}

	errInvalidAsn1SPKI  = errors.New("secp256k1/secec: invalid ASN.1 Subject Public Key Info")
	errInvalidAsn1Algo  = errors.New("secp256k1/secec: algorithm is not ecPublicKey")
	errInvalidAsn1Curve = errors.New("secp256k1/secec: named curve is not secp256k1")

	errInvalidAsn1Sig = errors.New("secp256k1/secec: invalid ASN.1 signature")
)

// ParseASN1PublicKey parses an ASN.1 encoded public key as specified
// in SEC 1, Version 2.0, Appendix C.3.
//
// WARNING: This is incomplete and "best-effort": parsing a public key
// whose curve is explicitly parameterized (rather than referenced by
// OID) is not, and will not be, supported.
func ParseASN1PublicKey(data []byte) (*PublicKey, error) {
	var (
		inner     cryptobyte.String
		algorithm cryptobyte.String

		subjectPublicKey       stdasn1.BitString
		oidAlgorithm, oidCurve stdasn1.ObjectIdentifier
	)

	input := cryptobyte.String(data)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1(&algorithm, asn1.SEQUENCE) ||
		!inner.ReadASN1BitString(&subjectPublicKey) ||
		!inner.Empty() ||
		!algorithm.ReadASN1ObjectIdentifier(&oidAlgorithm) ||
		!algorithm.ReadASN1ObjectIdentifier(&oidCurve) ||
		!algorithm.Empty() {
		return nil, errInvalidAsn1SPKI
	}

	if !oidAlgorithm.Equal(oidEcPublicKey) {
		return nil, errInvalidAsn1Algo
	}
	if !oidCurve.Equal(oidSecp256k1) {
		return nil, errInvalidAsn1Curve
	}

	return NewPublicKey(subjectPublicKey.RightAlign())
}

// ParseASN1Signature parses a DER (ASN.1) encoded signature as
// specified in SEC 1, Version 2.0, Appendix C.8, and returns the
// scalars `(r, s)`.  Leading-zero-padded INTEGER encodings are
// accepted for interoperability, matching the leniency common among
// DER parsers in the wild; use ParseASN1SignatureStrict to reject
// them.
//
// Note: `data` MUST be `SEQUENCE { r INTEGER, s INTEGER }`, WITHOUT
// the optional `a` and `y` fields.  Either `r` or `s` being `0` is
// treated as an error.
func ParseASN1Signature(data []byte) (*secp256k1.Scalar, *secp256k1.Scalar, error) {
	return parseASN1Signature(data, false)
}

// ParseASN1SignatureStrict parses a DER (ASN.1) encoded signature like
// ParseASN1Signature, but additionally rejects non-minimal (leading
// zero byte padded) INTEGER encodings, as required by consensus-critical
// contexts (e.g. Bitcoin's BIP-66 strict DER rule) that cannot tolerate
// the same signature having more than one valid encoding.
func ParseASN1SignatureStrict(data []byte) (*secp256k1.Scalar, *secp256k1.Scalar, error) {
	return parseASN1Signature(data, true)
}

func parseASN1Signature(data []byte, strict bool) (*secp256k1.Scalar, *secp256k1.Scalar, error) {
	var inner cryptobyte.String

	input := cryptobyte.String(data)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) || !input.Empty() {
		return nil, nil, errInvalidAsn1Sig
	}

	rBytes, err := readASN1SigInteger(&inner, strict)
	if err != nil {
		return nil, nil, err
	}
	sBytes, err := readASN1SigInteger(&inner, strict)
	if err != nil {
		return nil, nil, err
	}
	if !inner.Empty() {
		return nil, nil, errInvalidAsn1Sig
	}

	r, err := bytesToCanonicalScalar(rBytes)
	if err != nil || r.IsZero() != 0 {
		return nil, nil, errInvalidScalar
	}
	s, err := bytesToCanonicalScalar(sBytes)
	if err != nil || s.IsZero() != 0 {
		return nil, nil, errInvalidScalar
	}

	return r, s, nil
}

// readASN1SigInteger reads one INTEGER's raw content bytes, bypassing
// cryptobyte's ReadASN1Integer, whose built-in minimality check would
// reject the leading-zero-padded encodings the lenient mode exists to
// accept.  Negative and empty INTEGERs are always rejected; in strict
// mode, so is any encoding that could have been a byte shorter.  The
// returned bytes have all redundant leading zeros stripped.
func readASN1SigInteger(s *cryptobyte.String, strict bool) ([]byte, error) {
	var raw cryptobyte.String
	if !s.ReadASN1(&raw, asn1.INTEGER) || len(raw) == 0 {
		return nil, errInvalidAsn1Sig
	}

	b := []byte(raw)
	if b[0]&0x80 != 0 {
		return nil, errInvalidAsn1Sig
	}
	if strict && isNonMinimalUint(b) {
		return nil, errInvalidAsn1Sig
	}

	for len(b) > 1 && b[0] == 0x00 {
		b = b[1:]
	}
	return b, nil
}

// isNonMinimalUint returns true iff `b`, a DER INTEGER's content bytes
// for a known-nonnegative value, carries a leading 0x00 byte beyond
// what two's-complement minimality requires (i.e. it could have been
// encoded one byte shorter).
func isNonMinimalUint(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x00 && b[1] < 0x80
}

func buildASN1PublicKey(pk *PublicKey) []byte {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidEcPublicKey)
			b.AddASN1ObjectIdentifier(oidSecp256k1)
		})
		b.AddASN1BitString(pk.Bytes()) // Uncompressed SEC 1 format.
	})

	return b.BytesOrPanic()
}

// BuildASN1Signature serializes `(r, s)` into a DER (ASN.1) encoded
// signature as specified in SEC 1, Version 2.0, Appendix C.8.
func BuildASN1Signature(r, s *secp256k1.Scalar) []byte {
	var rBig, sBig big.Int
	rBig.SetBytes(r.Bytes())
	sBig.SetBytes(s.Bytes())

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(&rBig)
		b.AddASN1BigInt(&sBig)
	})

	return b.BytesOrPanic()
}

func bytesToCanonicalScalar(sBytes []byte) (*secp256k1.Scalar, error) {
	sLen := len(sBytes)
	if sLen > secp256k1.ScalarSize || sLen == 0 {
		return nil, errInvalidScalar
	}

	var tmp [secp256k1.ScalarSize]byte
	copy(tmp[secp256k1.ScalarSize-sLen:], sBytes)

	s, err := secp256k1.NewScalarFromCanonicalBytes(&tmp)
	if err != nil {
		return nil, errInvalidScalar
	}

	return s, nil
}
