// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package secec

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/strand-crypto/secp256k1"
)

// rfc6979Generator derives a deterministic stream of candidate ECDSA
// nonces from `(msgHash, privKey)`, per RFC 6979's HMAC-DRBG
// construction (section 3.2, steps a-g), instantiated with HMAC-SHA256.
//
// Each call to next() produces a fresh candidate, continuing the same
// underlying generator; Sign calls next() again whenever a candidate
// is rejected (r == 0 or s == 0), exactly as RFC 6979 section 3.2
// step h.3 specifies for retries.
type rfc6979Generator struct {
	k, v [sha256.Size]byte
}

// newRFC6979Generator runs RFC 6979 steps a-g (step b's V is the
// all-0x01 seed and step c's K the all-0x00 seed below) and returns a
// generator primed to produce k-candidates via next().
//
// hBytes is the 32-byte message digest; privKey is the signer's
// scalar.  An optional extraEntropy (may be nil/empty) is mixed into
// the seed alongside the digest and key, following the "additional
// data" extension some RFC 6979 implementations (and SignWithAuxRand
// here) use to let callers re-introduce randomness without giving up
// the algorithm's self-test determinism property.
func newRFC6979Generator(hBytes []byte, privKey *secp256k1.Scalar, extraEntropy []byte) *rfc6979Generator {
	g := &rfc6979Generator{}

	for i := range g.v {
		g.v[i] = 0x01
	}
	for i := range g.k {
		g.k[i] = 0x00
	}

	d := privKey.Bytes()
	z := bits2octets(hBytes)

	g.hmacK(0x00, d, z, extraEntropy)
	g.hmacV()

	g.hmacK(0x01, d, z, extraEntropy)
	g.hmacV()

	return g
}

// hmacK sets `K = HMAC(K, V || tag || rest...)`.
func (g *rfc6979Generator) hmacK(tag byte, rest ...[]byte) {
	mac := hmac.New(sha256.New, g.k[:])
	mac.Write(g.v[:])
	mac.Write([]byte{tag})
	for _, r := range rest {
		mac.Write(r)
	}
	mac.Sum(g.k[:0])
}

// hmacV sets `V = HMAC(K, V)`.
func (g *rfc6979Generator) hmacV() {
	mac := hmac.New(sha256.New, g.k[:])
	mac.Write(g.v[:])
	mac.Sum(g.v[:0])
}

// next produces the next 32-byte candidate `T` (RFC 6979 step h.1/h.2;
// since HMAC-SHA256's output is exactly 32 bytes, a single round
// suffices and the "while |T| < qlen" loop never iterates more than
// once here).  It also advances the generator per step h.3, so the
// next call (should this candidate be rejected) yields a fresh value.
func (g *rfc6979Generator) next() [32]byte {
	g.hmacV()
	t := g.v

	g.hmacK(0x00)
	g.hmacV()

	return t
}

// int2octets is RFC 6979's big-endian, fixed-width encoding of an
// integer already known to fit in 32 bytes.
func int2octets(x []byte) []byte {
	var dst [32]byte
	if len(x) >= 32 {
		copy(dst[:], x[len(x)-32:])
	} else {
		copy(dst[32-len(x):], x)
	}
	return dst[:]
}

// bits2octets is RFC 6979 section 2.3.4: reduce the leftmost 256 bits
// of `h` modulo `n`, then encode as 32 bytes.
func bits2octets(h []byte) []byte {
	s, _ := hashToScalar(h)
	return int2octets(s.Bytes())
}
