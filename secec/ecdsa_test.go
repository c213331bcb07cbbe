// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package secec

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strand-crypto/secp256k1"
)

func mustHexScalar(t *testing.T, h string) *secp256k1.Scalar {
	t.Helper()
	b, err := hex.DecodeString(h)
	require.NoError(t, err, "hex.DecodeString(%s)", h)
	s, err := secp256k1.NewScalarFromCanonicalBytes((*[secp256k1.ScalarSize]byte)(b))
	require.NoError(t, err, "NewScalarFromCanonicalBytes(%s)", h)
	return s
}

func mustHexBytes(t *testing.T, h string) []byte {
	t.Helper()
	b, err := hex.DecodeString(h)
	require.NoError(t, err, "hex.DecodeString(%s)", h)
	return b
}

// TestKnownAnswerPublicKey checks d=1 recovers the canonical generator.
func TestKnownAnswerPublicKey(t *testing.T) {
	d := mustHexBytes(t, "0000000000000000000000000000000000000000000000000000000000000001")

	priv, err := NewPrivateKey(d)
	require.NoError(t, err, "NewPrivateKey")

	want := "04" +
		"79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798" +
		"483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8"

	require.Equal(t, want, strings.ToUpper(hex.EncodeToString(priv.PublicKey().Bytes())))
}

// TestRFC6979Vector checks the literal (d, h) -> (r, s) vector from
// RFC 6979's secp256k1/SHA-256 "sample" test case.
func TestRFC6979Vector(t *testing.T) {
	d := mustHexScalar(t, "C9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721")
	h := mustHexBytes(t, "AF2BDBE1AA9B6EC1E2ADE1D694F41FC71A831D0268E9891562113D8A62ADD1BF")

	priv, err := newPrivateKeyFromScalar(d)
	require.NoError(t, err, "newPrivateKeyFromScalar")

	r, s, _, err := priv.Sign(h)
	require.NoError(t, err, "Sign")

	// The raw RFC 6979 signature for this vector is
	//   s = F7CB1C942D657C41D436C7A1B6E29F65F3E900DBB9AFF4064DC4AB2F843ACDA8
	// which is > n/2; Sign always returns the equivalent low-S form
	// `n - s`, with the same r.
	wantR := "EFD48B2AACB6A8FD1140DD9CD45E81D69D2C877B56AAF991C34D0EA84EAF3716"
	wantS := "0834E36BD29A83BE2BC9385E491D6098C6C5DC0AF598AC35720DB35D4BFB7399"

	require.Equal(t, strings.ToUpper(wantR), strings.ToUpper(hex.EncodeToString(r.Bytes())))
	require.Equal(t, strings.ToUpper(wantS), strings.ToUpper(hex.EncodeToString(s.Bytes())))
}

// TestRFC6979Determinism checks that two Sign calls over the same
// (hash, key) produce byte-identical signatures.
func TestRFC6979Determinism(t *testing.T) {
	priv, err := GenerateKey(nil)
	require.NoError(t, err, "GenerateKey")

	h := mustHexBytes(t, "BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD")

	r1, s1, v1, err := priv.Sign(h)
	require.NoError(t, err, "Sign 1")
	r2, s2, v2, err := priv.Sign(h)
	require.NoError(t, err, "Sign 2")

	require.Equal(t, r1.Bytes(), r2.Bytes())
	require.Equal(t, s1.Bytes(), s2.Bytes())
	require.Equal(t, v1, v2)
}

// TestSignVerifyRoundTrip checks that with a fixed key and h =
// SHA256("abc"), Verify succeeds and the recovered public key matches
// the signer's.
func TestSignVerifyRoundTrip(t *testing.T) {
	d := mustHexScalar(t, "A665A45920422F9D417E4867EFDC4FB08C921564E1D97F33079DDD98D38C1F74")
	h := mustHexBytes(t, "BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD")

	priv, err := newPrivateKeyFromScalar(d)
	require.NoError(t, err, "newPrivateKeyFromScalar")

	r, s, recovery, err := priv.Sign(h)
	require.NoError(t, err, "Sign")
	require.True(t, priv.PublicKey().Verify(h, r, s), "Verify")

	q, err := RecoverPublicKey(h, r, s, recovery)
	require.NoError(t, err, "RecoverPublicKey")
	require.True(t, priv.PublicKey().Equal(q))
}

// TestCanonicalS checks that signatures always come back with s <= n/2.
func TestCanonicalS(t *testing.T) {
	h := mustHexBytes(t, "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")

	for i := 0; i < 16; i++ {
		priv, err := GenerateKey(nil)
		require.NoError(t, err, "GenerateKey")

		_, s, _, err := priv.Sign(h)
		require.NoError(t, err, "Sign")

		require.EqualValues(t, 0, s.IsGreaterThanHalfN(), "s must be canonical (low-S)")
	}
}

// TestBadSignatureRejection checks that a flipped byte in r makes
// Verify return false, never panic.
func TestBadSignatureRejection(t *testing.T) {
	priv, err := GenerateKey(nil)
	require.NoError(t, err, "GenerateKey")

	h := mustHexBytes(t, "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	r, s, _, err := priv.Sign(h)
	require.NoError(t, err, "Sign")

	badRBytes := r.Bytes()
	badRBytes[0] ^= 0xff
	badR, err := secp256k1.NewScalarFromCanonicalBytes((*[secp256k1.ScalarSize]byte)(badRBytes))
	if err != nil {
		// Flipping the top byte pushed r out of [0, n); still must
		// not be treated as a valid signature.
		return
	}

	require.False(t, priv.PublicKey().Verify(h, badR, s), "Verify - corrupted r")
}
