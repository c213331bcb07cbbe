package secp256k1

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustBytesFromHex(t *testing.T, h string) []byte {
	t.Helper()
	b, err := hex.DecodeString(h)
	require.NoError(t, err, "hex.DecodeString(%s)", h)
	return b
}

// mustRandomScalar draws a uniformly random nonzero Scalar, resampling
// on the vanishingly unlikely event of a reduction or a zero result.
func mustRandomScalar(t *testing.T) *Scalar {
	t.Helper()

	var b [32]byte
	s := NewScalar()
	for {
		_, err := rand.Read(b[:])
		require.NoError(t, err, "rand.Read")

		if _, err := s.SetCanonicalBytes(&b); err == nil && s.IsZero() == 0 {
			return s
		}
	}
}

func TestPoint(t *testing.T) {
	t.Run("S11n", testPointS11n)
	t.Run("Add", testPointAdd)
	t.Run("ScalarMult", testPointScalarMult)
	t.Run("ScalarBaseMult", testPointScalarBaseMult)
	t.Run("Precompute", testPointPrecompute)
	t.Run("Recover", testPointRecover)
}

func testPointS11n(t *testing.T) {
	t.Run("G compressed", func(t *testing.T) {
		gCompressed := mustBytesFromHex(t, "0279BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798")

		p, err := NewPointFromBytes(gCompressed)
		require.NoError(t, err, "NewPointFromBytes(gCompressed)")
		require.EqualValues(t, 1, p.Equal(NewGeneratorPoint()), "G decompressed")

		require.Equal(t, gCompressed, p.CompressedBytes(), "G re-compressed")
	})

	t.Run("G uncompressed", func(t *testing.T) {
		gUncompressed := mustBytesFromHex(t, "0479BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8")

		p, err := NewPointFromBytes(gUncompressed)
		require.NoError(t, err, "NewPointFromBytes(gUncompressed)")
		require.EqualValues(t, 1, p.Equal(NewGeneratorPoint()), "G")

		require.Equal(t, gUncompressed, p.UncompressedBytes(), "G")
	})

	t.Run("Odd/Even round trip", func(t *testing.T) {
		// G and 2*G have an even Y; -G has an odd Y. Round-trip all of
		// them through the compressed encoding to exercise both parity
		// branches of SetBytes.
		g := NewGeneratorPoint()
		twoG := NewIdentityPoint().Double(g)
		negG := NewIdentityPoint().Negate(g)

		for _, p := range []*Point{g, twoG, negG} {
			enc := p.CompressedBytes()
			got, err := NewPointFromBytes(enc)
			require.NoError(t, err, "NewPointFromBytes(compressed)")
			require.EqualValues(t, 1, got.Equal(p))
		}
	})

	t.Run("Identity is not encodable", func(t *testing.T) {
		id := NewIdentityPoint()
		require.Panics(t, func() { id.CompressedBytes() }, "CompressedBytes(identity)")
		require.Panics(t, func() { id.UncompressedBytes() }, "UncompressedBytes(identity)")
	})

	t.Run("Identity tag is rejected on decode", func(t *testing.T) {
		_, err := NewPointFromBytes([]byte{0x00})
		require.ErrorIs(t, err, ErrInvalidPoint, "NewPointFromBytes(0x00)")
	})

	t.Run("Off-curve uncompressed point rejected", func(t *testing.T) {
		bad := mustBytesFromHex(t, "0479BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"+
			"0000000000000000000000000000000000000000000000000000000000000000")
		_, err := NewPointFromBytes(bad)
		require.ErrorIs(t, err, ErrInvalidPoint, "NewPointFromBytes(off-curve)")
	})

	t.Run("Coordinate >= p rejected", func(t *testing.T) {
		// x == p itself, one past the largest canonical field element.
		tooBig := mustBytesFromHex(t, "02"+"fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
		_, err := NewPointFromBytes(tooBig)
		require.ErrorIs(t, err, ErrInvalidPoint, "NewPointFromBytes(x >= p)")
	})

	t.Run("Truncated input rejected", func(t *testing.T) {
		_, err := NewPointFromBytes([]byte{0x02, 0x01, 0x02})
		require.ErrorIs(t, err, ErrInvalidPoint, "NewPointFromBytes(truncated)")
	})
}

func testPointAdd(t *testing.T) {
	g := NewGeneratorPoint()

	t.Run("P + Identity = P", func(t *testing.T) {
		sum := NewIdentityPoint().Add(g, NewIdentityPoint())
		require.EqualValues(t, 1, sum.Equal(g))
	})

	t.Run("P + (-P) = Identity", func(t *testing.T) {
		negG := NewIdentityPoint().Negate(g)
		sum := NewIdentityPoint().Add(g, negG)
		require.EqualValues(t, 1, sum.IsIdentity())
	})

	t.Run("P + P = Double(P)", func(t *testing.T) {
		sum := NewIdentityPoint().Add(g, g)
		dbl := NewIdentityPoint().Double(g)
		require.EqualValues(t, 1, sum.Equal(dbl))
	})

	t.Run("IsOnCurve", func(t *testing.T) {
		require.EqualValues(t, 1, g.IsOnCurve())
		require.EqualValues(t, 0, NewIdentityPoint().IsOnCurve())

		off := NewPointFrom(g)
		off.y.Square(&off.y) // y^2 is not itself a curve Y coordinate
		require.EqualValues(t, 0, off.IsOnCurve())
	})
}

func testPointScalarMult(t *testing.T) {
	t.Run("0 * G", func(t *testing.T) {
		q := NewIdentityPoint().ScalarMult(NewScalar(), NewGeneratorPoint())
		require.EqualValues(t, 1, q.IsIdentity())
	})

	t.Run("1 * G", func(t *testing.T) {
		g := NewGeneratorPoint()
		q := NewIdentityPoint().ScalarMult(NewScalar().One(), g)
		require.EqualValues(t, 1, q.Equal(g))
	})

	t.Run("2 * G", func(t *testing.T) {
		g := NewGeneratorPoint()
		two := NewScalar().Add(NewScalar().One(), NewScalar().One())

		q := NewIdentityPoint().ScalarMult(two, g)
		dbl := NewIdentityPoint().Double(g)
		require.EqualValues(t, 1, q.Equal(dbl))
	})

	t.Run("Consistency with ScalarBaseMult", func(t *testing.T) {
		g := NewGeneratorPoint()
		for i := 0; i < 32; i++ {
			s := mustRandomScalar(t)

			viaMult := NewIdentityPoint().ScalarMult(s, g)
			viaBase := NewIdentityPoint().ScalarBaseMult(s)

			require.EqualValues(t, 1, viaMult.Equal(viaBase), "[%d]", i)
		}
	})

	t.Run("Window size independence", func(t *testing.T) {
		s := mustRandomScalar(t)
		p := NewGeneratorPoint()

		Precompute(4, p)
		a := NewIdentityPoint().ScalarMult(s, p)

		Precompute(8, p)
		b := NewIdentityPoint().ScalarMult(s, p)

		require.EqualValues(t, 1, a.Equal(b))
	})
}

func testPointScalarBaseMult(t *testing.T) {
	t.Run("0 * G", func(t *testing.T) {
		q := NewIdentityPoint().ScalarBaseMult(NewScalar())
		require.EqualValues(t, 1, q.IsIdentity())
	})

	t.Run("1 * G", func(t *testing.T) {
		g := NewGeneratorPoint()
		q := NewIdentityPoint().ScalarBaseMult(NewScalar().One())
		require.EqualValues(t, 1, q.Equal(g))
	})

	t.Run("DoubleScalarMultBasepointVartime agrees with u1*G + u2*P", func(t *testing.T) {
		g := NewGeneratorPoint()
		for i := 0; i < 16; i++ {
			u1, u2 := mustRandomScalar(t), mustRandomScalar(t)
			p := NewIdentityPoint().ScalarBaseMult(mustRandomScalar(t))

			got := NewIdentityPoint().DoubleScalarMultBasepointVartime(u1, u2, p)

			u1G := NewIdentityPoint().ScalarMult(u1, g)
			u2P := NewIdentityPoint().ScalarMult(u2, p)
			want := NewIdentityPoint().Add(u1G, u2P)

			require.EqualValues(t, 1, got.Equal(want), "[%d]", i)
		}
	})
}

func testPointPrecompute(t *testing.T) {
	p := NewIdentityPoint().ScalarBaseMult(mustRandomScalar(t))

	Precompute(4, p)
	s := mustRandomScalar(t)
	withCache := NewIdentityPoint().ScalarMult(s, p)

	// A fresh point with no cache takes the lazy-build path; the
	// result must be identical either way.
	fresh := NewPointFrom(p)
	withoutCache := NewIdentityPoint().ScalarMult(s, fresh)

	require.EqualValues(t, 1, withCache.Equal(withoutCache))
}

func testPointRecover(t *testing.T) {
	for i := 0; i < 16; i++ {
		k := mustRandomScalar(t)
		R := NewIdentityPoint().ScalarBaseMult(k)

		rBytes := R.x.Bytes()
		var rArr [32]byte
		copy(rArr[:], rBytes)
		r, didReduce := NewScalar().SetBytes(&rArr)
		if didReduce != 0 {
			// x >= n, vanishingly rare; skip this iteration.
			continue
		}

		var recoveryID byte
		if R.y.IsOdd() == 1 {
			recoveryID = 1
		}

		got, err := RecoverPoint(r, recoveryID)
		require.NoError(t, err, "[%d]: RecoverPoint", i)
		require.EqualValues(t, 1, got.Equal(R), "[%d]", i)
	}

	_, err := RecoverPoint(NewScalar(), 0xff)
	require.Error(t, err, "RecoverPoint(bad recovery ID)")
}
