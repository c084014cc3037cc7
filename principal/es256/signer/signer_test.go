package signer

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/storacha/go-scitt/crypto/signature"
	"github.com/stretchr/testify/require"
)

func TestGenerateEncodeDecode(t *testing.T) {
	s0, err := Generate()
	if err != nil {
		t.Fatalf("generating P-256 key: %v", err)
	}

	s1, err := Decode(s0.Encode())
	if err != nil {
		t.Fatalf("decoding P-256 key: %v", err)
	}

	require.Equal(t, s0.Verifier().Encode(), s1.Verifier().Encode())
	require.Equal(t, Code, s1.Code())
}

func TestGenerateFormatParse(t *testing.T) {
	s0, err := Generate()
	if err != nil {
		t.Fatalf("generating P-256 key: %v", err)
	}

	str, err := Format(s0)
	if err != nil {
		t.Fatalf("formatting P-256 key: %v", err)
	}
	require.Equal(t, byte('M'), str[0])

	s1, err := Parse(str)
	if err != nil {
		t.Fatalf("parsing P-256 key: %v", err)
	}

	require.Equal(t, s0.Verifier().Encode(), s1.Verifier().Encode())
}

func TestSign(t *testing.T) {
	s0, err := Generate()
	require.NoError(t, err)

	msg := []byte("testy")
	sig, err := s0.Sign(context.Background(), msg)
	require.NoError(t, err)

	require.Equal(t, signature.ES256, sig.Code())
	require.Len(t, sig.Raw(), 64)
	require.True(t, s0.Verifier().Verify(msg, sig))
	require.False(t, s0.Verifier().Verify([]byte("other"), sig))

	t.Run("signature encoding round trips", func(t *testing.T) {
		decoded, err := signature.Decode(signature.Encode(sig))
		require.NoError(t, err)
		require.True(t, s0.Verifier().Verify(msg, decoded))
	})
}

func TestFromRaw(t *testing.T) {
	t.Run("invalid length", func(t *testing.T) {
		_, err := FromRaw(make([]byte, 31))
		require.Error(t, err)
	})

	t.Run("zero scalar", func(t *testing.T) {
		_, err := FromRaw(make([]byte, 32))
		require.Error(t, err)
	})

	t.Run("deterministic public key", func(t *testing.T) {
		scalar := make([]byte, 32)
		scalar[31] = 1
		s, err := FromRaw(scalar)
		require.NoError(t, err)

		// 1 * G is the generator
		x, y := s.Verifier().Coordinates()
		require.Equal(t, elliptic.P256().Params().Gx.FillBytes(make([]byte, 32)), x)
		require.Equal(t, elliptic.P256().Params().Gy.FillBytes(make([]byte, 32)), y)
	})
}

func TestPEM(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	t.Run("SEC 1", func(t *testing.T) {
		der, err := x509.MarshalECPrivateKey(priv)
		require.NoError(t, err)
		s, err := FromPEM(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
		require.NoError(t, err)
		x, _ := s.Verifier().Coordinates()
		require.Equal(t, priv.X.FillBytes(make([]byte, 32)), x)
	})

	t.Run("PKCS #8", func(t *testing.T) {
		der, err := x509.MarshalPKCS8PrivateKey(priv)
		require.NoError(t, err)
		s, err := FromPEM(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
		require.NoError(t, err)
		_, y := s.Verifier().Coordinates()
		require.Equal(t, priv.Y.FillBytes(make([]byte, 32)), y)
	})

	t.Run("round trip", func(t *testing.T) {
		s0, err := FromPrivateKey(priv)
		require.NoError(t, err)
		b, err := MarshalPEM(s0)
		require.NoError(t, err)
		s1, err := FromPEM(b)
		require.NoError(t, err)
		require.Equal(t, s0.Encode(), s1.Encode())
	})

	t.Run("not PEM", func(t *testing.T) {
		_, err := FromPEM([]byte("nope"))
		require.Error(t, err)
	})

	t.Run("wrong curve", func(t *testing.T) {
		p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
		require.NoError(t, err)
		der, err := x509.MarshalECPrivateKey(p384)
		require.NoError(t, err)
		_, err = FromPEM(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
		require.Error(t, err)
	})
}
