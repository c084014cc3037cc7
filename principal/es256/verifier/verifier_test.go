package verifier

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/storacha/go-scitt/crypto/signature"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	v0, err := FromPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	// varint tag plus 33 byte compressed point
	require.Len(t, v0.Encode(), 2+33)

	v1, err := Decode(v0.Encode())
	require.NoError(t, err)
	x0, y0 := v0.Coordinates()
	x1, y1 := v1.Coordinates()
	require.Equal(t, x0, x1)
	require.Equal(t, y0, y1)
	require.Len(t, x1, 32)
	require.Len(t, y1, 32)

	t.Run("format parse", func(t *testing.T) {
		str, err := Format(v0)
		require.NoError(t, err)
		require.Equal(t, byte('z'), str[0])
		v2, err := Parse(str)
		require.NoError(t, err)
		require.Equal(t, v0.Encode(), v2.Encode())
	})

	t.Run("invalid point", func(t *testing.T) {
		b := v0.Encode()
		bad := append([]byte{}, b...)
		bad[2] = 0x07
		_, err := Decode(bad)
		require.Error(t, err)
	})
}

func TestVerify(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	v, err := FromPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	msg := []byte("testy")
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	require.NoError(t, err)
	raw := make([]byte, SignatureSize)
	r.FillBytes(raw[:32])
	s.FillBytes(raw[32:])

	require.True(t, v.Verify(msg, signature.NewSignature(SignatureCode, raw)))
	require.False(t, v.Verify(msg, signature.NewSignature(0xed, raw)))
	require.False(t, v.Verify(msg, signature.NewSignature(SignatureCode, raw[:63])))
}

func TestFromPublicKeyWrongCurve(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	_, err = FromPublicKey(&priv.PublicKey)
	require.Error(t, err)
}
