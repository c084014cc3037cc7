package decode_test

import (
	"testing"

	"github.com/storacha/go-scitt/decode"
	"github.com/storacha/go-scitt/principal/es256/signer"
	"github.com/storacha/go-scitt/principal/es256/verifier"
	"github.com/stretchr/testify/require"
)

func TestSigner(t *testing.T) {
	t.Run("ES256 signer", func(t *testing.T) {
		original, err := signer.Generate()
		require.NoError(t, err)

		encoded := original.Encode()
		decoded, err := decode.Signer(encoded)
		require.NoError(t, err)

		require.Equal(t, original.Encode(), decoded.Encode())
		require.Equal(t, original.Verifier().Encode(), decoded.Verifier().Encode())
	})

	t.Run("Invalid data", func(t *testing.T) {
		_, err := decode.Signer([]byte{0xFF, 0xFF})
		require.Error(t, err)
	})

	t.Run("Verifier is not a signer", func(t *testing.T) {
		s, err := signer.Generate()
		require.NoError(t, err)

		_, err = decode.Signer(s.Verifier().Encode())
		require.ErrorContains(t, err, "unsupported signer codec")
	})
}

func TestVerifier(t *testing.T) {
	t.Run("ES256 verifier", func(t *testing.T) {
		s, err := signer.Generate()
		require.NoError(t, err)
		original := s.Verifier()

		encoded := original.Encode()
		decoded, err := decode.Verifier(encoded)
		require.NoError(t, err)

		require.Equal(t, original.Encode(), decoded.Encode())
	})

	t.Run("Invalid data", func(t *testing.T) {
		_, err := decode.Verifier([]byte{0xFF, 0xFF})
		require.Error(t, err)
	})
}

func TestParse(t *testing.T) {
	s, err := signer.Generate()
	require.NoError(t, err)

	str, err := signer.Format(s)
	require.NoError(t, err)
	parsed, err := decode.ParseSigner(str)
	require.NoError(t, err)
	require.Equal(t, s.Encode(), parsed.Encode())

	vstr, err := verifier.Format(s.Verifier())
	require.NoError(t, err)
	v, err := decode.ParseVerifier(vstr)
	require.NoError(t, err)
	require.Equal(t, s.Verifier().Encode(), v.Encode())

	_, err = decode.ParseSigner("not multibase")
	require.Error(t, err)
}
