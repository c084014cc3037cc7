package signature

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	raw := make([]byte, 64)
	for i := range raw {
		raw[i] = byte(i)
	}
	sig := NewSignature(ES256, raw)
	require.Equal(t, ES256, sig.Code())
	require.Equal(t, uint64(64), sig.Size())
	require.Equal(t, raw, sig.Raw())

	decoded, err := Decode(Encode(sig))
	require.NoError(t, err)
	require.Equal(t, sig.Bytes(), decoded.Bytes())
	require.Equal(t, raw, decoded.Raw())
}

func TestDecodeInvalid(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		b := NewSignature(ES256, make([]byte, 64)).Bytes()
		_, err := Decode(b[:len(b)-1])
		require.ErrorContains(t, err, "invalid signature size")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Decode(nil)
		require.Error(t, err)
	})
}
