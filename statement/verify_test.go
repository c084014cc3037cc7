package statement_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/storacha/go-scitt/core/cbor"
	"github.com/storacha/go-scitt/core/cose"
	"github.com/storacha/go-scitt/crypto/signature"
	"github.com/storacha/go-scitt/statement"
	"github.com/storacha/go-scitt/testing/fixtures"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestVerify(t *testing.T) {
	payload := []byte(`{"name":"widget","version":"1.0.0"}`)
	raw, err := statement.Create(
		context.Background(),
		fixtures.AliceIssuer,
		"pkg:example/widget@1.0.0",
		payload,
		statement.WithPayloadLocation("https://example.com/widget.json"),
	)
	require.NoError(t, err)

	env, err := statement.Verify(raw, statement.WithPayload(payload), statement.WithTrustedKey(fixtures.Alice.Verifier()))
	require.NoError(t, err)

	hdr := env.Protected()
	require.Equal(t, "pkg:example/widget@1.0.0", hdr.CWTClaims.Subject)
	require.Equal(t, fixtures.AliceIdentity.Issuer, hdr.CWTClaims.Issuer)
	require.Equal(t, statement.DefaultContentType, hdr.ContentType)
	require.Equal(t, "https://example.com/widget.json", hdr.PayloadLocation)
	require.Equal(t, fixtures.AliceIdentity.KeyID, hdr.KeyID)

	t.Run("local verifier accepts the signature", func(t *testing.T) {
		tbs, err := env.ToBeSigned()
		require.NoError(t, err)
		sig := env.Signature()
		require.Len(t, sig, 64)
		require.True(t, fixtures.Alice.Verifier().Verify(tbs, signature.NewSignature(signature.ES256, sig)))
	})

	t.Run("payload mismatch", func(t *testing.T) {
		_, err := statement.Verify(raw, statement.WithPayload([]byte("something else")))
		require.ErrorIs(t, err, statement.ErrPayloadMismatch)
	})

	t.Run("untrusted key", func(t *testing.T) {
		_, err := statement.Verify(raw, statement.WithTrustedKey(fixtures.Bob.Verifier()))
		require.ErrorIs(t, err, statement.ErrUntrustedKey)
	})

	t.Run("tampered signature", func(t *testing.T) {
		sig := env.Signature()
		sig[0] ^= 0xff
		tampered, err := env.Finalize(sig).Serialize()
		require.NoError(t, err)
		_, err = statement.Verify(tampered)
		require.ErrorIs(t, err, statement.ErrInvalidSignature)
	})

	t.Run("tampered subject", func(t *testing.T) {
		hdr := env.Protected()
		hdr.CWTClaims.Subject = "pkg:example/evil@6.6.6"
		forged, err := statement.Finalize(hdr, env.Unprotected(), env.PayloadDigest(), env.Signature())
		require.NoError(t, err)
		b, err := forged.Serialize()
		require.NoError(t, err)
		_, err = statement.Verify(b)
		require.ErrorIs(t, err, statement.ErrInvalidSignature)
	})

	t.Run("unprotected header is not covered", func(t *testing.T) {
		reissued, err := statement.Finalize(env.Protected(), cose.UnprotectedHeader{CertChain: cose.CertChain{[]byte("other")}}, env.PayloadDigest(), env.Signature())
		require.NoError(t, err)
		b, err := reissued.Serialize()
		require.NoError(t, err)
		_, err = statement.Verify(b, statement.WithPayload(payload))
		require.NoError(t, err)
	})

	t.Run("extra protected label", func(t *testing.T) {
		var m map[int64]cbor.RawMessage
		require.NoError(t, cbor.Decode(env.ProtectedBytes(), &m))
		m[100] = cbor.RawMessage{0x61, 'x'}
		protected, err := cbor.Encode(m)
		require.NoError(t, err)
		b, err := cose.Encode(cose.Sign1{
			Protected:   protected,
			Unprotected: env.Unprotected(),
			Payload:     env.PayloadDigest(),
			Signature:   env.Signature(),
		})
		require.NoError(t, err)

		_, err = statement.Decode(b)
		require.ErrorIs(t, err, cose.ErrUnexpectedLabel)
		_, err = statement.Verify(b)
		require.ErrorIs(t, err, cose.ErrUnexpectedLabel)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := statement.Verify([]byte{0x01, 0x02})
		require.Error(t, err)
	})
}

func TestVerifyUnsupportedAlgorithm(t *testing.T) {
	raw, err := statement.Create(context.Background(), fixtures.AliceIssuer, "s", []byte("hello"))
	require.NoError(t, err)
	env, err := statement.Decode(raw)
	require.NoError(t, err)

	hdr := env.Protected()
	hdr.Algorithm = -35
	other, err := statement.Finalize(hdr, env.Unprotected(), env.PayloadDigest(), env.Signature())
	require.NoError(t, err)
	b, err := other.Serialize()
	require.NoError(t, err)

	_, err = statement.Verify(b)
	require.ErrorIs(t, err, statement.ErrUnsupportedAlgorithm)
}

func TestCreateConcurrently(t *testing.T) {
	var g errgroup.Group
	results := make([][]byte, 16)
	for i := range results {
		g.Go(func() error {
			payload := []byte(fmt.Sprintf(`{"build":%d}`, i))
			raw, err := statement.Create(context.Background(), fixtures.AliceIssuer, fmt.Sprintf("artifact-%d", i), payload)
			if err != nil {
				return err
			}
			if _, err := statement.Verify(raw, statement.WithPayload(payload)); err != nil {
				return err
			}
			results[i] = raw
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, raw := range results {
		env, err := statement.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("artifact-%d", i), env.Protected().CWTClaims.Subject)
		for j := range i {
			require.False(t, bytes.Equal(raw, results[j]))
		}
	}
}
