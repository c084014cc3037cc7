package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/storacha/go-scitt/bundle"
	"github.com/storacha/go-scitt/principal/es256/signer"
	"github.com/storacha/go-scitt/principal/es256/verifier"
	"github.com/storacha/go-scitt/statement"
	"github.com/storacha/go-scitt/testing/fixtures"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateAndVerify(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key.pem")
	payloadFile := filepath.Join(dir, "payload.json")
	outFile := filepath.Join(dir, "statement.cbor")
	bundleFile := filepath.Join(dir, "statement.car")

	pemBytes, err := signer.MarshalPEM(fixtures.Alice)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(keyFile, pemBytes, 0o600))
	payload := []byte(`{"artifact":"widget"}`)
	require.NoError(t, os.WriteFile(payloadFile, payload, 0o644))

	out, err := run(t,
		"create-statement",
		"--subject", "artifact-42",
		"--payload-file", payloadFile,
		"--payload-location", "https://example.com/a",
		"--output-file", outFile,
		"--signing-key-file", keyFile,
		"--issuer", "did:web:alice.example",
		"--key-id", "alice-key-1",
		"--bundle-file", bundleFile,
	)
	require.NoError(t, err)
	require.Contains(t, out, outFile)

	raw, err := os.ReadFile(outFile)
	require.NoError(t, err)
	env, err := statement.Verify(raw, statement.WithPayload(payload), statement.WithTrustedKey(fixtures.Alice.Verifier()))
	require.NoError(t, err)
	require.Equal(t, "artifact-42", env.Protected().CWTClaims.Subject)
	require.Equal(t, "did:web:alice.example", env.Protected().CWTClaims.Issuer)
	require.Equal(t, []byte("alice-key-1"), env.Protected().KeyID)

	f, err := os.Open(bundleFile)
	require.NoError(t, err)
	defer f.Close()
	b, err := bundle.Decode(f)
	require.NoError(t, err)
	require.Equal(t, raw, b.Statement)
	require.Equal(t, payload, b.Payload)

	t.Run("verify", func(t *testing.T) {
		trusted, err := verifier.Format(fixtures.Alice.Verifier())
		require.NoError(t, err)
		out, err := run(t,
			"verify-statement",
			"--statement-file", outFile,
			"--payload-file", payloadFile,
			"--trusted-key", trusted,
		)
		require.NoError(t, err)
		require.Contains(t, out, "artifact-42")
		require.Contains(t, out, "did:web:alice.example")
		require.Contains(t, out, "https://example.com/a")
	})

	t.Run("verify with wrong payload", func(t *testing.T) {
		other := filepath.Join(dir, "other.json")
		require.NoError(t, os.WriteFile(other, []byte("{}"), 0o644))
		_, err := run(t, "verify-statement", "--statement-file", outFile, "--payload-file", other)
		require.ErrorIs(t, err, statement.ErrPayloadMismatch)
	})
}

func TestCreateWithSigningKeyFromEnv(t *testing.T) {
	dir := t.TempDir()
	payloadFile := filepath.Join(dir, "payload.json")
	outFile := filepath.Join(dir, "statement.cbor")
	require.NoError(t, os.WriteFile(payloadFile, []byte("{}"), 0o644))

	key, err := signer.Format(fixtures.Bob)
	require.NoError(t, err)
	t.Setenv("SCITT_SIGNING_KEY", key)
	t.Setenv("SCITT_ISSUER", "did:web:bob.example")

	_, err = run(t, "create-statement", "--subject", "s", "--payload-file", payloadFile, "--output-file", outFile)
	require.NoError(t, err)

	raw, err := os.ReadFile(outFile)
	require.NoError(t, err)
	_, err = statement.Verify(raw, statement.WithTrustedKey(fixtures.Bob.Verifier()))
	require.NoError(t, err)
}

func TestCreateErrors(t *testing.T) {
	dir := t.TempDir()
	payloadFile := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(payloadFile, []byte("{}"), 0o644))

	t.Run("missing subject", func(t *testing.T) {
		_, err := run(t, "create-statement", "--payload-file", payloadFile)
		require.ErrorContains(t, err, "--subject is required")
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := run(t, "create-statement", "--subject", "s", "--payload-file", payloadFile)
		require.ErrorContains(t, err, "no signing key")
	})

	t.Run("missing issuer", func(t *testing.T) {
		key, err := signer.Format(fixtures.Alice)
		require.NoError(t, err)
		_, err = run(t, "create-statement", "--subject", "s", "--payload-file", payloadFile, "--signing-key", key)
		require.ErrorContains(t, err, "--issuer is required")
	})
}

func TestKeyGenerate(t *testing.T) {
	pemFile := filepath.Join(t.TempDir(), "key.pem")
	out, err := run(t, "key", "generate", "--pem-file", pemFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	s, err := signer.Parse(lines[1])
	require.NoError(t, err)

	b, err := os.ReadFile(pemFile)
	require.NoError(t, err)
	fromPEM, err := signer.FromPEM(b)
	require.NoError(t, err)
	require.Equal(t, s.Encode(), fromPEM.Encode())

	vstr, err := verifier.Format(s.Verifier())
	require.NoError(t, err)
	require.Equal(t, "# "+vstr, lines[0])
}
