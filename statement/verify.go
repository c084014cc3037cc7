package statement

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/storacha/go-scitt/core/cose"
	"github.com/storacha/go-scitt/identity"
	"github.com/storacha/go-scitt/principal"
	gocose "github.com/veraison/go-cose"
)

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrPayloadMismatch      = errors.New("payload does not match statement digest")
	ErrUntrustedKey         = errors.New("statement key is not the trusted key")
)

// VerifyOption is an option configuring statement verification.
type VerifyOption func(cfg *verifyConfig)

type verifyConfig struct {
	payload []byte
	trusted principal.Verifier
}

// WithPayload checks that the statement's payload digest is the digest of
// payload.
func WithPayload(payload []byte) VerifyOption {
	return func(cfg *verifyConfig) {
		cfg.payload = payload
	}
}

// WithTrustedKey requires the confirmation key embedded in the statement to
// be the given key. Without it the signature is only checked against the
// embedded key.
func WithTrustedKey(v principal.Verifier) VerifyOption {
	return func(cfg *verifyConfig) {
		cfg.trusted = v
	}
}

// Verify parses a serialized statement with go-cose and checks its signature
// against the confirmation key bound into its protected header. The
// Sig_structure is recomputed by go-cose from the received protected header
// bytes, not by this package. The returned envelope is the typed view from
// [Decode], which also rejects header labels outside the fixed set.
func Verify(raw []byte, options ...VerifyOption) (SignedEnvelope, error) {
	cfg := verifyConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	var msg gocose.Sign1Message
	if err := msg.UnmarshalCBOR(raw); err != nil {
		return SignedEnvelope{}, fmt.Errorf("decoding COSE_Sign1: %w", err)
	}
	alg, err := msg.Headers.Protected.Algorithm()
	if err != nil {
		return SignedEnvelope{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, err)
	}
	if alg != gocose.AlgorithmES256 {
		return SignedEnvelope{}, fmt.Errorf("%w: signature algorithm %v", ErrUnsupportedAlgorithm, alg)
	}

	env, err := Decode(raw)
	if err != nil {
		return SignedEnvelope{}, err
	}

	hdr := env.Protected()
	if hdr.PayloadHashAlgorithm != payloadHasher.Algorithm() {
		return SignedEnvelope{}, fmt.Errorf("%w: payload hash algorithm %d", ErrUnsupportedAlgorithm, hdr.PayloadHashAlgorithm)
	}

	key := hdr.CWTClaims.Confirmation.Key
	if key.KeyType != cose.KeyTypeEC2 || key.Curve != cose.CurveP256 {
		return SignedEnvelope{}, fmt.Errorf("%w: key type %d curve %d", ErrUnsupportedAlgorithm, key.KeyType, key.Curve)
	}
	if cfg.trusted != nil {
		x, y := cfg.trusted.Coordinates()
		if !bytes.Equal(x, key.X) || !bytes.Equal(y, key.Y) {
			return SignedEnvelope{}, ErrUntrustedKey
		}
	}

	pub, err := identity.PublicKey{X: key.X, Y: key.Y}.ECDSA()
	if err != nil {
		return SignedEnvelope{}, err
	}
	verifier, err := gocose.NewVerifier(gocose.AlgorithmES256, pub)
	if err != nil {
		return SignedEnvelope{}, fmt.Errorf("creating verifier: %w", err)
	}
	if err := msg.Verify(nil, verifier); err != nil {
		return SignedEnvelope{}, fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	if cfg.payload != nil {
		if err := env.CheckPayload(cfg.payload); err != nil {
			return SignedEnvelope{}, err
		}
	}

	return env, nil
}

// CheckPayload reports whether payload hashes to the statement's payload
// digest. It returns [ErrPayloadMismatch] if not.
func (u UnsignedStatement) CheckPayload(payload []byte) error {
	digest, err := payloadHasher.Sum(payload)
	if err != nil {
		return fmt.Errorf("hashing payload: %w", err)
	}
	if !bytes.Equal(digest.Digest(), u.digest) {
		return ErrPayloadMismatch
	}
	return nil
}
