// Package statement builds SCITT signed statements using the hash envelope
// profile: a COSE_Sign1 message whose payload is the digest of the original
// content, whose protected header binds the issuer, the subject and the
// issuer's verification key, and whose unprotected header carries the
// issuer's certificate chain.
//
// Building a statement is a two phase process. [Build] fixes the headers and
// payload digest and yields the bytes to sign; [UnsignedStatement.Finalize]
// attaches the signature. [Sign] and [Create] run the whole pipeline.
package statement

import (
	"context"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"github.com/storacha/go-scitt/identity"
	"github.com/storacha/go-scitt/principal"
)

var log = logging.Logger("scitt/statement")

// DefaultContentType is the media type used when none is configured.
const DefaultContentType = "application/json"

// Option is an option configuring a statement.
type Option func(cfg *stmtConfig) error

type stmtConfig struct {
	contentType string
	location    string
}

// WithContentType sets the media type of the original payload.
func WithContentType(contentType string) Option {
	return func(cfg *stmtConfig) error {
		if contentType == "" {
			return fmt.Errorf("content type must not be empty")
		}
		cfg.contentType = contentType
		return nil
	}
}

// WithPayloadLocation sets a hint for where the original payload can be
// retrieved from. Without it the payload location header is omitted.
func WithPayloadLocation(location string) Option {
	return func(cfg *stmtConfig) error {
		cfg.location = location
		return nil
	}
}

// Sign builds a statement about subject for payload, issued by id, and signs
// it with signer. Identity problems are reported before the signer is
// invoked. Cancellation of ctx only affects the signer call.
func Sign(ctx context.Context, id identity.Identity, signer principal.Signer, subject string, payload []byte, options ...Option) (SignedEnvelope, error) {
	cfg := stmtConfig{contentType: DefaultContentType}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return SignedEnvelope{}, newError(KindEncodingFailure, StageHeaders, err)
		}
	}

	if err := id.Validate(); err != nil {
		return SignedEnvelope{}, newError(KindMalformedIdentity, StageIdentity, err)
	}

	digest, err := payloadHasher.Sum(payload)
	if err != nil {
		return SignedEnvelope{}, newError(KindEncodingFailure, StageDigest, err)
	}
	log.Debugw("computed payload digest", "subject", subject, "size", len(payload))

	protected, unprotected, err := BuildHeaders(id, subject, cfg.contentType, cfg.location)
	if err != nil {
		return SignedEnvelope{}, err
	}

	unsigned, err := Build(protected, unprotected, digest.Digest())
	if err != nil {
		return SignedEnvelope{}, err
	}

	tbs, err := unsigned.ToBeSigned()
	if err != nil {
		return SignedEnvelope{}, err
	}
	log.Debugw("built to-be-signed bytes", "subject", subject, "size", len(tbs))

	sig, err := signer.Sign(ctx, tbs)
	if err != nil {
		log.Warnw("signing statement failed", "subject", subject, "error", err)
		return SignedEnvelope{}, signingError(err)
	}
	if sig == nil {
		return SignedEnvelope{}, newError(KindSigningFailure, StageSign, fmt.Errorf("signer returned no signature"))
	}

	return unsigned.Finalize(sig.Raw()), nil
}

// Create retrieves the issuer's identity, signs a statement about subject
// for payload and returns the serialized envelope.
func Create(ctx context.Context, issuer principal.Issuer, subject string, payload []byte, options ...Option) ([]byte, error) {
	id, err := issuer.RetrieveIdentity(ctx)
	if err != nil {
		return nil, identityError(err)
	}

	env, err := Sign(ctx, id, issuer, subject, payload, options...)
	if err != nil {
		return nil, err
	}

	b, err := env.Serialize()
	if err != nil {
		return nil, err
	}
	log.Infow("created signed statement", "subject", subject, "issuer", id.Issuer, "size", len(b))
	return b, nil
}
