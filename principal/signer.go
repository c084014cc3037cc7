package principal

import (
	"context"
	"errors"

	"github.com/storacha/go-scitt/crypto/signature"
)

var (
	// ErrSigningUnavailable is returned when the key custody service holding
	// the signing key cannot be reached.
	ErrSigningUnavailable = errors.New("signing unavailable")
	// ErrSigningRejected is returned when the signing key is disabled or the
	// caller is not authorized to use it.
	ErrSigningRejected = errors.New("signing rejected")
)

// Signer produces signatures over to-be-signed bytes. Implementations backed
// by a remote service may block and must honour ctx.
type Signer interface {
	Sign(ctx context.Context, msg []byte) (signature.Signature, error)
}

// SigningKey is a Signer holding its private key material locally.
type SigningKey interface {
	Signer
	// Code is the multicodec code of the private key.
	Code() uint64
	Verifier() Verifier
	// Encode returns the multiformat encoded private key.
	Encode() []byte
}

// SignerFunc adapts a function to a [Signer].
type SignerFunc func(ctx context.Context, msg []byte) (signature.Signature, error)

func (f SignerFunc) Sign(ctx context.Context, msg []byte) (signature.Signature, error) {
	return f(ctx, msg)
}
