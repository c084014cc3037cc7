package statement

import (
	"fmt"
	"slices"

	"github.com/storacha/go-scitt/core/cose"
)

// UnsignedStatement is a statement whose headers and payload digest are
// fixed but which has not been signed yet. It is immutable: [Finalize]
// returns a new [SignedEnvelope] and leaves the receiver untouched.
type UnsignedStatement struct {
	protected      cose.ProtectedHeader
	protectedBytes []byte
	unprotected    cose.UnprotectedHeader
	digest         []byte
}

// Build creates an unsigned statement. The protected header is serialized
// once here; those bytes are the ones covered by the signature and written to
// the envelope.
func Build(protected cose.ProtectedHeader, unprotected cose.UnprotectedHeader, payloadDigest []byte) (UnsignedStatement, error) {
	pb, err := cose.EncodeProtected(protected)
	if err != nil {
		return UnsignedStatement{}, newError(KindEncodingFailure, StageToBeSigned, err)
	}
	return UnsignedStatement{
		protected:      protected,
		protectedBytes: pb,
		unprotected:    unprotected,
		digest:         slices.Clone(payloadDigest),
	}, nil
}

func (u UnsignedStatement) Protected() cose.ProtectedHeader {
	return u.protected
}

// ProtectedBytes returns the serialized protected header.
func (u UnsignedStatement) ProtectedBytes() []byte {
	return slices.Clone(u.protectedBytes)
}

func (u UnsignedStatement) Unprotected() cose.UnprotectedHeader {
	return u.unprotected
}

func (u UnsignedStatement) PayloadDigest() []byte {
	return slices.Clone(u.digest)
}

// ToBeSigned returns the bytes the signer must sign: the canonical encoding of
// ["Signature1", protected header, h'', payload digest]. The unprotected
// header is not covered.
func (u UnsignedStatement) ToBeSigned() ([]byte, error) {
	tbs, err := cose.ToBeSigned(u.protectedBytes, u.digest)
	if err != nil {
		return nil, newError(KindEncodingFailure, StageToBeSigned, err)
	}
	return tbs, nil
}

// Finalize attaches a signature. The signature is used verbatim; checking
// it is left to the signer and to verifiers.
func (u UnsignedStatement) Finalize(signature []byte) SignedEnvelope {
	return SignedEnvelope{UnsignedStatement: u, signature: slices.Clone(signature)}
}

// ToBeSigned returns the to-be-signed bytes for a protected header and
// payload digest.
func ToBeSigned(protected cose.ProtectedHeader, payloadDigest []byte) ([]byte, error) {
	u, err := Build(protected, cose.UnprotectedHeader{}, payloadDigest)
	if err != nil {
		return nil, err
	}
	return u.ToBeSigned()
}

// Finalize assembles a signed envelope from its four parts.
func Finalize(protected cose.ProtectedHeader, unprotected cose.UnprotectedHeader, payloadDigest []byte, signature []byte) (SignedEnvelope, error) {
	u, err := Build(protected, unprotected, payloadDigest)
	if err != nil {
		return SignedEnvelope{}, err
	}
	return u.Finalize(signature), nil
}

// SignedEnvelope is a signed statement ready to be serialized.
type SignedEnvelope struct {
	UnsignedStatement
	signature []byte
}

func (e SignedEnvelope) Signature() []byte {
	return slices.Clone(e.signature)
}

// Serialize encodes the envelope as a tagged COSE_Sign1 message using the
// same canonical encoding as the to-be-signed bytes.
func (e SignedEnvelope) Serialize() ([]byte, error) {
	b, err := cose.Encode(cose.Sign1{
		Protected:   e.protectedBytes,
		Unprotected: e.unprotected,
		Payload:     e.digest,
		Signature:   e.signature,
	})
	if err != nil {
		return nil, newError(KindEncodingFailure, StageSerialize, err)
	}
	return b, nil
}

// Decode parses a serialized envelope. The protected header bytes are kept
// as received so that re-serializing and verifying use the exact signed
// bytes.
func Decode(raw []byte) (SignedEnvelope, error) {
	msg, err := cose.Decode(raw)
	if err != nil {
		return SignedEnvelope{}, err
	}
	protected, err := cose.DecodeProtected(msg.Protected)
	if err != nil {
		return SignedEnvelope{}, err
	}
	if len(msg.Payload) == 0 {
		return SignedEnvelope{}, fmt.Errorf("statement has no payload digest")
	}
	return SignedEnvelope{
		UnsignedStatement: UnsignedStatement{
			protected:      protected,
			protectedBytes: msg.Protected,
			unprotected:    msg.Unprotected,
			digest:         msg.Payload,
		},
		signature: msg.Signature,
	}, nil
}
