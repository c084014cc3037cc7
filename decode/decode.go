package decode

import (
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/storacha/go-scitt/principal"
	"github.com/storacha/go-scitt/principal/es256/signer"
	"github.com/storacha/go-scitt/principal/es256/verifier"
	"github.com/storacha/go-scitt/principal/multiformat"
)

// Signer decodes a multiformat encoded signer back to the appropriate
// implementation based on the codec prefix.
func Signer(encoded []byte) (principal.SigningKey, error) {
	code, err := multiformat.Tag(encoded)
	if err != nil {
		return nil, fmt.Errorf("reading signer codec: %w", err)
	}

	switch code {
	case signer.Code:
		return signer.Decode(encoded)
	default:
		return nil, fmt.Errorf("unsupported signer codec: %d", code)
	}
}

// Verifier decodes a multiformat encoded verifier back to the appropriate
// implementation based on the codec prefix.
func Verifier(encoded []byte) (principal.Verifier, error) {
	code, err := multiformat.Tag(encoded)
	if err != nil {
		return nil, fmt.Errorf("reading verifier codec: %w", err)
	}

	switch code {
	case verifier.Code:
		return verifier.Decode(encoded)
	default:
		return nil, fmt.Errorf("unsupported verifier codec: %d", code)
	}
}

// ParseSigner decodes a multibase encoded signer in any base.
func ParseSigner(str string) (principal.SigningKey, error) {
	_, b, err := multibase.Decode(str)
	if err != nil {
		return nil, fmt.Errorf("decoding multibase string: %w", err)
	}
	return Signer(b)
}

// ParseVerifier decodes a multibase encoded verifier in any base.
func ParseVerifier(str string) (principal.Verifier, error) {
	_, b, err := multibase.Decode(str)
	if err != nil {
		return nil, fmt.Errorf("decoding multibase string: %w", err)
	}
	return Verifier(b)
}
