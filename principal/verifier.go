package principal

import (
	"github.com/storacha/go-scitt/crypto/signature"
)

type Verifier interface {
	// Code is the multicodec code of the public key.
	Code() uint64
	// Verify checks that sig was produced over msg by the corresponding
	// signer.
	Verify(msg []byte, sig signature.Signature) bool
	// Coordinates returns the fixed-width big-endian point coordinates.
	Coordinates() (x []byte, y []byte)
	// Encode returns the multiformat encoded public key.
	Encode() []byte
}
