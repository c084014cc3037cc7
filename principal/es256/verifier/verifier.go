package verifier

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/storacha/go-scitt/core/cose"
	"github.com/storacha/go-scitt/crypto/signature"
	"github.com/storacha/go-scitt/identity"
	"github.com/storacha/go-scitt/principal"
	"github.com/storacha/go-scitt/principal/multiformat"
)

const Code = uint64(multicodec.P256Pub)
const Name = "P-256"

const SignatureCode = signature.ES256
const SignatureAlgorithm = "ES256"

// SignatureSize is the size of a raw r||s signature.
const SignatureSize = 2 * cose.P256CoordLen

func Parse(str string) (principal.Verifier, error) {
	_, bytes, err := multibase.Decode(str)
	if err != nil {
		return nil, fmt.Errorf("decoding multibase string: %w", err)
	}
	return Decode(bytes)
}

func Format(v principal.Verifier) (string, error) {
	return multibase.Encode(multibase.Base58BTC, v.Encode())
}

// Decode decodes a p256-pub multiformat: the varint code followed by a SEC1
// compressed point.
func Decode(b []byte) (principal.Verifier, error) {
	utb, err := multiformat.UntagWith(Code, b, 0)
	if err != nil {
		return nil, err
	}
	x, y := elliptic.UnmarshalCompressed(elliptic.P256(), utb)
	if x == nil {
		return nil, fmt.Errorf("invalid compressed P-256 public key")
	}
	return FromPublicKey(&ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y})
}

// FromPublicKey creates a verifier for a P-256 ECDSA public key.
func FromPublicKey(pub *ecdsa.PublicKey) (principal.Verifier, error) {
	pk, err := identity.FromECDSA(pub)
	if err != nil {
		return nil, err
	}
	compressed := elliptic.MarshalCompressed(elliptic.P256(), pub.X, pub.Y)
	return p256verifier{
		bytes:  multiformat.TagWith(Code, compressed),
		pubKey: pub,
		x:      pk.X,
		y:      pk.Y,
	}, nil
}

type p256verifier struct {
	bytes  []byte
	pubKey *ecdsa.PublicKey
	x      []byte
	y      []byte
}

func (v p256verifier) Code() uint64 {
	return Code
}

func (v p256verifier) Verify(msg []byte, sig signature.Signature) bool {
	if sig.Code() != SignatureCode {
		return false
	}
	raw := sig.Raw()
	if len(raw) != SignatureSize {
		return false
	}
	digest := sha256.Sum256(msg)
	r := new(big.Int).SetBytes(raw[:cose.P256CoordLen])
	s := new(big.Int).SetBytes(raw[cose.P256CoordLen:])
	return ecdsa.Verify(v.pubKey, digest[:], r, s)
}

func (v p256verifier) Coordinates() ([]byte, []byte) {
	return v.x, v.y
}

func (v p256verifier) Encode() []byte {
	return v.bytes
}

// PublicKey returns the verifier's ECDSA public key.
func (v p256verifier) PublicKey() *ecdsa.PublicKey {
	return v.pubKey
}
