package signer

import (
	"context"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/storacha/go-scitt/core/cose"
	"github.com/storacha/go-scitt/crypto/signature"
	"github.com/storacha/go-scitt/principal"
	"github.com/storacha/go-scitt/principal/es256/verifier"
	"github.com/storacha/go-scitt/principal/multiformat"
)

const Code = uint64(multicodec.P256Priv)
const Name = verifier.Name

const SignatureCode = verifier.SignatureCode
const SignatureAlgorithm = verifier.SignatureAlgorithm

const keySize = cose.P256CoordLen

func Generate() (principal.SigningKey, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating P-256 key: %w", err)
	}
	return FromPrivateKey(priv)
}

func Parse(str string) (principal.SigningKey, error) {
	_, bytes, err := multibase.Decode(str)
	if err != nil {
		return nil, fmt.Errorf("decoding multibase string: %w", err)
	}
	return Decode(bytes)
}

func Format(signer principal.SigningKey) (string, error) {
	return multibase.Encode(multibase.Base64pad, signer.Encode())
}

// Decode decodes a p256-priv multiformat: the varint code followed by the
// 32 byte private scalar.
func Decode(b []byte) (principal.SigningKey, error) {
	utb, err := multiformat.UntagWith(Code, b, 0)
	if err != nil {
		return nil, err
	}
	return FromRaw(utb)
}

// FromRaw creates a signer from a big-endian 32 byte private scalar.
func FromRaw(scalar []byte) (principal.SigningKey, error) {
	if len(scalar) != keySize {
		return nil, fmt.Errorf("invalid length: %d wanted: %d", len(scalar), keySize)
	}
	// the ECDH constructor rejects zero and out of range scalars
	ek, err := ecdh.P256().NewPrivateKey(scalar)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	point := ek.PublicKey().Bytes()
	priv := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     new(big.Int).SetBytes(point[1 : 1+keySize]),
			Y:     new(big.Int).SetBytes(point[1+keySize:]),
		},
		D: new(big.Int).SetBytes(scalar),
	}
	return FromPrivateKey(priv)
}

// FromPEM parses a PEM encoded P-256 private key in SEC 1 ("EC PRIVATE KEY")
// or PKCS #8 ("PRIVATE KEY") form.
func FromPEM(b []byte) (principal.SigningKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	switch block.Type {
	case "EC PRIVATE KEY":
		priv, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parsing EC private key: %w", err)
		}
		return FromPrivateKey(priv)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parsing PKCS #8 private key: %w", err)
		}
		priv, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("unsupported private key type: %T", key)
		}
		return FromPrivateKey(priv)
	default:
		return nil, fmt.Errorf("unsupported PEM block type: %q", block.Type)
	}
}

// MarshalPEM encodes the signer's private key as a SEC 1 PEM block.
func MarshalPEM(signer principal.SigningKey) ([]byte, error) {
	s, ok := signer.(p256signer)
	if !ok {
		return nil, fmt.Errorf("unsupported signer: %T", signer)
	}
	der, err := x509.MarshalECPrivateKey(s.privKey)
	if err != nil {
		return nil, fmt.Errorf("marshaling private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}

func FromPrivateKey(priv *ecdsa.PrivateKey) (principal.SigningKey, error) {
	if priv == nil || priv.Curve != elliptic.P256() {
		return nil, fmt.Errorf("private key is not a P-256 key")
	}
	verif, err := verifier.FromPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("creating verifier: %w", err)
	}
	scalar := priv.D.FillBytes(make([]byte, keySize))
	return p256signer{
		bytes:    multiformat.TagWith(Code, scalar),
		privKey:  priv,
		verifier: verif,
	}, nil
}

type p256signer struct {
	bytes    []byte
	privKey  *ecdsa.PrivateKey
	verifier principal.Verifier
}

func (s p256signer) Code() uint64 {
	return Code
}

func (s p256signer) SignatureCode() uint64 {
	return SignatureCode
}

func (s p256signer) SignatureAlgorithm() string {
	return SignatureAlgorithm
}

func (s p256signer) Verifier() principal.Verifier {
	return s.verifier
}

func (s p256signer) Encode() []byte {
	return s.bytes
}

func (s p256signer) Raw() []byte {
	b, _ := multiformat.UntagWith(Code, s.bytes, 0)
	return b
}

// Sign returns a raw r||s signature over the SHA-256 digest of msg.
func (s p256signer) Sign(ctx context.Context, msg []byte) (signature.Signature, error) {
	digest := sha256.Sum256(msg)
	r, sv, err := ecdsa.Sign(rand.Reader, s.privKey, digest[:])
	if err != nil {
		return nil, fmt.Errorf("signing digest: %w", err)
	}
	raw := make([]byte, verifier.SignatureSize)
	r.FillBytes(raw[:keySize])
	sv.FillBytes(raw[keySize:])
	return signature.NewSignature(SignatureCode, raw), nil
}
