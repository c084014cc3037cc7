// Package identity describes the issuer of a signed statement: its public
// verification key, key identifier, certificate chain and issuer string.
//
// An Identity is produced by an identity provider (a key custody service, a
// local key and certificate, or a fixed value in tests) and is only read by
// the statement builder.
package identity

import (
	"context"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"math/big"

	"github.com/storacha/go-scitt/core/cose"
)

// ErrMalformed is returned (wrapped) when an identity cannot be bound into a
// statement.
var ErrMalformed = errors.New("malformed identity")

// PublicKey is an uncompressed P-256 point. X and Y are big-endian and each
// exactly [cose.P256CoordLen] bytes.
type PublicKey struct {
	X []byte
	Y []byte
}

type Identity struct {
	PublicKey      PublicKey
	KeyID          []byte
	CertThumbprint []byte
	// CertChain is ordered leaf first.
	CertChain [][]byte
	Issuer    string
}

// Validate checks that the public key coordinates have the width of the
// supported curve.
func (id Identity) Validate() error {
	if len(id.PublicKey.X) != cose.P256CoordLen {
		return fmt.Errorf("%w: public key x coordinate is %d bytes, wanted %d", ErrMalformed, len(id.PublicKey.X), cose.P256CoordLen)
	}
	if len(id.PublicKey.Y) != cose.P256CoordLen {
		return fmt.Errorf("%w: public key y coordinate is %d bytes, wanted %d", ErrMalformed, len(id.PublicKey.Y), cose.P256CoordLen)
	}
	return nil
}

// ECDSA returns the public key as a [crypto/ecdsa] key.
func (pk PublicKey) ECDSA() (*ecdsa.PublicKey, error) {
	if len(pk.X) != cose.P256CoordLen || len(pk.Y) != cose.P256CoordLen {
		return nil, fmt.Errorf("%w: invalid coordinate length", ErrMalformed)
	}
	point := make([]byte, 0, 1+2*cose.P256CoordLen)
	point = append(point, 4)
	point = append(point, pk.X...)
	point = append(point, pk.Y...)
	// the ECDH parser rejects points that are not on the curve
	if _, err := ecdh.P256().NewPublicKey(point); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(pk.X),
		Y:     new(big.Int).SetBytes(pk.Y),
	}, nil
}

// FromECDSA returns the fixed-width coordinates of a P-256 public key.
func FromECDSA(pub *ecdsa.PublicKey) (PublicKey, error) {
	if pub == nil || pub.Curve != elliptic.P256() {
		return PublicKey{}, fmt.Errorf("%w: public key is not a P-256 key", ErrMalformed)
	}
	ek, err := pub.ECDH()
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	b := ek.Bytes()
	return PublicKey{
		X: b[1 : 1+cose.P256CoordLen],
		Y: b[1+cose.P256CoordLen:],
	}, nil
}

// ECKey is a public key that exposes its P-256 coordinates.
type ECKey interface {
	Coordinates() (x []byte, y []byte)
}

// Option is an option configuring an identity.
type Option func(cfg *idConfig) error

type idConfig struct {
	keyID []byte
	chain [][]byte
}

// WithKeyID sets the key identifier. When not set the key identifier is the
// SHA-256 digest of the leaf certificate, or of the uncompressed public key
// if no certificate chain was given.
func WithKeyID(kid []byte) Option {
	return func(cfg *idConfig) error {
		cfg.keyID = kid
		return nil
	}
}

// WithCertificateChain sets the DER encoded certificate chain, leaf first.
// The leaf is not checked against the key.
func WithCertificateChain(chain [][]byte) Option {
	return func(cfg *idConfig) error {
		cfg.chain = chain
		return nil
	}
}

// FromKey creates an identity for the given public key.
func FromKey(key ECKey, issuer string, options ...Option) (Identity, error) {
	cfg := idConfig{}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return Identity{}, err
		}
	}

	x, y := key.Coordinates()
	id := Identity{
		PublicKey: PublicKey{X: x, Y: y},
		KeyID:     cfg.keyID,
		CertChain: cfg.chain,
		Issuer:    issuer,
	}
	if len(cfg.chain) > 0 {
		sum := sha256.Sum256(cfg.chain[0])
		id.CertThumbprint = sum[:]
	}
	if id.KeyID == nil {
		if id.CertThumbprint != nil {
			id.KeyID = id.CertThumbprint
		} else {
			point := append(append([]byte{4}, x...), y...)
			sum := sha256.Sum256(point)
			id.KeyID = sum[:]
		}
	}
	if err := id.Validate(); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// FromCertificateChain creates an identity from a DER encoded certificate
// chain, leaf first. The leaf certificate must hold a P-256 public key.
func FromCertificateChain(chain [][]byte, issuer string, options ...Option) (Identity, error) {
	if len(chain) == 0 {
		return Identity{}, fmt.Errorf("%w: empty certificate chain", ErrMalformed)
	}
	leaf, err := x509.ParseCertificate(chain[0])
	if err != nil {
		return Identity{}, fmt.Errorf("parsing leaf certificate: %w", err)
	}
	pub, ok := leaf.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return Identity{}, fmt.Errorf("%w: leaf certificate key is %T, not ECDSA", ErrMalformed, leaf.PublicKey)
	}
	pk, err := FromECDSA(pub)
	if err != nil {
		return Identity{}, err
	}
	options = append([]Option{WithCertificateChain(chain)}, options...)
	return FromKey(pk, issuer, options...)
}

// Coordinates makes PublicKey an [ECKey].
func (pk PublicKey) Coordinates() ([]byte, []byte) {
	return pk.X, pk.Y
}

// Static is an identity provider that always returns the same identity.
type Static Identity

func (s Static) RetrieveIdentity(ctx context.Context) (Identity, error) {
	return Identity(s), nil
}
