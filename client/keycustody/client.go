// Package keycustody is a client for a remote key custody service that holds
// an issuer's signing key and certificate chain. The service never releases
// the private key: it returns the issuer's identity and signs SHA-256
// digests on request.
package keycustody

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"

	logging "github.com/ipfs/go-log/v2"
	"github.com/storacha/go-scitt/core/cose"
	"github.com/storacha/go-scitt/crypto/signature"
	"github.com/storacha/go-scitt/identity"
	"github.com/storacha/go-scitt/principal"
	"github.com/storacha/go-scitt/transport"
	thttp "github.com/storacha/go-scitt/transport/http"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

var log = logging.Logger("scitt/keycustody")

// HashAlgorithm is the digest algorithm name sent with sign requests.
const HashAlgorithm = "SHA-256"

type publicKey struct {
	X []byte `json:"x"`
	Y []byte `json:"y"`
}

type identityResponse struct {
	Issuer                string    `json:"issuer"`
	KeyID                 []byte    `json:"key_id"`
	CertificateThumbprint []byte    `json:"certificate_thumbprint"`
	CertificateChain      [][]byte  `json:"certificate_chain"`
	PublicKey             publicKey `json:"public_key"`
}

type signRequest struct {
	HashAlgorithm string `json:"hash_algorithm"`
	Digest        []byte `json:"digest"`
}

type signResponse struct {
	Signature []byte `json:"signature"`
}

// Client signs with, and retrieves the identity of, one key pair held by the
// service. It implements [principal.Issuer].
type Client struct {
	channel transport.Channel
	keypair string
	cache   identity.Cache
}

var _ principal.Issuer = (*Client)(nil)

// New creates a client for the key pair with the given alias, held by the
// service at endpoint.
func New(endpoint string, keypair string, options ...Option) (*Client, error) {
	cfg := clientConfig{}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if keypair == "" {
		return nil, fmt.Errorf("key pair alias must not be empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint URL: %w", err)
	}
	if cfg.cache == nil {
		cfg.cache, err = identity.NewMemoryCache(identity.MemoryCacheSize)
		if err != nil {
			return nil, err
		}
	}

	chopts := []thttp.Option{}
	if cfg.client != nil {
		chopts = append(chopts, thttp.WithClient(cfg.client))
	}
	if cfg.apiKey != "" {
		chopts = append(chopts, thttp.WithHeader(APIKeyHeader, cfg.apiKey))
	}
	return &Client{
		channel: thttp.NewChannel(u, chopts...),
		keypair: keypair,
		cache:   cfg.cache,
	}, nil
}

// RetrieveIdentity returns the identity of the key pair, from the cache if it
// has been retrieved before.
func (c *Client) RetrieveIdentity(ctx context.Context) (identity.Identity, error) {
	id, ok, err := c.cache.Get(ctx, c.keypair)
	if err != nil {
		log.Warnw("reading identity cache", "keypair", c.keypair, "error", err)
	} else if ok {
		return id, nil
	}

	var ir identityResponse
	if err := c.do(ctx, http.MethodGet, "identity", nil, &ir); err != nil {
		return identity.Identity{}, fmt.Errorf("retrieving identity: %w", err)
	}

	id = identity.Identity{
		PublicKey:      identity.PublicKey{X: ir.PublicKey.X, Y: ir.PublicKey.Y},
		KeyID:          ir.KeyID,
		CertThumbprint: ir.CertificateThumbprint,
		CertChain:      ir.CertificateChain,
		Issuer:         ir.Issuer,
	}
	if err := id.Validate(); err != nil {
		return identity.Identity{}, err
	}

	if err := c.cache.Put(ctx, c.keypair, id); err != nil {
		log.Warnw("writing identity cache", "keypair", c.keypair, "error", err)
	}
	log.Debugw("retrieved identity", "keypair", c.keypair, "issuer", id.Issuer)
	return id, nil
}

// Sign asks the service to sign the SHA-256 digest of msg. The returned
// signature is always raw r||s, also when the service answers with DER.
func (c *Client) Sign(ctx context.Context, msg []byte) (signature.Signature, error) {
	digest := sha256.Sum256(msg)
	body, err := json.Marshal(signRequest{HashAlgorithm: HashAlgorithm, Digest: digest[:]})
	if err != nil {
		return nil, fmt.Errorf("encoding sign request: %w", err)
	}

	var sr signResponse
	if err := c.do(ctx, http.MethodPost, "sign", body, &sr); err != nil {
		return nil, fmt.Errorf("signing with %q: %w", c.keypair, err)
	}

	raw, err := normalizeSignature(sr.Signature)
	if err != nil {
		return nil, err
	}
	log.Debugw("signed digest", "keypair", c.keypair)
	return signature.NewSignature(signature.ES256, raw), nil
}

func (c *Client) do(ctx context.Context, method, action string, body []byte, out any) error {
	hdrs := http.Header{}
	hdrs.Set("Accept", "application/json")
	var rd io.Reader
	if body != nil {
		hdrs.Set("Content-Type", "application/json")
		rd = bytes.NewReader(body)
	}
	path := "keypairs/" + url.PathEscape(c.keypair) + "/" + action

	res, err := c.channel.Request(ctx, thttp.NewRequest(method, path, rd, hdrs))
	if err != nil {
		return classify(err)
	}
	defer res.Body().Close()

	if err := json.NewDecoder(res.Body()).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// classify maps a channel error onto the principal signing errors. Other
// unsuccessful statuses are returned as they are.
func classify(err error) error {
	var herr transport.HTTPError
	if !errors.As(err, &herr) {
		return fmt.Errorf("%w: %w", principal.ErrSigningUnavailable, err)
	}
	switch status := herr.Status(); {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", principal.ErrSigningRejected, err)
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", principal.ErrSigningUnavailable, err)
	default:
		return err
	}
}

// normalizeSignature converts an ASN.1 DER ECDSA signature to raw r||s. Raw
// signatures are returned unchanged.
func normalizeSignature(sig []byte) ([]byte, error) {
	const size = 2 * cose.P256CoordLen
	if len(sig) == size {
		return sig, nil
	}

	var (
		inner cryptobyte.String
		r, s  = new(big.Int), new(big.Int)
	)
	input := cryptobyte.String(sig)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, fmt.Errorf("invalid signature: %d bytes is neither raw nor DER", len(sig))
	}
	if r.Sign() <= 0 || s.Sign() <= 0 || r.BitLen() > 8*cose.P256CoordLen || s.BitLen() > 8*cose.P256CoordLen {
		return nil, fmt.Errorf("invalid signature: integer out of range")
	}

	raw := make([]byte, size)
	r.FillBytes(raw[:cose.P256CoordLen])
	s.FillBytes(raw[cose.P256CoordLen:])
	return raw, nil
}
