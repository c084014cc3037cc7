package statement

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/storacha/go-scitt/core/cose"
	"github.com/storacha/go-scitt/core/hash"
	"github.com/storacha/go-scitt/core/hash/sha256"
	"github.com/storacha/go-scitt/identity"
)

// payloadHasher computes the payload digest. The payload hash algorithm
// header is read from it so the two always agree.
var payloadHasher hash.Hasher = sha256.Hasher

// BuildHeaders assembles the protected and unprotected headers of a hash
// envelope statement issued by id about subject.
//
// An empty location omits the payload location label rather than encoding
// an empty string.
func BuildHeaders(id identity.Identity, subject, contentType, location string) (cose.ProtectedHeader, cose.UnprotectedHeader, error) {
	if err := id.Validate(); err != nil {
		return cose.ProtectedHeader{}, cose.UnprotectedHeader{}, newError(KindMalformedIdentity, StageIdentity, err)
	}

	texts := []struct {
		name  string
		value string
	}{
		{"issuer", id.Issuer},
		{"subject", subject},
		{"content type", contentType},
		{"payload location", location},
	}
	for _, t := range texts {
		if !utf8.ValidString(t.value) {
			return cose.ProtectedHeader{}, cose.UnprotectedHeader{}, newError(KindEncodingFailure, StageHeaders, fmt.Errorf("%s is not valid UTF-8", t.name))
		}
	}

	protected := cose.ProtectedHeader{
		Algorithm:      cose.AlgorithmES256,
		ContentType:    contentType,
		KeyID:          slices.Clone(id.KeyID),
		CertThumbprint: slices.Clone(id.CertThumbprint),
		CWTClaims: cose.CWTClaims{
			Issuer:  id.Issuer,
			Subject: subject,
			Confirmation: cose.Confirmation{
				Key: cose.Key{
					KeyType: cose.KeyTypeEC2,
					Curve:   cose.CurveP256,
					X:       slices.Clone(id.PublicKey.X),
					Y:       slices.Clone(id.PublicKey.Y),
				},
			},
		},
		PayloadHashAlgorithm: payloadHasher.Algorithm(),
		PayloadLocation:      location,
	}

	chain := make(cose.CertChain, 0, len(id.CertChain))
	for _, cert := range id.CertChain {
		chain = append(chain, slices.Clone(cert))
	}
	unprotected := cose.UnprotectedHeader{CertChain: chain}

	return protected, unprotected, nil
}
