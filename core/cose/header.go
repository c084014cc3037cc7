package cose

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/storacha/go-scitt/core/cbor"
)

// ProtectedHeader is the protected header of a hash envelope signed
// statement. Field tags carry the integer labels; canonical encoding orders
// them by their encoded form, not by declaration order.
type ProtectedHeader struct {
	Algorithm            int64     `cbor:"1,keyasint"`
	ContentType          string    `cbor:"3,keyasint"`
	KeyID                []byte    `cbor:"4,keyasint"`
	CWTClaims            CWTClaims `cbor:"13,keyasint"`
	CertThumbprint       []byte    `cbor:"34,keyasint"`
	PayloadHashAlgorithm int64     `cbor:"998,keyasint"`
	// PayloadLocation is omitted from the encoding when empty.
	PayloadLocation string `cbor:"999,keyasint,omitempty"`
}

// CWTClaims binds the issuer, the subject and the issuer's verification key.
type CWTClaims struct {
	Issuer       string       `cbor:"1,keyasint"`
	Subject      string       `cbor:"2,keyasint"`
	Confirmation Confirmation `cbor:"8,keyasint"`
}

// Confirmation is the cnf claim.
type Confirmation struct {
	Key Key `cbor:"1,keyasint"`
}

// Key is an EC2 COSE_Key carrying public coordinates only.
type Key struct {
	KeyType int64  `cbor:"1,keyasint"`
	Curve   int64  `cbor:"-1,keyasint"`
	X       []byte `cbor:"-2,keyasint"`
	Y       []byte `cbor:"-3,keyasint"`
}

// UnprotectedHeader carries the certificate chain and nothing else.
type UnprotectedHeader struct {
	CertChain CertChain `cbor:"33,keyasint"`
}

// CertChain is an x5chain value, leaf first. A single certificate is encoded
// as a byte string and any other number as an array of byte strings.
type CertChain [][]byte

func (c CertChain) MarshalCBOR() ([]byte, error) {
	if len(c) == 1 {
		return cbor.Encode(c[0])
	}
	return cbor.Encode([][]byte(c))
}

func (c *CertChain) UnmarshalCBOR(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("decoding x5chain: empty input")
	}
	// major type 2 is a byte string
	if data[0]>>5 == 2 {
		var cert []byte
		if err := cbor.Decode(data, &cert); err != nil {
			return fmt.Errorf("decoding x5chain certificate: %w", err)
		}
		*c = CertChain{cert}
		return nil
	}
	var certs [][]byte
	if err := cbor.Decode(data, &certs); err != nil {
		return fmt.Errorf("decoding x5chain certificates: %w", err)
	}
	*c = certs
	return nil
}

// Labels returns the top level labels present in the encoding of h in
// ascending order.
func (h ProtectedHeader) Labels() ([]int64, error) {
	b, err := cbor.Encode(h)
	if err != nil {
		return nil, err
	}
	var m map[int64]cbor.RawMessage
	if err := cbor.Decode(b, &m); err != nil {
		return nil, err
	}
	labels := slices.Collect(maps.Keys(m))
	slices.Sort(labels)
	return labels, nil
}

var (
	ErrUnexpectedLabel = errors.New("unexpected header label")
	ErrMissingLabel    = errors.New("missing header label")
)

// ProtectedLabels are the labels a protected header may carry.
// [HeaderLabelPayloadLocation] is the only optional one.
var ProtectedLabels = []int64{
	HeaderLabelAlgorithm,
	HeaderLabelContentType,
	HeaderLabelKeyID,
	HeaderLabelCWTClaims,
	HeaderLabelX5T,
	HeaderLabelPayloadHashAlgorithm,
	HeaderLabelPayloadLocation,
}

// UnprotectedLabels are the labels an unprotected header carries.
var UnprotectedLabels = []int64{HeaderLabelX5Chain}

// checkLabels decodes the map in data and reports labels outside allowed and
// members of allowed, other than those in optional, that are absent.
func checkLabels(data []byte, allowed []int64, optional ...int64) error {
	var m map[int64]cbor.RawMessage
	if err := cbor.Decode(data, &m); err != nil {
		return fmt.Errorf("decoding header labels: %w", err)
	}
	for _, l := range slices.Sorted(maps.Keys(m)) {
		if !slices.Contains(allowed, l) {
			return fmt.Errorf("%w: %d", ErrUnexpectedLabel, l)
		}
	}
	for _, l := range allowed {
		if _, ok := m[l]; !ok && !slices.Contains(optional, l) {
			return fmt.Errorf("%w: %d", ErrMissingLabel, l)
		}
	}
	return nil
}
