package cose

import (
	"fmt"

	"github.com/storacha/go-scitt/core/cbor"
)

// sigStructure is the COSE Sig_structure for a single signer.
type sigStructure struct {
	_             struct{} `cbor:",toarray"`
	Context       string
	BodyProtected []byte
	ExternalAAD   []byte
	Payload       []byte
}

// Sign1 is an untagged COSE_Sign1 message.
type Sign1 struct {
	_           struct{} `cbor:",toarray"`
	Protected   []byte
	Unprotected UnprotectedHeader
	Payload     []byte
	Signature   []byte
}

// EncodeProtected returns the serialized protected header, the exact bytes
// that are carried in the envelope and covered by the signature.
func EncodeProtected(h ProtectedHeader) ([]byte, error) {
	b, err := cbor.Encode(h)
	if err != nil {
		return nil, fmt.Errorf("encoding protected header: %w", err)
	}
	return b, nil
}

// DecodeProtected parses a serialized protected header. Labels outside
// [ProtectedLabels] are rejected, as is the absence of any required one.
func DecodeProtected(b []byte) (ProtectedHeader, error) {
	if err := checkLabels(b, ProtectedLabels, HeaderLabelPayloadLocation); err != nil {
		return ProtectedHeader{}, fmt.Errorf("decoding protected header: %w", err)
	}
	var h ProtectedHeader
	if err := cbor.Decode(b, &h); err != nil {
		return ProtectedHeader{}, fmt.Errorf("decoding protected header: %w", err)
	}
	return h, nil
}

// ToBeSigned returns the Sig_structure bytes for a COSE_Sign1 message with
// the given serialized protected header and payload. External additional
// data is always empty.
func ToBeSigned(protected []byte, payload []byte) ([]byte, error) {
	b, err := cbor.Encode(sigStructure{
		Context:       ContextSignature1,
		BodyProtected: protected,
		ExternalAAD:   []byte{},
		Payload:       payload,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding Sig_structure: %w", err)
	}
	return b, nil
}

// Encode serializes msg as a tagged COSE_Sign1 message.
func Encode(msg Sign1) ([]byte, error) {
	b, err := cbor.Encode(cbor.Tag{Number: TagSign1, Content: msg})
	if err != nil {
		return nil, fmt.Errorf("encoding COSE_Sign1: %w", err)
	}
	return b, nil
}

// Decode parses a tagged COSE_Sign1 message. The unprotected header must
// carry the certificate chain and nothing else.
func Decode(b []byte) (Sign1, error) {
	var tag cbor.RawTag
	if err := cbor.Decode(b, &tag); err != nil {
		return Sign1{}, fmt.Errorf("decoding COSE_Sign1 tag: %w", err)
	}
	if tag.Number != TagSign1 {
		return Sign1{}, fmt.Errorf("unexpected CBOR tag: %d wanted: %d", tag.Number, TagSign1)
	}
	var msg Sign1
	if err := cbor.Decode(tag.Content, &msg); err != nil {
		return Sign1{}, fmt.Errorf("decoding COSE_Sign1: %w", err)
	}
	var parts []cbor.RawMessage
	if err := cbor.Decode(tag.Content, &parts); err != nil || len(parts) != 4 {
		return Sign1{}, fmt.Errorf("decoding COSE_Sign1: malformed message")
	}
	if err := checkLabels(parts[1], UnprotectedLabels); err != nil {
		return Sign1{}, fmt.Errorf("decoding unprotected header: %w", err)
	}
	return msg, nil
}
