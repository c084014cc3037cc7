package signature

import (
	"bytes"
	"fmt"

	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-varint"
)

// ES256 is the varsig code for ECDSA P-256 with SHA-256.
const ES256 = uint64(multicodec.Es256)

// Signature is a signature tagged with the code of the algorithm that
// produced it.
type Signature interface {
	Code() uint64
	Size() uint64
	Bytes() []byte
	// Raw signature (without signature algorithm info).
	Raw() []byte
}

func NewSignature(code uint64, raw []byte) Signature {
	cl := varint.UvarintSize(code)
	rl := varint.UvarintSize(uint64(len(raw)))
	sig := make(signature, cl+rl+len(raw))
	varint.PutUvarint(sig, code)
	varint.PutUvarint(sig[cl:], uint64(len(raw)))
	copy(sig[cl+rl:], raw)
	return sig
}

func Encode(s Signature) []byte {
	return s.Bytes()
}

// Decode parses a tagged signature, checking that the declared length
// matches the raw bytes that follow the tags.
func Decode(b []byte) (Signature, error) {
	r := bytes.NewReader(b)
	if _, err := varint.ReadUvarint(r); err != nil {
		return nil, fmt.Errorf("reading signature code: %w", err)
	}
	size, err := varint.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("reading signature size: %w", err)
	}
	if uint64(r.Len()) != size {
		return nil, fmt.Errorf("invalid signature size: %d wanted: %d", r.Len(), size)
	}
	return signature(b), nil
}

type signature []byte

func (s signature) Code() uint64 {
	c, _ := varint.ReadUvarint(bytes.NewReader(s))
	return c
}

func (s signature) Size() uint64 {
	n, _ := varint.ReadUvarint(bytes.NewReader(s[varint.UvarintSize(s.Code()):]))
	return n
}

func (s signature) Raw() []byte {
	cl := varint.UvarintSize(s.Code())
	rl := varint.UvarintSize(s.Size())
	return s[cl+rl:]
}

func (s signature) Bytes() []byte {
	return s
}
