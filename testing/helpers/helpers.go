package helpers

import (
	"context"
	crand "crypto/rand"
	"sync/atomic"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/datamodel"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/multiformats/go-multihash"
	"github.com/storacha/go-scitt/crypto/signature"
	"github.com/storacha/go-scitt/principal"
)

// Must takes return values from a function and returns the non-error one. If
// the error value is non-nil then it panics.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

func RandomBytes(size int) []byte {
	bytes := make([]byte, size)
	_, _ = crand.Read(bytes)
	return bytes
}

func RandomCID() datamodel.Link {
	bytes := RandomBytes(10)
	c, _ := cid.Prefix{
		Version:  1,
		Codec:    cid.Raw,
		MhType:   multihash.SHA2_256,
		MhLength: -1,
	}.Sum(bytes)
	return cidlink.Link{Cid: c}
}

// StubSigner is a signer that returns a fixed signature, or a fixed error,
// and counts how many times it was invoked.
type StubSigner struct {
	Signature []byte
	Err       error
	calls     atomic.Int64
	last      atomic.Pointer[[]byte]
}

func (s *StubSigner) Sign(ctx context.Context, msg []byte) (signature.Signature, error) {
	s.calls.Add(1)
	m := append([]byte(nil), msg...)
	s.last.Store(&m)
	if s.Err != nil {
		return nil, s.Err
	}
	return signature.NewSignature(signature.ES256, s.Signature), nil
}

// Calls returns the number of times Sign was invoked.
func (s *StubSigner) Calls() int {
	return int(s.calls.Load())
}

// LastMessage returns the bytes passed to the most recent Sign call.
func (s *StubSigner) LastMessage() []byte {
	if m := s.last.Load(); m != nil {
		return *m
	}
	return nil
}

var _ principal.Signer = (*StubSigner)(nil)
