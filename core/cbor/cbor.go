package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/multiformats/go-multicodec"
)

// Code is the multicodec code for CBOR.
const Code = uint64(multicodec.Cbor)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	// RFC 8949 core deterministic encoding: shortest-form integers and
	// lengths, definite lengths only and map keys (including keyasint struct
	// fields) sorted bytewise by their encoded form. Nil byte strings and
	// arrays are written as empty rather than null.
	opts := cbor.CoreDetEncOptions()
	opts.NilContainers = cbor.NilContainerAsEmpty
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Errorf("creating CBOR encoding mode: %w", err))
	}
	encMode = em

	dm, err := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
		UTF8:        cbor.UTF8RejectInvalid,
	}.DecMode()
	if err != nil {
		panic(fmt.Errorf("creating CBOR decoding mode: %w", err))
	}
	decMode = dm
}

type codec struct{}

func (codec) Code() uint64 {
	return Code
}

func (codec) Encode(val any) ([]byte, error) {
	return Encode(val)
}

func (codec) Decode(b []byte, bind any) error {
	return Decode(b, bind)
}

var Codec = codec{}

// Encode serializes val with canonical (deterministic) CBOR encoding. Equal
// inputs always produce identical bytes.
func Encode(val any) ([]byte, error) {
	return encMode.Marshal(val)
}

// Decode parses b into bind. Duplicate map keys, indefinite length items and
// invalid UTF-8 text strings are rejected.
func Decode(b []byte, bind any) error {
	return decMode.Unmarshal(b, bind)
}

// RawMessage is a raw encoded CBOR value.
type RawMessage = cbor.RawMessage

// RawTag is a CBOR tag with its raw encoded content.
type RawTag = cbor.RawTag

// Tag is a CBOR tag wrapping a Go value.
type Tag = cbor.Tag
