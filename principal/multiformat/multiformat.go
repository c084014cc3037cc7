package multiformat

import (
	"bytes"
	"fmt"

	"github.com/multiformats/go-varint"
)

// TagWith prefixes bytes with the varint encoded code.
func TagWith(code uint64, bytes []byte) []byte {
	offset := varint.UvarintSize(code)
	tagged := make([]byte, len(bytes)+offset)
	varint.PutUvarint(tagged, code)
	copy(tagged[offset:], bytes)
	return tagged
}

// Tag reads the varint code at the start of source.
func Tag(source []byte) (uint64, error) {
	tag, err := varint.ReadUvarint(bytes.NewReader(source))
	if err != nil {
		return 0, fmt.Errorf("reading multiformat tag: %w", err)
	}
	return tag, nil
}

// UntagWith checks that the bytes at offset are tagged with code and returns
// the bytes that follow the tag.
func UntagWith(code uint64, source []byte, offset int) ([]byte, error) {
	b := source
	if offset != 0 {
		b = source[offset:]
	}

	tag, err := Tag(b)
	if err != nil {
		return nil, err
	}

	if tag != code {
		return nil, fmt.Errorf("expected multiformat with 0x%x tag instead got 0x%x", code, tag)
	}

	size := varint.UvarintSize(code)
	return b[size:], nil
}
