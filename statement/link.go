package statement

import (
	"github.com/storacha/go-scitt/core/cbor"
	"github.com/storacha/go-scitt/core/ipld"
)

// Link returns the content address of a serialized statement: a v1 CID with
// the cbor codec and a sha2-256 multihash.
func Link(raw []byte) (ipld.Link, error) {
	blk, err := ipld.NewBlock(cbor.Code, raw)
	if err != nil {
		return nil, err
	}
	return blk.Link(), nil
}
