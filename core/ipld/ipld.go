package ipld

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/multiformats/go-multihash"
)

type Link = ipld.Link

type Block interface {
	Link() Link
	Bytes() []byte
}

type block struct {
	link  Link
	bytes []byte
}

func (b *block) Link() Link {
	return b.link
}

func (b *block) Bytes() []byte {
	return b.bytes
}

// NewBlock creates a block for bytes encoded with the given multicodec. The
// link is a v1 CID using a sha2-256 multihash.
func NewBlock(codec uint64, bytes []byte) (Block, error) {
	c, err := cid.Prefix{
		Version:  1,
		Codec:    codec,
		MhType:   multihash.SHA2_256,
		MhLength: -1,
	}.Sum(bytes)
	if err != nil {
		return nil, fmt.Errorf("computing CID: %w", err)
	}
	return &block{cidlink.Link{Cid: c}, bytes}, nil
}

// NewBlockUnsafe creates a block without checking that link addresses bytes.
func NewBlockUnsafe(link Link, bytes []byte) Block {
	return &block{link, bytes}
}

// CID returns the CID of a link created by this package or decoded from a
// CAR.
func CID(link Link) (cid.Cid, error) {
	cl, ok := link.(cidlink.Link)
	if !ok {
		return cid.Undef, fmt.Errorf("unsupported link type: %T", link)
	}
	return cl.Cid, nil
}
