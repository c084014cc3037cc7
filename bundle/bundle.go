// Package bundle packs a signed statement and the payload it is about into
// a single CAR archive. The statement block is the only root; the payload is
// stored as a raw block.
package bundle

import (
	"fmt"
	"io"

	logging "github.com/ipfs/go-log/v2"
	"github.com/multiformats/go-multicodec"
	"github.com/storacha/go-scitt/core/car"
	"github.com/storacha/go-scitt/core/cbor"
	"github.com/storacha/go-scitt/core/ipld"
	"github.com/storacha/go-scitt/core/iterable"
	"github.com/storacha/go-scitt/statement"
)

var log = logging.Logger("scitt/bundle")

// ContentType is the media type of an encoded bundle.
const ContentType = car.ContentType

// PayloadCode is the CID codec of the payload block.
const PayloadCode = uint64(multicodec.Raw)

type Bundle struct {
	// Statement is the serialized signed statement.
	Statement []byte
	// Payload is the original content the statement is about. It may be nil
	// when the bundle carries the statement alone.
	Payload []byte
}

// Encode writes the bundle as a CAR. The payload must hash to the
// statement's payload digest.
func Encode(b Bundle) (io.Reader, error) {
	env, err := statement.Decode(b.Statement)
	if err != nil {
		return nil, fmt.Errorf("decoding statement: %w", err)
	}
	root, err := ipld.NewBlock(cbor.Code, b.Statement)
	if err != nil {
		return nil, err
	}
	blocks := []ipld.Block{root}
	if b.Payload != nil {
		if err := checkPayload(env, b.Payload); err != nil {
			return nil, err
		}
		pblk, err := ipld.NewBlock(PayloadCode, b.Payload)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, pblk)
	}
	log.Debugw("encoding bundle", "root", root.Link().String(), "blocks", len(blocks))
	return car.Encode([]ipld.Link{root.Link()}, iterable.From(blocks)), nil
}

// Decode reads a bundle from a CAR. The root block must be a statement and
// any raw block must be the payload the statement is about.
func Decode(r io.Reader) (Bundle, error) {
	roots, blocks, err := car.Decode(r)
	if err != nil {
		return Bundle{}, fmt.Errorf("decoding CAR: %w", err)
	}
	if len(roots) != 1 {
		return Bundle{}, fmt.Errorf("unexpected number of roots: %d, expected: 1", len(roots))
	}
	blks, err := iterable.Collect(blocks)
	if err != nil {
		return Bundle{}, fmt.Errorf("reading CAR blocks: %w", err)
	}

	var b Bundle
	for _, blk := range blks {
		c, err := ipld.CID(blk.Link())
		if err != nil {
			return Bundle{}, err
		}
		switch {
		case blk.Link().String() == roots[0].String():
			b.Statement = blk.Bytes()
		case c.Prefix().Codec == PayloadCode:
			if b.Payload != nil {
				return Bundle{}, fmt.Errorf("bundle contains more than one payload block")
			}
			b.Payload = blk.Bytes()
		default:
			return Bundle{}, fmt.Errorf("unexpected block in bundle: %s", blk.Link())
		}
	}
	if b.Statement == nil {
		return Bundle{}, fmt.Errorf("missing root block: %s", roots[0])
	}

	env, err := statement.Decode(b.Statement)
	if err != nil {
		return Bundle{}, fmt.Errorf("decoding statement: %w", err)
	}
	if b.Payload != nil {
		if err := checkPayload(env, b.Payload); err != nil {
			return Bundle{}, err
		}
	}
	return b, nil
}

func checkPayload(env statement.SignedEnvelope, payload []byte) error {
	if err := env.CheckPayload(payload); err != nil {
		return fmt.Errorf("checking bundle payload: %w", err)
	}
	return nil
}
