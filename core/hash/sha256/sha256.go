package sha256

import (
	"crypto/sha256"
	"fmt"

	"github.com/multiformats/go-multihash"
	"github.com/storacha/go-scitt/core/cose"
	"github.com/storacha/go-scitt/core/hash"
)

// sha2-256
const Code = multihash.SHA2_256

// sha2-256 hash has a 32-byte sum
const Size = sha256.Size

// Algorithm is the COSE identifier written to the payload hash algorithm
// header of statements whose payload digest is produced by [Hasher].
const Algorithm = cose.AlgorithmSHA256

type hasher struct{}

func (hasher) Code() uint64 {
	return Code
}

func (hasher) Size() uint64 {
	return Size
}

func (hasher) Algorithm() int64 {
	return Algorithm
}

func (hasher) Sum(b []byte) (hash.Digest, error) {
	sum := sha256.Sum256(b)
	d, err := multihash.Encode(sum[:], Code)
	if err != nil {
		return nil, fmt.Errorf("encoding multihash: %w", err)
	}
	return hash.NewDigest(Code, Size, sum[:], d), nil
}

var Hasher = hasher{}
