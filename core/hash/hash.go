package hash

type Hasher interface {
	// Algorithm is the COSE algorithm identifier of the hash function.
	Algorithm() int64
	Sum(bytes []byte) (Digest, error)
}

type Digest interface {
	// Code is the multihash code of the hash function.
	Code() uint64
	Size() uint64
	// Digest is the raw hash output.
	Digest() []byte
	// Bytes is the multihash encoded digest.
	Bytes() []byte
}

type digest struct {
	code   uint64
	size   uint64
	digest []byte
	bytes  []byte
}

func (d *digest) Bytes() []byte {
	return d.bytes
}

func (d *digest) Code() uint64 {
	return d.code
}

func (d *digest) Digest() []byte {
	return d.digest
}

func (d *digest) Size() uint64 {
	return d.size
}

func NewDigest(code uint64, size uint64, digst []byte, bytes []byte) Digest {
	return &digest{code, size, digst, bytes}
}
