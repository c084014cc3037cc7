package fixtures

import (
	"bytes"
	"encoding/hex"

	"github.com/storacha/go-scitt/identity"
	"github.com/storacha/go-scitt/principal"
	"github.com/storacha/go-scitt/principal/es256/signer"
)

// RFC 6979 A.2.5 P-256 private key.
var Alice, _ = signer.FromRaw(mustHex("c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721"))

var Bob, _ = signer.FromRaw(mustHex("519b423d715f8b581f4fa8ee59f4771a5b44c8130b4e3eacca54a56dda72b464"))

var AliceIdentity, _ = identity.FromKey(Alice.Verifier(), "did:web:alice.example", identity.WithKeyID([]byte("alice-key-1")))

var BobIdentity, _ = identity.FromKey(Bob.Verifier(), "did:web:bob.example", identity.WithKeyID([]byte("bob-key-1")))

// AliceIssuer signs with Alice's key and reports AliceIdentity.
var AliceIssuer principal.Issuer = principal.NewIssuer(identity.Static(AliceIdentity), Alice)

// ExampleIdentity is an identity whose public key is not a valid point: x is
// 0x00..01 and y is 0x00..02. It is fine for building statements with a stub
// signer but cannot be used to verify them.
var ExampleIdentity = identity.Identity{
	PublicKey: identity.PublicKey{
		X: append(bytes.Repeat([]byte{0}, 31), 1),
		Y: append(bytes.Repeat([]byte{0}, 31), 2),
	},
	KeyID:          []byte("kid-1"),
	CertThumbprint: bytes.Repeat([]byte{0x5a}, 32),
	CertChain:      [][]byte{[]byte("leaf-certificate"), []byte("intermediate-certificate")},
	Issuer:         "example-issuer",
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
