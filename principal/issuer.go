package principal

import (
	"context"

	"github.com/storacha/go-scitt/identity"
)

// IdentityProvider retrieves the identity of the issuer that owns a signing
// key.
type IdentityProvider interface {
	RetrieveIdentity(ctx context.Context) (identity.Identity, error)
}

// Issuer is the capability a statement is created with: the issuer's
// identity together with the ability to sign on its behalf.
type Issuer interface {
	IdentityProvider
	Signer
}

type issuer struct {
	IdentityProvider
	Signer
}

// NewIssuer combines an identity provider and a signer.
func NewIssuer(provider IdentityProvider, signer Signer) Issuer {
	return issuer{provider, signer}
}
