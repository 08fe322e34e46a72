package interfaces

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model/auth"
)

// IdentityProvider provisions authentication accounts
type IdentityProvider interface {
	// CreateOrGet creates the account, or reports that it already exists.
	// It never returns an error; failures are ProvisionFailed results.
	CreateOrGet(ctx context.Context, account model.Account) model.ProvisionResult
}

// Authenticator resolves a bearer credential into the signed-in identity
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*auth.Token, error)
	// IsNoAuthn reports development mode, where every request runs as a
	// fixed identity and no credential is required
	IsNoAuthn() bool
}
