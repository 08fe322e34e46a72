package identity

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	authmodel "github.com/secmon-lab/initiativeflow/pkg/domain/model/auth"
)

// NoAuthn authenticates every request as a fixed identity (for development/testing)
type NoAuthn struct {
	sub   string
	email string
	name  string
}

var _ interfaces.Authenticator = &NoAuthn{}

func NewNoAuthn(sub, email, name string) *NoAuthn {
	return &NoAuthn{
		sub:   sub,
		email: email,
		name:  name,
	}
}

// Authenticate ignores the credential and returns the fixed identity
func (n *NoAuthn) Authenticate(ctx context.Context, credential string) (*authmodel.Token, error) {
	return authmodel.NewToken(n.sub, n.email, n.name), nil
}

func (n *NoAuthn) IsNoAuthn() bool {
	return true
}
