package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/service/identity"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// IdentityService provisions accounts and verifies their bearer credentials
type IdentityService interface {
	interfaces.IdentityProvider
	interfaces.Authenticator
}

// Identity holds CLI flags for the account provider
type Identity struct {
	backend   string
	projectID string

	noAuthUID   string
	noAuthEmail string
	noAuthName  string
}

func (x *Identity) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "identity-backend",
			Usage:       "Identity provider (firebase or memory)",
			Value:       "firebase",
			Category:    "Identity",
			Sources:     cli.EnvVars("INITIATIVEFLOW_IDENTITY_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "firebase-project-id",
			Usage:       "Firebase project ID (required when using firebase identity backend)",
			Category:    "Identity",
			Sources:     cli.EnvVars("INITIATIVEFLOW_FIREBASE_PROJECT_ID"),
			Destination: &x.projectID,
		},
	}
}

// NoAuthFlags returns the development flags that bypass authentication
func (x *Identity) NoAuthFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run every request as the given UID (development only)",
			Category:    "Identity",
			Sources:     cli.EnvVars("INITIATIVEFLOW_NO_AUTH"),
			Destination: &x.noAuthUID,
		},
		&cli.StringFlag{
			Name:        "no-auth-email",
			Usage:       "Email of the no-auth identity",
			Value:       "developer@example.com",
			Category:    "Identity",
			Sources:     cli.EnvVars("INITIATIVEFLOW_NO_AUTH_EMAIL"),
			Destination: &x.noAuthEmail,
		},
		&cli.StringFlag{
			Name:        "no-auth-name",
			Usage:       "Display name of the no-auth identity",
			Value:       "Developer",
			Category:    "Identity",
			Sources:     cli.EnvVars("INITIATIVEFLOW_NO_AUTH_NAME"),
			Destination: &x.noAuthName,
		},
	}
}

func (x Identity) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("project_id", x.projectID),
		slog.String("no_auth_uid", x.noAuthUID),
	)
}

// IsNoAuthMode reports whether --no-auth was given
func (x *Identity) IsNoAuthMode() bool {
	return x.noAuthUID != ""
}

// Configure builds the identity service
func (x *Identity) Configure(ctx context.Context, opts ...option.ClientOption) (IdentityService, error) {
	switch x.backend {
	case "firebase":
		if x.projectID == "" {
			return nil, goerr.Wrap(ErrMissingFlag, "firebase-project-id is required when using firebase identity backend")
		}
		svc, err := identity.NewFirebase(ctx, x.projectID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firebase identity")
		}
		logging.Default().Info("Using Firebase identity provider", "project_id", x.projectID)
		return svc, nil

	case "memory":
		logging.Default().Info("Using in-memory identity provider (development mode)")
		return identity.NewMemory(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown identity backend", goerr.V(BackendKey, x.backend))
	}
}

// Authenticator returns the fixed no-auth identity when --no-auth is set,
// and svc otherwise.
func (x *Identity) Authenticator(svc interfaces.Authenticator) interfaces.Authenticator {
	if x.IsNoAuthMode() {
		return identity.NewNoAuthn(x.noAuthUID, x.noAuthEmail, x.noAuthName)
	}
	return svc
}
