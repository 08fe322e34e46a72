package identity

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	authmodel "github.com/secmon-lab/initiativeflow/pkg/domain/model/auth"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
	"google.golang.org/api/option"
)

// ErrInvalidCredential is returned when a bearer credential cannot be verified
var ErrInvalidCredential = goerr.New("invalid credential")

// Firebase provisions and verifies accounts with Firebase Authentication
type Firebase struct {
	client *auth.Client
}

var (
	_ interfaces.IdentityProvider = &Firebase{}
	_ interfaces.Authenticator    = &Firebase{}
)

// NewFirebase initializes the Admin SDK for projectID. Credentials come from
// opts or the platform default.
func NewFirebase(ctx context.Context, projectID string, opts ...option.ClientOption) (*Firebase, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize firebase app", goerr.V("project_id", projectID))
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize firebase auth", goerr.V("project_id", projectID))
	}

	return &Firebase{client: client}, nil
}

// CreateOrGet creates the account. An existing account is reported as
// ProvisionAlreadyExists with its UID looked up by email.
func (f *Firebase) CreateOrGet(ctx context.Context, account model.Account) model.ProvisionResult {
	email := model.NormalizeEmail(account.Email)
	params := (&auth.UserToCreate{}).Email(email)
	if account.Password != "" {
		params = params.Password(account.Password)
	}
	if account.DisplayName != "" {
		params = params.DisplayName(account.DisplayName)
	}

	record, err := f.client.CreateUser(ctx, params)
	if err == nil {
		return model.ProvisionResult{
			Status: model.ProvisionCreated,
			UID:    model.UserID(record.UID),
			Email:  email,
		}
	}

	if !auth.IsEmailAlreadyExists(err) {
		return model.ProvisionResult{
			Status: model.ProvisionFailed,
			Email:  email,
			Reason: goerr.Wrap(err, "failed to create account", goerr.V("email", email)),
		}
	}

	result := model.ProvisionResult{Status: model.ProvisionAlreadyExists, Email: email}
	existing, err := f.client.GetUserByEmail(ctx, email)
	if err != nil {
		logging.From(ctx).Warn("account exists but lookup failed", "email", email, "error", err)
		return result
	}
	result.UID = model.UserID(existing.UID)
	return result
}

// Authenticate verifies a Firebase ID token
func (f *Firebase) Authenticate(ctx context.Context, credential string) (*authmodel.Token, error) {
	if credential == "" {
		return nil, goerr.Wrap(ErrInvalidCredential, "empty credential")
	}

	token, err := f.client.VerifyIDToken(ctx, credential)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidCredential, "failed to verify id token", goerr.V("reason", err.Error()))
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	return authmodel.NewToken(token.UID, model.NormalizeEmail(email), name), nil
}

func (f *Firebase) IsNoAuthn() bool {
	return false
}
