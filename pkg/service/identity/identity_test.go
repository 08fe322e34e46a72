package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/service/identity"
)

func TestMemory_CreateOrGet(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a new account", func(t *testing.T) {
		m := identity.NewMemory()
		result := m.CreateOrGet(ctx, model.Account{Email: "New@Example.com", Password: "secret123"})
		gt.Value(t, result.Status).Equal(model.ProvisionCreated)
		gt.Value(t, result.Email).Equal("new@example.com")
		gt.Value(t, result.UID).NotEqual(model.UserID(""))
		gt.Bool(t, result.Provisioned()).True()
	})

	t.Run("existing account is reported with its UID", func(t *testing.T) {
		m := identity.NewMemory()
		uid := m.Register("taken@example.com", "Taken")

		result := m.CreateOrGet(ctx, model.Account{Email: "TAKEN@example.com"})
		gt.Value(t, result.Status).Equal(model.ProvisionAlreadyExists)
		gt.Value(t, result.UID).Equal(uid)
		gt.Bool(t, result.Provisioned()).True()
	})

	t.Run("existing account without lookup has no UID", func(t *testing.T) {
		m := identity.NewMemory(identity.WithoutExistingUID())
		m.Register("taken@example.com", "Taken")

		result := m.CreateOrGet(ctx, model.Account{Email: "taken@example.com"})
		gt.Value(t, result.Status).Equal(model.ProvisionAlreadyExists)
		gt.Value(t, result.UID).Equal(model.UserID(""))
	})

	t.Run("failure is a tagged result, not an error", func(t *testing.T) {
		m := identity.NewMemory()
		boom := errors.New("quota exceeded")
		m.FailOn("bad@example.com", boom)

		result := m.CreateOrGet(ctx, model.Account{Email: "bad@example.com"})
		gt.Value(t, result.Status).Equal(model.ProvisionFailed)
		gt.Bool(t, result.Provisioned()).False()
		gt.Error(t, result.Reason).Is(boom)
	})
}

func TestMemory_Authenticate(t *testing.T) {
	ctx := context.Background()
	m := identity.NewMemory()
	uid := m.Register("user@example.com", "User")

	token, err := m.Authenticate(ctx, uid.String())
	gt.NoError(t, err).Required()
	gt.Value(t, token.Sub).Equal(uid.String())
	gt.Value(t, token.Email).Equal("user@example.com")
	gt.Bool(t, m.IsNoAuthn()).False()

	_, err = m.Authenticate(ctx, "unknown")
	gt.Error(t, err).Is(identity.ErrInvalidCredential)
}

func TestNoAuthn(t *testing.T) {
	n := identity.NewNoAuthn("dev-uid", "dev@example.com", "Developer")

	token, err := n.Authenticate(context.Background(), "")
	gt.NoError(t, err).Required()
	gt.Value(t, token.Sub).Equal("dev-uid")
	gt.Value(t, token.Name).Equal("Developer")
	gt.Bool(t, n.IsNoAuthn()).True()
}
