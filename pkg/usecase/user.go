package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model/auth"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
)

// DefaultSignUpRole is assigned to profiles created at sign-up
const DefaultSignUpRole = types.RoleTeamMember

type UserUseCase struct {
	*guard
}

func NewUserUseCase(g *guard) *UserUseCase {
	return &UserUseCase{guard: g}
}

// EnsureProfile creates the profile of a freshly signed-up identity. An
// existing profile is returned unchanged.
func (uc *UserUseCase) EnsureProfile(ctx context.Context, uid model.UserID, input model.ProfileInput) (*model.User, error) {
	if err := model.Validate(input); err != nil {
		return nil, err
	}
	if uid == "" {
		return nil, goerr.Wrap(ErrProfileNotFound, "no signed-in user")
	}

	path := "users/" + uid.String()
	email := model.NormalizeEmail(input.Email)
	if token, err := auth.TokenFromContext(ctx); err == nil && token.Email != "" && model.NormalizeEmail(token.Email) != email {
		return nil, uc.deny(ctx, "EnsureProfile", path, uid, "profile email does not match signed-in identity", nil)
	}

	existing, err := uc.repo.User().Get(ctx, uid)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		if backendDenied(err) {
			return nil, uc.deny(ctx, "EnsureProfile", path, uid, "backend rejected profile read", err)
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V(UserIDKey, uid))
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:            uid,
		Name:          input.Name,
		Email:         email,
		Role:          DefaultSignUpRole,
		Active:        true,
		InitiativeIDs: []model.InitiativeID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.User().Put(ctx, user); err != nil {
		if backendDenied(err) {
			return nil, uc.deny(ctx, "EnsureProfile", path, uid, "backend rejected profile write", err)
		}
		return nil, goerr.Wrap(err, "failed to create profile", goerr.V(UserIDKey, uid))
	}

	logging.From(ctx).Info("profile created", "user_id", uid, "role", user.Role)
	return user, nil
}

// Me returns the caller's own profile
func (uc *UserUseCase) Me(ctx context.Context, uid model.UserID) (*model.User, error) {
	return uc.actor(ctx, uid)
}

func (uc *UserUseCase) user(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := uc.repo.User().Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrUserNotFound, "user not found", goerr.V(UserIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(UserIDKey, id))
	}
	return user, nil
}

// UpdateUser changes the profile fields set in input. Admin only.
func (uc *UserUseCase) UpdateUser(ctx context.Context, uid, id model.UserID, input model.UserInput) (*model.User, error) {
	if err := model.Validate(input); err != nil {
		return nil, err
	}
	if _, err := uc.requireAdmin(ctx, "UpdateUser", "users/"+id.String(), uid); err != nil {
		return nil, err
	}

	if _, err := uc.user(ctx, id); err != nil {
		return nil, err
	}

	patch := &model.UserPatch{UpdatedAt: time.Now().UTC()}
	if input.Name != "" {
		patch.Name = &input.Name
	}
	if input.Role != "" {
		patch.Role = &input.Role
	}
	if input.Department != "" {
		patch.Department = &input.Department
	}
	if input.Designation != "" {
		patch.Designation = &input.Designation
	}
	if input.PhotoURL != "" {
		patch.PhotoURL = &input.PhotoURL
	}

	user, err := uc.patchUser(ctx, id, patch)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update user", goerr.V(UserIDKey, id))
	}
	return user, nil
}

func (uc *UserUseCase) patchUser(ctx context.Context, id model.UserID, patch *model.UserPatch) (*model.User, error) {
	user, err := uc.repo.User().Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrUserNotFound, "user not found", goerr.V(UserIDKey, id))
		}
		return nil, err
	}
	return user, nil
}

// DeactivateUser marks the profile inactive. The profile and its
// memberships are kept.
func (uc *UserUseCase) DeactivateUser(ctx context.Context, uid, id model.UserID) (*model.User, error) {
	if _, err := uc.requireAdmin(ctx, "DeactivateUser", "users/"+id.String(), uid); err != nil {
		return nil, err
	}

	user, err := uc.user(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return user, nil
	}

	inactive := false
	user, err = uc.patchUser(ctx, id, &model.UserPatch{Active: &inactive, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to deactivate user", goerr.V(UserIDKey, id))
	}

	logging.From(ctx).Info("user deactivated", "user_id", id, "actor", uid)
	return user, nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, uid, id model.UserID) (*model.User, error) {
	if _, err := uc.actor(ctx, uid); err != nil {
		return nil, err
	}
	return uc.user(ctx, id)
}

func (uc *UserUseCase) ListUsers(ctx context.Context, uid model.UserID) ([]*model.User, error) {
	if _, err := uc.actor(ctx, uid); err != nil {
		return nil, err
	}
	users, err := uc.repo.User().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}
	return users, nil
}

func (uc *UserUseCase) WatchUsers(ctx context.Context, uid model.UserID, fn func(Live[[]*model.User])) *Subscription {
	return watchLive(ctx, "WatchUsers", fn, func(ctx context.Context, emit func([]*model.User)) error {
		if _, err := uc.actor(ctx, uid); err != nil {
			return err
		}
		return uc.repo.User().WatchAll(ctx, emit)
	})
}
