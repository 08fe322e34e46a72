package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// guard resolves the acting profile and enforces role and membership rules
type guard struct {
	repo interfaces.Repository
	bus  interfaces.ErrorBus
}

// actor returns the stored profile of uid
func (g *guard) actor(ctx context.Context, uid model.UserID) (*model.User, error) {
	if uid == "" {
		return nil, goerr.Wrap(ErrProfileNotFound, "no signed-in user")
	}
	user, err := g.repo.User().Get(ctx, uid)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrProfileNotFound, "profile of signed-in user not found", goerr.V(UserIDKey, uid))
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V(UserIDKey, uid))
	}
	return user, nil
}

// deny builds an ErrPermissionDenied error and publishes it on the bus
func (g *guard) deny(ctx context.Context, op, path string, actor model.UserID, reason string, cause error) error {
	opts := []goerr.Option{
		goerr.V(OperationKey, op),
		goerr.V(UserIDKey, actor),
		goerr.V("path", path),
	}
	if cause != nil {
		opts = append(opts, goerr.V("cause", cause.Error()))
	}
	err := goerr.Wrap(ErrPermissionDenied, reason, opts...)

	g.bus.Publish(ctx, &model.ErrorEvent{
		Kind:       model.ErrorKindPermissionDenied,
		Operation:  op,
		Path:       path,
		Actor:      actor,
		Err:        err,
		OccurredAt: time.Now().UTC(),
	})
	return err
}

// backendDenied reports whether the backend rejected a call for lack of
// permission
func backendDenied(err error) bool {
	return status.Code(err) == codes.PermissionDenied
}

func (g *guard) requireAdmin(ctx context.Context, op, path string, uid model.UserID) (*model.User, error) {
	actor, err := g.actor(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !actor.Active || !actor.IsAdmin() {
		return nil, g.deny(ctx, op, path, uid, "admin role is required", nil)
	}
	return actor, nil
}

func (g *guard) initiative(ctx context.Context, id model.InitiativeID) (*model.Initiative, error) {
	ini, err := g.repo.Initiative().Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrInitiativeNotFound, "initiative not found", goerr.V(InitiativeIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get initiative", goerr.V(InitiativeIDKey, id))
	}
	return ini, nil
}

// readableInitiative returns the initiative if uid may see it
func (g *guard) readableInitiative(ctx context.Context, uid model.UserID, id model.InitiativeID) (*model.User, *model.Initiative, error) {
	actor, err := g.actor(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	ini, err := g.initiative(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.IsAdmin() && !ini.HasMember(uid) {
		return nil, nil, goerr.Wrap(ErrAccessDenied, "not a member of the initiative",
			goerr.V(InitiativeIDKey, id),
			goerr.V(UserIDKey, uid))
	}
	return actor, ini, nil
}

// memberInitiative returns the initiative if uid may change its children
func (g *guard) memberInitiative(ctx context.Context, op string, uid model.UserID, id model.InitiativeID) (*model.User, *model.Initiative, error) {
	actor, err := g.actor(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	ini, err := g.initiative(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.Active || (!actor.IsAdmin() && !ini.HasMember(uid)) {
		return nil, nil, g.deny(ctx, op, "initiatives/"+id.String(), uid, "initiative membership is required", nil)
	}
	return actor, ini, nil
}
