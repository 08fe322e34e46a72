package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// MasterUseCase manages the department and designation tables. Writes are
// restricted to admins; any user with a profile may read.
type MasterUseCase struct {
	*guard
}

func NewMasterUseCase(g *guard) *MasterUseCase {
	return &MasterUseCase{guard: g}
}

func masterPath(kind model.MasterKind, id string) string {
	if id == "" {
		return kind.String()
	}
	return kind.String() + "/" + id
}

func (uc *MasterUseCase) checkDuplicate(ctx context.Context, kind model.MasterKind, id, name string) error {
	items, err := uc.repo.Master().List(ctx, kind)
	if err != nil {
		return goerr.Wrap(err, "failed to list master items", goerr.V("kind", kind))
	}
	for _, item := range items {
		if item.ID != id && strings.EqualFold(strings.TrimSpace(item.Name), strings.TrimSpace(name)) {
			return &model.ValidationError{Fields: model.FieldErrors{"name": "already exists"}}
		}
	}
	return nil
}

func (uc *MasterUseCase) create(ctx context.Context, op string, uid model.UserID, kind model.MasterKind, input model.MasterInput) (*model.MasterItem, error) {
	if err := model.Validate(input); err != nil {
		return nil, err
	}
	if _, err := uc.requireAdmin(ctx, op, masterPath(kind, ""), uid); err != nil {
		return nil, err
	}
	if err := uc.checkDuplicate(ctx, kind, "", input.Name); err != nil {
		return nil, err
	}

	item := &model.MasterItem{ID: model.NewMasterID(), Name: strings.TrimSpace(input.Name)}
	if err := uc.repo.Master().Put(ctx, kind, item); err != nil {
		if backendDenied(err) {
			return nil, uc.deny(ctx, op, masterPath(kind, item.ID), uid, "backend rejected master write", err)
		}
		return nil, goerr.Wrap(err, "failed to create master item", goerr.V("kind", kind))
	}
	return item, nil
}

func (uc *MasterUseCase) update(ctx context.Context, op string, uid model.UserID, kind model.MasterKind, id string, input model.MasterInput) (*model.MasterItem, error) {
	if err := model.Validate(input); err != nil {
		return nil, err
	}
	if _, err := uc.requireAdmin(ctx, op, masterPath(kind, id), uid); err != nil {
		return nil, err
	}
	if _, err := uc.get(ctx, kind, id); err != nil {
		return nil, err
	}
	if err := uc.checkDuplicate(ctx, kind, id, input.Name); err != nil {
		return nil, err
	}

	item := &model.MasterItem{ID: id, Name: strings.TrimSpace(input.Name)}
	if err := uc.repo.Master().Put(ctx, kind, item); err != nil {
		if backendDenied(err) {
			return nil, uc.deny(ctx, op, masterPath(kind, id), uid, "backend rejected master write", err)
		}
		return nil, goerr.Wrap(err, "failed to update master item", goerr.V("kind", kind), goerr.V("id", id))
	}
	return item, nil
}

func (uc *MasterUseCase) delete(ctx context.Context, op string, uid model.UserID, kind model.MasterKind, id string) error {
	if _, err := uc.requireAdmin(ctx, op, masterPath(kind, id), uid); err != nil {
		return err
	}
	if err := uc.repo.Master().Delete(ctx, kind, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return goerr.Wrap(ErrMasterNotFound, "master item not found", goerr.V("kind", kind), goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to delete master item", goerr.V("kind", kind), goerr.V("id", id))
	}
	return nil
}

func (uc *MasterUseCase) get(ctx context.Context, kind model.MasterKind, id string) (*model.MasterItem, error) {
	item, err := uc.repo.Master().Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrMasterNotFound, "master item not found", goerr.V("kind", kind), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get master item", goerr.V("kind", kind), goerr.V("id", id))
	}
	return item, nil
}

func (uc *MasterUseCase) list(ctx context.Context, uid model.UserID, kind model.MasterKind) ([]*model.MasterItem, error) {
	if _, err := uc.actor(ctx, uid); err != nil {
		return nil, err
	}
	items, err := uc.repo.Master().List(ctx, kind)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list master items", goerr.V("kind", kind))
	}
	return items, nil
}

func (uc *MasterUseCase) watch(ctx context.Context, op string, uid model.UserID, kind model.MasterKind, fn func(Live[[]*model.MasterItem])) *Subscription {
	return watchLive(ctx, op, fn, func(ctx context.Context, emit func([]*model.MasterItem)) error {
		if _, err := uc.actor(ctx, uid); err != nil {
			return err
		}
		return uc.repo.Master().Watch(ctx, kind, emit)
	})
}

func (uc *MasterUseCase) CreateDepartment(ctx context.Context, uid model.UserID, input model.MasterInput) (*model.MasterItem, error) {
	return uc.create(ctx, "CreateDepartment", uid, model.MasterDepartment, input)
}

func (uc *MasterUseCase) UpdateDepartment(ctx context.Context, uid model.UserID, id string, input model.MasterInput) (*model.MasterItem, error) {
	return uc.update(ctx, "UpdateDepartment", uid, model.MasterDepartment, id, input)
}

func (uc *MasterUseCase) DeleteDepartment(ctx context.Context, uid model.UserID, id string) error {
	return uc.delete(ctx, "DeleteDepartment", uid, model.MasterDepartment, id)
}

func (uc *MasterUseCase) ListDepartments(ctx context.Context, uid model.UserID) ([]*model.MasterItem, error) {
	return uc.list(ctx, uid, model.MasterDepartment)
}

func (uc *MasterUseCase) WatchDepartments(ctx context.Context, uid model.UserID, fn func(Live[[]*model.MasterItem])) *Subscription {
	return uc.watch(ctx, "WatchDepartments", uid, model.MasterDepartment, fn)
}

func (uc *MasterUseCase) CreateDesignation(ctx context.Context, uid model.UserID, input model.MasterInput) (*model.MasterItem, error) {
	return uc.create(ctx, "CreateDesignation", uid, model.MasterDesignation, input)
}

func (uc *MasterUseCase) UpdateDesignation(ctx context.Context, uid model.UserID, id string, input model.MasterInput) (*model.MasterItem, error) {
	return uc.update(ctx, "UpdateDesignation", uid, model.MasterDesignation, id, input)
}

func (uc *MasterUseCase) DeleteDesignation(ctx context.Context, uid model.UserID, id string) error {
	return uc.delete(ctx, "DeleteDesignation", uid, model.MasterDesignation, id)
}

func (uc *MasterUseCase) ListDesignations(ctx context.Context, uid model.UserID) ([]*model.MasterItem, error) {
	return uc.list(ctx, uid, model.MasterDesignation)
}

func (uc *MasterUseCase) WatchDesignations(ctx context.Context, uid model.UserID, fn func(Live[[]*model.MasterItem])) *Subscription {
	return uc.watch(ctx, "WatchDesignations", uid, model.MasterDesignation, fn)
}
