package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

type initiativeRepository struct {
	st *store
}

func (r *initiativeRepository) Get(ctx context.Context, id model.InitiativeID) (*model.Initiative, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	ini, exists := r.st.initiatives[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "initiative not found", goerr.V("id", id))
	}
	return copyInitiative(ini), nil
}

func (r *initiativeRepository) List(ctx context.Context) ([]*model.Initiative, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return r.listAll(), nil
}

func (r *initiativeRepository) GetByIDs(ctx context.Context, ids []model.InitiativeID) ([]*model.Initiative, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return r.listByIDs(ids), nil
}

func (r *initiativeRepository) listAll() []*model.Initiative {
	result := make([]*model.Initiative, 0, len(r.st.initiatives))
	for _, ini := range r.st.initiatives {
		result = append(result, copyInitiative(ini))
	}
	model.SortInitiatives(result)
	return result
}

func (r *initiativeRepository) listByIDs(ids []model.InitiativeID) []*model.Initiative {
	result := make([]*model.Initiative, 0, len(ids))
	seen := make(map[model.InitiativeID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if ini, ok := r.st.initiatives[id]; ok {
			result = append(result, copyInitiative(ini))
		}
	}
	return result
}

func (r *initiativeRepository) Watch(ctx context.Context, q model.InitiativeQuery, fn func([]*model.Initiative)) error {
	switch q.Scope {
	case model.QueryAll, model.QueryNone:
	case model.QueryByIDs:
		if len(q.IDs) > model.MaxQueryFanOut {
			return goerr.New("too many ids in query",
				goerr.V("count", len(q.IDs)),
				goerr.V("max", model.MaxQueryFanOut))
		}
	default:
		return goerr.New("query scope is not resolved", goerr.V("scope", q.Scope.String()))
	}

	return r.st.watch(ctx, func() {
		var result []*model.Initiative
		r.st.mu.RLock()
		switch q.Scope {
		case model.QueryAll:
			result = r.listAll()
		case model.QueryNone:
			result = []*model.Initiative{}
		case model.QueryByIDs:
			result = r.listByIDs(q.IDs)
			model.SortInitiatives(result)
		}
		r.st.mu.RUnlock()
		fn(result)
	})
}

func (r *initiativeRepository) WatchOne(ctx context.Context, id model.InitiativeID, fn func(*model.Initiative)) error {
	return r.st.watch(ctx, func() {
		r.st.mu.RLock()
		var result *model.Initiative
		if ini, ok := r.st.initiatives[id]; ok {
			result = copyInitiative(ini)
		}
		r.st.mu.RUnlock()
		fn(result)
	})
}
