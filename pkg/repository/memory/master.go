package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

type masterRepository struct {
	st *store
}

func (r *masterRepository) List(ctx context.Context, kind model.MasterKind) ([]*model.MasterItem, error) {
	if !kind.IsValid() {
		return nil, goerr.New("invalid master kind", goerr.V("kind", kind))
	}

	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return r.list(kind), nil
}

func (r *masterRepository) list(kind model.MasterKind) []*model.MasterItem {
	table := r.st.masters[kind]
	result := make([]*model.MasterItem, 0, len(table))
	for _, item := range table {
		copied := *item
		result = append(result, &copied)
	}
	model.SortMasterItems(result)
	return result
}

func (r *masterRepository) Get(ctx context.Context, kind model.MasterKind, id string) (*model.MasterItem, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	item, exists := r.st.masters[kind][id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "master item not found",
			goerr.V("kind", kind),
			goerr.V("id", id))
	}
	copied := *item
	return &copied, nil
}

func (r *masterRepository) Put(ctx context.Context, kind model.MasterKind, item *model.MasterItem) error {
	if !kind.IsValid() {
		return goerr.New("invalid master kind", goerr.V("kind", kind))
	}
	if item.ID == "" {
		return goerr.New("master item id is required", goerr.V("kind", kind))
	}

	r.st.mu.Lock()
	copied := *item
	r.st.masters[kind][item.ID] = &copied
	r.st.mu.Unlock()

	r.st.hub.notify()
	return nil
}

func (r *masterRepository) Delete(ctx context.Context, kind model.MasterKind, id string) error {
	r.st.mu.Lock()
	if _, exists := r.st.masters[kind][id]; !exists {
		r.st.mu.Unlock()
		return goerr.Wrap(ErrNotFound, "master item not found",
			goerr.V("kind", kind),
			goerr.V("id", id))
	}
	delete(r.st.masters[kind], id)
	r.st.mu.Unlock()

	r.st.hub.notify()
	return nil
}

func (r *masterRepository) Watch(ctx context.Context, kind model.MasterKind, fn func([]*model.MasterItem)) error {
	if !kind.IsValid() {
		return goerr.New("invalid master kind", goerr.V("kind", kind))
	}
	return r.st.watch(ctx, func() {
		r.st.mu.RLock()
		result := r.list(kind)
		r.st.mu.RUnlock()
		fn(result)
	})
}
