package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

type userRepository struct {
	st *store
}

func (r *userRepository) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	u, exists := r.st.users[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	return copyUser(u), nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return r.list(), nil
}

// list must be called with the store lock held
func (r *userRepository) list() []*model.User {
	users := make([]*model.User, 0, len(r.st.users))
	for _, u := range r.st.users {
		users = append(users, copyUser(u))
	}
	model.SortUsers(users)
	return users
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		return goerr.New("user id is required")
	}

	r.st.mu.Lock()
	r.st.users[user.ID] = copyUser(user)
	r.st.mu.Unlock()

	r.st.hub.notify()
	return nil
}

func (r *userRepository) Update(ctx context.Context, id model.UserID, patch *model.UserPatch) (*model.User, error) {
	r.st.mu.Lock()
	u, exists := r.st.users[id]
	if !exists {
		r.st.mu.Unlock()
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	patch.Apply(u)
	updated := copyUser(u)
	r.st.mu.Unlock()

	r.st.hub.notify()
	return updated, nil
}

func (r *userRepository) Watch(ctx context.Context, id model.UserID, fn func(*model.User)) error {
	return r.st.watch(ctx, func() {
		r.st.mu.RLock()
		var user *model.User
		if u, ok := r.st.users[id]; ok {
			user = copyUser(u)
		}
		r.st.mu.RUnlock()
		fn(user)
	})
}

func (r *userRepository) WatchAll(ctx context.Context, fn func([]*model.User)) error {
	return r.st.watch(ctx, func() {
		r.st.mu.RLock()
		users := r.list()
		r.st.mu.RUnlock()
		fn(users)
	})
}
