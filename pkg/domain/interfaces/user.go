package interfaces

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// UserRepository defines access to users/{uid} profile documents
type UserRepository interface {
	// Get retrieves a profile by identity id
	Get(ctx context.Context, id model.UserID) (*model.User, error)

	// List retrieves all profiles
	List(ctx context.Context) ([]*model.User, error)

	// Put creates or replaces a profile
	Put(ctx context.Context, user *model.User) error

	// Update writes only the fields set in patch and returns the stored
	// profile. The membership list is left as stored. A missing profile
	// returns ErrNotFound.
	Update(ctx context.Context, id model.UserID, patch *model.UserPatch) (*model.User, error)

	// Watch delivers the profile every time it changes (nil while it does
	// not exist) until ctx is cancelled. It blocks; a nil return means ctx
	// ended the subscription.
	Watch(ctx context.Context, id model.UserID, fn func(*model.User)) error

	// WatchAll delivers the full profile list on every change
	WatchAll(ctx context.Context, fn func([]*model.User)) error
}
