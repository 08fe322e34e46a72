package interfaces

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// InitiativeRepository defines access to the initiatives collection.
// Writes go through Repository.RunBatch so memberships stay consistent.
type InitiativeRepository interface {
	Get(ctx context.Context, id model.InitiativeID) (*model.Initiative, error)

	// List retrieves all initiatives
	List(ctx context.Context) ([]*model.Initiative, error)

	// GetByIDs retrieves the listed initiatives, skipping ids that do not
	// exist. Results keep the order of ids.
	GetByIDs(ctx context.Context, ids []model.InitiativeID) ([]*model.Initiative, error)

	// Watch runs q as a live query. q.Scope must not be QueryPending and
	// QueryByIDs must carry at most model.MaxQueryFanOut ids.
	Watch(ctx context.Context, q model.InitiativeQuery, fn func([]*model.Initiative)) error

	// WatchOne delivers a single initiative (nil while missing)
	WatchOne(ctx context.Context, id model.InitiativeID, fn func(*model.Initiative)) error
}
