package interfaces

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// MasterRepository defines access to the departments and designations tables
type MasterRepository interface {
	List(ctx context.Context, kind model.MasterKind) ([]*model.MasterItem, error)
	Get(ctx context.Context, kind model.MasterKind, id string) (*model.MasterItem, error)
	Put(ctx context.Context, kind model.MasterKind, item *model.MasterItem) error
	Delete(ctx context.Context, kind model.MasterKind, id string) error
	Watch(ctx context.Context, kind model.MasterKind, fn func([]*model.MasterItem)) error
}
