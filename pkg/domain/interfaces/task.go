package interfaces

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// TaskRepository defines access to initiatives/{id}/tasks
type TaskRepository interface {
	// Create creates a task with an auto-generated ID
	Create(ctx context.Context, initiativeID model.InitiativeID, task *model.Task) (*model.Task, error)
	Get(ctx context.Context, initiativeID model.InitiativeID, id model.TaskID) (*model.Task, error)
	List(ctx context.Context, initiativeID model.InitiativeID) ([]*model.Task, error)
	Update(ctx context.Context, initiativeID model.InitiativeID, task *model.Task) (*model.Task, error)
	Delete(ctx context.Context, initiativeID model.InitiativeID, id model.TaskID) error
	Watch(ctx context.Context, initiativeID model.InitiativeID, fn func([]*model.Task)) error
}
