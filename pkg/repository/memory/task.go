package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

type taskRepository struct {
	st *store
}

func (r *taskRepository) Create(ctx context.Context, initiativeID model.InitiativeID, task *model.Task) (*model.Task, error) {
	r.st.mu.Lock()

	now := time.Now().UTC()
	created := copyTask(task)
	if created.ID == "" {
		created.ID = model.NewTaskID()
	}
	created.InitiativeID = initiativeID
	created.CreatedAt = now
	created.UpdatedAt = now

	if r.st.tasks[initiativeID] == nil {
		r.st.tasks[initiativeID] = make(map[model.TaskID]*model.Task)
	}
	r.st.tasks[initiativeID][created.ID] = created
	r.st.mu.Unlock()

	r.st.hub.notify()
	return copyTask(created), nil
}

func (r *taskRepository) Get(ctx context.Context, initiativeID model.InitiativeID, id model.TaskID) (*model.Task, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	t, exists := r.st.tasks[initiativeID][id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", id))
	}
	return copyTask(t), nil
}

func (r *taskRepository) List(ctx context.Context, initiativeID model.InitiativeID) ([]*model.Task, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return r.list(initiativeID), nil
}

func (r *taskRepository) list(initiativeID model.InitiativeID) []*model.Task {
	ws := r.st.tasks[initiativeID]
	result := make([]*model.Task, 0, len(ws))
	for _, t := range ws {
		result = append(result, copyTask(t))
	}
	model.SortTasks(result)
	return result
}

func (r *taskRepository) Update(ctx context.Context, initiativeID model.InitiativeID, task *model.Task) (*model.Task, error) {
	r.st.mu.Lock()

	existing, exists := r.st.tasks[initiativeID][task.ID]
	if !exists {
		r.st.mu.Unlock()
		return nil, goerr.Wrap(ErrNotFound, "task not found",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", task.ID))
	}

	updated := copyTask(task)
	updated.InitiativeID = initiativeID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.st.tasks[initiativeID][updated.ID] = updated
	r.st.mu.Unlock()

	r.st.hub.notify()
	return copyTask(updated), nil
}

func (r *taskRepository) Delete(ctx context.Context, initiativeID model.InitiativeID, id model.TaskID) error {
	r.st.mu.Lock()

	if _, exists := r.st.tasks[initiativeID][id]; !exists {
		r.st.mu.Unlock()
		return goerr.Wrap(ErrNotFound, "task not found",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", id))
	}
	delete(r.st.tasks[initiativeID], id)
	r.st.mu.Unlock()

	r.st.hub.notify()
	return nil
}

func (r *taskRepository) Watch(ctx context.Context, initiativeID model.InitiativeID, fn func([]*model.Task)) error {
	return r.st.watch(ctx, func() {
		r.st.mu.RLock()
		result := r.list(initiativeID)
		r.st.mu.RUnlock()
		fn(result)
	})
}
