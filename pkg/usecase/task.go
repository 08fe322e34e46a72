package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

type TaskUseCase struct {
	*guard
}

func NewTaskUseCase(g *guard) *TaskUseCase {
	return &TaskUseCase{guard: g}
}

func taskPath(initiativeID model.InitiativeID, id model.TaskID) string {
	p := "initiatives/" + initiativeID.String() + "/tasks"
	if id != "" {
		p += "/" + id.String()
	}
	return p
}

func (uc *TaskUseCase) Create(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID, input model.TaskInput) (*model.Task, error) {
	if err := model.Validate(input); err != nil {
		return nil, err
	}
	if _, _, err := uc.memberInitiative(ctx, "CreateTask", uid, initiativeID); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		Status:      input.Status.Normalize(),
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		Progress:    input.Progress,
	}

	created, err := uc.repo.Task().Create(ctx, initiativeID, task)
	if err != nil {
		if backendDenied(err) {
			return nil, uc.deny(ctx, "CreateTask", taskPath(initiativeID, ""), uid, "backend rejected task write", err)
		}
		return nil, goerr.Wrap(err, "failed to create task", goerr.V(InitiativeIDKey, initiativeID))
	}
	return created, nil
}

func (uc *TaskUseCase) Update(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID, id model.TaskID, input model.TaskInput) (*model.Task, error) {
	if err := model.Validate(input); err != nil {
		return nil, err
	}
	if _, _, err := uc.memberInitiative(ctx, "UpdateTask", uid, initiativeID); err != nil {
		return nil, err
	}

	existing, err := uc.task(ctx, initiativeID, id)
	if err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.Description = input.Description
	existing.OwnerID = input.OwnerID
	existing.Status = input.Status.Normalize()
	existing.StartDate = input.StartDate
	existing.DueDate = input.DueDate
	existing.Progress = input.Progress
	existing.UpdatedAt = time.Now().UTC()

	updated, err := uc.repo.Task().Update(ctx, initiativeID, existing)
	if err != nil {
		if backendDenied(err) {
			return nil, uc.deny(ctx, "UpdateTask", taskPath(initiativeID, id), uid, "backend rejected task write", err)
		}
		return nil, goerr.Wrap(err, "failed to update task",
			goerr.V(InitiativeIDKey, initiativeID),
			goerr.V(TaskIDKey, id))
	}
	return updated, nil
}

func (uc *TaskUseCase) Delete(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID, id model.TaskID) error {
	if _, _, err := uc.memberInitiative(ctx, "DeleteTask", uid, initiativeID); err != nil {
		return err
	}

	if err := uc.repo.Task().Delete(ctx, initiativeID, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return goerr.Wrap(ErrTaskNotFound, "task not found",
				goerr.V(InitiativeIDKey, initiativeID),
				goerr.V(TaskIDKey, id))
		}
		if backendDenied(err) {
			return uc.deny(ctx, "DeleteTask", taskPath(initiativeID, id), uid, "backend rejected task delete", err)
		}
		return goerr.Wrap(err, "failed to delete task",
			goerr.V(InitiativeIDKey, initiativeID),
			goerr.V(TaskIDKey, id))
	}
	return nil
}

func (uc *TaskUseCase) task(ctx context.Context, initiativeID model.InitiativeID, id model.TaskID) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, initiativeID, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrTaskNotFound, "task not found",
				goerr.V(InitiativeIDKey, initiativeID),
				goerr.V(TaskIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get task",
			goerr.V(InitiativeIDKey, initiativeID),
			goerr.V(TaskIDKey, id))
	}
	return task, nil
}

func (uc *TaskUseCase) GetTask(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID, id model.TaskID) (*model.Task, error) {
	if _, _, err := uc.readableInitiative(ctx, uid, initiativeID); err != nil {
		return nil, err
	}
	return uc.task(ctx, initiativeID, id)
}

// ListTasks returns the tasks of an initiative ordered by due date
func (uc *TaskUseCase) ListTasks(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID) ([]*model.Task, error) {
	if _, _, err := uc.readableInitiative(ctx, uid, initiativeID); err != nil {
		return nil, err
	}
	tasks, err := uc.repo.Task().List(ctx, initiativeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V(InitiativeIDKey, initiativeID))
	}
	return tasks, nil
}

func (uc *TaskUseCase) WatchTasks(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID, fn func(Live[[]*model.Task])) *Subscription {
	return watchLive(ctx, "WatchTasks", fn, func(ctx context.Context, emit func([]*model.Task)) error {
		if _, _, err := uc.readableInitiative(ctx, uid, initiativeID); err != nil {
			return err
		}
		return uc.repo.Task().Watch(ctx, initiativeID, emit)
	})
}
