package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

func runTaskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()
	base := time.Now().UTC().Truncate(time.Millisecond)
	iniID := model.NewInitiativeID()

	newTask := func(title string, due time.Time) *model.Task {
		return &model.Task{
			Title:     title,
			OwnerID:   "owner-1",
			Status:    types.TaskStatusNotStarted,
			StartDate: base,
			DueDate:   due,
		}
	}

	t.Run("Create assigns id and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Task().Create(ctx, iniID, newTask("Draft plan", base.Add(time.Hour)))
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.TaskID(""))
		gt.Value(t, created.InitiativeID).Equal(iniID)
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		got, err := repo.Task().Get(ctx, iniID, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Draft plan")
		gt.Value(t, got.OwnerID).Equal(model.UserID("owner-1"))
	})

	t.Run("tasks are scoped to their initiative", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Task().Create(ctx, iniID, newTask("scoped", base))
		gt.NoError(t, err).Required()

		_, err = repo.Task().Get(ctx, model.NewInitiativeID(), created.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("List orders by due date", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Create(ctx, iniID, newTask("later", base.Add(48*time.Hour)))
		gt.NoError(t, err).Required()
		_, err = repo.Task().Create(ctx, iniID, newTask("sooner", base.Add(time.Hour)))
		gt.NoError(t, err).Required()

		list, err := repo.Task().List(ctx, iniID)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].Title).Equal("sooner")
		gt.Value(t, list[1].Title).Equal("later")
	})

	t.Run("Update keeps CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Task().Create(ctx, iniID, newTask("update me", base))
		gt.NoError(t, err).Required()

		created.Status = types.TaskStatusCompleted
		created.Progress = 100
		updated, err := repo.Task().Update(ctx, iniID, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.TaskStatusCompleted)
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()

		got, err := repo.Task().Get(ctx, iniID, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Progress).Equal(100)
	})

	t.Run("Update and Delete of missing task return ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Update(ctx, iniID, &model.Task{ID: model.NewTaskID(), Title: "x"})
		gt.Error(t, err).Is(model.ErrNotFound)
		gt.Error(t, repo.Task().Delete(ctx, iniID, model.NewTaskID())).Is(model.ErrNotFound)
	})

	t.Run("Watch follows create and delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		wait := watchValues(t, func(ctx context.Context, fn func([]*model.Task)) error {
			return repo.Task().Watch(ctx, iniID, fn)
		})
		wait(func(list []*model.Task) bool { return len(list) == 0 })

		created, err := repo.Task().Create(ctx, iniID, newTask("watched", base))
		gt.NoError(t, err).Required()
		wait(func(list []*model.Task) bool { return len(list) == 1 })

		gt.NoError(t, repo.Task().Delete(ctx, iniID, created.ID)).Required()
		wait(func(list []*model.Task) bool { return len(list) == 0 })
	})
}
