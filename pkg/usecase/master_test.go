package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
	"github.com/secmon-lab/initiativeflow/pkg/usecase"
)

func TestMasterUseCase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", types.RoleAdmin)
	member := env.addUser(t, "member", types.RoleTeamMember)

	t.Run("admin manages departments", func(t *testing.T) {
		item, err := env.uc.Master.CreateDepartment(ctx, admin, model.MasterInput{Name: "Finance"})
		gt.NoError(t, err).Required()

		_, err = env.uc.Master.CreateDepartment(ctx, admin, model.MasterInput{Name: "finance "})
		gt.Error(t, err).Is(model.ErrValidation)

		renamed, err := env.uc.Master.UpdateDepartment(ctx, admin, item.ID, model.MasterInput{Name: "Finance & Ops"})
		gt.NoError(t, err).Required()
		gt.Value(t, renamed.Name).Equal("Finance & Ops")

		list, err := env.uc.Master.ListDepartments(ctx, member)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1).Required()
		gt.Value(t, list[0].Name).Equal("Finance & Ops")

		gt.NoError(t, env.uc.Master.DeleteDepartment(ctx, admin, item.ID)).Required()
		gt.Error(t, env.uc.Master.DeleteDepartment(ctx, admin, item.ID)).Is(usecase.ErrMasterNotFound)
	})

	t.Run("non-admin writes are denied and published", func(t *testing.T) {
		before := len(env.published())
		_, err := env.uc.Master.CreateDesignation(ctx, member, model.MasterInput{Name: "Engineer"})
		gt.Error(t, err).Is(usecase.ErrPermissionDenied)

		events := env.published()
		gt.Array(t, events).Length(before + 1).Required()
		gt.Value(t, events[before].Operation).Equal("CreateDesignation")
		gt.Value(t, events[before].Path).Equal("designations")
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := env.uc.Master.CreateDesignation(ctx, admin, model.MasterInput{})
		gt.Error(t, err).Is(model.ErrValidation)
		gt.Map(t, model.FieldErrorsOf(err)).HasKey("name")
	})

	t.Run("designations are watched live", func(t *testing.T) {
		rec := newLiveRecorder[[]*model.MasterItem]()
		sub := env.uc.Master.WatchDesignations(ctx, member, rec.fn)
		defer sub.Stop()

		rec.wait(t, func(v usecase.Live[[]*model.MasterItem]) bool { return !v.Loading })

		_, err := env.uc.Master.CreateDesignation(ctx, admin, model.MasterInput{Name: "Analyst"})
		gt.NoError(t, err).Required()

		v := rec.wait(t, func(v usecase.Live[[]*model.MasterItem]) bool { return len(v.Data) == 1 })
		gt.Value(t, v.Data[0].Name).Equal("Analyst")
	})
}
