package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

func runMasterRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and List per kind", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Master().Put(ctx, model.MasterDepartment, &model.MasterItem{ID: "d2", Name: "Sales"})).Required()
		gt.NoError(t, repo.Master().Put(ctx, model.MasterDepartment, &model.MasterItem{ID: "d1", Name: "Finance"})).Required()
		gt.NoError(t, repo.Master().Put(ctx, model.MasterDesignation, &model.MasterItem{ID: "g1", Name: "Manager"})).Required()

		departments, err := repo.Master().List(ctx, model.MasterDepartment)
		gt.NoError(t, err).Required()
		gt.Array(t, departments).Length(2).Required()
		gt.Value(t, departments[0].Name).Equal("Finance")
		gt.Value(t, departments[1].Name).Equal("Sales")

		designations, err := repo.Master().List(ctx, model.MasterDesignation)
		gt.NoError(t, err).Required()
		gt.Array(t, designations).Length(1)
	})

	t.Run("Put overwrites and Delete removes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Master().Put(ctx, model.MasterDepartment, &model.MasterItem{ID: "d1", Name: "Fin"})).Required()
		gt.NoError(t, repo.Master().Put(ctx, model.MasterDepartment, &model.MasterItem{ID: "d1", Name: "Finance"})).Required()

		got, err := repo.Master().Get(ctx, model.MasterDepartment, "d1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Finance")

		gt.NoError(t, repo.Master().Delete(ctx, model.MasterDepartment, "d1")).Required()
		_, err = repo.Master().Get(ctx, model.MasterDepartment, "d1")
		gt.Error(t, err).Is(model.ErrNotFound)
		gt.Error(t, repo.Master().Delete(ctx, model.MasterDepartment, "d1")).Is(model.ErrNotFound)
	})

	t.Run("invalid kind is rejected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Master().List(ctx, model.MasterKind("teams"))
		gt.Error(t, err)
		gt.Error(t, repo.Master().Put(ctx, model.MasterKind("teams"), &model.MasterItem{ID: "x", Name: "x"}))
	})

	t.Run("Watch follows writes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		wait := watchValues(t, func(ctx context.Context, fn func([]*model.MasterItem)) error {
			return repo.Master().Watch(ctx, model.MasterDesignation, fn)
		})
		wait(func(items []*model.MasterItem) bool { return len(items) == 0 })

		gt.NoError(t, repo.Master().Put(ctx, model.MasterDesignation, &model.MasterItem{ID: "g1", Name: "Analyst"})).Required()
		got := wait(func(items []*model.MasterItem) bool { return len(items) == 1 })
		gt.Value(t, got[0].Name).Equal("Analyst")
	})
}
