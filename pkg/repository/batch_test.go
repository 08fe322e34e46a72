package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

func runBatchTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()
	base := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("writes initiative and memberships together", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		lead := newTestUser("lead", types.RoleInitiativeLead)
		member := newTestUser("member", types.RoleTeamMember)
		gt.NoError(t, repo.User().Put(ctx, lead)).Required()
		gt.NoError(t, repo.User().Put(ctx, member)).Required()

		ini := newTestInitiative("with members", base, lead.ID)
		ini.TeamMemberIDs = []model.UserID{member.ID}
		gt.NoError(t, repo.RunBatch(ctx, func(b interfaces.Batch) error {
			b.PutInitiative(ini)
			for _, id := range ini.Members() {
				b.AddMembership(id, ini.ID)
			}
			return nil
		})).Required()

		for _, id := range []model.UserID{lead.ID, member.ID} {
			u, err := repo.User().Get(ctx, id)
			gt.NoError(t, err).Required()
			gt.Value(t, u.InitiativeIDs).Equal([]model.InitiativeID{ini.ID})
		}
	})

	t.Run("AddMembership is idempotent and RemoveMembership removes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := newTestUser("user", types.RoleTeamMember)
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		gt.NoError(t, repo.RunBatch(ctx, func(b interfaces.Batch) error {
			b.AddMembership(user.ID, "ini-a")
			b.AddMembership(user.ID, "ini-b")
			b.AddMembership(user.ID, "ini-a")
			return nil
		})).Required()

		got, err := repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.InitiativeIDs).Equal([]model.InitiativeID{"ini-a", "ini-b"})

		gt.NoError(t, repo.RunBatch(ctx, func(b interfaces.Batch) error {
			b.RemoveMembership(user.ID, "ini-a")
			return nil
		})).Required()

		got, err = repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.InitiativeIDs).Equal([]model.InitiativeID{"ini-b"})
	})

	t.Run("membership of a missing profile is ignored", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		ghost := model.UserID("ghost-user")
		gt.NoError(t, repo.RunBatch(ctx, func(b interfaces.Batch) error {
			b.AddMembership(ghost, "ini-a")
			return nil
		})).Required()

		_, err := repo.User().Get(ctx, ghost)
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("membership applies to a profile written in the same batch", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := newTestUser("fresh", types.RoleTeamMember)
		gt.NoError(t, repo.RunBatch(ctx, func(b interfaces.Batch) error {
			b.PutUser(user)
			b.AddMembership(user.ID, "ini-a")
			return nil
		})).Required()

		got, err := repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.InitiativeIDs).Equal([]model.InitiativeID{"ini-a"})
	})

	t.Run("nothing is written when fn fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		errAbort := errors.New("abort")

		user := newTestUser("never", types.RoleViewer)
		err := repo.RunBatch(ctx, func(b interfaces.Batch) error {
			b.PutUser(user)
			b.PutMaster(model.MasterDepartment, &model.MasterItem{ID: "d1", Name: "Finance"})
			return errAbort
		})
		gt.Error(t, err).Is(errAbort)

		_, err = repo.User().Get(ctx, user.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
		items, err := repo.Master().List(ctx, model.MasterDepartment)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(0)
	})

	t.Run("commits more writes than one transaction allows", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const count = 520
		gt.NoError(t, repo.RunBatch(ctx, func(b interfaces.Batch) error {
			for i := 0; i < count; i++ {
				b.PutMaster(model.MasterDesignation, &model.MasterItem{ID: model.NewMasterID(), Name: "Role"})
			}
			return nil
		})).Required()

		items, err := repo.Master().List(ctx, model.MasterDesignation)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(count)
	})

	t.Run("deletes users and master rows", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := newTestUser("gone", types.RoleViewer)
		gt.NoError(t, repo.User().Put(ctx, user)).Required()
		gt.NoError(t, repo.Master().Put(ctx, model.MasterDepartment, &model.MasterItem{ID: "d1", Name: "Finance"})).Required()

		gt.NoError(t, repo.RunBatch(ctx, func(b interfaces.Batch) error {
			b.DeleteUser(user.ID)
			b.DeleteMaster(model.MasterDepartment, "d1")
			return nil
		})).Required()

		_, err := repo.User().Get(ctx, user.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
		_, err = repo.Master().Get(ctx, model.MasterDepartment, "d1")
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}
