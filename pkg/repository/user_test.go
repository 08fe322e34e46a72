package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

func newTestUser(name string, role types.Role) *model.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.User{
		ID:            model.UserID(uuid.New().String()),
		Name:          name,
		Email:         name + "@example.com",
		Role:          role,
		Department:    "Engineering",
		Designation:   "Engineer",
		Active:        true,
		InitiativeIDs: []model.InitiativeID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func runUserRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put then Get returns the stored profile", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := newTestUser("alice", types.RoleTeamMember)
		user.Email = "Alice@Example.com"
		user.InitiativeIDs = []model.InitiativeID{"ini-1", "ini-2"}
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		got, err := repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(user.ID)
		gt.Value(t, got.Name).Equal("alice")
		gt.Value(t, got.Role).Equal(types.RoleTeamMember)
		gt.Bool(t, got.Active).True()
		gt.Value(t, got.InitiativeIDs).Equal([]model.InitiativeID{"ini-1", "ini-2"})
		gt.Bool(t, got.CreatedAt.Equal(user.CreatedAt)).True()
	})

	t.Run("Get missing user returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.User().Get(context.Background(), model.UserID(uuid.New().String()))
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("List returns every profile sorted by name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.User().Put(ctx, newTestUser("carol", types.RoleViewer))).Required()
		gt.NoError(t, repo.User().Put(ctx, newTestUser("alice", types.RoleAdmin))).Required()
		gt.NoError(t, repo.User().Put(ctx, newTestUser("bob", types.RoleTeamMember))).Required()

		users, err := repo.User().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, users).Length(3).Required()
		gt.Value(t, users[0].Name).Equal("alice")
		gt.Value(t, users[1].Name).Equal("bob")
		gt.Value(t, users[2].Name).Equal("carol")
	})

	t.Run("Put replaces an existing profile", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := newTestUser("dave", types.RoleTeamMember)
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		user.Active = false
		user.Role = types.RoleInitiativeLead
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		got, err := repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, got.Active).False()
		gt.Value(t, got.Role).Equal(types.RoleInitiativeLead)
	})

	t.Run("Update writes only patched fields and keeps memberships", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := newTestUser("heidi", types.RoleTeamMember)
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		// a membership committed after the editor read the profile
		gt.NoError(t, repo.RunBatch(ctx, func(b interfaces.Batch) error {
			b.AddMembership(user.ID, "ini-joined")
			return nil
		})).Required()

		dept := "Finance"
		inactive := false
		updatedAt := user.UpdatedAt.Add(time.Minute)
		got, err := repo.User().Update(ctx, user.ID, &model.UserPatch{
			Department: &dept,
			Active:     &inactive,
			UpdatedAt:  updatedAt,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, got.Department).Equal("Finance")
		gt.Bool(t, got.Active).False()
		gt.Value(t, got.Name).Equal("heidi")
		gt.Value(t, got.Designation).Equal("Engineer")
		gt.Value(t, got.InitiativeIDs).Equal([]model.InitiativeID{"ini-joined"})
		gt.Bool(t, got.UpdatedAt.Equal(updatedAt)).True()

		stored, err := repo.User().Get(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.InitiativeIDs).Equal([]model.InitiativeID{"ini-joined"})
		gt.Value(t, stored.Department).Equal("Finance")
	})

	t.Run("Update of a missing profile returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		name := "nobody"
		_, err := repo.User().Update(context.Background(), model.UserID(uuid.New().String()), &model.UserPatch{Name: &name})
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("Watch delivers nil until the profile exists", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		user := newTestUser("erin", types.RoleViewer)

		wait := watchValues(t, func(ctx context.Context, fn func(*model.User)) error {
			return repo.User().Watch(ctx, user.ID, fn)
		})
		wait(func(u *model.User) bool { return u == nil })

		gt.NoError(t, repo.User().Put(ctx, user)).Required()
		got := wait(func(u *model.User) bool { return u != nil })
		gt.Value(t, got.Name).Equal("erin")
	})

	t.Run("WatchAll delivers the list after each write", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		wait := watchValues(t, func(ctx context.Context, fn func([]*model.User)) error {
			return repo.User().WatchAll(ctx, fn)
		})
		wait(func(users []*model.User) bool { return len(users) == 0 })

		gt.NoError(t, repo.User().Put(ctx, newTestUser("frank", types.RoleViewer))).Required()
		gt.NoError(t, repo.User().Put(ctx, newTestUser("grace", types.RoleViewer))).Required()
		users := wait(func(users []*model.User) bool { return len(users) == 2 })
		gt.Value(t, users[0].Name).Equal("frank")
	})
}
