package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

func newTestInitiative(name string, createdAt time.Time, leads ...model.UserID) *model.Initiative {
	ini := &model.Initiative{
		ID:        model.NewInitiativeID(),
		Name:      name,
		Category:  "Operations",
		LeadIDs:   leads,
		StartDate: createdAt,
		EndDate:   createdAt.Add(30 * 24 * time.Hour),
		Tags:      []string{"q3"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	ini.ApplyDefaults()
	return ini
}

func putInitiatives(t *testing.T, repo interfaces.Repository, list ...*model.Initiative) {
	t.Helper()
	gt.NoError(t, repo.RunBatch(context.Background(), func(b interfaces.Batch) error {
		for _, ini := range list {
			b.PutInitiative(ini)
		}
		return nil
	})).Required()
}

func runInitiativeRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()
	base := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("Get returns stored initiative", func(t *testing.T) {
		repo := newRepo(t)
		ini := newTestInitiative("Cost reduction", base, "u1", "u2")
		ini.TeamMemberIDs = []model.UserID{"u3"}
		ini.Progress = 40
		ini.RAGStatus = types.RAGStatusAmber
		putInitiatives(t, repo, ini)

		got, err := repo.Initiative().Get(context.Background(), ini.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Cost reduction")
		gt.Value(t, got.LeadIDs).Equal([]model.UserID{"u1", "u2"})
		gt.Value(t, got.TeamMemberIDs).Equal([]model.UserID{"u3"})
		gt.Value(t, got.Progress).Equal(40)
		gt.Value(t, got.RAGStatus).Equal(types.RAGStatusAmber)
		gt.Value(t, got.Status).Equal(types.InitiativeStatusNotStarted)
		gt.Bool(t, got.EndDate.Equal(ini.EndDate)).True()
	})

	t.Run("Get missing initiative returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Initiative().Get(context.Background(), model.NewInitiativeID())
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("List returns all in creation order", func(t *testing.T) {
		repo := newRepo(t)
		second := newTestInitiative("second", base.Add(time.Second))
		first := newTestInitiative("first", base)
		putInitiatives(t, repo, second, first)

		list, err := repo.Initiative().List(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].ID).Equal(first.ID)
		gt.Value(t, list[1].ID).Equal(second.ID)
	})

	t.Run("GetByIDs keeps id order and skips missing ids", func(t *testing.T) {
		repo := newRepo(t)
		a := newTestInitiative("a", base)
		b := newTestInitiative("b", base.Add(time.Second))
		putInitiatives(t, repo, a, b)

		list, err := repo.Initiative().GetByIDs(context.Background(), []model.InitiativeID{b.ID, "missing", a.ID, b.ID})
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].ID).Equal(b.ID)
		gt.Value(t, list[1].ID).Equal(a.ID)
	})

	t.Run("GetByIDs reads more ids than one query allows", func(t *testing.T) {
		repo := newRepo(t)
		var list []*model.Initiative
		var ids []model.InitiativeID
		for i := 0; i < model.MaxQueryFanOut+5; i++ {
			ini := newTestInitiative(fmt.Sprintf("ini-%02d", i), base.Add(time.Duration(i)*time.Second))
			list = append(list, ini)
			ids = append(ids, ini.ID)
		}
		putInitiatives(t, repo, list...)

		got, err := repo.Initiative().GetByIDs(context.Background(), ids)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(model.MaxQueryFanOut + 5)
	})

	t.Run("Watch with QueryByIDs returns only listed initiatives", func(t *testing.T) {
		repo := newRepo(t)
		member := newTestInitiative("member", base)
		other := newTestInitiative("other", base.Add(time.Second))
		putInitiatives(t, repo, member, other)

		q := model.InitiativeQuery{Scope: model.QueryByIDs, IDs: []model.InitiativeID{member.ID}}
		wait := watchValues(t, func(ctx context.Context, fn func([]*model.Initiative)) error {
			return repo.Initiative().Watch(ctx, q, fn)
		})
		got := wait(func(list []*model.Initiative) bool { return len(list) == 1 })
		gt.Value(t, got[0].ID).Equal(member.ID)
	})

	t.Run("Watch with QueryAll follows writes", func(t *testing.T) {
		repo := newRepo(t)
		wait := watchValues(t, func(ctx context.Context, fn func([]*model.Initiative)) error {
			return repo.Initiative().Watch(ctx, model.InitiativeQuery{Scope: model.QueryAll}, fn)
		})
		wait(func(list []*model.Initiative) bool { return len(list) == 0 })

		putInitiatives(t, repo, newTestInitiative("new", base))
		got := wait(func(list []*model.Initiative) bool { return len(list) == 1 })
		gt.Value(t, got[0].Name).Equal("new")
	})

	t.Run("Watch with QueryNone yields an empty result", func(t *testing.T) {
		repo := newRepo(t)
		putInitiatives(t, repo, newTestInitiative("exists", base))

		q := model.InitiativeQuery{Scope: model.QueryNone, IDs: []model.InitiativeID{}}
		wait := watchValues(t, func(ctx context.Context, fn func([]*model.Initiative)) error {
			return repo.Initiative().Watch(ctx, q, fn)
		})
		got := wait(func(list []*model.Initiative) bool { return list != nil })
		gt.Array(t, got).Length(0)
	})

	t.Run("Watch rejects pending and oversized queries", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		noop := func([]*model.Initiative) {}

		gt.Error(t, repo.Initiative().Watch(ctx, model.InitiativeQuery{Scope: model.QueryPending}, noop))

		ids := make([]model.InitiativeID, model.MaxQueryFanOut+1)
		for i := range ids {
			ids[i] = model.NewInitiativeID()
		}
		gt.Error(t, repo.Initiative().Watch(ctx, model.InitiativeQuery{Scope: model.QueryByIDs, IDs: ids}, noop))
	})

	t.Run("WatchOne delivers updates and deletion", func(t *testing.T) {
		repo := newRepo(t)
		ini := newTestInitiative("tracked", base)
		putInitiatives(t, repo, ini)

		wait := watchValues(t, func(ctx context.Context, fn func(*model.Initiative)) error {
			return repo.Initiative().WatchOne(ctx, ini.ID, fn)
		})
		wait(func(v *model.Initiative) bool { return v != nil && v.Progress == 0 })

		ini.Progress = 55
		putInitiatives(t, repo, ini)
		wait(func(v *model.Initiative) bool { return v != nil && v.Progress == 55 })

		gt.NoError(t, repo.RunBatch(context.Background(), func(b interfaces.Batch) error {
			b.DeleteInitiative(ini.ID)
			return nil
		})).Required()
		wait(func(v *model.Initiative) bool { return v == nil })
	})
}
