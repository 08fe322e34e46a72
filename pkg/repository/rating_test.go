package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

func runRatingRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()
	base := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("initiative ratings are listed newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		iniID := model.NewInitiativeID()

		_, err := repo.Rating().CreateInitiativeRating(ctx, &model.InitiativeRating{
			InitiativeID: iniID, RatedBy: "u1", Impact: 3, CreatedAt: base,
		})
		gt.NoError(t, err).Required()
		created, err := repo.Rating().CreateInitiativeRating(ctx, &model.InitiativeRating{
			InitiativeID: iniID, RatedBy: "u2", Impact: 5, Comments: "great", CreatedAt: base.Add(time.Hour),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual("")

		list, err := repo.Rating().ListInitiativeRatings(ctx, iniID)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].Impact).Equal(5)
		gt.Value(t, list[0].Comments).Equal("great")
	})

	t.Run("user ratings and checkins are scoped to the initiative", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		iniID := model.NewInitiativeID()

		_, err := repo.Rating().CreateUserRating(ctx, &model.UserRating{
			InitiativeID: iniID, UserID: "u1", RatedBy: "u2", Ownership: 4, Quality: 4, Collaboration: 5,
		})
		gt.NoError(t, err).Required()
		_, err = repo.Rating().CreateDailyCheckin(ctx, &model.DailyCheckin{
			InitiativeID: iniID, UserID: "u1", Summary: "done", Blockers: "none",
		})
		gt.NoError(t, err).Required()

		ratings, err := repo.Rating().ListUserRatings(ctx, iniID)
		gt.NoError(t, err).Required()
		gt.Array(t, ratings).Length(1).Required()
		gt.Value(t, ratings[0].UserID).Equal(model.UserID("u1"))

		checkins, err := repo.Rating().ListDailyCheckins(ctx, iniID)
		gt.NoError(t, err).Required()
		gt.Array(t, checkins).Length(1).Required()
		gt.Value(t, checkins[0].Summary).Equal("done")

		other, err := repo.Rating().ListDailyCheckins(ctx, model.NewInitiativeID())
		gt.NoError(t, err).Required()
		gt.Array(t, other).Length(0)
	})
}
