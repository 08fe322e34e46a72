package interfaces

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// RatingRepository defines access to the rating and check-in sub-collections
// of an initiative
type RatingRepository interface {
	CreateInitiativeRating(ctx context.Context, rating *model.InitiativeRating) (*model.InitiativeRating, error)
	ListInitiativeRatings(ctx context.Context, initiativeID model.InitiativeID) ([]*model.InitiativeRating, error)

	CreateUserRating(ctx context.Context, rating *model.UserRating) (*model.UserRating, error)
	ListUserRatings(ctx context.Context, initiativeID model.InitiativeID) ([]*model.UserRating, error)

	CreateDailyCheckin(ctx context.Context, checkin *model.DailyCheckin) (*model.DailyCheckin, error)
	ListDailyCheckins(ctx context.Context, initiativeID model.InitiativeID) ([]*model.DailyCheckin, error)
}
