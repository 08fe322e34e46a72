package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// RatingUseCase reads the rating and check-in records of an initiative
type RatingUseCase struct {
	*guard
}

func NewRatingUseCase(g *guard) *RatingUseCase {
	return &RatingUseCase{guard: g}
}

func (uc *RatingUseCase) ListInitiativeRatings(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID) ([]*model.InitiativeRating, error) {
	if _, _, err := uc.readableInitiative(ctx, uid, initiativeID); err != nil {
		return nil, err
	}
	list, err := uc.repo.Rating().ListInitiativeRatings(ctx, initiativeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list initiative ratings", goerr.V(InitiativeIDKey, initiativeID))
	}
	return list, nil
}

func (uc *RatingUseCase) ListUserRatings(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID) ([]*model.UserRating, error) {
	if _, _, err := uc.readableInitiative(ctx, uid, initiativeID); err != nil {
		return nil, err
	}
	list, err := uc.repo.Rating().ListUserRatings(ctx, initiativeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list user ratings", goerr.V(InitiativeIDKey, initiativeID))
	}
	return list, nil
}

func (uc *RatingUseCase) ListDailyCheckins(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID) ([]*model.DailyCheckin, error) {
	if _, _, err := uc.readableInitiative(ctx, uid, initiativeID); err != nil {
		return nil, err
	}
	list, err := uc.repo.Rating().ListDailyCheckins(ctx, initiativeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list daily check-ins", goerr.V(InitiativeIDKey, initiativeID))
	}
	return list, nil
}
