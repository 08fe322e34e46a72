package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

type ratingRepository struct {
	st *store
}

func (r *ratingRepository) CreateInitiativeRating(ctx context.Context, rating *model.InitiativeRating) (*model.InitiativeRating, error) {
	created := *rating
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.st.mu.Lock()
	stored := created
	r.st.initiativeRatings[created.InitiativeID] = append(r.st.initiativeRatings[created.InitiativeID], &stored)
	r.st.mu.Unlock()

	return &created, nil
}

func (r *ratingRepository) ListInitiativeRatings(ctx context.Context, initiativeID model.InitiativeID) ([]*model.InitiativeRating, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	result := make([]*model.InitiativeRating, 0, len(r.st.initiativeRatings[initiativeID]))
	for _, v := range r.st.initiativeRatings[initiativeID] {
		copied := *v
		result = append(result, &copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *ratingRepository) CreateUserRating(ctx context.Context, rating *model.UserRating) (*model.UserRating, error) {
	created := *rating
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.st.mu.Lock()
	stored := created
	r.st.userRatings[created.InitiativeID] = append(r.st.userRatings[created.InitiativeID], &stored)
	r.st.mu.Unlock()

	return &created, nil
}

func (r *ratingRepository) ListUserRatings(ctx context.Context, initiativeID model.InitiativeID) ([]*model.UserRating, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	result := make([]*model.UserRating, 0, len(r.st.userRatings[initiativeID]))
	for _, v := range r.st.userRatings[initiativeID] {
		copied := *v
		result = append(result, &copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *ratingRepository) CreateDailyCheckin(ctx context.Context, checkin *model.DailyCheckin) (*model.DailyCheckin, error) {
	created := *checkin
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.st.mu.Lock()
	stored := created
	r.st.checkins[created.InitiativeID] = append(r.st.checkins[created.InitiativeID], &stored)
	r.st.mu.Unlock()

	return &created, nil
}

func (r *ratingRepository) ListDailyCheckins(ctx context.Context, initiativeID model.InitiativeID) ([]*model.DailyCheckin, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	result := make([]*model.DailyCheckin, 0, len(r.st.checkins[initiativeID]))
	for _, v := range r.st.checkins[initiativeID] {
		copied := *v
		result = append(result, &copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
