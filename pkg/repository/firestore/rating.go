package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type ratingRepository struct {
	f *Firestore
}

var _ interfaces.RatingRepository = &ratingRepository{}

type initiativeRatingDoc struct {
	ID            string    `firestore:"id"`
	InitiativeID  string    `firestore:"initiativeId"`
	RatedBy       string    `firestore:"ratedBy"`
	Impact        int       `firestore:"impact"`
	Timeliness    int       `firestore:"timeliness"`
	Execution     int       `firestore:"execution"`
	Collaboration int       `firestore:"collaboration"`
	Comments      string    `firestore:"comments"`
	CreatedAt     time.Time `firestore:"createdAt"`
}

type userRatingDoc struct {
	ID            string    `firestore:"id"`
	InitiativeID  string    `firestore:"initiativeId"`
	UserID        string    `firestore:"userId"`
	RatedBy       string    `firestore:"ratedBy"`
	Ownership     int       `firestore:"ownership"`
	Quality       int       `firestore:"quality"`
	Collaboration int       `firestore:"collaboration"`
	Comments      string    `firestore:"comments"`
	CreatedAt     time.Time `firestore:"createdAt"`
}

type dailyCheckinDoc struct {
	ID           string    `firestore:"id"`
	InitiativeID string    `firestore:"initiativeId"`
	UserID       string    `firestore:"userId"`
	Summary      string    `firestore:"summary"`
	Blockers     string    `firestore:"blockers"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

func newRecordMeta(id string, createdAt time.Time) (string, time.Time) {
	if id == "" {
		id = uuid.New().String()
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return id, createdAt
}

// listDocs decodes every document of col into T, newest first by the
// createdAt accessor
func listDocs[T any](ctx context.Context, col *firestore.CollectionRef, createdAt func(*T) time.Time) ([]*T, error) {
	iter := col.Documents(ctx)
	defer iter.Stop()

	var result []*T
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents", goerr.V("collection", col.Path))
		}
		var doc T
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, &doc)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return createdAt(result[i]).After(createdAt(result[j]))
	})
	return result, nil
}

func (r *ratingRepository) CreateInitiativeRating(ctx context.Context, rating *model.InitiativeRating) (*model.InitiativeRating, error) {
	created := *rating
	created.ID, created.CreatedAt = newRecordMeta(created.ID, created.CreatedAt)

	doc := &initiativeRatingDoc{
		ID:            created.ID,
		InitiativeID:  created.InitiativeID.String(),
		RatedBy:       created.RatedBy.String(),
		Impact:        created.Impact,
		Timeliness:    created.Timeliness,
		Execution:     created.Execution,
		Collaboration: created.Collaboration,
		Comments:      created.Comments,
		CreatedAt:     created.CreatedAt,
	}
	col := r.f.subCollection(created.InitiativeID, initiativeRatingsCollection)
	if _, err := col.Doc(created.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create initiative rating", goerr.V("initiative_id", created.InitiativeID))
	}
	return &created, nil
}

func (r *ratingRepository) ListInitiativeRatings(ctx context.Context, initiativeID model.InitiativeID) ([]*model.InitiativeRating, error) {
	docs, err := listDocs(ctx, r.f.subCollection(initiativeID, initiativeRatingsCollection),
		func(d *initiativeRatingDoc) time.Time { return d.CreatedAt })
	if err != nil {
		return nil, err
	}

	result := make([]*model.InitiativeRating, 0, len(docs))
	for _, d := range docs {
		result = append(result, &model.InitiativeRating{
			ID:            d.ID,
			InitiativeID:  model.InitiativeID(d.InitiativeID),
			RatedBy:       model.UserID(d.RatedBy),
			Impact:        d.Impact,
			Timeliness:    d.Timeliness,
			Execution:     d.Execution,
			Collaboration: d.Collaboration,
			Comments:      d.Comments,
			CreatedAt:     d.CreatedAt,
		})
	}
	return result, nil
}

func (r *ratingRepository) CreateUserRating(ctx context.Context, rating *model.UserRating) (*model.UserRating, error) {
	created := *rating
	created.ID, created.CreatedAt = newRecordMeta(created.ID, created.CreatedAt)

	doc := &userRatingDoc{
		ID:            created.ID,
		InitiativeID:  created.InitiativeID.String(),
		UserID:        created.UserID.String(),
		RatedBy:       created.RatedBy.String(),
		Ownership:     created.Ownership,
		Quality:       created.Quality,
		Collaboration: created.Collaboration,
		Comments:      created.Comments,
		CreatedAt:     created.CreatedAt,
	}
	col := r.f.subCollection(created.InitiativeID, userRatingsCollection)
	if _, err := col.Doc(created.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create user rating", goerr.V("initiative_id", created.InitiativeID))
	}
	return &created, nil
}

func (r *ratingRepository) ListUserRatings(ctx context.Context, initiativeID model.InitiativeID) ([]*model.UserRating, error) {
	docs, err := listDocs(ctx, r.f.subCollection(initiativeID, userRatingsCollection),
		func(d *userRatingDoc) time.Time { return d.CreatedAt })
	if err != nil {
		return nil, err
	}

	result := make([]*model.UserRating, 0, len(docs))
	for _, d := range docs {
		result = append(result, &model.UserRating{
			ID:            d.ID,
			InitiativeID:  model.InitiativeID(d.InitiativeID),
			UserID:        model.UserID(d.UserID),
			RatedBy:       model.UserID(d.RatedBy),
			Ownership:     d.Ownership,
			Quality:       d.Quality,
			Collaboration: d.Collaboration,
			Comments:      d.Comments,
			CreatedAt:     d.CreatedAt,
		})
	}
	return result, nil
}

func (r *ratingRepository) CreateDailyCheckin(ctx context.Context, checkin *model.DailyCheckin) (*model.DailyCheckin, error) {
	created := *checkin
	created.ID, created.CreatedAt = newRecordMeta(created.ID, created.CreatedAt)

	doc := &dailyCheckinDoc{
		ID:           created.ID,
		InitiativeID: created.InitiativeID.String(),
		UserID:       created.UserID.String(),
		Summary:      created.Summary,
		Blockers:     created.Blockers,
		CreatedAt:    created.CreatedAt,
	}
	col := r.f.subCollection(created.InitiativeID, dailyCheckinsCollection)
	if _, err := col.Doc(created.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create daily checkin", goerr.V("initiative_id", created.InitiativeID))
	}
	return &created, nil
}

func (r *ratingRepository) ListDailyCheckins(ctx context.Context, initiativeID model.InitiativeID) ([]*model.DailyCheckin, error) {
	docs, err := listDocs(ctx, r.f.subCollection(initiativeID, dailyCheckinsCollection),
		func(d *dailyCheckinDoc) time.Time { return d.CreatedAt })
	if err != nil {
		return nil, err
	}

	result := make([]*model.DailyCheckin, 0, len(docs))
	for _, d := range docs {
		result = append(result, &model.DailyCheckin{
			ID:           d.ID,
			InitiativeID: model.InitiativeID(d.InitiativeID),
			UserID:       model.UserID(d.UserID),
			Summary:      d.Summary,
			Blockers:     d.Blockers,
			CreatedAt:    d.CreatedAt,
		})
	}
	return result, nil
}
