package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// noneDocumentID is the nil uuid. Initiative ids are random uuids, so an
// "in" filter on it yields an empty live result.
const noneDocumentID = "00000000-0000-0000-0000-000000000000"

type initiativeRepository struct {
	f *Firestore
}

var _ interfaces.InitiativeRepository = &initiativeRepository{}

type initiativeDoc struct {
	ID            string    `firestore:"id"`
	Name          string    `firestore:"name"`
	Category      string    `firestore:"category"`
	Description   string    `firestore:"description"`
	Objectives    string    `firestore:"objectives"`
	LeadIDs       []string  `firestore:"leadIds"`
	TeamMemberIDs []string  `firestore:"teamMemberIds"`
	Status        string    `firestore:"status"`
	Priority      string    `firestore:"priority"`
	StartDate     time.Time `firestore:"startDate"`
	EndDate       time.Time `firestore:"endDate"`
	Tags          []string  `firestore:"tags"`
	RAGStatus     string    `firestore:"ragStatus"`
	Progress      int       `firestore:"progress"`
	CreatedAt     time.Time `firestore:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

func toUserIDStrings(ids []model.UserID) []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = id.String()
	}
	return result
}

func toUserIDs(ids []string) []model.UserID {
	result := make([]model.UserID, len(ids))
	for i, id := range ids {
		result[i] = model.UserID(id)
	}
	return result
}

func toInitiativeDoc(i *model.Initiative) *initiativeDoc {
	tags := i.Tags
	if tags == nil {
		tags = []string{}
	}
	return &initiativeDoc{
		ID:            i.ID.String(),
		Name:          i.Name,
		Category:      i.Category,
		Description:   i.Description,
		Objectives:    i.Objectives,
		LeadIDs:       toUserIDStrings(i.LeadIDs),
		TeamMemberIDs: toUserIDStrings(i.TeamMemberIDs),
		Status:        i.Status.String(),
		Priority:      i.Priority.String(),
		StartDate:     i.StartDate,
		EndDate:       i.EndDate,
		Tags:          tags,
		RAGStatus:     i.RAGStatus.String(),
		Progress:      i.Progress,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func fromInitiativeDoc(doc *initiativeDoc) *model.Initiative {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return &model.Initiative{
		ID:            model.InitiativeID(doc.ID),
		Name:          doc.Name,
		Category:      doc.Category,
		Description:   doc.Description,
		Objectives:    doc.Objectives,
		LeadIDs:       toUserIDs(doc.LeadIDs),
		TeamMemberIDs: toUserIDs(doc.TeamMemberIDs),
		Status:        types.InitiativeStatus(doc.Status),
		Priority:      types.Priority(doc.Priority),
		StartDate:     doc.StartDate,
		EndDate:       doc.EndDate,
		Tags:          tags,
		RAGStatus:     types.RAGStatus(doc.RAGStatus),
		Progress:      doc.Progress,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func decodeInitiative(snap *firestore.DocumentSnapshot) (*model.Initiative, error) {
	var doc initiativeDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode initiative", goerr.V("doc_id", snap.Ref.ID))
	}
	if doc.ID == "" {
		doc.ID = snap.Ref.ID
	}
	return fromInitiativeDoc(&doc), nil
}

func decodeInitiatives(snaps []*firestore.DocumentSnapshot) ([]*model.Initiative, error) {
	result := make([]*model.Initiative, 0, len(snaps))
	for _, snap := range snaps {
		ini, err := decodeInitiative(snap)
		if err != nil {
			return nil, err
		}
		result = append(result, ini)
	}
	model.SortInitiatives(result)
	return result, nil
}

func (r *initiativeRepository) Get(ctx context.Context, id model.InitiativeID) (*model.Initiative, error) {
	snap, err := r.f.initiatives().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "initiative not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get initiative", goerr.V("id", id))
	}
	return decodeInitiative(snap)
}

func (r *initiativeRepository) List(ctx context.Context) ([]*model.Initiative, error) {
	iter := r.f.initiatives().Documents(ctx)
	defer iter.Stop()

	var snaps []*firestore.DocumentSnapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate initiatives")
		}
		snaps = append(snaps, snap)
	}
	return decodeInitiatives(snaps)
}

// GetByIDs reads documents in chunks of maxInQueryValues references
func (r *initiativeRepository) GetByIDs(ctx context.Context, ids []model.InitiativeID) ([]*model.Initiative, error) {
	result := make([]*model.Initiative, 0, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	seen := make(map[model.InitiativeID]struct{}, len(ids))
	unique := make([]model.InitiativeID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	for i := 0; i < len(unique); i += maxInQueryValues {
		end := min(i+maxInQueryValues, len(unique))
		chunk := unique[i:end]

		refs := make([]*firestore.DocumentRef, len(chunk))
		for j, id := range chunk {
			refs[j] = r.f.initiatives().Doc(id.String())
		}

		snaps, err := r.f.client.GetAll(ctx, refs)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to batch get initiatives", goerr.V("count", len(chunk)))
		}
		for _, snap := range snaps {
			if !snap.Exists() {
				continue
			}
			ini, err := decodeInitiative(snap)
			if err != nil {
				return nil, err
			}
			result = append(result, ini)
		}
	}

	return result, nil
}

func (r *initiativeRepository) query(q model.InitiativeQuery) (firestore.Query, error) {
	col := r.f.initiatives()
	switch q.Scope {
	case model.QueryAll:
		return col.Query, nil

	case model.QueryNone:
		return col.Where(firestore.DocumentID, "in", []*firestore.DocumentRef{col.Doc(noneDocumentID)}), nil

	case model.QueryByIDs:
		if len(q.IDs) > maxInQueryValues {
			return firestore.Query{}, goerr.New("too many ids in query",
				goerr.V("count", len(q.IDs)),
				goerr.V("max", maxInQueryValues))
		}
		if len(q.IDs) == 0 {
			return col.Where(firestore.DocumentID, "in", []*firestore.DocumentRef{col.Doc(noneDocumentID)}), nil
		}
		refs := make([]*firestore.DocumentRef, len(q.IDs))
		for i, id := range q.IDs {
			refs[i] = col.Doc(id.String())
		}
		return col.Where(firestore.DocumentID, "in", refs), nil

	default:
		return firestore.Query{}, goerr.New("query scope is not resolved", goerr.V("scope", q.Scope.String()))
	}
}

func (r *initiativeRepository) Watch(ctx context.Context, q model.InitiativeQuery, fn func([]*model.Initiative)) error {
	query, err := r.query(q)
	if err != nil {
		return err
	}

	return watchQuery(ctx, query, func(snaps []*firestore.DocumentSnapshot) error {
		result, err := decodeInitiatives(snaps)
		if err != nil {
			return err
		}
		fn(result)
		return nil
	})
}

func (r *initiativeRepository) WatchOne(ctx context.Context, id model.InitiativeID, fn func(*model.Initiative)) error {
	return watchDocument(ctx, r.f.initiatives().Doc(id.String()), func(snap *firestore.DocumentSnapshot) error {
		if snap == nil || !snap.Exists() {
			fn(nil)
			return nil
		}
		ini, err := decodeInitiative(snap)
		if err != nil {
			return err
		}
		fn(ini)
		return nil
	})
}
