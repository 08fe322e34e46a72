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

type taskRepository struct {
	f *Firestore
}

var _ interfaces.TaskRepository = &taskRepository{}

type taskDoc struct {
	ID           string    `firestore:"id"`
	InitiativeID string    `firestore:"initiativeId"`
	Title        string    `firestore:"title"`
	Description  string    `firestore:"description"`
	OwnerID      string    `firestore:"ownerId"`
	Status       string    `firestore:"status"`
	StartDate    time.Time `firestore:"startDate"`
	DueDate      time.Time `firestore:"dueDate"`
	Progress     int       `firestore:"progress"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func toTaskDoc(t *model.Task) *taskDoc {
	return &taskDoc{
		ID:           t.ID.String(),
		InitiativeID: t.InitiativeID.String(),
		Title:        t.Title,
		Description:  t.Description,
		OwnerID:      t.OwnerID.String(),
		Status:       t.Status.String(),
		StartDate:    t.StartDate,
		DueDate:      t.DueDate,
		Progress:     t.Progress,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func fromTaskDoc(doc *taskDoc) *model.Task {
	return &model.Task{
		ID:           model.TaskID(doc.ID),
		InitiativeID: model.InitiativeID(doc.InitiativeID),
		Title:        doc.Title,
		Description:  doc.Description,
		OwnerID:      model.UserID(doc.OwnerID),
		Status:       types.TaskStatus(doc.Status),
		StartDate:    doc.StartDate,
		DueDate:      doc.DueDate,
		Progress:     doc.Progress,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func decodeTasks(snaps []*firestore.DocumentSnapshot) ([]*model.Task, error) {
	result := make([]*model.Task, 0, len(snaps))
	for _, snap := range snaps {
		var doc taskDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode task", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, fromTaskDoc(&doc))
	}
	model.SortTasks(result)
	return result, nil
}

func (r *taskRepository) collection(initiativeID model.InitiativeID) *firestore.CollectionRef {
	return r.f.subCollection(initiativeID, tasksCollection)
}

// ordered is the task listing query; it is served by the tasks composite index
func (r *taskRepository) ordered(initiativeID model.InitiativeID) firestore.Query {
	return r.collection(initiativeID).OrderBy("dueDate", firestore.Asc).OrderBy("id", firestore.Asc)
}

func (r *taskRepository) Create(ctx context.Context, initiativeID model.InitiativeID, task *model.Task) (*model.Task, error) {
	now := time.Now().UTC()
	created := *task
	if created.ID == "" {
		created.ID = model.NewTaskID()
	}
	created.InitiativeID = initiativeID
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.collection(initiativeID).Doc(created.ID.String()).Create(ctx, toTaskDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create task",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *taskRepository) Get(ctx context.Context, initiativeID model.InitiativeID, id model.TaskID) (*model.Task, error) {
	snap, err := r.collection(initiativeID).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "task not found",
				goerr.V("initiative_id", initiativeID),
				goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get task",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", id))
	}

	var doc taskDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode task", goerr.V("id", id))
	}
	return fromTaskDoc(&doc), nil
}

func (r *taskRepository) List(ctx context.Context, initiativeID model.InitiativeID) ([]*model.Task, error) {
	iter := r.ordered(initiativeID).Documents(ctx)
	defer iter.Stop()

	var snaps []*firestore.DocumentSnapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tasks", goerr.V("initiative_id", initiativeID))
		}
		snaps = append(snaps, snap)
	}
	return decodeTasks(snaps)
}

func (r *taskRepository) Update(ctx context.Context, initiativeID model.InitiativeID, task *model.Task) (*model.Task, error) {
	existing, err := r.Get(ctx, initiativeID, task.ID)
	if err != nil {
		return nil, err
	}

	updated := *task
	updated.InitiativeID = initiativeID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := r.collection(initiativeID).Doc(updated.ID.String()).Set(ctx, toTaskDoc(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update task",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", task.ID))
	}
	return &updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, initiativeID model.InitiativeID, id model.TaskID) error {
	if _, err := r.Get(ctx, initiativeID, id); err != nil {
		return err
	}
	if _, err := r.collection(initiativeID).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete task",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", id))
	}
	return nil
}

func (r *taskRepository) Watch(ctx context.Context, initiativeID model.InitiativeID, fn func([]*model.Task)) error {
	return watchQuery(ctx, r.ordered(initiativeID), func(snaps []*firestore.DocumentSnapshot) error {
		result, err := decodeTasks(snaps)
		if err != nil {
			return err
		}
		fn(result)
		return nil
	})
}
