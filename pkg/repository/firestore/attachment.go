package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type attachmentRepository struct {
	f *Firestore
}

var _ interfaces.AttachmentRepository = &attachmentRepository{}

type attachmentDoc struct {
	ID           string    `firestore:"id"`
	InitiativeID string    `firestore:"initiativeId"`
	FileName     string    `firestore:"fileName"`
	URL          string    `firestore:"url"`
	StoragePath  string    `firestore:"storagePath"`
	FileType     string    `firestore:"fileType"`
	Size         int64     `firestore:"size"`
	UploadedBy   string    `firestore:"uploadedBy"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

func toAttachmentDoc(a *model.Attachment) *attachmentDoc {
	return &attachmentDoc{
		ID:           a.ID.String(),
		InitiativeID: a.InitiativeID.String(),
		FileName:     a.FileName,
		URL:          a.URL,
		StoragePath:  a.StoragePath,
		FileType:     a.FileType,
		Size:         a.Size,
		UploadedBy:   a.UploadedBy.String(),
		CreatedAt:    a.CreatedAt,
	}
}

func fromAttachmentDoc(doc *attachmentDoc) *model.Attachment {
	return &model.Attachment{
		ID:           model.AttachmentID(doc.ID),
		InitiativeID: model.InitiativeID(doc.InitiativeID),
		FileName:     doc.FileName,
		URL:          doc.URL,
		StoragePath:  doc.StoragePath,
		FileType:     doc.FileType,
		Size:         doc.Size,
		UploadedBy:   model.UserID(doc.UploadedBy),
		CreatedAt:    doc.CreatedAt,
	}
}

func decodeAttachments(snaps []*firestore.DocumentSnapshot) ([]*model.Attachment, error) {
	result := make([]*model.Attachment, 0, len(snaps))
	for _, snap := range snaps {
		var doc attachmentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode attachment", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, fromAttachmentDoc(&doc))
	}
	model.SortAttachments(result)
	return result, nil
}

func (r *attachmentRepository) collection(initiativeID model.InitiativeID) *firestore.CollectionRef {
	return r.f.subCollection(initiativeID, attachmentsCollection)
}

func (r *attachmentRepository) Create(ctx context.Context, initiativeID model.InitiativeID, attachment *model.Attachment) (*model.Attachment, error) {
	if attachment.ID == "" {
		return nil, goerr.New("attachment id is required")
	}

	created := *attachment
	created.InitiativeID = initiativeID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection(initiativeID).Doc(created.ID.String()).Set(ctx, toAttachmentDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create attachment",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *attachmentRepository) Get(ctx context.Context, initiativeID model.InitiativeID, id model.AttachmentID) (*model.Attachment, error) {
	snap, err := r.collection(initiativeID).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "attachment not found",
				goerr.V("initiative_id", initiativeID),
				goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get attachment",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", id))
	}

	var doc attachmentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode attachment", goerr.V("id", id))
	}
	return fromAttachmentDoc(&doc), nil
}

func (r *attachmentRepository) List(ctx context.Context, initiativeID model.InitiativeID) ([]*model.Attachment, error) {
	iter := r.collection(initiativeID).Documents(ctx)
	defer iter.Stop()

	var snaps []*firestore.DocumentSnapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate attachments", goerr.V("initiative_id", initiativeID))
		}
		snaps = append(snaps, snap)
	}
	return decodeAttachments(snaps)
}

func (r *attachmentRepository) Delete(ctx context.Context, initiativeID model.InitiativeID, id model.AttachmentID) error {
	if _, err := r.Get(ctx, initiativeID, id); err != nil {
		return err
	}
	if _, err := r.collection(initiativeID).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete attachment",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", id))
	}
	return nil
}

func (r *attachmentRepository) Watch(ctx context.Context, initiativeID model.InitiativeID, fn func([]*model.Attachment)) error {
	return watchQuery(ctx, r.collection(initiativeID).Query, func(snaps []*firestore.DocumentSnapshot) error {
		result, err := decodeAttachments(snaps)
		if err != nil {
			return err
		}
		fn(result)
		return nil
	})
}
