package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

type attachmentRepository struct {
	st *store
}

func (r *attachmentRepository) Create(ctx context.Context, initiativeID model.InitiativeID, attachment *model.Attachment) (*model.Attachment, error) {
	if attachment.ID == "" {
		return nil, goerr.New("attachment id is required")
	}

	r.st.mu.Lock()
	created := copyAttachment(attachment)
	created.InitiativeID = initiativeID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if r.st.attachments[initiativeID] == nil {
		r.st.attachments[initiativeID] = make(map[model.AttachmentID]*model.Attachment)
	}
	r.st.attachments[initiativeID][created.ID] = created
	r.st.mu.Unlock()

	r.st.hub.notify()
	return copyAttachment(created), nil
}

func (r *attachmentRepository) Get(ctx context.Context, initiativeID model.InitiativeID, id model.AttachmentID) (*model.Attachment, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	a, exists := r.st.attachments[initiativeID][id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "attachment not found",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", id))
	}
	return copyAttachment(a), nil
}

func (r *attachmentRepository) List(ctx context.Context, initiativeID model.InitiativeID) ([]*model.Attachment, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return r.list(initiativeID), nil
}

func (r *attachmentRepository) list(initiativeID model.InitiativeID) []*model.Attachment {
	ws := r.st.attachments[initiativeID]
	result := make([]*model.Attachment, 0, len(ws))
	for _, a := range ws {
		result = append(result, copyAttachment(a))
	}
	model.SortAttachments(result)
	return result
}

func (r *attachmentRepository) Delete(ctx context.Context, initiativeID model.InitiativeID, id model.AttachmentID) error {
	r.st.mu.Lock()
	if _, exists := r.st.attachments[initiativeID][id]; !exists {
		r.st.mu.Unlock()
		return goerr.Wrap(ErrNotFound, "attachment not found",
			goerr.V("initiative_id", initiativeID),
			goerr.V("id", id))
	}
	delete(r.st.attachments[initiativeID], id)
	r.st.mu.Unlock()

	r.st.hub.notify()
	return nil
}

func (r *attachmentRepository) Watch(ctx context.Context, initiativeID model.InitiativeID, fn func([]*model.Attachment)) error {
	return r.st.watch(ctx, func() {
		r.st.mu.RLock()
		result := r.list(initiativeID)
		r.st.mu.RUnlock()
		fn(result)
	})
}
