package interfaces

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// AttachmentRepository defines access to initiatives/{id}/attachments metadata
type AttachmentRepository interface {
	// Create stores metadata; attachment.ID must already be set because it
	// is part of the blob path
	Create(ctx context.Context, initiativeID model.InitiativeID, attachment *model.Attachment) (*model.Attachment, error)
	Get(ctx context.Context, initiativeID model.InitiativeID, id model.AttachmentID) (*model.Attachment, error)
	List(ctx context.Context, initiativeID model.InitiativeID) ([]*model.Attachment, error)
	Delete(ctx context.Context, initiativeID model.InitiativeID, id model.AttachmentID) error
	Watch(ctx context.Context, initiativeID model.InitiativeID, fn func([]*model.Attachment)) error
}
