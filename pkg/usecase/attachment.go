package usecase

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/utils/errutil"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
)

type AttachmentUseCase struct {
	*guard
	storage interfaces.BlobStorage
}

func NewAttachmentUseCase(g *guard, storage interfaces.BlobStorage) *AttachmentUseCase {
	return &AttachmentUseCase{guard: g, storage: storage}
}

// Upload stores the blob and then its metadata. The blob is removed again
// when the metadata write fails.
func (uc *AttachmentUseCase) Upload(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID, fileName, contentType string, r io.Reader) (*model.Attachment, error) {
	if uc.storage == nil {
		return nil, goerr.Wrap(ErrStorageNotConfigured, "cannot upload attachment")
	}
	if fileName == "" {
		return nil, &model.ValidationError{Fields: model.FieldErrors{"file": "is required"}}
	}
	if _, _, err := uc.memberInitiative(ctx, "UploadAttachment", uid, initiativeID); err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id := model.NewAttachmentID()
	path := model.AttachmentPath(initiativeID, id, fileName)

	url, size, err := uc.storage.Put(ctx, path, contentType, r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store attachment blob",
			goerr.V(InitiativeIDKey, initiativeID),
			goerr.V("path", path))
	}

	attachment := &model.Attachment{
		ID:           id,
		InitiativeID: initiativeID,
		FileName:     fileName,
		URL:          url,
		StoragePath:  path,
		FileType:     contentType,
		Size:         size,
		UploadedBy:   uid,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := uc.repo.Attachment().Create(ctx, initiativeID, attachment)
	if err != nil {
		if delErr := uc.storage.Delete(ctx, path); delErr != nil {
			errutil.Handle(ctx, goerr.Wrap(delErr, "failed to remove orphan attachment blob", goerr.V("path", path)),
				"attachment rollback failed")
		}
		if backendDenied(err) {
			return nil, uc.deny(ctx, "UploadAttachment", "initiatives/"+initiativeID.String()+"/attachments", uid, "backend rejected attachment write", err)
		}
		return nil, goerr.Wrap(err, "failed to save attachment metadata",
			goerr.V(InitiativeIDKey, initiativeID),
			goerr.V(AttachmentIDKey, id))
	}

	logging.From(ctx).Info("attachment uploaded",
		"initiative_id", initiativeID,
		"attachment_id", id,
		"size", size)
	return created, nil
}

func (uc *AttachmentUseCase) attachment(ctx context.Context, initiativeID model.InitiativeID, id model.AttachmentID) (*model.Attachment, error) {
	attachment, err := uc.repo.Attachment().Get(ctx, initiativeID, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrAttachmentNotFound, "attachment not found",
				goerr.V(InitiativeIDKey, initiativeID),
				goerr.V(AttachmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get attachment",
			goerr.V(InitiativeIDKey, initiativeID),
			goerr.V(AttachmentIDKey, id))
	}
	return attachment, nil
}

// Delete removes the blob and its metadata. A blob that is already gone
// does not stop the metadata from being deleted.
func (uc *AttachmentUseCase) Delete(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID, id model.AttachmentID) error {
	if uc.storage == nil {
		return goerr.Wrap(ErrStorageNotConfigured, "cannot delete attachment")
	}
	if _, _, err := uc.memberInitiative(ctx, "DeleteAttachment", uid, initiativeID); err != nil {
		return err
	}

	attachment, err := uc.attachment(ctx, initiativeID, id)
	if err != nil {
		return err
	}

	if err := uc.storage.Delete(ctx, attachment.StoragePath); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return goerr.Wrap(err, "failed to delete attachment blob",
				goerr.V(AttachmentIDKey, id),
				goerr.V("path", attachment.StoragePath))
		}
		logging.From(ctx).Warn("attachment blob already removed", "path", attachment.StoragePath)
	}

	if err := uc.repo.Attachment().Delete(ctx, initiativeID, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return goerr.Wrap(err, "failed to delete attachment metadata",
			goerr.V(InitiativeIDKey, initiativeID),
			goerr.V(AttachmentIDKey, id))
	}
	return nil
}

// Open returns the metadata and a reader of the blob. The caller closes
// the reader.
func (uc *AttachmentUseCase) Open(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID, id model.AttachmentID) (*model.Attachment, io.ReadCloser, error) {
	if uc.storage == nil {
		return nil, nil, goerr.Wrap(ErrStorageNotConfigured, "cannot open attachment")
	}
	if _, _, err := uc.readableInitiative(ctx, uid, initiativeID); err != nil {
		return nil, nil, err
	}

	attachment, err := uc.attachment(ctx, initiativeID, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := uc.storage.Open(ctx, attachment.StoragePath)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil, goerr.Wrap(ErrAttachmentNotFound, "attachment blob not found",
				goerr.V(AttachmentIDKey, id),
				goerr.V("path", attachment.StoragePath))
		}
		return nil, nil, goerr.Wrap(err, "failed to open attachment blob", goerr.V(AttachmentIDKey, id))
	}
	return attachment, rc, nil
}

func (uc *AttachmentUseCase) ListAttachments(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID) ([]*model.Attachment, error) {
	if _, _, err := uc.readableInitiative(ctx, uid, initiativeID); err != nil {
		return nil, err
	}
	list, err := uc.repo.Attachment().List(ctx, initiativeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list attachments", goerr.V(InitiativeIDKey, initiativeID))
	}
	return list, nil
}

func (uc *AttachmentUseCase) WatchAttachments(ctx context.Context, uid model.UserID, initiativeID model.InitiativeID, fn func(Live[[]*model.Attachment])) *Subscription {
	return watchLive(ctx, "WatchAttachments", fn, func(ctx context.Context, emit func([]*model.Attachment)) error {
		if _, _, err := uc.readableInitiative(ctx, uid, initiativeID); err != nil {
			return err
		}
		return uc.repo.Attachment().Watch(ctx, initiativeID, emit)
	})
}
