package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

func runAttachmentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()
	base := time.Now().UTC().Truncate(time.Millisecond)
	iniID := model.NewInitiativeID()

	newAttachment := func(name string, createdAt time.Time) *model.Attachment {
		id := model.NewAttachmentID()
		return &model.Attachment{
			ID:          id,
			FileName:    name,
			StoragePath: model.AttachmentPath(iniID, id, name),
			URL:         "https://storage.example.com/" + name,
			FileType:    "application/pdf",
			Size:        128,
			UploadedBy:  "uploader",
			CreatedAt:   createdAt,
		}
	}

	t.Run("Create requires a preset id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Attachment().Create(context.Background(), iniID, &model.Attachment{FileName: "x.pdf"})
		gt.Error(t, err)
	})

	t.Run("Create then Get round trips metadata", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := newAttachment("plan.pdf", base)
		created, err := repo.Attachment().Create(ctx, iniID, a)
		gt.NoError(t, err).Required()
		gt.Value(t, created.InitiativeID).Equal(iniID)

		got, err := repo.Attachment().Get(ctx, iniID, a.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.FileName).Equal("plan.pdf")
		gt.Value(t, got.StoragePath).Equal(a.StoragePath)
		gt.Value(t, got.Size).Equal(int64(128))
		gt.Value(t, got.UploadedBy).Equal(model.UserID("uploader"))
	})

	t.Run("List returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Attachment().Create(ctx, iniID, newAttachment("old.pdf", base))
		gt.NoError(t, err).Required()
		_, err = repo.Attachment().Create(ctx, iniID, newAttachment("new.pdf", base.Add(time.Minute)))
		gt.NoError(t, err).Required()

		list, err := repo.Attachment().List(ctx, iniID)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].FileName).Equal("new.pdf")
	})

	t.Run("Delete removes metadata", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := newAttachment("gone.pdf", base)
		_, err := repo.Attachment().Create(ctx, iniID, a)
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Attachment().Delete(ctx, iniID, a.ID)).Required()
		_, err = repo.Attachment().Get(ctx, iniID, a.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
		gt.Error(t, repo.Attachment().Delete(ctx, iniID, a.ID)).Is(model.ErrNotFound)
	})

	t.Run("Watch delivers new attachments", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		wait := watchValues(t, func(ctx context.Context, fn func([]*model.Attachment)) error {
			return repo.Attachment().Watch(ctx, iniID, fn)
		})
		wait(func(list []*model.Attachment) bool { return len(list) == 0 })

		_, err := repo.Attachment().Create(ctx, iniID, newAttachment("live.pdf", base))
		gt.NoError(t, err).Required()
		got := wait(func(list []*model.Attachment) bool { return len(list) == 1 })
		gt.Value(t, got[0].FileName).Equal("live.pdf")
	})
}
