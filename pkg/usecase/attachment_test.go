package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
	"github.com/secmon-lab/initiativeflow/pkg/repository/memory"
	"github.com/secmon-lab/initiativeflow/pkg/usecase"
)

// failingAttachmentRepo rejects every metadata write
type failingAttachmentRepo struct {
	interfaces.AttachmentRepository
}

func (r *failingAttachmentRepo) Create(ctx context.Context, initiativeID model.InitiativeID, attachment *model.Attachment) (*model.Attachment, error) {
	return nil, errors.New("metadata write failed")
}

type failingAttachmentRepository struct {
	interfaces.Repository
}

func (r *failingAttachmentRepository) Attachment() interfaces.AttachmentRepository {
	return &failingAttachmentRepo{AttachmentRepository: r.Repository.Attachment()}
}

func TestAttachmentUseCase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lead := env.addUser(t, "lead", types.RoleInitiativeLead)
	outsider := env.addUser(t, "outsider", types.RoleTeamMember)

	ini, err := env.uc.Initiative.Create(ctx, lead, newInitiativeInput("Files", []model.UserID{lead}))
	gt.NoError(t, err).Required()

	var attachment *model.Attachment

	t.Run("upload stores blob under initiative path", func(t *testing.T) {
		attachment, err = env.uc.Attachment.Upload(ctx, lead, ini.ID, "plan.pdf", "application/pdf", strings.NewReader("pdf-body"))
		gt.NoError(t, err).Required()

		gt.Value(t, attachment.StoragePath).Equal("initiatives/" + ini.ID.String() + "/" + attachment.ID.String() + "-plan.pdf")
		gt.Number(t, attachment.Size).Equal(int64(len("pdf-body")))
		gt.Value(t, attachment.UploadedBy).Equal(lead)
		gt.String(t, attachment.URL).Contains(attachment.StoragePath)
		gt.Number(t, env.storage.Len()).Equal(1)
	})

	t.Run("open streams content", func(t *testing.T) {
		meta, rc, err := env.uc.Attachment.Open(ctx, lead, ini.ID, attachment.ID)
		gt.NoError(t, err).Required()
		defer rc.Close()

		body, err := io.ReadAll(rc)
		gt.NoError(t, err).Required()
		gt.Value(t, string(body)).Equal("pdf-body")
		gt.Value(t, meta.FileType).Equal("application/pdf")
	})

	t.Run("outsider cannot upload or open", func(t *testing.T) {
		_, err := env.uc.Attachment.Upload(ctx, outsider, ini.ID, "x.txt", "text/plain", strings.NewReader("x"))
		gt.Error(t, err).Is(usecase.ErrPermissionDenied)

		_, _, err = env.uc.Attachment.Open(ctx, outsider, ini.ID, attachment.ID)
		gt.Error(t, err).Is(usecase.ErrAccessDenied)
	})

	t.Run("delete removes blob and metadata", func(t *testing.T) {
		gt.NoError(t, env.uc.Attachment.Delete(ctx, lead, ini.ID, attachment.ID)).Required()
		gt.Number(t, env.storage.Len()).Equal(0)

		list, err := env.uc.Attachment.ListAttachments(ctx, lead, ini.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(0)
	})

	t.Run("delete tolerates missing blob", func(t *testing.T) {
		a, err := env.uc.Attachment.Upload(ctx, lead, ini.ID, "notes.txt", "text/plain", strings.NewReader("notes"))
		gt.NoError(t, err).Required()
		gt.NoError(t, env.storage.Delete(ctx, a.StoragePath)).Required()

		gt.NoError(t, env.uc.Attachment.Delete(ctx, lead, ini.ID, a.ID)).Required()
		_, _, err = env.uc.Attachment.Open(ctx, lead, ini.ID, a.ID)
		gt.Error(t, err).Is(usecase.ErrAttachmentNotFound)
	})
}

func TestAttachmentUseCase_RollbackOnMetadataFailure(t *testing.T) {
	env := newTestEnvWithRepo(t, &failingAttachmentRepository{Repository: memory.New()})
	ctx := context.Background()
	lead := env.addUser(t, "lead", types.RoleInitiativeLead)

	ini, err := env.uc.Initiative.Create(ctx, lead, newInitiativeInput("Rollback", []model.UserID{lead}))
	gt.NoError(t, err).Required()

	_, err = env.uc.Attachment.Upload(ctx, lead, ini.ID, "plan.pdf", "application/pdf", strings.NewReader("body"))
	gt.Value(t, err).NotNil()
	gt.Number(t, env.storage.Len()).Equal(0)
}

func TestAttachmentUseCase_WithoutStorage(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)

	_, err := uc.Attachment.Upload(context.Background(), "uid-any", "ini", "a.txt", "text/plain", strings.NewReader("a"))
	gt.Error(t, err).Is(usecase.ErrStorageNotConfigured)
}
