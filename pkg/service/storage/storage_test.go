package storage_test

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/service/storage"
)

func runBlobStorageTest(t *testing.T, newStorage func(t *testing.T) interfaces.BlobStorage) {
	t.Helper()

	t.Run("Put then Open returns the content", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()
		path := "initiatives/test/" + uuid.New().String() + "-notes.txt"

		url, size, err := s.Put(ctx, path, "text/plain", strings.NewReader("hello"))
		gt.NoError(t, err).Required()
		gt.Value(t, size).Equal(int64(5))
		gt.String(t, url).Contains("notes.txt")

		r, err := s.Open(ctx, path)
		gt.NoError(t, err).Required()
		defer r.Close()
		data, err := io.ReadAll(r)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("hello")

		gt.NoError(t, s.Delete(ctx, path)).Required()
	})

	t.Run("missing blob returns ErrNotFound", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()
		path := "initiatives/test/" + uuid.New().String() + "-missing.txt"

		_, err := s.Open(ctx, path)
		gt.Error(t, err).Is(storage.ErrNotFound)
		gt.Error(t, s.Delete(ctx, path)).Is(storage.ErrNotFound)
	})
}

func TestMemory(t *testing.T) {
	runBlobStorageTest(t, func(t *testing.T) interfaces.BlobStorage {
		return storage.NewMemory("test")
	})
}

func TestMemory_ContentType(t *testing.T) {
	m := storage.NewMemory("")
	_, _, err := m.Put(context.Background(), "a/b.pdf", "application/pdf", strings.NewReader("x"))
	gt.NoError(t, err).Required()

	ct, ok := m.ContentType("a/b.pdf")
	gt.Bool(t, ok).True()
	gt.Value(t, ct).Equal("application/pdf")
	gt.Value(t, m.Len()).Equal(1)
}

func TestGCS(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET is not set")
	}

	runBlobStorageTest(t, func(t *testing.T) interfaces.BlobStorage {
		s, err := storage.NewGCS(context.Background(), bucket)
		gt.NoError(t, err).Required()
		t.Cleanup(func() { gt.NoError(t, s.Close()) })
		return s
	})
}
