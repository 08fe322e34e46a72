package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/repository/firestore"
	"github.com/secmon-lab/initiativeflow/pkg/repository/memory"
)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()

	t.Cleanup(func() {
		gt.NoError(t, purgeCollections(context.Background(), projectID, databaseID, prefix))
		gt.NoError(t, repo.Close())
	})
	return repo
}

// runRepositoryTests runs every contract test against the given factory
func runRepositoryTests(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("User", func(t *testing.T) { runUserRepositoryTest(t, newRepo) })
	t.Run("Initiative", func(t *testing.T) { runInitiativeRepositoryTest(t, newRepo) })
	t.Run("Batch", func(t *testing.T) { runBatchTest(t, newRepo) })
	t.Run("Task", func(t *testing.T) { runTaskRepositoryTest(t, newRepo) })
	t.Run("Attachment", func(t *testing.T) { runAttachmentRepositoryTest(t, newRepo) })
	t.Run("Master", func(t *testing.T) { runMasterRepositoryTest(t, newRepo) })
	t.Run("Rating", func(t *testing.T) { runRatingRepositoryTest(t, newRepo) })
}

func TestRepository_Memory(t *testing.T) {
	runRepositoryTests(t, newMemoryRepository)
}

func TestRepository_Firestore(t *testing.T) {
	runRepositoryTests(t, newFirestoreRepository)
}

// watchValues starts watch in the background and returns a function that
// blocks until a delivered value satisfies cond
func watchValues[T any](t *testing.T, watch func(ctx context.Context, fn func(T)) error) func(cond func(T) bool) T {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan T, 64)
	done := make(chan error, 1)

	go func() {
		done <- watch(ctx, func(v T) {
			select {
			case ch <- v:
			case <-ctx.Done():
			}
		})
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			gt.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("watch did not stop after cancel")
		}
	})

	return func(cond func(T) bool) T {
		t.Helper()
		timeout := time.After(10 * time.Second)
		for {
			select {
			case v := <-ch:
				if cond(v) {
					return v
				}
			case err := <-done:
				t.Fatalf("watch stopped early: %v", err)
			case <-timeout:
				t.Fatal("timed out waiting for watch value")
			}
		}
	}
}
