package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
	"github.com/secmon-lab/initiativeflow/pkg/repository/memory"
	"github.com/secmon-lab/initiativeflow/pkg/service/eventbus"
	"github.com/secmon-lab/initiativeflow/pkg/service/identity"
	"github.com/secmon-lab/initiativeflow/pkg/service/storage"
	"github.com/secmon-lab/initiativeflow/pkg/usecase"
)

type testEnv struct {
	repo     interfaces.Repository
	identity *identity.Memory
	storage  *storage.Memory
	bus      *eventbus.Bus
	uc       *usecase.UseCases

	mu     sync.Mutex
	events []*model.ErrorEvent
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithRepo(t, memory.New())
}

func newTestEnvWithRepo(t *testing.T, repo interfaces.Repository, opts ...identity.MemoryOption) *testEnv {
	env := &testEnv{
		repo:     repo,
		identity: identity.NewMemory(opts...),
		storage:  storage.NewMemory("test"),
		bus:      eventbus.New(),
	}
	unsubscribe := env.bus.Subscribe(func(ctx context.Context, event *model.ErrorEvent) {
		env.mu.Lock()
		defer env.mu.Unlock()
		env.events = append(env.events, event)
	})
	t.Cleanup(unsubscribe)

	env.uc = usecase.New(repo,
		usecase.WithIdentityProvider(env.identity),
		usecase.WithBlobStorage(env.storage),
		usecase.WithErrorBus(env.bus),
	)
	return env
}

func (e *testEnv) published() []*model.ErrorEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*model.ErrorEvent{}, e.events...)
}

// addUser stores a profile directly and returns its id
func (e *testEnv) addUser(t *testing.T, name string, role types.Role) model.UserID {
	t.Helper()
	id := model.UserID("uid-" + name)
	now := time.Now().UTC()
	gt.NoError(t, e.repo.User().Put(context.Background(), &model.User{
		ID:            id,
		Name:          name,
		Email:         name + "@example.com",
		Role:          role,
		Active:        true,
		InitiativeIDs: []model.InitiativeID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	})).Required()
	return id
}

func (e *testEnv) profile(t *testing.T, id model.UserID) *model.User {
	t.Helper()
	u, err := e.repo.User().Get(context.Background(), id)
	gt.NoError(t, err).Required()
	return u
}

func newInitiativeInput(name string, leads []model.UserID, members ...model.UserID) model.InitiativeInput {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.InitiativeInput{
		Name:          name,
		Category:      "Operations",
		Description:   "description of " + name,
		LeadIDs:       leads,
		TeamMemberIDs: members,
		StartDate:     start,
		EndDate:       start.AddDate(0, 6, 0),
	}
}

func newTaskInput(title string, owner model.UserID) model.TaskInput {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return model.TaskInput{
		Title:     title,
		OwnerID:   owner,
		StartDate: start,
		DueDate:   start.AddDate(0, 0, 14),
	}
}

// liveRecorder collects values delivered to a live subscription
type liveRecorder[T any] struct {
	ch chan usecase.Live[T]
}

func newLiveRecorder[T any]() *liveRecorder[T] {
	return &liveRecorder[T]{ch: make(chan usecase.Live[T], 128)}
}

func (r *liveRecorder[T]) fn(v usecase.Live[T]) {
	r.ch <- v
}

// wait blocks until a delivered value satisfies cond
func (r *liveRecorder[T]) wait(t *testing.T, cond func(usecase.Live[T]) bool) usecase.Live[T] {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case v := <-r.ch:
			if cond(v) {
				return v
			}
		case <-timeout:
			t.Fatal("timed out waiting for live value")
			return usecase.Live[T]{}
		}
	}
}

func (r *liveRecorder[T]) next(t *testing.T) usecase.Live[T] {
	return r.wait(t, func(usecase.Live[T]) bool { return true })
}
