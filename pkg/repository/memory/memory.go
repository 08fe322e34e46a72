package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = model.ErrNotFound

// Memory is an in-process document store with live subscriptions. All
// collections share one lock so RunBatch commits atomically.
type Memory struct {
	st *store

	user       *userRepository
	initiative *initiativeRepository
	task       *taskRepository
	attachment *attachmentRepository
	master     *masterRepository
	rating     *ratingRepository
}

var _ interfaces.Repository = &Memory{}

type store struct {
	mu sync.RWMutex

	users       map[model.UserID]*model.User
	initiatives map[model.InitiativeID]*model.Initiative
	tasks       map[model.InitiativeID]map[model.TaskID]*model.Task
	attachments map[model.InitiativeID]map[model.AttachmentID]*model.Attachment
	masters     map[model.MasterKind]map[string]*model.MasterItem

	initiativeRatings map[model.InitiativeID][]*model.InitiativeRating
	userRatings       map[model.InitiativeID][]*model.UserRating
	checkins          map[model.InitiativeID][]*model.DailyCheckin

	hub *hub
}

func New() *Memory {
	st := &store{
		users:             make(map[model.UserID]*model.User),
		initiatives:       make(map[model.InitiativeID]*model.Initiative),
		tasks:             make(map[model.InitiativeID]map[model.TaskID]*model.Task),
		attachments:       make(map[model.InitiativeID]map[model.AttachmentID]*model.Attachment),
		masters:           make(map[model.MasterKind]map[string]*model.MasterItem),
		initiativeRatings: make(map[model.InitiativeID][]*model.InitiativeRating),
		userRatings:       make(map[model.InitiativeID][]*model.UserRating),
		checkins:          make(map[model.InitiativeID][]*model.DailyCheckin),
		hub:               newHub(),
	}
	for _, kind := range model.AllMasterKinds() {
		st.masters[kind] = make(map[string]*model.MasterItem)
	}

	return &Memory{
		st:         st,
		user:       &userRepository{st: st},
		initiative: &initiativeRepository{st: st},
		task:       &taskRepository{st: st},
		attachment: &attachmentRepository{st: st},
		master:     &masterRepository{st: st},
		rating:     &ratingRepository{st: st},
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Initiative() interfaces.InitiativeRepository {
	return m.initiative
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) Attachment() interfaces.AttachmentRepository {
	return m.attachment
}

func (m *Memory) Master() interfaces.MasterRepository {
	return m.master
}

func (m *Memory) Rating() interfaces.RatingRepository {
	return m.rating
}

func (m *Memory) Close() error {
	return nil
}

// RunBatch applies the recorded writes under the store lock, so readers
// observe all of them or none.
func (m *Memory) RunBatch(ctx context.Context, fn func(b interfaces.Batch) error) error {
	b := &batch{}
	if err := fn(b); err != nil {
		return err
	}
	if len(b.ops) == 0 {
		return nil
	}

	m.st.mu.Lock()
	for _, op := range b.ops {
		op(m.st)
	}
	m.st.mu.Unlock()

	m.st.hub.notify()
	return nil
}

// hub wakes live subscriptions after every committed write
type hub struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan struct{})}
}

func (h *hub) subscribe() (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan struct{}, 1)
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// notify never blocks; pending wake-ups are coalesced
func (h *hub) notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// watch calls snapshot once immediately and again after every write until
// ctx is done
func (st *store) watch(ctx context.Context, snapshot func()) error {
	ch, cancel := st.hub.subscribe()
	defer cancel()

	snapshot()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			snapshot()
		}
	}
}
