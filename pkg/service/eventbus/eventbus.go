package eventbus

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/utils/async"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
)

type Handler func(ctx context.Context, event *model.ErrorEvent)

// Bus fans error events out to subscribers in subscription order
type Bus struct {
	mu    sync.RWMutex
	subs  map[int]Handler
	next  int
	async bool
	group async.Group
}

var _ interfaces.ErrorBus = &Bus{}

type Option func(*Bus)

// WithAsyncDelivery runs every handler on its own goroutine so Publish never
// waits for subscribers
func WithAsyncDelivery() Option {
	return func(b *Bus) {
		b.async = true
	}
}

func New(opts ...Option) *Bus {
	b := &Bus{subs: make(map[int]Handler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) Subscribe(fn func(ctx context.Context, event *model.ErrorEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
}

func (b *Bus) Publish(ctx context.Context, event *model.ErrorEvent) {
	if event == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	for _, fn := range b.handlers() {
		if b.async {
			b.group.Dispatch(ctx, "error_event", func(ctx context.Context) error {
				fn(ctx, event)
				return nil
			})
			continue
		}
		fn(ctx, event)
	}
}

// Wait blocks until asynchronously delivered events have been handled
func (b *Bus) Wait() {
	b.group.Wait()
}

func (b *Bus) handlers() []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := make([]Handler, len(ids))
	for i, id := range ids {
		result[i] = b.subs[id]
	}
	return result
}

// LogHandler writes every event to the context logger
func LogHandler(ctx context.Context, event *model.ErrorEvent) {
	attrs := []any{
		"kind", event.Kind,
		"operation", event.Operation,
		"actor", event.Actor,
		"occurred_at", event.OccurredAt,
	}
	if event.Path != "" {
		attrs = append(attrs, "path", event.Path)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
	}
	logging.From(ctx).Warn("error event published", attrs...)
}
