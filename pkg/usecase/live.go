package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/utils/errutil"
)

// Live is the state of a live query. Data is meaningful only when Loading
// is false and Err is nil.
type Live[T any] struct {
	Data    T
	Loading bool
	Err     error
}

// Subscription is a running live query
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func newSubscription(ctx context.Context, run func(ctx context.Context)) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		defer cancel()
		run(ctx)
	}()
	return s
}

// Stop closes the subscription and waits until no more values are
// delivered. It must not be called from the delivery callback.
func (s *Subscription) Stop() {
	s.cancel()
	<-s.done
}

// Done is closed once the subscription has ended
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// watchLive delivers Loading first, then every snapshot produced by watch.
// A failure is delivered as Err and ends the subscription.
func watchLive[T any](ctx context.Context, op string, fn func(Live[T]), watch func(ctx context.Context, emit func(T)) error) *Subscription {
	return newSubscription(ctx, func(ctx context.Context) {
		fn(Live[T]{Loading: true})

		err := watch(ctx, func(v T) {
			fn(Live[T]{Data: v})
		})
		if err != nil && ctx.Err() == nil {
			err = goerr.Wrap(err, "live query failed", goerr.V(OperationKey, op))
			if !IsClientError(err) {
				errutil.Handle(ctx, err, "live query failed")
			}
			fn(Live[T]{Err: err})
		}
	})
}
