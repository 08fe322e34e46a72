package async

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/utils/errutil"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
)

// Group runs handlers on their own goroutines. The zero value is ready to use.
type Group struct {
	wg sync.WaitGroup
}

// Dispatch runs handler detached from ctx cancellation, keeping only its
// logger. Errors and panics are reported through errutil.Handle.
func (g *Group) Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(bgCtx, goerr.New("panic in async handler",
					goerr.V("handler", name), goerr.V("panic", r)), "async handler panicked")
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, goerr.Wrap(err, "async handler failed", goerr.V("handler", name)), "async handler failed")
		}
	}()
}

// Wait blocks until every dispatched handler has returned
func (g *Group) Wait() {
	g.wg.Wait()
}
