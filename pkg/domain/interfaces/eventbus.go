package interfaces

import (
	"context"

	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

// ErrorBus is the cross-cutting channel failures are published on
type ErrorBus interface {
	Publish(ctx context.Context, event *model.ErrorEvent)
	// Subscribe registers fn and returns a function that removes it
	Subscribe(fn func(ctx context.Context, event *model.ErrorEvent)) (unsubscribe func())
}
