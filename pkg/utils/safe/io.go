package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
)

// Close closes an io.Closer and logs any error. nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Copy copies src into dst and logs any error. It returns the number of
// bytes written so callers can record the transfer size.
func Copy(ctx context.Context, dst io.Writer, src io.Reader) int64 {
	n, err := io.Copy(dst, src)
	if err != nil {
		logging.From(ctx).Error("Failed to copy", slog.Any("error", err), slog.Int64("written", n))
	}
	return n
}
