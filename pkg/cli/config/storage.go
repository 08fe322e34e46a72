package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/service/storage"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Storage holds CLI flags for attachment blob storage
type Storage struct {
	backend string
	bucket  string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Attachment storage (gcs, memory, or none)",
			Value:       "gcs",
			Category:    "Storage",
			Sources:     cli.EnvVars("INITIATIVEFLOW_STORAGE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "Cloud Storage bucket for attachments",
			Category:    "Storage",
			Sources:     cli.EnvVars("INITIATIVEFLOW_STORAGE_BUCKET"),
			Destination: &x.bucket,
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("bucket", x.bucket),
	)
}

// Configure returns the blob storage. The closer is a no-op for backends
// without resources. A nil storage disables attachments.
func (x *Storage) Configure(ctx context.Context, opts ...option.ClientOption) (interfaces.BlobStorage, func(), error) {
	nop := func() {}

	switch x.backend {
	case "gcs":
		if x.bucket == "" {
			return nil, nil, goerr.Wrap(ErrMissingFlag, "storage-bucket is required when using gcs storage backend")
		}
		gcs, err := storage.NewGCS(ctx, x.bucket, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize cloud storage")
		}
		logging.Default().Info("Using Cloud Storage for attachments", "bucket", x.bucket)
		return gcs, func() {
			if err := gcs.Close(); err != nil {
				logging.Default().Error("failed to close storage client", "error", err)
			}
		}, nil

	case "memory":
		logging.Default().Info("Using in-memory attachment storage (development mode)")
		return storage.NewMemory("memory"), nop, nil

	case "none", "":
		logging.Default().Warn("Attachment storage disabled")
		return nil, nop, nil

	default:
		return nil, nil, goerr.Wrap(ErrInvalidBackend, "unknown storage backend", goerr.V(BackendKey, x.backend))
	}
}
