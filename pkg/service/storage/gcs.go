package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"google.golang.org/api/option"
)

// GCS stores blobs in a Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
}

var _ interfaces.BlobStorage = &GCS{}

func NewGCS(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) object(path string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(path)
}

// downloadURL escapes each path segment of the public object URL
func (g *GCS) downloadURL(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, strings.Join(segments, "/"))
}

func (g *GCS) Put(ctx context.Context, path, contentType string, r io.Reader) (string, int64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := g.object(path).NewWriter(ctx)
	w.ContentType = contentType

	size, err := io.Copy(w, r)
	if err != nil {
		// cancelling before Close discards the partial upload
		cancel()
		_ = w.Close()
		return "", 0, goerr.Wrap(err, "failed to upload blob", goerr.V("bucket", g.bucket), goerr.V("path", path))
	}
	if err := w.Close(); err != nil {
		return "", 0, goerr.Wrap(err, "failed to finalize blob", goerr.V("bucket", g.bucket), goerr.V("path", path))
	}

	return g.downloadURL(path), size, nil
}

func (g *GCS) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	reader, err := g.object(path).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(ErrNotFound, "blob not found", goerr.V("bucket", g.bucket), goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to open blob", goerr.V("bucket", g.bucket), goerr.V("path", path))
	}
	return reader, nil
}

func (g *GCS) Delete(ctx context.Context, path string) error {
	if err := g.object(path).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return goerr.Wrap(ErrNotFound, "blob not found", goerr.V("bucket", g.bucket), goerr.V("path", path))
		}
		return goerr.Wrap(err, "failed to delete blob", goerr.V("bucket", g.bucket), goerr.V("path", path))
	}
	return nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
