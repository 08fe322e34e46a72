package interfaces

import (
	"context"
	"io"
)

// BlobStorage stores attachment payloads
type BlobStorage interface {
	// Put writes r to path and returns the download URL and stored size
	Put(ctx context.Context, path, contentType string, r io.Reader) (url string, size int64, err error)
	// Open returns a reader of the blob at path
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes the blob at path
	Delete(ctx context.Context, path string) error
}
