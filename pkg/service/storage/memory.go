package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
)

type blob struct {
	data        []byte
	contentType string
}

// Memory keeps blobs in process memory
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]*blob
	name  string
}

var _ interfaces.BlobStorage = &Memory{}

// NewMemory creates an empty store; name appears in download URLs
func NewMemory(name string) *Memory {
	if name == "" {
		name = "local"
	}
	return &Memory{blobs: make(map[string]*blob), name: name}
}

func (m *Memory) Put(ctx context.Context, path, contentType string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, goerr.Wrap(err, "failed to read blob", goerr.V("path", path))
	}

	m.mu.Lock()
	m.blobs[path] = &blob{data: data, contentType: contentType}
	m.mu.Unlock()

	return "memory://" + m.name + "/" + path, int64(len(data)), nil
}

func (m *Memory) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[path]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "blob not found", goerr.V("path", path))
	}
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[path]; !ok {
		return goerr.Wrap(ErrNotFound, "blob not found", goerr.V("path", path))
	}
	delete(m.blobs, path)
	return nil
}

// ContentType returns the stored content type of path
func (m *Memory) ContentType(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[path]
	if !ok {
		return "", false
	}
	return b.contentType, true
}

// Len returns the number of stored blobs
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
