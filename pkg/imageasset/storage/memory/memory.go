package memory

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/igdevx/image-service/pkg/imageasset"
)

// Backend is an in-memory implementation of the imageasset.BlobStore
// interface, intended for tests and local development.
type Backend struct {
	mu           sync.RWMutex
	objects      map[string][]byte
	contentTypes map[string]string
	baseURL      string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
		baseURL:      "memory://images",
	}
}

// Upload stores content at key, overwriting any existing content
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = data
	b.contentTypes[key] = contentType
	return nil
}

// Download returns a reader over the stored content
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, imageasset.ErrObjectNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object at key. Missing keys are not an error.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, key)
	delete(b.contentTypes, key)
	return nil
}

// DeletePrefix removes every object whose key starts with prefix
func (b *Backend) DeletePrefix(ctx context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			delete(b.objects, key)
			delete(b.contentTypes, key)
		}
	}
	return nil
}

// PublicURL synthesizes an address for key without touching the store
func (b *Backend) PublicURL(key string) string {
	return b.baseURL + "/" + key
}

// ContentType reports the stored content type for key. Test helper.
func (b *Backend) ContentType(key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ct, ok := b.contentTypes[key]
	return ct, ok
}

// Len reports the number of stored objects. Test helper.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.objects)
}
