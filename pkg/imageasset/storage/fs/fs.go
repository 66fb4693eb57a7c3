package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/igdevx/image-service/pkg/imageasset"
)

// Backend is a filesystem implementation of the imageasset.BlobStore
// interface, intended for local development.
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // URL prefix used for public URL synthesis
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	urlPrefix := config.URLPrefix
	if urlPrefix == "" {
		urlPrefix = "file://" + config.BaseDir
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Upload stores content at key, overwriting any existing file
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	filePath := filepath.Join(b.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Download returns a reader over the stored file
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	filePath := filepath.Join(b.baseDir, filepath.FromSlash(key))

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, imageasset.ErrObjectNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes the file at key. Missing files are not an error.
func (b *Backend) Delete(ctx context.Context, key string) error {
	filePath := filepath.Join(b.baseDir, filepath.FromSlash(key))

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// DeletePrefix removes every file whose key starts with prefix. Files removed
// before a failure stay removed.
func (b *Backend) DeletePrefix(ctx context.Context, prefix string) error {
	root := filepath.Join(b.baseDir, filepath.FromSlash(prefix))

	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	var deleteErrs []error
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			deleteErrs = append(deleteErrs, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := os.Remove(path); err != nil {
			deleteErrs = append(deleteErrs, fmt.Errorf("failed to delete %s: %w", path, err))
		}
		return nil
	})
	if err != nil {
		deleteErrs = append(deleteErrs, err)
	}

	// Prune empty directories left behind; best effort.
	_ = os.Remove(root)

	if len(deleteErrs) > 0 {
		return errors.Join(deleteErrs...)
	}

	return nil
}

// PublicURL synthesizes an address for key without touching the filesystem
func (b *Backend) PublicURL(key string) string {
	return b.urlPrefix + "/" + key
}
