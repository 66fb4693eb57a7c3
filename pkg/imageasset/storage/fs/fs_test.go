package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igdevx/image-service/pkg/imageasset"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	return backend
}

func TestNewRequiresBaseDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestUploadAndDownload(t *testing.T) {
	backend := newBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "users/u1/profile.jpg", strings.NewReader("bytes"), "image/jpeg"))

	reader, err := backend.Download(ctx, "users/u1/profile.jpg")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))
}

func TestUploadOverwrites(t *testing.T) {
	backend := newBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "k.png", strings.NewReader("one"), "image/png"))
	require.NoError(t, backend.Upload(ctx, "k.png", strings.NewReader("two"), "image/png"))

	reader, err := backend.Download(ctx, "k.png")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestDownloadMissingKey(t *testing.T) {
	backend := newBackend(t)

	_, err := backend.Download(context.Background(), "users/u1/missing.jpg")
	assert.ErrorIs(t, err, imageasset.ErrObjectNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	backend := newBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "users/u1/profile.jpg", strings.NewReader("data"), "image/jpeg"))
	require.NoError(t, backend.Delete(ctx, "users/u1/profile.jpg"))
	require.NoError(t, backend.Delete(ctx, "users/u1/profile.jpg"))
}

func TestDeletePrefix(t *testing.T) {
	dir := t.TempDir()
	backend, err := New(Config{BaseDir: dir})
	require.NoError(t, err)
	ctx := context.Background()

	keys := []string{
		"users/u1/profile.jpg",
		"users/u1/banner.png",
		"users/u2/profile.jpg",
		"products/u1/tomato.png",
	}
	for _, key := range keys {
		require.NoError(t, backend.Upload(ctx, key, strings.NewReader("data"), "image/png"))
	}

	require.NoError(t, backend.DeletePrefix(ctx, "users/u1/"))

	_, err = backend.Download(ctx, "users/u1/profile.jpg")
	assert.ErrorIs(t, err, imageasset.ErrObjectNotFound)
	_, err = backend.Download(ctx, "users/u1/banner.png")
	assert.ErrorIs(t, err, imageasset.ErrObjectNotFound)

	reader, err := backend.Download(ctx, "users/u2/profile.jpg")
	require.NoError(t, err)
	reader.Close()
	reader, err = backend.Download(ctx, "products/u1/tomato.png")
	require.NoError(t, err)
	reader.Close()

	// Emptied prefix directory is pruned.
	_, statErr := os.Stat(filepath.Join(dir, "users", "u1"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeletePrefixMissingIsNoop(t *testing.T) {
	backend := newBackend(t)
	assert.NoError(t, backend.DeletePrefix(context.Background(), "users/nobody/"))
}

func TestPublicURL(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir(), URLPrefix: "http://localhost:8080/files/"})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/files/users/u1/profile.jpg", backend.PublicURL("users/u1/profile.jpg"))
}
