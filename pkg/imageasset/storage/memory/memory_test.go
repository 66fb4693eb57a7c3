package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igdevx/image-service/pkg/imageasset"
)

func TestUploadAndDownload(t *testing.T) {
	backend := New()
	ctx := context.Background()

	err := backend.Upload(ctx, "users/u1/profile.jpg", strings.NewReader("bytes"), "image/jpeg")
	require.NoError(t, err)

	reader, err := backend.Download(ctx, "users/u1/profile.jpg")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))

	ct, ok := backend.ContentType("users/u1/profile.jpg")
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)
}

func TestUploadOverwrites(t *testing.T) {
	backend := New()
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "k", strings.NewReader("one"), "image/png"))
	require.NoError(t, backend.Upload(ctx, "k", strings.NewReader("two"), "image/png"))

	reader, err := backend.Download(ctx, "k")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
	assert.Equal(t, 1, backend.Len())
}

func TestDownloadMissingKey(t *testing.T) {
	backend := New()

	_, err := backend.Download(context.Background(), "nope")
	assert.ErrorIs(t, err, imageasset.ErrObjectNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	backend := New()
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "k", strings.NewReader("data"), "image/png"))
	require.NoError(t, backend.Delete(ctx, "k"))
	require.NoError(t, backend.Delete(ctx, "k"))
	assert.Equal(t, 0, backend.Len())
}

func TestDeletePrefix(t *testing.T) {
	backend := New()
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

	_, err := backend.Download(ctx, "users/u1/profile.jpg")
	assert.ErrorIs(t, err, imageasset.ErrObjectNotFound)
	_, err = backend.Download(ctx, "users/u1/banner.png")
	assert.ErrorIs(t, err, imageasset.ErrObjectNotFound)

	// Other prefixes survive.
	_, err = backend.Download(ctx, "users/u2/profile.jpg")
	assert.NoError(t, err)
	_, err = backend.Download(ctx, "products/u1/tomato.png")
	assert.NoError(t, err)
}

func TestPublicURL(t *testing.T) {
	backend := New()

	url := backend.PublicURL("users/u1/profile.jpg")
	assert.Contains(t, url, "users/u1/profile.jpg")
}
