package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadWithOptions(t *testing.T) {
	cfg, err := Load(
		WithPort("9090"),
		WithStorageBackend("fs"),
		WithDatabaseURL("postgres://localhost/images"),
	)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "fs", cfg.StorageBackend)
	assert.Equal(t, "postgres://localhost/images", cfg.DatabaseURL)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_, err := Load(WithStorageBackend("tape"))
	assert.Error(t, err)
}

func TestLoadRejectsEmptyPort(t *testing.T) {
	_, err := Load(WithPort(""))
	assert.Error(t, err)
}

func TestWithEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("ENVIRONMENT", "testing")
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("MINIO_ENDPOINT", "minio.internal:9000")
	t.Setenv("MINIO_BUCKET", "assets")
	t.Setenv("PUBLIC_BASE_URL", "https://cdn.example.com")

	cfg, err := Load(WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "testing", cfg.Environment)
	assert.Equal(t, "minio", cfg.StorageBackend)
	assert.Equal(t, "minio.internal:9000", cfg.Minio.Endpoint)
	assert.Equal(t, "assets", cfg.Minio.Bucket)
	assert.Equal(t, "https://cdn.example.com", cfg.Minio.PublicBaseURL)
}

func TestBuildBlobStoreMemory(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	store, err := cfg.BuildBlobStore()
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestBuildBlobStoreFS(t *testing.T) {
	cfg, err := Load(WithStorageBackend("fs"))
	require.NoError(t, err)
	cfg.FS.BaseDir = t.TempDir()

	store, err := cfg.BuildBlobStore()
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestBuildRepositoryDefaultsToMemory(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	repo, err := cfg.BuildRepository(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, repo)
}

func TestBuildService(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	svc, err := cfg.BuildService(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
