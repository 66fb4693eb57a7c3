package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/igdevx/image-service/pkg/imageasset"
	memoryrepo "github.com/igdevx/image-service/pkg/imageasset/repo/memory"
	pgrepo "github.com/igdevx/image-service/pkg/imageasset/repo/postgres"
	fsstorage "github.com/igdevx/image-service/pkg/imageasset/storage/fs"
	memorystorage "github.com/igdevx/image-service/pkg/imageasset/storage/memory"
	miniostorage "github.com/igdevx/image-service/pkg/imageasset/storage/minio"
	s3storage "github.com/igdevx/image-service/pkg/imageasset/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// ServerConfig represents server configuration for the image service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// DatabaseURL is a Postgres connection string. Empty selects the
	// in-memory repository.
	DatabaseURL string

	// StorageBackend selects the blob store: "memory", "fs", "s3", "minio".
	StorageBackend string

	FS    fsstorage.Config
	S3    s3storage.Config
	Minio miniostorage.Config
}

// envConfig is the cleanenv mapping for environment overrides
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL string `env:"DATABASE_URL"`

	StorageBackend   string `env:"STORAGE_BACKEND" env-default:"memory"`
	PublicBaseURL    string `env:"PUBLIC_BASE_URL"`
	CreateBucket     bool   `env:"STORAGE_CREATE_BUCKET" env-default:"true"`
	PublicReadPolicy bool   `env:"STORAGE_PUBLIC_READ_POLICY" env-default:"true"`

	FSBaseDir   string `env:"FS_BASE_DIR" env-default:"./data/images"`
	FSURLPrefix string `env:"FS_URL_PREFIX"`

	S3Region          string `env:"S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"S3_BUCKET" env-default:"images"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"true"`

	MinioEndpoint        string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID" env-default:"minioadmin"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL" env-default:"false"`
	MinioBucket          string `env:"MINIO_BUCKET" env-default:"images"`
}

// Load constructs a ServerConfig by applying the supplied options on top of defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:           "8080",
		Environment:    "development",
		StorageBackend: "memory",
	}
}

// WithEnv reads environment variable overrides via cleanenv.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		c.Port = env.Port
		c.Environment = env.Environment
		c.DatabaseURL = env.DatabaseURL
		c.StorageBackend = env.StorageBackend

		c.FS = fsstorage.Config{
			BaseDir:   env.FSBaseDir,
			URLPrefix: env.FSURLPrefix,
		}
		c.S3 = s3storage.Config{
			Region:                 env.S3Region,
			Bucket:                 env.S3Bucket,
			AccessKeyID:            env.S3AccessKeyID,
			SecretAccessKey:        env.S3SecretAccessKey,
			Endpoint:               env.S3Endpoint,
			UsePathStyle:           env.S3UsePathStyle,
			PublicBaseURL:          env.PublicBaseURL,
			CreateBucketIfNotExist: env.CreateBucket,
			SetPublicReadPolicy:    env.PublicReadPolicy,
		}
		c.Minio = miniostorage.Config{
			Endpoint:               env.MinioEndpoint,
			AccessKeyID:            env.MinioAccessKeyID,
			SecretAccessKey:        env.MinioSecretAccessKey,
			UseSSL:                 env.MinioUseSSL,
			Bucket:                 env.MinioBucket,
			PublicBaseURL:          env.PublicBaseURL,
			CreateBucketIfNotExist: env.CreateBucket,
			SetPublicReadPolicy:    env.PublicReadPolicy,
		}

		return nil
	}
}

// WithPort overrides the listen port.
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		c.Port = port
		return nil
	}
}

// WithDatabaseURL overrides the metadata store connection string.
func WithDatabaseURL(url string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseURL = url
		return nil
	}
}

// WithStorageBackend overrides the blob store selection.
func WithStorageBackend(backend string) Option {
	return func(c *ServerConfig) error {
		c.StorageBackend = backend
		return nil
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.StorageBackend {
	case "memory", "fs", "s3", "minio":
	default:
		return fmt.Errorf("unknown storage backend %q (use memory, fs, s3 or minio)", c.StorageBackend)
	}

	return nil
}

// BuildRepository creates the metadata repository selected by the configuration
func (c *ServerConfig) BuildRepository(ctx context.Context) (imageasset.Repository, error) {
	if c.DatabaseURL == "" {
		return memoryrepo.New(), nil
	}

	pool, err := pgxpool.New(ctx, c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pgrepo.NewWithPool(pool), nil
}

// BuildBlobStore creates the blob store selected by the configuration
func (c *ServerConfig) BuildBlobStore() (imageasset.BlobStore, error) {
	switch c.StorageBackend {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(c.FS)
	case "s3":
		return s3storage.New(c.S3)
	case "minio":
		return miniostorage.New(c.Minio)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (imageasset.Service, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, err
	}

	store, err := c.BuildBlobStore()
	if err != nil {
		return nil, err
	}

	return imageasset.New(
		imageasset.WithRepository(repo),
		imageasset.WithBlobStore(store),
		imageasset.WithLogger(logger),
	)
}
