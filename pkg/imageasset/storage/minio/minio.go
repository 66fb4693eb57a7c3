package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/igdevx/image-service/pkg/imageasset"
)

// Config options for the MinIO backend
type Config struct {
	Endpoint        string // host:port of the MinIO server
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string

	// PublicBaseURL overrides the synthesized URL root. When empty, URLs are
	// built from the client endpoint and bucket.
	PublicBaseURL string

	// Bootstrap options, applied once at construction.
	CreateBucketIfNotExist bool
	SetPublicReadPolicy    bool
}

// Backend implements imageasset.BlobStore for MinIO.
type Backend struct {
	client *minio.Client
	bucket string
	config Config
}

// New creates a new MinIO storage backend
func New(config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	backend := &Backend{
		client: client,
		bucket: config.Bucket,
		config: config,
	}

	if config.CreateBucketIfNotExist {
		if err := backend.ensureBucketExists(context.Background()); err != nil {
			return nil, err
		}
	}
	if config.SetPublicReadPolicy {
		if err := backend.applyPublicReadPolicy(context.Background()); err != nil {
			return nil, err
		}
	}

	return backend, nil
}

// ensureBucketExists creates the bucket when it is missing
func (b *Backend) ensureBucketExists(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// applyPublicReadPolicy grants anonymous GetObject on the bucket so that
// synthesized public URLs resolve without signing.
func (b *Backend) applyPublicReadPolicy(ctx context.Context) error {
	policy := fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"AWS": ["*"]},
      "Action": ["s3:GetObject"],
      "Resource": ["arn:aws:s3:::%s/*"]
    }
  ]
}`, b.bucket)

	if err := b.client.SetBucketPolicy(ctx, b.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return nil
}

// Upload stores content at key, overwriting any existing object
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, reader, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return nil
}

// Download returns a readable stream for key
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download from MinIO: %w", err)
	}

	// GetObject is lazy; Stat forces the first round trip so that a missing
	// key is reported here instead of on first read.
	if _, err := object.Stat(); err != nil {
		_ = object.Close()
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, imageasset.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to download from MinIO: %w", err)
	}

	return object, nil
}

// Delete removes the object at key. Missing keys are not an error.
func (b *Backend) Delete(ctx context.Context, key string) error {
	err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil // Already gone
		}
		return fmt.Errorf("failed to delete from MinIO: %w", err)
	}

	return nil
}

// DeletePrefix enumerates all keys under prefix and deletes each. Deletions
// that succeed before a failure stay applied.
func (b *Backend) DeletePrefix(ctx context.Context, prefix string) error {
	var deleteErrs []error
	for object := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			deleteErrs = append(deleteErrs, fmt.Errorf("failed to list prefix %s: %w", prefix, object.Err))
			continue
		}

		if err := b.client.RemoveObject(ctx, b.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			deleteErrs = append(deleteErrs, fmt.Errorf("failed to delete %s: %w", object.Key, err))
		}
	}

	if len(deleteErrs) > 0 {
		return errors.Join(deleteErrs...)
	}

	return nil
}

// PublicURL synthesizes an externally reachable address for key. No store
// call is made.
func (b *Backend) PublicURL(key string) string {
	if b.config.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(b.config.PublicBaseURL, "/"), key)
	}
	return fmt.Sprintf("%s/%s/%s", b.client.EndpointURL(), b.bucket, key)
}
