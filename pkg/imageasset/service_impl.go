package imageasset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithLogger sets the logger used for best-effort cleanup reporting
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) UploadImage(ctx context.Context, req UploadImageRequest) (*UploadResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := StorageKeyFor(req.Kind, req.OwnerID, req.FileName)

	// Blob write commits before any metadata mutation. A failure here
	// aborts the operation with the metadata store untouched.
	if err := s.blobStore.Upload(ctx, key, req.Reader, req.ContentType); err != nil {
		return nil, &StorageError{
			Key: key,
			Op:  "upload",
			Err: fmt.Errorf("%w: %w", ErrStorageWrite, err),
		}
	}

	// Profile and banner slots hold at most one live record per owner. The
	// previous record is tombstoned before the replacement is created; its
	// bytes were already overwritten by the blob write above.
	if req.Kind != KindProduct {
		if err := s.supersedeSlot(ctx, req.OwnerID, req.Kind); err != nil {
			return nil, err
		}
	}

	productID := ""
	if req.Kind == KindProduct {
		productID = req.ProductID
	}

	image := &Image{
		ID:          uuid.New(),
		Kind:        req.Kind,
		OwnerID:     req.OwnerID,
		ProductID:   productID,
		StorageKey:  key,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		CreatedAt:   time.Now().UTC(),
	}

	// The blob write is not rolled back on failure here; the orphaned
	// object is an accepted inconsistency.
	if err := s.repository.CreateImage(ctx, image); err != nil {
		return nil, &ImageError{
			ImageID: image.ID,
			Op:      "create",
			Err:     fmt.Errorf("%w: %w", ErrMetadataWrite, err),
		}
	}

	s.logger.Info("image uploaded", "image_id", image.ID, "owner_id", image.OwnerID, "key", key)

	return &UploadResult{
		ImageID:    image.ID,
		StorageKey: key,
		URL:        s.blobStore.PublicURL(key),
		SizeBytes:  req.SizeBytes,
	}, nil
}

// supersedeSlot tombstones the previous live record for a fixed slot. Under
// concurrent uploads to the same slot the repository's uniqueness rule
// decides the winner; the loser surfaces a metadata write failure.
func (s *service) supersedeSlot(ctx context.Context, ownerID string, kind ImageKind) error {
	prev, err := s.repository.GetImageByOwnerAndKind(ctx, ownerID, kind)
	if errors.Is(err, ErrImageNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMetadataWrite, err)
	}

	if err := s.repository.SoftDeleteImage(ctx, prev.ID, time.Now().UTC()); err != nil {
		return &ImageError{
			ImageID: prev.ID,
			Op:      "supersede",
			Err:     fmt.Errorf("%w: %w", ErrMetadataWrite, err),
		}
	}
	return nil
}

func (s *service) GetImage(ctx context.Context, id uuid.UUID) (*Image, error) {
	return s.repository.GetImage(ctx, id)
}

func (s *service) GetImageByOwnerAndKind(ctx context.Context, ownerID string, kind ImageKind) (*Image, error) {
	return s.repository.GetImageByOwnerAndKind(ctx, ownerID, kind)
}

func (s *service) GetImageByProduct(ctx context.Context, productID string) (*Image, error) {
	return s.repository.GetImageByProduct(ctx, productID)
}

func (s *service) ListImages(ctx context.Context) ([]*Image, error) {
	return s.repository.ListImages(ctx)
}

func (s *service) ListImagesByOwner(ctx context.Context, ownerID string) ([]*Image, error) {
	return s.repository.ListImagesByOwner(ctx, ownerID)
}

func (s *service) DownloadImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Image, error) {
	image, err := s.repository.GetImage(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.blobStore.Download(ctx, image.StorageKey)
	if err != nil {
		return nil, nil, &StorageError{
			Key: image.StorageKey,
			Op:  "download",
			Err: fmt.Errorf("%w: %w", ErrStorageRead, err),
		}
	}

	return reader, image, nil
}

func (s *service) DeleteImage(ctx context.Context, id uuid.UUID) error {
	image, err := s.repository.GetImage(ctx, id)
	if err != nil {
		return err
	}

	return s.deleteResolved(ctx, image)
}

func (s *service) DeleteImageByProduct(ctx context.Context, productID string) error {
	image, err := s.repository.GetImageByProduct(ctx, productID)
	if errors.Is(err, ErrImageNotFound) {
		// Deleting an already-absent product image is not a failure.
		return nil
	}
	if err != nil {
		return err
	}

	return s.deleteResolved(ctx, image)
}

// deleteResolved commits the soft delete before attempting physical blob
// removal. A visible record pointing at missing bytes is worse than an
// invisible record whose bytes linger, so the order is never reversed.
func (s *service) deleteResolved(ctx context.Context, image *Image) error {
	if err := s.repository.SoftDeleteImage(ctx, image.ID, time.Now().UTC()); err != nil {
		return &ImageError{
			ImageID: image.ID,
			Op:      "delete",
			Err:     fmt.Errorf("%w: %w", ErrMetadataWrite, err),
		}
	}

	if err := s.blobStore.Delete(ctx, image.StorageKey); err != nil {
		// The soft delete stands; the blob may linger.
		s.logger.Error("blob removal failed after soft delete",
			"image_id", image.ID, "key", image.StorageKey, "err", err)
		return nil
	}

	s.logger.Info("image deleted", "image_id", image.ID, "key", image.StorageKey)
	return nil
}

func (s *service) DeleteOwnerImages(ctx context.Context, ownerID string) error {
	// All-or-nothing at the metadata layer: if the batch fails, no record
	// is tombstoned and the blobs are left alone.
	if err := s.repository.SoftDeleteImagesByOwner(ctx, ownerID, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: %w", ErrMetadataWrite, err)
	}

	// Both prefixes are attempted regardless of individual failures. The
	// records are already invisible either way.
	var cleanupErrs []error
	for _, prefix := range []string{OwnerUserPrefix(ownerID), OwnerProductPrefix(ownerID)} {
		if err := s.blobStore.DeletePrefix(ctx, prefix); err != nil {
			cleanupErrs = append(cleanupErrs, err)
		}
	}
	if len(cleanupErrs) > 0 {
		return &StorageError{
			Key: OwnerUserPrefix(ownerID),
			Op:  "delete_prefix",
			Err: fmt.Errorf("%w: %w", ErrCascadeDelete, errors.Join(cleanupErrs...)),
		}
	}

	s.logger.Info("all images deleted for owner", "owner_id", ownerID)
	return nil
}

func (s *service) PublicURL(image *Image) string {
	return s.blobStore.PublicURL(image.StorageKey)
}
