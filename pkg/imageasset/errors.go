package imageasset

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrInvalidImage indicates the upload failed validation before any
	// store was touched (empty file, non-image content type, oversized).
	ErrInvalidImage = errors.New("invalid image upload")

	// ErrImageNotFound indicates no live image record matches the query.
	ErrImageNotFound = errors.New("image not found")

	// ErrObjectNotFound indicates a blob key does not exist in storage.
	ErrObjectNotFound = errors.New("object not found")

	// ErrStorageWrite indicates a blob write failed; no metadata was mutated.
	ErrStorageWrite = errors.New("storage write failed")

	// ErrStorageRead indicates a blob read failed; no metadata was mutated.
	ErrStorageRead = errors.New("storage read failed")

	// ErrMetadataWrite indicates a metadata write or constraint violation.
	// During upload the blob write has already committed and is not rolled
	// back, leaving an orphaned object.
	ErrMetadataWrite = errors.New("metadata write failed")

	// ErrCascadeDelete indicates a prefix cleanup partially failed after the
	// metadata batch soft-delete already committed.
	ErrCascadeDelete = errors.New("cascade delete failed")
)

// ImageError represents an error related to a single image operation.
type ImageError struct {
	ImageID uuid.UUID
	Op      string
	Err     error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image operation %s failed for image %s: %v", e.Op, e.ImageID, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations.
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
