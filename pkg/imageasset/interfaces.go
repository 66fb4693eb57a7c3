package imageasset

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore defines the interface for key-addressed byte storage. Keys carry
// no business meaning at this layer.
type BlobStore interface {
	// Upload stores content at key, overwriting any existing content.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Download returns a readable stream for key. Returns ErrObjectNotFound
	// when the key does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at key. Deleting a non-existent key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix enumerates all keys under prefix and deletes each.
	// Best effort: deletions that succeed are applied even when the
	// operation returns an error for the ones that did not.
	DeletePrefix(ctx context.Context, prefix string) error

	// PublicURL synthesizes an externally reachable address for key.
	// Pure string construction; performs no store call.
	PublicURL(key string) string
}

// Repository defines the interface for image metadata persistence. All
// queries except ListAllImages are scoped to live records (DeletedAt null).
type Repository interface {
	CreateImage(ctx context.Context, image *Image) error
	GetImage(ctx context.Context, id uuid.UUID) (*Image, error)
	GetImageByOwnerAndKind(ctx context.Context, ownerID string, kind ImageKind) (*Image, error)
	GetImageByProduct(ctx context.Context, productID string) (*Image, error)
	ListImages(ctx context.Context) ([]*Image, error)
	ListImagesByOwner(ctx context.Context, ownerID string) ([]*Image, error)

	// SoftDeleteImage tombstones a single live record.
	SoftDeleteImage(ctx context.Context, id uuid.UUID, at time.Time) error

	// SoftDeleteImagesByOwner tombstones every live record for an owner as
	// one all-or-nothing batch.
	SoftDeleteImagesByOwner(ctx context.Context, ownerID string, at time.Time) error

	// ListAllImages returns every record including tombstones. Used by the
	// seed tooling, not by the request path.
	ListAllImages(ctx context.Context) ([]*Image, error)

	// HardDeleteImage physically removes a record. Used by the seed tooling
	// only; normal deletes never destroy rows.
	HardDeleteImage(ctx context.Context, id uuid.UUID) error
}
