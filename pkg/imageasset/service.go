package imageasset

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Service is the image lifecycle manager. It owns validation, the
// deterministic key policy, and the cross-store ordering between the blob
// store and the metadata repository.
type Service interface {
	// UploadImage validates the upload, writes the blob, then persists the
	// metadata record. A blob-write failure leaves the metadata untouched;
	// a metadata failure after a successful blob write leaves the blob in
	// place (accepted orphan).
	UploadImage(ctx context.Context, req UploadImageRequest) (*UploadResult, error)

	// GetImage returns the live record for id.
	GetImage(ctx context.Context, id uuid.UUID) (*Image, error)

	// GetImageByOwnerAndKind returns the live slot record for an owner.
	GetImageByOwnerAndKind(ctx context.Context, ownerID string, kind ImageKind) (*Image, error)

	// GetImageByProduct returns the live record for a product.
	GetImageByProduct(ctx context.Context, productID string) (*Image, error)

	// ListImages returns every live record.
	ListImages(ctx context.Context) ([]*Image, error)

	// ListImagesByOwner returns every live record for an owner.
	ListImagesByOwner(ctx context.Context, ownerID string) ([]*Image, error)

	// DownloadImage resolves the live record and streams its bytes.
	DownloadImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Image, error)

	// DeleteImage soft-deletes the record first, then attempts physical
	// blob removal. The committed soft delete stands even when the blob
	// removal fails.
	DeleteImage(ctx context.Context, id uuid.UUID) error

	// DeleteImageByProduct is DeleteImage resolved via product ID. Deleting
	// an absent product image is a silent no-op.
	DeleteImageByProduct(ctx context.Context, productID string) error

	// DeleteOwnerImages batch soft-deletes every live record for an owner,
	// then issues prefix deletions for the owner's user and product
	// prefixes.
	DeleteOwnerImages(ctx context.Context, ownerID string) error

	// PublicURL synthesizes the public address for an image. URLs are never
	// stored, always derived.
	PublicURL(image *Image) string
}

// UploadImageRequest contains parameters for uploading an image.
type UploadImageRequest struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	SizeBytes   int64
	Kind        ImageKind
	OwnerID     string
	ProductID   string // required when Kind is KindProduct
}

// Validate checks the request before any store is touched.
func (r UploadImageRequest) Validate() error {
	if r.SizeBytes <= 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidImage)
	}
	if r.ContentType == "" || !strings.HasPrefix(r.ContentType, "image/") {
		return fmt.Errorf("%w: file must be an image, got content type %q", ErrInvalidImage, r.ContentType)
	}
	if r.SizeBytes > MaxImageSizeBytes {
		return fmt.Errorf("%w: file size %d exceeds %d bytes", ErrInvalidImage, r.SizeBytes, int64(MaxImageSizeBytes))
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: unknown image kind %q", ErrInvalidImage, r.Kind)
	}
	if r.OwnerID == "" {
		return fmt.Errorf("%w: owner id is required", ErrInvalidImage)
	}
	if r.Kind == KindProduct && r.ProductID == "" {
		return fmt.Errorf("%w: product id is required for product images", ErrInvalidImage)
	}
	return nil
}
