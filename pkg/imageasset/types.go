package imageasset

import (
	"time"

	"github.com/google/uuid"
)

// ImageKind classifies what an image is attached to.
type ImageKind string

// Image kind constants (typed).
const (
	KindUserProfile ImageKind = "USER_PROFILE"
	KindUserBanner  ImageKind = "USER_BANNER"
	KindProduct     ImageKind = "PRODUCT"
)

// Valid reports whether k is one of the known image kinds.
func (k ImageKind) Valid() bool {
	switch k {
	case KindUserProfile, KindUserBanner, KindProduct:
		return true
	}
	return false
}

// MaxImageSizeBytes is the inclusive upload size ceiling (10 MiB).
const MaxImageSizeBytes = 10 << 20

// Image is the metadata record for a stored image.
//
// Records are never physically removed by normal operation: a delete sets
// DeletedAt, and tombstoned records are excluded from every lookup and
// listing. All fields other than DeletedAt are immutable after creation.
type Image struct {
	ID          uuid.UUID  `json:"id"`
	Kind        ImageKind  `json:"kind"`
	OwnerID     string     `json:"owner_id"`
	ProductID   string     `json:"product_id,omitempty"`
	StorageKey  string     `json:"storage_key"`
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// UploadResult is returned by a successful upload.
type UploadResult struct {
	ImageID    uuid.UUID `json:"image_id"`
	StorageKey string    `json:"storage_key"`
	URL        string    `json:"url"`
	SizeBytes  int64     `json:"size_bytes"`
}
