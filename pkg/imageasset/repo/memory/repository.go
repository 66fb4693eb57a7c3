package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/igdevx/image-service/pkg/imageasset"
)

// Repository implements imageasset.Repository using in-memory storage
type Repository struct {
	mu     sync.RWMutex
	images map[uuid.UUID]*imageasset.Image
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		images: make(map[uuid.UUID]*imageasset.Image),
	}
}

func (r *Repository) CreateImage(ctx context.Context, image *imageasset.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirror the Postgres partial unique index: at most one live record per
	// (owner, kind) slot for profile and banner images.
	if image.Kind != imageasset.KindProduct {
		for _, existing := range r.images {
			if existing.DeletedAt == nil && existing.OwnerID == image.OwnerID && existing.Kind == image.Kind {
				return fmt.Errorf("live image already exists for owner %s kind %s", image.OwnerID, image.Kind)
			}
		}
	}

	// Store a copy to avoid external modifications
	imageCopy := *image
	r.images[image.ID] = &imageCopy

	return nil
}

func (r *Repository) GetImage(ctx context.Context, id uuid.UUID) (*imageasset.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	image, exists := r.images[id]
	if !exists || image.DeletedAt != nil {
		return nil, imageasset.ErrImageNotFound
	}

	imageCopy := *image
	return &imageCopy, nil
}

func (r *Repository) GetImageByOwnerAndKind(ctx context.Context, ownerID string, kind imageasset.ImageKind) (*imageasset.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *imageasset.Image
	for _, image := range r.images {
		if image.DeletedAt != nil || image.OwnerID != ownerID || image.Kind != kind {
			continue
		}
		if found == nil || image.CreatedAt.After(found.CreatedAt) {
			found = image
		}
	}
	if found == nil {
		return nil, imageasset.ErrImageNotFound
	}

	imageCopy := *found
	return &imageCopy, nil
}

func (r *Repository) GetImageByProduct(ctx context.Context, productID string) (*imageasset.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *imageasset.Image
	for _, image := range r.images {
		if image.DeletedAt != nil || image.ProductID != productID || image.Kind != imageasset.KindProduct {
			continue
		}
		if found == nil || image.CreatedAt.After(found.CreatedAt) {
			found = image
		}
	}
	if found == nil {
		return nil, imageasset.ErrImageNotFound
	}

	imageCopy := *found
	return &imageCopy, nil
}

func (r *Repository) ListImages(ctx context.Context) ([]*imageasset.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*imageasset.Image, 0)
	for _, image := range r.images {
		if image.DeletedAt == nil {
			imageCopy := *image
			result = append(result, &imageCopy)
		}
	}

	sortByCreatedAtDesc(result)
	return result, nil
}

func (r *Repository) ListImagesByOwner(ctx context.Context, ownerID string) ([]*imageasset.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*imageasset.Image, 0)
	for _, image := range r.images {
		if image.DeletedAt == nil && image.OwnerID == ownerID {
			imageCopy := *image
			result = append(result, &imageCopy)
		}
	}

	sortByCreatedAtDesc(result)
	return result, nil
}

func (r *Repository) SoftDeleteImage(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	image, exists := r.images[id]
	if !exists || image.DeletedAt != nil {
		return imageasset.ErrImageNotFound
	}

	deletedAt := at
	image.DeletedAt = &deletedAt
	return nil
}

func (r *Repository) SoftDeleteImagesByOwner(ctx context.Context, ownerID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, image := range r.images {
		if image.DeletedAt == nil && image.OwnerID == ownerID {
			deletedAt := at
			image.DeletedAt = &deletedAt
		}
	}
	return nil
}

func (r *Repository) ListAllImages(ctx context.Context) ([]*imageasset.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*imageasset.Image, 0, len(r.images))
	for _, image := range r.images {
		imageCopy := *image
		result = append(result, &imageCopy)
	}

	sortByCreatedAtDesc(result)
	return result, nil
}

func (r *Repository) HardDeleteImage(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.images[id]; !exists {
		return imageasset.ErrImageNotFound
	}

	delete(r.images, id)
	return nil
}

func sortByCreatedAtDesc(images []*imageasset.Image) {
	sort.Slice(images, func(i, j int) bool {
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})
}
