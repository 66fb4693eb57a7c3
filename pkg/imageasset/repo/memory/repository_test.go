package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igdevx/image-service/pkg/imageasset"
)

func newImage(owner string, kind imageasset.ImageKind, productID string) *imageasset.Image {
	return &imageasset.Image{
		ID:          uuid.New(),
		Kind:        kind,
		OwnerID:     owner,
		ProductID:   productID,
		StorageKey:  imageasset.StorageKeyFor(kind, owner, "img.jpg"),
		FileName:    "img.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   128,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestCreateAndGetImage(t *testing.T) {
	repo := New()
	ctx := context.Background()

	image := newImage("u1", imageasset.KindUserProfile, "")
	require.NoError(t, repo.CreateImage(ctx, image))

	got, err := repo.GetImage(ctx, image.ID)
	require.NoError(t, err)
	assert.Equal(t, image.ID, got.ID)
	assert.Equal(t, image.StorageKey, got.StorageKey)

	// The repository stores a copy.
	got.FileName = "mutated.jpg"
	again, err := repo.GetImage(ctx, image.ID)
	require.NoError(t, err)
	assert.Equal(t, "img.jpg", again.FileName)
}

func TestLiveSlotUniqueness(t *testing.T) {
	repo := New()
	ctx := context.Background()

	require.NoError(t, repo.CreateImage(ctx, newImage("u1", imageasset.KindUserProfile, "")))

	// A second live profile for the same owner violates the slot rule.
	err := repo.CreateImage(ctx, newImage("u1", imageasset.KindUserProfile, ""))
	assert.Error(t, err)

	// A different kind or a product image is fine.
	assert.NoError(t, repo.CreateImage(ctx, newImage("u1", imageasset.KindUserBanner, "")))
	assert.NoError(t, repo.CreateImage(ctx, newImage("u1", imageasset.KindProduct, "prod1")))
	assert.NoError(t, repo.CreateImage(ctx, newImage("u1", imageasset.KindProduct, "prod2")))
}

func TestTombstonesAreInvisible(t *testing.T) {
	repo := New()
	ctx := context.Background()

	image := newImage("u1", imageasset.KindUserBanner, "")
	require.NoError(t, repo.CreateImage(ctx, image))
	require.NoError(t, repo.SoftDeleteImage(ctx, image.ID, time.Now().UTC()))

	_, err := repo.GetImage(ctx, image.ID)
	assert.ErrorIs(t, err, imageasset.ErrImageNotFound)

	_, err = repo.GetImageByOwnerAndKind(ctx, "u1", imageasset.KindUserBanner)
	assert.ErrorIs(t, err, imageasset.ErrImageNotFound)

	images, err := repo.ListImagesByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, images)

	// Tombstoning twice reports not found.
	assert.ErrorIs(t, repo.SoftDeleteImage(ctx, image.ID, time.Now().UTC()), imageasset.ErrImageNotFound)

	// The record itself is retained.
	all, err := repo.ListAllImages(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotNil(t, all[0].DeletedAt)
}

func TestGetImageByProduct(t *testing.T) {
	repo := New()
	ctx := context.Background()

	image := newImage("u1", imageasset.KindProduct, "prod1")
	require.NoError(t, repo.CreateImage(ctx, image))

	got, err := repo.GetImageByProduct(ctx, "prod1")
	require.NoError(t, err)
	assert.Equal(t, image.ID, got.ID)

	_, err = repo.GetImageByProduct(ctx, "prod2")
	assert.ErrorIs(t, err, imageasset.ErrImageNotFound)
}

func TestSoftDeleteImagesByOwner(t *testing.T) {
	repo := New()
	ctx := context.Background()

	require.NoError(t, repo.CreateImage(ctx, newImage("u1", imageasset.KindUserProfile, "")))
	require.NoError(t, repo.CreateImage(ctx, newImage("u1", imageasset.KindUserBanner, "")))
	require.NoError(t, repo.CreateImage(ctx, newImage("u1", imageasset.KindProduct, "prod1")))
	require.NoError(t, repo.CreateImage(ctx, newImage("u2", imageasset.KindUserProfile, "")))

	require.NoError(t, repo.SoftDeleteImagesByOwner(ctx, "u1", time.Now().UTC()))

	images, err := repo.ListImagesByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, images)

	images, err = repo.ListImagesByOwner(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, images, 1)

	// Batch delete of an owner with nothing live is not an error.
	assert.NoError(t, repo.SoftDeleteImagesByOwner(ctx, "nobody", time.Now().UTC()))
}

func TestListImagesOrdering(t *testing.T) {
	repo := New()
	ctx := context.Background()

	older := newImage("u1", imageasset.KindUserProfile, "")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newImage("u2", imageasset.KindUserProfile, "")

	require.NoError(t, repo.CreateImage(ctx, older))
	require.NoError(t, repo.CreateImage(ctx, newer))

	images, err := repo.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, newer.ID, images[0].ID)
	assert.Equal(t, older.ID, images[1].ID)
}

func TestHardDeleteImage(t *testing.T) {
	repo := New()
	ctx := context.Background()

	image := newImage("u1", imageasset.KindUserProfile, "")
	require.NoError(t, repo.CreateImage(ctx, image))
	require.NoError(t, repo.HardDeleteImage(ctx, image.ID))

	all, err := repo.ListAllImages(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, repo.HardDeleteImage(ctx, image.ID), imageasset.ErrImageNotFound)
}
