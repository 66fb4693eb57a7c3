package imageasset_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/igdevx/image-service/pkg/imageasset"
)

func TestImageErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	id := uuid.New()

	err := &imageasset.ImageError{
		ImageID: id,
		Op:      "create",
		Err:     fmt.Errorf("%w: %w", imageasset.ErrMetadataWrite, cause),
	}

	assert.ErrorIs(t, err, imageasset.ErrMetadataWrite)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create")
	assert.Contains(t, err.Error(), id.String())
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("bucket unreachable")

	err := &imageasset.StorageError{
		Key: "users/u1/profile.jpg",
		Op:  "upload",
		Err: fmt.Errorf("%w: %w", imageasset.ErrStorageWrite, cause),
	}

	assert.ErrorIs(t, err, imageasset.ErrStorageWrite)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "users/u1/profile.jpg")
}
