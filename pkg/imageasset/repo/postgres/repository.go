package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/igdevx/image-service/pkg/imageasset"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements imageasset.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const imageColumns = `id, kind, owner_id, product_id, storage_key, file_name, content_type, size_bytes, created_at, deleted_at`

// handlePostgresError translates driver errors into something callers can act on
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation: the live-slot index lost a concurrent-upload race
			return fmt.Errorf("duplicate live image slot: %s", pgErr.ConstraintName)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("images table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateImage(ctx context.Context, image *imageasset.Image) error {
	query := `
		INSERT INTO images (
			id, kind, owner_id, product_id, storage_key,
			file_name, content_type, size_bytes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var productID *string
	if image.ProductID != "" {
		productID = &image.ProductID
	}

	_, err := r.db.Exec(ctx, query,
		image.ID, image.Kind, image.OwnerID, productID, image.StorageKey,
		image.FileName, image.ContentType, image.SizeBytes, image.CreatedAt)

	if err != nil {
		return handlePostgresError("create image", err)
	}

	return nil
}

func (r *Repository) GetImage(ctx context.Context, id uuid.UUID) (*imageasset.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1 AND deleted_at IS NULL`

	image, err := scanImage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, imageasset.ErrImageNotFound
		}
		return nil, handlePostgresError("get image", err)
	}

	return image, nil
}

func (r *Repository) GetImageByOwnerAndKind(ctx context.Context, ownerID string, kind imageasset.ImageKind) (*imageasset.Image, error) {
	query := `
		SELECT ` + imageColumns + `
		FROM images
		WHERE owner_id = $1 AND kind = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`

	image, err := scanImage(r.db.QueryRow(ctx, query, ownerID, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, imageasset.ErrImageNotFound
		}
		return nil, handlePostgresError("get image by owner and kind", err)
	}

	return image, nil
}

func (r *Repository) GetImageByProduct(ctx context.Context, productID string) (*imageasset.Image, error) {
	query := `
		SELECT ` + imageColumns + `
		FROM images
		WHERE product_id = $1 AND kind = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`

	image, err := scanImage(r.db.QueryRow(ctx, query, productID, imageasset.KindProduct))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, imageasset.ErrImageNotFound
		}
		return nil, handlePostgresError("get image by product", err)
	}

	return image, nil
}

func (r *Repository) ListImages(ctx context.Context) ([]*imageasset.Image, error) {
	query := `
		SELECT ` + imageColumns + `
		FROM images
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, handlePostgresError("list images", err)
	}
	defer rows.Close()

	return collectImages(rows)
}

func (r *Repository) ListImagesByOwner(ctx context.Context, ownerID string) ([]*imageasset.Image, error) {
	query := `
		SELECT ` + imageColumns + `
		FROM images
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, handlePostgresError("list images by owner", err)
	}
	defer rows.Close()

	return collectImages(rows)
}

func (r *Repository) SoftDeleteImage(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE images SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return handlePostgresError("soft delete image", err)
	}
	if tag.RowsAffected() == 0 {
		return imageasset.ErrImageNotFound
	}

	return nil
}

func (r *Repository) SoftDeleteImagesByOwner(ctx context.Context, ownerID string, at time.Time) error {
	// Single statement, so the batch is atomic: either every live record for
	// the owner is tombstoned or none is.
	query := `UPDATE images SET deleted_at = $2 WHERE owner_id = $1 AND deleted_at IS NULL`

	_, err := r.db.Exec(ctx, query, ownerID, at)
	if err != nil {
		return handlePostgresError("soft delete images by owner", err)
	}

	return nil
}

func (r *Repository) ListAllImages(ctx context.Context) ([]*imageasset.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, handlePostgresError("list all images", err)
	}
	defer rows.Close()

	return collectImages(rows)
}

func (r *Repository) HardDeleteImage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("hard delete image", err)
	}
	if tag.RowsAffected() == 0 {
		return imageasset.ErrImageNotFound
	}

	return nil
}

func scanImage(row pgx.Row) (*imageasset.Image, error) {
	var image imageasset.Image
	var productID *string

	err := row.Scan(
		&image.ID, &image.Kind, &image.OwnerID, &productID, &image.StorageKey,
		&image.FileName, &image.ContentType, &image.SizeBytes, &image.CreatedAt, &image.DeletedAt)
	if err != nil {
		return nil, err
	}

	if productID != nil {
		image.ProductID = *productID
	}

	return &image, nil
}

func collectImages(rows pgx.Rows) ([]*imageasset.Image, error) {
	images := make([]*imageasset.Image, 0)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return images, nil
}
