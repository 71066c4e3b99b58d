package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/almaghboub/FixerUpper/internal/domain"
)

var ErrNotFound = errors.New("image not found")

// Orders and customers belong to the wider order-management schema; they are
// only created here so a fresh database can serve the gallery join.
const createSchema = `
CREATE TABLE IF NOT EXISTS customers (
	id         UUID PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS orders (
	id           UUID PRIMARY KEY,
	order_number TEXT NOT NULL UNIQUE,
	customer_id  UUID REFERENCES customers(id)
);

CREATE TABLE IF NOT EXISTS order_images (
	id           UUID PRIMARY KEY,
	url          TEXT NOT NULL,
	object_key   TEXT NOT NULL UNIQUE,
	alt_text     TEXT,
	order_id     UUID REFERENCES orders(id) ON DELETE SET NULL,
	content_type TEXT NOT NULL,
	size_bytes   BIGINT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS order_images_created_at_idx ON order_images (created_at DESC);
`

// NewImage is what the upload path persists for a freshly stored object.
type NewImage struct {
	ID          string
	URL         string
	ObjectKey   string
	AltText     *string
	OrderID     *string
	ContentType string
	SizeBytes   int64
}

type ImageRepository interface {
	CreateImage(ctx context.Context, img NewImage) (time.Time, error)
	ListImages(ctx context.Context, limit, offset int) ([]domain.ImageRecord, int, error)
	DeleteImage(ctx context.Context, id string) (objectKey string, err error)
}

type pgImageRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewPostgresPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("error parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return pool, nil
}

func NewImageRepository(ctx context.Context, db *pgxpool.Pool, autoCreate bool, log *zap.Logger) (ImageRepository, error) {
	if autoCreate {
		if _, err := db.Exec(ctx, createSchema); err != nil {
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
		log.Info("Image schema ensured")
	}
	return &pgImageRepository{db: db, log: log}, nil
}

func (r *pgImageRepository) CreateImage(ctx context.Context, img NewImage) (time.Time, error) {
	query := `
		INSERT INTO order_images (id, url, object_key, alt_text, order_id, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	var createdAt time.Time
	err := r.db.QueryRow(ctx, query,
		img.ID, img.URL, img.ObjectKey, img.AltText, img.OrderID, img.ContentType, img.SizeBytes,
	).Scan(&createdAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("insert image %s: %w", img.ID, err)
	}
	return createdAt, nil
}

func (r *pgImageRepository) ListImages(ctx context.Context, limit, offset int) ([]domain.ImageRecord, int, error) {
	query := `
		SELECT i.id::text, i.url, i.alt_text, i.order_id::text,
		       o.order_number, c.first_name, c.last_name, i.created_at
		FROM order_images i
		LEFT JOIN orders o ON o.id = i.order_id
		LEFT JOIN customers c ON c.id = o.customer_id
		ORDER BY i.created_at DESC, i.id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query images: %w", err)
	}
	defer rows.Close()

	images := make([]domain.ImageRecord, 0, limit)
	for rows.Next() {
		var (
			img                  domain.ImageRecord
			orderID, orderNumber *string
			firstName, lastName  *string
		)
		if err := rows.Scan(&img.ID, &img.URL, &img.AltText, &orderID,
			&orderNumber, &firstName, &lastName, &img.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan image: %w", err)
		}
		if orderID != nil {
			img.OrderID = *orderID
		}
		if orderNumber != nil {
			img.Order = &domain.OrderRef{OrderNumber: *orderNumber}
		}
		if firstName != nil {
			img.Customer = &domain.CustomerRef{FirstName: *firstName}
			if lastName != nil {
				img.Customer.LastName = *lastName
			}
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate images: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM order_images").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count images: %w", err)
	}

	return images, total, nil
}

func (r *pgImageRepository) DeleteImage(ctx context.Context, id string) (string, error) {
	var objectKey string
	err := r.db.QueryRow(ctx,
		"DELETE FROM order_images WHERE id::text = $1 RETURNING object_key", id,
	).Scan(&objectKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete image %s: %w", id, err)
	}

	r.log.Info("Image record deleted", zap.String("id", id))
	return objectKey, nil
}
