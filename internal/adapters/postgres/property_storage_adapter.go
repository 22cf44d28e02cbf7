// Пакет postgres - альтернативный драйвер хранилища объявлений
// (STORAGE_DRIVER=postgres): та же логическая таблица с ключом id
// и вторичными индексами, что и у файлового драйвера.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS properties (
    id           TEXT PRIMARY KEY,
    country      TEXT NOT NULL,
    city         TEXT NOT NULL DEFAULT '',
    area         TEXT NOT NULL DEFAULT '',
    title        TEXT NOT NULL DEFAULT '',
    description  TEXT NOT NULL DEFAULT '',
    type         TEXT NOT NULL DEFAULT '',
    bedrooms     INT NOT NULL DEFAULT 0,
    bathrooms    DOUBLE PRECISION NOT NULL DEFAULT 0,
    size         INT NOT NULL DEFAULT 0,
    price        BIGINT NOT NULL DEFAULT 0,
    currency     TEXT NOT NULL,
    payment_type TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'Available',
    amenities    TEXT[] NOT NULL DEFAULT '{}',
    images       TEXT[] NOT NULL DEFAULT '{}',
    featured     BOOLEAN NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_properties_country    ON properties (country);
CREATE INDEX IF NOT EXISTS idx_properties_city       ON properties (city);
CREATE INDEX IF NOT EXISTS idx_properties_status     ON properties (status);
CREATE INDEX IF NOT EXISTS idx_properties_featured   ON properties (featured);
CREATE INDEX IF NOT EXISTS idx_properties_price      ON properties (price);
CREATE INDEX IF NOT EXISTS idx_properties_created_at ON properties (created_at);
`

// PostgresPropertyStorageAdapter реализует PropertyStoragePort для PostgreSQL.
type PostgresPropertyStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewPostgresPropertyStorageAdapter создает адаптер и гарантирует схему.
func NewPostgresPropertyStorageAdapter(ctx context.Context, pool *pgxpool.Pool) (*PostgresPropertyStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return nil, fmt.Errorf("%w: ensure schema: %v", domain.ErrStoreUnavailable, err)
	}
	return &PostgresPropertyStorageAdapter{pool: pool}, nil
}

const insertSQL = `
INSERT INTO properties (
    id, country, city, area, title, description, type, bedrooms, bathrooms,
    size, price, currency, payment_type, status, amenities, images, featured,
    created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9,
    $10, $11, $12, $13, $14, $15, $16, $17,
    $18, $19
)`

func (a *PostgresPropertyStorageAdapter) Add(ctx context.Context, p domain.Property) error {
	_, err := a.pool.Exec(ctx, insertSQL, args(p)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// unique_violation - дубликат id
			return fmt.Errorf("%w: id %s already exists", domain.ErrWriteConflict, p.ID)
		}
		return fmt.Errorf("insert property %s: %w", p.ID, err)
	}
	return nil
}

const upsertSQL = insertSQL + `
ON CONFLICT (id) DO UPDATE SET
    country = EXCLUDED.country,
    city = EXCLUDED.city,
    area = EXCLUDED.area,
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    type = EXCLUDED.type,
    bedrooms = EXCLUDED.bedrooms,
    bathrooms = EXCLUDED.bathrooms,
    size = EXCLUDED.size,
    price = EXCLUDED.price,
    currency = EXCLUDED.currency,
    payment_type = EXCLUDED.payment_type,
    status = EXCLUDED.status,
    amenities = EXCLUDED.amenities,
    images = EXCLUDED.images,
    featured = EXCLUDED.featured,
    created_at = EXCLUDED.created_at,
    updated_at = EXCLUDED.updated_at`

func (a *PostgresPropertyStorageAdapter) Put(ctx context.Context, p domain.Property) error {
	if _, err := a.pool.Exec(ctx, upsertSQL, args(p)...); err != nil {
		return fmt.Errorf("upsert property %s: %w", p.ID, err)
	}
	return nil
}

func args(p domain.Property) []interface{} {
	return []interface{}{
		p.ID, p.Country, p.City, p.Area, p.Title, p.Description, p.Type,
		p.Bedrooms, p.Bathrooms, p.Size, p.Price, p.Currency, p.PaymentType,
		p.Status, p.Amenities, p.Images, p.Featured, p.CreatedAt, p.UpdatedAt,
	}
}

const selectColumns = `
    id, country, city, area, title, description, type, bedrooms, bathrooms,
    size, price, currency, payment_type, status, amenities, images, featured,
    created_at, updated_at`

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property
	err := row.Scan(
		&p.ID, &p.Country, &p.City, &p.Area, &p.Title, &p.Description, &p.Type,
		&p.Bedrooms, &p.Bathrooms, &p.Size, &p.Price, &p.Currency, &p.PaymentType,
		&p.Status, &p.Amenities, &p.Images, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *PostgresPropertyStorageAdapter) Get(ctx context.Context, id string) (*domain.Property, error) {
	row := a.pool.QueryRow(ctx, "SELECT"+selectColumns+" FROM properties WHERE id = $1", id)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Отсутствие записи - не ошибка
			return nil, nil
		}
		return nil, fmt.Errorf("select property %s: %w", id, err)
	}
	return p, nil
}

func (a *PostgresPropertyStorageAdapter) GetAll(ctx context.Context) ([]domain.Property, error) {
	rows, err := a.pool.Query(ctx, "SELECT"+selectColumns+" FROM properties ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		records = append(records, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return records, nil
}

func (a *PostgresPropertyStorageAdapter) Delete(ctx context.Context, id string) error {
	if _, err := a.pool.Exec(ctx, "DELETE FROM properties WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	return nil
}
