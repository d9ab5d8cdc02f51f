// Package postgres mirrors the JSON catalog into a Postgres database so the
// storefront and reporting tools can query it.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/dukerupert/nursery/internal"
	"github.com/dukerupert/nursery/internal/domain"
)

const upsertProduct = `
INSERT INTO products (
    id, name, scientific, category, price, availability, description,
    features, care, size, images, image_category, sku, extended, product_card,
    run_id, synced_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    scientific = EXCLUDED.scientific,
    category = EXCLUDED.category,
    price = EXCLUDED.price,
    availability = EXCLUDED.availability,
    description = EXCLUDED.description,
    features = EXCLUDED.features,
    care = EXCLUDED.care,
    size = EXCLUDED.size,
    images = EXCLUDED.images,
    image_category = EXCLUDED.image_category,
    sku = EXCLUDED.sku,
    extended = EXCLUDED.extended,
    product_card = EXCLUDED.product_card,
    run_id = EXCLUDED.run_id,
    synced_at = EXCLUDED.synced_at`

const deleteStale = `DELETE FROM products WHERE NOT (id = ANY($1))`

const insertRun = `
INSERT INTO sync_runs (run_id, source, total_products, upserted, deleted, synced_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (run_id) DO NOTHING`

// Mirror writes catalogs into Postgres.
type Mirror struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// SyncResult reports the outcome of one Sync.
type SyncResult struct {
	Upserted int
	Deleted  int
}

// Open migrates the schema and connects a pool to databaseURL.
func Open(ctx context.Context, databaseURL string, logger zerolog.Logger) (*Mirror, error) {
	const op = "postgres.open"

	if databaseURL == "" {
		return nil, domain.Invalid(op, "database_url is required to mirror into Postgres")
	}

	// Migrations run over database/sql, the pool serves the sync itself.
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to open database")
	}
	version, err := internal.RunMigrations(sqlDB, logger)
	sqlDB.Close()
	if err != nil {
		return nil, domain.Internal(err, op, "failed to migrate mirror schema")
	}
	logger.Debug().Int64("version", version).Msg("Mirror schema ready")

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, domain.Internal(err, op, "failed to reach database")
	}

	return &Mirror{pool: pool, logger: logger}, nil
}

func (m *Mirror) Close() {
	m.pool.Close()
}

// Sync upserts every product of c and deletes rows whose id is no longer in
// the catalog, all in one transaction.
func (m *Mirror) Sync(ctx context.Context, c *domain.Catalog, runID string) (SyncResult, error) {
	const op = "postgres.sync"

	now := time.Now().UTC()
	var result SyncResult

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return result, domain.Internal(err, op, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	ids := make([]int64, 0, len(c.Products))
	for _, p := range c.Products {
		args, err := productArgs(p, runID, now)
		if err != nil {
			return result, domain.Internal(err, op, "failed to encode product")
		}
		if _, err := tx.Exec(ctx, upsertProduct, args...); err != nil {
			return result, domain.Internal(err, op, "failed to upsert product")
		}
		ids = append(ids, int64(p.ID))
		result.Upserted++
	}

	tag, err := tx.Exec(ctx, deleteStale, ids)
	if err != nil {
		return result, domain.Internal(err, op, "failed to delete stale products")
	}
	result.Deleted = int(tag.RowsAffected())

	if _, err := tx.Exec(ctx, insertRun, runID, c.Metadata.Source, len(c.Products), result.Upserted, result.Deleted, now); err != nil {
		return result, domain.Internal(err, op, "failed to record sync run")
	}

	if err := tx.Commit(ctx); err != nil {
		return result, domain.Internal(err, op, "failed to commit sync")
	}

	m.logger.Info().
		Str("run_id", runID).
		Int("upserted", result.Upserted).
		Int("deleted", result.Deleted).
		Msg("Catalog mirrored to Postgres")
	return result, nil
}

// Count returns the number of mirrored products.
func (m *Mirror) Count(ctx context.Context) (int, error) {
	var n int
	if err := m.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, domain.Internal(err, "postgres.count", "failed to count products")
	}
	return n, nil
}

// productArgs flattens a record into the upsertProduct parameters.
// List and map fields are sent as JSON documents.
func productArgs(p domain.ProductRecord, runID string, now time.Time) ([]any, error) {
	p.Normalize()

	features, err := json.Marshal(p.Features)
	if err != nil {
		return nil, err
	}
	care, err := json.Marshal(p.Care)
	if err != nil {
		return nil, err
	}
	size, err := json.Marshal(p.Size)
	if err != nil {
		return nil, err
	}
	images, err := json.Marshal(p.Images)
	if err != nil {
		return nil, err
	}
	extended, err := json.Marshal(p.Extended)
	if err != nil {
		return nil, err
	}

	var card []byte
	if len(p.ProductCard) > 0 {
		if card, err = json.Marshal(p.ProductCard); err != nil {
			return nil, err
		}
	}

	return []any{
		int64(p.ID), p.Name, p.Scientific, p.Category, p.Price, p.Availability, p.Description,
		features, care, size, images, p.ImageCategory, p.SKU, extended, card,
		runID, now,
	}, nil
}
