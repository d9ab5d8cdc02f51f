// Package sqlite writes a self-contained SQLite snapshot of the catalog for
// offline browsing and ad-hoc SQL.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dukerupert/nursery/internal/domain"
)

const schema = `
CREATE TABLE products (
    id             INTEGER PRIMARY KEY,
    name           TEXT NOT NULL,
    scientific     TEXT NOT NULL,
    category       TEXT NOT NULL,
    price          REAL NOT NULL,
    availability   TEXT NOT NULL,
    description    TEXT NOT NULL,
    features       TEXT NOT NULL,
    care           TEXT NOT NULL,
    size           TEXT NOT NULL,
    images         TEXT NOT NULL,
    image_category TEXT NOT NULL,
    sku            TEXT NOT NULL,
    product_card   TEXT
)`

var indexes = []string{
	`CREATE INDEX idx_products_category ON products(category)`,
	`CREATE INDEX idx_products_sku ON products(sku)`,
}

const insertProduct = `INSERT INTO products (
    id, name, scientific, category, price, availability, description,
    features, care, size, images, image_category, sku, product_card
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// WriteSnapshot recreates the products table in the database at path and
// fills it from c in one transaction. List and map fields are stored as
// JSON text.
func WriteSnapshot(ctx context.Context, path string, c *domain.Catalog) error {
	const op = "sqlite.write_snapshot"

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return domain.Internal(err, op, "failed to create snapshot directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return domain.Internal(err, op, "failed to open snapshot")
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Internal(err, op, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS products`); err != nil {
		return domain.Internal(err, op, "failed to drop products table")
	}
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return domain.Internal(err, op, "failed to create products table")
	}
	for _, idx := range indexes {
		if _, err := tx.ExecContext(ctx, idx); err != nil {
			return domain.Internal(err, op, "failed to create index")
		}
	}

	stmt, err := tx.PrepareContext(ctx, insertProduct)
	if err != nil {
		return domain.Internal(err, op, "failed to prepare insert")
	}
	defer stmt.Close()

	for _, p := range c.Products {
		p.Normalize()
		var card any
		if len(p.ProductCard) > 0 {
			card = jsonText(p.ProductCard)
		}
		_, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Scientific, p.Category, p.Price, p.Availability, p.Description,
			jsonText(p.Features), jsonText(p.Care), jsonText(p.Size), jsonText(p.Images),
			p.ImageCategory, p.SKU, card,
		)
		if err != nil {
			return domain.Internal(err, op, "failed to insert product")
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Internal(err, op, "failed to commit snapshot")
	}
	return nil
}

// jsonText encodes plain data whose marshalling cannot fail.
func jsonText(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
