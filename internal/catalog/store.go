package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/dukerupert/nursery/internal/domain"
)

// DefaultPath is where the website reads the product database from.
const DefaultPath = "src/api/products.json"

// document is the on-disk shape. Older master imports wrote the counters
// at the top level instead of under metadata; both are accepted.
type document struct {
	Products []domain.ProductRecord `json:"products"`
	Metadata *domain.Metadata       `json:"metadata,omitempty"`

	TotalProducts *int   `json:"total_products,omitempty"`
	LastUpdated   string `json:"last_updated,omitempty"`
	Source        string `json:"source,omitempty"`
}

// Load reads a catalog file. A missing file is ENOTFOUND; malformed JSON
// or duplicate ids are EFORMAT.
func Load(path string) (*domain.Catalog, error) {
	const op = "catalog.load"

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NotFound(op, "catalog", path)
		}
		return nil, domain.Internal(err, op, "failed to read catalog")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.WrapError(err, domain.EFORMAT, op, "invalid catalog JSON")
	}

	c := &domain.Catalog{Products: doc.Products}
	if doc.Metadata != nil {
		c.Metadata = *doc.Metadata
	} else {
		c.Metadata = domain.Metadata{LastUpdated: doc.LastUpdated, Source: doc.Source}
	}
	if c.Products == nil {
		c.Products = []domain.ProductRecord{}
	}

	seen := make(map[int]bool, len(c.Products))
	for i := range c.Products {
		id := c.Products[i].ID
		if seen[id] {
			return nil, domain.Errorf(domain.EFORMAT, op, "duplicate product id %d in %s", id, path)
		}
		seen[id] = true
		c.Products[i].Normalize()
	}
	c.Metadata.TotalProducts = len(c.Products)

	return c, nil
}

// LoadOrNew loads a catalog, returning an empty one when the file does not exist.
func LoadOrNew(path string) (*domain.Catalog, error) {
	c, err := Load(path)
	if domain.IsCode(err, domain.ENOTFOUND) {
		return &domain.Catalog{Products: []domain.ProductRecord{}}, nil
	}
	return c, err
}

// Save writes the catalog as indented UTF-8 JSON, replacing the file atomically.
// The parent directory is created if needed.
func Save(path string, c *domain.Catalog) error {
	const op = "catalog.save"

	data, err := Marshal(c)
	if err != nil {
		return domain.Internal(err, op, "failed to encode catalog")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Internal(err, op, "failed to create catalog directory")
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return domain.Internal(err, op, "failed to write catalog")
	}
	return nil
}

// Marshal encodes the catalog the way Save writes it.
func Marshal(c *domain.Catalog) ([]byte, error) {
	for i := range c.Products {
		c.Products[i].Normalize()
	}
	if c.Products == nil {
		c.Products = []domain.ProductRecord{}
	}
	c.Metadata.TotalProducts = len(c.Products)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
