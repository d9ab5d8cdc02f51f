// Package assets publishes plant photos and product cards for the website
// and keeps the catalog's image references in step with them.
package assets

import (
	"context"
	"path"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/storage"
)

// CardPrefix is the storage key prefix for product card files.
const CardPrefix = "product-cards"

// CardPublisher copies product card files into storage and records them on
// the matching product.
type CardPublisher struct {
	store  storage.Storage
	logger zerolog.Logger
}

func NewCardPublisher(store storage.Storage, logger zerolog.Logger) *CardPublisher {
	return &CardPublisher{store: store, logger: logger}
}

// CardResult describes one Add call. Removed lists the card files of the
// previous card that the new one no longer references.
type CardResult struct {
	ProductID int
	Name      string
	Published map[string]string
	Skipped   []string
	Removed   []string
}

// Add publishes the card files for the product with the given SKU. files maps
// a card kind (card_image, card_html, spin_animation, rounded_card) to a local
// path; blank paths are ignored. Sources that do not exist are skipped with a
// warning. The product's card images are appended to its images list.
//
// The new card replaces the product's previous one. Previous card files are
// dropped from the images list and, once no product card references them,
// deleted from storage.
func (p *CardPublisher) Add(ctx context.Context, c *domain.Catalog, sku string, files map[string]string) (CardResult, error) {
	const op = "assets.add_card"

	if sku == "" {
		return CardResult{}, domain.Invalid(op, "a product SKU is required")
	}
	rec, ok := c.FindBySKU(sku)
	if !ok {
		return CardResult{}, domain.NotFound(op, "product with SKU", sku)
	}

	result := CardResult{ProductID: rec.ID, Name: rec.Name, Published: map[string]string{}}

	for _, kind := range domain.CardKinds {
		src := files[kind]
		if src == "" {
			continue
		}
		key := path.Join(CardPrefix, filepath.Base(src))
		url, err := storage.PutFile(ctx, p.store, key, src)
		if err != nil {
			if domain.IsCode(err, domain.ENOTFOUND) {
				p.logger.Warn().Str("kind", kind).Str("path", src).Msg("Card file not found")
				result.Skipped = append(result.Skipped, kind)
				continue
			}
			return CardResult{}, err
		}
		p.logger.Debug().Str("kind", kind).Str("url", url).Msg("Published card file")
		result.Published[kind] = url
	}

	if len(result.Published) == 0 {
		return result, domain.NotFound(op, "card files for SKU", sku)
	}

	previous := rec.ProductCard
	rec.ProductCard = make(map[string]string, len(result.Published))
	for kind, url := range result.Published {
		rec.ProductCard[kind] = url
	}

	for _, kind := range domain.CardKinds {
		old, ok := previous[kind]
		if !ok || contains(rec.ProductCard, old) {
			continue
		}
		rec.Images = remove(rec.Images, old)
		if referenced(c, old) {
			continue
		}
		deleted, err := p.removeCardFile(ctx, old)
		if err != nil {
			return result, err
		}
		if deleted {
			result.Removed = append(result.Removed, old)
		}
	}
	for _, kind := range []string{domain.CardImage, domain.CardRounded} {
		if url, ok := result.Published[kind]; ok {
			rec.Images = appendUnique(rec.Images, url)
		}
	}

	return result, nil
}

// CardEntry summarizes a product carrying a product card.
type CardEntry struct {
	ID    int
	Name  string
	SKU   string
	Kinds []string
}

// ListCards returns the products that have a product card, in catalog order.
func ListCards(c *domain.Catalog) []CardEntry {
	var out []CardEntry
	for _, rec := range c.Products {
		if len(rec.ProductCard) == 0 {
			continue
		}
		kinds := make([]string, 0, len(rec.ProductCard))
		for k := range rec.ProductCard {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)

		sku := rec.SKU
		if sku == "" {
			sku = "N/A"
		}
		out = append(out, CardEntry{ID: rec.ID, Name: rec.Name, SKU: sku, Kinds: kinds})
	}
	return out
}

// removeCardFile deletes the stored file behind a card URL. URLs that do not
// point into the card folder of this store are left alone.
func (p *CardPublisher) removeCardFile(ctx context.Context, url string) (bool, error) {
	key := path.Join(CardPrefix, path.Base(url))
	if p.store.URL(key) != url {
		p.logger.Debug().Str("url", url).Msg("Previous card file not managed here, keeping it")
		return false, nil
	}
	if err := p.store.Delete(ctx, key); err != nil {
		return false, err
	}
	p.logger.Debug().Str("url", url).Msg("Deleted replaced card file")
	return true, nil
}

// referenced reports whether any product card in c still uses url.
func referenced(c *domain.Catalog, url string) bool {
	for _, rec := range c.Products {
		if contains(rec.ProductCard, url) {
			return true
		}
	}
	return false
}

func contains(card map[string]string, url string) bool {
	for _, u := range card {
		if u == url {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
