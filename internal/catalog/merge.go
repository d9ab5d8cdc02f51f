// Package catalog holds the two merge strategies and the JSON persistence
// of the product catalog.
//
// Merge is the full merge used by the spreadsheet and master imports:
// incoming records overwrite existing ones except for curated image data.
// ApplyPatches is the sparse merge used by the priority import: only
// non-blank overrides are applied and unknown ids are never created.
package catalog

import (
	"github.com/dukerupert/nursery/internal/domain"
)

// Merge combines incoming records into existing ones, keyed by id.
//
// Unknown ids are inserted. For known ids every incoming field overwrites
// the existing one, except:
//   - Images and ImageCategory are kept when the existing value is non-empty,
//   - extended attributes are only overwritten by non-blank values,
//   - ProductCard is kept unless the incoming record carries one.
//
// When incoming repeats an id only its last occurrence is merged. Neither
// input is modified.
func Merge(existing map[int]domain.ProductRecord, incoming []domain.ProductRecord) map[int]domain.ProductRecord {
	out := make(map[int]domain.ProductRecord, len(existing)+len(incoming))
	for id, p := range existing {
		out[id] = p.Clone()
	}
	for id, in := range lastByID(incoming) {
		cur, ok := existing[id]
		if !ok {
			out[id] = in.Clone()
			continue
		}
		out[id] = mergeRecord(cur, in)
	}
	return out
}

func lastByID(records []domain.ProductRecord) map[int]domain.ProductRecord {
	last := make(map[int]domain.ProductRecord, len(records))
	for _, r := range records {
		last[r.ID] = r
	}
	return last
}

func mergeRecord(cur, in domain.ProductRecord) domain.ProductRecord {
	merged := in.Clone()

	if len(cur.Images) > 0 {
		merged.Images = append([]string(nil), cur.Images...)
	}
	if cur.ImageCategory != "" {
		merged.ImageCategory = cur.ImageCategory
	}
	merged.Extended = cur.Extended.Overlay(in.Extended)
	if in.ProductCard == nil && cur.ProductCard != nil {
		merged.ProductCard = cur.Clone().ProductCard
	}
	return merged
}

// MergeResult reports what MergeCatalog changed.
type MergeResult struct {
	Inserted []int
	Updated  []int
}

// MergeCatalog applies Merge to c in place. Existing products keep their
// position; new products are appended in incoming order. When incoming
// repeats an id the last occurrence wins.
func MergeCatalog(c *domain.Catalog, incoming []domain.ProductRecord) MergeResult {
	var res MergeResult

	merged := Merge(c.ByID(), incoming)
	idx := c.Index()
	seen := make(map[int]bool, len(incoming))

	for _, in := range incoming {
		if seen[in.ID] {
			continue
		}
		seen[in.ID] = true
		if _, ok := idx[in.ID]; ok {
			res.Updated = append(res.Updated, in.ID)
		} else {
			res.Inserted = append(res.Inserted, in.ID)
		}
	}

	for i, p := range c.Products {
		c.Products[i] = merged[p.ID]
	}
	for _, id := range res.Inserted {
		c.Products = append(c.Products, merged[id])
	}
	c.Metadata.TotalProducts = len(c.Products)
	return res
}
