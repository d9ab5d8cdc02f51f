package catalog

import (
	"strconv"

	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/transcode"
)

// PatchResult reports what ApplyPatches changed.
type PatchResult struct {
	// Updated lists ids that matched a catalog product.
	Updated []int

	// Unknown holds one ELOOKUP error per patch whose id is not in the catalog.
	Unknown []error
}

// ApplyPatches applies sparse patches to c in place.
//
// Only overrides present in a patch are written; images are never
// touched. Patches for ids missing from the catalog are skipped and
// reported in Unknown.
func ApplyPatches(c *domain.Catalog, patches []transcode.Patch) PatchResult {
	const op = "catalog.apply_patches"

	var res PatchResult
	for _, p := range patches {
		rec, ok := c.Find(p.ID)
		if !ok {
			res.Unknown = append(res.Unknown, domain.Lookup(op, "product", strconv.Itoa(p.ID)))
			continue
		}
		applyPatch(rec, p)
		res.Updated = append(res.Updated, p.ID)
	}

	c.Metadata.TotalProducts = len(c.Products)
	return res
}

func applyPatch(rec *domain.ProductRecord, p transcode.Patch) {
	if p.Category != "" {
		rec.Category = p.Category
	}
	if p.Description != "" {
		rec.Description = p.Description
	}
	if p.Scientific != "" {
		rec.Scientific = p.Scientific
	}
	if p.Features != nil {
		rec.Features = append([]string{}, p.Features...)
	}
	if p.Care != nil {
		rec.Care = *p.Care
	}
	if p.Size != nil {
		rec.Size = *p.Size
	}
}
