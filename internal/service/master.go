package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/nursery/internal/catalog"
	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/tabular"
	"github.com/dukerupert/nursery/internal/transcode"
)

// sampleSize is how many imported products the master summary previews.
const sampleSize = 5

// MasterImport decodes the supplier's master inventory and merges it into
// the catalog, creating the catalog when it does not exist yet.
func (s *Service) MasterImport(ctx context.Context, input string) (*ImportResult, error) {
	input, err := s.resolveInput(input, PrefixMaster)
	if err != nil {
		return nil, err
	}

	categories := transcode.DefaultCategoryMap()
	if s.cfg.CategoryMap != "" {
		if categories, err = transcode.LoadCategoryMap(s.cfg.CategoryMap); err != nil {
			return nil, err
		}
	}

	t, err := tabular.Read(input)
	if err != nil {
		return nil, err
	}
	if missing := t.Missing("SKU"); len(missing) > 0 {
		return nil, domain.Errorf(domain.EFORMAT, "service.master_import", "%s is missing columns: %s", input, strings.Join(missing, ", "))
	}
	records, err := transcode.NewMasterDecoder(categories).DecodeAll(t.Rows)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordsDecoded.WithLabelValues("master").Add(float64(len(records)))

	s.printf("Importing Master Plant Catalog...\n")
	s.printf("CSV Source: %s\n", input)
	s.printf("JSON Target: %s\n", s.cfg.CatalogPath)

	c, err := catalog.LoadOrNew(s.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	s.printf("Found %d existing products\n", len(c.Products))

	res, err := s.merge(ctx, c, records, input, "master import")
	if err != nil {
		return nil, err
	}

	complete := 0
	for _, r := range records {
		if strings.TrimSpace(r.Description) != "" && !r.Care.IsEmpty() {
			complete++
		}
	}

	s.printf("\nImport Summary:\n")
	s.printf("Total Products: %d\n", len(records))
	s.printf("New Products: %d\n", len(res.Inserted))
	s.printf("Updated Products: %d\n", len(res.Updated))
	s.printf("Products with Complete Data: %d\n", complete)
	s.printf("Products Needing Attention: %d\n", len(records)-complete)

	s.printf("\nSample Updated Products:\n")
	for i, r := range records {
		if i == sampleSize {
			break
		}
		s.printf("%d. %s - $%s - %s\n", i+1, r.Name, transcode.FormatPrice(r.Price), r.Category)
		if r.Description != "" {
			s.printf("   Description: %s\n", preview(r.Description, 100))
		}
	}
	s.printf("\nProducts database updated successfully!\n")
	return res, nil
}

func preview(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width]) + "..."
}
