package service

import (
	"context"
	"path/filepath"

	"github.com/dukerupert/nursery/internal/analysis"
	"github.com/dukerupert/nursery/internal/catalog"
	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/events"
	"github.com/dukerupert/nursery/internal/tabular"
	"github.com/dukerupert/nursery/internal/transcode"
)

// =============================================================================
// CONVERT
// =============================================================================

// ConvertResult reports a Convert run.
type ConvertResult struct {
	RunID    string
	Input    string
	Products int
}

// Convert builds a new catalog from an editable spreadsheet, replacing the
// catalog file. Duplicate ids in the sheet are a format error.
func (s *Service) Convert(ctx context.Context, input string) (*ConvertResult, error) {
	const op = "service.convert"

	input, err := s.resolveInput(input, PrefixSource)
	if err != nil {
		return nil, err
	}
	records, err := s.readEditable(input)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			return nil, domain.Errorf(domain.EFORMAT, op, "duplicate product id %d in %s", r.ID, input)
		}
		seen[r.ID] = true
	}

	runID := s.newRunID()
	c := &domain.Catalog{Products: records}
	s.stamp(c, filepath.Base(input), runID)
	c.Metadata.ConversionDate = c.Metadata.LastUpdated

	if err := s.commit(ctx, c, events.CatalogUpdated{RunID: runID, Command: "convert", Inserted: len(records)}); err != nil {
		return nil, err
	}
	s.metrics.RecordsInserted.Add(float64(len(records)))

	s.printf("Converted %d products to %s\n", len(records), s.cfg.CatalogPath)
	return &ConvertResult{RunID: runID, Input: input, Products: len(records)}, nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportResult reports an Export run.
type ExportResult struct {
	Path             string
	Products         int
	NeedsDescription int
	NeedsCare        int
	NeedsCategory    int
}

// Export writes the catalog to a timestamped editable spreadsheet with the
// advisory columns filled in.
func (s *Service) Export(ctx context.Context, format tabular.Format) (*ExportResult, error) {
	c, err := catalog.Load(s.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = tabular.FormatCSV
	}

	res := &ExportResult{Path: s.outputPath(PrefixEditable, format), Products: len(c.Products)}
	t := &tabular.Table{Header: transcode.EditableExportColumns()}
	for _, p := range c.Products {
		t.Rows = append(t.Rows, transcode.EncodeWithAdvisory(p))

		a := transcode.Assess(p)
		if a.NeedsDescription {
			res.NeedsDescription++
		}
		if a.NeedsCare {
			res.NeedsCare++
		}
		if a.NeedsCategory {
			res.NeedsCategory++
		}
	}

	if err := tabular.Write(res.Path, t); err != nil {
		return nil, err
	}
	s.logger.Info().Str("path", res.Path).Int("products", res.Products).Msg("Catalog exported")

	s.printf("Exported %d products to: %s\n", res.Products, res.Path)
	s.printf("Summary:\n")
	s.printf("  - Products needing descriptions: %d\n", res.NeedsDescription)
	s.printf("  - Products needing care info: %d\n", res.NeedsCare)
	s.printf("  - Products needing categories: %d\n", res.NeedsCategory)
	return res, nil
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportResult reports an Import or MasterImport run.
type ImportResult struct {
	RunID    string
	Input    string
	Inserted []int
	Updated  []int
	Total    int
}

// Import merges an edited spreadsheet back into the catalog, creating the
// catalog when it does not exist yet. Images already in the catalog are kept.
func (s *Service) Import(ctx context.Context, input string) (*ImportResult, error) {
	input, err := s.resolveInput(input, PrefixEditable)
	if err != nil {
		return nil, err
	}
	records, err := s.readEditable(input)
	if err != nil {
		return nil, err
	}

	c, err := catalog.LoadOrNew(s.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	res, err := s.merge(ctx, c, records, input, "import")
	if err != nil {
		return nil, err
	}

	comp := analysis.MeasureCompleteness(c.Products)
	s.printf("Imported %d products from %s\n", len(records), input)
	s.printf("Updated %s\n", s.cfg.CatalogPath)
	s.printf("\nUpdated Summary:\n")
	s.printf("  - Products with descriptions: %d/%d\n", comp.WithDescription, comp.Total)
	s.printf("  - Products with care info: %d/%d\n", comp.WithCare, comp.Total)
	s.printf("  - Products with categories: %d/%d\n", comp.WithCategory, comp.Total)
	return res, nil
}

// merge applies the full merge, stamps metadata and commits.
func (s *Service) merge(ctx context.Context, c *domain.Catalog, records []domain.ProductRecord, input, command string) (*ImportResult, error) {
	runID := s.newRunID()
	mr := catalog.MergeCatalog(c, records)

	s.stamp(c, filepath.Base(input), runID)
	c.Metadata.ImportSummary = &domain.ImportSummary{
		ProductsUpdated:  len(mr.Updated),
		ProductsInserted: len(mr.Inserted),
	}

	ev := events.CatalogUpdated{RunID: runID, Command: command, Inserted: len(mr.Inserted), Updated: len(mr.Updated)}
	if err := s.commit(ctx, c, ev); err != nil {
		return nil, err
	}
	s.metrics.RecordsInserted.Add(float64(len(mr.Inserted)))
	s.metrics.RecordsUpdated.Add(float64(len(mr.Updated)))

	return &ImportResult{
		RunID:    runID,
		Input:    input,
		Inserted: mr.Inserted,
		Updated:  mr.Updated,
		Total:    len(c.Products),
	}, nil
}

// readEditable reads and decodes an editable-layout spreadsheet.
func (s *Service) readEditable(path string) ([]domain.ProductRecord, error) {
	t, err := tabular.Read(path)
	if err != nil {
		return nil, err
	}
	if len(t.Missing("id")) > 0 {
		return nil, domain.Errorf(domain.EFORMAT, "service.read_editable", "%s has no id column", path)
	}
	records, err := transcode.DecodeAll(t.Rows)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordsDecoded.WithLabelValues("editable").Add(float64(len(records)))
	s.logger.Debug().Str("path", path).Int("rows", len(records)).Msg("Decoded editable spreadsheet")
	return records, nil
}
