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

// topPriority is how many products the priority summary lists.
const topPriority = 10

// PriorityCreateResult reports a PriorityCreate run.
type PriorityCreateResult struct {
	Path   string
	Ranked []analysis.Ranked
	Levels map[transcode.Level]int
}

// PriorityCreate writes a sheet of the products needing attention, highest
// score first, for curators to fill in.
func (s *Service) PriorityCreate(ctx context.Context, format tabular.Format) (*PriorityCreateResult, error) {
	c, err := catalog.Load(s.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = tabular.FormatCSV
	}

	ranked := analysis.Priorities(c.Products)
	res := &PriorityCreateResult{
		Path:   s.outputPath(PrefixPriority, format),
		Ranked: ranked,
		Levels: analysis.LevelCounts(ranked),
	}

	t := &tabular.Table{Header: transcode.PriorityColumns}
	for _, r := range ranked {
		t.Rows = append(t.Rows, transcode.EncodePriority(r.Product, r.Advisory))
	}
	if err := tabular.Write(res.Path, t); err != nil {
		return nil, err
	}
	s.logger.Info().Str("path", res.Path).Int("products", len(ranked)).Msg("Priority spreadsheet created")

	s.printf("Created priority spreadsheet: %s\n", res.Path)
	s.printf("Priority Summary:\n")
	s.printf("  - Total products needing attention: %d\n", len(ranked))
	s.printf("  - High priority: %d\n", res.Levels[transcode.LevelHigh])
	s.printf("  - Medium priority: %d\n", res.Levels[transcode.LevelMedium])
	s.printf("  - Low priority: %d\n", res.Levels[transcode.LevelLow])

	if len(ranked) > 0 {
		s.printf("\nTOP %d HIGH PRIORITY PRODUCTS:\n", topPriority)
		for i, r := range ranked {
			if i == topPriority {
				break
			}
			s.printf("  %d. %s (ID: %d) - Score: %d\n", i+1, r.Product.Name, r.Product.ID, r.Advisory.Score)
		}
	}
	return res, nil
}

// PriorityImportResult reports a PriorityImport run.
type PriorityImportResult struct {
	RunID   string
	Input   string
	Updated []int
	Unknown []error
}

// PriorityImport applies a filled-in priority sheet as sparse patches. Rows
// for ids missing from the catalog are reported and skipped, never inserted.
func (s *Service) PriorityImport(ctx context.Context, input string) (*PriorityImportResult, error) {
	input, err := s.resolveInput(input, PrefixPriority)
	if err != nil {
		return nil, err
	}
	t, err := tabular.Read(input)
	if err != nil {
		return nil, err
	}
	if len(t.Missing("id")) > 0 {
		return nil, domain.Errorf(domain.EFORMAT, "service.priority_import", "%s has no id column", input)
	}
	patches, err := transcode.DecodePatches(t.Rows)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordsDecoded.WithLabelValues("priority").Add(float64(len(patches)))

	c, err := catalog.Load(s.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	pr := catalog.ApplyPatches(c, patches)
	for _, e := range pr.Unknown {
		s.logger.Warn().Err(e).Msg("Skipping patch for unknown product")
		s.printf("Skipped: %s\n", domain.ErrorMessage(e))
	}

	runID := s.newRunID()
	s.stamp(c, filepath.Base(input), runID)
	c.Metadata.ImportSummary = &domain.ImportSummary{
		ProductsUpdated: len(pr.Updated),
		UnknownSkipped:  len(pr.Unknown),
	}
	ev := events.CatalogUpdated{RunID: runID, Command: "priority import", Updated: len(pr.Updated), Skipped: len(pr.Unknown)}
	if err := s.commit(ctx, c, ev); err != nil {
		return nil, err
	}
	s.metrics.RecordsUpdated.Add(float64(len(pr.Updated)))
	s.metrics.RecordsSkipped.Add(float64(len(pr.Unknown)))

	comp := analysis.MeasureCompleteness(c.Products)
	s.printf("Imported priority spreadsheet: %s\n", input)
	s.printf("Updated %s\n", s.cfg.CatalogPath)
	s.printf("Import Summary:\n")
	s.printf("  - Products updated: %d\n", len(pr.Updated))
	s.printf("  - Unknown ids skipped: %d\n", len(pr.Unknown))
	s.printf("\nData Quality Summary:\n")
	s.printf("  - Products with descriptions: %d/%d (%.1f%%)\n", comp.WithDescription, comp.Total, comp.Percent(comp.WithDescription))
	s.printf("  - Products with care info: %d/%d (%.1f%%)\n", comp.WithCare, comp.Total, comp.Percent(comp.WithCare))
	s.printf("  - Products with categories: %d/%d (%.1f%%)\n", comp.WithCategory, comp.Total, comp.Percent(comp.WithCategory))
	if len(pr.Updated) > 0 {
		s.printf("\nSuccessfully updated %d products!\n", len(pr.Updated))
	}

	return &PriorityImportResult{RunID: runID, Input: input, Updated: pr.Updated, Unknown: pr.Unknown}, nil
}
