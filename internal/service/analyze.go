package service

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/dukerupert/nursery/internal/analysis"
	"github.com/dukerupert/nursery/internal/catalog"
	"github.com/dukerupert/nursery/internal/domain"
)

// Analyze prints data-quality and price statistics for a catalog file or an
// editable spreadsheet. input defaults to the catalog. When reportPath is
// set the full missing-data listing is written there as well.
func (s *Service) Analyze(ctx context.Context, input, reportPath string) (*analysis.Report, error) {
	const op = "service.analyze"

	if input == "" {
		input = s.cfg.CatalogPath
	}

	var products []domain.ProductRecord
	if strings.EqualFold(filepath.Ext(input), ".json") {
		c, err := catalog.Load(input)
		if err != nil {
			return nil, err
		}
		products = c.Products
	} else {
		records, err := s.readEditable(input)
		if err != nil {
			return nil, err
		}
		products = records
	}

	report := analysis.Build(products)
	if err := analysis.WriteSummary(s.out, report); err != nil {
		return nil, domain.Internal(err, op, "failed to print summary")
	}

	if reportPath != "" {
		var buf bytes.Buffer
		if err := analysis.WriteMissingReport(&buf, report.Missing); err != nil {
			return nil, domain.Internal(err, op, "failed to render report")
		}
		if err := atomic.WriteFile(reportPath, &buf); err != nil {
			return nil, domain.Internal(err, op, "failed to write report")
		}
		s.printf("\nDetailed report saved to: %s\n", reportPath)
	}

	s.logger.Debug().Str("input", input).Int("products", len(products)).Msg("Analysis complete")
	return &report, nil
}
