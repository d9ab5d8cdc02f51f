// Package service implements the catalog pipelines behind each CLI command.
// Every pipeline reads its input in full, validates it, and only then writes
// the catalog, so a failed run leaves existing files untouched.
package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dukerupert/nursery/internal"
	"github.com/dukerupert/nursery/internal/catalog"
	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/events"
	"github.com/dukerupert/nursery/internal/storage"
	"github.com/dukerupert/nursery/internal/tabular"
	"github.com/dukerupert/nursery/internal/telemetry"
)

// File name prefixes used to find the most recent input when none is given.
const (
	PrefixSource   = "plant_catalog"
	PrefixEditable = "product_catalog_editable_"
	PrefixPriority = "priority_products_"
	PrefixMaster   = "master_plant_catalog"
)

// TimestampLayout stamps generated spreadsheet names.
const TimestampLayout = "20060102_150405"

// DateLayout is used for the metadata date fields.
const DateLayout = "2006-01-02"

// Deps holds everything a Service needs.
type Deps struct {
	Config  *internal.Config
	Logger  zerolog.Logger
	Events  events.Publisher
	Metrics *telemetry.BatchMetrics
	Store   storage.Storage

	// Out receives the human-readable summaries.
	Out io.Writer

	// WorkDir is searched for the latest input when none is named. Defaults to ".".
	WorkDir string

	// Now and NewRunID default to time.Now and uuid.NewString.
	Now      func() time.Time
	NewRunID func() string
}

// Service runs the catalog pipelines.
type Service struct {
	cfg      *internal.Config
	logger   zerolog.Logger
	events   events.Publisher
	metrics  *telemetry.BatchMetrics
	store    storage.Storage
	out      io.Writer
	workDir  string
	now      func() time.Time
	newRunID func() string
}

func New(d Deps) *Service {
	s := &Service{
		cfg:      d.Config,
		logger:   d.Logger,
		events:   d.Events,
		metrics:  d.Metrics,
		store:    d.Store,
		out:      d.Out,
		workDir:  d.WorkDir,
		now:      d.Now,
		newRunID: d.NewRunID,
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewBatchMetrics("", "unknown")
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.workDir == "" {
		s.workDir = "."
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newRunID == nil {
		s.newRunID = uuid.NewString
	}
	return s
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Service) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// resolveInput returns path, or the most recent spreadsheet in the work
// directory whose name starts with prefix.
func (s *Service) resolveInput(path, prefix string) (string, error) {
	if path != "" {
		return path, nil
	}
	latest, err := tabular.Latest(s.workDir, prefix, ".csv", ".xlsx")
	if err != nil {
		return "", err
	}
	s.printf("Found spreadsheet: %s\n", latest)
	return latest, nil
}

// outputPath builds <output_dir>/<prefix><timestamp><ext>.
func (s *Service) outputPath(prefix string, format tabular.Format) string {
	name := prefix + s.now().Format(TimestampLayout) + "." + string(format)
	return filepath.Join(s.cfg.OutputDir, name)
}

// stamp fills the run fields of the catalog metadata.
func (s *Service) stamp(c *domain.Catalog, source, runID string) {
	c.Metadata.Source = source
	c.Metadata.LastUpdated = s.now().Format(DateLayout)
	c.Metadata.RunID = runID
}

// commit saves the catalog and announces the change. A failed announcement
// is logged and does not fail the run; the catalog is already written.
func (s *Service) commit(ctx context.Context, c *domain.Catalog, e events.CatalogUpdated) error {
	if err := catalog.Save(s.cfg.CatalogPath, c); err != nil {
		return err
	}
	s.logger.Info().
		Str("path", s.cfg.CatalogPath).
		Int("products", len(c.Products)).
		Str("run_id", e.RunID).
		Msg("Catalog saved")

	e.CatalogPath = s.cfg.CatalogPath
	e.TotalProducts = len(c.Products)
	e.Source = c.Metadata.Source
	e.OccurredAt = s.now().UTC()
	if err := s.events.CatalogUpdated(ctx, e); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish catalog event")
	}
	return nil
}
