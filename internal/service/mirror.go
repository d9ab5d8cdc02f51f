package service

import (
	"context"

	"github.com/dukerupert/nursery/internal/catalog"
	"github.com/dukerupert/nursery/internal/postgres"
	"github.com/dukerupert/nursery/internal/sqlite"
)

// MirrorPostgres upserts the catalog into the configured Postgres database.
func (s *Service) MirrorPostgres(ctx context.Context) (*postgres.SyncResult, error) {
	c, err := catalog.Load(s.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	m, err := postgres.Open(ctx, s.cfg.DatabaseUrl, s.logger)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	runID := c.Metadata.RunID
	if runID == "" {
		runID = s.newRunID()
	}
	res, err := m.Sync(ctx, c, runID)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordsUpdated.Add(float64(res.Upserted))

	s.printf("Mirrored %d products to Postgres (%d stale rows removed)\n", res.Upserted, res.Deleted)
	return &res, nil
}

// MirrorSQLite writes a SQLite snapshot of the catalog to path.
func (s *Service) MirrorSQLite(ctx context.Context, path string) error {
	c, err := catalog.Load(s.cfg.CatalogPath)
	if err != nil {
		return err
	}
	if err := sqlite.WriteSnapshot(ctx, path, c); err != nil {
		return err
	}
	s.metrics.RecordsInserted.Add(float64(len(c.Products)))

	s.printf("Wrote %d products to %s\n", len(c.Products), path)
	return nil
}
