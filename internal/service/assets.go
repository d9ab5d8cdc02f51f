package service

import (
	"context"
	"sort"
	"strings"

	"github.com/dukerupert/nursery/internal/assets"
	"github.com/dukerupert/nursery/internal/catalog"
	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/events"
)

// AddCard publishes product card files for the product with the given SKU
// and saves the catalog.
func (s *Service) AddCard(ctx context.Context, sku string, files map[string]string) (*assets.CardResult, error) {
	c, err := catalog.Load(s.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	res, err := assets.NewCardPublisher(s.store, s.logger).Add(ctx, c, sku, files)
	s.metrics.AssetsMissing.Add(float64(len(res.Skipped)))
	for _, kind := range res.Skipped {
		s.printf("File not found for %s: %s\n", kind, files[kind])
	}
	if err != nil {
		return nil, err
	}
	s.metrics.AssetsPublished.Add(float64(len(res.Published)))
	for _, kind := range domain.CardKinds {
		if url, ok := res.Published[kind]; ok {
			s.printf("Copied %s: %s\n", kind, url)
		}
	}
	for _, url := range res.Removed {
		s.printf("Removed replaced card file: %s\n", url)
	}

	runID := s.newRunID()
	c.Metadata.LastUpdated = s.now().Format(DateLayout)
	c.Metadata.RunID = runID
	if err := s.commit(ctx, c, events.CatalogUpdated{RunID: runID, Command: "card add", Updated: 1}); err != nil {
		return nil, err
	}
	s.metrics.RecordsUpdated.Inc()

	s.printf("Updated product %s (SKU: %s) with card information\n", res.Name, sku)
	return &res, nil
}

// ListCards prints the products carrying a product card.
func (s *Service) ListCards(ctx context.Context) ([]assets.CardEntry, error) {
	c, err := catalog.Load(s.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	cards := assets.ListCards(c)
	if len(cards) == 0 {
		s.printf("No products have cards yet.\n")
		return cards, nil
	}
	s.printf("Products with cards:\n")
	for _, e := range cards {
		s.printf("* %s (ID: %d, SKU: %s)\n", e.Name, e.ID, e.SKU)
		s.printf("  Card files: %s\n", strings.Join(e.Kinds, ", "))
	}
	return cards, nil
}

// StandardizeImages copies plant photos from the source directories into the
// plants folder under standardized names.
func (s *Service) StandardizeImages(ctx context.Context, sources []string) ([]assets.Renamed, error) {
	if len(sources) == 0 {
		return nil, domain.Invalid("service.standardize_images", "at least one source directory is required")
	}

	out, err := assets.Standardize(ctx, s.store, s.logger, sources...)
	s.metrics.AssetsPublished.Add(float64(len(out)))
	for _, r := range out {
		s.printf("Copied %s -> %s\n", r.Source, r.URL)
	}
	if err != nil {
		return out, err
	}
	s.printf("All images standardized and moved to %s/\n", assets.PlantsPrefix)
	return out, nil
}

// OrganizeImages files each categorized product image into its category
// folder and writes the image metadata document to metadataPath.
func (s *Service) OrganizeImages(ctx context.Context, metadataPath string) (*assets.OrganizeResult, error) {
	c, err := catalog.Load(s.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	res, err := assets.NewOrganizer(s.store, s.cfg.PublicDir, s.logger).Organize(ctx, c)
	if err != nil {
		return nil, err
	}
	s.metrics.AssetsPublished.Add(float64(len(res.Copied)))
	s.metrics.AssetsMissing.Add(float64(len(res.Missing)))

	s.printf("IMAGE ORGANIZATION\n")
	for _, cnt := range sortedFolders(res.Folders) {
		s.printf("  %s/%s: %d images\n", assets.PlantsPrefix, cnt.folder, cnt.n)
	}
	s.printf("  Copied: %d, already filed: %d\n", len(res.Copied), len(res.Filed))
	for _, m := range res.Missing {
		s.printf("  Missing: %s\n", m)
	}

	if metadataPath != "" {
		if err := assets.WriteMetadata(metadataPath, res.Metadata); err != nil {
			return nil, err
		}
		s.printf("\nImage metadata saved to: %s\n", metadataPath)
	}
	return &res, nil
}

type folderCount struct {
	folder string
	n      int
}

func sortedFolders(m map[string]int) []folderCount {
	out := make([]folderCount, 0, len(m))
	for f, n := range m {
		out = append(out, folderCount{folder: f, n: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].folder < out[j].folder })
	return out
}
