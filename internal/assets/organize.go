package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"

	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/storage"
)

// GenericCategory is the image category used for stock nursery photos.
const GenericCategory = "Nursery Generic"

// FolderFor returns the plants sub-folder for an image category.
func FolderFor(category string) string {
	if category == GenericCategory {
		return "generic"
	}
	f := strings.ReplaceAll(strings.ToLower(category), " ", "-")
	f = strings.ReplaceAll(f, "jpeg", "")
	f = strings.ReplaceAll(f, "jpg", "")
	return strings.Trim(f, "-")
}

// ImageRef is one product's primary image in an image category.
type ImageRef struct {
	ProductID int
	Name      string
	Path      string
}

// GroupByImageCategory collects the first image of every product that has
// both an image and an image category.
func GroupByImageCategory(c *domain.Catalog) map[string][]ImageRef {
	groups := make(map[string][]ImageRef)
	for _, rec := range c.Products {
		cat := strings.TrimSpace(rec.ImageCategory)
		img := firstImage(rec.Images)
		if cat == "" || img == "" {
			continue
		}
		groups[cat] = append(groups[cat], ImageRef{ProductID: rec.ID, Name: rec.Name, Path: img})
	}
	return groups
}

// =============================================================================
// METADATA
// =============================================================================

type CategoryImages struct {
	Count  int      `json:"count"`
	Images []string `json:"images"`
}

type ProductImage struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

type ImageStatistics struct {
	TotalProducts int `json:"total_products"`
	UniqueImages  int `json:"unique_images"`
	Categories    int `json:"categories"`
}

// ImageMetadata is the image_metadata.json document consumed by the site.
type ImageMetadata struct {
	ImageCategories     map[string]CategoryImages `json:"image_categories"`
	ProductImageMapping map[string]ProductImage   `json:"product_image_mapping"`
	Statistics          ImageStatistics           `json:"statistics"`
}

// BuildMetadata summarizes the grouped images.
func BuildMetadata(groups map[string][]ImageRef) ImageMetadata {
	m := ImageMetadata{
		ImageCategories:     make(map[string]CategoryImages, len(groups)),
		ProductImageMapping: make(map[string]ProductImage),
		Statistics:          ImageStatistics{Categories: len(groups)},
	}
	unique := make(map[string]struct{})

	for cat, refs := range groups {
		ci := CategoryImages{Count: len(refs), Images: make([]string, 0, len(refs))}
		for _, ref := range refs {
			ci.Images = append(ci.Images, ref.Path)
			unique[ref.Path] = struct{}{}
			m.ProductImageMapping[strconv.Itoa(ref.ProductID)] = ProductImage{Name: ref.Name, Image: ref.Path, Category: cat}
			m.Statistics.TotalProducts++
		}
		m.ImageCategories[cat] = ci
	}
	m.Statistics.UniqueImages = len(unique)
	return m
}

// WriteMetadata writes the metadata document atomically.
func WriteMetadata(filename string, m ImageMetadata) error {
	const op = "assets.write_metadata"

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return domain.Internal(err, op, "failed to encode image metadata")
	}
	if err := atomic.WriteFile(filename, bytes.NewReader(append(data, '\n'))); err != nil {
		return domain.Internal(err, op, "failed to write image metadata")
	}
	return nil
}

// =============================================================================
// ORGANIZE
// =============================================================================

// OrganizeResult reports what Organize copied. Folders counts the images
// filed in each folder, including those already present from earlier runs.
type OrganizeResult struct {
	Folders  map[string]int
	Copied   []string
	Filed    []string
	Missing  []string
	Metadata ImageMetadata
}

// Organizer files product images into per-category folders.
type Organizer struct {
	store     storage.Storage
	publicDir string
	logger    zerolog.Logger
}

// NewOrganizer reads images from publicDir, where an image path such as
// /images/plants/boxwood-1.jpg resolves to <publicDir>/images/plants/boxwood-1.jpg.
func NewOrganizer(store storage.Storage, publicDir string, logger zerolog.Logger) *Organizer {
	return &Organizer{store: store, publicDir: publicDir, logger: logger}
}

// Organize copies every categorized product image into plants/<folder>/.
// Images missing on disk are reported and skipped. Images already filed are
// left alone.
func (o *Organizer) Organize(ctx context.Context, c *domain.Catalog) (OrganizeResult, error) {
	groups := GroupByImageCategory(c)
	result := OrganizeResult{Folders: make(map[string]int), Metadata: BuildMetadata(groups)}

	cats := make([]string, 0, len(groups))
	for cat := range groups {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	for _, cat := range cats {
		folder := FolderFor(cat)
		seen := make(map[string]bool)

		for _, ref := range groups[cat] {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if seen[ref.Path] {
				continue
			}
			seen[ref.Path] = true

			src := filepath.Join(o.publicDir, filepath.FromSlash(ref.Path))
			if _, err := os.Stat(src); err != nil {
				o.logger.Warn().Str("image", ref.Path).Str("category", cat).Msg("Image missing")
				result.Missing = append(result.Missing, ref.Path)
				continue
			}

			key := path.Join(PlantsPrefix, folder, path.Base(ref.Path))
			filed, err := o.store.Exists(ctx, key)
			if err != nil {
				return result, err
			}
			if filed {
				result.Filed = append(result.Filed, o.store.URL(key))
				result.Folders[folder]++
				continue
			}
			url, err := storage.PutFile(ctx, o.store, key, src)
			if err != nil {
				return result, err
			}
			result.Copied = append(result.Copied, url)
			result.Folders[folder]++
		}
	}
	return result, nil
}

func firstImage(images []string) string {
	for _, img := range images {
		if s := strings.TrimSpace(img); s != "" {
			return s
		}
	}
	return ""
}
