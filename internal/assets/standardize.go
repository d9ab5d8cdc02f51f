package assets

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/storage"
)

// PlantsPrefix is the storage key prefix for plant photos.
const PlantsPrefix = "plants"

// ImagePattern matches the photo files picked up from source folders.
// Names are lower-cased before matching.
const ImagePattern = "*.{jpg,jpeg,png}"

var (
	trailingNumber = regexp.MustCompile(`[-_]?\d+$`)
	nonAlnum       = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify lower-cases s and collapses every run of other characters into a
// single hyphen.
func Slugify(s string) string {
	s = nonAlnum.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// Renamed records one standardized photo.
type Renamed struct {
	Source string
	Key    string
	URL    string
}

// Standardize copies the photos found directly inside each source directory
// into storage as plants/<slug>-<n><ext>. The slug comes from the file name
// with any trailing number removed; n counts photos per slug across all
// sources, starting at 1. Directories are read in name order.
func Standardize(ctx context.Context, store storage.Storage, logger zerolog.Logger, sources ...string) ([]Renamed, error) {
	const op = "assets.standardize"

	counts := make(map[string]int)
	var out []Renamed

	for _, dir := range sources {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return out, domain.NotFound(op, "image directory", dir)
			}
			return out, domain.Internal(err, op, "failed to read image directory")
		}

		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			if e.IsDir() {
				continue
			}
			ok, err := doublestar.Match(ImagePattern, strings.ToLower(e.Name()))
			if err != nil {
				return out, domain.Internal(err, op, "bad image pattern")
			}
			if !ok {
				continue
			}

			ext := strings.ToLower(filepath.Ext(e.Name()))
			base := trailingNumber.ReplaceAllString(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), "")
			slug := Slugify(base)
			if slug == "" {
				slug = "plant"
			}
			counts[slug]++

			src := filepath.Join(dir, e.Name())
			key := path.Join(PlantsPrefix, fmt.Sprintf("%s-%d%s", slug, counts[slug], ext))
			url, err := storage.PutFile(ctx, store, key, src)
			if err != nil {
				return out, err
			}
			logger.Info().Str("source", src).Str("url", url).Msg("Copied image")
			out = append(out, Renamed{Source: src, Key: key, URL: url})
		}
	}
	return out, nil
}
