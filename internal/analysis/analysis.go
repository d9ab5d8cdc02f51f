// Package analysis computes data-quality and pricing statistics over a catalog.
package analysis

import (
	"sort"
	"strings"

	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/transcode"
)

// Completeness counts how many products carry each curated field.
type Completeness struct {
	Total           int
	WithDescription int
	WithCare        int
	WithCategory    int
}

// Percent returns n as a percentage of Total, or 0 for an empty catalog.
func (c Completeness) Percent(n int) float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(n) / float64(c.Total) * 100
}

// CompleteCount counts products needing no attention at all.
func CompleteCount(products []domain.ProductRecord) int {
	n := 0
	for _, p := range products {
		if !transcode.Assess(p).NeedsAttention() {
			n++
		}
	}
	return n
}

// MeasureCompleteness computes the completeness counts for products.
func MeasureCompleteness(products []domain.ProductRecord) Completeness {
	c := Completeness{Total: len(products)}
	for _, p := range products {
		a := transcode.Assess(p)
		if !a.NeedsDescription {
			c.WithDescription++
		}
		if !a.NeedsCare {
			c.WithCare++
		}
		if !a.NeedsCategory {
			c.WithCategory++
		}
	}
	return c
}

// =============================================================================
// PRIORITY
// =============================================================================

// Ranked pairs a product with its advisory.
type Ranked struct {
	Product  domain.ProductRecord
	Advisory transcode.Advisory
}

// Priorities returns the products needing attention, highest score first.
// Products with equal scores keep catalog order.
func Priorities(products []domain.ProductRecord) []Ranked {
	var out []Ranked
	for _, p := range products {
		a := transcode.Assess(p)
		if a.NeedsAttention() {
			out = append(out, Ranked{Product: p, Advisory: a})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Advisory.Score > out[j].Advisory.Score
	})
	return out
}

// LevelCounts tallies ranked products per priority level.
func LevelCounts(ranked []Ranked) map[transcode.Level]int {
	counts := map[transcode.Level]int{
		transcode.LevelHigh:   0,
		transcode.LevelMedium: 0,
		transcode.LevelLow:    0,
	}
	for _, r := range ranked {
		counts[r.Advisory.Level]++
	}
	return counts
}

// =============================================================================
// COUNTS
// =============================================================================

// Count is a labelled tally.
type Count struct {
	Label string
	N     int
}

// sortedCounts orders a tally by count descending, then label.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Label: k, N: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// ImageCategories counts products per non-blank image category, most common first.
func ImageCategories(products []domain.ProductRecord) []Count {
	m := make(map[string]int)
	for _, p := range products {
		if c := strings.TrimSpace(p.ImageCategory); c != "" {
			m[c]++
		}
	}
	return sortedCounts(m)
}

// Categories counts products per category, most common first.
func Categories(products []domain.ProductRecord) []Count {
	m := make(map[string]int)
	for _, p := range products {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			c = "(none)"
		}
		m[c]++
	}
	return sortedCounts(m)
}
