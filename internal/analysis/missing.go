package analysis

import (
	"fmt"
	"strings"

	"github.com/dukerupert/nursery/internal/domain"
)

// careChecked are the care keys the missing-data report requires.
// The free-form "general" note is optional.
var careChecked = []string{"light", "water", "soil", "fertilizer", "pruning"}

// MissingProduct lists the gaps of one product.
type MissingProduct struct {
	ID       int
	Name     string
	Category string
	Missing  []string
}

// MissingReport summarizes missing data across a catalog.
type MissingReport struct {
	Fields     map[string]int
	Categories map[string]int
	Products   []MissingProduct
}

// FindMissing inspects every product for blank curated fields.
func FindMissing(products []domain.ProductRecord) MissingReport {
	r := MissingReport{Fields: map[string]int{}, Categories: map[string]int{}}

	for _, p := range products {
		var missing []string
		check := func(name, value string) bool {
			if strings.TrimSpace(value) == "" {
				r.Fields[name]++
				return true
			}
			return false
		}

		if check("description", p.Description) {
			missing = append(missing, "description")
		}
		if check("scientific", p.Scientific) {
			missing = append(missing, "scientific")
		}
		if check("category", p.Category) {
			missing = append(missing, "category")
		}
		if len(p.Features) == 0 {
			r.Fields["features"]++
			missing = append(missing, "features")
		}

		var care []string
		for _, key := range careChecked {
			if check(key, p.Care.Get(key)) {
				care = append(care, key)
			}
		}
		if len(care) > 0 {
			missing = append(missing, fmt.Sprintf("care_instructions (%s)", strings.Join(care, ", ")))
		}

		var size []string
		for _, key := range domain.SizeKeys {
			if check(key, p.Size.Get(key)) {
				size = append(size, key)
			}
		}
		if len(size) > 0 {
			missing = append(missing, fmt.Sprintf("size_info (%s)", strings.Join(size, ", ")))
		}

		if len(missing) == 0 {
			continue
		}
		r.Products = append(r.Products, MissingProduct{ID: p.ID, Name: p.Name, Category: p.Category, Missing: missing})
		if c := strings.TrimSpace(p.Category); c != "" {
			r.Categories[c]++
		}
	}
	return r
}

// FieldCounts returns the missing-field tallies, most common first.
func (r MissingReport) FieldCounts() []Count {
	return sortedCounts(r.Fields)
}

// CategoryCounts returns the per-category tallies, most common first.
func (r MissingReport) CategoryCounts() []Count {
	return sortedCounts(r.Categories)
}

// Recommendations turns the tallies into follow-up actions.
func (r MissingReport) Recommendations() []string {
	var out []string
	add := func(n int, format string) {
		if n > 0 {
			out = append(out, fmt.Sprintf(format, n))
		}
	}
	add(r.Fields["description"], "Add descriptions to %d products")
	add(r.Fields["scientific"], "Add scientific names to %d products")
	add(r.Fields["category"], "Categorize %d products")
	add(r.Fields["features"], "Add features to %d products")

	care := 0
	for _, key := range careChecked {
		care += r.Fields[key]
	}
	add(care, "Add care instructions to %d products")
	add(r.Fields["height"]+r.Fields["width"], "Add size information to %d products")
	return out
}
