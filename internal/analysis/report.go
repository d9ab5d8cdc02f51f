package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/dukerupert/nursery/internal/domain"
)

// Report bundles every statistic the analyze command prints.
type Report struct {
	Completeness    Completeness
	Missing         MissingReport
	Prices          PriceStats
	Categories      []Count
	ImageCategories []Count
}

// Build computes a full report for products.
func Build(products []domain.ProductRecord) Report {
	return Report{
		Completeness:    MeasureCompleteness(products),
		Missing:         FindMissing(products),
		Prices:          Prices(products),
		Categories:      Categories(products),
		ImageCategories: ImageCategories(products),
	}
}

// previewLimit caps the per-product listing in the summary.
const previewLimit = 20

var rule = strings.Repeat("=", 50)

// WriteSummary prints the human-readable analysis.
func WriteSummary(w io.Writer, r Report) error {
	ew := &errWriter{w: w}
	c := r.Completeness

	ew.printf("CATALOG ANALYSIS\n%s\n", rule)
	ew.printf("Total products: %d\n", c.Total)
	ew.printf("  - With descriptions: %d/%d (%.1f%%)\n", c.WithDescription, c.Total, c.Percent(c.WithDescription))
	ew.printf("  - With care info: %d/%d (%.1f%%)\n", c.WithCare, c.Total, c.Percent(c.WithCare))
	ew.printf("  - With categories: %d/%d (%.1f%%)\n", c.WithCategory, c.Total, c.Percent(c.WithCategory))

	ew.printf("\nCategories:\n")
	for _, cnt := range r.Categories {
		ew.printf("  * %s: %d products\n", cnt.Label, cnt.N)
	}

	p := r.Prices
	ew.printf("\nPrice analysis:\n")
	if p.Count > 0 {
		ew.printf("  Min: $%s  Max: $%s  Average: $%s\n", p.Min.StringFixed(2), p.Max.StringFixed(2), p.Average.StringFixed(2))
	}
	ew.printf("  Products without a price: %d\n", p.Zero)
	for _, b := range p.Buckets {
		ew.printf("  %s: %d products\n", b.Label, b.Count)
	}

	if len(r.ImageCategories) > 0 {
		ew.printf("\nImage categories:\n")
		for _, cnt := range r.ImageCategories {
			ew.printf("  * %s: %d products\n", cnt.Label, cnt.N)
		}
	}

	m := r.Missing
	ew.printf("\nMISSING DATA\n%s\n", rule)
	ew.printf("Products with missing data: %d\n", len(m.Products))
	ew.printf("\nMissing field counts:\n")
	for _, cnt := range m.FieldCounts() {
		ew.printf("  * %s: %d products\n", cnt.Label, cnt.N)
	}
	ew.printf("\nCategories with missing data:\n")
	for _, cnt := range m.CategoryCounts() {
		ew.printf("  * %s: %d products\n", cnt.Label, cnt.N)
	}
	ew.printf("\nProducts needing attention (first %d):\n", previewLimit)
	for i, mp := range m.Products {
		if i == previewLimit {
			break
		}
		ew.printf("  * ID %d: %s (%s)\n", mp.ID, mp.Name, strings.Join(mp.Missing, ", "))
	}

	if recs := m.Recommendations(); len(recs) > 0 {
		ew.printf("\nRECOMMENDATIONS\n%s\n", rule)
		for _, rec := range recs {
			ew.printf("* %s\n", rec)
		}
	}
	return ew.err
}

// WriteMissingReport writes the full per-product missing-data listing.
func WriteMissingReport(w io.Writer, m MissingReport) error {
	ew := &errWriter{w: w}
	ew.printf("MISSING DATA REPORT\n%s\n\n", rule)
	ew.printf("Total products with missing data: %d\n\n", len(m.Products))
	ew.printf("Products with missing data:\n")
	for _, mp := range m.Products {
		ew.printf("ID %d: %s - Missing: %s\n", mp.ID, mp.Name, strings.Join(mp.Missing, ", "))
	}
	return ew.err
}

// errWriter remembers the first write error so the report code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
