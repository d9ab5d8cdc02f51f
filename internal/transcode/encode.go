package transcode

import (
	"strconv"
	"strings"

	"github.com/dukerupert/nursery/internal/domain"
)

// ListSeparator joins features and images in exported cells.
const ListSeparator = "; "

// Encode converts a record into an editable-layout row.
func Encode(p domain.ProductRecord) Row {
	row := Row{
		"id":             strconv.Itoa(p.ID),
		"name":           p.Name,
		"scientific":     p.Scientific,
		"category":       p.Category,
		"price":          FormatPrice(p.Price),
		"availability":   p.Availability,
		"description":    p.Description,
		"features":       strings.Join(p.Features, ListSeparator),
		"images":         strings.Join(p.Images, ListSeparator),
		"image_category": p.ImageCategory,
	}
	for _, key := range domain.CareKeys {
		row[key] = p.Care.Get(key)
	}
	for _, key := range domain.SizeKeys {
		row[key] = p.Size.Get(key)
	}
	return row
}

// EncodeWithAdvisory encodes a record and appends its advisory columns.
func EncodeWithAdvisory(p domain.ProductRecord) Row {
	row := Encode(p)
	a := Assess(p)
	row["needs_description"] = yesNo(a.NeedsDescription)
	row["needs_care"] = yesNo(a.NeedsCare)
	row["needs_category"] = yesNo(a.NeedsCategory)
	row["priority_score"] = strconv.Itoa(a.Score)
	row["priority_level"] = string(a.Level)
	return row
}

// FormatPrice renders a price with the shortest representation that
// parses back to the same value.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
