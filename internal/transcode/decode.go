package transcode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/nursery/internal/domain"
)

var validate = validator.New()

// Decode converts an editable-layout row into a product record.
//
// All values are trimmed. A missing or non-numeric id, or a malformed
// price, yields an EFORMAT error. Unknown columns are ignored and
// missing optional columns read as blank.
func Decode(row Row) (domain.ProductRecord, error) {
	const op = "transcode.decode"

	id, err := parseID(op, row)
	if err != nil {
		return domain.ProductRecord{}, err
	}

	price, err := parsePrice(op, field(row, "price"))
	if err != nil {
		return domain.ProductRecord{}, err
	}

	rec := domain.ProductRecord{
		ID:            id,
		Name:          field(row, "name"),
		Scientific:    field(row, "scientific"),
		Category:      field(row, "category"),
		Price:         price,
		Description:   field(row, "description"),
		Images:        singleImage(field(row, "images")),
		Features:      splitList(field(row, "features"), ";", 0),
		Availability:  field(row, "availability"),
		ImageCategory: field(row, "image_category"),
	}
	for _, key := range domain.CareKeys {
		rec.Care.Set(key, field(row, key))
	}
	for _, key := range domain.SizeKeys {
		rec.Size.Set(key, field(row, key))
	}

	if err := checkRecord(op, rec); err != nil {
		return domain.ProductRecord{}, err
	}
	return rec, nil
}

// DecodeAll decodes every row, aborting on the first failure.
// The error names the 1-based data row that failed.
func DecodeAll(rows []Row) ([]domain.ProductRecord, error) {
	return decodeBatch(rows, Decode)
}

func decodeBatch[T any](rows []Row, fn func(Row) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		v, err := fn(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// field returns the trimmed value of a column, or "" when absent.
func field(row Row, column string) string {
	return strings.TrimSpace(row[column])
}

func parseID(op string, row Row) (int, error) {
	raw, ok := row["id"]
	if !ok {
		return 0, domain.Errorf(domain.EFORMAT, op, "missing column %q", "id")
	}
	return parseInt(op, "id", raw)
}

func parseInt(op, name, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.FormatError(op, name, raw)
	}
	return v, nil
}

// parsePrice treats a blank price as zero.
func parsePrice(op, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domain.FormatError(op, "price", raw)
	}
	return v, nil
}

// splitList splits s on sep, trims each part and drops blanks.
// A positive limit caps the number of parts kept.
func splitList(s, sep string, limit int) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func singleImage(v string) []string {
	if v == "" {
		return []string{}
	}
	return []string{v}
}

func checkRecord(op string, rec domain.ProductRecord) error {
	if err := validate.Struct(rec); err != nil {
		return domain.FormatError(op, "price", strconv.FormatFloat(rec.Price, 'f', -1, 64))
	}
	return nil
}
