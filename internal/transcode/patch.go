package transcode

import (
	"fmt"
	"strconv"

	"github.com/dukerupert/nursery/internal/domain"
)

// CurrentDescriptionWidth is how many characters of the current
// description the priority sheet shows before truncating.
const CurrentDescriptionWidth = 100

// StatusPending marks a priority row that has not been worked on.
const StatusPending = "PENDING"

// Patch is a sparse update decoded from a priority sheet row.
// Blank strings and nil pointers or slices mean "no override".
type Patch struct {
	ID int

	// Name and Price are the row's reference values. They are never applied.
	Name  string
	Price string

	Category    string
	Description string
	Scientific  string
	Features    []string

	// Care and Size replace the whole sub-object when set.
	Care *domain.Care
	Size *domain.Size
}

// IsEmpty reports whether the patch carries no overrides.
func (p Patch) IsEmpty() bool {
	return p.Category == "" && p.Description == "" && p.Scientific == "" &&
		p.Features == nil && p.Care == nil && p.Size == nil
}

// DecodePatch converts a priority-layout row into a patch.
// Only id is required; every new_ column is optional.
func DecodePatch(row Row) (Patch, error) {
	const op = "transcode.decode_patch"

	id, err := parseID(op, row)
	if err != nil {
		return Patch{}, err
	}

	p := Patch{
		ID:          id,
		Name:        field(row, "name"),
		Price:       field(row, "price"),
		Category:    field(row, "new_category"),
		Description: field(row, "new_description"),
		Scientific:  field(row, "new_scientific"),
	}
	if features := field(row, "new_features"); features != "" {
		p.Features = splitList(features, ";", 0)
	}

	var care domain.Care
	for _, key := range domain.CareKeys {
		care.Set(key, field(row, "new_"+key))
	}
	if !care.IsEmpty() {
		p.Care = &care
	}

	var size domain.Size
	for _, key := range domain.SizeKeys {
		size.Set(key, field(row, "new_"+key))
	}
	if !size.IsEmpty() {
		p.Size = &size
	}

	return p, nil
}

// DecodePatches decodes every priority row, aborting on the first failure.
func DecodePatches(rows []Row) ([]Patch, error) {
	return decodeBatch(rows, DecodePatch)
}

// EncodePriority renders a record as a blank priority-sheet row.
func EncodePriority(p domain.ProductRecord, a Advisory) Row {
	row := Row{
		"priority_score":      fmt.Sprintf("%d (%s)", a.Score, a.Level),
		"id":                  strconv.Itoa(p.ID),
		"name":                p.Name,
		"price":               FormatPrice(p.Price),
		"current_category":    p.Category,
		"current_description": truncate(p.Description, CurrentDescriptionWidth),
		"notes":               "",
		"status":              StatusPending,
	}
	for _, col := range PriorityColumns {
		if _, ok := row[col]; !ok {
			row[col] = ""
		}
	}
	return row
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width]) + "..."
}
