// Package transcode converts between flat spreadsheet rows and nested
// product records.
//
// Three row layouts are supported:
//   - the editable layout, used by convert/export/import,
//   - the priority layout, a sparse patch sheet of products needing attention,
//   - the master layout, the supplier's full inventory export.
package transcode

// Row is one spreadsheet row keyed by column header.
// A missing key means the column is absent from the sheet.
type Row = map[string]string

// EditableColumns is the column order of the editable spreadsheet.
var EditableColumns = []string{
	"id", "name", "scientific", "category", "price", "availability",
	"description", "features",
	"light", "water", "soil", "fertilizer", "pruning", "general",
	"height", "width",
	"images", "image_category",
}

// AdvisoryColumns are appended to EditableColumns on export.
// Decode ignores them.
var AdvisoryColumns = []string{
	"needs_description", "needs_care", "needs_category",
	"priority_score", "priority_level",
}

// PriorityColumns is the column order of the priority spreadsheet.
var PriorityColumns = []string{
	"priority_score", "id", "name", "price",
	"current_category", "current_description",
	"new_category", "new_description", "new_scientific", "new_features",
	"new_light", "new_water", "new_soil", "new_fertilizer", "new_pruning", "new_general",
	"new_height", "new_width",
	"notes", "status",
}

// MasterColumns lists the master inventory columns the decoder reads.
var MasterColumns = []string{
	"SKU", "PlantName", "CommonName", "Category", "Subcategory",
	"Price", "StockQty", "ContainerSize", "Supplier", "Location", "LastUpdated",
	"Uses", "CareSummary", "Tags", "Sun", "Water", "Soil",
	"MatureHeight_ft", "MatureWidth_ft",
	"BloomColor", "BloomSeason", "GrowthRate", "USDAZones",
	"FrostTolerance_F", "DroughtTolerance", "PetSafe", "Edible", "Advertisement",
}

// EditableExportColumns returns the editable columns followed by the advisory columns.
func EditableExportColumns() []string {
	cols := make([]string, 0, len(EditableColumns)+len(AdvisoryColumns))
	cols = append(cols, EditableColumns...)
	return append(cols, AdvisoryColumns...)
}
