package transcode

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/nursery/internal/domain"
)

// MaxMasterFeatures caps the features taken from the master Tags column.
const MaxMasterFeatures = 5

// =============================================================================
// CATEGORY MAPPING
// =============================================================================

// KeywordRule assigns Category when any of Words appears in the plant name.
type KeywordRule struct {
	Category string   `yaml:"category"`
	Words    []string `yaml:"words"`
}

// CategoryMap normalizes supplier categories to storefront categories.
// Exact matches in Mapping win; otherwise Keywords are tried in order
// against the lowercased botanical name; otherwise Fallback is used.
type CategoryMap struct {
	Mapping  map[string]string `yaml:"mapping"`
	Keywords []KeywordRule     `yaml:"keywords"`
	Fallback string            `yaml:"fallback"`
}

// DefaultCategoryMap returns the built-in supplier category mapping.
func DefaultCategoryMap() CategoryMap {
	return CategoryMap{
		Mapping: map[string]string{
			"Tree":            "Trees",
			"Tropical Plant":  "Tropical",
			"Vine/Shrub":      "Shrubs",
			"Palm":            "Palms",
			"Fruit Tree":      "Fruit Trees",
			"Shrub":           "Shrubs",
			"Perennial":       "Perennials",
			"Succulent":       "Succulents",
			"Succulent Shrub": "Succulents",
			"Misc":            "Other",
		},
		Keywords: []KeywordRule{
			{Category: "Palms", Words: []string{"palm"}},
			{Category: "Trees", Words: []string{"tree"}},
			{Category: "Shrubs", Words: []string{"shrub", "bush"}},
			{Category: "Succulents", Words: []string{"cactus", "succulent"}},
		},
		Fallback: "Other",
	}
}

// LoadCategoryMap reads a YAML category map. Sections left out of the
// file keep their built-in defaults.
func LoadCategoryMap(path string) (CategoryMap, error) {
	const op = "transcode.load_category_map"

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return CategoryMap{}, domain.NotFound(op, "category map", path)
		}
		return CategoryMap{}, domain.Internal(err, op, "failed to read category map")
	}

	var m CategoryMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return CategoryMap{}, domain.WrapError(err, domain.EFORMAT, op, "invalid category map")
	}

	def := DefaultCategoryMap()
	if m.Mapping == nil {
		m.Mapping = def.Mapping
	}
	if m.Keywords == nil {
		m.Keywords = def.Keywords
	}
	if m.Fallback == "" {
		m.Fallback = def.Fallback
	}
	return m, nil
}

// Resolve returns the storefront category for a supplier category and plant name.
func (m CategoryMap) Resolve(category, plantName string) string {
	if mapped, ok := m.Mapping[strings.TrimSpace(category)]; ok {
		return mapped
	}
	name := strings.ToLower(plantName)
	for _, rule := range m.Keywords {
		for _, w := range rule.Words {
			if strings.Contains(name, strings.ToLower(w)) {
				return rule.Category
			}
		}
	}
	return m.Fallback
}

// =============================================================================
// MASTER DECODER
// =============================================================================

// MasterDecoder decodes rows of the supplier's master inventory export.
type MasterDecoder struct {
	Categories CategoryMap
}

// NewMasterDecoder returns a decoder using the given category map.
func NewMasterDecoder(categories CategoryMap) *MasterDecoder {
	return &MasterDecoder{Categories: categories}
}

// IDFromSKU extracts the numeric suffix of a SKU such as "TRE-ACE-25GAL-001".
// SKUs with fewer than three dash-separated parts have no id.
func IDFromSKU(sku string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(sku), "-")
	if len(parts) < 3 {
		return 0, false
	}
	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Decode converts one master row into a product record with no images.
func (d *MasterDecoder) Decode(row Row) (domain.ProductRecord, error) {
	const op = "transcode.decode_master"

	sku := field(row, "SKU")
	id, ok := IDFromSKU(sku)
	if !ok {
		return domain.ProductRecord{}, domain.FormatError(op, "SKU", sku)
	}

	price, err := parsePrice(op, field(row, "Price"))
	if err != nil {
		return domain.ProductRecord{}, err
	}

	stock := 0
	if raw := field(row, "StockQty"); raw != "" {
		if stock, err = parseInt(op, "StockQty", raw); err != nil {
			return domain.ProductRecord{}, err
		}
	}

	scientific := field(row, "PlantName")
	name := field(row, "CommonName")
	if name == "" {
		name = scientific
	}

	rec := domain.ProductRecord{
		ID:           id,
		Name:         name,
		Scientific:   scientific,
		Category:     d.Categories.Resolve(field(row, "Category"), scientific),
		Price:        price,
		Description:  masterDescription(row, name),
		Images:       []string{},
		Features:     splitList(field(row, "Tags"), ",", MaxMasterFeatures),
		Availability: availability(stock),
		Extended: domain.Extended{
			SKU:              sku,
			ContainerSize:    field(row, "ContainerSize"),
			Supplier:         field(row, "Supplier"),
			Location:         field(row, "Location"),
			LastUpdated:      field(row, "LastUpdated"),
			BloomColor:       field(row, "BloomColor"),
			BloomSeason:      field(row, "BloomSeason"),
			GrowthRate:       field(row, "GrowthRate"),
			USDAZones:        field(row, "USDAZones"),
			FrostTolerance:   field(row, "FrostTolerance_F"),
			DroughtTolerance: field(row, "DroughtTolerance"),
			PetSafe:          field(row, "PetSafe"),
			Edible:           field(row, "Edible"),
			Advertisement:    field(row, "Advertisement"),
		},
	}
	rec.Care.Set("light", field(row, "Sun"))
	rec.Care.Set("water", field(row, "Water"))
	rec.Care.Set("soil", field(row, "Soil"))
	rec.Care.Set("general", field(row, "CareSummary"))
	rec.Size.Set("height", matureSize(field(row, "MatureHeight_ft")))
	rec.Size.Set("width", matureSize(field(row, "MatureWidth_ft")))

	if err := checkRecord(op, rec); err != nil {
		return domain.ProductRecord{}, err
	}
	return rec, nil
}

// DecodeAll decodes every master row, aborting on the first failure.
func (d *MasterDecoder) DecodeAll(rows []Row) ([]domain.ProductRecord, error) {
	return decodeBatch(rows, d.Decode)
}

func masterDescription(row Row, name string) string {
	if uses := field(row, "Uses"); uses != "" {
		return uses
	}
	if summary := field(row, "CareSummary"); summary != "" {
		return summary
	}
	return fmt.Sprintf("Beautiful %s perfect for your garden.", name)
}

func availability(stock int) string {
	if stock > 0 {
		return domain.AvailabilityInStock
	}
	return domain.AvailabilityOutOfStock
}

func matureSize(v string) string {
	if v == "" || v == "0" {
		return ""
	}
	return v + " ft mature"
}
