package domain

import "strings"

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// Availability values written by the importers.
const (
	AvailabilityInStock    = "In Stock"
	AvailabilityOutOfStock = "Out of Stock"
)

// Product card asset kinds stored under ProductRecord.ProductCard.
const (
	CardImage         = "card_image"
	CardHTML          = "card_html"
	CardSpinAnimation = "spin_animation"
	CardRounded       = "rounded_card"
)

// CardKinds lists the product card asset kinds in publishing order.
var CardKinds = []string{CardImage, CardHTML, CardSpinAnimation, CardRounded}

// Care holds plant care instructions. A field is only ever set to a
// non-blank value; blank means the key is absent in the catalog file.
type Care struct {
	Light      string `json:"light,omitempty"`
	Water      string `json:"water,omitempty"`
	Soil       string `json:"soil,omitempty"`
	Fertilizer string `json:"fertilizer,omitempty"`
	Pruning    string `json:"pruning,omitempty"`
	General    string `json:"general,omitempty"`
}

// CareKeys lists the care keys in column order.
var CareKeys = []string{"light", "water", "soil", "fertilizer", "pruning", "general"}

// Get returns the value for a care key, or "" for unknown or absent keys.
func (c Care) Get(key string) string {
	switch key {
	case "light":
		return c.Light
	case "water":
		return c.Water
	case "soil":
		return c.Soil
	case "fertilizer":
		return c.Fertilizer
	case "pruning":
		return c.Pruning
	case "general":
		return c.General
	}
	return ""
}

// Set assigns a care key. Blank values clear the key.
func (c *Care) Set(key, value string) {
	value = strings.TrimSpace(value)
	switch key {
	case "light":
		c.Light = value
	case "water":
		c.Water = value
	case "soil":
		c.Soil = value
	case "fertilizer":
		c.Fertilizer = value
	case "pruning":
		c.Pruning = value
	case "general":
		c.General = value
	}
}

// IsEmpty reports whether no care key is present.
func (c Care) IsEmpty() bool {
	return c == Care{}
}

// Size holds mature plant dimensions as free text (e.g. "25 ft mature").
type Size struct {
	Height string `json:"height,omitempty"`
	Width  string `json:"width,omitempty"`
}

// SizeKeys lists the size keys in column order.
var SizeKeys = []string{"height", "width"}

// Get returns the value for a size key, or "".
func (s Size) Get(key string) string {
	switch key {
	case "height":
		return s.Height
	case "width":
		return s.Width
	}
	return ""
}

// Set assigns a size key. Blank values clear the key.
func (s *Size) Set(key, value string) {
	value = strings.TrimSpace(value)
	switch key {
	case "height":
		s.Height = value
	case "width":
		s.Width = value
	}
}

// IsEmpty reports whether no size key is present.
func (s Size) IsEmpty() bool {
	return s == Size{}
}

// ProductRecord is one sellable plant in the catalog.
// ID is the primary key; it is unique across a Catalog.
type ProductRecord struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Scientific    string   `json:"scientific"`
	Category      string   `json:"category"`
	Price         float64  `json:"price" validate:"gte=0"`
	Description   string   `json:"description"`
	Images        []string `json:"images"`
	Features      []string `json:"features"`
	Care          Care     `json:"care"`
	Size          Size     `json:"size"`
	Availability  string   `json:"availability"`
	ImageCategory string   `json:"image_category"`

	// Master catalog attributes. Blank values are omitted from the file.
	Extended

	// ProductCard maps a card asset kind to its public URL path.
	ProductCard map[string]string `json:"product_card,omitempty"`
}

// Extended holds the optional attributes only the master catalog carries.
type Extended struct {
	SKU              string `json:"sku,omitempty"`
	ContainerSize    string `json:"container_size,omitempty"`
	Supplier         string `json:"supplier,omitempty"`
	Location         string `json:"location,omitempty"`
	LastUpdated      string `json:"last_updated,omitempty"`
	BloomColor       string `json:"bloom_color,omitempty"`
	BloomSeason      string `json:"bloom_season,omitempty"`
	GrowthRate       string `json:"growth_rate,omitempty"`
	USDAZones        string `json:"usda_zones,omitempty"`
	FrostTolerance   string `json:"frost_tolerance,omitempty"`
	DroughtTolerance string `json:"drought_tolerance,omitempty"`
	PetSafe          string `json:"pet_safe,omitempty"`
	Edible           string `json:"edible,omitempty"`
	Advertisement    string `json:"advertisement,omitempty"`
}

// Overlay returns e with every non-blank field of other copied over it.
func (e Extended) Overlay(other Extended) Extended {
	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	pick(&e.SKU, other.SKU)
	pick(&e.ContainerSize, other.ContainerSize)
	pick(&e.Supplier, other.Supplier)
	pick(&e.Location, other.Location)
	pick(&e.LastUpdated, other.LastUpdated)
	pick(&e.BloomColor, other.BloomColor)
	pick(&e.BloomSeason, other.BloomSeason)
	pick(&e.GrowthRate, other.GrowthRate)
	pick(&e.USDAZones, other.USDAZones)
	pick(&e.FrostTolerance, other.FrostTolerance)
	pick(&e.DroughtTolerance, other.DroughtTolerance)
	pick(&e.PetSafe, other.PetSafe)
	pick(&e.Edible, other.Edible)
	pick(&e.Advertisement, other.Advertisement)
	return e
}

// Normalize replaces nil slices with empty ones so they encode as [] rather than null.
func (p *ProductRecord) Normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
}

// Clone returns a deep copy of the record.
func (p ProductRecord) Clone() ProductRecord {
	out := p
	out.Images = append([]string(nil), p.Images...)
	out.Features = append([]string(nil), p.Features...)
	if p.ProductCard != nil {
		out.ProductCard = make(map[string]string, len(p.ProductCard))
		for k, v := range p.ProductCard {
			out.ProductCard[k] = v
		}
	}
	out.Normalize()
	return out
}

// =============================================================================
// CATALOG
// =============================================================================

// ImportSummary records the outcome of the last import run.
type ImportSummary struct {
	ProductsUpdated  int `json:"products_updated"`
	ProductsInserted int `json:"new_products_added"`
	UnknownSkipped   int `json:"unknown_ids_skipped,omitempty"`
}

// Metadata describes the catalog file as a whole.
type Metadata struct {
	TotalProducts  int            `json:"total_products"`
	Source         string         `json:"source,omitempty"`
	LastUpdated    string         `json:"last_updated,omitempty"`
	ConversionDate string         `json:"conversion_date,omitempty"`
	RunID          string         `json:"run_id,omitempty"`
	ImportSummary  *ImportSummary `json:"import_summary,omitempty"`
}

// Catalog is the whole product database. It is loaded wholesale,
// mutated in memory and written back wholesale.
type Catalog struct {
	Products []ProductRecord `json:"products"`
	Metadata Metadata        `json:"metadata"`
}

// Index maps product ids to their position in Products.
func (c *Catalog) Index() map[int]int {
	idx := make(map[int]int, len(c.Products))
	for i, p := range c.Products {
		idx[p.ID] = i
	}
	return idx
}

// Find returns a pointer to the product with the given id.
func (c *Catalog) Find(id int) (*ProductRecord, bool) {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i], true
		}
	}
	return nil, false
}

// FindBySKU returns a pointer to the product with the given SKU.
func (c *Catalog) FindBySKU(sku string) (*ProductRecord, bool) {
	for i := range c.Products {
		if c.Products[i].SKU == sku {
			return &c.Products[i], true
		}
	}
	return nil, false
}

// ByID returns the products keyed by id.
func (c *Catalog) ByID() map[int]ProductRecord {
	out := make(map[int]ProductRecord, len(c.Products))
	for _, p := range c.Products {
		out[p.ID] = p
	}
	return out
}
