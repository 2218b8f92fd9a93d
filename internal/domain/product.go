package domain

import "time"

// Product is a catalog item as stored in the record store. Products are
// maintained externally and read-only from the storefront's point of view.
type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	Category    string    `bson:"category" json:"category"`
	Sizes       []string  `bson:"sizes,omitempty" json:"sizes"`
	Colors      []string  `bson:"colors,omitempty" json:"colors"`
	Images      []string  `bson:"images" json:"images"`
	InStock     bool      `bson:"in_stock" json:"inStock"`
	Featured    bool      `bson:"featured" json:"featured"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"createdAt,omitempty"`
}

// Category groups products for browsing. Slug is the URL identifier
// ("all" is a virtual slug matching every category).
type Category struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Slug      string    `bson:"slug" json:"slug"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"createdAt,omitempty"`
}

// FilterSpec is the filter state of a catalog view. Empty facets mean
// no constraint; the price range is inclusive on both ends.
type FilterSpec struct {
	Categories []string `json:"categories,omitempty"`
	Sizes      []string `json:"sizes,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	PriceMin   float64  `json:"priceMin"`
	PriceMax   float64  `json:"priceMax"`
}

// DefaultFilterSpec returns the spec every view starts from: all facets
// open and the full price range.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{PriceMin: 0, PriceMax: 500}
}
