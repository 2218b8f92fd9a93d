package domain

import "time"

// CartLine is one product+variant entry in the cart. Price is a snapshot
// taken when the line was added and is never re-derived from the product.
type CartLine struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ProductID string    `bson:"product_id" json:"productId"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	Size      string    `bson:"size,omitempty" json:"size,omitempty"`
	Color     string    `bson:"color,omitempty" json:"color,omitempty"`
	Price     float64   `bson:"price" json:"price"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

// SameVariant reports whether two lines refer to the same
// (product, size, color) triple. At most one cart line may exist per variant.
func (l CartLine) SameVariant(other CartLine) bool {
	return l.ProductID == other.ProductID && l.Size == other.Size && l.Color == other.Color
}

// CartTotals is the monetary breakdown of a cart. Values are unrounded;
// apply Round2 at presentation time only.
type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}
