package store

import (
	"time"

	"github.com/fjod/stylehub/internal/domain"
)

// Per-kind identities. Apply keys mirror the bson field names so the same
// update maps work against Mongo and the in-memory store.

func ProductIdentity() Identity[domain.Product] {
	return Identity[domain.Product]{
		Get: func(p domain.Product) string { return p.ID },
		Set: func(p domain.Product, id string) domain.Product { p.ID = id; return p },
		Apply: func(p domain.Product, updates map[string]any) domain.Product {
			if v, ok := updates["name"].(string); ok {
				p.Name = v
			}
			if v, ok := updates["description"].(string); ok {
				p.Description = v
			}
			if v, ok := updates["price"].(float64); ok {
				p.Price = v
			}
			if v, ok := updates["in_stock"].(bool); ok {
				p.InStock = v
			}
			if v, ok := updates["featured"].(bool); ok {
				p.Featured = v
			}
			return p
		},
	}
}

func CartLineIdentity() Identity[domain.CartLine] {
	return Identity[domain.CartLine]{
		Get: func(l domain.CartLine) string { return l.ID },
		Set: func(l domain.CartLine, id string) domain.CartLine { l.ID = id; return l },
		Apply: func(l domain.CartLine, updates map[string]any) domain.CartLine {
			if v, ok := updates["quantity"].(int); ok {
				l.Quantity = v
			}
			if v, ok := updates["added_at"].(time.Time); ok {
				l.AddedAt = v
			}
			return l
		},
	}
}

func OrderIdentity() Identity[domain.Order] {
	return Identity[domain.Order]{
		Get: func(o domain.Order) string { return o.ID },
		Set: func(o domain.Order, id string) domain.Order { o.ID = id; return o },
		Apply: func(o domain.Order, updates map[string]any) domain.Order {
			if v, ok := updates["status"].(domain.OrderStatus); ok {
				o.Status = v
			}
			if v, ok := updates["status"].(string); ok {
				o.Status = domain.OrderStatus(v)
			}
			return o
		},
	}
}

func CategoryIdentity() Identity[domain.Category] {
	return Identity[domain.Category]{
		Get: func(c domain.Category) string { return c.ID },
		Set: func(c domain.Category, id string) domain.Category { c.ID = id; return c },
		Apply: func(c domain.Category, updates map[string]any) domain.Category {
			if v, ok := updates["name"].(string); ok {
				c.Name = v
			}
			if v, ok := updates["slug"].(string); ok {
				c.Slug = v
			}
			return c
		},
	}
}
