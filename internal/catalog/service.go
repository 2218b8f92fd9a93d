package catalog

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/fjod/stylehub/internal/domain"
	"github.com/fjod/stylehub/internal/store"
)

const relatedLimit = 4

// Service answers catalog reads. Concurrent views asking for the full
// product list share one store round-trip via singleflight.
type Service struct {
	products   store.Records[domain.Product]
	categories store.Records[domain.Category]
	sfg        singleflight.Group
}

func NewService(products store.Records[domain.Product], categories store.Records[domain.Category]) *Service {
	return &Service{
		products:   products,
		categories: categories,
	}
}

func (s *Service) loadAll(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do("products", func() (interface{}, error) {
		return s.products.List(ctx, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return v.([]domain.Product), nil
}

// Browse loads the catalog and applies the filter/sort pipeline.
func (s *Service) Browse(ctx context.Context, spec domain.FilterSpec, query string, key SortKey) ([]domain.Product, error) {
	products, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAndSort(products, spec, query, key), nil
}

// ListByCategory returns the category's products in store order.
// The virtual slug "all" matches every category.
func (s *Service) ListByCategory(ctx context.Context, slug string) ([]domain.Product, error) {
	products, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	if slug == "all" {
		return products, nil
	}

	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, slug) {
			result = append(result, p)
		}
	}
	return result, nil
}

// Featured returns the products flagged for the home page, in store order.
func (s *Service) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	var result []domain.Product
	for _, p := range products {
		if p.Featured {
			result = append(result, p)
		}
	}
	return result, nil
}

// Get returns a single product, or nil when the id is unknown.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.Get(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Related returns up to four other products from the same category.
// The product itself is loaded first; an unknown id yields nil, nil.
func (s *Service) Related(ctx context.Context, productID string) ([]domain.Product, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	products, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	var result []domain.Product
	for _, candidate := range products {
		if candidate.ID == p.ID || !strings.EqualFold(candidate.Category, p.Category) {
			continue
		}
		result = append(result, candidate)
		if len(result) == relatedLimit {
			break
		}
	}
	return result, nil
}

// Categories lists the browsable categories.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

// Slugify derives a category slug the way the store assigns them on create.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
