// Package search implements the storefront's quick search: a substring
// matcher over the catalog, a debouncer for keystroke-driven callers, and
// a small durable history of recent queries.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/fjod/stylehub/internal/catalog"
	"github.com/fjod/stylehub/internal/domain"
	"github.com/fjod/stylehub/internal/store"
)

// maxResults caps the overlay's result list.
const maxResults = 6

// Match returns the first products whose name or description contains the
// query (case-insensitive), in input order. A blank query matches nothing.
func Match(products []domain.Product, query string) []domain.Product {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	var result []domain.Product
	for _, p := range products {
		if !catalog.MatchesQuery(p, query) {
			continue
		}
		result = append(result, p)
		if len(result) == maxResults {
			break
		}
	}
	return result
}

// Service runs searches against the record store.
type Service struct {
	products store.Records[domain.Product]
	history  *History
}

func NewService(products store.Records[domain.Product], history *History) *Service {
	return &Service{products: products, history: history}
}

// Search loads the catalog and matches the query against it. A blank
// query short-circuits to an empty result without touching the store.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	products, err := s.products.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load products for search: %w", err)
	}
	return Match(products, query), nil
}

// History exposes the recent-search history backing this service.
func (s *Service) History() *History {
	return s.history
}
