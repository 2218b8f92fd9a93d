package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/stylehub/internal/catalog"
	"github.com/fjod/stylehub/internal/domain"
)

type CatalogHandler struct {
	catalog *catalog.Service
	timeout time.Duration
}

func NewCatalogHandler(svc *catalog.Service, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{catalog: svc, timeout: timeout}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

// List serves the catalog browse view. Filter facets arrive as
// comma-separated query params; missing params mean no constraint.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	spec := domain.DefaultFilterSpec()
	q := r.URL.Query()

	spec.Categories = splitParam(q.Get("category"))
	spec.Sizes = splitParam(q.Get("sizes"))
	spec.Colors = splitParam(q.Get("colors"))

	if v := q.Get("price_min"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_price", "price_min must be a number")
			return
		}
		spec.PriceMin = min
	}
	if v := q.Get("price_max"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_price", "price_max must be a number")
			return
		}
		spec.PriceMax = max
	}

	products, err := h.catalog.Browse(ctx, spec, q.Get("q"), catalog.ParseSortKey(q.Get("sort")))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products, Count: len(products)})
}

type ProductDetailResponse struct {
	Product *domain.Product  `json:"product"`
	Related []domain.Product `json:"related,omitempty"`
}

// Get serves the product detail view. With related=true, the related list
// is loaded after the product itself resolved - the list derives from the
// product's category, so the two loads are explicitly sequenced.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")

	product, err := h.catalog.Get(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	resp := &ProductDetailResponse{Product: product}

	if r.URL.Query().Get("related") == "true" {
		related, err := h.catalog.Related(ctx, id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		resp.Related = related
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.Featured(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products, Count: len(products)})
}

func (h *CatalogHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := chi.URLParam(r, "slug")

	products, err := h.catalog.ListByCategory(ctx, slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products, Count: len(products)})
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
