package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/stylehub/internal/cart"
	"github.com/fjod/stylehub/internal/domain"
)

type CartHandler struct {
	cart    *cart.Service
	timeout time.Duration
}

func NewCartHandler(svc *cart.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{cart: svc, timeout: timeout}
}

type AddLineRequestDTO struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Price     float64 `json:"price"`
}

type SetQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Lines  []domain.CartLine `json:"lines"`
	Count  int               `json:"count"`
	Totals domain.CartTotals `json:"totals"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lines, err := h.cart.Lines(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	count := 0
	for _, line := range lines {
		count += line.Quantity
	}

	respondJSON(w, http.StatusOK, &CartResponse{
		Lines:  lines,
		Count:  count,
		Totals: displayTotals(cart.Totals(lines)),
	})
}

func (h *CartHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lines, err := h.cart.Lines(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, displayTotals(cart.Totals(lines)))
}

func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	line, err := h.cart.AddLine(ctx, domain.CartLine{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
		Price:     req.Price,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, line)
}

// SetQuantity sets a line's quantity. The service treats quantities below
// one as a no-op and returns the unchanged line, mirroring the storefront
// rule that removal is a separate, explicit action.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lineID := chi.URLParam(r, "id")

	var req SetQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	line, err := h.cart.SetQuantity(ctx, lineID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if line == nil {
		respondError(w, http.StatusNotFound, "not_found", "cart line not found")
		return
	}

	respondJSON(w, http.StatusOK, line)
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.cart.RemoveLine(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// displayTotals applies presentation rounding; the engine keeps totals
// unrounded until this point.
func displayTotals(t domain.CartTotals) domain.CartTotals {
	return domain.CartTotals{
		Subtotal: domain.Round2(t.Subtotal),
		Shipping: domain.Round2(t.Shipping),
		Tax:      domain.Round2(t.Tax),
		Total:    domain.Round2(t.Total),
	}
}
