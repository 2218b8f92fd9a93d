package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/stylehub/internal/checkout"
	"github.com/fjod/stylehub/internal/domain"
)

type CheckoutHandler struct {
	checkout *checkout.Service
	timeout  time.Duration
}

func NewCheckoutHandler(svc *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, timeout: timeout}
}

type SessionResponse struct {
	SessionID string                 `json:"sessionId"`
	Step      string                 `json:"step"`
	Shipping  domain.ShippingAddress `json:"shipping"`
	Payment   domain.PaymentInfo     `json:"payment"`
}

func (h *CheckoutHandler) sessionResponse(sess *checkout.Session) *SessionResponse {
	return &SessionResponse{
		SessionID: sess.ID,
		Step:      sess.Step().String(),
		Shipping:  sess.Shipping(),
		// Never echo the full card number back out.
		Payment: sess.Payment().Redacted(),
	}
}

func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess := h.checkout.Session(chi.URLParam(r, "session"))
	respondJSON(w, http.StatusOK, h.sessionResponse(sess))
}

func (h *CheckoutHandler) SetShipping(w http.ResponseWriter, r *http.Request) {
	var req domain.ShippingAddress
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := h.checkout.Session(chi.URLParam(r, "session"))
	sess.SetShipping(req)
	respondJSON(w, http.StatusOK, h.sessionResponse(sess))
}

func (h *CheckoutHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.PaymentInfo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := h.checkout.Session(chi.URLParam(r, "session"))
	sess.SetPayment(req)
	respondJSON(w, http.StatusOK, h.sessionResponse(sess))
}

func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	sess := h.checkout.Session(chi.URLParam(r, "session"))
	if err := sess.Next(); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.sessionResponse(sess))
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess := h.checkout.Session(chi.URLParam(r, "session"))
	sess.Back()
	respondJSON(w, http.StatusOK, h.sessionResponse(sess))
}

type SubmitResponse struct {
	Order       *domain.Order `json:"order"`
	CartCleared bool          `json:"cartCleared"`
}

// Submit places the order. A partial cart-clear failure still returns 201:
// the order exists; the reconciler converges the remaining lines.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.checkout.Submit(ctx, chi.URLParam(r, "session"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, &SubmitResponse{
		Order:       result.Order,
		CartCleared: result.CartCleared,
	})
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.checkout.GetOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if order == nil {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
