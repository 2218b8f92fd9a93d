package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/stylehub/internal/checkout"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service failures onto the API's error taxonomy.
// Anything not recognized is a record-store problem: the operation was not
// committed and the client may retry.
func handleServiceError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(w, verr)
	case errors.Is(err, checkout.ErrSubmitInFlight):
		respondError(w, http.StatusConflict, "submit_in_flight", err.Error())
	case errors.Is(err, checkout.ErrNotAtReview):
		respondError(w, http.StatusConflict, "not_at_review", err.Error())
	case errors.Is(err, checkout.ErrSubmitRequired):
		respondError(w, http.StatusConflict, "submit_required", err.Error())
	case errors.Is(err, checkout.ErrForwardJump):
		respondError(w, http.StatusConflict, "forward_jump", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	default:
		log.Printf("store operation failed: %v", err)
		respondError(w, http.StatusBadGateway, "store_unavailable", "record store operation failed")
	}
}

func respondValidation(w http.ResponseWriter, verr *checkout.ValidationError) {
	respondJSON(w, http.StatusUnprocessableEntity, struct {
		ErrorResponse
		Fields []string `json:"fields"`
	}{
		ErrorResponse: ErrorResponse{
			Error: "required fields missing",
			Code:  "validation_failed",
		},
		Fields: verr.Fields,
	})
}
