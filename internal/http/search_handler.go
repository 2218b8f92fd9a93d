package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/stylehub/internal/domain"
	"github.com/fjod/stylehub/internal/search"
)

type SearchHandler struct {
	search  *search.Service
	timeout time.Duration
}

func NewSearchHandler(svc *search.Service, timeout time.Duration) *SearchHandler {
	return &SearchHandler{search: svc, timeout: timeout}
}

type SearchResponse struct {
	Results []domain.Product `json:"results"`
}

type SaveSearchRequestDTO struct {
	Query string `json:"query"`
}

// Search runs a query. The 300ms debounce lives with the caller (the UI
// issues at most one request per quiet period); a blank query returns an
// empty result without a store round-trip.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	results, err := h.search.Search(ctx, r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if results == nil {
		results = []domain.Product{}
	}

	respondJSON(w, http.StatusOK, &SearchResponse{Results: results})
}

func (h *SearchHandler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	queries, err := h.search.History().List(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if queries == nil {
		queries = []string{}
	}

	respondJSON(w, http.StatusOK, map[string][]string{"recentSearches": queries})
}

// SaveSearch records a query in the recent-search history. The UI calls
// this when a search leads somewhere, not on every keystroke.
func (h *SearchHandler) SaveSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SaveSearchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.search.History().Add(ctx, req.Query); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SearchHandler) ClearRecentSearches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.search.History().Clear(ctx); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
