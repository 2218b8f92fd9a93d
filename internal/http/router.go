// Package http is the storefront's outward surface: a chi router mapping
// catalog, cart, checkout and search onto a JSON API.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fjod/stylehub/internal/cart"
	"github.com/fjod/stylehub/internal/catalog"
	"github.com/fjod/stylehub/internal/checkout"
	"github.com/fjod/stylehub/internal/search"
)

type RouterConfig struct {
	Catalog        *catalog.Service
	Cart           *cart.Service
	Checkout       *checkout.Service
	Search         *search.Service
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.RequestTimeout)
	cartHandler := NewCartHandler(cfg.Cart, cfg.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(cfg.Checkout, cfg.RequestTimeout)
	searchHandler := NewSearchHandler(cfg.Search, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.List)
			r.Get("/featured", catalogHandler.Featured)
			r.Get("/{id}", catalogHandler.Get)
		})

		r.Get("/categories", catalogHandler.Categories)
		r.Get("/categories/{slug}/products", catalogHandler.ListByCategory)

		r.Route("/search", func(r chi.Router) {
			r.Get("/", searchHandler.Search)
			r.Get("/recent", searchHandler.RecentSearches)
			r.Post("/recent", searchHandler.SaveSearch)
			r.Delete("/recent", searchHandler.ClearRecentSearches)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Get("/totals", cartHandler.GetTotals)
			r.Post("/lines", cartHandler.AddLine)
			r.Put("/lines/{id}", cartHandler.SetQuantity)
			r.Delete("/lines/{id}", cartHandler.RemoveLine)
		})

		r.Route("/checkout/{session}", func(r chi.Router) {
			r.Get("/", checkoutHandler.GetSession)
			r.Post("/shipping", checkoutHandler.SetShipping)
			r.Post("/payment", checkoutHandler.SetPayment)
			r.Post("/next", checkoutHandler.Next)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/submit", checkoutHandler.Submit)
		})

		r.Get("/orders/{id}", checkoutHandler.GetOrder)
	})

	return r
}
