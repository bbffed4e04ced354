// Package handler exposes the catalog query engine over HTTP.
//
// The wire contract is the storefront envelope: every response is
// {"success": bool, ...} with "data" on success and "error" (plus optional
// "details") on failure.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mercadolite/storefront/internal/catalog"
)

// Handler routes storefront API requests to the catalog query engine.
type Handler struct {
	engine    *catalog.Engine
	startedAt time.Time
}

// NewHandler constructs a Handler over the given engine.
func NewHandler(engine *catalog.Engine) *Handler {
	return &Handler{
		engine:    engine,
		startedAt: time.Now(),
	}
}

// Routes returns the /api route tree. The static /products subpaths are
// registered before the {id} wildcard so "categories" and "stats" are never
// captured as product ids.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", h.health)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/categories", h.listCategories)
		r.Get("/stats", h.getStats)
		r.Get("/{id}", h.getProduct)
		r.Post("/{id}/discount", h.applyDiscount)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Seconds(),
	})
}
