package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/mercadolite/storefront/internal/catalog"
	"github.com/mercadolite/storefront/internal/domain/product"
)

const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 50
)

// GET /api/products
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filters, page, limit, err := parseListQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := h.engine.List(r.Context(), filters, page, limit)
	if err != nil {
		respondInternal(w, r, "Failed to fetch products", err)
		return
	}

	respondData(w, http.StatusOK, paginatedDTO{
		Items:      toProductDTOs(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// GET /api/products/{id}
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	p, err := h.engine.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found", nil)
			return
		}
		respondInternal(w, r, "Failed to fetch product", err)
		return
	}

	respondData(w, http.StatusOK, toProductDTO(*p))
}

// GET /api/products/categories
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.engine.Categories(r.Context())
	if err != nil {
		respondInternal(w, r, "Failed to fetch categories", err)
		return
	}
	respondData(w, http.StatusOK, categories)
}

// GET /api/products/stats
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats(r.Context())
	if err != nil {
		respondInternal(w, r, "Failed to fetch statistics", err)
		return
	}

	respondData(w, http.StatusOK, statsDTO{
		TotalProducts: stats.TotalProducts,
		Categories:    stats.Categories,
		PriceRange: priceRangeDTO{
			Min:     stats.PriceRange.Min.InexactFloat64(),
			Max:     stats.PriceRange.Max.InexactFloat64(),
			Average: stats.PriceRange.Average.InexactFloat64(),
		},
		StockTotal: stats.StockTotal,
	})
}

// POST /api/products/{id}/discount
func (h *Handler) applyDiscount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	var body struct {
		Percentage json.RawMessage `json:"percentage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Percentage) == 0 {
		respondError(w, http.StatusBadRequest, "Invalid data for applying discount",
			"percentage is required and must be a number")
		return
	}
	// A quoted number is still a string: "50" is rejected, 50 is not.
	percentage, err := parsePercentage(body.Percentage)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid data for applying discount",
			"percentage is required and must be a number")
		return
	}

	p, err := h.engine.ApplyDiscount(r.Context(), id, percentage)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidPercentage):
			respondError(w, http.StatusBadRequest, "Invalid data for applying discount", err.Error())
		case errors.Is(err, product.ErrNotFound):
			respondError(w, http.StatusNotFound, "Product not found", nil)
		default:
			respondInternal(w, r, "Failed to apply discount", err)
		}
		return
	}

	respondMessage(w, http.StatusOK, toProductDTO(*p),
		"Discount of "+percentage.String()+"% applied successfully")
}

// parseListQuery validates the listing query parameters. Out-of-range page
// and limit are rejected, not clamped.
func parseListQuery(r *http.Request) (catalog.Filters, int, int, error) {
	q := r.URL.Query()
	filters := catalog.Filters{
		Category:     q.Get("category"),
		Search:       q.Get("search"),
		FreeShipping: q.Get("freeShipping") == "true",
	}

	var err error
	if filters.MinPrice, err = parsePrice(q.Get("minPrice"), "minPrice"); err != nil {
		return catalog.Filters{}, 0, 0, err
	}
	if filters.MaxPrice, err = parsePrice(q.Get("maxPrice"), "maxPrice"); err != nil {
		return catalog.Filters{}, 0, 0, err
	}

	page := defaultPage
	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return catalog.Filters{}, 0, 0, errors.Errorf("page must be an integer >= 1, got %q", raw)
		}
	}

	limit := defaultLimit
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			return catalog.Filters{}, 0, 0, errors.Errorf("limit must be an integer in [1, %d], got %q", maxLimit, raw)
		}
	}

	return filters, page, limit, nil
}

// parsePercentage accepts only a bare JSON number.
func parsePercentage(raw json.RawMessage) (decimal.Decimal, error) {
	if raw[0] == '"' {
		return decimal.Decimal{}, errors.New("percentage must be a number, not a string")
	}
	return decimal.NewFromString(string(raw))
}

func parsePrice(raw, name string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		return nil, errors.Errorf("%s must be a number >= 0, got %q", name, raw)
	}
	return &v, nil
}
