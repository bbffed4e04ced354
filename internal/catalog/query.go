package catalog

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/mercadolite/storefront/internal/domain/product"
)

var hundred = decimal.NewFromInt(100)

// ErrInvalidPercentage is returned when a discount percentage reaches the
// engine outside the [0, 100] range. The boundary validates first; this is
// the backstop business-rule check.
var ErrInvalidPercentage = errors.New("discount percentage must be between 0 and 100")

// Filters is the set of optional narrowing predicates for a list query.
// Zero values mean "absent": empty strings, nil bounds, and a false
// FreeShipping all leave the working set untouched.
type Filters struct {
	// Category matches exactly, case-sensitive.
	Category string
	// Search matches case-insensitively as a substring of title or description.
	Search string
	// MinPrice and MaxPrice are inclusive bounds.
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	// FreeShipping, when true, restricts to products with free shipping.
	FreeShipping bool
}

// Result is a single page of a filtered listing. Total counts the filtered
// collection before pagination.
type Result struct {
	Items      []product.Product
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// Stats aggregates the full, unfiltered catalog. For an empty catalog the
// price range is all zeros.
type Stats struct {
	TotalProducts int
	Categories    []string
	PriceRange    PriceRange
	StockTotal    int
}

// PriceRange holds min, max and arithmetic mean of all catalog prices.
type PriceRange struct {
	Min     decimal.Decimal
	Max     decimal.Decimal
	Average decimal.Decimal
}

// Engine answers catalog queries: filtering, pagination, lookup, aggregation,
// and discount projection. All operations are pure reads over the store.
type Engine struct {
	store *Store
}

// NewEngine creates an Engine over the given store.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// List applies the present filters in a fixed order (category, search,
// minPrice, maxPrice, freeShipping), each narrowing the working set while
// preserving catalog insertion order, then returns the requested page.
// A page past the end yields empty items with the total unchanged.
// Page and limit are trusted: the boundary rejects out-of-range values.
func (e *Engine) List(ctx context.Context, f Filters, page, limit int) (*Result, error) {
	products, err := e.store.Products(ctx)
	if err != nil {
		return nil, err
	}

	filtered := products
	if f.Category != "" {
		filtered = narrow(filtered, func(p product.Product) bool {
			return p.Category == f.Category
		})
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		filtered = narrow(filtered, func(p product.Product) bool {
			return strings.Contains(strings.ToLower(p.Title), needle) ||
				strings.Contains(strings.ToLower(p.Description), needle)
		})
	}
	if f.MinPrice != nil {
		filtered = narrow(filtered, func(p product.Product) bool {
			return p.Price.GreaterThanOrEqual(*f.MinPrice)
		})
	}
	if f.MaxPrice != nil {
		filtered = narrow(filtered, func(p product.Product) bool {
			return p.Price.LessThanOrEqual(*f.MaxPrice)
		})
	}
	if f.FreeShipping {
		filtered = narrow(filtered, func(p product.Product) bool {
			return p.Shipping.Free
		})
	}

	total := len(filtered)
	totalPages := (total + limit - 1) / limit

	offset := (page - 1) * limit
	items := []product.Product{}
	if offset < total {
		end := min(offset+limit, total)
		items = filtered[offset:end]
	}

	return &Result{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// GetByID returns the product with the given id, or product.ErrNotFound.
func (e *Engine) GetByID(ctx context.Context, id string) (*product.Product, error) {
	products, err := e.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, product.ErrNotFound
}

// Categories returns each distinct category exactly once, in first-occurrence
// order across the full catalog.
func (e *Engine) Categories(ctx context.Context) ([]string, error) {
	products, err := e.store.Products(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories, nil
}

// ApplyDiscount returns a copy of the product with the discounted price,
// the original price preserved, and the discount attached. The stored
// catalog is never mutated: the projection is invisible to other callers.
func (e *Engine) ApplyDiscount(ctx context.Context, id string, percentage decimal.Decimal) (*product.Product, error) {
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return nil, ErrInvalidPercentage
	}

	p, err := e.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	discounted := p.Price.Mul(hundred.Sub(percentage)).Div(hundred).Round(2)
	amount := p.Price.Sub(discounted).Round(2)

	original := p.Price
	projected := *p
	projected.Price = discounted
	projected.OriginalPrice = &original
	projected.Discount = &product.Discount{
		Percentage: percentage,
		Amount:     amount,
	}
	return &projected, nil
}

// Stats aggregates the full unfiltered catalog: product count, category list,
// price range with 2dp mean, and total stock.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	products, err := e.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := e.Categories(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalProducts: len(products),
		Categories:    categories,
	}
	if len(products) == 0 {
		return stats, nil
	}

	minPrice := products[0].Price
	maxPrice := products[0].Price
	sum := decimal.Zero
	for _, p := range products {
		if p.Price.LessThan(minPrice) {
			minPrice = p.Price
		}
		if p.Price.GreaterThan(maxPrice) {
			maxPrice = p.Price
		}
		sum = sum.Add(p.Price)
		stats.StockTotal += p.Stock
	}

	stats.PriceRange = PriceRange{
		Min:     minPrice,
		Max:     maxPrice,
		Average: sum.Div(decimal.NewFromInt(int64(len(products)))).Round(2),
	}
	return stats, nil
}

// narrow returns the subset of products satisfying keep, preserving order.
func narrow(products []product.Product, keep func(product.Product) bool) []product.Product {
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
