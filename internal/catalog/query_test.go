package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadolite/storefront/internal/domain/product"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func dp(v string) *decimal.Decimal {
	dec := decimal.RequireFromString(v)
	return &dec
}

// staticSource is a Source over a fixed slice, optionally failing.
type staticSource struct {
	products []product.Product
	err      error
}

func (s *staticSource) Load(_ context.Context) ([]product.Product, error) {
	return s.products, s.err
}

func testCatalog() []product.Product {
	return []product.Product{
		{
			ID: "P1", Title: "Alpha", Description: "Samsung Galaxy phone",
			Price: d("100"), Category: "phones", Stock: 5,
			Shipping: product.Shipping{Free: true},
		},
		{
			ID: "P2", Title: "Beta", Description: "Flagship phone",
			Price: d("200"), Category: "phones", Stock: 2,
			Shipping: product.Shipping{Free: false, Cost: dp("15.50")},
		},
		{
			ID: "P3", Title: "Gamma", Description: "A paperback novel",
			Price: d("20"), Category: "books", Stock: 10,
			Shipping: product.Shipping{Free: true},
		},
	}
}

func newTestEngine(t *testing.T, products []product.Product) *Engine {
	t.Helper()
	return NewEngine(NewStore(&staticSource{products: products}))
}

func ids(items []product.Product) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestList(t *testing.T) {
	tests := []struct {
		name           string
		filters        Filters
		page, limit    int
		wantIDs        []string
		wantTotal      int
		wantTotalPages int
	}{
		{
			name:           "no filters returns everything in order",
			page:           1,
			limit:          12,
			wantIDs:        []string{"P1", "P2", "P3"},
			wantTotal:      3,
			wantTotalPages: 1,
		},
		{
			name:           "category filter with limit 1 pages the result",
			filters:        Filters{Category: "phones"},
			page:           1,
			limit:          1,
			wantIDs:        []string{"P1"},
			wantTotal:      2,
			wantTotalPages: 2,
		},
		{
			name:           "second page of category filter",
			filters:        Filters{Category: "phones"},
			page:           2,
			limit:          1,
			wantIDs:        []string{"P2"},
			wantTotal:      2,
			wantTotalPages: 2,
		},
		{
			name:           "category filter is case-sensitive",
			filters:        Filters{Category: "Phones"},
			page:           1,
			limit:          12,
			wantIDs:        []string{},
			wantTotal:      0,
			wantTotalPages: 0,
		},
		{
			name:           "search is case-insensitive over title",
			filters:        Filters{Search: "ALPHA"},
			page:           1,
			limit:          12,
			wantIDs:        []string{"P1"},
			wantTotal:      1,
			wantTotalPages: 1,
		},
		{
			name:           "search matches description substring",
			filters:        Filters{Search: "sam"},
			page:           1,
			limit:          12,
			wantIDs:        []string{"P1"},
			wantTotal:      1,
			wantTotalPages: 1,
		},
		{
			name:           "inclusive price bounds",
			filters:        Filters{MinPrice: dp("50"), MaxPrice: dp("150")},
			page:           1,
			limit:          12,
			wantIDs:        []string{"P1"},
			wantTotal:      1,
			wantTotalPages: 1,
		},
		{
			name:           "min price boundary is inclusive",
			filters:        Filters{MinPrice: dp("200")},
			page:           1,
			limit:          12,
			wantIDs:        []string{"P2"},
			wantTotal:      1,
			wantTotalPages: 1,
		},
		{
			name:           "free shipping restricts, preserving order",
			filters:        Filters{FreeShipping: true},
			page:           1,
			limit:          12,
			wantIDs:        []string{"P1", "P3"},
			wantTotal:      2,
			wantTotalPages: 1,
		},
		{
			name:           "combined filters narrow",
			filters:        Filters{Category: "phones", FreeShipping: true},
			page:           1,
			limit:          12,
			wantIDs:        []string{"P1"},
			wantTotal:      1,
			wantTotalPages: 1,
		},
		{
			name:           "page past the end is empty with total unchanged",
			filters:        Filters{Category: "phones"},
			page:           5,
			limit:          1,
			wantIDs:        []string{},
			wantTotal:      2,
			wantTotalPages: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, testCatalog())

			got, err := engine.List(context.Background(), tt.filters, tt.page, tt.limit)
			require.NoError(t, err)

			assert.Equal(t, tt.wantIDs, ids(got.Items))
			assert.Equal(t, tt.wantTotal, got.Total)
			assert.Equal(t, tt.wantTotalPages, got.TotalPages)
			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.limit, got.Limit)
			assert.LessOrEqual(t, len(got.Items), tt.limit)
			assert.LessOrEqual(t, len(got.Items), got.Total)
		})
	}
}

func TestListFiltersOnlyNarrow(t *testing.T) {
	engine := newTestEngine(t, testCatalog())
	ctx := context.Background()

	base, err := engine.List(ctx, Filters{}, 1, 50)
	require.NoError(t, err)

	withCategory, err := engine.List(ctx, Filters{Category: "phones"}, 1, 50)
	require.NoError(t, err)
	assert.LessOrEqual(t, withCategory.Total, base.Total)

	withMore, err := engine.List(ctx, Filters{Category: "phones", Search: "beta"}, 1, 50)
	require.NoError(t, err)
	assert.LessOrEqual(t, withMore.Total, withCategory.Total)
}

func TestGetByID(t *testing.T) {
	engine := newTestEngine(t, testCatalog())

	p, err := engine.GetByID(context.Background(), "P3")
	require.NoError(t, err)
	assert.Equal(t, "Gamma", p.Title)
	assert.True(t, d("20").Equal(p.Price))

	_, err = engine.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestCategories(t *testing.T) {
	engine := newTestEngine(t, testCatalog())

	got, err := engine.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"phones", "books"}, got)
}

func TestCategoriesEmptyCatalog(t *testing.T) {
	engine := newTestEngine(t, nil)

	got, err := engine.Categories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		percentage decimal.Decimal
		wantPrice  decimal.Decimal
		wantAmount decimal.Decimal
		wantErr    error
	}{
		{
			name:       "50% off halves the price",
			id:         "P2",
			percentage: d("50"),
			wantPrice:  d("100"),
			wantAmount: d("100"),
		},
		{
			name:       "0% keeps the price and zero amount",
			id:         "P1",
			percentage: d("0"),
			wantPrice:  d("100"),
			wantAmount: d("0"),
		},
		{
			name:       "100% makes it free",
			id:         "P1",
			percentage: d("100"),
			wantPrice:  d("0"),
			wantAmount: d("100"),
		},
		{
			name:       "fractional percentage rounds to cents",
			id:         "P3",
			percentage: d("33.33"),
			// 20 * 0.6667 = 13.334 -> 13.33
			wantPrice:  d("13.33"),
			wantAmount: d("6.67"),
		},
		{
			name:       "negative percentage rejected",
			id:         "P1",
			percentage: d("-1"),
			wantErr:    ErrInvalidPercentage,
		},
		{
			name:       "percentage above 100 rejected",
			id:         "P1",
			percentage: d("100.01"),
			wantErr:    ErrInvalidPercentage,
		},
		{
			name:       "unknown id reports not found",
			id:         "missing",
			percentage: d("10"),
			wantErr:    product.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, testCatalog())

			got, err := engine.ApplyDiscount(context.Background(), tt.id, tt.percentage)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.True(t, tt.wantPrice.Equal(got.Price),
				"expected price %s, got %s", tt.wantPrice, got.Price)
			require.NotNil(t, got.OriginalPrice)
			require.NotNil(t, got.Discount)
			assert.True(t, tt.wantAmount.Equal(got.Discount.Amount),
				"expected amount %s, got %s", tt.wantAmount, got.Discount.Amount)
			assert.True(t, tt.percentage.Equal(got.Discount.Percentage))
			assert.True(t, got.OriginalPrice.Sub(got.Discount.Amount).Equal(got.Price))
		})
	}
}

func TestApplyDiscountDoesNotMutateCatalog(t *testing.T) {
	engine := newTestEngine(t, testCatalog())
	ctx := context.Background()

	before, err := engine.GetByID(ctx, "P2")
	require.NoError(t, err)
	priceBefore := before.Price

	_, err = engine.ApplyDiscount(ctx, "P2", d("50"))
	require.NoError(t, err)

	after, err := engine.GetByID(ctx, "P2")
	require.NoError(t, err)
	assert.True(t, priceBefore.Equal(after.Price))
	assert.Nil(t, after.OriginalPrice)
	assert.Nil(t, after.Discount)

	listed, err := engine.List(ctx, Filters{Category: "phones"}, 1, 12)
	require.NoError(t, err)
	assert.True(t, d("200").Equal(listed.Items[1].Price))
}

func TestStats(t *testing.T) {
	engine := newTestEngine(t, testCatalog())

	got, err := engine.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalProducts)
	assert.Equal(t, []string{"phones", "books"}, got.Categories)
	assert.True(t, d("20").Equal(got.PriceRange.Min))
	assert.True(t, d("200").Equal(got.PriceRange.Max))
	// (100 + 200 + 20) / 3 = 106.666... -> 106.67
	assert.True(t, d("106.67").Equal(got.PriceRange.Average),
		"expected average 106.67, got %s", got.PriceRange.Average)
	assert.Equal(t, 17, got.StockTotal)
}

func TestStatsEmptyCatalog(t *testing.T) {
	engine := newTestEngine(t, nil)

	got, err := engine.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, got.TotalProducts)
	assert.Equal(t, 0, got.StockTotal)
	assert.True(t, got.PriceRange.Min.IsZero())
	assert.True(t, got.PriceRange.Max.IsZero())
	assert.True(t, got.PriceRange.Average.IsZero())
}
