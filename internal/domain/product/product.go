package product

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item. Products are immutable once loaded;
// discount projections are copies, never in-place edits.
type Product struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
	// OriginalPrice is set only on discount projections and preserves the
	// pre-discount price. Nil means no discount has been projected.
	OriginalPrice *decimal.Decimal
	Currency      string
	Image         string
	Category      string
	Seller        Seller
	Rating        float64
	Reviews       int
	Shipping      Shipping
	Stock         int
	// Discount is present only on discount projections.
	Discount *Discount
}

// Seller is the embedded merchant record. It has no independent lifecycle.
type Seller struct {
	ID         string
	Name       string
	Reputation int
	Location   string
}

// Shipping describes delivery terms for a product.
type Shipping struct {
	Free bool
	// Cost is nil when shipping is free or the cost is unknown.
	Cost *decimal.Decimal
}

// Discount holds the percentage and absolute amount of a projected discount.
type Discount struct {
	Percentage decimal.Decimal
	Amount     decimal.Decimal
}
