// Package repository provides the PostgreSQL-backed catalog source.
//
// Unlike a classic per-request repository, the catalog is read in full once
// at startup and served from memory afterwards; the database is only the
// durable home of the product list.
package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercadolite/storefront/internal/domain/product"
)

// loadCatalogSQL orders by pos so the in-memory catalog keeps the insertion
// order the query engine's pagination contract depends on.
const loadCatalogSQL = `SELECT id, title, description, price, currency, image, category,
		seller_id, seller_name, seller_reputation, seller_location,
		rating, reviews, shipping_free, shipping_cost, stock
	FROM products ORDER BY pos`

// CatalogSource loads the full product catalog from PostgreSQL.
type CatalogSource struct {
	pool *pgxpool.Pool
}

// NewCatalogSource returns a CatalogSource that uses the given pool.
func NewCatalogSource(pool *pgxpool.Pool) *CatalogSource {
	return &CatalogSource{pool: pool}
}

// Load reads every product, in catalog order.
func (s *CatalogSource) Load(ctx context.Context) ([]product.Product, error) {
	rows, err := s.pool.Query(ctx, loadCatalogSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query catalog")
	}
	return pgx.CollectRows(rows, scanProduct)
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.Currency, &p.Image, &p.Category,
		&p.Seller.ID, &p.Seller.Name, &p.Seller.Reputation, &p.Seller.Location,
		&p.Rating, &p.Reviews, &p.Shipping.Free, &p.Shipping.Cost, &p.Stock,
	)
	return p, err
}
