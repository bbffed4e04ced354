// Command seed-db loads the catalog JSON document and writes it to PostgreSQL,
// so the API server can run with a database-backed catalog source.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercadolite/storefront/internal/catalogfile"
	"github.com/mercadolite/storefront/internal/domain/product"
	"github.com/mercadolite/storefront/internal/repository"
)

const upsertProductSQL = `INSERT INTO products (
		id, title, description, price, currency, image, category,
		seller_id, seller_name, seller_reputation, seller_location,
		rating, reviews, shipping_free, shipping_cost, stock
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		price = EXCLUDED.price,
		currency = EXCLUDED.currency,
		image = EXCLUDED.image,
		category = EXCLUDED.category,
		seller_id = EXCLUDED.seller_id,
		seller_name = EXCLUDED.seller_name,
		seller_reputation = EXCLUDED.seller_reputation,
		seller_location = EXCLUDED.seller_location,
		rating = EXCLUDED.rating,
		reviews = EXCLUDED.reviews,
		shipping_free = EXCLUDED.shipping_free,
		shipping_cost = EXCLUDED.shipping_cost,
		stock = EXCLUDED.stock`

func main() {
	var (
		databaseURL  string
		productsFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string) error {
	slog.Info("loading catalog document", slog.String("path", productsFile))

	products, err := catalogfile.NewSource(productsFile).Load(ctx)
	if err != nil {
		return err
	}
	slog.Info("catalog parsed", slog.Int("products", len(products)))

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := writeProducts(ctx, pool, products); err != nil {
		return errors.Wrap(err, "write products")
	}
	return nil
}

// writeProducts upserts all products in one transaction so a partially
// written catalog is never visible.
func writeProducts(ctx context.Context, pool *pgxpool.Pool, products []product.Product) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, p := range products {
			_, err := tx.Exec(ctx, upsertProductSQL,
				p.ID, p.Title, p.Description, p.Price, p.Currency, p.Image, p.Category,
				p.Seller.ID, p.Seller.Name, p.Seller.Reputation, p.Seller.Location,
				p.Rating, p.Reviews, p.Shipping.Free, p.Shipping.Cost, p.Stock,
			)
			if err != nil {
				return errors.Wrapf(err, "upsert product %s", p.ID)
			}
		}
		slog.Info("products written", slog.Int("count", len(products)))
		return nil
	})
}
