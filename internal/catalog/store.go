// Package catalog holds the in-memory product catalog and the query engine
// that answers all read operations over it.
package catalog

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/mercadolite/storefront/internal/domain/product"
)

// Source produces the full product collection exactly once, at first access.
type Source interface {
	Load(ctx context.Context) ([]product.Product, error)
}

// Store owns the memoized, read-only product collection. The first call to
// Products triggers a single load from the underlying Source; concurrent
// first callers block on the same load and observe the same result or the
// same failure. The collection is never mutated after a successful load.
type Store struct {
	source Source

	once     sync.Once
	products []product.Product
	err      error
}

// NewStore creates a Store backed by the given source. No I/O happens until
// the first read.
func NewStore(source Source) *Store {
	return &Store{source: source}
}

// Products returns the loaded catalog, loading it on first call.
// A load failure is sticky: every subsequent call reports the same error.
// The load is detached from the caller's cancellation so a short-lived
// request context cannot poison the store for everyone else.
func (s *Store) Products(ctx context.Context) ([]product.Product, error) {
	s.once.Do(func() {
		s.load(context.WithoutCancel(ctx))
	})
	return s.products, s.err
}

// Ping reports whether the catalog is available, loading it if needed.
// Used as a readiness check.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.Products(ctx)
	return err
}

func (s *Store) load(ctx context.Context) {
	products, err := s.source.Load(ctx)
	if err != nil {
		s.err = errors.Wrap(err, "load catalog")
		return
	}

	// Every lookup assumes ids are unique, so duplicates are a load failure
	// rather than a silently ambiguous catalog.
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			s.err = errors.Errorf("load catalog: duplicate product id %q", p.ID)
			return
		}
		seen[p.ID] = struct{}{}
	}

	s.products = products
}
