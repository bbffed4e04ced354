// Package catalogfile loads the product catalog from a JSON document on disk.
//
// The document shape is {"products": [...]}. Files ending in .gz are read
// through a parallel gzip reader. Decoding is streaming, so the document size
// is bounded only by the catalog itself, not by an intermediate buffer.
package catalogfile

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/mercadolite/storefront/internal/domain/product"
)

// Source is a catalog.Source reading a products JSON document from path.
type Source struct {
	path string
}

// NewSource creates a Source for the given file path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Load reads and parses the whole document. Missing files and malformed
// documents are load failures; no partial catalog is ever returned.
func (s *Source) Load(ctx context.Context) ([]product.Product, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", s.path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(s.path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", s.path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	products, err := Decode(ctx, r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", s.path)
	}
	return products, nil
}

// Decode parses a {"products": [...]} document from r. An empty products
// array is a valid, empty catalog; only an absent key is an error.
func Decode(ctx context.Context, r io.Reader) ([]product.Product, error) {
	var (
		products []product.Product
		found    bool
	)

	d := jx.Decode(r, 4096)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "products" {
			return d.Skip()
		}
		found = true
		return d.Arr(func(d *jx.Decoder) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := decodeProduct(d)
			if err != nil {
				return errors.Wrapf(err, "product %d", len(products))
			}
			products = append(products, p)
			return nil
		})
	}); err != nil {
		return nil, err
	}

	if !found {
		return nil, errors.New(`missing "products" array`)
	}
	return products, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			p.ID, err = d.Str()
		case "title":
			p.Title, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "price":
			p.Price, err = decodeDecimal(d)
		case "originalPrice":
			var v decimal.Decimal
			if v, err = decodeDecimal(d); err == nil {
				p.OriginalPrice = &v
			}
		case "currency":
			p.Currency, err = d.Str()
		case "image":
			p.Image, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "seller":
			err = decodeSeller(d, &p.Seller)
		case "rating":
			p.Rating, err = d.Float64()
		case "reviews":
			p.Reviews, err = d.Int()
		case "shipping":
			err = decodeShipping(d, &p.Shipping)
		case "stock":
			p.Stock, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return product.Product{}, err
	}
	if p.ID == "" {
		return product.Product{}, errors.New("missing id")
	}
	if p.Price.IsNegative() {
		return product.Product{}, errors.Errorf("product %s: negative price", p.ID)
	}
	return p, nil
}

func decodeSeller(d *jx.Decoder, s *product.Seller) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			s.ID, err = d.Str()
		case "name":
			s.Name, err = d.Str()
		case "reputation":
			s.Reputation, err = d.Int()
		case "location":
			s.Location, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
}

func decodeShipping(d *jx.Decoder, s *product.Shipping) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "free":
			s.Free, err = d.Bool()
		case "cost":
			if d.Next() == jx.Null {
				return d.Null()
			}
			var v decimal.Decimal
			if v, err = decodeDecimal(d); err == nil {
				s.Cost = &v
			}
		default:
			err = d.Skip()
		}
		return err
	})
}

// decodeDecimal reads a JSON number as an exact decimal, avoiding the float64
// round-trip that would distort prices.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(n.String())
}
