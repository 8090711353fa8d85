// Package product defines the external catalog collaborator contract. The
// cart and wishlist trust the catalog snapshot taken at add time and never
// re-validate it, except for the availability check used by the
// wishlist-to-cart bridge.
package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item as supplied by the catalog provider.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Category string
	Image    string
	// VariantOptions lists the selectable attribute values,
	// e.g. {"size": ["S", "M", "L"], "color": ["red", "navy"]}.
	VariantOptions map[string][]string
	Available      bool
}

// Repository defines read operations against the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	// CheckAvailability reports whether the product can still be purchased.
	// Unknown products are unavailable, not an error.
	CheckAvailability(ctx context.Context, id string) (bool, error)
}
