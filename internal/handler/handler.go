// Package handler exposes the view-facing read/mutate contract over HTTP.
// Every view surface (header badge, drawer, cart page, checkout, wishlist
// page) consumes the stores only through these endpoints; none touches the
// persistence collaborator directly.
package handler

import (
	"github.com/xenking/storefront-cart/internal/domain/product"
	"github.com/xenking/storefront-cart/internal/session"
)

// Handler serves the storefront state API, delegating to the per-session
// stores and the external catalog collaborator.
type Handler struct {
	sessions *session.Manager
	catalog  product.Repository
}

// NewHandler constructs a Handler with the required collaborators.
func NewHandler(sessions *session.Manager, catalog product.Repository) *Handler {
	return &Handler{
		sessions: sessions,
		catalog:  catalog,
	}
}
