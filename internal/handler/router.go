package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the view-facing contract on a chi router. Session identity
// is resolved only for the cart/wishlist/checkout surfaces; catalog reads
// are session-free.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})

	r.Group(func(r chi.Router) {
		r.Use(SessionID)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Patch("/items/{key}", h.UpdateCartItem)
			r.Delete("/items/{key}", h.RemoveCartItem)
		})

		r.Post("/checkout", h.Checkout)

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.GetWishlist)
			r.Post("/toggle", h.ToggleWishlistItem)
			r.Delete("/{key}", h.RemoveWishlistItem)
			r.Post("/{key}/move-to-cart", h.MoveWishlistItemToCart)
		})
	})

	return r
}
