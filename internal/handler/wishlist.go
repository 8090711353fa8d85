package handler

import (
	"net/http"

	"github.com/xenking/storefront-cart/internal/domain/item"
	"github.com/xenking/storefront-cart/internal/domain/wishlist"
)

type wishlistView struct {
	Items      []lineView `json:"items"`
	TotalItems int        `json:"total_items"`
	IsEmpty    bool       `json:"is_empty"`
	Warnings   []string   `json:"warnings,omitempty"`
}

type toggleRequest struct {
	ProductID string        `json:"product_id"`
	Variants  item.Variants `json:"variants"`
}

type toggleResponse struct {
	InWishlist bool         `json:"in_wishlist"`
	Wishlist   wishlistView `json:"wishlist"`
}

// GetWishlist returns the wishlist snapshot.
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newWishlistView(h.stores(r).Wishlist))
}

// ToggleWishlistItem adds the selection if absent and removes it if present,
// for favorite affordances that don't know current membership.
func (h *Handler) ToggleWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeErr(w, r, http.StatusBadRequest, "product_id required")
		return
	}

	p, err := h.catalog.GetByID(r.Context(), req.ProductID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sel := item.NewLine(p.ID, p.Name, p.Price, p.Image, p.Category, req.Variants)

	stores := h.stores(r)
	added := stores.Wishlist.Toggle(r.Context(), sel)
	writeJSON(w, r, http.StatusOK, toggleResponse{
		InWishlist: added,
		Wishlist:   newWishlistView(stores.Wishlist),
	})
}

// RemoveWishlistItem deletes an entry; unknown keys are a no-op.
func (h *Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	stores := h.stores(r)
	stores.Wishlist.Remove(r.Context(), lineKeyParam(r))
	writeJSON(w, r, http.StatusOK, newWishlistView(stores.Wishlist))
}

// MoveWishlistItemToCart bridges an entry into the cart with quantity 1.
// When the product is no longer available the entry is preserved and the
// failure reported.
func (h *Handler) MoveWishlistItemToCart(w http.ResponseWriter, r *http.Request) {
	stores := h.stores(r)
	if err := stores.Wishlist.MoveToCart(r.Context(), lineKeyParam(r), stores.Cart, h.catalog); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, struct {
		Cart     cartView     `json:"cart"`
		Wishlist wishlistView `json:"wishlist"`
	}{
		Cart:     newCartView(stores.Cart),
		Wishlist: newWishlistView(stores.Wishlist),
	})
}

func newWishlistView(s *wishlist.Store) wishlistView {
	entries := s.Items()

	var warnings []string
	if s.PersistErr() != nil {
		warnings = append(warnings, persistWarning)
	}

	views := make([]lineView, len(entries))
	for i, e := range entries {
		views[i] = newLineView(e)
	}

	return wishlistView{
		Items:      views,
		TotalItems: len(entries),
		IsEmpty:    len(entries) == 0,
		Warnings:   warnings,
	}
}
