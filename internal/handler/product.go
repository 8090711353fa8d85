package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/storefront-cart/internal/domain/product"
)

type productView struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Price          float64             `json:"price"`
	Category       string              `json:"category"`
	Image          string              `json:"image"`
	VariantOptions map[string][]string `json:"variant_options,omitempty"`
	Available      bool                `json:"available"`
}

// ListProducts returns the full catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = newProductView(p)
	}
	writeJSON(w, r, http.StatusOK, views)
}

// GetProduct returns a single catalog product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newProductView(*p))
}

func newProductView(p product.Product) productView {
	return productView{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price.Round(2).InexactFloat64(),
		Category:       p.Category,
		Image:          p.Image,
		VariantOptions: p.VariantOptions,
		Available:      p.Available,
	}
}
