package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/item"
	"github.com/xenking/storefront-cart/internal/session"
)

// persistWarning is the non-blocking notice surfaced when a mutation applied
// in memory but could not be persisted.
const persistWarning = "changes may not survive a reload: persistent storage is unavailable"

type lineView struct {
	Key       string        `json:"key"`
	ProductID string        `json:"product_id"`
	Variants  item.Variants `json:"variants,omitempty"`
	Name      string        `json:"name"`
	Price     float64       `json:"price"`
	Image     string        `json:"image"`
	Category  string        `json:"category"`
	Quantity  int           `json:"quantity,omitempty"`
	LineTotal float64       `json:"line_total,omitempty"`
}

type totalsView struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	Tax         float64 `json:"tax"`
	GrandTotal  float64 `json:"grand_total"`
}

type cartView struct {
	Items      []lineView `json:"items"`
	Totals     totalsView `json:"totals"`
	TotalItems int        `json:"total_items"`
	IsEmpty    bool       `json:"is_empty"`
	Warnings   []string   `json:"warnings,omitempty"`
}

type addItemRequest struct {
	ProductID string        `json:"product_id"`
	Variants  item.Variants `json:"variants"`
	Quantity  int           `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type receiptView struct {
	OrderID  string     `json:"order_id"`
	PlacedAt time.Time  `json:"placed_at"`
	Items    []lineView `json:"items"`
	Totals   totalsView `json:"totals"`
}

// stores resolves the session's store pair for the request.
func (h *Handler) stores(r *http.Request) *session.Stores {
	return h.sessions.Get(r.Context(), sessionIDFromContext(r.Context()))
}

// lineKeyParam extracts the URL-escaped lineKey path parameter.
func lineKeyParam(r *http.Request) item.LineKey {
	raw := chi.URLParam(r, "key")
	if key, err := url.PathUnescape(raw); err == nil {
		return item.LineKey(key)
	}
	return item.LineKey(raw)
}

// GetCart returns the cart snapshot with derived totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newCartView(h.stores(r).Cart))
}

// AddCartItem adds a catalog product selection to the cart. Duplicate
// selections merge into the existing line.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
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
	if !p.Available {
		writeErr(w, r, http.StatusUnprocessableEntity, "product not available")
		return
	}

	// Snapshot the catalog data onto the line; later catalog changes do not
	// affect it.
	sel := item.NewLine(p.ID, p.Name, p.Price, p.Image, p.Category, req.Variants)

	stores := h.stores(r)
	stores.Cart.Add(r.Context(), sel, req.Quantity)
	writeJSON(w, r, http.StatusOK, newCartView(stores.Cart))
}

// UpdateCartItem sets a line's quantity; zero removes the line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	stores := h.stores(r)
	stores.Cart.UpdateQuantity(r.Context(), lineKeyParam(r), req.Quantity)
	writeJSON(w, r, http.StatusOK, newCartView(stores.Cart))
}

// RemoveCartItem deletes a line; unknown keys are a no-op.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	stores := h.stores(r)
	stores.Cart.Remove(r.Context(), lineKeyParam(r))
	writeJSON(w, r, http.StatusOK, newCartView(stores.Cart))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	stores := h.stores(r)
	stores.Cart.Clear(r.Context())
	writeJSON(w, r, http.StatusOK, newCartView(stores.Cart))
}

// Checkout finalizes the cart: it returns the receipt and clears the
// collection. Payment is outside this system.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	stores := h.stores(r)
	receipt, err := stores.Cart.Checkout(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, receiptView{
		OrderID:  receipt.OrderID,
		PlacedAt: receipt.PlacedAt,
		Items:    newCartLineViews(receipt.Lines),
		Totals:   newTotalsView(receipt.Totals),
	})
}

func newCartView(c *cart.Store) cartView {
	items := c.Items()
	totals := c.Totals()

	var warnings []string
	if c.PersistErr() != nil {
		warnings = append(warnings, persistWarning)
	}

	return cartView{
		Items:      newCartLineViews(items),
		Totals:     newTotalsView(totals),
		TotalItems: totals.TotalItems,
		IsEmpty:    len(items) == 0,
		Warnings:   warnings,
	}
}

func newCartLineViews(lines []cart.Line) []lineView {
	views := make([]lineView, len(lines))
	for i, l := range lines {
		views[i] = newLineView(l.Line)
		views[i].Quantity = l.Quantity
		views[i].LineTotal = l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2).InexactFloat64()
	}
	return views
}

func newLineView(l item.Line) lineView {
	return lineView{
		Key:       string(l.LineKey),
		ProductID: l.ProductID,
		Variants:  l.Variants,
		Name:      l.Name,
		Price:     l.Price.Round(2).InexactFloat64(),
		Image:     l.Image,
		Category:  l.Category,
	}
}

// newTotalsView rounds to 2 decimal places: display time is the only place
// monetary values are rounded.
func newTotalsView(t cart.Totals) totalsView {
	rounded := t.Rounded()
	return totalsView{
		Subtotal:    rounded.Subtotal.InexactFloat64(),
		ShippingFee: rounded.ShippingFee.InexactFloat64(),
		Tax:         rounded.Tax.InexactFloat64(),
		GrandTotal:  rounded.GrandTotal.InexactFloat64(),
	}
}
