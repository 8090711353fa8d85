// Package cart implements the quantity-bearing cart store and its derived
// totals.
package cart

import (
	"context"

	"github.com/xenking/storefront-cart/internal/domain/collection"
	"github.com/xenking/storefront-cart/internal/domain/item"
)

// DefaultMaxLineQuantity caps a single line's quantity when no explicit cap
// is configured. Exceeding the cap pins at the cap rather than failing.
const DefaultMaxLineQuantity = 99

// Line is one cart entry: a product + variant selection and its quantity.
// Quantity is always within [1, cap]; a line reduced to zero is removed,
// never stored.
type Line struct {
	item.Line
	Quantity int
}

// Clone returns a copy sharing no mutable state with the receiver.
func (l Line) Clone() Line {
	l.Line = l.Line.Clone()
	return l
}

// Config holds the cart's business knobs.
type Config struct {
	// MaxLineQuantity caps the quantity of a single line. Zero means
	// DefaultMaxLineQuantity.
	MaxLineQuantity int
	Pricing         Pricing
}

func (c Config) withDefaults() Config {
	if c.MaxLineQuantity <= 0 {
		c.MaxLineQuantity = DefaultMaxLineQuantity
	}
	if c.Pricing.isZero() {
		c.Pricing = DefaultPricing()
	}
	return c
}

// Store is the cart collection store. All mutations persist and notify
// before returning; see the collection package for the engine semantics.
type Store struct {
	col *collection.Store[Line]
	cfg Config
}

// NewStore creates an empty cart store. A nil persister keeps it memory-only.
func NewStore(cfg Config, persister collection.Persister[Line]) *Store {
	return &Store{
		col: collection.New("cart", persister),
		cfg: cfg.withDefaults(),
	}
}

// Restore rehydrates the cart from persisted lines. Quantities are clamped
// into [1, cap] so a tampered or stale payload cannot violate the invariant.
func (s *Store) Restore(lines []Line) {
	valid := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		l.Quantity = min(l.Quantity, s.cfg.MaxLineQuantity)
		valid = append(valid, l)
	}
	s.col.Restore(valid)
}

// Add puts a selection into the cart. If a line with the same key already
// exists its quantity is incremented by qty (merge, not duplication);
// otherwise a new line is appended. qty below 1 counts as 1; the resulting
// quantity is capped at the configured maximum.
func (s *Store) Add(ctx context.Context, sel item.Line, qty int) {
	qty = max(qty, 1)
	s.col.Update(ctx, sel.Key(), func(cur Line, exists bool) (Line, bool) {
		if exists {
			cur.Quantity = min(cur.Quantity+qty, s.cfg.MaxLineQuantity)
			return cur, true
		}
		return Line{Line: sel, Quantity: min(qty, s.cfg.MaxLineQuantity)}, true
	})
}

// UpdateQuantity sets the quantity of the line with the given key. A value
// of zero or less removes the line; a value above the cap is clamped.
// Unknown keys are a silent no-op.
func (s *Store) UpdateQuantity(ctx context.Context, key item.LineKey, qty int) {
	s.col.Update(ctx, key, func(cur Line, exists bool) (Line, bool) {
		if !exists || qty <= 0 {
			return cur, false
		}
		cur.Quantity = min(qty, s.cfg.MaxLineQuantity)
		return cur, true
	})
}

// Remove deletes the line with the given key; unknown keys are a no-op.
func (s *Store) Remove(ctx context.Context, key item.LineKey) {
	s.col.Remove(ctx, key)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.col.Clear(ctx)
}

// Get returns a copy of the line with the given key.
func (s *Store) Get(key item.LineKey) (Line, bool) {
	return s.col.Get(key)
}

// Items returns an ordered snapshot of the cart lines.
func (s *Store) Items() []Line {
	return s.col.Items()
}

// TotalItems returns the sum of quantities across all lines, which differs
// from the line count: one line of quantity 3 reports 3.
func (s *Store) TotalItems() int {
	var n int
	for _, l := range s.col.Items() {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return s.col.Len() == 0
}

// Totals recomputes the derived totals from the current lines. Totals are
// never stored, so they cannot drift from the collection.
func (s *Store) Totals() Totals {
	return CalculateTotals(s.col.Items(), s.cfg.Pricing)
}

// Subscribe registers a listener for post-mutation snapshots.
func (s *Store) Subscribe(fn func(snapshot []Line)) (unsubscribe func()) {
	return s.col.Subscribe(fn)
}

// PersistErr returns the persistence degradation error, if any, for
// surfacing as a non-blocking warning.
func (s *Store) PersistErr() error {
	return s.col.PersistErr()
}
