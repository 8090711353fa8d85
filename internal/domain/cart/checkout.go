package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrEmptyCart is returned when checking out a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// Receipt is the final snapshot produced by a successful checkout.
type Receipt struct {
	OrderID  string
	Lines    []Line
	Totals   Totals
	PlacedAt time.Time
}

// Checkout snapshots the current lines and totals, clears the cart, and
// returns the receipt. Payment handling is outside this system; the receipt
// is what downstream order processing receives.
func (s *Store) Checkout(ctx context.Context) (*Receipt, error) {
	lines := s.col.Items()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	r := &Receipt{
		OrderID:  uuid.New().String(),
		Lines:    lines,
		Totals:   CalculateTotals(lines, s.cfg.Pricing),
		PlacedAt: time.Now().UTC(),
	}
	s.col.Clear(ctx)
	return r, nil
}
