// Package wishlist implements the presence-only wishlist store and its
// bridge into the cart.
package wishlist

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/collection"
	"github.com/xenking/storefront-cart/internal/domain/item"
)

// ErrUnavailable is returned by MoveToCart when the catalog reports the
// product can no longer be purchased. The wishlist entry is preserved.
var ErrUnavailable = errors.New("product unavailable")

// Availability is the slice of the catalog contract the bridge needs.
type Availability interface {
	CheckAvailability(ctx context.Context, productID string) (bool, error)
}

// Store is the wishlist collection store. Entries carry no quantity;
// membership is binary.
type Store struct {
	col *collection.Store[item.Line]
}

// NewStore creates an empty wishlist store. A nil persister keeps it
// memory-only.
func NewStore(persister collection.Persister[item.Line]) *Store {
	return &Store{col: collection.New("wishlist", persister)}
}

// Restore rehydrates the wishlist from persisted entries.
func (s *Store) Restore(entries []item.Line) {
	s.col.Restore(entries)
}

// Add puts a selection into the wishlist. Adding a selection that is already
// present is an idempotent no-op.
func (s *Store) Add(ctx context.Context, sel item.Line) {
	s.col.Update(ctx, sel.Key(), func(cur item.Line, exists bool) (item.Line, bool) {
		if exists {
			return cur, true
		}
		return sel, true
	})
}

// Toggle adds the selection if absent and removes it if present, for
// favorite affordances that don't know current membership. It reports the
// resulting membership.
func (s *Store) Toggle(ctx context.Context, sel item.Line) (added bool) {
	s.col.Update(ctx, sel.Key(), func(cur item.Line, exists bool) (item.Line, bool) {
		added = !exists
		if exists {
			return cur, false
		}
		return sel, true
	})
	return added
}

// Remove deletes the entry with the given key; unknown keys are a no-op.
func (s *Store) Remove(ctx context.Context, key item.LineKey) {
	s.col.Remove(ctx, key)
}

// Clear empties the wishlist.
func (s *Store) Clear(ctx context.Context) {
	s.col.Clear(ctx)
}

// Contains reports whether the given key is in the wishlist.
func (s *Store) Contains(key item.LineKey) bool {
	_, ok := s.col.Get(key)
	return ok
}

// Items returns an ordered snapshot of the wishlist entries.
func (s *Store) Items() []item.Line {
	return s.col.Items()
}

// IsEmpty reports whether the wishlist has no entries.
func (s *Store) IsEmpty() bool {
	return s.col.Len() == 0
}

// Subscribe registers a listener for post-mutation snapshots.
func (s *Store) Subscribe(fn func(snapshot []item.Line)) (unsubscribe func()) {
	return s.col.Subscribe(fn)
}

// PersistErr returns the persistence degradation error, if any.
func (s *Store) PersistErr() error {
	return s.col.PersistErr()
}

// MoveToCart bridges a wishlist entry into the cart: it checks availability
// with the catalog, adds the entry to the cart with quantity 1 (cart merge
// semantics apply if already present), and only then removes it from the
// wishlist. When the add cannot proceed the entry stays untouched — there is
// no partial removal without a successful add. A key not in the wishlist is
// a silent no-op, consistent with the other unknown-key operations.
func (s *Store) MoveToCart(ctx context.Context, key item.LineKey, dst *cart.Store, catalog Availability) error {
	entry, ok := s.col.Get(key)
	if !ok {
		return nil
	}

	available, err := catalog.CheckAvailability(ctx, entry.ProductID)
	if err != nil {
		return errors.Wrapf(err, "check availability of %s", entry.ProductID)
	}
	if !available {
		return errors.Wrapf(ErrUnavailable, "product %s", entry.ProductID)
	}

	dst.Add(ctx, entry, 1)
	s.col.Remove(ctx, key)
	return nil
}
