// Package redis implements the persistence collaborator: a browser-session
// style durable key/value store holding the full serialized collection under
// one fixed key per session and collection.
package redis

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/collection"
	"github.com/xenking/storefront-cart/internal/domain/item"
)

const (
	cartKeyPrefix     = "cart:"
	wishlistKeyPrefix = "wishlist:"
)

// ErrCorrupt is returned by Load methods when a persisted payload cannot be
// decoded. Callers treat it as an empty initial collection, never as fatal.
var ErrCorrupt = errors.New("corrupt persisted collection")

// CollectionStore persists cart and wishlist collections in Redis. Every
// write replaces the full collection and refreshes the TTL; expiry clears
// the session implicitly.
type CollectionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCollectionStore creates a CollectionStore writing with the given TTL.
func NewCollectionStore(client *redis.Client, ttl time.Duration) *CollectionStore {
	return &CollectionStore{client: client, ttl: ttl}
}

// SaveCart writes the full cart collection for the session.
func (s *CollectionStore) SaveCart(ctx context.Context, sessionID string, lines []cart.Line) error {
	key := cartKeyPrefix + sessionID
	if err := s.client.Set(ctx, key, encodeCartLines(lines), s.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set cart")
	}
	return nil
}

// LoadCart reads the persisted cart collection for the session. A missing
// key yields an empty collection; an undecodable payload yields ErrCorrupt.
func (s *CollectionStore) LoadCart(ctx context.Context, sessionID string) ([]cart.Line, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "redis get cart")
	}

	lines, err := decodeCartLines(data)
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "cart for session %s: %v", sessionID, err)
	}
	return lines, nil
}

// SaveWishlist writes the full wishlist collection for the session.
func (s *CollectionStore) SaveWishlist(ctx context.Context, sessionID string, entries []item.Line) error {
	key := wishlistKeyPrefix + sessionID
	if err := s.client.Set(ctx, key, encodeWishlistEntries(entries), s.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set wishlist")
	}
	return nil
}

// LoadWishlist reads the persisted wishlist collection for the session, with
// the same missing/corrupt semantics as LoadCart.
func (s *CollectionStore) LoadWishlist(ctx context.Context, sessionID string) ([]item.Line, error) {
	data, err := s.client.Get(ctx, wishlistKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "redis get wishlist")
	}

	entries, err := decodeWishlistEntries(data)
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "wishlist for session %s: %v", sessionID, err)
	}
	return entries, nil
}

// CartPersister binds the store to a session as a cart persister.
func (s *CollectionStore) CartPersister(sessionID string) collection.Persister[cart.Line] {
	return cartPersister{store: s, sessionID: sessionID}
}

// WishlistPersister binds the store to a session as a wishlist persister.
func (s *CollectionStore) WishlistPersister(sessionID string) collection.Persister[item.Line] {
	return wishlistPersister{store: s, sessionID: sessionID}
}

type cartPersister struct {
	store     *CollectionStore
	sessionID string
}

func (p cartPersister) Save(ctx context.Context, lines []cart.Line) error {
	return p.store.SaveCart(ctx, p.sessionID, lines)
}

type wishlistPersister struct {
	store     *CollectionStore
	sessionID string
}

func (p wishlistPersister) Save(ctx context.Context, entries []item.Line) error {
	return p.store.SaveWishlist(ctx, p.sessionID, entries)
}
