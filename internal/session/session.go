// Package session owns the lifecycle of per-session store pairs: one cart
// and one wishlist per browser session, created at first use, rehydrated
// from the persistence collaborator, and evicted from memory when idle
// (the persisted state outlives the in-memory stores).
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/wishlist"
	"github.com/xenking/storefront-cart/internal/storage/redis"
)

// Stores is the pair of state cores owned by one session.
type Stores struct {
	Cart     *cart.Store
	Wishlist *wishlist.Store
}

type entry struct {
	stores   *Stores
	lastSeen time.Time

	// ready is closed once rehydration has finished, so concurrent Gets for
	// the same session wait for it instead of seeing half-restored stores.
	ready chan struct{}
}

// Manager is the composition-root registry of live sessions. Stores are
// never globals: consumers receive them from here and mutate only through
// their public operations.
type Manager struct {
	storage *redis.CollectionStore
	cartCfg cart.Config

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager creates a Manager backed by the given persistence collaborator.
func NewManager(storage *redis.CollectionStore, cartCfg cart.Config) *Manager {
	return &Manager{
		storage:  storage,
		cartCfg:  cartCfg,
		sessions: make(map[string]*entry),
	}
}

// Get returns the stores for the session, creating and rehydrating them on
// first use. Missing or corrupt persisted state yields empty collections; a
// failing persistence collaborator degrades to empty state with a warning,
// never an error — no core operation is fatal.
func (m *Manager) Get(ctx context.Context, sessionID string) *Stores {
	m.mu.Lock()
	if e, ok := m.sessions[sessionID]; ok {
		e.lastSeen = time.Now()
		m.mu.Unlock()
		<-e.ready
		return e.stores
	}

	e := &entry{
		stores: &Stores{
			Cart:     cart.NewStore(m.cartCfg, m.storage.CartPersister(sessionID)),
			Wishlist: wishlist.NewStore(m.storage.WishlistPersister(sessionID)),
		},
		lastSeen: time.Now(),
		ready:    make(chan struct{}),
	}
	m.sessions[sessionID] = e
	m.mu.Unlock()

	// Rehydration talks to the persistence collaborator, so it must not run
	// under the registry mutex: a slow load for one session would stall every
	// other session's Get.
	m.rehydrate(ctx, sessionID, e.stores)
	close(e.ready)
	return e.stores
}

func (m *Manager) rehydrate(ctx context.Context, sessionID string, stores *Stores) {
	lg := zctx.From(ctx)

	lines, err := m.storage.LoadCart(ctx, sessionID)
	switch {
	case errors.Is(err, redis.ErrCorrupt):
		lg.Warn("Corrupt persisted cart, starting empty", zap.String("session", sessionID), zap.Error(err))
	case err != nil:
		lg.Warn("Cart rehydration failed, starting empty", zap.String("session", sessionID), zap.Error(err))
	default:
		stores.Cart.Restore(lines)
	}

	entries, err := m.storage.LoadWishlist(ctx, sessionID)
	switch {
	case errors.Is(err, redis.ErrCorrupt):
		lg.Warn("Corrupt persisted wishlist, starting empty", zap.String("session", sessionID), zap.Error(err))
	case err != nil:
		lg.Warn("Wishlist rehydration failed, starting empty", zap.String("session", sessionID), zap.Error(err))
	default:
		stores.Wishlist.Restore(entries)
	}
}

// Len returns the number of in-memory sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EvictIdle drops in-memory stores not touched since the cutoff. Persisted
// state stays in the collaborator, so an evicted session rehydrates on its
// next request. It returns the number of evicted sessions.
func (m *Manager) EvictIdle(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// StartJanitor launches a background goroutine that evicts sessions idle for
// longer than idleAfter, checking every interval. It stops when ctx is
// cancelled.
func (m *Manager) StartJanitor(ctx context.Context, idleAfter, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := m.EvictIdle(now.Add(-idleAfter)); n > 0 {
					zctx.From(ctx).Debug("Evicted idle sessions", zap.Int("count", n))
				}
			}
		}
	}()
}
