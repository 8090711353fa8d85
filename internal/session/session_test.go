package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/item"
	"github.com/xenking/storefront-cart/internal/storage/redis"
)

func setupManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	storage := redis.NewCollectionStore(client, time.Hour)
	return NewManager(storage, cart.Config{}), mr
}

func testSelection() item.Line {
	return item.NewLine("p1", "Linen Shirt", decimal.RequireFromString("49.90"),
		"shirt.jpg", "apparel", item.Variants{"size": "M"})
}

func TestManager_CreatesEmptySessionOnFirstUse(t *testing.T) {
	m, _ := setupManager(t)

	stores := m.Get(context.Background(), "sess-1")
	require.NotNil(t, stores)
	assert.True(t, stores.Cart.IsEmpty())
	assert.True(t, stores.Wishlist.IsEmpty())
	assert.Equal(t, 1, m.Len())
}

func TestManager_ReturnsSameStoresForSameSession(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	a := m.Get(ctx, "sess-1")
	b := m.Get(ctx, "sess-1")
	assert.Same(t, a, b)

	other := m.Get(ctx, "sess-2")
	assert.NotSame(t, a, other)
}

func TestManager_RehydratesAfterEviction(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	stores := m.Get(ctx, "sess-1")
	stores.Cart.Add(ctx, testSelection(), 2)
	stores.Wishlist.Add(ctx, testSelection())

	// Evict the in-memory session; persisted state must survive.
	require.Equal(t, 1, m.EvictIdle(time.Now().Add(time.Minute)))
	require.Equal(t, 0, m.Len())

	reloaded := m.Get(ctx, "sess-1")
	require.NotSame(t, stores, reloaded)

	items := reloaded.Cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, testSelection().Key(), items[0].Key())
	assert.True(t, reloaded.Wishlist.Contains(testSelection().Key()))
}

func TestManager_ConcurrentGetsShareRehydratedStores(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	// Persist some state, evict, then race Gets for the evicted session.
	seed := m.Get(ctx, "sess-1")
	seed.Cart.Add(ctx, testSelection(), 2)
	require.Equal(t, 1, m.EvictIdle(time.Now().Add(time.Minute)))

	const n = 16
	got := make([]*Stores, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = m.Get(ctx, "sess-1")
		}()
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, got[0], got[i])
	}

	// Every winner of the race sees fully rehydrated state.
	items := got[0].Cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestManager_CorruptStateStartsEmpty(t *testing.T) {
	m, mr := setupManager(t)

	require.NoError(t, mr.Set("cart:sess-1", "{corrupt"))
	stores := m.Get(context.Background(), "sess-1")
	assert.True(t, stores.Cart.IsEmpty(), "corrupt persisted data is an empty collection, not an error")
}

func TestManager_EvictIdleKeepsActiveSessions(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	m.Get(ctx, "old")
	cutoff := time.Now()
	m.Get(ctx, "fresh")

	assert.Equal(t, 1, m.EvictIdle(cutoff))
	assert.Equal(t, 1, m.Len())

	// The evicted session is recreated on demand.
	m.Get(ctx, "old")
	assert.Equal(t, 2, m.Len())
}
