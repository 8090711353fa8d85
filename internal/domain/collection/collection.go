// Package collection implements the generic ordered, keyed collection engine
// shared by the cart and wishlist stores.
//
// A Store owns its entries exclusively: every read hands out cloned
// snapshots, and every mutation synchronously persists the full collection
// and notifies subscribers before returning. Mutations are serialized, so
// callers observe each operation as atomic and applied in call order.
package collection

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront-cart/internal/domain/item"
)

// Entry is a value stored in a collection. Clone must return a copy sharing
// no mutable state with the receiver.
type Entry[E any] interface {
	Key() item.LineKey
	Clone() E
}

// Persister receives the full collection after every mutation. A failed Save
// never rolls back the in-memory mutation: persistence degrades to
// state-lost-on-reload, it does not block the user action.
type Persister[E any] interface {
	Save(ctx context.Context, entries []E) error
}

// Subscriber is notified with a post-mutation snapshot. It runs synchronously
// on the mutating call and must not mutate the store from the callback.
type Subscriber[E any] func(snapshot []E)

// Store is an ordered collection of entries with unique keys. Insertion
// order is preserved for stable display; lookups go through a key index.
type Store[E Entry[E]] struct {
	name      string
	persister Persister[E]

	mu          sync.Mutex
	entries     []E
	index       map[item.LineKey]int
	subscribers map[int]Subscriber[E]
	nextSubID   int
	persistErr  error
}

// New creates an empty Store. The name is used only for logging. A nil
// persister keeps the collection memory-only.
func New[E Entry[E]](name string, persister Persister[E]) *Store[E] {
	return &Store[E]{
		name:        name,
		persister:   persister,
		index:       make(map[item.LineKey]int),
		subscribers: make(map[int]Subscriber[E]),
	}
}

// Restore replaces the collection contents without persisting or notifying.
// It is meant for rehydration at store creation, before any subscriber is
// attached. Entries with duplicate keys keep the first occurrence.
func (s *Store[E]) Restore(entries []E) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = s.entries[:0]
	clear(s.index)
	for _, e := range entries {
		if _, ok := s.index[e.Key()]; ok {
			continue
		}
		s.index[e.Key()] = len(s.entries)
		s.entries = append(s.entries, e.Clone())
	}
}

// Get returns a copy of the entry with the given key.
func (s *Store[E]) Get(key item.LineKey) (E, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero E
	i, ok := s.index[key]
	if !ok {
		return zero, false
	}
	return s.entries[i].Clone(), true
}

// Items returns an ordered snapshot of the collection. Mutating the snapshot
// is never observed by the store.
func (s *Store[E]) Items() []E {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of entries (lines, not quantities).
func (s *Store[E]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Update applies fn to the entry with the given key (the zero value when
// absent) and stores the result. Returning keep=false removes the entry;
// keep=false for an absent key is a no-op. fn must preserve the entry's key.
func (s *Store[E]) Update(ctx context.Context, key item.LineKey, fn func(cur E, exists bool) (next E, keep bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cur E
	i, exists := s.index[key]
	if exists {
		cur = s.entries[i]
	}

	next, keep := fn(cur, exists)
	switch {
	case keep && exists:
		s.entries[i] = next
	case keep:
		s.index[key] = len(s.entries)
		s.entries = append(s.entries, next)
	case exists:
		s.removeAtLocked(i)
	default:
		return // nothing to do
	}
	s.committedLocked(ctx)
}

// Remove deletes the entry with the given key. Absent keys are a silent
// no-op, not an error. It reports whether an entry was removed.
func (s *Store[E]) Remove(ctx context.Context, key item.LineKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[key]
	if !ok {
		return false
	}
	s.removeAtLocked(i)
	s.committedLocked(ctx)
	return true
}

// Clear empties the collection. Clearing an empty collection is a no-op.
func (s *Store[E]) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return
	}
	s.entries = s.entries[:0]
	clear(s.index)
	s.committedLocked(ctx)
}

// Subscribe registers fn to be notified after every mutation. The returned
// function removes the subscription.
func (s *Store[E]) Subscribe(fn Subscriber[E]) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// PersistErr returns the error from the most recent persistence write, or
// nil when the persisted state matches the in-memory state. Callers surface
// it as a non-blocking warning.
func (s *Store[E]) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// removeAtLocked deletes the entry at index i preserving order.
func (s *Store[E]) removeAtLocked(i int) {
	delete(s.index, s.entries[i].Key())
	s.entries = slices.Delete(s.entries, i, i+1)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].Key()] = j
	}
}

// committedLocked runs the post-mutation side effects: write the full
// collection to the persister, then notify subscribers. Both happen before
// the mutating call returns, so a read immediately after a write observes
// the new state everywhere.
func (s *Store[E]) committedLocked(ctx context.Context) {
	snapshot := s.snapshotLocked()

	if s.persister != nil {
		if err := s.persister.Save(ctx, snapshot); err != nil {
			s.persistErr = err
			zctx.From(ctx).Warn("Collection persist failed; in-memory state kept",
				zap.String("collection", s.name),
				zap.Error(err),
			)
		} else {
			s.persistErr = nil
		}
	}

	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}

func (s *Store[E]) snapshotLocked() []E {
	out := make([]E, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}
