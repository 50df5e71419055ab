// Package livefeed provides a generic ordered live collection: one
// reconciliation path for every screen that mirrors a message feed.
// The mobile client re-implemented this four times with subtly
// different snapshot strategies; here the strategy is a parameter.
package livefeed

import (
	"context"
	"sort"
	"sync"
)

// Strategy controls how a refresh reconciles fetched items with the
// current state.
type Strategy int

const (
	// FullReload replaces the whole collection with the fetched
	// snapshot (direct-chat behavior).
	FullReload Strategy = iota
	// DiffAppend keeps existing items and appends only fetched items
	// whose key has not been seen, then re-sorts (group-chat behavior).
	DiffAppend
)

// Direction is the render order of the collection.
type Direction int

const (
	// Ascending renders oldest first (top-to-bottom chat).
	Ascending Direction = iota
	// Descending renders newest first (inverted rendering).
	Descending
)

// Config describes one live collection.
type Config[T any] struct {
	// Fetch pulls the current backend snapshot.
	Fetch func(ctx context.Context) ([]T, error)
	// Key returns a stable identity used for DiffAppend dedup.
	Key func(T) string
	// SortKey returns the ordering key (a TimeLayout timestamp).
	SortKey func(T) string
	// Strategy and Direction select the reconciliation behavior.
	Strategy  Strategy
	Direction Direction
}

// Collection is an in-memory mirror of an ordered backend query. It
// has two update paths, a pull (Refresh) and a push (Apply), and both
// leave the items ordered by SortKey under the configured direction,
// ties keeping insertion order.
type Collection[T any] struct {
	cfg Config[T]

	mu     sync.Mutex
	items  []T
	seen   map[string]bool
	pushed map[string]T
	nextID int
	subs   map[int]func([]T)
}

// New builds an empty collection.
func New[T any](cfg Config[T]) *Collection[T] {
	return &Collection[T]{
		cfg:    cfg,
		seen:   make(map[string]bool),
		pushed: make(map[string]T),
		subs:   make(map[int]func([]T)),
	}
}

// Subscription is a registered observer of a collection.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Cancel detaches the observer. After Cancel returns no further
// updates are delivered.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe registers an observer and immediately delivers the current
// snapshot. The callback runs on the caller of Refresh/Apply.
func (c *Collection[T]) Subscribe(onUpdate func([]T)) *Subscription {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = onUpdate
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	onUpdate(snapshot)
	return &Subscription{cancel: func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}}
}

// Refresh pulls a fresh snapshot and reconciles it according to the
// configured strategy.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	fetched, err := c.cfg.Fetch(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	switch c.cfg.Strategy {
	case FullReload:
		c.items = c.items[:0]
		c.seen = make(map[string]bool)
		for _, it := range fetched {
			c.items = append(c.items, it)
			key := c.cfg.Key(it)
			c.seen[key] = true
			delete(c.pushed, key)
		}
		// Fetch runs outside the lock, so an item pushed while the
		// fetch was in flight is missing from the snapshot. Carry it
		// over until a later snapshot contains it.
		for key, it := range c.pushed {
			c.items = append(c.items, it)
			c.seen[key] = true
		}
	case DiffAppend:
		for _, it := range fetched {
			key := c.cfg.Key(it)
			delete(c.pushed, key)
			if !c.seen[key] {
				c.items = append(c.items, it)
				c.seen[key] = true
			}
		}
	}
	c.sortLocked()
	snapshot := c.snapshotLocked()
	subs := c.subsLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return nil
}

// Apply merges a single pushed item (a live-listener diff). Items with
// an already-seen key are ignored, so re-delivery is a no-op. The item
// is remembered until a refresh snapshot contains it, so a reload that
// raced the push cannot drop it.
func (c *Collection[T]) Apply(item T) {
	c.mu.Lock()
	key := c.cfg.Key(item)
	if c.seen[key] {
		c.mu.Unlock()
		return
	}
	c.seen[key] = true
	c.pushed[key] = item
	c.items = append(c.items, item)
	c.sortLocked()
	snapshot := c.snapshotLocked()
	subs := c.subsLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Items returns the current ordered snapshot.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Collection[T]) sortLocked() {
	asc := c.cfg.Direction == Ascending
	sort.SliceStable(c.items, func(i, j int) bool {
		ki, kj := c.cfg.SortKey(c.items[i]), c.cfg.SortKey(c.items[j])
		if asc {
			return ki < kj
		}
		return ki > kj
	})
}

func (c *Collection[T]) snapshotLocked() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) subsLocked() []func([]T) {
	out := make([]func([]T), 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}
