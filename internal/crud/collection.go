// Package crud holds the mutate-then-relist collection every screen uses. After each successful
// create, update or delete the whole list is fetched again instead of patched locally, so the
// snapshot never drifts from what the API holds.
package crud

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"mentorship/internal/logger"
)

// Resource is an HTTP-backed repository of T keyed by K.
type Resource[T any, K any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, key K) error
}

// ReloadError reports a mutation that reached the API but whose follow-up list fetch failed.
// The change itself is persisted.
type ReloadError struct {
	Err error
}

func (e *ReloadError) Error() string { return "reload after change: " + e.Err.Error() }

func (e *ReloadError) Unwrap() error { return e.Err }

// Collection is a screen's snapshot of a Resource.
type Collection[T any, K any] struct {
	res  Resource[T, K]
	name string
	log  zerolog.Logger

	mu     sync.RWMutex
	items  []T
	loaded bool
	err    error
}

// New wraps res. name only labels log lines.
func New[T any, K any](name string, res Resource[T, K]) *Collection[T, K] {
	return &Collection[T, K]{
		res:  res,
		name: name,
		log:  logger.Get().With().Str("component", "crud").Str("collection", name).Logger(),
	}
}

// Items returns a copy of the last successfully fetched list.
func (c *Collection[T, K]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Loaded reports whether any list has been fetched yet.
func (c *Collection[T, K]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Err is the error of the last failed list fetch, cleared by the next successful one.
func (c *Collection[T, K]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Reload fetches the list. On failure the previous snapshot is kept.
func (c *Collection[T, K]) Reload(ctx context.Context) error {
	items, err := c.res.List(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = err
		c.log.Warn().Err(err).Msg("reload failed")
		return err
	}
	c.items = items
	c.loaded = true
	c.err = nil
	return nil
}

// Create adds item and reloads. A failed create leaves the snapshot untouched.
func (c *Collection[T, K]) Create(ctx context.Context, item T) (T, error) {
	saved, err := c.res.Create(ctx, item)
	if err != nil {
		return saved, err
	}
	return saved, c.reloadAfterChange(ctx)
}

// Update saves item and reloads.
func (c *Collection[T, K]) Update(ctx context.Context, item T) (T, error) {
	saved, err := c.res.Update(ctx, item)
	if err != nil {
		return saved, err
	}
	return saved, c.reloadAfterChange(ctx)
}

// Delete removes key and reloads. A failed reload comes back as *ReloadError.
func (c *Collection[T, K]) Delete(ctx context.Context, key K) error {
	if err := c.res.Delete(ctx, key); err != nil {
		return err
	}
	return c.reloadAfterChange(ctx)
}

func (c *Collection[T, K]) reloadAfterChange(ctx context.Context) error {
	if err := c.Reload(ctx); err != nil {
		return &ReloadError{Err: err}
	}
	return nil
}
