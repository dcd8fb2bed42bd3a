// Package state owns the in-memory application state and its persistence.
//
// A single Controller replaces the original client's ambient module-level
// store: it is loaded once at startup, every mutation goes through one of
// its methods, and each mutation synchronously writes the whole affected
// collection back to the storage.Store. Persistence is best-effort: a failed
// write is logged and the user action still succeeds.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nivke/cartmate/internal/models"
	"github.com/nivke/cartmate/internal/storage"
	syncpkg "github.com/nivke/cartmate/internal/sync"
)

// ErrNotFound is returned when an operation names an item id that is not in
// the collection.
var ErrNotFound = errors.New("item not found")

// Controller holds the household's items, preferences, and onboarding flag.
// The logical model is single-writer, but the HTTP host serves requests
// concurrently, so access is guarded by a mutex.
type Controller struct {
	mu    sync.Mutex
	store storage.Store

	items     []models.Item
	prefs     *models.Preferences
	onboarded bool
}

// NewController creates a Controller backed by the given store. Call Load
// before serving requests.
func NewController(store storage.Store) *Controller {
	return &Controller{store: store}
}

// Load seeds the in-memory state from the store. A missing key means a
// fresh install; an unreadable or corrupt value degrades to the same empty
// state with a warning rather than failing startup.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value, ok := c.loadKey(ctx, storage.KeyItems); ok {
		var items []models.Item
		if err := json.Unmarshal([]byte(value), &items); err != nil {
			slog.Warn("Discarding unreadable item collection", "error", err)
		} else {
			c.items = items
		}
	}

	if value, ok := c.loadKey(ctx, storage.KeyPrefs); ok {
		var prefs models.Preferences
		if err := json.Unmarshal([]byte(value), &prefs); err != nil {
			slog.Warn("Discarding unreadable preferences", "error", err)
		} else {
			c.prefs = &prefs
		}
	}

	if value, ok := c.loadKey(ctx, storage.KeyOnboardingDone); ok {
		c.onboarded = value == "true"
	}
}

func (c *Controller) loadKey(ctx context.Context, key string) (string, bool) {
	value, ok, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("Failed to read from store, starting empty", "key", key, "error", err)
		return "", false
	}
	return value, ok
}

// Snapshot returns a copy of the current items and preferences. The items
// slice is the caller's to keep; preferences are copied too.
func (c *Controller) Snapshot() ([]models.Item, *models.Preferences, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.Item, len(c.items))
	copy(items, c.items)

	var prefs *models.Preferences
	if c.prefs != nil {
		p := *c.prefs
		prefs = &p
	}
	return items, prefs, c.onboarded
}

// AddItem validates and prepends a new item (newest first, matching the
// display order) and persists the collection.
func (c *Controller) AddItem(ctx context.Context, item models.Item) error {
	if item.Name == "" {
		return fmt.Errorf("item name must not be empty")
	}
	if item.ID == "" {
		return fmt.Errorf("item id must not be empty")
	}
	if !item.Status.Valid() {
		return fmt.Errorf("unknown status %q", item.Status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]models.Item{item}, c.items...)
	c.saveItems(ctx)
	return nil
}

// UpdateStatus reassigns the status of the item with the given id and
// refreshes its updatedAt timestamp.
func (c *Controller) UpdateStatus(ctx context.Context, id string, status models.Status) (models.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			if err := c.items[i].SetStatus(status); err != nil {
				return models.Item{}, err
			}
			c.saveItems(ctx)
			return c.items[i], nil
		}
	}
	return models.Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// RemoveItem deletes the item with the given id from the collection.
// Removal is orthogonal to status and allowed from any state.
func (c *Controller) RemoveItem(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.saveItems(ctx)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// SetPreferences overwrites the household preferences and marks onboarding
// as completed.
func (c *Controller) SetPreferences(ctx context.Context, prefs models.Preferences) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prefs = &prefs
	c.onboarded = true
	c.savePrefs(ctx)
	c.saveKey(ctx, storage.KeyOnboardingDone, "true")
}

// ApplySync folds a confirmed incoming payload into the local state using
// the merge resolver, then persists both collections. Applying the same
// payload again is a no-op for items.
func (c *Controller) ApplySync(ctx context.Context, incoming *models.SyncPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, prefs := syncpkg.Merge(c.items, c.prefs, incoming)
	c.items = items
	c.prefs = prefs
	c.saveItems(ctx)
	c.savePrefs(ctx)
}

// saveItems persists the whole item collection. Callers must hold c.mu.
func (c *Controller) saveItems(ctx context.Context) {
	items := c.items
	if items == nil {
		items = []models.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		slog.Error("Failed to marshal items", "error", err)
		return
	}
	c.saveKey(ctx, storage.KeyItems, string(data))
}

// savePrefs persists the preferences. Callers must hold c.mu.
func (c *Controller) savePrefs(ctx context.Context) {
	if c.prefs == nil {
		return
	}
	data, err := json.Marshal(c.prefs)
	if err != nil {
		slog.Error("Failed to marshal preferences", "error", err)
		return
	}
	c.saveKey(ctx, storage.KeyPrefs, string(data))
}

func (c *Controller) saveKey(ctx context.Context, key, value string) {
	if err := c.store.Set(ctx, key, value); err != nil {
		slog.Error("Failed to persist state", "key", key, "error", err)
	}
}
