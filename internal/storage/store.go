// Package storage provides abstractions for persistent data storage.
package storage

import "context"

// Well-known keys. The values are opaque JSON text owned by the state layer;
// the key names match what the original web client kept in localStorage so a
// migrated database stays readable.
const (
	// KeyItems holds the JSON-serialized item collection.
	KeyItems = "shopping-items"
	// KeyPrefs holds the JSON-serialized household preferences.
	KeyPrefs = "user-prefs"
	// KeyOnboardingDone marks onboarding completion ("true" once done).
	KeyOnboardingDone = "onboarding-done"
)

// Store defines the key-value persistence boundary. Values are whole JSON
// blobs: every write replaces the full value for a key, there is no partial
// or field-level persistence.
//
// This abstraction allows swapping storage backends (SQLite, flat files,
// etc.) without changing the state layer.
type Store interface {
	// Get retrieves the value for key. The boolean is false when the key
	// has never been written, which is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases any resources held by the store.
	Close() error
}
