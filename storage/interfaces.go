package storage

import "context"

// SnapshotStore is the narrow durable key-value contract the engine
// persists through. Implementations must be thread-safe; the engine
// depends on nothing beyond these four operations.
type SnapshotStore interface {
	// Get retrieves the value for a key.
	// Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a value under a key, overwriting any prior value.
	Set(ctx context.Context, key, value []byte) error

	// Remove deletes a key. Removing an absent key is not an error.
	Remove(ctx context.Context, key []byte) error

	// Close closes the storage backend and releases resources.
	Close() error
}
