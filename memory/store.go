// Package memory provides the key-value storage port behind chat history
// persistence. A Store holds opaque byte values under string keys; callers
// above it decide encoding and naming.
package memory

import "context"

// Store translates between external storage and the internal key-value namespace.
// Implementations are stateless with respect to callers: each call performs
// its own I/O and returns copies of stored values.
type Store interface {
	// List returns all available keys in the store.
	List(ctx context.Context) ([]string, error)
	// Load retrieves entries for the specified keys. A missing key fails the
	// whole call with ErrKeyNotFound.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save persists entries to storage, creating or overwriting as needed.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries from storage. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
