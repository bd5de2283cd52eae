package collection

import "context"

// TombstoneSuffix is appended to a collection's snapshot key to derive the
// key under which the offline-deleted id list is persisted.
const TombstoneSuffix = "_deleted"

// Store is the durable key-value contract the engine persists through. Both
// the snapshot and the tombstone list are stored as JSON-serialized arrays
// under string keys. Implementations must be safe for use from a single
// logical caller; the engine never writes the same key concurrently.
type Store interface {
	// Get returns the value stored under key, with ok=false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
}
