package collection

import "context"

// Operations is the remote gateway contract. All four operations are
// optional; the engine degrades per missing operation (offline creates stay
// queued when Create is nil, tombstones are retained when Delete is nil, and
// a nil FetchAll disables reconciliation entirely).
type Operations[T any] struct {
	// FetchAll returns the full remote collection.
	FetchAll func(ctx context.Context) ([]T, error)

	// Create pushes a new record; the server assigns the authoritative id
	// and marker and the confirmed record is returned.
	Create func(ctx context.Context, item T) (T, error)

	// Update pushes a changed record and returns the confirmed copy.
	Update func(ctx context.Context, item T) (T, error)

	// Delete removes a record by id and echoes the deleted id.
	Delete func(ctx context.Context, id string) (string, error)
}

// CanFetch reports whether the gateway supports fetching the collection.
func (o Operations[T]) CanFetch() bool { return o.FetchAll != nil }

// CanCreate reports whether the gateway supports creating records.
func (o Operations[T]) CanCreate() bool { return o.Create != nil }

// CanUpdate reports whether the gateway supports updating records.
func (o Operations[T]) CanUpdate() bool { return o.Update != nil }

// CanDelete reports whether the gateway supports deleting records.
func (o Operations[T]) CanDelete() bool { return o.Delete != nil }
