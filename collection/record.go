// Package collection defines the record model, the remote gateway and local
// store contracts, and the test fakes shared by the sync engine and its
// adapters. A collection is an ordered set of records identified by a
// caller-chosen id attribute and ordered by a version and/or modification
// timestamp marker.
package collection

import "time"

// Descriptor resolves the identity and ordering capabilities of a record
// type once, at construction time. Accessors that do not apply to the
// collection are left nil: a nil ID means the collection has no identity
// attribute and cannot be diffed, a nil Version means conflicts are ordered
// by timestamp alone.
//
// With* accessors are value-in value-out and must not mutate their argument.
type Descriptor[T any] struct {
	// ID returns the record's unique identity.
	ID     func(T) string
	WithID func(T, string) T

	// Version returns the record's version counter, if it carries one.
	Version func(T) (int64, bool)

	// ModifiedAt returns the record's modification timestamp. A zero time
	// means the record carries no usable timestamp.
	ModifiedAt     func(T) time.Time
	WithModifiedAt func(T, time.Time) T

	// OfflineCreated reports whether the record was created locally while
	// the gateway was unreachable and has not been confirmed remotely yet.
	OfflineCreated     func(T) bool
	WithOfflineCreated func(T, bool) T
}

// Configured reports whether the collection has an identity attribute.
// Without one the engine never diffs and always trusts the remote snapshot.
func (d Descriptor[T]) Configured() bool {
	return d.ID != nil
}

// Ordered reports whether the collection has a conflict-ordering marker.
func (d Descriptor[T]) Ordered() bool {
	return d.Version != nil || d.ModifiedAt != nil
}

// Compare orders two copies of the same record by their modification
// markers. It returns a positive value when a is strictly newer, a negative
// value when b is strictly newer, and 0 when the markers are equal.
//
// When both records carry a version it is authoritative; timestamps are
// consulted only when versions are absent or equal. Zero timestamps compare
// equal to everything.
func (d Descriptor[T]) Compare(a, b T) int {
	if d.Version != nil {
		av, aok := d.Version(a)
		bv, bok := d.Version(b)
		if aok && bok && av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}

	if d.ModifiedAt == nil {
		return 0
	}

	at := d.ModifiedAt(a)
	bt := d.ModifiedAt(b)
	if at.IsZero() || bt.IsZero() {
		return 0
	}
	switch {
	case at.After(bt):
		return 1
	case bt.After(at):
		return -1
	default:
		return 0
	}
}

// IsOfflineCreated reports the offline-created flag, false when the
// collection does not track it.
func (d Descriptor[T]) IsOfflineCreated(v T) bool {
	if d.OfflineCreated == nil {
		return false
	}
	return d.OfflineCreated(v)
}
