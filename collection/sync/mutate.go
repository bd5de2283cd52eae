package sync

import (
	"context"
	"strconv"
	"time"

	"nexussync/collection"
)

// localID generates an id for a record created while offline. It is derived
// from the current time so it cannot collide with likely remote ids, and
// prefixed so optimistic ids are recognizable until the gateway assigns an
// authoritative one.
func localID(now time.Time) string {
	return "local-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Save applies a create optimistically. Online with a create operation
// configured, the gateway is called immediately and only the confirmed
// record joins the local view; a remote failure is reported and nothing is
// inserted. Offline (or without a create operation), the record is stamped
// with a time-derived local id, flagged offline-created, marker-bumped, and
// appended to the view; the next flush pushes it.
func (e *Engine[T]) Save(ctx context.Context, item T) (T, error) {
	var zero T
	if !e.desc.Configured() {
		e.report(collection.ErrNoIdentity)
		return zero, collection.ErrNoIdentity
	}

	if e.Online() && e.ops.CanCreate() {
		confirmed, err := e.ops.Create(ctx, item)
		if err != nil {
			e.report(err)
			return zero, err
		}
		e.mu.Lock()
		e.items = append(e.items, confirmed)
		e.mu.Unlock()
		e.persistSnapshot(ctx)
		return confirmed, nil
	}

	now := time.Now()
	if e.desc.WithID != nil {
		item = e.desc.WithID(item, localID(now))
	}
	if e.desc.WithOfflineCreated != nil {
		item = e.desc.WithOfflineCreated(item, true)
	}
	if e.desc.WithModifiedAt != nil {
		item = e.desc.WithModifiedAt(item, now)
	}

	e.mu.Lock()
	e.items = append(e.items, item)
	e.pending++
	e.mu.Unlock()
	e.persistSnapshot(ctx)
	return item, nil
}

// Update applies an edit optimistically. Online, the gateway confirms and
// the matching local record is replaced with the confirmed copy; offline,
// the record's modification marker is bumped and it is replaced by id so
// the next reconciliation classifies it as local-wins.
func (e *Engine[T]) Update(ctx context.Context, item T) (T, error) {
	var zero T
	if !e.desc.Configured() {
		e.report(collection.ErrNoIdentity)
		return zero, collection.ErrNoIdentity
	}
	if !e.desc.Ordered() {
		e.report(collection.ErrNoOrdering)
		return zero, collection.ErrNoOrdering
	}

	if e.Online() && e.ops.CanUpdate() {
		confirmed, err := e.ops.Update(ctx, item)
		if err != nil {
			e.report(err)
			return zero, err
		}
		e.replace(confirmed)
		e.persistSnapshot(ctx)
		return confirmed, nil
	}

	if e.desc.WithModifiedAt != nil {
		item = e.desc.WithModifiedAt(item, time.Now())
	}
	e.replace(item)
	e.mu.Lock()
	e.pending++
	e.mu.Unlock()
	e.persistSnapshot(ctx)
	return item, nil
}

// Delete removes a record. Online, the gateway is called first and the view
// only changes on confirmation (a remote 404 counts as confirmed). Offline,
// the record leaves the view immediately and its id joins the tombstone
// set, to be consumed by the delete phase of the next flush.
func (e *Engine[T]) Delete(ctx context.Context, item T) error {
	if !e.desc.Configured() {
		e.report(collection.ErrNoIdentity)
		return collection.ErrNoIdentity
	}
	id := e.desc.ID(item)

	if e.Online() && e.ops.CanDelete() {
		if _, err := e.ops.Delete(ctx, id); err != nil && !collection.IsNotFoundError(err) {
			e.report(err)
			return err
		}
		e.remove(id)
		e.persistSnapshot(ctx)
		return nil
	}

	e.remove(id)
	e.mu.Lock()
	e.tombstones[id] = struct{}{}
	e.pending++
	e.mu.Unlock()
	e.persistSnapshot(ctx)
	e.persistTombstones(ctx)
	return nil
}

// replace swaps the record with the same id, or appends when the id is not
// in the view yet.
func (e *Engine[T]) replace(item T) {
	id := e.desc.ID(item)
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.items {
		if e.desc.ID(e.items[i]) == id {
			e.items[i] = item
			return
		}
	}
	e.items = append(e.items, item)
}

func (e *Engine[T]) remove(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.items {
		if e.desc.ID(e.items[i]) == id {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return
		}
	}
}
