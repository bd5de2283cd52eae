package sync

import (
	"context"
	stdsync "sync"

	"go.uber.org/zap"

	"nexussync/collection"
)

// flush pushes the classified batches to the gateway in fixed phase order:
// deletes, then creates, then edits. Deleting stale ids first avoids id
// collisions with newly created remote ids; creating before editing keeps
// edited records that reference new ones consistent. Each phase fans out
// one call per item and waits for the whole batch to settle before the next
// phase starts; a single item's failure never aborts the batch.
//
// It returns the final merged collection and whether local deletions were
// fully synced (no phase skipped up to and including deletes).
func (e *Engine[T]) flush(ctx context.Context, cs ChangeSet[T]) ([]T, bool) {
	merged := cs.Merged
	deletesSynced := true
	unresolved := 0

	// Phase 1: deletes. A settled delete batch always resolves its items
	// because tombstones are cleared regardless of individual errors; only a
	// skipped phase leaves them pending for the next session.
	e.transition(PhaseFlushingDeletes)
	if len(cs.ToDelete) > 0 {
		if !e.ops.CanDelete() {
			// Tombstones are retained for a gateway that can delete.
			e.log.Warn("no delete operation configured, keeping tombstones",
				zap.Int("tombstones", len(cs.ToDelete)))
			deletesSynced = false
			unresolved += len(cs.ToDelete)
		} else {
			e.flushDeletes(ctx, cs.ToDelete)
		}
	}
	e.settlePhase(len(cs.ToDelete), unresolved+len(cs.ToCreate)+len(cs.ToEdit))

	// Phase 2: creates. Confirmed records join the merged set with their
	// authoritative ids; failed ones keep their optimistic copy so the next
	// reconciliation retries them as offline-created.
	e.transition(PhaseFlushingCreates)
	if len(cs.ToCreate) > 0 {
		out, failed := e.flushBatch(ctx, "create", cs.ToCreate, e.ops.Create)
		merged = append(merged, out...)
		unresolved += failed
	}
	e.settlePhase(len(cs.ToCreate), unresolved+len(cs.ToEdit))

	// Phase 3: edits, symmetric with creates.
	e.transition(PhaseFlushingEdits)
	if len(cs.ToEdit) > 0 {
		out, failed := e.flushBatch(ctx, "update", cs.ToEdit, e.ops.Update)
		merged = append(merged, out...)
		unresolved += failed
	}
	e.settlePhase(len(cs.ToEdit), unresolved)

	return merged, deletesSynced
}

// flushDeletes fans out one delete call per tombstoned id and clears the
// tombstone set once the batch settles, regardless of individual errors: an
// id already gone remotely is reconciled, and a transport failure will be
// retried from scratch only if the caller deletes again. The cleared set is
// repersisted immediately.
func (e *Engine[T]) flushDeletes(ctx context.Context, ids []string) {
	errs := make([]error, len(ids))
	var wg stdsync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = e.ops.Delete(ctx, id)
		}(i, id)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if collection.IsNotFoundError(err) {
			e.log.Debug("record already deleted remotely", zap.String("id", ids[i]))
			continue
		}
		e.report(err)
	}

	e.mu.Lock()
	e.tombstones = make(map[string]struct{})
	e.mu.Unlock()
	e.persistTombstones(ctx)
}

// flushBatch fans out op over items and fan-ins the confirmed results. A
// failing item contributes its original optimistic copy instead, so it
// survives in the local view for the next session. The second return is the
// count of such unresolved items, including the whole batch when op is nil.
func (e *Engine[T]) flushBatch(ctx context.Context, name string, items []T, op func(context.Context, T) (T, error)) ([]T, int) {
	out := make([]T, len(items))
	if op == nil {
		e.log.Warn("gateway operation not configured, keeping local copies",
			zap.String("op", name), zap.Int("items", len(items)))
		copy(out, items)
		return out, len(items)
	}

	errs := make([]error, len(items))
	var wg stdsync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			confirmed, err := op(ctx, item)
			if err != nil {
				errs[i] = err
				out[i] = item
				return
			}
			out[i] = confirmed
		}(i, item)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			e.report(err)
			failed++
		}
	}
	return out, failed
}

// settlePhase decrements the pending counter by the settled batch size,
// floored at the count of items still unresolved: failures and skipped
// batches carried over for the next session plus later-phase batches.
func (e *Engine[T]) settlePhase(batch, floor int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending -= batch
	if e.pending < floor {
		e.pending = floor
	}
}
