package sync

import (
	"sort"

	"nexussync/collection"
)

// ChangeSet is the classified output of one reconciliation pass. The three
// record partitions are disjoint, and together with ToDelete they cover
// every id present in local ∪ remote.
type ChangeSet[T any] struct {
	// ToDelete holds tombstoned ids whose remote delete has not been
	// confirmed yet.
	ToDelete []string

	// ToCreate holds local-only records flagged offline-created.
	ToCreate []T

	// ToEdit holds records present on both sides where the local marker is
	// strictly newer; they will be pushed to the gateway.
	ToEdit []T

	// Merged holds everything else: unchanged records (local copy kept),
	// remote-wins conflicts (remote copy), and remote-only records.
	Merged []T
}

// Reconcile three-way diffs the local snapshot against the remote snapshot
// and the tombstone set. It returns the classified change set and whether
// the local view differs from what was persisted (remote-wins conflicts,
// remote deletions, or remote-only additions).
//
// For each local record the remote is searched by id. A match is ordered by
// desc.Compare: equal markers keep the local copy with no remote call, a
// strictly newer local marker queues an edit, a strictly newer remote
// marker takes the remote copy. A local record missing remotely is either
// an unflushed offline create (kept, queued for create) or a remote
// deletion (dropped). Remote records with no local match are adopted unless
// their id is tombstoned: a tombstone means the record was deleted locally
// while offline and must not be resurrected before the delete is flushed.
func Reconcile[T any](desc collection.Descriptor[T], local, remote []T, tombstones map[string]struct{}) (ChangeSet[T], bool) {
	cs := ChangeSet[T]{}
	for id := range tombstones {
		cs.ToDelete = append(cs.ToDelete, id)
	}
	sort.Strings(cs.ToDelete)

	remoteByID := make(map[string]int, len(remote))
	for i, r := range remote {
		remoteByID[desc.ID(r)] = i
	}

	matched := make(map[string]struct{}, len(local))
	hasLocalChange := false

	for _, l := range local {
		id := desc.ID(l)
		ri, found := remoteByID[id]
		if !found {
			if desc.IsOfflineCreated(l) {
				cs.ToCreate = append(cs.ToCreate, l)
				continue
			}
			// Deleted remotely: drop without a partition.
			hasLocalChange = true
			continue
		}

		matched[id] = struct{}{}
		switch c := desc.Compare(l, remote[ri]); {
		case c > 0:
			cs.ToEdit = append(cs.ToEdit, l)
		case c < 0:
			cs.Merged = append(cs.Merged, remote[ri])
			hasLocalChange = true
		default:
			cs.Merged = append(cs.Merged, l)
		}
	}

	for _, r := range remote {
		id := desc.ID(r)
		if _, ok := matched[id]; ok {
			continue
		}
		if _, dead := tombstones[id]; dead {
			continue
		}
		cs.Merged = append(cs.Merged, r)
		hasLocalChange = true
	}

	return cs, hasLocalChange
}
