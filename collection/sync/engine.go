package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	stdsync "sync"

	"go.uber.org/zap"

	"nexussync/collection"
	"nexussync/connectivity"
)

// Options configures an Engine. Key and Store are required; every gateway
// operation is optional.
type Options[T any] struct {
	// Key is the store key for the local snapshot. The tombstone list is
	// persisted under Key + collection.TombstoneSuffix.
	Key string

	// Gateway is the remote authority. Missing operations degrade the
	// corresponding sync phase instead of failing.
	Gateway collection.Operations[T]

	// Store persists the snapshot and tombstone list between sessions.
	Store collection.Store

	// LoadFirstRemote makes Load refresh from the gateway before falling
	// back to the persisted snapshot, instead of local-first boot.
	LoadFirstRemote bool

	// AutoRefreshOnBackOnline resyncs on every offline→online transition.
	// When false, reconnecting only triggers a refresh until data has been
	// loaded once.
	AutoRefreshOnBackOnline bool

	// OnBackOnline is invoked once per offline→online transition, before
	// any auto-refresh.
	OnBackOnline func()

	// OnError observes every reported error, in reporting order. It runs
	// synchronously on the reporting goroutine.
	OnError func(error)

	// Logger receives engine diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Engine keeps a local replica of one record collection consistent with a
// remote authority. It owns the in-memory view, the tombstone set, and the
// pending-change counter; a single-flight session guard serializes
// reconcile+flush passes. Mutations and sync sessions are expected to run
// on the same logical thread of control; the internal mutex only covers the
// bookkeeping that flush fan-out goroutines report into.
type Engine[T any] struct {
	desc  collection.Descriptor[T]
	ops   collection.Operations[T]
	store collection.Store
	key   string

	loadFirstRemote bool
	autoRefresh     bool
	onBackOnline    func()
	onError         func(error)
	log             *zap.Logger

	mu         stdsync.Mutex
	phase      Phase
	items      []T
	tombstones map[string]struct{}
	pending    int
	online     bool
	upToDate   bool
	loadedOnce bool
	lastErr    error
}

// NewEngine creates an engine for one collection. The descriptor's
// configured capabilities decide how much the engine can do: without an
// identity attribute it never diffs and always trusts remote.
func NewEngine[T any](desc collection.Descriptor[T], opts Options[T]) (*Engine[T], error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("engine requires a snapshot key")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("engine requires a store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine[T]{
		desc:            desc,
		ops:             opts.Gateway,
		store:           opts.Store,
		key:             opts.Key,
		loadFirstRemote: opts.LoadFirstRemote,
		autoRefresh:     opts.AutoRefreshOnBackOnline,
		onBackOnline:    opts.OnBackOnline,
		onError:         opts.OnError,
		log:             logger.With(zap.String("collection", opts.Key)),
		tombstones:      make(map[string]struct{}),
	}, nil
}

// Items returns a copy of the current local view.
func (e *Engine[T]) Items() []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]T, len(e.items))
	copy(out, e.items)
	return out
}

// Pending returns the number of local changes not yet confirmed remotely.
func (e *Engine[T]) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Phase returns the current session phase.
func (e *Engine[T]) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// UpToDate reports whether the last session confirmed every local deletion,
// i.e. no flush phase up to and including deletes was skipped.
func (e *Engine[T]) UpToDate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upToDate
}

// Online reports the last connectivity state the engine was told about.
func (e *Engine[T]) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// Err returns the most recently reported error, nil if none. Errors are
// never fatal; the worst outcome is a skipped sync cycle retried on the
// next trigger.
func (e *Engine[T]) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Tombstones returns the ids deleted while offline and not yet confirmed.
func (e *Engine[T]) Tombstones() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.tombstones))
	for id := range e.tombstones {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// report funnels an error into the caller-observable slot. Last error wins.
func (e *Engine[T]) report(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	e.lastErr = err
	hook := e.onError
	e.mu.Unlock()

	e.log.Warn("sync error", zap.Error(err))
	if hook != nil {
		hook(err)
	}
}

// Load boots the engine from the persisted snapshot and tombstone list.
// With LoadFirstRemote set and connectivity available it refreshes from the
// gateway instead, falling back to local data when the fetch fails.
func (e *Engine[T]) Load(ctx context.Context) error {
	items, tombs := e.loadLocal(ctx)

	e.mu.Lock()
	e.items = items
	e.tombstones = tombs
	e.pending = len(tombs) + countOffline(e.desc, items)
	e.loadedOnce = true
	online := e.online
	e.mu.Unlock()

	if e.loadFirstRemote && online && e.ops.CanFetch() {
		if err := e.Refresh(ctx); err != nil {
			return err
		}
	}
	return nil
}

// SetOnline feeds a connectivity transition into the engine. An
// offline→online edge fires the OnBackOnline hook and, unless auto-refresh
// is disabled and data was already loaded, starts a refresh. A transition
// while a session is in flight never cancels it; in-flight gateway calls
// settle and their results are still folded in.
func (e *Engine[T]) SetOnline(ctx context.Context, online bool) {
	e.mu.Lock()
	was := e.online
	e.online = online
	loaded := e.loadedOnce
	e.mu.Unlock()

	if !online || was {
		return
	}

	e.log.Debug("connectivity restored")
	if e.onBackOnline != nil {
		e.onBackOnline()
	}

	if !e.autoRefresh && loaded {
		return
	}
	if err := e.Refresh(ctx); err != nil && err != collection.ErrSyncInProgress {
		e.report(err)
	}
}

// Run consumes connectivity states until ctx is done or the channel closes.
// Unknown states are ignored; no transition fires for them.
func (e *Engine[T]) Run(ctx context.Context, states <-chan connectivity.State) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-states:
			if !ok {
				return nil
			}
			switch s {
			case connectivity.StateOnline:
				e.SetOnline(ctx, true)
			case connectivity.StateOffline:
				e.SetOnline(ctx, false)
			}
		}
	}
}

// Refresh runs one full sync session: fetch remote, reconcile against the
// persisted snapshot and tombstones, flush the classified batches in order,
// and persist the final merged view. It returns ErrSyncInProgress when a
// session is already in flight.
func (e *Engine[T]) Refresh(ctx context.Context) error {
	if !e.ops.CanFetch() {
		e.log.Debug("no fetch operation configured, skipping refresh")
		return nil
	}
	if !e.begin() {
		return collection.ErrSyncInProgress
	}
	defer e.settle()

	// No identity attribute: nothing to diff, remote is the truth.
	if !e.desc.Configured() {
		return e.refreshDegraded(ctx)
	}

	remote, err := e.ops.FetchAll(ctx)
	if err != nil {
		e.report(err)
		return err
	}

	local, tombs := e.loadLocal(ctx)

	cs, changed := Reconcile(e.desc, local, remote, tombs)

	e.mu.Lock()
	e.tombstones = tombs
	e.pending = len(cs.ToDelete) + len(cs.ToCreate) + len(cs.ToEdit)
	e.loadedOnce = true
	e.mu.Unlock()

	final, deletesSynced := e.flush(ctx, cs)

	e.mu.Lock()
	e.items = final
	e.upToDate = deletesSynced
	e.mu.Unlock()

	if changed || len(cs.ToCreate) > 0 || len(cs.ToEdit) > 0 || len(cs.ToDelete) > 0 {
		e.persistSnapshot(ctx)
	}

	e.log.Info("sync session settled",
		zap.Int("records", len(final)),
		zap.Int("deletes", len(cs.ToDelete)),
		zap.Int("creates", len(cs.ToCreate)),
		zap.Int("edits", len(cs.ToEdit)),
		zap.Bool("upToDate", deletesSynced))
	return nil
}

// refreshDegraded overwrites the local view with whatever the gateway
// returns. Collections without an identity attribute are not worth
// reconciling; this mode exists so they can still be mirrored.
func (e *Engine[T]) refreshDegraded(ctx context.Context) error {
	e.log.Warn("collection has no identity attribute; trusting remote without a diff")

	remote, err := e.ops.FetchAll(ctx)
	if err != nil {
		e.report(err)
		return err
	}

	e.mu.Lock()
	e.items = remote
	e.upToDate = true
	e.loadedOnce = true
	e.mu.Unlock()

	e.persistSnapshot(ctx)
	return nil
}

// loadLocal reads the persisted snapshot and tombstone list. Read or parse
// failures are reported and treated as "no local data"; reconciliation then
// proceeds as if local were empty.
func (e *Engine[T]) loadLocal(ctx context.Context) ([]T, map[string]struct{}) {
	var items []T
	raw, ok, err := e.store.Get(ctx, e.key)
	if err != nil {
		e.report(fmt.Errorf("reading snapshot %q: %w", e.key, err))
	} else if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			e.report(fmt.Errorf("parsing snapshot %q: %w", e.key, err))
			items = nil
		}
	}

	tombs := make(map[string]struct{})
	tombKey := e.key + collection.TombstoneSuffix
	raw, ok, err = e.store.Get(ctx, tombKey)
	if err != nil {
		e.report(fmt.Errorf("reading tombstones %q: %w", tombKey, err))
	} else if ok && raw != "" {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			e.report(fmt.Errorf("parsing tombstones %q: %w", tombKey, err))
		} else {
			for _, id := range ids {
				tombs[id] = struct{}{}
			}
		}
	}

	return items, tombs
}

// persistSnapshot writes the current view under the snapshot key.
func (e *Engine[T]) persistSnapshot(ctx context.Context) {
	e.mu.Lock()
	items := make([]T, len(e.items))
	copy(items, e.items)
	e.mu.Unlock()

	data, err := json.Marshal(items)
	if err != nil {
		e.report(fmt.Errorf("encoding snapshot %q: %w", e.key, err))
		return
	}
	if err := e.store.Set(ctx, e.key, string(data)); err != nil {
		e.report(fmt.Errorf("persisting snapshot %q: %w", e.key, err))
	}
}

// persistTombstones writes the tombstone id list under the derived key.
func (e *Engine[T]) persistTombstones(ctx context.Context) {
	e.mu.Lock()
	ids := make([]string, 0, len(e.tombstones))
	for id := range e.tombstones {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		e.report(fmt.Errorf("encoding tombstones: %w", err))
		return
	}
	key := e.key + collection.TombstoneSuffix
	if err := e.store.Set(ctx, key, string(data)); err != nil {
		e.report(fmt.Errorf("persisting tombstones %q: %w", key, err))
	}
}

func countOffline[T any](desc collection.Descriptor[T], items []T) int {
	n := 0
	for _, it := range items {
		if desc.IsOfflineCreated(it) {
			n++
		}
	}
	return n
}
