// Package sync implements the reconciliation and offline-mutation-queue
// engine: a three-way diff of the local snapshot against a fresh remote
// snapshot and the tombstone set, followed by an ordered flush of the
// resulting batches (deletes, then creates, then edits) back to the remote
// gateway with isolated per-item failure handling.
package sync

// Phase is the state of a sync session. Transitions are linear:
// Idle → Reconciling → FlushingDeletes → FlushingCreates → FlushingEdits →
// Settled → Idle. A session only starts from Idle; a refresh requested past
// Idle is rejected instead of queued.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseReconciling
	PhaseFlushingDeletes
	PhaseFlushingCreates
	PhaseFlushingEdits
	PhaseSettled
)

// String returns the phase name for logs and status output.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseReconciling:
		return "reconciling"
	case PhaseFlushingDeletes:
		return "flushing-deletes"
	case PhaseFlushingCreates:
		return "flushing-creates"
	case PhaseFlushingEdits:
		return "flushing-edits"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Active reports whether a session is in flight.
func (p Phase) Active() bool {
	return p != PhaseIdle
}

// begin claims the session guard. It returns false when a session is
// already in flight; the caller must not start a second one.
func (e *Engine[T]) begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseIdle {
		return false
	}
	e.phase = PhaseReconciling
	return true
}

// transition advances the session to the given phase.
func (e *Engine[T]) transition(p Phase) {
	e.mu.Lock()
	e.phase = p
	e.mu.Unlock()
}

// settle ends the session, returning the guard to Idle. The Settled phase
// is observable briefly so watchers can distinguish a completed pass from
// one that never ran.
func (e *Engine[T]) settle() {
	e.transition(PhaseSettled)
	e.transition(PhaseIdle)
}
