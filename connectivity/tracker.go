// Package connectivity provides the online/offline signal the sync engine
// reacts to: a Tracker that fans transitions out to subscribers, and a
// Probe that checks whether a gateway host is actually reachable.
package connectivity

import "sync"

// State is a connectivity reading. Unknown readings are never published;
// no transition fires for them.
type State int

const (
	StateUnknown State = iota
	StateOffline
	StateOnline
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOffline:
		return "offline"
	case StateOnline:
		return "online"
	default:
		return "unknown"
	}
}

// Tracker is a manual connectivity source. Callers feed it readings via Set
// and subscribers receive deduplicated transitions. Subscriber channels are
// buffered; a subscriber that falls far behind misses intermediate
// transitions rather than blocking the publisher, but the newest transition
// always lands in its buffer.
type Tracker struct {
	mu     sync.Mutex
	state  State
	subs   []chan State
	closed bool
}

// NewTracker creates a tracker in the Unknown state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Set records a reading. Only actual transitions are published.
func (t *Tracker) Set(online bool) {
	next := StateOffline
	if online {
		next = StateOnline
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.state == next {
		return
	}
	t.state = next
	for _, ch := range t.subs {
		select {
		case ch <- next:
		default:
			// Full buffer: evict the oldest reading so the newest one is
			// never the one dropped.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
}

// State returns the last recorded reading.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Subscribe returns a channel of transitions. The channel is closed by
// Close.
func (t *Tracker) Subscribe() <-chan State {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch := make(chan State, 8)
	t.subs = append(t.subs, ch)
	return ch
}

// Close closes all subscriber channels. Further Set calls are ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for _, ch := range t.subs {
		close(ch)
	}
	t.subs = nil
}
