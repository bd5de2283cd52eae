package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func recvState(t *testing.T, ch <-chan State) State {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for a transition")
		return StateUnknown
	}
}

// TestTrackerInitialState tests the starting state
func TestTrackerInitialState(t *testing.T) {
	tr := NewTracker()
	if got := tr.State(); got != StateUnknown {
		t.Errorf("Initial state = %v, want unknown", got)
	}
}

// TestTrackerPublishesTransitions tests fan-out of real transitions
func TestTrackerPublishesTransitions(t *testing.T) {
	tr := NewTracker()
	ch := tr.Subscribe()

	tr.Set(true)
	if got := recvState(t, ch); got != StateOnline {
		t.Errorf("First transition = %v, want online", got)
	}

	tr.Set(false)
	if got := recvState(t, ch); got != StateOffline {
		t.Errorf("Second transition = %v, want offline", got)
	}

	if got := tr.State(); got != StateOffline {
		t.Errorf("State = %v, want offline", got)
	}
}

// TestTrackerDeduplicates tests that repeated readings publish nothing
func TestTrackerDeduplicates(t *testing.T) {
	tr := NewTracker()
	ch := tr.Subscribe()

	tr.Set(true)
	tr.Set(true)
	tr.Set(true)

	recvState(t, ch)
	select {
	case s := <-ch:
		t.Errorf("Unexpected extra transition %v", s)
	default:
	}
}

// TestTrackerMultipleSubscribers tests independent fan-out
func TestTrackerMultipleSubscribers(t *testing.T) {
	tr := NewTracker()
	a := tr.Subscribe()
	b := tr.Subscribe()

	tr.Set(true)

	if got := recvState(t, a); got != StateOnline {
		t.Errorf("Subscriber a got %v", got)
	}
	if got := recvState(t, b); got != StateOnline {
		t.Errorf("Subscriber b got %v", got)
	}
}

// TestTrackerSlowSubscriber tests that a full buffer never blocks Set
func TestTrackerSlowSubscriber(t *testing.T) {
	tr := NewTracker()
	tr.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			tr.Set(i%2 == 0)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Set blocked on a slow subscriber")
	}
}

// TestTrackerLatestSurvivesFullBuffer tests that an undrained subscriber
// still sees the most recent transition
func TestTrackerLatestSurvivesFullBuffer(t *testing.T) {
	tr := NewTracker()
	ch := tr.Subscribe()

	// Alternate well past the buffer size, ending online.
	for i := 0; i < 50; i++ {
		tr.Set(i%2 == 0)
	}
	tr.Set(true)

	var last State
	for {
		select {
		case s := <-ch:
			last = s
			continue
		default:
		}
		break
	}
	if last != StateOnline {
		t.Errorf("Last buffered transition = %v, want online", last)
	}
}

// TestTrackerClose tests channel closure and post-close silence
func TestTrackerClose(t *testing.T) {
	tr := NewTracker()
	ch := tr.Subscribe()

	tr.Close()
	if _, ok := <-ch; ok {
		t.Error("Expected the subscriber channel closed")
	}

	// Double close and post-close readings are no-ops
	tr.Close()
	tr.Set(true)
}

// TestStateString tests the state names
func TestStateString(t *testing.T) {
	if StateOnline.String() != "online" || StateOffline.String() != "offline" || StateUnknown.String() != "unknown" {
		t.Error("Unexpected state names")
	}
}

// TestProbeReachable tests a live endpoint
func TestProbeReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	online, reason := NewProbe().Check(context.Background(), srv.URL)
	if !online {
		t.Errorf("Expected the test server reachable, reason: %s", reason)
	}
}

// TestProbeHTTPErrorStillOnline tests that an error status means the host
// is up
func TestProbeHTTPErrorStillOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	online, _ := NewProbe().Check(context.Background(), srv.URL)
	if !online {
		t.Error("An HTTP error status must still count as online")
	}
}

// TestProbeRefused tests a closed port
func TestProbeRefused(t *testing.T) {
	// Grab a port and close it so nothing is listening
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewProbe()
	p.Timeout = time.Second
	online, reason := p.Check(context.Background(), url)
	if online {
		t.Error("Expected a closed port to report offline")
	}
	if reason == "" {
		t.Error("Expected a reason for the failure")
	}
}

// TestProbeInvalidURL tests URL validation
func TestProbeInvalidURL(t *testing.T) {
	online, reason := NewProbe().Check(context.Background(), "not a url")
	if online {
		t.Error("Expected an invalid URL to report offline")
	}
	if reason == "" {
		t.Error("Expected a reason")
	}
}
