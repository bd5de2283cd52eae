package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	colsync "nexussync/collection/sync"
)

// TestViewShowsStatus tests basic rendering
func TestViewShowsStatus(t *testing.T) {
	m := New(nil)
	m.status = Status{
		Collection: "notes",
		Phase:      colsync.PhaseFlushingCreates,
		Records:    12,
		Pending:    3,
		Online:     true,
	}

	view := m.View()
	if !strings.Contains(view, "notes") {
		t.Error("View missing the collection name")
	}
	if !strings.Contains(view, "flushing-creates") {
		t.Error("View missing the phase")
	}
	if !strings.Contains(view, "12") {
		t.Error("View missing the record count")
	}
	if !strings.Contains(view, "online") {
		t.Error("View missing the network state")
	}
}

// TestViewShowsError tests error rendering
func TestViewShowsError(t *testing.T) {
	m := New(nil)
	m.status = Status{
		Collection: "notes",
		Err:        errors.New("gateway timeout"),
	}

	if !strings.Contains(m.View(), "gateway timeout") {
		t.Error("View missing the last error")
	}
}

// TestViewOffline tests the offline indicator
func TestViewOffline(t *testing.T) {
	m := New(nil)
	m.status = Status{Collection: "notes", Online: false}

	if !strings.Contains(m.View(), "offline") {
		t.Error("View missing the offline indicator")
	}
}

// TestUpdateStatusMessage tests status consumption
func TestUpdateStatusMessage(t *testing.T) {
	updates := make(chan Status, 1)
	m := New(updates)

	next, cmd := m.Update(statusMsg{Collection: "notes", Records: 5})
	model := next.(Model)

	if model.status.Records != 5 {
		t.Errorf("Status not applied, records = %d", model.status.Records)
	}
	if cmd == nil {
		t.Error("Expected a command to wait for the next status")
	}
}

// TestUpdateDoneQuits tests that a done status ends the program
func TestUpdateDoneQuits(t *testing.T) {
	m := New(nil)

	next, cmd := m.Update(statusMsg{Done: true})
	model := next.(Model)

	if !model.quitting {
		t.Error("Expected the model to quit on done")
	}
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if model.View() != "" {
		t.Error("Expected an empty view while quitting")
	}
}

// TestUpdateChannelClosed tests shutdown on a closed updates channel
func TestUpdateChannelClosed(t *testing.T) {
	m := New(nil)

	next, cmd := m.Update(closedMsg{})
	if !next.(Model).quitting {
		t.Error("Expected the model to quit when updates close")
	}
	if cmd == nil {
		t.Error("Expected a quit command")
	}
}

// TestUpdateQuitKeys tests keyboard shutdown
func TestUpdateQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		m := New(nil)
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		if key == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}

		next, _ := m.Update(msg)
		if !next.(Model).quitting {
			t.Errorf("Expected %q to quit", key)
		}
	}
}

// TestWaitForStatus tests the channel-to-message bridge
func TestWaitForStatus(t *testing.T) {
	updates := make(chan Status, 1)
	updates <- Status{Collection: "notes"}

	msg := waitForStatus(updates)()
	s, ok := msg.(statusMsg)
	if !ok {
		t.Fatalf("Expected a statusMsg, got %T", msg)
	}
	if s.Collection != "notes" {
		t.Errorf("Collection = %q", s.Collection)
	}

	close(updates)
	if _, ok := waitForStatus(updates)().(closedMsg); !ok {
		t.Error("Expected a closedMsg on a closed channel")
	}
}
