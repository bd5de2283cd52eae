// Package tui renders a live view of a sync session: current phase,
// pending changes, and the last reported error.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	colsync "nexussync/collection/sync"
)

// Status is one sampled snapshot of an engine, pushed into the model by the
// watch command.
type Status struct {
	Collection string
	Phase      colsync.Phase
	Records    int
	Pending    int
	Online     bool
	UpToDate   bool
	Err        error
	Done       bool
}

type statusMsg Status

type closedMsg struct{}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).MarginTop(1)
	summaryStyle = lipgloss.NewStyle().MarginTop(1)
)

// Model is the bubbletea model for watch mode.
type Model struct {
	spinner  spinner.Model
	status   Status
	updates  <-chan Status
	quitting bool
}

// New creates a watch model fed by updates.
func New(updates <-chan Status) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

	return Model{
		spinner: sp,
		updates: updates,
	}
}

func waitForStatus(updates <-chan Status) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return statusMsg(s)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForStatus(m.updates))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case statusMsg:
		m.status = Status(msg)
		if m.status.Done {
			m.quitting = true
			return m, tea.Quit
		}
		return m, waitForStatus(m.updates)

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.status
	title := titleStyle.Render(fmt.Sprintf("Syncing %s", s.Collection))

	phase := valueStyle.Render(s.Phase.String())
	if s.Phase.Active() {
		phase = m.spinner.View() + " " + phase
	}

	conn := okStyle.Render("online")
	if !s.Online {
		conn = warnStyle.Render("offline")
	}

	body := fmt.Sprintf("%s\n\n%s %s\n%s %s\n%s %s\n%s %s",
		title,
		labelStyle.Render("phase:   "), phase,
		labelStyle.Render("records: "), valueStyle.Render(fmt.Sprintf("%d", s.Records)),
		labelStyle.Render("pending: "), valueStyle.Render(fmt.Sprintf("%d", s.Pending)),
		labelStyle.Render("network: "), conn,
	)

	if s.Err != nil {
		body += "\n" + errStyle.Render(fmt.Sprintf("last error: %v", s.Err))
	}
	if s.Phase == colsync.PhaseIdle && s.UpToDate {
		body += summaryStyle.Render(okStyle.Render("✓ local deletions confirmed remotely"))
	}

	return body + helpStyle.Render("\nq: quit")
}

// Run drives the watch TUI until the updates channel closes, the status
// reports done, or the user quits.
func Run(updates <-chan Status) error {
	_, err := tea.NewProgram(New(updates)).Run()
	return err
}
