package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stefanpenner/labbook/pkg/digest"
	"github.com/stefanpenner/labbook/pkg/store"
	"github.com/stefanpenner/labbook/pkg/tracker"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

type inputKind int

const (
	inputNone inputKind = iota
	inputNote
	inputGoal
)

// Model is the Bubble Tea model for today's goal board.
type Model struct {
	tracker *tracker.Tracker
	project string
	sync    func() error
	copy    func(string) error
	keys    KeyMap
	help    help.Model
	width   int
	height  int

	summary tracker.Summary
	items   []GoalItem
	cursor  int

	// Input mode (progress note or new goal)
	input     inputKind
	textInput textinput.Model

	showHelpModal bool

	// Status message
	statusMsg     string
	statusTimeout time.Time
}

// NewModel creates a board for the tracker's current day. syncFn may be nil
// when the projects root is not a git repository.
func NewModel(t *tracker.Tracker, project string, syncFn func() error) Model {
	ti := textinput.New()
	ti.CharLimit = 256

	m := Model{
		tracker:   t,
		project:   project,
		sync:      syncFn,
		copy:      clipboard.WriteAll,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		textInput: ti,
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.reload()
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reload()
		return m, nil

	case SyncDoneMsg:
		if msg.Err != nil {
			m.setStatus("Sync failed: " + msg.Err.Error())
		} else {
			m.setStatus("Synced successfully")
			m.reload()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.input != inputNone {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input != inputNone {
		switch msg.Type {
		case tea.KeyEsc:
			m.input = inputNone
			m.textInput.Blur()
			return m, nil
		case tea.KeyEnter:
			m.submitInput(strings.TrimSpace(m.textInput.Value()))
			m.input = inputNone
			m.textInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
	}

	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Cycle):
		if item, ok := m.editable(); ok {
			m.apply(m.tracker.UpdateGoal(item.Position, NextState(item.Status), ""))
		}

	case key.Matches(msg, m.keys.Complete):
		if item, ok := m.editable(); ok {
			if m.apply(m.tracker.UpdateGoal(item.Position, store.StateCompleted, "")) {
				m.setStatus("Completed: " + item.Goal)
			}
		}

	case key.Matches(msg, m.keys.Note):
		if _, ok := m.editable(); ok {
			return m, m.startInput(inputNote, "progress note")
		}

	case key.Matches(msg, m.keys.Add):
		return m, m.startInput(inputGoal, "new goal")

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Copy):
		d := digest.Build(m.project, []tracker.Summary{m.summary}, m.tracker.Now())
		if err := m.copy(d.Body); err != nil {
			m.setStatus("Copy failed: " + err.Error())
		} else {
			m.setStatus("Copied today's digest")
		}

	case key.Matches(msg, m.keys.Sync):
		if m.sync == nil {
			m.setStatus("Sync not configured. Run 'labbook init --remote URL'")
			return m, nil
		}
		m.setStatus("Syncing...")
		return m, m.doSync()

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
	}

	return m, nil
}

func (m *Model) startInput(kind inputKind, placeholder string) tea.Cmd {
	m.input = kind
	m.textInput.SetValue("")
	m.textInput.Placeholder = placeholder
	return tea.Batch(m.textInput.Focus(), textinput.Blink)
}

func (m *Model) submitInput(text string) {
	if text == "" {
		return
	}
	switch m.input {
	case inputNote:
		if item, ok := m.selected(); ok {
			if m.apply(m.tracker.UpdateGoal(item.Position, "", text)) {
				m.setStatus("Note added")
			}
		}
	case inputGoal:
		if m.apply(m.tracker.OpenDay([]string{text})) {
			m.cursor = len(m.items) - 1
			m.setStatus("Added: " + text)
		}
	}
}

// apply reloads after a tracker mutation, or surfaces its error.
func (m *Model) apply(_ *store.DailyLog, err error) bool {
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return false
	}
	m.reload()
	return true
}

func (m *Model) selected() (GoalItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return GoalItem{}, false
	}
	return m.items[m.cursor], true
}

// editable returns the selected goal unless it is completed.
func (m *Model) editable() (GoalItem, bool) {
	item, ok := m.selected()
	if !ok {
		return GoalItem{}, false
	}
	if item.Locked {
		m.setStatus(store.ErrGoalCompleted.Error())
		return GoalItem{}, false
	}
	return item, true
}

func (m *Model) reload() {
	s, err := m.tracker.Summary()
	if err != nil {
		if errors.Is(err, store.ErrMalformedLog) {
			m.setStatus("Today's log is malformed: " + err.Error())
		} else {
			m.setStatus("Error: " + err.Error())
		}
		return
	}
	m.summary = s
	m.items = BuildGoalItems(s)
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

func (m Model) doSync() tea.Cmd {
	syncFn := m.sync
	return func() tea.Msg {
		return SyncDoneMsg{Err: syncFn()}
	}
}
