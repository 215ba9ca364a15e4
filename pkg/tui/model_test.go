package tui

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/labbook/pkg/store"
	"github.com/stefanpenner/labbook/pkg/tracker"
)

var testNow = time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

func setupTestBoard(t *testing.T, goals ...string) (Model, *store.Store) {
	t.Helper()
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)
	tr := tracker.New(s, nil, tracker.WithClock(func() time.Time { return testNow }))
	if len(goals) > 0 {
		_, err := tr.OpenDay(goals)
		require.NoError(t, err)
	}
	return NewModel(tr, "lab", nil), s
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func loadToday(t *testing.T, s *store.Store) *store.DailyLog {
	t.Helper()
	log, err := s.LoadDailyLog(testNow)
	require.NoError(t, err)
	require.NotNil(t, log)
	return log
}

func TestNextState(t *testing.T) {
	assert.Equal(t, store.StateInProgress, NextState(store.StatePending))
	assert.Equal(t, store.StateBlocked, NextState(store.StateInProgress))
	assert.Equal(t, store.StatePending, NextState(store.StateBlocked))
}

func TestBoardCyclesStatus(t *testing.T) {
	m, s := setupTestBoard(t, "calibrate", "write intro")

	m = press(t, m, down, space)
	assert.Equal(t, store.StateInProgress, loadToday(t, s).StatusAt(2).Status)
	assert.Equal(t, store.StatePending, loadToday(t, s).StatusAt(1).Status)

	m = press(t, m, space, space)
	assert.Equal(t, store.StatePending, loadToday(t, s).StatusAt(2).Status)
	assert.Equal(t, store.StatePending, m.items[1].Status)
}

func TestBoardCompleteIsFinal(t *testing.T) {
	m, s := setupTestBoard(t, "calibrate")

	m = press(t, m, runes("c"))
	log := loadToday(t, s)
	assert.Equal(t, store.StateCompleted, log.StatusAt(1).Status)
	require.NotNil(t, log.StatusAt(1).CompletionTime)
	assert.True(t, m.items[0].Locked)
	assert.Equal(t, 1, m.summary.Completed)

	m = press(t, m, space)
	assert.Equal(t, store.StateCompleted, loadToday(t, s).StatusAt(1).Status)
	assert.Equal(t, store.ErrGoalCompleted.Error(), m.statusMsg)

	m = press(t, m, runes("n"))
	assert.Equal(t, inputNone, m.input)
}

func TestBoardAddsNote(t *testing.T) {
	m, s := setupTestBoard(t, "calibrate")

	m = press(t, m, runes("n"))
	require.Equal(t, inputNote, m.input)
	m = press(t, m, runes("baseline drift fixed"), enter)

	assert.Equal(t, inputNone, m.input)
	st := loadToday(t, s).StatusAt(1)
	n, ok := st.LatestNote()
	require.True(t, ok)
	assert.Equal(t, "baseline drift fixed", n.Note)
	assert.Equal(t, store.StatePending, st.Status)
}

func TestBoardAddsGoal(t *testing.T) {
	m, s := setupTestBoard(t)
	assert.Empty(t, m.items)

	m = press(t, m, runes("a"), runes("order reagents"), enter)
	assert.Equal(t, []string{"order reagents"}, loadToday(t, s).Goals)
	require.Len(t, m.items, 1)
	assert.Equal(t, 0, m.cursor)
}

func TestBoardInputEscDiscards(t *testing.T) {
	m, s := setupTestBoard(t, "calibrate")

	m = press(t, m, runes("a"), runes("nope"), esc)
	assert.Equal(t, inputNone, m.input)
	assert.Equal(t, []string{"calibrate"}, loadToday(t, s).Goals)
}

func TestBoardReloadsOnFileChange(t *testing.T) {
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)
	tr := tracker.New(s, nil, tracker.WithClock(func() time.Time { return testNow }))
	m := NewModel(tr, "lab", nil)
	assert.Empty(t, m.items)

	_, err = tr.OpenDay([]string{"external edit"})
	require.NoError(t, err)

	next, _ := m.Update(FileChangedMsg{})
	m = next.(Model)
	require.Len(t, m.items, 1)
	assert.Equal(t, "external edit", m.items[0].Goal)
}

func TestBoardSurfacesMalformedLog(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.LogPath(testNow), []byte("{broken"), 0644))

	tr := tracker.New(s, nil, tracker.WithClock(func() time.Time { return testNow }))
	m := NewModel(tr, "lab", nil)
	assert.Contains(t, m.statusMsg, "malformed")
}

func TestBoardSync(t *testing.T) {
	m, _ := setupTestBoard(t, "calibrate")
	m = press(t, m, runes("s"))
	assert.Contains(t, m.statusMsg, "Sync not configured")

	called := false
	m.sync = func() error { called = true; return errors.New("no remote") }
	next, cmd := m.Update(runes("s"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.True(t, called)

	next, _ = next.(Model).Update(msg)
	assert.Equal(t, "Sync failed: no remote", next.(Model).statusMsg)
}

func TestBoardHelpModal(t *testing.T) {
	m, _ := setupTestBoard(t, "calibrate")

	m = press(t, m, runes("?"))
	assert.True(t, m.showHelpModal)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	// Keys are swallowed while the modal is open.
	m = press(t, m, runes("c"), esc)
	assert.False(t, m.showHelpModal)
	assert.Equal(t, store.StatePending, m.items[0].Status)
}

func TestBoardView(t *testing.T) {
	m, _ := setupTestBoard(t, "calibrate", "write intro")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "labbook")
	assert.Contains(t, view, "2026-03-05")
	assert.Contains(t, view, "0/2 goals completed (0.0%)")
	assert.Contains(t, view, "calibrate")
	assert.Contains(t, view, "write intro")
}

func TestBoardViewEmpty(t *testing.T) {
	m, _ := setupTestBoard(t)
	assert.Contains(t, m.View(), "No goals for today")
}

func TestWatchLogsNotifiesOnJSON(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan struct{}, 1)
	stop, err := WatchLogs(dir, discardLogger(), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "daily_20260305.json"), []byte("{}"), 0644))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBoardCopiesDigest(t *testing.T) {
	m, _ := setupTestBoard(t, "calibrate")
	var copied string
	m.copy = func(s string) error { copied = s; return nil }

	m = press(t, m, runes("y"))
	assert.Contains(t, copied, "- [ ] calibrate")
	assert.Contains(t, copied, "## 2026-03-05")
	assert.Equal(t, "Copied today's digest", m.statusMsg)

	m.copy = func(string) error { return errors.New("no clipboard") }
	m = press(t, m, runes("y"))
	assert.Equal(t, "Copy failed: no clipboard", m.statusMsg)
}
