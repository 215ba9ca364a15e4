package tracker

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/labbook/pkg/store"
)

const cancel = "!cancel"

// scriptedPrompter answers prompts from a fixed script and records what it
// was asked and shown.
type scriptedPrompter struct {
	t       *testing.T
	answers []string
	asked   []string
	shown   []string
}

func script(t *testing.T, answers ...string) *scriptedPrompter {
	return &scriptedPrompter{t: t, answers: answers}
}

func (p *scriptedPrompter) next(question string) string {
	p.t.Helper()
	p.asked = append(p.asked, question)
	if len(p.answers) == 0 {
		p.t.Fatalf("unexpected prompt %q", question)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a
}

func (p *scriptedPrompter) Confirm(question string) (bool, error) {
	a := p.next(question)
	if a == cancel {
		return false, ErrCancelled
	}
	return a == "y", nil
}

func (p *scriptedPrompter) PromptText(question, def string) (string, error) {
	a := p.next(question)
	if a == cancel {
		return "", ErrCancelled
	}
	return a, nil
}

func (p *scriptedPrompter) Display(msg string) {
	p.shown = append(p.shown, msg)
}

func (p *scriptedPrompter) askedCount(question string) int {
	n := 0
	for _, q := range p.asked {
		if q == question {
			n++
		}
	}
	return n
}

func (p *scriptedPrompter) sawLine(substr string) bool {
	for _, s := range p.shown {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func at(d int) time.Time {
	return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC)
}

type fixture struct {
	t     *testing.T
	store *store.Store
	logs  *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)
	return &fixture{t: t, store: s, logs: &bytes.Buffer{}}
}

func (f *fixture) tracker(d int, p Prompter) *Tracker {
	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(f.store, p, WithClock(func() time.Time { return at(d) }), WithLogger(logger))
}

// seed persists a historical log with the given goals and states.
func (f *fixture) seed(d int, goals []string, states map[int]store.GoalState) {
	f.t.Helper()
	log := store.NewDailyLog(at(d))
	log.AppendGoals(goals, at(d))
	for pos, st := range states {
		require.NoError(f.t, log.SetStatus(pos, st, at(d)))
	}
	require.NoError(f.t, f.store.SaveDailyLog(log))
}

func TestOpenDayCreatesAndPersists(t *testing.T) {
	f := newFixture(t)
	tr := f.tracker(1, nil)

	log, err := tr.OpenDay([]string{"Write intro", "Run benchmark"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Write intro", "Run benchmark"}, log.Goals)

	loaded, err := f.store.LoadDailyLog(at(1))
	require.NoError(t, err)
	assert.Equal(t, log, loaded)
}

func TestOpenDayConcatenatesBatches(t *testing.T) {
	f := newFixture(t)
	tr := f.tracker(1, nil)

	batches := [][]string{{"A", "B"}, {}, {"C"}, {"A"}}
	var log *store.DailyLog
	var err error
	for _, b := range batches {
		log, err = tr.OpenDay(b)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"A", "B", "C", "A"}, log.Goals)
	for pos := 1; pos <= len(log.Goals); pos++ {
		require.NotNil(t, log.StatusAt(pos))
	}
}

func TestOpenDayPreservesExistingState(t *testing.T) {
	f := newFixture(t)
	tr := f.tracker(2, nil)

	_, err := tr.OpenDay([]string{"A"})
	require.NoError(t, err)
	_, err = tr.UpdateGoal(1, store.StateInProgress, "started")
	require.NoError(t, err)

	log, err := tr.OpenDay([]string{"B"})
	require.NoError(t, err)
	assert.Equal(t, store.StateInProgress, log.StatusAt(1).Status)
	assert.Len(t, log.StatusAt(1).ProgressNotes, 2)
	assert.Equal(t, store.StatePending, log.StatusAt(2).Status)
}

func TestUpdateGoalCompletedIsImmutable(t *testing.T) {
	f := newFixture(t)
	tr := f.tracker(2, nil)

	_, err := tr.OpenDay([]string{"A"})
	require.NoError(t, err)
	_, err = tr.UpdateGoal(1, store.StateCompleted, "")
	require.NoError(t, err)

	_, err = tr.UpdateGoal(1, store.StatePending, "")
	assert.ErrorIs(t, err, store.ErrGoalCompleted)

	_, err = tr.UpdateGoal(1, "", "late note")
	assert.ErrorIs(t, err, store.ErrGoalCompleted)

	log, err := tr.Today()
	require.NoError(t, err)
	assert.Len(t, log.StatusAt(1).ProgressNotes, 1)
}

func TestUpdateGoalCompletesWithFinalNote(t *testing.T) {
	f := newFixture(t)
	tr := f.tracker(2, nil)

	_, err := tr.OpenDay([]string{"A"})
	require.NoError(t, err)
	log, err := tr.UpdateGoal(1, store.StateCompleted, "sent to advisor")
	require.NoError(t, err)

	st := log.StatusAt(1)
	assert.Equal(t, store.StateCompleted, st.Status)
	last, _ := st.LatestNote()
	assert.Equal(t, "sent to advisor", last.Note)
}

func TestAddInsightAndTodo(t *testing.T) {
	f := newFixture(t)
	tr := f.tracker(3, nil)

	_, err := tr.AddInsight(store.Insight{Observation: "loss plateaus", Implications: "try warmup"})
	require.NoError(t, err)
	exp := "experiment_20260303_090000"
	_, err = tr.AddInsight(store.Insight{Observation: "lr too high", ExperimentID: &exp})
	require.NoError(t, err)
	log, err := tr.AddTodo("order reagents")
	require.NoError(t, err)

	require.Len(t, log.Insights, 2)
	var insight store.Insight
	require.NoError(t, json.Unmarshal(log.Insights[0], &insight))
	assert.Equal(t, "loss plateaus", insight.Observation)
	assert.Equal(t, "try warmup", insight.Implications)
	assert.True(t, insight.Time.Equal(at(3)))
	assert.Nil(t, insight.ExperimentID)
	assert.Contains(t, string(log.Insights[0]), `"experiment_id":null`)

	require.NoError(t, json.Unmarshal(log.Insights[1], &insight))
	require.NotNil(t, insight.ExperimentID)
	assert.Equal(t, exp, *insight.ExperimentID)

	require.Len(t, log.NextDayTodos, 1)
	assert.Contains(t, string(log.NextDayTodos[0]), "order reagents")
}

func TestHistorySkipsMalformed(t *testing.T) {
	f := newFixture(t)
	f.seed(1, []string{"A", "B"}, map[int]store.GoalState{2: store.StateCompleted})
	f.seed(2, []string{"C"}, nil)
	require.NoError(t, os.WriteFile(filepath.Join(f.store.LogsDir(), "daily_20260303.json"), []byte("{"), 0644))

	tr := f.tracker(4, nil)
	history := tr.History(at(2))

	require.Len(t, history, 1)
	assert.Equal(t, "2026-03-02", history[0].Date)
	assert.Contains(t, f.logs.String(), "skipping malformed daily log")

	all := tr.History(at(1))
	require.Len(t, all, 2)
	assert.Equal(t, 50.0, all[0].Rate)
}

func TestSaveErrorPropagates(t *testing.T) {
	f := newFixture(t)
	tr := f.tracker(5, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(f.store.LogPath(at(5)), "blocker"), 0755))

	_, err := tr.OpenDay([]string{"A"})
	assert.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	tr := New(nil, nil, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), WithTimeFormat(""))
	assert.Equal(t, DefaultTimeFormat, tr.timeFormat)
	assert.WithinDuration(t, time.Now(), tr.Now(), time.Minute)
}
