package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/labbook/pkg/store"
)

func TestCarryOverExcludesGoalCompletedLater(t *testing.T) {
	f := newFixture(t)
	f.seed(1, []string{"Write intro"}, nil)
	f.seed(2, []string{"Write intro"}, map[int]store.GoalState{1: store.StateInProgress})
	f.seed(3, []string{"Write intro"}, map[int]store.GoalState{1: store.StateCompleted})

	candidates := f.tracker(4, nil).FindCarryOverCandidates()
	assert.Empty(t, candidates)
}

func TestCarryOverEarliestDateWins(t *testing.T) {
	f := newFixture(t)
	f.seed(1, []string{"Run benchmark"}, map[int]store.GoalState{1: store.StateBlocked})
	f.seed(2, []string{"  Run benchmark  "}, map[int]store.GoalState{1: store.StateInProgress})

	candidates := f.tracker(4, nil).FindCarryOverCandidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, "Run benchmark", candidates[0].Goal)
	assert.Equal(t, "2026-03-01", candidates[0].OriginalDate)
	assert.Equal(t, store.StateBlocked, candidates[0].Status)
}

func TestCarryOverScenario(t *testing.T) {
	f := newFixture(t)
	f.seed(1, []string{"A", "B"}, map[int]store.GoalState{1: store.StateBlocked, 2: store.StateCompleted})

	candidates := f.tracker(2, nil).FindCarryOverCandidates()
	require.Len(t, candidates, 1)
	c := candidates[0]
	assert.Equal(t, "A", c.Goal)
	assert.Equal(t, "2026-03-01", c.OriginalDate)
	assert.Equal(t, store.StateBlocked, c.Status)
	require.Len(t, c.ProgressNotes, 1)
	assert.Equal(t, store.NoteGoalAdded, c.ProgressNotes[0].Note)
}

func TestCarryOverIgnoresTodayAndFuture(t *testing.T) {
	f := newFixture(t)
	f.seed(4, []string{"today's goal"}, nil)
	f.seed(5, []string{"tomorrow's goal"}, nil)

	assert.Empty(t, f.tracker(4, nil).FindCarryOverCandidates())
}

func TestCarryOverMissingStatusCountsAsPending(t *testing.T) {
	f := newFixture(t)
	log := store.NewDailyLog(at(1))
	log.Goals = []string{"no status yet"}
	require.NoError(t, f.store.SaveDailyLog(log))

	candidates := f.tracker(2, nil).FindCarryOverCandidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, store.StatePending, candidates[0].Status)
	assert.Empty(t, candidates[0].ProgressNotes)
}

func TestCarryOverOrderIsFirstAppearance(t *testing.T) {
	f := newFixture(t)
	f.seed(1, []string{"X", "Y"}, nil)
	f.seed(2, []string{"Z", "X"}, nil)

	candidates := f.tracker(3, nil).FindCarryOverCandidates()
	require.Len(t, candidates, 3)
	assert.Equal(t, []string{"X", "Y", "Z"}, []string{candidates[0].Goal, candidates[1].Goal, candidates[2].Goal})
	assert.Equal(t, "2026-03-02", candidates[2].OriginalDate)
}

func TestCarryOverSkipsMalformedHistory(t *testing.T) {
	f := newFixture(t)
	f.seed(1, []string{"A"}, nil)
	// A broken log that would otherwise mark A completed.
	require.NoError(t, os.WriteFile(filepath.Join(f.store.LogsDir(), "daily_20260302.json"),
		[]byte(`{"goals":["A"],"goal_status":{"1":{"status":"completed"`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(f.store.LogsDir(), "daily_notadate.json"), []byte("{}"), 0644))

	candidates := f.tracker(3, nil).FindCarryOverCandidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, "A", candidates[0].Goal)
	assert.Contains(t, f.logs.String(), "level=WARN")
	assert.Contains(t, f.logs.String(), "daily_notadate.json")
}

func TestReconcileKeepsEarliestRegardlessOfOrder(t *testing.T) {
	early := store.NewDailyLog(at(1))
	early.AppendGoals([]string{"G"}, at(1))
	late := store.NewDailyLog(at(5))
	late.AppendGoals([]string{"G"}, at(5))
	require.NoError(t, late.SetStatus(1, store.StateBlocked, at(5)))

	out := reconcile([]datedLog{{day: "2026-03-05", log: late}, {day: "2026-03-01", log: early}})
	require.Len(t, out, 1)
	assert.Equal(t, "2026-03-01", out[0].OriginalDate)
	assert.Equal(t, store.StatePending, out[0].Status)
}

func TestCarryOverReadsLocalTimestamps(t *testing.T) {
	f := newFixture(t)
	doc := `{"date": "2026-03-01T09:00:00.123456", "goals": ["Run benchmark"],
"completed_tasks": [], "insights": [], "next_day_todos": [],
"goal_status": {"1": {"status": "pending", "completion_time": null,
"progress_notes": [{"time": "2026-03-01T09:00:00.123456", "note": "Goal added during day"}]}}}`
	require.NoError(t, os.WriteFile(f.store.LogPath(at(1)), []byte(doc), 0644))

	candidates := f.tracker(2, nil).FindCarryOverCandidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, "Run benchmark", candidates[0].Goal)
	assert.Equal(t, "2026-03-01", candidates[0].OriginalDate)
	assert.NotContains(t, f.logs.String(), "malformed")
}
