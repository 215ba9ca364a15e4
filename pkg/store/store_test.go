package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)
	return s
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 9, 30, 0, 0, time.UTC)
}

func TestNewStoreCreatesLogsDir(t *testing.T) {
	s := setupTestStore(t)

	info, err := os.Stat(s.LogsDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLogPath(t *testing.T) {
	s := setupTestStore(t)
	assert.Equal(t, filepath.Join(s.Root, "daily_logs", "daily_20260305.json"), s.LogPath(day(5)))
}

func TestLoadMissingLog(t *testing.T) {
	s := setupTestStore(t)

	log, err := s.LoadDailyLog(day(1))
	require.NoError(t, err)
	assert.Nil(t, log)
}

func TestDailyLogRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	done := At(day(2).Add(3 * time.Hour))
	log := NewDailyLog(day(2))
	log.Goals = []string{"Write intro", "Run benchmark"}
	log.Insights = []json.RawMessage{json.RawMessage(`{"observation":"x","implications":"y"}`)}
	log.CompletedTasks = []json.RawMessage{json.RawMessage(`"tidy notebook"`)}
	log.GoalStatus["1"] = &GoalStatus{
		Status:         StateCompleted,
		ProgressNotes:  []ProgressNote{{Time: At(day(2)), Note: NoteGoalAdded}},
		CompletionTime: &done,
	}
	log.GoalStatus["2"] = &GoalStatus{
		Status:        StateBlocked,
		ProgressNotes: []ProgressNote{{Time: At(day(1)), Note: "waiting on GPU"}},
		OriginalDate:  "2026-03-01",
	}

	require.NoError(t, s.SaveDailyLog(log))

	loaded, err := s.LoadDailyLog(day(2))
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, log, loaded)
	assert.True(t, loaded.GoalStatus["1"].CompletionTime.Equal(done.Time))
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, s.SaveDailyLog(NewDailyLog(day(3))))

	entries, err := os.ReadDir(s.LogsDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "daily_20260303.json", entries[0].Name())
}

func TestSaveFailureRemovesTempFile(t *testing.T) {
	s := setupTestStore(t)

	// A directory squatting on the target path makes the rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(s.LogPath(day(4)), "blocker"), 0755))

	err := s.SaveDailyLog(NewDailyLog(day(4)))
	require.Error(t, err)

	_, statErr := os.Stat(s.LogPath(day(4)) + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}

func TestSavedDocumentShape(t *testing.T) {
	s := setupTestStore(t)

	log := NewDailyLog(day(5))
	log.AppendGoals([]string{"A"}, day(5))
	require.NoError(t, s.SaveDailyLog(log))

	data, err := os.ReadFile(s.LogPath(day(5)))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, k := range []string{"date", "goals", "completed_tasks", "insights", "next_day_todos", "goal_status"} {
		assert.Contains(t, doc, k)
	}
	status := doc["goal_status"].(map[string]any)["1"].(map[string]any)
	assert.Equal(t, "pending", status["status"])
	assert.Nil(t, status["completion_time"])
	assert.NotContains(t, status, "original_date")
}

func TestLoadMalformedLog(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, os.WriteFile(s.LogPath(day(6)), []byte("{not json"), 0644))

	_, err := s.LoadDailyLog(day(6))
	assert.ErrorIs(t, err, ErrMalformedLog)
}

func TestDecodeToleratesMissingFields(t *testing.T) {
	log, err := DecodeDailyLog([]byte(`{"date":"2026-03-01T10:00:00Z","goals":["A"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, log.Goals)
	assert.NotNil(t, log.GoalStatus)
	assert.Nil(t, log.StatusAt(1))
}

func TestListDailyLogs(t *testing.T) {
	s := setupTestStore(t)

	for _, d := range []int{7, 2, 4} {
		require.NoError(t, s.SaveDailyLog(NewDailyLog(day(d))))
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.LogsDir(), "daily_2026xx01.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(s.LogsDir(), "notes.txt"), []byte("ignored"), 0644))

	files, bad := s.ListDailyLogs()
	require.Len(t, files, 3)
	assert.Equal(t, 2, files[0].Date.Day())
	assert.Equal(t, 4, files[1].Date.Day())
	assert.Equal(t, 7, files[2].Date.Day())
	require.Len(t, bad, 1)
	assert.ErrorIs(t, bad[0], ErrMalformedLog)

	dates, err := s.ListDailyLogDates()
	assert.Error(t, err)
	assert.Len(t, dates, 3)
}

func TestLoadLogWithoutOffsets(t *testing.T) {
	s := setupTestStore(t)
	doc := `{
  "date": "2026-03-01T09:00:00.123456",
  "goals": ["Run benchmark", "Write intro"],
  "completed_tasks": [],
  "insights": [],
  "next_day_todos": [],
  "goal_status": {
    "1": {
      "status": "pending",
      "progress_notes": [{"time": "2026-03-01T09:00:00.123456", "note": "Goal added during day"}],
      "completion_time": null
    },
    "2": {
      "status": "completed",
      "progress_notes": [],
      "completion_time": "2026-03-01T17:45:10"
    }
  }
}`
	require.NoError(t, os.WriteFile(s.LogPath(day(1)), []byte(doc), 0644))

	log, err := s.LoadDailyLog(day(1))
	require.NoError(t, err)
	require.NotNil(t, log)

	want := time.Date(2026, 3, 1, 9, 0, 0, 123456000, time.Local)
	assert.True(t, log.Date.Equal(want))
	assert.True(t, log.StatusAt(1).ProgressNotes[0].Time.Equal(want))
	require.NotNil(t, log.StatusAt(2).CompletionTime)
	assert.True(t, log.StatusAt(2).CompletionTime.Equal(time.Date(2026, 3, 1, 17, 45, 10, 0, time.Local)))

	// Saving rewrites the timestamps with an offset.
	require.NoError(t, s.SaveDailyLog(log))
	data, err := os.ReadFile(s.LogPath(day(1)))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date": "`+want.Format(time.RFC3339Nano)+`"`)
}
