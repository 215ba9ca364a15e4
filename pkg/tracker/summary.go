package tracker

import (
	"fmt"
	"math"
	"time"

	"github.com/stefanpenner/labbook/pkg/store"
)

// DefaultTimeFormat is the layout for note times in summaries.
const DefaultTimeFormat = "15:04"

const (
	noUpdates = "No updates"
	noTime    = "-"
)

// GoalSummary is the display row of one goal.
type GoalSummary struct {
	Position     int             `json:"position"`
	Goal         string          `json:"goal"`
	Status       store.GoalState `json:"status"`
	LatestNote   string          `json:"latest_note"`
	LatestTime   string          `json:"latest_time"`
	Notes        []string        `json:"notes"`
	OriginalDate string          `json:"original_date,omitempty"`
	Overdue      bool            `json:"overdue"`
}

// Summary is the progress overview of one day.
type Summary struct {
	Date      string        `json:"date"`
	Completed int           `json:"completed"`
	Total     int           `json:"total"`
	Rate      float64       `json:"rate"` // percent, one decimal place
	Goals     []GoalSummary `json:"goals"`
}

// RateString formats the completion rate, e.g. "33.3%".
func (s Summary) RateString() string {
	return fmt.Sprintf("%.1f%%", s.Rate)
}

// Summarize computes the progress overview of log as seen on today.
func Summarize(log *store.DailyLog, today time.Time, timeFormat string) Summary {
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}
	todayKey := store.DayKey(today)

	s := Summary{
		Date:  store.DayKey(log.Date.Time),
		Total: len(log.Goals),
		Goals: make([]GoalSummary, 0, len(log.Goals)),
	}
	for i, goal := range log.Goals {
		g := GoalSummary{
			Position:   i + 1,
			Goal:       goal,
			Status:     store.StatePending,
			LatestNote: noUpdates,
			LatestTime: noTime,
			Notes:      []string{},
		}
		if st := log.StatusAt(i + 1); st != nil {
			g.Status = st.Status
			g.OriginalDate = st.OriginalDate
			for _, n := range st.ProgressNotes {
				g.Notes = append(g.Notes, n.Note)
			}
			if n, ok := st.LatestNote(); ok {
				g.LatestNote = n.Note
				g.LatestTime = n.Time.Format(timeFormat)
			}
			if st.IsCompleted() {
				s.Completed++
			}
		}
		g.Overdue = g.OriginalDate != "" && g.OriginalDate < todayKey && g.Status != store.StateCompleted
		s.Goals = append(s.Goals, g)
	}
	s.Rate = CompletionRate(s.Completed, s.Total)
	return s
}

// CompletionRate returns completed/total as a percentage rounded to one
// decimal place. It is 0 when total is 0.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

// Summary summarizes today's log, persisted or not.
func (t *Tracker) Summary() (Summary, error) {
	log, err := t.Today()
	if err != nil {
		return Summary{}, err
	}
	return Summarize(log, t.now(), t.timeFormat), nil
}
