package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GoalState is the lifecycle state of a single goal within a day.
type GoalState string

const (
	StatePending    GoalState = "pending"
	StateInProgress GoalState = "in_progress"
	StateCompleted  GoalState = "completed"
	StateBlocked    GoalState = "blocked"
)

// States lists every recognized goal state in display order.
var States = []GoalState{StatePending, StateInProgress, StateCompleted, StateBlocked}

var (
	ErrInvalidStatus = errors.New("invalid goal status")
	ErrGoalCompleted = errors.New("goal is already completed")
	ErrNoSuchGoal    = errors.New("no goal at position")
)

// ParseGoalState validates s against the recognized states.
func ParseGoalState(s string) (GoalState, error) {
	st := GoalState(strings.TrimSpace(s))
	if st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q (use pending, in_progress, completed or blocked)", ErrInvalidStatus, s)
}

// Valid reports whether s is one of the recognized states.
func (s GoalState) Valid() bool {
	for _, v := range States {
		if s == v {
			return true
		}
	}
	return false
}

// ProgressNote is one timestamped entry in a goal's history.
type ProgressNote struct {
	Time Timestamp `json:"time"`
	Note string    `json:"note"`
}

// GoalStatus is the mutable per-goal state stored under goal_status.
type GoalStatus struct {
	Status         GoalState      `json:"status"`
	ProgressNotes  []ProgressNote `json:"progress_notes"`
	CompletionTime *Timestamp     `json:"completion_time"`
	// OriginalDate is the YYYY-MM-DD day the goal first appeared, set only on
	// carried-over goals.
	OriginalDate string `json:"original_date,omitempty"`
}

// IsCompleted returns true if the goal is marked completed.
func (g *GoalStatus) IsCompleted() bool {
	return g.Status == StateCompleted
}

// LatestNote returns the most recent progress note, if any.
func (g *GoalStatus) LatestNote() (ProgressNote, bool) {
	if len(g.ProgressNotes) == 0 {
		return ProgressNote{}, false
	}
	return g.ProgressNotes[len(g.ProgressNotes)-1], true
}

// DailyLog is the record of one calendar day.
//
// Goals are identified positionally (1-based) within a day; GoalStatus is
// keyed by that position rendered as a decimal string. Cross-day matching
// uses NormalizeGoal instead.
type DailyLog struct {
	Date           Timestamp              `json:"date"`
	Goals          []string               `json:"goals"`
	CompletedTasks []json.RawMessage      `json:"completed_tasks"`
	Insights       []json.RawMessage      `json:"insights"`
	NextDayTodos   []json.RawMessage      `json:"next_day_todos"`
	GoalStatus     map[string]*GoalStatus `json:"goal_status"`
}

// NewDailyLog returns an empty log for the day containing t.
func NewDailyLog(t time.Time) *DailyLog {
	return &DailyLog{
		Date:           At(t),
		Goals:          []string{},
		CompletedTasks: []json.RawMessage{},
		Insights:       []json.RawMessage{},
		NextDayTodos:   []json.RawMessage{},
		GoalStatus:     make(map[string]*GoalStatus),
	}
}

// NormalizeGoal returns the cross-day identity key of a goal text.
func NormalizeGoal(text string) string {
	return strings.TrimSpace(text)
}

// PositionKey renders a 1-based goal position as a goal_status key.
func PositionKey(pos int) string {
	return strconv.Itoa(pos)
}

// DayKey renders the calendar date of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StatusAt returns the status for a 1-based position, or nil if none exists.
func (l *DailyLog) StatusAt(pos int) *GoalStatus {
	if l.GoalStatus == nil {
		return nil
	}
	return l.GoalStatus[PositionKey(pos)]
}

// HasGoal reports whether a goal with the same normalized text is present.
func (l *DailyLog) HasGoal(text string) bool {
	key := NormalizeGoal(text)
	for _, g := range l.Goals {
		if NormalizeGoal(g) == key {
			return true
		}
	}
	return false
}

// AppendGoals appends goals positionally and installs a pending status for
// every position that lacks one.
func (l *DailyLog) AppendGoals(goals []string, now time.Time) {
	l.Goals = append(l.Goals, goals...)
	l.ensureStatuses(now)
}

func (l *DailyLog) ensureStatuses(now time.Time) {
	if l.GoalStatus == nil {
		l.GoalStatus = make(map[string]*GoalStatus)
	}
	for i := range l.Goals {
		key := PositionKey(i + 1)
		if _, ok := l.GoalStatus[key]; ok {
			continue
		}
		l.GoalStatus[key] = &GoalStatus{
			Status:        StatePending,
			ProgressNotes: []ProgressNote{{Time: At(now), Note: NoteGoalAdded}},
		}
	}
}

// NoteGoalAdded is the initial note recorded when a goal enters a day.
const NoteGoalAdded = "Goal added during day"

// Touch returns the status at pos, installing a bare pending status if the
// position has none yet.
func (l *DailyLog) Touch(pos int) (*GoalStatus, error) {
	if pos < 1 || pos > len(l.Goals) {
		return nil, fmt.Errorf("%w %d", ErrNoSuchGoal, pos)
	}
	if l.GoalStatus == nil {
		l.GoalStatus = make(map[string]*GoalStatus)
	}
	st := l.GoalStatus[PositionKey(pos)]
	if st == nil {
		st = &GoalStatus{Status: StatePending, ProgressNotes: []ProgressNote{}}
		l.GoalStatus[PositionKey(pos)] = st
	}
	return st, nil
}

// SetStatus moves the goal at pos to state. Completed goals are immutable.
func (l *DailyLog) SetStatus(pos int, state GoalState, now time.Time) error {
	if !state.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, state)
	}
	st, err := l.Touch(pos)
	if err != nil {
		return err
	}
	if st.IsCompleted() {
		return fmt.Errorf("goal %d: %w", pos, ErrGoalCompleted)
	}
	if st.Status == state {
		return nil
	}
	st.Status = state
	if state == StateCompleted {
		t := At(now)
		st.CompletionTime = &t
	} else {
		st.CompletionTime = nil
	}
	return nil
}

// AddNote appends a progress note to the goal at pos. Completed goals take
// no further notes.
func (l *DailyLog) AddNote(pos int, note string, now time.Time) error {
	st, err := l.Touch(pos)
	if err != nil {
		return err
	}
	if st.IsCompleted() {
		return fmt.Errorf("goal %d: %w", pos, ErrGoalCompleted)
	}
	st.ProgressNotes = append(st.ProgressNotes, ProgressNote{Time: At(now), Note: note})
	return nil
}

// CarryOverGoal is an unresolved goal from an earlier day.
type CarryOverGoal struct {
	Goal          string         `json:"goal"`
	OriginalDate  string         `json:"original_date"`
	Status        GoalState      `json:"status"`
	ProgressNotes []ProgressNote `json:"progress_notes"`
}

// Insight is an observation appended to a day's insights.
type Insight struct {
	Time         Timestamp `json:"timestamp"`
	Observation  string    `json:"observation"`
	Implications string    `json:"implications"`
	// ExperimentID names the experiment running when the insight was
	// recorded, or is nil.
	ExperimentID *string `json:"experiment_id"`
}

// Todo is an item appended to a day's next_day_todos.
type Todo struct {
	Time Timestamp `json:"timestamp"`
	Todo string    `json:"todo"`
}
