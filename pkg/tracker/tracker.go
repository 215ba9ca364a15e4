package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stefanpenner/labbook/pkg/store"
)

// ErrCancelled is returned by a Prompter when the user types a cancel
// sentinel. Operations that see it discard unsaved edits.
var ErrCancelled = errors.New("operation cancelled")

// LogStore is the persistence a Tracker needs. *store.Store satisfies it.
type LogStore interface {
	LoadDailyLog(day time.Time) (*store.DailyLog, error)
	SaveDailyLog(log *store.DailyLog) error
	ListDailyLogDates() ([]time.Time, error)
}

// Prompter asks the user questions and shows output.
type Prompter interface {
	Confirm(question string) (bool, error)
	PromptText(question, def string) (string, error)
	Display(msg string)
}

// Tracker owns the in-memory daily logs of one project during a session.
type Tracker struct {
	store      LogStore
	prompt     Prompter
	now        func() time.Time
	logger     *slog.Logger
	timeFormat string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger used for warnings about unusable history.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithTimeFormat sets the layout used when showing note times.
func WithTimeFormat(layout string) Option {
	return func(t *Tracker) {
		if layout != "" {
			t.timeFormat = layout
		}
	}
}

// New creates a Tracker. p may be nil for non-interactive use; ReviewDay
// requires it.
func New(s LogStore, p Prompter, opts ...Option) *Tracker {
	t := &Tracker{
		store:      s,
		prompt:     p,
		now:        time.Now,
		logger:     slog.Default(),
		timeFormat: DefaultTimeFormat,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// Today loads today's log, or returns a new empty one if none is persisted.
func (t *Tracker) Today() (*store.DailyLog, error) {
	now := t.now()
	log, err := t.store.LoadDailyLog(now)
	if err != nil {
		return nil, fmt.Errorf("loading today's log: %w", err)
	}
	if log == nil {
		log = store.NewDailyLog(now)
	}
	return log, nil
}

// Save persists a log.
func (t *Tracker) Save(log *store.DailyLog) error {
	if err := t.store.SaveDailyLog(log); err != nil {
		return fmt.Errorf("saving daily log: %w", err)
	}
	t.logger.Debug("saved daily log", "date", store.DayKey(log.Date.Time), "goals", len(log.Goals))
	return nil
}

// OpenDay appends goals to today's log, gives every goal a status, and
// persists the result. Appends are positional; repeated texts are kept.
func (t *Tracker) OpenDay(goals []string) (*store.DailyLog, error) {
	log, err := t.Today()
	if err != nil {
		return nil, err
	}
	log.AppendGoals(goals, t.now())
	if err := t.Save(log); err != nil {
		return nil, err
	}
	return log, nil
}

// UpdateGoal applies an optional note and a status change to today's goal
// at pos, then persists. An empty state leaves the status untouched. The
// note lands before the status, so a goal can be completed with a final
// note, but a goal that is already completed rejects both.
func (t *Tracker) UpdateGoal(pos int, state store.GoalState, note string) (*store.DailyLog, error) {
	log, err := t.Today()
	if err != nil {
		return nil, err
	}
	now := t.now()
	if note != "" {
		if err := log.AddNote(pos, note, now); err != nil {
			return nil, err
		}
	}
	if state != "" {
		if err := log.SetStatus(pos, state, now); err != nil {
			return nil, err
		}
	}
	if err := t.Save(log); err != nil {
		return nil, err
	}
	return log, nil
}

// AddInsight records an insight in today's insights. A zero Time is
// stamped with the current time.
func (t *Tracker) AddInsight(in store.Insight) (*store.DailyLog, error) {
	if in.Time.IsZero() {
		in.Time = store.At(t.now())
	}
	return t.appendEntry(func(log *store.DailyLog, raw json.RawMessage) {
		log.Insights = append(log.Insights, raw)
	}, in)
}

// AddTodo records an item in today's next_day_todos.
func (t *Tracker) AddTodo(text string) (*store.DailyLog, error) {
	return t.appendEntry(func(log *store.DailyLog, raw json.RawMessage) {
		log.NextDayTodos = append(log.NextDayTodos, raw)
	}, store.Todo{Time: store.At(t.now()), Todo: text})
}

func (t *Tracker) appendEntry(add func(*store.DailyLog, json.RawMessage), entry any) (*store.DailyLog, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encoding entry: %w", err)
	}
	log, err := t.Today()
	if err != nil {
		return nil, err
	}
	add(log, raw)
	if err := t.Save(log); err != nil {
		return nil, err
	}
	return log, nil
}

// datedLog is a successfully loaded historical log.
type datedLog struct {
	day string // YYYY-MM-DD
	log *store.DailyLog
}

// loadHistory loads every persisted log for which keep(day) is true, in
// chronological order. Unusable entries are logged and skipped.
func (t *Tracker) loadHistory(keep func(day string) bool) []datedLog {
	dates, err := t.store.ListDailyLogDates()
	if err != nil {
		t.logger.Warn("skipping malformed daily logs", "err", err)
	}

	var logs []datedLog
	for _, date := range dates {
		day := store.DayKey(date)
		if !keep(day) {
			continue
		}
		log, err := t.store.LoadDailyLog(date)
		if err != nil {
			t.logger.Warn("skipping malformed daily log", "date", day, "err", err)
			continue
		}
		if log == nil {
			continue
		}
		logs = append(logs, datedLog{day: day, log: log})
	}
	return logs
}

// History summarizes every persisted day on or after since.
func (t *Tracker) History(since time.Time) []Summary {
	from := store.DayKey(since)
	today := t.now()
	var out []Summary
	for _, dl := range t.loadHistory(func(day string) bool { return day >= from }) {
		out = append(out, Summarize(dl.log, today, t.timeFormat))
	}
	return out
}
