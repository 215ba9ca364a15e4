package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stefanpenner/labbook/pkg/store"
)

// CarriedOverNote is the progress note appended when a goal is accepted
// from an earlier day.
func CarriedOverNote(originalDate string) string {
	return "Carried over from " + originalDate
}

// statusQuestion lists the choices the review asks for.
var statusQuestion = "Status (" + joinStates() + ")"

func joinStates() string {
	names := make([]string, len(store.States))
	for i, s := range store.States {
		names[i] = string(s)
	}
	return strings.Join(names, "/")
}

// ReviewDay runs the interactive review of today's goals: offer carry-over
// candidates, walk each open goal for a status change and a note, persist
// once, and return the resulting summary.
//
// If the user cancels at any prompt nothing gathered so far is persisted and
// ErrCancelled is returned.
func (t *Tracker) ReviewDay() (*Summary, error) {
	if t.prompt == nil {
		return nil, errors.New("review requires an interactive prompter")
	}

	log, err := t.Today()
	if err != nil {
		return nil, err
	}

	if err := t.offerCarryOver(log); err != nil {
		return nil, err
	}

	if len(log.Goals) == 0 {
		return t.offerFreshStart(log)
	}

	t.prompt.Display("Daily Goals Review")
	for i, goal := range log.Goals {
		if err := t.reviewGoal(log, i+1, goal); err != nil {
			return nil, err
		}
	}

	if err := t.Save(log); err != nil {
		return nil, err
	}
	s := Summarize(log, t.now(), t.timeFormat)
	return &s, nil
}

func (t *Tracker) offerCarryOver(log *store.DailyLog) error {
	var pending []store.CarryOverGoal
	for _, c := range t.FindCarryOverCandidates() {
		if !log.HasGoal(c.Goal) {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	t.prompt.Display("Past Incomplete Goals")
	for _, c := range pending {
		t.prompt.Display(fmt.Sprintf("Goal from %s: %s", c.OriginalDate, c.Goal))
		ok, err := t.prompt.Confirm("Add this goal to today's goals?")
		if err != nil {
			return err
		}
		if ok {
			acceptCarryOver(log, c, t.now())
		}
	}
	return nil
}

// acceptCarryOver appends c at the next position with its history and the
// carried-over note.
func acceptCarryOver(log *store.DailyLog, c store.CarryOverGoal, now time.Time) {
	log.Goals = append(log.Goals, c.Goal)
	notes := make([]store.ProgressNote, 0, len(c.ProgressNotes)+1)
	notes = append(notes, c.ProgressNotes...)
	notes = append(notes, store.ProgressNote{Time: store.At(now), Note: CarriedOverNote(c.OriginalDate)})
	if log.GoalStatus == nil {
		log.GoalStatus = make(map[string]*store.GoalStatus)
	}
	log.GoalStatus[store.PositionKey(len(log.Goals))] = &store.GoalStatus{
		Status:        c.Status,
		ProgressNotes: notes,
		OriginalDate:  c.OriginalDate,
	}
}

func (t *Tracker) offerFreshStart(log *store.DailyLog) (*Summary, error) {
	t.prompt.Display("No goals set for today.")
	ok, err := t.prompt.Confirm("Set goals now?")
	if err != nil {
		return nil, err
	}
	if !ok {
		s := Summarize(log, t.now(), t.timeFormat)
		return &s, nil
	}
	goals, err := PromptGoals(t.prompt)
	if err != nil {
		return nil, err
	}
	opened, err := t.OpenDay(goals)
	if err != nil {
		return nil, err
	}
	s := Summarize(opened, t.now(), t.timeFormat)
	return &s, nil
}

// PromptGoals reads goal texts until an empty answer.
func PromptGoals(p Prompter) ([]string, error) {
	var goals []string
	for {
		text, err := p.PromptText(fmt.Sprintf("Goal %d (empty to finish)", len(goals)+1), "")
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return goals, nil
		}
		goals = append(goals, text)
	}
}

func (t *Tracker) reviewGoal(log *store.DailyLog, pos int, goal string) error {
	st, err := log.Touch(pos)
	if err != nil {
		return err
	}

	t.prompt.Display(fmt.Sprintf("Goal %d: %s", pos, goal))
	t.prompt.Display("Current Status: " + string(st.Status))
	for _, n := range st.ProgressNotes {
		t.prompt.Display(fmt.Sprintf("  %s  %s", n.Time.Format(t.timeFormat), n.Note))
	}

	if st.IsCompleted() {
		t.prompt.Display("This goal is already completed and cannot be modified.")
		return nil
	}

	ok, err := t.prompt.Confirm("Update this goal?")
	if err != nil || !ok {
		return err
	}

	state, err := t.askState(st.Status)
	if err != nil {
		return err
	}
	if err := log.SetStatus(pos, state, t.now()); err != nil {
		return err
	}

	ok, err = t.prompt.Confirm("Add a progress note?")
	if err != nil || !ok {
		return err
	}
	note, err := t.prompt.PromptText("Enter progress note", "")
	if err != nil {
		return err
	}
	if note = strings.TrimSpace(note); note != "" {
		return log.AddNote(pos, note, t.now())
	}
	return nil
}

// askState prompts until the answer is a recognized state. An empty answer
// keeps current, unless current is itself unrecognized.
func (t *Tracker) askState(current store.GoalState) (store.GoalState, error) {
	def := ""
	if current.Valid() {
		def = string(current)
	}
	for {
		answer, err := t.prompt.PromptText(statusQuestion, def)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(answer) == "" {
			if current.Valid() {
				return current, nil
			}
			answer = string(current)
		}
		state, err := store.ParseGoalState(answer)
		if err == nil {
			return state, nil
		}
		t.prompt.Display(err.Error())
	}
}
