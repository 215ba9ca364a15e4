package tracker

import (
	"github.com/stefanpenner/labbook/pkg/store"
)

// FindCarryOverCandidates returns one candidate per distinct unfinished goal
// text found in logs strictly before today.
//
// A text completed on any earlier day is never offered, even where other
// rows carrying it were left open. When a text is open on several days the
// earliest appearance wins and supplies the status and notes.
func (t *Tracker) FindCarryOverCandidates() []store.CarryOverGoal {
	today := store.DayKey(t.now())
	history := t.loadHistory(func(day string) bool { return day < today })
	return reconcile(history)
}

func reconcile(history []datedLog) []store.CarryOverGoal {
	completed := make(map[string]bool)
	for _, dl := range history {
		for i, goal := range dl.log.Goals {
			if st := dl.log.StatusAt(i + 1); st != nil && st.IsCompleted() {
				completed[store.NormalizeGoal(goal)] = true
			}
		}
	}

	var order []string
	byText := make(map[string]*store.CarryOverGoal)
	for _, dl := range history {
		for i, goal := range dl.log.Goals {
			key := store.NormalizeGoal(goal)
			if completed[key] {
				continue
			}
			state := store.StatePending
			notes := []store.ProgressNote{}
			if st := dl.log.StatusAt(i + 1); st != nil {
				state = st.Status
				notes = append(notes, st.ProgressNotes...)
			}

			prev, seen := byText[key]
			if seen && prev.OriginalDate <= dl.day {
				continue
			}
			if !seen {
				order = append(order, key)
			}
			byText[key] = &store.CarryOverGoal{
				Goal:          goal,
				OriginalDate:  dl.day,
				Status:        state,
				ProgressNotes: notes,
			}
		}
	}

	out := make([]store.CarryOverGoal, 0, len(order))
	for _, key := range order {
		out = append(out, *byText[key])
	}
	return out
}
