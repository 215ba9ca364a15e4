package tui

import (
	"github.com/stefanpenner/labbook/pkg/store"
	"github.com/stefanpenner/labbook/pkg/tracker"
)

// GoalItem is one selectable row of the board.
type GoalItem struct {
	tracker.GoalSummary
	Locked bool // completed goals cannot change
}

// BuildGoalItems converts a day summary into board rows.
func BuildGoalItems(s tracker.Summary) []GoalItem {
	items := make([]GoalItem, 0, len(s.Goals))
	for _, g := range s.Goals {
		items = append(items, GoalItem{GoalSummary: g, Locked: g.Status == store.StateCompleted})
	}
	return items
}

// NextState is the state space moves a non-completed goal to.
func NextState(s store.GoalState) store.GoalState {
	switch s {
	case store.StatePending:
		return store.StateInProgress
	case store.StateInProgress:
		return store.StateBlocked
	default:
		return store.StatePending
	}
}
