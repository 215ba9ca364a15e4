package console

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/stefanpenner/labbook/pkg/project"
	"github.com/stefanpenner/labbook/pkg/research"
	"github.com/stefanpenner/labbook/pkg/store"
	"github.com/stefanpenner/labbook/pkg/tracker"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorGrayDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

func statusCell(s store.GoalState) string {
	return StatusStyle(s).Render(StatusIcon(s) + " " + string(s))
}

// RenderSummary renders the goals summary table and the progress line.
func RenderSummary(s tracker.Summary) string {
	if s.Total == 0 {
		return WarnStyle.Render("No goals set for " + s.Date + ".")
	}
	t := newTable("#", "Goal", "Status", "Progress", "Latest Update", "Notes")
	for _, g := range s.Goals {
		progress := g.LatestNote
		if g.Overdue {
			progress = OverdueStyle.Render("Overdue since "+g.OriginalDate) + " " + progress
		}
		t.Row(
			strconv.Itoa(g.Position),
			g.Goal,
			statusCell(g.Status),
			progress,
			g.LatestTime,
			strings.Join(g.Notes, "\n"),
		)
	}
	return t.String() + "\n" + RenderProgress(s)
}

// RenderProgress renders "Progress: c/t goals completed (r%)".
func RenderProgress(s tracker.Summary) string {
	return InfoStyle.Render(fmt.Sprintf("Progress: %d/%d goals completed (%s)", s.Completed, s.Total, s.RateString()))
}

// RenderDay renders the goal list shown after opening a day.
func RenderDay(log *store.DailyLog) string {
	t := newTable("#", "Goal", "Status", "Added")
	for i, goal := range log.Goals {
		state := store.StatePending
		added := "Initial setup"
		if st := log.StatusAt(i + 1); st != nil {
			state = st.Status
			switch {
			case st.OriginalDate != "":
				added = tracker.CarriedOverNote(st.OriginalDate)
			case len(st.ProgressNotes) > 0 && st.ProgressNotes[0].Note == store.NoteGoalAdded:
				added = st.ProgressNotes[0].Time.Format("15:04")
			}
		}
		t.Row(strconv.Itoa(i+1), goal, statusCell(state), added)
	}
	return t.String()
}

// RenderCandidates renders carry-over candidates.
func RenderCandidates(cs []store.CarryOverGoal) string {
	if len(cs) == 0 {
		return SuccessStyle.Render("Nothing to carry over.")
	}
	t := newTable("Goal", "Since", "Status", "Notes")
	for _, c := range cs {
		t.Row(c.Goal, c.OriginalDate, statusCell(c.Status), strconv.Itoa(len(c.ProgressNotes)))
	}
	return t.String()
}

// RenderHistory renders one row per day.
func RenderHistory(days []tracker.Summary) string {
	if len(days) == 0 {
		return WarnStyle.Render("No history yet.")
	}
	t := newTable("Date", "Goals", "Completed", "Rate")
	for _, d := range days {
		t.Row(d.Date, strconv.Itoa(d.Total), strconv.Itoa(d.Completed), d.RateString())
	}
	return t.String()
}

// RenderProjects renders the project list.
func RenderProjects(ps []project.Project) string {
	if len(ps) == 0 {
		return WarnStyle.Render("No existing projects found.")
	}
	t := newTable("#", "Project", "Directory", "Last Modified")
	for i, p := range ps {
		t.Row(strconv.Itoa(i+1), p.Name, p.Slug, p.Modified.Format("2006-01-02 15:04"))
	}
	return t.String()
}

// RenderIdeas renders ideas with their pipeline stage.
func RenderIdeas(ideas []research.Idea) string {
	if len(ideas) == 0 {
		return WarnStyle.Render("No ideas recorded.")
	}
	t := newTable("ID", "Title", "Status", "Priority", "Next Steps", "Last Updated")
	for _, idea := range ideas {
		t.Row(idea.ID, idea.Title, string(idea.Status), strconv.Itoa(idea.Priority), idea.NextSteps, idea.Updated.Format("2006-01-02"))
	}
	return t.String()
}

// RenderStaleIdeas renders the stale idea report for a threshold.
func RenderStaleIdeas(ideas []research.Idea, days int) string {
	if len(ideas) == 0 {
		return WarnStyle.Render(fmt.Sprintf("No stale ideas found > %d days.", days))
	}
	t := newTable("ID", "Title", "Status", "Last Updated")
	for _, idea := range ideas {
		t.Row(idea.ID, idea.Title, string(idea.Status), idea.Updated.Format("2006-01-02"))
	}
	return WarnStyle.Render("Stale ideas found:") + "\n" + t.String()
}

// RenderPaperNotes renders notebook page references.
func RenderPaperNotes(notes []research.PaperNote) string {
	if len(notes) == 0 {
		return WarnStyle.Render("No paper notes recorded.")
	}
	t := newTable("#", "Notebook", "Page", "Type", "Summary", "Date")
	for i, n := range notes {
		t.Row(strconv.Itoa(i+1), n.NotebookID, strconv.Itoa(n.Page), n.Type, n.Summary, n.Date.Format("2006-01-02"))
	}
	return t.String()
}

// RenderExperiment renders one experiment as a field list.
func RenderExperiment(e *research.Experiment) string {
	state := "Ongoing"
	if !e.Running() {
		state = "Concluded " + e.Ended.Format("2006-01-02 15:04")
	}
	params := make([]string, 0, len(e.Parameters))
	for k, v := range e.Parameters {
		params = append(params, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(params)

	t := newTable("Field", "Value")
	t.Row("ID", e.ID)
	t.Row("Hypothesis", e.Hypothesis)
	t.Row("Methodology", e.Methodology)
	t.Row("Parameters", strings.Join(params, "\n"))
	t.Row("Started", e.Started.Format("2006-01-02 15:04"))
	t.Row("Status", state)
	t.Row("Code Version", e.CodeVersion)
	t.Row("Insights", strconv.Itoa(len(e.Insights)))
	if !e.Running() {
		t.Row("Conclusions", e.Conclusions)
		t.Row("Next Steps", e.NextSteps)
	}
	return t.String()
}

// RenderExperiments renders one row per experiment.
func RenderExperiments(exps []research.Experiment) string {
	if len(exps) == 0 {
		return WarnStyle.Render("No experiments recorded.")
	}
	t := newTable("ID", "Hypothesis", "Status", "Conclusions")
	for _, e := range exps {
		status, conclusions := "Completed", e.Conclusions
		if e.Running() {
			status = "Ongoing"
		}
		if conclusions == "" {
			conclusions = "No conclusions yet"
		}
		t.Row(e.ID, e.Hypothesis, status, conclusions)
	}
	return t.String()
}
