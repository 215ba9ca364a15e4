package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/stefanpenner/labbook/pkg/console"
)

const minWidth = 40
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 2
	footerLines := 2
	if m.input != inputNone {
		footerLines++
	}
	contentHeight := h - headerLines - footerLines

	body := m.renderGoals(w)
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(body, i, w))
		b.WriteString("\n")
	}

	if m.input != inputNone {
		b.WriteString(m.renderInput())
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("labbook")
	if m.project != "" {
		title += HeaderCountStyle.Render(" · " + m.project)
	}
	if m.summary.Date != "" {
		title += HeaderCountStyle.Render(" · " + m.summary.Date)
	}

	stats := HeaderCountStyle.Render(fmt.Sprintf("%d/%d goals completed (%s)",
		m.summary.Completed, m.summary.Total, m.summary.RateString()))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = StatusMsgStyle.Render(m.statusMsg) + "  "
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + stats
}

func (m Model) renderGoals(width int) string {
	if len(m.items) == 0 {
		return FooterStyle.Render("No goals for today. Press a to add one.")
	}

	var lines []string
	for i, item := range m.items {
		lines = append(lines, m.renderItem(item, i == m.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderItem(item GoalItem, isSelected bool, width int) string {
	icon := console.StatusStyle(item.Status).Render(console.StatusIcon(item.Status))
	text := fmt.Sprintf("%2d. %s", item.Position, item.Goal)
	if isSelected {
		text = SelectedStyle.Render(text)
	} else {
		text = NormalStyle.Render(text)
	}

	line := "  " + icon + " " + text
	if item.Overdue {
		line += " " + OverdueStyle.Render("overdue since "+item.OriginalDate)
	}
	if item.LatestTime != "-" {
		line += NoteStyle.Render(fmt.Sprintf("  %s %s", item.LatestTime, item.LatestNote))
	}

	return ansi.Truncate(line, width, "…")
}

func (m Model) renderInput() string {
	label := "Note: "
	if m.input == inputGoal {
		label = "New goal: "
	}
	return InputPromptStyle.Render(label) + InputStyle.Render(m.textInput.View())
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(FooterStyle.Render("Completed goals cannot be changed."))
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
