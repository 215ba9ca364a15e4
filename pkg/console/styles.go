package console

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/labbook/pkg/store"
)

// Color palette
var (
	ColorPurple   = lipgloss.Color("#7D56F4")
	ColorGreen    = lipgloss.Color("#25A065")
	ColorBlue     = lipgloss.Color("#4285F4")
	ColorRed      = lipgloss.Color("#E05252")
	ColorYellow   = lipgloss.Color("#E5C07B")
	ColorGray     = lipgloss.Color("#626262")
	ColorGrayDim  = lipgloss.Color("#404040")
	ColorOffWhite = lipgloss.Color("#D0D0D0")
	ColorCyan     = lipgloss.Color("#56B6C2")
	ColorMagenta  = lipgloss.Color("#C678DD")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMagenta).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(0, 1)

	InfoStyle    = lipgloss.NewStyle().Foreground(ColorCyan)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorYellow)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorGray)
	PromptStyle  = lipgloss.NewStyle().Foreground(ColorPurple).Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorMagenta).Padding(0, 1)
	TableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	OverdueStyle     = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
)

// Status icons
const (
	IconCompleted  = "✓"
	IconInProgress = "◐"
	IconPending    = "○"
	IconBlocked    = "✗"
)

// StatusStyle returns the color used for a goal state.
func StatusStyle(s store.GoalState) lipgloss.Style {
	switch s {
	case store.StatePending:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case store.StateInProgress:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	case store.StateCompleted:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case store.StateBlocked:
		return lipgloss.NewStyle().Foreground(ColorRed)
	default:
		return lipgloss.NewStyle().Foreground(ColorOffWhite)
	}
}

// StatusIcon returns the glyph for a goal state.
func StatusIcon(s store.GoalState) string {
	switch s {
	case store.StateCompleted:
		return IconCompleted
	case store.StateInProgress:
		return IconInProgress
	case store.StateBlocked:
		return IconBlocked
	default:
		return IconPending
	}
}
