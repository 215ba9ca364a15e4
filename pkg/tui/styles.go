package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/labbook/pkg/console"
)

var (
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(console.ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(console.ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(console.ColorGray)

	StatusMsgStyle = lipgloss.NewStyle().
			Foreground(console.ColorCyan)
)

// Row styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	NormalStyle = lipgloss.NewStyle()

	NoteStyle = lipgloss.NewStyle().
			Foreground(console.ColorGray)

	OverdueStyle = console.OverdueStyle
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(console.ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(console.ColorPurple)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(console.ColorPurple).
				Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)
)
