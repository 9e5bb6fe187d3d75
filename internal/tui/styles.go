package tui

import "github.com/charmbracelet/lipgloss"

// Timer bar colors.
const (
	timerColorOK      = "#5FB85F"
	timerColorWarning = "#C89A3A"
	timerColorError   = "#FF4D4F"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(timerColorError))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(timerColorWarning))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(timerColorWarning))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).Underline(true)
	optionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	warningStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(timerColorError))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(timerColorWarning))
	pausedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).
			Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

// timerColor picks the bar color from the remaining time fraction.
func timerColor(fraction float64) string {
	switch {
	case fraction <= 0.25:
		return timerColorError
	case fraction <= 0.5:
		return timerColorWarning
	default:
		return timerColorOK
	}
}
