package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/stats"
)

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenGame:
		content = m.viewGame()
	case screenResults:
		content = m.viewResults()
	default:
		content = m.viewMenu()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := ""
	if m.screen == screenGame {
		footer = m.renderFooter()
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) viewMenu() string {
	lines := []string{titleStyle.Render("TYPEMASTER"), ""}
	options := make([]string, 0, len(model.Difficulties))
	for i, d := range model.Difficulties {
		label := fmt.Sprintf("%d %s", i+1, strings.ToUpper(string(d)))
		if d == m.difficulty {
			options = append(options, selectedStyle.Render(label))
			continue
		}
		options = append(options, optionStyle.Render(label))
	}
	lines = append(lines, strings.Join(options, "   "))
	if settings, ok := session.SettingsFor(m.difficulty); ok {
		lines = append(lines, fmt.Sprintf("%ds · x%g points · best %d", settings.TimeLimit, settings.Multiplier, m.best[m.difficulty]))
	}
	sound := m.sound.Settings()
	soundLabel := "off"
	if sound.Enabled {
		soundLabel = "on"
	}
	lines = append(lines, "", fmt.Sprintf("Sound %s · volume %d%%", soundLabel, sound.Volume))
	if m.notice != "" {
		lines = append(lines, "", noticeStyle.Render(m.notice))
	}
	lines = append(lines, "", footerStyle.Render("1/2/3 or ←/→ difficulty · enter start · s sound · +/- volume · q quit"))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewGame() string {
	snap := m.sess.Snapshot()
	states, cursor := m.sess.CharStates()
	styled := buildStyledRunes([]rune(snap.Passage), states, cursor)

	width := m.contentWidth()
	text := renderStyledRunes(styled)
	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(wrapStyledRunes(styled, width))
	}

	lines := []string{m.renderTimer(snap, width), "", text}
	switch snap.Status {
	case model.StatusPaused:
		lines = append(lines, "", pausedStyle.Render("PAUSED · esc to resume · ctrl+q to quit"))
	case model.StatusArmed:
		lines = append(lines, "", footerStyle.Render("Start typing to begin the countdown"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderTimer(snap session.Snapshot, width int) string {
	fraction := 0.0
	if snap.TimeLimit > 0 {
		fraction = float64(snap.TimeRemaining) / float64(snap.TimeLimit)
	}
	bar := m.bar
	bar.FullColor = timerColor(fraction)
	if width > 0 {
		bar.Width = width
	}
	label := fmt.Sprintf("%ds", snap.TimeRemaining)
	if m.warning {
		label = warningStyle.Render(fmt.Sprintf("%ds left!", snap.TimeRemaining))
	}
	return bar.ViewAs(fraction) + " " + label
}

func (m *Model) renderFooter() string {
	if m.sess == nil {
		return ""
	}
	snap := m.sess.Snapshot()
	score := fmt.Sprintf("Score %d", snap.Score)
	if m.lastDelta != 0 {
		score += fmt.Sprintf(" (%+d)", m.lastDelta)
	}
	segments := []string{
		score,
		fmt.Sprintf("Time %ds", snap.TimeRemaining),
		fmt.Sprintf("Progress %d%%", snap.Progress),
		fmt.Sprintf("Accuracy %d%%", snap.Accuracy),
		fmt.Sprintf("Best %d", m.best[snap.Difficulty]),
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}

func (m *Model) viewResults() string {
	r := m.result
	if r == nil {
		return ""
	}
	heading := "Session ended"
	switch r.Reason {
	case model.ReasonCompleted:
		heading = "Passage complete!"
	case model.ReasonTimedOut:
		heading = "Time's up!"
	}
	lines := []string{titleStyle.Render(heading), ""}
	rows := [][2]string{
		{"Score", fmt.Sprintf("%d", r.Score)},
		{"Accuracy", fmt.Sprintf("%d%%", r.Accuracy)},
		{"WPM", fmt.Sprintf("%d", r.WordsPerMinute)},
		{"Time", fmt.Sprintf("%.1fs of %ds", r.ElapsedSeconds, r.TimeLimit)},
		{"Difficulty", string(r.Difficulty)},
		{"Result", stats.ReasonLabel(r.Reason)},
	}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-10s %s", row[0], row[1]))
	}
	if m.newBest {
		lines = append(lines, "", noticeStyle.Render("New best score!"))
	}
	lines = append(lines, "", footerStyle.Render("enter play again · esc menu · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
