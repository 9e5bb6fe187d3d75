// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/stats"
)

const (
	tabOverview = iota
	tabHistory
	tabLeaderboard
)

const plotHeight = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// difficultyFilters is the cycle for the d key; empty means every tier.
var difficultyFilters = []model.Difficulty{"", model.Easy, model.Medium, model.Hard}

// Model implements the Bubble Tea stats UI.
type Model struct {
	source stats.Source
	cfg    model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	history   table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(src stats.Source, cfg model.StatsConfig) *Model {
	m := &Model{
		source: src,
		cfg:    cfg,
		tabs:   []string{"Overview", "History", "Leaderboard"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.history = table.New(table.WithColumns(historyColumns()), table.WithHeight(1))
	m.history.SetStyles(historyStyles())
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=", "+":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "d":
			m.cfg.Difficulty = nextDifficultyFilter(m.cfg.Difficulty)
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabHistory {
				m.history.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.history.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabHistory {
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		}
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(lipgloss.Height(activeNavStyle.Render("X")), 1) + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.history.SetWidth(m.width)
	m.history.SetHeight(max(bodyHeight-1, 1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabHistory {
		m.history.Focus()
	} else {
		m.history.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.source, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		m.history.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.report = report
	m.history.SetRows(historyRows(report.Results))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
	m.viewports[tabLeaderboard].SetContent(renderLeaderboard(m.report.Leaderboard))
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return tabs + "\n" + headerStyle.Render(truncateLine(m.filterSummary(), m.width))
}

func (m *Model) filterSummary() string {
	difficulty := string(m.cfg.Difficulty)
	if difficulty == "" {
		difficulty = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Filters: difficulty=%s  since=%s  last=%s  window=%d", difficulty, since, last, m.cfg.CurveWindow)
}

func (m *Model) renderBody() string {
	if m.activeTab == tabHistory {
		if len(m.report.Results) == 0 {
			return "No sessions found."
		}
		return m.history.View()
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Difficulty: d  Window: -/=  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Results) == 0 {
		return "No sessions found."
	}
	sum := report.Summary
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", sum.Sessions)),
		metricCard("Completed", fmt.Sprintf("%.0f%%", sum.CompletionRate())),
		metricCard("Best score", fmt.Sprintf("%d", sum.BestScore)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", sum.AvgWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", sum.AvgAccuracy)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2]),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4]),
		)
	}
	var buf bytes.Buffer
	if err := stats.RenderBreakdown(&buf, report.Results); err != nil {
		return fmt.Sprintf("Failed to render breakdown: %v", err)
	}
	if err := stats.RenderCurvesWithSize(&buf, report.Results, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderLeaderboard(top []model.ResultAggregate) string {
	var buf bytes.Buffer
	if err := stats.RenderLeaderboard(&buf, top); err != nil {
		return fmt.Sprintf("Failed to render leaderboard: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Difficulty", Width: 10},
		{Title: "Result", Width: 9},
		{Title: "Score", Width: 7},
		{Title: "WPM", Width: 5},
		{Title: "Acc", Width: 5},
		{Title: "Time", Width: 7},
	}
}

// historyRows lists results newest first.
func historyRows(results []model.ResultAggregate) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		rows = append(rows, table.Row{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			string(r.Difficulty),
			stats.ReasonLabel(r.Reason),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.WordsPerMinute),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("%.1fs", r.ElapsedSeconds),
		})
	}
	return rows
}

func historyStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextDifficultyFilter(d model.Difficulty) model.Difficulty {
	for i, f := range difficultyFilters {
		if f == d {
			return difficultyFilters[(i+1)%len(difficultyFilters)]
		}
	}
	return difficultyFilters[0]
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
