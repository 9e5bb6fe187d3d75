// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typemaster/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of stored results.
type Summary struct {
	Sessions    int
	Completed   int
	BestScore   int
	AvgScore    float64
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
}

// Summarize computes a Summary over results.
func Summarize(results []model.ResultAggregate) Summary {
	var sum Summary
	if len(results) == 0 {
		return sum
	}
	var totalScore, totalWPM, totalAcc int
	for _, r := range results {
		sum.Sessions++
		if r.Reason == model.ReasonCompleted {
			sum.Completed++
		}
		if r.Score > sum.BestScore {
			sum.BestScore = r.Score
		}
		if r.WordsPerMinute > sum.BestWPM {
			sum.BestWPM = r.WordsPerMinute
		}
		totalScore += r.Score
		totalWPM += r.WordsPerMinute
		totalAcc += r.Accuracy
	}
	n := float64(len(results))
	sum.AvgScore = float64(totalScore) / n
	sum.AvgWPM = float64(totalWPM) / n
	sum.AvgAccuracy = float64(totalAcc) / n
	return sum
}

// CompletionRate returns the share of completed sessions in percent.
func (s Summary) CompletionRate() float64 {
	if s.Sessions == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Sessions) * 100
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := bounds(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Column extracts one metric from results, oldest first.
func Column(results []model.ResultAggregate, metric func(model.ResultAggregate) float64) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = metric(r)
	}
	return out
}

// Metric accessors for Column.
var (
	ScoreOf    = func(r model.ResultAggregate) float64 { return float64(r.Score) }
	WPMOf      = func(r model.ResultAggregate) float64 { return float64(r.WordsPerMinute) }
	AccuracyOf = func(r model.ResultAggregate) float64 { return float64(r.Accuracy) }
)

// RenderSummary prints a summary block for results.
func RenderSummary(w io.Writer, results []model.ResultAggregate) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(results)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (%d completed, %.0f%%)", sum.Sessions, sum.Completed, sum.CompletionRate()),
		fmt.Sprintf("Best score: %d", sum.BestScore),
		fmt.Sprintf("Avg score: %.1f", sum.AvgScore),
		fmt.Sprintf("Avg WPM: %.1f", sum.AvgWPM),
		fmt.Sprintf("Best WPM: %d", sum.BestWPM),
		fmt.Sprintf("Avg accuracy: %.1f%%", sum.AvgAccuracy),
		fmt.Sprintf("Score trend: %s", Sparkline(Column(results, ScoreOf))),
		"",
	}
	return writeLines(w, lines)
}

// RenderBreakdown prints per-difficulty aggregates.
func RenderBreakdown(w io.Writer, results []model.ResultAggregate) error {
	rows := Breakdown(results)
	if len(rows) == 0 {
		return nil
	}
	table := newTextTable([]string{"Difficulty", "Sessions", "Completed", "Best", "Avg WPM", "Avg Acc"}, 1, 2, 3, 4, 5)
	for _, row := range rows {
		table.addRow(
			string(row.Difficulty),
			fmt.Sprintf("%d", row.Summary.Sessions),
			fmt.Sprintf("%d", row.Summary.Completed),
			fmt.Sprintf("%d", row.Summary.BestScore),
			fmt.Sprintf("%.1f", row.Summary.AvgWPM),
			fmt.Sprintf("%.1f%%", row.Summary.AvgAccuracy),
		)
	}
	lines := append([]string{"By difficulty"}, table.lines()...)
	return writeLines(w, append(lines, ""))
}

// RenderHistory prints one row per result, oldest first.
func RenderHistory(w io.Writer, results []model.ResultAggregate) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lines := append([]string{"History"}, resultTable(results, false).lines()...)
	return writeLines(w, append(lines, ""))
}

// RenderLeaderboard prints ranked results, best first.
func RenderLeaderboard(w io.Writer, top []model.ResultAggregate) error {
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}
	lines := append([]string{"Leaderboard"}, resultTable(top, true).lines()...)
	return writeLines(w, append(lines, ""))
}

// RenderCurvesWithSize prints score, WPM and accuracy curves sized to a
// given total width.
func RenderCurvesWithSize(w io.Writer, results []model.ResultAggregate, window, totalWidth, height int, useColor bool) error {
	if len(results) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Progress", []Series{
		{Name: "Score", Values: MovingAverage(Column(results, ScoreOf), window)},
		{Name: "WPM", Values: MovingAverage(Column(results, WPMOf), window)},
		{Name: "Accuracy", Values: MovingAverage(Column(results, AccuracyOf), window)},
	}, width, height, useColor)
}

var resultHeaders = []string{"Ended", "Difficulty", "Result", "Score", "WPM", "Acc", "Time"}

// resultTable lists results in order; ranked tables get a leading rank column.
func resultTable(results []model.ResultAggregate, ranked bool) *textTable {
	headers, right := resultHeaders, []int{3, 4, 5, 6}
	if ranked {
		headers, right = append([]string{"#"}, resultHeaders...), []int{0, 4, 5, 6, 7}
	}
	table := newTextTable(headers, right...)
	for i, r := range results {
		row := []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			string(r.Difficulty),
			ReasonLabel(r.Reason),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.WordsPerMinute),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("%.1fs", r.ElapsedSeconds),
		}
		if ranked {
			row = append([]string{fmt.Sprintf("%d", i+1)}, row...)
		}
		table.addRow(row...)
	}
	return table
}

// ReasonLabel returns a short human label for an end reason.
func ReasonLabel(reason model.EndReason) string {
	switch reason {
	case model.ReasonCompleted:
		return "completed"
	case model.ReasonTimedOut:
		return "time up"
	case model.ReasonQuit:
		return "quit"
	default:
		return string(reason)
	}
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func bounds(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}
