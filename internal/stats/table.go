package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnRule = "─"

// textTable lays out plain-text columns sized to their widest cell.
type textTable struct {
	titles []string
	right  map[int]bool
	rows   [][]string
}

// newTextTable returns a table with the given column titles. Columns listed
// in right are right-aligned.
func newTextTable(titles []string, right ...int) *textTable {
	t := &textTable{titles: titles, right: make(map[int]bool, len(right))}
	for _, col := range right {
		t.right[col] = true
	}
	return t
}

func (t *textTable) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// lines renders the header, a rule under it and one line per row.
func (t *textTable) lines() []string {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat(columnRule, w)
	}
	out := make([]string, 0, len(t.rows)+2)
	out = append(out, t.render(t.titles, widths), strings.Join(rule, " "))
	for _, row := range t.rows {
		out = append(out, t.render(row, widths))
	}
	return out
}

func (t *textTable) widths() []int {
	count := len(t.titles)
	for _, row := range t.rows {
		count = max(count, len(row))
	}
	widths := make([]int, count)
	measure := func(cells []string) {
		for i, cell := range cells {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(t.titles)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *textTable) render(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if t.right[i] {
			parts[i] = runewidth.FillLeft(cell, w)
		} else {
			parts[i] = runewidth.FillRight(cell, w)
		}
	}
	return strings.TrimRight(strings.Join(parts, " "), " ")
}
