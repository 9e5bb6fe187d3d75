package stats

import "testing"

func TestTextTableAlignsColumns(t *testing.T) {
	table := newTextTable([]string{"Tier", "Score", "WPM"}, 1, 2)
	table.addRow("easy", "2525", "6")
	table.addRow("medium", "90", "41")

	want := []string{
		"Tier   Score WPM",
		"────── ───── ───",
		"easy    2525   6",
		"medium    90  41",
	}
	got := table.lines()
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTextTableWideRunes(t *testing.T) {
	table := newTextTable([]string{"A", "B"})
	table.addRow("日本", "x")
	lines := table.lines()
	if lines[0] != "A    B" {
		t.Fatalf("expected header padded to double-width cell, got %q", lines[0])
	}
}

func TestTextTableShortRowsAndTrailingSpace(t *testing.T) {
	table := newTextTable([]string{"Name", "Note"})
	table.addRow("a")
	lines := table.lines()
	if lines[2] != "a" {
		t.Fatalf("expected missing cells to leave no trailing space, got %q", lines[2])
	}
}

func TestTextTableEmpty(t *testing.T) {
	if lines := newTextTable(nil).lines(); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}
