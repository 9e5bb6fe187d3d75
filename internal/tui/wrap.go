package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typemaster/internal/session"
)

// wrongSpace marks a space that was typed as something else.
const wrongSpace = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func buildStyledRunes(passage []rune, states []session.CharState, cursor int) []styledRune {
	words := findWords(passage)
	currentWord := wordForCursor(words, cursor)

	out := make([]styledRune, 0, len(passage))
	for i, target := range passage {
		displayed := target
		style := pendingStyle
		state := session.CharPending
		if i < len(states) {
			state = states[i]
		}
		switch state {
		case session.CharCorrect:
			style = correctStyle
		case session.CharIncorrect:
			style = incorrectStyle
			if target == ' ' {
				displayed = wrongSpace
			}
		default:
			if target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(passage []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range passage {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(passage)})
	}
	return words
}

// wordForCursor returns the word under or after the cursor. A negative
// cursor means the passage is fully typed and no word is current.
func wordForCursor(words []wordRange, cursor int) *wordRange {
	if len(words) == 0 || cursor < 0 {
		return nil
	}
	for i, w := range words {
		if cursor < w.end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes packs words into lines of at most width cells. A word
// keeps its trailing space when deciding whether it fits, the space at a
// break is dropped and a word wider than a line is split.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	var line []styledRune
	lineWidth := 0
	breakLine := func() {
		lines = append(lines, renderStyledRunes(trimTrailingSpace(line)))
		line, lineWidth = nil, 0
	}
	for _, unit := range wordUnits(runes) {
		w := lineWidthOf(unit)
		if len(line) > 0 && lineWidth+w > width {
			breakLine()
		}
		for lineWidthOf(trimTrailingSpace(unit)) > width {
			cut, cutWidth := fitPrefix(unit, width)
			line = unit[:cut]
			breakLine()
			unit = unit[cut:]
			w -= cutWidth
		}
		line = append(line, unit...)
		lineWidth += w
	}
	lines = append(lines, renderStyledRunes(line))
	return strings.Join(lines, "\n")
}

// wordUnits splits runes after every space, so each unit is a word followed
// by at most one space.
func wordUnits(runes []styledRune) [][]styledRune {
	var units [][]styledRune
	start := 0
	for i, item := range runes {
		if item.isSpace {
			units = append(units, runes[start:i+1])
			start = i + 1
		}
	}
	if start < len(runes) {
		units = append(units, runes[start:])
	}
	return units
}

// fitPrefix returns how many runes of unit fit in width cells, at least one.
func fitPrefix(unit []styledRune, width int) (int, int) {
	total := 0
	for i, item := range unit {
		if total+item.width > width && i > 0 {
			return i, total
		}
		total += item.width
	}
	return len(unit), total
}

func trimTrailingSpace(line []styledRune) []styledRune {
	if n := len(line); n > 0 && line[n-1].isSpace {
		return line[:n-1]
	}
	return line
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}
