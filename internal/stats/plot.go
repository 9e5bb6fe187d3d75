package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisLabelTop        = "max"
	axisLabelBottom     = "min"
	axisSeparator       = " │ "
	scaleNote           = "Each series is scaled to its own min/max."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var colorPalette = []string{
	"\x1b[33m", // yellow
	"\x1b[36m", // cyan
	"\x1b[32m", // green
	"\x1b[35m", // magenta
}

// PlotSeries renders a braille line plot of the series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return PlotSeriesWithColor(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a braille line plot with optional forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	// One grid per series so each cell can be colored by its first series.
	grids := make([][][]uint8, len(series))
	ranges := make([][2]float64, len(series))
	for i, s := range series {
		values := resample(s.Values, width*2)
		lo, hi := bounds(s.Values)
		if math.Abs(hi-lo) < 1e-9 {
			lo, hi = lo-1, hi+1
		}
		ranges[i] = [2]float64{lo, hi}
		grids[i] = makeGrid(height, width)
		prevX, prevY := -1, -1
		for x, v := range values {
			y := dotRow(v, lo, hi, height*4)
			if prevX >= 0 {
				drawLine(prevX, prevY, x, y, func(px, py int) { setDot(grids[i], px, py) })
			} else {
				setDot(grids[i], x, y)
			}
			prevX, prevY = x, y
		}
	}

	useColor := shouldUseColor(w, forceColor)
	lines := make([]string, 0, height+len(series)+4)
	if title != "" {
		lines = append(lines, title)
	}
	lines = append(lines, scaleNote)
	for i, s := range series {
		lines = append(lines, fmt.Sprintf("%s: min=%.1f max=%.1f", s.Name, ranges[i][0], ranges[i][1]))
	}
	labelWidth := max(len(axisLabelTop), len(axisLabelBottom))
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = axisLabelTop
		case height - 1:
			label = axisLabelBottom
		}
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", labelWidth, label, axisSeparator))
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i := range grids {
				if m := grids[i][y][x]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				row.WriteString(colorPalette[owner%len(colorPalette)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		lines = append(lines, row.String())
	}
	lines = append(lines, legend(series, useColor), "")
	return writeLines(w, lines)
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := max(len(axisLabelTop), len(axisLabelBottom)) + runewidth.StringWidth(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := "⠒ " + s.Name
		if useColor {
			label = colorPalette[i%len(colorPalette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// resample stretches or averages values onto n points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(n-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// dotRow maps v onto 0..rows-1 with the maximum at row 0.
func dotRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return max(0, min(row, rows-1))
}

func makeGrid(height, width int) [][]uint8 {
	grid := make([][]uint8, height)
	for y := range grid {
		grid[y] = make([]uint8, width)
	}
	return grid
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// brailleBits indexes dot masks by [column][row] inside a 2x4 cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setDot(grid [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(grid) || cx >= len(grid[cy]) {
		return
	}
	grid[cy][cx] |= brailleBits[x%2][y%4]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
