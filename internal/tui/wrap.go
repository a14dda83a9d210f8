package tui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// styledCell is one rendered round cell and its display width.
type styledCell struct {
	s     string
	width int
}

func newCell(text string, style func(...string) string) styledCell {
	return styledCell{s: style(text), width: runewidth.StringWidth(text)}
}

// buildCells renders a player's round strip. values holds the entered
// values in round order; current is the round awaiting input or -1.
func buildCells(labels []string, values []int, current int) []styledCell {
	out := make([]styledCell, 0, len(labels))
	for i, label := range labels {
		switch {
		case i < len(values) && values[i] > 0:
			out = append(out, newCell(cellText(label, values[i]), hitStyle.Render))
		case i < len(values):
			out = append(out, newCell(cellText(label, values[i]), missStyle.Render))
		case i == current:
			out = append(out, newCell(label+" _", currentStyle.Render))
		default:
			out = append(out, newCell(label+" ·", pendingStyle.Render))
		}
	}
	return out
}

func cellText(label string, v int) string {
	return label + " " + strconv.Itoa(v)
}

func renderCells(cells []styledCell, gap string) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteString(gap)
		}
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapCells breaks cells into lines no wider than width. A cell wider than
// width gets a line of its own.
func wrapCells(cells []styledCell, width int, gap string) string {
	if width <= 0 {
		return renderCells(cells, gap)
	}
	gapWidth := runewidth.StringWidth(gap)
	var lines []string
	var line []styledCell
	lineWidth := 0
	for _, c := range cells {
		next := lineWidth + c.width
		if len(line) > 0 {
			next += gapWidth
		}
		if next > width && len(line) > 0 {
			lines = append(lines, renderCells(line, gap))
			line = line[:0]
			next = c.width
		}
		line = append(line, c)
		lineWidth = next
	}
	if len(line) > 0 {
		lines = append(lines, renderCells(line, gap))
	}
	return strings.Join(lines, "\n")
}
