package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// paintFunc styles an already padded cell. Row -1 is the header.
type paintFunc func(row, col int, cell string) string

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool, paint paintFunc) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(-1, headers, widths, rightAlignCols, paint))
	}
	for r, row := range rows {
		lines = append(lines, formatRow(r, row, widths, rightAlignCols, paint))
	}
	return lines
}

func formatRow(r int, row []string, widths []int, rightAlignCols map[int]bool, paint paintFunc) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		padded := padCell(cell, width, rightAlignCols[i])
		if paint != nil && cell != "" {
			padded = paint(r, i, padded)
		}
		b.WriteString(padded)
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
