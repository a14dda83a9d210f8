package stats

import (
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Stat", "alice", "bob"}
	rows := [][]string{
		{"Best", "93", "101"},
		{"Favourite", "D10", ""},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign, nil)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Stat      alice bob" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Best         93 101" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Favourite   D10" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"名前", "x"}, [][]string{{"a", "1"}}, map[int]bool{1: true}, nil)
	if lines[1] != "a    1" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestFormatTablePaintsCells(t *testing.T) {
	paint := func(row, col int, cell string) string {
		if row == 0 && col == 1 {
			return "[" + cell + "]"
		}
		return cell
	}
	lines := formatTable([]string{"a", "b"}, [][]string{{"x", "1"}}, nil, paint)
	if !strings.Contains(lines[1], "[1]") {
		t.Fatalf("cell not painted: %q", lines[1])
	}
}
