package stats

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestPlotWidthFor(t *testing.T) {
	total := 80
	expected := total - axisWidth - runewidth.StringWidth(axisSeparator)
	if got := PlotWidthFor(total); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("narrow terminal width = %d, want %d", got, minPlotWidth)
	}
}
