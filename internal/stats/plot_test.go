package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Score history", []Series{
		{Name: "alice", Values: []float64{27, 93, 49, 60}},
		{Name: "bob", Values: []float64{10, 20}},
	}, PlotOptions{Width: 12, Height: 4})
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Score history") {
		t.Fatalf("expected title in output")
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected colour codes for a buffer")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "93") || !strings.Contains(lines[4], "10") {
		t.Fatalf("axis should span the shared range 10..93:\n%s", out)
	}
	if !strings.Contains(lines[5], "alice (60)") || !strings.Contains(lines[5], "bob (20)") {
		t.Fatalf("legend missing latest values: %q", lines[5])
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "x", []Series{{Name: "none"}}, PlotOptions{}); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestResample(t *testing.T) {
	if got := resample([]float64{0, 10}, 3); got[1] != 5 || got[2] != 10 {
		t.Fatalf("stretch = %v", got)
	}
	if got := resample([]float64{1, 3, 5, 7}, 2); got[0] != 2 || got[1] != 6 {
		t.Fatalf("shrink = %v", got)
	}
	if got := resample([]float64{4}, 3); got[2] != 4 {
		t.Fatalf("single = %v", got)
	}
}
