package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/dartlog/internal/config"
	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/rows"
	"github.com/verte-zerg/dartlog/internal/store"
	"github.com/verte-zerg/dartlog/internal/twentyseven"
)

func twentySeven() Game {
	return Game{
		Type:       twentyseven.Type,
		NewFactory: twentyseven.NewFactory,
		Rows:       twentyseven.DefaultRows(),
		RoundsPart: "rounds",
	}
}

func seed(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "dartlog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	games := []map[string][]int{
		{"alice": {1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{"alice": {2, 0, 0}, "bob": {3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3}},
		{"bob": {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	}
	start := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	for i, g := range games {
		rec := model.GameRecord{
			GameType:  twentyseven.Type,
			StartedAt: start.Add(time.Duration(i) * time.Minute),
			Values:    map[string]map[model.RoundKey]int{},
		}
		for _, p := range []string{"alice", "bob"} {
			if v, ok := g[p]; ok {
				rec.Players = append(rec.Players, p)
				rec.Values[p] = model.IndexedValues(v...)
			}
		}
		rec.Owner = rec.Players[0]
		if _, err := st.InsertGame(ctx, rec); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}
	return st
}

func TestBuildReport(t *testing.T) {
	st := seed(t)
	report, err := BuildReport(context.Background(), st, twentySeven(), model.StatsConfig{}, config.FileConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(report.Games))
	}
	if len(report.Columns) != 2 || report.Columns[0].ID != "all/alice" {
		t.Fatalf("unexpected columns: %+v", report.Columns)
	}
	if got := report.History["all/bob"]; len(got) != 2 {
		t.Fatalf("bob history = %v", got)
	}
	var best rows.TableRow
	for _, r := range report.Table {
		if r.Label == "Best" {
			best = r
		}
	}
	if len(best.Cells) != 2 {
		t.Fatalf("best row = %+v", best)
	}
	alice, bob := best.Cells[0], best.Cells[1]
	if alice.Text != "447" || len(alice.Classes) != 1 || alice.Classes[0] != rows.ClassWorst {
		t.Fatalf("alice best = %+v", alice)
	}
	if len(bob.Classes) != 1 || bob.Classes[0] != rows.ClassBest || bob.Raw[0] != 1287 {
		t.Fatalf("bob best = %+v", bob)
	}
}

func TestBuildReportRuleAndLast(t *testing.T) {
	st := seed(t)
	cfg := model.StatsConfig{Rule: "solo", Last: 2, Players: []string{"bob"}}
	report, err := BuildReport(context.Background(), st, twentySeven(), cfg, config.FileConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Games) != 2 {
		t.Fatalf("expected last 2 games, got %d", len(report.Games))
	}
	if len(report.Columns) != 1 || report.Columns[0].ID != "solo/bob" {
		t.Fatalf("columns = %+v", report.Columns)
	}
	if _, err := BuildReport(context.Background(), st, twentySeven(), model.StatsConfig{Rule: "bogus"}, config.FileConfig{}); err == nil {
		t.Fatalf("expected unknown rule error")
	}
}

func TestRenderReport(t *testing.T) {
	st := seed(t)
	file, err := config.ParseConfig("[[rows]]\nlabel = \"Cliffs per game\"\nfield = [\"cliffs.total\", \"/\", \"numGames\"]\n[rows.format]\nmax-fraction-digits = 1\n")
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	report, err := BuildReport(context.Background(), st, twentySeven(), model.StatsConfig{Window: 2}, file)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, report, false); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Summary (all, 3 games)", "alice", "bob", "Custom", "Cliffs per game", "10"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderRounds(&buf, report, "rounds"); err != nil {
		t.Fatalf("render rounds: %v", err)
	}
	if !strings.Contains(buf.String(), "Rounds: alice") || !strings.Contains(buf.String(), "D20") {
		t.Fatalf("rounds output:\n%s", buf.String())
	}

	buf.Reset()
	if err := RenderHistory(&buf, report, 2, PlotOptions{Width: 20}); err != nil {
		t.Fatalf("render history: %v", err)
	}
	if !strings.Contains(buf.String(), "Score history") {
		t.Fatalf("history output:\n%s", buf.String())
	}
}

func TestMovingAverageAndSparkline(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("moving average = %v, want %v", got, want)
		}
	}
	if s := Sparkline([]float64{0, 9}); s != " @" {
		t.Fatalf("sparkline = %q", s)
	}
	if s := Sparkline([]float64{3, 3}); s != "++" {
		t.Fatalf("flat sparkline = %q", s)
	}
}

func TestRenderPractice(t *testing.T) {
	st := seed(t)
	report, err := BuildReport(context.Background(), st, twentySeven(), model.StatsConfig{}, config.FileConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderPractice(&buf, report, "rounds", 1); err != nil {
		t.Fatalf("render practice: %v", err)
	}
	want := "alice: best D1  practise D2\nbob: best D1  practise D1\n"
	if buf.String() != want {
		t.Fatalf("practice = %q, want %q", buf.String(), want)
	}
}
