package twentyseven

import (
	"testing"

	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/rows"
	"github.com/verte-zerg/dartlog/internal/summary"
	"golang.org/x/text/language"
)

var (
	firstGame  = []int{0, 1, 2, 0, 0, 0, 1, 0, 2, 2, 2, 2, 3, 0, 0, 0, 0, 0, 1, 0}
	secondGame = []int{1, 1, 1, 2, 0, 1, 0, 0, 0, 2, 1, 0, 0, 0, 3, 0, 1, 0}
)

func resolve(t *testing.T, values []int) *model.PlayerGameResult {
	t.Helper()
	res, err := Definition().ResolvePlayer("alice", model.IndexedValues(values...))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return &res
}

func TestDefinitionIsValid(t *testing.T) {
	def := Definition()
	if err := def.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if def.NumRounds() != 20 || def.Rounds[4].Label != "D5" {
		t.Fatalf("unexpected rounds")
	}
}

func TestScenario(t *testing.T) {
	f, err := NewFactory(summary.All)
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	first := resolve(t, firstGame)
	if !first.Complete || first.Score != 93 {
		t.Fatalf("first game complete=%v score=%v, want true 93", first.Complete, first.Score)
	}
	if _, err := f.AddGame(first, []string{"alice"}, "alice"); err != nil {
		t.Fatalf("add game: %v", err)
	}
	acc, _ := f.Get(summary.Identity{Rule: "all", Player: "alice"})
	checks := map[string]float64{
		"cliffs.total":         1,
		// Every round with exactly two hits counts; this sequence has five.
		"doubleDoubles.total":  5,
		"hans.total":           1,
		"allPositive.count":    1,
		"allPositive.furthest": 20,
		"fatNick.furthest":     0,
	}
	for field, want := range checks {
		if got, ok := acc.Value(field); !ok || got != want {
			t.Fatalf("after first game %s = %v (%v), want %v", field, got, ok, want)
		}
	}

	second := resolve(t, secondGame)
	if second.Complete || len(second.Turns) != 18 || second.Score != 49 {
		t.Fatalf("second game complete=%v turns=%d score=%v", second.Complete, len(second.Turns), second.Score)
	}
	if _, err := f.AddGame(second, []string{"alice"}, "alice"); err != nil {
		t.Fatalf("add game: %v", err)
	}
	checks = map[string]float64{
		"numGames":              2,
		"cliffs.total":          2,
		"cliffs.played":         38,
		"score.best":            93,
		"score.worst":           49,
		"score.mean":            71,
		"complete.count":        1,
		"allPositive.count":     1,
		"allPositive.furthest":  20,
		"fatNick.furthest":      4,
		"rounds.favourite":      9,
		"rounds.favourite.rate": 2,
	}
	for field, want := range checks {
		if got, ok := acc.Value(field); !ok || got != want {
			t.Fatalf("after second game %s = %v (%v), want %v", field, got, ok, want)
		}
	}
}

func TestUntakenRounds(t *testing.T) {
	res := resolve(t, []int{1, 0, 2, 3, 0})
	if len(res.AllTurns) != 20 || len(res.Turns) != 5 {
		t.Fatalf("all turns %d, turns %d", len(res.AllTurns), len(res.Turns))
	}
	for _, turn := range res.AllTurns[5:] {
		if turn.Taken || turn.DeltaScore != float64(-2*(turn.Index+1)) {
			t.Fatalf("round %d: taken=%v delta=%v", turn.Index, turn.Taken, turn.DeltaScore)
		}
		if !turn.Stats.Bool(StatMiss) || turn.Stats.Get(StatHits) != 0 {
			t.Fatalf("round %d stats = %v", turn.Index, turn.Stats)
		}
	}
}

func TestHans(t *testing.T) {
	tests := []struct {
		values []int
		want   int
	}{
		{[]int{2, 2, 2}, 1},
		{[]int{2, 2, 2, 2, 2, 2}, 1},
		{[]int{2, 2, 2, 0, 2, 2, 2}, 2},
		{[]int{2, 2, 3, 2, 2}, 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := Hans(resolve(t, tt.values)); got != tt.want {
			t.Fatalf("hans(%v) = %d, want %d", tt.values, got, tt.want)
		}
	}
}

func TestDefaultRows(t *testing.T) {
	f, err := NewFactory()
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	groups, err := f.RowFactory().Groups(DefaultRows())
	if err != nil {
		t.Fatalf("default rows: %v", err)
	}
	for _, values := range [][]int{firstGame, secondGame} {
		rec := model.GameRecord{GameType: Type, Players: []string{"alice"}, Owner: "alice",
			Values: map[string]map[model.RoundKey]int{"alice": model.IndexedValues(values...)}}
		if err := f.AddRecord(rec); err != nil {
			t.Fatalf("add record: %v", err)
		}
	}
	r := rows.NewRenderer(rows.NewFormats(language.English))
	table := r.Build(groups, f.Columns("all", nil), rows.ViewDefault)
	found := map[string]rows.Cell{}
	for _, row := range table {
		found[row.Label] = row.Cells[0]
	}
	if got := found["Favourite"].Text; got != "D10" {
		t.Fatalf("favourite = %q, want D10", got)
	}
	if got := found["Best"]; got.Text != "93" || got.Delta != "0" {
		t.Fatalf("best = %+v", got)
	}
	if got := found["Games"]; got.Text != "2" || got.HasDelta {
		t.Fatalf("games = %+v", got)
	}
	if _, ok := found["Worst"]; ok {
		t.Fatalf("extended row shown in default view")
	}
}
