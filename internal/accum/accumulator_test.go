package accum

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/verte-zerg/dartlog/internal/model"
)

func testDefinition(rounds int) *model.GameDefinition {
	defs := make([]model.RoundDefinition, rounds)
	for i := range defs {
		defs[i] = model.RoundDefinition{
			Key: model.Indexed(i),
			DeltaScore: func(value int, _ string, roundIndex int) float64 {
				if value > 0 {
					return float64(2 * (roundIndex + 1) * value)
				}
				return float64(-2 * (roundIndex + 1))
			},
			TurnStats: func(value int) model.TurnStats {
				return model.TurnStats{
					"hits":  float64(value),
					"cliff": model.B(value == 3),
				}
			},
		}
	}
	return &model.GameDefinition{
		Type:       "test",
		Rounds:     defs,
		StartScore: 27,
		StatKeys:   []string{"hits", "cliff"},
	}
}

func testParts() []NamedPart {
	return []NamedPart{
		{Name: "score", New: NewNumeric(func(r *model.PlayerGameResult) float64 { return r.Score }, nil)},
		{Name: "cliffs", New: NewCountRoundStats("cliff", true)},
		{Name: "complete", New: NewCount(func(r *model.PlayerGameResult) bool { return r.Complete })},
		{Name: "allHit", New: NewCountWhile(func(t model.TurnData) bool { return t.Value > 0 })},
		{Name: "rounds", New: NewRoundStats([]string{"hits", "cliff"}, "hits")},
	}
}

func resolve(t *testing.T, def *model.GameDefinition, values ...int) *model.PlayerGameResult {
	t.Helper()
	res, err := def.ResolvePlayer("p1", model.IndexedValues(values...))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return &res
}

func TestAccumulatorFields(t *testing.T) {
	def := testDefinition(4)
	acc := New(def, testParts())
	names := acc.FieldNames()
	for _, want := range []string{"numGames", "score.best", "cliffs.rate", "allHit.furthest", "rounds.hits.rate", "rounds.favourite"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing field %q in %v", want, names)
		}
	}
	if _, ok := acc.Value("score.best"); ok {
		t.Fatalf("best should be unset before any game")
	}
	if v, ok := acc.Value("numGames"); !ok || v != 0 {
		t.Fatalf("numGames = %v, %v", v, ok)
	}
}

func TestAccumulatorAddGame(t *testing.T) {
	def := testDefinition(4)
	acc := New(def, testParts())

	first := resolve(t, def, 3, 1, 0, 2)
	delta, err := acc.AddGame(first)
	if err != nil {
		t.Fatalf("add game: %v", err)
	}
	if delta["cliffs"]["total"] != 1 {
		t.Fatalf("cliffs delta = %v", delta["cliffs"])
	}
	if delta["allHit"]["furthest"] != 2 || delta["allHit"]["count"] != 0 {
		t.Fatalf("allHit delta = %v", delta["allHit"])
	}

	second := resolve(t, def, 1, 1)
	if _, err := acc.AddGame(second); err != nil {
		t.Fatalf("add game: %v", err)
	}

	checks := map[string]float64{
		"numGames":         2,
		"complete.count":   1,
		"complete.rate":    0.5,
		"cliffs.total":     1,
		"cliffs.played":    6,
		"allHit.furthest":  2,
		"rounds.played":    6,
		"rounds.hits":      8,
		"rounds.favourite": 0,
	}
	for field, want := range checks {
		got, ok := acc.Value(field)
		if !ok || got != want {
			t.Fatalf("%s = %v (%v), want %v", field, got, ok, want)
		}
	}
	rate, _ := acc.Value("cliffs.rate")
	if rate != 1.0/6.0 {
		t.Fatalf("cliffs.rate = %v", rate)
	}
}

func TestAddGameRejectsMalformedResult(t *testing.T) {
	def := testDefinition(4)
	acc := New(def, testParts())
	res := resolve(t, def, 1, 2)
	delete(res.AllTurns[0].Stats, "hits")
	if _, err := acc.AddGame(res); err == nil || !strings.Contains(err.Error(), "failed to add game") {
		t.Fatalf("expected validation error, got %v", err)
	}
	if acc.NumGames() != 0 {
		t.Fatalf("accumulator mutated on invalid input")
	}
	if v, _ := acc.Value("rounds.played"); v != 0 {
		t.Fatalf("rounds mutated on invalid input: %v", v)
	}
}

func TestAddGameTwiceDoubleCounts(t *testing.T) {
	def := testDefinition(4)
	acc := New(def, testParts())
	res := resolve(t, def, 3, 3, 3, 3)
	for i := 0; i < 2; i++ {
		if _, err := acc.AddGame(res); err != nil {
			t.Fatalf("add game: %v", err)
		}
	}
	if v, _ := acc.Value("cliffs.total"); v != 8 {
		t.Fatalf("cliffs.total = %v, want 8", v)
	}
	if v, _ := acc.Value("allHit.count"); v != 2 {
		t.Fatalf("allHit.count = %v, want 2", v)
	}
}

func randomGames(t *testing.T, def *model.GameDefinition, n int, seed int64) []*model.PlayerGameResult {
	t.Helper()
	rnd := rand.New(rand.NewSource(seed))
	games := make([]*model.PlayerGameResult, 0, n)
	for i := 0; i < n; i++ {
		played := 1 + rnd.Intn(def.NumRounds())
		values := make([]int, played)
		for j := range values {
			values[j] = rnd.Intn(4)
		}
		games = append(games, resolve(t, def, values...))
	}
	return games
}

func orderIndependentFields() []string {
	return []string{
		"numGames", "score.best", "score.worst", "score.total",
		"cliffs.total", "cliffs.best", "cliffs.worst", "complete.count",
		"allHit.count", "allHit.furthest", "rounds.hits", "rounds.played",
	}
}

func TestOrderIndependence(t *testing.T) {
	def := testDefinition(6)
	games := randomGames(t, def, 12, 7)

	baseline := New(def, testParts())
	for _, g := range games {
		if _, err := baseline.AddGame(g); err != nil {
			t.Fatalf("add game: %v", err)
		}
	}

	rnd := rand.New(rand.NewSource(99))
	for trial := 0; trial < 10; trial++ {
		perm := rnd.Perm(len(games))
		acc := New(def, testParts())
		for _, i := range perm {
			if _, err := acc.AddGame(games[i]); err != nil {
				t.Fatalf("add game: %v", err)
			}
		}
		for _, f := range orderIndependentFields() {
			want, _ := baseline.Value(f)
			got, _ := acc.Value(f)
			if got != want {
				t.Fatalf("trial %d: %s = %v, want %v", trial, f, got, want)
			}
		}
	}
}

func TestIncrementalEqualsBatch(t *testing.T) {
	def := testDefinition(5)
	games := randomGames(t, def, 20, 3)

	acc := New(def, testParts())
	sums := map[string]float64{}
	furthest := 0.0
	for i, g := range games {
		delta, err := acc.AddGame(g)
		if err != nil {
			t.Fatalf("add game: %v", err)
		}
		sums["score.total"] += delta["score"]["total"]
		sums["cliffs.total"] += delta["cliffs"]["total"]
		sums["complete.count"] += delta["complete"]["count"]
		sums["rounds.hits"] += delta["rounds"]["hits"]
		if delta["allHit"]["furthest"] > furthest {
			furthest = delta["allHit"]["furthest"]
		}

		batch := New(def, testParts())
		for _, h := range games[:i+1] {
			if _, err := batch.AddGame(h); err != nil {
				t.Fatalf("add game: %v", err)
			}
		}
		if !reflect.DeepEqual(acc.Snapshot().Values(), batch.Snapshot().Values()) {
			t.Fatalf("after %d games incremental and batch differ", i+1)
		}
	}
	for f, want := range sums {
		if got, _ := acc.Value(f); got != want {
			t.Fatalf("%s = %v, sum of deltas %v", f, got, want)
		}
	}
	if got, _ := acc.Value("allHit.furthest"); got != furthest {
		t.Fatalf("furthest = %v, max of deltas %v", got, furthest)
	}
}

func TestFurthestIsMonotonic(t *testing.T) {
	def := testDefinition(4)
	acc := New(def, testParts())
	prev := -1.0
	for _, values := range [][]int{{1, 1, 0}, {0}, {1, 1, 1, 1}, {2}} {
		if _, err := acc.AddGame(resolve(t, def, values...)); err != nil {
			t.Fatalf("add game: %v", err)
		}
		got, _ := acc.Value("allHit.furthest")
		if got < prev {
			t.Fatalf("furthest decreased from %v to %v", prev, got)
		}
		prev = got
	}
	if prev != 4 {
		t.Fatalf("furthest = %v, want 4", prev)
	}
	if v, _ := acc.Value("allHit.count"); v != 1 {
		t.Fatalf("allHit.count = %v, want 1", v)
	}
}

func TestValidatePartsRejectsDuplicates(t *testing.T) {
	parts := append(testParts(), testParts()[0])
	if err := ValidateParts(parts); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := ValidateParts([]NamedPart{{Name: "a.b", New: testParts()[0].New}}); err == nil {
		t.Fatalf("expected dotted name error")
	}
}

func TestRoundStatsBreakdown(t *testing.T) {
	def := testDefinition(3)
	acc := New(def, testParts())
	for _, values := range [][]int{{0, 3, 1}, {1, 3}, {0, 2, 3}} {
		if _, err := acc.AddGame(resolve(t, def, values...)); err != nil {
			t.Fatalf("add game: %v", err)
		}
	}
	part, _ := acc.Part("rounds")
	rs := part.(*RoundStats)
	tallies := rs.Rounds()
	if tallies[1].Played != 3 || tallies[2].Played != 2 {
		t.Fatalf("unexpected played counts: %+v", tallies)
	}
	if tallies[1].Values[3] != 2 || tallies[1].Values[2] != 1 {
		t.Fatalf("unexpected histogram: %v", tallies[1].Values)
	}
	idx, best, ok := rs.Favourite()
	if !ok || idx != 1 || best != 8.0/3.0 {
		t.Fatalf("favourite = %d %v %v", idx, best, ok)
	}
	if got := tallies[0].SortedValues(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("sorted values = %v", got)
	}
}
