// Package twentyseven defines the "twenty-seven" doubles practice game: one
// round per double from D1 to D20, three darts each, starting on 27 points.
package twentyseven

import (
	"fmt"

	"github.com/verte-zerg/dartlog/internal/accum"
	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/summary"
)

const (
	// Type is the stored game type.
	Type = "twenty-seven"
	// NumRounds is the number of doubles played.
	NumRounds = 20
	// StartScore is every player's score before the first round.
	StartScore = 27
	// MaxHits is the number of darts thrown per round.
	MaxHits = 3
	// HansRun is the shortest run of consecutive double doubles that counts as a hans.
	HansRun = 3
)

// Turn stat names.
const (
	StatHits         = "hits"
	StatCliff        = "cliff"
	StatDoubleDouble = "doubleDouble"
	StatMiss         = "miss"
)

// DeltaScore is the score change for h hits on the double of round r
// (0-based): each hit scores the double, a round without hits loses it.
func DeltaScore(h, r int) float64 {
	if h > 0 {
		return float64(2 * (r + 1) * h)
	}
	return float64(-2 * (r + 1))
}

// TurnStats derives the per-round stats of h hits.
func TurnStats(h int) model.TurnStats {
	return model.TurnStats{
		StatHits:         float64(h),
		StatCliff:        model.B(h == MaxHits),
		StatDoubleDouble: model.B(h == 2),
		StatMiss:         model.B(h == 0),
	}
}

// RoundLabel returns the display label of round r (0-based), e.g. "D5".
func RoundLabel(r int) string {
	return fmt.Sprintf("D%d", r+1)
}

// Definition returns the game definition.
func Definition() *model.GameDefinition {
	rounds := make([]model.RoundDefinition, NumRounds)
	for i := range rounds {
		rounds[i] = model.RoundDefinition{
			Key:   model.Indexed(i),
			Label: RoundLabel(i),
			DeltaScore: func(value int, _ string, roundIndex int) float64 {
				return DeltaScore(value, roundIndex)
			},
			TurnStats: TurnStats,
		}
	}
	return &model.GameDefinition{
		Type:         Type,
		Addressing:   model.AddressIndexed,
		Rounds:       rounds,
		StartScore:   StartScore,
		UntakenValue: 0,
		SortOrder:    model.HighestFirst,
		StatKeys:     []string{StatHits, StatCliff, StatDoubleDouble, StatMiss},
	}
}

// ValidHits reports whether v is a legal round value.
func ValidHits(v int) bool {
	return v >= 0 && v <= MaxHits
}

// Hans counts runs of at least HansRun consecutive double doubles in the
// taken rounds. A longer run still counts once.
func Hans(r *model.PlayerGameResult) int {
	runs, streak := 0, 0
	prev := -1
	for _, t := range r.Turns {
		if t.Index != prev+1 {
			streak = 0
		}
		prev = t.Index
		if t.Stats.Bool(StatDoubleDouble) {
			streak++
			if streak == HansRun {
				runs++
			}
			continue
		}
		streak = 0
	}
	return runs
}

// Parts returns the summary parts tracked for every player.
func Parts() []accum.NamedPart {
	return []accum.NamedPart{
		{Name: "score", New: accum.NewNumeric(func(r *model.PlayerGameResult) float64 { return r.Score }, accum.HigherBetter)},
		{Name: "cliffs", New: accum.NewCountRoundStats(StatCliff, true)},
		{Name: "doubleDoubles", New: accum.NewCountRoundStats(StatDoubleDouble, true)},
		{Name: "hits", New: accum.NewCountRoundStats(StatHits, true)},
		{Name: "misses", New: accum.NewCountRoundStats(StatMiss, true)},
		{Name: "hans", New: accum.NewNumeric(func(r *model.PlayerGameResult) float64 { return float64(Hans(r)) }, accum.HigherBetter)},
		{Name: "allPositive", New: accum.NewCountWhile(func(t model.TurnData) bool { return t.Score > 0 })},
		{Name: "fatNick", New: accum.NewCountWhile(func(t model.TurnData) bool { return t.Value > 0 })},
		{Name: "wins", New: accum.NewCount(func(r *model.PlayerGameResult) bool { return r.Position == 1 })},
		{Name: "complete", New: accum.NewCount(func(r *model.PlayerGameResult) bool { return r.Complete })},
		{Name: "rounds", New: accum.NewRoundStats([]string{StatHits, StatCliff, StatDoubleDouble, StatMiss}, StatHits)},
	}
}

// NewFactory returns a summary factory for twenty-seven with the given rules,
// or the default rules when none are given.
func NewFactory(rules ...summary.Rule) (*summary.Factory, error) {
	return summary.NewFactory(summary.Definition{
		Game:  Definition(),
		Parts: Parts(),
		Rules: rules,
	})
}
