package accum

import (
	"math"

	"github.com/verte-zerg/dartlog/internal/model"
)

// Delta is the contribution of a single game to a part, keyed by sub-field.
type Delta map[string]float64

// Part is one named, independently folded aggregate statistic.
type Part interface {
	// Fields lists the numeric sub-fields the part exposes.
	Fields() []string
	// Add folds one game into the running value and returns its contribution.
	Add(r *model.PlayerGameResult) Delta
	// Get returns a sub-field's display value given the number of games seen.
	Get(field string, numGames int) (float64, bool)
}

// Constructor builds a fresh part for a game definition.
type Constructor func(def *model.GameDefinition) Part

// Better reports whether a is a better value than b.
type Better func(a, b float64) bool

// HigherBetter ranks larger values first.
func HigherBetter(a, b float64) bool { return a > b }

// LowerBetter ranks smaller values first.
func LowerBetter(a, b float64) bool { return a < b }

// Numeric tracks total, best and worst of a per-game value.
type Numeric struct {
	value  func(r *model.PlayerGameResult) float64
	better Better

	count int
	total float64
	best  float64
	worst float64
}

// NewNumeric returns a constructor for a numeric part. A nil comparator means
// higher is better.
func NewNumeric(value func(r *model.PlayerGameResult) float64, better Better) Constructor {
	if better == nil {
		better = HigherBetter
	}
	return func(*model.GameDefinition) Part {
		return &Numeric{value: value, better: better}
	}
}

// Fields implements Part.
func (p *Numeric) Fields() []string {
	return []string{"total", "best", "worst", "mean"}
}

// Add implements Part.
func (p *Numeric) Add(r *model.PlayerGameResult) Delta {
	v := p.value(r)
	if p.count == 0 {
		p.best, p.worst = v, v
	} else {
		if p.better(v, p.best) {
			p.best = v
		}
		if p.better(p.worst, v) {
			p.worst = v
		}
	}
	p.count++
	p.total += v
	return Delta{"total": v}
}

// Get implements Part.
func (p *Numeric) Get(field string, _ int) (float64, bool) {
	switch field {
	case "total":
		return p.total, true
	case "best":
		return p.best, p.count > 0
	case "worst":
		return p.worst, p.count > 0
	case "mean":
		if p.count == 0 {
			return 0, false
		}
		return p.total / float64(p.count), true
	}
	return 0, false
}

// Count tallies games for which a predicate holds.
type Count struct {
	pred  func(r *model.PlayerGameResult) bool
	count int
}

// NewCount returns a constructor for a boolean count part.
func NewCount(pred func(r *model.PlayerGameResult) bool) Constructor {
	return func(*model.GameDefinition) Part {
		return &Count{pred: pred}
	}
}

// Fields implements Part.
func (p *Count) Fields() []string {
	return []string{"count", "rate"}
}

// Add implements Part.
func (p *Count) Add(r *model.PlayerGameResult) Delta {
	if p.pred(r) {
		p.count++
		return Delta{"count": 1}
	}
	return Delta{"count": 0}
}

// Get implements Part.
func (p *Count) Get(field string, numGames int) (float64, bool) {
	switch field {
	case "count":
		return float64(p.count), true
	case "rate":
		return rate(float64(p.count), numGames)
	}
	return 0, false
}

// Furthest tracks how far a streak reached and how often it spanned a whole game.
type Furthest struct {
	reach    func(r *model.PlayerGameResult) (furthest int, full bool)
	count    int
	furthest int
	seen     bool
}

// NewFurthestRound returns a constructor for a part driven by an arbitrary
// "how far, and did it span the game" function.
func NewFurthestRound(reach func(r *model.PlayerGameResult) (int, bool)) Constructor {
	return func(*model.GameDefinition) Part {
		return &Furthest{reach: reach}
	}
}

// NewCountWhile returns a constructor counting leading taken rounds for which
// pred holds. The streak spans the game when every round satisfies it.
func NewCountWhile(pred func(t model.TurnData) bool) Constructor {
	return func(def *model.GameDefinition) Part {
		n := def.NumRounds()
		return &Furthest{reach: func(r *model.PlayerGameResult) (int, bool) {
			reached := 0
			for _, t := range r.AllTurns {
				if !t.Taken || !pred(t) {
					break
				}
				reached++
			}
			return reached, reached == n
		}}
	}
}

// Fields implements Part.
func (p *Furthest) Fields() []string {
	return []string{"count", "rate", "furthest"}
}

// Add implements Part.
func (p *Furthest) Add(r *model.PlayerGameResult) Delta {
	reached, full := p.reach(r)
	d := Delta{"count": 0, "furthest": float64(reached)}
	if full {
		p.count++
		d["count"] = 1
	}
	if !p.seen || reached > p.furthest {
		p.furthest = reached
	}
	p.seen = true
	return d
}

// Get implements Part.
func (p *Furthest) Get(field string, numGames int) (float64, bool) {
	switch field {
	case "count":
		return float64(p.count), true
	case "rate":
		return rate(float64(p.count), numGames)
	case "furthest":
		return float64(p.furthest), p.seen
	}
	return 0, false
}

// CountRoundStats sums one turn stat per game and rates it per round played.
type CountRoundStats struct {
	stat      string
	takenOnly bool

	games  int
	total  float64
	best   float64
	worst  float64
	played int
}

// NewCountRoundStats returns a constructor summing stat over taken turns. When
// takenOnly is false untaken rounds contribute too; the rate divisor is always
// the number of rounds actually played.
func NewCountRoundStats(stat string, takenOnly bool) Constructor {
	return func(*model.GameDefinition) Part {
		return &CountRoundStats{stat: stat, takenOnly: takenOnly}
	}
}

// Fields implements Part.
func (p *CountRoundStats) Fields() []string {
	return []string{"total", "best", "worst", "mean", "played", "rate"}
}

// Add implements Part.
func (p *CountRoundStats) Add(r *model.PlayerGameResult) Delta {
	turns := r.Turns
	if !p.takenOnly {
		turns = r.AllTurns
	}
	var n float64
	for _, t := range turns {
		n += t.Stats.Get(p.stat)
	}
	if p.games == 0 {
		p.best, p.worst = n, n
	} else {
		p.best = math.Max(p.best, n)
		p.worst = math.Min(p.worst, n)
	}
	p.games++
	p.total += n
	p.played += len(r.Turns)
	return Delta{"total": n, "played": float64(len(r.Turns))}
}

// Get implements Part.
func (p *CountRoundStats) Get(field string, _ int) (float64, bool) {
	switch field {
	case "total":
		return p.total, true
	case "best":
		return p.best, p.games > 0
	case "worst":
		return p.worst, p.games > 0
	case "mean":
		if p.games == 0 {
			return 0, false
		}
		return p.total / float64(p.games), true
	case "played":
		return float64(p.played), true
	case "rate":
		return rate(p.total, p.played)
	}
	return 0, false
}

func rate(n float64, of int) (float64, bool) {
	if of <= 0 {
		return 0, false
	}
	return n / float64(of), true
}
