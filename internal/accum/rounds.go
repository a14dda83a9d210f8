package accum

import (
	"sort"
	"strings"

	"github.com/verte-zerg/dartlog/internal/model"
)

// RoundTally is the per-round breakdown across all games folded so far.
type RoundTally struct {
	Round  model.RoundKey
	Label  string
	Played int
	Stats  map[string]float64
	Values map[int]int
}

// Rate returns a stat's total divided by the times the round was played.
func (t RoundTally) Rate(stat string) (float64, bool) {
	return rate(t.Stats[stat], t.Played)
}

// SortedValues returns the observed values in ascending order.
func (t RoundTally) SortedValues() []int {
	out := make([]int, 0, len(t.Values))
	for v := range t.Values {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// RoundStats keeps a per-round breakdown of turn stats over taken turns.
type RoundStats struct {
	stats     []string
	favourite string
	rounds    []RoundTally
	played    int
}

// NewRoundStats returns a constructor for a per-round breakdown of the given
// stats. favourite names the stat whose best round rate is exposed as the
// "favourite" sub-field; it may be empty.
func NewRoundStats(stats []string, favourite string) Constructor {
	return func(def *model.GameDefinition) Part {
		p := &RoundStats{
			stats:     append([]string(nil), stats...),
			favourite: favourite,
			rounds:    make([]RoundTally, def.NumRounds()),
		}
		for i, r := range def.Rounds {
			label := r.Label
			if label == "" {
				label = r.Key.String()
			}
			p.rounds[i] = RoundTally{
				Round:  r.Key,
				Label:  label,
				Stats:  make(map[string]float64, len(stats)),
				Values: map[int]int{},
			}
		}
		return p
	}
}

// Fields implements Part.
func (p *RoundStats) Fields() []string {
	out := []string{"played"}
	for _, s := range p.stats {
		out = append(out, s, s+".rate")
	}
	if p.favourite != "" {
		out = append(out, "favourite", "favourite.rate")
	}
	return out
}

// Add implements Part.
func (p *RoundStats) Add(r *model.PlayerGameResult) Delta {
	d := Delta{"played": float64(len(r.Turns))}
	for _, s := range p.stats {
		d[s] = 0
	}
	for _, t := range r.Turns {
		tally := &p.rounds[t.Index]
		tally.Played++
		tally.Values[t.Value]++
		for _, s := range p.stats {
			v := t.Stats.Get(s)
			tally.Stats[s] += v
			d[s] += v
		}
	}
	p.played += len(r.Turns)
	return d
}

// Get implements Part.
func (p *RoundStats) Get(field string, _ int) (float64, bool) {
	if field == "played" {
		return float64(p.played), true
	}
	if p.favourite != "" && strings.HasPrefix(field, "favourite") {
		idx, best, ok := p.Favourite()
		if !ok {
			return 0, false
		}
		switch field {
		case "favourite":
			return float64(idx), true
		case "favourite.rate":
			return best, true
		}
		return 0, false
	}
	stat, wantRate := strings.CutSuffix(field, ".rate")
	if !p.hasStat(stat) {
		return 0, false
	}
	var total float64
	for _, t := range p.rounds {
		total += t.Stats[stat]
	}
	if wantRate {
		return rate(total, p.played)
	}
	return total, true
}

// Favourite returns the position of the round with the highest rate of the
// favourite stat. Ties go to the earlier round.
func (p *RoundStats) Favourite() (int, float64, bool) {
	idx, best := -1, 0.0
	for i, t := range p.rounds {
		r, ok := t.Rate(p.favourite)
		if !ok {
			continue
		}
		if idx < 0 || r > best {
			idx, best = i, r
		}
	}
	return idx, best, idx >= 0
}

// Rounds returns a copy of the per-round tallies in round order.
func (p *RoundStats) Rounds() []RoundTally {
	out := make([]RoundTally, len(p.rounds))
	for i, t := range p.rounds {
		c := t
		c.Stats = make(map[string]float64, len(t.Stats))
		for k, v := range t.Stats {
			c.Stats[k] = v
		}
		c.Values = make(map[int]int, len(t.Values))
		for k, v := range t.Values {
			c.Values[k] = v
		}
		out[i] = c
	}
	return out
}

// StatNames returns the tracked stats.
func (p *RoundStats) StatNames() []string {
	return append([]string(nil), p.stats...)
}

func (p *RoundStats) hasStat(name string) bool {
	for _, s := range p.stats {
		if s == name {
			return true
		}
	}
	return false
}
