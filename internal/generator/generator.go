// Package generator simulates games for testing and demos.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/dartlog/internal/model"
)

// Options controls a simulated player.
type Options struct {
	// HitProb is the chance of each dart hitting the double.
	HitProb float64
	// Darts thrown per round; the round value is the number of hits.
	Darts int
	// RoundBias scales HitProb per round index. Missing entries mean 1.
	RoundBias []float64
	// StopProb is the chance of abandoning the game after each round.
	StopProb float64
	// StopAtZero ends the game once the running score is zero or below.
	StopAtZero bool
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.HitProb < 0 || o.HitProb > 1 {
		return fmt.Errorf("hit probability %v out of range [0, 1]", o.HitProb)
	}
	if o.StopProb < 0 || o.StopProb > 1 {
		return fmt.Errorf("stop probability %v out of range [0, 1]", o.StopProb)
	}
	if o.Darts <= 0 {
		return fmt.Errorf("darts per round must be positive")
	}
	for i, b := range o.RoundBias {
		if b < 0 {
			return fmt.Errorf("round bias %d is negative", i)
		}
	}
	return nil
}

// Generator produces random games.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Round returns the number of hits for one round.
func (g *Generator) Round(round int, opts Options) int {
	p := opts.HitProb
	if round < len(opts.RoundBias) {
		p *= opts.RoundBias[round]
	}
	if p > 1 {
		p = 1
	}
	hits := 0
	for i := 0; i < opts.Darts; i++ {
		if g.rnd.Float64() < p {
			hits++
		}
	}
	return hits
}

// Player simulates one player's round values for an indexed game.
func (g *Generator) Player(def *model.GameDefinition, player string, opts Options) map[model.RoundKey]int {
	values := make(map[model.RoundKey]int, len(def.Rounds))
	score := def.StartScore
	for i, round := range def.Rounds {
		v := g.Round(i, opts)
		values[round.Key] = v
		score += round.DeltaScore(v, player, i)
		if opts.StopAtZero && score <= 0 {
			break
		}
		if opts.StopProb > 0 && i < len(def.Rounds)-1 && g.rnd.Float64() < opts.StopProb {
			break
		}
	}
	return values
}

// Game simulates a full game record. Every player uses the same options; the
// first player owns the game.
func (g *Generator) Game(def *model.GameDefinition, players []string, at time.Time, opts Options) (model.GameRecord, error) {
	if err := opts.Validate(); err != nil {
		return model.GameRecord{}, err
	}
	if len(players) == 0 {
		return model.GameRecord{}, fmt.Errorf("no players")
	}
	rec := model.GameRecord{
		GameType:  def.Type,
		StartedAt: at,
		Owner:     players[0],
		Players:   append([]string(nil), players...),
		Values:    make(map[string]map[model.RoundKey]int, len(players)),
	}
	for _, p := range players {
		rec.Values[p] = g.Player(def, p, opts)
	}
	return rec, nil
}
