// Package summary keeps one accumulator per tracked identity and routes
// completed games to every identity whose rule matches.
package summary

import (
	"fmt"

	"github.com/verte-zerg/dartlog/internal/accum"
	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/rows"
)

// Definition wires a game, its summary parts and the tracking rules.
type Definition struct {
	Game  *model.GameDefinition
	Parts []accum.NamedPart
	Rules []Rule
}

// Identity names one tracked accumulator. Roster is empty unless the rule
// is a team rule.
type Identity struct {
	Rule   string
	Roster string
	Player string
}

func (id Identity) String() string {
	if id.Roster == "" {
		return id.Rule + "/" + id.Player
	}
	return id.Rule + "/" + id.Roster + "/" + id.Player
}

// Summary is a snapshot of one identity.
type Summary struct {
	Identity Identity
	Current  accum.Snapshot
	// Previous is the snapshot before the latest game; nil after the first.
	Previous *accum.Snapshot
}

// Factory owns the accumulators of every identity seen so far. It is not safe
// for concurrent use.
type Factory struct {
	def    Definition
	rules  map[string]Rule
	fields []string
	accs   map[Identity]*accum.Accumulator
	prev   map[Identity]accum.Snapshot
	order  []Identity
	games  int
}

// NewFactory validates the definition and returns an empty factory.
func NewFactory(def Definition) (*Factory, error) {
	if def.Game == nil {
		return nil, fmt.Errorf("summary definition has no game")
	}
	if err := def.Game.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate game %s: %w", def.Game.Type, err)
	}
	if err := accum.ValidateParts(def.Parts); err != nil {
		return nil, fmt.Errorf("failed to validate parts: %w", err)
	}
	if len(def.Rules) == 0 {
		def.Rules = DefaultRules()
	}
	rules := make(map[string]Rule, len(def.Rules))
	for _, r := range def.Rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule has no name")
		}
		if _, dup := rules[r.Name]; dup {
			return nil, fmt.Errorf("duplicate rule %q", r.Name)
		}
		rules[r.Name] = r
	}
	return &Factory{
		def:    def,
		rules:  rules,
		fields: accum.FieldNames(def.Game, def.Parts),
		accs:   map[Identity]*accum.Accumulator{},
		prev:   map[Identity]accum.Snapshot{},
	}, nil
}

// Game returns the game definition.
func (f *Factory) Game() *model.GameDefinition {
	return f.def.Game
}

// Rules returns the tracking rules in declaration order.
func (f *Factory) Rules() []Rule {
	return append([]Rule(nil), f.def.Rules...)
}

// Rule returns a rule by name.
func (f *Factory) Rule(name string) (Rule, bool) {
	r, ok := f.rules[name]
	return r, ok
}

// Create returns a fresh accumulator with one instance of every part.
func (f *Factory) Create() *accum.Accumulator {
	return accum.New(f.def.Game, f.def.Parts)
}

// FieldNames lists every summary field.
func (f *Factory) FieldNames() []string {
	return append([]string(nil), f.fields...)
}

// NumGames returns how many player results were added.
func (f *Factory) NumGames() int {
	return f.games
}

// AddGame routes one player's result to every matching rule, creating
// accumulators on first use. It returns the identities that were updated.
func (f *Factory) AddGame(r *model.PlayerGameResult, participants []string, owner string) ([]Identity, error) {
	if err := f.def.Game.ValidateResult(r); err != nil {
		return nil, fmt.Errorf("failed to add game for %s: %w", r.PlayerID, err)
	}
	var touched []Identity
	for _, rule := range f.def.Rules {
		if !tracks(rule, r.PlayerID, participants, owner) {
			continue
		}
		id := Identity{Rule: rule.Name, Player: r.PlayerID}
		if rule.Team {
			id.Roster = Roster(participants)
		}
		acc, ok := f.accs[id]
		if !ok {
			acc = f.Create()
			f.accs[id] = acc
			f.order = append(f.order, id)
		} else {
			f.prev[id] = acc.Snapshot()
		}
		if _, err := acc.AddGame(r); err != nil {
			return touched, err
		}
		touched = append(touched, id)
	}
	f.games++
	return touched, nil
}

func tracks(rule Rule, player string, participants []string, owner string) bool {
	for _, p := range rule.Tracked(participants, owner) {
		if p == player {
			return true
		}
	}
	return false
}

// AddRecord resolves a stored game and adds every player's result.
func (f *Factory) AddRecord(rec model.GameRecord) error {
	results, err := f.def.Game.ResolveGame(rec)
	if err != nil {
		return fmt.Errorf("failed to resolve game: %w", err)
	}
	for i := range results {
		if _, err := f.AddGame(&results[i], rec.Players, rec.Owner); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the accumulator of an identity, if it has seen a game.
func (f *Factory) Get(id Identity) (*accum.Accumulator, bool) {
	acc, ok := f.accs[id]
	return acc, ok
}

// Identities lists the active identities of a rule in creation order. An
// empty rule name lists all of them.
func (f *Factory) Identities(rule string) []Identity {
	var out []Identity
	for _, id := range f.order {
		if rule == "" || id.Rule == rule {
			out = append(out, id)
		}
	}
	return out
}

// Summaries snapshots every active identity of a rule.
func (f *Factory) Summaries(rule string) []Summary {
	ids := f.Identities(rule)
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		s := Summary{Identity: id, Current: f.accs[id].Snapshot()}
		if prev, ok := f.prev[id]; ok {
			p := prev
			s.Previous = &p
		}
		out = append(out, s)
	}
	return out
}

// Columns builds row columns for a rule. When players is non-empty only
// those players are included, in that order.
func (f *Factory) Columns(rule string, players []string) []rows.Column {
	summaries := f.Summaries(rule)
	pick := summaries
	if len(players) > 0 {
		pick = pick[:0:0]
		for _, p := range players {
			for _, s := range summaries {
				if s.Identity.Player == p {
					pick = append(pick, s)
				}
			}
		}
	}
	cols := make([]rows.Column, 0, len(pick))
	for _, s := range pick {
		c := rows.Column{ID: s.Identity.String(), Current: s.Current}
		if s.Previous != nil {
			c.Previous = *s.Previous
		}
		cols = append(cols, c)
	}
	return cols
}

// RowFactory returns a row builder that validates field names against this
// factory's fields.
func (f *Factory) RowFactory() *rows.Builder {
	return rows.NewBuilder(f.fields)
}
