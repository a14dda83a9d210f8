package summary

import (
	"fmt"
	"sort"
	"strings"
)

// Rule decides which participants of a game are tracked under it.
type Rule struct {
	Name string
	// All tracks every participant of every game.
	All bool
	// Players must all take part besides the tracked player.
	Players []string
	// Exact rejects games with participants outside Players and the tracked player.
	Exact bool
	// Team keys accumulators by the full roster as well as the player.
	Team bool
	// OwnerOnly tracks only the game owner.
	OwnerOnly bool
}

// Standard rules.
var (
	All  = Rule{Name: "all", All: true}
	Solo = Rule{Name: "solo", Exact: true}
	Team = Rule{Name: "team", Team: true}
)

// DefaultRules are used when a definition declares none.
func DefaultRules() []Rule {
	return []Rule{All, Solo, Team}
}

// ParseRule resolves a rule name. Besides "all" (or "*"), "solo" and "team" it
// accepts "with:a,b" (games including a and b) and "only:a,b" (games with
// exactly those co-players).
func ParseRule(s string) (Rule, error) {
	switch s {
	case "", "*", "all":
		return All, nil
	case "solo":
		return Solo, nil
	case "team":
		return Team, nil
	}
	kind, list, ok := strings.Cut(s, ":")
	if !ok || (kind != "with" && kind != "only") {
		return Rule{}, fmt.Errorf("unknown rule %q", s)
	}
	var players []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			players = append(players, p)
		}
	}
	if len(players) == 0 {
		return Rule{}, fmt.Errorf("rule %q lists no players", s)
	}
	return Rule{Name: s, Players: players, Exact: kind == "only"}, nil
}

// Roster returns the canonical key of a set of players.
func Roster(players []string) string {
	sorted := dedupe(players)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func dedupe(players []string) []string {
	seen := make(map[string]struct{}, len(players))
	out := make([]string, 0, len(players))
	for _, p := range players {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Tracked returns the players of a game that the rule tracks, in participant
// order.
func (r Rule) Tracked(participants []string, owner string) []string {
	players := dedupe(participants)
	present := make(map[string]struct{}, len(players))
	for _, p := range players {
		present[p] = struct{}{}
	}
	candidates := players
	if r.OwnerOnly {
		if _, ok := present[owner]; !ok {
			return nil
		}
		candidates = []string{owner}
	}
	if r.All || r.Team {
		return candidates
	}

	required := make(map[string]struct{}, len(r.Players))
	for _, p := range r.Players {
		required[p] = struct{}{}
	}
	var out []string
	for _, p := range candidates {
		if r.matches(p, players, present, required) {
			out = append(out, p)
		}
	}
	return out
}

func (r Rule) matches(player string, players []string, present, required map[string]struct{}) bool {
	for q := range required {
		if q == player {
			continue
		}
		if _, ok := present[q]; !ok {
			return false
		}
	}
	if !r.Exact {
		return true
	}
	for _, q := range players {
		if q == player {
			continue
		}
		if _, ok := required[q]; !ok {
			return false
		}
	}
	return true
}
