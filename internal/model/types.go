// Package model defines shared data structures.
package model

import "time"

// Config defines settings for recording a game.
type Config struct {
	GameType string
	Players  []string
	Owner    string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	GameType string
	Since    *time.Time
	Last     int
	Players  []string
	Rule     string
	Extended bool
	Locale   string
	Window   int
}

// GameRecord is a stored game: raw round values per player in seat order.
type GameRecord struct {
	ID        string
	GameType  string
	StartedAt time.Time
	Owner     string
	Players   []string
	Values    map[string]map[RoundKey]int
}

// IndexedValues builds round values for an indexed game from a sequence.
func IndexedValues(values ...int) map[RoundKey]int {
	out := make(map[RoundKey]int, len(values))
	for i, v := range values {
		out[Indexed(i)] = v
	}
	return out
}

// Participants returns a copy of the player list.
func (g GameRecord) Participants() []string {
	out := make([]string, len(g.Players))
	copy(out, g.Players)
	return out
}
