package model

import (
	"fmt"
	"sort"
	"strconv"
)

// Addressing selects how rounds of a game are identified.
type Addressing int

const (
	// AddressIndexed identifies rounds by their integer position.
	AddressIndexed Addressing = iota
	// AddressKeyed identifies rounds by a string key.
	AddressKeyed
)

func (a Addressing) String() string {
	if a == AddressKeyed {
		return "keyed"
	}
	return "indexed"
}

// RoundKey identifies a round either by index or by key.
type RoundKey struct {
	index int
	key   string
	keyed bool
}

// Indexed returns the key of the round at position i.
func Indexed(i int) RoundKey {
	return RoundKey{index: i}
}

// Keyed returns a string round key.
func Keyed(k string) RoundKey {
	return RoundKey{key: k, keyed: true}
}

// Addressing reports which variant the key holds.
func (k RoundKey) Addressing() Addressing {
	if k.keyed {
		return AddressKeyed
	}
	return AddressIndexed
}

// Index returns the integer position for indexed keys.
func (k RoundKey) Index() (int, bool) {
	return k.index, !k.keyed
}

// Key returns the string key for keyed rounds.
func (k RoundKey) Key() (string, bool) {
	return k.key, k.keyed
}

func (k RoundKey) String() string {
	if k.keyed {
		return k.key
	}
	return strconv.Itoa(k.index)
}

// ParseRoundKey rebuilds a key from its stored representation.
func ParseRoundKey(a Addressing, s string) (RoundKey, error) {
	if a == AddressKeyed {
		return Keyed(s), nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return RoundKey{}, fmt.Errorf("invalid round index %q: %w", s, err)
	}
	return Indexed(i), nil
}

// TurnStats holds the derived per-round statistics of a turn. Boolean stats are
// stored as 0 or 1.
type TurnStats map[string]float64

// Get returns a stat value. The stat set is declared per game definition, so a
// missing key is a programming error.
func (s TurnStats) Get(name string) float64 {
	v, ok := s[name]
	if !ok {
		panic(fmt.Sprintf("turn stats: undeclared stat %q", name))
	}
	return v
}

// Bool reports whether a stat is non-zero.
func (s TurnStats) Bool(name string) bool {
	return s.Get(name) != 0
}

// B converts a boolean into a stat value.
func B(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// RoundDefinition is the static description of a single round.
type RoundDefinition struct {
	Key        RoundKey
	Label      string
	DeltaScore func(value int, playerID string, roundIndex int) float64
	TurnStats  func(value int) TurnStats
}

// SortOrder decides how final scores rank players.
type SortOrder int

const (
	// HighestFirst ranks the highest score first.
	HighestFirst SortOrder = iota
	// LowestFirst ranks the lowest score first.
	LowestFirst
)

// GameDefinition describes a fixed-round game.
type GameDefinition struct {
	Type         string
	Addressing   Addressing
	Rounds       []RoundDefinition
	StartScore   float64
	UntakenValue int
	SortOrder    SortOrder
	StatKeys     []string
}

// NumRounds returns the number of rounds in the game.
func (d *GameDefinition) NumRounds() int {
	return len(d.Rounds)
}

// RoundIndex returns the position of a round key.
func (d *GameDefinition) RoundIndex(key RoundKey) (int, bool) {
	if i, ok := key.Index(); ok {
		if d.Addressing != AddressIndexed || i < 0 || i >= len(d.Rounds) {
			return 0, false
		}
		return i, true
	}
	for i, r := range d.Rounds {
		if r.Key == key {
			return i, true
		}
	}
	return 0, false
}

// Validate checks the definition for internal consistency.
func (d *GameDefinition) Validate() error {
	if d.Type == "" {
		return fmt.Errorf("game type is empty")
	}
	if len(d.Rounds) == 0 {
		return fmt.Errorf("game %s has no rounds", d.Type)
	}
	seen := make(map[RoundKey]struct{}, len(d.Rounds))
	for i, r := range d.Rounds {
		if r.Key.Addressing() != d.Addressing {
			return fmt.Errorf("round %d uses %s addressing in a %s game", i, r.Key.Addressing(), d.Addressing)
		}
		if idx, ok := r.Key.Index(); ok && idx != i {
			return fmt.Errorf("round %d has index key %d", i, idx)
		}
		if _, dup := seen[r.Key]; dup {
			return fmt.Errorf("duplicate round key %s", r.Key)
		}
		seen[r.Key] = struct{}{}
		if r.DeltaScore == nil {
			return fmt.Errorf("round %s has no delta score function", r.Key)
		}
		if r.TurnStats != nil {
			if err := d.checkStats(r.TurnStats(d.UntakenValue)); err != nil {
				return fmt.Errorf("round %s: %w", r.Key, err)
			}
		}
	}
	return nil
}

func (d *GameDefinition) checkStats(stats TurnStats) error {
	if len(stats) != len(d.StatKeys) {
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Errorf("turn stats %v do not match declared %v", keys, d.StatKeys)
	}
	for _, k := range d.StatKeys {
		if _, ok := stats[k]; !ok {
			return fmt.Errorf("turn stats missing %q", k)
		}
	}
	return nil
}
