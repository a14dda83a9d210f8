// Package accum folds completed game results into running aggregate statistics.
package accum

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/dartlog/internal/model"
)

// NumGamesField is the field name of the games counter.
const NumGamesField = "numGames"

// NamedPart binds a summary field name to a part constructor.
type NamedPart struct {
	Name string
	New  Constructor
}

// ValidateParts checks part names for emptiness, dots and duplicates.
func ValidateParts(parts []NamedPart) error {
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		if p.Name == "" {
			return fmt.Errorf("part name is empty")
		}
		if strings.Contains(p.Name, ".") {
			return fmt.Errorf("part name %q must not contain '.'", p.Name)
		}
		if p.Name == NumGamesField {
			return fmt.Errorf("part name %q is reserved", p.Name)
		}
		if p.New == nil {
			return fmt.Errorf("part %q has no constructor", p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate part %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Accumulator owns one instance of every declared part plus a games counter.
// It is not safe for concurrent use.
type Accumulator struct {
	def      *model.GameDefinition
	names    []string
	parts    map[string]Part
	numGames int
}

// New builds an empty accumulator. parts must pass ValidateParts.
func New(def *model.GameDefinition, parts []NamedPart) *Accumulator {
	if err := ValidateParts(parts); err != nil {
		panic(err)
	}
	a := &Accumulator{
		def:   def,
		names: make([]string, 0, len(parts)),
		parts: make(map[string]Part, len(parts)),
	}
	for _, p := range parts {
		a.names = append(a.names, p.Name)
		a.parts[p.Name] = p.New(def)
	}
	return a
}

// AddGame folds one game into every part. The result is checked against the
// game definition before anything is mutated. Adding the same game twice
// counts it twice.
func (a *Accumulator) AddGame(r *model.PlayerGameResult) (map[string]Delta, error) {
	if err := a.def.ValidateResult(r); err != nil {
		return nil, fmt.Errorf("failed to add game: %w", err)
	}
	out := make(map[string]Delta, len(a.names))
	for _, name := range a.names {
		out[name] = a.parts[name].Add(r)
	}
	a.numGames++
	return out, nil
}

// NumGames returns the number of games folded so far.
func (a *Accumulator) NumGames() int {
	return a.numGames
}

// Part returns a named part.
func (a *Accumulator) Part(name string) (Part, bool) {
	p, ok := a.parts[name]
	return p, ok
}

// Value returns a field's current display value. Fields are addressed as
// "part.sub" or NumGamesField.
func (a *Accumulator) Value(field string) (float64, bool) {
	if field == NumGamesField {
		return float64(a.numGames), true
	}
	name, sub, ok := strings.Cut(field, ".")
	if !ok {
		return 0, false
	}
	p, ok := a.parts[name]
	if !ok {
		return 0, false
	}
	return p.Get(sub, a.numGames)
}

// FieldNames lists every addressable field in declaration order.
func (a *Accumulator) FieldNames() []string {
	out := []string{NumGamesField}
	for _, name := range a.names {
		for _, sub := range a.parts[name].Fields() {
			out = append(out, name+"."+sub)
		}
	}
	return out
}

// Snapshot copies the current value of every field.
func (a *Accumulator) Snapshot() Snapshot {
	s := Snapshot{NumGames: a.numGames, values: map[string]float64{}}
	for _, f := range a.FieldNames() {
		if v, ok := a.Value(f); ok {
			s.values[f] = v
		}
	}
	return s
}

// FieldNames lists the fields exposed by a set of parts without keeping the
// accumulator around.
func FieldNames(def *model.GameDefinition, parts []NamedPart) []string {
	return New(def, parts).FieldNames()
}

// Snapshot is an immutable copy of an accumulator's field values.
type Snapshot struct {
	NumGames int
	values   map[string]float64
}

// Value returns a field value from the snapshot.
func (s Snapshot) Value(field string) (float64, bool) {
	v, ok := s.values[field]
	return v, ok
}

// Fields returns the fields that hold a value, sorted.
func (s Snapshot) Fields() []string {
	out := make([]string, 0, len(s.values))
	for f := range s.values {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Values returns a copy of the field values.
func (s Snapshot) Values() map[string]float64 {
	out := make(map[string]float64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
