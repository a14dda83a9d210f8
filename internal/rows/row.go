// Package rows turns per-player summary values into formatted comparison rows
// with best/worst highlighting and deltas against a previous snapshot.
package rows

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/dartlog/internal/fieldspec"
)

// Direction says which way a row's value improves.
type Direction int

const (
	Neutral Direction = iota
	Higher
	Lower
)

func (d Direction) String() string {
	switch d {
	case Higher:
		return "higher"
	case Lower:
		return "lower"
	}
	return "neutral"
}

// ParseDirection resolves a direction name. Empty means neutral.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "neutral", "none":
		return Neutral, nil
	case "higher", "positive", "up":
		return Higher, nil
	case "lower", "negative", "down":
		return Lower, nil
	}
	return Neutral, fmt.Errorf("unknown direction %q", s)
}

// Value is a row's raw comparison value: one number, or a tuple compared
// element by element.
type Value []float64

// Compare orders two values. A positive result means a is better than b.
type Compare func(a, b Value) int

// Limits are the best and worst values of a row across the current players.
type Limits struct {
	Best  Value
	Worst Value
}

// HighlightFunc classifies one value. cmp orders values the same way the limits
// were reduced.
type HighlightFunc func(v Value, cmp Compare, lim Limits) []string

// Highlight class names.
const (
	ClassBest   = "best"
	ClassWorst  = "worst"
	ClassBetter = "better"
	ClassWorse  = "worse"
)

// DefaultHighlight flags values equal to the best or the worst. Nothing is
// flagged when every value is the same.
func DefaultHighlight(v Value, cmp Compare, lim Limits) []string {
	if cmp(lim.Best, lim.Worst) == 0 {
		return nil
	}
	var out []string
	if cmp(v, lim.Best) == 0 {
		out = append(out, ClassBest)
	}
	if cmp(v, lim.Worst) == 0 {
		out = append(out, ClassWorst)
	}
	return out
}

// View selects which rows are shown.
type View int

const (
	ViewDefault View = iota
	ViewExtended
)

// ParseView resolves a view name.
func ParseView(s string) (View, error) {
	switch strings.ToLower(s) {
	case "", "default", "summary":
		return ViewDefault, nil
	case "extended", "detail", "all":
		return ViewExtended, nil
	}
	return ViewDefault, fmt.Errorf("unknown view %q", s)
}

// Row is a parsed display row.
type Row struct {
	Label string
	// Fields holds one field for a plain row or several for a tuple row.
	Fields       []fieldspec.Field
	Format       NumberFormat
	Direction    Direction
	Compare      Compare
	Highlight    HighlightFunc
	Display      func(v Value) string
	ShowDefault  bool
	ShowExtended bool
	NoDelta      bool
}

// Visible reports whether the row belongs to a view. The extended view shows
// every row flagged for either view.
func (r Row) Visible(v View) bool {
	if v == ViewExtended {
		return r.ShowDefault || r.ShowExtended
	}
	return r.ShowDefault
}

// Group is a labelled list of rows.
type Group struct {
	Label string
	Rows  []Row
}

// Spec is a declarative row definition. Field holds a field spec literal;
// Tuple holds several literals compared lexicographically.
type Spec struct {
	Group        string
	Label        string
	Field        any
	Tuple        []any
	Format       NumberFormat
	Direction    string
	// Compare, when set, replaces the direction's ordering.
	Compare      Compare
	Display      func(v Value) string
	Highlight    HighlightFunc
	ShowDefault  bool
	ShowExtended bool
	NoDelta      bool
}

// Builder parses row specs against a fixed set of field names.
type Builder struct {
	parser *fieldspec.Parser
}

// NewBuilder returns a builder accepting the given field names.
func NewBuilder(fields []string) *Builder {
	return &Builder{parser: fieldspec.NewParser(fields)}
}

// Parser exposes the underlying field spec parser.
func (b *Builder) Parser() *fieldspec.Parser {
	return b.parser
}

// Define registers a named alias usable by later rows.
func (b *Builder) Define(name string, raw any) error {
	return b.parser.DefineRef(name, raw)
}

// Row parses one spec.
func (b *Builder) Row(s Spec) (Row, error) {
	if s.Label == "" {
		return Row{}, fmt.Errorf("row has no label")
	}
	dir, err := ParseDirection(s.Direction)
	if err != nil {
		return Row{}, fmt.Errorf("row %q: %w", s.Label, err)
	}
	row := Row{
		Label:        s.Label,
		Format:       s.Format,
		Direction:    dir,
		Compare:      s.Compare,
		Display:      s.Display,
		Highlight:    s.Highlight,
		ShowDefault:  s.ShowDefault,
		ShowExtended: s.ShowExtended,
		NoDelta:      s.NoDelta,
	}
	switch {
	case s.Field != nil && s.Tuple != nil:
		return Row{}, fmt.Errorf("row %q: set either field or tuple", s.Label)
	case s.Field != nil:
		f, err := b.parser.Parse(s.Field)
		if err != nil {
			return Row{}, fmt.Errorf("row %q: %w", s.Label, err)
		}
		row.Fields = []fieldspec.Field{f}
	case len(s.Tuple) > 0:
		for i, raw := range s.Tuple {
			f, err := b.parser.Parse(raw)
			if err != nil {
				return Row{}, fmt.Errorf("row %q tuple[%d]: %w", s.Label, i, err)
			}
			row.Fields = append(row.Fields, f)
		}
	default:
		return Row{}, fmt.Errorf("row %q has no field", s.Label)
	}
	return row, nil
}

// Groups parses specs and groups them by their group label in order of first
// appearance.
func (b *Builder) Groups(specs []Spec) ([]Group, error) {
	var groups []Group
	index := map[string]int{}
	for _, s := range specs {
		row, err := b.Row(s)
		if err != nil {
			return nil, err
		}
		i, ok := index[s.Group]
		if !ok {
			i = len(groups)
			index[s.Group] = i
			groups = append(groups, Group{Label: s.Group})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups, nil
}
