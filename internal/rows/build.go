package rows

import (
	"fmt"

	"github.com/verte-zerg/dartlog/internal/fieldspec"
)

// Column is one player's (or team's) current summary and, optionally, the
// summary before the latest game.
type Column struct {
	ID       string
	Current  fieldspec.Source
	Previous fieldspec.Source
}

// Cell is one formatted value.
type Cell struct {
	Raw          Value
	OK           bool
	Text         string
	Classes      []string
	Delta        string
	DeltaRaw     float64
	HasDelta     bool
	DeltaClasses []string
}

// TableRow is one formatted row across all columns.
type TableRow struct {
	Group string
	Label string
	Cells []Cell
}

// Renderer formats rows. Warn, when set, receives notices such as tuple
// length mismatches; formatting never fails.
type Renderer struct {
	Formats *Formats
	Warn    func(msg string)
}

// NewRenderer returns a renderer using the given formatter cache.
func NewRenderer(formats *Formats) *Renderer {
	return &Renderer{Formats: formats}
}

// Build formats every visible row of the groups for the given columns.
func (r *Renderer) Build(groups []Group, cols []Column, view View) []TableRow {
	var out []TableRow
	for _, g := range groups {
		for _, row := range g.Rows {
			if !row.Visible(view) {
				continue
			}
			out = append(out, r.row(g.Label, row, cols))
		}
	}
	return out
}

func (r *Renderer) warn(format string, args ...any) {
	if r.Warn != nil {
		r.Warn(fmt.Sprintf(format, args...))
	}
}

func (r *Renderer) row(group string, row Row, cols []Column) TableRow {
	valueFmt, deltaFmt := r.Formats.Get(row.Format)
	out := TableRow{Group: group, Label: row.Label, Cells: make([]Cell, len(cols))}
	for i, c := range cols {
		cell := Cell{}
		cell.Raw, cell.OK = extract(row, c.Current)
		if cell.OK {
			cell.Text = display(row, cell.Raw, valueFmt)
		}
		if cell.OK && !row.NoDelta && c.Previous != nil && len(cell.Raw) == 1 {
			if prev, ok := extract(row, c.Previous); ok && len(prev) == 1 {
				cell.DeltaRaw = cell.Raw[0] - prev[0]
				cell.HasDelta = true
				cell.Delta = deltaFmt.Format(cell.DeltaRaw)
				cell.DeltaClasses = r.deltaClasses(row, cell.Raw, prev)
			}
		}
		out.Cells[i] = cell
	}

	cmp := r.comparator(row)
	if cmp == nil {
		return out
	}
	lim, ok := limits(out.Cells, cmp)
	if !ok {
		return out
	}
	highlight := row.Highlight
	if highlight == nil {
		highlight = DefaultHighlight
	}
	for i := range out.Cells {
		if out.Cells[i].OK {
			out.Cells[i].Classes = highlight(out.Cells[i].Raw, cmp, lim)
		}
	}
	return out
}

func extract(row Row, src fieldspec.Source) (Value, bool) {
	if src == nil || len(row.Fields) == 0 {
		return nil, false
	}
	v := make(Value, 0, len(row.Fields))
	for _, f := range row.Fields {
		x, ok := fieldspec.Eval(f, src)
		if !ok {
			return nil, false
		}
		v = append(v, x)
	}
	return v, true
}

func display(row Row, v Value, f *Formatter) string {
	if row.Display != nil {
		return row.Display(v)
	}
	return f.Format(v[0])
}

func (r *Renderer) deltaClasses(row Row, cur, prev Value) []string {
	cmp := r.comparator(row)
	if cmp == nil {
		return nil
	}
	switch c := cmp(cur, prev); {
	case c > 0:
		return []string{ClassBetter}
	case c < 0:
		return []string{ClassWorse}
	}
	return nil
}

func (r *Renderer) comparator(row Row) Compare {
	if row.Compare != nil {
		return row.Compare
	}
	switch row.Direction {
	case Higher:
		return r.lexical
	case Lower:
		return func(a, b Value) int { return r.lexical(b, a) }
	}
	return nil
}

// lexical compares element by element. Values of different lengths are
// compared over the shared prefix and then by length.
func (r *Renderer) lexical(a, b Value) int {
	if len(a) != len(b) {
		r.warn("comparing values of different lengths %d and %d", len(a), len(b))
	}
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		switch {
		case a[i] > b[i]:
			return 1
		case a[i] < b[i]:
			return -1
		}
	}
	return len(a) - len(b)
}

func limits(cells []Cell, cmp Compare) (Limits, bool) {
	var lim Limits
	found := false
	for _, c := range cells {
		if !c.OK {
			continue
		}
		if !found {
			lim = Limits{Best: c.Raw, Worst: c.Raw}
			found = true
			continue
		}
		if cmp(c.Raw, lim.Best) > 0 {
			lim.Best = c.Raw
		}
		if cmp(c.Raw, lim.Worst) < 0 {
			lim.Worst = c.Raw
		}
	}
	return lim, found
}
