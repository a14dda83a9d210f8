package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/verte-zerg/dartlog/internal/accum"
	"github.com/verte-zerg/dartlog/internal/rows"
	"github.com/verte-zerg/dartlog/internal/summary"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}

// TableStyles colours highlighted cells.
type TableStyles struct {
	Header lipgloss.Style
	Group  lipgloss.Style
	Best   lipgloss.Style
	Worst  lipgloss.Style
	Better lipgloss.Style
	Worse  lipgloss.Style
}

// NewTableStyles returns styles bound to w. Without colour every style
// renders plain text.
func NewTableStyles(w io.Writer, useColor bool) TableStyles {
	r := lipgloss.NewRenderer(w)
	if useColor {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return TableStyles{
		Header: r.NewStyle().Bold(true),
		Group:  r.NewStyle().Foreground(lipgloss.Color("245")),
		Best:   r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Worst:  r.NewStyle().Foreground(lipgloss.Color("203")),
		Better: r.NewStyle().Foreground(lipgloss.Color("42")),
		Worse:  r.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

func (s TableStyles) classes(classes []string) (lipgloss.Style, bool) {
	for _, c := range classes {
		switch c {
		case rows.ClassBest:
			return s.Best, true
		case rows.ClassWorst:
			return s.Worst, true
		case rows.ClassBetter:
			return s.Better, true
		case rows.ClassWorse:
			return s.Worse, true
		}
	}
	return lipgloss.Style{}, false
}

// SummaryLines lays out formatted rows as a table: one label column, then a
// value and a delta column per summary column. Group headings become their
// own lines.
func SummaryLines(table []rows.TableRow, cols []rows.Column, styles TableStyles) []string {
	headers := []string{""}
	align := map[int]bool{}
	for i, c := range cols {
		headers = append(headers, ColumnLabel(c.ID), "")
		align[1+2*i] = true
	}
	var body [][]string
	var cells [][]rows.Cell
	group := ""
	for _, r := range table {
		if r.Group != group {
			group = r.Group
			body = append(body, []string{group})
			cells = append(cells, nil)
		}
		line := []string{"  " + r.Label}
		for _, c := range r.Cells {
			delta := ""
			if c.HasDelta {
				delta = "(" + c.Delta + ")"
			}
			line = append(line, c.Text, delta)
		}
		body = append(body, line)
		cells = append(cells, r.Cells)
	}
	paint := func(row, col int, cell string) string {
		if row < 0 {
			return styles.Header.Render(cell)
		}
		if cells[row] == nil {
			return styles.Group.Render(cell)
		}
		if col == 0 {
			return cell
		}
		c := cells[row][(col-1)/2]
		classes := c.Classes
		if col%2 == 0 {
			classes = c.DeltaClasses
		}
		if style, ok := styles.classes(classes); ok {
			return style.Render(cell)
		}
		return cell
	}
	return formatTable(headers, body, align, paint)
}

// RenderSummary prints the report table.
func RenderSummary(w io.Writer, report Report, useColor bool) error {
	if len(report.Columns) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Summary (%s, %d games)\n", report.Rule.Name, len(report.Games)); err != nil {
		return err
	}
	for _, line := range SummaryLines(report.Table, report.Columns, NewTableStyles(w, useColor)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RoundLines lays out the per-round breakdown of one summary.
func RoundLines(acc *accum.Accumulator, part string, formats *rows.Formats) ([]string, bool) {
	p, ok := acc.Part(part)
	if !ok {
		return nil, false
	}
	rs, ok := p.(*accum.RoundStats)
	if !ok {
		return nil, false
	}
	stats := rs.StatNames()
	headers := append([]string{"Round", "Played"}, stats...)
	align := map[int]bool{}
	for i := 1; i < len(headers); i++ {
		align[i] = true
	}
	count, _ := formats.Get(rows.Decimal(0))
	rate, _ := formats.Get(rows.NumberFormat{Style: rows.StyleDecimal, MinFractionDigits: 2, MaxFractionDigits: 2})
	var body [][]string
	for _, t := range rs.Rounds() {
		line := []string{t.Label, count.Format(float64(t.Played))}
		for _, s := range stats {
			v, ok := t.Rate(s)
			if !ok {
				line = append(line, "")
				continue
			}
			line = append(line, rate.Format(v))
		}
		body = append(body, line)
	}
	return formatTable(headers, body, align, nil), true
}

// RenderRounds prints the per-round breakdown of every column.
func RenderRounds(w io.Writer, report Report, part string) error {
	if part == "" {
		return nil
	}
	for _, id := range report.Factory.Identities(report.Rule.Name) {
		if !hasColumn(report.Columns, id) {
			continue
		}
		acc, _ := report.Factory.Get(id)
		lines, ok := RoundLines(acc, part, report.Formats)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "Rounds: %s\n", ColumnLabel(id.String())); err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

func hasColumn(cols []rows.Column, id summary.Identity) bool {
	key := id.String()
	for _, c := range cols {
		if c.ID == key {
			return true
		}
	}
	return false
}

// RenderHistory plots score history for every column.
func RenderHistory(w io.Writer, report Report, window int, opts PlotOptions) error {
	return PlotSeries(w, "Score history", report.Scores(window), opts)
}

// RenderPractice lists each column's strongest and weakest rounds by the
// first stat of the rounds part.
func RenderPractice(w io.Writer, report Report, part string, n int) error {
	if part == "" || n <= 0 {
		return nil
	}
	for _, id := range report.Factory.Identities(report.Rule.Name) {
		if !hasColumn(report.Columns, id) {
			continue
		}
		acc, _ := report.Factory.Get(id)
		p, ok := acc.Part(part)
		if !ok {
			continue
		}
		rs, ok := p.(*accum.RoundStats)
		if !ok || len(rs.StatNames()) == 0 {
			continue
		}
		stat := rs.StatNames()[0]
		tallies := rs.Rounds()
		best := roundLabels(TopRounds(tallies, stat, n))
		weak := roundLabels(WeakRounds(tallies, stat, n))
		if len(best) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: best %s  practise %s\n", ColumnLabel(id.String()), strings.Join(best, " "), strings.Join(weak, " ")); err != nil {
			return err
		}
	}
	return nil
}

func roundLabels(tallies []accum.RoundTally) []string {
	out := make([]string, len(tallies))
	for i, t := range tallies {
		out[i] = t.Label
	}
	return out
}
