package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Series is a named sequence of values, oldest first.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions sizes a plot. Zero width fits the terminal; zero height uses
// the default.
type PlotOptions struct {
	Width  int
	Height int
	Color  bool
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	axisWidth         = 7
	axisSeparator     = " ┤"
	fallbackTermWidth = 80
)

var seriesColors = []lipgloss.Color{"6", "5", "3", "2", "4", "1"}

// PlotSeries draws every series on one braille canvas. All series share the
// vertical scale, so scores of different players can be compared directly.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	lo, hi := valueRange(series)
	c := newCanvas(width, height)
	for i, s := range series {
		points := resample(s.Values, width*2)
		prevX, prevY := -1, -1
		for x, v := range points {
			y := c.dotRow(v, lo, hi)
			if prevX < 0 {
				c.set(i, x, y)
			} else {
				line(prevX, prevY, x, y, func(px, py int) { c.set(i, px, py) })
			}
			prevX, prevY = x, y
		}
	}

	r := lipgloss.NewRenderer(w)
	if shouldUseColor(w, opts.Color) {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	styles := make([]lipgloss.Style, len(series))
	for i := range series {
		styles[i] = r.NewStyle().Foreground(seriesColors[i%len(seriesColors)])
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	labels := axisLabels(lo, hi, height)
	for y := 0; y < height; y++ {
		b.WriteString(runewidth.FillLeft(labels[y], axisWidth))
		b.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			ch := string(rune(0x2800 + int(c.mask[y][x])))
			if owner := c.owner[y][x]; owner >= 0 {
				ch = styles[owner].Render(ch)
			}
			b.WriteString(ch)
		}
		b.WriteByte('\n')
	}
	legend := make([]string, len(series))
	for i, s := range series {
		last := s.Values[len(s.Values)-1]
		legend[i] = styles[i].Render(fmt.Sprintf("■ %s (%s)", s.Name, formatAxis(last, hi-lo)))
	}
	b.WriteString(strings.Repeat(" ", axisWidth+runewidth.StringWidth(axisSeparator)))
	b.WriteString(strings.Join(legend, "  "))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisWidth-runewidth.StringWidth(axisSeparator), minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func valueRange(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

func axisLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	labels[0] = formatAxis(hi, hi-lo)
	if height > 2 {
		labels[height/2] = formatAxis((lo+hi)/2, hi-lo)
	}
	if height > 1 {
		labels[height-1] = formatAxis(lo, hi-lo)
	}
	return labels
}

func formatAxis(v, span float64) string {
	if span >= 10 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// resample stretches or shrinks values to n points. Shrinking averages
// buckets; stretching interpolates linearly.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	case len(values) >= n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	default:
		step := float64(len(values)-1) / float64(n-1)
		for i := range out {
			pos := float64(i) * step
			j := min(int(pos), len(values)-2)
			frac := pos - float64(j)
			out[i] = values[j] + (values[j+1]-values[j])*frac
		}
	}
	return out
}

// canvas is a grid of braille cells, 2x4 dots each. owner keeps the first
// series drawn into a cell for colouring.
type canvas struct {
	width, height int
	mask          [][]uint8
	owner         [][]int
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height, mask: make([][]uint8, height), owner: make([][]int, height)}
	for y := range c.mask {
		c.mask[y] = make([]uint8, width)
		c.owner[y] = make([]int, width)
		for x := range c.owner[y] {
			c.owner[y][x] = -1
		}
	}
	return c
}

func (c *canvas) dotRow(v, lo, hi float64) int {
	dots := c.height * 4
	row := int(math.Round((hi - v) / (hi - lo) * float64(dots-1)))
	return min(max(row, 0), dots-1)
}

// braille dot bits indexed by [dy][dx].
var brailleBits = [4][2]uint8{{0x01, 0x08}, {0x02, 0x10}, {0x04, 0x20}, {0x40, 0x80}}

func (c *canvas) set(series, x, y int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cx >= c.width || cy >= c.height {
		return
	}
	c.mask[cy][cx] |= brailleBits[y%4][x%2]
	if c.owner[cy][cx] < 0 {
		c.owner[cy][cx] = series
	}
}

func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
