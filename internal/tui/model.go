// Package tui provides the Bubble Tea score entry interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/dartlog/internal/model"
)

// Saver stores finished games.
type Saver interface {
	InsertGame(ctx context.Context, rec model.GameRecord) (int64, error)
}

// Options configures a scoring session.
type Options struct {
	Game    *model.GameDefinition
	Players []string
	Owner   string
	// Valid reports whether a single-digit value may be entered.
	Valid func(int) bool
	// Labels renders round labels; nil uses the definition's labels.
	Labels []string
}

// Model implements the Bubble Tea scoring UI. Players throw round by round
// in seat order.
type Model struct {
	def     *model.GameDefinition
	players []string
	owner   string
	valid   func(int) bool
	labels  []string
	saver   Saver

	width  int
	height int

	entries   []int
	startedAt time.Time
	status    string
	quitArmed bool

	saved      int
	lastScores map[string]float64
}

var (
	hitStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	playerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

const cellGap = "  "

// NewModel constructs a scoring TUI model.
func NewModel(opts Options, saver Saver) (*Model, error) {
	if opts.Game == nil || len(opts.Game.Rounds) == 0 {
		return nil, fmt.Errorf("game definition has no rounds")
	}
	if len(opts.Players) == 0 {
		return nil, fmt.Errorf("no players")
	}
	seen := map[string]struct{}{}
	for _, p := range opts.Players {
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("player %s listed twice", p)
		}
		seen[p] = struct{}{}
	}
	labels := opts.Labels
	if len(labels) == 0 {
		labels = make([]string, len(opts.Game.Rounds))
		for i, r := range opts.Game.Rounds {
			labels[i] = r.Label
			if labels[i] == "" {
				labels[i] = r.Key.String()
			}
		}
	}
	owner := opts.Owner
	if owner == "" {
		owner = opts.Players[0]
	}
	valid := opts.Valid
	if valid == nil {
		valid = func(int) bool { return true }
	}
	return &Model{
		def:     opts.Game,
		players: append([]string(nil), opts.Players...),
		owner:   owner,
		valid:   valid,
		labels:  labels,
		saver:   saver,
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyBackspace, tea.KeyDelete:
			m.undo()
			return m, nil
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				if m.handleRune(r) {
					return m, tea.Quit
				}
			}
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// handleRune applies one key and reports whether the UI should quit.
func (m *Model) handleRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		m.enter(int(r - '0'))
	case r == 's':
		m.save()
	case r == 'q':
		if len(m.entries) == 0 || m.quitArmed {
			return true
		}
		m.quitArmed = true
		m.status = "Unsaved game: press s to save or q again to discard"
	}
	return false
}

func (m *Model) totalTurns() int {
	return len(m.players) * len(m.def.Rounds)
}

// position returns the round and seat awaiting input.
func (m *Model) position() (round, seat int) {
	n := len(m.entries)
	return n / len(m.players), n % len(m.players)
}

func (m *Model) enter(v int) {
	if len(m.entries) >= m.totalTurns() {
		return
	}
	if !m.valid(v) {
		m.status = fmt.Sprintf("%d is not a valid value", v)
		return
	}
	if len(m.entries) == 0 {
		m.startedAt = time.Now()
	}
	m.entries = append(m.entries, v)
	m.status = ""
	m.quitArmed = false
	if len(m.entries) == m.totalTurns() {
		m.save()
	}
}

func (m *Model) undo() {
	if len(m.entries) == 0 {
		return
	}
	m.entries = m.entries[:len(m.entries)-1]
	m.status = ""
	m.quitArmed = false
}

// Values returns each player's entered values in round order.
func (m *Model) Values() map[string][]int {
	out := make(map[string][]int, len(m.players))
	for i, v := range m.entries {
		p := m.players[i%len(m.players)]
		out[p] = append(out[p], v)
	}
	return out
}

// Record builds the game record for the values entered so far.
func (m *Model) Record() model.GameRecord {
	rec := model.GameRecord{
		GameType:  m.def.Type,
		StartedAt: m.startedAt,
		Owner:     m.owner,
		Players:   append([]string(nil), m.players...),
		Values:    make(map[string]map[model.RoundKey]int, len(m.players)),
	}
	values := m.Values()
	for _, p := range m.players {
		rv := make(map[model.RoundKey]int, len(values[p]))
		for i, v := range values[p] {
			rv[m.def.Rounds[i].Key] = v
		}
		rec.Values[p] = rv
	}
	return rec
}

// Scores returns each player's score over the rounds entered so far.
func (m *Model) Scores() map[string]float64 {
	rec := m.Record()
	out := make(map[string]float64, len(m.players))
	for _, p := range m.players {
		res, err := m.def.ResolvePlayer(p, rec.Values[p])
		if err != nil {
			continue
		}
		out[p] = res.Score
	}
	return out
}

func (m *Model) save() {
	if len(m.entries) == 0 {
		m.status = "Nothing to save"
		return
	}
	rec := m.Record()
	scores := m.Scores()
	if m.saver != nil {
		id, err := m.saver.InsertGame(context.Background(), rec)
		if err != nil {
			logErrf("failed to save game: %v\n", err)
			m.status = "Save failed"
			return
		}
		m.status = fmt.Sprintf("Saved game #%d", id)
	}
	m.saved++
	m.lastScores = scores
	m.reset()
}

func (m *Model) reset() {
	m.entries = nil
	m.startedAt = time.Time{}
	m.quitArmed = false
}

// Saved returns how many games were stored this session.
func (m *Model) Saved() int {
	return m.saved
}

// View implements tea.Model.
func (m *Model) View() string {
	round, seat := m.position()
	values := m.Values()
	scores := m.Scores()

	nameWidth := 0
	for _, p := range m.players {
		nameWidth = max(nameWidth, runewidth.StringWidth(p))
	}
	contentWidth := 0
	if m.width > 0 {
		contentWidth = max(int(float64(m.width)*0.80), 1)
	}

	var blocks []string
	for i, p := range m.players {
		current := -1
		style := playerStyle
		if i == seat && round < len(m.def.Rounds) {
			current = round
			style = activeStyle
		}
		head := style.Render(fmt.Sprintf("%s  %s", runewidth.FillRight(p, nameWidth), formatScore(scores[p])))
		cells := buildCells(m.labels, values[p], current)
		blocks = append(blocks, head+"\n"+wrapCells(cells, contentWidth, cellGap))
	}
	content := strings.Join(blocks, "\n\n")
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	round, seat := m.position()
	var segments []string
	if round < len(m.def.Rounds) {
		segments = append(segments, fmt.Sprintf("%s · %s to throw", m.labels[round], m.players[seat]))
	}
	progress := len(m.entries) * 100 / m.totalTurns()
	segments = append(segments, fmt.Sprintf("Progress %d%%", progress))
	if len(m.lastScores) > 0 {
		last := make([]string, 0, len(m.players))
		for _, p := range m.players {
			if s, ok := m.lastScores[p]; ok {
				last = append(last, fmt.Sprintf("%s %s", p, formatScore(s)))
			}
		}
		segments = append(segments, "Last "+strings.Join(last, " · "))
	}
	if m.status != "" {
		segments = append(segments, m.status)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
