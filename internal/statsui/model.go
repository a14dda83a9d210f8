// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/dartlog/internal/accum"
	"github.com/verte-zerg/dartlog/internal/config"
	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/rows"
	"github.com/verte-zerg/dartlog/internal/stats"
	"github.com/verte-zerg/dartlog/internal/summary"
)

const (
	tabSummary = iota
	tabExtended
	tabRounds
	tabScores
)

const (
	plotHeight  = 10
	weakRounds  = 3
	dateLayout  = "2006-01-02"
	defaultRule = "all"
)

// Filter input order.
const (
	inputRule = iota
	inputSince
	inputLast
	inputPlayers
	inputWindow
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	lister stats.GameLister
	game   stats.Game
	file   config.FileConfig
	cfg    model.StatsConfig

	report stats.Report
	errMsg string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	roundTable  table.Model
	roundLayout tableLayout
	roundStat   int
	statNames   []string

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs a stats UI model. file supplies custom rows and refs.
func NewModel(lister stats.GameLister, game stats.Game, cfg model.StatsConfig, file config.FileConfig) *Model {
	if cfg.Window < 1 {
		cfg.Window = 1
	}
	m := &Model{
		lister: lister,
		game:   game,
		file:   file,
		cfg:    cfg,
		tabs:   []string{"Summary", "Extended", "Rounds", "Scores"},
	}
	m.initInputs()
	m.roundTable = newRoundTable()
	m.initViewports()
	m.refreshReport()
	return m
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.Window = nextWindow(m.cfg.Window)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.Window = prevWindow(m.cfg.Window)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "s":
			if m.activeTab == tabRounds && len(m.statNames) > 0 {
				m.roundStat = (m.roundStat + 1) % len(m.statNames)
				m.applyRoundTable(true)
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabRounds {
				m.roundTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabRounds {
				m.roundTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabRounds {
				var cmd tea.Cmd
				m.roundTable, cmd = m.roundTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Report returns the report currently displayed.
func (m *Model) Report() stats.Report {
	return m.report
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Rule (all/solo/team/with:a,b/only:a,b): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Players (comma separated): "),
		newFilterInput("Window: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[inputRule].SetValue(strings.TrimSpace(m.cfg.Rule))
	if m.cfg.Since != nil {
		m.filterInputs[inputSince].SetValue(m.cfg.Since.Format(dateLayout))
	} else {
		m.filterInputs[inputSince].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[inputLast].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[inputLast].SetValue("")
	}
	m.filterInputs[inputPlayers].SetValue(strings.Join(m.cfg.Players, ","))
	m.filterInputs[inputWindow].SetValue(strconv.Itoa(m.cfg.Window))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setRoundTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabRounds {
		m.roundTable.Focus()
	} else {
		m.roundTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	rule := m.cfg.Rule
	if rule == "" {
		rule = defaultRule
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	players := "all"
	if len(m.cfg.Players) > 0 {
		players = strings.Join(m.cfg.Players, ",")
	}
	line := fmt.Sprintf("Settings: rule=%s  since=%s  last=%s  players=%s  window=%d", rule, since, last, players, m.cfg.Window)
	line = truncateLine(line, m.width)
	return headerStyle.Render(line)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabRounds {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Stat: s  Settings: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabRounds {
		switch {
		case len(m.report.Games) == 0:
			return fitLines("No games found.", m.width, height)
		case len(m.roundTable.Rows()) == 0:
			return fitLines("No round stats found.", m.width, height)
		default:
			view := tableMutedStyle.Render(m.roundTable.View())
			return fitLines(view, m.width, height)
		}
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.lister, m.game, m.cfg, m.file)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	if len(report.Warnings) > 0 {
		m.errMsg = report.Warnings[0]
	}
	m.report = report
	m.applyRoundTable(true)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.report.Factory == nil {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabSummary].SetContent(renderSummary(m.report, m.report.Table, m.cfg.Window, width))
	m.viewports[tabExtended].SetContent(renderSummary(m.report, m.report.Render(rows.ViewExtended), m.cfg.Window, width))
	m.viewports[tabScores].SetContent(renderScores(m.report, m.game.RoundsPart, m.cfg.Window, width))
}

func renderSummary(report stats.Report, tbl []rows.TableRow, window, width int) string {
	if len(report.Columns) == 0 {
		return "No games found."
	}
	cards := renderSummaryCards(report, window, width)
	lines := stats.SummaryLines(tbl, report.Columns, stats.NewTableStyles(&bytes.Buffer{}, true))
	return strings.TrimRight(cards+"\n\n"+strings.Join(lines, "\n"), "\n")
}

func renderSummaryCards(report stats.Report, window, width int) string {
	bestName, best := "", 0.0
	for _, c := range report.Columns {
		for _, v := range report.History[c.ID] {
			if bestName == "" || v > best {
				bestName, best = stats.ColumnLabel(c.ID), v
			}
		}
	}
	bestText := "-"
	if bestName != "" {
		f, _ := report.Formats.Get(rows.Decimal(0))
		bestText = fmt.Sprintf("%s (%s)", f.Format(best), bestName)
	}
	cards := []string{
		metricCard("Games", strconv.Itoa(len(report.Games))),
		metricCard("Rule", report.Rule.Name),
		metricCard("Best score", bestText),
		metricCard("Window", strconv.Itoa(window)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderScores(report stats.Report, part string, window, width int) string {
	series := report.Scores(window)
	if len(series) == 0 {
		return "No games found."
	}
	var buf bytes.Buffer
	opts := stats.PlotOptions{Width: stats.PlotWidthFor(width), Height: plotHeight, Color: true}
	if err := stats.PlotSeries(&buf, fmt.Sprintf("Score history (window %d)", window), series, opts); err != nil {
		return fmt.Sprintf("Failed to render scores: %v", err)
	}
	for _, col := range roundColumns(report, part) {
		weak := stats.WeakRounds(col.tallies, col.stat, weakRounds)
		if len(weak) == 0 {
			continue
		}
		labels := make([]string, len(weak))
		for i, t := range weak {
			labels[i] = t.Label
		}
		fmt.Fprintf(&buf, "%s  %s\n", headerStyle.Render("Practise "+col.name+":"), strings.Join(labels, " "))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// roundColumn is the per-round breakdown of one displayed column.
type roundColumn struct {
	name    string
	stat    string
	stats   []string
	tallies []accum.RoundTally
}

func roundColumns(report stats.Report, part string) []roundColumn {
	if part == "" || report.Factory == nil {
		return nil
	}
	byID := map[string]roundColumn{}
	for _, id := range report.Factory.Identities(report.Rule.Name) {
		acc, ok := report.Factory.Get(id)
		if !ok {
			continue
		}
		p, ok := acc.Part(part)
		if !ok {
			continue
		}
		rs, ok := p.(*accum.RoundStats)
		if !ok {
			continue
		}
		names := rs.StatNames()
		col := roundColumn{name: stats.ColumnLabel(id.String()), stats: names, tallies: rs.Rounds()}
		if len(names) > 0 {
			col.stat = names[0]
		}
		byID[id.String()] = col
	}
	out := make([]roundColumn, 0, len(report.Columns))
	for _, c := range report.Columns {
		if col, ok := byID[c.ID]; ok {
			out = append(out, col)
		}
	}
	return out
}

func newRoundTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{{Title: "Round", Width: 6}}),
		table.WithHeight(1),
	)
	t.SetStyles(roundTableStyles())
	return t
}

// buildRoundTableData lays out one row per round and one rate column per
// player for the selected stat.
func buildRoundTableData(cols []roundColumn, stat string, formats *rows.Formats) ([]table.Column, []table.Row) {
	columns := []table.Column{{Title: "Round", Width: 6}}
	for _, c := range cols {
		columns = append(columns, table.Column{Title: c.name, Width: max(8, lipgloss.Width(c.name))})
	}
	if len(cols) == 0 {
		return columns, nil
	}
	rate, _ := formats.Get(rows.NumberFormat{Style: rows.StyleDecimal, MinFractionDigits: 2, MaxFractionDigits: 2})
	out := make([]table.Row, 0, len(cols[0].tallies))
	for i, t := range cols[0].tallies {
		row := table.Row{t.Label}
		for _, c := range cols {
			cell := ""
			if i < len(c.tallies) {
				if v, ok := c.tallies[i].Rate(stat); ok {
					cell = rate.Format(v)
				}
			}
			row = append(row, cell)
		}
		out = append(out, row)
	}
	return columns, out
}

func (m *Model) applyRoundTable(force bool) {
	cols := roundColumns(m.report, m.game.RoundsPart)
	m.statNames = nil
	if len(cols) > 0 {
		m.statNames = cols[0].stats
	}
	if m.roundStat >= len(m.statNames) {
		m.roundStat = 0
	}
	stat := ""
	if len(m.statNames) > 0 {
		stat = m.statNames[m.roundStat]
	}
	columns, data := buildRoundTableData(cols, stat, m.report.Formats)
	if !force && m.roundLayout.rowCount == len(data) && m.roundLayout.colCount == len(columns) {
		return
	}
	// Rows must never be wider than the columns while swapping both.
	m.roundTable.SetRows(nil)
	m.roundTable.SetColumns(columns)
	m.roundTable.SetRows(data)
	m.roundLayout.rowCount = len(data)
	m.roundLayout.colCount = len(columns)
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.roundLayout.width = 0
	m.setRoundTableSize(width, bodyHeight)
}

// RoundStat returns the stat shown in the rounds table.
func (m *Model) RoundStat() string {
	if len(m.statNames) == 0 {
		return ""
	}
	return m.statNames[m.roundStat]
}

func (m *Model) setRoundTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.roundLayout.width == width && m.roundLayout.height == viewportHeight {
		return
	}
	m.roundLayout.width = width
	m.roundLayout.height = viewportHeight
	m.roundTable.SetWidth(width)
	m.roundTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustRoundTableHeight(height)
	if m.roundLayout.height != viewportHeight {
		m.roundLayout.height = viewportHeight
		m.roundTable.SetHeight(viewportHeight)
	}
}

func roundTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// adjustRoundTableHeight corrects the table height so the rendered view,
// header included, fills exactly the body.
func (m *Model) adjustRoundTableHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.roundTable.Height()
	viewHeight := lipgloss.Height(m.roundTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.roundTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.roundTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	rule := strings.TrimSpace(m.filterInputs[inputRule].Value())
	if _, err := summary.ParseRule(rule); err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}

	sinceInput := strings.TrimSpace(m.filterInputs[inputSince].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation(dateLayout, sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[inputLast].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	players := parsePlayers(m.filterInputs[inputPlayers].Value())

	windowInput := strings.TrimSpace(m.filterInputs[inputWindow].Value())
	window := 1
	if windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil {
			return fmt.Errorf("invalid window (use integer)")
		}
		if parsed < 1 {
			return fmt.Errorf("invalid window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg.Rule = rule
	m.cfg.Since = since
	m.cfg.Last = last
	m.cfg.Players = players
	m.cfg.Window = window
	return nil
}

func parsePlayers(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
