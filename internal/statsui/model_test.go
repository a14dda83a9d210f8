package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/dartlog/internal/config"
	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/stats"
	"github.com/verte-zerg/dartlog/internal/twentyseven"
)

type fakeLister struct {
	games []model.GameRecord
	last  model.StatsConfig
}

func (f *fakeLister) ListGames(_ context.Context, cfg model.StatsConfig) ([]model.GameRecord, error) {
	f.last = cfg
	if cfg.Last > 0 && cfg.Last < len(f.games) {
		return f.games[len(f.games)-cfg.Last:], nil
	}
	return f.games, nil
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func newTestModel(t *testing.T) (*Model, *fakeLister) {
	t.Helper()
	start := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	lister := &fakeLister{games: []model.GameRecord{
		{
			ID: "1", GameType: twentyseven.Type, StartedAt: start, Owner: "alice",
			Players: []string{"alice"},
			Values:  map[string]map[model.RoundKey]int{"alice": model.IndexedValues(repeat(1, twentyseven.NumRounds)...)},
		},
		{
			ID: "2", GameType: twentyseven.Type, StartedAt: start.Add(time.Minute), Owner: "alice",
			Players: []string{"alice", "bob"},
			Values: map[string]map[model.RoundKey]int{
				"alice": model.IndexedValues(repeat(2, twentyseven.NumRounds)...),
				"bob":   model.IndexedValues(repeat(3, twentyseven.NumRounds)...),
			},
		},
	}}
	game := stats.Game{
		Type:       twentyseven.Type,
		NewFactory: twentyseven.NewFactory,
		Rows:       twentyseven.DefaultRows(),
		RoundsPart: "rounds",
	}
	m := NewModel(lister, game, model.StatsConfig{}, config.FileConfig{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, lister
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelBuildsReport(t *testing.T) {
	m, lister := newTestModel(t)
	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	if lister.last.GameType != twentyseven.Type {
		t.Fatalf("lister called with %+v", lister.last)
	}
	if got := len(m.Report().Games); got != 2 {
		t.Fatalf("expected 2 games, got %d", got)
	}
	view := m.View()
	for _, want := range []string{"Summary", "Extended", "Rounds", "Scores", "rule=all", "window=1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestRoundsTab(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(key("l"))
	m.Update(key("l"))
	if m.activeTab != tabRounds {
		t.Fatalf("active tab = %d", m.activeTab)
	}
	if got := len(m.roundTable.Rows()); got != twentyseven.NumRounds {
		t.Fatalf("expected %d round rows, got %d", twentyseven.NumRounds, got)
	}
	if got := len(m.roundTable.Columns()); got != 3 {
		t.Fatalf("expected round + 2 player columns, got %d", got)
	}
	first := m.RoundStat()
	m.Update(key("s"))
	if m.RoundStat() == first || m.RoundStat() == "" {
		t.Fatalf("stat did not cycle from %q", first)
	}
	if row := m.roundTable.Rows()[0]; row[0] != "D1" {
		t.Fatalf("first row = %v", row)
	}
}

func TestWindowKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(key("="))
	if m.cfg.Window != 5 {
		t.Fatalf("window = %d, want 5", m.cfg.Window)
	}
	m.Update(key("="))
	m.Update(key("-"))
	if m.cfg.Window != 5 {
		t.Fatalf("window = %d, want 5", m.cfg.Window)
	}
	m.Update(key("-"))
	if m.cfg.Window != 1 {
		t.Fatalf("window = %d, want 1", m.cfg.Window)
	}
}

func TestApplyFilter(t *testing.T) {
	m, lister := newTestModel(t)
	m.Update(key("/"))
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[inputRule].SetValue("solo")
	m.filterInputs[inputLast].SetValue("1")
	m.filterInputs[inputPlayers].SetValue(" bob , ")
	m.filterInputs[inputWindow].SetValue("3")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("filter mode still active: %s", m.filterError)
	}
	if lister.last.Last != 1 || lister.last.Rule != "solo" {
		t.Fatalf("lister config = %+v", lister.last)
	}
	if len(m.cfg.Players) != 1 || m.cfg.Players[0] != "bob" || m.cfg.Window != 3 {
		t.Fatalf("config = %+v", m.cfg)
	}
	if m.Report().Rule.Name != "solo" {
		t.Fatalf("rule = %s", m.Report().Rule.Name)
	}
}

func TestApplyFilterErrors(t *testing.T) {
	tests := []struct {
		name  string
		input int
		value string
	}{
		{name: "rule", input: inputRule, value: "pairs"},
		{name: "since", input: inputSince, value: "yesterday"},
		{name: "last", input: inputLast, value: "-2"},
		{name: "window", input: inputWindow, value: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m.Update(key("/"))
			m.filterInputs[tt.input].SetValue(tt.value)
			m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			if !m.filterMode || m.filterError == "" {
				t.Fatalf("expected filter error for %q", tt.value)
			}
		})
	}
}

func TestFitLines(t *testing.T) {
	got := fitLines("a\nb\nc", 3, 2)
	if got != "a  \nb  " {
		t.Fatalf("fitLines = %q", got)
	}
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncateLine = %q", got)
	}
}
