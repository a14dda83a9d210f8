package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/twentyseven"
)

type fakeSaver struct {
	games []model.GameRecord
	err   error
}

func (f *fakeSaver) InsertGame(_ context.Context, rec model.GameRecord) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.games = append(f.games, rec)
	return int64(len(f.games)), nil
}

func newTestModel(t *testing.T, saver Saver, players ...string) *Model {
	t.Helper()
	m, err := NewModel(Options{Game: twentyseven.Definition(), Players: players, Valid: twentyseven.ValidHits}, saver)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func keys(m *Model, s string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func TestEntryOrderAndUndo(t *testing.T) {
	m := newTestModel(t, nil, "alice", "bob")
	keys(m, "1203")
	values := m.Values()
	if len(values["alice"]) != 2 || values["alice"][1] != 0 || values["bob"][1] != 3 {
		t.Fatalf("values = %v", values)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.Values()["bob"]; len(got) != 1 {
		t.Fatalf("undo left bob with %v", got)
	}
	keys(m, "7")
	if len(m.entries) != 3 || m.status == "" {
		t.Fatalf("invalid value accepted: %v", m.entries)
	}
	scores := m.Scores()
	if scores["alice"] != 27+2-4 || scores["bob"] != 27+4 {
		t.Fatalf("scores = %v", scores)
	}
}

func TestSaveOnCompletion(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, saver, "alice")
	for i := 0; i < twentyseven.NumRounds; i++ {
		keys(m, "1")
	}
	if len(saver.games) != 1 || m.Saved() != 1 {
		t.Fatalf("expected one saved game, got %d", len(saver.games))
	}
	rec := saver.games[0]
	if rec.GameType != twentyseven.Type || rec.Owner != "alice" || len(rec.Values["alice"]) != twentyseven.NumRounds {
		t.Fatalf("saved record = %+v", rec)
	}
	if len(m.entries) != 0 || m.lastScores["alice"] != 447 {
		t.Fatalf("model not reset after save: entries=%v last=%v", m.entries, m.lastScores)
	}
}

func TestSaveEarlyAndQuit(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, saver, "alice", "bob")
	keys(m, "12")
	if cmd := keys(m, "q"); cmd != nil {
		t.Fatalf("quit with unsaved game")
	}
	keys(m, "s")
	if len(saver.games) != 1 || len(saver.games[0].Values["bob"]) != 1 {
		t.Fatalf("early save = %+v", saver.games)
	}
	if cmd := keys(m, "q"); cmd == nil {
		t.Fatalf("expected quit after save")
	}
}

func TestSaveFailureKeepsEntries(t *testing.T) {
	m := newTestModel(t, &fakeSaver{err: errors.New("disk full")}, "alice")
	keys(m, "3s")
	if len(m.entries) != 1 || m.status != "Save failed" {
		t.Fatalf("entries=%v status=%q", m.entries, m.status)
	}
}

func TestNewModelRejectsBadOptions(t *testing.T) {
	if _, err := NewModel(Options{Game: twentyseven.Definition()}, nil); err == nil {
		t.Fatalf("expected error without players")
	}
	if _, err := NewModel(Options{Game: twentyseven.Definition(), Players: []string{"a", "a"}}, nil); err == nil {
		t.Fatalf("expected duplicate player error")
	}
}
