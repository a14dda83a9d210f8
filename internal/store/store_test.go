package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/dartlog/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "dartlog.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return st
}

func game(at time.Time, owner string, values map[string][]int, players ...string) model.GameRecord {
	rec := model.GameRecord{
		GameType:  "twenty-seven",
		StartedAt: at,
		Owner:     owner,
		Players:   players,
		Values:    map[string]map[model.RoundKey]int{},
	}
	for p, v := range values {
		rec.Values[p] = model.IndexedValues(v...)
	}
	return rec
}

func TestInsertAndGetGame(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := game(at, "bob", map[string][]int{"bob": {1, 0, 2}, "alice": {3}}, "bob", "alice")

	id, err := st.InsertGame(ctx, rec)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := st.GetGame(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got.Players, []string{"bob", "alice"}) {
		t.Fatalf("players = %v, want seat order", got.Players)
	}
	if !got.StartedAt.Equal(at) || got.Owner != "bob" || got.GameType != "twenty-seven" {
		t.Fatalf("unexpected game %+v", got)
	}
	if !reflect.DeepEqual(got.Values, rec.Values) {
		t.Fatalf("values = %v, want %v", got.Values, rec.Values)
	}
}

func TestKeyedRoundsSurvive(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	rec := model.GameRecord{
		GameType:  "keyed",
		StartedAt: time.Now(),
		Owner:     "alice",
		Players:   []string{"alice"},
		Values:    map[string]map[model.RoundKey]int{"alice": {model.Keyed("bull"): 2, model.Keyed("20"): 1}},
	}
	id, err := st.InsertGame(ctx, rec)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := st.GetGame(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Values["alice"][model.Keyed("20")] != 1 || got.Values["alice"][model.Keyed("bull")] != 2 {
		t.Fatalf("keyed values = %v", got.Values)
	}
	if _, ok := got.Values["alice"][model.Indexed(20)]; ok {
		t.Fatalf("keyed round decoded as indexed")
	}
}

func TestListGamesFilters(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	games := []model.GameRecord{
		game(base, "alice", map[string][]int{"alice": {1}}, "alice"),
		game(base.Add(time.Hour), "alice", map[string][]int{"alice": {2}, "bob": {0}}, "alice", "bob"),
		game(base.Add(2*time.Hour), "bob", map[string][]int{"bob": {3}}, "bob"),
		game(base.Add(3*time.Hour), "alice", map[string][]int{"alice": {1, 1}}, "alice"),
	}
	for _, g := range games {
		if _, err := st.InsertGame(ctx, g); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := st.ListGames(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || !all[0].StartedAt.Equal(base) {
		t.Fatalf("all games = %d, first at %v", len(all), all[0].StartedAt)
	}

	last, err := st.ListGames(ctx, model.StatsConfig{Last: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || !last[0].StartedAt.Equal(base.Add(2*time.Hour)) || !last[1].StartedAt.Equal(base.Add(3*time.Hour)) {
		t.Fatalf("last 2 = %+v", last)
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListGames(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("since = %d games, want 2", len(recent))
	}

	withBob, err := st.ListGames(ctx, model.StatsConfig{Players: []string{"bob"}})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(withBob) != 2 || len(withBob[0].Players) != 2 || withBob[1].Players[0] != "bob" {
		t.Fatalf("games with bob = %+v", withBob)
	}
	either, err := st.ListGames(ctx, model.StatsConfig{Players: []string{"alice", "bob"}})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(either) != 4 {
		t.Fatalf("games with alice or bob = %d, want 4", len(either))
	}
	nobody, err := st.ListGames(ctx, model.StatsConfig{Players: []string{"carol"}})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(nobody) != 0 {
		t.Fatalf("games with carol = %+v", nobody)
	}

	other, err := st.ListGames(ctx, model.StatsConfig{GameType: "cricket"})
	if err != nil {
		t.Fatalf("list type: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("unexpected cricket games %v", other)
	}
}

func TestListPlayersAndDelete(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first, err := st.InsertGame(ctx, game(base, "alice", map[string][]int{"alice": {1}, "bob": {1}}, "alice", "bob"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.InsertGame(ctx, game(base.Add(time.Hour), "alice", map[string][]int{"alice": {2}}, "alice")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	players, err := st.ListPlayers(ctx, "")
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 || players[0].ID != "alice" || players[0].Games != 2 || players[1].Games != 1 {
		t.Fatalf("players = %+v", players)
	}

	if err := st.DeleteGame(ctx, first); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, table := range []string{"game_players", "game_turns"} {
		var n int
		if err := st.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE game_id = ?`, first).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Fatalf("%s keeps %d rows of the deleted game", table, n)
		}
	}
	if err := st.DeleteGame(ctx, first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
	if _, err := st.GetGame(ctx, first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted err = %v", err)
	}
	players, err = st.ListPlayers(ctx, "")
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 1 || players[0].ID != "alice" {
		t.Fatalf("players after delete = %+v", players)
	}
}

func TestInsertRejectsEmptyGame(t *testing.T) {
	st := openTemp(t)
	if _, err := st.InsertGame(context.Background(), model.GameRecord{GameType: "twenty-seven"}); err == nil {
		t.Fatalf("expected error for game without players")
	}
}
