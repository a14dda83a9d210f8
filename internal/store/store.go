// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/dartlog/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a game does not exist.
var ErrNotFound = errors.New("game not found")

// Store wraps SQLite access for game history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			game_type TEXT NOT NULL,
			started_at TEXT NOT NULL,
			owner TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS game_players (
			game_id INTEGER NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			seat INTEGER NOT NULL,
			player_id TEXT NOT NULL,
			PRIMARY KEY (game_id, seat)
		);`,
		`CREATE TABLE IF NOT EXISTS game_turns (
			game_id INTEGER NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			player_id TEXT NOT NULL,
			addressing INTEGER NOT NULL,
			round_key TEXT NOT NULL,
			value INTEGER NOT NULL,
			PRIMARY KEY (game_id, player_id, round_key)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_started_at ON games(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_game_players_player ON game_players(player_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertGame stores a game with its players and round values.
func (s *Store) InsertGame(ctx context.Context, rec model.GameRecord) (int64, error) {
	if len(rec.Players) == 0 {
		return 0, fmt.Errorf("game has no players")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	startedAt := rec.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO games (game_type, started_at, owner) VALUES (?, ?, ?)`,
		rec.GameType,
		startedAt.UTC().Format(timeLayout),
		rec.Owner,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for seat, player := range rec.Players {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO game_players (game_id, seat, player_id) VALUES (?, ?, ?)`,
			id, seat, player); err != nil {
			return 0, err
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO game_turns (game_id, player_id, addressing, round_key, value)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, player := range rec.Players {
		for key, value := range rec.Values[player] {
			if _, err = stmt.ExecContext(ctx, id, player, int(key.Addressing()), key.String(), value); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteGame removes a game with its players and rounds in one transaction.
func (s *Store) DeleteGame(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrNotFound
		return err
	}
	// Explicit cleanup for connections opened without foreign keys.
	for _, table := range []string{"game_players", "game_turns"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE game_id = ?`, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetGame loads one game.
func (s *Store) GetGame(ctx context.Context, id int64) (model.GameRecord, error) {
	games, err := s.queryGames(ctx, `SELECT id, game_type, started_at, owner FROM games WHERE id = ?`, id)
	if err != nil {
		return model.GameRecord{}, err
	}
	if len(games) == 0 {
		return model.GameRecord{}, ErrNotFound
	}
	return games[0], nil
}

// ListGames returns games matching the filter in chronological order. Last
// keeps only the most recent games; Players keeps games any listed player
// took part in.
func (s *Store) ListGames(ctx context.Context, cfg model.StatsConfig) ([]model.GameRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.GameType != "" {
		clauses = append(clauses, "game_type = ?")
		args = append(args, cfg.GameType)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	if len(cfg.Players) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(cfg.Players)), ", ")
		clauses = append(clauses, "EXISTS (SELECT 1 FROM game_players gp WHERE gp.game_id = games.id AND gp.player_id IN ("+marks+"))")
		for _, p := range cfg.Players {
			args = append(args, p)
		}
	}
	order := "ASC"
	limit := ""
	if cfg.Last > 0 {
		order = "DESC"
		limit = " LIMIT ?"
		args = append(args, cfg.Last)
	}
	query := fmt.Sprintf(`SELECT id, game_type, started_at, owner
		FROM games
		WHERE %s
		ORDER BY started_at %s, id %s%s`, strings.Join(clauses, " AND "), order, order, limit)
	games, err := s.queryGames(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if cfg.Last > 0 {
		sort.SliceStable(games, func(i, j int) bool {
			return games[i].StartedAt.Before(games[j].StartedAt)
		})
	}
	return games, nil
}

func (s *Store) queryGames(ctx context.Context, query string, args ...any) ([]model.GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var games []model.GameRecord
	var ids []int64
	for rows.Next() {
		var id int64
		var startedAt string
		var rec model.GameRecord
		if err := rows.Scan(&id, &rec.GameType, &startedAt, &rec.Owner); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, err
		}
		rec.ID = strconv.FormatInt(id, 10)
		rec.StartedAt = parsed
		rec.Values = map[string]map[model.RoundKey]int{}
		games = append(games, rec)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.loadDetails(ctx, ids, games); err != nil {
		return nil, err
	}
	return games, nil
}

func (s *Store) loadDetails(ctx context.Context, ids []int64, games []model.GameRecord) error {
	if len(ids) == 0 {
		return nil
	}
	index := make(map[int64]int, len(ids))
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		index[id] = i
		placeholders[i] = "?"
		args[i] = id
	}
	in := strings.Join(placeholders, ",")

	players, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT game_id, player_id
		FROM game_players
		WHERE game_id IN (%s)
		ORDER BY game_id, seat`, in), args...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := players.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for players.Next() {
		var id int64
		var player string
		if err := players.Scan(&id, &player); err != nil {
			return err
		}
		g := &games[index[id]]
		g.Players = append(g.Players, player)
		g.Values[player] = map[model.RoundKey]int{}
	}
	if err := players.Err(); err != nil {
		return err
	}

	turns, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT game_id, player_id, addressing, round_key, value
		FROM game_turns
		WHERE game_id IN (%s)`, in), args...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := turns.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for turns.Next() {
		var id int64
		var player, rawKey string
		var addressing, value int
		if err := turns.Scan(&id, &player, &addressing, &rawKey, &value); err != nil {
			return err
		}
		key, err := model.ParseRoundKey(model.Addressing(addressing), rawKey)
		if err != nil {
			return fmt.Errorf("game %d: %w", id, err)
		}
		g := &games[index[id]]
		if g.Values[player] == nil {
			g.Values[player] = map[model.RoundKey]int{}
		}
		g.Values[player][key] = value
	}
	return turns.Err()
}

// PlayerSummary is a player's game count and most recent game.
type PlayerSummary struct {
	ID         string
	Games      int
	LastPlayed time.Time
}

// ListPlayers returns every player with at least one stored game, most
// recently active first.
func (s *Store) ListPlayers(ctx context.Context, gameType string) ([]PlayerSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT gp.player_id, COUNT(*) AS games, MAX(g.started_at) AS last_played
		FROM game_players gp
		JOIN games g ON g.id = gp.game_id
		WHERE (? = '' OR g.game_type = ?)
		GROUP BY gp.player_id
		ORDER BY last_played DESC, gp.player_id ASC`, gameType, gameType)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []PlayerSummary
	for rows.Next() {
		var p PlayerSummary
		var last string
		if err := rows.Scan(&p.ID, &p.Games, &last); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, last)
		if err != nil {
			return nil, err
		}
		p.LastPlayed = parsed
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
