package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/rows"
	"github.com/verte-zerg/dartlog/internal/stats"
	"github.com/verte-zerg/dartlog/internal/store"
	"github.com/verte-zerg/dartlog/internal/summary"
)

type playerJSON struct {
	ID         string    `json:"id"`
	Games      int       `json:"games"`
	LastPlayed time.Time `json:"last_played"`
}

type roundJSON struct {
	Round string `json:"round"`
	Value int    `json:"value"`
}

type resultJSON struct {
	Player   string      `json:"player"`
	Score    float64     `json:"score"`
	Position int         `json:"position"`
	Complete bool        `json:"complete"`
	Rounds   []roundJSON `json:"rounds"`
}

type gameJSON struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	StartedAt time.Time    `json:"started_at"`
	Owner     string       `json:"owner"`
	Players   []string     `json:"players"`
	Results   []resultJSON `json:"results"`
}

type cellJSON struct {
	Text         string    `json:"text"`
	Raw          []float64 `json:"raw,omitempty"`
	Classes      []string  `json:"classes,omitempty"`
	Delta        string    `json:"delta,omitempty"`
	DeltaClasses []string  `json:"delta_classes,omitempty"`
}

type rowJSON struct {
	Group string     `json:"group"`
	Label string     `json:"label"`
	Cells []cellJSON `json:"cells"`
}

type columnJSON struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type summaryJSON struct {
	Rule     string       `json:"rule"`
	View     string       `json:"view"`
	Games    int          `json:"games"`
	Columns  []columnJSON `json:"columns"`
	Rows     []rowJSON    `json:"rows"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	err := s.writeJSON(w, http.StatusOK, envelope{
		"status": "available",
		"system_info": map[string]string{
			"game":    s.game.Type,
			"version": version,
		},
	}, nil)
	if err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.store.ListPlayers(r.Context(), s.game.Type)
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	out := make([]playerJSON, len(players))
	for i, p := range players {
		out[i] = playerJSON{ID: p.ID, Games: p.Games, LastPlayed: p.LastPlayed}
	}
	if err := s.writeJSON(w, http.StatusOK, envelope{"players": out}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator{}
	cfg := model.StatsConfig{
		GameType: s.game.Type,
		Last:     readInt(qs, "last", 0, v),
		Since:    readDate(qs, "since", v),
		Players:  readCSV(qs, "players", nil),
	}
	if !v.valid() {
		s.failedValidationResponse(w, r, v)
		return
	}
	games, err := s.store.ListGames(r.Context(), cfg)
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	out := make([]gameJSON, 0, len(games))
	for _, g := range games {
		js, err := s.gameJSON(g)
		if err != nil {
			s.serverErrorResponse(w, r, err)
			return
		}
		out = append(out, js)
	}
	if err := s.writeJSON(w, http.StatusOK, envelope{"games": out}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		s.notFoundResponse(w, r)
		return
	}
	g, err := s.store.GetGame(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			s.notFoundResponse(w, r)
		default:
			s.serverErrorResponse(w, r, err)
		}
		return
	}
	js, err := s.gameJSON(g)
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	if err := s.writeJSON(w, http.StatusOK, envelope{"game": js}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator{}
	cfg := model.StatsConfig{
		Rule:    readString(qs, "rule", summary.All.Name),
		Last:    readInt(qs, "last", 0, v),
		Since:   readDate(qs, "since", v),
		Players: readCSV(qs, "players", nil),
		Locale:  readString(qs, "locale", s.config.Locale),
	}
	view, err := rows.ParseView(readString(qs, "view", "default"))
	if err != nil {
		v.add("view", err.Error())
	}
	cfg.Extended = view == rows.ViewExtended
	if _, err := summary.ParseRule(cfg.Rule); err != nil {
		v.add("rule", err.Error())
	}
	if _, err := rows.NewFormatsForLocale(cfg.Locale); err != nil {
		v.add("locale", err.Error())
	}
	if !v.valid() {
		s.failedValidationResponse(w, r, v)
		return
	}

	report, err := stats.BuildReport(r.Context(), s.store, s.game, cfg, s.file)
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	if err := s.writeJSON(w, http.StatusOK, envelope{"summary": summaryOf(report)}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) gameJSON(g model.GameRecord) (gameJSON, error) {
	results, err := s.def.ResolveGame(g)
	if err != nil {
		return gameJSON{}, fmt.Errorf("failed to resolve game %s: %w", g.ID, err)
	}
	out := gameJSON{
		ID:        g.ID,
		Type:      g.GameType,
		StartedAt: g.StartedAt,
		Owner:     g.Owner,
		Players:   g.Participants(),
		Results:   make([]resultJSON, 0, len(results)),
	}
	for _, res := range results {
		rj := resultJSON{
			Player:   res.PlayerID,
			Score:    res.Score,
			Position: res.Position,
			Complete: res.Complete,
		}
		values := g.Values[res.PlayerID]
		for _, rd := range s.def.Rounds {
			value, ok := values[rd.Key]
			if !ok {
				continue
			}
			label := rd.Label
			if label == "" {
				label = rd.Key.String()
			}
			rj.Rounds = append(rj.Rounds, roundJSON{Round: label, Value: value})
		}
		out.Results = append(out.Results, rj)
	}
	return out, nil
}

func summaryOf(report stats.Report) summaryJSON {
	out := summaryJSON{
		Rule:     report.Rule.Name,
		View:     "default",
		Games:    len(report.Games),
		Columns:  make([]columnJSON, len(report.Columns)),
		Rows:     make([]rowJSON, len(report.Table)),
		Warnings: report.Warnings,
	}
	if report.View == rows.ViewExtended {
		out.View = "extended"
	}
	for i, c := range report.Columns {
		out.Columns[i] = columnJSON{ID: c.ID, Label: stats.ColumnLabel(c.ID)}
	}
	for i, tr := range report.Table {
		row := rowJSON{Group: tr.Group, Label: tr.Label, Cells: make([]cellJSON, len(tr.Cells))}
		for j, c := range tr.Cells {
			cell := cellJSON{Text: c.Text, Classes: c.Classes}
			if c.OK && finite(c.Raw) {
				cell.Raw = c.Raw
			}
			if c.HasDelta {
				cell.Delta = c.Delta
				cell.DeltaClasses = c.DeltaClasses
			}
			row.Cells[j] = cell
		}
		out.Rows[i] = row
	}
	return out
}

// finite reports whether every raw value can be encoded as JSON.
func finite(v rows.Value) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
