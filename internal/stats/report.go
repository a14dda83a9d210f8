// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/verte-zerg/dartlog/internal/config"
	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/rows"
	"github.com/verte-zerg/dartlog/internal/summary"
)

// GameLister loads stored games.
type GameLister interface {
	ListGames(ctx context.Context, cfg model.StatsConfig) ([]model.GameRecord, error)
}

// Game describes one game type for reporting.
type Game struct {
	Type       string
	NewFactory func(rules ...summary.Rule) (*summary.Factory, error)
	Rows       []rows.Spec
	RoundsPart string
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Games    []model.GameRecord
	Rule     summary.Rule
	View     rows.View
	Factory  *summary.Factory
	Groups   []rows.Group
	Columns  []rows.Column
	Table    []rows.TableRow
	History  map[string][]float64
	Formats  *rows.Formats
	Warnings []string
}

// BuildReport loads stored games and folds them into summaries for one rule.
// cfg.Players selects columns, not games.
func BuildReport(ctx context.Context, st GameLister, game Game, cfg model.StatsConfig, file config.FileConfig) (Report, error) {
	rule := summary.All
	if cfg.Rule != "" {
		r, err := summary.ParseRule(cfg.Rule)
		if err != nil {
			return Report{}, err
		}
		rule = r
	}
	formats, err := rows.NewFormatsForLocale(cfg.Locale)
	if err != nil {
		return Report{}, err
	}

	filter := cfg
	filter.GameType = game.Type
	filter.Players = nil
	games, err := st.ListGames(ctx, filter)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load games: %w", err)
	}

	f, err := game.NewFactory(rule)
	if err != nil {
		return Report{}, err
	}
	history := map[string][]float64{}
	for _, rec := range games {
		if err := replay(f, rec, history); err != nil {
			return Report{}, fmt.Errorf("failed to replay game %s: %w", rec.ID, err)
		}
	}

	groups, err := file.BuildRows(f.RowFactory(), game.Rows)
	if err != nil {
		return Report{}, fmt.Errorf("failed to build rows: %w", err)
	}

	report := Report{
		Games:   games,
		Rule:    rule,
		View:    rows.ViewDefault,
		Factory: f,
		Groups:  groups,
		Columns: f.Columns(rule.Name, cfg.Players),
		History: history,
		Formats: formats,
	}
	if cfg.Extended {
		report.View = rows.ViewExtended
	}
	report.Table = report.Render(report.View)
	return report, nil
}

func replay(f *summary.Factory, rec model.GameRecord, history map[string][]float64) error {
	results, err := f.Game().ResolveGame(rec)
	if err != nil {
		return err
	}
	for i := range results {
		ids, err := f.AddGame(&results[i], rec.Players, rec.Owner)
		if err != nil {
			return err
		}
		for _, id := range ids {
			key := id.String()
			history[key] = append(history[key], results[i].Score)
		}
	}
	return nil
}

// Render formats the report rows for a view, collecting renderer warnings.
func (r *Report) Render(view rows.View) []rows.TableRow {
	renderer := rows.NewRenderer(r.Formats)
	renderer.Warn = func(msg string) {
		r.Warnings = append(r.Warnings, msg)
	}
	return renderer.Build(r.Groups, r.Columns, view)
}

// ColumnLabel strips the rule name from a column ID.
func ColumnLabel(id string) string {
	if _, rest, ok := strings.Cut(id, "/"); ok {
		return rest
	}
	return id
}

// Scores returns the score history series of every column.
func (r *Report) Scores(window int) []Series {
	out := make([]Series, 0, len(r.Columns))
	for _, c := range r.Columns {
		values := r.History[c.ID]
		if len(values) == 0 {
			continue
		}
		out = append(out, Series{Name: ColumnLabel(c.ID), Values: MovingAverage(values, window)})
	}
	return out
}
