package twentyseven

import (
	"github.com/verte-zerg/dartlog/internal/rows"
)

// FavouriteLabel renders the favourite tuple (rate, -round index).
func FavouriteLabel(v rows.Value) string {
	if len(v) < 2 {
		return ""
	}
	return RoundLabel(int(-v[1]))
}

// DefaultRows returns the built-in summary rows.
func DefaultRows() []rows.Spec {
	return []rows.Spec{
		{Group: "Score", Label: "Games", Field: "numGames", Format: rows.Decimal(0), ShowDefault: true, NoDelta: true},
		{Group: "Score", Label: "Best", Field: "score.best", Format: rows.Decimal(0), Direction: "higher", ShowDefault: true},
		{Group: "Score", Label: "Mean", Field: "score.mean", Format: rows.Decimal(1), Direction: "higher", ShowDefault: true},
		{Group: "Score", Label: "Worst", Field: "score.worst", Format: rows.Decimal(0), Direction: "higher", ShowExtended: true},
		{Group: "Score", Label: "Wins", Field: "wins.count", Format: rows.Decimal(0), Direction: "higher", ShowDefault: true},
		{Group: "Score", Label: "Win rate", Field: "wins.rate", Format: rows.Percent(0), Direction: "higher", ShowExtended: true},
		{Group: "Score", Label: "Completed", Field: "complete.rate", Format: rows.Percent(0), ShowExtended: true},

		{Group: "Hits", Label: "Hit rate", Field: []any{"hits.total", "/", []any{"hits.played", "*", MaxHits}}, Format: rows.Percent(1), Direction: "higher", ShowDefault: true},
		{Group: "Hits", Label: "Hits per round", Field: "hits.rate", Format: rows.Decimal(2), Direction: "higher", ShowExtended: true},
		{Group: "Hits", Label: "Cliffs", Field: "cliffs.total", Format: rows.Decimal(0), Direction: "higher", ShowDefault: true},
		{Group: "Hits", Label: "Cliff rate", Field: "cliffs.rate", Format: rows.Percent(1), Direction: "higher", ShowExtended: true},
		{Group: "Hits", Label: "Cliffs per game", Field: []any{"cliffs.total", "/", "numGames"}, Format: rows.Decimal(2), Direction: "higher", ShowExtended: true},
		{Group: "Hits", Label: "Double doubles", Field: "doubleDoubles.total", Format: rows.Decimal(0), Direction: "higher", ShowDefault: true},
		{Group: "Hits", Label: "Double double rate", Field: "doubleDoubles.rate", Format: rows.Percent(1), Direction: "higher", ShowExtended: true},
		{Group: "Hits", Label: "Miss rate", Field: "misses.rate", Format: rows.Percent(1), Direction: "lower", ShowDefault: true},
		{Group: "Hits", Label: "Hans", Field: "hans.total", Format: rows.Decimal(0), Direction: "higher", ShowExtended: true},

		{Group: "Streaks", Label: "All positive", Field: "allPositive.count", Format: rows.Decimal(0), Direction: "higher", ShowDefault: true},
		{Group: "Streaks", Label: "Furthest positive", Field: "allPositive.furthest", Format: rows.Decimal(0), Direction: "higher", ShowExtended: true},
		{Group: "Streaks", Label: "Fat nick", Field: "fatNick.count", Format: rows.Decimal(0), Direction: "higher", ShowDefault: true},
		{Group: "Streaks", Label: "Furthest fat nick", Field: "fatNick.furthest", Format: rows.Decimal(0), Direction: "higher", ShowExtended: true},

		{
			Group:       "Rounds",
			Label:       "Favourite",
			Tuple:       []any{"rounds.favourite.rate", []any{"neg", "rounds.favourite"}},
			Direction:   "higher",
			Display:     FavouriteLabel,
			ShowDefault: true,
			NoDelta:     true,
		},
		{Group: "Rounds", Label: "Favourite hits per round", Field: "rounds.favourite.rate", Format: rows.Decimal(2), Direction: "higher", ShowExtended: true},
	}
}
