package stats

import (
	"github.com/verte-zerg/dartlog/internal/accum"
)

// WeakRounds returns up to n played rounds with the lowest rate of stat, the
// doubles most worth practising.
func WeakRounds(tallies []accum.RoundTally, stat string, n int) []accum.RoundTally {
	return rankRounds(tallies, stat, n, func(a, b float64) bool { return a < b })
}
