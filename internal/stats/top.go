package stats

import (
	"sort"

	"github.com/verte-zerg/dartlog/internal/accum"
)

// TopRounds returns up to n played rounds with the highest rate of stat.
// Ties keep round order.
func TopRounds(tallies []accum.RoundTally, stat string, n int) []accum.RoundTally {
	return rankRounds(tallies, stat, n, func(a, b float64) bool { return a > b })
}

func rankRounds(tallies []accum.RoundTally, stat string, n int, before func(a, b float64) bool) []accum.RoundTally {
	if n <= 0 {
		return nil
	}
	played := make([]accum.RoundTally, 0, len(tallies))
	for _, t := range tallies {
		if t.Played > 0 {
			played = append(played, t)
		}
	}
	sort.SliceStable(played, func(i, j int) bool {
		ri, _ := played[i].Rate(stat)
		rj, _ := played[j].Rate(stat)
		return before(ri, rj)
	})
	if n > len(played) {
		n = len(played)
	}
	return played[:n]
}
