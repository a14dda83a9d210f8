package stats

import (
	"testing"

	"github.com/verte-zerg/dartlog/internal/accum"
)

func tally(label string, played int, hits float64) accum.RoundTally {
	return accum.RoundTally{Label: label, Played: played, Stats: map[string]float64{"hits": hits}}
}

func TestTopAndWeakRounds(t *testing.T) {
	tallies := []accum.RoundTally{
		tally("D1", 2, 2),
		tally("D2", 2, 5),
		tally("D3", 0, 0),
		tally("D4", 1, 1),
		tally("D5", 4, 0),
	}
	top := TopRounds(tallies, "hits", 2)
	if len(top) != 2 || top[0].Label != "D2" || top[1].Label != "D1" {
		t.Fatalf("top = %+v", top)
	}
	weak := WeakRounds(tallies, "hits", 10)
	if len(weak) != 4 || weak[0].Label != "D5" || weak[3].Label != "D2" {
		t.Fatalf("weak = %+v", weak)
	}
	if got := TopRounds(tallies, "hits", 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
