package tui

import (
	"strings"
	"testing"
)

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t, nil, "alice", "bob")
	m.enter(1)
	m.lastScores = map[string]float64{"alice": 93, "bob": 49}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"D1 · bob to throw", "Progress 2%", "Last alice 93 · bob 49"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
