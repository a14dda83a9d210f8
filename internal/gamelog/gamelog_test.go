package gamelog

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/dartlog/internal/model"
)

const sample = `# practice night
@ 2024-05-01T18:30:00Z owner=bob
alice: 1 0 2 3
bob: 2 - 1

carol: 3 3
`

func valid(v int) bool { return v >= 0 && v <= 3 }

func TestParse(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	games, err := Parse(strings.NewReader(sample), Options{GameType: "twenty-seven", Start: start, Valid: valid})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	first := games[0]
	if first.Owner != "bob" || !reflect.DeepEqual(first.Players, []string{"alice", "bob"}) {
		t.Fatalf("first game = %+v", first)
	}
	if !first.StartedAt.Equal(time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("started at %v", first.StartedAt)
	}
	bob := first.Values["bob"]
	if len(bob) != 2 || bob[model.Indexed(0)] != 2 || bob[model.Indexed(2)] != 1 {
		t.Fatalf("bob values = %v", bob)
	}
	if _, ok := bob[model.Indexed(1)]; ok {
		t.Fatalf("untaken round stored")
	}
	second := games[1]
	if second.Owner != "carol" || second.GameType != "twenty-seven" {
		t.Fatalf("second game = %+v", second)
	}
	if !second.StartedAt.Equal(time.Date(2024, 5, 1, 18, 31, 0, 0, time.UTC)) {
		t.Fatalf("second game should follow the first, got %v", second.StartedAt)
	}
}

func TestParseKeyed(t *testing.T) {
	games, err := Parse(strings.NewReader("alice: bull=2 20=1 19=-\n"), Options{Addressing: model.AddressKeyed})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[model.RoundKey]int{model.Keyed("bull"): 2, model.Keyed("20"): 1}
	if !reflect.DeepEqual(games[0].Values["alice"], want) {
		t.Fatalf("values = %v", games[0].Values["alice"])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		line  int
	}{
		{"alice 1 2 3\n", 1},
		{"alice: 1 x\n", 1},
		{"alice: 1\nalice: 2\n", 2},
		{"alice: 1 4\n", 1},
		{"@ yesterday\nalice: 1\n", 1},
		{"alice: 1\n@ 2024-01-01\n", 2},
		{"@ 2024-01-01\n\n", 2},
	}
	for _, tt := range tests {
		_, err := Parse(strings.NewReader(tt.input), Options{Valid: valid})
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("%q: expected ParseError, got %v", tt.input, err)
		}
		if perr.Line != tt.line {
			t.Fatalf("%q: error on line %d, want %d", tt.input, perr.Line, tt.line)
		}
	}
	if _, err := Parse(strings.NewReader("# nothing\n\n"), Options{}); err == nil {
		t.Fatalf("expected empty log error")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	games, err := Parse(strings.NewReader(sample), Options{Valid: valid})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, games); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "bob: 2 - 1\n") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	again, err := Parse(&buf, Options{Valid: valid})
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(games, again) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", games, again)
	}
}
