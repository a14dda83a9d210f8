package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/dartlog/internal/rows"
)

const sample = `
[play]
players = ["alice", "bob"]
owner = "alice"

[stats]
rule = "solo"
last = 10

[display]
locale = "de"
default-rows = false

[server]
addr = ":8080"
rate-limit = 5.5

[refs]
perGame = ["hitRate", "/", "numGames"]
hitRate = ["hits.total", "/", ["hits.played", "*", 3]]

[[rows]]
label = "Hit rate"
field = "hitRate"
direction = "higher"
show-extended = false
[rows.format]
style = "percent"
max-fraction-digits = 1

[[rows]]
group = "Ratios"
label = "Cliffs vs misses"
field = { type = "div", numerator = "cliffs.total", divisor = "misses.total" }
no-delta = true
`

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.Display.Locale != nil || len(cfg.Rows) != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg.Play.Owner != "alice" || len(cfg.Play.Players) != 2 {
		t.Fatalf("play = %+v", cfg.Play)
	}
	if *cfg.Stats.Rule != "solo" || *cfg.Stats.Last != 10 || cfg.Stats.Window != nil {
		t.Fatalf("stats = %+v", cfg.Stats)
	}
	if *cfg.Display.Locale != "de" || cfg.UseDefaultRows() {
		t.Fatalf("display = %+v", cfg.Display)
	}
	if *cfg.Server.RateLimit != 5.5 {
		t.Fatalf("server = %+v", cfg.Server)
	}
}

func TestRowSpecs(t *testing.T) {
	cfg, err := ParseConfig(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	specs, err := cfg.RowSpecs()
	if err != nil {
		t.Fatalf("row specs: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("specs = %d, want 2", len(specs))
	}
	first := specs[0]
	if first.Group != "Custom" || !first.ShowDefault || first.ShowExtended {
		t.Fatalf("first spec = %+v", first)
	}
	want := rows.NumberFormat{Style: rows.StylePercent, MaxFractionDigits: 1, SignDisplay: rows.SignAuto}
	if first.Format != want {
		t.Fatalf("format = %+v, want %+v", first.Format, want)
	}
	if !specs[1].NoDelta || specs[1].Format != rows.Decimal(0) {
		t.Fatalf("second spec = %+v", specs[1])
	}
}

func TestBuildRows(t *testing.T) {
	cfg, err := ParseConfig(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b := rows.NewBuilder([]string{"numGames", "hits.total", "hits.played", "cliffs.total", "misses.total"})
	defaults := []rows.Spec{{Group: "Score", Label: "Games", Field: "numGames", ShowDefault: true}}
	groups, err := cfg.BuildRows(b, defaults)
	if err != nil {
		t.Fatalf("build rows: %v", err)
	}
	if len(groups) != 2 || groups[0].Label != "Custom" || groups[1].Label != "Ratios" {
		t.Fatalf("groups = %+v", groups)
	}
	if !b.Parser().HasRef("perGame") {
		t.Fatalf("ref defined after its dependency was not registered")
	}
}

func TestBuildRowsErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"unknown field", "[[rows]]\nlabel = \"x\"\nfield = \"nope\"\n"},
		{"ref cycle", "[refs]\na = \"b\"\nb = \"a\"\n"},
		{"bad style", "[[rows]]\nlabel = \"x\"\nfield = \"numGames\"\n[rows.format]\nstyle = \"scientific\"\n"},
		{"bad sign", "[[rows]]\nlabel = \"x\"\nfield = \"numGames\"\n[rows.format]\nsign = \"sometimes\"\n"},
	}
	for _, tt := range tests {
		cfg, err := ParseConfig(tt.toml)
		if err != nil {
			t.Fatalf("%s: parse: %v", tt.name, err)
		}
		if _, err := cfg.BuildRows(rows.NewBuilder([]string{"numGames"}), nil); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}
