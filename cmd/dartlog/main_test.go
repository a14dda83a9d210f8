package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/dartlog/internal/config"
)

func TestDefaultConfigTemplateParses(t *testing.T) {
	tmpl := defaultConfigTemplate()
	cfg, err := config.ParseConfig(tmpl)
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if len(cfg.Rows) != 0 || cfg.Stats.Rule != nil {
		t.Fatalf("template should be fully commented out: %+v", cfg)
	}
	var uncommented []string
	for _, line := range strings.Split(tmpl, "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		uncommented = append(uncommented, strings.Fields(line)[0])
	}
	want := []string{"[play]", "[stats]", "[display]", "[server]"}
	if strings.Join(uncommented, " ") != strings.Join(want, " ") {
		t.Fatalf("sections = %v, want %v", uncommented, want)
	}

	// Uncommenting the examples must give a valid config.
	var b strings.Builder
	for _, line := range strings.Split(tmpl, "\n") {
		if rest, ok := strings.CutPrefix(line, "# "); ok && (strings.Contains(rest, " = ") || strings.HasPrefix(rest, "[")) {
			line = rest
		}
		b.WriteString(line + "\n")
	}
	full, err := config.ParseConfig(b.String())
	if err != nil {
		t.Fatalf("uncommented template does not parse: %v\n%s", err, b.String())
	}
	if full.Stats.Rule == nil || *full.Stats.Rule != defaultRule || len(full.Rows) != 1 {
		t.Fatalf("uncommented config = %+v", full)
	}
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var rule string
	var last int
	var players []string
	cmd.Flags().StringVar(&rule, "rule", "all", "")
	cmd.Flags().IntVar(&last, "last", 0, "")
	cmd.Flags().StringSliceVar(&players, "players", nil, "")
	if err := cmd.Flags().Parse([]string{"--last", "3"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	fileRule := "solo"
	fileLast := 10
	applyStringConfig(cmd, "rule", &rule, &fileRule)
	applyIntConfig(cmd, "last", &last, &fileLast)
	applyStringSliceConfig(cmd, "players", &players, []string{"alice", "bob"})
	if rule != "solo" {
		t.Fatalf("rule = %q, want config value", rule)
	}
	if last != 3 {
		t.Fatalf("last = %d, want flag value", last)
	}
	if len(players) != 2 {
		t.Fatalf("players = %v", players)
	}
	applyStringConfig(cmd, "rule", &rule, nil)
	if rule != "solo" {
		t.Fatalf("nil config value changed rule to %q", rule)
	}
}

func TestParseTime(t *testing.T) {
	if _, err := parseTime("2024-05-01T18:00:00Z"); err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if got, err := parseTime("2024-05-01"); err != nil || got.Day() != 1 {
		t.Fatalf("date: %v %v", got, err)
	}
	if _, err := parseTime("soon"); err == nil {
		t.Fatalf("expected error")
	}
}
