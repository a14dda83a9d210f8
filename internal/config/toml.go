// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/dartlog/internal/rows"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play    PlayConfig     `toml:"play"`
	Stats   StatsConfig    `toml:"stats"`
	Display DisplayConfig  `toml:"display"`
	Server  ServerConfig   `toml:"server"`
	Refs    map[string]any `toml:"refs"`
	Rows    []RowConfig    `toml:"rows"`
}

// PlayConfig maps settings for recording games.
type PlayConfig struct {
	Players []string `toml:"players"`
	Owner   *string  `toml:"owner"`
}

// StatsConfig maps stats filters and defaults.
type StatsConfig struct {
	Rule   *string `toml:"rule"`
	Last   *int    `toml:"last"`
	Since  *string `toml:"since"`
	Window *int    `toml:"window"`
}

// DisplayConfig maps presentation settings.
type DisplayConfig struct {
	Locale      *string `toml:"locale"`
	Color       *bool   `toml:"color"`
	Extended    *bool   `toml:"extended"`
	DefaultRows *bool   `toml:"default-rows"`
}

// ServerConfig maps HTTP API settings.
type ServerConfig struct {
	Addr      *string  `toml:"addr"`
	RateLimit *float64 `toml:"rate-limit"`
	Burst     *int     `toml:"burst"`
}

// RowConfig is a user-defined summary row.
type RowConfig struct {
	Group        string        `toml:"group"`
	Label        string        `toml:"label"`
	Field        any           `toml:"field"`
	Tuple        []any         `toml:"tuple"`
	Format       *FormatConfig `toml:"format"`
	Direction    string        `toml:"direction"`
	ShowDefault  *bool         `toml:"show-default"`
	ShowExtended *bool         `toml:"show-extended"`
	NoDelta      bool          `toml:"no-delta"`
}

// FormatConfig maps number format options.
type FormatConfig struct {
	Style             string `toml:"style"`
	MinFractionDigits *int   `toml:"min-fraction-digits"`
	MaxFractionDigits *int   `toml:"max-fraction-digits"`
	Sign              string `toml:"sign"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML text.
func ParseConfig(data string) (FileConfig, error) {
	var cfg FileConfig
	if _, err := toml.Decode(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// UseDefaultRows reports whether the built-in rows are shown before custom ones.
func (c FileConfig) UseDefaultRows() bool {
	return c.Display.DefaultRows == nil || *c.Display.DefaultRows
}

// Format converts the format table into row number options. Sign defaults to
// auto and fraction digits default to zero.
func (f *FormatConfig) Format() (rows.NumberFormat, error) {
	if f == nil {
		return rows.Decimal(0), nil
	}
	style, err := rows.ParseStyle(f.Style)
	if err != nil {
		return rows.NumberFormat{}, err
	}
	sign, err := rows.ParseSignDisplay(f.Sign)
	if err != nil {
		return rows.NumberFormat{}, err
	}
	out := rows.NumberFormat{Style: style, SignDisplay: sign}
	if f.MinFractionDigits != nil {
		out.MinFractionDigits = *f.MinFractionDigits
	}
	if f.MaxFractionDigits != nil {
		out.MaxFractionDigits = *f.MaxFractionDigits
	}
	if out.MinFractionDigits < 0 || out.MaxFractionDigits < 0 {
		return rows.NumberFormat{}, fmt.Errorf("fraction digits must be >= 0")
	}
	if out.MaxFractionDigits < out.MinFractionDigits {
		out.MaxFractionDigits = out.MinFractionDigits
	}
	return out, nil
}

// RowSpecs converts the configured rows. Rows show in both views unless
// show-default or show-extended say otherwise.
func (c FileConfig) RowSpecs() ([]rows.Spec, error) {
	specs := make([]rows.Spec, 0, len(c.Rows))
	for i, r := range c.Rows {
		format, err := r.Format.Format()
		if err != nil {
			return nil, fmt.Errorf("rows[%d] %q: %w", i, r.Label, err)
		}
		group := r.Group
		if group == "" {
			group = "Custom"
		}
		spec := rows.Spec{
			Group:        group,
			Label:        r.Label,
			Field:        r.Field,
			Tuple:        r.Tuple,
			Format:       format,
			Direction:    r.Direction,
			ShowDefault:  r.ShowDefault == nil || *r.ShowDefault,
			ShowExtended: r.ShowExtended == nil || *r.ShowExtended,
			NoDelta:      r.NoDelta,
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// DefineRefs registers the [refs] table on a row builder. Refs may use each
// other in any order; a cycle or an unknown name is reported.
func (c FileConfig) DefineRefs(b *rows.Builder) error {
	pending := make([]string, 0, len(c.Refs))
	for name := range c.Refs {
		pending = append(pending, name)
	}
	sort.Strings(pending)
	for len(pending) > 0 {
		var failed []string
		var lastErr error
		for _, name := range pending {
			if err := b.Define(name, c.Refs[name]); err != nil {
				failed = append(failed, name)
				lastErr = err
			}
		}
		if len(failed) == len(pending) {
			return lastErr
		}
		pending = failed
	}
	return nil
}

// BuildRows builds the row groups for a builder: refs first, then the given
// defaults (when enabled) followed by the configured rows.
func (c FileConfig) BuildRows(b *rows.Builder, defaults []rows.Spec) ([]rows.Group, error) {
	if err := c.DefineRefs(b); err != nil {
		return nil, err
	}
	custom, err := c.RowSpecs()
	if err != nil {
		return nil, err
	}
	var specs []rows.Spec
	if c.UseDefaultRows() {
		specs = append(specs, defaults...)
	}
	specs = append(specs, custom...)
	return b.Groups(specs)
}
