// Package gamelog reads and writes games in a plain-text log format.
//
// A log holds games separated by blank lines. Each game has one line per
// player in seat order:
//
//	# comments start with a hash
//	@ 2024-05-01T18:30:00Z owner=alice
//	alice: 1 0 2 3 1
//	bob: 2 2 - 1
//
// The optional "@" header sets the start time and owner. Values are listed in
// round order; "-" marks an untaken round. Keyed games write key=value pairs
// instead. Without an owner the first player owns the game.
package gamelog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/dartlog/internal/model"
)

// ValueFunc reports whether a round value is legal.
type ValueFunc func(int) bool

// Options controls parsing.
type Options struct {
	GameType   string
	Addressing model.Addressing
	// Start is used for games without a header; each following game is one
	// minute later so their order survives storage.
	Start time.Time
	Valid ValueFunc
}

// ParseError reports a problem on a specific line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Load reads a game log from the provided file path.
func Load(path string, opts Options) ([]model.GameRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only game log.
			_ = cerr
		}
	}()
	return Parse(file, opts)
}

// Parse reads every game from r.
func Parse(r io.Reader, opts Options) ([]model.GameRecord, error) {
	p := parser{opts: opts, next: opts.Start}
	if p.next.IsZero() {
		p.next = time.Now()
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		if err := p.handle(strings.TrimSpace(scanner.Text())); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	if len(p.games) == 0 {
		return nil, fmt.Errorf("game log is empty")
	}
	return p.games, nil
}

type parser struct {
	opts    Options
	line    int
	next    time.Time
	current *model.GameRecord
	games   []model.GameRecord
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) handle(line string) error {
	switch {
	case strings.HasPrefix(line, "#"):
		return nil
	case line == "":
		return p.flush()
	case strings.HasPrefix(line, "@"):
		if p.current != nil {
			return p.errorf("header inside a game; add a blank line before it")
		}
		return p.header(strings.TrimSpace(line[1:]))
	}
	return p.player(line)
}

func (p *parser) start() *model.GameRecord {
	if p.current == nil {
		p.current = &model.GameRecord{
			GameType:  p.opts.GameType,
			StartedAt: p.next,
			Values:    map[string]map[model.RoundKey]int{},
		}
		p.next = p.next.Add(time.Minute)
	}
	return p.current
}

func (p *parser) header(text string) error {
	rec := p.start()
	for _, field := range strings.Fields(text) {
		if owner, ok := strings.CutPrefix(field, "owner="); ok {
			rec.Owner = owner
			continue
		}
		at, err := parseTime(field)
		if err != nil {
			return p.errorf("invalid header field %q", field)
		}
		rec.StartedAt = at
		p.next = at.Add(time.Minute)
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

func (p *parser) player(line string) error {
	name, rest, ok := strings.Cut(line, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return p.errorf("expected \"player: values\"")
	}
	rec := p.start()
	if _, dup := rec.Values[name]; dup {
		return p.errorf("player %s listed twice", name)
	}
	values := map[model.RoundKey]int{}
	for i, tok := range strings.Fields(rest) {
		key := model.Indexed(i)
		raw := tok
		if p.opts.Addressing == model.AddressKeyed {
			k, v, ok := strings.Cut(tok, "=")
			if !ok || k == "" {
				return p.errorf("expected key=value, got %q", tok)
			}
			key, raw = model.Keyed(k), v
		}
		if raw == "-" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return p.errorf("invalid value %q for %s", raw, name)
		}
		if p.opts.Valid != nil && !p.opts.Valid(v) {
			return p.errorf("value %d out of range for %s", v, name)
		}
		if _, dup := values[key]; dup {
			return p.errorf("round %s given twice for %s", key, name)
		}
		values[key] = v
	}
	rec.Players = append(rec.Players, name)
	rec.Values[name] = values
	return nil
}

func (p *parser) flush() error {
	if p.current == nil {
		return nil
	}
	rec := *p.current
	p.current = nil
	if len(rec.Players) == 0 {
		return p.errorf("game header without players")
	}
	if rec.Owner == "" {
		rec.Owner = rec.Players[0]
	}
	p.games = append(p.games, rec)
	return nil
}

// Write prints games in log format. Indexed rounds missing before the last
// taken round print as "-".
func Write(w io.Writer, games []model.GameRecord) error {
	for i, g := range games {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "@ %s owner=%s\n", g.StartedAt.UTC().Format(time.RFC3339), g.Owner); err != nil {
			return err
		}
		for _, player := range g.Players {
			if _, err := fmt.Fprintf(w, "%s: %s\n", player, formatValues(g.Values[player])); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatValues(values map[model.RoundKey]int) string {
	var keyed []string
	last := -1
	for k := range values {
		if i, ok := k.Index(); ok {
			last = max(last, i)
			continue
		}
		keyed = append(keyed, k.String())
	}
	parts := make([]string, 0, last+1+len(keyed))
	for i := 0; i <= last; i++ {
		if v, ok := values[model.Indexed(i)]; ok {
			parts = append(parts, strconv.Itoa(v))
		} else {
			parts = append(parts, "-")
		}
	}
	sort.Strings(keyed)
	for _, k := range keyed {
		parts = append(parts, k+"="+strconv.Itoa(values[model.Keyed(k)]))
	}
	return strings.Join(parts, " ")
}
