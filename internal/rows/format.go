package rows

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Style selects decimal or percent output.
type Style string

const (
	StyleDecimal Style = "decimal"
	StylePercent Style = "percent"
)

// SignDisplay controls when a sign is printed.
type SignDisplay string

const (
	SignAuto       SignDisplay = "auto"
	SignAlways     SignDisplay = "always"
	SignExceptZero SignDisplay = "exceptZero"
	SignNever      SignDisplay = "never"
)

// NumberFormat describes how a value is printed.
type NumberFormat struct {
	Style             Style
	MinFractionDigits int
	MaxFractionDigits int
	SignDisplay       SignDisplay
}

// Decimal returns a decimal format with up to maxFrac fraction digits.
func Decimal(maxFrac int) NumberFormat {
	return NumberFormat{Style: StyleDecimal, MaxFractionDigits: maxFrac}
}

// Percent returns a percent format with up to maxFrac fraction digits.
func Percent(maxFrac int) NumberFormat {
	return NumberFormat{Style: StylePercent, MaxFractionDigits: maxFrac}
}

// ParseStyle resolves a style name. Empty means decimal.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(s) {
	case "", "decimal":
		return StyleDecimal, nil
	case "percent", "%":
		return StylePercent, nil
	}
	return "", fmt.Errorf("unknown number style %q", s)
}

// ParseSignDisplay resolves a sign display name. Empty means auto.
func ParseSignDisplay(s string) (SignDisplay, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "", "auto":
		return SignAuto, nil
	case "always":
		return SignAlways, nil
	case "exceptzero":
		return SignExceptZero, nil
	case "never":
		return SignNever, nil
	}
	return "", fmt.Errorf("unknown sign display %q", s)
}

func (f NumberFormat) normalized() NumberFormat {
	if f.Style == "" {
		f.Style = StyleDecimal
	}
	if f.SignDisplay == "" {
		f.SignDisplay = SignAuto
	}
	if f.MinFractionDigits < 0 {
		f.MinFractionDigits = 0
	}
	if f.MaxFractionDigits < f.MinFractionDigits {
		f.MaxFractionDigits = f.MinFractionDigits
	}
	return f
}

// key is the canonical cache key of a format.
func (f NumberFormat) key() string {
	f = f.normalized()
	return fmt.Sprintf("%s/%d/%d/%s", f.Style, f.MinFractionDigits, f.MaxFractionDigits, f.SignDisplay)
}

// Formatter prints numbers for one locale and format.
type Formatter struct {
	opts    NumberFormat
	mu      sync.Mutex
	printer *message.Printer
	// plain prints with ASCII digits to decide whether the rounded value is zero.
	plain *message.Printer
}

func newFormatter(tag language.Tag, opts NumberFormat) *Formatter {
	return &Formatter{
		opts:    opts.normalized(),
		printer: message.NewPrinter(tag),
		plain:   message.NewPrinter(language.English),
	}
}

// Options returns the formatter's effective options.
func (f *Formatter) Options() NumberFormat {
	return f.opts
}

// Format prints v. Non-finite values print as an empty string.
func (f *Formatter) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	digits := []number.Option{
		number.MinFractionDigits(f.opts.MinFractionDigits),
		number.MaxFractionDigits(f.opts.MaxFractionDigits),
	}
	formatted := func(x float64) any {
		if f.opts.Style == StylePercent {
			return number.Percent(x, digits...)
		}
		return number.Decimal(x, digits...)
	}

	abs := math.Abs(v)
	f.mu.Lock()
	text := f.printer.Sprint(formatted(abs))
	plain := f.plain.Sprint(formatted(abs))
	f.mu.Unlock()
	// The sign follows the printed digits: a value that rounds to zero is
	// never signed.
	zero := !strings.ContainsAny(plain, "123456789")
	neg := v < 0 && !zero

	switch f.opts.SignDisplay {
	case SignNever:
		return text
	case SignAlways:
		if neg {
			return "-" + text
		}
		return "+" + text
	case SignExceptZero:
		if zero {
			return text
		}
		if neg {
			return "-" + text
		}
		return "+" + text
	}
	if neg {
		return "-" + text
	}
	return text
}

type formatterPair struct {
	value *Formatter
	delta *Formatter
}

// Formats caches formatters per canonical options for one locale. It is safe
// for concurrent use.
type Formats struct {
	tag   language.Tag
	mu    sync.Mutex
	cache map[string]formatterPair
}

// NewFormats returns an empty cache for a locale.
func NewFormats(tag language.Tag) *Formats {
	return &Formats{tag: tag, cache: map[string]formatterPair{}}
}

// NewFormatsForLocale parses a BCP 47 locale. An empty locale means English.
func NewFormatsForLocale(locale string) (*Formats, error) {
	if locale == "" {
		return NewFormats(language.English), nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("failed to parse locale %q: %w", locale, err)
	}
	return NewFormats(tag), nil
}

// Locale returns the cache's language tag.
func (f *Formats) Locale() language.Tag {
	return f.tag
}

// Get returns the value formatter for opts and its delta formatter. The delta
// formatter always shows a sign except for zero; when opts already does that
// both are the same instance.
func (f *Formats) Get(opts NumberFormat) (*Formatter, *Formatter) {
	opts = opts.normalized()
	key := opts.key()
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.cache[key]; ok {
		return p.value, p.delta
	}
	value := newFormatter(f.tag, opts)
	delta := value
	if opts.SignDisplay != SignExceptZero {
		d := opts
		d.SignDisplay = SignExceptZero
		if p, ok := f.cache[d.key()]; ok {
			delta = p.value
		} else {
			delta = newFormatter(f.tag, d)
			f.cache[d.key()] = formatterPair{value: delta, delta: delta}
		}
	}
	f.cache[key] = formatterPair{value: value, delta: delta}
	return value, delta
}

// Len returns the number of cached option keys.
func (f *Formats) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cache)
}
