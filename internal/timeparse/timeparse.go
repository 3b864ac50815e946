// Package timeparse parses pickup timestamps against an explicit, ordered list of layouts.
//
// Layouts are tried in order and the first one that parses wins. When none match the
// value is reported as an error; there is no lenient fallback.
//
// Values without zone information are read as UTC so the wall clock written in the
// file is the one returned. Converting into a local zone would move times that fall
// in a DST gap (2024-03-10 02:30 in New York) into another hour.
package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparseable is matched by every ParseError.
var ErrUnparseable = errors.New("unparseable timestamp")

// DefaultLayouts covers the ISO-8601 shapes TLC exports use, the legacy TLC
// 12-hour form and the day-first form the dashboard data was re-saved in.
var DefaultLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"2006-01-02",
}

// aliases lets profiles name the stdlib layouts instead of spelling them out.
var aliases = map[string]string{
	"RFC3339":     time.RFC3339,
	"RFC3339Nano": time.RFC3339Nano,
	"DateTime":    time.DateTime,
	"DateOnly":    time.DateOnly,
	"ANSIC":       time.ANSIC,
	"RFC1123":     time.RFC1123,
	"RFC1123Z":    time.RFC1123Z,
	"TLCLegacy":   "01/02/2006 03:04:05 PM",
	"DayFirst":    "02-01-2006 15:04",
}

// ParseError reports a value none of the layouts accepted.
type ParseError struct {
	Value string
	Tried int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q (tried %d layouts)", ErrUnparseable, e.Value, e.Tried)
}

func (e *ParseError) Unwrap() error {
	return ErrUnparseable
}

// Parser holds a resolved layout list.
type Parser struct {
	layouts []string
}

// New resolves aliases and returns a Parser.
func New(layouts []string) (*Parser, error) {
	if len(layouts) == 0 {
		return nil, errors.New("at least one timestamp layout is required")
	}

	resolved := make([]string, 0, len(layouts))
	for _, l := range layouts {
		l = ResolveLayout(l)
		if strings.TrimSpace(l) == "" {
			return nil, errors.New("empty timestamp layout")
		}
		resolved = append(resolved, l)
	}

	return &Parser{layouts: resolved}, nil
}

// Default returns a Parser over DefaultLayouts.
func Default() *Parser {
	p, _ := New(DefaultLayouts)
	return p
}

// ResolveLayout maps a named alias to its layout; anything else is returned as is.
func ResolveLayout(name string) string {
	if l, ok := aliases[name]; ok {
		return l
	}
	return name
}

// Layouts returns the resolved layouts in trial order.
func (p *Parser) Layouts() []string {
	out := make([]string, len(p.layouts))
	copy(out, p.layouts)
	return out
}

// Parse tries each layout in order.
// Layouts carrying a zone keep the parsed offset so the wall clock is preserved;
// the others return UTC.
func (p *Parser) Parse(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, &ParseError{Value: value, Tried: 0}
	}

	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &ParseError{Value: value, Tried: len(p.layouts)}
}
