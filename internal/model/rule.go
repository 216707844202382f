// Package model defines the core domain types for ledgermatch.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Uncategorized is the sentinel category assigned to merchants that no rule
// has matched yet.
const Uncategorized = "Uncategorized"

// ExactRule maps a literal merchant string (case-insensitive) to a category.
// A rule with an empty Category is a stub: the merchant is known but no
// category has been decided yet. Stubs serialize as JSON null so they are
// easy to spot when editing rules.json by hand.
type ExactRule struct {
	Category string
}

// MarshalJSON writes {"category": null} for stubs.
func (r ExactRule) MarshalJSON() ([]byte, error) {
	if r.Category == "" {
		return []byte(`{"category":null}`), nil
	}
	cat, err := json.Marshal(r.Category)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	b.WriteString(`{"category":`)
	b.Write(cat)
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON accepts both a string category and null.
func (r *ExactRule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Category *string `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Category != nil {
		r.Category = *raw.Category
	} else {
		r.Category = ""
	}
	return nil
}

// IsStub reports whether the rule records a known merchant without a decided
// category.
func (r ExactRule) IsStub() bool {
	return r.Category == ""
}

// PatternFlags is the set of regex flags a pattern rule may declare.
type PatternFlags struct {
	IgnoreCase bool // i
	Multiline  bool // m
	DotAll     bool // s
	Extended   bool // x: whitespace and #-comments in the pattern are ignored
}

// ParsePatternFlags parses a compact flag string such as "im".
func ParsePatternFlags(s string) (PatternFlags, error) {
	var f PatternFlags
	for _, c := range s {
		switch c {
		case 'i':
			f.IgnoreCase = true
		case 'm':
			f.Multiline = true
		case 's':
			f.DotAll = true
		case 'x':
			f.Extended = true
		default:
			return PatternFlags{}, fmt.Errorf("unknown pattern flag %q", string(c))
		}
	}
	return f, nil
}

// String renders the flags in canonical "imsx" order.
func (f PatternFlags) String() string {
	var b strings.Builder
	if f.IgnoreCase {
		b.WriteByte('i')
	}
	if f.Multiline {
		b.WriteByte('m')
	}
	if f.DotAll {
		b.WriteByte('s')
	}
	if f.Extended {
		b.WriteByte('x')
	}
	return b.String()
}

// PatternRule matches merchant text by regex and supplies the canonical payee
// and category. Pattern rules are evaluated in declaration order and the
// first match wins, so their order is part of their meaning.
type PatternRule struct {
	Pattern    string       `json:"pattern"`
	Flags      PatternFlags `json:"-"`
	Normalized string       `json:"normalized"`
	Category   string       `json:"category"`
}

// MarshalJSON emits flags as the compact string form.
func (p PatternRule) MarshalJSON() ([]byte, error) {
	type alias PatternRule
	return json.Marshal(struct {
		alias
		Flags string `json:"flags"`
	}{alias: alias(p), Flags: p.Flags.String()})
}

// UnmarshalJSON parses flags from the compact string form.
func (p *PatternRule) UnmarshalJSON(data []byte) error {
	type alias PatternRule
	var raw struct {
		alias
		Flags string `json:"flags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	flags, err := ParsePatternFlags(raw.Flags)
	if err != nil {
		return fmt.Errorf("pattern %q: %w", raw.Pattern, err)
	}
	*p = PatternRule(raw.alias)
	p.Flags = flags
	return nil
}

// Validate checks the rule has the fields resolution depends on.
func (p *PatternRule) Validate() error {
	if p.Pattern == "" {
		return fmt.Errorf("pattern rule requires a pattern")
	}
	if p.Normalized == "" {
		return fmt.Errorf("pattern rule %q requires a normalized payee", p.Pattern)
	}
	if p.Category == "" {
		return fmt.Errorf("pattern rule %q requires a category", p.Pattern)
	}
	return nil
}
