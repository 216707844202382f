// Package rules implements the merchant rule store, the resolver that maps
// raw statement text to canonical payees and categories, and the mutator
// that folds resolution outcomes back into the store.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/normalize"
)

// CurrentRulesVersion is the rules.json format version this code writes.
const CurrentRulesVersion = 1

// Ungrouped is the bucket for categories that have not been assigned to a
// group yet.
const Ungrouped = "Ungrouped"

// Store holds the complete rule set and taxonomy for one run: exact rules,
// pattern rules, raw-to-canonical mappings, categories and groups. It is the
// single mutable shared state of a categorize run; one resolver/mutator call
// sequence owns it, there are no concurrent writers.
type Store struct {
	// categories in insertion order; sorted case-insensitively on save.
	categories []string
	// catKeys guards case-insensitive category uniqueness.
	catKeys map[string]string

	groups     []string
	groupCats  map[string][]string
	catToGroup map[string]string

	// exact rules keyed by normalize.Key of the merchant; display keeps the
	// original casing for persistence and canonical payees.
	exact   map[string]model.ExactRule
	display map[string]string

	rawToCanonical map[string]string

	patterns []model.PatternRule
	compiled []*regexp.Regexp
	warnings []string

	rulesVersion int
	dirty        bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		catKeys:        make(map[string]string),
		groupCats:      make(map[string][]string),
		catToGroup:     make(map[string]string),
		exact:          make(map[string]model.ExactRule),
		display:        make(map[string]string),
		rawToCanonical: make(map[string]string),
		rulesVersion:   CurrentRulesVersion,
	}
}

// AddCategory inserts a category unless one with the same case-insensitive
// name already exists. Returns true when the category was added.
func (s *Store) AddCategory(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	key := normalize.Key(name)
	if _, ok := s.catKeys[key]; ok {
		return false
	}
	s.catKeys[key] = name
	s.categories = append(s.categories, name)
	s.dirty = true
	return true
}

// HasCategory reports whether a category exists (case-insensitive).
func (s *Store) HasCategory(name string) bool {
	_, ok := s.catKeys[normalize.Key(name)]
	return ok
}

// CategoryDisplay returns the stored display form of a category name.
func (s *Store) CategoryDisplay(name string) (string, bool) {
	display, ok := s.catKeys[normalize.Key(name)]
	return display, ok
}

// Categories returns the categories in insertion order.
func (s *Store) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// SortedCategories returns the categories sorted case-insensitively, the
// order in which they persist.
func (s *Store) SortedCategories() []string {
	out := s.Categories()
	sort.Slice(out, func(i, j int) bool {
		return caseInsensitiveLess(out[i], out[j])
	})
	return out
}

// AddGroup inserts a group unless it already exists (case-insensitive).
func (s *Store) AddGroup(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for _, g := range s.groups {
		if normalize.Key(g) == normalize.Key(name) {
			return
		}
	}
	s.groups = append(s.groups, name)
	if _, ok := s.groupCats[name]; !ok {
		s.groupCats[name] = nil
	}
	s.dirty = true
}

// Groups returns the group names in file order.
func (s *Store) Groups() []string {
	out := make([]string, len(s.groups))
	copy(out, s.groups)
	return out
}

// GroupMembers returns the member categories of a group in file order.
func (s *Store) GroupMembers(group string) []string {
	members := s.groupCats[group]
	out := make([]string, len(members))
	copy(out, members)
	return out
}

// GroupOf returns the group a category belongs to.
func (s *Store) GroupOf(category string) (string, bool) {
	g, ok := s.catToGroup[normalize.Key(category)]
	return g, ok
}

// AssignGroup places a category in a group, creating the group and removing
// the category from any previous group.
func (s *Store) AssignGroup(category, group string) {
	category = strings.TrimSpace(category)
	group = strings.TrimSpace(group)
	if category == "" || group == "" {
		return
	}
	s.AddCategory(category)
	s.AddGroup(group)

	display := s.catKeys[normalize.Key(category)]
	if prev, ok := s.catToGroup[normalize.Key(category)]; ok && prev != group {
		s.groupCats[prev] = removeString(s.groupCats[prev], display)
	}
	if !containsFold(s.groupCats[group], display) {
		s.groupCats[group] = append(s.groupCats[group], display)
	}
	s.catToGroup[normalize.Key(category)] = group
	s.dirty = true
}

// NeedsGroup returns the categories that have no group assigned yet, in
// insertion order.
func (s *Store) NeedsGroup() []string {
	var out []string
	for _, c := range s.categories {
		if _, ok := s.catToGroup[normalize.Key(c)]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Exact returns the exact rule for a merchant, matched case-insensitively.
func (s *Store) Exact(merchant string) (model.ExactRule, bool) {
	r, ok := s.exact[normalize.Key(merchant)]
	return r, ok
}

// ExactDisplay returns the recorded display form of an exact-rule merchant.
func (s *Store) ExactDisplay(merchant string) (string, bool) {
	d, ok := s.display[normalize.Key(merchant)]
	return d, ok
}

// SetExact inserts or replaces the exact rule for a merchant. The first
// display casing seen for a key is kept.
func (s *Store) SetExact(merchant string, rule model.ExactRule) {
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		return
	}
	key := normalize.Key(merchant)
	if prev, ok := s.exact[key]; ok && prev == rule {
		return
	}
	if _, ok := s.display[key]; !ok {
		s.display[key] = merchant
	}
	s.exact[key] = rule
	s.dirty = true
}

// ExactCount returns the number of exact rules.
func (s *Store) ExactCount() int {
	return len(s.exact)
}

// SortedExactMerchants returns exact-rule merchant names sorted
// case-insensitively, the order in which they persist.
func (s *Store) SortedExactMerchants() []string {
	out := make([]string, 0, len(s.display))
	for _, d := range s.display {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return caseInsensitiveLess(out[i], out[j])
	})
	return out
}

// Canonical returns the recorded canonical payee for a raw description.
func (s *Store) Canonical(raw string) (string, bool) {
	c, ok := s.rawToCanonical[normalize.Key(raw)]
	return c, ok
}

// SetCanonical records the canonical payee for a raw description.
func (s *Store) SetCanonical(raw, canonical string) {
	raw = strings.TrimSpace(raw)
	canonical = strings.TrimSpace(canonical)
	if raw == "" || canonical == "" {
		return
	}
	key := normalize.Key(raw)
	if s.rawToCanonical[key] == canonical {
		return
	}
	s.rawToCanonical[key] = canonical
	s.dirty = true
}

// AddPattern appends a pattern rule, compiling its regex. A rule that fails
// to compile is kept (order is meaningful and the file round-trips) but is
// recorded as a warning and never matches.
func (s *Store) AddPattern(rule model.PatternRule) {
	re, err := compilePattern(rule)
	if err != nil {
		s.warnings = append(s.warnings,
			fmt.Sprintf("pattern %d %q does not compile: %v", len(s.patterns), rule.Pattern, err))
		re = nil
	}
	s.patterns = append(s.patterns, rule)
	s.compiled = append(s.compiled, re)
	s.dirty = true
}

// Patterns returns the pattern rules in declaration order.
func (s *Store) Patterns() []model.PatternRule {
	out := make([]model.PatternRule, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// Warnings returns load-time problems (malformed regexes) the caller should
// surface to the user. Resolution has already skipped the offending rules.
func (s *Store) Warnings() []string {
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Dirty reports whether the store has unsaved changes.
func (s *Store) Dirty() bool {
	return s.dirty
}

func caseInsensitiveLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

func removeString(ss []string, v string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func containsFold(ss []string, v string) bool {
	for _, s := range ss {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
