package rules

import (
	"fmt"

	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/normalize"
)

// Check verifies the store's cross-file consistency and returns a list of
// human-readable issues. An empty result means the taxonomy and rule set are
// coherent. Check never mutates the store; the caller decides whether issues
// are fatal.
func Check(s *Store) []string {
	var issues []string

	// Every category belongs to a known group.
	for _, cat := range s.categories {
		group, ok := s.GroupOf(cat)
		if !ok {
			issues = append(issues, fmt.Sprintf("category %q is not assigned to any group", cat))
			continue
		}
		if !containsFold(s.groups, group) {
			issues = append(issues, fmt.Sprintf("category %q is assigned to unknown group %q", cat, group))
		}
	}

	// Every group has at least one category that exists.
	for _, group := range s.groups {
		live := 0
		for _, cat := range s.groupCats[group] {
			if s.HasCategory(cat) {
				live++
			} else {
				issues = append(issues, fmt.Sprintf("group %q lists unknown category %q", group, cat))
			}
		}
		if live == 0 {
			issues = append(issues, fmt.Sprintf("group %q has no categories", group))
		}
	}

	// Group membership agrees with the category-to-group mapping.
	for _, group := range s.groups {
		for _, cat := range s.groupCats[group] {
			if assigned, ok := s.catToGroup[normalize.Key(cat)]; ok && assigned != group {
				issues = append(issues,
					fmt.Sprintf("category %q appears in group %q but is assigned to %q", cat, group, assigned))
			}
		}
	}

	// Exact-rule categories exist in the taxonomy.
	for _, merchant := range s.SortedExactMerchants() {
		rule, _ := s.Exact(merchant)
		if rule.IsStub() {
			continue
		}
		if rule.Category != model.Uncategorized && !s.HasCategory(rule.Category) {
			issues = append(issues,
				fmt.Sprintf("exact rule for %q uses unknown category %q", merchant, rule.Category))
		}
	}

	// Pattern rules are well formed and compile.
	for i, rule := range s.patterns {
		if err := rule.Validate(); err != nil {
			issues = append(issues, fmt.Sprintf("pattern %d: %v", i, err))
		}
		if s.compiled[i] == nil {
			issues = append(issues, fmt.Sprintf("pattern %d %q is not a valid regex", i, rule.Pattern))
		}
		if rule.Category != "" && rule.Category != model.Uncategorized && !s.HasCategory(rule.Category) {
			issues = append(issues,
				fmt.Sprintf("pattern %d %q uses unknown category %q", i, rule.Pattern, rule.Category))
		}
	}

	// Raw-to-canonical entries point at something. Keys are sorted so the
	// report is stable run to run.
	raws := make([]string, 0, len(s.rawToCanonical))
	for raw := range s.rawToCanonical {
		raws = append(raws, raw)
	}
	sortCaseInsensitive(raws)
	for _, raw := range raws {
		if s.rawToCanonical[raw] == "" {
			issues = append(issues, fmt.Sprintf("raw mapping for %q has an empty canonical payee", raw))
		}
	}

	return issues
}
