package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

func TestAddCategoryDeduplicatesCaseInsensitively(t *testing.T) {
	s := NewStore()

	assert.True(t, s.AddCategory("Groceries"))
	assert.False(t, s.AddCategory("groceries"))
	assert.False(t, s.AddCategory("  GROCERIES  "))
	assert.Equal(t, []string{"Groceries"}, s.Categories())
}

func TestAssignGroupMovesCategory(t *testing.T) {
	s := NewStore()
	s.AssignGroup("Groceries", "Food")
	s.AssignGroup("Groceries", "Essentials")

	group, ok := s.GroupOf("Groceries")
	require.True(t, ok)
	assert.Equal(t, "Essentials", group)
	assert.Empty(t, s.GroupMembers("Food"))
	assert.Equal(t, []string{"Groceries"}, s.GroupMembers("Essentials"))
}

func TestNeedsGroup(t *testing.T) {
	s := NewStore()
	s.AddCategory("Groceries")
	s.AddCategory("Dining")
	s.AssignGroup("Dining", "Food")

	assert.Equal(t, []string{"Groceries"}, s.NeedsGroup())
}

func TestSortedCategories(t *testing.T) {
	s := NewStore()
	s.AddCategory("Zoo Trips")
	s.AddCategory("auto")
	s.AddCategory("Dining")

	assert.Equal(t, []string{"auto", "Dining", "Zoo Trips"}, s.SortedCategories())
}

func TestCompilePatternFlags(t *testing.T) {
	tests := []struct {
		name    string
		rule    model.PatternRule
		input   string
		matches bool
	}{
		{
			name:    "ignore case",
			rule:    model.PatternRule{Pattern: `uber`, Flags: model.PatternFlags{IgnoreCase: true}},
			input:   "UBER TRIP",
			matches: true,
		},
		{
			name:    "case sensitive by default",
			rule:    model.PatternRule{Pattern: `uber`},
			input:   "UBER TRIP",
			matches: false,
		},
		{
			name: "extended mode strips whitespace and comments",
			rule: model.PatternRule{
				Pattern: "^SQ\\s\\*   # square prefix\n\\w+",
				Flags:   model.PatternFlags{Extended: true},
			},
			input:   "SQ *BLUEBOTTLE",
			matches: true,
		},
		{
			name: "extended mode keeps class whitespace",
			rule: model.PatternRule{
				Pattern: `a[ ]b`,
				Flags:   model.PatternFlags{Extended: true},
			},
			input:   "a b",
			matches: true,
		},
		{
			name:    "dot all",
			rule:    model.PatternRule{Pattern: `first.second`, Flags: model.PatternFlags{DotAll: true}},
			input:   "first\nsecond",
			matches: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := compilePattern(tt.rule)
			require.NoError(t, err)
			assert.Equal(t, tt.matches, re.MatchString(tt.input))
		})
	}
}

func TestCheck(t *testing.T) {
	s := NewStore()
	s.AddCategory("Groceries")
	s.AddCategory("Orphan")
	s.AssignGroup("Groceries", "Food")
	s.SetExact("safeway", model.ExactRule{Category: "Groceries"})
	s.SetExact("vendor", model.ExactRule{Category: "Ghost"})
	s.AddPattern(model.PatternRule{Pattern: `([bad`, Normalized: "Bad", Category: "Groceries"})

	issues := Check(s)

	assert.Len(t, issues, 3)
	assertAnyContains(t, issues, `"Orphan" is not assigned`)
	assertAnyContains(t, issues, `unknown category "Ghost"`)
	assertAnyContains(t, issues, "not a valid regex")
}

func TestCheckReportOrderIsStable(t *testing.T) {
	s := NewStore()
	// Degenerate mappings written straight into the store, the way a
	// hand-edited rules file could introduce them.
	s.rawToCanonical["zelle payment"] = ""
	s.rawToCanonical["acme corp"] = ""
	s.rawToCanonical["market 22"] = ""

	want := []string{
		`raw mapping for "acme corp" has an empty canonical payee`,
		`raw mapping for "market 22" has an empty canonical payee`,
		`raw mapping for "zelle payment" has an empty canonical payee`,
	}

	// Map iteration order varies; the report must not.
	for i := 0; i < 5; i++ {
		assert.Equal(t, want, Check(s))
	}
}

func TestCheckCleanStore(t *testing.T) {
	s := NewStore()
	s.AddCategory("Groceries")
	s.AssignGroup("Groceries", "Food")
	s.SetExact("safeway", model.ExactRule{Category: "Groceries"})

	assert.Empty(t, Check(s))
}

func assertAnyContains(t *testing.T, issues []string, substr string) {
	t.Helper()
	for _, issue := range issues {
		if strings.Contains(issue, substr) {
			return
		}
	}
	t.Errorf("no issue contains %q in %v", substr, issues)
}
