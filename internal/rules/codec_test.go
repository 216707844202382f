package rules

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

func tempPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		Rules:      filepath.Join(dir, "rules.json"),
		Categories: filepath.Join(dir, "categories.txt"),
		Groups:     filepath.Join(dir, "groups.txt"),
	}
}

func TestLoadMissingFilesYieldsEmptyStore(t *testing.T) {
	s, err := Load(tempPaths(t))
	require.NoError(t, err)

	assert.Empty(t, s.Categories())
	assert.Empty(t, s.Groups())
	assert.Zero(t, s.ExactCount())
	assert.False(t, s.Dirty())
}

func TestRoundTrip(t *testing.T) {
	paths := tempPaths(t)

	s := NewStore()
	s.AddCategory("Groceries")
	s.AddCategory("auto")
	s.AddCategory("Dining")
	s.AssignGroup("Groceries", "Food")
	s.AssignGroup("Dining", "Food")
	s.AssignGroup("auto", "Travel")
	s.SetExact("Zara", model.ExactRule{Category: "Shopping"})
	s.SetExact("amazon", model.ExactRule{Category: "Shopping"})
	s.SetExact("Migros", model.ExactRule{}) // stub
	s.SetCanonical("AMZN MKTP US*2D4", "amazon")
	s.AddPattern(model.PatternRule{
		Pattern:    `^LYFT\b`,
		Flags:      model.PatternFlags{IgnoreCase: true},
		Normalized: "Lyft",
		Category:   "auto",
	})

	require.NoError(t, Save(s, paths))
	assert.False(t, s.Dirty())

	loaded, err := Load(paths)
	require.NoError(t, err)

	assert.Equal(t, s.SortedCategories(), loaded.SortedCategories())
	assert.Equal(t, s.SortedExactMerchants(), loaded.SortedExactMerchants())
	assert.Equal(t, s.Patterns(), loaded.Patterns())

	rule, ok := loaded.Exact("MIGROS")
	assert.True(t, ok)
	assert.True(t, rule.IsStub())

	group, ok := loaded.GroupOf("dining")
	assert.True(t, ok)
	assert.Equal(t, "Food", group)

	canonical, ok := loaded.Canonical("amzn mktp us*2d4")
	assert.True(t, ok)
	assert.Equal(t, "amazon", canonical)
}

func TestSaveOrdersExactKeysCaseInsensitively(t *testing.T) {
	paths := tempPaths(t)

	s := NewStore()
	// Insertion order deliberately scrambled; "Zara" must sort after
	// "amazon" despite 'Z' < 'a' bytewise.
	s.SetExact("Zara", model.ExactRule{Category: "Shopping"})
	s.SetExact("costco", model.ExactRule{Category: "Groceries"})
	s.SetExact("Amazon", model.ExactRule{Category: "Shopping"})
	require.NoError(t, Save(s, paths))

	data, err := os.ReadFile(paths.Rules)
	require.NoError(t, err)

	var decoded struct {
		RulesVersion int `json:"rules_version"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded), "rules.json must stay valid JSON")
	assert.Equal(t, CurrentRulesVersion, decoded.RulesVersion)

	text := string(data)
	amazon := indexOf(t, text, `"Amazon"`)
	costco := indexOf(t, text, `"costco"`)
	zara := indexOf(t, text, `"Zara"`)
	assert.Less(t, amazon, costco)
	assert.Less(t, costco, zara)
}

func TestLoadRejectsCaseCollidingExactKeys(t *testing.T) {
	paths := tempPaths(t)
	rules := `{
  "exact": {
    "SAFEWAY": {"category": "Groceries"},
    "safeway": {"category": "Dining"}
  },
  "patterns": [],
  "rules_version": 1
}`
	require.NoError(t, os.WriteFile(paths.Rules, []byte(rules), 0o644))

	_, err := Load(paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collide")
}

func TestLoadRejectsNewerRulesVersion(t *testing.T) {
	paths := tempPaths(t)
	rules := `{"exact": {}, "patterns": [], "rules_version": 99}`
	require.NoError(t, os.WriteFile(paths.Rules, []byte(rules), 0o644))

	_, err := Load(paths)
	require.Error(t, err)
}

func TestLoadGroupsWithoutHeaderFallsBackToUngrouped(t *testing.T) {
	paths := tempPaths(t)
	groups := "Stray Category\n\n*Food\nGroceries\n"
	require.NoError(t, os.WriteFile(paths.Groups, []byte(groups), 0o644))

	s, err := Load(paths)
	require.NoError(t, err)

	group, ok := s.GroupOf("Stray Category")
	assert.True(t, ok)
	assert.Equal(t, Ungrouped, group)

	group, ok = s.GroupOf("Groceries")
	assert.True(t, ok)
	assert.Equal(t, "Food", group)
}

func TestLoadCategoriesSkipsComments(t *testing.T) {
	paths := tempPaths(t)
	cats := "# taxonomy\nGroceries\n\nDining\n"
	require.NoError(t, os.WriteFile(paths.Categories, []byte(cats), 0o644))

	s, err := Load(paths)
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries", "Dining"}, s.Categories())
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "expected %q in rules.json", needle)
	return idx
}
