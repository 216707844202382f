package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

func TestApplyNewStub(t *testing.T) {
	s := NewStore()

	out := Resolve("ACME WIDGETS #42", "", s)
	Apply(out, s)

	rule, ok := s.Exact("acme widgets 42")
	assert.True(t, ok)
	assert.True(t, rule.IsStub())

	// The raw description now maps to the canonical payee.
	canonical, ok := s.Canonical("ACME WIDGETS #42")
	assert.True(t, ok)
	assert.Equal(t, "acme widgets 42", canonical)

	// The Uncategorized sentinel never joins the category list.
	assert.Empty(t, s.Categories())
}

func TestApplyCSVProvided(t *testing.T) {
	s := NewStore()
	s.SetExact("Safeway", model.ExactRule{}) // existing stub

	out := Resolve("Safeway", "Groceries", s)
	Apply(out, s)

	rule, ok := s.Exact("Safeway")
	assert.True(t, ok)
	assert.Equal(t, "Groceries", rule.Category)
	assert.Equal(t, []string{"Groceries"}, s.Categories())
	assert.Equal(t, []string{"Groceries"}, s.NeedsGroup())
}

func TestApplyNeverDowngradesToStub(t *testing.T) {
	s := NewStore()
	s.SetExact("safeway", model.ExactRule{Category: "Groceries"})

	// A fabricated stub outcome for the same merchant must not erase the
	// decided category.
	Apply(model.ResolutionOutcome{
		RawMerchant:    "safeway",
		CanonicalPayee: "safeway",
		Category:       model.Uncategorized,
		Source:         model.SourceFallback,
		IsNewStub:      true,
	}, s)

	rule, _ := s.Exact("safeway")
	assert.Equal(t, "Groceries", rule.Category)
}

func TestApplyIdempotent(t *testing.T) {
	s := NewStore()

	out := Resolve("ACME WIDGETS #42", "", s)
	Apply(out, s)
	before := snapshotStore(s)

	Apply(out, s)
	assert.Equal(t, before, snapshotStore(s))
}

func TestDecide(t *testing.T) {
	s := NewStore()

	out := Resolve("SQ *BLUE BOTTLE COFFEE", "", s)
	Apply(out, s)
	Decide(s, out.RawMerchant, "Blue Bottle", "Dining")

	rule, ok := s.Exact("Blue Bottle")
	assert.True(t, ok)
	assert.Equal(t, "Dining", rule.Category)

	canonical, ok := s.Canonical("SQ *BLUE BOTTLE COFFEE")
	assert.True(t, ok)
	assert.Equal(t, "Blue Bottle", canonical)

	// The next run resolves the same raw text straight to the decision.
	next := Resolve("SQ *BLUE BOTTLE COFFEE", "", s)
	assert.Equal(t, "Blue Bottle", next.CanonicalPayee)
	assert.Equal(t, "Dining", next.Category)
	assert.False(t, next.NeedsReview)
}

type storeSnapshot struct {
	categories []string
	merchants  []string
	stubs      int
}

func snapshotStore(s *Store) storeSnapshot {
	snap := storeSnapshot{
		categories: s.SortedCategories(),
		merchants:  s.SortedExactMerchants(),
	}
	for _, m := range snap.merchants {
		if r, _ := s.Exact(m); r.IsStub() {
			snap.stubs++
		}
	}
	return snap
}
