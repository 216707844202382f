package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	s := NewStore()
	s.AddCategory("Groceries")
	s.AddCategory("Dining")
	s.AddCategory("Transport")
	s.AssignGroup("Groceries", "Food")
	s.AssignGroup("Dining", "Food")
	s.AssignGroup("Transport", "Travel")

	s.SetExact("Safeway", model.ExactRule{Category: "Groceries"})
	s.SetExact("Mystery Vendor", model.ExactRule{}) // stub
	s.SetCanonical("SAFEWAY #1138 DENVER CO", "Safeway")

	s.AddPattern(model.PatternRule{
		Pattern:    `^UBER\s`,
		Flags:      model.PatternFlags{IgnoreCase: true},
		Normalized: "Uber",
		Category:   "Transport",
	})
	s.AddPattern(model.PatternRule{
		Pattern:    `STARBUCKS`,
		Flags:      model.PatternFlags{IgnoreCase: true},
		Normalized: "Starbucks",
		Category:   "Dining",
	})
	return s
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		csvCategory string
		want        model.ResolutionOutcome
	}{
		{
			name:        "csv category wins over everything",
			raw:         "UBER TRIP 5X2K",
			csvCategory: "Business Travel",
			want: model.ResolutionOutcome{
				RawMerchant:    "UBER TRIP 5X2K",
				CanonicalPayee: "UBER TRIP 5X2K",
				Category:       "Business Travel",
				Source:         model.SourceCSVProvided,
			},
		},
		{
			name: "first pattern match wins",
			raw:  "UBER TRIP 5X2K",
			want: model.ResolutionOutcome{
				RawMerchant:    "UBER TRIP 5X2K",
				CanonicalPayee: "Uber",
				Category:       "Transport",
				Source:         model.SourcePatternMatch,
			},
		},
		{
			name: "pattern flags are honored",
			raw:  "starbucks store 88",
			want: model.ResolutionOutcome{
				RawMerchant:    "starbucks store 88",
				CanonicalPayee: "Starbucks",
				Category:       "Dining",
				Source:         model.SourcePatternMatch,
			},
		},
		{
			name: "exact rule matched case-insensitively",
			raw:  "SAFEWAY",
			want: model.ResolutionOutcome{
				RawMerchant:    "SAFEWAY",
				CanonicalPayee: "Safeway",
				Category:       "Groceries",
				Source:         model.SourceExactMatch,
			},
		},
		{
			name: "raw-to-canonical redirects the exact lookup",
			raw:  "SAFEWAY #1138 DENVER CO",
			want: model.ResolutionOutcome{
				RawMerchant:    "SAFEWAY #1138 DENVER CO",
				CanonicalPayee: "Safeway",
				Category:       "Groceries",
				Source:         model.SourceExactMatch,
			},
		},
		{
			name: "stub still needs review",
			raw:  "Mystery Vendor",
			want: model.ResolutionOutcome{
				RawMerchant:    "Mystery Vendor",
				CanonicalPayee: "mystery vendor",
				Source:         model.SourceExactMatch,
				NeedsReview:    true,
			},
		},
		{
			name: "unseen merchant falls back to uncategorized stub",
			raw:  "ACME WIDGETS #42",
			want: model.ResolutionOutcome{
				RawMerchant:    "ACME WIDGETS #42",
				CanonicalPayee: "acme widgets 42",
				Category:       model.Uncategorized,
				Source:         model.SourceFallback,
				IsNewStub:      true,
				NeedsReview:    true,
			},
		},
		{
			name: "empty merchant resolves to nothing",
			raw:  "   ",
			want: model.ResolutionOutcome{Source: model.SourceFallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.raw, tt.csvCategory, testStore(t))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCanonicalMappingOutranksPatterns(t *testing.T) {
	// A recorded raw-to-canonical mapping is a prior human decision; a
	// pattern that also matches the raw string must not override it.
	s := testStore(t)
	s.AddCategory("Gas")
	s.AddPattern(model.PatternRule{
		Pattern:    `FUEL`,
		Flags:      model.PatternFlags{IgnoreCase: true},
		Normalized: "Fuel Stop",
		Category:   "Gas",
	})
	s.SetCanonical("SAFEWAY FUEL #1138", "Safeway")

	got := Resolve("SAFEWAY FUEL #1138", "", s)
	assert.Equal(t, "Safeway", got.CanonicalPayee)
	assert.Equal(t, "Groceries", got.Category)
	assert.Equal(t, model.SourceExactMatch, got.Source)

	// Without a mapping the pattern still applies.
	got = Resolve("CHEVRON FUEL 22", "", s)
	assert.Equal(t, "Fuel Stop", got.CanonicalPayee)
	assert.Equal(t, "Gas", got.Category)
	assert.Equal(t, model.SourcePatternMatch, got.Source)

	// A mapping to a stub keeps the merchant in review rather than letting
	// the pattern decide.
	s.SetCanonical("MYSTERY FUEL DEPOT", "Mystery Vendor")
	got = Resolve("MYSTERY FUEL DEPOT", "", s)
	assert.Equal(t, "Mystery Vendor", got.CanonicalPayee)
	assert.Equal(t, model.SourceExactMatch, got.Source)
	assert.True(t, got.NeedsReview)
}

func TestResolveCSVOverwriteNote(t *testing.T) {
	s := testStore(t)

	got := Resolve("Safeway", "Dining", s)
	assert.Equal(t, "Dining", got.Category)
	assert.Equal(t, model.SourceCSVProvided, got.Source)
	assert.Contains(t, got.Note, `"Groceries"`)

	// Same category again: no overwrite to report.
	got = Resolve("Safeway", "Groceries", s)
	assert.Empty(t, got.Note)
}

func TestResolveSkipsMalformedPattern(t *testing.T) {
	s := NewStore()
	s.AddPattern(model.PatternRule{
		Pattern:    `([unclosed`,
		Normalized: "Broken",
		Category:   "Broken",
	})
	s.SetExact("costco", model.ExactRule{Category: "Groceries"})

	require.Len(t, s.Warnings(), 1)

	// The malformed pattern is skipped and lower precedence still applies.
	got := Resolve("COSTCO", "", s)
	assert.Equal(t, "Groceries", got.Category)
	assert.Equal(t, model.SourceExactMatch, got.Source)
}

func TestResolveExactRuleWithoutPatternInterference(t *testing.T) {
	// Property: any merchant with a non-stub exact rule and no matching
	// pattern resolves to that rule's category.
	s := NewStore()
	merchants := map[string]string{
		"Trader Joe's":  "Groceries",
		"Shell Oil":     "Auto",
		"Blue Bottle":   "Dining",
		"City of Plano": "Utilities",
	}
	for m, cat := range merchants {
		s.SetExact(m, model.ExactRule{Category: cat})
	}

	for m, cat := range merchants {
		got := Resolve(m, "", s)
		assert.Equal(t, cat, got.Category, "merchant %q", m)
		assert.Equal(t, model.SourceExactMatch, got.Source)
	}
}
