package rules

import (
	"github.com/ledgermatch/ledgermatch/internal/model"
)

// Apply folds a resolution outcome back into the store. Each effect is
// idempotent: applying the same outcome twice leaves the store unchanged
// after the first application.
func Apply(outcome model.ResolutionOutcome, s *Store) {
	if outcome.CanonicalPayee == "" {
		return
	}

	// A concrete resolved category must exist in the taxonomy. The
	// Uncategorized sentinel never enters the category list.
	if outcome.Category != "" && outcome.Category != model.Uncategorized {
		s.AddCategory(outcome.Category)
	}

	switch {
	case outcome.Source == model.SourceCSVProvided:
		// The CSV told us the category; record it as an exact rule for
		// future runs, overwriting any prior stub or stale category.
		s.SetExact(outcome.CanonicalPayee, model.ExactRule{Category: outcome.Category})
		s.SetCanonical(outcome.RawMerchant, outcome.CanonicalPayee)

	case outcome.IsNewStub:
		category := outcome.Category
		if category == model.Uncategorized {
			category = ""
		}
		if prev, ok := s.Exact(outcome.CanonicalPayee); ok && !prev.IsStub() && category == "" {
			// Never downgrade a decided rule back to a stub.
			return
		}
		s.SetExact(outcome.CanonicalPayee, model.ExactRule{Category: category})
		s.SetCanonical(outcome.RawMerchant, outcome.CanonicalPayee)
	}
}

// Decide records a human category decision for a canonical payee: the exact
// rule is set, the category joins the taxonomy, and the raw description maps
// to the payee for future runs.
func Decide(s *Store, rawMerchant, canonicalPayee, category string) {
	if canonicalPayee == "" || category == "" {
		return
	}
	if category != model.Uncategorized {
		s.AddCategory(category)
	}
	s.SetExact(canonicalPayee, model.ExactRule{Category: category})
	if rawMerchant != "" {
		s.SetCanonical(rawMerchant, canonicalPayee)
	}
}
