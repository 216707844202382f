package rules

import (
	"fmt"
	"strings"

	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/normalize"
)

// Resolve maps a raw merchant string to a canonical payee and category by
// consulting the store in fixed precedence order:
//
//  1. A category already present on the source row wins outright.
//  2. Pattern rules, in declaration order, first match wins. Rules whose
//     regex failed to compile are skipped (the load surfaced a warning).
//     A raw string with a recorded canonical mapping skips this stage
//     entirely: the mapping was a human decision and patterns must not
//     override it.
//  3. An exact rule with a decided category.
//  4. An exact stub: the merchant is known but still needs review.
//  5. Fallback: the merchant is unseen, gets the Uncategorized sentinel and
//     a new stub is flagged for the mutator.
//
// Resolve never mutates the store; Apply folds the outcome back in.
func Resolve(raw string, csvCategory string, s *Store) model.ResolutionOutcome {
	raw = strings.TrimSpace(raw)
	csvCategory = strings.TrimSpace(csvCategory)

	if raw == "" {
		return model.ResolutionOutcome{Source: model.SourceFallback}
	}

	// 1. CSV-provided category always wins.
	if csvCategory != "" {
		out := model.ResolutionOutcome{
			RawMerchant:    raw,
			CanonicalPayee: raw,
			Category:       csvCategory,
			Source:         model.SourceCSVProvided,
			NeedsReview:    csvCategory == model.Uncategorized,
		}
		if prev, ok := s.Exact(raw); ok && !prev.IsStub() && prev.Category != csvCategory {
			out.Note = fmt.Sprintf("overwrites existing category %q", prev.Category)
		}
		return out
	}

	// A recorded raw-to-canonical mapping is a prior human decision: it
	// redirects the exact lookup and patterns are not consulted at all.
	lookup, mapped := s.Canonical(raw)
	if !mapped {
		lookup = raw

		// 2. Pattern rules in declaration order.
		for i, re := range s.compiled {
			if re == nil {
				continue
			}
			if re.MatchString(raw) {
				rule := s.patterns[i]
				return model.ResolutionOutcome{
					RawMerchant:    raw,
					CanonicalPayee: rule.Normalized,
					Category:       rule.Category,
					Source:         model.SourcePatternMatch,
					NeedsReview:    rule.Category == model.Uncategorized,
				}
			}
		}
	}

	if rule, ok := s.Exact(lookup); ok {
		// 3. Exact rule with a decided category.
		if !rule.IsStub() {
			payee := lookup
			if display, ok := s.ExactDisplay(lookup); ok {
				payee = display
			}
			return model.ResolutionOutcome{
				RawMerchant:    raw,
				CanonicalPayee: payee,
				Category:       rule.Category,
				Source:         model.SourceExactMatch,
				NeedsReview:    rule.Category == model.Uncategorized,
			}
		}

		// 4. Known stub, still needs review. A mapped raw string keeps the
		// mapped payee so the review entry stays keyed to it.
		payee := normalize.Normalize(raw)
		if mapped {
			payee = lookup
			if display, ok := s.ExactDisplay(lookup); ok {
				payee = display
			}
		}
		return model.ResolutionOutcome{
			RawMerchant:    raw,
			CanonicalPayee: payee,
			Source:         model.SourceExactMatch,
			NeedsReview:    true,
		}
	}

	// 5. Unseen merchant.
	return model.ResolutionOutcome{
		RawMerchant:    raw,
		CanonicalPayee: normalize.Normalize(raw),
		Category:       model.Uncategorized,
		Source:         model.SourceFallback,
		IsNewStub:      true,
		NeedsReview:    true,
	}
}
