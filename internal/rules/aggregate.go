package rules

import (
	"sort"
	"strings"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// Aggregate groups the outcomes of one run that still need a category
// decision into review entries, one per canonical payee. Entries are ordered
// by occurrence count descending, ties broken by payee ascending
// (case-insensitive) so the output is stable run to run.
func Aggregate(outcomes []model.ResolutionOutcome) []model.ReviewEntry {
	byPayee := make(map[string]*model.ReviewEntry)
	var order []string

	for _, out := range outcomes {
		if out.CanonicalPayee == "" {
			continue
		}
		if out.Category != "" && out.Category != model.Uncategorized {
			continue
		}
		entry, ok := byPayee[out.CanonicalPayee]
		if !ok {
			entry = &model.ReviewEntry{
				Merchant:        out.CanonicalPayee,
				CurrentCategory: out.Category,
			}
			byPayee[out.CanonicalPayee] = entry
			order = append(order, out.CanonicalPayee)
		}
		entry.Count++
	}

	entries := make([]model.ReviewEntry, 0, len(order))
	for _, payee := range order {
		entries = append(entries, *byPayee[payee])
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return strings.ToLower(entries[i].Merchant) < strings.ToLower(entries[j].Merchant)
	})

	return entries
}
