// Package autocomplete ranks a category taxonomy against partial keyboard
// input. Matching is hybrid (token prefix, substring, subsequence, fuzzy)
// with deterministic scoring and tie-breaks, so the same query against the
// same taxonomy always yields the same ordered suggestions.
package autocomplete

import (
	"github.com/ledgermatch/ledgermatch/internal/normalize"
)

// Item is one selectable entry: a category label plus optional aliases, with
// the normalized forms precomputed at taxonomy load. Items are immutable for
// the lifetime of an index.
type Item struct {
	// ID is a stable slug derived from the label; it is the final
	// tie-break, guaranteeing a strict total order of results.
	ID      string
	Label   string
	Norm    string
	Tokens  []string
	Aliases []string
}

// NewItem builds an item from a display label and optional aliases.
func NewItem(label string, aliases ...string) Item {
	return Item{
		ID:      normalize.Slugify(label),
		Label:   label,
		Norm:    normalize.Normalize(label),
		Tokens:  normalize.Tokens(label),
		Aliases: aliases,
	}
}

// ItemsFromLabels builds items for a plain list of category labels, the form
// the taxonomy file supplies.
func ItemsFromLabels(labels []string) []Item {
	items := make([]Item, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		items = append(items, NewItem(label))
	}
	return items
}
