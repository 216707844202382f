package autocomplete

import (
	"github.com/ledgermatch/ledgermatch/internal/normalize"
)

// prefixCap bounds the indexed prefix length; longer query tokens are
// truncated before lookup, and the full scorer separates the survivors.
const prefixCap = 6

// Index holds the items of one taxonomy snapshot plus an inverted
// token-prefix table for candidate generation. An index is immutable once
// built: when the taxonomy changes, build a new index and swap it in, so
// concurrent readers never observe a partial rebuild.
type Index struct {
	items    []Item
	prefixes map[string][]int
}

// BuildIndex constructs the index for a taxonomy snapshot. Cost is linear in
// total label length; rebuilding on every taxonomy edit is fine.
func BuildIndex(items []Item) *Index {
	idx := &Index{
		items:    make([]Item, len(items)),
		prefixes: make(map[string][]int),
	}
	copy(idx.items, items)

	for i, item := range idx.items {
		idx.indexTokens(i, item.Tokens)
		for _, alias := range item.Aliases {
			idx.indexTokens(i, normalize.Tokens(alias))
		}
	}
	return idx
}

func (idx *Index) indexTokens(item int, tokens []string) {
	for _, tok := range tokens {
		limit := len(tok)
		if limit > prefixCap {
			limit = prefixCap
		}
		for k := 1; k <= limit; k++ {
			p := tok[:k]
			ids := idx.prefixes[p]
			if len(ids) > 0 && ids[len(ids)-1] == item {
				continue
			}
			idx.prefixes[p] = append(ids, item)
		}
	}
}

// Items returns the indexed items in build order.
func (idx *Index) Items() []Item {
	out := make([]Item, len(idx.items))
	copy(out, idx.items)
	return out
}

// Len returns the number of indexed items.
func (idx *Index) Len() int {
	return len(idx.items)
}

// candidates returns the indices of items sharing a token prefix with any
// query token. An empty result falls back to a full scan so the slower
// matching rules (substring, subsequence, fuzzy) still get their chance;
// the scan is cheap for taxonomy-sized item counts.
func (idx *Index) candidates(queryTokens []string) []int {
	if len(queryTokens) == 0 {
		return idx.all()
	}

	seen := make(map[int]struct{})
	var out []int
	for _, qt := range queryTokens {
		if len(qt) > prefixCap {
			qt = qt[:prefixCap]
		}
		if qt == "" {
			continue
		}
		for _, id := range idx.prefixes[qt] {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}

	if len(out) == 0 {
		return idx.all()
	}
	return out
}

func (idx *Index) all() []int {
	out := make([]int, len(idx.items))
	for i := range out {
		out[i] = i
	}
	return out
}
