package autocomplete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexPrefixes(t *testing.T) {
	idx := BuildIndex(ItemsFromLabels([]string{"Gas & Electric", "Groceries"}))

	// Both labels share the "g" prefix.
	cands := idx.candidates([]string{"g"})
	assert.Len(t, cands, 2)

	// "ele" only reaches Gas & Electric.
	cands = idx.candidates([]string{"ele"})
	require.Len(t, cands, 1)
	assert.Equal(t, "Gas & Electric", idx.items[cands[0]].Label)

	// Prefixes are capped: a longer query token still finds its item.
	cands = idx.candidates([]string{"electric"})
	require.Len(t, cands, 1)
	assert.Equal(t, "Gas & Electric", idx.items[cands[0]].Label)
}

func TestCandidatesFallBackToFullScan(t *testing.T) {
	idx := BuildIndex(ItemsFromLabels([]string{"Gas", "Dining"}))

	// No prefix hit: every item remains a candidate so substring,
	// subsequence and fuzzy matching still run.
	assert.Len(t, idx.candidates([]string{"zzz"}), 2)
	assert.Len(t, idx.candidates(nil), 2)
}

func TestIndexIncludesAliases(t *testing.T) {
	idx := BuildIndex([]Item{NewItem("Dining", "Restaurants")})

	cands := idx.candidates([]string{"rest"})
	assert.Len(t, cands, 1)
}

func TestItemsFromLabelsSkipsEmpty(t *testing.T) {
	items := ItemsFromLabels([]string{"Gas", "", "Dining"})
	require.Len(t, items, 2)
	assert.Equal(t, "gas", items[0].ID)
	assert.Equal(t, "dining", items[1].ID)
}
