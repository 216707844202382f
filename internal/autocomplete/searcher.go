package autocomplete

import (
	"sort"
	"strings"

	"github.com/ledgermatch/ledgermatch/internal/normalize"
)

// Score weights. Tuned so that token-prefix matches dominate substring
// noise, multi-token coverage beats one short label, and fuzzy rescue stays
// modest.
const (
	scoreExact       = 1000.0
	scoreTokenPrefix = 200.0
	scoreWholeWord   = 80.0
	scoreSubstring   = 60.0
	scoreTokenOrder  = 80.0
	scoreStartsWith  = 120.0
	scoreSubsequence = 20.0

	// lengthPenalty is applied per extra rune of the label beyond the
	// query; close calls go to the shorter label.
	lengthPenalty = 0.5

	// aliasPenalty keeps a label match authoritative over an equally good
	// alias match.
	aliasPenalty = 10.0

	defaultFuzzyMaxDist = 2
)

// Config tunes a Searcher. Zero values select the defaults.
type Config struct {
	// FuzzyMaxDist is the maximum edit distance for the fuzzy fallback.
	// Negative disables fuzzy matching entirely.
	FuzzyMaxDist int
	// Limit caps the number of results returned; 0 means unbounded and
	// the caller truncates for display.
	Limit int
}

// Result is one ranked suggestion.
type Result struct {
	Item  Item
	Score float64
	// PrefixCoverage counts the query tokens that matched some label token
	// as a prefix; it is the first tie-break after score.
	PrefixCoverage int
}

// Searcher ranks taxonomy items against queries. It is re-entrant and
// side-effect-free: a shared Searcher may serve concurrent queries as long
// as its index is not swapped mid-call.
type Searcher struct {
	index        *Index
	fuzzyMaxDist int
	limit        int
}

// NewSearcher creates a searcher over an index.
func NewSearcher(index *Index, cfg Config) *Searcher {
	dist := cfg.FuzzyMaxDist
	if dist == 0 {
		dist = defaultFuzzyMaxDist
	}
	if dist < 0 {
		dist = 0
	}
	return &Searcher{
		index:        index,
		fuzzyMaxDist: dist,
		limit:        cfg.Limit,
	}
}

// Search returns ranked suggestions for a query. The ordering is a strict
// total order: score descending, then prefix coverage descending, then
// shorter normalized label, then label alphabetically (case-insensitive),
// then item ID. An empty or control-character-only query yields the items in
// alphabetical order, unscored, for the caller to replace with its own
// default list (e.g. most recently used).
func (s *Searcher) Search(query string) []Result {
	qNorm := normalize.Normalize(query)
	if qNorm == "" {
		return s.alphabetical()
	}
	qTokens := strings.Split(qNorm, " ")
	qCompact := strings.ReplaceAll(qNorm, " ", "")

	var results []Result
	for _, i := range s.index.candidates(qTokens) {
		item := s.index.items[i]

		score, coverage, matched := s.scoreString(qNorm, qTokens, qCompact, item.Norm, item.Tokens)

		for _, alias := range item.Aliases {
			aliasNorm := normalize.Normalize(alias)
			aScore, aCoverage, aMatched := s.scoreString(qNorm, qTokens, qCompact, aliasNorm, normalize.Tokens(alias))
			if !aMatched {
				continue
			}
			aScore -= aliasPenalty
			if !matched || aScore > score {
				score, coverage, matched = aScore, aCoverage, true
			}
		}

		if matched {
			results = append(results, Result{Item: item, Score: score, PrefixCoverage: coverage})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.PrefixCoverage != b.PrefixCoverage {
			return a.PrefixCoverage > b.PrefixCoverage
		}
		if len(a.Item.Norm) != len(b.Item.Norm) {
			return len(a.Item.Norm) < len(b.Item.Norm)
		}
		al, bl := strings.ToLower(a.Item.Label), strings.ToLower(b.Item.Label)
		if al != bl {
			return al < bl
		}
		return a.Item.ID < b.Item.ID
	})

	if s.limit > 0 && len(results) > s.limit {
		results = results[:s.limit]
	}
	return results
}

// scoreString scores the query against one target string (label or alias).
func (s *Searcher) scoreString(qNorm string, qTokens []string, qCompact, targetNorm string, targetTokens []string) (score float64, coverage int, matched bool) {
	if qNorm == targetNorm {
		return scoreExact, len(qTokens), true
	}

	if strings.HasPrefix(targetNorm, qNorm) {
		score += scoreStartsWith
		matched = true
	}

	if strings.Contains(targetNorm, qNorm) {
		score += scoreSubstring
		matched = true
	}

	// Per query token: a token-prefix hit outranks a whole-word hit, and
	// either counts toward prefix coverage.
	for _, qt := range qTokens {
		best := 0.0
		for _, tt := range targetTokens {
			if strings.HasPrefix(tt, qt) {
				best = scoreTokenPrefix
				matched = true
				break
			}
			if tt == qt && best < scoreWholeWord {
				best = scoreWholeWord
				matched = true
			}
		}
		if best > 0 {
			score += best
			coverage++
		}
	}

	if tokensInOrder(qTokens, targetTokens) {
		score += scoreTokenOrder
		matched = true
	}

	if qCompact != "" && isSubsequence(qCompact, targetNorm) {
		score += scoreSubsequence
		matched = true
	}

	// Fuzzy rescue only fires when nothing structural matched, to bound
	// cost and keep typo tolerance from outranking real matches.
	if !matched && s.fuzzyMaxDist > 0 {
		if dist := editDistance(qNorm, targetNorm, s.fuzzyMaxDist); dist <= s.fuzzyMaxDist {
			matched = true
			if bonus := 50.0 - 10.0*float64(dist); bonus > 0 {
				score += bonus
			}
		}
	}

	score -= lengthPenalty * float64(len([]rune(targetNorm))-len([]rune(qNorm)))

	return score, coverage, matched
}

// tokensInOrder reports whether every query token prefixes some target
// token, with the matches appearing in the same relative order.
func tokensInOrder(qTokens, targetTokens []string) bool {
	if len(qTokens) == 0 {
		return false
	}
	pos := 0
	for _, qt := range qTokens {
		found := false
		for j := pos; j < len(targetTokens); j++ {
			if strings.HasPrefix(targetTokens[j], qt) {
				found = true
				pos = j + 1
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Searcher) alphabetical() []Result {
	items := s.index.Items()
	sort.Slice(items, func(i, j int) bool {
		al, bl := strings.ToLower(items[i].Label), strings.ToLower(items[j].Label)
		if al != bl {
			return al < bl
		}
		return items[i].ID < items[j].ID
	})
	if s.limit > 0 && len(items) > s.limit {
		items = items[:s.limit]
	}
	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = Result{Item: item}
	}
	return results
}
