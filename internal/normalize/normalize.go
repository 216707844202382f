// Package normalize provides the shared text normalization used by both the
// rule resolver and the category autocomplete. Both subsystems must agree on
// what "the same text" means, so this is the only place that defines it.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes to NFD and removes combining marks, so that
// "Café" and "Cafe" normalize identically.
var stripDiacritics = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// punctToSpace is the set of punctuation characters replaced by a single
// space. Slashes, hyphens and dots are common separators on card statements
// ("SQ *COFFEE-SHOP/SF").
const punctToSpace = `/-,.'()[]{}:;!?"` + "`~|\\*#"

// Normalize lowercases s, strips diacritics, expands "&" to "and", turns
// separator punctuation into spaces and collapses runs of whitespace. It is
// total (never fails) and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	stripped, _, err := transform.String(stripDiacritics, s)
	if err == nil {
		s = stripped
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case strings.ContainsRune(punctToSpace, r):
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// Stray control input (arrow keys, bells) never reaches the
			// matchers.
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the space-separated words of the normalized form of s.
func Tokens(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}

// Compact returns the normalized form of s with all spaces removed. Used for
// subsequence matching ("gse" against "gas electric").
func Compact(s string) string {
	return strings.ReplaceAll(Normalize(s), " ", "")
}

// Key returns the case-insensitive lookup key for exact rule matching. Unlike
// Normalize it preserves punctuation, because exact rules match the raw
// statement text literally, just without caring about case or stray spaces.
func Key(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Slugify derives a stable identifier from a display label: normalized text
// with spaces replaced by hyphens and anything outside [a-z0-9-] dropped.
func Slugify(label string) string {
	n := Normalize(label)

	var b strings.Builder
	b.Grow(len(n))
	lastHyphen := false
	for _, r := range n {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-':
			if !lastHyphen && b.Len() > 0 {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "item"
	}
	return slug
}
