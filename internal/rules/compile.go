package rules

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// compilePattern compiles a pattern rule's regex with its declared flags.
// The i, m and s flags map directly onto Go regexp flags. The x (extended)
// flag has no Go equivalent, so extended patterns are rewritten first:
// unescaped whitespace is removed and #-comments run to end of line.
func compilePattern(rule model.PatternRule) (*regexp.Regexp, error) {
	expr := rule.Pattern
	if rule.Flags.Extended {
		expr = stripExtended(expr)
	}

	var flags strings.Builder
	if rule.Flags.IgnoreCase {
		flags.WriteByte('i')
	}
	if rule.Flags.Multiline {
		flags.WriteByte('m')
	}
	if rule.Flags.DotAll {
		flags.WriteByte('s')
	}
	if flags.Len() > 0 {
		expr = "(?" + flags.String() + ")" + expr
	}

	return regexp.Compile(expr)
}

// stripExtended removes insignificant whitespace and #-comments from an
// extended-mode pattern. Whitespace inside character classes and escaped
// characters are preserved.
func stripExtended(expr string) string {
	var b strings.Builder
	b.Grow(len(expr))

	inClass := false
	inComment := false
	escaped := false
	for _, r := range expr {
		switch {
		case inComment:
			if r == '\n' {
				inComment = false
			}
		case escaped:
			b.WriteRune('\\')
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '[' && !inClass:
			inClass = true
			b.WriteRune(r)
		case r == ']' && inClass:
			inClass = false
			b.WriteRune(r)
		case !inClass && r == '#':
			inComment = true
		case !inClass && unicode.IsSpace(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteRune('\\')
	}

	return b.String()
}
