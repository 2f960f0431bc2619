// Package filter scores article text against include/exclude keyword sets.
package filter

import (
	"strings"
	"unicode"
)

// Mode selects how keywords are matched against text.
type Mode int

const (
	// MatchSubstring accepts a keyword anywhere in the text, case-insensitive.
	MatchSubstring Mode = iota

	// MatchWord requires the keyword to appear as a whole token. Tokens are
	// maximal runs of letters, digits, and underscores, lower-cased.
	MatchWord
)

// ParseMode maps a config string to a Mode. Unknown values fall back to
// substring matching.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, "word") {
		return MatchWord
	}
	return MatchSubstring
}

// IsRelevant reports whether text passes the keyword filter using substring
// matching. It is a pure function of its inputs.
//
// An empty include list accepts everything (fail-open, so a missing keyword
// configuration does not silently drop every article). Any exclude hit
// rejects regardless of include matches. Otherwise the text is accepted iff
// at least minMatches include keywords appear.
func IsRelevant(text string, include, exclude []string, minMatches int) bool {
	return Match(text, include, exclude, minMatches, MatchSubstring)
}

// Match is IsRelevant with an explicit matching mode.
func Match(text string, include, exclude []string, minMatches int, mode Mode) bool {
	lower := strings.ToLower(text)

	var words map[string]struct{}
	if mode == MatchWord {
		words = tokenize(lower)
	}

	contains := func(keyword string) bool {
		kw := strings.ToLower(strings.TrimSpace(keyword))
		if kw == "" {
			return false
		}
		if mode == MatchWord {
			_, ok := words[kw]
			return ok
		}
		return strings.Contains(lower, kw)
	}

	for _, kw := range exclude {
		if contains(kw) {
			return false
		}
	}

	if len(include) == 0 {
		return true
	}

	hits := 0
	for _, kw := range include {
		if contains(kw) {
			hits++
		}
	}
	return hits >= minMatches
}

// tokenize splits lower-cased text into a set of maximal runs of letters,
// digits, and underscores.
func tokenize(lower string) map[string]struct{} {
	words := make(map[string]struct{})
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			words[b.String()] = struct{}{}
			b.Reset()
		}
	}

	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}
