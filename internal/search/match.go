package search

import (
	"strings"
	"unicode/utf8"
)

// Token length thresholds, counted in runes. The prefix and infix minimums
// keep short fragments from matching inside unrelated words.
const (
	minQueryLen  = 2 // normalized search terms below this never match
	minPrefixLen = 3 // shortest search token allowed to prefix-match
	minInfixLen  = 4 // shortest search token allowed to match mid-word
)

// Matches reports whether searchTerm matches targetText. A term of at least
// three runes that is a verbatim substring of the normalized target matches
// immediately. Otherwise both sides are tokenized and every search token must
// match at least one target token: by equality, by prefix when the search
// token has at least three runes, or anywhere inside the target token when it
// has at least four. Two-rune terms therefore match only token-for-token
// ("wc", "60"), never as fragments of longer words. The first search token
// with no counterpart fails the whole match. Empty inputs and terms
// normalizing below two runes never match.
func Matches(searchTerm, targetText string) bool {
	if searchTerm == "" || targetText == "" {
		return false
	}

	term := Normalize(searchTerm)
	termLen := utf8.RuneCountInString(term)
	if termLen < minQueryLen {
		return false
	}
	target := Normalize(targetText)

	if termLen >= minPrefixLen && strings.Contains(target, term) {
		return true
	}

	// Normalize is idempotent, so tokenizing the normalized forms saves a
	// pass without changing the outcome.
	searchTokens := Tokenize(term)
	targetTokens := Tokenize(target)
	if len(searchTokens) == 0 || len(targetTokens) == 0 {
		return false
	}

	for _, token := range searchTokens {
		if !tokenMatchesAny(token, targetTokens) {
			return false
		}
	}
	return true
}

// tokenMatchesAny reports whether a single search token matches any of the
// target tokens under the equality/prefix/infix ladder.
func tokenMatchesAny(search string, targets []string) bool {
	length := utf8.RuneCountInString(search)
	for _, target := range targets {
		if search == target {
			return true
		}
		if length >= minPrefixLen && strings.HasPrefix(target, search) {
			return true
		}
		if length >= minInfixLen && strings.Contains(target, search) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether searchTerm matches at least one element of
// items. Empty terms and empty item lists never match.
func MatchesAny(searchTerm string, items []string) bool {
	if searchTerm == "" || len(items) == 0 {
		return false
	}
	for _, item := range items {
		if Matches(searchTerm, item) {
			return true
		}
	}
	return false
}
