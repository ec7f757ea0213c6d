package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLen is the shortest token kept, counted in runes so multi-byte
// Greek letters measure the same as Latin ones.
const minTokenLen = 2

// isSeparator reports whether r splits tokens: any whitespace, hyphen,
// forward slash, or comma.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '/' || r == ','
}

// Tokenize normalizes text and splits it into tokens of at least two runes.
// Order of occurrence is preserved and duplicates are kept; text with no
// usable tokens yields nil.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	var tokens []string
	for _, field := range strings.FieldsFunc(normalized, isSeparator) {
		if utf8.RuneCountInString(field) >= minTokenLen {
			tokens = append(tokens, field)
		}
	}
	return tokens
}
