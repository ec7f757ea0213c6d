package search

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMarks covers U+0300 through U+036F, the combining diacritical
// marks block that NFD decomposition moves accents into.
var combiningMarks = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

// stripPool hands out decompose-and-strip transformer chains. Chains carry
// internal buffers, so a shared instance is not safe for concurrent callers.
// The output intentionally stays decomposed; matching never compares against
// composed forms.
var stripPool = sync.Pool{
	New: func() interface{} {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(combiningMarks)))
	},
}

// greekFolds is the ordered fold table for Greek letter variants: accented
// vowels to the bare vowel, the dialytika forms included, and final sigma to
// regular sigma. Mark stripping runs first, so on decomposed text only the
// final-sigma entry can still fire.
var greekFolds = strings.NewReplacer(
	"ά", "α",
	"έ", "ε",
	"ή", "η",
	"ί", "ι",
	"ό", "ο",
	"ύ", "υ",
	"ώ", "ω",
	"ϊ", "ι",
	"ϋ", "υ",
	"ΐ", "ι",
	"ΰ", "υ",
	"ς", "σ",
)

// slashFolds turns path-style separators into spaces so "νιπτήρας/κρεμαστός"
// and "white\\glossy" split into separate words.
var slashFolds = strings.NewReplacer("/", " ", "\\", " ")

// Normalize canonicalizes text for matching: lowercased, trimmed, combining
// marks stripped, Greek variants folded, slashes turned into spaces, and
// whitespace runs collapsed to single spaces. Total over any string; empty
// input yields the empty string. Applying it twice yields the same result.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := strings.TrimSpace(strings.ToLower(text))
	if s == "" {
		return ""
	}

	// ASCII carries no combining marks and no Greek letters, so the
	// transform and fold passes are skipped for it.
	if !isASCII(s) {
		t := stripPool.Get().(transform.Transformer)
		if stripped, _, err := transform.String(t, s); err == nil {
			s = stripped
		}
		stripPool.Put(t)
		s = greekFolds.Replace(s)
	}

	s = slashFolds.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// isASCII reports whether s contains only single-byte runes.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
