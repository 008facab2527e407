package textutil

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// FuzzyContains reports whether any run of words in text is at least
// `threshold` similar (jaro-winkler) to phrase. Case and punctuation are
// ignored, so "Trip-Report" and "trip reoprt" both contain "trip report".
func FuzzyContains(text, phrase string, threshold float64) bool {
	words := tokenize(text)
	target := tokenize(phrase)
	if len(target) == 0 {
		return true
	}
	if len(words) == 0 {
		return false
	}

	joinedTarget := strings.Join(target, " ")
	window := len(target)
	if len(words) < window {
		window = len(words)
	}
	for i := 0; i+window <= len(words); i++ {
		candidate := strings.Join(words[i:i+window], " ")
		if matchr.JaroWinkler(candidate, joinedTarget, false) >= threshold {
			return true
		}
	}
	return false
}
