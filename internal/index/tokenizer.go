package index

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases the text and splits it on non-alphanumeric
// boundaries. No stemming or stop-word removal is applied: query terms
// must match indexed terms by exact, prefix, or fuzzy comparison only.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
