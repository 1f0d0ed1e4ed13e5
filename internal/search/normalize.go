package search

import (
	"regexp"
	"strings"
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// Normalize cleans a raw user query: surrounding whitespace is trimmed,
// the text is lower-cased, and punctuation is stripped while word
// boundaries are preserved. The function is pure and idempotent.
func Normalize(query string) string {
	return strings.TrimSpace(nonWordPattern.ReplaceAllString(strings.ToLower(query), ""))
}
