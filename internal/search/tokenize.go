package search

import (
	"regexp"
	"strings"

	"scriptory/internal/config"
)

var nonWord = regexp.MustCompile(`[^a-z0-9_\s]+`)

// Tokenize lowercases text, strips non-word characters, splits on
// whitespace and drops tokens too short to be useful. The result is
// deduplicated in encounter order.
func Tokenize(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) <= config.MinSearchTokenLength {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}
