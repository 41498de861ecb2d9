package search

import (
	"strings"
	"unicode"

	"github.com/poiesic/vitrine/core"
)

// normalizeQuery returns the normalized phrase and its distinct tokens in
// first-seen order. Tokens are split on every rune that is not a letter or digit.
func normalizeQuery(query string) (string, []string) {
	phrase := core.NormalizeText(query)
	fields := strings.FieldsFunc(phrase, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return phrase, tokens
}
