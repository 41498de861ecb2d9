package surface

import (
	"strings"
	"unicode/utf8"
)

// MaxQueryBytes bounds the query text accepted from the host.
const MaxQueryBytes = 256

// SanitizeQuery replaces invalid UTF-8 and truncates the query to at most
// MaxQueryBytes without splitting a rune.
func SanitizeQuery(query string) string {
	query = strings.ToValidUTF8(query, "�")
	if len(query) <= MaxQueryBytes {
		return query
	}
	cut := MaxQueryBytes
	for cut > 0 && !utf8.RuneStart(query[cut]) {
		cut--
	}
	return query[:cut]
}
