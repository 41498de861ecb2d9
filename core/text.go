package core

import (
	"strings"
	"unicode"
)

// NormalizeText lower-cases text and collapses every whitespace run into a single
// space, trimming both ends.
func NormalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// BuildSearchText precomputes the normalized matching text of a product from its
// name, quick description, slug, and every variation label group.
func BuildSearchText(product *Product) string {
	parts := make([]string, 0, 3+len(product.Variations)*5)
	parts = appendNormalized(parts, product.Name, product.QuickDescription, product.Slug)
	for i := range product.Variations {
		v := &product.Variations[i]
		parts = appendNormalized(parts, v.Name, v.QuickDescription, v.Size, v.Color, v.SecondaryColor)
	}
	return strings.Join(parts, " ")
}

func appendNormalized(parts []string, values ...string) []string {
	for _, v := range values {
		if n := NormalizeText(v); n != "" {
			parts = append(parts, n)
		}
	}
	return parts
}
