package builder

import "fmt"

// WarningKind classifies a data-quality problem found while building.
type WarningKind string

const (
	// WarnOrphanVariation: a variation names no parent, or a parent that does not exist.
	// The variation is dropped.
	WarnOrphanVariation WarningKind = "orphan_variation"

	// WarnInvalidProduct: a product failed validation and was dropped.
	WarnInvalidProduct WarningKind = "invalid_product"

	// WarnDerivedSlug: a product had no slug, so one was derived from its name.
	WarnDerivedSlug WarningKind = "derived_slug"

	// WarnDuplicate: a product repeated an earlier id or slug and was dropped.
	WarnDuplicate WarningKind = "duplicate"

	// WarnPromoMismatch: a promotional price was set without the promotional flag.
	// The price was cleared.
	WarnPromoMismatch WarningKind = "promo_mismatch"

	// WarnPromoAbovePrice: a promotional price exceeds the regular price. Kept as is.
	WarnPromoAbovePrice WarningKind = "promo_above_price"
)

// Warning records one non-fatal problem and the record it concerns.
type Warning struct {
	Kind    WarningKind
	ID      string
	Message string
}

func (w Warning) String() string {
	if w.ID == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", w.Kind, w.ID, w.Message)
}

// Count returns how many warnings of the given kind are present.
func Count(warnings []Warning, kind WarningKind) int {
	n := 0
	for _, w := range warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
