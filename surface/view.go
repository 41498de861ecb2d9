package surface

import (
	"slices"
	"strings"

	"github.com/poiesic/vitrine/core"
)

// DefaultMaxBadges is the default cap on variation badges per product.
const DefaultMaxBadges = 6

// ProductView is the read-only shape of a product handed to the host.
// DisplayPrice is what the card shows. RegularPrice is set only when a
// promotion applies, for rendering struck through next to DisplayPrice.
type ProductView struct {
	ID                  string           `json:"id"`
	Slug                string           `json:"slug"`
	Name                string           `json:"name"`
	Description         string           `json:"description,omitempty"`
	QuickDescription    string           `json:"quickDescription,omitempty"`
	QuickSpecifications string           `json:"quickSpecifications,omitempty"`
	Price               core.Money       `json:"price"`
	DisplayPrice        core.Money       `json:"displayPrice"`
	RegularPrice        *core.Money      `json:"regularPrice,omitempty"`
	IsPromotional       bool             `json:"isPromotional"`
	PromotionalPrice    *core.Money      `json:"promotionalPrice,omitempty"`
	Badges              []string         `json:"badges"`
	Variations          []core.Variation `json:"variations"`
}

// OnSale reports whether the card should render the promotional price.
func (v *ProductView) OnSale() bool {
	return v.RegularPrice != nil
}

// clone copies the view so that nothing it references is shared with v.
func (v ProductView) clone() ProductView {
	v.Badges = slices.Clone(v.Badges)
	v.Variations = slices.Clone(v.Variations)
	if v.RegularPrice != nil {
		regular := *v.RegularPrice
		v.RegularPrice = &regular
	}
	if v.PromotionalPrice != nil {
		promo := *v.PromotionalPrice
		v.PromotionalPrice = &promo
	}
	return v
}

func newProductView(p *core.Product, maxBadges int) ProductView {
	view := ProductView{
		ID:                  p.ID,
		Slug:                p.Slug,
		Name:                p.Name,
		Description:         p.Description,
		QuickDescription:    p.QuickDescription,
		QuickSpecifications: p.QuickSpecifications,
		Price:               p.Price,
		DisplayPrice:        p.Price,
		IsPromotional:       p.IsPromotional,
		PromotionalPrice:    p.PromotionalPrice,
		Badges:              badges(p.Variations, maxBadges),
		Variations:          p.Variations,
	}
	if view.Variations == nil {
		view.Variations = []core.Variation{}
	}
	if p.IsPromotional && p.PromotionalPrice != nil {
		regular := p.Price
		view.DisplayPrice = *p.PromotionalPrice
		view.RegularPrice = &regular
	}
	return view
}

// badges collects variation labels in order, dropping case-insensitive repeats,
// up to limit entries.
func badges(variations []core.Variation, limit int) []string {
	out := make([]string, 0, min(limit, len(variations)*2))
	seen := make(map[string]struct{})
	for i := range variations {
		for _, label := range variations[i].Labels() {
			if len(out) >= limit {
				return out
			}
			key := strings.ToLower(strings.TrimSpace(label))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, strings.TrimSpace(label))
		}
	}
	return out
}
