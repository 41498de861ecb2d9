package builder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/poiesic/vitrine/core"
	"github.com/shopspring/decimal"
)

// RawProduct is one record of a product export. Description may hold any JSON
// value; its string leaves become the description text.
type RawProduct struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Slug                string              `json:"slug"`
	Price               decimal.NullDecimal `json:"price"`
	QuickDescription    string              `json:"quickDescription"`
	Description         json.RawMessage     `json:"description,omitempty"`
	QuickSpecifications string              `json:"quickSpecifications,omitempty"`
	IsPromotional       bool                `json:"isPromotional"`
	PromotionalPrice    decimal.NullDecimal `json:"promotionalPrice"`
}

// RawVariation is one record of a variation export.
// The parent is named by FurnitureID or, failing that, ProductID.
type RawVariation struct {
	ID               string `json:"id"`
	FurnitureID      string `json:"furnitureId,omitempty"`
	ProductID        string `json:"productId,omitempty"`
	Name             string `json:"name,omitempty"`
	QuickDescription string `json:"quickDescription,omitempty"`
	Size             string `json:"size,omitempty"`
	Color            string `json:"color,omitempty"`
	SecondaryColor   string `json:"secondaryColor,omitempty"`
}

// ParentID returns the id of the product this variation belongs to.
func (v *RawVariation) ParentID() string {
	if id := strings.TrimSpace(v.FurnitureID); id != "" {
		return id
	}
	return strings.TrimSpace(v.ProductID)
}

func (v *RawVariation) variation() core.Variation {
	return core.Variation{
		ID:               v.ID,
		Name:             v.Name,
		QuickDescription: v.QuickDescription,
		Size:             v.Size,
		Color:            v.Color,
		SecondaryColor:   v.SecondaryColor,
	}
}

// Join attaches variations to their parent products and prepares the catalog.
// Products keep export order and each product's variations keep export order.
// Ids are compared after trimming surrounding whitespace. Variations go to the
// first record of their parent id that passes validation. A variation that ends
// up without a kept parent is dropped with a warning.
func Join(products []RawProduct, variations []RawVariation, opts ...Option) (*Result, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	// known maps each trimmed product id to whether some record of it is valid.
	known := make(map[string]bool, len(products))
	built := make([]*core.Product, 0, len(products))
	for i := range products {
		raw := &products[i]
		p, derived, err := raw.product()
		if err == nil {
			err = core.ValidateProduct(p)
		}
		if err != nil {
			warnings = s.warn(warnings, WarnInvalidProduct, raw.ID, err.Error())
			if id := strings.TrimSpace(raw.ID); id != "" && !known[id] {
				known[id] = false
			}
			continue
		}
		if derived {
			warnings = s.warn(warnings, WarnDerivedSlug, p.ID, fmt.Sprintf("slug %q derived from name", p.Slug))
		}
		known[p.ID] = true
		built = append(built, p)
	}

	byParent := make(map[string][]core.Variation)
	for i := range variations {
		v := &variations[i]
		parent := v.ParentID()
		if parent == "" {
			warnings = s.warn(warnings, WarnOrphanVariation, v.ID, "variation has no parent id")
			continue
		}
		valid, ok := known[parent]
		if !ok {
			warnings = s.warn(warnings, WarnOrphanVariation, v.ID, fmt.Sprintf("unknown parent %q", parent))
			continue
		}
		if !valid {
			warnings = s.warn(warnings, WarnOrphanVariation, v.ID, fmt.Sprintf("parent %q was dropped", parent))
			continue
		}
		byParent[parent] = append(byParent[parent], v.variation())
	}

	// A repeated id takes no variations; the first valid record owns them.
	owners := make(map[*core.Product]struct{}, len(byParent))
	for _, p := range built {
		if attached, ok := byParent[p.ID]; ok {
			p.Variations = attached
			owners[p] = struct{}{}
			delete(byParent, p.ID)
		}
	}

	s.logger.Debug("joined exports", "products", len(products), "variations", len(variations))
	result, err := s.prepare(built, warnings, false)
	if err != nil {
		return nil, err
	}

	// Owners dropped by prepare, for example on a duplicate slug, take their
	// variations with them.
	for _, p := range result.Catalog.Products {
		delete(owners, p)
	}
	for _, p := range built {
		if _, dropped := owners[p]; !dropped {
			continue
		}
		for _, v := range p.Variations {
			result.Warnings = s.warn(result.Warnings, WarnOrphanVariation, v.ID, fmt.Sprintf("parent %q was dropped", p.ID))
		}
	}
	return result, nil
}

// product converts the raw record. The boolean reports whether the slug was derived.
func (r *RawProduct) product() (*core.Product, bool, error) {
	if !r.Price.Valid {
		return nil, false, errors.New("missing price")
	}

	description, err := flattenDescription(r.Description)
	if err != nil {
		return nil, false, fmt.Errorf("description: %w", err)
	}

	slug := strings.TrimSpace(r.Slug)
	derived := false
	if slug == "" {
		slug = Slugify(r.Name)
		derived = slug != ""
	}

	p := &core.Product{
		ID:                  strings.TrimSpace(r.ID),
		Slug:                slug,
		Name:                r.Name,
		QuickDescription:    r.QuickDescription,
		Description:         description,
		QuickSpecifications: strings.TrimSpace(r.QuickSpecifications),
		Price:               core.MoneyFromDecimal(r.Price.Decimal),
		IsPromotional:       r.IsPromotional,
		Variations:          []core.Variation{},
	}
	if r.PromotionalPrice.Valid {
		promo := core.MoneyFromDecimal(r.PromotionalPrice.Decimal)
		p.PromotionalPrice = &promo
	}
	return p, derived, nil
}

// flattenDescription joins the trimmed, non-empty string leaves of a JSON value
// in document order. Object keys are not part of the text.
func flattenDescription(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	type frame struct {
		object  bool
		wantKey bool
	}

	var (
		parts []string
		stack []frame
	)
	dec := json.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, frame{object: true, wantKey: true})
			case '[':
				stack = append(stack, frame{})
			default:
				stack = stack[:len(stack)-1]
				if n := len(stack); n > 0 && stack[n-1].object {
					stack[n-1].wantKey = true
				}
			}
			continue
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].wantKey {
				stack[n-1].wantKey = false
				continue
			}
			if text := strings.TrimSpace(t); text != "" {
				parts = append(parts, text)
			}
		}

		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].wantKey = true
		}
	}
	return strings.Join(parts, " "), nil
}

// Slugify lower-cases ASCII letters and digits and turns every other run of
// characters into a single hyphen, trimming hyphens from both ends.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pending = true
	}
	return b.String()
}

// ReadExports parses a product export and a variation export, each a JSON array.
func ReadExports(productsPath, variationsPath string) ([]RawProduct, []RawVariation, error) {
	var products []RawProduct
	if err := readJSONFile(productsPath, &products); err != nil {
		return nil, nil, err
	}
	var variations []RawVariation
	if err := readJSONFile(variationsPath, &variations); err != nil {
		return nil, nil, err
	}
	return products, variations, nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadExport, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadExport, path, err)
	}
	return nil
}
