package builder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/vitrine/core"
	"github.com/shopspring/decimal"
)

type descriptionBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type descriptionDoc struct {
	Blocks []descriptionBlock `json:"blocks"`
}

// Exports renders a catalog as the two raw exports Join consumes. Descriptions
// are wrapped in a rich-text document. Join over the result rebuilds the catalog.
func Exports(catalog *core.Catalog) ([]RawProduct, []RawVariation, error) {
	products := make([]RawProduct, 0, len(catalog.Products))
	var variations []RawVariation
	for _, p := range catalog.Products {
		raw := RawProduct{
			ID:                  p.ID,
			Name:                p.Name,
			Slug:                p.Slug,
			Price:               decimal.NewNullDecimal(p.Price.Decimal()),
			QuickDescription:    p.QuickDescription,
			QuickSpecifications: p.QuickSpecifications,
			IsPromotional:       p.IsPromotional,
		}
		if p.PromotionalPrice != nil {
			raw.PromotionalPrice = decimal.NewNullDecimal(p.PromotionalPrice.Decimal())
		}
		if p.Description != "" {
			doc, err := json.Marshal(descriptionDoc{Blocks: []descriptionBlock{{Type: "paragraph", Text: p.Description}}})
			if err != nil {
				return nil, nil, fmt.Errorf("product %s description: %w", p.ID, err)
			}
			raw.Description = doc
		}
		products = append(products, raw)

		for _, v := range p.Variations {
			variations = append(variations, RawVariation{
				ID:               v.ID,
				FurnitureID:      p.ID,
				Name:             v.Name,
				QuickDescription: v.QuickDescription,
				Size:             v.Size,
				Color:            v.Color,
				SecondaryColor:   v.SecondaryColor,
			})
		}
	}
	if variations == nil {
		variations = []RawVariation{}
	}
	return products, variations, nil
}

// WriteExports writes products and variations as indented JSON arrays.
func WriteExports(products []RawProduct, variations []RawVariation, productsPath, variationsPath string) error {
	if err := writeJSONFile(productsPath, products); err != nil {
		return err
	}
	return writeJSONFile(variationsPath, variations)
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
